package repositories

import (
	"context"
	"time"

	"dwellhub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// NotificationRepository handles notification data access
type NotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create creates a new notification
func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

// GetByID gets a notification by ID
func (r *NotificationRepository) GetByID(ctx context.Context, id uint) (*models.Notification, error) {
	var notification models.Notification
	err := r.db.WithContext(ctx).First(&notification, id).Error
	return &notification, err
}

// ListByUser lists notifications of a user with pagination, newest first
func (r *NotificationRepository) ListByUser(ctx context.Context, userID uint, status string, offset, limit int) ([]*models.Notification, int64, error) {
	var notifications []*models.Notification
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Notification{}).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	query.Count(&total)

	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&notifications).Error

	return notifications, total, err
}

// CountUnreadByUser counts UNREAD notifications of a user
func (r *NotificationRepository) CountUnreadByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ?", userID).
		Where("status = ?", models.NotificationUnread).
		Count(&count).Error
	return count, err
}

// MarkAllRead marks every UNREAD notification of a user as READ
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID uint) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ?", userID).
		Where("status = ?", models.NotificationUnread).
		Updates(map[string]interface{}{
			"status":  models.NotificationRead,
			"read_at": now,
		}).Error
}

// Update updates a notification
func (r *NotificationRepository) Update(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Save(notification).Error
}

// OnboardingStepRepository handles onboarding step data access
type OnboardingStepRepository struct {
	db *gorm.DB
}

// NewOnboardingStepRepository creates a new onboarding step repository
func NewOnboardingStepRepository(db *gorm.DB) *OnboardingStepRepository {
	return &OnboardingStepRepository{db: db}
}

// CreateBatch inserts the step rows for a user
func (r *OnboardingStepRepository) CreateBatch(ctx context.Context, steps []*models.OnboardingStep) error {
	return r.db.WithContext(ctx).Create(&steps).Error
}

// ListByUser lists a user's steps ordered by step_order
func (r *OnboardingStepRepository) ListByUser(ctx context.Context, userID uint) ([]*models.OnboardingStep, error) {
	var steps []*models.OnboardingStep
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("step_order ASC").
		Find(&steps).Error
	return steps, err
}

// GetByUserAndCode gets a user's step by code
func (r *OnboardingStepRepository) GetByUserAndCode(ctx context.Context, userID uint, code string) (*models.OnboardingStep, error) {
	var step models.OnboardingStep
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("code = ?", code).
		First(&step).Error
	return &step, err
}

// CountPendingByUser counts steps not yet completed
func (r *OnboardingStepRepository) CountPendingByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.OnboardingStep{}).
		Where("user_id = ?", userID).
		Where("status = ?", models.StepStatusPending).
		Count(&count).Error
	return count, err
}

// Update updates a step
func (r *OnboardingStepRepository) Update(ctx context.Context, step *models.OnboardingStep) error {
	return r.db.WithContext(ctx).Save(step).Error
}
