package repositories

import (
	"context"
	"time"

	"dwellhub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// PaymentRepository handles payment data access
type PaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create creates a new payment
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// GetByID gets a payment by ID with relations
func (r *PaymentRepository) GetByID(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Preload("Property").
		Preload("Lease").
		Preload("Tenant").
		First(&payment, id).Error
	return &payment, err
}

// ListByProperty lists payments of a property with pagination
func (r *PaymentRepository) ListByProperty(ctx context.Context, propertyID uint, status string, offset, limit int) ([]*models.Payment, int64, error) {
	var payments []*models.Payment
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Payment{}).Where("property_id = ?", propertyID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	query.Count(&total)

	err := query.
		Preload("Tenant").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&payments).Error

	return payments, total, err
}

// ListByTenant lists payments of a tenant
func (r *PaymentRepository) ListByTenant(ctx context.Context, tenantID uint) ([]*models.Payment, error) {
	var payments []*models.Payment
	err := r.db.WithContext(ctx).
		Preload("Lease").
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}

// GetNextPendingByTenant gets the tenant's earliest-due pending payment, nil when none
func (r *PaymentRepository) GetNextPendingByTenant(ctx context.Context, tenantID uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Where("status = ?", models.PaymentPending).
		Order("due_date ASC NULLS LAST").
		First(&payment).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

// SumCompletedByPropertySince sums completed payment amounts of a property
// from the given time onward
func (r *PaymentRepository) SumCompletedByPropertySince(ctx context.Context, propertyID uint, since time.Time) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("property_id = ?", propertyID).
		Where("status = ?", models.PaymentCompleted).
		Where("paid_at >= ?", since).
		Scan(&total).Error
	return total, err
}

// SumCompletedSince sums all completed payment amounts from the given
// time onward
func (r *PaymentRepository) SumCompletedSince(ctx context.Context, since time.Time) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("status = ?", models.PaymentCompleted).
		Where("paid_at >= ?", since).
		Scan(&total).Error
	return total, err
}

// Update updates a payment
func (r *PaymentRepository) Update(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

// Delete soft deletes a payment
func (r *PaymentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Payment{}, id).Error
}
