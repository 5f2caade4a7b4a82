package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/smtp"
	"strings"
	"time"

	"dwellhub/internal/adapters/persistence/models"
	"dwellhub/internal/adapters/persistence/repositories"
	"dwellhub/internal/config"

	"gorm.io/gorm"
)

// Notification errors
var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNoActiveAssignment   = errors.New("no active assignment for this property")

	// ErrNotAllowed is returned across services when the actor fails the
	// capability check for the record.
	ErrNotAllowed = errors.New("not allowed")
)

// NotificationService persists notifications and pushes them out over the
// delivery channels. Channel failures are logged only; the stored row is the
// source of truth.
type NotificationService struct {
	notificationRepo *repositories.NotificationRepository
	assignmentRepo   *repositories.BuildingAssignmentRepository
	userRepo         repositories.UserRepository
	cfg              *config.Config
	httpClient       *http.Client
}

// NewNotificationService creates a new notification service
func NewNotificationService(
	notificationRepo *repositories.NotificationRepository,
	assignmentRepo *repositories.BuildingAssignmentRepository,
	userRepo repositories.UserRepository,
	cfg *config.Config,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		assignmentRepo:   assignmentRepo,
		userRepo:         userRepo,
		cfg:              cfg,
		httpClient:       &http.Client{Timeout: 10 * time.Second},
	}
}

// NotifyInput represents a notification to deliver
type NotifyInput struct {
	UserID      uint
	PropertyID  *uint
	Title       string
	Message     string
	Type        string
	ReferenceID *uint
}

// Notify stores an UNREAD notification and attempts push and email delivery.
// The recipient must exist; delivery is best effort and the row is created
// even when both channels fail.
func (s *NotificationService) Notify(ctx context.Context, input *NotifyInput) (*models.Notification, error) {
	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	notifType := input.Type
	if notifType == "" {
		notifType = models.NotifyGeneral
	}

	notification := &models.Notification{
		UserID:      input.UserID,
		PropertyID:  input.PropertyID,
		Title:       input.Title,
		Message:     input.Message,
		Type:        notifType,
		Status:      models.NotificationUnread,
		ReferenceID: input.ReferenceID,
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return nil, err
	}

	if user.PushToken != "" {
		if err := s.sendPush(user, input.Title, input.Message); err != nil {
			log.Printf("⚠️ Push delivery failed for user %d: %v", user.ID, err)
		} else {
			notification.PushSent = true
		}
	}

	if user.Email != "" && s.cfg.SMTP.Host != "" {
		if err := s.sendEmail(user.Email, input.Title, input.Message); err != nil {
			log.Printf("⚠️ Email delivery failed for user %d: %v", user.ID, err)
		} else {
			notification.EmailSent = true
		}
	}

	if notification.PushSent || notification.EmailSent {
		if err := s.notificationRepo.Update(ctx, notification); err != nil {
			log.Printf("⚠️ Failed to record delivery flags for notification %d: %v", notification.ID, err)
		}
	}

	return notification, nil
}

// AnnounceInput represents a staff-created notification scoped to a property
type AnnounceInput struct {
	PropertyID  uint   `json:"property_id" validate:"required"`
	UserID      uint   `json:"user_id" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Message     string `json:"message" validate:"required"`
	Type        string `json:"type,omitempty"`
	ReferenceID *uint  `json:"reference_id,omitempty"`
}

// Announce creates a notification on behalf of building staff. The sender
// must hold an active assignment to the property; without one nothing is
// stored and ErrNoActiveAssignment is returned.
func (s *NotificationService) Announce(ctx context.Context, senderID uint, senderRole string, input *AnnounceInput) (*models.Notification, error) {
	if senderRole != models.RoleAdmin {
		active, err := s.assignmentRepo.HasActive(ctx, senderID, input.PropertyID)
		if err != nil {
			return nil, err
		}
		if !active {
			return nil, ErrNoActiveAssignment
		}
	}

	return s.Notify(ctx, &NotifyInput{
		UserID:      input.UserID,
		PropertyID:  &input.PropertyID,
		Title:       input.Title,
		Message:     input.Message,
		Type:        input.Type,
		ReferenceID: input.ReferenceID,
	})
}

// List lists a user's notifications, newest first
func (s *NotificationService) List(ctx context.Context, userID uint, status string, offset, limit int) ([]*models.Notification, int64, error) {
	return s.notificationRepo.ListByUser(ctx, userID, status, offset, limit)
}

// CountUnread counts a user's UNREAD notifications
func (s *NotificationService) CountUnread(ctx context.Context, userID uint) (int64, error) {
	return s.notificationRepo.CountUnreadByUser(ctx, userID)
}

// MarkRead marks a notification READ. Only the recipient may do so.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID uint) (*models.Notification, error) {
	notification, err := s.notificationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}

	if notification.UserID != userID {
		return nil, ErrNotAllowed
	}

	if notification.Status == models.NotificationUnread {
		now := time.Now()
		notification.Status = models.NotificationRead
		notification.ReadAt = &now
		if err := s.notificationRepo.Update(ctx, notification); err != nil {
			return nil, err
		}
	}

	return notification, nil
}

// MarkAllRead marks every UNREAD notification of the user as READ
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}

// Archive moves a notification to ARCHIVED
func (s *NotificationService) Archive(ctx context.Context, id, userID uint) (*models.Notification, error) {
	notification, err := s.notificationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}

	if notification.UserID != userID {
		return nil, ErrNotAllowed
	}

	notification.Status = models.NotificationArchived
	if err := s.notificationRepo.Update(ctx, notification); err != nil {
		return nil, err
	}

	return notification, nil
}

// sendPush routes the push by the device type registered with the token:
// ios and android go through Expo, anything else through FCM. Tokens
// registered before a device type was stored fall back to the token shape.
func (s *NotificationService) sendPush(user *models.User, title, message string) error {
	switch user.DeviceType {
	case models.DeviceIOS, models.DeviceAndroid:
		return s.sendExpoPush(user.PushToken, title, message)
	case "":
		if strings.HasPrefix(user.PushToken, "ExponentPushToken") {
			return s.sendExpoPush(user.PushToken, title, message)
		}
	}
	return s.sendFCMPush(user.PushToken, title, message)
}

// sendExpoPush sends a push message via the Expo push API
func (s *NotificationService) sendExpoPush(token, title, message string) error {
	payload := map[string]interface{}{
		"to":    token,
		"title": title,
		"body":  message,
		"sound": "default",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", s.cfg.Push.ExpoURL, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("expo push returned status %d", resp.StatusCode)
	}
	return nil
}

// sendFCMPush sends a push message via the FCM legacy HTTP API
func (s *NotificationService) sendFCMPush(token, title, message string) error {
	if s.cfg.Push.FCMServerKey == "" {
		return errors.New("fcm server key not configured")
	}

	payload := map[string]interface{}{
		"to": token,
		"notification": map[string]string{
			"title": title,
			"body":  message,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", s.cfg.Push.FCMURL, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+s.cfg.Push.FCMServerKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("fcm push returned status %d", resp.StatusCode)
	}
	return nil
}

// sendEmail sends a plain text email through the configured SMTP relay
func (s *NotificationService) sendEmail(to, subject, message string) error {
	addr := s.cfg.SMTP.Host + ":" + s.cfg.SMTP.Port

	msg := []byte("From: " + s.cfg.SMTP.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" +
		message + "\r\n")

	var auth smtp.Auth
	if s.cfg.SMTP.User != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTP.User, s.cfg.SMTP.Password, s.cfg.SMTP.Host)
	}

	return smtp.SendMail(addr, auth, s.cfg.SMTP.From, []string{to}, msg)
}
