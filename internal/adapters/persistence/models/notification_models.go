package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification status
const (
	NotificationUnread   = "UNREAD"
	NotificationRead     = "READ"
	NotificationArchived = "ARCHIVED"
)

// Notification types
const (
	NotifyMaintenance = "MAINTENANCE"
	NotifyPayment     = "PAYMENT"
	NotifyBooking     = "BOOKING"
	NotifyEvent       = "EVENT"
	NotifyPackage     = "PACKAGE"
	NotifyLease       = "LEASE"
	NotifyGeneral     = "GENERAL"
)

// Notification represents a user-targeted message. Delivery flags record
// the initial best-effort attempt only; there is no retry.
type Notification struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	PropertyID  *uint          `gorm:"index" json:"property_id"`
	Title       string         `gorm:"size:200;not null" json:"title"`
	Message     string         `gorm:"type:text;not null" json:"message"`
	Type        string         `gorm:"size:30;not null;default:'GENERAL'" json:"type"`
	Status      string         `gorm:"size:20;not null;default:'UNREAD'" json:"status"`
	ReferenceID *uint          `json:"reference_id"`
	PushSent    bool           `gorm:"default:false" json:"push_sent"`
	EmailSent   bool           `gorm:"default:false" json:"email_sent"`
	Metadata    datatypes.JSON `json:"metadata"`
	ReadAt      *time.Time     `json:"read_at"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	User     *User     `gorm:"foreignKey:UserID" json:"-"`
	Property *Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}
