package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Amenity Bookings
// ============================================================

// Amenity booking status
const (
	BookingPending   = "PENDING"
	BookingApproved  = "APPROVED"
	BookingRejected  = "REJECTED"
	BookingCancelled = "CANCELLED"
)

// AmenityBooking is a time-ranged reservation of a shared building resource.
// StartTime/EndTime are zero-padded "HH:MM" strings, so lexicographic
// comparison matches chronological order.
type AmenityBooking struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	PropertyID  uint           `gorm:"not null;index" json:"property_id"`
	AmenityID   uint           `gorm:"not null;index" json:"amenity_id"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	BookingDate time.Time      `gorm:"type:date;not null;index" json:"booking_date"`
	StartTime   string         `gorm:"size:5;not null" json:"start_time"`
	EndTime     string         `gorm:"size:5;not null" json:"end_time"`
	Status      string         `gorm:"size:20;not null;default:'PENDING'" json:"status"`
	DecidedByID *uint          `json:"decided_by_id"`
	DecidedAt   *time.Time     `json:"decided_at"`
	Note        string         `gorm:"type:text" json:"note"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Property  *Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	Amenity   *Amenity  `gorm:"foreignKey:AmenityID" json:"amenity,omitempty"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	DecidedBy *User     `gorm:"foreignKey:DecidedByID" json:"decided_by,omitempty"`
}

func (AmenityBooking) TableName() string {
	return "amenity_bookings"
}

// ============================================================
// Events & Registrations
// ============================================================

// Event represents a building event with limited capacity
type Event struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	PropertyID       uint           `gorm:"not null;index" json:"property_id"`
	Title            string         `gorm:"size:200;not null" json:"title"`
	Description      string         `gorm:"type:text" json:"description"`
	Location         string         `gorm:"size:200" json:"location"`
	StartsAt         time.Time      `gorm:"not null" json:"starts_at"`
	EndsAt           time.Time      `json:"ends_at"`
	MaxAttendees     int            `gorm:"not null" json:"max_attendees"`
	CurrentAttendees int            `gorm:"default:0" json:"current_attendees"`
	WaitlistCount    int            `gorm:"default:0" json:"waitlist_count"`
	CreatedByID      uint           `gorm:"not null" json:"created_by_id"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Property  *Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	CreatedBy *User     `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
}

func (Event) TableName() string {
	return "events"
}

// IsFull reports whether the event has reached capacity.
func (e *Event) IsFull() bool {
	return e.CurrentAttendees >= e.MaxAttendees
}

// Registration status
const (
	RegistrationConfirmed  = "CONFIRMED"
	RegistrationWaitlisted = "WAITLISTED"
	RegistrationCancelled  = "CANCELLED"
)

// EventRegistration represents a user's spot (or waitlist position) at an event
type EventRegistration struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EventID   uint      `gorm:"not null;index" json:"event_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Status    string    `gorm:"size:20;not null" json:"status"`
	Position  int       `gorm:"default:0" json:"position"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Event *Event `gorm:"foreignKey:EventID" json:"event,omitempty"`
	User  *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (EventRegistration) TableName() string {
	return "event_registrations"
}
