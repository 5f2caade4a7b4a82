package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Users & Auth
// ============================================================

// User roles
const (
	RoleTenant          = "TENANT"
	RolePropertyManager = "PROPERTY_MANAGER"
	RoleBuildingStaff   = "BUILDING_STAFF"
	RoleAdmin           = "ADMIN"
)

// Device types for push delivery
const (
	DeviceIOS     = "ios"
	DeviceAndroid = "android"
	DeviceWeb     = "web"
)

// User represents users table
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	FullName    string         `gorm:"size:100;not null" json:"full_name"`
	Email       string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password    string         `gorm:"size:255;not null" json:"-"`
	Phone       string         `gorm:"size:30" json:"phone"`
	Role        string         `gorm:"size:30;default:'TENANT'" json:"role"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	IsOnboarded bool           `gorm:"default:false" json:"is_onboarded"`
	PushToken   string         `gorm:"size:255" json:"-"`
	DeviceType  string         `gorm:"size:10" json:"device_type"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// IsStaffRole reports whether the user can act on behalf of a building.
func (u *User) IsStaffRole() bool {
	return u.Role == RoleAdmin || u.Role == RolePropertyManager || u.Role == RoleBuildingStaff
}

// UserResponse DTO
type UserResponse struct {
	ID          uint      `json:"id"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	Role        string    `json:"role"`
	IsActive    bool      `json:"is_active"`
	IsOnboarded bool      `json:"is_onboarded"`
	DeviceType  string    `json:"device_type,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		FullName:    u.FullName,
		Email:       u.Email,
		Phone:       u.Phone,
		Role:        u.Role,
		IsActive:    u.IsActive,
		IsOnboarded: u.IsOnboarded,
		DeviceType:  u.DeviceType,
		CreatedAt:   u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// Onboarding step status
const (
	StepStatusPending   = "PENDING"
	StepStatusCompleted = "COMPLETED"
)

// Onboarding step codes, completed in seeded order
const (
	StepProfile     = "PROFILE"
	StepDocuments   = "DOCUMENTS"
	StepLeaseReview = "LEASE_REVIEW"
	StepMoveIn      = "MOVE_IN"
)

// OnboardingStep represents one step of a tenant's move-in workflow
type OnboardingStep struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	Code        string     `gorm:"size:30;not null" json:"code"`
	Name        string     `gorm:"size:100;not null" json:"name"`
	StepOrder   int        `gorm:"not null" json:"step_order"`
	Status      string     `gorm:"size:20;not null;default:'PENDING'" json:"status"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (OnboardingStep) TableName() string {
	return "onboarding_steps"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// Users & auth
		&User{},
		&RefreshToken{},
		&OnboardingStep{},
		// Properties
		&Property{},
		&Amenity{},
		&Unit{},
		&Lease{},
		&BuildingAssignment{},
		// Operations
		&MaintenanceRequest{},
		&MaintenanceEvent{},
		&Payment{},
		&Package{},
		&Document{},
		// Bookings & events
		&AmenityBooking{},
		&Event{},
		&EventRegistration{},
		// Notifications
		&Notification{},
	)
}
