package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Properties & Units
// ============================================================

// Property represents a managed building
type Property struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:100;not null" json:"name"`
	Address     string         `gorm:"size:255;not null" json:"address"`
	City        string         `gorm:"size:100" json:"city"`
	PostalCode  string         `gorm:"size:20" json:"postal_code"`
	ManagerID   uint           `gorm:"not null;index" json:"manager_id"`
	Description string         `gorm:"type:text" json:"description"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Manager   *User     `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`
	Units     []Unit    `gorm:"foreignKey:PropertyID" json:"units,omitempty"`
	Amenities []Amenity `gorm:"foreignKey:PropertyID" json:"amenities,omitempty"`
}

func (Property) TableName() string {
	return "properties"
}

// Amenity represents a bookable shared resource of a property (pool, gym, ...)
type Amenity struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	PropertyID  uint           `gorm:"not null;index" json:"property_id"`
	Name        string         `gorm:"size:100;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Property *Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
}

func (Amenity) TableName() string {
	return "amenities"
}

// Unit status
const (
	UnitAvailable   = "AVAILABLE"
	UnitOccupied    = "OCCUPIED"
	UnitMaintenance = "MAINTENANCE"
	UnitReserved    = "RESERVED"
)

// Unit represents an individually leasable space within a property
type Unit struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	PropertyID      uint           `gorm:"not null;index" json:"property_id"`
	UnitNumber      string         `gorm:"size:20;not null" json:"unit_number"`
	Floor           int            `json:"floor"`
	Bedrooms        int            `json:"bedrooms"`
	SquareMeters    float64        `gorm:"type:decimal(8,2)" json:"square_meters"`
	RentAmount      float64        `gorm:"type:decimal(12,2)" json:"rent_amount"`
	Status          string         `gorm:"size:20;not null;default:'AVAILABLE'" json:"status"`
	CurrentTenantID *uint          `gorm:"index" json:"current_tenant_id"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Property      *Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	CurrentTenant *User     `gorm:"foreignKey:CurrentTenantID" json:"current_tenant,omitempty"`
}

func (Unit) TableName() string {
	return "units"
}

// Lease status
const (
	LeasePending    = "PENDING"
	LeaseActive     = "ACTIVE"
	LeaseExpired    = "EXPIRED"
	LeaseTerminated = "TERMINATED"
)

// Lease binds a tenant to a unit for a date range
type Lease struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	PropertyID    uint           `gorm:"not null;index" json:"property_id"`
	UnitID        uint           `gorm:"not null;index" json:"unit_id"`
	TenantID      uint           `gorm:"not null;index" json:"tenant_id"`
	StartDate     time.Time      `gorm:"type:date;not null" json:"start_date"`
	EndDate       time.Time      `gorm:"type:date;not null" json:"end_date"`
	MonthlyRent   float64        `gorm:"type:decimal(12,2);not null" json:"monthly_rent"`
	DepositAmount float64        `gorm:"type:decimal(12,2)" json:"deposit_amount"`
	Status        string         `gorm:"size:20;not null;default:'ACTIVE'" json:"status"`
	TerminatedAt  *time.Time     `json:"terminated_at"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Property *Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	Unit     *Unit     `gorm:"foreignKey:UnitID" json:"unit,omitempty"`
	Tenant   *User     `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
}

func (Lease) TableName() string {
	return "leases"
}

// BuildingAssignment grants a user (tenant or staff) access to a property
// for a date range. IsActive gates every scoped access check.
type BuildingAssignment struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	PropertyID uint       `gorm:"not null;index" json:"property_id"`
	UserID     uint       `gorm:"not null;index" json:"user_id"`
	StartDate  time.Time  `gorm:"type:date;not null" json:"start_date"`
	EndDate    *time.Time `gorm:"type:date" json:"end_date"`
	IsActive   bool       `gorm:"default:true;index" json:"is_active"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Property *Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	User     *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (BuildingAssignment) TableName() string {
	return "building_assignments"
}
