package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ============================================================
// Maintenance
// ============================================================

// Maintenance request status
const (
	MaintenancePending    = "PENDING"
	MaintenanceAssigned   = "ASSIGNED"
	MaintenanceInProgress = "IN_PROGRESS"
	MaintenanceCompleted  = "COMPLETED"
	MaintenanceCancelled  = "CANCELLED"
)

// MaintenanceStatuses lists every accepted status value
var MaintenanceStatuses = []string{
	MaintenancePending,
	MaintenanceAssigned,
	MaintenanceInProgress,
	MaintenanceCompleted,
	MaintenanceCancelled,
}

// MaintenanceRequest represents a tenant-submitted ticket
type MaintenanceRequest struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	PropertyID   uint           `gorm:"not null;index" json:"property_id"`
	UnitID       uint           `gorm:"not null;index" json:"unit_id"`
	TenantID     uint           `gorm:"not null;index" json:"tenant_id"`
	Title        string         `gorm:"size:200;not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	Category     string         `gorm:"size:50" json:"category"`
	Priority     string         `gorm:"size:20;default:'NORMAL'" json:"priority"`
	Status       string         `gorm:"size:20;not null;default:'PENDING'" json:"status"`
	AssignedToID *uint          `gorm:"index" json:"assigned_to_id"`
	Completion   datatypes.JSON `json:"completion"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Property   *Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	Unit       *Unit     `gorm:"foreignKey:UnitID" json:"unit,omitempty"`
	Tenant     *User     `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
	AssignedTo *User     `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
}

func (MaintenanceRequest) TableName() string {
	return "maintenance_requests"
}

// Maintenance event types
const (
	MaintEventCreate       = "CREATE"
	MaintEventAssign       = "ASSIGN"
	MaintEventStatusChange = "STATUS_CHANGE"
	MaintEventComplete     = "COMPLETE"
	MaintEventCancel       = "CANCEL"
)

// MaintenanceEvent is the history row written on every ticket change
type MaintenanceEvent struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RequestID   uint      `gorm:"not null;index" json:"request_id"`
	EventType   string    `gorm:"size:30;not null" json:"event_type"`
	FromStatus  string    `gorm:"size:20" json:"from_status"`
	ToStatus    string    `gorm:"size:20" json:"to_status"`
	Note        string    `gorm:"type:text" json:"note"`
	PerformedBy uint      `gorm:"not null" json:"performed_by"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relations
	Request   *MaintenanceRequest `gorm:"foreignKey:RequestID" json:"request,omitempty"`
	Performer *User               `gorm:"foreignKey:PerformedBy" json:"performer,omitempty"`
}

func (MaintenanceEvent) TableName() string {
	return "maintenance_events"
}

// ============================================================
// Payments
// ============================================================

// Payment status
const (
	PaymentPending   = "PENDING"
	PaymentCompleted = "COMPLETED"
	PaymentFailed    = "FAILED"
	PaymentRefunded  = "REFUNDED"
	PaymentCancelled = "CANCELLED"
)

// PaymentStatuses lists every accepted status value
var PaymentStatuses = []string{
	PaymentPending,
	PaymentCompleted,
	PaymentFailed,
	PaymentRefunded,
	PaymentCancelled,
}

// Payment methods
const (
	PayMethodCard     = "CARD"
	PayMethodTransfer = "BANK_TRANSFER"
	PayMethodCash     = "CASH"
)

// Payment represents a rent or fee payment
type Payment struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	PropertyID uint           `gorm:"not null;index" json:"property_id"`
	LeaseID    *uint          `gorm:"index" json:"lease_id"`
	TenantID   uint           `gorm:"not null;index" json:"tenant_id"`
	Amount     float64        `gorm:"type:decimal(12,2);not null" json:"amount"`
	Method     string         `gorm:"size:30" json:"method"`
	Status     string         `gorm:"size:20;not null;default:'PENDING'" json:"status"`
	Reference  string         `gorm:"size:100" json:"reference"`
	DueDate    *time.Time     `gorm:"type:date" json:"due_date"`
	PaidAt     *time.Time     `json:"paid_at"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Property *Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	Lease  *Lease    `gorm:"foreignKey:LeaseID" json:"lease,omitempty"`
	Tenant *User     `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
}

func (Payment) TableName() string {
	return "payments"
}

// ============================================================
// Packages & Documents
// ============================================================

// Package status
const (
	PackageLogged   = "LOGGED"
	PackagePickedUp = "PICKED_UP"
)

// Package represents a delivery logged at the front desk for a tenant
type Package struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	PropertyID     uint       `gorm:"not null;index" json:"property_id"`
	TenantID       uint       `gorm:"not null;index" json:"tenant_id"`
	Carrier        string     `gorm:"size:50" json:"carrier"`
	TrackingNumber string     `gorm:"size:100" json:"tracking_number"`
	Status         string     `gorm:"size:20;not null;default:'LOGGED'" json:"status"`
	LoggedByID     uint       `gorm:"not null" json:"logged_by_id"`
	PickedUpAt     *time.Time `json:"picked_up_at"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Property *Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	Tenant   *User     `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
	LoggedBy *User     `gorm:"foreignKey:LoggedByID" json:"logged_by,omitempty"`
}

func (Package) TableName() string {
	return "packages"
}

// Document represents an uploaded file's metadata
type Document struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	PropertyID  *uint          `gorm:"index" json:"property_id"`
	OwnerID     uint           `gorm:"not null;index" json:"owner_id"`
	Name        string         `gorm:"size:200;not null" json:"name"`
	StorageKey  string         `gorm:"size:100;uniqueIndex;not null" json:"storage_key"`
	ContentType string         `gorm:"size:100" json:"content_type"`
	SizeBytes   int64          `json:"size_bytes"`
	Extra       datatypes.JSON `json:"extra"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Property *Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	Owner *User     `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
}

func (Document) TableName() string {
	return "documents"
}
