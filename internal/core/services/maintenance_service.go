package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"dwellhub/internal/adapters/persistence/models"
	"dwellhub/internal/adapters/persistence/repositories"
	"dwellhub/internal/pkg/authz"

	"gorm.io/gorm"
)

// Maintenance service errors
var (
	ErrRequestNotFound          = errors.New("maintenance request not found")
	ErrInvalidMaintenanceStatus = errors.New("invalid maintenance status")
	ErrRequestClosed            = errors.New("maintenance request already closed")
	ErrAssigneeNotStaff         = errors.New("assignee must hold a staff role")
)

// MaintenanceService handles the ticket lifecycle. Every change writes a
// history event row alongside the request itself.
type MaintenanceService struct {
	maintenanceRepo *repositories.MaintenanceRepository
	eventRepo       *repositories.MaintenanceEventRepository
	unitRepo        *repositories.UnitRepository
	propertyRepo    *repositories.PropertyRepository
	assignmentRepo  *repositories.BuildingAssignmentRepository
	userRepo        repositories.UserRepository
	notifyService   *NotificationService
}

// NewMaintenanceService creates a new maintenance service
func NewMaintenanceService(
	maintenanceRepo *repositories.MaintenanceRepository,
	eventRepo *repositories.MaintenanceEventRepository,
	unitRepo *repositories.UnitRepository,
	propertyRepo *repositories.PropertyRepository,
	assignmentRepo *repositories.BuildingAssignmentRepository,
	userRepo repositories.UserRepository,
	notifyService *NotificationService,
) *MaintenanceService {
	return &MaintenanceService{
		maintenanceRepo: maintenanceRepo,
		eventRepo:       eventRepo,
		unitRepo:        unitRepo,
		propertyRepo:    propertyRepo,
		assignmentRepo:  assignmentRepo,
		userRepo:        userRepo,
		notifyService:   notifyService,
	}
}

// CreateRequestInput represents ticket creation input
type CreateRequestInput struct {
	UnitID      uint   `json:"unit_id" validate:"required"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Priority    string `json:"priority,omitempty"`
}

// Create opens a PENDING ticket. The tenant must hold an active assignment
// to the unit's property.
func (s *MaintenanceService) Create(ctx context.Context, tenantID uint, input *CreateRequestInput) (*models.MaintenanceRequest, error) {
	unit, err := s.unitRepo.GetByID(ctx, input.UnitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnitNotFound
		}
		return nil, err
	}

	active, err := s.assignmentRepo.HasActive(ctx, tenantID, unit.PropertyID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, ErrNoActiveAssignment
	}

	priority := input.Priority
	if priority == "" {
		priority = "NORMAL"
	}

	request := &models.MaintenanceRequest{
		PropertyID:  unit.PropertyID,
		UnitID:      input.UnitID,
		TenantID:    tenantID,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Priority:    priority,
		Status:      models.MaintenancePending,
	}

	if err := s.maintenanceRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	s.recordEvent(ctx, request.ID, models.MaintEventCreate, "", models.MaintenancePending, "", tenantID)

	log.Printf("✅ Maintenance request %d created for unit %d", request.ID, unit.ID)

	if s.notifyService != nil {
		if property, err := s.propertyRepo.GetByID(ctx, unit.PropertyID); err == nil {
			s.notifyService.Notify(ctx, &NotifyInput{
				UserID:      property.ManagerID,
				PropertyID:  &unit.PropertyID,
				Title:       "New maintenance request",
				Message:     fmt.Sprintf("Unit %s reported: %s", unit.UnitNumber, input.Title),
				Type:        models.NotifyMaintenance,
				ReferenceID: &request.ID,
			})
		}
	}

	return request, nil
}

// Get gets a ticket. Visible to the requester, the assignee and property
// management.
func (s *MaintenanceService) Get(ctx context.Context, actor authz.Actor, id uint) (*models.MaintenanceRequest, error) {
	request, err := s.maintenanceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	if request.AssignedToID != nil && *request.AssignedToID == actor.UserID {
		return request, nil
	}

	property, err := s.propertyRepo.GetByID(ctx, request.PropertyID)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, authz.Resource{OwnerID: request.TenantID, ManagerID: property.ManagerID}, authz.ActionView) {
		return nil, ErrNotAllowed
	}

	return request, nil
}

// ListForProperty lists a property's tickets with optional status filter
func (s *MaintenanceService) ListForProperty(ctx context.Context, actor authz.Actor, propertyID uint, status string, offset, limit int) ([]*models.MaintenanceRequest, int64, error) {
	if status != "" && !validMaintenanceStatus(status) {
		return nil, 0, ErrInvalidMaintenanceStatus
	}

	property, err := s.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrPropertyNotFound
		}
		return nil, 0, err
	}
	if !authz.CanManage(actor, property.ManagerID) && actor.Role != models.RoleBuildingStaff {
		return nil, 0, ErrNotAllowed
	}

	return s.maintenanceRepo.ListByProperty(ctx, propertyID, status, offset, limit)
}

// ListByTenant lists a tenant's own tickets
func (s *MaintenanceService) ListByTenant(ctx context.Context, tenantID uint) ([]*models.MaintenanceRequest, error) {
	return s.maintenanceRepo.ListByTenant(ctx, tenantID)
}

// Assign routes a ticket to a staff member and moves it to ASSIGNED
func (s *MaintenanceService) Assign(ctx context.Context, actor authz.Actor, requestID, staffID uint) (*models.MaintenanceRequest, error) {
	request, property, err := s.getManaged(ctx, actor, requestID)
	if err != nil {
		return nil, err
	}

	if request.Status == models.MaintenanceCompleted || request.Status == models.MaintenanceCancelled {
		return nil, ErrRequestClosed
	}

	staff, err := s.userRepo.GetByID(ctx, staffID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if !staff.IsStaffRole() {
		return nil, ErrAssigneeNotStaff
	}

	fromStatus := request.Status
	request.AssignedToID = &staffID
	request.Status = models.MaintenanceAssigned

	if err := s.maintenanceRepo.Update(ctx, request); err != nil {
		return nil, err
	}

	s.recordEvent(ctx, request.ID, models.MaintEventAssign, fromStatus, models.MaintenanceAssigned, "", actor.UserID)

	if s.notifyService != nil {
		s.notifyService.Notify(ctx, &NotifyInput{
			UserID:      staffID,
			PropertyID:  &property.ID,
			Title:       "Maintenance assigned to you",
			Message:     request.Title,
			Type:        models.NotifyMaintenance,
			ReferenceID: &request.ID,
		})
	}

	return request, nil
}

// UpdateStatus moves a ticket to any valid status value. Closed tickets
// stay closed.
func (s *MaintenanceService) UpdateStatus(ctx context.Context, actor authz.Actor, requestID uint, status, note string) (*models.MaintenanceRequest, error) {
	if !validMaintenanceStatus(status) {
		return nil, ErrInvalidMaintenanceStatus
	}

	request, _, err := s.getActionable(ctx, actor, requestID)
	if err != nil {
		return nil, err
	}

	if request.Status == models.MaintenanceCompleted || request.Status == models.MaintenanceCancelled {
		return nil, ErrRequestClosed
	}

	fromStatus := request.Status
	request.Status = status

	if err := s.maintenanceRepo.Update(ctx, request); err != nil {
		return nil, err
	}

	s.recordEvent(ctx, request.ID, models.MaintEventStatusChange, fromStatus, status, note, actor.UserID)

	if s.notifyService != nil {
		s.notifyService.Notify(ctx, &NotifyInput{
			UserID:      request.TenantID,
			PropertyID:  &request.PropertyID,
			Title:       "Maintenance update",
			Message:     fmt.Sprintf("%s is now %s", request.Title, status),
			Type:        models.NotifyMaintenance,
			ReferenceID: &request.ID,
		})
	}

	return request, nil
}

// CompleteInput represents completion details recorded on the ticket
type CompleteInput struct {
	Note       string  `json:"note,omitempty"`
	LaborHours float64 `json:"labor_hours,omitempty"`
	PartsCost  float64 `json:"parts_cost,omitempty"`
}

// Complete closes the ticket with a completion record
func (s *MaintenanceService) Complete(ctx context.Context, actor authz.Actor, requestID uint, input *CompleteInput) (*models.MaintenanceRequest, error) {
	request, _, err := s.getActionable(ctx, actor, requestID)
	if err != nil {
		return nil, err
	}

	if request.Status == models.MaintenanceCompleted || request.Status == models.MaintenanceCancelled {
		return nil, ErrRequestClosed
	}

	completion, err := json.Marshal(map[string]interface{}{
		"note":         input.Note,
		"labor_hours":  input.LaborHours,
		"parts_cost":   input.PartsCost,
		"completed_by": actor.UserID,
		"completed_at": time.Now().Format(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}

	fromStatus := request.Status
	request.Status = models.MaintenanceCompleted
	request.Completion = completion

	if err := s.maintenanceRepo.Update(ctx, request); err != nil {
		return nil, err
	}

	s.recordEvent(ctx, request.ID, models.MaintEventComplete, fromStatus, models.MaintenanceCompleted, input.Note, actor.UserID)

	log.Printf("✅ Maintenance request %d completed", request.ID)

	if s.notifyService != nil {
		s.notifyService.Notify(ctx, &NotifyInput{
			UserID:      request.TenantID,
			PropertyID:  &request.PropertyID,
			Title:       "Maintenance completed",
			Message:     request.Title,
			Type:        models.NotifyMaintenance,
			ReferenceID: &request.ID,
		})
	}

	return request, nil
}

// Cancel closes the ticket without work done. The requester may cancel
// their own ticket; management may cancel any.
func (s *MaintenanceService) Cancel(ctx context.Context, actor authz.Actor, requestID uint, note string) (*models.MaintenanceRequest, error) {
	request, err := s.maintenanceRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	property, err := s.propertyRepo.GetByID(ctx, request.PropertyID)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, authz.Resource{OwnerID: request.TenantID, ManagerID: property.ManagerID}, authz.ActionCancel) {
		return nil, ErrNotAllowed
	}

	if request.Status == models.MaintenanceCompleted || request.Status == models.MaintenanceCancelled {
		return nil, ErrRequestClosed
	}

	fromStatus := request.Status
	request.Status = models.MaintenanceCancelled

	if err := s.maintenanceRepo.Update(ctx, request); err != nil {
		return nil, err
	}

	s.recordEvent(ctx, request.ID, models.MaintEventCancel, fromStatus, models.MaintenanceCancelled, note, actor.UserID)

	return request, nil
}

// History returns the ticket's event rows, oldest first
func (s *MaintenanceService) History(ctx context.Context, actor authz.Actor, requestID uint) ([]*models.MaintenanceEvent, error) {
	if _, err := s.Get(ctx, actor, requestID); err != nil {
		return nil, err
	}
	return s.eventRepo.GetByRequestID(ctx, requestID)
}

// getManaged loads a ticket and checks property-management rights
func (s *MaintenanceService) getManaged(ctx context.Context, actor authz.Actor, requestID uint) (*models.MaintenanceRequest, *models.Property, error) {
	request, err := s.maintenanceRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrRequestNotFound
		}
		return nil, nil, err
	}

	property, err := s.propertyRepo.GetByID(ctx, request.PropertyID)
	if err != nil {
		return nil, nil, err
	}
	if !authz.CanManage(actor, property.ManagerID) {
		return nil, nil, ErrNotAllowed
	}

	return request, property, nil
}

// getActionable loads a ticket for the assignee or property management
func (s *MaintenanceService) getActionable(ctx context.Context, actor authz.Actor, requestID uint) (*models.MaintenanceRequest, *models.Property, error) {
	request, err := s.maintenanceRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrRequestNotFound
		}
		return nil, nil, err
	}

	property, err := s.propertyRepo.GetByID(ctx, request.PropertyID)
	if err != nil {
		return nil, nil, err
	}

	if request.AssignedToID != nil && *request.AssignedToID == actor.UserID {
		return request, property, nil
	}
	if !authz.CanManage(actor, property.ManagerID) {
		return nil, nil, ErrNotAllowed
	}

	return request, property, nil
}

// recordEvent writes a history row; failures are logged, not surfaced
func (s *MaintenanceService) recordEvent(ctx context.Context, requestID uint, eventType, fromStatus, toStatus, note string, performedBy uint) {
	event := &models.MaintenanceEvent{
		RequestID:   requestID,
		EventType:   eventType,
		FromStatus:  fromStatus,
		ToStatus:    toStatus,
		Note:        note,
		PerformedBy: performedBy,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		log.Printf("⚠️ Failed to record maintenance event for request %d: %v", requestID, err)
	}
}

// validMaintenanceStatus checks membership in the accepted status values
func validMaintenanceStatus(status string) bool {
	for _, s := range models.MaintenanceStatuses {
		if s == status {
			return true
		}
	}
	return false
}
