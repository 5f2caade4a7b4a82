package services

import (
	"context"
	"errors"
	"log"
	"time"

	"dwellhub/internal/adapters/persistence/models"
	"dwellhub/internal/adapters/persistence/repositories"
	"dwellhub/internal/pkg/authz"

	"gorm.io/gorm"
)

// Assignment errors
var (
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrAssignmentExists   = errors.New("user already assigned to this property")
	ErrAssignmentEnded    = errors.New("assignment already ended")
)

// AssignmentService manages which users belong to which buildings. An
// active assignment is what lets a tenant or staff member act within a
// property's scope.
type AssignmentService struct {
	assignmentRepo *repositories.BuildingAssignmentRepository
	propertyRepo   *repositories.PropertyRepository
	userRepo       repositories.UserRepository
}

// NewAssignmentService creates a new assignment service
func NewAssignmentService(
	assignmentRepo *repositories.BuildingAssignmentRepository,
	propertyRepo *repositories.PropertyRepository,
	userRepo repositories.UserRepository,
) *AssignmentService {
	return &AssignmentService{
		assignmentRepo: assignmentRepo,
		propertyRepo:   propertyRepo,
		userRepo:       userRepo,
	}
}

// CreateAssignmentInput represents assignment creation input
type CreateAssignmentInput struct {
	PropertyID uint       `json:"property_id" validate:"required"`
	UserID     uint       `json:"user_id" validate:"required"`
	StartDate  time.Time  `json:"start_date" validate:"required"`
	EndDate    *time.Time `json:"end_date,omitempty"`
}

// Create assigns a user to a property
func (s *AssignmentService) Create(ctx context.Context, actor authz.Actor, input *CreateAssignmentInput) (*models.BuildingAssignment, error) {
	property, err := s.propertyRepo.GetByID(ctx, input.PropertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}

	if !authz.CanManage(actor, property.ManagerID) {
		return nil, ErrNotAllowed
	}

	if _, err := s.userRepo.GetByID(ctx, input.UserID); err != nil {
		return nil, ErrUserNotFound
	}

	active, err := s.assignmentRepo.HasActive(ctx, input.UserID, input.PropertyID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, ErrAssignmentExists
	}

	assignment := &models.BuildingAssignment{
		PropertyID: input.PropertyID,
		UserID:     input.UserID,
		StartDate:  input.StartDate,
		EndDate:    input.EndDate,
		IsActive:   true,
	}

	if err := s.assignmentRepo.Create(ctx, assignment); err != nil {
		return nil, err
	}

	log.Printf("✅ User %d assigned to property %d", input.UserID, input.PropertyID)
	return assignment, nil
}

// End closes an assignment, revoking the user's access to the property
func (s *AssignmentService) End(ctx context.Context, actor authz.Actor, id uint) (*models.BuildingAssignment, error) {
	assignment, err := s.assignmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}

	property, err := s.propertyRepo.GetByID(ctx, assignment.PropertyID)
	if err != nil {
		return nil, err
	}
	if !authz.CanManage(actor, property.ManagerID) {
		return nil, ErrNotAllowed
	}

	if !assignment.IsActive {
		return nil, ErrAssignmentEnded
	}

	now := time.Now()
	assignment.IsActive = false
	assignment.EndDate = &now

	if err := s.assignmentRepo.Update(ctx, assignment); err != nil {
		return nil, err
	}

	log.Printf("✅ Assignment %d ended", assignment.ID)
	return assignment, nil
}

// ListByProperty lists a property's assignments
func (s *AssignmentService) ListByProperty(ctx context.Context, actor authz.Actor, propertyID uint) ([]*models.BuildingAssignment, error) {
	property, err := s.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	if !authz.CanManage(actor, property.ManagerID) {
		return nil, ErrNotAllowed
	}

	return s.assignmentRepo.ListByProperty(ctx, propertyID)
}

// ListByUser lists the buildings a user belongs to
func (s *AssignmentService) ListByUser(ctx context.Context, userID uint) ([]*models.BuildingAssignment, error) {
	return s.assignmentRepo.ListByUser(ctx, userID)
}

// HasActive reports whether the user holds an active assignment to the
// property
func (s *AssignmentService) HasActive(ctx context.Context, userID, propertyID uint) (bool, error) {
	return s.assignmentRepo.HasActive(ctx, userID, propertyID)
}
