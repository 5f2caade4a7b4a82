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

// Event service errors
var (
	ErrEventNotFound        = errors.New("event not found")
	ErrEventInPast          = errors.New("event is in the past")
	ErrAlreadyRegistered    = errors.New("already registered for this event")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrRegistrationClosed   = errors.New("registration already cancelled")
	ErrInvalidCapacity      = errors.New("max attendees must be positive")
)

// EventService handles building events and attendance. Registrations past
// capacity go to the waitlist; cancelling a confirmed spot does not
// promote anyone, the next registration simply finds the freed seat.
type EventService struct {
	eventRepo        *repositories.EventRepository
	registrationRepo *repositories.EventRegistrationRepository
	propertyRepo     *repositories.PropertyRepository
	assignmentRepo   *repositories.BuildingAssignmentRepository
	notifyService    *NotificationService
}

// NewEventService creates a new event service
func NewEventService(
	eventRepo *repositories.EventRepository,
	registrationRepo *repositories.EventRegistrationRepository,
	propertyRepo *repositories.PropertyRepository,
	assignmentRepo *repositories.BuildingAssignmentRepository,
	notifyService *NotificationService,
) *EventService {
	return &EventService{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		propertyRepo:     propertyRepo,
		assignmentRepo:   assignmentRepo,
		notifyService:    notifyService,
	}
}

// CreateEventInput represents event creation input
type CreateEventInput struct {
	PropertyID   uint      `json:"property_id" validate:"required"`
	Title        string    `json:"title" validate:"required,max=200"`
	Description  string    `json:"description,omitempty"`
	Location     string    `json:"location,omitempty"`
	StartsAt     time.Time `json:"starts_at" validate:"required"`
	EndsAt       time.Time `json:"ends_at,omitempty"`
	MaxAttendees int       `json:"max_attendees" validate:"required,gt=0"`
}

// Create creates an event for a property
func (s *EventService) Create(ctx context.Context, actor authz.Actor, input *CreateEventInput) (*models.Event, error) {
	if input.MaxAttendees <= 0 {
		return nil, ErrInvalidCapacity
	}

	property, err := s.propertyRepo.GetByID(ctx, input.PropertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}

	if !authz.CanManage(actor, property.ManagerID) && actor.Role != models.RoleBuildingStaff {
		return nil, ErrNotAllowed
	}

	event := &models.Event{
		PropertyID:   input.PropertyID,
		Title:        input.Title,
		Description:  input.Description,
		Location:     input.Location,
		StartsAt:     input.StartsAt,
		EndsAt:       input.EndsAt,
		MaxAttendees: input.MaxAttendees,
		CreatedByID:  actor.UserID,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	log.Printf("✅ Event %d created: %s", event.ID, event.Title)
	return event, nil
}

// Get gets an event by ID
func (s *EventService) Get(ctx context.Context, id uint) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

// ListForProperty lists a property's events
func (s *EventService) ListForProperty(ctx context.Context, propertyID uint, offset, limit int) ([]*models.Event, int64, error) {
	return s.eventRepo.ListByProperty(ctx, propertyID, offset, limit)
}

// Register registers a user for an event. Under capacity the spot is
// CONFIRMED; at capacity the user is WAITLISTED at waitlist length + 1.
func (s *EventService) Register(ctx context.Context, userID, eventID uint) (*models.EventRegistration, error) {
	event, err := s.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if event.StartsAt.Before(time.Now()) {
		return nil, ErrEventInPast
	}

	active, err := s.assignmentRepo.HasActive(ctx, userID, event.PropertyID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, ErrNoActiveAssignment
	}

	existing, err := s.registrationRepo.GetByEventAndUser(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Status != models.RegistrationCancelled {
		return nil, ErrAlreadyRegistered
	}

	registration := &models.EventRegistration{
		EventID: eventID,
		UserID:  userID,
	}

	if event.IsFull() {
		registration.Status = models.RegistrationWaitlisted
		registration.Position = event.WaitlistCount + 1
		event.WaitlistCount++
	} else {
		registration.Status = models.RegistrationConfirmed
		event.CurrentAttendees++
	}

	// A cancelled registration re-registers as a fresh row state
	if existing != nil {
		existing.Status = registration.Status
		existing.Position = registration.Position
		registration = existing
		if err := s.registrationRepo.Update(ctx, registration); err != nil {
			return nil, err
		}
	} else {
		if err := s.registrationRepo.Create(ctx, registration); err != nil {
			return nil, err
		}
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}

	log.Printf("✅ User %d registered for event %d (%s)", userID, eventID, registration.Status)
	return registration, nil
}

// CancelRegistration cancels a user's registration. A confirmed cancel
// frees one seat; a waitlisted cancel shrinks the waitlist. Cancelling
// twice is rejected so the counters stay correct.
func (s *EventService) CancelRegistration(ctx context.Context, userID, eventID uint) (*models.EventRegistration, error) {
	event, err := s.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}

	registration, err := s.registrationRepo.GetByEventAndUser(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if registration == nil {
		return nil, ErrRegistrationNotFound
	}

	if registration.Status == models.RegistrationCancelled {
		return nil, ErrRegistrationClosed
	}

	switch registration.Status {
	case models.RegistrationConfirmed:
		if event.CurrentAttendees > 0 {
			event.CurrentAttendees--
		}
	case models.RegistrationWaitlisted:
		if event.WaitlistCount > 0 {
			event.WaitlistCount--
		}
	}

	registration.Status = models.RegistrationCancelled
	registration.Position = 0

	if err := s.registrationRepo.Update(ctx, registration); err != nil {
		return nil, err
	}
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}

	log.Printf("✅ User %d cancelled registration for event %d", userID, eventID)
	return registration, nil
}

// ListAttendees lists an event's registrations
func (s *EventService) ListAttendees(ctx context.Context, actor authz.Actor, eventID uint) ([]*models.EventRegistration, error) {
	event, err := s.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}

	property, err := s.propertyRepo.GetByID(ctx, event.PropertyID)
	if err != nil {
		return nil, err
	}
	if !authz.CanManage(actor, property.ManagerID) && actor.Role != models.RoleBuildingStaff {
		return nil, ErrNotAllowed
	}

	return s.registrationRepo.ListByEvent(ctx, eventID)
}

// Delete removes an event and notifies confirmed attendees
func (s *EventService) Delete(ctx context.Context, actor authz.Actor, eventID uint) error {
	event, err := s.Get(ctx, eventID)
	if err != nil {
		return err
	}

	property, err := s.propertyRepo.GetByID(ctx, event.PropertyID)
	if err != nil {
		return err
	}
	if !authz.CanManage(actor, property.ManagerID) {
		return ErrNotAllowed
	}

	registrations, err := s.registrationRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return err
	}

	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		return err
	}

	if s.notifyService != nil {
		for _, reg := range registrations {
			if reg.Status == models.RegistrationCancelled {
				continue
			}
			s.notifyService.Notify(ctx, &NotifyInput{
				UserID:      reg.UserID,
				PropertyID:  &event.PropertyID,
				Title:       "Event cancelled",
				Message:     event.Title + " has been cancelled.",
				Type:        models.NotifyEvent,
				ReferenceID: &event.ID,
			})
		}
	}

	log.Printf("✅ Event %d deleted", eventID)
	return nil
}
