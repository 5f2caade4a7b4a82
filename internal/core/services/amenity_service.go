package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"dwellhub/internal/adapters/persistence/models"
	"dwellhub/internal/adapters/persistence/repositories"
	"dwellhub/internal/pkg/authz"

	"gorm.io/gorm"
)

// Booking service errors
var (
	ErrBookingNotFound   = errors.New("booking not found")
	ErrBookingNotPending = errors.New("booking is not pending")
	ErrBookingClosed     = errors.New("booking already closed")
	ErrBookingConflict   = errors.New("time slot conflicts with an approved booking")
	ErrInvalidTimeSlot   = errors.New("invalid time slot")
	ErrAmenityInactive   = errors.New("amenity is not active")
)

// AmenityBookingService handles the amenity booking lifecycle. Requests
// start PENDING; both create and approve scan for collisions against
// already APPROVED bookings of the same amenity and date.
type AmenityBookingService struct {
	bookingRepo    *repositories.AmenityBookingRepository
	amenityRepo    *repositories.AmenityRepository
	propertyRepo   *repositories.PropertyRepository
	assignmentRepo *repositories.BuildingAssignmentRepository
	notifyService  *NotificationService
}

// NewAmenityBookingService creates a new amenity booking service
func NewAmenityBookingService(
	bookingRepo *repositories.AmenityBookingRepository,
	amenityRepo *repositories.AmenityRepository,
	propertyRepo *repositories.PropertyRepository,
	assignmentRepo *repositories.BuildingAssignmentRepository,
	notifyService *NotificationService,
) *AmenityBookingService {
	return &AmenityBookingService{
		bookingRepo:    bookingRepo,
		amenityRepo:    amenityRepo,
		propertyRepo:   propertyRepo,
		assignmentRepo: assignmentRepo,
		notifyService:  notifyService,
	}
}

// CreateBookingInput represents booking request input
type CreateBookingInput struct {
	AmenityID   uint      `json:"amenity_id" validate:"required"`
	BookingDate time.Time `json:"booking_date" validate:"required"`
	StartTime   string    `json:"start_time" validate:"required"`
	EndTime     string    `json:"end_time" validate:"required"`
	Note        string    `json:"note,omitempty"`
}

// Create files a PENDING booking request. The requester must hold an
// active assignment to the amenity's property, and the slot must not
// collide with an APPROVED booking. The scan and the insert run in one
// transaction so a booking approved between them cannot slip through.
func (s *AmenityBookingService) Create(ctx context.Context, userID uint, input *CreateBookingInput) (*models.AmenityBooking, error) {
	if !validTimeSlot(input.StartTime, input.EndTime) {
		return nil, ErrInvalidTimeSlot
	}

	amenity, err := s.amenityRepo.GetByID(ctx, input.AmenityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAmenityNotFound
		}
		return nil, err
	}
	if !amenity.IsActive {
		return nil, ErrAmenityInactive
	}

	active, err := s.assignmentRepo.HasActive(ctx, userID, amenity.PropertyID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, ErrNoActiveAssignment
	}

	booking := &models.AmenityBooking{
		PropertyID:  amenity.PropertyID,
		AmenityID:   input.AmenityID,
		UserID:      userID,
		BookingDate: input.BookingDate,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		Status:      models.BookingPending,
		Note:        input.Note,
	}

	err = s.bookingRepo.DB().Transaction(func(tx *gorm.DB) error {
		approved, err := s.bookingRepo.ListApprovedForSlot(ctx, tx, input.AmenityID, input.BookingDate)
		if err != nil {
			return err
		}

		if SlotConflicts(approved, input.StartTime, input.EndTime) {
			return ErrBookingConflict
		}

		return tx.WithContext(ctx).Create(booking).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Booking %d requested: amenity %d, %s %s-%s", booking.ID, amenity.ID,
		input.BookingDate.Format("2006-01-02"), input.StartTime, input.EndTime)

	return booking, nil
}

// Get gets a booking. Visible to the booker and property management.
func (s *AmenityBookingService) Get(ctx context.Context, actor authz.Actor, id uint) (*models.AmenityBooking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	property, err := s.propertyRepo.GetByID(ctx, booking.PropertyID)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, authz.Resource{OwnerID: booking.UserID, ManagerID: property.ManagerID}, authz.ActionView) {
		return nil, ErrNotAllowed
	}

	return booking, nil
}

// ListForProperty lists a property's bookings with optional status filter
func (s *AmenityBookingService) ListForProperty(ctx context.Context, actor authz.Actor, propertyID uint, status string, offset, limit int) ([]*models.AmenityBooking, int64, error) {
	property, err := s.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrPropertyNotFound
		}
		return nil, 0, err
	}
	if !authz.CanManage(actor, property.ManagerID) {
		return nil, 0, ErrNotAllowed
	}

	return s.bookingRepo.ListByProperty(ctx, propertyID, status, offset, limit)
}

// ListByUser lists a user's own bookings
func (s *AmenityBookingService) ListByUser(ctx context.Context, userID uint) ([]*models.AmenityBooking, error) {
	return s.bookingRepo.ListByUser(ctx, userID)
}

// Approve approves a PENDING booking after re-running the conflict scan
// against APPROVED bookings of the same amenity and date. Two overlapping
// requests both pass the create-time scan while neither is approved, so
// the scan repeats here; it runs in one transaction with the status flip
// so two concurrent approvals cannot both pass.
func (s *AmenityBookingService) Approve(ctx context.Context, actor authz.Actor, id uint) (*models.AmenityBooking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	property, err := s.propertyRepo.GetByID(ctx, booking.PropertyID)
	if err != nil {
		return nil, err
	}
	if !authz.CanManage(actor, property.ManagerID) {
		return nil, ErrNotAllowed
	}

	if booking.Status != models.BookingPending {
		return nil, ErrBookingNotPending
	}

	err = s.bookingRepo.DB().Transaction(func(tx *gorm.DB) error {
		approved, err := s.bookingRepo.ListApprovedForSlot(ctx, tx, booking.AmenityID, booking.BookingDate)
		if err != nil {
			return err
		}

		if SlotConflicts(approved, booking.StartTime, booking.EndTime) {
			return ErrBookingConflict
		}

		now := time.Now()
		booking.Status = models.BookingApproved
		booking.DecidedByID = &actor.UserID
		booking.DecidedAt = &now

		return tx.WithContext(ctx).Save(booking).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Booking %d approved", booking.ID)

	if s.notifyService != nil {
		s.notifyService.Notify(ctx, &NotifyInput{
			UserID:      booking.UserID,
			PropertyID:  &booking.PropertyID,
			Title:       "Booking approved",
			Message:     bookingSlotMessage("Your booking", booking),
			Type:        models.NotifyBooking,
			ReferenceID: &booking.ID,
		})
	}

	return booking, nil
}

// Reject rejects a PENDING booking
func (s *AmenityBookingService) Reject(ctx context.Context, actor authz.Actor, id uint, note string) (*models.AmenityBooking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	property, err := s.propertyRepo.GetByID(ctx, booking.PropertyID)
	if err != nil {
		return nil, err
	}
	if !authz.CanManage(actor, property.ManagerID) {
		return nil, ErrNotAllowed
	}

	if booking.Status != models.BookingPending {
		return nil, ErrBookingNotPending
	}

	now := time.Now()
	booking.Status = models.BookingRejected
	booking.DecidedByID = &actor.UserID
	booking.DecidedAt = &now
	if note != "" {
		booking.Note = note
	}

	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}

	if s.notifyService != nil {
		s.notifyService.Notify(ctx, &NotifyInput{
			UserID:      booking.UserID,
			PropertyID:  &booking.PropertyID,
			Title:       "Booking rejected",
			Message:     bookingSlotMessage("Your booking", booking),
			Type:        models.NotifyBooking,
			ReferenceID: &booking.ID,
		})
	}

	return booking, nil
}

// Cancel cancels a booking. The booker may cancel their own PENDING or
// APPROVED booking; management may cancel any open booking.
func (s *AmenityBookingService) Cancel(ctx context.Context, actor authz.Actor, id uint) (*models.AmenityBooking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	property, err := s.propertyRepo.GetByID(ctx, booking.PropertyID)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, authz.Resource{OwnerID: booking.UserID, ManagerID: property.ManagerID}, authz.ActionCancel) {
		return nil, ErrNotAllowed
	}

	if booking.Status == models.BookingCancelled || booking.Status == models.BookingRejected {
		return nil, ErrBookingClosed
	}

	booking.Status = models.BookingCancelled
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}

	log.Printf("✅ Booking %d cancelled", booking.ID)
	return booking, nil
}

// SlotConflicts reports whether the requested slot collides with any of
// the given bookings. A collision is an existing booking that is running
// at the requested start, or still running at the requested end. Times
// are zero-padded "HH:MM" strings compared lexicographically.
func SlotConflicts(existing []*models.AmenityBooking, startTime, endTime string) bool {
	for _, b := range existing {
		if (b.StartTime <= startTime && b.EndTime >= startTime) ||
			(b.StartTime <= endTime && b.EndTime >= endTime) {
			return true
		}
	}
	return false
}

// validTimeSlot checks both times parse as HH:MM and start precedes end
func validTimeSlot(startTime, endTime string) bool {
	if _, err := time.Parse("15:04", startTime); err != nil {
		return false
	}
	if _, err := time.Parse("15:04", endTime); err != nil {
		return false
	}
	return startTime < endTime
}

// bookingSlotMessage formats a user-facing description of the slot
func bookingSlotMessage(prefix string, booking *models.AmenityBooking) string {
	name := "the amenity"
	if booking.Amenity != nil {
		name = booking.Amenity.Name
	}
	return fmt.Sprintf("%s for %s on %s from %s to %s.",
		prefix, name, booking.BookingDate.Format("2006-01-02"), booking.StartTime, booking.EndTime)
}
