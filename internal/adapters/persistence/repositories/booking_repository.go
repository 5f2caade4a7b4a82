package repositories

import (
	"context"
	"time"

	"dwellhub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// AmenityBookingRepository handles amenity booking data access
type AmenityBookingRepository struct {
	db *gorm.DB
}

// NewAmenityBookingRepository creates a new amenity booking repository
func NewAmenityBookingRepository(db *gorm.DB) *AmenityBookingRepository {
	return &AmenityBookingRepository{db: db}
}

// DB exposes the underlying handle for transaction scoping
func (r *AmenityBookingRepository) DB() *gorm.DB {
	return r.db
}

// Create creates a new booking
func (r *AmenityBookingRepository) Create(ctx context.Context, booking *models.AmenityBooking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

// GetByID gets a booking by ID with relations
func (r *AmenityBookingRepository) GetByID(ctx context.Context, id uint) (*models.AmenityBooking, error) {
	var booking models.AmenityBooking
	err := r.db.WithContext(ctx).
		Preload("Property").
		Preload("Amenity").
		Preload("User").
		First(&booking, id).Error
	return &booking, err
}

// ListApprovedForSlot lists APPROVED bookings of the same amenity and date.
// Used by the conflict scan.
func (r *AmenityBookingRepository) ListApprovedForSlot(ctx context.Context, tx *gorm.DB, amenityID uint, date time.Time) ([]*models.AmenityBooking, error) {
	if tx == nil {
		tx = r.db
	}
	var bookings []*models.AmenityBooking
	err := tx.WithContext(ctx).
		Where("amenity_id = ?", amenityID).
		Where("booking_date = ?", date).
		Where("status = ?", models.BookingApproved).
		Find(&bookings).Error
	return bookings, err
}

// ListByProperty lists bookings of a property with pagination
func (r *AmenityBookingRepository) ListByProperty(ctx context.Context, propertyID uint, status string, offset, limit int) ([]*models.AmenityBooking, int64, error) {
	var bookings []*models.AmenityBooking
	var total int64

	query := r.db.WithContext(ctx).Model(&models.AmenityBooking{}).Where("property_id = ?", propertyID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	query.Count(&total)

	err := query.
		Preload("Amenity").
		Preload("User").
		Order("booking_date DESC, start_time ASC").
		Offset(offset).
		Limit(limit).
		Find(&bookings).Error

	return bookings, total, err
}

// ListByUser lists bookings made by a user
func (r *AmenityBookingRepository) ListByUser(ctx context.Context, userID uint) ([]*models.AmenityBooking, error) {
	var bookings []*models.AmenityBooking
	err := r.db.WithContext(ctx).
		Preload("Amenity").
		Preload("Property").
		Where("user_id = ?", userID).
		Order("booking_date DESC, start_time ASC").
		Find(&bookings).Error
	return bookings, err
}

// ListApprovedForDate lists all APPROVED bookings on a date (reminder job)
func (r *AmenityBookingRepository) ListApprovedForDate(ctx context.Context, date time.Time) ([]*models.AmenityBooking, error) {
	var bookings []*models.AmenityBooking
	err := r.db.WithContext(ctx).
		Preload("Amenity").
		Where("booking_date = ?", date).
		Where("status = ?", models.BookingApproved).
		Find(&bookings).Error
	return bookings, err
}

// Update updates a booking
func (r *AmenityBookingRepository) Update(ctx context.Context, booking *models.AmenityBooking) error {
	return r.db.WithContext(ctx).Save(booking).Error
}

// EventRepository handles event data access
type EventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create creates a new event
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// GetByID gets an event by ID
func (r *EventRepository) GetByID(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	err := r.db.WithContext(ctx).
		Preload("Property").
		First(&event, id).Error
	return &event, err
}

// ListByProperty lists upcoming events of a property with pagination
func (r *EventRepository) ListByProperty(ctx context.Context, propertyID uint, offset, limit int) ([]*models.Event, int64, error) {
	var events []*models.Event
	var total int64

	r.db.WithContext(ctx).Model(&models.Event{}).Where("property_id = ?", propertyID).Count(&total)

	err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("starts_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&events).Error

	return events, total, err
}

// Update updates an event
func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Save(event).Error
}

// Delete soft deletes an event
func (r *EventRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Event{}, id).Error
}

// EventRegistrationRepository handles event registration data access
type EventRegistrationRepository struct {
	db *gorm.DB
}

// NewEventRegistrationRepository creates a new event registration repository
func NewEventRegistrationRepository(db *gorm.DB) *EventRegistrationRepository {
	return &EventRegistrationRepository{db: db}
}

// Create creates a new registration
func (r *EventRegistrationRepository) Create(ctx context.Context, registration *models.EventRegistration) error {
	return r.db.WithContext(ctx).Create(registration).Error
}

// GetByID gets a registration by ID
func (r *EventRegistrationRepository) GetByID(ctx context.Context, id uint) (*models.EventRegistration, error) {
	var registration models.EventRegistration
	err := r.db.WithContext(ctx).
		Preload("Event").
		First(&registration, id).Error
	return &registration, err
}

// GetByEventAndUser gets a user's registration for an event, nil when none
func (r *EventRegistrationRepository) GetByEventAndUser(ctx context.Context, eventID, userID uint) (*models.EventRegistration, error) {
	var registration models.EventRegistration
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Where("user_id = ?", userID).
		First(&registration).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &registration, nil
}

// ListByEvent lists registrations of an event
func (r *EventRegistrationRepository) ListByEvent(ctx context.Context, eventID uint) ([]*models.EventRegistration, error) {
	var registrations []*models.EventRegistration
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&registrations).Error
	return registrations, err
}

// Update updates a registration
func (r *EventRegistrationRepository) Update(ctx context.Context, registration *models.EventRegistration) error {
	return r.db.WithContext(ctx).Save(registration).Error
}
