package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"dwellhub/internal/adapters/persistence/models"
	"dwellhub/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// CronService runs the scheduled jobs: morning booking reminders, lease
// expiry warnings and housekeeping.
type CronService struct {
	cron          *cron.Cron
	bookingRepo   *repositories.AmenityBookingRepository
	leaseRepo     *repositories.LeaseRepository
	tokenRepo     repositories.RefreshTokenRepository
	leaseService  *LeaseService
	notifyService *NotificationService
}

// NewCronService creates a new cron service
func NewCronService(
	bookingRepo *repositories.AmenityBookingRepository,
	leaseRepo *repositories.LeaseRepository,
	tokenRepo repositories.RefreshTokenRepository,
	leaseService *LeaseService,
	notifyService *NotificationService,
) *CronService {
	return &CronService{
		cron:          cron.New(),
		bookingRepo:   bookingRepo,
		leaseRepo:     leaseRepo,
		tokenRepo:     tokenRepo,
		leaseService:  leaseService,
		notifyService: notifyService,
	}
}

// Start registers and launches the scheduled jobs
func (s *CronService) Start() {
	// 08:00 daily: remind users of today's approved bookings
	s.cron.AddFunc("0 8 * * *", s.SendBookingReminders)

	// 09:00 daily: warn tenants whose lease ends within 30 days,
	// then expire leases already past their end date
	s.cron.AddFunc("0 9 * * *", s.ProcessLeaseExpiry)

	// 03:00 daily: purge expired refresh tokens
	s.cron.AddFunc("0 3 * * *", s.CleanupExpiredTokens)

	s.cron.Start()
	log.Println("🚀 Cron service started")
}

// Stop stops the scheduler, waiting for running jobs
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 Cron service stopped")
}

// SendBookingReminders notifies every user with an APPROVED booking today
func (s *CronService) SendBookingReminders() {
	ctx := context.Background()
	today := time.Now().Truncate(24 * time.Hour)

	bookings, err := s.bookingRepo.ListApprovedForDate(ctx, today)
	if err != nil {
		log.Printf("❌ Booking reminder query error: %v", err)
		return
	}

	for _, booking := range bookings {
		name := "your amenity"
		if booking.Amenity != nil {
			name = booking.Amenity.Name
		}
		s.notifyService.Notify(ctx, &NotifyInput{
			UserID:      booking.UserID,
			PropertyID:  &booking.PropertyID,
			Title:       "Booking today",
			Message:     fmt.Sprintf("Reminder: %s is booked for you today from %s to %s.", name, booking.StartTime, booking.EndTime),
			Type:        models.NotifyBooking,
			ReferenceID: &booking.ID,
		})
	}

	if len(bookings) > 0 {
		log.Printf("✅ Sent %d booking reminders", len(bookings))
	}
}

// ProcessLeaseExpiry warns tenants and their property manager of leases
// ending within 30 days, then expires leases already past their end date
func (s *CronService) ProcessLeaseExpiry() {
	ctx := context.Background()
	now := time.Now()

	leases, err := s.leaseRepo.ListExpiringBetween(ctx, now, now.AddDate(0, 0, 30))
	if err != nil {
		log.Printf("❌ Lease expiry query error: %v", err)
		return
	}

	for _, lease := range leases {
		days := int(time.Until(lease.EndDate).Hours() / 24)
		endDate := lease.EndDate.Format("2006-01-02")

		s.notifyService.Notify(ctx, &NotifyInput{
			UserID:      lease.TenantID,
			PropertyID:  &lease.PropertyID,
			Title:       "Lease ending soon",
			Message:     fmt.Sprintf("Your lease ends on %s (%d days). Contact management to renew.", endDate, days),
			Type:        models.NotifyLease,
			ReferenceID: &lease.ID,
		})

		if lease.Property != nil {
			tenantName := fmt.Sprintf("tenant %d", lease.TenantID)
			if lease.Tenant != nil {
				tenantName = lease.Tenant.FullName
			}
			s.notifyService.Notify(ctx, &NotifyInput{
				UserID:      lease.Property.ManagerID,
				PropertyID:  &lease.PropertyID,
				Title:       "Lease ending soon",
				Message:     fmt.Sprintf("The lease of %s (unit %d) ends on %s (%d days).", tenantName, lease.UnitID, endDate, days),
				Type:        models.NotifyLease,
				ReferenceID: &lease.ID,
			})
		}
	}

	if _, err := s.leaseService.ExpireDueLeases(ctx); err != nil {
		log.Printf("❌ Lease expiry error: %v", err)
	}
}

// CleanupExpiredTokens removes refresh tokens past their expiry
func (s *CronService) CleanupExpiredTokens() {
	if err := s.tokenRepo.DeleteExpired(context.Background()); err != nil {
		log.Printf("❌ Token cleanup error: %v", err)
		return
	}
	log.Println("✅ Expired refresh tokens purged")
}
