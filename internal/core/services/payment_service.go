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

// Payment service errors
var (
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
	ErrPaymentNotPending    = errors.New("payment is not pending")
	ErrInvalidPayMethod     = errors.New("invalid payment method")
)

// PaymentService handles rent and fee payment logic
type PaymentService struct {
	paymentRepo   *repositories.PaymentRepository
	leaseRepo     *repositories.LeaseRepository
	propertyRepo  *repositories.PropertyRepository
	userRepo      repositories.UserRepository
	notifyService *NotificationService
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	paymentRepo *repositories.PaymentRepository,
	leaseRepo *repositories.LeaseRepository,
	propertyRepo *repositories.PropertyRepository,
	userRepo repositories.UserRepository,
	notifyService *NotificationService,
) *PaymentService {
	return &PaymentService{
		paymentRepo:   paymentRepo,
		leaseRepo:     leaseRepo,
		propertyRepo:  propertyRepo,
		userRepo:      userRepo,
		notifyService: notifyService,
	}
}

// CreatePaymentInput represents payment creation input
type CreatePaymentInput struct {
	TenantID uint       `json:"tenant_id" validate:"required"`
	LeaseID  *uint      `json:"lease_id,omitempty"`
	Amount   float64    `json:"amount" validate:"required,gt=0"`
	DueDate  *time.Time `json:"due_date,omitempty"`
}

// Create opens a PENDING payment against a tenant. When a lease is given
// the payment binds to its property; otherwise the tenant's active lease
// supplies it.
func (s *PaymentService) Create(ctx context.Context, actor authz.Actor, input *CreatePaymentInput) (*models.Payment, error) {
	var lease *models.Lease
	var err error

	if input.LeaseID != nil {
		lease, err = s.leaseRepo.GetByID(ctx, *input.LeaseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrLeaseNotFound
			}
			return nil, err
		}
	} else {
		lease, err = s.leaseRepo.GetActiveByTenant(ctx, input.TenantID)
		if err != nil {
			return nil, err
		}
		if lease == nil {
			return nil, ErrLeaseNotFound
		}
	}

	property, err := s.propertyRepo.GetByID(ctx, lease.PropertyID)
	if err != nil {
		return nil, err
	}
	if !authz.CanManage(actor, property.ManagerID) {
		return nil, ErrNotAllowed
	}

	payment := &models.Payment{
		PropertyID: lease.PropertyID,
		LeaseID:    &lease.ID,
		TenantID:   input.TenantID,
		Amount:     input.Amount,
		Status:     models.PaymentPending,
		DueDate:    input.DueDate,
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	log.Printf("✅ Payment %d created: tenant %d, amount %.2f", payment.ID, input.TenantID, input.Amount)

	if s.notifyService != nil {
		msg := fmt.Sprintf("A payment of %.2f is due.", input.Amount)
		if input.DueDate != nil {
			msg = fmt.Sprintf("A payment of %.2f is due by %s.", input.Amount, input.DueDate.Format("2006-01-02"))
		}
		s.notifyService.Notify(ctx, &NotifyInput{
			UserID:      input.TenantID,
			PropertyID:  &lease.PropertyID,
			Title:       "Payment due",
			Message:     msg,
			Type:        models.NotifyPayment,
			ReferenceID: &payment.ID,
		})
	}

	return payment, nil
}

// Get gets a payment. Visible to the tenant and property management.
func (s *PaymentService) Get(ctx context.Context, actor authz.Actor, id uint) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	property, err := s.propertyRepo.GetByID(ctx, payment.PropertyID)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, authz.Resource{OwnerID: payment.TenantID, ManagerID: property.ManagerID}, authz.ActionView) {
		return nil, ErrNotAllowed
	}

	return payment, nil
}

// ListForProperty lists a property's payments with optional status filter
func (s *PaymentService) ListForProperty(ctx context.Context, actor authz.Actor, propertyID uint, status string, offset, limit int) ([]*models.Payment, int64, error) {
	if status != "" && !validPaymentStatus(status) {
		return nil, 0, ErrInvalidPaymentStatus
	}

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

	return s.paymentRepo.ListByProperty(ctx, propertyID, status, offset, limit)
}

// ListByTenant lists a tenant's payments, newest first
func (s *PaymentService) ListByTenant(ctx context.Context, tenantID uint) ([]*models.Payment, error) {
	return s.paymentRepo.ListByTenant(ctx, tenantID)
}

// NextPending returns the tenant's next pending payment by due date, nil
// when up to date
func (s *PaymentService) NextPending(ctx context.Context, tenantID uint) (*models.Payment, error) {
	return s.paymentRepo.GetNextPendingByTenant(ctx, tenantID)
}

// PayInput represents payment settlement input
type PayInput struct {
	Method    string `json:"method" validate:"required"`
	Reference string `json:"reference,omitempty"`
}

// Pay settles a PENDING payment. Only the tenant it belongs to may pay it.
func (s *PaymentService) Pay(ctx context.Context, tenantID, paymentID uint, input *PayInput) (*models.Payment, error) {
	switch input.Method {
	case models.PayMethodCard, models.PayMethodTransfer, models.PayMethodCash:
	default:
		return nil, ErrInvalidPayMethod
	}

	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	if payment.TenantID != tenantID {
		return nil, ErrNotAllowed
	}

	if payment.Status != models.PaymentPending {
		return nil, ErrPaymentNotPending
	}

	now := time.Now()
	payment.Status = models.PaymentCompleted
	payment.Method = input.Method
	payment.Reference = input.Reference
	payment.PaidAt = &now

	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return nil, err
	}

	log.Printf("✅ Payment %d completed by tenant %d", payment.ID, tenantID)

	if s.notifyService != nil {
		if property, err := s.propertyRepo.GetByID(ctx, payment.PropertyID); err == nil {
			s.notifyService.Notify(ctx, &NotifyInput{
				UserID:      property.ManagerID,
				PropertyID:  &payment.PropertyID,
				Title:       "Payment received",
				Message:     fmt.Sprintf("Tenant payment of %.2f received (%s).", payment.Amount, payment.Method),
				Type:        models.NotifyPayment,
				ReferenceID: &payment.ID,
			})
		}
	}

	return payment, nil
}

// UpdateStatus moves a payment to any valid status (management side:
// refunds, failures, cancellations)
func (s *PaymentService) UpdateStatus(ctx context.Context, actor authz.Actor, paymentID uint, status string) (*models.Payment, error) {
	if !validPaymentStatus(status) {
		return nil, ErrInvalidPaymentStatus
	}

	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	property, err := s.propertyRepo.GetByID(ctx, payment.PropertyID)
	if err != nil {
		return nil, err
	}
	if !authz.CanManage(actor, property.ManagerID) {
		return nil, ErrNotAllowed
	}

	payment.Status = status
	if status == models.PaymentCompleted && payment.PaidAt == nil {
		now := time.Now()
		payment.PaidAt = &now
	}

	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return nil, err
	}

	return payment, nil
}

// validPaymentStatus checks membership in the accepted status values
func validPaymentStatus(status string) bool {
	for _, s := range models.PaymentStatuses {
		if s == status {
			return true
		}
	}
	return false
}
