package services

import (
	"context"
	"testing"
	"time"

	"dwellhub/internal/adapters/persistence/models"
	"dwellhub/internal/adapters/persistence/repositories"
	"dwellhub/internal/pkg/authz"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newPaymentService(db *gorm.DB) *PaymentService {
	return NewPaymentService(
		repositories.NewPaymentRepository(db),
		repositories.NewLeaseRepository(db),
		repositories.NewPropertyRepository(db),
		repositories.NewUserRepository(db),
		newTestNotifyService(db),
	)
}

// paymentFixture wires a manager, tenant and active lease so payments can
// bind to the tenant's lease.
func paymentFixture(t *testing.T, db *gorm.DB) (*models.User, *models.User, *models.Property) {
	t.Helper()

	manager := createTestUser(t, db, models.RolePropertyManager)
	tenant := createTestUser(t, db, models.RoleTenant)
	property := createTestProperty(t, db, manager.ID)
	unit := createTestUnit(t, db, property.ID, models.UnitAvailable)

	leaseSvc := newLeaseService(db)
	actor := authz.Actor{UserID: manager.ID, Role: models.RolePropertyManager}
	_, err := leaseSvc.Create(context.Background(), actor,
		leaseInput(unit.ID, tenant.ID, time.Now(), time.Now().AddDate(1, 0, 0)))
	require.NoError(t, err)

	return manager, tenant, property
}

func TestCreatePayment_BindsToActiveLease(t *testing.T) {
	db := setupTestDB(t)
	svc := newPaymentService(db)
	ctx := context.Background()

	manager, tenant, property := paymentFixture(t, db)
	actor := authz.Actor{UserID: manager.ID, Role: models.RolePropertyManager}

	due := time.Now().AddDate(0, 0, 14)
	payment, err := svc.Create(ctx, actor, &CreatePaymentInput{
		TenantID: tenant.ID,
		Amount:   1200,
		DueDate:  &due,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, payment.Status)
	assert.Equal(t, property.ID, payment.PropertyID)
	require.NotNil(t, payment.LeaseID)
}

func TestCreatePayment_NoActiveLease(t *testing.T) {
	db := setupTestDB(t)
	svc := newPaymentService(db)

	manager := createTestUser(t, db, models.RolePropertyManager)
	tenant := createTestUser(t, db, models.RoleTenant)
	createTestProperty(t, db, manager.ID)

	actor := authz.Actor{UserID: manager.ID, Role: models.RolePropertyManager}

	_, err := svc.Create(context.Background(), actor, &CreatePaymentInput{
		TenantID: tenant.ID,
		Amount:   500,
	})
	assert.ErrorIs(t, err, ErrLeaseNotFound)
}

func TestPay_SettlesPendingPayment(t *testing.T) {
	db := setupTestDB(t)
	svc := newPaymentService(db)
	ctx := context.Background()

	manager, tenant, _ := paymentFixture(t, db)
	actor := authz.Actor{UserID: manager.ID, Role: models.RolePropertyManager}

	payment, err := svc.Create(ctx, actor, &CreatePaymentInput{TenantID: tenant.ID, Amount: 1200})
	require.NoError(t, err)

	paid, err := svc.Pay(ctx, tenant.ID, payment.ID, &PayInput{Method: models.PayMethodCard, Reference: "ch_123"})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, paid.Status)
	assert.Equal(t, models.PayMethodCard, paid.Method)
	require.NotNil(t, paid.PaidAt)

	_, err = svc.Pay(ctx, tenant.ID, payment.ID, &PayInput{Method: models.PayMethodCard})
	assert.ErrorIs(t, err, ErrPaymentNotPending)
}

func TestPay_WrongTenant(t *testing.T) {
	db := setupTestDB(t)
	svc := newPaymentService(db)
	ctx := context.Background()

	manager, tenant, _ := paymentFixture(t, db)
	other := createTestUser(t, db, models.RoleTenant)
	actor := authz.Actor{UserID: manager.ID, Role: models.RolePropertyManager}

	payment, err := svc.Create(ctx, actor, &CreatePaymentInput{TenantID: tenant.ID, Amount: 1200})
	require.NoError(t, err)

	_, err = svc.Pay(ctx, other.ID, payment.ID, &PayInput{Method: models.PayMethodTransfer})
	assert.ErrorIs(t, err, ErrNotAllowed)
}

func TestPay_InvalidMethod(t *testing.T) {
	db := setupTestDB(t)
	svc := newPaymentService(db)
	ctx := context.Background()

	manager, tenant, _ := paymentFixture(t, db)
	actor := authz.Actor{UserID: manager.ID, Role: models.RolePropertyManager}

	payment, err := svc.Create(ctx, actor, &CreatePaymentInput{TenantID: tenant.ID, Amount: 1200})
	require.NoError(t, err)

	_, err = svc.Pay(ctx, tenant.ID, payment.ID, &PayInput{Method: "BARTER"})
	assert.ErrorIs(t, err, ErrInvalidPayMethod)
}

func TestNextPending_OrdersByDueDate(t *testing.T) {
	db := setupTestDB(t)
	svc := newPaymentService(db)
	ctx := context.Background()

	manager, tenant, _ := paymentFixture(t, db)
	actor := authz.Actor{UserID: manager.ID, Role: models.RolePropertyManager}

	later := time.Now().AddDate(0, 1, 0)
	sooner := time.Now().AddDate(0, 0, 3)

	_, err := svc.Create(ctx, actor, &CreatePaymentInput{TenantID: tenant.ID, Amount: 1200, DueDate: &later})
	require.NoError(t, err)
	expected, err := svc.Create(ctx, actor, &CreatePaymentInput{TenantID: tenant.ID, Amount: 900, DueDate: &sooner})
	require.NoError(t, err)

	next, err := svc.NextPending(ctx, tenant.ID)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, expected.ID, next.ID)

	none, err := svc.NextPending(ctx, createTestUser(t, db, models.RoleTenant).ID)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestUpdatePaymentStatus_AnyValidStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := newPaymentService(db)
	ctx := context.Background()

	manager, tenant, _ := paymentFixture(t, db)
	actor := authz.Actor{UserID: manager.ID, Role: models.RolePropertyManager}

	payment, err := svc.Create(ctx, actor, &CreatePaymentInput{TenantID: tenant.ID, Amount: 1200})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, actor, payment.ID, "VOIDED")
	assert.ErrorIs(t, err, ErrInvalidPaymentStatus)

	// Membership only: a PENDING payment can move straight to REFUNDED.
	updated, err := svc.UpdateStatus(ctx, actor, payment.ID, models.PaymentRefunded)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentRefunded, updated.Status)

	updated, err = svc.UpdateStatus(ctx, actor, payment.ID, models.PaymentCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, updated.Status)
	require.NotNil(t, updated.PaidAt)
}
