package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/agrisphere/agrisphere-backend/pkg/db"
	"github.com/agrisphere/agrisphere-backend/pkg/db/models"
	"github.com/agrisphere/agrisphere-backend/pkg/enums"
	pkgerrors "github.com/agrisphere/agrisphere-backend/pkg/errors"
)

type recordingMailer struct {
	sent int
	fail bool
}

func (m *recordingMailer) SendPaymentReceived(_ context.Context, _, _ string, _ uuid.UUID, _ decimal.Decimal) error {
	m.sent++
	if m.fail {
		return pkgerrors.New(pkgerrors.CodeDependency, "smtp down")
	}
	return nil
}

func newOrderTestService(t *testing.T, mailer *recordingMailer) (Service, *gorm.DB) {
	t.Helper()
	dsn := "file:orders_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(
		&models.User{}, &models.Order{}, &models.OrderItem{}, &models.Payment{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	params := ServiceParams{DB: db.FromGorm(conn)}
	if mailer != nil {
		params.Mailer = mailer
	}
	svc, err := NewService(params)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, conn
}

func TestGetOrderOwnerAndAdminAccess(t *testing.T) {
	t.Parallel()
	svc, conn := newOrderTestService(t, nil)
	ctx := context.Background()
	ownerID := uuid.New()
	order := seedOrder(t, conn, ownerID, "42.00", enums.OrderStatusPending, time.Time{})

	if _, err := svc.GetOrder(ctx, ownerID, enums.RoleCustomer, order.ID); err != nil {
		t.Fatalf("owner read: %v", err)
	}
	if _, err := svc.GetOrder(ctx, uuid.New(), enums.RoleAdmin, order.ID); err != nil {
		t.Fatalf("admin read: %v", err)
	}
	if _, err := svc.GetOrder(ctx, uuid.New(), enums.RoleCustomer, order.ID); pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for stranger, got %v", err)
	}
}

func TestCompletePaymentTransition(t *testing.T) {
	t.Parallel()
	mailer := &recordingMailer{}
	svc, conn := newOrderTestService(t, mailer)
	ctx := context.Background()
	ownerID := uuid.New()
	order := seedOrder(t, conn, ownerID, "42.00", enums.OrderStatusPending, time.Time{})

	if _, err := svc.CompletePayment(ctx, uuid.New(), order.ID); pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for non-owner, got %v", err)
	}

	out, err := svc.CompletePayment(ctx, ownerID, order.ID)
	if err != nil {
		t.Fatalf("complete payment: %v", err)
	}
	if out.PaymentStatus != enums.PaymentStatusPaid || out.Status != enums.OrderStatusConfirmed {
		t.Fatalf("expected paid/confirmed, got %s/%s", out.PaymentStatus, out.Status)
	}

	var payment models.Payment
	if err := conn.First(&payment, "order_id = ?", order.ID).Error; err != nil {
		t.Fatalf("load payment: %v", err)
	}
	if payment.Status != enums.PaymentStatusPaid {
		t.Fatalf("expected payment row paid, got %s", payment.Status)
	}

	// Paying twice is a state conflict; the transition is one-way.
	if _, err := svc.CompletePayment(ctx, ownerID, order.ID); pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict on repeat, got %v", err)
	}
}

func TestCompletePaymentSurvivesMailerFailure(t *testing.T) {
	t.Parallel()
	mailer := &recordingMailer{fail: true}
	svc, conn := newOrderTestService(t, mailer)
	ctx := context.Background()

	owner := &models.User{
		ID:           uuid.New(),
		Name:         "Buyer",
		Email:        "buyer@example.com",
		PasswordHash: "hash",
		Role:         enums.RoleCustomer,
		IsActive:     true,
	}
	if err := conn.Create(owner).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	ownerID := owner.ID
	order := seedOrder(t, conn, ownerID, "42.00", enums.OrderStatusPending, time.Time{})

	out, err := svc.CompletePayment(ctx, ownerID, order.ID)
	if err != nil {
		t.Fatalf("complete payment: %v", err)
	}
	if out.PaymentStatus != enums.PaymentStatusPaid {
		t.Fatalf("expected paid despite mailer failure, got %s", out.PaymentStatus)
	}
	if mailer.sent != 1 {
		t.Fatalf("expected one send attempt, got %d", mailer.sent)
	}
}

func TestListOrdersNewestFirst(t *testing.T) {
	t.Parallel()
	svc, conn := newOrderTestService(t, nil)
	ctx := context.Background()
	ownerID := uuid.New()

	seedOrder(t, conn, ownerID, "42.00", enums.OrderStatusPending, time.Time{})
	seedOrder(t, conn, ownerID, "42.00", enums.OrderStatusPending, time.Time{})
	seedOrder(t, conn, uuid.New(), "42.00", enums.OrderStatusPending, time.Time{})

	out, err := svc.ListOrders(ctx, ownerID)
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 orders for owner, got %d", len(out))
	}
}
