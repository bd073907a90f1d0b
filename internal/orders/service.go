package orders

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/agrisphere/agrisphere-backend/internal/users"
	"github.com/agrisphere/agrisphere-backend/pkg/db"
	"github.com/agrisphere/agrisphere-backend/pkg/enums"
	pkgerrors "github.com/agrisphere/agrisphere-backend/pkg/errors"
	"github.com/agrisphere/agrisphere-backend/pkg/logger"
)

// paymentMailer sends the payment confirmation. Failures are logged, never
// surfaced.
type paymentMailer interface {
	SendPaymentReceived(ctx context.Context, email, name string, orderID uuid.UUID, amount decimal.Decimal) error
}

// Service owns order reads and the pending -> paid payment transition.
type Service interface {
	ListOrders(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error)
	GetOrder(ctx context.Context, actorID uuid.UUID, actorRole enums.Role, orderID uuid.UUID) (*OrderDTO, error)
	CompletePayment(ctx context.Context, actorID uuid.UUID, orderID uuid.UUID) (*OrderDTO, error)
}

// ServiceParams packages the dependencies for the order service.
type ServiceParams struct {
	DB     *db.Client
	Mailer paymentMailer
	Logger *logger.Logger
}

type service struct {
	db     *db.Client
	mailer paymentMailer
	logg   *logger.Logger
}

// NewService builds an order service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return &service{db: params.DB, mailer: params.Mailer, logg: params.Logger}, nil
}

func (s *service) ListOrders(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error) {
	repo := NewRepository(s.db.DB())
	rows, err := repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list orders")
	}
	out := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) GetOrder(ctx context.Context, actorID uuid.UUID, actorRole enums.Role, orderID uuid.UUID) (*OrderDTO, error) {
	repo := NewRepository(s.db.DB())
	order, err := repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
	}
	if order.UserID != actorID && actorRole != enums.RoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another user")
	}
	dto := FromModel(order)
	return &dto, nil
}

// CompletePayment flips payment_status pending -> paid and the order
// pending -> confirmed. The transition is one-way; there is no refund path.
func (s *service) CompletePayment(ctx context.Context, actorID uuid.UUID, orderID uuid.UUID) (*OrderDTO, error) {
	var (
		result *OrderDTO
		buyer  string
		name   string
	)

	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		order, err := repo.FindByID(ctx, orderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		if order.UserID != actorID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only the order owner can complete payment")
		}
		if order.PaymentStatus != enums.PaymentStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "payment is not pending")
		}

		order.PaymentStatus = enums.PaymentStatusPaid
		if order.Status == enums.OrderStatusPending {
			order.Status = enums.OrderStatusConfirmed
		}
		if err := repo.Save(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update order")
		}

		payment, err := repo.FindPayment(ctx, order.ID)
		if err == nil {
			payment.Status = enums.PaymentStatusPaid
			if err := repo.SavePayment(ctx, payment); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update payment")
			}
		}

		user, err := users.NewRepository(tx).FindByID(ctx, order.UserID)
		if err == nil {
			buyer, name = user.Email, user.Name
		}

		dto := FromModel(order)
		result = &dto
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.mailer != nil && buyer != "" {
		if err := s.mailer.SendPaymentReceived(ctx, buyer, name, result.ID, result.Total); err != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "order_id", result.ID.String()), "payment confirmation email failed: "+err.Error())
		}
	}
	return result, nil
}
