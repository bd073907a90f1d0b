package checkout

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/agrisphere/agrisphere-backend/internal/cart"
	"github.com/agrisphere/agrisphere-backend/internal/orders"
	"github.com/agrisphere/agrisphere-backend/internal/products"
	"github.com/agrisphere/agrisphere-backend/internal/users"
	"github.com/agrisphere/agrisphere-backend/pkg/db"
	"github.com/agrisphere/agrisphere-backend/pkg/db/models"
	"github.com/agrisphere/agrisphere-backend/pkg/enums"
	pkgerrors "github.com/agrisphere/agrisphere-backend/pkg/errors"
	"github.com/agrisphere/agrisphere-backend/pkg/logger"
	"github.com/agrisphere/agrisphere-backend/pkg/metrics"
)

// orderMailer sends the post-commit order confirmation. Failures are logged,
// never surfaced.
type orderMailer interface {
	SendOrderPlaced(ctx context.Context, email, name string, orderID uuid.UUID, total decimal.Decimal) error
}

// Request carries the optional checkout overrides.
type Request struct {
	ShippingAddress *string `json:"shipping_address,omitempty"`
	PaymentMethod   *string `json:"payment_method,omitempty"`
}

// Service converts a cart into an order in a single transaction.
type Service interface {
	Checkout(ctx context.Context, userID uuid.UUID, req Request) (*orders.OrderDTO, error)
}

// ServiceParams packages the dependencies for the checkout service.
type ServiceParams struct {
	DB      *db.Client
	Mailer  orderMailer
	Metrics *metrics.CheckoutMetrics
	Logger  *logger.Logger
}

type service struct {
	db      *db.Client
	mailer  orderMailer
	metrics *metrics.CheckoutMetrics
	logg    *logger.Logger
}

// NewService builds a checkout service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return &service{
		db:      params.DB,
		mailer:  params.Mailer,
		metrics: params.Metrics,
		logg:    params.Logger,
	}, nil
}

func (s *service) Checkout(ctx context.Context, userID uuid.UUID, req Request) (*orders.OrderDTO, error) {
	var (
		order *models.Order
		buyer *models.User
	)

	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)
		cartRepo := cart.NewRepository(tx)
		productRepo := products.NewRepository(tx)
		orderRepo := orders.NewRepository(tx)

		user, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		buyer = user

		rows, err := cartRepo.ListByUser(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load cart")
		}
		if len(rows) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}

		shipping := shippingAddress(req, user)

		order = &models.Order{
			ID:              uuid.New(),
			UserID:          userID,
			Total:           decimal.Zero,
			Status:          enums.OrderStatusPending,
			PaymentStatus:   enums.PaymentStatusPending,
			PaymentMethod:   req.PaymentMethod,
			ShippingAddress: shipping,
		}

		items := make([]models.OrderItem, 0, len(rows))
		logs := make([]models.InventoryLog, 0, len(rows))
		total := decimal.Zero

		for i := range rows {
			row := &rows[i]
			product, err := productRepo.FindByID(ctx, row.ProductID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "a cart product is no longer available")
			}

			// Conditional decrement: loses the race cleanly when another
			// checkout drained the stock first.
			ok, err := decrementStock(ctx, tx, product.ID, row.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to reserve inventory")
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeConflict, "not enough stock for "+product.Name).
					WithDetails(map[string]any{"product_id": product.ID, "requested": row.Quantity, "available": product.Quantity})
			}

			items = append(items, models.OrderItem{
				ID:        uuid.New(),
				OrderID:   order.ID,
				ProductID: product.ID,
				Quantity:  row.Quantity,
				UnitPrice: product.Price,
			})
			logs = append(logs, models.InventoryLog{
				ID:               uuid.New(),
				ProductID:        product.ID,
				ChangeType:       enums.InventoryChangeSale,
				QuantityChange:   -row.Quantity,
				PreviousQuantity: product.Quantity,
				NewQuantity:      product.Quantity - row.Quantity,
				CreatedBy:        &userID,
			})
			total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(row.Quantity))))
		}

		order.Total = total
		if err := orderRepo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create order")
		}
		if err := orderRepo.CreateItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create order items")
		}
		if err := tx.WithContext(ctx).Create(&logs).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to record inventory changes")
		}

		payment := &models.Payment{
			ID:      uuid.New(),
			OrderID: order.ID,
			Amount:  total,
			Status:  enums.PaymentStatusPending,
		}
		if err := orderRepo.CreatePayment(ctx, payment); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create payment")
		}

		if err := cartRepo.ClearUser(ctx, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to clear cart")
		}

		order.Items = items
		return nil
	})
	if err != nil {
		s.recordFailure(err)
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncOrderPlaced()
	}
	if s.mailer != nil && buyer != nil {
		if err := s.mailer.SendOrderPlaced(ctx, buyer.Email, buyer.Name, order.ID, order.Total); err != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "order_id", order.ID.String()), "order confirmation email failed: "+err.Error())
		}
	}

	dto := orders.FromModel(order)
	return &dto, nil
}

func (s *service) recordFailure(err error) {
	if s.metrics == nil {
		return
	}
	switch pkgerrors.As(err).Code() {
	case pkgerrors.CodeValidation:
		s.metrics.IncCheckoutFailure("empty_cart")
	case pkgerrors.CodeConflict:
		s.metrics.IncCheckoutFailure("insufficient_stock")
	default:
		s.metrics.IncCheckoutFailure("internal")
	}
}

// shippingAddress prefers the request override, falling back to the address
// stored on the profile.
func shippingAddress(req Request, user *models.User) *string {
	if req.ShippingAddress != nil && strings.TrimSpace(*req.ShippingAddress) != "" {
		trimmed := strings.TrimSpace(*req.ShippingAddress)
		return &trimmed
	}
	return user.Address
}
