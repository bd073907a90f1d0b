package admin

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agrisphere/agrisphere-backend/internal/consultants"
	"github.com/agrisphere/agrisphere-backend/internal/consultations"
	"github.com/agrisphere/agrisphere-backend/internal/orders"
	"github.com/agrisphere/agrisphere-backend/internal/products"
	"github.com/agrisphere/agrisphere-backend/internal/users"
	"github.com/agrisphere/agrisphere-backend/pkg/db"
	"github.com/agrisphere/agrisphere-backend/pkg/enums"
	pkgerrors "github.com/agrisphere/agrisphere-backend/pkg/errors"
)

const (
	recentLimit    = 5
	dailySalesDays = 30
)

// Service is the admin oversight surface: user, product, category,
// consultant, and order management plus dashboard stats. Route-level checks
// restrict the whole surface to the admin role.
type Service interface {
	ListUsers(ctx context.Context, filter UserListFilter) ([]users.UserDTO, error)
	SetUserRole(ctx context.Context, userID uuid.UUID, role string) (*users.UserDTO, error)
	SetUserVerified(ctx context.Context, userID uuid.UUID, verified bool) error
	SetUserActive(ctx context.Context, userID uuid.UUID, active bool) error

	ListProducts(ctx context.Context, filter ProductListFilter) ([]products.ProductDTO, error)
	SetProductActive(ctx context.Context, productID uuid.UUID, active bool) error
	EditProduct(ctx context.Context, adminID, productID uuid.UUID, req products.UpdateProductRequest) (*products.ProductDTO, error)

	RenameCategory(ctx context.Context, oldName, newName string) (int64, error)
	DeleteCategory(ctx context.Context, name string) (int64, error)

	ListConsultants(ctx context.Context) ([]ConsultantSummary, error)
	SetConsultantVerified(ctx context.Context, consultantID uuid.UUID, verified bool) error
	SetConsultantActive(ctx context.Context, consultantID uuid.UUID, active bool) error
	ConsultantRequests(ctx context.Context, consultantID uuid.UUID) ([]consultations.ConsultationDTO, error)

	ListOrders(ctx context.Context, filter OrderListFilter) ([]orders.OrderDTO, error)
	SetOrderStatus(ctx context.Context, orderID uuid.UUID, req SetOrderStatusRequest) (*orders.OrderDTO, error)

	DashboardStats(ctx context.Context) (*DashboardStats, error)
}

// ServiceParams packages the dependencies for the admin service.
type ServiceParams struct {
	DB       *db.Client
	Products products.Service
}

type service struct {
	db       *db.Client
	products products.Service
}

// NewService builds an admin service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	if params.Products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "product service required")
	}
	return &service{db: params.DB, products: params.Products}, nil
}

func (s *service) ListUsers(ctx context.Context, filter UserListFilter) ([]users.UserDTO, error) {
	repoFilter := users.ListFilter{Query: filter.Query, Limit: filter.Limit}
	if filter.Role != "" {
		role, err := parseRole(filter.Role)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role filter")
		}
		repoFilter.Role = &role
	}

	rows, err := users.NewRepository(s.db.DB()).List(ctx, repoFilter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list users")
	}
	out := make([]users.UserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *users.FromModel(&rows[i]))
	}
	return out, nil
}

// SetUserRole reassigns a role and keeps the consultant shadow consistent:
// a user moved into the consultant role gets one ensured, and an existing
// shadow is deactivated when the role moves away.
func (s *service) SetUserRole(ctx context.Context, userID uuid.UUID, role string) (*users.UserDTO, error) {
	parsed, err := parseRole(role)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role")
	}

	var result *users.UserDTO
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)
		user, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}

		user.Role = parsed
		if err := userRepo.Save(ctx, user); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update role")
		}

		shadowRepo := consultants.NewRepository(tx)
		if parsed == enums.RoleConsultant {
			if _, err := consultants.Ensure(ctx, shadowRepo, user); err != nil {
				return err
			}
		} else if shadow, err := shadowRepo.FindByUserID(ctx, userID); err == nil {
			if err := shadowRepo.SetActive(ctx, shadow.ID, false); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to deactivate consultant record")
			}
		}

		result = users.FromModel(user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) SetUserVerified(ctx context.Context, userID uuid.UUID, verified bool) error {
	repo := users.NewRepository(s.db.DB())
	if _, err := repo.FindByID(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
	}
	if err := repo.SetVerified(ctx, userID, verified); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update user")
	}
	return nil
}

func (s *service) SetUserActive(ctx context.Context, userID uuid.UUID, active bool) error {
	repo := users.NewRepository(s.db.DB())
	if _, err := repo.FindByID(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
	}
	if err := repo.SetActive(ctx, userID, active); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update user")
	}
	return nil
}

func (s *service) ListProducts(ctx context.Context, filter ProductListFilter) ([]products.ProductDTO, error) {
	rows, err := products.NewRepository(s.db.DB()).AdminList(ctx, products.AdminListFilter{
		Query:    filter.Query,
		Category: filter.Category,
		Active:   filter.Active,
		Limit:    filter.Limit,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list products")
	}
	out := make([]products.ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, products.FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) SetProductActive(ctx context.Context, productID uuid.UUID, active bool) error {
	repo := products.NewRepository(s.db.DB())
	product, err := repo.FindByID(ctx, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
	}
	product.IsActive = active
	if err := repo.Save(ctx, product); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update product")
	}
	return nil
}

// EditProduct reuses the catalog update path with admin privileges, so
// inventory adjustments keep writing log entries.
func (s *service) EditProduct(ctx context.Context, adminID, productID uuid.UUID, req products.UpdateProductRequest) (*products.ProductDTO, error) {
	return s.products.UpdateProduct(ctx, adminID, enums.RoleAdmin, productID, req)
}

func (s *service) RenameCategory(ctx context.Context, oldName, newName string) (int64, error) {
	oldName, newName = strings.TrimSpace(oldName), strings.TrimSpace(newName)
	if oldName == "" || newName == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "both category names are required")
	}
	affected, err := products.NewRepository(s.db.DB()).RenameCategory(ctx, oldName, newName)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to rename category")
	}
	return affected, nil
}

// DeleteCategory clears the category from matching products; the products
// themselves survive.
func (s *service) DeleteCategory(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}
	affected, err := products.NewRepository(s.db.DB()).ClearCategory(ctx, name)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to delete category")
	}
	return affected, nil
}

// ListConsultants merges shadow records with consultant-role users that have
// not acquired one yet.
func (s *service) ListConsultants(ctx context.Context) ([]ConsultantSummary, error) {
	shadows, err := consultants.NewRepository(s.db.DB()).List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list consultants")
	}

	out := make([]ConsultantSummary, 0, len(shadows))
	seen := make(map[uuid.UUID]struct{}, len(shadows))
	for i := range shadows {
		out = append(out, summaryFromShadow(&shadows[i]))
		seen[shadows[i].UserID] = struct{}{}
	}

	role := enums.RoleConsultant
	userRows, err := users.NewRepository(s.db.DB()).List(ctx, users.ListFilter{Role: &role})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list consultant users")
	}
	for i := range userRows {
		if _, ok := seen[userRows[i].ID]; ok {
			continue
		}
		out = append(out, summaryFromUser(&userRows[i]))
	}
	return out, nil
}

func (s *service) SetConsultantVerified(ctx context.Context, consultantID uuid.UUID, verified bool) error {
	repo := consultants.NewRepository(s.db.DB())
	if _, err := repo.FindByID(ctx, consultantID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "consultant not found")
	}
	if err := repo.SetVerified(ctx, consultantID, verified); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update consultant")
	}
	return nil
}

func (s *service) SetConsultantActive(ctx context.Context, consultantID uuid.UUID, active bool) error {
	repo := consultants.NewRepository(s.db.DB())
	if _, err := repo.FindByID(ctx, consultantID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "consultant not found")
	}
	if err := repo.SetActive(ctx, consultantID, active); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update consultant")
	}
	return nil
}

func (s *service) ConsultantRequests(ctx context.Context, consultantID uuid.UUID) ([]consultations.ConsultationDTO, error) {
	if _, err := consultants.NewRepository(s.db.DB()).FindByID(ctx, consultantID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "consultant not found")
	}
	rows, err := consultations.NewRepository(s.db.DB()).ListByConsultant(ctx, consultantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list consultation requests")
	}
	out := make([]consultations.ConsultationDTO, 0, len(rows))
	for i := range rows {
		out = append(out, consultations.FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) ListOrders(ctx context.Context, filter OrderListFilter) ([]orders.OrderDTO, error) {
	repoFilter := orders.AdminListFilter{Limit: filter.Limit}
	if filter.Status != "" {
		status, err := enums.ParseOrderStatus(filter.Status)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		repoFilter.Status = status
	}
	if email := strings.TrimSpace(filter.BuyerEmail); email != "" {
		buyer, err := users.NewRepository(s.db.DB()).FindByEmail(ctx, email)
		if err != nil {
			// Unknown buyer matches nothing.
			return []orders.OrderDTO{}, nil
		}
		repoFilter.UserID = &buyer.ID
	}

	rows, err := orders.NewRepository(s.db.DB()).AdminList(ctx, repoFilter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list orders")
	}
	out := make([]orders.OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, orders.FromModel(&rows[i]))
	}
	return out, nil
}

// SetOrderStatus moves an order to any valid status value. There is no
// transition validation on this path.
func (s *service) SetOrderStatus(ctx context.Context, orderID uuid.UUID, req SetOrderStatusRequest) (*orders.OrderDTO, error) {
	status, err := enums.ParseOrderStatus(req.Status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status")
	}

	repo := orders.NewRepository(s.db.DB())
	order, err := repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
	}

	order.Status = status
	if req.TrackingNumber != nil {
		order.TrackingNumber = req.TrackingNumber
	}
	if err := repo.Save(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update order")
	}

	dto := orders.FromModel(order)
	return &dto, nil
}

func (s *service) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	conn := s.db.DB()
	userRepo := users.NewRepository(conn)
	productRepo := products.NewRepository(conn)
	orderRepo := orders.NewRepository(conn)
	consultantRepo := consultants.NewRepository(conn)
	consultationRepo := consultations.NewRepository(conn)

	stats := &DashboardStats{GeneratedAt: time.Now().UTC()}
	var err error

	if stats.TotalUsers, err = userRepo.Count(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to count users")
	}
	if stats.TotalProducts, err = productRepo.Count(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to count products")
	}
	if stats.TotalOrders, err = orderRepo.Count(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to count orders")
	}
	if stats.TotalConsultants, err = consultantRepo.Count(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to count consultants")
	}
	if stats.TotalConsultations, err = consultationRepo.Count(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to count consultations")
	}
	if stats.TotalSales, err = orderRepo.TotalSales(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to sum sales")
	}

	recentUsers, err := userRepo.List(ctx, users.ListFilter{Limit: recentLimit})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load recent users")
	}
	stats.RecentUsers = make([]users.UserDTO, 0, len(recentUsers))
	for i := range recentUsers {
		stats.RecentUsers = append(stats.RecentUsers, *users.FromModel(&recentUsers[i]))
	}

	recentOrders, err := orderRepo.Recent(ctx, recentLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load recent orders")
	}
	stats.RecentOrders = make([]orders.OrderDTO, 0, len(recentOrders))
	for i := range recentOrders {
		stats.RecentOrders = append(stats.RecentOrders, orders.FromModel(&recentOrders[i]))
	}

	since := time.Now().UTC().AddDate(0, 0, -dailySalesDays)
	daily, err := orderRepo.DailySales(ctx, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load daily sales")
	}
	stats.DailySales = make([]DailySaleDTO, 0, len(daily))
	for _, d := range daily {
		stats.DailySales = append(stats.DailySales, DailySaleDTO{Day: d.Day, Count: d.Count, Total: d.Total})
	}

	return stats, nil
}
