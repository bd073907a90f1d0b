package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agrisphere/agrisphere-backend/api/controllers"
	"github.com/agrisphere/agrisphere-backend/api/middleware"
	adminsvc "github.com/agrisphere/agrisphere-backend/internal/admin"
	"github.com/agrisphere/agrisphere-backend/internal/auth"
	cartsvc "github.com/agrisphere/agrisphere-backend/internal/cart"
	checkoutsvc "github.com/agrisphere/agrisphere-backend/internal/checkout"
	consultsvc "github.com/agrisphere/agrisphere-backend/internal/consultations"
	ordersvc "github.com/agrisphere/agrisphere-backend/internal/orders"
	"github.com/agrisphere/agrisphere-backend/internal/products"
	profilesvc "github.com/agrisphere/agrisphere-backend/internal/profile"
	"github.com/agrisphere/agrisphere-backend/pkg/auth/session"
	"github.com/agrisphere/agrisphere-backend/pkg/config"
	"github.com/agrisphere/agrisphere-backend/pkg/db"
	"github.com/agrisphere/agrisphere-backend/pkg/enums"
	"github.com/agrisphere/agrisphere-backend/pkg/logger"
	"github.com/agrisphere/agrisphere-backend/pkg/metrics"
	redisclient "github.com/agrisphere/agrisphere-backend/pkg/redis"
)

// Deps bundles everything the router needs wired in.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       *db.Client
	Redis    *redisclient.Client
	Session  *session.Manager
	Metrics  *metrics.HTTPMetrics
	Gatherer prometheus.Gatherer

	AuthService     auth.Service
	RegisterService auth.RegisterService
	ProfileService  profilesvc.Service
	ProductService  products.Service
	CartService     cartsvc.Service
	CheckoutService checkoutsvc.Service
	OrderService    ordersvc.Service
	ConsultService  consultsvc.Service
	AdminService    adminsvc.Service
}

// NewRouter assembles the full API surface. Public catalog and consultant
// reads need no token; everything else sits behind auth, with the profile
// gate soft on general routes and hard on the gated features.
func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, d.Metrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	gate := middleware.NewProfileGate(cfg.ProfileGate, d.Redis, logg)
	authn := middleware.Auth(cfg.JWT, d.Session, logg)

	// The skip flag lives exactly as long as the session that set it.
	sessionTTL := time.Duration(0)
	if d.Session != nil {
		sessionTTL = d.Session.SessionTTL()
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(logg, d.DB, d.Redis))
	})

	if d.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(registerPolicy, d.Redis, logg)).Post("/register", controllers.AuthRegister(d.RegisterService, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, d.Redis, logg)).Post("/login", controllers.AuthLogin(d.AuthService, logg))
			r.Post("/refresh", controllers.AuthRefresh(d.AuthService, logg))
			r.Post("/forgot-password", controllers.AuthForgotPassword(d.AuthService, logg))
			r.Post("/reset-password", controllers.AuthResetPassword(d.AuthService, logg))
			r.With(authn).Post("/logout", controllers.AuthLogout(d.AuthService, logg))
		})

		// Public catalog and consultant directory.
		r.Get("/products", controllers.ProductsList(d.ProductService, logg))
		r.Get("/products/categories", controllers.ProductsCategories(d.ProductService, logg))
		r.Get("/products/{productID}", controllers.ProductsGet(d.ProductService, logg))
		r.Get("/consultants", controllers.ConsultantsList(d.ConsultService, logg))
		r.Get("/consultants/{consultantID}", controllers.ConsultantsGet(d.ConsultService, logg))

		// Authenticated routes with the soft gate: incomplete profiles pass
		// but get nudged once per session.
		r.Group(func(r chi.Router) {
			r.Use(authn, gate.Soft)

			r.Route("/profile", func(r chi.Router) {
				r.Get("/", controllers.ProfileGet(d.ProfileService, logg))
				r.Post("/complete", controllers.ProfileComplete(d.ProfileService, d.Redis, logg))
				r.Patch("/", controllers.ProfileEdit(d.ProfileService, logg))
				r.Post("/skip", controllers.ProfileSkip(d.Redis, sessionTTL, logg))
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(d.CartService, logg))
				r.Post("/", controllers.CartAdd(d.CartService, logg))
				r.Patch("/items/{itemID}", controllers.CartUpdateItem(d.CartService, logg))
				r.Delete("/items/{itemID}", controllers.CartRemoveItem(d.CartService, logg))
			})

			r.Post("/checkout", controllers.Checkout(d.CheckoutService, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrdersList(d.OrderService, logg))
				r.Get("/{orderID}", controllers.OrdersGet(d.OrderService, logg))
				r.Post("/{orderID}/complete-payment", controllers.OrdersCompletePayment(d.OrderService, logg))
			})

			r.Get("/consultations/mine", controllers.ConsultationsMine(d.ConsultService, logg))
			r.Post("/consultations/{consultationID}/accept", controllers.ConsultationsAccept(d.ConsultService, logg))
			r.Post("/consultations/{consultationID}/decline", controllers.ConsultationsDecline(d.ConsultService, logg))
			r.Post("/consultations/{consultationID}/complete", controllers.ConsultationsComplete(d.ConsultService, logg))

			r.With(middleware.RequireRole(logg, string(enums.RoleAdmin), string(enums.RoleVendor), string(enums.RoleFarmer))).
				Get("/products/mine", controllers.ProductsMine(d.ProductService, logg))
			r.Post("/products/{productID}/reviews", controllers.ProductsAddReview(d.ProductService, logg))
			r.Patch("/products/{productID}", controllers.ProductsUpdate(d.ProductService, logg))
		})

		// Hard-gated features: an incomplete profile blocks these outright,
		// skip flag or not.
		r.Group(func(r chi.Router) {
			r.Use(authn, gate.Hard)

			r.With(middleware.RequireRole(logg, string(enums.RoleAdmin), string(enums.RoleVendor), string(enums.RoleFarmer))).
				Post("/products", controllers.ProductsCreate(d.ProductService, logg))
			r.Post("/consultations", controllers.ConsultationsBook(d.ConsultService, logg))
			r.With(middleware.RequireRole(logg, string(enums.RoleConsultant), string(enums.RoleAdmin))).
				Get("/consultations/dashboard", controllers.ConsultationsDashboard(d.ConsultService, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(authn, middleware.RequireRole(logg, string(enums.RoleAdmin)))

			r.Get("/dashboard", controllers.AdminDashboard(d.AdminService, logg))

			r.Route("/users", func(r chi.Router) {
				r.Get("/", controllers.AdminUsersList(d.AdminService, logg))
				r.Patch("/{userID}/role", controllers.AdminUsersSetRole(d.AdminService, logg))
				r.Patch("/{userID}/verified", controllers.AdminUsersSetVerified(d.AdminService, logg))
				r.Patch("/{userID}/active", controllers.AdminUsersSetActive(d.AdminService, logg))
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.AdminProductsList(d.AdminService, logg))
				r.Patch("/{productID}", controllers.AdminProductsEdit(d.AdminService, logg))
				r.Patch("/{productID}/active", controllers.AdminProductsSetActive(d.AdminService, logg))
			})

			r.Route("/categories", func(r chi.Router) {
				r.Post("/rename", controllers.AdminCategoriesRename(d.AdminService, logg))
				r.Delete("/", controllers.AdminCategoriesDelete(d.AdminService, logg))
			})

			r.Route("/consultants", func(r chi.Router) {
				r.Get("/", controllers.AdminConsultantsList(d.AdminService, logg))
				r.Patch("/{consultantID}/verified", controllers.AdminConsultantsSetVerified(d.AdminService, logg))
				r.Patch("/{consultantID}/active", controllers.AdminConsultantsSetActive(d.AdminService, logg))
				r.Get("/{consultantID}/requests", controllers.AdminConsultantRequests(d.AdminService, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.AdminOrdersList(d.AdminService, logg))
				r.Patch("/{orderID}/status", controllers.AdminOrdersSetStatus(d.AdminService, logg))
			})
		})
	})

	return r
}
