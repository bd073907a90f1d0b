package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/agrisphere/agrisphere-backend/api"
	"github.com/agrisphere/agrisphere-backend/api/routes"
	adminsvc "github.com/agrisphere/agrisphere-backend/internal/admin"
	"github.com/agrisphere/agrisphere-backend/internal/auth"
	cartsvc "github.com/agrisphere/agrisphere-backend/internal/cart"
	checkoutsvc "github.com/agrisphere/agrisphere-backend/internal/checkout"
	consultsvc "github.com/agrisphere/agrisphere-backend/internal/consultations"
	"github.com/agrisphere/agrisphere-backend/internal/notifications"
	ordersvc "github.com/agrisphere/agrisphere-backend/internal/orders"
	"github.com/agrisphere/agrisphere-backend/internal/products"
	profilesvc "github.com/agrisphere/agrisphere-backend/internal/profile"
	"github.com/agrisphere/agrisphere-backend/internal/users"
	"github.com/agrisphere/agrisphere-backend/pkg/auth/session"
	"github.com/agrisphere/agrisphere-backend/pkg/config"
	"github.com/agrisphere/agrisphere-backend/pkg/db"
	"github.com/agrisphere/agrisphere-backend/pkg/logger"
	"github.com/agrisphere/agrisphere-backend/pkg/metrics"
	"github.com/agrisphere/agrisphere-backend/pkg/migrate"
	redisclient "github.com/agrisphere/agrisphere-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redisclient.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	mailer := notifications.NewMailer(cfg.Sendgrid)
	if !mailer.Enabled() {
		logg.Warn(context.Background(), "sendgrid api key not set, outbound email disabled")
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		Mailer:         mailer,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
		Mailer:         mailer,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	profileService, err := profilesvc.NewService(profilesvc.ServiceParams{DB: dbClient})
	if err != nil {
		logg.Error(context.Background(), "failed to create profile service", err)
		os.Exit(1)
	}

	productService, err := products.NewService(products.ServiceParams{DB: dbClient})
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	cartService, err := cartsvc.NewService(cartsvc.ServiceParams{DB: dbClient})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		DB:      dbClient,
		Mailer:  mailer,
		Metrics: checkoutMetrics,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	orderService, err := ordersvc.NewService(ordersvc.ServiceParams{
		DB:     dbClient,
		Mailer: mailer,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	consultService, err := consultsvc.NewService(consultsvc.ServiceParams{
		DB:     dbClient,
		Mailer: mailer,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create consultation service", err)
		os.Exit(1)
	}

	adminService, err := adminsvc.NewService(adminsvc.ServiceParams{
		DB:       dbClient,
		Products: productService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create admin service", err)
		os.Exit(1)
	}

	router := routes.NewRouter(routes.Deps{
		Config:   cfg,
		Logger:   logg,
		DB:       dbClient,
		Redis:    redisClient,
		Session:  sessionManager,
		Metrics:  httpMetrics,
		Gatherer: registry,

		AuthService:     authService,
		RegisterService: registerService,
		ProfileService:  profileService,
		ProductService:  productService,
		CartService:     cartService,
		CheckoutService: checkoutService,
		OrderService:    orderService,
		ConsultService:  consultService,
		AdminService:    adminService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := api.NewServer(addr, router, logg)
	if err := server.Run(ctx); err != nil {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
