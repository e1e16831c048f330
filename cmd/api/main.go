package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dashty/shoe-store-backend/api/routes"
	"github.com/dashty/shoe-store-backend/internal/activity"
	authsvc "github.com/dashty/shoe-store-backend/internal/auth"
	"github.com/dashty/shoe-store-backend/internal/expenses"
	"github.com/dashty/shoe-store-backend/internal/payments"
	"github.com/dashty/shoe-store-backend/internal/purchases"
	"github.com/dashty/shoe-store-backend/internal/rates"
	"github.com/dashty/shoe-store-backend/internal/sales"
	"github.com/dashty/shoe-store-backend/internal/shoes"
	"github.com/dashty/shoe-store-backend/internal/stock"
	"github.com/dashty/shoe-store-backend/internal/suppliers"
	"github.com/dashty/shoe-store-backend/internal/uploads"
	"github.com/dashty/shoe-store-backend/internal/users"
	"github.com/dashty/shoe-store-backend/pkg/config"
	"github.com/dashty/shoe-store-backend/pkg/db"
	"github.com/dashty/shoe-store-backend/pkg/logger"
	"github.com/dashty/shoe-store-backend/pkg/metrics"
	"github.com/dashty/shoe-store-backend/pkg/migrate"
	"github.com/dashty/shoe-store-backend/pkg/redis"
	"github.com/dashty/shoe-store-backend/pkg/storage/cloudinary"
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

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags, logg)
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	conn := dbClient.DB()
	recorder := activity.NewRecorder(activity.NewRepository(conn), logg)

	shoeRepo := shoes.NewRepository(conn)
	stockRepo := stock.NewRepository(conn)
	userRepo := users.NewRepository(conn)
	rateRepo := rates.NewRepository(conn)
	purchaseRepo := purchases.NewRepository(conn)

	// Uploads stay disabled when Cloudinary is not configured.
	var uploadService uploads.Service
	var imageDeleter *cloudinary.Client
	if cfg.Cloudinary.CloudName != "" {
		cloudinaryClient, err := cloudinary.NewClient(context.Background(), cfg.Cloudinary, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap cloudinary", err)
			os.Exit(1)
		}
		imageDeleter = cloudinaryClient
		uploadService, err = uploads.NewService(uploads.ServiceParams{
			Store:    cloudinaryClient,
			Upload:   cfg.Upload,
			Recorder: recorder,
		})
		if err != nil {
			logg.Error(context.Background(), "failed to create upload service", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "cloudinary not configured, image uploads disabled")
	}

	shoeService, err := shoes.NewService(shoes.ServiceParams{
		Repo:     shoeRepo,
		Recorder: recorder,
		Images:   imageDeleter,
	})
	exitOn(logg, "shoe service", err)

	stockService, err := stock.NewService(stock.ServiceParams{Repo: stockRepo, Recorder: recorder})
	exitOn(logg, "stock service", err)

	rateService, err := rates.NewService(rates.ServiceParams{Repo: rateRepo, Recorder: recorder})
	exitOn(logg, "exchange rate service", err)

	saleService, err := sales.NewService(sales.ServiceParams{
		Repo:     sales.NewRepository(conn),
		Shoes:    shoeRepo,
		Stock:    stockRepo,
		Rates:    rateService,
		Tx:       dbClient,
		Recorder: recorder,
	})
	exitOn(logg, "sales service", err)

	expenseService, err := expenses.NewService(expenses.ServiceParams{
		Repo:     expenses.NewRepository(conn),
		Recorder: recorder,
	})
	exitOn(logg, "expense service", err)

	supplierService, err := suppliers.NewService(suppliers.ServiceParams{
		Repo:     suppliers.NewRepository(conn),
		Recorder: recorder,
	})
	exitOn(logg, "supplier service", err)

	purchaseService, err := purchases.NewService(purchases.ServiceParams{
		Repo:     purchaseRepo,
		Stock:    stockRepo,
		Tx:       dbClient,
		Recorder: recorder,
	})
	exitOn(logg, "purchase service", err)

	paymentService, err := payments.NewService(payments.ServiceParams{
		Repo:      payments.NewRepository(conn),
		Purchases: purchaseRepo,
		Tx:        dbClient,
		Recorder:  recorder,
	})
	exitOn(logg, "payment service", err)

	userService, err := users.NewService(users.ServiceParams{
		Repo:     userRepo,
		Sales:    saleService,
		Password: cfg.Password,
		Recorder: recorder,
	})
	exitOn(logg, "user service", err)

	authService, err := authsvc.NewService(authsvc.ServiceParams{
		Repo:     userRepo,
		JWT:      cfg.JWT,
		Auth:     cfg.Auth,
		Password: cfg.Password,
		Recorder: recorder,
	})
	exitOn(logg, "auth service", err)

	activityService, err := activity.NewService(activity.NewRepository(conn))
	exitOn(logg, "activity service", err)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	handler := routes.NewRouter(routes.Deps{
		Config:         cfg,
		Logger:         logg,
		DB:             dbClient,
		Redis:          redisClient,
		HTTPMetrics:    httpMetrics,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Auth:           authService,
		Shoes:          shoeService,
		Stock:          stockService,
		Sales:          saleService,
		Rates:          rateService,
		Expenses:       expenseService,
		Suppliers:      supplierService,
		Purchases:      purchaseService,
		Payments:       paymentService,
		Users:          userService,
		Activity:       activityService,
		Uploads:        uploadService,
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

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-shutdown:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}

func exitOn(logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+resource, err)
	os.Exit(1)
}
