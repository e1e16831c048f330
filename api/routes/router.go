package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dashty/shoe-store-backend/api/controllers"
	"github.com/dashty/shoe-store-backend/api/middleware"
	activitysvc "github.com/dashty/shoe-store-backend/internal/activity"
	authsvc "github.com/dashty/shoe-store-backend/internal/auth"
	expensesvc "github.com/dashty/shoe-store-backend/internal/expenses"
	paymentsvc "github.com/dashty/shoe-store-backend/internal/payments"
	purchasesvc "github.com/dashty/shoe-store-backend/internal/purchases"
	ratesvc "github.com/dashty/shoe-store-backend/internal/rates"
	salesvc "github.com/dashty/shoe-store-backend/internal/sales"
	shoesvc "github.com/dashty/shoe-store-backend/internal/shoes"
	stocksvc "github.com/dashty/shoe-store-backend/internal/stock"
	suppliersvc "github.com/dashty/shoe-store-backend/internal/suppliers"
	uploadsvc "github.com/dashty/shoe-store-backend/internal/uploads"
	usersvc "github.com/dashty/shoe-store-backend/internal/users"
	"github.com/dashty/shoe-store-backend/pkg/config"
	"github.com/dashty/shoe-store-backend/pkg/db"
	"github.com/dashty/shoe-store-backend/pkg/logger"
	"github.com/dashty/shoe-store-backend/pkg/metrics"
	"github.com/dashty/shoe-store-backend/pkg/redis"
)

// Deps bundles everything the router mounts.
type Deps struct {
	Config *config.Config
	Logger *logger.Logger

	DB    *db.Client
	Redis *redis.Client

	HTTPMetrics    *metrics.HTTPMetrics
	MetricsHandler http.Handler

	Auth      authsvc.Service
	Shoes     shoesvc.Service
	Stock     stocksvc.Service
	Sales     salesvc.Service
	Rates     ratesvc.Service
	Expenses  expensesvc.Service
	Suppliers suppliersvc.Service
	Purchases purchasesvc.Service
	Payments  paymentsvc.Service
	Users     usersvc.Service
	Activity  activitysvc.Service
	Uploads   uploadsvc.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(),
	)

	generalPolicy := middleware.NewRateLimitPolicy("general", cfg.RateLimit.GeneralWindow, cfg.RateLimit.GeneralLimit)
	authPolicy := middleware.NewRateLimitPolicy("auth", cfg.RateLimit.AuthWindow, cfg.RateLimit.AuthLimit)
	resetPolicy := middleware.NewRateLimitPolicy("reset", cfg.RateLimit.ResetWindow, cfg.RateLimit.ResetLimit)

	var rateStore middleware.RateLimiterStore
	if deps.Redis != nil {
		rateStore = deps.Redis
	}

	var dbPinger, redisPinger controllers.Pinger
	if deps.DB != nil {
		dbPinger = deps.DB
	}
	if deps.Redis != nil {
		redisPinger = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbPinger, redisPinger, logg))
	})

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.RateLimit(authPolicy, rateStore, logg)).Post("/register", controllers.Register(deps.Auth, logg))
		r.With(middleware.RateLimit(authPolicy, rateStore, logg)).Post("/login", controllers.Login(deps.Auth, logg))
		r.With(middleware.RateLimit(generalPolicy, rateStore, logg)).Post("/refresh", controllers.Refresh(deps.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(resetPolicy, rateStore, logg))
			r.Post("/forgot-password", controllers.ForgotPassword(deps.Auth, logg))
			r.Post("/verify-reset-token", controllers.VerifyResetToken(deps.Auth, logg))
			r.Post("/reset-password", controllers.ResetPassword(deps.Auth, logg))
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RateLimit(generalPolicy, rateStore, logg))

		r.Route("/shoes", func(r chi.Router) {
			r.Get("/", controllers.ListShoes(deps.Shoes, logg))
			r.Post("/", controllers.CreateShoe(deps.Shoes, logg))
			r.Get("/{id}", controllers.GetShoe(deps.Shoes, logg))
			r.Put("/{id}", controllers.UpdateShoe(deps.Shoes, logg))
			r.Delete("/{id}", controllers.DeleteShoe(deps.Shoes, logg))
		})

		r.Route("/stock", func(r chi.Router) {
			r.Get("/", controllers.ListStock(deps.Stock, logg))
			r.Post("/", controllers.AddStock(deps.Stock, logg))
			r.Post("/bulk", controllers.BulkAddStock(deps.Stock, logg))
			r.Get("/low", controllers.LowStock(deps.Stock, logg))
			r.Get("/shoe/{shoeId}", controllers.StockByShoe(deps.Stock, logg))
			r.Put("/{id}", controllers.UpdateStock(deps.Stock, logg))
			r.Delete("/{id}", controllers.DeleteStock(deps.Stock, logg))
		})

		r.Route("/sales", func(r chi.Router) {
			r.Get("/", controllers.ListSales(deps.Sales, logg))
			r.Post("/", controllers.CreateSale(deps.Sales, logg))
			r.Get("/today", controllers.TodaySales(deps.Sales, logg))
			r.Get("/stats", controllers.SalesStats(deps.Sales, logg))
			r.With(middleware.OwnerOrAdmin("userId", logg)).Get("/user/{userId}", controllers.UserSales(deps.Sales, logg))
			r.With(middleware.OwnerOrAdmin("userId", logg)).Get("/user/{userId}/stats", controllers.UserSalesStats(deps.Sales, logg))
			r.With(middleware.RequireAdmin(logg)).Delete("/", controllers.DeleteAllSales(deps.Sales, logg))
			r.With(middleware.RequireAdmin(logg)).Delete("/online", controllers.DeleteAllOnlineSales(deps.Sales, logg))
			r.Get("/{id}", controllers.GetSale(deps.Sales, logg))
			r.Delete("/{id}", controllers.DeleteSale(deps.Sales, logg))
		})

		r.Route("/exchange-rates", func(r chi.Router) {
			r.Get("/current", controllers.CurrentRate(deps.Rates, logg))
			r.Get("/history", controllers.RateHistory(deps.Rates, logg))
			r.Post("/", controllers.SetRate(deps.Rates, logg))
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Get("/", controllers.ListExpenses(deps.Expenses, logg))
			r.Post("/", controllers.CreateExpense(deps.Expenses, logg))
			r.Get("/stats", controllers.ExpenseStats(deps.Expenses, logg))
			r.Get("/{id}", controllers.GetExpense(deps.Expenses, logg))
			r.Put("/{id}", controllers.UpdateExpense(deps.Expenses, logg))
			r.Delete("/{id}", controllers.DeleteExpense(deps.Expenses, logg))
		})

		r.Route("/suppliers", func(r chi.Router) {
			r.Get("/", controllers.ListSuppliers(deps.Suppliers, logg))
			r.Post("/", controllers.CreateSupplier(deps.Suppliers, logg))
			r.Get("/balances", controllers.SupplierBalances(deps.Suppliers, logg))
			r.Get("/{id}", controllers.GetSupplier(deps.Suppliers, logg))
			r.Put("/{id}", controllers.UpdateSupplier(deps.Suppliers, logg))
			r.Delete("/{id}", controllers.DeleteSupplier(deps.Suppliers, logg))
			r.Get("/{id}/balance", controllers.SupplierBalance(deps.Suppliers, logg))
			r.Get("/{supplierId}/purchases", controllers.PurchasesBySupplier(deps.Purchases, logg))
			r.Get("/{supplierId}/purchases/credit", controllers.CreditPurchasesBySupplier(deps.Purchases, logg))
			r.Get("/{supplierId}/payments", controllers.PaymentsBySupplier(deps.Payments, logg))
		})

		r.Route("/purchases", func(r chi.Router) {
			r.Get("/", controllers.ListPurchases(deps.Purchases, logg))
			r.Post("/", controllers.CreatePurchase(deps.Purchases, logg))
			r.Get("/todos", controllers.PurchaseTodos(deps.Purchases, logg))
			r.Get("/{id}", controllers.GetPurchase(deps.Purchases, logg))
			r.Put("/{id}", controllers.UpdatePurchase(deps.Purchases, logg))
			r.Delete("/{id}", controllers.DeletePurchase(deps.Purchases, logg))
			r.Get("/{id}/balance", controllers.PurchaseBalance(deps.Purchases, logg))
			r.Post("/{id}/todo", controllers.MarkPurchaseTodo(deps.Purchases, logg))
			r.Post("/{id}/done", controllers.MarkPurchaseDone(deps.Purchases, logg))
		})

		r.Route("/supplier-payments", func(r chi.Router) {
			r.Get("/", controllers.ListPayments(deps.Payments, logg))
			r.Post("/", controllers.CreatePayment(deps.Payments, logg))
			r.Get("/{id}", controllers.GetPayment(deps.Payments, logg))
			r.Put("/{id}", controllers.UpdatePayment(deps.Payments, logg))
			r.Delete("/{id}", controllers.DeletePayment(deps.Payments, logg))
		})

		if deps.Uploads != nil {
			r.Route("/uploads", func(r chi.Router) {
				r.Post("/image", controllers.UploadImage(deps.Uploads, logg))
				r.Delete("/image", controllers.DeleteImage(deps.Uploads, logg))
			})
		}

		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.RequireAdmin(logg))
			r.Get("/", controllers.ListUsers(deps.Users, logg))
			r.Post("/", controllers.CreateUser(deps.Users, logg))
			r.Get("/{id}", controllers.GetUser(deps.Users, logg))
			r.Put("/{id}", controllers.UpdateUser(deps.Users, logg))
			r.Delete("/{id}", controllers.DeleteUser(deps.Users, logg))
			r.Put("/{id}/active", controllers.SetUserActive(deps.Users, logg))
			r.Put("/{id}/role", controllers.SetUserRole(deps.Users, logg))
			r.Get("/{id}/stats", controllers.UserStats(deps.Users, logg))
			r.Post("/{userId}/reset-password", controllers.AdminResetPassword(deps.Auth, logg))
		})

		r.Route("/activity-logs", func(r chi.Router) {
			r.With(middleware.OwnerOrAdmin("userId", logg)).Get("/user/{userId}", controllers.UserActivityLogs(deps.Activity, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin(logg))
				r.Get("/", controllers.ListActivityLogs(deps.Activity, logg))
				r.Get("/{id}", controllers.GetActivityLog(deps.Activity, logg))
			})
		})
	})

	return r
}
