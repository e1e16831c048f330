package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

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
	"github.com/dashty/shoe-store-backend/internal/users"
	pkgauth "github.com/dashty/shoe-store-backend/pkg/auth"
	"github.com/dashty/shoe-store-backend/pkg/config"
	"github.com/dashty/shoe-store-backend/pkg/db"
	"github.com/dashty/shoe-store-backend/pkg/db/models"
	"github.com/dashty/shoe-store-backend/pkg/enums"
)

const testRegistrationSecret = "router-secret"

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "dev"},
		JWT: config.JWTConfig{
			Secret:                 "access-secret",
			RefreshSecret:          "refresh-secret",
			Issuer:                 "shoe-store-test",
			ExpirationMinutes:      10,
			RefreshTokenTTLMinutes: 60,
		},
		Auth: config.AuthConfig{
			RegistrationSecret: testRegistrationSecret,
			ResetTokenTTL:      time.Hour,
		},
	}
}

func newTestRouter(t *testing.T) (http.Handler, *gorm.DB) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(
		&models.User{}, &models.Shoe{}, &models.Stock{}, &models.Sale{},
		&models.ExchangeRate{}, &models.Expense{}, &models.Supplier{},
		&models.Purchase{}, &models.SupplierPayment{}, &models.ActivityLog{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := testConfig()
	client := db.NewWithConn(conn)
	recorder := activity.NewRecorder(activity.NewRepository(conn), nil)

	shoeRepo := shoes.NewRepository(conn)
	stockRepo := stock.NewRepository(conn)
	userRepo := users.NewRepository(conn)
	purchaseRepo := purchases.NewRepository(conn)

	shoeService, err := shoes.NewService(shoes.ServiceParams{Repo: shoeRepo, Recorder: recorder})
	if err != nil {
		t.Fatalf("shoe service: %v", err)
	}
	stockService, err := stock.NewService(stock.ServiceParams{Repo: stockRepo, Recorder: recorder})
	if err != nil {
		t.Fatalf("stock service: %v", err)
	}
	rateService, err := rates.NewService(rates.ServiceParams{Repo: rates.NewRepository(conn), Recorder: recorder})
	if err != nil {
		t.Fatalf("rate service: %v", err)
	}
	saleService, err := sales.NewService(sales.ServiceParams{
		Repo:     sales.NewRepository(conn),
		Shoes:    shoeRepo,
		Stock:    stockRepo,
		Rates:    rateService,
		Tx:       client,
		Recorder: recorder,
	})
	if err != nil {
		t.Fatalf("sales service: %v", err)
	}
	expenseService, err := expenses.NewService(expenses.ServiceParams{Repo: expenses.NewRepository(conn), Recorder: recorder})
	if err != nil {
		t.Fatalf("expense service: %v", err)
	}
	supplierService, err := suppliers.NewService(suppliers.ServiceParams{Repo: suppliers.NewRepository(conn), Recorder: recorder})
	if err != nil {
		t.Fatalf("supplier service: %v", err)
	}
	purchaseService, err := purchases.NewService(purchases.ServiceParams{
		Repo:     purchaseRepo,
		Stock:    stockRepo,
		Tx:       client,
		Recorder: recorder,
	})
	if err != nil {
		t.Fatalf("purchase service: %v", err)
	}
	paymentService, err := payments.NewService(payments.ServiceParams{
		Repo:      payments.NewRepository(conn),
		Purchases: purchaseRepo,
		Tx:        client,
		Recorder:  recorder,
	})
	if err != nil {
		t.Fatalf("payment service: %v", err)
	}
	userService, err := users.NewService(users.ServiceParams{
		Repo:     userRepo,
		Sales:    saleService,
		Password: cfg.Password,
		Recorder: recorder,
	})
	if err != nil {
		t.Fatalf("user service: %v", err)
	}
	authService, err := authsvc.NewService(authsvc.ServiceParams{
		Repo:     userRepo,
		JWT:      cfg.JWT,
		Auth:     cfg.Auth,
		Password: cfg.Password,
		Recorder: recorder,
	})
	if err != nil {
		t.Fatalf("auth service: %v", err)
	}
	activityService, err := activity.NewService(activity.NewRepository(conn))
	if err != nil {
		t.Fatalf("activity service: %v", err)
	}

	handler := NewRouter(Deps{
		Config:    cfg,
		DB:        client,
		Auth:      authService,
		Shoes:     shoeService,
		Stock:     stockService,
		Sales:     saleService,
		Rates:     rateService,
		Expenses:  expenseService,
		Suppliers: supplierService,
		Purchases: purchaseService,
		Payments:  paymentService,
		Users:     userService,
		Activity:  activityService,
	})
	return handler, conn
}

func seedUser(t *testing.T, conn *gorm.DB, role enums.Role) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Name:         "Router Tester",
		PhoneNumber:  fmt.Sprintf("075%08d", time.Now().UnixNano()%100000000),
		PasswordHash: "unused",
		Role:         role,
		IsActive:     true,
	}
	if err := conn.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func tokenFor(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(testConfig().JWT, time.Now(), pkgauth.TokenPayload{
		UserID:      user.ID,
		PhoneNumber: user.PhoneNumber,
		Role:        user.Role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func doJSON(t *testing.T, handler http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthLive(t *testing.T) {
	handler, _ := newTestRouter(t)

	rec := doJSON(t, handler, http.MethodGet, "/health/live", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	handler, _ := newTestRouter(t)

	rec := doJSON(t, handler, http.MethodGet, "/api/shoes", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestRegisterAndLoginFlow(t *testing.T) {
	handler, _ := newTestRouter(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":        "New Seller",
		"phoneNumber": "07512345678",
		"password":    "sekret1",
		"secret":      testRegistrationSecret,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201 got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/auth/login", "", map[string]string{
		"phoneNumber": "07512345678",
		"password":    "sekret1",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200 got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data struct {
			Tokens struct {
				AccessToken string `json:"accessToken"`
			} `json:"tokens"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if envelope.Data.Tokens.AccessToken == "" {
		t.Fatal("expected access token in login response")
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/shoes", envelope.Data.Tokens.AccessToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("authenticated list: expected 200 got %d", rec.Code)
	}
}

func TestRegisterRejectsWrongSecret(t *testing.T) {
	handler, _ := newTestRouter(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":        "Intruder",
		"phoneNumber": "07500000001",
		"password":    "sekret1",
		"secret":      "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestShoeAndSaleLifecycle(t *testing.T) {
	handler, conn := newTestRouter(t)
	admin := seedUser(t, conn, enums.RoleAdmin)
	token := tokenFor(t, admin)

	rec := doJSON(t, handler, http.MethodPost, "/api/shoes", token, map[string]any{
		"name":      "Runner Pro",
		"brand":     "Asics",
		"sku":       "ASC-RUN-001",
		"category":  "men",
		"sizes":     []string{"42", "43"},
		"price":     "130000",
		"costPrice": "60",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create shoe: expected 201 got %d: %s", rec.Code, rec.Body.String())
	}

	var created struct {
		Data struct {
			ID uuid.UUID `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode shoe: %v", err)
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/stock", token, map[string]any{
		"shoeId":   created.Data.ID,
		"size":     "42",
		"quantity": 5,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add stock: expected 201 got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/sales", token, map[string]any{
		"shoeId":   created.Data.ID,
		"size":     "42",
		"quantity": 2,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create sale: expected 201 got %d: %s", rec.Code, rec.Body.String())
	}

	var remaining models.Stock
	if err := conn.First(&remaining, "shoe_id = ? AND size = ?", created.Data.ID, "42").Error; err != nil {
		t.Fatalf("load stock: %v", err)
	}
	if remaining.Quantity != 3 {
		t.Fatalf("expected stock 3 after sale, got %d", remaining.Quantity)
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/sales/stats", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("sales stats: expected 200 got %d", rec.Code)
	}
}

func TestUserRoutesAdminOnly(t *testing.T) {
	handler, conn := newTestRouter(t)
	seller := seedUser(t, conn, enums.RoleUser)
	token := tokenFor(t, seller)

	rec := doJSON(t, handler, http.MethodGet, "/api/users", token, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rec.Code)
	}
}

func TestUserSalesRoutesOwnerOrAdmin(t *testing.T) {
	handler, conn := newTestRouter(t)
	seller := seedUser(t, conn, enums.RoleUser)
	other := seedUser(t, conn, enums.RoleUser)
	admin := seedUser(t, conn, enums.RoleAdmin)

	rec := doJSON(t, handler, http.MethodGet, "/api/sales/user/"+seller.ID.String(), tokenFor(t, seller), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner: expected 200 got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/sales/user/"+seller.ID.String(), tokenFor(t, other), nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("foreign user: expected 403 got %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/sales/user/"+seller.ID.String(), tokenFor(t, admin), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin: expected 200 got %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/sales/user/"+seller.ID.String()+"/stats", tokenFor(t, seller), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner stats: expected 200 got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/sales/user/"+seller.ID.String()+"/stats", tokenFor(t, other), nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("foreign user stats: expected 403 got %d", rec.Code)
	}
}

func TestUploadsDisabledWhenUnconfigured(t *testing.T) {
	handler, conn := newTestRouter(t)
	admin := seedUser(t, conn, enums.RoleAdmin)

	rec := doJSON(t, handler, http.MethodPost, "/api/uploads/image", tokenFor(t, admin), nil)
	if rec.Code != http.StatusNotFound && rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected uploads to be unmounted, got %d", rec.Code)
	}
}
