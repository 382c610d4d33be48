package routes

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	bookingsvc "github.com/abdelmaha121/sas/internal/booking"
	walletsvc "github.com/abdelmaha121/sas/internal/wallet"
	pkgAuth "github.com/abdelmaha121/sas/pkg/auth"
	"github.com/abdelmaha121/sas/pkg/config"
	"github.com/abdelmaha121/sas/pkg/db/models"
	"github.com/abdelmaha121/sas/pkg/enums"
	"github.com/abdelmaha121/sas/pkg/pagination"
	pkgredis "github.com/abdelmaha121/sas/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubBookingService struct {
	checkouts int
}

func (s *stubBookingService) Checkout(ctx context.Context, actor pkgAuth.Identity, input bookingsvc.CheckoutInput) (*bookingsvc.CheckoutResult, error) {
	s.checkouts++
	return &bookingsvc.CheckoutResult{TotalBookings: len(input.Items), GrandTotal: decimal.Zero}, nil
}

func (s *stubBookingService) TransitionStatus(ctx context.Context, actor pkgAuth.Identity, input bookingsvc.StatusTransitionInput) (*models.Booking, error) {
	return &models.Booking{ID: input.BookingID, Status: input.Status}, nil
}

func (s *stubBookingService) GetByID(ctx context.Context, actor pkgAuth.Identity, id uuid.UUID) (*models.Booking, error) {
	return &models.Booking{ID: id, Status: enums.BookingStatusPending}, nil
}

func (s *stubBookingService) List(ctx context.Context, actor pkgAuth.Identity, filter bookingsvc.ListFilter, params pagination.Params) ([]models.Booking, string, error) {
	return nil, "", nil
}

type stubWalletService struct{}

func (stubWalletService) Apply(ctx context.Context, tx *gorm.DB, input walletsvc.EntryInput) (*models.WalletTransaction, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubWalletService) GetByUser(ctx context.Context, tenantID, userID uuid.UUID) (*models.Wallet, error) {
	return &models.Wallet{Balance: decimal.Zero, Currency: walletsvc.DefaultCurrency}, nil
}

func (stubWalletService) ListTransactions(ctx context.Context, tenantID, userID uuid.UUID, limit int) ([]models.WalletTransaction, error) {
	return nil, nil
}

type memoryCmdable struct {
	data map[string]string
}

func newMemoryCmdable() *memoryCmdable {
	return &memoryCmdable{data: make(map[string]string)}
}

func (m *memoryCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *memoryCmdable) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	m.data[key] = fmt.Sprint(value)
	return redis.NewStatusResult("OK", nil)
}

func (m *memoryCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *memoryCmdable) SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd {
	if _, exists := m.data[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	m.data[key] = fmt.Sprint(value)
	return redis.NewBoolResult(true, nil)
}

func (m *memoryCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func newTestRouter(t *testing.T, booking *stubBookingService) http.Handler {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.JWT = config.JWTConfig{Secret: "secret", Issuer: "sas", ExpirationMinutes: 30}

	return NewRouter(cfg, nil, stubPinger{}, pkgredis.NewWithStore(newMemoryCmdable()), booking, stubWalletService{})
}

func mintToken(t *testing.T, role enums.Role) string {
	t.Helper()

	token, err := pkgAuth.MintAccessToken(
		config.JWTConfig{Secret: "secret", Issuer: "sas", ExpirationMinutes: 30},
		time.Now().UTC(),
		pkgAuth.AccessTokenPayload{UserID: uuid.New(), TenantID: uuid.New(), Role: role},
	)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}
	return token
}

func TestRouterHealthLive(t *testing.T) {
	router := newTestRouter(t, &stubBookingService{})

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}

func TestRouterRequiresAuth(t *testing.T) {
	router := newTestRouter(t, &stubBookingService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestRouterBasketCheckoutRequiresIdempotencyKey(t *testing.T) {
	svc := &stubBookingService{}
	router := newTestRouter(t, svc)

	body := `{"payment_type":"instant","items":[{"service_id":"` + uuid.NewString() + `","provider_id":"` + uuid.NewString() + `","scheduled_at":"2026-10-01T10:00:00Z"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/basket", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.RoleCustomer))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if svc.checkouts != 0 {
		t.Fatal("checkout must not run without an idempotency key")
	}
}

func TestRouterBasketCheckoutReplaysDuplicates(t *testing.T) {
	svc := &stubBookingService{}
	router := newTestRouter(t, svc)

	token := mintToken(t, enums.RoleCustomer)
	body := `{"payment_type":"instant","items":[{"service_id":"` + uuid.NewString() + `","provider_id":"` + uuid.NewString() + `","scheduled_at":"2026-10-01T10:00:00Z"}]}`

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/basket", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Idempotency-Key", "req-1")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	first := send()
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", first.Code, first.Body.String())
	}
	second := send()
	if second.Code != http.StatusCreated {
		t.Fatalf("expected replayed 201 got %d", second.Code)
	}
	if svc.checkouts != 1 {
		t.Fatalf("expected exactly one checkout execution, got %d", svc.checkouts)
	}
}

func TestRouterBasketCheckoutForbiddenForProviders(t *testing.T) {
	svc := &stubBookingService{}
	router := newTestRouter(t, svc)

	body := `{"payment_type":"instant","items":[{"service_id":"` + uuid.NewString() + `","provider_id":"` + uuid.NewString() + `","scheduled_at":"2026-10-01T10:00:00Z"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/basket", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.RoleProvider))
	req.Header.Set("Idempotency-Key", "req-2")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rec.Code)
	}
	if svc.checkouts != 0 {
		t.Fatal("providers must not reach checkout")
	}
}

func TestRouterWalletMe(t *testing.T) {
	router := newTestRouter(t, &stubBookingService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/wallets/me", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.RoleProvider))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}
