package booking

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/abdelmaha121/sas/internal/audit"
	"github.com/abdelmaha121/sas/internal/catalog"
	"github.com/abdelmaha121/sas/internal/wallet"
	"github.com/abdelmaha121/sas/pkg/config"
	"github.com/abdelmaha121/sas/pkg/db/models"
	"github.com/abdelmaha121/sas/pkg/metrics"
	"github.com/abdelmaha121/sas/pkg/types"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

type recordingAudit struct {
	events []audit.Event
}

func (r *recordingAudit) Record(ctx context.Context, event audit.Event) {
	r.events = append(r.events, event)
}

func setupBookingTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{`
CREATE TABLE IF NOT EXISTS service_providers (
  id TEXT PRIMARY KEY,
  tenant_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  business_name TEXT NOT NULL,
  commission_rate NUMERIC NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS services (
  id TEXT PRIMARY KEY,
  tenant_id TEXT NOT NULL,
  provider_id TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT,
  base_price NUMERIC NOT NULL,
  currency TEXT NOT NULL DEFAULT 'OMR',
  duration_minutes INTEGER NOT NULL DEFAULT 60,
  allow_urgent INTEGER NOT NULL DEFAULT 0,
  urgent_fee NUMERIC NOT NULL DEFAULT 0,
  min_advance_hours INTEGER NOT NULL DEFAULT 0,
  payment_methods TEXT,
  cancellation_type TEXT,
  cancellation_value NUMERIC,
  free_cancellation_hours INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS service_addons (
  id TEXT PRIMARY KEY,
  service_id TEXT NOT NULL,
  name TEXT NOT NULL,
  price NUMERIC NOT NULL,
  is_required INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS bookings (
  id TEXT PRIMARY KEY,
  tenant_id TEXT NOT NULL,
  customer_id TEXT NOT NULL,
  provider_id TEXT NOT NULL,
  service_id TEXT NOT NULL,
  booking_type TEXT NOT NULL DEFAULT 'one_time',
  allow_urgent INTEGER NOT NULL DEFAULT 0,
  min_advance_hours INTEGER NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'pending',
  scheduled_at DATETIME NOT NULL,
  total_amount NUMERIC NOT NULL,
  urgent_fee NUMERIC NOT NULL DEFAULT 0,
  commission_amount NUMERIC NOT NULL DEFAULT 0,
  currency TEXT NOT NULL DEFAULT 'OMR',
  payment_status TEXT NOT NULL DEFAULT 'pending',
  payment_type TEXT NOT NULL,
  notes TEXT,
  cancellation_type TEXT,
  cancellation_value NUMERIC,
  free_cancellation_hours INTEGER NOT NULL DEFAULT 0,
  recurrence TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS booking_addons (
  id TEXT PRIMARY KEY,
  booking_id TEXT NOT NULL,
  addon_id TEXT NOT NULL,
  price NUMERIC NOT NULL,
  created_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS wallets (
  id TEXT PRIMARY KEY,
  tenant_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  balance NUMERIC NOT NULL DEFAULT 0,
  currency TEXT NOT NULL DEFAULT 'SAR',
  created_at DATETIME,
  updated_at DATETIME,
  CONSTRAINT idx_wallets_tenant_user UNIQUE (tenant_id, user_id)
);`, `
CREATE TABLE IF NOT EXISTS wallet_transactions (
  id TEXT PRIMARY KEY,
  wallet_id TEXT NOT NULL,
  type TEXT NOT NULL,
  amount NUMERIC NOT NULL,
  balance_after NUMERIC NOT NULL,
  reference_type TEXT NOT NULL,
  reference_id TEXT NOT NULL,
  description TEXT NOT NULL,
  created_at DATETIME
);`}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

type bookingFixture struct {
	db       *gorm.DB
	svc      Service
	wallet   wallet.Service
	audit    *recordingAudit
	tenantID uuid.UUID
}

func newBookingFixture(t *testing.T) *bookingFixture {
	return newBookingFixtureWithMetrics(t, metrics.NewCheckoutMetrics(nil))
}

func newBookingFixtureWithMetrics(t *testing.T, m *metrics.CheckoutMetrics) *bookingFixture {
	t.Helper()

	db := setupBookingTestDB(t)
	recorder := &recordingAudit{}
	walletSvc, err := wallet.NewService(wallet.NewRepository(db), "SAR")
	require.NoError(t, err)

	svc, err := NewService(
		gormTxRunner{db: db},
		NewRepository(db),
		catalog.NewRepository(db),
		walletSvc,
		recorder,
		m,
		config.BookingConfig{DefaultDurationMinutes: 60, DefaultCurrency: "OMR", WalletDefaultCurrency: "SAR"},
	)
	require.NoError(t, err)

	return &bookingFixture{
		db:       db,
		svc:      svc,
		wallet:   walletSvc,
		audit:    recorder,
		tenantID: uuid.New(),
	}
}

func (f *bookingFixture) newProvider(t *testing.T, rate string) *models.ServiceProvider {
	t.Helper()

	provider := &models.ServiceProvider{
		ID:             uuid.New(),
		TenantID:       f.tenantID,
		UserID:         uuid.New(),
		BusinessName:   "Sparkle Services",
		CommissionRate: decimal.RequireFromString(rate),
		IsActive:       true,
	}
	require.NoError(t, f.db.Create(provider).Error)
	return provider
}

func (f *bookingFixture) newService(t *testing.T, provider *models.ServiceProvider, name string, base string, opts func(*models.Service)) *models.Service {
	t.Helper()

	svc := &models.Service{
		ID:              uuid.New(),
		TenantID:        f.tenantID,
		ProviderID:      provider.ID,
		Name:            name,
		BasePrice:       decimal.RequireFromString(base),
		Currency:        "OMR",
		DurationMinutes: 60,
		IsActive:        true,
	}
	if opts != nil {
		opts(svc)
	}
	require.NoError(t, f.db.Create(svc).Error)
	return svc
}

func (f *bookingFixture) newAddon(t *testing.T, svc *models.Service, name, price string) *models.ServiceAddon {
	t.Helper()

	addon := &models.ServiceAddon{
		ID:        uuid.New(),
		ServiceID: svc.ID,
		Name:      name,
		Price:     decimal.RequireFromString(price),
	}
	require.NoError(t, f.db.Create(addon).Error)
	return addon
}

func (f *bookingFixture) countBookings(t *testing.T) int64 {
	t.Helper()

	var count int64
	require.NoError(t, f.db.Model(&models.Booking{}).Where("tenant_id = ?", f.tenantID).Count(&count).Error)
	return count
}

func slotAt(hour int) time.Time {
	return time.Date(2026, 10, 1, hour, 0, 0, 0, time.UTC)
}

func testClient() types.ClientInfo {
	return types.ClientInfo{IPAddress: "10.1.2.3", UserAgent: "booking-test"}
}
