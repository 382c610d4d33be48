package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/abdelmaha121/sas/pkg/db"
	"github.com/abdelmaha121/sas/pkg/db/models"
	"github.com/abdelmaha121/sas/pkg/enums"
	"github.com/abdelmaha121/sas/pkg/pagination"
)

// Repository manages persistence for bookings and their addon links.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, booking *models.Booking) error
	CreateAddons(ctx context.Context, addons []models.BookingAddon) error
	FindBlockingForProvider(ctx context.Context, providerID, tenantID uuid.UUID, statuses []enums.BookingStatus, windowStart, windowEnd time.Time) ([]models.Booking, error)
	FindForUpdate(ctx context.Context, id, tenantID uuid.UUID) (*models.Booking, error)
	FindByID(ctx context.Context, id, tenantID uuid.UUID) (*models.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.BookingStatus) error
	List(ctx context.Context, tenantID uuid.UUID, filter ListFilter, params pagination.Params) ([]models.Booking, *pagination.Cursor, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a booking repository bound to the provided database.
func NewRepository(conn *gorm.DB) Repository {
	return &repository{db: conn}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Omit("Addons", "Service", "Provider").Create(booking).Error
}

func (r *repository) CreateAddons(ctx context.Context, addons []models.BookingAddon) error {
	if len(addons) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&addons).Error
}

// FindBlockingForProvider loads the provider's bookings in the given statuses
// whose start falls inside the candidate window, locked for the duration of
// the transaction. Each row's own end depends on its service duration, so the
// caller widens windowStart and resolves exact overlap itself.
func (r *repository) FindBlockingForProvider(ctx context.Context, providerID, tenantID uuid.UUID, statuses []enums.BookingStatus, windowStart, windowEnd time.Time) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := db.LockForUpdate(r.db.WithContext(ctx)).
		Preload("Service").
		Where("provider_id = ? AND tenant_id = ?", providerID, tenantID).
		Where("status IN ?", statuses).
		Where("scheduled_at >= ? AND scheduled_at < ?", windowStart, windowEnd).
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *repository) FindForUpdate(ctx context.Context, id, tenantID uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := db.LockForUpdate(r.db.WithContext(ctx)).
		Preload("Provider").
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) FindByID(ctx context.Context, id, tenantID uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Service").
		Preload("Provider").
		Preload("Addons").
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.BookingStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *repository) List(ctx context.Context, tenantID uuid.UUID, filter ListFilter, params pagination.Params) ([]models.Booking, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Preload("Service").
		Where("tenant_id = ?", tenantID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CustomerID != uuid.Nil {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.ProviderID != uuid.Nil {
		query = query.Where("provider_id = ?", filter.ProviderID)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, nil, err
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var bookings []models.Booking
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&bookings).Error; err != nil {
		return nil, nil, err
	}

	if len(bookings) > normalized {
		next := bookings[normalized]
		bookings = bookings[:normalized]
		return bookings, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return bookings, nil, nil
}
