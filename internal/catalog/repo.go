package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/abdelmaha121/sas/pkg/db"
	"github.com/abdelmaha121/sas/pkg/db/models"
)

// Repository provides read access to the service catalog for checkout.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindServiceForUpdate(ctx context.Context, serviceID, providerID, tenantID uuid.UUID) (*models.Service, error)
	FindAddons(ctx context.Context, serviceID uuid.UUID, addonIDs []uuid.UUID) ([]models.ServiceAddon, error)
	FindProviderByUser(ctx context.Context, tenantID, userID uuid.UUID) (*models.ServiceProvider, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a catalog repository bound to the provided database.
func NewRepository(conn *gorm.DB) Repository {
	return &repository{db: conn}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// FindServiceForUpdate loads an active service scoped to its provider and
// tenant, holding a row lock for the duration of the transaction.
func (r *repository) FindServiceForUpdate(ctx context.Context, serviceID, providerID, tenantID uuid.UUID) (*models.Service, error) {
	var svc models.Service
	if err := db.LockForUpdate(r.db.WithContext(ctx)).
		Preload("Provider").
		Where("id = ? AND provider_id = ? AND tenant_id = ? AND is_active = ?", serviceID, providerID, tenantID, true).
		First(&svc).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

func (r *repository) FindAddons(ctx context.Context, serviceID uuid.UUID, addonIDs []uuid.UUID) ([]models.ServiceAddon, error) {
	if len(addonIDs) == 0 {
		return nil, nil
	}
	var addons []models.ServiceAddon
	if err := r.db.WithContext(ctx).
		Where("service_id = ? AND id IN ?", serviceID, addonIDs).
		Find(&addons).Error; err != nil {
		return nil, err
	}
	return addons, nil
}

func (r *repository) FindProviderByUser(ctx context.Context, tenantID, userID uuid.UUID) (*models.ServiceProvider, error) {
	var provider models.ServiceProvider
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ?", tenantID, userID).
		First(&provider).Error; err != nil {
		return nil, err
	}
	return &provider, nil
}
