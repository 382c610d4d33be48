package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/abdelmaha121/sas/internal/audit"
	"github.com/abdelmaha121/sas/internal/catalog"
	"github.com/abdelmaha121/sas/internal/wallet"
	"github.com/abdelmaha121/sas/pkg/auth"
	"github.com/abdelmaha121/sas/pkg/config"
	"github.com/abdelmaha121/sas/pkg/db/models"
	"github.com/abdelmaha121/sas/pkg/enums"
	pkgerrors "github.com/abdelmaha121/sas/pkg/errors"
	"github.com/abdelmaha121/sas/pkg/metrics"
	"github.com/abdelmaha121/sas/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type walletApplier interface {
	Apply(ctx context.Context, tx *gorm.DB, input wallet.EntryInput) (*models.WalletTransaction, error)
}

type auditRecorder interface {
	Record(ctx context.Context, event audit.Event)
}

// Service executes basket checkout, status transitions, and booking reads.
type Service interface {
	Checkout(ctx context.Context, actor auth.Identity, input CheckoutInput) (*CheckoutResult, error)
	TransitionStatus(ctx context.Context, actor auth.Identity, input StatusTransitionInput) (*models.Booking, error)
	GetByID(ctx context.Context, actor auth.Identity, id uuid.UUID) (*models.Booking, error)
	List(ctx context.Context, actor auth.Identity, filter ListFilter, params pagination.Params) ([]models.Booking, string, error)
}

type service struct {
	tx      txRunner
	repo    Repository
	catalog catalog.Repository
	wallet  walletApplier
	audit   auditRecorder
	metrics *metrics.CheckoutMetrics
	cfg     config.BookingConfig
}

// NewService builds the booking service.
func NewService(
	tx txRunner,
	repo Repository,
	catalogRepo catalog.Repository,
	walletSvc walletApplier,
	recorder auditRecorder,
	checkoutMetrics *metrics.CheckoutMetrics,
	cfg config.BookingConfig,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("booking repository required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if walletSvc == nil {
		return nil, fmt.Errorf("wallet service required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	if cfg.DefaultDurationMinutes <= 0 {
		cfg.DefaultDurationMinutes = fallbackDurationMinutes
	}
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = "OMR"
	}
	return &service{
		tx:      tx,
		repo:    repo,
		catalog: catalogRepo,
		wallet:  walletSvc,
		audit:   recorder,
		metrics: checkoutMetrics,
		cfg:     cfg,
	}, nil
}

func (s *service) GetByID(ctx context.Context, actor auth.Identity, id uuid.UUID) (*models.Booking, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking id required")
	}
	booking, err := s.repo.FindByID(ctx, id, actor.TenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
	}
	if !canViewBooking(actor, booking) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not allowed to view this booking")
	}
	return booking, nil
}

func (s *service) List(ctx context.Context, actor auth.Identity, filter ListFilter, params pagination.Params) ([]models.Booking, string, error) {
	switch {
	case actor.Role.IsAdmin():
		// Admins may use the caller-supplied filter as-is.
	case actor.Role == enums.RoleProvider:
		provider, err := s.catalog.FindProviderByUser(ctx, actor.TenantID, actor.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, "", nil
			}
			return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve provider")
		}
		filter.ProviderID = provider.ID
		filter.CustomerID = uuid.Nil
	default:
		filter.CustomerID = actor.UserID
		filter.ProviderID = uuid.Nil
	}

	bookings, next, err := s.repo.List(ctx, actor.TenantID, filter, params)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list bookings")
	}
	nextCursor := ""
	if next != nil {
		nextCursor = pagination.EncodeCursor(*next)
	}
	return bookings, nextCursor, nil
}

func canViewBooking(actor auth.Identity, booking *models.Booking) bool {
	if actor.Role.IsAdmin() {
		return true
	}
	if booking.CustomerID == actor.UserID {
		return true
	}
	return booking.Provider != nil && booking.Provider.UserID == actor.UserID
}
