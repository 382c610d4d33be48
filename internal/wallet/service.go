package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/abdelmaha121/sas/pkg/db"
	"github.com/abdelmaha121/sas/pkg/db/models"
	"github.com/abdelmaha121/sas/pkg/enums"
	pkgerrors "github.com/abdelmaha121/sas/pkg/errors"
)

// DefaultCurrency is used when a wallet is lazily created.
const DefaultCurrency = "SAR"

// Service applies ledger entries and exposes wallet reads.
type Service interface {
	Apply(ctx context.Context, tx *gorm.DB, input EntryInput) (*models.WalletTransaction, error)
	GetByUser(ctx context.Context, tenantID, userID uuid.UUID) (*models.Wallet, error)
	ListTransactions(ctx context.Context, tenantID, userID uuid.UUID, limit int) ([]models.WalletTransaction, error)
}

// EntryInput captures one signed ledger mutation.
type EntryInput struct {
	TenantID      uuid.UUID
	UserID        uuid.UUID
	Type          enums.WalletTransactionType
	Amount        decimal.Decimal
	ReferenceType string
	ReferenceID   uuid.UUID
	Description   string
}

type service struct {
	repo     Repository
	currency string
}

// NewService wires a wallet service with the provided repository.
func NewService(repo Repository, currency string) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("wallet repository required")
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	return &service{repo: repo, currency: currency}, nil
}

// Apply debits or credits the owner's wallet inside the caller's transaction.
// The wallet row is locked for the duration; the balance may go negative.
func (s *service) Apply(ctx context.Context, tx *gorm.DB, input EntryInput) (*models.WalletTransaction, error) {
	if input.TenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tenant id required")
	}
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid wallet transaction type %q", input.Type)
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "wallet mutation requires an open transaction")
	}

	repo := s.repo.WithTx(tx)
	wallet, err := s.getOrCreateLocked(ctx, repo, input.TenantID, input.UserID)
	if err != nil {
		return nil, err
	}

	amount := input.Amount.Round(2)
	balance := wallet.Balance
	switch input.Type {
	case enums.WalletTransactionTypeDebit:
		balance = balance.Sub(amount)
	case enums.WalletTransactionTypeCredit:
		balance = balance.Add(amount)
	}
	balance = balance.Round(2)

	if err := repo.UpdateBalance(ctx, wallet.ID, balance); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update wallet balance")
	}

	entry := &models.WalletTransaction{
		ID:            uuid.New(),
		WalletID:      wallet.ID,
		Type:          input.Type,
		Amount:        amount,
		BalanceAfter:  balance,
		ReferenceType: input.ReferenceType,
		ReferenceID:   input.ReferenceID,
		Description:   input.Description,
	}
	if err := repo.CreateTransaction(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append wallet transaction")
	}
	return entry, nil
}

// getOrCreateLocked resolves the wallet under lock, inserting it on first use.
// A concurrent first insert loses the unique race and re-reads the winner's row.
func (s *service) getOrCreateLocked(ctx context.Context, repo Repository, tenantID, userID uuid.UUID) (*models.Wallet, error) {
	wallet, err := repo.FindForUpdate(ctx, tenantID, userID)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wallet")
	}

	created := &models.Wallet{
		ID:       uuid.New(),
		TenantID: tenantID,
		UserID:   userID,
		Balance:  decimal.Zero,
		Currency: s.currency,
	}
	if err := repo.Create(ctx, created); err != nil {
		if db.IsUniqueViolation(err, "idx_wallets_tenant_user") {
			wallet, err = repo.FindForUpdate(ctx, tenantID, userID)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload wallet after insert race")
			}
			return wallet, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create wallet")
	}
	return created, nil
}

func (s *service) GetByUser(ctx context.Context, tenantID, userID uuid.UUID) (*models.Wallet, error) {
	if tenantID == uuid.Nil || userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tenant and user ids required")
	}
	wallet, err := s.repo.FindByUser(ctx, tenantID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// No ledger activity yet. Present the zero wallet without persisting it.
			return &models.Wallet{
				TenantID: tenantID,
				UserID:   userID,
				Balance:  decimal.Zero,
				Currency: s.currency,
			}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wallet")
	}
	return wallet, nil
}

func (s *service) ListTransactions(ctx context.Context, tenantID, userID uuid.UUID, limit int) ([]models.WalletTransaction, error) {
	wallet, err := s.repo.FindByUser(ctx, tenantID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wallet")
	}
	entries, err := s.repo.ListTransactions(ctx, wallet.ID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list wallet transactions")
	}
	return entries, nil
}
