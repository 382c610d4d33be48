package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/abdelmaha121/sas/api/middleware"
	"github.com/abdelmaha121/sas/api/responses"
	"github.com/abdelmaha121/sas/api/validators"
	walletsvc "github.com/abdelmaha121/sas/internal/wallet"
	"github.com/abdelmaha121/sas/pkg/enums"
	pkgerrors "github.com/abdelmaha121/sas/pkg/errors"
	"github.com/abdelmaha121/sas/pkg/logger"
)

type walletResponse struct {
	WalletID uuid.UUID `json:"wallet_id,omitzero"`
	Balance  string    `json:"balance"`
	Currency string    `json:"currency"`
}

// WalletMe returns the caller's wallet, reporting a zero balance when no
// ledger activity exists yet.
func WalletMe(svc walletsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wallet service unavailable"))
			return
		}

		actor := middleware.IdentityFromContext(r.Context())
		wallet, err := svc.GetByUser(r.Context(), actor.TenantID, actor.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp := walletResponse{
			Balance:  wallet.Balance.StringFixed(2),
			Currency: wallet.Currency,
		}
		if wallet.ID != uuid.Nil {
			resp.WalletID = wallet.ID
		}
		responses.WriteSuccess(w, resp)
	}
}

type walletTransactionResponse struct {
	ID            uuid.UUID                   `json:"id"`
	Type          enums.WalletTransactionType `json:"type"`
	Amount        string                      `json:"amount"`
	BalanceAfter  string                      `json:"balance_after"`
	ReferenceType string                      `json:"reference_type"`
	ReferenceID   uuid.UUID                   `json:"reference_id"`
	Description   string                      `json:"description,omitempty"`
	CreatedAt     time.Time                   `json:"created_at"`
}

// WalletTransactions lists the caller's ledger entries, newest first.
func WalletTransactions(svc walletsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wallet service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 50, 1, 200)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := middleware.IdentityFromContext(r.Context())
		entries, err := svc.ListTransactions(r.Context(), actor.TenantID, actor.UserID, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list := make([]walletTransactionResponse, 0, len(entries))
		for _, entry := range entries {
			list = append(list, walletTransactionResponse{
				ID:            entry.ID,
				Type:          entry.Type,
				Amount:        entry.Amount.StringFixed(2),
				BalanceAfter:  entry.BalanceAfter.StringFixed(2),
				ReferenceType: entry.ReferenceType,
				ReferenceID:   entry.ReferenceID,
				Description:   entry.Description,
				CreatedAt:     entry.CreatedAt,
			})
		}
		responses.WriteSuccess(w, list)
	}
}
