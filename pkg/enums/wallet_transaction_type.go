package enums

import "fmt"

// WalletTransactionType is the signed direction of a ledger entry.
type WalletTransactionType string

const (
	WalletTransactionTypeDebit  WalletTransactionType = "debit"
	WalletTransactionTypeCredit WalletTransactionType = "credit"
)

var validWalletTransactionTypes = []WalletTransactionType{
	WalletTransactionTypeDebit,
	WalletTransactionTypeCredit,
}

// IsValid reports whether the value matches the canonical enum.
func (t WalletTransactionType) IsValid() bool {
	for _, candidate := range validWalletTransactionTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseWalletTransactionType converts raw input into a WalletTransactionType.
func ParseWalletTransactionType(value string) (WalletTransactionType, error) {
	for _, candidate := range validWalletTransactionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid wallet transaction type %q", value)
}
