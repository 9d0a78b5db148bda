package ledgerv1

import (
	"github.com/shopspring/decimal"
)

// Balance holds one user's funds in one asset. Both fields are always >= 0;
// available+locked only changes through deposits and settlement.
type Balance struct {
	Available decimal.Decimal `json:"available"`
	Locked    decimal.Decimal `json:"locked"`
}

// Total returns available plus locked funds.
func (b Balance) Total() decimal.Decimal {
	return b.Available.Add(b.Locked)
}

// Zero returns an empty balance with explicit zero values.
func Zero() Balance {
	return Balance{Available: decimal.Zero, Locked: decimal.Zero}
}

// UserBalances is one user's full balance table, as serialized in snapshots.
type UserBalances struct {
	UserID string             `json:"userId"`
	Assets map[string]Balance `json:"assets"`
}
