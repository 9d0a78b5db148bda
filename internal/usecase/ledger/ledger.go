package ledger

import (
	"fmt"
	"sort"

	ledgerv1 "github.com/loopspell2/exchange/internal/domain/ledger/v1"
	orderbookv1 "github.com/loopspell2/exchange/internal/domain/orderbook/v1"
	"github.com/loopspell2/exchange/pkg/errors"
	"github.com/shopspring/decimal"
)

// Ledger holds available/locked balances per (user, asset). It is pure
// bookkeeping: it knows nothing about matching or markets. No internal
// locking: all mutation happens on the engine's single writer.
type Ledger struct {
	balances map[string]map[string]ledgerv1.Balance // userID -> asset -> balance
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		balances: make(map[string]map[string]ledgerv1.Balance),
	}
}

// Balance returns the user's balance in the given asset. Absent entries read
// as explicit zeros; nothing is created.
func (l *Ledger) Balance(userID, asset string) ledgerv1.Balance {
	assets, ok := l.balances[userID]
	if !ok {
		return ledgerv1.Zero()
	}
	balance, ok := assets[asset]
	if !ok {
		return ledgerv1.Zero()
	}
	return balance
}

// Deposit credits the user's available balance, creating the record lazily.
func (l *Ledger) Deposit(userID, asset string, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return errors.NewErrorDetails(
			fmt.Sprintf("deposit amount must be positive, got %s", amount),
			string(errors.MalformedCommand),
			"amount",
		)
	}

	balance := l.Balance(userID, asset)
	balance.Available = balance.Available.Add(amount)
	l.put(userID, asset, balance)
	return nil
}

// Lock moves amount from available to locked, failing without any state
// change if available funds do not cover it.
func (l *Ledger) Lock(userID, asset string, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return errors.NewErrorDetails(
			fmt.Sprintf("lock amount must be positive, got %s", amount),
			string(errors.MalformedCommand),
			"amount",
		)
	}

	balance := l.Balance(userID, asset)
	if balance.Available.LessThan(amount) {
		return errors.NewErrorDetails(
			fmt.Sprintf("insufficient %s balance: available %s, need %s", asset, balance.Available, amount),
			string(errors.InsufficientBalance),
			"amount",
		)
	}

	balance.Available = balance.Available.Sub(amount)
	balance.Locked = balance.Locked.Add(amount)
	l.put(userID, asset, balance)
	return nil
}

// Unlock reverses a lock, moving amount from locked back to available. Used
// for the unfilled remainder when an order is cancelled.
func (l *Ledger) Unlock(userID, asset string, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return errors.NewErrorDetails(
			fmt.Sprintf("unlock amount must be positive, got %s", amount),
			string(errors.MalformedCommand),
			"amount",
		)
	}

	balance := l.Balance(userID, asset)
	if balance.Locked.LessThan(amount) {
		return errors.NewErrorDetails(
			fmt.Sprintf("cannot unlock %s of %s: only %s locked", amount, asset, balance.Locked),
			string(errors.InsufficientBalance),
			"amount",
		)
	}

	balance.Locked = balance.Locked.Sub(amount)
	balance.Available = balance.Available.Add(amount)
	l.put(userID, asset, balance)
	return nil
}

// Settle applies the fills of one match to both parties. side is the taker's
// side. Per fill: the quote value moves out of the buyer's locked funds into
// the seller's available funds, and the base quantity moves out of the
// seller's locked funds into the buyer's available funds. Total value across
// both parties is unchanged.
func (l *Ledger) Settle(fills []orderbookv1.Fill, side orderbookv1.Side, baseAsset, quoteAsset, takerID string) {
	for _, fill := range fills {
		quote := fill.QuoteQuantity()

		if side == orderbookv1.SideBuy {
			// taker bought: taker paid quote from locked, maker sold base from locked
			l.add(fill.MakerUserID, quoteAsset, quote, decimal.Zero)
			l.add(takerID, quoteAsset, decimal.Zero, quote.Neg())
			l.add(fill.MakerUserID, baseAsset, decimal.Zero, fill.Quantity.Neg())
			l.add(takerID, baseAsset, fill.Quantity, decimal.Zero)
		} else {
			// taker sold: maker paid quote from locked, taker sold base from locked
			l.add(fill.MakerUserID, quoteAsset, decimal.Zero, quote.Neg())
			l.add(takerID, quoteAsset, quote, decimal.Zero)
			l.add(fill.MakerUserID, baseAsset, fill.Quantity, decimal.Zero)
			l.add(takerID, baseAsset, decimal.Zero, fill.Quantity.Neg())
		}
	}
}

// Snapshot returns every balance entry, sorted by user then asset so the
// serialized form is stable.
func (l *Ledger) Snapshot() []ledgerv1.UserBalances {
	users := make([]string, 0, len(l.balances))
	for userID := range l.balances {
		users = append(users, userID)
	}
	sort.Strings(users)

	entries := make([]ledgerv1.UserBalances, 0, len(users))
	for _, userID := range users {
		assets := make(map[string]ledgerv1.Balance, len(l.balances[userID]))
		for asset, balance := range l.balances[userID] {
			assets[asset] = balance
		}
		entries = append(entries, ledgerv1.UserBalances{
			UserID: userID,
			Assets: assets,
		})
	}
	return entries
}

// Restore replaces the ledger's state with the snapshot entries.
func (l *Ledger) Restore(entries []ledgerv1.UserBalances) {
	l.balances = make(map[string]map[string]ledgerv1.Balance, len(entries))
	for _, entry := range entries {
		assets := make(map[string]ledgerv1.Balance, len(entry.Assets))
		for asset, balance := range entry.Assets {
			assets[asset] = balance
		}
		l.balances[entry.UserID] = assets
	}
}

func (l *Ledger) put(userID, asset string, balance ledgerv1.Balance) {
	assets, ok := l.balances[userID]
	if !ok {
		assets = make(map[string]ledgerv1.Balance)
		l.balances[userID] = assets
	}
	assets[asset] = balance
}

func (l *Ledger) add(userID, asset string, available, locked decimal.Decimal) {
	balance := l.Balance(userID, asset)
	balance.Available = balance.Available.Add(available)
	balance.Locked = balance.Locked.Add(locked)
	l.put(userID, asset, balance)
}
