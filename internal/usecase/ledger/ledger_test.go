package ledger

import (
	"testing"

	orderbookv1 "github.com/loopspell2/exchange/internal/domain/orderbook/v1"
	pkgerrors "github.com/loopspell2/exchange/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestLedger_Deposit(t *testing.T) {
	t.Run("Credits available and creates record lazily", func(t *testing.T) {
		l := NewLedger()

		require.NoError(t, l.Deposit("alice", "INR", d("1000")))

		balance := l.Balance("alice", "INR")
		assert.True(t, balance.Available.Equal(d("1000")))
		assert.True(t, balance.Locked.IsZero())
	})

	t.Run("Accumulates across deposits", func(t *testing.T) {
		l := NewLedger()
		require.NoError(t, l.Deposit("alice", "INR", d("1000")))
		require.NoError(t, l.Deposit("alice", "INR", d("500")))

		assert.True(t, l.Balance("alice", "INR").Available.Equal(d("1500")))
	})

	t.Run("Rejects non-positive amounts", func(t *testing.T) {
		l := NewLedger()
		err := l.Deposit("alice", "INR", d("0"))
		require.Error(t, err)
		assert.True(t, pkgerrors.Is(err, pkgerrors.MalformedCommand))
	})
}

func TestLedger_Lock(t *testing.T) {
	t.Run("Moves funds from available to locked", func(t *testing.T) {
		l := NewLedger()
		require.NoError(t, l.Deposit("alice", "INR", d("1000")))

		require.NoError(t, l.Lock("alice", "INR", d("400")))

		balance := l.Balance("alice", "INR")
		assert.True(t, balance.Available.Equal(d("600")))
		assert.True(t, balance.Locked.Equal(d("400")))
		assert.True(t, balance.Total().Equal(d("1000")))
	})

	t.Run("Fails without state change when available is short", func(t *testing.T) {
		l := NewLedger()
		require.NoError(t, l.Deposit("alice", "INR", d("100")))

		err := l.Lock("alice", "INR", d("200"))

		require.Error(t, err)
		assert.True(t, pkgerrors.Is(err, pkgerrors.InsufficientBalance))
		balance := l.Balance("alice", "INR")
		assert.True(t, balance.Available.Equal(d("100")))
		assert.True(t, balance.Locked.IsZero())
	})

	t.Run("Fails for users with no record", func(t *testing.T) {
		l := NewLedger()
		err := l.Lock("ghost", "INR", d("1"))
		require.Error(t, err)
		assert.True(t, pkgerrors.Is(err, pkgerrors.InsufficientBalance))
	})
}

func TestLedger_Unlock(t *testing.T) {
	t.Run("Restores a prior lock exactly", func(t *testing.T) {
		l := NewLedger()
		require.NoError(t, l.Deposit("alice", "INR", d("1000")))
		require.NoError(t, l.Lock("alice", "INR", d("500")))

		require.NoError(t, l.Unlock("alice", "INR", d("500")))

		balance := l.Balance("alice", "INR")
		assert.True(t, balance.Available.Equal(d("1000")))
		assert.True(t, balance.Locked.IsZero())
	})

	t.Run("Fails when unlocking more than locked", func(t *testing.T) {
		l := NewLedger()
		require.NoError(t, l.Deposit("alice", "INR", d("1000")))
		require.NoError(t, l.Lock("alice", "INR", d("100")))

		err := l.Unlock("alice", "INR", d("200"))
		require.Error(t, err)
		assert.True(t, l.Balance("alice", "INR").Locked.Equal(d("100")))
	})
}

func TestLedger_Settle(t *testing.T) {
	setup := func(t *testing.T) *Ledger {
		l := NewLedger()
		require.NoError(t, l.Deposit("buyer", "INR", d("100000")))
		require.NoError(t, l.Deposit("seller", "TATA", d("50")))
		return l
	}

	t.Run("Buy taker against sell maker", func(t *testing.T) {
		l := setup(t)
		// seller resting 10 @ 100 with base locked, buyer takes 10 @ 100 with quote locked
		require.NoError(t, l.Lock("seller", "TATA", d("10")))
		require.NoError(t, l.Lock("buyer", "INR", d("1000")))

		fills := []orderbookv1.Fill{{
			TradeID:      1,
			Price:        d("100"),
			Quantity:     d("10"),
			MakerOrderID: "ask1",
			MakerUserID:  "seller",
			MakerSide:    orderbookv1.SideSell,
		}}
		l.Settle(fills, orderbookv1.SideBuy, "TATA", "INR", "buyer")

		buyerINR := l.Balance("buyer", "INR")
		assert.True(t, buyerINR.Available.Equal(d("99000")))
		assert.True(t, buyerINR.Locked.IsZero())

		buyerTATA := l.Balance("buyer", "TATA")
		assert.True(t, buyerTATA.Available.Equal(d("10")))

		sellerINR := l.Balance("seller", "INR")
		assert.True(t, sellerINR.Available.Equal(d("1000")))

		sellerTATA := l.Balance("seller", "TATA")
		assert.True(t, sellerTATA.Available.Equal(d("40")))
		assert.True(t, sellerTATA.Locked.IsZero())
	})

	t.Run("Sell taker against buy maker", func(t *testing.T) {
		l := setup(t)
		require.NoError(t, l.Lock("buyer", "INR", d("1000")))
		require.NoError(t, l.Lock("seller", "TATA", d("10")))

		fills := []orderbookv1.Fill{{
			TradeID:      1,
			Price:        d("100"),
			Quantity:     d("10"),
			MakerOrderID: "bid1",
			MakerUserID:  "buyer",
			MakerSide:    orderbookv1.SideBuy,
		}}
		l.Settle(fills, orderbookv1.SideSell, "TATA", "INR", "seller")

		assert.True(t, l.Balance("buyer", "INR").Locked.IsZero())
		assert.True(t, l.Balance("buyer", "TATA").Available.Equal(d("10")))
		assert.True(t, l.Balance("seller", "INR").Available.Equal(d("1000")))
		assert.True(t, l.Balance("seller", "TATA").Available.Equal(d("40")))
	})

	t.Run("Value is conserved per asset", func(t *testing.T) {
		l := setup(t)
		require.NoError(t, l.Lock("seller", "TATA", d("10")))
		require.NoError(t, l.Lock("buyer", "INR", d("1000")))

		fills := []orderbookv1.Fill{
			{TradeID: 1, Price: d("100"), Quantity: d("4"), MakerUserID: "seller", MakerSide: orderbookv1.SideSell},
			{TradeID: 2, Price: d("100"), Quantity: d("6"), MakerUserID: "seller", MakerSide: orderbookv1.SideSell},
		}
		l.Settle(fills, orderbookv1.SideBuy, "TATA", "INR", "buyer")

		totalINR := l.Balance("buyer", "INR").Total().Add(l.Balance("seller", "INR").Total())
		totalTATA := l.Balance("buyer", "TATA").Total().Add(l.Balance("seller", "TATA").Total())
		assert.True(t, totalINR.Equal(d("100000")))
		assert.True(t, totalTATA.Equal(d("50")))
	})
}

func TestLedger_SnapshotRestore(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.Deposit("alice", "INR", d("1000")))
	require.NoError(t, l.Deposit("bob", "TATA", d("25")))
	require.NoError(t, l.Lock("alice", "INR", d("300")))

	entries := l.Snapshot()

	restored := NewLedger()
	restored.Restore(entries)

	aliceINR := restored.Balance("alice", "INR")
	assert.True(t, aliceINR.Available.Equal(d("700")))
	assert.True(t, aliceINR.Locked.Equal(d("300")))
	assert.True(t, restored.Balance("bob", "TATA").Available.Equal(d("25")))

	// the restored copy is independent of the source
	require.NoError(t, restored.Deposit("alice", "INR", d("1")))
	assert.True(t, l.Balance("alice", "INR").Available.Equal(d("700")))
}
