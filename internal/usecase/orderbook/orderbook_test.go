package orderbook

import (
	"fmt"
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

var orderSeq int

func newOrder(userID string, side orderbookv1.Side, price, quantity string) *orderbookv1.Order {
	orderSeq++
	return orderbookv1.NewOrder(fmt.Sprintf("order-%d", orderSeq), userID, side, d(price), d(quantity))
}

func newBook(t *testing.T) *Orderbook {
	ob, err := NewOrderbook("TATA_INR")
	require.NoError(t, err)
	return ob
}

func TestNewOrderbook(t *testing.T) {
	t.Run("Valid ticker", func(t *testing.T) {
		ob, err := NewOrderbook("TATA_INR")
		require.NoError(t, err)
		assert.Equal(t, "TATA_INR", ob.Ticker())
		assert.Equal(t, "TATA", ob.BaseAsset())
		assert.Equal(t, "INR", ob.QuoteAsset())
	})

	t.Run("Malformed tickers", func(t *testing.T) {
		for _, ticker := range []string{"", "TATA", "TATA_", "_INR", "TATA_INR_X"} {
			_, err := NewOrderbook(ticker)
			assert.Error(t, err, ticker)
		}
	})
}

func TestOrderbook_AddOrder_Resting(t *testing.T) {
	ob := newBook(t)

	fills, executed, err := ob.AddOrder(newOrder("alice", orderbookv1.SideBuy, "100", "10"))

	require.NoError(t, err)
	assert.Empty(t, fills)
	assert.True(t, executed.IsZero())

	depth := ob.Depth()
	require.Len(t, depth.Bids, 1)
	assert.True(t, depth.Bids[0].Price.Equal(d("100")))
	assert.True(t, depth.Bids[0].Quantity.Equal(d("10")))
	assert.Empty(t, depth.Asks)
}

func TestOrderbook_AddOrder_Validation(t *testing.T) {
	ob := newBook(t)

	t.Run("Nil order", func(t *testing.T) {
		_, _, err := ob.AddOrder(nil)
		assert.ErrorIs(t, err, orderbookv1.ErrNilOrder)
	})

	t.Run("Non-positive price", func(t *testing.T) {
		_, _, err := ob.AddOrder(orderbookv1.NewOrder("o1", "alice", orderbookv1.SideBuy, d("0"), d("1")))
		require.Error(t, err)
		assert.True(t, pkgerrors.Is(err, pkgerrors.InvalidOrder))
	})

	t.Run("Non-positive quantity", func(t *testing.T) {
		_, _, err := ob.AddOrder(orderbookv1.NewOrder("o1", "alice", orderbookv1.SideBuy, d("100"), d("0")))
		require.Error(t, err)
		assert.True(t, pkgerrors.Is(err, pkgerrors.InvalidOrder))
	})

	t.Run("Duplicate order ID", func(t *testing.T) {
		_, _, err := ob.AddOrder(orderbookv1.NewOrder("dup", "alice", orderbookv1.SideBuy, d("100"), d("1")))
		require.NoError(t, err)
		_, _, err = ob.AddOrder(orderbookv1.NewOrder("dup", "alice", orderbookv1.SideBuy, d("100"), d("1")))
		require.Error(t, err)
		assert.True(t, pkgerrors.Is(err, pkgerrors.OrderExists))
	})
}

func TestOrderbook_PriceTimePriority(t *testing.T) {
	ob := newBook(t)

	// resting asks at [100, 100, 101] in insertion order
	first := newOrder("alice", orderbookv1.SideSell, "100", "5")
	second := newOrder("bob", orderbookv1.SideSell, "100", "5")
	third := newOrder("carol", orderbookv1.SideSell, "101", "5")
	for _, o := range []*orderbookv1.Order{first, second, third} {
		_, _, err := ob.AddOrder(o)
		require.NoError(t, err)
	}

	// buy at 101 for exactly the two 100-priced orders
	fills, executed, err := ob.AddOrder(newOrder("dave", orderbookv1.SideBuy, "101", "10"))

	require.NoError(t, err)
	assert.True(t, executed.Equal(d("10")))
	require.Len(t, fills, 2)
	assert.Equal(t, first.ID, fills[0].MakerOrderID)
	assert.Equal(t, second.ID, fills[1].MakerOrderID)
	// both executed at the resting price, not the taker's limit
	assert.True(t, fills[0].Price.Equal(d("100")))
	assert.True(t, fills[1].Price.Equal(d("100")))

	// the 101 ask is untouched
	depth := ob.Depth()
	require.Len(t, depth.Asks, 1)
	assert.True(t, depth.Asks[0].Price.Equal(d("101")))
	assert.True(t, depth.Asks[0].Quantity.Equal(d("5")))
}

func TestOrderbook_PartialFill(t *testing.T) {
	ob := newBook(t)

	_, _, err := ob.AddOrder(newOrder("buyer", orderbookv1.SideBuy, "100", "6"))
	require.NoError(t, err)

	sell := newOrder("seller", orderbookv1.SideSell, "100", "10")
	fills, executed, err := ob.AddOrder(sell)

	require.NoError(t, err)
	require.Len(t, fills, 1)
	assert.True(t, executed.Equal(d("6")))
	assert.True(t, sell.Filled.Equal(d("6")))
	assert.True(t, sell.Quantity.Equal(d("10")))

	// the remainder rests on the ask side, depth reflects 4
	depth := ob.Depth()
	assert.Empty(t, depth.Bids)
	require.Len(t, depth.Asks, 1)
	assert.True(t, depth.Asks[0].Quantity.Equal(d("4")))
}

func TestOrderbook_DepthAggregation(t *testing.T) {
	ob := newBook(t)

	_, _, err := ob.AddOrder(newOrder("alice", orderbookv1.SideBuy, "50", "3"))
	require.NoError(t, err)
	_, _, err = ob.AddOrder(newOrder("bob", orderbookv1.SideBuy, "50", "7"))
	require.NoError(t, err)

	depth := ob.Depth()
	require.Len(t, depth.Bids, 1)
	assert.True(t, depth.Bids[0].Price.Equal(d("50")))
	assert.True(t, depth.Bids[0].Quantity.Equal(d("10")))
}

func TestOrderbook_DepthOrdering(t *testing.T) {
	ob := newBook(t)

	for _, price := range []string{"99", "101", "100"} {
		_, _, err := ob.AddOrder(newOrder("alice", orderbookv1.SideBuy, price, "1"))
		require.NoError(t, err)
	}
	for _, price := range []string{"103", "102", "104"} {
		_, _, err := ob.AddOrder(newOrder("bob", orderbookv1.SideSell, price, "1"))
		require.NoError(t, err)
	}

	depth := ob.Depth()
	require.Len(t, depth.Bids, 3)
	assert.True(t, depth.Bids[0].Price.Equal(d("101")))
	assert.True(t, depth.Bids[1].Price.Equal(d("100")))
	assert.True(t, depth.Bids[2].Price.Equal(d("99")))
	require.Len(t, depth.Asks, 3)
	assert.True(t, depth.Asks[0].Price.Equal(d("102")))
	assert.True(t, depth.Asks[1].Price.Equal(d("103")))
	assert.True(t, depth.Asks[2].Price.Equal(d("104")))
}

func TestOrderbook_TradeIDsAreMonotonic(t *testing.T) {
	ob := newBook(t)

	_, _, err := ob.AddOrder(newOrder("alice", orderbookv1.SideSell, "100", "2"))
	require.NoError(t, err)
	_, _, err = ob.AddOrder(newOrder("bob", orderbookv1.SideSell, "100", "2"))
	require.NoError(t, err)

	fills, _, err := ob.AddOrder(newOrder("carol", orderbookv1.SideBuy, "100", "4"))
	require.NoError(t, err)
	require.Len(t, fills, 2)
	assert.Equal(t, int64(1), fills[0].TradeID)
	assert.Equal(t, int64(2), fills[1].TradeID)
	assert.True(t, ob.LastTradePrice().Equal(d("100")))
}

func TestOrderbook_SelfTradeAllowed(t *testing.T) {
	ob := newBook(t)

	_, _, err := ob.AddOrder(newOrder("alice", orderbookv1.SideSell, "100", "5"))
	require.NoError(t, err)

	fills, executed, err := ob.AddOrder(newOrder("alice", orderbookv1.SideBuy, "100", "5"))
	require.NoError(t, err)
	require.Len(t, fills, 1)
	assert.True(t, executed.Equal(d("5")))
	assert.Equal(t, "alice", fills[0].MakerUserID)
}

func TestOrderbook_CancelOrder(t *testing.T) {
	t.Run("Cancel resting order frees its level", func(t *testing.T) {
		ob := newBook(t)
		order := newOrder("alice", orderbookv1.SideBuy, "100", "10")
		_, _, err := ob.AddOrder(order)
		require.NoError(t, err)

		cancelled, err := ob.CancelOrder(order.ID)
		require.NoError(t, err)
		assert.Equal(t, order.ID, cancelled.ID)

		assert.Empty(t, ob.Depth().Bids)
		level := ob.DepthAt(orderbookv1.SideBuy, d("100"))
		assert.True(t, level.Quantity.IsZero())
	})

	t.Run("Cancel keeps the level when other orders remain", func(t *testing.T) {
		ob := newBook(t)
		first := newOrder("alice", orderbookv1.SideSell, "100", "3")
		second := newOrder("bob", orderbookv1.SideSell, "100", "7")
		_, _, err := ob.AddOrder(first)
		require.NoError(t, err)
		_, _, err = ob.AddOrder(second)
		require.NoError(t, err)

		_, err = ob.CancelOrder(first.ID)
		require.NoError(t, err)

		level := ob.DepthAt(orderbookv1.SideSell, d("100"))
		assert.True(t, level.Quantity.Equal(d("7")))
	})

	t.Run("Cancel unknown order", func(t *testing.T) {
		ob := newBook(t)
		_, err := ob.CancelOrder("missing")
		require.Error(t, err)
		assert.True(t, pkgerrors.Is(err, pkgerrors.OrderNotFound))
	})

	t.Run("Fully matched orders cannot be cancelled", func(t *testing.T) {
		ob := newBook(t)
		ask := newOrder("alice", orderbookv1.SideSell, "100", "5")
		_, _, err := ob.AddOrder(ask)
		require.NoError(t, err)
		_, _, err = ob.AddOrder(newOrder("bob", orderbookv1.SideBuy, "100", "5"))
		require.NoError(t, err)

		_, err = ob.CancelOrder(ask.ID)
		assert.True(t, pkgerrors.Is(err, pkgerrors.OrderNotFound))
	})
}

func TestOrderbook_OpenOrders(t *testing.T) {
	ob := newBook(t)

	aliceBid := newOrder("alice", orderbookv1.SideBuy, "99", "1")
	aliceAsk := newOrder("alice", orderbookv1.SideSell, "105", "2")
	bobBid := newOrder("bob", orderbookv1.SideBuy, "98", "4")
	for _, o := range []*orderbookv1.Order{aliceBid, aliceAsk, bobBid} {
		_, _, err := ob.AddOrder(o)
		require.NoError(t, err)
	}

	open := ob.OpenOrders("alice")
	require.Len(t, open, 2)
	ids := []string{open[0].ID, open[1].ID}
	assert.Contains(t, ids, aliceBid.ID)
	assert.Contains(t, ids, aliceAsk.ID)

	assert.Empty(t, ob.OpenOrders("nobody"))
}

func TestOrderbook_SnapshotRestore(t *testing.T) {
	ob := newBook(t)

	_, _, err := ob.AddOrder(newOrder("alice", orderbookv1.SideBuy, "99", "5"))
	require.NoError(t, err)
	_, _, err = ob.AddOrder(newOrder("bob", orderbookv1.SideBuy, "99", "3"))
	require.NoError(t, err)
	_, _, err = ob.AddOrder(newOrder("carol", orderbookv1.SideSell, "101", "7"))
	require.NoError(t, err)
	// produce a trade so the counters are non-zero
	_, _, err = ob.AddOrder(newOrder("dave", orderbookv1.SideBuy, "101", "2"))
	require.NoError(t, err)

	snap := ob.Snapshot()

	restored := newBook(t)
	require.NoError(t, restored.Restore(snap))

	assert.Equal(t, ob.Depth(), restored.Depth())
	assert.True(t, restored.LastTradePrice().Equal(ob.LastTradePrice()))

	// trade IDs continue after the snapshot point instead of restarting
	fills, _, err := restored.AddOrder(newOrder("erin", orderbookv1.SideSell, "99", "1"))
	require.NoError(t, err)
	require.Len(t, fills, 1)
	assert.Equal(t, int64(2), fills[0].TradeID)

	// FIFO within the restored 99 level is preserved: alice before bob
	assert.Equal(t, "alice", fills[0].MakerUserID)
}

func TestOrderbook_Restore_WrongMarket(t *testing.T) {
	ob := newBook(t)
	other, err := NewOrderbook("BTC_USDT")
	require.NoError(t, err)

	err = ob.Restore(other.Snapshot())
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.SnapshotUnavailable))
}
