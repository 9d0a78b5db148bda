package orderbookv1

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestOrder(id, userID string, side Side, price, quantity string) *Order {
	return NewOrder(id, userID, side, d(price), d(quantity))
}

func TestNewLimit(t *testing.T) {
	limit := NewLimit(d("100"))

	assert.NotNil(t, limit)
	assert.True(t, limit.Price.Equal(d("100")))
	assert.Empty(t, limit.Orders)
	assert.True(t, limit.IsEmpty())
	assert.True(t, limit.OpenQuantity().IsZero())
}

func TestLimit_AddOrder(t *testing.T) {
	t.Run("Add valid order", func(t *testing.T) {
		limit := NewLimit(d("100"))
		order := newTestOrder("o1", "user1", SideBuy, "100", "10")

		err := limit.AddOrder(order)

		require.NoError(t, err)
		assert.Equal(t, 1, limit.OrderCount())
		assert.True(t, limit.OpenQuantity().Equal(d("10")))
		assert.False(t, limit.IsEmpty())
	})

	t.Run("Add nil order", func(t *testing.T) {
		limit := NewLimit(d("100"))
		err := limit.AddOrder(nil)
		assert.ErrorIs(t, err, ErrNilOrder)
	})

	t.Run("Add order with no remaining quantity", func(t *testing.T) {
		limit := NewLimit(d("100"))
		order := newTestOrder("o1", "user1", SideBuy, "100", "10")
		order.Filled = d("10")

		err := limit.AddOrder(order)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("Orders keep arrival order", func(t *testing.T) {
		limit := NewLimit(d("100"))
		first := newTestOrder("o1", "user1", SideSell, "100", "3")
		second := newTestOrder("o2", "user2", SideSell, "100", "7")

		require.NoError(t, limit.AddOrder(first))
		require.NoError(t, limit.AddOrder(second))

		assert.Equal(t, "o1", limit.Orders[0].ID)
		assert.Equal(t, "o2", limit.Orders[1].ID)
		assert.True(t, limit.OpenQuantity().Equal(d("10")))
	})
}

func TestLimit_RemoveOrder(t *testing.T) {
	limit := NewLimit(d("100"))
	order := newTestOrder("o1", "user1", SideBuy, "100", "10")
	require.NoError(t, limit.AddOrder(order))

	t.Run("Remove existing order", func(t *testing.T) {
		removed, err := limit.RemoveOrder("o1")

		require.NoError(t, err)
		assert.Equal(t, order, removed)
		assert.True(t, limit.IsEmpty())
	})

	t.Run("Remove missing order", func(t *testing.T) {
		_, err := limit.RemoveOrder("missing")
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestLimit_Fill(t *testing.T) {
	t.Run("Partial fill leaves maker resting", func(t *testing.T) {
		limit := NewLimit(d("100"))
		maker := newTestOrder("ask1", "seller", SideSell, "100", "10")
		require.NoError(t, limit.AddOrder(maker))

		taker := newTestOrder("bid1", "buyer", SideBuy, "100", "5")
		fills := limit.Fill(taker)

		require.Len(t, fills, 1)
		assert.True(t, fills[0].Price.Equal(d("100")))
		assert.True(t, fills[0].Quantity.Equal(d("5")))
		assert.Equal(t, "ask1", fills[0].MakerOrderID)
		assert.Equal(t, "seller", fills[0].MakerUserID)
		assert.Equal(t, SideSell, fills[0].MakerSide)

		assert.True(t, taker.IsFilled())
		assert.True(t, maker.Remaining().Equal(d("5")))
		assert.Equal(t, 1, limit.OrderCount())
		assert.True(t, limit.OpenQuantity().Equal(d("5")))
	})

	t.Run("Exact fill removes maker", func(t *testing.T) {
		limit := NewLimit(d("100"))
		maker := newTestOrder("ask1", "seller", SideSell, "100", "5")
		require.NoError(t, limit.AddOrder(maker))

		taker := newTestOrder("bid1", "buyer", SideBuy, "100", "5")
		fills := limit.Fill(taker)

		require.Len(t, fills, 1)
		assert.True(t, maker.IsFilled())
		assert.True(t, limit.IsEmpty())
	})

	t.Run("FIFO across makers at the same price", func(t *testing.T) {
		limit := NewLimit(d("100"))
		first := newTestOrder("ask1", "alice", SideSell, "100", "4")
		second := newTestOrder("ask2", "bob", SideSell, "100", "4")
		require.NoError(t, limit.AddOrder(first))
		require.NoError(t, limit.AddOrder(second))

		taker := newTestOrder("bid1", "carol", SideBuy, "100", "6")
		fills := limit.Fill(taker)

		require.Len(t, fills, 2)
		assert.Equal(t, "ask1", fills[0].MakerOrderID)
		assert.True(t, fills[0].Quantity.Equal(d("4")))
		assert.Equal(t, "ask2", fills[1].MakerOrderID)
		assert.True(t, fills[1].Quantity.Equal(d("2")))

		// first maker fully consumed, second partially resting
		assert.Equal(t, 1, limit.OrderCount())
		assert.Equal(t, "ask2", limit.Orders[0].ID)
		assert.True(t, limit.OpenQuantity().Equal(d("2")))
	})

	t.Run("Taker with nothing remaining", func(t *testing.T) {
		limit := NewLimit(d("100"))
		maker := newTestOrder("ask1", "seller", SideSell, "100", "5")
		require.NoError(t, limit.AddOrder(maker))

		taker := newTestOrder("bid1", "buyer", SideBuy, "100", "5")
		taker.Filled = d("5")

		fills := limit.Fill(taker)
		assert.Empty(t, fills)
		assert.Equal(t, 1, limit.OrderCount())
	})

	t.Run("Nil taker", func(t *testing.T) {
		limit := NewLimit(d("100"))
		assert.Nil(t, limit.Fill(nil))
	})
}

func TestFill_IsBuyerMaker(t *testing.T) {
	buyMaker := Fill{MakerSide: SideBuy}
	sellMaker := Fill{MakerSide: SideSell}

	assert.True(t, buyMaker.IsBuyerMaker())
	assert.False(t, sellMaker.IsBuyerMaker())
}

func TestFill_QuoteQuantity(t *testing.T) {
	fill := Fill{Price: d("100.5"), Quantity: d("2")}
	assert.True(t, fill.QuoteQuantity().Equal(d("201")))
}

func TestSide_Opposite(t *testing.T) {
	assert.Equal(t, SideSell, SideBuy.Opposite())
	assert.Equal(t, SideBuy, SideSell.Opposite())
}
