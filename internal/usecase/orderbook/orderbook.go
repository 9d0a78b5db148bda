package orderbook

import (
	"fmt"
	"strings"

	orderbookv1 "github.com/loopspell2/exchange/internal/domain/orderbook/v1"
	snapshotv1 "github.com/loopspell2/exchange/internal/domain/snapshot/v1"
	"github.com/loopspell2/exchange/pkg/errors"
	"github.com/shopspring/decimal"
)

// Orderbook holds one market's resting liquidity and executes matches with
// deterministic price-time priority. Both sides are kept best-price-first:
// bids descending, asks ascending, strict FIFO within a level. The book has
// no internal locking; the engine's single writer owns it.
type Orderbook struct {
	market     string
	baseAsset  string
	quoteAsset string

	bids []*orderbookv1.Limit
	asks []*orderbookv1.Limit

	orders map[string]*orderbookv1.Order // orderID -> resting order

	lastTradeID    int64
	lastTradePrice decimal.Decimal
	sequence       int64
}

// NewOrderbook creates an empty book for the given BASE_QUOTE ticker.
func NewOrderbook(market string) (*Orderbook, error) {
	parts := strings.Split(market, "_")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, errors.NewErrorDetails(
			fmt.Sprintf("market ticker must be BASE_QUOTE, got %q", market),
			string(errors.UnknownMarket),
			"market",
		)
	}

	return &Orderbook{
		market:     market,
		baseAsset:  parts[0],
		quoteAsset: parts[1],
		bids:       make([]*orderbookv1.Limit, 0),
		asks:       make([]*orderbookv1.Limit, 0),
		orders:     make(map[string]*orderbookv1.Order),
	}, nil
}

// Ticker returns the stable identifier baseAsset_quoteAsset.
func (ob *Orderbook) Ticker() string {
	return ob.market
}

// BaseAsset returns the traded asset of the market.
func (ob *Orderbook) BaseAsset() string {
	return ob.baseAsset
}

// QuoteAsset returns the pricing asset of the market.
func (ob *Orderbook) QuoteAsset() string {
	return ob.quoteAsset
}

// LastTradePrice returns the price of the most recent trade, zero if none.
func (ob *Orderbook) LastTradePrice() decimal.Decimal {
	return ob.lastTradePrice
}

// AddOrder matches the order against the opposite side, best price first,
// FIFO within a level, then rests any remainder at the tail of its own price
// level. It returns the fills and the executed quantity. Fills execute at the
// resting price, so the taker never pays worse than its limit. Self-trades
// are not prevented: an order may match the same user's resting order.
func (ob *Orderbook) AddOrder(order *orderbookv1.Order) ([]orderbookv1.Fill, decimal.Decimal, error) {
	if order == nil {
		return nil, decimal.Zero, orderbookv1.ErrNilOrder
	}
	if order.ID == "" {
		return nil, decimal.Zero, errors.NewErrorDetails("order ID cannot be empty", string(errors.InvalidOrder), "orderId")
	}
	if order.Price.LessThanOrEqual(decimal.Zero) {
		return nil, decimal.Zero, errors.NewErrorDetails(
			fmt.Sprintf("price must be positive, got %s", order.Price),
			string(errors.InvalidOrder),
			"price",
		)
	}
	if order.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, decimal.Zero, errors.NewErrorDetails(
			fmt.Sprintf("quantity must be positive, got %s", order.Quantity),
			string(errors.InvalidOrder),
			"quantity",
		)
	}
	if _, exists := ob.orders[order.ID]; exists {
		return nil, decimal.Zero, errors.NewErrorDetails(
			fmt.Sprintf("order %s already resting", order.ID),
			string(errors.OrderExists),
			"orderId",
		)
	}

	fills := ob.match(order)

	if !order.IsFilled() {
		ob.sequence++
		order.Sequence = ob.sequence
		ob.rest(order)
	}

	return fills, order.Filled, nil
}

// match consumes crossing liquidity from the opposite side. Limits are
// already best-first, so walking from the front preserves price priority;
// emptied limits are dropped.
func (ob *Orderbook) match(taker *orderbookv1.Order) []orderbookv1.Fill {
	opposite := &ob.asks
	if !taker.IsBid() {
		opposite = &ob.bids
	}

	var fills []orderbookv1.Fill
	for len(*opposite) > 0 {
		best := (*opposite)[0]
		if taker.IsFilled() || !taker.Crosses(best.Price) {
			break
		}

		for _, fill := range best.Fill(taker) {
			ob.lastTradeID++
			fill.TradeID = ob.lastTradeID
			ob.lastTradePrice = fill.Price
			if maker, ok := ob.orders[fill.MakerOrderID]; ok && maker.IsFilled() {
				delete(ob.orders, fill.MakerOrderID)
			}
			fills = append(fills, fill)
		}

		if best.IsEmpty() {
			*opposite = (*opposite)[1:]
		}
	}

	return fills
}

// rest inserts the order at the tail of its price level, creating the level
// in sorted position if needed.
func (ob *Orderbook) rest(order *orderbookv1.Order) {
	limits := &ob.bids
	if !order.IsBid() {
		limits = &ob.asks
	}

	idx := -1
	for i, limit := range *limits {
		if limit.Price.Equal(order.Price) {
			idx = i
			break
		}
		if betterThan(order.Side, order.Price, limit.Price) {
			idx = i
			level := orderbookv1.NewLimit(order.Price)
			*limits = append(*limits, nil)
			copy((*limits)[i+1:], (*limits)[i:])
			(*limits)[i] = level
			break
		}
	}
	if idx == -1 {
		idx = len(*limits)
		*limits = append(*limits, orderbookv1.NewLimit(order.Price))
	}

	// AddOrder only fails for nil/empty orders, both excluded above
	_ = (*limits)[idx].AddOrder(order)
	ob.orders[order.ID] = order
}

// betterThan reports whether price a has stricter priority than b on the
// given side (higher for bids, lower for asks).
func betterThan(side orderbookv1.Side, a, b decimal.Decimal) bool {
	if side == orderbookv1.SideBuy {
		return a.GreaterThan(b)
	}
	return a.LessThan(b)
}

// CancelOrder removes the order from whichever side holds it and returns it
// so the caller can release the reserved funds for the unfilled remainder.
func (ob *Orderbook) CancelOrder(orderID string) (*orderbookv1.Order, error) {
	order, ok := ob.orders[orderID]
	if !ok {
		return nil, errors.NewErrorDetails(
			fmt.Sprintf("order %s not found on book %s", orderID, ob.market),
			string(errors.OrderNotFound),
			"orderId",
		)
	}

	limits := &ob.bids
	if !order.IsBid() {
		limits = &ob.asks
	}

	for i, limit := range *limits {
		if !limit.Price.Equal(order.Price) {
			continue
		}
		if _, err := limit.RemoveOrder(orderID); err != nil {
			return nil, err
		}
		if limit.IsEmpty() {
			*limits = append((*limits)[:i], (*limits)[i+1:]...)
		}
		break
	}

	delete(ob.orders, orderID)
	return order, nil
}

// Depth aggregates the remaining quantity per price level on both sides,
// bids best (highest) first and asks best (lowest) first.
func (ob *Orderbook) Depth() orderbookv1.Depth {
	depth := orderbookv1.Depth{
		Bids: make([]orderbookv1.Level, 0, len(ob.bids)),
		Asks: make([]orderbookv1.Level, 0, len(ob.asks)),
	}
	for _, limit := range ob.bids {
		depth.Bids = append(depth.Bids, orderbookv1.Level{Price: limit.Price, Quantity: limit.OpenQuantity()})
	}
	for _, limit := range ob.asks {
		depth.Asks = append(depth.Asks, orderbookv1.Level{Price: limit.Price, Quantity: limit.OpenQuantity()})
	}
	return depth
}

// DepthAt returns the aggregate level at a price on one side. A level that no
// longer exists reports zero quantity, which consumers treat as a removal.
func (ob *Orderbook) DepthAt(side orderbookv1.Side, price decimal.Decimal) orderbookv1.Level {
	limits := ob.bids
	if side == orderbookv1.SideSell {
		limits = ob.asks
	}
	for _, limit := range limits {
		if limit.Price.Equal(price) {
			return orderbookv1.Level{Price: price, Quantity: limit.OpenQuantity()}
		}
	}
	return orderbookv1.Level{Price: price, Quantity: decimal.Zero}
}

// OpenOrders returns the user's resting orders on both sides, in book order.
func (ob *Orderbook) OpenOrders(userID string) []*orderbookv1.Order {
	var open []*orderbookv1.Order
	for _, limit := range ob.bids {
		for _, order := range limit.Orders {
			if order.UserID == userID {
				open = append(open, order)
			}
		}
	}
	for _, limit := range ob.asks {
		for _, order := range limit.Orders {
			if order.UserID == userID {
				open = append(open, order)
			}
		}
	}
	return open
}

// Snapshot captures the book's full state. Orders are copied by value in book
// order, so restoring preserves price-time priority.
func (ob *Orderbook) Snapshot() snapshotv1.BookSnapshot {
	bs := snapshotv1.BookSnapshot{
		Market:         ob.market,
		Bids:           make([]orderbookv1.Order, 0, len(ob.orders)),
		Asks:           make([]orderbookv1.Order, 0),
		LastTradeID:    ob.lastTradeID,
		LastTradePrice: ob.lastTradePrice,
	}
	for _, limit := range ob.bids {
		for _, order := range limit.Orders {
			bs.Bids = append(bs.Bids, *order)
		}
	}
	for _, limit := range ob.asks {
		for _, order := range limit.Orders {
			bs.Asks = append(bs.Asks, *order)
		}
	}
	return bs
}

// Restore replaces the book's state with a snapshot previously produced by
// Snapshot on a book with the same ticker.
func (ob *Orderbook) Restore(bs snapshotv1.BookSnapshot) error {
	if bs.Market != ob.market {
		return errors.NewErrorDetails(
			fmt.Sprintf("snapshot is for market %s, book is %s", bs.Market, ob.market),
			string(errors.SnapshotUnavailable),
			"market",
		)
	}

	ob.bids = make([]*orderbookv1.Limit, 0)
	ob.asks = make([]*orderbookv1.Limit, 0)
	ob.orders = make(map[string]*orderbookv1.Order)
	ob.lastTradeID = bs.LastTradeID
	ob.lastTradePrice = bs.LastTradePrice
	ob.sequence = 0

	for _, stored := range append(append([]orderbookv1.Order{}, bs.Bids...), bs.Asks...) {
		order := stored
		ob.rest(&order)
		if order.Sequence > ob.sequence {
			ob.sequence = order.Sequence
		}
	}

	return nil
}
