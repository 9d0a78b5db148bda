package orderbookv1

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrNilOrder is returned when a nil order is passed to a limit.
	ErrNilOrder = errors.New("order cannot be nil")
	// ErrInvalidQuantity is returned when an order has a non-positive quantity.
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrInvalidPrice is returned when a limit or order has a non-positive price.
	ErrInvalidPrice = errors.New("price must be positive")
	// ErrOrderNotFound is returned when an order is not present in a limit.
	ErrOrderNotFound = errors.New("order not found in limit")
)

// Limit represents a price level in the order book. Orders are kept in arrival
// order; the slice order is the matching order (strict FIFO within a level).
// No internal locking: the book is owned by a single writer.
type Limit struct {
	Price  decimal.Decimal `json:"price"`
	Orders []*Order        `json:"orders"`
}

// NewLimit creates a new Limit with the specified price.
func NewLimit(price decimal.Decimal) *Limit {
	return &Limit{
		Price:  price,
		Orders: make([]*Order, 0),
	}
}

// AddOrder appends an order at the tail of the level, preserving arrival-time
// ordering.
func (l *Limit) AddOrder(order *Order) error {
	if order == nil {
		return ErrNilOrder
	}
	if order.Remaining().LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: got %s", ErrInvalidQuantity, order.Remaining())
	}

	l.Orders = append(l.Orders, order)
	return nil
}

// RemoveOrder removes the order with the given ID from the limit.
func (l *Limit) RemoveOrder(orderID string) (*Order, error) {
	for i, o := range l.Orders {
		if o.ID == orderID {
			l.Orders = append(l.Orders[:i], l.Orders[i+1:]...)
			return o, nil
		}
	}
	return nil, ErrOrderNotFound
}

// Fill matches the incoming taker order against this level in FIFO order and
// returns one Fill per maker touched. Both remainders are decremented; fully
// filled makers are removed from the level. Trade IDs are assigned by the book.
func (l *Limit) Fill(taker *Order) []Fill {
	if taker == nil {
		return nil
	}

	var fills []Fill
	var remaining []*Order

	for i, maker := range l.Orders {
		if taker.Remaining().LessThanOrEqual(decimal.Zero) {
			remaining = append(remaining, l.Orders[i:]...)
			break
		}

		qty := decimal.Min(taker.Remaining(), maker.Remaining())
		maker.Filled = maker.Filled.Add(qty)
		taker.Filled = taker.Filled.Add(qty)

		fills = append(fills, Fill{
			Price:        l.Price,
			Quantity:     qty,
			MakerOrderID: maker.ID,
			MakerUserID:  maker.UserID,
			MakerSide:    maker.Side,
		})

		if !maker.IsFilled() {
			remaining = append(remaining, maker)
		}
	}

	l.Orders = remaining
	return fills
}

// IsEmpty checks if the limit has no orders.
func (l *Limit) IsEmpty() bool {
	return len(l.Orders) == 0
}

// OrderCount returns the number of orders at this limit.
func (l *Limit) OrderCount() int {
	return len(l.Orders)
}

// OpenQuantity returns the aggregate remaining quantity at this level, which
// is what depth reports.
func (l *Limit) OpenQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, o := range l.Orders {
		total = total.Add(o.Remaining())
	}
	return total
}
