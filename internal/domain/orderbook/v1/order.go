package orderbookv1

import (
	"github.com/shopspring/decimal"
)

// Side represents which side of the book an order belongs to.
type Side string

const (
	// SideBuy represents a bid order.
	SideBuy Side = "buy"
	// SideSell represents an ask order.
	SideSell Side = "sell"
)

// Opposite returns the other side of the book.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// Order represents a single order in the order book. It is owned exclusively
// by the book that holds it and mutated only by matching.
type Order struct {
	ID       string          `json:"orderId"`
	UserID   string          `json:"userId"`
	Side     Side            `json:"side"`
	Price    decimal.Decimal `json:"price"`
	Quantity decimal.Decimal `json:"quantity"`
	Filled   decimal.Decimal `json:"filled"`
	Sequence int64           `json:"sequence"` // arrival order, ties broken FIFO within a price level
}

// NewOrder creates a new order with the given parameters.
func NewOrder(id, userID string, side Side, price, quantity decimal.Decimal) *Order {
	return &Order{
		ID:       id,
		UserID:   userID,
		Side:     side,
		Price:    price,
		Quantity: quantity,
		Filled:   decimal.Zero,
	}
}

// Remaining returns the unfilled quantity of the order.
func (o *Order) Remaining() decimal.Decimal {
	return o.Quantity.Sub(o.Filled)
}

// IsFilled checks if the order has no remaining quantity.
func (o *Order) IsFilled() bool {
	return o.Filled.GreaterThanOrEqual(o.Quantity)
}

// IsBid checks if the order is a bid (buy) order.
func (o *Order) IsBid() bool {
	return o.Side == SideBuy
}

// Crosses reports whether the order's limit price crosses the given resting price.
func (o *Order) Crosses(restingPrice decimal.Decimal) bool {
	if o.IsBid() {
		return restingPrice.LessThanOrEqual(o.Price)
	}
	return restingPrice.GreaterThanOrEqual(o.Price)
}
