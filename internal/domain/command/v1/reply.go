package commandv1

import (
	"encoding/json"

	orderbookv1 "github.com/loopspell2/exchange/internal/domain/orderbook/v1"
	"github.com/shopspring/decimal"
)

// ReplyType enumerates the responses pushed onto a client's reply list.
type ReplyType string

const (
	// ReplyOrderPlaced acknowledges a CREATE_ORDER, with its fills.
	ReplyOrderPlaced ReplyType = "ORDER_PLACED"
	// ReplyOrderCancelled acknowledges a CANCEL_ORDER. It is also used to
	// report a failed create or cancel, with zero executed quantity.
	ReplyOrderCancelled ReplyType = "ORDER_CANCELLED"
	// ReplyOpenOrders carries a user's resting orders.
	ReplyOpenOrders ReplyType = "OPEN_ORDERS"
	// ReplyDepth carries a market's aggregated depth.
	ReplyDepth ReplyType = "DEPTH"
	// ReplyOnRamp acknowledges an ON_RAMP credit.
	ReplyOnRamp ReplyType = "ON_RAMP"
)

// Reply is the single response the engine produces for each ingress envelope.
type Reply struct {
	Type    ReplyType   `json:"type"`
	Payload interface{} `json:"payload"`
}

// OrderPlacedPayload reports the outcome of a CREATE_ORDER.
type OrderPlacedPayload struct {
	OrderID     string             `json:"orderId"`
	ExecutedQty decimal.Decimal    `json:"executedQty"`
	Fills       []orderbookv1.Fill `json:"fills"`
}

// OrderCancelledPayload reports the outcome of a CANCEL_ORDER, or a rejected
// create/cancel. RemainingQty is the unfilled quantity released to the user.
type OrderCancelledPayload struct {
	OrderID      string          `json:"orderId"`
	ExecutedQty  decimal.Decimal `json:"executedQty"`
	RemainingQty decimal.Decimal `json:"remainingQty"`
}

// OnRampPayload acknowledges a balance credit.
type OnRampPayload struct {
	UserID string          `json:"userId"`
	Amount decimal.Decimal `json:"amount"`
	Asset  string          `json:"asset"`
}

// DepthPayload is the wire form of a book's aggregated depth: [price, qty]
// string pairs, bids best (highest) first and asks best (lowest) first.
type DepthPayload struct {
	Bids []PriceLevel `json:"bids"`
	Asks []PriceLevel `json:"asks"`
}

// PriceLevel is one [price, quantity] depth entry.
type PriceLevel struct {
	Price    decimal.Decimal
	Quantity decimal.Decimal
}

// MarshalJSON encodes the level as a ["price", "quantity"] tuple.
func (l PriceLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{l.Price.String(), l.Quantity.String()})
}

// UnmarshalJSON decodes a ["price", "quantity"] tuple.
func (l *PriceLevel) UnmarshalJSON(data []byte) error {
	var tuple [2]string
	if err := json.Unmarshal(data, &tuple); err != nil {
		return err
	}
	price, err := decimal.NewFromString(tuple[0])
	if err != nil {
		return err
	}
	quantity, err := decimal.NewFromString(tuple[1])
	if err != nil {
		return err
	}
	l.Price = price
	l.Quantity = quantity
	return nil
}

// NewDepthPayload converts a book's depth into its wire form.
func NewDepthPayload(depth orderbookv1.Depth) DepthPayload {
	payload := DepthPayload{
		Bids: make([]PriceLevel, 0, len(depth.Bids)),
		Asks: make([]PriceLevel, 0, len(depth.Asks)),
	}
	for _, level := range depth.Bids {
		payload.Bids = append(payload.Bids, PriceLevel{Price: level.Price, Quantity: level.Quantity})
	}
	for _, level := range depth.Asks {
		payload.Asks = append(payload.Asks, PriceLevel{Price: level.Price, Quantity: level.Quantity})
	}
	return payload
}
