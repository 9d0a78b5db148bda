package commandv1

import (
	"encoding/json"

	orderbookv1 "github.com/loopspell2/exchange/internal/domain/orderbook/v1"
	"github.com/shopspring/decimal"
)

// MessageType enumerates the commands the engine accepts from the API layer.
type MessageType string

const (
	// MessageCreateOrder submits a new limit order to a market.
	MessageCreateOrder MessageType = "CREATE_ORDER"
	// MessageCancelOrder cancels a resting order and releases its reserved funds.
	MessageCancelOrder MessageType = "CANCEL_ORDER"
	// MessageGetOpenOrders lists a user's resting orders on a market.
	MessageGetOpenOrders MessageType = "GET_OPEN_ORDERS"
	// MessageGetDepth returns the aggregated depth of a market.
	MessageGetDepth MessageType = "GET_DEPTH"
	// MessageOnRamp credits a user's available balance in the base currency.
	MessageOnRamp MessageType = "ON_RAMP"
)

// Envelope is one ingress entry popped from the command list. ClientID names
// the reply list the sender is blocked on.
type Envelope struct {
	ClientID string  `json:"clientId"`
	Message  Message `json:"message"`
}

// Message carries the command kind and its not-yet-decoded payload. Data is
// decoded into the matching *Data struct once the type is known.
type Message struct {
	Type MessageType     `json:"type"`
	Data json.RawMessage `json:"data"`
}

// CreateOrderData is the payload of a CREATE_ORDER command.
type CreateOrderData struct {
	Market   string           `json:"market"`
	Price    decimal.Decimal  `json:"price"`
	Quantity decimal.Decimal  `json:"quantity"`
	Side     orderbookv1.Side `json:"side"`
	UserID   string           `json:"userId"`
}

// CancelOrderData is the payload of a CANCEL_ORDER command.
type CancelOrderData struct {
	OrderID string `json:"orderId"`
	Market  string `json:"market"`
}

// GetOpenOrdersData is the payload of a GET_OPEN_ORDERS command.
type GetOpenOrdersData struct {
	UserID string `json:"userId"`
	Market string `json:"market"`
}

// GetDepthData is the payload of a GET_DEPTH command.
type GetDepthData struct {
	Market string `json:"market"`
}

// OnRampData is the payload of an ON_RAMP command.
type OnRampData struct {
	UserID string          `json:"userId"`
	Amount decimal.Decimal `json:"amount"`
	TxnID  string          `json:"txnId"`
}
