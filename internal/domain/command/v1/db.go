package commandv1

import (
	"strconv"
	"time"

	orderbookv1 "github.com/loopspell2/exchange/internal/domain/orderbook/v1"
)

// DbMessageType enumerates the events written to the persistence queue.
type DbMessageType string

const (
	// DbOrderUpdate records a change to an order's executed quantity.
	DbOrderUpdate DbMessageType = "ORDER_UPDATE"
	// DbTradeAdded records one executed trade.
	DbTradeAdded DbMessageType = "TRADE_ADDED"
)

// DbMessage is one persistence queue entry.
type DbMessage struct {
	Type DbMessageType `json:"type"`
	Data interface{}   `json:"data"`
}

// OrderUpdateData records an order's execution progress. Market, price,
// quantity and side are set only on the first update for an order; follow-up
// updates for makers carry just the order ID and the newly executed quantity.
type OrderUpdateData struct {
	OrderID     string           `json:"orderId"`
	ExecutedQty string           `json:"executedQty"`
	Market      string           `json:"market,omitempty"`
	Price       string           `json:"price,omitempty"`
	Quantity    string           `json:"quantity,omitempty"`
	Side        orderbookv1.Side `json:"side,omitempty"`
}

// TradeAddedData records one executed trade for the external trade log.
type TradeAddedData struct {
	Market        string `json:"market"`
	ID            string `json:"id"`
	IsBuyerMaker  bool   `json:"isBuyerMaker"`
	Price         string `json:"price"`
	Quantity      string `json:"quantity"`
	QuoteQuantity string `json:"quoteQuantity"`
	Timestamp     int64  `json:"timestamp"`
}

// NewOrderUpdate builds the full first update for a taker order.
func NewOrderUpdate(order *orderbookv1.Order, market string, executedQty string) DbMessage {
	return DbMessage{
		Type: DbOrderUpdate,
		Data: OrderUpdateData{
			OrderID:     order.ID,
			ExecutedQty: executedQty,
			Market:      market,
			Price:       order.Price.String(),
			Quantity:    order.Quantity.String(),
			Side:        order.Side,
		},
	}
}

// NewMakerOrderUpdate builds the incremental update for a matched maker.
func NewMakerOrderUpdate(fill orderbookv1.Fill) DbMessage {
	return DbMessage{
		Type: DbOrderUpdate,
		Data: OrderUpdateData{
			OrderID:     fill.MakerOrderID,
			ExecutedQty: fill.Quantity.String(),
		},
	}
}

// NewTradeAdded builds the trade log entry for one fill.
func NewTradeAdded(market string, fill orderbookv1.Fill, at time.Time) DbMessage {
	return DbMessage{
		Type: DbTradeAdded,
		Data: TradeAddedData{
			Market:        market,
			ID:            strconv.FormatInt(fill.TradeID, 10),
			IsBuyerMaker:  fill.IsBuyerMaker(),
			Price:         fill.Price.String(),
			Quantity:      fill.Quantity.String(),
			QuoteQuantity: fill.QuoteQuantity().String(),
			Timestamp:     at.UnixMilli(),
		},
	}
}
