package commandv1

import (
	"fmt"

	orderbookv1 "github.com/loopspell2/exchange/internal/domain/orderbook/v1"
)

// StreamMessage is one pubsub entry on a market data channel. Stream is the
// channel name, so subscribers can demultiplex a combined feed.
type StreamMessage struct {
	Stream string      `json:"stream"`
	Data   interface{} `json:"data"`
}

// DepthStreamData is the incremental depth update published after matching.
// Only the levels touched by the command are included; a level with zero
// quantity means it was removed.
type DepthStreamData struct {
	Asks  []PriceLevel `json:"a"`
	Bids  []PriceLevel `json:"b"`
	Event string       `json:"e"`
}

// TradeStreamData is one executed trade on the trade channel.
type TradeStreamData struct {
	Event        string `json:"e"`
	TradeID      int64  `json:"t"`
	IsBuyerMaker bool   `json:"m"`
	Price        string `json:"p"`
	Quantity     string `json:"q"`
	Market       string `json:"s"`
}

// DepthChannel returns the pubsub channel carrying a market's depth deltas.
func DepthChannel(market string) string {
	return fmt.Sprintf("depth@%s", market)
}

// TradeChannel returns the pubsub channel carrying a market's trades.
func TradeChannel(market string) string {
	return fmt.Sprintf("trade@%s", market)
}

// NewDepthStream wraps touched levels into a publishable stream message.
func NewDepthStream(market string, bids, asks []orderbookv1.Level) StreamMessage {
	data := DepthStreamData{
		Asks:  make([]PriceLevel, 0, len(asks)),
		Bids:  make([]PriceLevel, 0, len(bids)),
		Event: "depth",
	}
	for _, level := range asks {
		data.Asks = append(data.Asks, PriceLevel{Price: level.Price, Quantity: level.Quantity})
	}
	for _, level := range bids {
		data.Bids = append(data.Bids, PriceLevel{Price: level.Price, Quantity: level.Quantity})
	}
	return StreamMessage{Stream: DepthChannel(market), Data: data}
}

// NewTradeStream wraps one fill into a publishable stream message.
func NewTradeStream(market string, fill orderbookv1.Fill) StreamMessage {
	return StreamMessage{
		Stream: TradeChannel(market),
		Data: TradeStreamData{
			Event:        "trade",
			TradeID:      fill.TradeID,
			IsBuyerMaker: fill.IsBuyerMaker(),
			Price:        fill.Price.String(),
			Quantity:     fill.Quantity.String(),
			Market:       market,
		},
	}
}
