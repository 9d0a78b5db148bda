package orderbookv1

import (
	"github.com/shopspring/decimal"
)

// Fill represents one execution against a resting (maker) order, produced
// transiently during a match. Fills are not stored; they only derive events
// and ledger deltas.
type Fill struct {
	TradeID      int64           `json:"tradeId"`
	Price        decimal.Decimal `json:"price"`
	Quantity     decimal.Decimal `json:"qty"`
	MakerOrderID string          `json:"makerOrderId"`
	MakerUserID  string          `json:"makerUserId"`
	MakerSide    Side            `json:"-"`
}

// QuoteQuantity returns the quote-asset value of the fill.
func (f *Fill) QuoteQuantity() decimal.Decimal {
	return f.Price.Mul(f.Quantity)
}

// IsBuyerMaker reports whether the resting order was the buy side of the trade.
func (f *Fill) IsBuyerMaker() bool {
	return f.MakerSide == SideBuy
}
