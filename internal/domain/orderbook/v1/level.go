package orderbookv1

import (
	"github.com/shopspring/decimal"
)

// Level is one aggregated depth entry: the open quantity resting at a price.
type Level struct {
	Price    decimal.Decimal `json:"price"`
	Quantity decimal.Decimal `json:"quantity"`
}

// Depth holds the aggregated levels of both sides of a book, bids ordered
// best (highest) first and asks ordered best (lowest) first.
type Depth struct {
	Bids []Level `json:"bids"`
	Asks []Level `json:"asks"`
}
