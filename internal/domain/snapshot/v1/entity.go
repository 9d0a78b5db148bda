package snapshotv1

import (
	ledgerv1 "github.com/loopspell2/exchange/internal/domain/ledger/v1"
	orderbookv1 "github.com/loopspell2/exchange/internal/domain/orderbook/v1"
	"github.com/shopspring/decimal"
)

// Snapshot is a point-in-time serialization of every order book and the full
// balance table. It is written on a timer from a command boundary and read
// once at process start.
type Snapshot struct {
	Books    []BookSnapshot          `json:"books"`
	Balances []ledgerv1.UserBalances `json:"balances"`
}

// BookSnapshot is the state of one market's book.
type BookSnapshot struct {
	Market         string              `json:"market"`
	Bids           []orderbookv1.Order `json:"bids"`
	Asks           []orderbookv1.Order `json:"asks"`
	LastTradeID    int64               `json:"lastTradeId"`
	LastTradePrice decimal.Decimal     `json:"lastTradePrice"`
}
