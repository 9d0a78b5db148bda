package engine

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	commandreaderv1 "github.com/loopspell2/exchange/internal/domain/command-reader/v1"
	commandv1 "github.com/loopspell2/exchange/internal/domain/command/v1"
	orderbookv1 "github.com/loopspell2/exchange/internal/domain/orderbook/v1"
	publisherv1 "github.com/loopspell2/exchange/internal/domain/publisher/v1"
	snapshotv1 "github.com/loopspell2/exchange/internal/domain/snapshot/v1"
	"github.com/loopspell2/exchange/internal/usecase/ledger"
	"github.com/loopspell2/exchange/internal/usecase/orderbook"
	"github.com/loopspell2/exchange/pkg/config"
	"github.com/loopspell2/exchange/pkg/errors"
	"github.com/loopspell2/exchange/pkg/logger"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

// Engine is the exchange core: every book and every balance is owned by one
// goroutine that applies commands strictly in arrival order. Matching, ledger
// settlement and event emission for one command all complete before the next
// command is dequeued, so no partially-applied state is ever observable.
type Engine struct {
	books  map[string]*orderbook.Orderbook
	ledger *ledger.Ledger

	reader          commandreaderv1.Reader
	snapshotStore   snapshotv1.Store
	marketPublisher publisherv1.MarketPublisher
	dbPublisher     publisherv1.DbPublisher

	logger logger.Interface
	config *config.Config

	snapshotInterval time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewEngine creates an engine serving the configured markets and restores the
// last snapshot if one exists. A missing or unreadable snapshot logs a
// warning and the engine starts cold; it never refuses to boot over it.
func NewEngine(
	cfg *config.Config,
	reader commandreaderv1.Reader,
	snapshotStore snapshotv1.Store,
	marketPublisher publisherv1.MarketPublisher,
	dbPublisher publisherv1.DbPublisher,
	log logger.Interface,
) (*Engine, error) {
	return NewEngineWithOptions(cfg, reader, snapshotStore, marketPublisher, dbPublisher, log, &Options{
		SnapshotInterval: cfg.SnapshotInterval,
	})
}

// NewEngineWithOptions creates a new engine with custom options.
func NewEngineWithOptions(
	cfg *config.Config,
	reader commandreaderv1.Reader,
	snapshotStore snapshotv1.Store,
	marketPublisher publisherv1.MarketPublisher,
	dbPublisher publisherv1.DbPublisher,
	log logger.Interface,
	options *Options,
) (*Engine, error) {
	books := make(map[string]*orderbook.Orderbook, len(cfg.Markets))
	for _, market := range cfg.Markets {
		book, err := orderbook.NewOrderbook(market)
		if err != nil {
			return nil, err
		}
		books[market] = book
	}

	e := &Engine{
		books:            books,
		ledger:           ledger.NewLedger(),
		reader:           reader,
		snapshotStore:    snapshotStore,
		marketPublisher:  marketPublisher,
		dbPublisher:      dbPublisher,
		logger:           log,
		config:           cfg,
		snapshotInterval: options.SnapshotInterval,
	}

	if err := e.loadSnapshot(context.Background()); err != nil {
		e.logger.Warn("failed to restore snapshot, starting cold", logger.Field{
			Key:   "error",
			Value: err.Error(),
		})
	}

	return e, nil
}

// Start launches the command processor.
func (e *Engine) Start(ctx context.Context) error {
	e.ctx, e.cancel = context.WithCancel(ctx)

	e.wg.Add(1)
	go e.run()

	e.logger.Info("engine started", logger.Field{
		Key:   "markets",
		Value: e.config.Markets,
	})
	return nil
}

// Stop shuts the processor down and takes a final snapshot so no acknowledged
// command is lost across the restart.
func (e *Engine) Stop(ctx context.Context) error {
	if e.cancel != nil {
		e.cancel()
	}

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		e.logger.Warn("engine stop timeout exceeded")
		return ctx.Err()
	}

	if err := e.snapshotStore.Store(ctx, e.snapshot()); err != nil {
		e.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "action",
			Value: "final_snapshot",
		})
		return err
	}

	e.logger.Info("engine stopped")
	return nil
}

// run is the single writer. Snapshot and shutdown are only observed between
// commands: the dequeue blocks at most the configured pop timeout, then the
// select gets another chance.
func (e *Engine) run() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.snapshotInterval)
	defer ticker.Stop()

	for {
		select {
		case <-e.ctx.Done():
			e.logger.Info("command processor shutting down")
			return
		case <-ticker.C:
			e.storeSnapshot()
		default:
			envelope, err := e.reader.Read(e.ctx)
			if err != nil {
				if e.ctx.Err() != nil {
					continue
				}
				e.logger.ErrorContext(e.ctx, err, logger.Field{
					Key:   "action",
					Value: "read_command",
				})
				if !errors.Is(err, errors.MalformedCommand) {
					// transport error, not a bad payload
					time.Sleep(100 * time.Millisecond)
				}
				continue
			}
			if envelope == nil {
				continue
			}

			e.process(e.ctx, envelope)
		}
	}
}

// process applies one command and sends exactly one reply, whether the
// command succeeded or not. Errors are contained here; the loop never dies
// on a bad command.
func (e *Engine) process(ctx context.Context, envelope *commandv1.Envelope) {
	switch envelope.Message.Type {
	case commandv1.MessageCreateOrder:
		e.handleCreateOrder(ctx, envelope)
	case commandv1.MessageCancelOrder:
		e.handleCancelOrder(ctx, envelope)
	case commandv1.MessageGetOpenOrders:
		e.handleGetOpenOrders(ctx, envelope)
	case commandv1.MessageGetDepth:
		e.handleGetDepth(ctx, envelope)
	case commandv1.MessageOnRamp:
		e.handleOnRamp(ctx, envelope)
	default:
		e.logger.InfoContext(ctx, "unknown command type", logger.Field{
			Key:   "type",
			Value: string(envelope.Message.Type),
		})
		e.replyOrderFailure(ctx, envelope.ClientID, "")
	}
}

func (e *Engine) handleCreateOrder(ctx context.Context, envelope *commandv1.Envelope) {
	var data commandv1.CreateOrderData
	if err := json.Unmarshal(envelope.Message.Data, &data); err != nil {
		e.logCommandError(ctx, envelope, err)
		e.replyOrderFailure(ctx, envelope.ClientID, "")
		return
	}

	order, fills, err := e.createOrder(ctx, &data)
	if err != nil {
		e.logCommandError(ctx, envelope, err)
		e.replyOrderFailure(ctx, envelope.ClientID, "")
		return
	}

	e.sendReply(ctx, envelope.ClientID, commandv1.Reply{
		Type: commandv1.ReplyOrderPlaced,
		Payload: commandv1.OrderPlacedPayload{
			OrderID:     order.ID,
			ExecutedQty: order.Filled,
			Fills:       fills,
		},
	})
}

// createOrder is the full admission path: reserve funds, match, settle,
// publish. Funds are reserved before the book is touched, and released again
// if the book rejects the order, so a failed create leaves no trace.
func (e *Engine) createOrder(ctx context.Context, data *commandv1.CreateOrderData) (*orderbookv1.Order, []orderbookv1.Fill, error) {
	book, err := e.book(data.Market)
	if err != nil {
		return nil, nil, err
	}
	if data.Side != orderbookv1.SideBuy && data.Side != orderbookv1.SideSell {
		return nil, nil, errors.NewErrorDetails(
			"side must be buy or sell",
			string(errors.MalformedCommand),
			"side",
		)
	}

	lockAsset, lockAmount := reservation(book, data.Side, data.Price, data.Quantity)
	if err := e.ledger.Lock(data.UserID, lockAsset, lockAmount); err != nil {
		return nil, nil, err
	}

	order := orderbookv1.NewOrder(ulid.Make().String(), data.UserID, data.Side, data.Price, data.Quantity)

	fills, executedQty, err := book.AddOrder(order)
	if err != nil {
		if unlockErr := e.ledger.Unlock(data.UserID, lockAsset, lockAmount); unlockErr != nil {
			e.logger.ErrorContext(ctx, unlockErr, logger.Field{
				Key:   "action",
				Value: "unlock_rejected_order",
			})
		}
		return nil, nil, err
	}

	e.ledger.Settle(fills, data.Side, book.BaseAsset(), book.QuoteAsset(), data.UserID)

	e.publishOrderUpdates(ctx, order, fills, data.Market, executedQty)
	e.publishDbTrades(ctx, data.Market, fills)
	e.publishDepthUpdate(ctx, book, order, fills)
	e.publishWsTrades(ctx, data.Market, fills)

	return order, fills, nil
}

func (e *Engine) handleCancelOrder(ctx context.Context, envelope *commandv1.Envelope) {
	var data commandv1.CancelOrderData
	if err := json.Unmarshal(envelope.Message.Data, &data); err != nil {
		e.logCommandError(ctx, envelope, err)
		e.replyOrderFailure(ctx, envelope.ClientID, "")
		return
	}

	book, err := e.book(data.Market)
	if err != nil {
		e.logCommandError(ctx, envelope, err)
		e.replyOrderFailure(ctx, envelope.ClientID, data.OrderID)
		return
	}

	order, err := book.CancelOrder(data.OrderID)
	if err != nil {
		e.logCommandError(ctx, envelope, err)
		e.replyOrderFailure(ctx, envelope.ClientID, data.OrderID)
		return
	}

	// release the reservation held for the unfilled remainder
	unlockAsset, unlockAmount := reservation(book, order.Side, order.Price, order.Remaining())
	if err := e.ledger.Unlock(order.UserID, unlockAsset, unlockAmount); err != nil {
		e.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "action",
			Value: "unlock_cancelled_order",
		})
	}

	e.publishDb(ctx, commandv1.NewOrderUpdate(order, data.Market, order.Filled.String()))

	bids, asks := levelsAt(book, order.Side, []decimal.Decimal{order.Price})
	if err := e.marketPublisher.PublishDepth(ctx, commandv1.NewDepthStream(data.Market, bids, asks)); err != nil {
		e.logger.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "publish_depth"})
	}

	e.sendReply(ctx, envelope.ClientID, commandv1.Reply{
		Type: commandv1.ReplyOrderCancelled,
		Payload: commandv1.OrderCancelledPayload{
			OrderID:      order.ID,
			ExecutedQty:  order.Filled,
			RemainingQty: order.Remaining(),
		},
	})
}

func (e *Engine) handleGetOpenOrders(ctx context.Context, envelope *commandv1.Envelope) {
	var data commandv1.GetOpenOrdersData
	if err := json.Unmarshal(envelope.Message.Data, &data); err != nil {
		e.logCommandError(ctx, envelope, err)
		e.sendReply(ctx, envelope.ClientID, commandv1.Reply{
			Type:    commandv1.ReplyOpenOrders,
			Payload: []*orderbookv1.Order{},
		})
		return
	}

	book, err := e.book(data.Market)
	if err != nil {
		e.logCommandError(ctx, envelope, err)
		e.sendReply(ctx, envelope.ClientID, commandv1.Reply{
			Type:    commandv1.ReplyOpenOrders,
			Payload: []*orderbookv1.Order{},
		})
		return
	}

	open := book.OpenOrders(data.UserID)
	if open == nil {
		open = []*orderbookv1.Order{}
	}
	e.sendReply(ctx, envelope.ClientID, commandv1.Reply{
		Type:    commandv1.ReplyOpenOrders,
		Payload: open,
	})
}

func (e *Engine) handleGetDepth(ctx context.Context, envelope *commandv1.Envelope) {
	var data commandv1.GetDepthData
	if err := json.Unmarshal(envelope.Message.Data, &data); err != nil {
		e.logCommandError(ctx, envelope, err)
		e.sendReply(ctx, envelope.ClientID, commandv1.Reply{
			Type:    commandv1.ReplyDepth,
			Payload: commandv1.DepthPayload{Bids: []commandv1.PriceLevel{}, Asks: []commandv1.PriceLevel{}},
		})
		return
	}

	book, err := e.book(data.Market)
	if err != nil {
		e.logCommandError(ctx, envelope, err)
		e.sendReply(ctx, envelope.ClientID, commandv1.Reply{
			Type:    commandv1.ReplyDepth,
			Payload: commandv1.DepthPayload{Bids: []commandv1.PriceLevel{}, Asks: []commandv1.PriceLevel{}},
		})
		return
	}

	e.sendReply(ctx, envelope.ClientID, commandv1.Reply{
		Type:    commandv1.ReplyDepth,
		Payload: commandv1.NewDepthPayload(book.Depth()),
	})
}

func (e *Engine) handleOnRamp(ctx context.Context, envelope *commandv1.Envelope) {
	var data commandv1.OnRampData
	if err := json.Unmarshal(envelope.Message.Data, &data); err != nil {
		e.logCommandError(ctx, envelope, err)
		e.sendReply(ctx, envelope.ClientID, commandv1.Reply{
			Type:    commandv1.ReplyOnRamp,
			Payload: commandv1.OnRampPayload{Asset: e.config.BaseCurrency},
		})
		return
	}

	if err := e.ledger.Deposit(data.UserID, e.config.BaseCurrency, data.Amount); err != nil {
		e.logCommandError(ctx, envelope, err)
		e.sendReply(ctx, envelope.ClientID, commandv1.Reply{
			Type:    commandv1.ReplyOnRamp,
			Payload: commandv1.OnRampPayload{UserID: data.UserID, Asset: e.config.BaseCurrency},
		})
		return
	}

	e.sendReply(ctx, envelope.ClientID, commandv1.Reply{
		Type: commandv1.ReplyOnRamp,
		Payload: commandv1.OnRampPayload{
			UserID: data.UserID,
			Amount: data.Amount,
			Asset:  e.config.BaseCurrency,
		},
	})
}

// publishOrderUpdates emits the taker's full update followed by one
// incremental update per matched maker.
func (e *Engine) publishOrderUpdates(ctx context.Context, order *orderbookv1.Order, fills []orderbookv1.Fill, market string, executedQty decimal.Decimal) {
	e.publishDb(ctx, commandv1.NewOrderUpdate(order, market, executedQty.String()))
	for _, fill := range fills {
		e.publishDb(ctx, commandv1.NewMakerOrderUpdate(fill))
	}
}

func (e *Engine) publishDbTrades(ctx context.Context, market string, fills []orderbookv1.Fill) {
	now := time.Now()
	for _, fill := range fills {
		e.publishDb(ctx, commandv1.NewTradeAdded(market, fill, now))
	}
}

func (e *Engine) publishDb(ctx context.Context, msg commandv1.DbMessage) {
	if err := e.dbPublisher.Publish(ctx, msg); err != nil {
		e.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "action",
			Value: "publish_db",
		})
	}
}

// publishDepthUpdate publishes the levels touched by the command: the levels
// on the opposite side consumed by the fills plus the taker's own resting
// level. A consumed level reports zero quantity so subscribers drop it.
func (e *Engine) publishDepthUpdate(ctx context.Context, book *orderbook.Orderbook, order *orderbookv1.Order, fills []orderbookv1.Fill) {
	fillPrices := make([]decimal.Decimal, 0, len(fills))
	for _, fill := range fills {
		fillPrices = append(fillPrices, fill.Price)
	}

	oppBids, oppAsks := levelsAt(book, order.Side.Opposite(), fillPrices)
	bids, asks := oppBids, oppAsks
	if !order.IsFilled() {
		ownBids, ownAsks := levelsAt(book, order.Side, []decimal.Decimal{order.Price})
		bids = append(bids, ownBids...)
		asks = append(asks, ownAsks...)
	}

	if err := e.marketPublisher.PublishDepth(ctx, commandv1.NewDepthStream(book.Ticker(), bids, asks)); err != nil {
		e.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "action",
			Value: "publish_depth",
		})
	}
}

func (e *Engine) publishWsTrades(ctx context.Context, market string, fills []orderbookv1.Fill) {
	for _, fill := range fills {
		if err := e.marketPublisher.PublishTrade(ctx, commandv1.NewTradeStream(market, fill)); err != nil {
			e.logger.ErrorContext(ctx, err, logger.Field{
				Key:   "action",
				Value: "publish_trade",
			})
		}
	}
}

// replyOrderFailure is the failure reply for create and cancel commands:
// ORDER_CANCELLED with nothing executed.
func (e *Engine) replyOrderFailure(ctx context.Context, clientID, orderID string) {
	e.sendReply(ctx, clientID, commandv1.Reply{
		Type: commandv1.ReplyOrderCancelled,
		Payload: commandv1.OrderCancelledPayload{
			OrderID:      orderID,
			ExecutedQty:  decimal.Zero,
			RemainingQty: decimal.Zero,
		},
	})
}

func (e *Engine) sendReply(ctx context.Context, clientID string, reply commandv1.Reply) {
	if err := e.marketPublisher.SendToAPI(ctx, clientID, reply); err != nil {
		e.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "action",
			Value: "send_reply",
		}, logger.Field{
			Key:   "clientID",
			Value: clientID,
		})
	}
}

func (e *Engine) logCommandError(ctx context.Context, envelope *commandv1.Envelope, err error) {
	e.logger.ErrorContext(ctx, err,
		logger.Field{Key: "type", Value: string(envelope.Message.Type)},
		logger.Field{Key: "clientID", Value: envelope.ClientID},
	)
}

func (e *Engine) book(market string) (*orderbook.Orderbook, error) {
	book, ok := e.books[market]
	if !ok {
		return nil, errors.NewErrorDetails(
			"engine does not serve market "+market,
			string(errors.UnknownMarket),
			"market",
		)
	}
	return book, nil
}

// reservation returns the asset and amount a new order must hold: the full
// quote value at the limit price for a buy, the base quantity for a sell.
func reservation(book *orderbook.Orderbook, side orderbookv1.Side, price, quantity decimal.Decimal) (string, decimal.Decimal) {
	if side == orderbookv1.SideBuy {
		return book.QuoteAsset(), price.Mul(quantity)
	}
	return book.BaseAsset(), quantity
}

// levelsAt reads the current aggregates at the given prices on one side,
// deduplicated, in the bid/ask split the depth stream expects.
func levelsAt(book *orderbook.Orderbook, side orderbookv1.Side, prices []decimal.Decimal) (bids, asks []orderbookv1.Level) {
	var levels []orderbookv1.Level
	for _, price := range prices {
		seen := false
		for _, level := range levels {
			if level.Price.Equal(price) {
				seen = true
				break
			}
		}
		if seen {
			continue
		}
		levels = append(levels, book.DepthAt(side, price))
	}

	if side == orderbookv1.SideBuy {
		return levels, nil
	}
	return nil, levels
}

// snapshot captures all books and the ledger in market configuration order.
func (e *Engine) snapshot() *snapshotv1.Snapshot {
	snap := &snapshotv1.Snapshot{
		Books:    make([]snapshotv1.BookSnapshot, 0, len(e.books)),
		Balances: e.ledger.Snapshot(),
	}
	for _, market := range e.config.Markets {
		if book, ok := e.books[market]; ok {
			snap.Books = append(snap.Books, book.Snapshot())
		}
	}
	return snap
}

func (e *Engine) storeSnapshot() {
	if err := e.snapshotStore.Store(e.ctx, e.snapshot()); err != nil {
		e.logger.ErrorContext(e.ctx, err, logger.Field{
			Key:   "action",
			Value: "store_snapshot",
		})
	}
}

// loadSnapshot restores books and balances from the last stored snapshot.
// Books present in the snapshot but no longer configured are skipped.
func (e *Engine) loadSnapshot(ctx context.Context) error {
	snap, err := e.snapshotStore.Load(ctx)
	if err != nil {
		return err
	}
	if snap == nil {
		return nil
	}

	for _, bs := range snap.Books {
		book, ok := e.books[bs.Market]
		if !ok {
			e.logger.Warn("snapshot contains unconfigured market, skipping", logger.Field{
				Key:   "market",
				Value: bs.Market,
			})
			continue
		}
		if err := book.Restore(bs); err != nil {
			return err
		}
	}
	e.ledger.Restore(snap.Balances)

	e.logger.Info("state restored from snapshot",
		logger.Field{Key: "books", Value: len(snap.Books)},
		logger.Field{Key: "balances", Value: len(snap.Balances)},
	)
	return nil
}
