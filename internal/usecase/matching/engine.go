package matching

import (
	"context"
	"fmt"
	mathrand "math/rand"
	"sync"

	"github.com/oklog/ulid/v2"

	ledgerv1 "github.com/muhammadchandra19/marketsim/internal/domain/ledger/v1"
	marketv1 "github.com/muhammadchandra19/marketsim/internal/domain/market/v1"
	orderbookv1 "github.com/muhammadchandra19/marketsim/internal/domain/orderbook/v1"
	"github.com/muhammadchandra19/marketsim/internal/usecase/orderbook"
	"github.com/muhammadchandra19/marketsim/pkg/config"
	"github.com/muhammadchandra19/marketsim/pkg/errors"
	"github.com/muhammadchandra19/marketsim/pkg/logger"
)

// Result is the outcome of matching one symbol's pending orders for a tick.
type Result struct {
	Trades []marketv1.Trade

	// OrderUpdates holds every agent order whose status changed this tick,
	// in the order the changes happened. Market-maker orders are excluded.
	OrderUpdates []*orderbookv1.Order
}

// Engine matches pending orders against per-symbol books and settles the
// resulting trades through the ledger. It is stateless across ticks except
// for its trade-id entropy; one Engine serves every symbol concurrently.
type Engine struct {
	ledger ledgerv1.Ledger
	cfg    config.MatchingConfig
	log    *logger.Logger

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewEngine creates a matching engine. The seed drives trade/maker order id
// generation so a run is reproducible.
func NewEngine(ledger ledgerv1.Ledger, cfg config.MatchingConfig, log *logger.Logger, seed uint64) *Engine {
	// #nosec G404 -- simulation ids, not security material
	source := mathrand.New(mathrand.NewSource(int64(seed)))

	return &Engine{
		ledger:  ledger,
		cfg:     cfg,
		log:     log,
		entropy: ulid.Monotonic(source, 0),
	}
}

// newID mints a ULID whose time component is the tick, keeping ids sortable
// by simulation time and deterministic for a fixed seed.
func (e *Engine) newID(tick int64) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return ulid.MustNew(uint64(tick), e.entropy).String()
}

// MatchSymbol processes one symbol's pending orders for a tick:
// maker-liquidity maintenance, stop activation, fillability checks, the
// price-time matching loop and per-trade settlement. pendingOrders must
// belong to the book's symbol and be ordered by (tickSubmitted, sequence).
func (e *Engine) MatchSymbol(
	ctx context.Context,
	book *orderbook.Orderbook,
	pendingOrders []*orderbookv1.Order,
	instrumentPrice float64,
	tick int64,
) (*Result, error) {
	for _, order := range pendingOrders {
		if order.Quantity <= 0 {
			return nil, errors.NewErrorDetailsWithObject(
				fmt.Sprintf("order %s has non-positive quantity %d", order.ID, order.Quantity),
				string(errors.ErrInvariantViolation),
				"quantity",
				order,
			)
		}
		if order.Symbol != book.Symbol() {
			return nil, errors.NewErrorDetailsWithObject(
				fmt.Sprintf("order %s for %s routed to book %s", order.ID, order.Symbol, book.Symbol()),
				string(errors.ErrInvariantViolation),
				"symbol",
				order,
			)
		}
	}

	e.MaintainLiquidity(book, instrumentPrice, tick)

	result := &Result{}

	lastPrice := book.LastTradePrice()
	if lastPrice <= 0 {
		lastPrice = instrumentPrice
	}

	// stops resting from earlier ticks may have been armed by the previous
	// tick's price move
	queue := append(book.TriggeredStops(lastPrice), pendingOrders...)

	for len(queue) > 0 {
		order := queue[0]
		queue = queue[1:]

		processed := e.processOrder(ctx, book, order, instrumentPrice, tick, result)
		if !processed {
			continue
		}

		// a fill may arm stop orders, which convert and match this same tick
		if last := book.LastTradePrice(); last > 0 {
			queue = append(book.TriggeredStops(last), queue...)
		}
	}

	return result, nil
}

// processOrder runs one order through the fillability check, stop activation
// and the matching loop. It reports whether the order actually aggressed.
func (e *Engine) processOrder(
	ctx context.Context,
	book *orderbook.Orderbook,
	order *orderbookv1.Order,
	instrumentPrice float64,
	tick int64,
	result *Result,
) bool {
	// fail fast, before the order is held or touches the book
	if !e.checkFillability(order, instrumentPrice) {
		order.Status = orderbookv1.StatusRejected
		result.OrderUpdates = append(result.OrderUpdates, order)
		return false
	}

	if order.Type == orderbookv1.OrderTypeStop {
		lastPrice := book.LastTradePrice()
		if lastPrice <= 0 {
			lastPrice = instrumentPrice
		}
		triggered := (order.IsBid() && lastPrice >= order.StopPrice) ||
			(order.IsAsk() && lastPrice <= order.StopPrice)
		if !triggered {
			// inert until the last trade price crosses the stop
			book.AddStop(order)
			return false
		}
		e.activateStop(order)
	}

	tapeBefore := book.LastTradePrice()
	settledThrough := tapeBefore

	matches := book.Fill(order, tick)
	for i, match := range matches {
		trade := e.buildTrade(book.Symbol(), match, tick)
		if err := e.ledger.SettleTrade(trade); err != nil {
			// fills beyond the slippage buffer can outrun the buyer's cash;
			// the busted fills are unwound so order state never reports
			// shares the ledger did not deliver
			e.log.ErrorContext(ctx, errors.TracerFromError(err),
				logger.Field{Key: "tradeID", Value: trade.ID},
				logger.Field{Key: "symbol", Value: trade.Symbol},
			)
			e.unwindMatches(ctx, book, matches[i:], settledThrough)
			order.Status = orderbookv1.StatusRejected
			result.OrderUpdates = append(result.OrderUpdates, order)
			return i > 0
		}
		settledThrough = match.Price
		result.Trades = append(result.Trades, trade)

		if !match.Maker.IsMarketMaker() {
			result.OrderUpdates = append(result.OrderUpdates, match.Maker)
		}
	}

	if order.Remaining() > 0 {
		switch order.Type {
		case orderbookv1.OrderTypeLimit:
			// rest in the book at the limit price; status stays pending or
			// partial depending on fills so far
			if err := book.PlaceLimitOrder(order.LimitPrice, order); err != nil {
				e.log.ErrorContext(ctx, errors.TracerFromError(err),
					logger.Field{Key: "orderID", Value: order.ID},
				)
				order.Status = orderbookv1.StatusRejected
			}
		default:
			// market orders do not persist across ticks
			order.Status = orderbookv1.StatusRejected
		}
	}

	result.OrderUpdates = append(result.OrderUpdates, order)
	return len(matches) > 0
}

// unwindMatches reverts fills whose settlement failed and restores the tape
// to the last settled price, so a busted trade never arms stops.
func (e *Engine) unwindMatches(ctx context.Context, book *orderbook.Orderbook, busted []orderbookv1.Match, tape float64) {
	for _, match := range busted {
		if err := book.RevertFill(match); err != nil {
			e.log.ErrorContext(ctx, errors.TracerFromError(err),
				logger.Field{Key: "orderID", Value: match.Maker.ID},
			)
		}
	}
	book.SetLastTradePrice(tape)
}

// activateStop converts a triggered stop into a market order, or a limit
// order when it carries both a stop and a limit price.
func (e *Engine) activateStop(order *orderbookv1.Order) {
	if order.LimitPrice > 0 {
		order.Type = orderbookv1.OrderTypeLimit
	} else {
		order.Type = orderbookv1.OrderTypeMarket
	}
}

// checkFillability fails fast before an order touches the book: a buyer needs
// cash for the full notional plus the slippage buffer, a seller needs the
// shares. The reference price is the limit price for limit orders and the
// current instrument price otherwise, stop orders included. Held stops are
// checked again when they trigger.
func (e *Engine) checkFillability(order *orderbookv1.Order, instrumentPrice float64) bool {
	referencePrice := instrumentPrice
	if order.Type == orderbookv1.OrderTypeLimit && order.LimitPrice > 0 {
		referencePrice = order.LimitPrice
	}

	if order.IsBid() {
		required := float64(order.Quantity) * referencePrice * (1 + e.cfg.SlippageBuffer)
		return e.ledger.CashBalance(order.AgentID) >= required
	}

	holding, ok := e.ledger.Position(order.AgentID, order.Symbol)
	return ok && holding.Quantity >= order.Quantity
}

func (e *Engine) buildTrade(symbol string, match orderbookv1.Match, tick int64) marketv1.Trade {
	trade := marketv1.Trade{
		ID:            e.newID(tick),
		Tick:          tick,
		Symbol:        symbol,
		BuyerOrderID:  match.Buyer().ID,
		SellerOrderID: match.Seller().ID,
		Quantity:      match.SizeFilled,
		Price:         match.Price,
		TakerSide:     match.Taker.Side,
	}

	// maker legs keep an empty agent id, the synthetic maker is not an agent
	if !match.Buyer().IsMarketMaker() {
		trade.BuyerAgentID = match.Buyer().AgentID
	}
	if !match.Seller().IsMarketMaker() {
		trade.SellerAgentID = match.Seller().AgentID
	}

	return trade
}
