package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	feedv1 "github.com/muhammadchandra19/marketsim/internal/domain/feed/v1"
	marketv1 "github.com/muhammadchandra19/marketsim/internal/domain/market/v1"
	orderbookv1 "github.com/muhammadchandra19/marketsim/internal/domain/orderbook/v1"
	sinkv1 "github.com/muhammadchandra19/marketsim/internal/domain/sink/v1"
	snapshotv1 "github.com/muhammadchandra19/marketsim/internal/domain/snapshot/v1"
	"github.com/muhammadchandra19/marketsim/internal/usecase/matching"
	"github.com/muhammadchandra19/marketsim/internal/usecase/orderbook"
	"github.com/muhammadchandra19/marketsim/internal/usecase/pricing"
	"github.com/muhammadchandra19/marketsim/internal/usecase/registry"
	"github.com/muhammadchandra19/marketsim/pkg/errors"
	"github.com/muhammadchandra19/marketsim/pkg/logger"
	"github.com/muhammadchandra19/marketsim/pkg/util"
)

// Engine is the tick orchestrator. Each tick runs session-check, event
// injection, per-symbol matching, per-symbol price formation and a single
// consolidated emission, strictly in that order. A tick is atomic from the
// outside: nothing is emitted until the whole result is assembled.
type Engine struct {
	registry  *registry.Registry
	books     map[string]*orderbook.Orderbook
	matcher   *matching.Engine
	pricer    *pricing.Engine
	orders    feedv1.OrderSource
	events    feedv1.EventSource
	sink      sinkv1.TickSink
	snapshots snapshotv1.Store
	log       *logger.Logger
	opts      *Options

	// tickMu prevents tick overlap: a new tick cannot start while the
	// previous one is still being assembled.
	tickMu sync.Mutex
	tick   int64
}

// NewEngine wires the orchestrator. snapshots may be nil to disable
// persistence.
func NewEngine(
	reg *registry.Registry,
	matcher *matching.Engine,
	pricer *pricing.Engine,
	orders feedv1.OrderSource,
	events feedv1.EventSource,
	sink sinkv1.TickSink,
	snapshots snapshotv1.Store,
	log *logger.Logger,
	opts *Options,
) *Engine {
	if opts == nil {
		opts = DefaultEngineOptions()
	}

	books := make(map[string]*orderbook.Orderbook)
	for _, instrument := range reg.Instruments() {
		book := orderbook.NewOrderbook(instrument.Symbol)
		book.SetLastTradePrice(instrument.Price)
		books[instrument.Symbol] = book
	}

	return &Engine{
		registry:  reg,
		books:     books,
		matcher:   matcher,
		pricer:    pricer,
		orders:    orders,
		events:    events,
		sink:      sink,
		snapshots: snapshots,
		log:       log,
		opts:      opts,
	}
}

// CurrentTick returns the next tick to be processed.
func (e *Engine) CurrentTick() int64 {
	e.tickMu.Lock()
	defer e.tickMu.Unlock()
	return e.tick
}

// Book exposes a symbol's order book, mainly for snapshots and inspection.
func (e *Engine) Book(symbol string) *orderbook.Orderbook {
	return e.books[symbol]
}

// Restore resumes from the latest stored snapshot, if any.
func (e *Engine) Restore(ctx context.Context) error {
	if e.snapshots == nil {
		return nil
	}

	snapshot, err := e.snapshots.LoadStore(ctx)
	if err != nil {
		return err
	}
	if snapshot == nil {
		return nil
	}

	e.registry.Restore(snapshot.Instruments)
	for _, bookSnapshot := range snapshot.Books {
		book, ok := e.books[bookSnapshot.Symbol]
		if !ok {
			continue
		}
		if err := book.RestoreOrderbook(bookSnapshot); err != nil {
			return err
		}
	}

	e.tickMu.Lock()
	e.tick = snapshot.Tick + 1
	e.tickMu.Unlock()

	e.log.InfoContext(ctx, "restored from snapshot", logger.Field{
		Key:   "tick",
		Value: snapshot.Tick,
	})
	return nil
}

// Run drives RunTick at the configured interval until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.opts.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := e.RunTick(ctx); err != nil {
				// a slow tick can collide with the next ticker fire
				e.log.ErrorContext(ctx, errors.TracerFromError(err))
			}
		}
	}
}

// RunTick executes one simulation tick and returns the consolidated result.
// The tick counter advances even when parts of the tick fail.
func (e *Engine) RunTick(ctx context.Context) (*marketv1.TickResult, error) {
	if !e.tickMu.TryLock() {
		return nil, errors.NewErrorDetails(
			"previous tick still in progress",
			string(errors.ErrTickInProgress),
			"tick",
		)
	}
	defer e.tickMu.Unlock()

	tick := e.tick
	defer func() { e.tick++ }()

	ctx = util.WithTick(ctx, tick)
	open := marketv1.IsOpen(tick)

	result := &marketv1.TickResult{
		Tick:         tick,
		MarketOpen:   open,
		Trades:       []marketv1.Trade{},
		PriceUpdates: []marketv1.PriceUpdate{},
		Events:       []marketv1.MarketEvent{},
	}

	var statusUpdates []sinkv1.OrderStatusUpdate

	if marketv1.IsSessionBoundary(tick) {
		statusUpdates = append(statusUpdates, e.onSessionBoundary(ctx, tick, open)...)
	}

	if events := e.events.ActiveEvents(ctx, tick); events != nil {
		result.Events = events
	}

	if open {
		symbols := e.registry.Symbols()

		matchResults, failed := e.matchPhase(ctx, symbols, tick)

		pressures := make(map[string]float64, len(symbols))
		for _, symbol := range symbols {
			res, ok := matchResults[symbol]
			if !ok {
				continue
			}
			result.Trades = append(result.Trades, res.Trades...)
			for _, order := range res.OrderUpdates {
				statusUpdates = append(statusUpdates, statusUpdateFrom(order))
			}
			instrument, _ := e.registry.Get(symbol)
			pressures[symbol] = pricing.Pressure(instrument, res.Trades)
		}

		result.PriceUpdates = e.pricePhase(ctx, symbols, failed, matchResults, pressures, result.Events, tick)

		for _, update := range result.PriceUpdates {
			if err := e.registry.ApplyUpdate(update); err != nil {
				e.log.ErrorContext(ctx, errors.TracerFromError(err))
			}
		}
	}

	// sentiment fades with time, open or closed
	e.registry.DecaySentiment(e.opts.SentimentDecay)

	e.emit(ctx, result, statusUpdates)

	if e.snapshots != nil && e.opts.SnapshotInterval > 0 && tick > 0 && tick%e.opts.SnapshotInterval == 0 {
		// fire and forget, persistence never blocks tick progression
		go e.storeSnapshot(context.WithoutCancel(ctx), tick)
	}

	return result, nil
}

// matchPhase runs phase A: per-symbol matching in parallel. A symbol whose
// matching fails or panics is skipped for this tick, its book and price carry
// over unchanged.
func (e *Engine) matchPhase(ctx context.Context, symbols []string, tick int64) (map[string]*matching.Result, map[string]bool) {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results = make(map[string]*matching.Result, len(symbols))
		failed  = make(map[string]bool)
	)

	for _, symbol := range symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()

			symbolCtx := util.WithSymbol(ctx, symbol)
			defer func() {
				if r := recover(); r != nil {
					e.log.ErrorContext(symbolCtx, errors.NewTracer(fmt.Sprintf("matching panic: %v", r)))
					mu.Lock()
					failed[symbol] = true
					mu.Unlock()
				}
			}()

			instrument, ok := e.registry.Get(symbol)
			if !ok {
				return
			}

			pending := e.orders.PendingOrders(symbolCtx, symbol, tick)
			res, err := e.matcher.MatchSymbol(symbolCtx, e.books[symbol], pending, instrument.Price, tick)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				e.log.ErrorContext(symbolCtx, errors.TracerFromError(err))
				failed[symbol] = true
				return
			}
			results[symbol] = res
		}(symbol)
	}
	wg.Wait()

	return results, failed
}

// pricePhase runs phase B: sector aggregates from phase A flow, then price
// formation per symbol. Shocks are drawn sequentially in sorted symbol order
// so a seeded run reproduces exactly; the per-symbol computation then runs in
// parallel.
func (e *Engine) pricePhase(
	ctx context.Context,
	symbols []string,
	failed map[string]bool,
	matchResults map[string]*matching.Result,
	pressures map[string]float64,
	activeEvents []marketv1.MarketEvent,
	tick int64,
) []marketv1.PriceUpdate {
	sectorAverages := pricing.SectorAverages(pressures, e.registry.Instruments())

	shocks := make(map[string]float64, len(symbols))
	for _, symbol := range symbols {
		if failed[symbol] {
			continue
		}
		shocks[symbol] = e.pricer.DrawShock()
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		updates = make(map[string]marketv1.PriceUpdate, len(symbols))
	)

	for _, symbol := range symbols {
		if failed[symbol] {
			continue
		}

		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()

			symbolCtx := util.WithSymbol(ctx, symbol)
			defer func() {
				if r := recover(); r != nil {
					e.log.ErrorContext(symbolCtx, errors.NewTracer(fmt.Sprintf("pricing panic: %v", r)))
				}
			}()

			instrument, ok := e.registry.Get(symbol)
			if !ok {
				return
			}

			var trades []marketv1.Trade
			if res, ok := matchResults[symbol]; ok {
				trades = res.Trades
			}

			update, err := e.pricer.FormPrice(pricing.Input{
				Instrument: instrument,
				Trades:     trades,
				SectorFlow: sectorAverages[instrument.Sector],
				Events:     activeEvents,
				Tick:       tick,
				Shock:      shocks[symbol],
			})
			if err != nil {
				e.log.ErrorContext(symbolCtx, errors.TracerFromError(err))
				return
			}

			mu.Lock()
			updates[symbol] = update
			mu.Unlock()
		}(symbol)
	}
	wg.Wait()

	ordered := make([]marketv1.PriceUpdate, 0, len(updates))
	for _, symbol := range symbols {
		if update, ok := updates[symbol]; ok {
			ordered = append(ordered, update)
		}
	}
	return ordered
}

// onSessionBoundary clears every book at an open/close transition. Orders do
// not carry across sessions; on open the maker ladders are reseeded and the
// session extremes reset.
func (e *Engine) onSessionBoundary(ctx context.Context, tick int64, open bool) []sinkv1.OrderStatusUpdate {
	var statusUpdates []sinkv1.OrderStatusUpdate

	for _, symbol := range e.registry.Symbols() {
		book := e.books[symbol]
		for _, order := range book.Clear() {
			if order.IsMarketMaker() {
				continue
			}
			statusUpdates = append(statusUpdates, statusUpdateFrom(order))
		}

		if open {
			if instrument, ok := e.registry.Get(symbol); ok {
				e.matcher.MaintainLiquidity(book, instrument.Price, tick)
			}
		}
	}

	if open {
		e.registry.ResetSessionExtremes()
	}

	e.log.InfoContext(ctx, "session boundary", logger.Field{
		Key:   "state",
		Value: marketv1.StateAtTick(tick),
	})

	return statusUpdates
}

// emit publishes the fully formed tick to the sink. A failed consolidated
// publish is reported to the operator; the tick counter advances regardless.
func (e *Engine) emit(ctx context.Context, result *marketv1.TickResult, statusUpdates []sinkv1.OrderStatusUpdate) {
	for _, trade := range result.Trades {
		e.sink.OnTrade(ctx, trade)
	}
	for _, update := range statusUpdates {
		e.sink.OnOrderStatusChange(ctx, update)
	}
	for _, update := range result.PriceUpdates {
		e.sink.OnPriceUpdate(ctx, update)
	}

	if err := e.sink.OnTickComplete(ctx, result); err != nil {
		e.log.ErrorContext(ctx, errors.TracerFromError(err), logger.Field{
			Key:   "tick",
			Value: result.Tick,
		})
	}
}

func (e *Engine) storeSnapshot(ctx context.Context, tick int64) {
	snapshot := &snapshotv1.Snapshot{
		Tick:        tick,
		Instruments: e.registry.Instruments(),
	}
	for _, symbol := range e.registry.Symbols() {
		snapshot.Books = append(snapshot.Books, e.books[symbol].CreateSnapshot())
	}

	if err := e.snapshots.Store(ctx, snapshot); err != nil {
		e.log.ErrorContext(ctx, errors.TracerFromError(err))
	}
}

func statusUpdateFrom(order *orderbookv1.Order) sinkv1.OrderStatusUpdate {
	return sinkv1.OrderStatusUpdate{
		OrderID:        order.ID,
		AgentID:        order.AgentID,
		Symbol:         order.Symbol,
		Status:         order.Status,
		FilledQuantity: order.Filled,
		AvgFillPrice:   order.AvgFillPrice,
		TickFilled:     order.TickFilled,
	}
}
