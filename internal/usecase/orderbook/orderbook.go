package orderbook

import (
	"fmt"
	"sort"
	"sync"

	marketv1 "github.com/muhammadchandra19/marketsim/internal/domain/market/v1"
	orderbookv1 "github.com/muhammadchandra19/marketsim/internal/domain/orderbook/v1"
	snapshotv1 "github.com/muhammadchandra19/marketsim/internal/domain/snapshot/v1"
)

// Orderbook is one symbol's book: two price-keyed limit maps plus a holding
// area for untriggered stop orders. A book is owned by its symbol's matching
// task for the duration of a tick; the lock covers reads from other goroutines
// (snapshots, volume queries).
type Orderbook struct {
	mu     sync.RWMutex
	symbol string

	AskLimits map[float64]*orderbookv1.Limit // price -> limit
	BidLimits map[float64]*orderbookv1.Limit // price -> limit
	Orders    map[string]*orderbookv1.Order  // orderID -> resting order

	stops          []*orderbookv1.Order
	lastTradePrice float64
	sequence       int64
}

// NewOrderbook creates an empty book for a symbol.
func NewOrderbook(symbol string) *Orderbook {
	return &Orderbook{
		symbol:    symbol,
		AskLimits: make(map[float64]*orderbookv1.Limit),
		BidLimits: make(map[float64]*orderbookv1.Limit),
		Orders:    make(map[string]*orderbookv1.Order),
	}
}

// Symbol returns the symbol this book belongs to.
func (ob *Orderbook) Symbol() string {
	return ob.symbol
}

// NextSequence hands out the book's submission sequence for intra-tick ordering.
func (ob *Orderbook) NextSequence() int64 {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	ob.sequence++
	return ob.sequence
}

// LastTradePrice returns the price of the most recent fill in this book,
// zero if no trade has happened yet.
func (ob *Orderbook) LastTradePrice() float64 {
	ob.mu.RLock()
	defer ob.mu.RUnlock()
	return ob.lastTradePrice
}

// SetLastTradePrice primes the reference price, used at boot and on restore.
func (ob *Orderbook) SetLastTradePrice(price float64) {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	ob.lastTradePrice = price
}

// PlaceLimitOrder rests an order at the given price.
func (ob *Orderbook) PlaceLimitOrder(price float64, order *orderbookv1.Order) error {
	if order == nil {
		return fmt.Errorf("order cannot be nil")
	}
	if price <= 0 {
		return fmt.Errorf("price must be positive")
	}
	if order.Remaining() <= 0 {
		return fmt.Errorf("order remaining quantity must be positive")
	}
	if order.ID == "" {
		return fmt.Errorf("order ID cannot be empty")
	}

	ob.mu.Lock()
	defer ob.mu.Unlock()

	if _, exists := ob.Orders[order.ID]; exists {
		return fmt.Errorf("order with ID %s already exists", order.ID)
	}

	var limits map[float64]*orderbookv1.Limit
	if order.IsBid() {
		limits = ob.BidLimits
	} else {
		limits = ob.AskLimits
	}

	limit, exists := limits[price]
	if !exists {
		limit = orderbookv1.NewLimit(price)
		limits[price] = limit
	}

	if err := limit.AddOrder(order); err != nil {
		return err
	}

	ob.Orders[order.ID] = order

	return nil
}

// Fill matches the incoming order against the opposite side of the book in
// price-time priority and returns the matches. Market orders walk the book
// until filled or exhausted; limit orders stop once the best opposite price
// no longer satisfies the limit. Resting orders of the same agent are skipped,
// never crossed.
func (ob *Orderbook) Fill(order *orderbookv1.Order, tick int64) []orderbookv1.Match {
	if order == nil {
		return nil
	}

	ob.mu.Lock()
	defer ob.mu.Unlock()

	var matches []orderbookv1.Match

	for _, limit := range ob.oppositeLimits(order) {
		if order.Remaining() <= 0 {
			break
		}
		if !crosses(order, limit.Price) {
			break
		}
		// level holds only the agent's own orders, look at the next one
		if limit.FillableVolume(order.AgentID) <= 0 {
			continue
		}

		matches = append(matches, limit.Fill(order, tick)...)

		if limit.IsEmpty() {
			if order.IsBid() {
				delete(ob.AskLimits, limit.Price)
			} else {
				delete(ob.BidLimits, limit.Price)
			}
		}
	}

	for _, match := range matches {
		if match.Maker.IsFilled() {
			delete(ob.Orders, match.Maker.ID)
		}
		ob.lastTradePrice = match.Price
	}

	return matches
}

// RevertFill undoes one match: both legs' fill records are unwound and the
// maker is restored to its price level with its original time priority. Used
// when settlement fails after the book already filled the match.
func (ob *Orderbook) RevertFill(match orderbookv1.Match) error {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	match.Taker.UnwindFill(match.SizeFilled, match.Price)
	maker := match.Maker
	maker.UnwindFill(match.SizeFilled, match.Price)

	var limits map[float64]*orderbookv1.Limit
	if maker.IsBid() {
		limits = ob.BidLimits
	} else {
		limits = ob.AskLimits
	}

	limit, exists := limits[match.Price]
	if !exists {
		limit = orderbookv1.NewLimit(match.Price)
		limits[match.Price] = limit
	}

	if maker.Limit == nil {
		// the maker had been fully filled and dropped from the level
		if err := limit.AddOrder(maker); err != nil {
			return err
		}
		ob.Orders[maker.ID] = maker
	} else {
		limit.TotalVolume += match.SizeFilled
	}

	return nil
}

// oppositeLimits returns the side the order would trade against, best first.
func (ob *Orderbook) oppositeLimits(order *orderbookv1.Order) orderbookv1.Limits {
	var limits orderbookv1.Limits
	if order.IsBid() {
		for price := range ob.AskLimits {
			limits = append(limits, ob.AskLimits[price])
		}
		sort.Sort(orderbookv1.ByBestAsk{Limits: limits})
	} else {
		for price := range ob.BidLimits {
			limits = append(limits, ob.BidLimits[price])
		}
		sort.Sort(orderbookv1.ByBestBid{Limits: limits})
	}
	return limits
}

// crosses reports whether the aggressor is willing to trade at the given
// opposite price. Market and triggered stop orders have no bound.
func crosses(order *orderbookv1.Order, price float64) bool {
	if order.Type != orderbookv1.OrderTypeLimit || order.LimitPrice <= 0 {
		return true
	}
	if order.IsBid() {
		return price <= order.LimitPrice
	}
	return price >= order.LimitPrice
}

// CancelOrder removes a resting order.
func (ob *Orderbook) CancelOrder(orderID string) error {
	if orderID == "" {
		return fmt.Errorf("order ID cannot be empty")
	}

	ob.mu.Lock()
	defer ob.mu.Unlock()

	order, exists := ob.Orders[orderID]
	if !exists {
		return fmt.Errorf("order with ID %s does not exist", orderID)
	}

	limit := order.Limit
	if limit != nil {
		if err := limit.RemoveOrder(order); err != nil {
			return err
		}
		if limit.IsEmpty() {
			if order.IsBid() {
				delete(ob.BidLimits, limit.Price)
			} else {
				delete(ob.AskLimits, limit.Price)
			}
		}
	}

	delete(ob.Orders, orderID)
	order.Status = orderbookv1.StatusCancelled

	return nil
}

// CancelAgentSide removes every resting order of the given agent on one side
// and returns them. Used to replace the market-maker ladder.
func (ob *Orderbook) CancelAgentSide(agentID string, side marketv1.Side) []*orderbookv1.Order {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	limits := ob.BidLimits
	if side == marketv1.SideSell {
		limits = ob.AskLimits
	}

	var cancelled []*orderbookv1.Order
	for price, limit := range limits {
		for _, order := range limit.OrdersByPriority() {
			if order.AgentID != agentID {
				continue
			}
			if err := limit.RemoveOrder(order); err != nil {
				continue
			}
			delete(ob.Orders, order.ID)
			order.Status = orderbookv1.StatusCancelled
			cancelled = append(cancelled, order)
		}
		if limit.IsEmpty() {
			delete(limits, price)
		}
	}

	return cancelled
}

// AddStop holds a stop order outside the book until it triggers.
func (ob *Orderbook) AddStop(order *orderbookv1.Order) {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	ob.stops = append(ob.stops, order)
}

// TriggeredStops removes and returns the stop orders triggered by the given
// last trade price: buy stops trigger at or above their stop price, sell
// stops at or below.
func (ob *Orderbook) TriggeredStops(lastPrice float64) []*orderbookv1.Order {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	var triggered []*orderbookv1.Order
	kept := ob.stops[:0]
	for _, stop := range ob.stops {
		fire := (stop.IsBid() && lastPrice >= stop.StopPrice) ||
			(stop.IsAsk() && lastPrice <= stop.StopPrice)
		if fire {
			triggered = append(triggered, stop)
		} else {
			kept = append(kept, stop)
		}
	}
	ob.stops = kept

	sort.Sort(orderbookv1.Orders(triggered))
	return triggered
}

// StopCount returns the number of held stop orders.
func (ob *Orderbook) StopCount() int {
	ob.mu.RLock()
	defer ob.mu.RUnlock()
	return len(ob.stops)
}

// Asks returns ask limits sorted by price (ascending).
func (ob *Orderbook) Asks() []*orderbookv1.Limit {
	ob.mu.RLock()
	defer ob.mu.RUnlock()

	var limits orderbookv1.Limits
	for _, limit := range ob.AskLimits {
		limits = append(limits, limit)
	}
	sort.Sort(orderbookv1.ByBestAsk{Limits: limits})
	return limits
}

// Bids returns bid limits sorted by price (descending).
func (ob *Orderbook) Bids() []*orderbookv1.Limit {
	ob.mu.RLock()
	defer ob.mu.RUnlock()

	var limits orderbookv1.Limits
	for _, limit := range ob.BidLimits {
		limits = append(limits, limit)
	}
	sort.Sort(orderbookv1.ByBestBid{Limits: limits})
	return limits
}

// AskTotalVolume returns total resting ask volume.
func (ob *Orderbook) AskTotalVolume() int64 {
	ob.mu.RLock()
	defer ob.mu.RUnlock()

	var total int64
	for _, limit := range ob.AskLimits {
		total += limit.TotalVolume
	}
	return total
}

// BidTotalVolume returns total resting bid volume.
func (ob *Orderbook) BidTotalVolume() int64 {
	ob.mu.RLock()
	defer ob.mu.RUnlock()

	var total int64
	for _, limit := range ob.BidLimits {
		total += limit.TotalVolume
	}
	return total
}

// Clear cancels every resting and stop order and returns them. Books are
// cleared in full at each session boundary, orders never carry across.
func (ob *Orderbook) Clear() []*orderbookv1.Order {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	var cancelled []*orderbookv1.Order
	for _, order := range ob.Orders {
		order.Limit = nil
		if !order.Status.IsTerminal() {
			order.Status = orderbookv1.StatusCancelled
		}
		cancelled = append(cancelled, order)
	}
	for _, stop := range ob.stops {
		if !stop.Status.IsTerminal() {
			stop.Status = orderbookv1.StatusCancelled
		}
		cancelled = append(cancelled, stop)
	}

	ob.AskLimits = make(map[float64]*orderbookv1.Limit)
	ob.BidLimits = make(map[float64]*orderbookv1.Limit)
	ob.Orders = make(map[string]*orderbookv1.Order)
	ob.stops = nil

	sort.Sort(orderbookv1.Orders(cancelled))
	return cancelled
}

// CreateSnapshot captures the book's resting state.
func (ob *Orderbook) CreateSnapshot() snapshotv1.BookSnapshot {
	ob.mu.RLock()
	defer ob.mu.RUnlock()

	snapshot := snapshotv1.BookSnapshot{
		Symbol:         ob.symbol,
		LastTradePrice: ob.lastTradePrice,
	}

	appendOrders := func(limits map[float64]*orderbookv1.Limit) {
		for _, limit := range limits {
			for _, order := range limit.OrdersByPriority() {
				snapshot.Orders = append(snapshot.Orders, bookOrderFrom(order, limit.Price))
			}
		}
	}
	appendOrders(ob.AskLimits)
	appendOrders(ob.BidLimits)

	for _, stop := range ob.stops {
		snapshot.Stops = append(snapshot.Stops, bookOrderFrom(stop, stop.LimitPrice))
	}

	return snapshot
}

// RestoreOrderbook rebuilds the book from a snapshot.
func (ob *Orderbook) RestoreOrderbook(snapshot snapshotv1.BookSnapshot) error {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	ob.AskLimits = make(map[float64]*orderbookv1.Limit)
	ob.BidLimits = make(map[float64]*orderbookv1.Limit)
	ob.Orders = make(map[string]*orderbookv1.Order)
	ob.stops = nil
	ob.lastTradePrice = snapshot.LastTradePrice

	for _, bookOrder := range snapshot.Orders {
		order := orderFrom(ob.symbol, bookOrder)

		var limits map[float64]*orderbookv1.Limit
		if order.IsBid() {
			limits = ob.BidLimits
		} else {
			limits = ob.AskLimits
		}

		limit, exists := limits[bookOrder.Price]
		if !exists {
			limit = orderbookv1.NewLimit(bookOrder.Price)
			limits[bookOrder.Price] = limit
		}

		if err := limit.AddOrder(order); err != nil {
			return fmt.Errorf("failed to restore order %s: %w", bookOrder.OrderID, err)
		}

		ob.Orders[order.ID] = order
		if order.Sequence > ob.sequence {
			ob.sequence = order.Sequence
		}
	}

	for _, bookOrder := range snapshot.Stops {
		stop := orderFrom(ob.symbol, bookOrder)
		ob.stops = append(ob.stops, stop)
		if stop.Sequence > ob.sequence {
			ob.sequence = stop.Sequence
		}
	}

	return nil
}

func bookOrderFrom(order *orderbookv1.Order, price float64) snapshotv1.BookOrder {
	return snapshotv1.BookOrder{
		OrderID:       order.ID,
		AgentID:       order.AgentID,
		Side:          order.Side,
		Type:          order.Type,
		Price:         price,
		StopPrice:     order.StopPrice,
		Quantity:      order.Quantity,
		Filled:        order.Filled,
		AvgFillPrice:  order.AvgFillPrice,
		TickSubmitted: order.TickSubmitted,
		Sequence:      order.Sequence,
	}
}

func orderFrom(symbol string, bookOrder snapshotv1.BookOrder) *orderbookv1.Order {
	status := orderbookv1.StatusPending
	if bookOrder.Filled > 0 {
		status = orderbookv1.StatusPartial
	}

	return &orderbookv1.Order{
		ID:            bookOrder.OrderID,
		AgentID:       bookOrder.AgentID,
		Symbol:        symbol,
		Side:          bookOrder.Side,
		Type:          bookOrder.Type,
		Quantity:      bookOrder.Quantity,
		LimitPrice:    bookOrder.Price,
		StopPrice:     bookOrder.StopPrice,
		Filled:        bookOrder.Filled,
		AvgFillPrice:  bookOrder.AvgFillPrice,
		Status:        status,
		TickSubmitted: bookOrder.TickSubmitted,
		Sequence:      bookOrder.Sequence,
	}
}
