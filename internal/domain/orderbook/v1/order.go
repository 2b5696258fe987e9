package orderbookv1

import (
	marketv1 "github.com/muhammadchandra19/marketsim/internal/domain/market/v1"
)

// MarketMakerAgentID is the reserved agent id of the synthetic liquidity
// provider. Its orders rest in the book like any other but its legs are
// excluded from cash and position settlement.
const MarketMakerAgentID = "__market_maker__"

// OrderType represents the type of order.
type OrderType string

const (
	// OrderTypeMarket represents a market order.
	OrderTypeMarket OrderType = "market"
	// OrderTypeLimit represents a limit order.
	OrderTypeLimit OrderType = "limit"
	// OrderTypeStop represents a stop order, held outside the book until the
	// last trade price crosses its stop price.
	OrderTypeStop OrderType = "stop"
)

// Status represents the lifecycle state of an order.
type Status string

const (
	// StatusPending is an order that has not filled at all yet.
	StatusPending Status = "pending"
	// StatusPartial is a resting order with some quantity filled.
	StatusPartial Status = "partial"
	// StatusFilled is an order whose full quantity has been filled.
	StatusFilled Status = "filled"
	// StatusCancelled is an order removed from the book before completion.
	StatusCancelled Status = "cancelled"
	// StatusRejected is an order that failed fillability or could not
	// complete as a market order.
	StatusRejected Status = "rejected"
)

// IsTerminal reports whether the status ends the order's lifecycle.
func (s Status) IsTerminal() bool {
	return s == StatusFilled || s == StatusCancelled || s == StatusRejected
}

// Order represents a single order in the order book.
type Order struct {
	ID      string        `json:"id"`
	AgentID string        `json:"agentID"`
	Symbol  string        `json:"symbol"`
	Side    marketv1.Side `json:"side"`
	Type    OrderType     `json:"type"`

	Quantity   int64   `json:"quantity"`
	LimitPrice float64 `json:"limitPrice,omitempty"`
	StopPrice  float64 `json:"stopPrice,omitempty"`

	Filled       int64   `json:"filledQuantity"`
	AvgFillPrice float64 `json:"avgFillPrice,omitempty"`
	Status       Status  `json:"status"`

	TickSubmitted int64 `json:"tickSubmitted"`
	TickFilled    int64 `json:"tickFilled,omitempty"`

	// Sequence orders submissions within one tick.
	Sequence int64 `json:"sequence"`

	Limit *Limit `json:"-"`
}

// NewOrder creates a pending order with the given parameters.
func NewOrder(id, agentID, symbol string, side marketv1.Side, orderType OrderType, quantity int64, tick int64) *Order {
	return &Order{
		ID:            id,
		AgentID:       agentID,
		Symbol:        symbol,
		Side:          side,
		Type:          orderType,
		Quantity:      quantity,
		Status:        StatusPending,
		TickSubmitted: tick,
	}
}

// IsBid checks if the order is a buy order.
func (o *Order) IsBid() bool {
	return o.Side == marketv1.SideBuy
}

// IsAsk checks if the order is a sell order.
func (o *Order) IsAsk() bool {
	return o.Side == marketv1.SideSell
}

// Remaining returns the unfilled quantity.
func (o *Order) Remaining() int64 {
	return o.Quantity - o.Filled
}

// IsFilled checks if the order's full quantity has been filled.
func (o *Order) IsFilled() bool {
	return o.Remaining() <= 0
}

// IsMarketMaker reports whether the order belongs to the synthetic market maker.
func (o *Order) IsMarketMaker() bool {
	return o.AgentID == MarketMakerAgentID
}

// RecordFill applies a fill of the given quantity at the given price,
// maintaining the volume-weighted average fill price and the status.
func (o *Order) RecordFill(quantity int64, price float64, tick int64) {
	filledNotional := o.AvgFillPrice*float64(o.Filled) + price*float64(quantity)
	o.Filled += quantity
	o.AvgFillPrice = filledNotional / float64(o.Filled)

	if o.IsFilled() {
		o.Status = StatusFilled
		o.TickFilled = tick
	} else {
		o.Status = StatusPartial
	}
}

// UnwindFill reverses a previously recorded fill, restoring the
// volume-weighted average fill price and the status.
func (o *Order) UnwindFill(quantity int64, price float64) {
	filledNotional := o.AvgFillPrice*float64(o.Filled) - price*float64(quantity)
	o.Filled -= quantity
	if o.Filled > 0 {
		o.AvgFillPrice = filledNotional / float64(o.Filled)
		o.Status = StatusPartial
	} else {
		o.AvgFillPrice = 0
		o.Status = StatusPending
	}
	if !o.IsFilled() {
		o.TickFilled = 0
	}
}

// Before reports whether this order has time priority over the other, by
// submission tick then by sequence.
func (o *Order) Before(other *Order) bool {
	if o.TickSubmitted == other.TickSubmitted {
		return o.Sequence < other.Sequence
	}
	return o.TickSubmitted < other.TickSubmitted
}
