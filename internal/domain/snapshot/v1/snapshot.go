package snapshotv1

import (
	marketv1 "github.com/muhammadchandra19/marketsim/internal/domain/market/v1"
	orderbookv1 "github.com/muhammadchandra19/marketsim/internal/domain/orderbook/v1"
)

// BookOrder is an order resting in a book at snapshot time.
type BookOrder struct {
	OrderID       string                `json:"orderID"`
	AgentID       string                `json:"agentID"`
	Side          marketv1.Side         `json:"side"`
	Type          orderbookv1.OrderType `json:"type"`
	Price         float64               `json:"price"`
	StopPrice     float64               `json:"stopPrice,omitempty"`
	Quantity      int64                 `json:"quantity"`
	Filled        int64                 `json:"filled"`
	AvgFillPrice  float64               `json:"avgFillPrice,omitempty"`
	TickSubmitted int64                 `json:"tickSubmitted"`
	Sequence      int64                 `json:"sequence"`
}

// BookSnapshot is the resting state of one symbol's book.
type BookSnapshot struct {
	Symbol         string      `json:"symbol"`
	LastTradePrice float64     `json:"lastTradePrice"`
	Orders         []BookOrder `json:"orders"`
	Stops          []BookOrder `json:"stops"`
}

// Snapshot captures the whole simulation state at a tick boundary.
type Snapshot struct {
	Tick        int64                 `json:"tick"`
	Instruments []marketv1.Instrument `json:"instruments"`
	Books       []BookSnapshot        `json:"books"`
}
