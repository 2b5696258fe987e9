package feedv1

import (
	"context"

	marketv1 "github.com/muhammadchandra19/marketsim/internal/domain/market/v1"
	orderbookv1 "github.com/muhammadchandra19/marketsim/internal/domain/orderbook/v1"
)

// OrderSource supplies the pending orders submitted for a symbol since the
// previous tick, ordered by (tickSubmitted asc, sequence asc).
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=feedv1_mock
type OrderSource interface {
	// PendingOrders drains and returns the orders queued for the symbol.
	// The tick is stamped onto orders that were queued without one.
	PendingOrders(ctx context.Context, symbol string, tick int64) []*orderbookv1.Order
}

// EventSource supplies the market events active at a tick.
type EventSource interface {
	ActiveEvents(ctx context.Context, tick int64) []marketv1.MarketEvent
}
