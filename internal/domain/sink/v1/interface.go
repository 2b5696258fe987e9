package sinkv1

import (
	"context"

	marketv1 "github.com/muhammadchandra19/marketsim/internal/domain/market/v1"
	orderbookv1 "github.com/muhammadchandra19/marketsim/internal/domain/orderbook/v1"
)

// OrderStatusUpdate notifies collaborators of an order's lifecycle change.
type OrderStatusUpdate struct {
	OrderID        string             `json:"orderID"`
	AgentID        string             `json:"agentID"`
	Symbol         string             `json:"symbol"`
	Status         orderbookv1.Status `json:"status"`
	FilledQuantity int64              `json:"filledQuantity"`
	AvgFillPrice   float64            `json:"avgFillPrice,omitempty"`
	TickFilled     int64              `json:"tickFilled,omitempty"`
}

// TickSink receives the engine's outputs. Per-item callbacks fire after the
// tick's state is fully formed; OnTickComplete is the single authoritative
// publish point and the only callback whose failure is reported back.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=sinkv1_mock
type TickSink interface {
	OnTrade(ctx context.Context, trade marketv1.Trade)
	OnOrderStatusChange(ctx context.Context, update OrderStatusUpdate)
	OnPriceUpdate(ctx context.Context, update marketv1.PriceUpdate)
	OnTickComplete(ctx context.Context, result *marketv1.TickResult) error
}
