package orderfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/segmentio/kafka-go"

	feedv1 "github.com/muhammadchandra19/marketsim/internal/domain/feed/v1"
	marketv1 "github.com/muhammadchandra19/marketsim/internal/domain/market/v1"
	orderbookv1 "github.com/muhammadchandra19/marketsim/internal/domain/orderbook/v1"
	"github.com/muhammadchandra19/marketsim/pkg/config"
	"github.com/muhammadchandra19/marketsim/pkg/errors"
	"github.com/muhammadchandra19/marketsim/pkg/logger"
)

// OrderPayload is the wire format of an agent order submission.
type OrderPayload struct {
	OrderID    string  `json:"orderID"`
	AgentID    string  `json:"agentID"`
	Symbol     string  `json:"symbol"`
	Side       string  `json:"side"`
	Type       string  `json:"type"`
	Quantity   int64   `json:"quantity"`
	LimitPrice float64 `json:"limitPrice,omitempty"`
	StopPrice  float64 `json:"stopPrice,omitempty"`
}

// Feed consumes agent order submissions from Kafka into per-symbol pending
// queues. The orchestrator drains a symbol's queue once per tick; the Kafka
// offset provides the submission sequence inside a tick.
type Feed struct {
	kafkaReader *kafka.Reader
	logger      *logger.Logger

	mu     sync.Mutex
	queues map[string][]*orderbookv1.Order
}

// NewFeed creates a Kafka-backed order feed.
func NewFeed(cfg config.KafkaConfig, log *logger.Logger) *Feed {
	kafkaReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.OrdersTopic,
		Partition:   0,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.LastOffset,
	})

	return &Feed{
		kafkaReader: kafkaReader,
		logger:      log,
		queues:      make(map[string][]*orderbookv1.Order),
	}
}

// Start consumes submissions until the context is cancelled. Run it in its
// own goroutine.
func (f *Feed) Start(ctx context.Context) {
	for {
		msg, err := f.kafkaReader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			f.logger.Error(err, logger.Field{Key: "operation", Value: "ReadMessage"})
			continue
		}

		var payload OrderPayload
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			f.logger.Error(err,
				logger.Field{Key: "operation", Value: "UnmarshalOrder"},
				logger.Field{Key: "offset", Value: msg.Offset},
			)
			continue
		}

		order, err := orderFromPayload(payload, msg.Offset)
		if err != nil {
			f.logger.Error(err,
				logger.Field{Key: "operation", Value: "ValidateOrder"},
				logger.Field{Key: "offset", Value: msg.Offset},
			)
			continue
		}
		f.Enqueue(order)

		f.logger.Debug("order queued",
			logger.Field{Key: "orderID", Value: order.ID},
			logger.Field{Key: "agentID", Value: order.AgentID},
			logger.Field{Key: "symbol", Value: order.Symbol},
			logger.Field{Key: "quantity", Value: order.Quantity},
		)
	}
}

// Enqueue adds an order to its symbol queue. Exposed for in-process
// submitters and tests.
func (f *Feed) Enqueue(order *orderbookv1.Order) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queues[order.Symbol] = append(f.queues[order.Symbol], order)
}

// PendingOrders drains the symbol's queue, stamps the current tick onto
// orders submitted since the last drain and returns them in submission order.
func (f *Feed) PendingOrders(_ context.Context, symbol string, tick int64) []*orderbookv1.Order {
	f.mu.Lock()
	pending := f.queues[symbol]
	delete(f.queues, symbol)
	f.mu.Unlock()

	for _, order := range pending {
		if order.TickSubmitted == 0 {
			order.TickSubmitted = tick
		}
	}
	sort.Sort(orderbookv1.Orders(pending))

	return pending
}

// Close shuts the Kafka reader down.
func (f *Feed) Close() error {
	return f.kafkaReader.Close()
}

// orderFromPayload validates a submission and builds the order. An unknown
// side or type is an error, a malformed submission must never execute.
func orderFromPayload(payload OrderPayload, offset int64) (*orderbookv1.Order, error) {
	var side marketv1.Side
	switch payload.Side {
	case string(marketv1.SideBuy):
		side = marketv1.SideBuy
	case string(marketv1.SideSell):
		side = marketv1.SideSell
	default:
		return nil, errors.NewErrorDetailsWithObject(
			fmt.Sprintf("order %s has unknown side %q", payload.OrderID, payload.Side),
			string(errors.GeneralBadRequestError),
			"side",
			payload,
		)
	}

	var orderType orderbookv1.OrderType
	switch payload.Type {
	case string(orderbookv1.OrderTypeMarket):
		orderType = orderbookv1.OrderTypeMarket
	case string(orderbookv1.OrderTypeLimit):
		orderType = orderbookv1.OrderTypeLimit
	case string(orderbookv1.OrderTypeStop):
		orderType = orderbookv1.OrderTypeStop
	default:
		return nil, errors.NewErrorDetailsWithObject(
			fmt.Sprintf("order %s has unknown type %q", payload.OrderID, payload.Type),
			string(errors.GeneralBadRequestError),
			"type",
			payload,
		)
	}

	order := orderbookv1.NewOrder(payload.OrderID, payload.AgentID, payload.Symbol, side, orderType, payload.Quantity, 0)
	order.LimitPrice = payload.LimitPrice
	order.StopPrice = payload.StopPrice
	order.Sequence = offset

	return order, nil
}

var _ feedv1.OrderSource = (*Feed)(nil)
