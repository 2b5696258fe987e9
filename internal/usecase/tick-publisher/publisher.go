package tickpublisher

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	marketv1 "github.com/muhammadchandra19/marketsim/internal/domain/market/v1"
	sinkv1 "github.com/muhammadchandra19/marketsim/internal/domain/sink/v1"
	"github.com/muhammadchandra19/marketsim/pkg/config"
	"github.com/muhammadchandra19/marketsim/pkg/errors"
	"github.com/muhammadchandra19/marketsim/pkg/logger"
)

// Publisher fans the engine's outputs out to Kafka. Per-item callbacks are
// logged for observability only; the consolidated tick result is the one
// message downstream consumers rely on.
type Publisher struct {
	kafkaWriter *kafka.Writer
	logger      *logger.Logger
}

// NewPublisher creates a Kafka publisher for tick results.
func NewPublisher(cfg config.KafkaConfig, log *logger.Logger) *Publisher {
	kafkaWriter := kafka.NewWriter(kafka.WriterConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.TicksTopic,
	})

	return &Publisher{
		kafkaWriter: kafkaWriter,
		logger:      log,
	}
}

// OnTrade logs the fill; the trade itself travels in the tick result.
func (p *Publisher) OnTrade(ctx context.Context, trade marketv1.Trade) {
	p.logger.DebugContext(ctx, "trade",
		logger.Field{Key: "tradeID", Value: trade.ID},
		logger.Field{Key: "quantity", Value: trade.Quantity},
		logger.Field{Key: "price", Value: trade.Price},
	)
}

// OnOrderStatusChange logs the transition; the update travels in the tick result.
func (p *Publisher) OnOrderStatusChange(ctx context.Context, update sinkv1.OrderStatusUpdate) {
	p.logger.DebugContext(ctx, "order status",
		logger.Field{Key: "orderID", Value: update.OrderID},
		logger.Field{Key: "status", Value: update.Status},
		logger.Field{Key: "filledQuantity", Value: update.FilledQuantity},
	)
}

// OnPriceUpdate logs the move; the update travels in the tick result.
func (p *Publisher) OnPriceUpdate(ctx context.Context, update marketv1.PriceUpdate) {
	p.logger.DebugContext(ctx, "price update",
		logger.Field{Key: "newPrice", Value: update.NewPrice},
		logger.Field{Key: "changePercent", Value: update.ChangePercent},
	)
}

// OnTickComplete publishes the consolidated tick result to the ticks topic.
func (p *Publisher) OnTickComplete(ctx context.Context, result *marketv1.TickResult) error {
	value, err := json.Marshal(result)
	if err != nil {
		return errors.NewTracer("failed to marshal tick result").Wrap(err)
	}

	msg := kafka.Message{
		Value: value,
	}

	if err := p.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		p.logger.ErrorContext(ctx, errors.TracerFromError(err),
			logger.Field{Key: "tick", Value: result.Tick},
		)
		return errors.NewTracer("failed to publish tick result").Wrap(err)
	}
	return nil
}

// Close shuts the Kafka writer down.
func (p *Publisher) Close() error {
	return p.kafkaWriter.Close()
}

var _ sinkv1.TickSink = (*Publisher)(nil)
