package orderfeed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	marketv1 "github.com/muhammadchandra19/marketsim/internal/domain/market/v1"
	orderbookv1 "github.com/muhammadchandra19/marketsim/internal/domain/orderbook/v1"
	"github.com/muhammadchandra19/marketsim/pkg/errors"
)

func TestFeed_PendingOrders(t *testing.T) {
	ctx := context.Background()
	feed := &Feed{queues: make(map[string][]*orderbookv1.Order)}

	t.Run("Drains in submission order and stamps the tick", func(t *testing.T) {
		second := orderbookv1.NewOrder("o2", "agent-1", "APEX", marketv1.SideBuy, orderbookv1.OrderTypeMarket, 10, 0)
		second.Sequence = 12
		first := orderbookv1.NewOrder("o1", "agent-2", "APEX", marketv1.SideSell, orderbookv1.OrderTypeLimit, 20, 0)
		first.Sequence = 11

		feed.Enqueue(second)
		feed.Enqueue(first)

		pending := feed.PendingOrders(ctx, "APEX", 7)
		require.Len(t, pending, 2)
		assert.Equal(t, "o1", pending[0].ID)
		assert.Equal(t, "o2", pending[1].ID)
		assert.Equal(t, int64(7), pending[0].TickSubmitted)
		assert.Equal(t, int64(7), pending[1].TickSubmitted)

		// the queue is drained
		assert.Empty(t, feed.PendingOrders(ctx, "APEX", 8))
	})

	t.Run("Earlier submission tick wins over sequence", func(t *testing.T) {
		late := orderbookv1.NewOrder("late", "agent-1", "APEX", marketv1.SideBuy, orderbookv1.OrderTypeMarket, 10, 9)
		late.Sequence = 1
		early := orderbookv1.NewOrder("early", "agent-2", "APEX", marketv1.SideBuy, orderbookv1.OrderTypeMarket, 10, 8)
		early.Sequence = 99

		feed.Enqueue(late)
		feed.Enqueue(early)

		pending := feed.PendingOrders(ctx, "APEX", 9)
		require.Len(t, pending, 2)
		assert.Equal(t, "early", pending[0].ID)
	})

	t.Run("Queues are per symbol", func(t *testing.T) {
		apex := orderbookv1.NewOrder("a1", "agent-1", "APEX", marketv1.SideBuy, orderbookv1.OrderTypeMarket, 10, 0)
		bolt := orderbookv1.NewOrder("b1", "agent-1", "BOLT", marketv1.SideBuy, orderbookv1.OrderTypeMarket, 10, 0)

		feed.Enqueue(apex)
		feed.Enqueue(bolt)

		assert.Len(t, feed.PendingOrders(ctx, "APEX", 3), 1)
		assert.Len(t, feed.PendingOrders(ctx, "BOLT", 3), 1)
	})
}

func TestOrderFromPayload(t *testing.T) {
	t.Run("Limit buy", func(t *testing.T) {
		order, err := orderFromPayload(OrderPayload{
			OrderID:    "o1",
			AgentID:    "agent-1",
			Symbol:     "APEX",
			Side:       "buy",
			Type:       "limit",
			Quantity:   100,
			LimitPrice: 99.50,
		}, 42)
		require.NoError(t, err)

		assert.Equal(t, marketv1.SideBuy, order.Side)
		assert.Equal(t, orderbookv1.OrderTypeLimit, order.Type)
		assert.Equal(t, 99.50, order.LimitPrice)
		assert.Equal(t, int64(42), order.Sequence)
		assert.Equal(t, orderbookv1.StatusPending, order.Status)
	})

	t.Run("Stop sell", func(t *testing.T) {
		order, err := orderFromPayload(OrderPayload{
			OrderID:   "o2",
			AgentID:   "agent-1",
			Symbol:    "APEX",
			Side:      "sell",
			Type:      "stop",
			Quantity:  50,
			StopPrice: 95.00,
		}, 43)
		require.NoError(t, err)

		assert.Equal(t, marketv1.SideSell, order.Side)
		assert.Equal(t, orderbookv1.OrderTypeStop, order.Type)
		assert.Equal(t, 95.00, order.StopPrice)
	})

	t.Run("Unknown side is rejected", func(t *testing.T) {
		_, err := orderFromPayload(OrderPayload{OrderID: "o3", Side: "hold", Type: "market", Quantity: 1}, 44)
		require.Error(t, err)
		assert.True(t, errors.ErrorCodeEquals(err, string(errors.GeneralBadRequestError)))
	})

	t.Run("Unknown type is rejected", func(t *testing.T) {
		_, err := orderFromPayload(OrderPayload{OrderID: "o4", Side: "buy", Type: "weird", Quantity: 1}, 45)
		require.Error(t, err)
		assert.True(t, errors.ErrorCodeEquals(err, string(errors.GeneralBadRequestError)))
	})

	t.Run("Missing type is rejected", func(t *testing.T) {
		_, err := orderFromPayload(OrderPayload{OrderID: "o5", Side: "buy", Quantity: 1}, 46)
		assert.Error(t, err)
	})
}
