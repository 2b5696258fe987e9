package orderbook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	marketv1 "github.com/muhammadchandra19/marketsim/internal/domain/market/v1"
	orderbookv1 "github.com/muhammadchandra19/marketsim/internal/domain/orderbook/v1"
)

func newOrder(id, agentID string, side marketv1.Side, orderType orderbookv1.OrderType, quantity int64, sequence int64) *orderbookv1.Order {
	order := orderbookv1.NewOrder(id, agentID, "APEX", side, orderType, quantity, 1)
	order.Sequence = sequence
	return order
}

func restLimit(t *testing.T, book *Orderbook, id, agentID string, side marketv1.Side, price float64, quantity, sequence int64) *orderbookv1.Order {
	t.Helper()
	order := newOrder(id, agentID, side, orderbookv1.OrderTypeLimit, quantity, sequence)
	order.LimitPrice = price
	require.NoError(t, book.PlaceLimitOrder(price, order))
	return order
}

func TestOrderbook_PlaceLimitOrder(t *testing.T) {
	t.Run("Places bid and ask on their sides", func(t *testing.T) {
		book := NewOrderbook("APEX")

		restLimit(t, book, "bid-1", "agent-1", marketv1.SideBuy, 99.0, 10, 1)
		restLimit(t, book, "ask-1", "agent-2", marketv1.SideSell, 101.0, 20, 2)

		assert.Equal(t, int64(10), book.BidTotalVolume())
		assert.Equal(t, int64(20), book.AskTotalVolume())
		require.Len(t, book.Bids(), 1)
		require.Len(t, book.Asks(), 1)
	})

	t.Run("Rejects duplicate order id", func(t *testing.T) {
		book := NewOrderbook("APEX")
		restLimit(t, book, "dup", "agent-1", marketv1.SideBuy, 99.0, 10, 1)

		again := newOrder("dup", "agent-1", marketv1.SideBuy, orderbookv1.OrderTypeLimit, 10, 2)
		assert.Error(t, book.PlaceLimitOrder(99.0, again))
	})

	t.Run("Rejects invalid input", func(t *testing.T) {
		book := NewOrderbook("APEX")

		assert.Error(t, book.PlaceLimitOrder(99.0, nil))
		assert.Error(t, book.PlaceLimitOrder(0, newOrder("o1", "agent-1", marketv1.SideBuy, orderbookv1.OrderTypeLimit, 10, 1)))
		assert.Error(t, book.PlaceLimitOrder(99.0, newOrder("", "agent-1", marketv1.SideBuy, orderbookv1.OrderTypeLimit, 10, 1)))
		assert.Error(t, book.PlaceLimitOrder(99.0, newOrder("o1", "agent-1", marketv1.SideBuy, orderbookv1.OrderTypeLimit, 0, 1)))
	})
}

func TestOrderbook_Fill(t *testing.T) {
	t.Run("Market buy walks ask levels best first", func(t *testing.T) {
		book := NewOrderbook("APEX")
		restLimit(t, book, "ask-1", "maker-1", marketv1.SideSell, 100.20, 5, 1)
		restLimit(t, book, "ask-2", "maker-2", marketv1.SideSell, 100.40, 5, 2)
		restLimit(t, book, "ask-3", "maker-3", marketv1.SideSell, 100.60, 5, 3)

		taker := newOrder("buy-1", "agent-1", marketv1.SideBuy, orderbookv1.OrderTypeMarket, 12, 4)
		matches := book.Fill(taker, 3)

		require.Len(t, matches, 3)
		assert.Equal(t, 100.20, matches[0].Price)
		assert.Equal(t, 100.40, matches[1].Price)
		assert.Equal(t, 100.60, matches[2].Price)
		assert.Equal(t, int64(5), matches[0].SizeFilled)
		assert.Equal(t, int64(5), matches[1].SizeFilled)
		assert.Equal(t, int64(2), matches[2].SizeFilled)
		assert.True(t, taker.IsFilled())
		assert.Equal(t, 100.60, book.LastTradePrice())
		// two levels consumed, one left with remainder
		assert.Equal(t, int64(3), book.AskTotalVolume())
	})

	t.Run("Limit buy stops at its price bound", func(t *testing.T) {
		book := NewOrderbook("APEX")
		restLimit(t, book, "ask-1", "maker-1", marketv1.SideSell, 100.20, 5, 1)
		restLimit(t, book, "ask-2", "maker-2", marketv1.SideSell, 100.40, 5, 2)

		taker := newOrder("buy-1", "agent-1", marketv1.SideBuy, orderbookv1.OrderTypeLimit, 10, 3)
		taker.LimitPrice = 100.20
		matches := book.Fill(taker, 3)

		require.Len(t, matches, 1)
		assert.Equal(t, 100.20, matches[0].Price)
		assert.Equal(t, int64(5), taker.Remaining())
		assert.Equal(t, int64(5), book.AskTotalVolume())
	})

	t.Run("Limit sell stops at its price bound", func(t *testing.T) {
		book := NewOrderbook("APEX")
		restLimit(t, book, "bid-1", "maker-1", marketv1.SideBuy, 99.80, 5, 1)
		restLimit(t, book, "bid-2", "maker-2", marketv1.SideBuy, 99.60, 5, 2)

		taker := newOrder("sell-1", "agent-1", marketv1.SideSell, orderbookv1.OrderTypeLimit, 10, 3)
		taker.LimitPrice = 99.80
		matches := book.Fill(taker, 3)

		require.Len(t, matches, 1)
		assert.Equal(t, 99.80, matches[0].Price)
		assert.Equal(t, int64(5), taker.Remaining())
	})

	t.Run("Skips a level holding only the agent's own orders", func(t *testing.T) {
		book := NewOrderbook("APEX")
		restLimit(t, book, "own-ask", "agent-1", marketv1.SideSell, 100.20, 5, 1)
		restLimit(t, book, "other-ask", "maker-2", marketv1.SideSell, 100.40, 5, 2)

		taker := newOrder("buy-1", "agent-1", marketv1.SideBuy, orderbookv1.OrderTypeMarket, 5, 3)
		matches := book.Fill(taker, 3)

		require.Len(t, matches, 1)
		assert.Equal(t, 100.40, matches[0].Price)
		// the skipped own order still rests
		assert.Equal(t, int64(5), book.AskTotalVolume())
	})

	t.Run("Empty book yields no matches", func(t *testing.T) {
		book := NewOrderbook("APEX")
		taker := newOrder("buy-1", "agent-1", marketv1.SideBuy, orderbookv1.OrderTypeMarket, 5, 1)

		assert.Empty(t, book.Fill(taker, 3))
		assert.Equal(t, int64(5), taker.Remaining())
	})
}

func TestOrderbook_RevertFill(t *testing.T) {
	t.Run("Restores a fully filled maker to its level", func(t *testing.T) {
		book := NewOrderbook("APEX")
		maker := restLimit(t, book, "ask-1", "maker-1", marketv1.SideSell, 100.20, 5, 1)

		taker := newOrder("buy-1", "agent-1", marketv1.SideBuy, orderbookv1.OrderTypeMarket, 5, 2)
		matches := book.Fill(taker, 3)
		require.Len(t, matches, 1)
		require.Equal(t, int64(0), book.AskTotalVolume())

		require.NoError(t, book.RevertFill(matches[0]))

		assert.Equal(t, int64(0), taker.Filled)
		assert.Equal(t, orderbookv1.StatusPending, taker.Status)
		assert.Equal(t, int64(0), maker.Filled)
		assert.Equal(t, orderbookv1.StatusPending, maker.Status)
		assert.Equal(t, int64(5), book.AskTotalVolume())
		assert.Same(t, maker, book.Orders["ask-1"])
	})

	t.Run("Restores level volume for a partially filled maker", func(t *testing.T) {
		book := NewOrderbook("APEX")
		maker := restLimit(t, book, "ask-1", "maker-1", marketv1.SideSell, 100.20, 10, 1)

		taker := newOrder("buy-1", "agent-1", marketv1.SideBuy, orderbookv1.OrderTypeMarket, 4, 2)
		matches := book.Fill(taker, 3)
		require.Len(t, matches, 1)
		require.Equal(t, int64(6), book.AskTotalVolume())

		require.NoError(t, book.RevertFill(matches[0]))

		assert.Equal(t, int64(0), maker.Filled)
		assert.Equal(t, int64(10), book.AskTotalVolume())
	})

	t.Run("Reverted maker keeps its time priority", func(t *testing.T) {
		book := NewOrderbook("APEX")
		first := restLimit(t, book, "ask-1", "maker-1", marketv1.SideSell, 100.20, 5, 1)
		restLimit(t, book, "ask-2", "maker-2", marketv1.SideSell, 100.20, 5, 2)

		taker := newOrder("buy-1", "agent-1", marketv1.SideBuy, orderbookv1.OrderTypeMarket, 5, 3)
		matches := book.Fill(taker, 3)
		require.Len(t, matches, 1)
		require.Same(t, first, matches[0].Maker)

		require.NoError(t, book.RevertFill(matches[0]))

		// a fresh taker crosses the restored maker first again
		second := newOrder("buy-2", "agent-2", marketv1.SideBuy, orderbookv1.OrderTypeMarket, 5, 4)
		again := book.Fill(second, 4)
		require.Len(t, again, 1)
		assert.Same(t, first, again[0].Maker)
	})
}

func TestOrderbook_CancelOrder(t *testing.T) {
	book := NewOrderbook("APEX")
	order := restLimit(t, book, "bid-1", "agent-1", marketv1.SideBuy, 99.0, 10, 1)

	require.NoError(t, book.CancelOrder("bid-1"))
	assert.Equal(t, orderbookv1.StatusCancelled, order.Status)
	assert.Equal(t, int64(0), book.BidTotalVolume())
	assert.Empty(t, book.Bids())

	assert.Error(t, book.CancelOrder("bid-1"))
	assert.Error(t, book.CancelOrder(""))
}

func TestOrderbook_CancelAgentSide(t *testing.T) {
	book := NewOrderbook("APEX")
	restLimit(t, book, "mm-bid-1", orderbookv1.MarketMakerAgentID, marketv1.SideBuy, 99.80, 10, 1)
	restLimit(t, book, "mm-bid-2", orderbookv1.MarketMakerAgentID, marketv1.SideBuy, 99.60, 10, 2)
	agentBid := restLimit(t, book, "agent-bid", "agent-1", marketv1.SideBuy, 99.80, 10, 3)
	restLimit(t, book, "mm-ask", orderbookv1.MarketMakerAgentID, marketv1.SideSell, 100.20, 10, 4)

	cancelled := book.CancelAgentSide(orderbookv1.MarketMakerAgentID, marketv1.SideBuy)

	assert.Len(t, cancelled, 2)
	for _, order := range cancelled {
		assert.Equal(t, orderbookv1.StatusCancelled, order.Status)
	}
	// the agent's bid and the maker's ask are untouched
	assert.Equal(t, int64(10), book.BidTotalVolume())
	assert.Equal(t, orderbookv1.StatusPending, agentBid.Status)
	assert.Equal(t, int64(10), book.AskTotalVolume())
}

func TestOrderbook_Stops(t *testing.T) {
	t.Run("Buy stop triggers at or above its price", func(t *testing.T) {
		book := NewOrderbook("APEX")
		stop := newOrder("stop-1", "agent-1", marketv1.SideBuy, orderbookv1.OrderTypeStop, 10, 1)
		stop.StopPrice = 105.0
		book.AddStop(stop)

		assert.Empty(t, book.TriggeredStops(104.99))
		assert.Equal(t, 1, book.StopCount())

		triggered := book.TriggeredStops(105.0)
		require.Len(t, triggered, 1)
		assert.Equal(t, stop, triggered[0])
		assert.Equal(t, 0, book.StopCount())
	})

	t.Run("Sell stop triggers at or below its price", func(t *testing.T) {
		book := NewOrderbook("APEX")
		stop := newOrder("stop-1", "agent-1", marketv1.SideSell, orderbookv1.OrderTypeStop, 10, 1)
		stop.StopPrice = 95.0
		book.AddStop(stop)

		assert.Empty(t, book.TriggeredStops(95.01))
		require.Len(t, book.TriggeredStops(95.0), 1)
	})

	t.Run("Triggered stops come out in submission order", func(t *testing.T) {
		book := NewOrderbook("APEX")
		second := newOrder("stop-2", "agent-1", marketv1.SideBuy, orderbookv1.OrderTypeStop, 10, 2)
		second.StopPrice = 105.0
		first := newOrder("stop-1", "agent-2", marketv1.SideBuy, orderbookv1.OrderTypeStop, 10, 1)
		first.StopPrice = 104.0
		book.AddStop(second)
		book.AddStop(first)

		triggered := book.TriggeredStops(106.0)
		require.Len(t, triggered, 2)
		assert.Equal(t, first, triggered[0])
		assert.Equal(t, second, triggered[1])
	})
}

func TestOrderbook_Clear(t *testing.T) {
	book := NewOrderbook("APEX")
	bid := restLimit(t, book, "bid-1", "agent-1", marketv1.SideBuy, 99.0, 10, 1)
	ask := restLimit(t, book, "ask-1", "agent-2", marketv1.SideSell, 101.0, 10, 2)
	stop := newOrder("stop-1", "agent-3", marketv1.SideBuy, orderbookv1.OrderTypeStop, 10, 3)
	stop.StopPrice = 105.0
	book.AddStop(stop)

	cancelled := book.Clear()

	assert.Len(t, cancelled, 3)
	assert.Equal(t, orderbookv1.StatusCancelled, bid.Status)
	assert.Equal(t, orderbookv1.StatusCancelled, ask.Status)
	assert.Equal(t, orderbookv1.StatusCancelled, stop.Status)
	assert.Equal(t, int64(0), book.BidTotalVolume())
	assert.Equal(t, int64(0), book.AskTotalVolume())
	assert.Equal(t, 0, book.StopCount())
}

func TestOrderbook_SnapshotRoundtrip(t *testing.T) {
	book := NewOrderbook("APEX")
	book.SetLastTradePrice(100.15)

	bid := restLimit(t, book, "bid-1", "agent-1", marketv1.SideBuy, 99.80, 10, 1)
	bid.RecordFill(4, 99.80, 1)
	book.BidLimits[99.80].TotalVolume -= 4

	restLimit(t, book, "ask-1", "agent-2", marketv1.SideSell, 100.20, 20, 2)

	stop := newOrder("stop-1", "agent-3", marketv1.SideSell, orderbookv1.OrderTypeStop, 5, 3)
	stop.StopPrice = 95.0
	book.AddStop(stop)

	snapshot := book.CreateSnapshot()
	assert.Equal(t, "APEX", snapshot.Symbol)
	assert.Equal(t, 100.15, snapshot.LastTradePrice)
	assert.Len(t, snapshot.Orders, 2)
	assert.Len(t, snapshot.Stops, 1)

	restored := NewOrderbook("APEX")
	require.NoError(t, restored.RestoreOrderbook(snapshot))

	assert.Equal(t, 100.15, restored.LastTradePrice())
	assert.Equal(t, int64(6), restored.BidTotalVolume())
	assert.Equal(t, int64(20), restored.AskTotalVolume())
	assert.Equal(t, 1, restored.StopCount())

	restoredBid := restored.Orders["bid-1"]
	require.NotNil(t, restoredBid)
	assert.Equal(t, orderbookv1.StatusPartial, restoredBid.Status)
	assert.Equal(t, int64(4), restoredBid.Filled)

	// the restored sequence continues past the highest restored order
	assert.Greater(t, restored.NextSequence(), int64(3))
}
