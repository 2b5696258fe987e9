package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	feedv1_mock "github.com/muhammadchandra19/marketsim/internal/domain/feed/v1/mock"
	marketv1 "github.com/muhammadchandra19/marketsim/internal/domain/market/v1"
	orderbookv1 "github.com/muhammadchandra19/marketsim/internal/domain/orderbook/v1"
	sinkv1_mock "github.com/muhammadchandra19/marketsim/internal/domain/sink/v1/mock"
	ledgeruc "github.com/muhammadchandra19/marketsim/internal/usecase/ledger"
	"github.com/muhammadchandra19/marketsim/internal/usecase/matching"
	"github.com/muhammadchandra19/marketsim/internal/usecase/pricing"
	"github.com/muhammadchandra19/marketsim/internal/usecase/registry"
	"github.com/muhammadchandra19/marketsim/pkg/config"
	"github.com/muhammadchandra19/marketsim/pkg/logger"
)

// Benchmark test cases structure
type benchmarkTestCase struct {
	name          string
	ordersPerTick int
	symbols       int
}

func setupBenchmarkEngine(b *testing.B, symbols, ordersPerTick int) *Engine {
	ctrl := gomock.NewController(b)

	log, err := logger.NewLogger()
	if err != nil {
		b.Fatal(err)
	}

	instruments := make([]marketv1.Instrument, symbols)
	for i := range instruments {
		instruments[i] = marketv1.Instrument{
			Symbol:         fmt.Sprintf("SYM%03d", i),
			Sector:         fmt.Sprintf("sector-%d", i%4),
			Price:          100.00,
			Volatility:     0.30,
			SectorBeta:     1.0,
			AvgDailyVolume: 500_000,
		}
	}

	books := ledgeruc.NewInMemory()
	books.CreateAgent("bench-agent", 1e12)

	reg := registry.NewRegistry(instruments)
	matcher := matching.NewEngine(books, config.DefaultMatchingConfig(), log, 42)
	pricer := pricing.NewEngine(config.DefaultPricingConfig(), 42)

	var sequence int64
	orders := feedv1_mock.NewMockOrderSource(ctrl)
	orders.EXPECT().PendingOrders(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, symbol string, tick int64) []*orderbookv1.Order {
			pending := make([]*orderbookv1.Order, ordersPerTick)
			for i := range pending {
				sequence++
				side := marketv1.SideBuy
				if i%2 == 1 {
					side = marketv1.SideSell
				}
				order := orderbookv1.NewOrder(
					fmt.Sprintf("%s-%d-%d", symbol, tick, i),
					"bench-agent",
					symbol,
					side,
					orderbookv1.OrderTypeLimit,
					100,
					tick,
				)
				order.LimitPrice = 100.00
				order.Sequence = sequence
				pending[i] = order
			}
			return pending
		}).AnyTimes()

	events := feedv1_mock.NewMockEventSource(ctrl)
	events.EXPECT().ActiveEvents(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	sink := sinkv1_mock.NewMockTickSink(ctrl)
	sink.EXPECT().OnTrade(gomock.Any(), gomock.Any()).AnyTimes()
	sink.EXPECT().OnOrderStatusChange(gomock.Any(), gomock.Any()).AnyTimes()
	sink.EXPECT().OnPriceUpdate(gomock.Any(), gomock.Any()).AnyTimes()
	sink.EXPECT().OnTickComplete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	opts := &Options{
		TickInterval:     time.Second,
		SnapshotInterval: 0,
		SentimentDecay:   0.95,
	}

	return NewEngine(reg, matcher, pricer, orders, events, sink, nil, log, opts)
}

func BenchmarkEngine_RunTick(b *testing.B) {
	testCases := []benchmarkTestCase{
		{name: "1_symbol_10_orders", symbols: 1, ordersPerTick: 10},
		{name: "10_symbols_10_orders", symbols: 10, ordersPerTick: 10},
		{name: "50_symbols_50_orders", symbols: 50, ordersPerTick: 50},
	}

	for _, tc := range testCases {
		b.Run(tc.name, func(b *testing.B) {
			engine := setupBenchmarkEngine(b, tc.symbols, tc.ordersPerTick)
			ctx := context.Background()

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := engine.RunTick(ctx); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkMatchSymbol(b *testing.B) {
	log, err := logger.NewLogger()
	if err != nil {
		b.Fatal(err)
	}

	books := ledgeruc.NewInMemory()
	books.CreateAgent("bench-agent", 1e12)
	matcher := matching.NewEngine(books, config.DefaultMatchingConfig(), log, 42)

	engine := setupBenchmarkEngine(b, 1, 0)
	book := engine.Book("SYM000")
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		order := orderbookv1.NewOrder(
			fmt.Sprintf("bench-%d", i),
			"bench-agent",
			"SYM000",
			marketv1.SideBuy,
			orderbookv1.OrderTypeMarket,
			100,
			int64(i),
		)
		order.Sequence = int64(i)
		if _, err := matcher.MatchSymbol(ctx, book, []*orderbookv1.Order{order}, 100.00, int64(i)); err != nil {
			b.Fatal(err)
		}
	}
}
