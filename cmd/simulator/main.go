package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/muhammadchandra19/marketsim/internal/app/engine"
	snapshotv1 "github.com/muhammadchandra19/marketsim/internal/domain/snapshot/v1"
	"github.com/muhammadchandra19/marketsim/internal/usecase/events"
	"github.com/muhammadchandra19/marketsim/internal/usecase/ledger"
	"github.com/muhammadchandra19/marketsim/internal/usecase/matching"
	orderfeed "github.com/muhammadchandra19/marketsim/internal/usecase/order-feed"
	"github.com/muhammadchandra19/marketsim/internal/usecase/pricing"
	"github.com/muhammadchandra19/marketsim/internal/usecase/registry"
	"github.com/muhammadchandra19/marketsim/internal/usecase/snapshot"
	tickpublisher "github.com/muhammadchandra19/marketsim/internal/usecase/tick-publisher"
	"github.com/muhammadchandra19/marketsim/pkg/config"
	"github.com/muhammadchandra19/marketsim/pkg/logger"
	"github.com/muhammadchandra19/marketsim/pkg/redis"
)

var cfg *config.Config
var log *logger.Logger

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		panic(err)
	}

	log, err = logger.NewLogger()
	if err != nil {
		panic(err)
	}
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	universe, err := config.LoadUniverse(cfg.UniverseFile)
	if err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "load_universe",
		})
		return
	}

	books := ledger.NewInMemory()
	for _, agent := range universe.Agents {
		books.CreateAgent(agent.ID, agent.Cash)
		for symbol, quantity := range agent.Holdings {
			if err := books.SetHolding(agent.ID, symbol, quantity, 0); err != nil {
				log.Error(err, logger.Field{
					Key:   "agentID",
					Value: agent.ID,
				})
				return
			}
		}
	}

	rclient := redis.NewClient(log, &cfg.Redis)
	var snapshotStore *snapshot.Store
	if err := rclient.Connect(ctx); err != nil {
		// snapshots are an operational convenience, not a correctness
		// requirement; run without them when Redis is unavailable
		log.Warn("redis unavailable, snapshots disabled", logger.Field{
			Key:   "error",
			Value: err.Error(),
		})
	} else {
		snapshotStore = snapshot.NewSnapshotStore(rclient, log)
	}

	reg := registry.NewRegistry(universe.Instruments)
	matcher := matching.NewEngine(books, cfg.Matching, log, cfg.Seed)
	pricer := pricing.NewEngine(cfg.Pricing, cfg.Seed)
	feed := orderfeed.NewFeed(cfg.Kafka, log)
	eventStore := events.NewStore()
	publisher := tickpublisher.NewPublisher(cfg.Kafka, log)

	// a nil *snapshot.Store must not reach the engine as a non-nil interface
	var store snapshotv1.Store
	if snapshotStore != nil {
		store = snapshotStore
	}

	sim := engine.NewEngine(
		reg,
		matcher,
		pricer,
		feed,
		eventStore,
		publisher,
		store,
		log,
		&engine.Options{
			TickInterval:     cfg.TickInterval,
			SnapshotInterval: cfg.SnapshotInterval,
			SentimentDecay:   cfg.Pricing.SentimentDecay,
		},
	)

	if err := sim.Restore(ctx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "restore_snapshot",
		})
		return
	}

	go feed.Start(ctx)
	go func() {
		if err := sim.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error(err, logger.Field{
				Key:   "action",
				Value: "run_engine",
			})
		}
	}()

	log.Info("simulator started", logger.Field{
		Key:   "instruments",
		Value: len(universe.Instruments),
	})

	sig := <-sigChan
	log.Info("received shutdown signal", logger.Field{
		Key:   "signal",
		Value: sig.String(),
	})

	cancel()

	if err := feed.Close(); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "close_order_feed",
		})
	}
	if err := publisher.Close(); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "close_tick_publisher",
		})
	}
	if snapshotStore != nil {
		if err := rclient.Disconnect(context.Background()); err != nil {
			log.Error(err, logger.Field{
				Key:   "action",
				Value: "disconnect_redis",
			})
		}
	}

	log.Info("simulator shutdown complete")
}
