package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/muhammadchandra19/marketsim/pkg/redis"
)

// Config holds the full configuration of the simulation process.
type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"marketsim"`

	// TickInterval is the wall-clock duration between two simulation ticks.
	TickInterval time.Duration `env:"TICK_INTERVAL" envDefault:"1s"`

	// Seed feeds the price-formation random source and the id entropy so a
	// run is reproducible.
	Seed uint64 `env:"SEED" envDefault:"42"`

	// UniverseFile points to the YAML file describing the instrument universe.
	UniverseFile string `env:"UNIVERSE_FILE" envDefault:"universe.yaml"`

	// SnapshotInterval is the number of ticks between two book snapshots.
	// Zero disables snapshotting.
	SnapshotInterval int64 `env:"SNAPSHOT_INTERVAL" envDefault:"30"`

	Matching MatchingConfig `envPrefix:"MATCHING_"`
	Pricing  PricingConfig  `envPrefix:"PRICING_"`
	Kafka    KafkaConfig    `envPrefix:"KAFKA_"`
	Redis    redis.Config   `envPrefix:"REDIS_"`
}

// MatchingConfig holds the matching-engine parameters.
type MatchingConfig struct {
	// SlippageBuffer is the safety margin applied to a buy order's notional
	// check, covering price movement between check and fill.
	SlippageBuffer float64 `env:"SLIPPAGE_BUFFER" envDefault:"0.01"`

	// LiquidityFloor is the minimum resting share volume per book side before
	// the market maker reseeds its ladder.
	LiquidityFloor int64 `env:"LIQUIDITY_FLOOR" envDefault:"5000"`

	// DepthLevels is the number of price levels the market maker seeds per side.
	DepthLevels int `env:"DEPTH_LEVELS" envDefault:"5"`

	// SpreadPct is the geometric spread increment between maker levels.
	SpreadPct float64 `env:"SPREAD_PCT" envDefault:"0.002"`

	// BaseQuantity is the share size unit of the maker ladder; level sizes
	// decrease away from the touch as BaseQuantity * (DepthLevels - level + 1).
	BaseQuantity int64 `env:"BASE_QUANTITY" envDefault:"1000"`
}

// PricingConfig holds the price-formation parameters.
type PricingConfig struct {
	MaxMovePerTick  float64 `env:"MAX_MOVE_PER_TICK" envDefault:"0.10"`
	PressureWeight  float64 `env:"PRESSURE_WEIGHT" envDefault:"0.6"`
	RandomWeight    float64 `env:"RANDOM_WEIGHT" envDefault:"0.3"`
	SectorWeight    float64 `env:"SECTOR_WEIGHT" envDefault:"0.1"`
	SentimentWeight float64 `env:"SENTIMENT_WEIGHT" envDefault:"0.05"`

	// SentimentDecay is the multiplicative per-tick decay applied to an
	// instrument's accumulated sentiment after pricing.
	SentimentDecay float64 `env:"SENTIMENT_DECAY" envDefault:"0.95"`
}

// KafkaConfig holds the Kafka wiring for the order feed and the tick publisher.
type KafkaConfig struct {
	Brokers     []string `env:"BROKERS" envDefault:"localhost:9092"`
	OrdersTopic string   `env:"ORDERS_TOPIC" envDefault:"marketsim.orders"`
	TicksTopic  string   `env:"TICKS_TOPIC" envDefault:"marketsim.ticks"`
}

// Load reads the configuration from the environment, loading a local .env
// file first when one is present.
func Load() (*Config, error) {
	// best effort, missing .env is fine
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// DefaultMatchingConfig returns the matching parameters used when no
// environment is loaded, mirroring the envDefault values.
func DefaultMatchingConfig() MatchingConfig {
	return MatchingConfig{
		SlippageBuffer: 0.01,
		LiquidityFloor: 5000,
		DepthLevels:    5,
		SpreadPct:      0.002,
		BaseQuantity:   1000,
	}
}

// DefaultPricingConfig returns the pricing parameters used when no
// environment is loaded, mirroring the envDefault values.
func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		MaxMovePerTick:  0.10,
		PressureWeight:  0.6,
		RandomWeight:    0.3,
		SectorWeight:    0.1,
		SentimentWeight: 0.05,
		SentimentDecay:  0.95,
	}
}
