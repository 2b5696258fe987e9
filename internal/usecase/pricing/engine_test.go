package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	marketv1 "github.com/muhammadchandra19/marketsim/internal/domain/market/v1"
	"github.com/muhammadchandra19/marketsim/pkg/config"
)

func testInstrument() marketv1.Instrument {
	return marketv1.Instrument{
		Symbol:         "APEX",
		Sector:         "technology",
		Price:          100.00,
		Volatility:     0.30,
		SectorBeta:     1.2,
		AvgDailyVolume: 500_000,
	}
}

func buyTrade(quantity int64, price float64) marketv1.Trade {
	return marketv1.Trade{
		Symbol:    "APEX",
		Quantity:  quantity,
		Price:     price,
		TakerSide: marketv1.SideBuy,
	}
}

func sellTrade(quantity int64, price float64) marketv1.Trade {
	return marketv1.Trade{
		Symbol:    "APEX",
		Quantity:  quantity,
		Price:     price,
		TakerSide: marketv1.SideSell,
	}
}

func TestEngine_DrawShock_Deterministic(t *testing.T) {
	a := NewEngine(config.DefaultPricingConfig(), 7)
	b := NewEngine(config.DefaultPricingConfig(), 7)
	c := NewEngine(config.DefaultPricingConfig(), 8)

	var differs bool
	for i := 0; i < 100; i++ {
		shockA := a.DrawShock()
		assert.Equal(t, shockA, b.DrawShock())
		if shockA != c.DrawShock() {
			differs = true
		}
	}
	assert.True(t, differs, "different seeds should produce different shock streams")
}

func TestPressure(t *testing.T) {
	instrument := testInstrument()

	t.Run("Buyer-initiated flow is positive", func(t *testing.T) {
		pressure := Pressure(instrument, []marketv1.Trade{buyTrade(10_000, 100)})
		assert.Greater(t, pressure, 0.0)
		assert.LessOrEqual(t, pressure, 1.0)
	})

	t.Run("Seller-initiated flow is negative", func(t *testing.T) {
		pressure := Pressure(instrument, []marketv1.Trade{sellTrade(10_000, 100)})
		assert.Less(t, pressure, 0.0)
		assert.GreaterOrEqual(t, pressure, -1.0)
	})

	t.Run("Balanced flow cancels", func(t *testing.T) {
		pressure := Pressure(instrument, []marketv1.Trade{
			buyTrade(10_000, 100),
			sellTrade(10_000, 100),
		})
		assert.InDelta(t, 0.0, pressure, 1e-12)
	})

	t.Run("No trades means zero pressure", func(t *testing.T) {
		assert.Zero(t, Pressure(instrument, nil))
	})

	t.Run("Saturates on overwhelming flow", func(t *testing.T) {
		pressure := Pressure(instrument, []marketv1.Trade{buyTrade(10_000_000_000, 100)})
		assert.InDelta(t, 1.0, pressure, 1e-6)
	})
}

func TestSectorAverages(t *testing.T) {
	instruments := []marketv1.Instrument{
		{Symbol: "APEX", Sector: "technology"},
		{Symbol: "BOLT", Sector: "technology"},
		{Symbol: "CRST", Sector: "energy"},
		{Symbol: "DUNE", Sector: "energy"},
	}
	pressures := map[string]float64{
		"APEX": 0.4,
		"BOLT": 0.2,
		"CRST": -0.1,
		// DUNE failed matching this tick and has no pressure
	}

	averages := SectorAverages(pressures, instruments)

	assert.InDelta(t, 0.3, averages["technology"], 1e-12)
	assert.InDelta(t, -0.1, averages["energy"], 1e-12)
}

func TestEngine_FormPrice(t *testing.T) {
	t.Run("Quiet tick with zero shock leaves the price unchanged", func(t *testing.T) {
		engine := NewEngine(config.DefaultPricingConfig(), 1)

		update, err := engine.FormPrice(Input{Instrument: testInstrument(), Tick: 5})
		require.NoError(t, err)

		assert.Equal(t, 100.00, update.OldPrice)
		assert.Equal(t, 100.00, update.NewPrice)
		assert.Zero(t, update.Volume)
	})

	t.Run("Zero-trade tick still moves on the stochastic term", func(t *testing.T) {
		engine := NewEngine(config.DefaultPricingConfig(), 1)

		update, err := engine.FormPrice(Input{Instrument: testInstrument(), Tick: 5, Shock: 1.5})
		require.NoError(t, err)

		assert.NotEqual(t, update.OldPrice, update.NewPrice)
		assert.NotZero(t, update.Drivers.RandomWalk)
		assert.Zero(t, update.Drivers.AgentPressure)
	})

	t.Run("Total return is clamped to the per-tick bound", func(t *testing.T) {
		engine := NewEngine(config.DefaultPricingConfig(), 1)
		events := []marketv1.MarketEvent{{
			ID:        "crash",
			Symbol:    "APEX",
			Impact:    -5.0,
			StartTick: 5,
			Duration:  10,
		}}

		update, err := engine.FormPrice(Input{Instrument: testInstrument(), Events: events, Tick: 5})
		require.NoError(t, err)

		// -500% of impact collapses to the -10% tick bound
		assert.InDelta(t, 90.00, update.NewPrice, 1e-9)
	})

	t.Run("Sector correlation scales with beta", func(t *testing.T) {
		engine := NewEngine(config.DefaultPricingConfig(), 1)

		update, err := engine.FormPrice(Input{Instrument: testInstrument(), SectorFlow: 0.5, Tick: 5})
		require.NoError(t, err)

		// 0.1 weight * 0.5 flow * 1.2 beta
		assert.InDelta(t, 0.06, update.Drivers.SectorCorrelation, 1e-12)
		assert.InDelta(t, 106.00, update.NewPrice, 1e-9)
	})

	t.Run("Event impact decays linearly", func(t *testing.T) {
		engine := NewEngine(config.DefaultPricingConfig(), 1)
		event := marketv1.MarketEvent{
			ID:        "news",
			Sector:    "technology",
			Impact:    0.04,
			StartTick: 10,
			Duration:  4,
		}

		impacts := make([]float64, 0, 4)
		for tick := int64(10); tick < 14; tick++ {
			update, err := engine.FormPrice(Input{
				Instrument: testInstrument(),
				Events:     []marketv1.MarketEvent{event},
				Tick:       tick,
			})
			require.NoError(t, err)
			impacts = append(impacts, update.Drivers.EventImpact)
		}

		assert.InDelta(t, 0.04, impacts[0], 1e-12)
		assert.InDelta(t, 0.03, impacts[1], 1e-12)
		assert.InDelta(t, 0.02, impacts[2], 1e-12)
		assert.InDelta(t, 0.01, impacts[3], 1e-12)
	})

	t.Run("Events for other targets do not apply", func(t *testing.T) {
		engine := NewEngine(config.DefaultPricingConfig(), 1)
		events := []marketv1.MarketEvent{
			{ID: "e1", Symbol: "BOLT", Impact: 0.5, StartTick: 0, Duration: 100},
			{ID: "e2", Sector: "energy", Impact: 0.5, StartTick: 0, Duration: 100},
		}

		update, err := engine.FormPrice(Input{Instrument: testInstrument(), Events: events, Tick: 5})
		require.NoError(t, err)
		assert.Zero(t, update.Drivers.EventImpact)
	})

	t.Run("Sentiment contributes and volume aggregates from trades", func(t *testing.T) {
		engine := NewEngine(config.DefaultPricingConfig(), 1)
		instrument := testInstrument()
		instrument.Sentiment = 0.5

		trades := []marketv1.Trade{
			buyTrade(1000, 100.20),
			sellTrade(500, 99.90),
		}

		update, err := engine.FormPrice(Input{Instrument: instrument, Trades: trades, Tick: 5})
		require.NoError(t, err)

		assert.InDelta(t, 0.025, update.Drivers.SentimentImpact, 1e-12)
		assert.Equal(t, int64(1500), update.Volume)
		assert.Equal(t, 100.20, update.High)
		assert.Equal(t, 99.90, update.Low)
	})

	t.Run("Price never drops under the floor", func(t *testing.T) {
		engine := NewEngine(config.DefaultPricingConfig(), 1)
		instrument := testInstrument()
		instrument.Price = marketv1.MinPrice

		events := []marketv1.MarketEvent{{ID: "crash", Symbol: "APEX", Impact: -1, StartTick: 5, Duration: 10}}
		update, err := engine.FormPrice(Input{Instrument: instrument, Events: events, Tick: 5})
		require.NoError(t, err)

		assert.Equal(t, marketv1.MinPrice, update.NewPrice)
	})

	t.Run("Out-of-bounds instrument price is an invariant violation", func(t *testing.T) {
		engine := NewEngine(config.DefaultPricingConfig(), 1)
		instrument := testInstrument()
		instrument.Price = 0

		_, err := engine.FormPrice(Input{Instrument: instrument, Tick: 5})
		assert.Error(t, err)
	})
}
