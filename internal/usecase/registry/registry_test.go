package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	marketv1 "github.com/muhammadchandra19/marketsim/internal/domain/market/v1"
)

func testUniverse() []marketv1.Instrument {
	return []marketv1.Instrument{
		{Symbol: "CRST", Sector: "energy", Price: 18.75},
		{Symbol: "APEX", Sector: "technology", Price: 100.00},
		{Symbol: "BOLT", Sector: "technology", Price: 42.50},
	}
}

func TestRegistry_Symbols(t *testing.T) {
	reg := NewRegistry(testUniverse())
	assert.Equal(t, []string{"APEX", "BOLT", "CRST"}, reg.Symbols())
}

func TestRegistry_Get(t *testing.T) {
	reg := NewRegistry(testUniverse())

	instrument, ok := reg.Get("APEX")
	require.True(t, ok)
	assert.Equal(t, 100.00, instrument.Price)

	// the returned copy does not alias registry state
	instrument.Price = 1.0
	again, _ := reg.Get("APEX")
	assert.Equal(t, 100.00, again.Price)

	_, ok = reg.Get("GHOST")
	assert.False(t, ok)
}

func TestRegistry_ApplyUpdate(t *testing.T) {
	reg := NewRegistry(testUniverse())

	t.Run("Moves price and session extremes", func(t *testing.T) {
		err := reg.ApplyUpdate(marketv1.PriceUpdate{
			Symbol:   "APEX",
			NewPrice: 104.50,
			High:     105.00,
			Low:      99.50,
		})
		require.NoError(t, err)

		instrument, _ := reg.Get("APEX")
		assert.Equal(t, 104.50, instrument.Price)
		assert.Equal(t, 105.00, instrument.High)
		assert.Equal(t, 99.50, instrument.Low)
	})

	t.Run("Extremes only widen", func(t *testing.T) {
		require.NoError(t, reg.ApplyUpdate(marketv1.PriceUpdate{
			Symbol:   "APEX",
			NewPrice: 103.00,
			High:     104.00,
			Low:      100.00,
		}))

		instrument, _ := reg.Get("APEX")
		assert.Equal(t, 105.00, instrument.High)
		assert.Equal(t, 99.50, instrument.Low)
	})

	t.Run("Clamps the price into bounds", func(t *testing.T) {
		require.NoError(t, reg.ApplyUpdate(marketv1.PriceUpdate{Symbol: "BOLT", NewPrice: 0}))
		instrument, _ := reg.Get("BOLT")
		assert.Equal(t, marketv1.MinPrice, instrument.Price)
	})

	t.Run("Unknown symbol", func(t *testing.T) {
		assert.Error(t, reg.ApplyUpdate(marketv1.PriceUpdate{Symbol: "GHOST", NewPrice: 10}))
	})
}

func TestRegistry_Sentiment(t *testing.T) {
	reg := NewRegistry(testUniverse())

	require.NoError(t, reg.SetSentiment("APEX", 2.5))
	instrument, _ := reg.Get("APEX")
	assert.Equal(t, 1.0, instrument.Sentiment)

	require.NoError(t, reg.SetSentiment("APEX", -3))
	instrument, _ = reg.Get("APEX")
	assert.Equal(t, -1.0, instrument.Sentiment)

	assert.Error(t, reg.SetSentiment("GHOST", 0.5))

	t.Run("Decay shrinks toward zero and snaps tiny values", func(t *testing.T) {
		require.NoError(t, reg.SetSentiment("APEX", 0.8))
		reg.DecaySentiment(0.5)

		instrument, _ := reg.Get("APEX")
		assert.InDelta(t, 0.4, instrument.Sentiment, 1e-12)

		for i := 0; i < 40; i++ {
			reg.DecaySentiment(0.5)
		}
		instrument, _ = reg.Get("APEX")
		assert.Zero(t, instrument.Sentiment)
	})
}

func TestRegistry_ResetSessionExtremes(t *testing.T) {
	reg := NewRegistry(testUniverse())
	require.NoError(t, reg.ApplyUpdate(marketv1.PriceUpdate{
		Symbol:   "APEX",
		NewPrice: 104.50,
		High:     105.00,
		Low:      99.50,
	}))

	reg.ResetSessionExtremes()

	instrument, _ := reg.Get("APEX")
	assert.Zero(t, instrument.High)
	assert.Zero(t, instrument.Low)
}

func TestRegistry_Restore(t *testing.T) {
	reg := NewRegistry(testUniverse())

	reg.Restore([]marketv1.Instrument{
		{Symbol: "APEX", Sector: "technology", Price: 117.25, Sentiment: 0.3},
		{Symbol: "GHOST", Sector: "nowhere", Price: 5.00},
	})

	instrument, ok := reg.Get("APEX")
	require.True(t, ok)
	assert.Equal(t, 117.25, instrument.Price)
	assert.Equal(t, 0.3, instrument.Sentiment)

	// symbols outside the configured universe are not adopted
	_, ok = reg.Get("GHOST")
	assert.False(t, ok)
	assert.Equal(t, []string{"APEX", "BOLT", "CRST"}, reg.Symbols())
}
