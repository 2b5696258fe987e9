package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	marketv1 "github.com/muhammadchandra19/marketsim/internal/domain/market/v1"
)

func TestStore_ActiveEvents(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	store.Inject(marketv1.MarketEvent{ID: "now", Symbol: "APEX", Impact: 0.05, StartTick: 10, Duration: 5})
	store.Inject(marketv1.MarketEvent{ID: "later", Sector: "energy", Impact: -0.02, StartTick: 20, Duration: 10})

	t.Run("Nothing active before the start tick", func(t *testing.T) {
		assert.Empty(t, store.ActiveEvents(ctx, 9))
	})

	t.Run("Active inside the window", func(t *testing.T) {
		active := store.ActiveEvents(ctx, 12)
		require.Len(t, active, 1)
		assert.Equal(t, "now", active[0].ID)
	})

	t.Run("Both active when windows overlap the tick", func(t *testing.T) {
		active := store.ActiveEvents(ctx, 14)
		require.Len(t, active, 1)
		assert.Equal(t, "now", active[0].ID)

		active = store.ActiveEvents(ctx, 25)
		require.Len(t, active, 1)
		assert.Equal(t, "later", active[0].ID)
	})

	t.Run("Expired events are pruned", func(t *testing.T) {
		assert.Empty(t, store.ActiveEvents(ctx, 100))
		// the pruned events never come back
		assert.Empty(t, store.ActiveEvents(ctx, 12))
	})
}

func TestMarketEvent_ImpactAt(t *testing.T) {
	event := marketv1.MarketEvent{ID: "e", Symbol: "APEX", Impact: 0.08, StartTick: 10, Duration: 4}

	assert.Zero(t, event.ImpactAt(9))
	assert.InDelta(t, 0.08, event.ImpactAt(10), 1e-12)
	assert.InDelta(t, 0.04, event.ImpactAt(12), 1e-12)
	assert.InDelta(t, 0.02, event.ImpactAt(13), 1e-12)
	assert.Zero(t, event.ImpactAt(14))
}
