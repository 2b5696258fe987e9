package registry

import (
	"fmt"
	"sort"
	"sync"

	marketv1 "github.com/muhammadchandra19/marketsim/internal/domain/market/v1"
	"github.com/muhammadchandra19/marketsim/pkg/errors"
)

// Registry holds the per-symbol market state. It is the only owner of
// instrument mutation: price moves land here once per tick, after that tick's
// trades are known.
type Registry struct {
	mu          sync.RWMutex
	instruments map[string]*marketv1.Instrument
	symbols     []string
}

// NewRegistry creates a registry from the instrument universe.
func NewRegistry(instruments []marketv1.Instrument) *Registry {
	r := &Registry{
		instruments: make(map[string]*marketv1.Instrument, len(instruments)),
	}

	for i := range instruments {
		instrument := instruments[i]
		instrument.Price = marketv1.ClampPrice(instrument.Price)
		r.instruments[instrument.Symbol] = &instrument
		r.symbols = append(r.symbols, instrument.Symbol)
	}
	sort.Strings(r.symbols)

	return r
}

// Symbols returns every symbol in deterministic (sorted) order.
func (r *Registry) Symbols() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	symbols := make([]string, len(r.symbols))
	copy(symbols, r.symbols)
	return symbols
}

// Get returns a copy of the instrument for a symbol.
func (r *Registry) Get(symbol string) (marketv1.Instrument, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	instrument, ok := r.instruments[symbol]
	if !ok {
		return marketv1.Instrument{}, false
	}
	return *instrument, true
}

// Instruments returns copies of every instrument in sorted symbol order.
func (r *Registry) Instruments() []marketv1.Instrument {
	r.mu.RLock()
	defer r.mu.RUnlock()

	instruments := make([]marketv1.Instrument, 0, len(r.symbols))
	for _, symbol := range r.symbols {
		instruments = append(instruments, *r.instruments[symbol])
	}
	return instruments
}

// ApplyUpdate moves an instrument to its new price and session extremes.
// The price is clamped into [MinPrice, MaxPrice] as a last line of defense.
func (r *Registry) ApplyUpdate(update marketv1.PriceUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	instrument, ok := r.instruments[update.Symbol]
	if !ok {
		return errors.NewErrorDetails(
			fmt.Sprintf("symbol %s not in universe", update.Symbol),
			string(errors.ErrUnknownSymbol),
			"symbol",
		)
	}

	instrument.Price = marketv1.ClampPrice(update.NewPrice)
	if update.High > 0 && (instrument.High == 0 || update.High > instrument.High) {
		instrument.High = update.High
	}
	if update.Low > 0 && (instrument.Low == 0 || update.Low < instrument.Low) {
		instrument.Low = update.Low
	}

	return nil
}

// SetSentiment overwrites an instrument's accumulated sentiment, clamped to
// [-1, 1]. Called by the news/rumor collaborator.
func (r *Registry) SetSentiment(symbol string, sentiment float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	instrument, ok := r.instruments[symbol]
	if !ok {
		return errors.NewErrorDetails(
			fmt.Sprintf("symbol %s not in universe", symbol),
			string(errors.ErrUnknownSymbol),
			"symbol",
		)
	}

	if sentiment > 1 {
		sentiment = 1
	}
	if sentiment < -1 {
		sentiment = -1
	}
	instrument.Sentiment = sentiment

	return nil
}

// DecaySentiment shrinks every instrument's sentiment toward zero by the
// given multiplicative factor, once per tick after pricing.
func (r *Registry) DecaySentiment(factor float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, instrument := range r.instruments {
		instrument.Sentiment *= factor
		if instrument.Sentiment < 1e-6 && instrument.Sentiment > -1e-6 {
			instrument.Sentiment = 0
		}
	}
}

// ResetSessionExtremes clears the per-session high/low marks, called on the
// open transition.
func (r *Registry) ResetSessionExtremes() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, instrument := range r.instruments {
		instrument.High = 0
		instrument.Low = 0
	}
}

// Restore replaces instrument state from a snapshot, keeping only symbols
// that are part of the configured universe.
func (r *Registry) Restore(instruments []marketv1.Instrument) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range instruments {
		restored := instruments[i]
		if _, ok := r.instruments[restored.Symbol]; !ok {
			continue
		}
		restored.Price = marketv1.ClampPrice(restored.Price)
		r.instruments[restored.Symbol] = &restored
	}
}
