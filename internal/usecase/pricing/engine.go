package pricing

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync"

	marketv1 "github.com/muhammadchandra19/marketsim/internal/domain/market/v1"
	"github.com/muhammadchandra19/marketsim/pkg/config"
	"github.com/muhammadchandra19/marketsim/pkg/errors"
)

// Input carries everything price formation needs for one symbol on one tick.
// The instrument is a value copy: the engine never mutates shared state.
type Input struct {
	Instrument marketv1.Instrument
	Trades     []marketv1.Trade

	// SectorFlow is the sector-average agent pressure this tick, computed
	// across all symbols before any price moves (the phase-B barrier).
	SectorFlow float64

	Events []marketv1.MarketEvent
	Tick   int64

	// Shock is the pre-drawn N(0,1) variate for the GBM component. Drawing
	// happens sequentially in a fixed symbol order so runs are reproducible.
	Shock float64
}

// Engine turns a tick's trade flow and stochastic inputs into price updates.
// The random source is injected and seeded, never the global generator.
type Engine struct {
	cfg config.PricingConfig

	mu  sync.Mutex
	rng *rand.Rand
}

// NewEngine creates a pricing engine with a seeded random source.
func NewEngine(cfg config.PricingConfig, seed uint64) *Engine {
	return &Engine{
		cfg: cfg,
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// DrawShock returns one standard normal variate from the engine's source.
func (e *Engine) DrawShock() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.NormFloat64()
}

// Pressure is the normalized signed trade flow of one symbol for a tick:
// buyer-initiated notional counts positive, seller-initiated negative, scaled
// by the instrument's average daily notional and squashed through tanh so
// illiquid names saturate instead of exploding.
func Pressure(instrument marketv1.Instrument, trades []marketv1.Trade) float64 {
	var flow float64
	for _, trade := range trades {
		if trade.TakerSide == marketv1.SideBuy {
			flow += trade.Notional()
		} else {
			flow -= trade.Notional()
		}
	}

	normalizer := float64(instrument.AvgDailyVolume) * instrument.Price
	if normalizer <= 0 {
		normalizer = 1
	}

	return math.Tanh(flow / normalizer)
}

// SectorAverages computes the mean agent pressure per sector from every
// symbol's phase-A flow.
func SectorAverages(pressures map[string]float64, instruments []marketv1.Instrument) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)

	for _, instrument := range instruments {
		pressure, ok := pressures[instrument.Symbol]
		if !ok {
			continue
		}
		sums[instrument.Sector] += pressure
		counts[instrument.Sector]++
	}

	averages := make(map[string]float64, len(sums))
	for sector, sum := range sums {
		averages[sector] = sum / float64(counts[sector])
	}
	return averages
}

// FormPrice produces the symbol's price update for the tick. The new price is
// oldPrice * (1 + clamp(totalReturn, ±MaxMovePerTick)), where totalReturn
// blends agent pressure, a GBM increment and sector correlation by weight,
// plus additive event and sentiment terms. A symbol with zero trades still
// moves on the stochastic and decaying terms.
func (e *Engine) FormPrice(in Input) (marketv1.PriceUpdate, error) {
	instrument := in.Instrument
	if instrument.Price < marketv1.MinPrice || instrument.Price > marketv1.MaxPrice {
		return marketv1.PriceUpdate{}, errors.NewErrorDetailsWithObject(
			fmt.Sprintf("instrument %s price %f outside bounds", instrument.Symbol, instrument.Price),
			string(errors.ErrInvariantViolation),
			"price",
			instrument,
		)
	}

	dt := 1.0 / float64(marketv1.TicksPerSession)

	drivers := marketv1.Drivers{
		AgentPressure:     e.cfg.PressureWeight * Pressure(instrument, in.Trades),
		RandomWalk:        e.cfg.RandomWeight * instrument.Volatility * math.Sqrt(dt) * in.Shock,
		SectorCorrelation: e.cfg.SectorWeight * in.SectorFlow * instrument.SectorBeta,
		EventImpact:       e.eventImpact(instrument, in.Events, in.Tick),
		SentimentImpact:   e.cfg.SentimentWeight * instrument.Sentiment,
	}

	totalReturn := drivers.AgentPressure +
		drivers.RandomWalk +
		drivers.SectorCorrelation +
		drivers.EventImpact +
		drivers.SentimentImpact

	totalReturn = clamp(totalReturn, -e.cfg.MaxMovePerTick, e.cfg.MaxMovePerTick)

	oldPrice := instrument.Price
	newPrice := marketv1.ClampPrice(oldPrice * (1 + totalReturn))

	update := marketv1.PriceUpdate{
		Symbol:        instrument.Symbol,
		Tick:          in.Tick,
		OldPrice:      oldPrice,
		NewPrice:      newPrice,
		Change:        newPrice - oldPrice,
		ChangePercent: (newPrice - oldPrice) / oldPrice * 100,
		High:          instrument.High,
		Low:           instrument.Low,
		Drivers:       drivers,
	}

	for _, trade := range in.Trades {
		update.Volume += trade.Quantity
		if update.High == 0 || trade.Price > update.High {
			update.High = trade.Price
		}
		if update.Low == 0 || trade.Price < update.Low {
			update.Low = trade.Price
		}
	}

	return update, nil
}

// eventImpact sums the decayed contributions of every active event targeting
// the instrument or its sector.
func (e *Engine) eventImpact(instrument marketv1.Instrument, events []marketv1.MarketEvent, tick int64) float64 {
	var impact float64
	for _, event := range events {
		if !event.Targets(instrument.Symbol, instrument.Sector) {
			continue
		}
		impact += event.ImpactAt(tick)
	}
	return impact
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
