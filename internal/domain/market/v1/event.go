package marketv1

// MarketEvent is an injected shock targeting a symbol or a whole sector.
// Its price impact decays linearly to zero over the event's duration.
type MarketEvent struct {
	ID       string `json:"id"`
	Headline string `json:"headline,omitempty"`

	// Symbol targets a single instrument; empty means the event applies to
	// every instrument in Sector.
	Symbol string `json:"symbol,omitempty"`
	Sector string `json:"sector,omitempty"`

	// Impact is the initial additive return contribution at StartTick.
	Impact float64 `json:"impact"`

	StartTick int64 `json:"startTick"`
	Duration  int64 `json:"duration"`
}

// ActiveAt reports whether the event is in effect at the given tick.
func (e MarketEvent) ActiveAt(tick int64) bool {
	return tick >= e.StartTick && tick < e.StartTick+e.Duration
}

// ImpactAt returns the event's contribution at the given tick, decayed
// linearly over the remaining duration.
func (e MarketEvent) ImpactAt(tick int64) float64 {
	if !e.ActiveAt(tick) || e.Duration <= 0 {
		return 0
	}
	remaining := e.StartTick + e.Duration - tick
	return e.Impact * float64(remaining) / float64(e.Duration)
}

// Targets reports whether the event applies to the given instrument.
func (e MarketEvent) Targets(symbol, sector string) bool {
	if e.Symbol != "" {
		return e.Symbol == symbol
	}
	return e.Sector != "" && e.Sector == sector
}
