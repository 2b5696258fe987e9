package marketv1

// Drivers breaks a tick's price move into its contributing components, each
// reported independently for observability.
type Drivers struct {
	AgentPressure     float64 `json:"agentPressure"`
	RandomWalk        float64 `json:"randomWalk"`
	SectorCorrelation float64 `json:"sectorCorrelation"`
	EventImpact       float64 `json:"eventImpact"`
	SentimentImpact   float64 `json:"sentimentImpact"`
}

// PriceUpdate is the per-symbol, per-tick output of price formation.
// It is write-once and emitted to external sinks.
type PriceUpdate struct {
	Symbol        string  `json:"symbol"`
	Tick          int64   `json:"tick"`
	OldPrice      float64 `json:"oldPrice"`
	NewPrice      float64 `json:"newPrice"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Volume        int64   `json:"volume"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Drivers       Drivers `json:"drivers"`
}

// TickResult is the consolidated outcome of one tick, the single authoritative
// publish unit: partial intermediate state is never visible outside the engine.
type TickResult struct {
	Tick         int64         `json:"tick"`
	MarketOpen   bool          `json:"marketOpen"`
	Trades       []Trade       `json:"trades"`
	PriceUpdates []PriceUpdate `json:"priceUpdates"`
	Events       []MarketEvent `json:"events"`
}
