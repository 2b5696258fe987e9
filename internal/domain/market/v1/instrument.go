package marketv1

const (
	// MinPrice is the absolute floor any instrument price can reach.
	MinPrice = 0.01
	// MaxPrice is the absolute ceiling any instrument price can reach.
	MaxPrice = 1_000_000.0
)

// Instrument holds the per-symbol market state. It is mutated only by the
// price-formation pass, once per tick, after that tick's trades are known.
type Instrument struct {
	Symbol            string  `json:"symbol" yaml:"symbol"`
	Sector            string  `json:"sector" yaml:"sector"`
	Price             float64 `json:"price" yaml:"price"`
	Volatility        float64 `json:"volatility" yaml:"volatility"`
	SectorBeta        float64 `json:"sectorBeta" yaml:"sectorBeta"`
	Sentiment         float64 `json:"sentiment" yaml:"sentiment"`
	ManipulationScore float64 `json:"manipulationScore" yaml:"manipulationScore"`
	SharesOutstanding int64   `json:"sharesOutstanding" yaml:"sharesOutstanding"`

	// AvgDailyVolume is the expected traded share volume per session, used to
	// normalize agent pressure so thin names saturate instead of exploding.
	AvgDailyVolume int64 `json:"avgDailyVolume" yaml:"avgDailyVolume"`

	// High and Low track the session's trade price extremes.
	High float64 `json:"high" yaml:"-"`
	Low  float64 `json:"low" yaml:"-"`
}

// ClampPrice bounds a price into [MinPrice, MaxPrice].
func ClampPrice(price float64) float64 {
	if price < MinPrice {
		return MinPrice
	}
	if price > MaxPrice {
		return MaxPrice
	}
	return price
}
