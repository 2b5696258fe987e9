package marketv1

// Side represents the direction of an order or the aggressing side of a trade.
type Side string

const (
	// SideBuy represents a buy.
	SideBuy Side = "buy"
	// SideSell represents a sell.
	SideSell Side = "sell"
)

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// Trade is an immutable fill fact. Agent ids are empty for legs taken by the
// synthetic market maker, which is not a real agent.
type Trade struct {
	ID            string  `json:"id"`
	Tick          int64   `json:"tick"`
	Symbol        string  `json:"symbol"`
	BuyerOrderID  string  `json:"buyerOrderID"`
	SellerOrderID string  `json:"sellerOrderID"`
	BuyerAgentID  string  `json:"buyerAgentID,omitempty"`
	SellerAgentID string  `json:"sellerAgentID,omitempty"`
	Quantity      int64   `json:"quantity"`
	Price         float64 `json:"price"`

	// TakerSide is the side of the aggressing order, it decides the sign of
	// the trade's contribution to agent pressure.
	TakerSide Side `json:"takerSide"`
}

// Notional returns quantity times price for the trade.
func (t Trade) Notional() float64 {
	return float64(t.Quantity) * t.Price
}
