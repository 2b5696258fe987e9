package orderbookv1

// Match represents a fill between an aggressing (taker) order and a resting
// (maker) order at the maker's price.
type Match struct {
	Maker      *Order  `json:"maker"`
	Taker      *Order  `json:"taker"`
	SizeFilled int64   `json:"sizeFilled"`
	Price      float64 `json:"price"`
}

// Buyer returns the buy-side order of the match.
func (m *Match) Buyer() *Order {
	if m.Taker.IsBid() {
		return m.Taker
	}
	return m.Maker
}

// Seller returns the sell-side order of the match.
func (m *Match) Seller() *Order {
	if m.Taker.IsAsk() {
		return m.Taker
	}
	return m.Maker
}
