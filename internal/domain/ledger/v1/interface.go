package ledgerv1

import (
	marketv1 "github.com/muhammadchandra19/marketsim/internal/domain/market/v1"
)

// Holding is an agent's position in one symbol.
type Holding struct {
	Quantity    int64   `json:"quantity"`
	AverageCost float64 `json:"averageCost"`
}

// Ledger gives the matching engine access to agent cash and positions.
// Settlement of a trade must be all-or-nothing: either both legs apply or
// neither does. Legs belonging to the synthetic market maker are skipped.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=ledgerv1_mock
type Ledger interface {
	// CashBalance returns the agent's available cash, zero for unknown agents.
	CashBalance(agentID string) float64

	// Position returns the agent's holding in a symbol and whether it exists.
	Position(agentID, symbol string) (Holding, bool)

	// SettleTrade atomically moves cash and shares between the two sides of
	// a trade. It returns an error and leaves all balances untouched when
	// either side cannot honor its leg.
	SettleTrade(trade marketv1.Trade) error
}
