package ledger

import (
	"fmt"
	"sync"

	ledgerv1 "github.com/muhammadchandra19/marketsim/internal/domain/ledger/v1"
	marketv1 "github.com/muhammadchandra19/marketsim/internal/domain/market/v1"
	"github.com/muhammadchandra19/marketsim/pkg/errors"
)

type account struct {
	cash     float64
	holdings map[string]ledgerv1.Holding
}

// InMemory is the agent ledger: cash balances and positions with
// weighted-average cost basis. One lock guards every settlement so a trade's
// two legs apply as a single unit; trades within one symbol are already
// serialized by the matching loop, so contention here is cross-symbol only.
type InMemory struct {
	mu       sync.Mutex
	accounts map[string]*account
}

// NewInMemory creates an empty ledger.
func NewInMemory() *InMemory {
	return &InMemory{
		accounts: make(map[string]*account),
	}
}

// CreateAgent registers an agent with an initial cash balance. Registering an
// existing agent resets it.
func (l *InMemory) CreateAgent(agentID string, cash float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.accounts[agentID] = &account{
		cash:     cash,
		holdings: make(map[string]ledgerv1.Holding),
	}
}

// SetHolding seeds an agent's position, used at boot and in tests.
func (l *InMemory) SetHolding(agentID, symbol string, quantity int64, averageCost float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	acct, ok := l.accounts[agentID]
	if !ok {
		return errors.NewErrorDetails(
			fmt.Sprintf("agent %s has no account", agentID),
			string(errors.ErrUnknownAgent),
			"agentID",
		)
	}

	acct.holdings[symbol] = ledgerv1.Holding{Quantity: quantity, AverageCost: averageCost}
	return nil
}

// CashBalance returns the agent's available cash, zero for unknown agents.
func (l *InMemory) CashBalance(agentID string) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	acct, ok := l.accounts[agentID]
	if !ok {
		return 0
	}
	return acct.cash
}

// Position returns the agent's holding in a symbol.
func (l *InMemory) Position(agentID, symbol string) (ledgerv1.Holding, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	acct, ok := l.accounts[agentID]
	if !ok {
		return ledgerv1.Holding{}, false
	}
	holding, ok := acct.holdings[symbol]
	return holding, ok
}

// SettleTrade applies both legs of a trade atomically: buyer cash down and
// shares up at a refreshed average cost, seller the inverse. Market-maker
// legs carry an empty agent id and are skipped. Validation happens before any
// mutation, so a failed settlement leaves every balance untouched.
func (l *InMemory) SettleTrade(trade marketv1.Trade) error {
	if trade.Quantity <= 0 {
		return errors.NewErrorDetails(
			fmt.Sprintf("trade %s has non-positive quantity %d", trade.ID, trade.Quantity),
			string(errors.ErrInvariantViolation),
			"quantity",
		)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	notional := trade.Notional()

	var buyer, seller *account
	if trade.BuyerAgentID != "" {
		acct, ok := l.accounts[trade.BuyerAgentID]
		if !ok {
			return errors.NewErrorDetails(
				fmt.Sprintf("buyer %s has no account", trade.BuyerAgentID),
				string(errors.ErrUnknownAgent),
				"buyerAgentID",
			)
		}
		if acct.cash < notional {
			return errors.NewErrorDetails(
				fmt.Sprintf("buyer %s cash %.2f below notional %.2f", trade.BuyerAgentID, acct.cash, notional),
				string(errors.ErrInsufficientCash),
				"buyerAgentID",
			)
		}
		buyer = acct
	}
	if trade.SellerAgentID != "" {
		acct, ok := l.accounts[trade.SellerAgentID]
		if !ok {
			return errors.NewErrorDetails(
				fmt.Sprintf("seller %s has no account", trade.SellerAgentID),
				string(errors.ErrUnknownAgent),
				"sellerAgentID",
			)
		}
		if acct.holdings[trade.Symbol].Quantity < trade.Quantity {
			return errors.NewErrorDetails(
				fmt.Sprintf("seller %s holds %d of %s, trade needs %d",
					trade.SellerAgentID, acct.holdings[trade.Symbol].Quantity, trade.Symbol, trade.Quantity),
				string(errors.ErrInsufficientHoldings),
				"sellerAgentID",
			)
		}
		seller = acct
	}

	// validation done, apply both legs
	if buyer != nil {
		buyer.cash -= notional
		holding := buyer.holdings[trade.Symbol]
		totalCost := holding.AverageCost*float64(holding.Quantity) + notional
		holding.Quantity += trade.Quantity
		holding.AverageCost = totalCost / float64(holding.Quantity)
		buyer.holdings[trade.Symbol] = holding
	}
	if seller != nil {
		seller.cash += notional
		holding := seller.holdings[trade.Symbol]
		holding.Quantity -= trade.Quantity
		if holding.Quantity == 0 {
			delete(seller.holdings, trade.Symbol)
		} else {
			seller.holdings[trade.Symbol] = holding
		}
	}

	return nil
}

// TotalShares returns the total quantity of a symbol held across all agents.
// Used to check conservation in tests and health probes.
func (l *InMemory) TotalShares(symbol string) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	var total int64
	for _, acct := range l.accounts {
		total += acct.holdings[symbol].Quantity
	}
	return total
}

// TotalCash returns the sum of all agents' cash balances.
func (l *InMemory) TotalCash() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	var total float64
	for _, acct := range l.accounts {
		total += acct.cash
	}
	return total
}

var _ ledgerv1.Ledger = (*InMemory)(nil)
