package matching

import (
	"math"

	marketv1 "github.com/muhammadchandra19/marketsim/internal/domain/market/v1"
	orderbookv1 "github.com/muhammadchandra19/marketsim/internal/domain/orderbook/v1"
	"github.com/muhammadchandra19/marketsim/internal/usecase/orderbook"
)

// MaintainLiquidity reseeds the market-maker ladder on any book side whose
// resting volume fell under the liquidity floor, so market orders always have
// a counterparty. Maker orders are ephemeral: a reseed cancels the side's
// remaining maker orders and lays a fresh ladder.
func (e *Engine) MaintainLiquidity(book *orderbook.Orderbook, instrumentPrice float64, tick int64) {
	if instrumentPrice <= 0 {
		return
	}

	if book.BidTotalVolume() < e.cfg.LiquidityFloor {
		e.seedSide(book, marketv1.SideBuy, instrumentPrice, tick)
	}
	if book.AskTotalVolume() < e.cfg.LiquidityFloor {
		e.seedSide(book, marketv1.SideSell, instrumentPrice, tick)
	}
}

// seedSide lays DepthLevels maker orders at geometric spread increments from
// the instrument price, sized largest at the touch and shrinking outward.
func (e *Engine) seedSide(book *orderbook.Orderbook, side marketv1.Side, instrumentPrice float64, tick int64) {
	book.CancelAgentSide(orderbookv1.MarketMakerAgentID, side)

	for level := 1; level <= e.cfg.DepthLevels; level++ {
		offset := e.cfg.SpreadPct * float64(level)

		var levelPrice float64
		if side == marketv1.SideBuy {
			levelPrice = roundPrice(instrumentPrice * (1 - offset))
		} else {
			levelPrice = roundPrice(instrumentPrice * (1 + offset))
		}
		if levelPrice < marketv1.MinPrice {
			continue
		}

		quantity := e.cfg.BaseQuantity * int64(e.cfg.DepthLevels-level+1)

		order := orderbookv1.NewOrder(
			e.newID(tick),
			orderbookv1.MarketMakerAgentID,
			book.Symbol(),
			side,
			orderbookv1.OrderTypeLimit,
			quantity,
			tick,
		)
		order.LimitPrice = levelPrice
		order.Sequence = book.NextSequence()

		// the only failure mode is a duplicate id, which the ULID entropy rules out
		_ = book.PlaceLimitOrder(levelPrice, order)
	}
}

// roundPrice snaps a price to cents so ladder levels land on stable map keys.
func roundPrice(price float64) float64 {
	return math.Round(price*100) / 100
}
