package economy

import (
	"fmt"
	"time"

	"github.com/napolitain/catvillage/internal/models"
)

// Quote is the outcome of selling at the current market tier
type Quote struct {
	Rate    models.TradeRate
	Sold    int
	Batches int
	Coins   int
}

// QuoteSale prices a sale without checking the player's stock
func (e *Engine) QuoteSale(s *models.PlayerSnapshot, rk models.ResourceKind, requested int) (Quote, error) {
	market, ok := e.tables.Building(e.tables.TradingBuilding)
	level := 0
	if ok {
		level = s.BuildingLevel(market.Kind)
	}
	if level == 0 {
		return Quote{}, ErrTradingBuildingNotBuilt
	}

	rate, ok := market.TradeRate(rk, level)
	if !ok {
		return Quote{}, fmt.Errorf("%w: %q is not tradeable", ErrInvalidResourceKind, rk)
	}

	batches := 0
	if requested > 0 {
		batches = requested / rate.Unit
	}
	if batches == 0 {
		return Quote{}, fmt.Errorf("%w: %s sells in batches of %d", ErrBelowMinimumBatch, rk, rate.Unit)
	}

	return Quote{
		Rate:    rate,
		Sold:    batches * rate.Unit,
		Batches: batches,
		Coins:   boost(batches*rate.Price, e.tradeBonus(s)),
	}, nil
}

// SellResource converts whole batches of a resource into currency
func (e *Engine) SellResource(s *models.PlayerSnapshot, rk models.ResourceKind, requested int, now time.Time) (*models.PlayerSnapshot, Result, error) {
	next, _ := e.prepare(s, now)

	q, err := e.QuoteSale(next, rk, requested)
	if err != nil {
		return nil, Result{}, err
	}
	if have := next.Amount(rk); have < q.Sold {
		return nil, Result{}, fmt.Errorf("%w: selling %d %s, have %d", ErrInsufficientResources, q.Sold, rk, have)
	}

	// Commit
	next.SetAmount(rk, next.Amount(rk)-q.Sold)
	currency := e.tables.Currency
	next.SetAmount(currency, next.Amount(currency)+q.Coins)

	res := Result{
		Action:           ActionSell,
		MessageKey:       "sell.ok",
		Spent:            models.Costs{rk: q.Sold},
		Granted:          models.Costs{currency: q.Coins},
		Sold:             q.Sold,
		CoinsGained:      q.Coins,
		ExperienceGained: SellExperiencePerBatch * q.Batches,
	}
	res.LeveledUp = addExperience(next, res.ExperienceGained) > 0
	res.Level = next.Level

	return next, res, nil
}
