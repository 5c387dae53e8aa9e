package economy

import "github.com/napolitain/catvillage/internal/models"

// sumBonus folds the percentages of all active units whose bonus matches.
// Stacking is linear with no upper clamp.
func (e *Engine) sumBonus(s *models.PlayerSnapshot, match func(models.Bonus) bool) int {
	total := 0
	for _, u := range s.Units {
		if !u.Active {
			continue
		}
		def, ok := e.tables.Unit(u.UnitID)
		if !ok || def.Bonus == nil {
			continue
		}
		if match(def.Bonus) {
			total += def.Bonus.Percent()
		}
	}
	return total
}

func (e *Engine) resourceBonus(s *models.PlayerSnapshot, rk models.ResourceKind) int {
	return e.sumBonus(s, func(b models.Bonus) bool {
		rb, ok := b.(models.ResourceBonus)
		return ok && rb.Resource == rk
	})
}

func (e *Engine) buildingDiscount(s *models.PlayerSnapshot) int {
	return e.sumBonus(s, func(b models.Bonus) bool {
		_, ok := b.(models.BuildingDiscount)
		return ok
	})
}

func (e *Engine) tradeBonus(s *models.PlayerSnapshot) int {
	return e.sumBonus(s, func(b models.Bonus) bool {
		_, ok := b.(models.TradeBonus)
		return ok
	})
}

// boost returns floor(x * (1 + pct/100))
func boost(x, pct int) int {
	return x * (100 + pct) / 100
}

// discount returns floor(x * (1 - pct/100)), never below zero
func discount(x, pct int) int {
	if pct >= 100 {
		return 0
	}
	return x * (100 - pct) / 100
}
