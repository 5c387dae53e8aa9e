package economy

import (
	"fmt"
	"time"

	"github.com/napolitain/catvillage/internal/models"
)

// UpgradeCost returns the discounted cost of the next level of a building
// for this player. It does not check affordability.
func (e *Engine) UpgradeCost(s *models.PlayerSnapshot, bk models.BuildingKind) (models.Costs, error) {
	def, ok := e.tables.Building(bk)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBuildingKind, bk)
	}
	level := s.BuildingLevel(bk)
	if level >= def.MaxLevel() {
		return nil, fmt.Errorf("%w: %s is at level %d", ErrMaxLevelReached, bk, level)
	}

	pct := e.buildingDiscount(s)
	costs := make(models.Costs)
	for rk, amount := range def.Level(level + 1).Costs {
		costs[rk] = discount(amount, pct)
	}
	return costs, nil
}

// UpgradeBuilding raises a building one level, paying its discounted cost
func (e *Engine) UpgradeBuilding(s *models.PlayerSnapshot, bk models.BuildingKind, now time.Time) (*models.PlayerSnapshot, Result, error) {
	def, ok := e.tables.Building(bk)
	if !ok {
		return nil, Result{}, fmt.Errorf("%w: %q", ErrInvalidBuildingKind, bk)
	}

	next, _ := e.prepare(s, now)

	costs, err := e.UpgradeCost(next, bk)
	if err != nil {
		return nil, Result{}, err
	}
	for _, rk := range costs.Kinds() {
		if have := next.Amount(rk); have < costs[rk] {
			return nil, Result{}, fmt.Errorf("%w: %s needs %d %s, have %d",
				ErrInsufficientResources, bk, costs[rk], rk, have)
		}
	}

	// Commit
	for rk, amount := range costs {
		next.SetAmount(rk, next.Amount(rk)-amount)
	}
	newLevel := next.BuildingLevel(bk) + 1
	next.Buildings[bk] = models.BuildingState{Level: newLevel, Built: true}

	res := Result{
		Action:        ActionUpgrade,
		MessageKey:    "upgrade.ok",
		Spent:         costs,
		BuildingLevel: newLevel,
	}

	if unit := def.Level(newLevel).UnlocksUnit; unit != "" && !next.Owns(unit) {
		next.Units = append(next.Units, models.UnitRef{UnitID: unit})
		res.UnlockedUnit = unit
	}

	if bk == e.tables.StorageBuilding {
		e.recomputeStorageLimits(next)
	}
	if bk == e.tables.SlotBuilding {
		e.recomputeActiveSlots(next)
	}

	res.ExperienceGained = UpgradeExperiencePerLevel * newLevel
	res.LeveledUp = addExperience(next, res.ExperienceGained) > 0
	res.Level = next.Level

	return next, res, nil
}
