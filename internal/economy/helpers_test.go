package economy

import (
	"testing"
	"time"

	"github.com/napolitain/catvillage/internal/models"
)

var t0 = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

// testTables builds a small synthetic village
func testTables() *models.Tables {
	return &models.Tables{
		Resources: map[models.ResourceKind]*models.ResourceDefinition{
			models.Wood:   {Kind: models.Wood, Interval: 20 * time.Minute, Quantum: 10, BaseLimit: 50, Initial: 20, Harvestable: true},
			models.Fish:   {Kind: models.Fish, Interval: time.Hour, Quantum: 5, BaseLimit: 40, Harvestable: true},
			models.Energy: {Kind: models.Energy, Interval: 30 * time.Second, Quantum: 1, BaseLimit: 10, Initial: 10},
			models.Coins:  {Kind: models.Coins, Initial: 5},
		},
		Buildings: map[models.BuildingKind]*models.BuildingDefinition{
			models.Sawmill: {Kind: models.Sawmill, Levels: []*models.BuildingLevel{
				{Costs: models.Costs{models.Wood: 10}, UnlocksUnit: "ginger"},
				{Costs: models.Costs{models.Wood: 30, models.Coins: 10}},
			}},
			models.Warehouse: {Kind: models.Warehouse, Levels: []*models.BuildingLevel{
				{Costs: models.Costs{models.Wood: 10}, StoragePercent: 50},
				{Costs: models.Costs{models.Wood: 20}, StoragePercent: 100},
			}},
			models.Market: {Kind: models.Market, Levels: []*models.BuildingLevel{
				{Costs: models.Costs{models.Wood: 10}, TradeRates: map[models.ResourceKind]models.TradeRate{
					models.Wood: {Unit: 5, Price: 3},
				}},
				{Costs: models.Costs{models.Wood: 20}, TradeRates: map[models.ResourceKind]models.TradeRate{
					models.Wood: {Unit: 5, Price: 4},
					models.Fish: {Unit: 2, Price: 5},
				}},
			}},
			models.CatHouse: {Kind: models.CatHouse, Levels: []*models.BuildingLevel{
				{Costs: models.Costs{models.Wood: 5}, ActiveSlots: 1, UnlocksUnit: "tabby"},
			}},
		},
		Units: map[string]*models.UnitDefinition{
			"tabby":    {ID: "tabby", Bonus: models.ResourceBonus{Resource: models.Wood, Pct: 50}},
			"ginger":   {ID: "ginger", Bonus: models.BuildingDiscount{Pct: 20}},
			"whiskers": {ID: "whiskers", Bonus: models.TradeBonus{Pct: 50}},
			"mittens":  {ID: "mittens", Bonus: models.ResourceBonus{Resource: models.Fish, Pct: 100}},
			"plain":    {ID: "plain"},
		},
		Pond: models.PondDefinition{
			Resource:      models.Fish,
			Energy:        models.Energy,
			MaxHealth:     10,
			TapsPerUnit:   3,
			RegenInterval: 6 * time.Hour,
			RegenQuantum:  10,
		},
		Player:          models.PlayerDefaults{BaseActiveSlots: 1, StarterUnits: []string{"plain"}},
		Currency:        models.Coins,
		StorageBuilding: models.Warehouse,
		TradingBuilding: models.Market,
		SlotBuilding:    models.CatHouse,
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	tables := testTables()
	if err := tables.Validate(); err != nil {
		t.Fatalf("test tables invalid: %v", err)
	}
	return NewEngine(tables)
}

// withUnits returns a copy of s owning the given units, all active
func withUnits(s *models.PlayerSnapshot, ids ...string) *models.PlayerSnapshot {
	next := s.Clone()
	for _, id := range ids {
		next.Units = append(next.Units, models.UnitRef{UnitID: id, Active: true})
		next.ActiveUnitCount++
	}
	if next.MaxActiveUnits < next.ActiveUnitCount {
		next.MaxActiveUnits = next.ActiveUnitCount
	}
	return next
}
