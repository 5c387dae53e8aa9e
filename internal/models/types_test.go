package models

import (
	"testing"
	"time"
)

func testTables() *Tables {
	return &Tables{
		Resources: map[ResourceKind]*ResourceDefinition{
			Wood:  {Kind: Wood, Interval: 20 * time.Minute, Quantum: 10, BaseLimit: 50, Harvestable: true},
			Coins: {Kind: Coins},
		},
		Buildings: map[BuildingKind]*BuildingDefinition{
			Market: {Kind: Market, Levels: []*BuildingLevel{
				{Costs: Costs{Wood: 10}, TradeRates: map[ResourceKind]TradeRate{Wood: {Unit: 5, Price: 3}}},
				{Costs: Costs{Wood: 20}},
				{Costs: Costs{Wood: 40}, TradeRates: map[ResourceKind]TradeRate{Wood: {Unit: 5, Price: 4}}},
			}},
		},
		Units:           map[string]*UnitDefinition{"tabby": {ID: "tabby", Bonus: TradeBonus{Pct: 10}}},
		Currency:        Coins,
		TradingBuilding: Market,
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := NewPlayerSnapshot()
	s.Resources[Wood] = ResourceState{Amount: 5}
	s.Buildings[Market] = BuildingState{Level: 1, Built: true}
	s.Units = append(s.Units, UnitRef{UnitID: "tabby"})
	s.StorageLimits[Wood] = 50

	c := s.Clone()
	c.SetAmount(Wood, 99)
	c.Buildings[Market] = BuildingState{Level: 2, Built: true}
	c.Units[0].Active = true
	c.StorageLimits[Wood] = 10

	if s.Amount(Wood) != 5 {
		t.Errorf("original wood changed: %d", s.Amount(Wood))
	}
	if s.BuildingLevel(Market) != 1 {
		t.Errorf("original market level changed: %d", s.BuildingLevel(Market))
	}
	if s.Units[0].Active {
		t.Errorf("original unit list shares backing array with clone")
	}
	if s.StorageLimits[Wood] != 50 {
		t.Errorf("original storage limit changed: %d", s.StorageLimits[Wood])
	}
}

func TestSetAmountKeepsTimestamp(t *testing.T) {
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewPlayerSnapshot()
	s.Resources[Wood] = ResourceState{Amount: 1, LastRegenerationTimestamp: at}

	s.SetAmount(Wood, 7)

	if got := s.Resources[Wood]; got.Amount != 7 || !got.LastRegenerationTimestamp.Equal(at) {
		t.Fatalf("unexpected state %+v", got)
	}
}

func TestTradeRateUsesHighestTierAtOrBelowLevel(t *testing.T) {
	market := testTables().Buildings[Market]

	tests := []struct {
		level int
		want  int
		ok    bool
	}{
		{0, 0, false},
		{1, 3, true},
		{2, 3, true},
		{3, 4, true},
		{9, 4, true},
	}
	for _, tt := range tests {
		rate, ok := market.TradeRate(Wood, tt.level)
		if ok != tt.ok || rate.Price != tt.want {
			t.Errorf("level %d: got %+v ok=%v, want price %d ok=%v", tt.level, rate, ok, tt.want, tt.ok)
		}
	}

	if _, ok := market.TradeRate(Fish, 3); ok {
		t.Errorf("fish should not be tradeable")
	}
}

func TestValidateSnapshot(t *testing.T) {
	tables := testTables()

	valid := func() *PlayerSnapshot {
		s := NewPlayerSnapshot()
		s.Resources[Wood] = ResourceState{Amount: 10}
		s.StorageLimits[Wood] = 50
		s.Units = []UnitRef{{UnitID: "tabby", Active: true}}
		s.ActiveUnitCount = 1
		s.MaxActiveUnits = 1
		return s
	}

	if err := valid().Validate(tables); err != nil {
		t.Fatalf("expected valid snapshot, got %v", err)
	}

	tests := map[string]func(s *PlayerSnapshot){
		"over cap":         func(s *PlayerSnapshot) { s.SetAmount(Wood, 51) },
		"missing limit":    func(s *PlayerSnapshot) { delete(s.StorageLimits, Wood) },
		"built mismatch":   func(s *PlayerSnapshot) { s.Buildings[Market] = BuildingState{Level: 1} },
		"level too high":   func(s *PlayerSnapshot) { s.Buildings[Market] = BuildingState{Level: 4, Built: true} },
		"unknown building": func(s *PlayerSnapshot) { s.Buildings["castle"] = BuildingState{} },
		"count mismatch":   func(s *PlayerSnapshot) { s.ActiveUnitCount = 0 },
		"over max active":  func(s *PlayerSnapshot) { s.MaxActiveUnits = 0 },
		"duplicate unit":   func(s *PlayerSnapshot) { s.Units = append(s.Units, UnitRef{UnitID: "tabby"}) },
		"zero level":       func(s *PlayerSnapshot) { s.Level = 0 },
	}
	for name, mutate := range tests {
		s := valid()
		mutate(s)
		if err := s.Validate(tables); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestValidateTables(t *testing.T) {
	if err := testTables().Validate(); err != nil {
		t.Fatalf("expected valid tables, got %v", err)
	}

	tables := testTables()
	tables.Currency = Wood
	if err := tables.Validate(); err == nil {
		t.Errorf("capped currency should be rejected")
	}

	tables = testTables()
	tables.Buildings[Market].Levels[0].UnlocksUnit = "ghost"
	if err := tables.Validate(); err == nil {
		t.Errorf("unknown unlock unit should be rejected")
	}

	tables = testTables()
	tables.Buildings[Market].Levels[0].TradeRates[Wood] = TradeRate{Unit: 0, Price: 1}
	if err := tables.Validate(); err == nil {
		t.Errorf("zero batch unit should be rejected")
	}

	tables = testTables()
	tables.StorageBuilding = Warehouse
	if err := tables.Validate(); err == nil {
		t.Errorf("undefined storage building should be rejected")
	}
}
