package models

import (
	"fmt"
	"sort"
	"time"
)

// ResourceDefinition describes regeneration and storage of one resource
type ResourceDefinition struct {
	Kind        ResourceKind
	Interval    time.Duration // 0 if the resource does not regenerate
	Quantum     int
	BaseLimit   int // 0 if uncapped
	Initial     int
	Harvestable bool
}

// Regenerates reports whether the resource accrues over time
func (d *ResourceDefinition) Regenerates() bool {
	return d.Interval > 0 && d.Quantum > 0
}

// Capped reports whether the resource has a storage limit
func (d *ResourceDefinition) Capped() bool {
	return d.BaseLimit > 0
}

// TradeRate is the batch size and coin price at one market tier
type TradeRate struct {
	Unit  int
	Price int
}

// BuildingLevel represents data for a specific building level
type BuildingLevel struct {
	Costs          Costs
	StoragePercent int // storage bonus granted at this level (storage building)
	ActiveSlots    int // extra active unit slots at this level (slot building)
	TradeRates     map[ResourceKind]TradeRate
	UnlocksUnit    string // unit granted the first time this level is reached
}

// BuildingDefinition represents a building with all its levels
type BuildingDefinition struct {
	Kind   BuildingKind
	Levels []*BuildingLevel // Levels[0] is level 1
}

// MaxLevel returns the highest reachable level
func (b *BuildingDefinition) MaxLevel() int {
	return len(b.Levels)
}

// Level returns the data for a level, nil outside [1, MaxLevel]
func (b *BuildingDefinition) Level(level int) *BuildingLevel {
	if level < 1 || level > len(b.Levels) {
		return nil
	}
	return b.Levels[level-1]
}

// StorageBonusPercent returns the storage bonus at a level, 0 when unbuilt
func (b *BuildingDefinition) StorageBonusPercent(level int) int {
	if lvl := b.Level(level); lvl != nil {
		return lvl.StoragePercent
	}
	return 0
}

// ActiveSlots returns the extra unit slots at a level, 0 when unbuilt
func (b *BuildingDefinition) ActiveSlots(level int) int {
	if lvl := b.Level(level); lvl != nil {
		return lvl.ActiveSlots
	}
	return 0
}

// TradeRate returns the rate for a resource at a tier. The highest level
// at or below the tier that lists the resource wins.
func (b *BuildingDefinition) TradeRate(rk ResourceKind, level int) (TradeRate, bool) {
	if level > len(b.Levels) {
		level = len(b.Levels)
	}
	for l := level; l >= 1; l-- {
		if rate, ok := b.Levels[l-1].TradeRates[rk]; ok {
			return rate, true
		}
	}
	return TradeRate{}, false
}

// PondDefinition configures the tap-to-harvest pond
type PondDefinition struct {
	Resource      ResourceKind // granted every TapsPerUnit taps
	Energy        ResourceKind // consumed per tap
	MaxHealth     int
	TapsPerUnit   int
	RegenInterval time.Duration
	RegenQuantum  int
}

// PlayerDefaults seeds new accounts
type PlayerDefaults struct {
	BaseActiveSlots int
	StarterUnits    []string
}

// Tables is the immutable static configuration the engine looks up
type Tables struct {
	Resources map[ResourceKind]*ResourceDefinition
	Buildings map[BuildingKind]*BuildingDefinition
	Units     map[string]*UnitDefinition
	Pond      PondDefinition
	Player    PlayerDefaults

	Currency        ResourceKind
	StorageBuilding BuildingKind
	TradingBuilding BuildingKind
	SlotBuilding    BuildingKind
}

// Resource looks up a resource definition
func (t *Tables) Resource(rk ResourceKind) (*ResourceDefinition, bool) {
	d, ok := t.Resources[rk]
	return d, ok
}

// Building looks up a building definition
func (t *Tables) Building(bk BuildingKind) (*BuildingDefinition, bool) {
	d, ok := t.Buildings[bk]
	return d, ok
}

// Unit looks up a unit definition
func (t *Tables) Unit(id string) (*UnitDefinition, bool) {
	d, ok := t.Units[id]
	return d, ok
}

// ResourceKinds returns all resource kinds in deterministic order
func (t *Tables) ResourceKinds() []ResourceKind {
	kinds := make([]ResourceKind, 0, len(t.Resources))
	for rk := range t.Resources {
		kinds = append(kinds, rk)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// BuildingKinds returns all building kinds in deterministic order
func (t *Tables) BuildingKinds() []BuildingKind {
	kinds := make([]BuildingKind, 0, len(t.Buildings))
	for bk := range t.Buildings {
		kinds = append(kinds, bk)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// UnitIDs returns all unit ids in deterministic order
func (t *Tables) UnitIDs() []string {
	ids := make([]string, 0, len(t.Units))
	for id := range t.Units {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Validate checks cross references between tables
func (t *Tables) Validate() error {
	if len(t.Resources) == 0 {
		return fmt.Errorf("no resources defined")
	}
	for _, rk := range t.ResourceKinds() {
		d := t.Resources[rk]
		if d.Interval < 0 || d.Quantum < 0 || d.BaseLimit < 0 || d.Initial < 0 {
			return fmt.Errorf("resource %s: negative value", rk)
		}
		if (d.Interval > 0) != (d.Quantum > 0) {
			return fmt.Errorf("resource %s: interval and quantum must be set together", rk)
		}
		if d.Capped() && d.Initial > d.BaseLimit {
			return fmt.Errorf("resource %s: initial %d exceeds limit %d", rk, d.Initial, d.BaseLimit)
		}
	}

	cur, ok := t.Resources[t.Currency]
	if !ok {
		return fmt.Errorf("currency %q is not a resource", t.Currency)
	}
	if cur.Capped() || cur.Regenerates() {
		return fmt.Errorf("currency %q must be uncapped and non-regenerating", t.Currency)
	}

	for _, bk := range t.BuildingKinds() {
		b := t.Buildings[bk]
		if len(b.Levels) == 0 {
			return fmt.Errorf("building %s: no levels", bk)
		}
		for i, lvl := range b.Levels {
			if lvl == nil {
				return fmt.Errorf("building %s level %d: missing", bk, i+1)
			}
			for rk, amount := range lvl.Costs {
				if _, ok := t.Resources[rk]; !ok {
					return fmt.Errorf("building %s level %d: unknown cost resource %s", bk, i+1, rk)
				}
				if amount < 0 {
					return fmt.Errorf("building %s level %d: negative cost", bk, i+1)
				}
			}
			for rk, rate := range lvl.TradeRates {
				if _, ok := t.Resources[rk]; !ok {
					return fmt.Errorf("building %s level %d: unknown trade resource %s", bk, i+1, rk)
				}
				if rk == t.Currency {
					return fmt.Errorf("building %s level %d: currency is not tradeable", bk, i+1)
				}
				if rate.Unit <= 0 || rate.Price < 0 {
					return fmt.Errorf("building %s level %d: invalid trade rate for %s", bk, i+1, rk)
				}
			}
			if lvl.UnlocksUnit != "" {
				if _, ok := t.Units[lvl.UnlocksUnit]; !ok {
					return fmt.Errorf("building %s level %d: unknown unit %s", bk, i+1, lvl.UnlocksUnit)
				}
			}
		}
	}

	for role, bk := range map[string]BuildingKind{
		"storage": t.StorageBuilding,
		"trading": t.TradingBuilding,
		"slot":    t.SlotBuilding,
	} {
		if bk == "" {
			continue
		}
		if _, ok := t.Buildings[bk]; !ok {
			return fmt.Errorf("%s building %q is not defined", role, bk)
		}
	}

	for _, id := range t.UnitIDs() {
		u := t.Units[id]
		if rb, ok := u.Bonus.(ResourceBonus); ok {
			if _, ok := t.Resources[rb.Resource]; !ok {
				return fmt.Errorf("unit %s: bonus for unknown resource %s", id, rb.Resource)
			}
		}
	}
	for _, id := range t.Player.StarterUnits {
		if _, ok := t.Units[id]; !ok {
			return fmt.Errorf("starter unit %s is not defined", id)
		}
	}
	if t.Player.BaseActiveSlots < 0 {
		return fmt.Errorf("negative base active slots")
	}

	p := t.Pond
	if p.MaxHealth > 0 {
		if _, ok := t.Resources[p.Resource]; !ok {
			return fmt.Errorf("pond resource %q is not defined", p.Resource)
		}
		if _, ok := t.Resources[p.Energy]; !ok {
			return fmt.Errorf("pond energy %q is not defined", p.Energy)
		}
		if p.TapsPerUnit <= 0 {
			return fmt.Errorf("pond taps per unit must be positive")
		}
		if p.RegenInterval <= 0 || p.RegenQuantum <= 0 {
			return fmt.Errorf("pond regeneration interval and quantum must be positive")
		}
	}

	return nil
}
