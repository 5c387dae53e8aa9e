package models

import (
	"fmt"
	"sort"
	"time"
)

// ResourceKind identifies a resource held by a player
type ResourceKind string

const (
	Wood   ResourceKind = "wood"
	Fish   ResourceKind = "fish"
	Energy ResourceKind = "energy"
	Coins  ResourceKind = "coins"
)

// BuildingKind identifies an upgradable village building
type BuildingKind string

const (
	Sawmill   BuildingKind = "sawmill"
	Fishery   BuildingKind = "fishery"
	Warehouse BuildingKind = "warehouse"
	Market    BuildingKind = "market"
	CatHouse  BuildingKind = "cat_house"
)

// Costs maps resources to amounts (upgrade costs, grants, deltas)
type Costs map[ResourceKind]int

// Get returns the amount for a resource, 0 if absent
func (c Costs) Get(rk ResourceKind) int {
	return c[rk]
}

// Kinds returns the resource kinds in deterministic order
func (c Costs) Kinds() []ResourceKind {
	kinds := make([]ResourceKind, 0, len(c))
	for rk := range c {
		kinds = append(kinds, rk)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Clone returns an independent copy
func (c Costs) Clone() Costs {
	if c == nil {
		return nil
	}
	out := make(Costs, len(c))
	for rk, v := range c {
		out[rk] = v
	}
	return out
}

// ResourceState is the stored quantity of one resource.
// LastRegenerationTimestamp is zero for resources that do not regenerate.
type ResourceState struct {
	Amount                    int       `json:"amount"`
	LastRegenerationTimestamp time.Time `json:"last_regeneration_timestamp,omitempty"`
}

// BuildingState is the per-player level of one building
type BuildingState struct {
	Level int  `json:"level"`
	Built bool `json:"built"`
}

// UnitRef is an owned collectible unit (cat)
type UnitRef struct {
	UnitID string `json:"unit_id"`
	Active bool   `json:"active"`
}

// PondState is the tap-to-harvest mini-activity state
type PondState struct {
	Health                    int       `json:"health"`
	MaxHealth                 int       `json:"max_health"`
	LastRegenerationTimestamp time.Time `json:"last_regeneration_timestamp"`
	TapCount                  int       `json:"tap_count"`
	TapsPerUnit               int       `json:"taps_per_unit"`
}

// Initialized reports whether the pond has been created
func (p PondState) Initialized() bool {
	return p.MaxHealth > 0
}

// PlayerSnapshot is the complete economy state of one player.
// The caller owns it between engine calls.
type PlayerSnapshot struct {
	Level           int                            `json:"level"`
	Experience      int                            `json:"experience"`
	Resources       map[ResourceKind]ResourceState `json:"resources"`
	Buildings       map[BuildingKind]BuildingState `json:"buildings"`
	Units           []UnitRef                      `json:"units"`
	ActiveUnitCount int                            `json:"active_unit_count"`
	MaxActiveUnits  int                            `json:"max_active_units"`
	StorageLimits   map[ResourceKind]int           `json:"storage_limits"`
	Pond            PondState                      `json:"pond"`
}

// NewPlayerSnapshot returns an empty snapshot with allocated maps
func NewPlayerSnapshot() *PlayerSnapshot {
	return &PlayerSnapshot{
		Level:         1,
		Resources:     make(map[ResourceKind]ResourceState),
		Buildings:     make(map[BuildingKind]BuildingState),
		Units:         make([]UnitRef, 0),
		StorageLimits: make(map[ResourceKind]int),
	}
}

// Clone creates a deep copy of the snapshot
func (s *PlayerSnapshot) Clone() *PlayerSnapshot {
	clone := &PlayerSnapshot{
		Level:           s.Level,
		Experience:      s.Experience,
		Resources:       make(map[ResourceKind]ResourceState, len(s.Resources)),
		Buildings:       make(map[BuildingKind]BuildingState, len(s.Buildings)),
		Units:           make([]UnitRef, len(s.Units)),
		ActiveUnitCount: s.ActiveUnitCount,
		MaxActiveUnits:  s.MaxActiveUnits,
		StorageLimits:   make(map[ResourceKind]int, len(s.StorageLimits)),
		Pond:            s.Pond,
	}

	for rk, rs := range s.Resources {
		clone.Resources[rk] = rs
	}
	for bk, bs := range s.Buildings {
		clone.Buildings[bk] = bs
	}
	copy(clone.Units, s.Units)
	for rk, limit := range s.StorageLimits {
		clone.StorageLimits[rk] = limit
	}

	return clone
}

// Amount returns the current amount of a resource
func (s *PlayerSnapshot) Amount(rk ResourceKind) int {
	return s.Resources[rk].Amount
}

// SetAmount sets a resource amount, keeping its regeneration timestamp
func (s *PlayerSnapshot) SetAmount(rk ResourceKind, amount int) {
	rs := s.Resources[rk]
	rs.Amount = amount
	s.Resources[rk] = rs
}

// BuildingLevel returns the level of a building, 0 if never built
func (s *PlayerSnapshot) BuildingLevel(bk BuildingKind) int {
	return s.Buildings[bk].Level
}

// UnitIndex returns the position of an owned unit, or -1
func (s *PlayerSnapshot) UnitIndex(unitID string) int {
	for i, u := range s.Units {
		if u.UnitID == unitID {
			return i
		}
	}
	return -1
}

// Owns reports whether the player owns the unit
func (s *PlayerSnapshot) Owns(unitID string) bool {
	return s.UnitIndex(unitID) >= 0
}

// ActiveUnits returns the ids of active units in list order
func (s *PlayerSnapshot) ActiveUnits() []string {
	var ids []string
	for _, u := range s.Units {
		if u.Active {
			ids = append(ids, u.UnitID)
		}
	}
	return ids
}

// Validate checks the snapshot invariants against the static tables
func (s *PlayerSnapshot) Validate(t *Tables) error {
	if s.Level < 1 {
		return fmt.Errorf("level %d below 1", s.Level)
	}
	if s.Experience < 0 {
		return fmt.Errorf("negative experience %d", s.Experience)
	}

	for _, rk := range t.ResourceKinds() {
		def := t.Resources[rk]
		rs := s.Resources[rk]
		if rs.Amount < 0 {
			return fmt.Errorf("resource %s: negative amount %d", rk, rs.Amount)
		}
		if !def.Capped() {
			continue
		}
		limit, ok := s.StorageLimits[rk]
		if !ok {
			return fmt.Errorf("resource %s: missing storage limit", rk)
		}
		if rs.Amount > limit {
			return fmt.Errorf("resource %s: amount %d exceeds limit %d", rk, rs.Amount, limit)
		}
	}

	for bk, bs := range s.Buildings {
		def, ok := t.Buildings[bk]
		if !ok {
			return fmt.Errorf("unknown building %s", bk)
		}
		if bs.Level < 0 || bs.Level > def.MaxLevel() {
			return fmt.Errorf("building %s: level %d outside [0, %d]", bk, bs.Level, def.MaxLevel())
		}
		if bs.Built != (bs.Level > 0) {
			return fmt.Errorf("building %s: built=%v at level %d", bk, bs.Built, bs.Level)
		}
	}

	seen := make(map[string]bool, len(s.Units))
	active := 0
	for _, u := range s.Units {
		if seen[u.UnitID] {
			return fmt.Errorf("unit %s owned twice", u.UnitID)
		}
		seen[u.UnitID] = true
		if u.Active {
			active++
		}
	}
	if active != s.ActiveUnitCount {
		return fmt.Errorf("active unit count %d does not match %d active units", s.ActiveUnitCount, active)
	}
	if s.ActiveUnitCount > s.MaxActiveUnits {
		return fmt.Errorf("active unit count %d exceeds max %d", s.ActiveUnitCount, s.MaxActiveUnits)
	}

	if s.Pond.Initialized() && (s.Pond.Health < 0 || s.Pond.Health > s.Pond.MaxHealth) {
		return fmt.Errorf("pond health %d outside [0, %d]", s.Pond.Health, s.Pond.MaxHealth)
	}

	return nil
}
