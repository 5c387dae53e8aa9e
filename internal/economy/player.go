package economy

import (
	"time"

	"github.com/napolitain/catvillage/internal/models"
)

// NewPlayer seeds a fresh account from the static tables
func (e *Engine) NewPlayer(now time.Time) *models.PlayerSnapshot {
	t := e.tables
	s := models.NewPlayerSnapshot()

	for _, rk := range t.ResourceKinds() {
		def := t.Resources[rk]
		rs := models.ResourceState{Amount: def.Initial}
		if def.Regenerates() {
			rs.LastRegenerationTimestamp = now
		}
		s.Resources[rk] = rs
		if def.Capped() {
			s.StorageLimits[rk] = def.BaseLimit
		}
	}

	for _, bk := range t.BuildingKinds() {
		s.Buildings[bk] = models.BuildingState{}
	}

	for _, id := range t.Player.StarterUnits {
		if !s.Owns(id) {
			s.Units = append(s.Units, models.UnitRef{UnitID: id})
		}
	}
	e.recomputeActiveSlots(s)

	if t.Pond.MaxHealth > 0 {
		s.Pond = e.newPond(now)
	}

	return s
}

func (e *Engine) newPond(now time.Time) models.PondState {
	return models.PondState{
		Health:                    e.tables.Pond.MaxHealth,
		MaxHealth:                 e.tables.Pond.MaxHealth,
		LastRegenerationTimestamp: now,
		TapsPerUnit:               e.tables.Pond.TapsPerUnit,
	}
}

// recomputeStorageLimits applies the storage building bonus to every capped resource
func (e *Engine) recomputeStorageLimits(s *models.PlayerSnapshot) {
	pct := 0
	if b, ok := e.tables.Building(e.tables.StorageBuilding); ok {
		pct = b.StorageBonusPercent(s.BuildingLevel(b.Kind))
	}
	for _, rk := range e.tables.ResourceKinds() {
		def := e.tables.Resources[rk]
		if def.Capped() {
			s.StorageLimits[rk] = boost(def.BaseLimit, pct)
		}
	}
}

// recomputeActiveSlots sets the active unit cap from the slot building
func (e *Engine) recomputeActiveSlots(s *models.PlayerSnapshot) {
	slots := e.tables.Player.BaseActiveSlots
	if b, ok := e.tables.Building(e.tables.SlotBuilding); ok {
		slots += b.ActiveSlots(s.BuildingLevel(b.Kind))
	}
	s.MaxActiveUnits = slots
}
