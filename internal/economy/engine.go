// Package economy applies player actions to a PlayerSnapshot.
//
// Each action clones the snapshot, normalizes regeneration at the given time,
// validates, and only then commits. On failure the caller's snapshot is left
// exactly as it was and nil is returned in its place.
package economy

import (
	"time"

	"github.com/napolitain/catvillage/internal/models"
	"github.com/napolitain/catvillage/internal/regen"
)

// Experience rewards
const (
	UpgradeExperiencePerLevel = 20
	SellExperiencePerBatch    = 2
	ExperiencePerPlayerLevel  = 100
)

// Engine executes economy actions against static tables.
// It holds no per-player state and is safe for concurrent use.
type Engine struct {
	tables *models.Tables
}

// NewEngine creates an engine over validated tables
func NewEngine(tables *models.Tables) *Engine {
	return &Engine{tables: tables}
}

// Tables returns the static tables the engine consults
func (e *Engine) Tables() *models.Tables {
	return e.tables
}

// prepare returns a regenerated working copy of the snapshot
func (e *Engine) prepare(s *models.PlayerSnapshot, now time.Time) (*models.PlayerSnapshot, models.Costs) {
	next := s.Clone()
	gained := regen.All(next, e.tables, now)
	return next, gained
}

// Regenerate normalizes accrued resources without any other action
func (e *Engine) Regenerate(s *models.PlayerSnapshot, now time.Time) (*models.PlayerSnapshot, Result) {
	next, gained := e.prepare(s, now)
	return next, Result{
		Action:     ActionRegenerate,
		MessageKey: "regenerate.ok",
		Granted:    gained,
		Level:      next.Level,
	}
}

// storageLimit returns the cap for a resource, 0 if uncapped
func (e *Engine) storageLimit(s *models.PlayerSnapshot, rk models.ResourceKind) int {
	def, ok := e.tables.Resource(rk)
	if !ok {
		return 0
	}
	return regen.StorageLimit(s, def)
}

// grant adds up to amount of a resource, respecting its cap. It returns
// the quantity actually added.
func (e *Engine) grant(s *models.PlayerSnapshot, rk models.ResourceKind, amount int) int {
	if amount <= 0 {
		return 0
	}
	current := s.Amount(rk)
	next := current + amount
	if limit := e.storageLimit(s, rk); limit > 0 && next > limit {
		next = max(limit, current)
	}
	s.SetAmount(rk, next)
	return next - current
}
