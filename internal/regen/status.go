package regen

import (
	"time"

	"github.com/napolitain/catvillage/internal/models"
)

// ResourceStatus is the display view of one regenerating resource
type ResourceStatus struct {
	Kind   models.ResourceKind
	Amount int
	Limit  int // 0 if uncapped
	Full   bool
	NextIn time.Duration
}

// PondStatus is the display view of the pond
type PondStatus struct {
	Health      int
	MaxHealth   int
	TapCount    int
	TapsPerUnit int
	NextIn      time.Duration
}

// Status reports regeneration countdowns for polling displays.
// The snapshot is not modified.
func Status(s *models.PlayerSnapshot, t *models.Tables, now time.Time) ([]ResourceStatus, PondStatus) {
	view := s.Clone()
	All(view, t, now)

	var resources []ResourceStatus
	for _, rk := range t.ResourceKinds() {
		def := t.Resources[rk]
		if !def.Regenerates() {
			continue
		}
		rs := view.Resources[rk]
		limit := StorageLimit(view, def)
		resources = append(resources, ResourceStatus{
			Kind:   rk,
			Amount: rs.Amount,
			Limit:  limit,
			Full:   limit > 0 && rs.Amount >= limit,
			NextIn: TimeUntilNext(rs.LastRegenerationTimestamp, def.Interval, now),
		})
	}

	pond := PondStatus{
		Health:      view.Pond.Health,
		MaxHealth:   view.Pond.MaxHealth,
		TapCount:    view.Pond.TapCount,
		TapsPerUnit: view.Pond.TapsPerUnit,
	}
	if view.Pond.Initialized() && view.Pond.Health < view.Pond.MaxHealth {
		pond.NextIn = TimeUntilNext(view.Pond.LastRegenerationTimestamp, t.Pond.RegenInterval, now)
	}

	return resources, pond
}
