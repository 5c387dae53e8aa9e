package economy

import (
	"fmt"
	"time"

	"github.com/napolitain/catvillage/internal/models"
)

// Harvest grants baseAmount of a harvestable resource, raised by active
// resource bonuses and clipped to storage.
func (e *Engine) Harvest(s *models.PlayerSnapshot, rk models.ResourceKind, baseAmount int, now time.Time) (*models.PlayerSnapshot, Result, error) {
	def, ok := e.tables.Resource(rk)
	if !ok || !def.Harvestable {
		return nil, Result{}, fmt.Errorf("%w: %q is not harvestable", ErrInvalidResourceKind, rk)
	}
	if baseAmount < 0 {
		baseAmount = 0
	}

	next, _ := e.prepare(s, now)

	requested := boost(baseAmount, e.resourceBonus(next, rk))
	granted := e.grant(next, rk, requested)

	key := "harvest.ok"
	if granted < requested {
		key = "harvest.capped"
	}
	return next, Result{
		Action:     ActionHarvest,
		MessageKey: key,
		Granted:    models.Costs{rk: granted},
		Level:      next.Level,
	}, nil
}
