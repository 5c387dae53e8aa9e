package economy

import (
	"fmt"
	"time"

	"github.com/napolitain/catvillage/internal/models"
)

// Tap spends one energy on the pond. Every TapsPerUnit taps one unit of the
// pond resource is caught and the pond loses one health.
func (e *Engine) Tap(s *models.PlayerSnapshot, now time.Time) (*models.PlayerSnapshot, Result, error) {
	pond := e.tables.Pond

	next, _ := e.prepare(s, now)
	if !next.Pond.Initialized() {
		next.Pond = e.newPond(now)
	}

	if next.Pond.Health <= 0 {
		return nil, Result{}, ErrPondDepleted
	}
	if next.Amount(pond.Energy) < 1 {
		return nil, Result{}, fmt.Errorf("%w: no %s left", ErrInsufficientEnergy, pond.Energy)
	}

	// Commit
	next.SetAmount(pond.Energy, next.Amount(pond.Energy)-1)
	next.Pond.TapCount++

	res := Result{
		Action:     ActionTap,
		MessageKey: "tap.ok",
		Spent:      models.Costs{pond.Energy: 1},
		Level:      next.Level,
	}

	tapsPerUnit := next.Pond.TapsPerUnit
	if tapsPerUnit <= 0 {
		tapsPerUnit = 1
	}
	if next.Pond.TapCount >= tapsPerUnit {
		next.Pond.TapCount = 0
		next.Pond.Health--
		res.Granted = models.Costs{pond.Resource: e.grant(next, pond.Resource, 1)}
		res.MessageKey = "tap.harvested"
	}

	return next, res, nil
}
