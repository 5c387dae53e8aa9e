package economy

import (
	"fmt"

	"github.com/napolitain/catvillage/internal/models"
)

// ActivateUnit sets an owned unit active or inactive. Requesting the state
// the unit is already in is a no-op, not an error.
func (e *Engine) ActivateUnit(s *models.PlayerSnapshot, unitID string, activate bool) (*models.PlayerSnapshot, Result, error) {
	idx := s.UnitIndex(unitID)
	if idx < 0 {
		return nil, Result{}, fmt.Errorf("%w: %q", ErrUnitNotOwned, unitID)
	}

	kind := ActionDeactivate
	if activate {
		kind = ActionActivate
	}

	if s.Units[idx].Active == activate {
		return s.Clone(), Result{Action: kind, MessageKey: "unit.unchanged", Level: s.Level}, nil
	}
	if activate && s.ActiveUnitCount >= s.MaxActiveUnits {
		return nil, Result{}, fmt.Errorf("%w: %d of %d slots in use", ErrActiveLimitReached, s.ActiveUnitCount, s.MaxActiveUnits)
	}

	next := s.Clone()
	next.Units[idx].Active = activate
	key := "unit.deactivated"
	if activate {
		next.ActiveUnitCount++
		key = "unit.activated"
	} else if next.ActiveUnitCount > 0 {
		next.ActiveUnitCount--
	}

	return next, Result{Action: kind, MessageKey: key, Level: next.Level}, nil
}
