package economy

import (
	"fmt"
	"time"

	"github.com/napolitain/catvillage/internal/models"
)

// ActionKind names a player-initiated action
type ActionKind string

const (
	ActionRegenerate ActionKind = "regenerate"
	ActionHarvest    ActionKind = "harvest"
	ActionUpgrade    ActionKind = "upgrade"
	ActionSell       ActionKind = "sell"
	ActionActivate   ActionKind = "activate"
	ActionDeactivate ActionKind = "deactivate"
	ActionTap        ActionKind = "tap"
	ActionExperience ActionKind = "experience"
)

// AllActionKinds returns the action kinds callers may submit
func AllActionKinds() []ActionKind {
	return []ActionKind{
		ActionRegenerate, ActionHarvest, ActionUpgrade, ActionSell,
		ActionActivate, ActionDeactivate, ActionTap,
	}
}

// Action is a deserialized action request
type Action struct {
	Kind     ActionKind          `json:"kind"`
	Resource models.ResourceKind `json:"resource,omitempty"`
	Building models.BuildingKind `json:"building,omitempty"`
	Amount   int                 `json:"amount,omitempty"`
	UnitID   string              `json:"unit_id,omitempty"`
}

// Description renders the action for logs
func (a Action) Description() string {
	switch a.Kind {
	case ActionHarvest, ActionSell:
		return fmt.Sprintf("%s %d %s", a.Kind, a.Amount, a.Resource)
	case ActionUpgrade:
		return fmt.Sprintf("%s %s", a.Kind, a.Building)
	case ActionActivate, ActionDeactivate:
		return fmt.Sprintf("%s %s", a.Kind, a.UnitID)
	default:
		return string(a.Kind)
	}
}

// Result summarizes one successful action
type Result struct {
	Action           ActionKind
	MessageKey       string
	Granted          models.Costs // resources added
	Spent            models.Costs // resources removed
	ExperienceGained int
	LeveledUp        bool
	Level            int // player level after the action
	BuildingLevel    int // new level after an upgrade
	UnlockedUnit     string
	Sold             int
	CoinsGained      int
}

// Apply dispatches an action descriptor to the matching operation
func (e *Engine) Apply(s *models.PlayerSnapshot, a Action, now time.Time) (*models.PlayerSnapshot, Result, error) {
	switch a.Kind {
	case ActionRegenerate:
		next, res := e.Regenerate(s, now)
		return next, res, nil
	case ActionHarvest:
		return e.Harvest(s, a.Resource, a.Amount, now)
	case ActionUpgrade:
		return e.UpgradeBuilding(s, a.Building, now)
	case ActionSell:
		return e.SellResource(s, a.Resource, a.Amount, now)
	case ActionActivate:
		return e.ActivateUnit(s, a.UnitID, true)
	case ActionDeactivate:
		return e.ActivateUnit(s, a.UnitID, false)
	case ActionTap:
		return e.Tap(s, now)
	case ActionExperience:
		next, res := e.AddExperience(s, a.Amount)
		return next, res, nil
	default:
		return nil, Result{}, fmt.Errorf("%w: %q", ErrUnknownAction, a.Kind)
	}
}
