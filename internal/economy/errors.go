package economy

import "errors"

// Validation failures. Every action fails before mutating anything, so all
// of these are safe to surface to the player as-is.
var (
	ErrInvalidResourceKind     = errors.New("invalid resource kind")
	ErrInvalidBuildingKind     = errors.New("invalid building kind")
	ErrMaxLevelReached         = errors.New("max level reached")
	ErrInsufficientResources   = errors.New("insufficient resources")
	ErrTradingBuildingNotBuilt = errors.New("trading building not built")
	ErrBelowMinimumBatch       = errors.New("below minimum batch")
	ErrUnitNotOwned            = errors.New("unit not owned")
	ErrActiveLimitReached      = errors.New("active limit reached")
	ErrInsufficientEnergy      = errors.New("insufficient energy")
	ErrPondDepleted            = errors.New("pond depleted")
	ErrUnknownAction           = errors.New("unknown action")
)

var codes = []struct {
	err  error
	code string
}{
	{ErrInvalidResourceKind, "invalid_resource_kind"},
	{ErrInvalidBuildingKind, "invalid_building_kind"},
	{ErrMaxLevelReached, "max_level_reached"},
	{ErrInsufficientResources, "insufficient_resources"},
	{ErrTradingBuildingNotBuilt, "trading_building_not_built"},
	{ErrBelowMinimumBatch, "below_minimum_batch"},
	{ErrUnitNotOwned, "unit_not_owned"},
	{ErrActiveLimitReached, "active_limit_reached"},
	{ErrInsufficientEnergy, "insufficient_energy"},
	{ErrPondDepleted, "pond_depleted"},
	{ErrUnknownAction, "unknown_action"},
}

// Code returns a stable message key for an engine failure.
// Errors from outside the engine map to "internal".
func Code(err error) string {
	if err == nil {
		return ""
	}
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return "internal"
}
