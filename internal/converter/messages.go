package converter

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/napolitain/catvillage/internal/economy"
	"github.com/napolitain/catvillage/internal/models"
)

// CostsToProto converts a resource map into a Struct of numbers
func CostsToProto(costs models.Costs) map[string]any {
	out := make(map[string]any, len(costs))
	for _, rk := range costs.Kinds() {
		out[string(rk)] = costs[rk]
	}
	return out
}

// ProtoToAction converts a Struct request into an action descriptor.
// Missing fields stay at their zero value.
func ProtoToAction(st *structpb.Struct) (economy.Action, error) {
	if st == nil {
		return economy.Action{}, fmt.Errorf("nil action struct")
	}
	m := st.AsMap()
	kind := stringField(m, "kind")
	if kind == "" {
		return economy.Action{}, fmt.Errorf("action kind is required")
	}
	return economy.Action{
		Kind:     economy.ActionKind(kind),
		Resource: models.ResourceKind(stringField(m, "resource")),
		Building: models.BuildingKind(stringField(m, "building")),
		Amount:   intField(m, "amount"),
		UnitID:   stringField(m, "unit_id"),
	}, nil
}

// ActionToProto converts an action descriptor into a Struct
func ActionToProto(a economy.Action) (*structpb.Struct, error) {
	m := map[string]any{"kind": string(a.Kind)}
	if a.Resource != "" {
		m["resource"] = string(a.Resource)
	}
	if a.Building != "" {
		m["building"] = string(a.Building)
	}
	if a.Amount != 0 {
		m["amount"] = a.Amount
	}
	if a.UnitID != "" {
		m["unit_id"] = a.UnitID
	}
	return structpb.NewStruct(m)
}

// ResultToProto converts an action result into a Struct
func ResultToProto(res economy.Result) (*structpb.Struct, error) {
	m := map[string]any{
		"action":      string(res.Action),
		"message_key": res.MessageKey,
		"level":       res.Level,
		"leveled_up":  res.LeveledUp,
	}
	if len(res.Granted) > 0 {
		m["granted"] = CostsToProto(res.Granted)
	}
	if len(res.Spent) > 0 {
		m["spent"] = CostsToProto(res.Spent)
	}
	if res.ExperienceGained > 0 {
		m["experience_gained"] = res.ExperienceGained
	}
	if res.BuildingLevel > 0 {
		m["building_level"] = res.BuildingLevel
	}
	if res.UnlockedUnit != "" {
		m["unlocked_unit"] = res.UnlockedUnit
	}
	if res.Sold > 0 {
		m["sold"] = res.Sold
		m["coins_gained"] = res.CoinsGained
	}
	st, err := structpb.NewStruct(m)
	if err != nil {
		return nil, fmt.Errorf("failed to build result struct: %w", err)
	}
	return st, nil
}
