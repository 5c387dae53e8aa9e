// Package converter provides conversions between proto and model types
package converter

import (
	"errors"
	"fmt"
	"time"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/napolitain/catvillage/internal/models"
)

// SnapshotVersion is written into every encoded snapshot
const SnapshotVersion = 1

// ErrUnsupportedVersion is returned for snapshots written by a newer format
var ErrUnsupportedVersion = errors.New("unsupported snapshot version")

// SnapshotToProto converts a snapshot into a protobuf Struct
func SnapshotToProto(s *models.PlayerSnapshot) (*structpb.Struct, error) {
	resources := make(map[string]any, len(s.Resources))
	for rk, rs := range s.Resources {
		resources[string(rk)] = map[string]any{
			"amount":            rs.Amount,
			"last_regeneration": formatTime(rs.LastRegenerationTimestamp),
		}
	}

	buildings := make(map[string]any, len(s.Buildings))
	for bk, bs := range s.Buildings {
		buildings[string(bk)] = map[string]any{
			"level": bs.Level,
			"built": bs.Built,
		}
	}

	units := make([]any, 0, len(s.Units))
	for _, u := range s.Units {
		units = append(units, map[string]any{
			"id":     u.UnitID,
			"active": u.Active,
		})
	}

	limits := make(map[string]any, len(s.StorageLimits))
	for rk, limit := range s.StorageLimits {
		limits[string(rk)] = limit
	}

	st, err := structpb.NewStruct(map[string]any{
		"version":           SnapshotVersion,
		"level":             s.Level,
		"experience":        s.Experience,
		"resources":         resources,
		"buildings":         buildings,
		"units":             units,
		"active_unit_count": s.ActiveUnitCount,
		"max_active_units":  s.MaxActiveUnits,
		"storage_limits":    limits,
		"pond": map[string]any{
			"health":            s.Pond.Health,
			"max_health":        s.Pond.MaxHealth,
			"last_regeneration": formatTime(s.Pond.LastRegenerationTimestamp),
			"tap_count":         s.Pond.TapCount,
			"taps_per_unit":     s.Pond.TapsPerUnit,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build snapshot struct: %w", err)
	}
	return st, nil
}

// ProtoToSnapshot converts a protobuf Struct back into a snapshot
func ProtoToSnapshot(st *structpb.Struct) (*models.PlayerSnapshot, error) {
	if st == nil {
		return nil, fmt.Errorf("nil snapshot struct")
	}
	m := st.AsMap()

	if v := intField(m, "version"); v > SnapshotVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
	}

	s := models.NewPlayerSnapshot()
	s.Level = intField(m, "level")
	s.Experience = intField(m, "experience")
	s.ActiveUnitCount = intField(m, "active_unit_count")
	s.MaxActiveUnits = intField(m, "max_active_units")

	for name, raw := range mapField(m, "resources") {
		rm, _ := raw.(map[string]any)
		ts, err := parseTime(stringField(rm, "last_regeneration"))
		if err != nil {
			return nil, fmt.Errorf("resource %s: %w", name, err)
		}
		s.Resources[models.ResourceKind(name)] = models.ResourceState{
			Amount:                    intField(rm, "amount"),
			LastRegenerationTimestamp: ts,
		}
	}

	for name, raw := range mapField(m, "buildings") {
		bm, _ := raw.(map[string]any)
		s.Buildings[models.BuildingKind(name)] = models.BuildingState{
			Level: intField(bm, "level"),
			Built: boolField(bm, "built"),
		}
	}

	if list, ok := m["units"].([]any); ok {
		for _, raw := range list {
			um, _ := raw.(map[string]any)
			s.Units = append(s.Units, models.UnitRef{
				UnitID: stringField(um, "id"),
				Active: boolField(um, "active"),
			})
		}
	}

	limits := mapField(m, "storage_limits")
	for name := range limits {
		s.StorageLimits[models.ResourceKind(name)] = intField(limits, name)
	}

	pm := mapField(m, "pond")
	ts, err := parseTime(stringField(pm, "last_regeneration"))
	if err != nil {
		return nil, fmt.Errorf("pond: %w", err)
	}
	s.Pond = models.PondState{
		Health:                    intField(pm, "health"),
		MaxHealth:                 intField(pm, "max_health"),
		LastRegenerationTimestamp: ts,
		TapCount:                  intField(pm, "tap_count"),
		TapsPerUnit:               intField(pm, "taps_per_unit"),
	}

	return s, nil
}

// EncodeSnapshot serializes a snapshot to protobuf wire format
func EncodeSnapshot(s *models.PlayerSnapshot) ([]byte, error) {
	st, err := SnapshotToProto(s)
	if err != nil {
		return nil, err
	}
	data, err := proto.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses the output of EncodeSnapshot
func DecodeSnapshot(data []byte) (*models.PlayerSnapshot, error) {
	var st structpb.Struct
	if err := proto.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return ProtoToSnapshot(&st)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

func mapField(m map[string]any, key string) map[string]any {
	v, _ := m[key].(map[string]any)
	return v
}

// Struct numbers are doubles
func intField(m map[string]any, key string) int {
	v, _ := m[key].(float64)
	return int(v)
}

func stringField(m map[string]any, key string) string {
	v, _ := m[key].(string)
	return v
}

func boolField(m map[string]any, key string) bool {
	v, _ := m[key].(bool)
	return v
}
