package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/napolitain/catvillage/internal/models"
)

// defaultFS copies the shipped tables into a mutable in-memory file system
func defaultFS(t *testing.T) fstest.MapFS {
	t.Helper()
	fsys := fstest.MapFS{}
	for _, name := range tableFiles {
		data, err := embedded.ReadFile("data/" + name + ".yaml")
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		fsys[name+".yaml"] = &fstest.MapFile{Data: data}
	}
	return fsys
}

func TestDefaultTables(t *testing.T) {
	tables, err := DefaultTables()
	if err != nil {
		t.Fatalf("Failed to load default tables: %v", err)
	}

	wood, ok := tables.Resource(models.Wood)
	if !ok {
		t.Fatal("wood not found")
	}
	if wood.Interval != 20*time.Minute || wood.Quantum != 10 || wood.BaseLimit != 50 {
		t.Errorf("wood = %+v", wood)
	}
	if !wood.Harvestable {
		t.Error("wood should be harvestable")
	}

	coins := tables.Resources[models.Coins]
	if coins.Capped() || coins.Regenerates() {
		t.Errorf("coins should be uncapped and static: %+v", coins)
	}

	market, ok := tables.Building(models.Market)
	if !ok {
		t.Fatal("market not found")
	}
	if market.MaxLevel() != 3 {
		t.Errorf("market max level = %d, want 3", market.MaxLevel())
	}
	if rate, ok := market.TradeRate(models.Fish, 2); !ok || rate.Unit != 4 || rate.Price != 5 {
		t.Errorf("fish rate at market 2 = %+v, %v", rate, ok)
	}
	if _, ok := market.TradeRate(models.Fish, 1); ok {
		t.Error("fish should not trade at market 1")
	}

	if got := tables.Buildings[models.Warehouse].StorageBonusPercent(2); got != 50 {
		t.Errorf("warehouse level 2 storage = %d, want 50", got)
	}

	luna, ok := tables.Unit("luna")
	if !ok {
		t.Fatal("luna not found")
	}
	if d, ok := luna.Bonus.(models.BuildingDiscount); !ok || d.Pct != 10 {
		t.Errorf("luna bonus = %#v", luna.Bonus)
	}

	if tables.Pond.RegenInterval != 6*time.Hour || tables.Pond.MaxHealth != 10 {
		t.Errorf("pond = %+v", tables.Pond)
	}
	if tables.Currency != models.Coins || tables.SlotBuilding != models.CatHouse {
		t.Errorf("roles = %s/%s", tables.Currency, tables.SlotBuilding)
	}
}

func TestLoadTablesFromDir(t *testing.T) {
	dir := t.TempDir()
	for name, f := range defaultFS(t) {
		if err := os.WriteFile(filepath.Join(dir, name), f.Data, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	tables, err := LoadTables(dir)
	if err != nil {
		t.Fatalf("LoadTables: %v", err)
	}
	if len(tables.Units) != 6 {
		t.Errorf("got %d units, want 6", len(tables.Units))
	}
}

func TestLoadTablesMissingFile(t *testing.T) {
	fsys := defaultFS(t)
	delete(fsys, "units.yaml")

	_, err := LoadTablesFS(fsys)
	if err == nil || !strings.Contains(err.Error(), "units.yaml") {
		t.Errorf("expected units.yaml read error, got %v", err)
	}
}

func TestLoadTablesRejects(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{
			name: "unknown bonus kind",
			file: "units.yaml",
			content: `- id: tabby
  bonus: {kind: luck, percent: 5}
`,
			want: "schema",
		},
		{
			name: "resource bonus without resource",
			file: "units.yaml",
			content: `- id: tabby
  bonus: {kind: resource, percent: 5}
`,
			want: "schema",
		},
		{
			name: "negative cost",
			file: "buildings.yaml",
			content: `sawmill:
  levels:
    - costs: {wood: -1}
`,
			want: "schema",
		},
		{
			name: "bad duration",
			file: "resources.yaml",
			content: `wood:
  interval: soon
  quantum: 1
coins: {}
`,
			want: "schema",
		},
		{
			name: "unknown unlock unit",
			file: "buildings.yaml",
			content: `sawmill:
  levels:
    - costs: {wood: 10}
      unlocks_unit: nobody
warehouse:
  levels:
    - costs: {wood: 10}
market:
  levels:
    - costs: {wood: 10}
cat_house:
  levels:
    - costs: {wood: 10}
`,
			want: "unknown unit nobody",
		},
		{
			name: "capped currency",
			file: "resources.yaml",
			content: `wood:
  interval: 20m
  quantum: 10
  base_limit: 50
fish:
  interval: 30m
  quantum: 5
  base_limit: 40
energy:
  interval: 3m
  quantum: 1
  base_limit: 10
coins:
  base_limit: 100
`,
			want: "currency",
		},
		{
			name:    "malformed yaml",
			file:    "village.yaml",
			content: "currency: [coins\n",
			want:    "village.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := defaultFS(t)
			fsys[tt.file] = &fstest.MapFile{Data: []byte(tt.content)}

			_, err := LoadTablesFS(fsys)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestToBonus(t *testing.T) {
	b, err := toBonus(nil)
	if err != nil || b != nil {
		t.Errorf("nil bonus = %v, %v", b, err)
	}

	b, err = toBonus(&BonusYAML{Kind: "resource", Resource: "fish", Percent: 25})
	if err != nil {
		t.Fatal(err)
	}
	if rb, ok := b.(models.ResourceBonus); !ok || rb.Resource != models.Fish || rb.Pct != 25 {
		t.Errorf("got %#v", b)
	}

	if b, _ := toBonus(&BonusYAML{Kind: "trade", Percent: 15}); b.Kind() != models.BonusTrade || b.Percent() != 15 {
		t.Errorf("got %#v", b)
	}

	if _, err := toBonus(&BonusYAML{Kind: "luck"}); err == nil {
		t.Error("expected error for unknown kind")
	}
}
