package loader

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/napolitain/catvillage/internal/models"
)

//go:embed data/*.yaml data/tables.schema.json
var embedded embed.FS

const schemaURL = "https://catvillage.local/tables.schema.json"

// ResourceYAML represents the YAML structure for a resource
type ResourceYAML struct {
	Interval    string `yaml:"interval"`
	Quantum     int    `yaml:"quantum"`
	BaseLimit   int    `yaml:"base_limit"`
	Initial     int    `yaml:"initial"`
	Harvestable bool   `yaml:"harvestable"`
}

// TradeRateYAML represents one market rate
type TradeRateYAML struct {
	Unit  int `yaml:"unit"`
	Price int `yaml:"price"`
}

// BuildingLevelYAML represents the YAML structure for a building level
type BuildingLevelYAML struct {
	Costs          map[string]int           `yaml:"costs"`
	StoragePercent int                      `yaml:"storage_percent"`
	ActiveSlots    int                      `yaml:"active_slots"`
	TradeRates     map[string]TradeRateYAML `yaml:"trade_rates"`
	UnlocksUnit    string                   `yaml:"unlocks_unit"`
}

// BuildingYAML represents the YAML structure for buildings
type BuildingYAML struct {
	Levels []BuildingLevelYAML `yaml:"levels"`
}

// BonusYAML is the tagged form of a unit bonus
type BonusYAML struct {
	Kind     string `yaml:"kind"`
	Resource string `yaml:"resource"`
	Percent  int    `yaml:"percent"`
}

// UnitYAML represents a collectible cat
type UnitYAML struct {
	ID    string     `yaml:"id"`
	Name  string     `yaml:"name"`
	Bonus *BonusYAML `yaml:"bonus"`
}

// VillageYAML holds the village-wide settings
type VillageYAML struct {
	Currency        string `yaml:"currency"`
	StorageBuilding string `yaml:"storage_building"`
	TradingBuilding string `yaml:"trading_building"`
	SlotBuilding    string `yaml:"slot_building"`
	Player          struct {
		BaseActiveSlots int      `yaml:"base_active_slots"`
		StarterUnits    []string `yaml:"starter_units"`
	} `yaml:"player"`
	Pond *struct {
		Resource      string `yaml:"resource"`
		Energy        string `yaml:"energy"`
		MaxHealth     int    `yaml:"max_health"`
		TapsPerUnit   int    `yaml:"taps_per_unit"`
		RegenInterval string `yaml:"regen_interval"`
		RegenQuantum  int    `yaml:"regen_quantum"`
	} `yaml:"pond"`
}

var tableFiles = []string{"resources", "buildings", "units", "village"}

// DefaultTables loads the tables shipped with the binary
func DefaultTables() (*models.Tables, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, err
	}
	return LoadTablesFS(sub)
}

// LoadTables loads resources.yaml, buildings.yaml, units.yaml and
// village.yaml from a directory
func LoadTables(dataDir string) (*models.Tables, error) {
	return LoadTablesFS(os.DirFS(dataDir))
}

// LoadTablesFS loads and validates the tables from any file system
func LoadTablesFS(fsys fs.FS) (*models.Tables, error) {
	raw := make(map[string][]byte, len(tableFiles))
	doc := make(map[string]any, len(tableFiles))
	for _, name := range tableFiles {
		data, err := fs.ReadFile(fsys, name+".yaml")
		if err != nil {
			return nil, fmt.Errorf("failed to read %s.yaml: %w", name, err)
		}
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("failed to parse %s.yaml: %w", name, err)
		}
		raw[name] = data
		doc[name] = v
	}

	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	t := &models.Tables{}
	if err := loadResources(raw["resources"], t); err != nil {
		return nil, err
	}
	if err := loadBuildings(raw["buildings"], t); err != nil {
		return nil, err
	}
	if err := loadUnits(raw["units"], t); err != nil {
		return nil, err
	}
	if err := loadVillage(raw["village"], t); err != nil {
		return nil, err
	}

	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tables: %w", err)
	}
	return t, nil
}

// validateDocument checks the combined document against tables.schema.json
func validateDocument(doc map[string]any) error {
	schemaData, err := embedded.ReadFile("data/tables.schema.json")
	if err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, bytes.NewReader(schemaData)); err != nil {
		return fmt.Errorf("failed to add schema: %w", err)
	}
	schema, err := c.Compile(schemaURL)
	if err != nil {
		return fmt.Errorf("failed to compile schema: %w", err)
	}

	// Round trip through JSON so the validator sees plain JSON values
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode tables: %w", err)
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("failed to decode tables: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("tables do not match schema: %w", err)
	}
	return nil
}

func parseDuration(s, field string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	return d, nil
}

func loadResources(data []byte, t *models.Tables) error {
	var rawResources map[string]ResourceYAML
	if err := yaml.Unmarshal(data, &rawResources); err != nil {
		return fmt.Errorf("failed to parse resources.yaml: %w", err)
	}

	t.Resources = make(map[models.ResourceKind]*models.ResourceDefinition, len(rawResources))
	for name, raw := range rawResources {
		interval, err := parseDuration(raw.Interval, "resource "+name+" interval")
		if err != nil {
			return err
		}
		rk := models.ResourceKind(name)
		t.Resources[rk] = &models.ResourceDefinition{
			Kind:        rk,
			Interval:    interval,
			Quantum:     raw.Quantum,
			BaseLimit:   raw.BaseLimit,
			Initial:     raw.Initial,
			Harvestable: raw.Harvestable,
		}
	}
	return nil
}

func loadBuildings(data []byte, t *models.Tables) error {
	var rawBuildings map[string]BuildingYAML
	if err := yaml.Unmarshal(data, &rawBuildings); err != nil {
		return fmt.Errorf("failed to parse buildings.yaml: %w", err)
	}

	t.Buildings = make(map[models.BuildingKind]*models.BuildingDefinition, len(rawBuildings))
	for name, raw := range rawBuildings {
		bk := models.BuildingKind(name)
		building := &models.BuildingDefinition{
			Kind:   bk,
			Levels: make([]*models.BuildingLevel, 0, len(raw.Levels)),
		}

		for _, levelData := range raw.Levels {
			costs := make(models.Costs, len(levelData.Costs))
			for res, amount := range levelData.Costs {
				costs[models.ResourceKind(res)] = amount
			}

			bl := &models.BuildingLevel{
				Costs:          costs,
				StoragePercent: levelData.StoragePercent,
				ActiveSlots:    levelData.ActiveSlots,
				UnlocksUnit:    levelData.UnlocksUnit,
			}
			if len(levelData.TradeRates) > 0 {
				bl.TradeRates = make(map[models.ResourceKind]models.TradeRate, len(levelData.TradeRates))
				for res, rate := range levelData.TradeRates {
					bl.TradeRates[models.ResourceKind(res)] = models.TradeRate{Unit: rate.Unit, Price: rate.Price}
				}
			}

			building.Levels = append(building.Levels, bl)
		}

		t.Buildings[bk] = building
	}
	return nil
}

func loadUnits(data []byte, t *models.Tables) error {
	var rawUnits []UnitYAML
	if err := yaml.Unmarshal(data, &rawUnits); err != nil {
		return fmt.Errorf("failed to parse units.yaml: %w", err)
	}

	t.Units = make(map[string]*models.UnitDefinition, len(rawUnits))
	for _, raw := range rawUnits {
		if _, dup := t.Units[raw.ID]; dup {
			return fmt.Errorf("unit %s defined twice", raw.ID)
		}
		bonus, err := toBonus(raw.Bonus)
		if err != nil {
			return fmt.Errorf("unit %s: %w", raw.ID, err)
		}
		name := raw.Name
		if name == "" {
			name = raw.ID
		}
		t.Units[raw.ID] = &models.UnitDefinition{ID: raw.ID, Name: name, Bonus: bonus}
	}
	return nil
}

// toBonus converts the tagged YAML form into the matching Bonus variant
func toBonus(b *BonusYAML) (models.Bonus, error) {
	if b == nil {
		return nil, nil
	}
	switch models.BonusKind(b.Kind) {
	case models.BonusResource:
		if b.Resource == "" {
			return nil, fmt.Errorf("resource bonus without a resource")
		}
		return models.ResourceBonus{Resource: models.ResourceKind(b.Resource), Pct: b.Percent}, nil
	case models.BonusBuilding:
		return models.BuildingDiscount{Pct: b.Percent}, nil
	case models.BonusTrade:
		return models.TradeBonus{Pct: b.Percent}, nil
	default:
		return nil, fmt.Errorf("unknown bonus kind %q", b.Kind)
	}
}

func loadVillage(data []byte, t *models.Tables) error {
	var raw VillageYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse village.yaml: %w", err)
	}

	t.Currency = models.ResourceKind(raw.Currency)
	t.StorageBuilding = models.BuildingKind(raw.StorageBuilding)
	t.TradingBuilding = models.BuildingKind(raw.TradingBuilding)
	t.SlotBuilding = models.BuildingKind(raw.SlotBuilding)
	t.Player = models.PlayerDefaults{
		BaseActiveSlots: raw.Player.BaseActiveSlots,
		StarterUnits:    raw.Player.StarterUnits,
	}

	if p := raw.Pond; p != nil {
		interval, err := parseDuration(p.RegenInterval, "pond regen_interval")
		if err != nil {
			return err
		}
		t.Pond = models.PondDefinition{
			Resource:      models.ResourceKind(p.Resource),
			Energy:        models.ResourceKind(p.Energy),
			MaxHealth:     p.MaxHealth,
			TapsPerUnit:   p.TapsPerUnit,
			RegenInterval: interval,
			RegenQuantum:  p.RegenQuantum,
		}
	}
	return nil
}
