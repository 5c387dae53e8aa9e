package models

// BonusKind names the effect family of a unit bonus
type BonusKind string

const (
	BonusResource BonusKind = "resource"
	BonusBuilding BonusKind = "building"
	BonusTrade    BonusKind = "trade"
)

// Bonus is the effect an active unit grants. It is one of
// ResourceBonus, BuildingDiscount or TradeBonus.
type Bonus interface {
	Kind() BonusKind
	Percent() int
}

// ResourceBonus raises harvest yield of one resource
type ResourceBonus struct {
	Resource ResourceKind
	Pct      int
}

func (b ResourceBonus) Kind() BonusKind { return BonusResource }
func (b ResourceBonus) Percent() int    { return b.Pct }

// BuildingDiscount lowers every building upgrade cost component
type BuildingDiscount struct {
	Pct int
}

func (b BuildingDiscount) Kind() BonusKind { return BonusBuilding }
func (b BuildingDiscount) Percent() int    { return b.Pct }

// TradeBonus raises coins received when selling
type TradeBonus struct {
	Pct int
}

func (b TradeBonus) Kind() BonusKind { return BonusTrade }
func (b TradeBonus) Percent() int    { return b.Pct }

// UnitDefinition describes a collectible cat
type UnitDefinition struct {
	ID    string
	Name  string
	Bonus Bonus // nil for purely cosmetic units
}
