// Package planner ranks building upgrades by how soon regeneration alone
// makes them affordable.
package planner

import (
	"sort"
	"time"

	"github.com/napolitain/catvillage/internal/economy"
	"github.com/napolitain/catvillage/internal/models"
	"github.com/napolitain/catvillage/internal/regen"
)

// Option is one candidate building upgrade
type Option struct {
	Building  models.BuildingKind
	ToLevel   int
	Costs     models.Costs
	TotalCost int
	Wait      time.Duration // 0 when affordable now
	Reachable bool          // false when waiting can never cover the cost
}

// Options evaluates the next level of every building, best first.
// Buildings at max level are skipped.
func Options(e *economy.Engine, s *models.PlayerSnapshot, now time.Time) []Option {
	t := e.Tables()
	view, _ := e.Regenerate(s, now)

	var options []Option
	for _, bk := range t.BuildingKinds() {
		costs, err := e.UpgradeCost(view, bk)
		if err != nil {
			continue // max level
		}
		wait, ok := waitTime(view, t, costs, now)
		total := 0
		for _, v := range costs {
			total += v
		}
		options = append(options, Option{
			Building:  bk,
			ToLevel:   view.BuildingLevel(bk) + 1,
			Costs:     costs,
			TotalCost: total,
			Wait:      wait,
			Reachable: ok,
		})
	}

	sort.SliceStable(options, func(i, j int) bool {
		a, b := options[i], options[j]
		if a.Reachable != b.Reachable {
			return a.Reachable
		}
		if a.Wait != b.Wait {
			return a.Wait < b.Wait
		}
		if a.TotalCost != b.TotalCost {
			return a.TotalCost < b.TotalCost
		}
		return a.Building < b.Building
	})
	return options
}

// Next returns the best reachable upgrade
func Next(e *economy.Engine, s *models.PlayerSnapshot, now time.Time) (Option, bool) {
	options := Options(e, s, now)
	if len(options) == 0 || !options[0].Reachable {
		return Option{}, false
	}
	return options[0], true
}

// waitTime returns how long until regeneration covers costs.
// s must already be regenerated to now.
func waitTime(s *models.PlayerSnapshot, t *models.Tables, costs models.Costs, now time.Time) (time.Duration, bool) {
	var maxWait time.Duration

	// Deterministic order
	for _, rk := range costs.Kinds() {
		cost := costs[rk]
		have := s.Amount(rk)
		if have >= cost {
			continue
		}

		def, ok := t.Resource(rk)
		if !ok || !def.Regenerates() {
			return 0, false // Cannot produce
		}
		if limit := regen.StorageLimit(s, def); limit > 0 && cost > limit {
			return 0, false
		}

		shortfall := cost - have
		periods := (shortfall + def.Quantum - 1) / def.Quantum
		ready := s.Resources[rk].LastRegenerationTimestamp.Add(time.Duration(periods) * def.Interval)
		if wait := ready.Sub(now); wait > maxWait {
			maxWait = wait
		}
	}
	return maxWait, true
}
