// Package regen computes elapsed-time resource accrual.
//
// Every function takes the current time explicitly. A stored timestamp only
// ever advances by whole periods, so partial progress toward the next period
// survives repeated calls and a capped resource never drifts into the past.
package regen

import (
	"time"

	"github.com/napolitain/catvillage/internal/models"
)

// Rule parameterizes one regenerating quantity
type Rule struct {
	Interval time.Duration
	Quantum  int
	Limit    int // <= 0 means uncapped
}

// Step advances amount and last by the whole periods elapsed at now.
// The amount never exceeds Limit but is not reduced if already above it.
func Step(amount int, last time.Time, rule Rule, now time.Time) (int, time.Time) {
	if rule.Interval <= 0 || rule.Quantum <= 0 {
		return amount, last
	}
	if last.IsZero() {
		// Nothing to catch up from; start the clock.
		return amount, now
	}

	elapsed := now.Sub(last)
	if elapsed < rule.Interval {
		return amount, last
	}

	periods := int64(elapsed / rule.Interval)
	last = last.Add(time.Duration(periods) * rule.Interval)

	if rule.Limit > 0 && amount >= rule.Limit {
		return amount, last
	}

	gained := periods * int64(rule.Quantum)
	next := int64(amount) + gained
	if rule.Limit > 0 && next > int64(rule.Limit) {
		next = int64(rule.Limit)
	}
	return int(next), last
}

// Regenerate applies catch-up regeneration to one resource
func Regenerate(rs models.ResourceState, def *models.ResourceDefinition, limit int, now time.Time) models.ResourceState {
	if !def.Regenerates() {
		return rs
	}
	if !def.Capped() {
		limit = 0
	}
	rs.Amount, rs.LastRegenerationTimestamp = Step(rs.Amount, rs.LastRegenerationTimestamp, Rule{
		Interval: def.Interval,
		Quantum:  def.Quantum,
		Limit:    limit,
	}, now)
	return rs
}

// StorageLimit returns the effective cap of a resource for a player, 0 if uncapped
func StorageLimit(s *models.PlayerSnapshot, def *models.ResourceDefinition) int {
	if !def.Capped() {
		return 0
	}
	if limit, ok := s.StorageLimits[def.Kind]; ok {
		return limit
	}
	return def.BaseLimit
}

// All regenerates every resource and the pond of a snapshot in place.
// It returns the amount gained per resource.
func All(s *models.PlayerSnapshot, t *models.Tables, now time.Time) models.Costs {
	gained := make(models.Costs)
	for _, rk := range t.ResourceKinds() {
		def := t.Resources[rk]
		if !def.Regenerates() {
			continue
		}
		before := s.Resources[rk]
		after := Regenerate(before, def, StorageLimit(s, def), now)
		s.Resources[rk] = after
		if d := after.Amount - before.Amount; d > 0 {
			gained[rk] = d
		}
	}
	if s.Pond.Initialized() {
		s.Pond = RegeneratePond(s.Pond, t.Pond.RegenInterval, t.Pond.RegenQuantum, now)
	}
	return gained
}

// RegeneratePond restores pond health with an explicit interval and quantum
func RegeneratePond(p models.PondState, interval time.Duration, quantum int, now time.Time) models.PondState {
	p.Health, p.LastRegenerationTimestamp = Step(p.Health, p.LastRegenerationTimestamp, Rule{
		Interval: interval,
		Quantum:  quantum,
		Limit:    p.MaxHealth,
	}, now)
	return p
}

// TimeUntilNext returns how long until the next period completes
func TimeUntilNext(last time.Time, interval time.Duration, now time.Time) time.Duration {
	remaining := interval - now.Sub(last)
	if remaining < 0 {
		return 0
	}
	return remaining
}
