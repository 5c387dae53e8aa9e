package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/napolitain/catvillage/internal/economy"
	"github.com/napolitain/catvillage/internal/models"
	"github.com/napolitain/catvillage/internal/planner"
	"github.com/napolitain/catvillage/internal/service"
	"github.com/napolitain/catvillage/internal/store"
)

var messages = map[string]string{
	"harvest.ok":       "Harvested",
	"harvest.capped":   "Harvested (storage full, excess lost)",
	"upgrade.ok":       "Upgraded",
	"sell.ok":          "Sold",
	"unit.activated":   "Cat is now working",
	"unit.deactivated": "Cat is resting",
	"unit.unchanged":   "Nothing to do",
	"tap.ok":           "Tapped the pond",
	"tap.harvested":    "Tapped the pond and caught something",
	"regenerate.ok":    "Regenerated",
	"experience.ok":    "Experience gained",
}

func printResult(w io.Writer, t *models.Tables, res economy.Result, quiet bool) {
	successColor := color.New(color.FgGreen, color.Bold)
	infoColor := color.New(color.FgYellow)

	text, ok := messages[res.MessageKey]
	if !ok {
		text = res.MessageKey
	}
	if quiet {
		fmt.Fprintln(w, res.MessageKey)
		return
	}

	switch {
	case res.BuildingLevel > 0:
		successColor.Fprintf(w, "✓ %s to level %d\n", text, res.BuildingLevel)
	case res.Sold > 0:
		successColor.Fprintf(w, "✓ %s %d for %d %s\n", text, res.Sold, res.CoinsGained, t.Currency)
	default:
		successColor.Fprintf(w, "✓ %s\n", text)
	}

	if len(res.Spent) > 0 {
		fmt.Fprintf(w, "   Spent:   %s\n", formatCosts(res.Spent))
	}
	if len(res.Granted) > 0 {
		fmt.Fprintf(w, "   Gained:  %s\n", formatCosts(res.Granted))
	}
	if res.ExperienceGained > 0 {
		fmt.Fprintf(w, "   XP:      +%d\n", res.ExperienceGained)
	}
	if res.LeveledUp {
		infoColor.Fprintf(w, "🎉 Level up! You are now level %d\n", res.Level)
	}
	if res.UnlockedUnit != "" {
		name := res.UnlockedUnit
		if u, ok := t.Unit(name); ok {
			name = u.Name
		}
		infoColor.Fprintf(w, "🐱 %s joined the village\n", name)
	}
}

func printStatus(w io.Writer, id string, e *env, status service.Status, quiet bool) {
	titleColor := color.New(color.FgCyan, color.Bold)
	s := status.Snapshot

	if !quiet {
		titleColor.Fprintf(w, "\n🏡 Player %s\n", id)
		fmt.Fprintf(w, "   Level %d (%d/%d xp)\n\n", s.Level, s.Experience, s.Level*economy.ExperiencePerPlayerLevel)
	}

	next := make(map[models.ResourceKind]time.Duration, len(status.Resources))
	for _, rs := range status.Resources {
		if !rs.Full {
			next[rs.Kind] = rs.NextIn
		}
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Resource", "Amount", "Limit", "Next"}),
	)
	for _, rk := range e.tables.ResourceKinds() {
		limit := "∞"
		if l, ok := s.StorageLimits[rk]; ok {
			limit = fmt.Sprintf("%d", l)
		}
		nextStr := "-"
		if d, ok := next[rk]; ok {
			nextStr = formatDuration(d)
		} else if e.tables.Resources[rk].Regenerates() {
			nextStr = "full"
		}
		_ = table.Append([]string{formatName(string(rk)), fmt.Sprintf("%d", s.Amount(rk)), limit, nextStr})
	}
	_ = table.Render()

	fmt.Fprintln(w)
	table = tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Building", "Level", "Next Cost"}),
	)
	for _, bk := range e.tables.BuildingKinds() {
		def := e.tables.Buildings[bk]
		costStr := "max"
		cost, err := e.engine.UpgradeCost(s, bk)
		if err == nil {
			costStr = formatCosts(cost)
		} else if !errors.Is(err, economy.ErrMaxLevelReached) {
			costStr = err.Error()
		}
		_ = table.Append([]string{
			formatName(string(bk)),
			fmt.Sprintf("%d/%d", s.BuildingLevel(bk), def.MaxLevel()),
			costStr,
		})
	}
	_ = table.Render()

	fmt.Fprintln(w)
	printCats(w, e.tables, s)

	if p := status.Pond; p.MaxHealth > 0 {
		fmt.Fprintf(w, "\n🎣 Pond: health %d/%d, taps %d/%d", p.Health, p.MaxHealth, p.TapCount, p.TapsPerUnit)
		if p.Health < p.MaxHealth {
			fmt.Fprintf(w, ", refills in %s", formatDuration(p.NextIn))
		}
		fmt.Fprintln(w)
	}
}

func printCats(w io.Writer, t *models.Tables, s *models.PlayerSnapshot) {
	fmt.Fprintf(w, "🐱 Cats working: %d/%d\n", s.ActiveUnitCount, s.MaxActiveUnits)
	if len(s.Units) == 0 {
		fmt.Fprintln(w, "   (no cats yet)")
		return
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Cat", "Id", "Bonus", "Working"}),
	)
	for _, u := range s.Units {
		name, bonus := u.UnitID, "?"
		if def, ok := t.Unit(u.UnitID); ok {
			name = def.Name
			bonus = describeBonus(def.Bonus)
		}
		working := ""
		if u.Active {
			working = "✓"
		}
		_ = table.Append([]string{name, u.UnitID, bonus, working})
	}
	_ = table.Render()
}

func printPlan(w io.Writer, options []planner.Option, quiet bool) {
	// Quiet mode prints only the best action, machine readable
	if quiet {
		if len(options) == 0 || !options[0].Reachable {
			fmt.Fprintln(w, "none")
			return
		}
		fmt.Fprintf(w, "building:%s:%d\n", options[0].Building, options[0].ToLevel)
		return
	}

	if len(options) == 0 {
		color.New(color.FgGreen, color.Bold).Fprintln(w, "✓ Every building is at max level")
		return
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"#", "Building", "Upgrade", "Costs", "Ready In"}),
	)
	for i, o := range options {
		ready := "now"
		switch {
		case !o.Reachable:
			ready = "never (wait alone)"
		case o.Wait > 0:
			ready = formatDuration(o.Wait)
		}
		_ = table.Append([]string{
			fmt.Sprintf("%d", i+1),
			formatName(string(o.Building)),
			fmt.Sprintf("%d → %d", o.ToLevel-1, o.ToLevel),
			formatCosts(o.Costs),
			ready,
		})
	}
	_ = table.Render()
}

func printHistory(w io.Writer, entries []store.HistoryEntry) {
	errorColor := color.New(color.FgRed)
	if len(entries) == 0 {
		fmt.Fprintln(w, "No history")
		return
	}
	for _, e := range entries {
		line := fmt.Sprintf("%s  %-24s %s", e.At.Format(time.RFC3339), e.Action, e.MessageKey)
		if e.OK {
			fmt.Fprintf(w, "✓ %s\n", line)
		} else {
			errorColor.Fprintf(w, "✗ %s\n", line)
		}
	}
}

func printTables(w io.Writer, t *models.Tables) {
	titleColor := color.New(color.FgCyan, color.Bold)

	titleColor.Fprintln(w, "📦 Resources")
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Resource", "Every", "Gain", "Limit", "Initial", "Harvestable"}),
	)
	for _, rk := range t.ResourceKinds() {
		d := t.Resources[rk]
		every, gain, limit := "-", "-", "∞"
		if d.Regenerates() {
			every = d.Interval.String()
			gain = fmt.Sprintf("%d", d.Quantum)
		}
		if d.Capped() {
			limit = fmt.Sprintf("%d", d.BaseLimit)
		}
		harvestable := ""
		if d.Harvestable {
			harvestable = "✓"
		}
		_ = table.Append([]string{formatName(string(rk)), every, gain, limit, fmt.Sprintf("%d", d.Initial), harvestable})
	}
	_ = table.Render()

	titleColor.Fprintln(w, "\n🏗️ Buildings")
	table = tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Building", "Level", "Costs", "Effect"}),
	)
	for _, bk := range t.BuildingKinds() {
		for i, lvl := range t.Buildings[bk].Levels {
			_ = table.Append([]string{formatName(string(bk)), fmt.Sprintf("%d", i+1), formatCosts(lvl.Costs), describeLevel(t, lvl)})
		}
	}
	_ = table.Render()

	titleColor.Fprintln(w, "\n🐱 Cats")
	table = tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Cat", "Id", "Bonus"}),
	)
	for _, id := range t.UnitIDs() {
		u := t.Units[id]
		_ = table.Append([]string{u.Name, id, describeBonus(u.Bonus)})
	}
	_ = table.Render()
}

func describeLevel(t *models.Tables, lvl *models.BuildingLevel) string {
	var parts []string
	if lvl.StoragePercent > 0 {
		parts = append(parts, fmt.Sprintf("storage +%d%%", lvl.StoragePercent))
	}
	if lvl.ActiveSlots > 0 {
		parts = append(parts, fmt.Sprintf("+%d cat slots", lvl.ActiveSlots))
	}
	for _, rk := range t.ResourceKinds() {
		if rate, ok := lvl.TradeRates[rk]; ok {
			parts = append(parts, fmt.Sprintf("sell %d %s for %d", rate.Unit, rk, rate.Price))
		}
	}
	if lvl.UnlocksUnit != "" {
		parts = append(parts, "unlocks "+lvl.UnlocksUnit)
	}
	return strings.Join(parts, ", ")
}

func describeBonus(b models.Bonus) string {
	switch b := b.(type) {
	case models.ResourceBonus:
		return fmt.Sprintf("+%d%% %s harvest", b.Pct, b.Resource)
	case models.BuildingDiscount:
		return fmt.Sprintf("-%d%% building costs", b.Pct)
	case models.TradeBonus:
		return fmt.Sprintf("+%d%% trade income", b.Pct)
	default:
		return "-"
	}
}

func formatDuration(d time.Duration) string {
	seconds := int(d / time.Second)
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}

func formatCosts(costs models.Costs) string {
	if len(costs) == 0 {
		return "free"
	}
	parts := make([]string, 0, len(costs))
	for _, rk := range costs.Kinds() {
		parts = append(parts, fmt.Sprintf("%s:%d", rk, costs[rk]))
	}
	return strings.Join(parts, " ")
}

func formatName(name string) string {
	name = strings.ReplaceAll(name, "_", " ")
	words := strings.Fields(name)
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
