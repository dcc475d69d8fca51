// Package aggregate rolls the division-by-year panel up to the configured
// coarse industry groups.
package aggregate

import (
	"log/slog"
	"sort"
	"strings"

	"bdcli/internal/lookup"
	"bdcli/pkg/contracts/domain"
)

// MissingPolicy names how null metrics behave during summation. The policy is
// an explicit parameter so tests can pin the behavior instead of relying on
// whatever the group-by happens to do. Only nulls in the summed counts are
// affected; the survival-rate derivation always distinguishes "no births
// observed" from "zero births".
type MissingPolicy string

// MissingAsZero sums over nulls as if they were zero.
const MissingAsZero MissingPolicy = "zero"

// Aggregator produces the group-by-year summary from panel rows.
type Aggregator struct {
	logger  *slog.Logger
	groups  []string
	missing MissingPolicy
}

// NewAggregator creates an aggregator restricted to the given allow-list of
// group names.
func NewAggregator(logger *slog.Logger, groups []string, missing MissingPolicy) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	if missing == "" {
		missing = MissingAsZero
	}
	return &Aggregator{logger: logger, groups: groups, missing: missing}
}

// PadCode left-pads a division code to the fixed two-digit width. Source data
// and the lookup disagree on padding often enough that both sides of the join
// go through this before matching.
func PadCode(code string) string {
	code = strings.TrimSpace(code)
	if len(code) == 1 {
		return "0" + code
	}
	return code
}

type groupYear struct {
	group string
	year  int
}

// fold adds one nullable observation into a running sum under the policy.
func (p MissingPolicy) fold(sum float64, v *float64) float64 {
	if v == nil {
		// MissingAsZero: a null contributes nothing to the sum.
		return sum
	}
	return sum + *v
}

// Summarize joins the panel onto the filtered lookup and aggregates per
// (group, year). The join keeps only divisions belonging to configured
// groups; configured divisions with no panel data still surface (with zeroed
// sums from all-null metrics) rather than disappearing. The survival rate is
// derived after summation: survivors-1yr over births when births > 0,
// undefined otherwise.
func (a *Aggregator) Summarize(panel []domain.PanelRow, entries []domain.LookupEntry) []domain.GroupYearSummary {
	filtered := lookup.Filter(entries, a.groups)

	groupByDivision := make(map[string]string, len(filtered))
	for _, entry := range filtered {
		groupByDivision[PadCode(entry.DivisionCode)] = entry.GroupName
	}

	years := make(map[int]bool)
	for _, row := range panel {
		years[row.Year] = true
	}

	type acc struct {
		births, active, deaths, highGrowth, survivors1 float64
	}
	sums := make(map[groupYear]*acc)

	get := func(k groupYear) *acc {
		if sums[k] == nil {
			sums[k] = &acc{}
		}
		return sums[k]
	}

	for _, row := range panel {
		group, ok := groupByDivision[PadCode(row.Code)]
		if !ok {
			continue // unmapped divisions never reach the summary
		}
		k := groupYear{group: group, year: row.Year}
		s := get(k)
		s.births = a.missing.fold(s.births, row.Births)
		s.active = a.missing.fold(s.active, row.Active)
		s.deaths = a.missing.fold(s.deaths, row.Deaths)
		s.highGrowth = a.missing.fold(s.highGrowth, row.HighGrowth)
		s.survivors1 = a.missing.fold(s.survivors1, row.Survivors[0])
	}

	// Configured groups with no panel rows still get a (group, year) row per
	// observed year, visibly empty rather than silently absent.
	for _, entry := range filtered {
		for year := range years {
			get(groupYear{group: entry.GroupName, year: year})
		}
	}

	keys := make([]groupYear, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].group != keys[j].group {
			return keys[i].group < keys[j].group
		}
		return keys[i].year < keys[j].year
	})

	out := make([]domain.GroupYearSummary, 0, len(keys))
	for _, k := range keys {
		s := sums[k]
		summary := domain.GroupYearSummary{
			GroupName:    k.group,
			Year:         k.year,
			Births:       s.births,
			Active:       s.active,
			Deaths:       s.deaths,
			HighGrowth:   s.highGrowth,
			Survivors1Yr: s.survivors1,
		}
		if summary.Births > 0 {
			summary.SurvivalRate = domain.Float(summary.Survivors1Yr / summary.Births)
		}
		out = append(out, summary)
	}

	a.logger.Info("panel aggregated",
		slog.Int("groups", len(a.groups)),
		slog.Int("summary_rows", len(out)),
		slog.String("missing_policy", string(a.missing)))

	return out
}
