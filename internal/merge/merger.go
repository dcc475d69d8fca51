// Package merge joins the normalized indicator tables into one
// division-by-year panel.
//
// The births table is the anchor: its (code, year) keys define the row set.
// Secondary indicators never add rows; where they have no match the panel
// keeps an explicit null instead of a zero.
package merge

import (
	"fmt"
	"log/slog"
	"sort"

	"bdcli/internal/errors"
	"bdcli/pkg/contracts/domain"
)

const stageName = "merge"

// Merger builds the industry-by-year panel from extracted tables.
type Merger struct {
	logger   *slog.Logger
	yearFrom int
	yearTo   int
}

// NewMerger creates a merger restricted to the given year window (inclusive).
func NewMerger(logger *slog.Logger, yearFrom, yearTo int) *Merger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Merger{logger: logger, yearFrom: yearFrom, yearTo: yearTo}
}

type key struct {
	code string
	year int
}

// Merge left-joins the secondary indicators onto the births anchor by exact
// (code, year). All inputs are restricted to division level and the year
// window first. Duplicate keys within any single table are a fatal
// join-integrity failure: silently merging them would inflate the panel.
func (m *Merger) Merge(
	births, active, deaths, highGrowth domain.DetailTable,
	survival domain.SurvivalTable,
) ([]domain.PanelRow, error) {
	anchor := m.window(births)
	if len(anchor) == 0 {
		return nil, errors.Structural(stageName, string(births.Indicator), "anchor table has no division rows in the year window")
	}

	anchorIdx, err := m.index(births.Indicator, anchor)
	if err != nil {
		return nil, err
	}
	activeIdx, err := m.index(active.Indicator, m.window(active))
	if err != nil {
		return nil, err
	}
	deathsIdx, err := m.index(deaths.Indicator, m.window(deaths))
	if err != nil {
		return nil, err
	}
	growthIdx, err := m.index(highGrowth.Indicator, m.window(highGrowth))
	if err != nil {
		return nil, err
	}
	survivalIdx, err := m.indexSurvival(survival)
	if err != nil {
		return nil, err
	}

	keys := make([]key, 0, len(anchorIdx))
	for k := range anchorIdx {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].code != keys[j].code {
			return keys[i].code < keys[j].code
		}
		return keys[i].year < keys[j].year
	})

	rows := make([]domain.PanelRow, 0, len(keys))
	for _, k := range keys {
		row := domain.PanelRow{
			Code:       k.code,
			Year:       k.year,
			Births:     anchorIdx[k],
			Active:     activeIdx[k],
			Deaths:     deathsIdx[k],
			HighGrowth: growthIdx[k],
		}
		for _, rec := range survivalIdx[k] {
			row.Survivors[rec.Horizon-1] = rec.Survivors
			row.SurvivalRates[rec.Horizon-1] = rec.Rate
		}
		rows = append(rows, row)
	}

	m.logger.Info("panel merged",
		slog.Int("rows", len(rows)),
		slog.Int("year_from", m.yearFrom),
		slog.Int("year_to", m.yearTo))

	return rows, nil
}

// window restricts a detail table to division-level records inside the
// configured year window.
func (m *Merger) window(table domain.DetailTable) []domain.DetailRecord {
	out := make([]domain.DetailRecord, 0, len(table.Records))
	for _, rec := range table.Records {
		if rec.Level != domain.LevelDivision {
			continue
		}
		if rec.Year < m.yearFrom || rec.Year > m.yearTo {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// index builds the (code, year) → value map for one indicator, failing on
// duplicate keys.
func (m *Merger) index(indicator domain.Indicator, records []domain.DetailRecord) (map[key]*float64, error) {
	idx := make(map[key]*float64, len(records))
	var dups []string

	for _, rec := range records {
		k := key{code: rec.Code, year: rec.Year}
		if _, exists := idx[k]; exists {
			dups = append(dups, fmt.Sprintf("(%s, %d)", k.code, k.year))
			continue
		}
		idx[k] = rec.Value
	}

	if len(dups) > 0 {
		sort.Strings(dups)
		return nil, errors.JoinIntegrity(stageName, string(indicator), dups)
	}
	return idx, nil
}

// indexSurvival groups survival records by (code, cohort year), restricted to
// divisions inside the year window. Duplicate (code, cohort, horizon) keys
// are fatal for the same reason duplicate detail keys are.
func (m *Merger) indexSurvival(table domain.SurvivalTable) (map[key][]domain.SurvivalRecord, error) {
	idx := make(map[key][]domain.SurvivalRecord)
	seen := make(map[string]bool)
	var dups []string

	for _, rec := range table.Records {
		if rec.Level != domain.LevelDivision {
			continue
		}
		if rec.CohortYear < m.yearFrom || rec.CohortYear > m.yearTo {
			continue
		}
		if rec.Horizon < 1 || rec.Horizon > domain.SurvivalHorizons {
			continue
		}

		dupKey := fmt.Sprintf("(%s, %d, %d)", rec.Code, rec.CohortYear, rec.Horizon)
		if seen[dupKey] {
			dups = append(dups, dupKey)
			continue
		}
		seen[dupKey] = true

		k := key{code: rec.Code, year: rec.CohortYear}
		idx[k] = append(idx[k], rec)
	}

	if len(dups) > 0 {
		sort.Strings(dups)
		return nil, errors.JoinIntegrity(stageName, string(domain.IndicatorSurvival), dups)
	}
	return idx, nil
}
