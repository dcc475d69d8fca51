// Package analytics derives descriptive statistics from the group-by-year
// summary for the downstream chart annotations.
package analytics

import (
	"log/slog"
	"sort"

	"github.com/montanaflynn/stats"

	"bdcli/pkg/contracts/domain"
)

// GroupStats describes one group's behavior across the analysis window.
type GroupStats struct {
	GroupName          string   `json:"group_name"`
	YearsObserved      int      `json:"years_observed"`
	TotalBirths        float64  `json:"total_births"`
	TotalDeaths        float64  `json:"total_deaths"`
	ChurnRatio         *float64 `json:"churn_ratio"`          // deaths / births, nil when no births
	MeanSurvivalRate   *float64 `json:"mean_survival_rate"`   // over years with a defined rate
	MedianSurvivalRate *float64 `json:"median_survival_rate"`
	StdDevSurvivalRate *float64 `json:"stddev_survival_rate"` // population standard deviation
}

// Compute summarizes each group across years. Years whose survival rate is
// undefined are excluded from the rate statistics instead of being counted as
// zero. Output is sorted by group name.
func Compute(logger *slog.Logger, summaries []domain.GroupYearSummary) []GroupStats {
	if logger == nil {
		logger = slog.Default()
	}

	type acc struct {
		years  int
		births float64
		deaths float64
		rates  []float64
	}
	byGroup := make(map[string]*acc)

	for _, s := range summaries {
		a := byGroup[s.GroupName]
		if a == nil {
			a = &acc{}
			byGroup[s.GroupName] = a
		}
		a.years++
		a.births += s.Births
		a.deaths += s.Deaths
		if s.SurvivalRate != nil {
			a.rates = append(a.rates, *s.SurvivalRate)
		}
	}

	names := make([]string, 0, len(byGroup))
	for name := range byGroup {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]GroupStats, 0, len(names))
	for _, name := range names {
		a := byGroup[name]
		gs := GroupStats{
			GroupName:     name,
			YearsObserved: a.years,
			TotalBirths:   a.births,
			TotalDeaths:   a.deaths,
		}
		if a.births > 0 {
			gs.ChurnRatio = domain.Float(a.deaths / a.births)
		}
		if len(a.rates) > 0 {
			if mean, err := stats.Mean(a.rates); err == nil {
				gs.MeanSurvivalRate = domain.Float(mean)
			}
			if median, err := stats.Median(a.rates); err == nil {
				gs.MedianSurvivalRate = domain.Float(median)
			}
			if sd, err := stats.StandardDeviation(a.rates); err == nil {
				gs.StdDevSurvivalRate = domain.Float(sd)
			}
		}
		out = append(out, gs)
	}

	logger.Info("group statistics computed", slog.Int("groups", len(out)))

	return out
}
