package pipeline

import (
	"fmt"
	"strconv"

	"bdcli/internal/analytics"
	"bdcli/internal/config"
	"bdcli/internal/tablestore"
	"bdcli/pkg/contracts/domain"
)

// detailFileNames maps each count indicator to its artifact file.
var detailFileNames = map[domain.Indicator]string{
	domain.IndicatorActive:     config.ActiveCSV,
	domain.IndicatorBirths:     config.BirthsCSV,
	domain.IndicatorDeaths:     config.DeathsCSV,
	domain.IndicatorHighGrowth: config.HighGrowthCSV,
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func detailTable(table domain.DetailTable) tablestore.Table {
	rows := make([][]string, 0, len(table.Records))
	for _, rec := range table.Records {
		rows = append(rows, []string{
			rec.Code,
			string(rec.Level),
			strconv.Itoa(rec.Year),
			domain.FormatValue(rec.Value),
		})
	}
	return tablestore.Table{
		Name:   detailFileNames[table.Indicator],
		Header: []string{"code", "level", "year", "value"},
		Rows:   rows,
	}
}

func survivalTable(table domain.SurvivalTable) tablestore.Table {
	rows := make([][]string, 0, len(table.Records))
	for _, rec := range table.Records {
		rows = append(rows, []string{
			rec.Code,
			string(rec.Level),
			strconv.Itoa(rec.CohortYear),
			strconv.Itoa(rec.Horizon),
			domain.FormatValue(rec.Survivors),
			domain.FormatValue(rec.Rate),
		})
	}
	return tablestore.Table{
		Name:   config.SurvivalCSV,
		Header: []string{"code", "level", "cohort_year", "horizon", "survivors", "survival_rate"},
		Rows:   rows,
	}
}

func lookupTable(entries []domain.LookupEntry) tablestore.Table {
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{entry.DivisionCode, entry.GroupID, entry.GroupName})
	}
	return tablestore.Table{
		Name:   config.LookupCSV,
		Header: []string{"division_code", "group_id", "group_name"},
		Rows:   rows,
	}
}

func panelTable(panel []domain.PanelRow) tablestore.Table {
	header := []string{"code", "year", "births", "active", "deaths", "high_growth"}
	for h := 1; h <= domain.SurvivalHorizons; h++ {
		header = append(header, fmt.Sprintf("survivors_%dyr", h))
	}
	for h := 1; h <= domain.SurvivalHorizons; h++ {
		header = append(header, fmt.Sprintf("survival_rate_%dyr", h))
	}

	rows := make([][]string, 0, len(panel))
	for _, row := range panel {
		cells := []string{
			row.Code,
			strconv.Itoa(row.Year),
			domain.FormatValue(row.Births),
			domain.FormatValue(row.Active),
			domain.FormatValue(row.Deaths),
			domain.FormatValue(row.HighGrowth),
		}
		for _, v := range row.Survivors {
			cells = append(cells, domain.FormatValue(v))
		}
		for _, v := range row.SurvivalRates {
			cells = append(cells, domain.FormatValue(v))
		}
		rows = append(rows, cells)
	}
	return tablestore.Table{
		Name:   config.PanelCSV,
		Header: header,
		Rows:   rows,
	}
}

func summaryTable(summaries []domain.GroupYearSummary) tablestore.Table {
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.GroupName,
			strconv.Itoa(s.Year),
			formatFloat(s.Births),
			formatFloat(s.Active),
			formatFloat(s.Deaths),
			formatFloat(s.HighGrowth),
			formatFloat(s.Survivors1Yr),
			domain.FormatValue(s.SurvivalRate),
		})
	}
	return tablestore.Table{
		Name:   config.SummaryCSV,
		Header: []string{"group_name", "year", "births", "active", "deaths", "high_growth", "survivors_1yr", "survival_rate"},
		Rows:   rows,
	}
}

func statsTable(groupStats []analytics.GroupStats) tablestore.Table {
	rows := make([][]string, 0, len(groupStats))
	for _, gs := range groupStats {
		rows = append(rows, []string{
			gs.GroupName,
			strconv.Itoa(gs.YearsObserved),
			formatFloat(gs.TotalBirths),
			formatFloat(gs.TotalDeaths),
			domain.FormatValue(gs.ChurnRatio),
			domain.FormatValue(gs.MeanSurvivalRate),
			domain.FormatValue(gs.MedianSurvivalRate),
			domain.FormatValue(gs.StdDevSurvivalRate),
		})
	}
	return tablestore.Table{
		Name: config.GroupStatsCSV,
		Header: []string{"group_name", "years_observed", "total_births", "total_deaths",
			"churn_ratio", "mean_survival_rate", "median_survival_rate", "stddev_survival_rate"},
		Rows: rows,
	}
}
