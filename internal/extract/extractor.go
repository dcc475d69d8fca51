package extract

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"bdcli/internal/classify"
	"bdcli/internal/errors"
	"bdcli/pkg/contracts/domain"
)

const stageName = "extract"

// Extractor converts raw workbook sheets into normalized long-format tables.
// One Extractor serves every indicator; the per-sheet differences live in the
// SheetSchema it is handed.
type Extractor struct {
	logger *slog.Logger
}

// NewExtractor creates an extractor.
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// grid loads a sheet, skips the declared metadata rows and strips empty rows
// and columns. The returned grid's first row is the header.
func (e *Extractor) grid(f *excelize.File, schema SheetSchema) ([][]string, error) {
	rows, err := f.GetRows(schema.SheetName)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeStructural, stageName,
			fmt.Sprintf("%s: sheet not readable", schema.SheetName))
	}

	if schema.HeaderSkip < len(rows) {
		rows = rows[schema.HeaderSkip:]
	} else {
		rows = nil
	}

	rows = dropEmptyColumns(dropEmptyRows(rows))
	if len(rows) == 0 {
		return nil, errors.Structural(stageName, schema.SheetName, "no rows after header skip")
	}
	return rows, nil
}

// ExtractIndicator parses one count-indicator sheet into a DetailTable.
// Parse failures on individual cells become null values; structural problems
// (no year columns, no data rows) abort the run.
func (e *Extractor) ExtractIndicator(f *excelize.File, schema SheetSchema) (domain.DetailTable, error) {
	if err := schema.Validate(); err != nil {
		return domain.DetailTable{}, errors.Wrap(err, errors.CodeConfig, stageName, "invalid sheet schema")
	}

	grid, err := e.grid(f, schema)
	if err != nil {
		return domain.DetailTable{}, err
	}

	if len(yearColumns(grid[0])) == 0 {
		return domain.DetailTable{}, errors.Structural(stageName, schema.SheetName, "no year-like columns")
	}

	table := domain.DetailTable{Indicator: schema.Indicator}
	for _, cell := range Melt(grid) {
		code, level := classify.Classify(cell.Label)
		if !schema.retains(level) {
			continue
		}
		table.Records = append(table.Records, domain.DetailRecord{
			Code:  code,
			Level: level,
			Year:  cell.Year,
			Value: domain.ParseValue(cell.Value),
		})
	}

	if len(table.Records) == 0 {
		return domain.DetailTable{}, errors.Structural(stageName, schema.SheetName, "no data rows after classification")
	}

	e.logger.Info("indicator extracted",
		slog.String("sheet", schema.SheetName),
		slog.String("indicator", string(schema.Indicator)),
		slog.Int("records", len(table.Records)))

	return table, nil
}

// ExtractSurvival parses the survival cohort sheets and concatenates them
// into one table keyed by (code, cohort year, horizon). Each sheet's columns
// carry measurement years ("2021") and matching rates ("2021 %"); the cohort
// year itself comes from the schema since the sheets omit it.
func (e *Extractor) ExtractSurvival(f *excelize.File, schemas []SheetSchema) (domain.SurvivalTable, error) {
	var table domain.SurvivalTable

	for _, schema := range schemas {
		if err := schema.Validate(); err != nil {
			return domain.SurvivalTable{}, errors.Wrap(err, errors.CodeConfig, stageName, "invalid sheet schema")
		}

		records, err := e.extractCohort(f, schema)
		if err != nil {
			return domain.SurvivalTable{}, err
		}
		table.Records = append(table.Records, records...)
	}

	e.logger.Info("survival cohorts extracted",
		slog.Int("sheets", len(schemas)),
		slog.Int("records", len(table.Records)))

	return table, nil
}

func (e *Extractor) extractCohort(f *excelize.File, schema SheetSchema) ([]domain.SurvivalRecord, error) {
	grid, err := e.grid(f, schema)
	if err != nil {
		return nil, err
	}

	header := grid[0]
	countCols := yearColumns(header)
	rateCols := rateColumns(header)
	if len(countCols) == 0 {
		return nil, errors.Structural(stageName, schema.SheetName, "no year-like columns")
	}

	var records []domain.SurvivalRecord
	dataRows := 0

	for _, row := range grid[1:] {
		if len(row) == 0 {
			continue
		}
		code, level := classify.Classify(row[0])
		if level == domain.LevelHeader {
			continue
		}
		dataRows++

		counts := valuesByYear(row, countCols)
		rates := valuesByYear(row, rateCols)

		for horizon := 1; horizon <= domain.SurvivalHorizons; horizon++ {
			year := schema.CohortYear + horizon
			count, hasCount := counts[year]
			rate, hasRate := rates[year]
			if !hasCount && !hasRate {
				continue
			}
			records = append(records, domain.SurvivalRecord{
				Code:       code,
				Level:      level,
				CohortYear: schema.CohortYear,
				Horizon:    horizon,
				Survivors:  count,
				Rate:       rate,
			})
		}
	}

	if dataRows == 0 {
		return nil, errors.Structural(stageName, schema.SheetName, "no data rows after classification")
	}
	return records, nil
}

// valuesByYear parses the cells selected by a year-column map. Years with no
// column cell present are absent from the result; unparseable cells map to
// nil values (present but null).
func valuesByYear(row []string, cols map[int]int) map[int]*float64 {
	out := make(map[int]*float64, len(cols))

	idx := make([]int, 0, len(cols))
	for col := range cols {
		idx = append(idx, col)
	}
	sort.Ints(idx)

	for _, col := range idx {
		if col >= len(row) || strings.TrimSpace(row[col]) == "" {
			continue
		}
		out[cols[col]] = domain.ParseValue(row[col])
	}
	return out
}
