package extract

import (
	"fmt"

	"bdcli/pkg/contracts/domain"
)

// Sheet names of the reference workbook.
const (
	SheetDefinitions = "Industry definitions"
	SheetActive      = "Active"
	SheetBirths      = "Births"
	SheetDeaths      = "Deaths"
	SheetHighGrowth  = "High growth"
	// Cohort sheets are named "Survival <year>", one per birth-cohort year.
	survivalSheetFmt = "Survival %d"
)

// SheetSchema is the typed layout of one source sheet. Every source table
// the pipeline understands is declared up front and validated at load time;
// nothing is sniffed from arbitrary spreadsheet shapes.
type SheetSchema struct {
	SheetName  string
	Indicator  domain.Indicator
	HeaderSkip int // metadata rows above the header row
	// Levels restricts which classification granularities are retained.
	// Empty means keep every non-header level (survival sheets, which are
	// filtered to divisions at merge time instead).
	Levels []domain.IndustryLevel
	// CohortYear is the birth-cohort year a survival sheet tracks. Zero for
	// non-survival sheets.
	CohortYear int
}

// Validate rejects schemas that cannot describe a real source sheet.
func (s SheetSchema) Validate() error {
	if s.SheetName == "" {
		return fmt.Errorf("sheet schema for %q has no sheet name", s.Indicator)
	}
	if s.Indicator == "" {
		return fmt.Errorf("sheet schema for %q has no indicator", s.SheetName)
	}
	if s.HeaderSkip < 0 {
		return fmt.Errorf("sheet schema for %q has negative header skip", s.SheetName)
	}
	if s.Indicator == domain.IndicatorSurvival && s.CohortYear == 0 {
		return fmt.Errorf("survival schema for %q has no cohort year", s.SheetName)
	}
	if s.Indicator != domain.IndicatorSurvival && s.CohortYear != 0 {
		return fmt.Errorf("schema for %q sets a cohort year on a non-survival sheet", s.SheetName)
	}
	return nil
}

// retains reports whether records at the given level survive extraction.
func (s SheetSchema) retains(level domain.IndustryLevel) bool {
	if level == domain.LevelHeader {
		return false
	}
	if len(s.Levels) == 0 {
		return true
	}
	for _, l := range s.Levels {
		if l == level {
			return true
		}
	}
	return false
}

// divisionOnly is the retained-level set shared by the four count indicators.
var divisionOnly = []domain.IndustryLevel{domain.LevelDivision}

// IndicatorSchemas returns the layouts of the four count-indicator sheets in
// the reference workbook. The header-skip counts are fixed properties of the
// published workbook.
func IndicatorSchemas() []SheetSchema {
	return []SheetSchema{
		{SheetName: SheetActive, Indicator: domain.IndicatorActive, HeaderSkip: 3, Levels: divisionOnly},
		{SheetName: SheetBirths, Indicator: domain.IndicatorBirths, HeaderSkip: 3, Levels: divisionOnly},
		{SheetName: SheetDeaths, Indicator: domain.IndicatorDeaths, HeaderSkip: 3, Levels: divisionOnly},
		{SheetName: SheetHighGrowth, Indicator: domain.IndicatorHighGrowth, HeaderSkip: 4, Levels: divisionOnly},
	}
}

// SurvivalSchemas returns one schema per birth-cohort sheet across the
// analysis window. Each cohort sheet carries no year of its own; the schema's
// cohort year is injected into every record extracted from it.
func SurvivalSchemas(yearFrom, yearTo int) []SheetSchema {
	var out []SheetSchema
	for year := yearFrom; year <= yearTo; year++ {
		out = append(out, SheetSchema{
			SheetName:  fmt.Sprintf(survivalSheetFmt, year),
			Indicator:  domain.IndicatorSurvival,
			HeaderSkip: 3,
			CohortYear: year,
		})
	}
	return out
}
