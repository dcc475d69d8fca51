package extract

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"bdcli/internal/errors"
	"bdcli/pkg/contracts/domain"
)

// writeRows fills a sheet from a string grid, creating the sheet if needed.
func writeRows(t *testing.T, f *excelize.File, sheet string, rows [][]string) {
	t.Helper()
	idx, err := f.GetSheetIndex(sheet)
	require.NoError(t, err)
	if idx < 0 {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
	}
	for r, row := range rows {
		for c, cell := range row {
			if cell == "" {
				continue
			}
			name, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, name, cell))
		}
	}
}

// birthsFixture builds a minimal births sheet shaped like the published
// workbook: metadata rows, a header row of years, section headers embedded
// between data rows, comma-formatted counts.
func birthsFixture(t *testing.T) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	f.SetSheetName(f.GetSheetName(0), SheetBirths)
	writeRows(t, f, SheetBirths, [][]string{
		{"Table 1.1: Enterprise births"},
		{"Source: UK business demography"},
		{""},
		{"Industry", "2019", "2020", "2021"},
		{"Production industries"},
		{"10 Manufacture of food products", "5,230", "4,980", "5,100"},
		{"101 Processing of meat", "820", "790", "805"},
		{"47 Retail trade", "18,450", "[c]", "19,200"},
	})
	return f
}

func TestExtractIndicatorDivisionOnly(t *testing.T) {
	f := birthsFixture(t)
	schema := SheetSchema{
		SheetName:  SheetBirths,
		Indicator:  domain.IndicatorBirths,
		HeaderSkip: 3,
		Levels:     []domain.IndustryLevel{domain.LevelDivision},
	}

	table, err := NewExtractor(nil).ExtractIndicator(f, schema)
	require.NoError(t, err)
	assert.Equal(t, domain.IndicatorBirths, table.Indicator)

	// Two divisions, three years each. The group row (101) and the section
	// header row are discarded.
	require.Len(t, table.Records, 6)
	for _, rec := range table.Records {
		assert.Equal(t, domain.LevelDivision, rec.Level)
	}

	first := table.Records[0]
	assert.Equal(t, "10", first.Code)
	assert.Equal(t, 2019, first.Year)
	require.NotNil(t, first.Value)
	assert.Equal(t, 5230.0, *first.Value)

	// Suppressed cell "[c]" parses as null, never as an error or a zero.
	var suppressed *domain.DetailRecord
	for i := range table.Records {
		if table.Records[i].Code == "47" && table.Records[i].Year == 2020 {
			suppressed = &table.Records[i]
		}
	}
	require.NotNil(t, suppressed)
	assert.Nil(t, suppressed.Value)
}

func TestExtractIndicatorKeepsAllLevelsWhenUnrestricted(t *testing.T) {
	f := birthsFixture(t)
	schema := SheetSchema{
		SheetName:  SheetBirths,
		Indicator:  domain.IndicatorBirths,
		HeaderSkip: 3,
	}

	table, err := NewExtractor(nil).ExtractIndicator(f, schema)
	require.NoError(t, err)
	// Divisions and the group row, still no section headers.
	require.Len(t, table.Records, 9)
}

func TestExtractIndicatorNoYearColumns(t *testing.T) {
	f := excelize.NewFile()
	f.SetSheetName(f.GetSheetName(0), SheetDeaths)
	writeRows(t, f, SheetDeaths, [][]string{
		{"Industry", "Count", "Notes"},
		{"10 Food", "5", ""},
	})

	_, err := NewExtractor(nil).ExtractIndicator(f, SheetSchema{
		SheetName: SheetDeaths,
		Indicator: domain.IndicatorDeaths,
	})
	require.Error(t, err)
	assert.True(t, errors.IsStructural(err))
	assert.Contains(t, err.Error(), SheetDeaths)
}

func TestExtractIndicatorNoDataRows(t *testing.T) {
	f := excelize.NewFile()
	f.SetSheetName(f.GetSheetName(0), SheetActive)
	writeRows(t, f, SheetActive, [][]string{
		{"Industry", "2019", "2020"},
		{"Production industries", "1", "2"},
		{"Totals", "3", "4"},
	})

	_, err := NewExtractor(nil).ExtractIndicator(f, SheetSchema{
		SheetName: SheetActive,
		Indicator: domain.IndicatorActive,
		Levels:    []domain.IndustryLevel{domain.LevelDivision},
	})
	require.Error(t, err)
	assert.True(t, errors.IsStructural(err))
}

func TestExtractIndicatorMissingSheet(t *testing.T) {
	f := excelize.NewFile()
	_, err := NewExtractor(nil).ExtractIndicator(f, SheetSchema{
		SheetName: "No such sheet",
		Indicator: domain.IndicatorActive,
	})
	require.Error(t, err)
	assert.True(t, errors.IsStructural(err))
}

// survivalFixture builds two cohort sheets. Each tracks survivor counts in
// measurement-year columns and rates in matching "% columns".
func survivalFixture(t *testing.T) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	f.SetSheetName(f.GetSheetName(0), fmt.Sprintf(survivalSheetFmt, 2019))
	writeRows(t, f, "Survival 2019", [][]string{
		{"Table 5.1: Survival of enterprises born in 2019"},
		{""},
		{""},
		{"Industry", "2020", "2020 %", "2021", "2021 %"},
		{"Production industries"},
		{"10 Manufacture of food products", "4,700", "89.9", "4,100", "78.4"},
	})
	writeRows(t, f, "Survival 2020", [][]string{
		{"Table 5.2: Survival of enterprises born in 2020"},
		{""},
		{""},
		{"Industry", "2021", "2021 %"},
		{"10 Manufacture of food products", "4,500", "90.4"},
	})
	return f
}

func TestExtractSurvivalInjectsCohortYears(t *testing.T) {
	f := survivalFixture(t)
	schemas := SurvivalSchemas(2019, 2020)
	for i := range schemas {
		schemas[i].HeaderSkip = 3
	}

	table, err := NewExtractor(nil).ExtractSurvival(f, schemas)
	require.NoError(t, err)
	require.Len(t, table.Records, 3)

	r0 := table.Records[0]
	assert.Equal(t, "10", r0.Code)
	assert.Equal(t, 2019, r0.CohortYear)
	assert.Equal(t, 1, r0.Horizon)
	require.NotNil(t, r0.Survivors)
	assert.Equal(t, 4700.0, *r0.Survivors)
	require.NotNil(t, r0.Rate)
	assert.Equal(t, 89.9, *r0.Rate)

	r1 := table.Records[1]
	assert.Equal(t, 2019, r1.CohortYear)
	assert.Equal(t, 2, r1.Horizon)

	r2 := table.Records[2]
	assert.Equal(t, 2020, r2.CohortYear)
	assert.Equal(t, 1, r2.Horizon)
	require.NotNil(t, r2.Survivors)
	assert.Equal(t, 4500.0, *r2.Survivors)
}

func TestExtractSurvivalMissingCohortSheet(t *testing.T) {
	f := survivalFixture(t)
	schemas := SurvivalSchemas(2019, 2021) // Survival 2021 does not exist
	for i := range schemas {
		schemas[i].HeaderSkip = 3
	}

	_, err := NewExtractor(nil).ExtractSurvival(f, schemas)
	require.Error(t, err)
	assert.True(t, errors.IsStructural(err))
}

func TestSheetSchemaValidate(t *testing.T) {
	valid := SheetSchema{SheetName: SheetBirths, Indicator: domain.IndicatorBirths}
	assert.NoError(t, valid.Validate())

	assert.Error(t, SheetSchema{Indicator: domain.IndicatorBirths}.Validate())
	assert.Error(t, SheetSchema{SheetName: "x"}.Validate())
	assert.Error(t, SheetSchema{SheetName: "x", Indicator: domain.IndicatorSurvival}.Validate())
	assert.Error(t, SheetSchema{SheetName: "x", Indicator: domain.IndicatorBirths, CohortYear: 2019}.Validate())
}
