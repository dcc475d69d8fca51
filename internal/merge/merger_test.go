package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bdcli/internal/errors"
	"bdcli/pkg/contracts/domain"
)

func detail(indicator domain.Indicator, recs ...domain.DetailRecord) domain.DetailTable {
	return domain.DetailTable{Indicator: indicator, Records: recs}
}

func div(code string, year int, value float64) domain.DetailRecord {
	return domain.DetailRecord{Code: code, Level: domain.LevelDivision, Year: year, Value: domain.Float(value)}
}

func TestMergeAnchorsOnBirths(t *testing.T) {
	births := detail(domain.IndicatorBirths,
		div("10", 2019, 5230),
		div("10", 2020, 4980),
		div("47", 2019, 18450),
	)
	active := detail(domain.IndicatorActive,
		div("10", 2019, 61000),
		// No (10, 2020). Extra key absent from the anchor must not add a row.
		div("62", 2019, 99999),
	)
	deaths := detail(domain.IndicatorDeaths, div("10", 2019, 4890))
	growth := detail(domain.IndicatorHighGrowth, div("47", 2019, 310))
	survival := domain.SurvivalTable{Records: []domain.SurvivalRecord{
		{Code: "10", Level: domain.LevelDivision, CohortYear: 2019, Horizon: 1,
			Survivors: domain.Float(4700), Rate: domain.Float(89.9)},
	}}

	rows, err := NewMerger(nil, 2019, 2023).Merge(births, active, deaths, growth, survival)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Deterministic (code, year) ordering.
	assert.Equal(t, "10", rows[0].Code)
	assert.Equal(t, 2019, rows[0].Year)
	assert.Equal(t, "10", rows[1].Code)
	assert.Equal(t, 2020, rows[1].Year)
	assert.Equal(t, "47", rows[2].Code)

	// Joined values land on the right row.
	require.NotNil(t, rows[0].Active)
	assert.Equal(t, 61000.0, *rows[0].Active)
	require.NotNil(t, rows[0].Deaths)
	assert.Equal(t, 4890.0, *rows[0].Deaths)
	require.NotNil(t, rows[0].Survivors[0])
	assert.Equal(t, 4700.0, *rows[0].Survivors[0])
	require.NotNil(t, rows[0].SurvivalRates[0])
	assert.Equal(t, 89.9, *rows[0].SurvivalRates[0])

	// Anchor rows with no secondary match stay null, never zero.
	assert.Nil(t, rows[1].Active)
	assert.Nil(t, rows[1].Deaths)
	assert.Nil(t, rows[2].Active)

	// "62" existed only in a secondary table and must not appear.
	for _, row := range rows {
		assert.NotEqual(t, "62", row.Code)
	}
}

func TestMergeOrderIndependent(t *testing.T) {
	births := detail(domain.IndicatorBirths,
		div("47", 2020, 3),
		div("10", 2019, 5),
		div("10", 2020, 7),
	)
	active := detail(domain.IndicatorActive,
		div("10", 2020, 20),
		div("47", 2020, 30),
		div("10", 2019, 10),
	)

	rows1, err := NewMerger(nil, 2019, 2023).Merge(births, active,
		detail(domain.IndicatorDeaths), detail(domain.IndicatorHighGrowth), domain.SurvivalTable{})
	require.NoError(t, err)

	// Same inputs, permuted record order.
	birthsPerm := detail(domain.IndicatorBirths,
		div("10", 2020, 7),
		div("47", 2020, 3),
		div("10", 2019, 5),
	)
	activePerm := detail(domain.IndicatorActive,
		div("10", 2019, 10),
		div("10", 2020, 20),
		div("47", 2020, 30),
	)
	rows2, err := NewMerger(nil, 2019, 2023).Merge(birthsPerm, activePerm,
		detail(domain.IndicatorDeaths), detail(domain.IndicatorHighGrowth), domain.SurvivalTable{})
	require.NoError(t, err)

	assert.Equal(t, rows1, rows2)
}

func TestMergeRestrictsYearWindowAndLevel(t *testing.T) {
	births := detail(domain.IndicatorBirths,
		div("10", 2018, 1), // before window
		div("10", 2019, 2),
		div("10", 2024, 3), // after window
		domain.DetailRecord{Code: "101", Level: domain.LevelGroup, Year: 2019, Value: domain.Float(4)},
	)

	rows, err := NewMerger(nil, 2019, 2023).Merge(births,
		detail(domain.IndicatorActive), detail(domain.IndicatorDeaths),
		detail(domain.IndicatorHighGrowth), domain.SurvivalTable{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2019, rows[0].Year)
}

func TestMergeDuplicateAnchorKeysFatal(t *testing.T) {
	births := detail(domain.IndicatorBirths,
		div("10", 2019, 5),
		div("10", 2019, 6),
	)

	_, err := NewMerger(nil, 2019, 2023).Merge(births,
		detail(domain.IndicatorActive), detail(domain.IndicatorDeaths),
		detail(domain.IndicatorHighGrowth), domain.SurvivalTable{})
	require.Error(t, err)
	assert.True(t, errors.IsJoinIntegrity(err))
	assert.Contains(t, err.Error(), "births")
}

func TestMergeDuplicateSecondaryKeysFatal(t *testing.T) {
	births := detail(domain.IndicatorBirths, div("10", 2019, 5))
	active := detail(domain.IndicatorActive,
		div("10", 2019, 100),
		div("10", 2019, 200),
	)

	_, err := NewMerger(nil, 2019, 2023).Merge(births, active,
		detail(domain.IndicatorDeaths), detail(domain.IndicatorHighGrowth), domain.SurvivalTable{})
	require.Error(t, err)
	assert.True(t, errors.IsJoinIntegrity(err))
}

func TestMergeDuplicateSurvivalKeysFatal(t *testing.T) {
	births := detail(domain.IndicatorBirths, div("10", 2019, 5))
	survival := domain.SurvivalTable{Records: []domain.SurvivalRecord{
		{Code: "10", Level: domain.LevelDivision, CohortYear: 2019, Horizon: 1, Survivors: domain.Float(1)},
		{Code: "10", Level: domain.LevelDivision, CohortYear: 2019, Horizon: 1, Survivors: domain.Float(2)},
	}}

	_, err := NewMerger(nil, 2019, 2023).Merge(births,
		detail(domain.IndicatorActive), detail(domain.IndicatorDeaths),
		detail(domain.IndicatorHighGrowth), survival)
	require.Error(t, err)
	assert.True(t, errors.IsJoinIntegrity(err))
}

func TestMergeEmptyAnchorFatal(t *testing.T) {
	_, err := NewMerger(nil, 2019, 2023).Merge(detail(domain.IndicatorBirths),
		detail(domain.IndicatorActive), detail(domain.IndicatorDeaths),
		detail(domain.IndicatorHighGrowth), domain.SurvivalTable{})
	require.Error(t, err)
	assert.True(t, errors.IsStructural(err))
}
