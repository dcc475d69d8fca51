package lookup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"bdcli/internal/errors"
	"bdcli/pkg/contracts/domain"
)

func TestExpandRange(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"10-12", []string{"10", "11", "12"}},
		{"05", []string{"05"}},
		{"5", []string{"05"}},
		{" 10 - 12 ", []string{"10", "11", "12"}},
		{"33-33", []string{"33"}},
		{"08-11", []string{"08", "09", "10", "11"}},
	}
	for _, tt := range tests {
		got, err := ExpandRange(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestExpandRangeFailures(t *testing.T) {
	for _, in := range []string{"12-10", "", "a-b", "10-", "-5", "10-12-14", "1x"} {
		_, err := ExpandRange(in)
		require.Error(t, err, in)
		assert.True(t, errors.IsStructural(err), in)
	}
}

func definitionsFixture(t *testing.T, rows [][]string) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	f.SetSheetName(f.GetSheetName(0), "Industry definitions")
	for r, row := range rows {
		for c, cell := range row {
			if cell == "" {
				continue
			}
			name, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Industry definitions", name, cell))
		}
	}
	return f
}

func TestBuildExpandsReferenceSheet(t *testing.T) {
	f := definitionsFixture(t, [][]string{
		{"Reference table"},
		{"Group", "Description", "Divisions"},
		{"C", "Manufacturing", "10-12"},
		{"F", "Construction", "41"},
		{"C", "Manufacturing", "11"}, // duplicate pair collapses
	})

	entries, err := NewBuilder(nil, 1).Build(f, "Industry definitions")
	require.NoError(t, err)

	assert.Equal(t, []domain.LookupEntry{
		{DivisionCode: "10", GroupID: "C", GroupName: "Manufacturing"},
		{DivisionCode: "11", GroupID: "C", GroupName: "Manufacturing"},
		{DivisionCode: "12", GroupID: "C", GroupName: "Manufacturing"},
		{DivisionCode: "41", GroupID: "F", GroupName: "Construction"},
	}, entries)
}

func TestBuildRejectsConflictingGroups(t *testing.T) {
	f := definitionsFixture(t, [][]string{
		{"Reference table"},
		{"Group", "Description", "Divisions"},
		{"C", "Manufacturing", "10-12"},
		{"G", "Wholesale and retail trade", "12-14"},
	})

	_, err := NewBuilder(nil, 1).Build(f, "Industry definitions")
	require.Error(t, err)
	assert.True(t, errors.IsStructural(err))
	assert.Contains(t, err.Error(), "12")
}

func TestBuildRejectsEmptySheet(t *testing.T) {
	f := definitionsFixture(t, [][]string{
		{"Reference table"},
		{"Group", "Description", "Divisions"},
	})

	_, err := NewBuilder(nil, 1).Build(f, "Industry definitions")
	require.Error(t, err)
	assert.True(t, errors.IsStructural(err))
}

func TestBuildPropagatesRangeFailure(t *testing.T) {
	f := definitionsFixture(t, [][]string{
		{"Reference table"},
		{"Group", "Description", "Divisions"},
		{"C", "Manufacturing", "33-10"},
	})

	_, err := NewBuilder(nil, 1).Build(f, "Industry definitions")
	require.Error(t, err)
	assert.True(t, errors.IsStructural(err))
}

func TestFilter(t *testing.T) {
	entries := []domain.LookupEntry{
		{DivisionCode: "10", GroupID: "C", GroupName: "Manufacturing"},
		{DivisionCode: "41", GroupID: "F", GroupName: "Construction"},
		{DivisionCode: "47", GroupID: "G", GroupName: "Wholesale and retail trade"},
	}

	got := Filter(entries, []string{"Manufacturing", "Wholesale and retail trade"})
	require.Len(t, got, 2)
	assert.Equal(t, "10", got[0].DivisionCode)
	assert.Equal(t, "47", got[1].DivisionCode)

	assert.Empty(t, Filter(entries, nil))
}
