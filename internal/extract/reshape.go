package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// yearHeaderPattern matches a column header that is exactly a 4-digit year.
var yearHeaderPattern = regexp.MustCompile(`^\d{4}$`)

// rateHeaderPattern matches a survival-rate column header: a 4-digit year
// followed by a percent sign, e.g. "2021 %".
var rateHeaderPattern = regexp.MustCompile(`^(\d{4})\s*%$`)

// LongCell is one melted observation: the row label, the year taken from the
// column header and the raw cell text.
type LongCell struct {
	Label string
	Year  int
	Value string
}

// dropEmptyRows removes rows whose cells are all blank.
func dropEmptyRows(grid [][]string) [][]string {
	out := make([][]string, 0, len(grid))
	for _, row := range grid {
		if !rowEmpty(row) {
			out = append(out, row)
		}
	}
	return out
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// dropEmptyColumns removes columns with no non-blank cell in any row.
// Rows may be ragged (excelize trims trailing empties), so width is the
// longest row.
func dropEmptyColumns(grid [][]string) [][]string {
	width := 0
	for _, row := range grid {
		if len(row) > width {
			width = len(row)
		}
	}

	keep := make([]int, 0, width)
	for col := 0; col < width; col++ {
		for _, row := range grid {
			if col < len(row) && strings.TrimSpace(row[col]) != "" {
				keep = append(keep, col)
				break
			}
		}
	}

	out := make([][]string, len(grid))
	for i, row := range grid {
		cells := make([]string, 0, len(keep))
		for _, col := range keep {
			if col < len(row) {
				cells = append(cells, row[col])
			} else {
				cells = append(cells, "")
			}
		}
		out[i] = cells
	}
	return out
}

// yearColumns returns the column index of every header cell that is a 4-digit
// year, with the parsed year.
func yearColumns(header []string) map[int]int {
	cols := make(map[int]int)
	for i, cell := range header {
		trimmed := strings.TrimSpace(cell)
		if yearHeaderPattern.MatchString(trimmed) {
			year, _ := strconv.Atoi(trimmed)
			cols[i] = year
		}
	}
	return cols
}

// rateColumns returns the column index of every percent-suffixed year header.
func rateColumns(header []string) map[int]int {
	cols := make(map[int]int)
	for i, cell := range header {
		m := rateHeaderPattern.FindStringSubmatch(strings.TrimSpace(cell))
		if m != nil {
			year, _ := strconv.Atoi(m[1])
			cols[i] = year
		}
	}
	return cols
}

// Melt reshapes a wide year-columned grid to long form. The first row is the
// header, the leftmost column holds labels, and every 4-digit header column
// becomes a (label, year, value) cell. Output order is row-major then year
// ascending, so it is deterministic for a given grid.
func Melt(grid [][]string) []LongCell {
	if len(grid) == 0 {
		return nil
	}

	header := grid[0]
	cols := yearColumns(header)

	idx := make([]int, 0, len(cols))
	for col := range cols {
		idx = append(idx, col)
	}
	sort.Slice(idx, func(i, j int) bool { return cols[idx[i]] < cols[idx[j]] })

	var out []LongCell
	for _, row := range grid[1:] {
		if len(row) == 0 {
			continue
		}
		label := row[0]
		for _, col := range idx {
			value := ""
			if col < len(row) {
				value = row[col]
			}
			out = append(out, LongCell{Label: label, Year: cols[col], Value: value})
		}
	}
	return out
}

// Pivot is the inverse of Melt: it rebuilds the wide grid from long cells.
// Labels keep first-appearance order; year columns sort ascending. Inputs
// with unique (label, year) pairs round-trip exactly.
func Pivot(cells []LongCell, labelHeader string) [][]string {
	var labels []string
	labelSeen := make(map[string]bool)
	yearSeen := make(map[int]bool)
	values := make(map[string]map[int]string)

	for _, c := range cells {
		if !labelSeen[c.Label] {
			labelSeen[c.Label] = true
			labels = append(labels, c.Label)
			values[c.Label] = make(map[int]string)
		}
		yearSeen[c.Year] = true
		values[c.Label][c.Year] = c.Value
	}

	years := make([]int, 0, len(yearSeen))
	for y := range yearSeen {
		years = append(years, y)
	}
	sort.Ints(years)

	header := make([]string, 0, len(years)+1)
	header = append(header, labelHeader)
	for _, y := range years {
		header = append(header, strconv.Itoa(y))
	}

	grid := [][]string{header}
	for _, label := range labels {
		row := make([]string, 0, len(years)+1)
		row = append(row, label)
		for _, y := range years {
			row = append(row, values[label][y])
		}
		grid = append(grid, row)
	}
	return grid
}
