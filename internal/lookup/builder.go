package lookup

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"bdcli/internal/errors"
	"bdcli/pkg/contracts/domain"
)

// definitionRow is one parsed line of the reference sheet: a group and the
// division range it covers.
type definitionRow struct {
	groupID   string
	groupName string
	rangeText string
}

// Builder expands the industry-definition reference sheet into the flat
// division-to-group lookup table.
type Builder struct {
	logger     *slog.Logger
	headerSkip int
}

// NewBuilder creates a lookup builder. headerSkip is the number of metadata
// rows above the reference sheet's header row.
func NewBuilder(logger *slog.Logger, headerSkip int) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{logger: logger, headerSkip: headerSkip}
}

// Build reads the named reference sheet (columns: group id, group name,
// division range) and expands every range into LookupEntry rows. Duplicate
// (division, group) pairs collapse to one entry; a division claimed by two
// different groups is fatal since the later group-by would double-count it.
func (b *Builder) Build(f *excelize.File, sheetName string) ([]domain.LookupEntry, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeStructural, stageName,
			fmt.Sprintf("%s: sheet not readable", sheetName))
	}

	defs := b.parseRows(sheetName, rows)
	if len(defs) == 0 {
		return nil, errors.Structural(stageName, sheetName, "no definition rows")
	}

	byDivision := make(map[string]domain.LookupEntry)
	for _, def := range defs {
		codes, err := ExpandRange(def.rangeText)
		if err != nil {
			return nil, err
		}
		for _, code := range codes {
			if existing, ok := byDivision[code]; ok {
				if existing.GroupName != def.groupName {
					return nil, errors.Structural(stageName, sheetName,
						fmt.Sprintf("division %s mapped to both %q and %q", code, existing.GroupName, def.groupName))
				}
				continue // duplicate (division, group) pair collapses
			}
			byDivision[code] = domain.LookupEntry{
				DivisionCode: code,
				GroupID:      def.groupID,
				GroupName:    def.groupName,
			}
		}
	}

	entries := make([]domain.LookupEntry, 0, len(byDivision))
	for _, entry := range byDivision {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].DivisionCode < entries[j].DivisionCode
	})

	b.logger.Info("lookup built",
		slog.String("sheet", sheetName),
		slog.Int("definitions", len(defs)),
		slog.Int("divisions", len(entries)))

	return entries, nil
}

// parseRows extracts definition rows, skipping metadata, the header row and
// blank lines.
func (b *Builder) parseRows(sheetName string, rows [][]string) []definitionRow {
	if b.headerSkip+1 < len(rows) {
		rows = rows[b.headerSkip+1:] // also drop the header row itself
	} else {
		return nil
	}

	var defs []definitionRow
	for _, row := range rows {
		if len(row) < 3 {
			continue
		}
		groupID := strings.TrimSpace(row[0])
		groupName := strings.TrimSpace(row[1])
		rangeText := strings.TrimSpace(row[2])
		if groupID == "" || groupName == "" || rangeText == "" {
			continue
		}
		defs = append(defs, definitionRow{groupID: groupID, groupName: groupName, rangeText: rangeText})
	}
	return defs
}

// Filter restricts lookup entries to the configured allow-list of group
// names, preserving order.
func Filter(entries []domain.LookupEntry, groups []string) []domain.LookupEntry {
	allowed := make(map[string]bool, len(groups))
	for _, g := range groups {
		allowed[g] = true
	}

	out := make([]domain.LookupEntry, 0, len(entries))
	for _, entry := range entries {
		if allowed[entry.GroupName] {
			out = append(out, entry)
		}
	}
	return out
}
