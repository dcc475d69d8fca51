// Package lookup builds the division-code to industry-group mapping consumed
// by aggregation, from the workbook's industry-definition reference sheet.
package lookup

import (
	"fmt"
	"strconv"
	"strings"

	"bdcli/internal/errors"
)

const stageName = "lookup"

// ExpandRange expands a textual division-code range into the explicit ordered
// list of two-digit zero-padded codes it denotes. Accepted formats are a
// single code ("05") or an inclusive range ("10-33"). Whitespace inside the
// range text is ignored.
//
// Malformed bounds and inverted ranges are fatal: a silently empty expansion
// would later drop legitimate divisions undetected.
func ExpandRange(text string) ([]string, error) {
	cleaned := strings.ReplaceAll(text, " ", "")
	cleaned = strings.ReplaceAll(cleaned, "\t", "")
	if cleaned == "" {
		return nil, errors.Structural(stageName, text, "empty range")
	}

	parts := strings.Split(cleaned, "-")
	if len(parts) > 2 {
		return nil, errors.Structural(stageName, text, "too many range separators")
	}

	lo, err := parseBound(text, parts[0])
	if err != nil {
		return nil, err
	}
	hi := lo
	if len(parts) == 2 {
		hi, err = parseBound(text, parts[1])
		if err != nil {
			return nil, err
		}
	}

	if lo > hi {
		return nil, errors.Structural(stageName, text, "range lower bound exceeds upper bound")
	}

	codes := make([]string, 0, hi-lo+1)
	for c := lo; c <= hi; c++ {
		codes = append(codes, fmt.Sprintf("%02d", c))
	}
	return codes, nil
}

func parseBound(rangeText, bound string) (int, error) {
	n, err := strconv.Atoi(bound)
	if err != nil {
		return 0, errors.Wrap(err, errors.CodeStructural, stageName,
			fmt.Sprintf("%s: unparseable range bound %q", rangeText, bound))
	}
	if n < 0 {
		return 0, errors.Structural(stageName, rangeText, "negative range bound")
	}
	return n, nil
}
