// Package classify derives industrial classification codes from the
// free-text row labels found in business demography source tables.
//
// Every extractor shares this logic so that a code means the same thing in
// every table it later joins against.
package classify

import (
	"strings"

	"bdcli/pkg/contracts/domain"
)

// maxCodeDigits caps the leading digit run considered part of a code.
const maxCodeDigits = 4

// Classify extracts the leading numeric code from a row label and returns it
// with its granularity level. The code is the longest run of digits, up to
// four characters, starting at position 0 of the trimmed label. Labels with
// no leading digits are section headers and carry no code.
func Classify(label string) (string, domain.IndustryLevel) {
	trimmed := strings.TrimSpace(label)

	n := 0
	for n < len(trimmed) && n < maxCodeDigits && trimmed[n] >= '0' && trimmed[n] <= '9' {
		n++
	}
	if n == 0 {
		return "", domain.LevelHeader
	}

	code := trimmed[:n]
	level := domain.LevelForCode(code)
	if level == domain.LevelHeader {
		// A lone digit is not a valid code at any granularity.
		return "", domain.LevelHeader
	}
	return code, level
}
