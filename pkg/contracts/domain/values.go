package domain

import (
	"strconv"
	"strings"
)

// FormatValue renders a nullable metric for a delimited file. Nulls become
// the empty field so a reader can tell "no observation" from a zero count.
func FormatValue(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// ParseValue is the inverse of FormatValue. Thousands separators are
// stripped first since some sources serialize counts as formatted text.
// Anything that still fails to parse is a null observation, not an error.
func ParseValue(s string) *float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
