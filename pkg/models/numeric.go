package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseNumber parses a spreadsheet cell into a float64. It tolerates
// thousands separators (space, non-breaking space, comma) and a decimal
// comma, which both appear in exported reports. Returns false for blank
// or non-numeric cells.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	if strings.Contains(s, ",") {
		if strings.Contains(s, ".") || strings.Count(s, ",") > 1 {
			// comma is a thousands separator
			s = strings.ReplaceAll(s, ",", "")
		} else {
			// decimal comma
			s = strings.Replace(s, ",", ".", 1)
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	return d.InexactFloat64(), true
}
