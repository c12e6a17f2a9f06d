package ingest

import (
	"fmt"
	"strings"
	"time"
)

// Day-first layouts come first: the base exports use DD.MM.YYYY and the
// ambiguity is resolved in their favor.
var dateLayouts = []string{
	"02.01.2006",
	"2.1.2006",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2006-01-02",
	"2006/01/02",
	"02.01.2006 15:04:05",
	"02.01.2006 15:04",
	"2006-01-02 15:04:05",
	"01-02-06",       // excelize default short date format
	"01-02-06 15:04", // excelize default datetime format
}

// ParseDate parses a spreadsheet date cell, trying day-first layouts
// before ISO ones.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
