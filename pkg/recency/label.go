package recency

import (
	"fmt"
	"strconv"
	"time"
)

// SpecialYear is reported by fiscal quarter instead of by month.
const SpecialYear = 2024

var monthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// MonthLabel returns "<MonthName> <Year>", e.g. "March 2024".
func MonthLabel(t time.Time) string {
	return monthNames[int(t.Month())-1] + " " + strconv.Itoa(t.Year())
}

// Quarter returns the calendar quarter of t, 1..4.
func Quarter(t time.Time) int {
	return (int(t.Month())-1)/3 + 1
}

// PeriodLabel returns the coarse recency label: "Q<q> <year>" for the
// special year, the month label otherwise.
func PeriodLabel(t time.Time) string {
	if t.Year() == SpecialYear {
		return fmt.Sprintf("Q%d %d", Quarter(t), t.Year())
	}
	return MonthLabel(t)
}
