package calculator

import (
	"math"
	"sort"

	"recency-contribution/pkg/models"
	"recency-contribution/pkg/recency"
)

// BaseMetric selects what the base-only contribution counts.
type BaseMetric string

const (
	// BaseMetricClients counts distinct customers per recency month.
	BaseMetricClients BaseMetric = "clients"
	// BaseMetricUnits sums the per-row units per recency month.
	BaseMetricUnits BaseMetric = "units"
)

// Aggregate joins an uploaded dataset against the last-purchase table on
// customer code (inner join: unmatched rows on either side are dropped),
// groups by the recency month of the matched last purchase and sums
// valueColumn per group. Percentages are shares of the grand total,
// rounded to one decimal.
//
// Empty inputs or a missing column yield an empty table; there is no
// error path here.
func Aggregate(upload models.Dataset, last []models.LastPurchase, valueColumn, codeColumn string) models.ContributionTable {
	if len(upload.Rows) == 0 || len(last) == 0 {
		return nil
	}
	if !upload.HasColumn(valueColumn) || !upload.HasColumn(codeColumn) {
		return nil
	}

	monthByCode := make(map[string]string, len(last))
	for _, lp := range last {
		monthByCode[lp.CustomerCode] = recency.MonthLabel(lp.LastPurchaseDate)
	}

	sums := map[string]float64{}
	var order []string
	for _, row := range upload.Rows {
		label, ok := monthByCode[row[codeColumn]]
		if !ok {
			continue
		}
		if _, seen := sums[label]; !seen {
			order = append(order, label)
		}
		v, _ := models.ParseNumber(row[valueColumn])
		sums[label] += v
	}
	return finalize(sums, order)
}

// FromBase computes the contribution of the purchase base itself, without
// an upload: distinct customers (or summed units) per recency month of
// each customer's last purchase.
func FromBase(records []models.PurchaseRecord, metric BaseMetric) models.ContributionTable {
	last := LastPurchases(records)
	if len(last) == 0 {
		return nil
	}

	sums := map[string]float64{}
	var order []string
	add := func(label string, v float64) {
		if _, seen := sums[label]; !seen {
			order = append(order, label)
		}
		sums[label] += v
	}

	if metric == BaseMetricUnits {
		monthByCode := make(map[string]string, len(last))
		for _, lp := range last {
			monthByCode[lp.CustomerCode] = recency.MonthLabel(lp.LastPurchaseDate)
		}
		for _, r := range records {
			label, ok := monthByCode[r.CustomerCode]
			if !ok {
				continue
			}
			add(label, r.Units)
		}
	} else {
		for _, lp := range last {
			add(recency.MonthLabel(lp.LastPurchaseDate), 1)
		}
	}
	return finalize(sums, order)
}

// finalize turns per-label sums into a table sorted by value descending,
// with pct shares of the total. A zero total leaves every pct at 0.
func finalize(sums map[string]float64, order []string) models.ContributionTable {
	if len(order) == 0 {
		return nil
	}
	total := 0.0
	for _, label := range order {
		total += sums[label]
	}
	rows := make(models.ContributionTable, 0, len(order))
	for _, label := range order {
		pct := 0.0
		if total != 0 {
			pct = round1(sums[label] / total * 100)
		}
		rows = append(rows, models.ContributionRow{Label: label, Value: sums[label], Pct: pct})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Value > rows[j].Value
	})
	return rows
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
