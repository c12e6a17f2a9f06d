package calculator

import (
	"sort"
	"strings"

	"recency-contribution/pkg/models"
	"recency-contribution/pkg/recency"
)

// Sentinel buckets of the multi-metric report.
const (
	// LabelNoLoyaltyCard collects upload rows whose customer code is blank.
	LabelNoLoyaltyCard = "Customers without loyalty card"
	// LabelNewCustomers collects coded rows with no match in the base.
	LabelNewCustomers = "New customers"
)

// CategoryFilter narrows the upload before aggregation. The zero value
// is a no-op. Primary restricts rows to an exact (trimmed) match on the
// primary group column; Any keeps rows where any category-bearing column
// matches any of its values. Primary wins when both are set.
type CategoryFilter struct {
	Primary string
	Any     []string
}

func (f CategoryFilter) isZero() bool {
	return f.Primary == "" && len(f.Any) == 0
}

// BuildTables computes the four contribution tables (sales, receipts,
// items, distinct customers) over the recency period labels, plus the
// "new customers" and "no loyalty card" buckets, from one shared
// partitioning pass. It also returns the period label → customer codes
// index built from rows with a known code.
//
// A missing required column, an empty upload or a filter matching
// nothing all yield four empty tables and an empty index.
func BuildTables(upload models.Dataset, last []models.LastPurchase, filter CategoryFilter) (map[models.MetricName]models.ContributionTable, models.CustomerIndex) {
	tables := map[models.MetricName]models.ContributionTable{
		models.MetricSales:     nil,
		models.MetricReceipts:  nil,
		models.MetricItems:     nil,
		models.MetricCustomers: nil,
	}
	index := models.CustomerIndex{}

	if len(upload.Rows) == 0 {
		return tables, index
	}
	for _, c := range models.UploadRequiredColumns {
		if !upload.HasColumn(c) {
			return tables, index
		}
	}

	rows := filterRows(upload, filter)
	if len(rows) == 0 {
		return tables, index
	}

	periodByCode := make(map[string]string, len(last))
	for _, lp := range last {
		periodByCode[lp.CustomerCode] = recency.PeriodLabel(lp.LastPurchaseDate)
	}

	// One partitioning pass shared by all four metrics.
	type matchedRow struct {
		row    map[string]string
		code   string
		period string
	}
	var matched []matchedRow
	var noCard, newCustomers []map[string]string
	var periodOrder []string
	seenPeriod := map[string]bool{}
	for _, row := range rows {
		code := strings.TrimSpace(row[models.ColClientCode])
		if code == "" {
			noCard = append(noCard, row)
			continue
		}
		period, ok := periodByCode[code]
		if !ok {
			newCustomers = append(newCustomers, row)
			continue
		}
		if !seenPeriod[period] {
			seenPeriod[period] = true
			periodOrder = append(periodOrder, period)
		}
		matched = append(matched, matchedRow{row: row, code: code, period: period})
	}

	distinctCount := func(rows []map[string]string) float64 {
		seen := map[string]bool{}
		for _, row := range rows {
			seen[strings.TrimSpace(row[models.ColClientCode])] = true
		}
		return float64(len(seen))
	}
	sumColumn := func(rows []map[string]string, column string) float64 {
		total := 0.0
		for _, row := range rows {
			v, _ := models.ParseNumber(row[column])
			total += v
		}
		return total
	}

	buildMetric := func(column string, distinct bool) models.ContributionTable {
		var out models.ContributionTable
		if len(matched) > 0 {
			perPeriod := map[string][]map[string]string{}
			for _, m := range matched {
				perPeriod[m.period] = append(perPeriod[m.period], m.row)
			}
			for _, period := range periodOrder {
				v := 0.0
				if distinct {
					v = distinctCount(perPeriod[period])
				} else {
					v = sumColumn(perPeriod[period], column)
				}
				out = append(out, models.ContributionRow{Label: period, Value: v})
			}
		}
		if len(newCustomers) > 0 {
			v := 0.0
			if distinct {
				v = distinctCount(newCustomers)
			} else {
				v = sumColumn(newCustomers, column)
			}
			out = append(out, models.ContributionRow{Label: LabelNewCustomers, Value: v})
		}
		if len(noCard) > 0 {
			v := 0.0
			if !distinct {
				// The exact number of distinct customers without a card is
				// unknowable, so the customers metric reports 0 here.
				v = sumColumn(noCard, column)
			}
			out = append(out, models.ContributionRow{Label: LabelNoLoyaltyCard, Value: v})
		}
		if len(out) == 0 {
			return nil
		}

		// For the distinct-customer metric the no-card row is excluded
		// from the percentage base and keeps pct = 0.
		total := 0.0
		for _, r := range out {
			if distinct && r.Label == LabelNoLoyaltyCard {
				continue
			}
			total += r.Value
		}
		if total > 0 {
			for i := range out {
				if distinct && out[i].Label == LabelNoLoyaltyCard {
					continue
				}
				out[i].Pct = round1(out[i].Value / total * 100)
			}
		}
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Value > out[j].Value
		})
		return out
	}

	tables[models.MetricSales] = buildMetric(models.ColSales, false)
	tables[models.MetricReceipts] = buildMetric(models.ColReceipts, false)
	tables[models.MetricItems] = buildMetric(models.ColItems, false)
	tables[models.MetricCustomers] = buildMetric(models.ColClientCode, true)

	if len(matched) > 0 {
		seen := map[string]map[string]bool{}
		for _, m := range matched {
			if seen[m.period] == nil {
				seen[m.period] = map[string]bool{}
			}
			if !seen[m.period][m.code] {
				seen[m.period][m.code] = true
				index[m.period] = append(index[m.period], m.code)
			}
		}
	}
	if len(newCustomers) > 0 {
		seen := map[string]bool{}
		for _, row := range newCustomers {
			code := strings.TrimSpace(row[models.ColClientCode])
			if !seen[code] {
				seen[code] = true
				index[LabelNewCustomers] = append(index[LabelNewCustomers], code)
			}
		}
	}
	// Codes are unknown by construction for this bucket.
	index[LabelNoLoyaltyCard] = []string{}

	return tables, index
}

// filterRows applies the category filter against the columns actually
// present in the dataset. A filter naming no present category column is
// a no-op, matching the contract that filtering never invents an error.
func filterRows(upload models.Dataset, filter CategoryFilter) []map[string]string {
	if filter.isZero() {
		return upload.Rows
	}
	if filter.Primary != "" {
		want := strings.TrimSpace(filter.Primary)
		var out []map[string]string
		for _, row := range upload.Rows {
			if strings.TrimSpace(row[models.ColGroup1]) == want {
				out = append(out, row)
			}
		}
		return out
	}

	selected := map[string]bool{}
	for _, v := range filter.Any {
		selected[strings.TrimSpace(v)] = true
	}
	var cols []string
	for _, c := range models.CategoryColumns {
		if upload.HasColumn(c) {
			cols = append(cols, c)
		}
	}
	if len(cols) == 0 {
		return upload.Rows
	}
	var out []map[string]string
	for _, row := range upload.Rows {
		for _, c := range cols {
			if selected[strings.TrimSpace(row[c])] {
				out = append(out, row)
				break
			}
		}
	}
	return out
}
