package calculator

import (
	"sort"
	"strings"

	"recency-contribution/pkg/models"
)

// LastPurchases collapses the purchase history into one row per customer:
// the maximum purchase date seen and the category of that purchase. Rows
// with a blank customer code or a zero date are dropped, not reported.
//
// The sort is stable, so when a customer has several records on the same
// maximum date the category comes from the last of them in input order.
func LastPurchases(records []models.PurchaseRecord) []models.LastPurchase {
	valid := make([]models.PurchaseRecord, 0, len(records))
	for _, r := range records {
		if strings.TrimSpace(r.CustomerCode) == "" || r.PurchaseDate.IsZero() {
			continue
		}
		valid = append(valid, r)
	}
	if len(valid) == 0 {
		return nil
	}

	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].PurchaseDate.Before(valid[j].PurchaseDate)
	})

	last := map[string]models.LastPurchase{}
	order := make([]string, 0, len(valid))
	for _, r := range valid {
		if _, seen := last[r.CustomerCode]; !seen {
			order = append(order, r.CustomerCode)
		}
		last[r.CustomerCode] = models.LastPurchase{
			CustomerCode:     r.CustomerCode,
			LastPurchaseDate: r.PurchaseDate,
			Category:         r.Category,
		}
	}

	out := make([]models.LastPurchase, 0, len(order))
	for _, code := range order {
		out = append(out, last[code])
	}
	return out
}
