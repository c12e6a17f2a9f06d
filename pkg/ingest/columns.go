package ingest

import (
	"strings"

	"recency-contribution/pkg/models"
)

// headerAliases reconciles known header spellings to the canonical
// column names. The retail chain exports its reports with Russian
// headers; "Количество товара" is the known alternate spelling of the
// items column that shows up in some files.
var headerAliases = map[string]string{
	"Группа1":           models.ColGroup1,
	"Группа2":           models.ColGroup2,
	"Группа3":           models.ColGroup3,
	"Группа4":           models.ColGroup4,
	"Товар":             models.ColProduct,
	"Дата":              models.ColDate,
	"Клиентов":          models.ColClients,
	"Код клиента":       models.ColClientCode,
	"Продажи":           models.ColSales,
	"Количество чеков":  models.ColReceipts,
	"Количество товар":  models.ColItems,
	"Количество товара": models.ColItems,
	"Item count":        models.ColItems,
	"Client Code":       models.ColClientCode,
}

// NormalizeHeader trims header whitespace and maps known aliases to
// canonical column names. Unknown headers pass through trimmed, so the
// single-metric aggregation can still address arbitrary columns.
func NormalizeHeader(columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		c = strings.TrimSpace(c)
		if canonical, ok := headerAliases[c]; ok {
			c = canonical
		}
		out[i] = c
	}
	return out
}

// baseRequiredColumns must be present in every base file for it to be
// merged into the purchase history.
var baseRequiredColumns = []string{models.ColGroup1, models.ColDate, models.ColClients, models.ColClientCode}
