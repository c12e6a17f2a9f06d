package models

import (
	"time"
)

/*
LOAD → raw purchase history rows as delivered by the base loaders
(Excel directory scan or database query).
*/

// PurchaseRecord is a single purchase event from the historical base.
type PurchaseRecord struct {
	CustomerCode string
	PurchaseDate time.Time
	Category     string
	Units        float64
}

// LastPurchase is the reduced per-customer view of the base: the most
// recent purchase date and the category of that purchase. Category may
// be empty when the base carries no category column.
type LastPurchase struct {
	CustomerCode     string
	LastPurchaseDate time.Time
	Category         string
}

/*
UPLOAD → a tabular document after header normalization. Cell values stay
as strings; numeric columns are parsed where they are aggregated.
*/

// Dataset is an uploaded metric table. Columns hold the canonical header
// names in file order; every row maps column name → trimmed cell value.
type Dataset struct {
	Columns []string
	Rows    []map[string]string
}

// HasColumn reports whether the dataset schema contains the column.
func (d Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

/*
COMPUTE → contribution output structures.
*/

// ContributionRow is one recency bucket of a contribution table.
type ContributionRow struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Pct   float64 `json:"pct"`
}

// ContributionTable is sorted by Value descending.
type ContributionTable []ContributionRow

// MetricName identifies one of the four report metrics.
type MetricName string

const (
	MetricSales     MetricName = "sales"
	MetricReceipts  MetricName = "receipts"
	MetricItems     MetricName = "items"
	MetricCustomers MetricName = "customers"
)

// MetricNames lists the report metrics in presentation order.
var MetricNames = []MetricName{MetricSales, MetricReceipts, MetricItems, MetricCustomers}

// CustomerIndex maps a recency/period label to the distinct customer
// codes contributing to it, in first-seen order.
type CustomerIndex map[string][]string

/*
SCHEMA → canonical column names. Ingestion reconciles file headers
(including the known alternate spellings) to these; the aggregation
core only ever sees canonical names.
*/

const (
	ColGroup1     = "Group1"
	ColGroup2     = "Group2"
	ColGroup3     = "Group3"
	ColGroup4     = "Group4"
	ColProduct    = "Product"
	ColDate       = "Date"
	ColClients    = "Clients"
	ColClientCode = "Client code"
	ColSales      = "Sales"
	ColReceipts   = "Receipts"
	ColItems      = "Items"
)

// CategoryColumns are the columns a multi-value category filter may
// match against, when present in the upload.
var CategoryColumns = []string{ColGroup1, ColGroup2, ColGroup3, ColGroup4, ColProduct}

// UploadRequiredColumns must all be present for the multi-metric report.
var UploadRequiredColumns = []string{ColGroup1, ColSales, ColReceipts, ColItems, ColClientCode}
