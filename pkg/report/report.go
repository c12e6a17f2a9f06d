package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"recency-contribution/pkg/models"
)

// metricTitles maps metric names to their report headings.
var metricTitles = map[models.MetricName]string{
	models.MetricSales:     "Sales",
	models.MetricReceipts:  "Receipts",
	models.MetricItems:     "Items",
	models.MetricCustomers: "Customers",
}

// Report carries one multi-metric contribution run for rendering and export.
type Report struct {
	RunID       string                                         `json:"run_id"`
	GeneratedAt time.Time                                      `json:"generated_at"`
	Source      string                                         `json:"source"`
	Categories  []string                                       `json:"categories,omitempty"`
	Tables      map[models.MetricName]models.ContributionTable `json:"tables"`
	Index       models.CustomerIndex                           `json:"customer_index"`
}

// New stamps a report with a fresh run id.
func New(source string, categories []string, tables map[models.MetricName]models.ContributionTable, index models.CustomerIndex) Report {
	return Report{
		RunID:       uuid.New().String(),
		GeneratedAt: time.Now().UTC(),
		Source:      source,
		Categories:  categories,
		Tables:      tables,
		Index:       index,
	}
}

// Print renders all four tables and an index summary to w.
func (r Report) Print(w io.Writer) {
	fmt.Fprintln(w, "Recency contribution report")
	fmt.Fprintln(w, strings.Repeat("=", 38))
	fmt.Fprintf(w, "Run: %s\n", r.RunID)
	fmt.Fprintf(w, "Source: %s\n", r.Source)
	if len(r.Categories) > 0 {
		fmt.Fprintf(w, "Categories: %s\n", strings.Join(r.Categories, ", "))
	}

	for _, name := range models.MetricNames {
		fmt.Fprintf(w, "\n%s\n", metricTitles[name])
		fmt.Fprintln(w, strings.Repeat("-", 38))
		PrintTable(w, r.Tables[name])
	}

	if len(r.Index) > 0 {
		fmt.Fprintln(w, "\nCustomers per period")
		fmt.Fprintln(w, strings.Repeat("-", 38))
		labels := make([]string, 0, len(r.Index))
		for label := range r.Index {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		for _, label := range labels {
			fmt.Fprintf(w, "%s: %d\n", label, len(r.Index[label]))
		}
	}
}

// PrintTable renders one contribution table to w.
func PrintTable(w io.Writer, table models.ContributionTable) {
	if len(table) == 0 {
		fmt.Fprintln(w, "No data.")
		return
	}
	for _, row := range table {
		fmt.Fprintf(w, "%s | %s | %.1f%%\n", row.Label, formatValue(row.Value), row.Pct)
	}
}

// WriteJSON saves the full report, run id included.
func (r Report) WriteJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// WriteCSV exports the four tables as flat metric,label,value,pct rows.
func (r Report) WriteCSV(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"metric", "label", "value", "pct"}); err != nil {
		return err
	}
	for _, name := range models.MetricNames {
		for _, row := range r.Tables[name] {
			record := []string{
				string(name),
				row.Label,
				formatValue(row.Value),
				strconv.FormatFloat(row.Pct, 'f', 1, 64),
			}
			if err := writer.Write(record); err != nil {
				return err
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
