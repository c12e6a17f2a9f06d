package calculator

import (
	"testing"

	"recency-contribution/pkg/models"
)

func dataset(columns []string, rows ...[]string) models.Dataset {
	d := models.Dataset{Columns: columns}
	for _, r := range rows {
		m := map[string]string{}
		for i, c := range columns {
			if i < len(r) {
				m[c] = r[i]
			}
		}
		d.Rows = append(d.Rows, m)
	}
	return d
}

func TestAggregate_InnerJoinDropsUnmatched(t *testing.T) {
	last := []models.LastPurchase{
		{CustomerCode: "C1", LastPurchaseDate: day(2024, 3, 2)},
		{CustomerCode: "C2", LastPurchaseDate: day(2024, 3, 15)},
	}
	upload := dataset([]string{"code", "sales"},
		[]string{"C1", "100"},
		[]string{"C9", "50"},
	)
	got := Aggregate(upload, last, "sales", "code")
	if len(got) != 1 {
		t.Fatalf("got %d rows, want 1", len(got))
	}
	if got[0].Label != "March 2024" || got[0].Value != 100 || got[0].Pct != 100.0 {
		t.Fatalf("unexpected row: %+v", got[0])
	}
}

func TestAggregate_MissingColumnYieldsEmptyTable(t *testing.T) {
	last := []models.LastPurchase{{CustomerCode: "C1", LastPurchaseDate: day(2024, 3, 2)}}
	upload := dataset([]string{"code", "sales"}, []string{"C1", "100"})
	if got := Aggregate(upload, last, "revenue", "code"); len(got) != 0 {
		t.Fatalf("missing value column: expected empty table, got %+v", got)
	}
	if got := Aggregate(upload, last, "sales", "customer"); len(got) != 0 {
		t.Fatalf("missing code column: expected empty table, got %+v", got)
	}
}

func TestAggregate_EmptyInputs(t *testing.T) {
	last := []models.LastPurchase{{CustomerCode: "C1", LastPurchaseDate: day(2024, 3, 2)}}
	upload := dataset([]string{"code", "sales"}, []string{"C1", "100"})
	if got := Aggregate(models.Dataset{Columns: upload.Columns}, last, "sales", "code"); len(got) != 0 {
		t.Fatalf("empty upload: expected empty table, got %+v", got)
	}
	if got := Aggregate(upload, nil, "sales", "code"); len(got) != 0 {
		t.Fatalf("empty last-purchase table: expected empty table, got %+v", got)
	}
}

func TestAggregate_GroupsSumsAndSortsDescending(t *testing.T) {
	last := []models.LastPurchase{
		{CustomerCode: "C1", LastPurchaseDate: day(2023, 1, 5)},
		{CustomerCode: "C2", LastPurchaseDate: day(2023, 1, 20)},
		{CustomerCode: "C3", LastPurchaseDate: day(2023, 2, 10)},
	}
	upload := dataset([]string{"code", "sales"},
		[]string{"C1", "10"},
		[]string{"C2", "10"},
		[]string{"C3", "60"},
	)
	got := Aggregate(upload, last, "sales", "code")
	if len(got) != 2 {
		t.Fatalf("got %d rows, want 2", len(got))
	}
	if got[0].Label != "February 2023" || got[0].Value != 60 || got[0].Pct != 75.0 {
		t.Fatalf("row 0: %+v", got[0])
	}
	if got[1].Label != "January 2023" || got[1].Value != 20 || got[1].Pct != 25.0 {
		t.Fatalf("row 1: %+v", got[1])
	}
}

func TestAggregate_ZeroTotalNoDivision(t *testing.T) {
	last := []models.LastPurchase{{CustomerCode: "C1", LastPurchaseDate: day(2023, 1, 5)}}
	upload := dataset([]string{"code", "sales"}, []string{"C1", "0"})
	got := Aggregate(upload, last, "sales", "code")
	if len(got) != 1 {
		t.Fatalf("got %d rows, want 1", len(got))
	}
	if got[0].Pct != 0 {
		t.Fatalf("zero total must keep pct 0, got %v", got[0].Pct)
	}
}

func TestFromBase_Clients(t *testing.T) {
	records := []models.PurchaseRecord{
		{CustomerCode: "C1", PurchaseDate: day(2024, 1, 10)},
		{CustomerCode: "C1", PurchaseDate: day(2024, 3, 2)},
		{CustomerCode: "C2", PurchaseDate: day(2024, 3, 15)},
	}
	got := FromBase(records, BaseMetricClients)
	if len(got) != 1 {
		t.Fatalf("got %d rows, want 1", len(got))
	}
	if got[0].Label != "March 2024" || got[0].Value != 2 || got[0].Pct != 100.0 {
		t.Fatalf("unexpected row: %+v", got[0])
	}
}

func TestFromBase_UnitsAttributedToRecencyMonth(t *testing.T) {
	// Every base row contributes its units to its customer's recency month,
	// even rows older than the last purchase.
	records := []models.PurchaseRecord{
		{CustomerCode: "C1", PurchaseDate: day(2024, 1, 10), Units: 3},
		{CustomerCode: "C1", PurchaseDate: day(2024, 3, 2), Units: 1},
		{CustomerCode: "C2", PurchaseDate: day(2023, 6, 1), Units: 6},
	}
	got := FromBase(records, BaseMetricUnits)
	if len(got) != 2 {
		t.Fatalf("got %d rows, want 2", len(got))
	}
	if got[0].Label != "June 2023" || got[0].Value != 6 || got[0].Pct != 60.0 {
		t.Fatalf("row 0: %+v", got[0])
	}
	if got[1].Label != "March 2024" || got[1].Value != 4 || got[1].Pct != 40.0 {
		t.Fatalf("row 1: %+v", got[1])
	}
}

func TestFromBase_EmptyBase(t *testing.T) {
	if got := FromBase(nil, BaseMetricClients); len(got) != 0 {
		t.Fatalf("expected empty table, got %+v", got)
	}
}

func TestPctSumsToHundredWithinRounding(t *testing.T) {
	last := []models.LastPurchase{
		{CustomerCode: "C1", LastPurchaseDate: day(2023, 1, 5)},
		{CustomerCode: "C2", LastPurchaseDate: day(2023, 2, 5)},
		{CustomerCode: "C3", LastPurchaseDate: day(2023, 3, 5)},
	}
	upload := dataset([]string{"code", "sales"},
		[]string{"C1", "1"},
		[]string{"C2", "1"},
		[]string{"C3", "1"},
	)
	got := Aggregate(upload, last, "sales", "code")
	sum := 0.0
	for _, r := range got {
		sum += r.Pct
	}
	if sum < 100-0.1*float64(len(got)) || sum > 100+0.1*float64(len(got)) {
		t.Fatalf("pct sum %v outside rounding tolerance", sum)
	}
}
