package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"recency-contribution/pkg/models"
)

// ScanBase reads every Excel file in dir and concatenates the purchase
// records. Files that cannot be read or miss the required base columns
// are skipped with a log entry, never an error; a missing or empty
// directory yields an empty history.
func ScanBase(dir string, logger *logrus.Logger) ([]models.PurchaseRecord, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"dir":   dir,
			"error": err.Error(),
		}).Warn("base directory not readable")
		return nil, nil
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".xlsx", ".xlsm":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	if len(files) == 0 {
		return nil, nil
	}

	bar := progressbar.Default(int64(len(files)))
	var records []models.PurchaseRecord
	for _, path := range files {
		recs, err := loadBaseFile(path)
		if err != nil {
			logger.WithFields(logrus.Fields{
				"file":  filepath.Base(path),
				"error": err.Error(),
			}).Warn("skipping base file")
			_ = bar.Add(1)
			continue
		}
		logger.WithFields(logrus.Fields{
			"file": filepath.Base(path),
			"rows": len(recs),
		}).Debug("base file loaded")
		records = append(records, recs...)
		_ = bar.Add(1)
	}
	return records, nil
}

// loadBaseFile reads one base Excel file into purchase records. Rows
// with a blank client code or an unparseable date are dropped.
func loadBaseFile(path string) ([]models.PurchaseRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open excel: %w", err)
	}
	defer f.Close()

	raw, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	ds := toDataset(raw)
	for _, c := range baseRequiredColumns {
		if !ds.HasColumn(c) {
			return nil, fmt.Errorf("missing column %q", c)
		}
	}
	return DatasetToRecords(ds), nil
}

// DatasetToRecords converts a normalized base table into purchase
// records, silently excluding rows with a blank code or invalid date.
func DatasetToRecords(ds models.Dataset) []models.PurchaseRecord {
	var records []models.PurchaseRecord
	for _, row := range ds.Rows {
		code := strings.TrimSpace(row[models.ColClientCode])
		if code == "" {
			continue
		}
		date, err := ParseDate(row[models.ColDate])
		if err != nil {
			continue
		}
		units, _ := models.ParseNumber(row[models.ColClients])
		records = append(records, models.PurchaseRecord{
			CustomerCode: code,
			PurchaseDate: date,
			Category:     strings.TrimSpace(row[models.ColGroup1]),
			Units:        units,
		})
	}
	return records
}

// toDataset builds a Dataset from raw sheet rows: first row is the
// header (normalized), fully blank rows are dropped.
func toDataset(raw [][]string) models.Dataset {
	if len(raw) == 0 {
		return models.Dataset{}
	}
	cols := NormalizeHeader(raw[0])
	ds := models.Dataset{Columns: cols}
	for _, r := range raw[1:] {
		m := make(map[string]string, len(cols))
		blank := true
		for i, c := range cols {
			v := ""
			if i < len(r) {
				v = strings.TrimSpace(r[i])
			}
			if v != "" {
				blank = false
			}
			m[c] = v
		}
		if blank {
			continue
		}
		ds.Rows = append(ds.Rows, m)
	}
	return ds
}
