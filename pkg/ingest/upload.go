package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"recency-contribution/pkg/models"
)

// ReadUpload reads an uploaded metric document (.xlsx, .xlsm or .csv)
// into a Dataset with normalized headers.
func ReadUpload(path string) (models.Dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSVUpload(path)
	case ".xlsx", ".xlsm":
		return readExcelUpload(path)
	default:
		return models.Dataset{}, fmt.Errorf("unsupported upload format %q", filepath.Ext(path))
	}
}

func readExcelUpload(path string) (models.Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return models.Dataset{}, fmt.Errorf("open excel: %w", err)
	}
	defer f.Close()

	raw, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return models.Dataset{}, fmt.Errorf("read sheet: %w", err)
	}
	return toDataset(raw), nil
}

func readCSVUpload(path string) (models.Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return models.Dataset{}, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	var raw [][]string
	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return models.Dataset{}, fmt.Errorf("read csv: %w", err)
		}
		raw = append(raw, record)
	}
	return toDataset(raw), nil
}
