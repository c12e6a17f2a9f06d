package main

import (
	"context"
	"flag"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"recency-contribution/pkg/calculator"
	"recency-contribution/pkg/database"
	"recency-contribution/pkg/ingest"
	"recency-contribution/pkg/models"
	"recency-contribution/pkg/report"
)

func main() {
	_ = godotenv.Load()
	logger := logrus.New()

	baseDir := flag.String("base", envOr("RECENCY_BASE_DIR", "base"), "Directory with base Excel files (purchase history)")
	dsn := flag.String("dsn", os.Getenv("RECENCY_DSN"), "Optional MariaDB/MySQL DSN for the purchase history (overrides -base)")
	table := flag.String("table", envOr("RECENCY_TABLE", "purchases"), "Purchase history table when loading via -dsn")
	upload := flag.String("upload", "", "Uploaded metric document (.xlsx or .csv)")
	baseMetric := flag.String("metric", "clients", "Base-only metric when no upload is given: clients|units")
	valueColumn := flag.String("value-column", "", "Single-metric mode: value column to aggregate from the upload")
	codeColumn := flag.String("code-column", models.ColClientCode, "Single-metric mode: customer code column in the upload")
	category := flag.String("category", "", "Exact-match filter on the primary group column")
	categories := flag.String("categories", "", "Comma-separated multi-category filter (matched against any category column)")
	jsonOut := flag.String("json", "", "Optional JSON report output path")
	csvOut := flag.String("csv", "", "Optional CSV export path for the tables")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	records, err := loadBase(logger, *dsn, *table, *baseDir)
	if err != nil {
		logger.WithFields(logrus.Fields{"error": err.Error()}).Fatal("load purchase base")
	}
	logger.WithFields(logrus.Fields{"records": len(records)}).Info("purchase base ready")

	// Base-only mode: contribution of the base itself.
	if *upload == "" {
		metric := calculator.BaseMetric(*baseMetric)
		if metric != calculator.BaseMetricClients && metric != calculator.BaseMetricUnits {
			logger.WithFields(logrus.Fields{"metric": *baseMetric}).Fatal("unknown base metric; use clients or units")
		}
		contrib := calculator.FromBase(records, metric)
		if len(contrib) == 0 {
			logger.Warn("no data in base, or expected columns not found")
			return
		}
		report.PrintTable(os.Stdout, contrib)
		return
	}

	dataset, err := ingest.ReadUpload(*upload)
	if err != nil {
		logger.WithFields(logrus.Fields{"file": *upload, "error": err.Error()}).Fatal("read upload")
	}
	logger.WithFields(logrus.Fields{"rows": len(dataset.Rows), "columns": len(dataset.Columns)}).Debug("upload read")

	last := calculator.LastPurchases(records)

	// Single-metric mode: inner-join contribution for one chosen column.
	if *valueColumn != "" {
		contrib := calculator.Aggregate(dataset, last, *valueColumn, *codeColumn)
		if len(contrib) == 0 {
			logger.Warn("no overlap between upload and base, or columns missing")
			return
		}
		report.PrintTable(os.Stdout, contrib)
		return
	}

	filter := calculator.CategoryFilter{Primary: strings.TrimSpace(*category)}
	if *categories != "" {
		for _, v := range strings.Split(*categories, ",") {
			if v = strings.TrimSpace(v); v != "" {
				filter.Any = append(filter.Any, v)
			}
		}
	}

	tables, index := calculator.BuildTables(dataset, last, filter)
	r := report.New(*upload, filter.Any, tables, index)
	r.Print(os.Stdout)

	if *jsonOut != "" {
		if err := r.WriteJSON(*jsonOut); err != nil {
			logger.WithFields(logrus.Fields{"path": *jsonOut, "error": err.Error()}).Fatal("write json report")
		}
		logger.WithFields(logrus.Fields{"path": *jsonOut}).Info("json report saved")
	}
	if *csvOut != "" {
		if err := r.WriteCSV(*csvOut); err != nil {
			logger.WithFields(logrus.Fields{"path": *csvOut, "error": err.Error()}).Fatal("write csv export")
		}
		logger.WithFields(logrus.Fields{"path": *csvOut}).Info("csv export saved")
	}
}

// loadBase reads the purchase history from the database when a DSN is
// given, from the base directory otherwise.
func loadBase(logger *logrus.Logger, dsn, table, baseDir string) ([]models.PurchaseRecord, error) {
	if dsn != "" {
		db, dsnUsed, err := database.Open(dsn)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		logger.WithFields(logrus.Fields{"dsn": dsnUsed}).Debug("connected")
		return database.LoadPurchases(context.Background(), db, table, logger)
	}
	return ingest.ScanBase(baseDir, logger)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
