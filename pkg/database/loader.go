package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"recency-contribution/pkg/models"

	_ "github.com/go-sql-driver/mysql"
)

// Open accepts a mariadb:// or mysql:// URL (or a native driver DSN)
// and returns the connection plus the DSN actually used.
func Open(dsn string) (*sql.DB, string, error) {
	mysqlDSN, err := toMySQLDSN(dsn)
	if err != nil {
		return nil, "", err
	}
	db, err := sql.Open("mysql", mysqlDSN)
	if err != nil {
		return nil, "", err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, mysqlDSN, nil
}

func toMySQLDSN(dsn string) (string, error) {
	if strings.HasPrefix(dsn, "mariadb://") || strings.HasPrefix(dsn, "mysql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "", fmt.Errorf("parse dsn: %w", err)
		}
		user := ""
		pass := ""
		if u.User != nil {
			user = u.User.Username()
			pw, _ := u.User.Password()
			pass = pw
		}
		host := u.Host
		db := strings.TrimPrefix(u.Path, "/")
		if user == "" || host == "" || db == "" {
			return "", fmt.Errorf("incomplete dsn (user/host/db)")
		}
		return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&interpolateParams=true",
			user, pass, host, db), nil
	}
	return dsn, nil
}

var validTableName = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// LoadPurchases reads the purchase history from tableName. Rows with a
// null date or blank customer code are dropped here, mirroring the
// Excel base scan. The table needs the columns customer_code,
// purchase_date, category and units.
func LoadPurchases(ctx context.Context, db *sql.DB, tableName string, logger *logrus.Logger) ([]models.PurchaseRecord, error) {
	if !validTableName.MatchString(tableName) {
		return nil, fmt.Errorf("invalid table name %q", tableName)
	}

	q := fmt.Sprintf(`
		SELECT customer_code, purchase_date, category, units
		FROM %s
	`, tableName)

	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query purchases: %w", err)
	}
	defer rows.Close()

	var records []models.PurchaseRecord
	read, dropped := 0, 0
	for rows.Next() {
		read++
		var (
			code     sql.NullString
			date     sql.NullTime
			category sql.NullString
			units    sql.NullFloat64
		)
		if err := rows.Scan(&code, &date, &category, &units); err != nil {
			return nil, fmt.Errorf("scan purchase row: %w", err)
		}
		if !code.Valid || strings.TrimSpace(code.String) == "" || !date.Valid {
			dropped++
			continue
		}
		records = append(records, models.PurchaseRecord{
			CustomerCode: strings.TrimSpace(code.String),
			PurchaseDate: date.Time,
			Category:     strings.TrimSpace(category.String),
			Units:        units.Float64,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"table":   tableName,
		"read":    read,
		"dropped": dropped,
	}).Debug("purchase base loaded")
	return records, nil
}
