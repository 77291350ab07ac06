package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Dialect captures what differs between the supported SQL backends.
type Dialect struct {
	Name        string
	DriverName  string
	Placeholder squirrel.PlaceholderFormat
	// MigrationsDir is the subdirectory of migrations/ holding this dialect's schema.
	MigrationsDir string
	// MigrationsTable is the DDL of the applied-migrations bookkeeping table.
	MigrationsTable string
}

var (
	SQLite = Dialect{
		Name:            "sqlite3",
		DriverName:      "sqlite3",
		Placeholder:     squirrel.Question,
		MigrationsDir:   "sqlite",
		MigrationsTable: `CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY, applied_at DATETIME DEFAULT CURRENT_TIMESTAMP)`,
	}
	Postgres = Dialect{
		Name:            "postgres",
		DriverName:      "postgres",
		Placeholder:     squirrel.Dollar,
		MigrationsDir:   "postgres",
		MigrationsTable: `CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY, applied_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP)`,
	}
	MySQL = Dialect{
		Name:            "mysql",
		DriverName:      "mysql",
		Placeholder:     squirrel.Question,
		MigrationsDir:   "mysql",
		MigrationsTable: `CREATE TABLE IF NOT EXISTS schema_migrations (version VARCHAR(255) PRIMARY KEY, applied_at DATETIME(6) DEFAULT CURRENT_TIMESTAMP(6))`,
	}
)

// DialectFor resolves a DB_DRIVER value.
func DialectFor(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case "sqlite", "sqlite3", "":
		return SQLite, nil
	case "postgres", "postgresql":
		return Postgres, nil
	case "mysql":
		return MySQL, nil
	}
	return Dialect{}, fmt.Errorf("unsupported database driver: %s", name)
}

// Builder returns a squirrel statement builder using this dialect's placeholders.
func (d Dialect) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(d.Placeholder)
}

// DSN builds the driver connection string from a sqlite path or a server URL.
func (d Dialect) DSN(path, url string) string {
	switch d.Name {
	case SQLite.Name:
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		return path + sep + "_busy_timeout=5000&_foreign_keys=on&_journal_mode=WAL&_synchronous=NORMAL"
	case MySQL.Name:
		// Timestamps are scanned into time.Time.
		if !strings.Contains(url, "parseTime=") {
			sep := "?"
			if strings.Contains(url, "?") {
				sep = "&"
			}
			return url + sep + "parseTime=true"
		}
		return url
	default:
		return url
	}
}

func (d Dialect) configure(sqlDB *sql.DB) {
	if d.Name == SQLite.Name {
		sqlDB.SetMaxOpenConns(1) // single writer
		return
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Minute)
}
