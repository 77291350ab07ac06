package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/plantquiz/internal/logger"
)

//go:embed migrations/*/*.sql
var migrationsFS embed.FS

type DB struct {
	*sql.DB
	Dialect Dialect
	log     *logger.Logger
}

// Options selects the backend to open.
type Options struct {
	Driver string
	Path   string // sqlite file path
	URL    string // postgres / mysql connection URL
}

func Open(ctx context.Context, opts Options) (*DB, error) {
	log := logger.Default().WithPrefix("db")

	dialect, err := DialectFor(opts.Driver)
	if err != nil {
		return nil, err
	}

	log.Info("opening %s database", dialect.Name)
	sqlDB, err := sql.Open(dialect.DriverName, dialect.DSN(opts.Path, opts.URL))
	if err != nil {
		log.Error("failed to open database: %v", err)
		return nil, err
	}
	dialect.configure(sqlDB)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		log.Error("failed to ping database: %v", err)
		return nil, fmt.Errorf("ping database: %w", err)
	}

	db := &DB{DB: sqlDB, Dialect: dialect, log: log}

	log.Debug("applying migrations")
	if err := Migrate(ctx, sqlDB, dialect); err != nil {
		_ = sqlDB.Close()
		log.Error("failed to apply migrations: %v", err)
		return nil, err
	}

	log.Info("database ready")
	return db, nil
}

// Builder returns a statement builder for this database's dialect.
func (db *DB) Builder() squirrel.StatementBuilderType {
	return db.Dialect.Builder()
}

// Migrate applies every embedded migration of dialect that is not yet recorded.
func Migrate(ctx context.Context, sqlDB *sql.DB, dialect Dialect) error {
	log := logger.FromContext(ctx).WithPrefix("db")
	b := dialect.Builder()

	if _, err := sqlDB.ExecContext(ctx, dialect.MigrationsTable); err != nil {
		return err
	}

	dir := path.Join("migrations", dialect.MigrationsDir)
	entries, err := migrationsFS.ReadDir(dir)
	if err != nil {
		return err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		version := entry.Name()
		applied, err := isMigrationApplied(ctx, sqlDB, b, version)
		if err != nil {
			return err
		}
		if applied {
			log.Debug("migration %s already applied, skipping", version)
			continue
		}
		sqlBytes, err := migrationsFS.ReadFile(path.Join(dir, version))
		if err != nil {
			return err
		}
		log.Info("applying migration: %s", version)
		for _, stmt := range splitStatements(string(sqlBytes)) {
			if _, err := sqlDB.ExecContext(ctx, stmt); err != nil {
				log.Error("migration %s failed: %v", version, err)
				return fmt.Errorf("apply migration %s: %w", version, err)
			}
		}
		query, args, err := b.Insert("schema_migrations").Columns("version").Values(version).ToSql()
		if err != nil {
			return err
		}
		if _, err := sqlDB.ExecContext(ctx, query, args...); err != nil {
			return err
		}
		log.Info("migration %s applied successfully", version)
	}
	return nil
}

func isMigrationApplied(ctx context.Context, sqlDB *sql.DB, b squirrel.StatementBuilderType, version string) (bool, error) {
	query, args, err := b.Select("version").From("schema_migrations").Where(squirrel.Eq{"version": version}).ToSql()
	if err != nil {
		return false, err
	}
	var v string
	err = sqlDB.QueryRowContext(ctx, query, args...).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// splitStatements breaks a migration file into single statements, since not
// every driver accepts several statements in one Exec.
func splitStatements(script string) []string {
	var stmts []string
	for _, part := range strings.Split(script, ";") {
		if s := strings.TrimSpace(part); s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts
}
