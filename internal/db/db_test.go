package db_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/plantquiz/internal/db"
)

func TestDialectFor(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "sqlite3"},
		{"sqlite", "sqlite3"},
		{"postgresql", "postgres"},
		{"MySQL", "mysql"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := db.DialectFor(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Name)
		})
	}

	_, err := db.DialectFor("oracle")
	assert.Error(t, err)
}

func TestDialect_DSN(t *testing.T) {
	assert.Equal(t, "file:quiz.db?_busy_timeout=5000&_foreign_keys=on&_journal_mode=WAL&_synchronous=NORMAL",
		db.SQLite.DSN("file:quiz.db", ""))
	assert.Equal(t, "user:pw@tcp(localhost)/quiz?parseTime=true", db.MySQL.DSN("", "user:pw@tcp(localhost)/quiz"))
	assert.Equal(t, "user:pw@tcp(localhost)/quiz?parseTime=false", db.MySQL.DSN("", "user:pw@tcp(localhost)/quiz?parseTime=false"))
	assert.Equal(t, "postgres://localhost/quiz", db.Postgres.DSN("", "postgres://localhost/quiz"))
}

func TestDialect_BuilderPlaceholders(t *testing.T) {
	query, _, err := db.Postgres.Builder().Select("id").From("decks").Where(squirrel.Eq{"id": 1}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM decks WHERE id = $1", query)

	query, _, err = db.SQLite.Builder().Select("id").From("decks").Where(squirrel.Eq{"id": 1}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM decks WHERE id = ?", query)
}

func TestOpen_AppliesMigrationsOnce(t *testing.T) {
	ctx := context.Background()
	path := "file:" + filepath.Join(t.TempDir(), "quiz.db")

	database, err := db.Open(ctx, db.Options{Driver: "sqlite3", Path: path})
	require.NoError(t, err)
	defer database.Close()

	var tables int
	err = database.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('decks', 'plants', 'deck_plants', 'images', 'players', 'played_decks')`).
		Scan(&tables)
	require.NoError(t, err)
	assert.Equal(t, 6, tables)

	// Re-running is a no-op.
	require.NoError(t, db.Migrate(ctx, database.DB, database.Dialect))

	var applied int
	require.NoError(t, database.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&applied))
	assert.Equal(t, 1, applied)
}
