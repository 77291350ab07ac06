package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/require"
	"github.com/vytor/plantquiz/internal/db"
	"github.com/vytor/plantquiz/internal/models"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// A single connection is kept open so every query sees the same database.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(context.Background(), sqlDB, db.SQLite), "failed to apply migrations")
	return sqlDB
}

// Builder returns the statement builder matching NewTestDB.
func Builder() squirrel.StatementBuilderType {
	return db.SQLite.Builder()
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// SamplePlants returns n plants with distinct ids starting at 1.
func SamplePlants(n int) []models.Plant {
	plants := make([]models.Plant, n)
	for i := range plants {
		id := int64(i + 1)
		plants[i] = models.Plant{
			ID:             id,
			ScientificName: "Planta " + letter(i),
			CorrectName:    "Planta " + letter(i) + " L.",
			FrenchName:     "Plante " + letter(i),
			NumINPN:        "inpn-" + letter(i),
		}
	}
	return plants
}

// SampleManifest gives each plant perPlant Tela Botanica style image urls.
func SampleManifest(plants []models.Plant, perPlant int) models.ImageManifest {
	m := make(models.ImageManifest, len(plants))
	var nextID int64 = 1
	for _, p := range plants {
		set := make(models.ImageSet, 0, perPlant)
		for i := 0; i < perPlant; i++ {
			set = append(set, models.Image{
				ID:      nextID,
				PlantID: p.ID,
				URL:     imageURL(nextID),
			})
			nextID++
		}
		m[p.ID] = set
	}
	return m
}

func imageURL(id int64) string {
	return fmt.Sprintf("https://api.tela-botanica.org/img:%09dO.jpg", id)
}

func letter(i int) string {
	return string(rune('a' + i%26))
}
