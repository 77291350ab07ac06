package repository

import (
	"context"

	"github.com/vytor/plantquiz/internal/models"
)

// PlayerRepository handles the aggregate statistics of players.
type PlayerRepository interface {
	Get(ctx context.Context, id int64) (*models.PlayerStats, error)
	Upsert(ctx context.Context, id int64, username string) (*models.PlayerStats, error)
	// AddStats increments the stored stats of a player by the given amounts.
	AddStats(ctx context.Context, id int64, level, score, gamesPlayed int) (*models.PlayerStats, error)
}
