package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/plantquiz/internal/logger"
	"github.com/vytor/plantquiz/internal/models"
	"github.com/vytor/plantquiz/internal/repository"
)

type playerRepository struct {
	db *sql.DB
	sb squirrel.StatementBuilderType
}

// NewPlayerRepository creates a new PlayerRepository implementation
func NewPlayerRepository(db *sql.DB, sb squirrel.StatementBuilderType) repository.PlayerRepository {
	return &playerRepository{db: db, sb: sb}
}

func (r *playerRepository) Get(ctx context.Context, id int64) (*models.PlayerStats, error) {
	log := logger.FromContext(ctx).WithPrefix("player_repo")
	log.Debug("getting player: id=%d", id)

	query, args, err := r.sb.Select("id", "username", "level", "score", "games_played", "updated_at").
		From("players").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var p models.PlayerStats
	err = r.db.QueryRowContext(ctx, query, args...).
		Scan(&p.PlayerID, &p.Username, &p.Level, &p.Score, &p.GamesPlayed, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("player not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get player: %v", err)
		return nil, err
	}
	return &p, nil
}

// Upsert registers a player under an externally assigned id, refreshing the
// username if the player already exists.
func (r *playerRepository) Upsert(ctx context.Context, id int64, username string) (*models.PlayerStats, error) {
	log := logger.FromContext(ctx).WithPrefix("player_repo")
	log.Debug("upserting player: id=%d username=%s", id, username)

	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		found, err := exists(ctx, tx, r.sb.Select("1").From("players").Where(squirrel.Eq{"id": id}))
		if err != nil {
			return err
		}
		if found {
			return execTx(ctx, tx, r.sb.Update("players").
				Set("username", username).
				Where(squirrel.Eq{"id": id}))
		}
		return execTx(ctx, tx, r.sb.Insert("players").
			Columns("id", "username", "updated_at").
			Values(id, username, time.Now().UTC()))
	})
	if err != nil {
		log.Error("failed to upsert player: %v", err)
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *playerRepository) AddStats(ctx context.Context, id int64, level, score, gamesPlayed int) (*models.PlayerStats, error) {
	log := logger.FromContext(ctx).WithPrefix("player_repo")
	log.Debug("adding player stats: id=%d level=+%d score=+%d games_played=+%d", id, level, score, gamesPlayed)

	query, args, err := r.sb.Update("players").
		SetMap(map[string]any{
			"level":        squirrel.Expr("level + ?", level),
			"score":        squirrel.Expr("score + ?", score),
			"games_played": squirrel.Expr("games_played + ?", gamesPlayed),
			"updated_at":   time.Now().UTC(),
		}).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to update player stats: %v", err)
		return nil, err
	}
	return r.Get(ctx, id)
}
