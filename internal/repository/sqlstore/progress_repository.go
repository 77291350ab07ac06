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

var playedDeckColumns = []string{"player_id", "deck_id", "level", "current_stars", "updated_at"}

type progressRepository struct {
	db *sql.DB
	sb squirrel.StatementBuilderType
}

// NewProgressRepository creates a new ProgressRepository implementation
func NewProgressRepository(db *sql.DB, sb squirrel.StatementBuilderType) repository.ProgressRepository {
	return &progressRepository{db: db, sb: sb}
}

func scanPlayedDeck(row rowScanner) (models.PlayedDeckRecord, error) {
	var rec models.PlayedDeckRecord
	err := row.Scan(&rec.PlayerID, &rec.DeckID, &rec.Level, &rec.CurrentStars, &rec.UpdatedAt)
	return rec, err
}

func (r *progressRepository) GetPlayedDeck(ctx context.Context, playerID, deckID int64) (models.PlayedDeckLookup, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("getting played deck: player_id=%d deck_id=%d", playerID, deckID)

	query, args, err := r.sb.Select(playedDeckColumns...).
		From("played_decks").
		Where(squirrel.Eq{"player_id": playerID, "deck_id": deckID}).
		ToSql()
	if err != nil {
		return models.PlayedDeckLookup{}, err
	}

	rec, err := scanPlayedDeck(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no played deck record: player_id=%d deck_id=%d", playerID, deckID)
		return models.PlayedDeckNotFound(), nil
	}
	if err != nil {
		log.Error("failed to get played deck: %v", err)
		return models.PlayedDeckLookup{}, err
	}
	return models.FoundPlayedDeck(rec), nil
}

func (r *progressRepository) ListPlayedDecks(ctx context.Context, playerID int64) ([]models.PlayedDeckRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("listing played decks: player_id=%d", playerID)

	query, args, err := r.sb.Select(playedDeckColumns...).
		From("played_decks").
		Where(squirrel.Eq{"player_id": playerID}).
		OrderBy("updated_at DESC", "deck_id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list played decks: %v", err)
		return nil, err
	}
	defer rows.Close()

	records := []models.PlayedDeckRecord{}
	for rows.Next() {
		rec, err := scanPlayedDeck(rows)
		if err != nil {
			log.Error("failed to scan played deck row: %v", err)
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *progressRepository) CreatePlayedDeck(ctx context.Context, rec models.PlayedDeckRecord) (*models.PlayedDeckRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("creating played deck: player_id=%d deck_id=%d level=%d stars=%d",
		rec.PlayerID, rec.DeckID, rec.Level, rec.CurrentStars)

	query, args, err := r.sb.Insert("played_decks").
		Columns("player_id", "deck_id", "level", "current_stars", "updated_at").
		Values(rec.PlayerID, rec.DeckID, rec.Level, rec.CurrentStars, time.Now().UTC()).
		ToSql()
	if err != nil {
		return nil, err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to create played deck: %v", err)
		return nil, err
	}

	lookup, err := r.GetPlayedDeck(ctx, rec.PlayerID, rec.DeckID)
	if err != nil || !lookup.Found {
		return nil, err
	}
	return &lookup.Record, nil
}

// UpdatePlayedDeck applies patch to an existing record. It returns (nil, nil)
// when the record does not exist.
func (r *progressRepository) UpdatePlayedDeck(ctx context.Context, playerID, deckID int64, patch models.PlayedDeckPatch) (*models.PlayedDeckRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("updating played deck: player_id=%d deck_id=%d", playerID, deckID)

	if !patch.Empty() {
		set := map[string]any{"updated_at": time.Now().UTC()}
		if patch.Level != nil {
			set["level"] = *patch.Level
		}
		if patch.CurrentStars != nil {
			set["current_stars"] = *patch.CurrentStars
		}
		query, args, err := r.sb.Update("played_decks").
			SetMap(set).
			Where(squirrel.Eq{"player_id": playerID, "deck_id": deckID}).
			ToSql()
		if err != nil {
			return nil, err
		}
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			log.Error("failed to update played deck: %v", err)
			return nil, err
		}
	}

	lookup, err := r.GetPlayedDeck(ctx, playerID, deckID)
	if err != nil || !lookup.Found {
		return nil, err
	}
	return &lookup.Record, nil
}
