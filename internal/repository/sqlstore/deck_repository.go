package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/plantquiz/internal/logger"
	"github.com/vytor/plantquiz/internal/models"
	"github.com/vytor/plantquiz/internal/repository"
)

var deckColumns = []string{"id", "name", "description", "difficulty", "preview_image_url", "private", "created_at"}

type deckRepository struct {
	db *sql.DB
	sb squirrel.StatementBuilderType
}

// NewDeckRepository creates a new DeckRepository implementation
func NewDeckRepository(db *sql.DB, sb squirrel.StatementBuilderType) repository.DeckRepository {
	return &deckRepository{db: db, sb: sb}
}

func scanDeck(row rowScanner) (models.Deck, error) {
	var d models.Deck
	err := row.Scan(&d.ID, &d.Name, &d.Description, &d.Difficulty, &d.PreviewImageURL, &d.Private, &d.CreatedAt)
	return d, err
}

func (r *deckRepository) Get(ctx context.Context, id int64) (*models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("getting deck: id=%d", id)

	query, args, err := r.sb.Select(deckColumns...).From("decks").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}

	d, err := scanDeck(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("deck not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get deck: %v", err)
		return nil, err
	}
	return &d, nil
}

func (r *deckRepository) List(ctx context.Context, includePrivate bool) ([]models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("listing decks: include_private=%v", includePrivate)

	q := r.sb.Select(deckColumns...).From("decks").OrderBy("difficulty ASC", "name ASC")
	if !includePrivate {
		q = q.Where(squirrel.Eq{"private": false})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list decks: %v", err)
		return nil, err
	}
	defer rows.Close()

	var decks []models.Deck
	for rows.Next() {
		d, err := scanDeck(rows)
		if err != nil {
			log.Error("failed to scan deck row: %v", err)
			return nil, err
		}
		decks = append(decks, d)
	}

	log.Debug("found %d decks", len(decks))
	return decks, rows.Err()
}

func (r *deckRepository) Plants(ctx context.Context, deckID int64) ([]models.Plant, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("loading plants of deck: deck_id=%d", deckID)

	query, args, err := r.sb.
		Select("p.id", "p.scientific_name", "p.correct_name", "p.french_name", "p.num_inpn").
		From("plants p").
		Join("deck_plants dp ON dp.plant_id = p.id").
		Where(squirrel.Eq{"dp.deck_id": deckID}).
		OrderBy("dp.position ASC", "p.id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to load plants: %v", err)
		return nil, err
	}
	defer rows.Close()

	plants := []models.Plant{}
	for rows.Next() {
		var p models.Plant
		if err := rows.Scan(&p.ID, &p.ScientificName, &p.CorrectName, &p.FrenchName, &p.NumINPN); err != nil {
			log.Error("failed to scan plant row: %v", err)
			return nil, err
		}
		plants = append(plants, p)
	}

	log.Debug("deck %d has %d plants", deckID, len(plants))
	return plants, rows.Err()
}

// Import writes a deck, its plants and their images, replacing what a previous
// import stored under the same ids.
func (r *deckRepository) Import(ctx context.Context, content models.DeckContent) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	d := content.Deck
	log.Info("importing deck %d (%s): %d plants, %d images", d.ID, d.Name, len(content.Plants), len(content.Images))

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		found, err := exists(ctx, tx, r.sb.Select("1").From("decks").Where(squirrel.Eq{"id": d.ID}))
		if err != nil {
			return err
		}
		if found {
			err = execTx(ctx, tx, r.sb.Update("decks").SetMap(map[string]any{
				"name":              d.Name,
				"description":       d.Description,
				"difficulty":        d.Difficulty,
				"preview_image_url": d.PreviewImageURL,
				"private":           d.Private,
			}).Where(squirrel.Eq{"id": d.ID}))
		} else {
			err = execTx(ctx, tx, r.sb.Insert("decks").
				Columns("id", "name", "description", "difficulty", "preview_image_url", "private").
				Values(d.ID, d.Name, d.Description, d.Difficulty, d.PreviewImageURL, d.Private))
		}
		if err != nil {
			return fmt.Errorf("write deck %d: %w", d.ID, err)
		}

		if err := execTx(ctx, tx, r.sb.Delete("deck_plants").Where(squirrel.Eq{"deck_id": d.ID})); err != nil {
			return err
		}

		plantIDs := make([]int64, 0, len(content.Plants))
		for pos, p := range content.Plants {
			if err := r.writePlant(ctx, tx, p); err != nil {
				return fmt.Errorf("write plant %d: %w", p.ID, err)
			}
			if err := execTx(ctx, tx, r.sb.Insert("deck_plants").
				Columns("deck_id", "plant_id", "position").
				Values(d.ID, p.ID, pos)); err != nil {
				return err
			}
			plantIDs = append(plantIDs, p.ID)
		}

		if len(plantIDs) > 0 {
			if err := execTx(ctx, tx, r.sb.Delete("images").Where(squirrel.Eq{"plant_id": plantIDs})); err != nil {
				return err
			}
		}
		for _, img := range content.Images {
			ins := r.sb.Insert("images").Columns("plant_id", "url").Values(img.PlantID, img.URL)
			if img.ID != 0 {
				ins = r.sb.Insert("images").Columns("id", "plant_id", "url").Values(img.ID, img.PlantID, img.URL)
			}
			if err := execTx(ctx, tx, ins); err != nil {
				return fmt.Errorf("write image of plant %d: %w", img.PlantID, err)
			}
		}
		return nil
	})
}

func (r *deckRepository) writePlant(ctx context.Context, tx *sql.Tx, p models.Plant) error {
	found, err := exists(ctx, tx, r.sb.Select("1").From("plants").Where(squirrel.Eq{"id": p.ID}))
	if err != nil {
		return err
	}
	if found {
		return execTx(ctx, tx, r.sb.Update("plants").SetMap(map[string]any{
			"scientific_name": p.ScientificName,
			"correct_name":    p.CorrectName,
			"french_name":     p.FrenchName,
			"num_inpn":        p.NumINPN,
		}).Where(squirrel.Eq{"id": p.ID}))
	}
	return execTx(ctx, tx, r.sb.Insert("plants").
		Columns("id", "scientific_name", "correct_name", "french_name", "num_inpn").
		Values(p.ID, p.ScientificName, p.CorrectName, p.FrenchName, p.NumINPN))
}
