package sqlstore

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/plantquiz/internal/logger"
	"github.com/vytor/plantquiz/internal/models"
	"github.com/vytor/plantquiz/internal/repository"
)

type imageRepository struct {
	db *sql.DB
	sb squirrel.StatementBuilderType
}

// NewImageRepository creates a new ImageRepository implementation
func NewImageRepository(db *sql.DB, sb squirrel.StatementBuilderType) repository.ImageRepository {
	return &imageRepository{db: db, sb: sb}
}

// ImageManifest returns the images of the given plants. Every requested plant
// gets an entry, possibly empty.
func (r *imageRepository) ImageManifest(ctx context.Context, plantIDs []int64) (models.ImageManifest, error) {
	log := logger.FromContext(ctx).WithPrefix("image_repo")
	log.Debug("loading images for %d plants", len(plantIDs))

	manifest := make(models.ImageManifest, len(plantIDs))
	for _, id := range plantIDs {
		manifest[id] = models.ImageSet{}
	}
	if len(plantIDs) == 0 {
		return manifest, nil
	}

	query, args, err := r.sb.Select("id", "plant_id", "url").
		From("images").
		Where(squirrel.Eq{"plant_id": plantIDs}).
		OrderBy("plant_id ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to load images: %v", err)
		return nil, err
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var img models.Image
		if err := rows.Scan(&img.ID, &img.PlantID, &img.URL); err != nil {
			log.Error("failed to scan image row: %v", err)
			return nil, err
		}
		manifest[img.PlantID] = append(manifest[img.PlantID], img)
		count++
	}

	log.Debug("loaded %d images", count)
	return manifest, rows.Err()
}
