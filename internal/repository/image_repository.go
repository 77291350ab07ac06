package repository

import (
	"context"

	"github.com/vytor/plantquiz/internal/models"
)

// ImageRepository resolves the images of a set of plants.
type ImageRepository interface {
	ImageManifest(ctx context.Context, plantIDs []int64) (models.ImageManifest, error)
}
