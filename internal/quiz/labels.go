package quiz

import "github.com/vytor/plantquiz/internal/models"

// LabelConfig chooses which plant names label a choice card.
type LabelConfig struct {
	Title    models.NameField `json:"title" yaml:"title"`
	Subtitle models.NameField `json:"subtitle" yaml:"subtitle"`
}

// DefaultLabels shows the vernacular name with the scientific name below it.
func DefaultLabels() LabelConfig {
	return LabelConfig{Title: models.FrenchName, Subtitle: models.ScientificName}
}

// Normalize replaces unrecognized fields with their defaults.
func (c LabelConfig) Normalize() LabelConfig {
	def := DefaultLabels()
	if !c.Title.Valid() {
		c.Title = def.Title
	}
	if !c.Subtitle.Valid() {
		c.Subtitle = def.Subtitle
	}
	return c
}
