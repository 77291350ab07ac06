// Package catalog reads deck catalogs: YAML files listing decks with their
// plants and images, used to seed the database.
package catalog

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/vytor/plantquiz/internal/models"
)

type File struct {
	Decks []Deck `yaml:"decks"`
}

type Deck struct {
	ID              int64   `yaml:"id"`
	Name            string  `yaml:"name"`
	Description     string  `yaml:"description"`
	Difficulty      int     `yaml:"difficulty"`
	PreviewImageURL string  `yaml:"preview_image_url"`
	Private         bool    `yaml:"private"`
	Plants          []Plant `yaml:"plants"`
}

type Plant struct {
	ID             int64   `yaml:"id"`
	ScientificName string  `yaml:"scientific_name"`
	CorrectName    string  `yaml:"correct_name"`
	FrenchName     string  `yaml:"french_name"`
	NumINPN        string  `yaml:"num_inpn"`
	Images         []Image `yaml:"images"`
}

type Image struct {
	ID  int64  `yaml:"id"`
	URL string `yaml:"url"`
}

// Read parses a catalog and converts it to importable deck contents.
func Read(r io.Reader) ([]models.DeckContent, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("catalog is empty")
		}
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f.Contents(), nil
}

// Validate checks ids and names. A plant may appear in several decks but must
// be described the same way each time.
func (f File) Validate() error {
	if len(f.Decks) == 0 {
		return fmt.Errorf("catalog has no decks")
	}
	decks := map[int64]bool{}
	plants := map[int64]Plant{}
	images := map[int64]int64{}

	for _, d := range f.Decks {
		if d.ID <= 0 {
			return fmt.Errorf("deck %q: id must be positive", d.Name)
		}
		if decks[d.ID] {
			return fmt.Errorf("deck %d: duplicate id", d.ID)
		}
		decks[d.ID] = true
		if d.Name == "" {
			return fmt.Errorf("deck %d: name is required", d.ID)
		}

		inDeck := map[int64]bool{}
		for _, p := range d.Plants {
			if p.ID <= 0 {
				return fmt.Errorf("deck %d: plant %q: id must be positive", d.ID, p.ScientificName)
			}
			if inDeck[p.ID] {
				return fmt.Errorf("deck %d: plant %d listed twice", d.ID, p.ID)
			}
			inDeck[p.ID] = true
			if p.ScientificName == "" {
				return fmt.Errorf("plant %d: scientific_name is required", p.ID)
			}
			if prev, ok := plants[p.ID]; ok && !samePlant(prev, p) {
				return fmt.Errorf("plant %d: described differently in two decks", p.ID)
			}
			plants[p.ID] = p

			for _, img := range p.Images {
				if img.ID <= 0 || img.URL == "" {
					return fmt.Errorf("plant %d: images need a positive id and a url", p.ID)
				}
				if owner, ok := images[img.ID]; ok && owner != p.ID {
					return fmt.Errorf("image %d: used by plants %d and %d", img.ID, owner, p.ID)
				}
				images[img.ID] = p.ID
			}
		}
	}
	return nil
}

func samePlant(a, b Plant) bool {
	if a.ScientificName != b.ScientificName || a.CorrectName != b.CorrectName ||
		a.FrenchName != b.FrenchName || a.NumINPN != b.NumINPN || len(a.Images) != len(b.Images) {
		return false
	}
	for i := range a.Images {
		if a.Images[i] != b.Images[i] {
			return false
		}
	}
	return true
}

// Contents converts the catalog, keeping deck and plant order.
func (f File) Contents() []models.DeckContent {
	out := make([]models.DeckContent, 0, len(f.Decks))
	for _, d := range f.Decks {
		c := models.DeckContent{
			Deck: models.Deck{
				ID:              d.ID,
				Name:            d.Name,
				Description:     d.Description,
				Difficulty:      d.Difficulty,
				PreviewImageURL: d.PreviewImageURL,
				Private:         d.Private,
			},
			Plants: make([]models.Plant, 0, len(d.Plants)),
		}
		for _, p := range d.Plants {
			c.Plants = append(c.Plants, models.Plant{
				ID:             p.ID,
				ScientificName: p.ScientificName,
				CorrectName:    p.CorrectName,
				FrenchName:     p.FrenchName,
				NumINPN:        p.NumINPN,
			})
			for _, img := range p.Images {
				c.Images = append(c.Images, models.Image{ID: img.ID, PlantID: p.ID, URL: img.URL})
			}
		}
		out = append(out, c)
	}
	return out
}
