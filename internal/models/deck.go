package models

import "time"

type Deck struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Difficulty      int       `json:"difficulty"`
	PreviewImageURL string    `json:"preview_image_url"`
	Private         bool      `json:"private"`
	CreatedAt       time.Time `json:"created_at"`
}

// NameField selects which of a plant's names is used as a label.
type NameField string

const (
	ScientificName NameField = "scientific_name"
	CorrectName    NameField = "correct_name"
	FrenchName     NameField = "french_name"
	NumINPN        NameField = "num_inpn"
)

// Valid reports whether f is one of the recognized name fields.
func (f NameField) Valid() bool {
	switch f {
	case ScientificName, CorrectName, FrenchName, NumINPN:
		return true
	}
	return false
}

type Plant struct {
	ID             int64  `json:"id"`
	ScientificName string `json:"scientific_name"`
	CorrectName    string `json:"correct_name"`
	FrenchName     string `json:"french_name"`
	NumINPN        string `json:"num_inpn"`
}

// Name returns the plant name stored under field. Unknown fields yield "".
func (p Plant) Name(field NameField) string {
	switch field {
	case ScientificName:
		return p.ScientificName
	case CorrectName:
		return p.CorrectName
	case FrenchName:
		return p.FrenchName
	case NumINPN:
		return p.NumINPN
	}
	return ""
}

type Image struct {
	ID      int64  `json:"id"`
	PlantID int64  `json:"plant_id"`
	URL     string `json:"url"`
}

// ImageSet is the ordered image list of one plant. It may hold duplicates.
type ImageSet []Image

// ImageManifest maps a plant id to its images.
type ImageManifest map[int64]ImageSet

// URLs returns every image URL of the manifest, in no particular order.
func (m ImageManifest) URLs() []string {
	var urls []string
	for _, set := range m {
		for _, img := range set {
			urls = append(urls, img.URL)
		}
	}
	return urls
}

// DeckContent is a deck with its ordered plants and their images, as imported from a catalog.
type DeckContent struct {
	Deck   Deck
	Plants []Plant
	Images []Image
}
