package catalog_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/plantquiz/internal/catalog"
)

const sample = `
decks:
  - id: 1
    name: Arbres
    difficulty: 1
    plants:
      - id: 10
        scientific_name: Quercus robur
        french_name: Chêne pédonculé
        images:
          - {id: 100, url: "https://api.tela-botanica.org/img:000000100O.jpg"}
          - {id: 101, url: "https://api.tela-botanica.org/img:000000101O.jpg"}
      - id: 11
        scientific_name: Fagus sylvatica
        french_name: Hêtre
  - id: 2
    name: Forêt
    private: true
    plants:
      - id: 11
        scientific_name: Fagus sylvatica
        french_name: Hêtre
`

func TestRead(t *testing.T) {
	contents, err := catalog.Read(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, contents, 2)

	arbres := contents[0]
	assert.Equal(t, "Arbres", arbres.Deck.Name)
	require.Len(t, arbres.Plants, 2)
	assert.Equal(t, int64(10), arbres.Plants[0].ID)
	assert.Equal(t, "Hêtre", arbres.Plants[1].FrenchName)
	require.Len(t, arbres.Images, 2)
	assert.Equal(t, int64(10), arbres.Images[0].PlantID)

	assert.True(t, contents[1].Deck.Private)
	assert.Empty(t, contents[1].Images)
}

func TestRead_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{name: "empty", yaml: "", wantErr: "empty"},
		{name: "no decks", yaml: "decks: []", wantErr: "no decks"},
		{name: "unknown key", yaml: "decks:\n  - id: 1\n    name: A\n    colour: red\n", wantErr: "colour"},
		{name: "duplicate deck", yaml: "decks:\n  - {id: 1, name: A}\n  - {id: 1, name: B}\n", wantErr: "duplicate"},
		{name: "missing name", yaml: "decks:\n  - {id: 1}\n", wantErr: "name is required"},
		{
			name:    "plant twice in deck",
			yaml:    "decks:\n  - id: 1\n    name: A\n    plants:\n      - {id: 5, scientific_name: X}\n      - {id: 5, scientific_name: X}\n",
			wantErr: "listed twice",
		},
		{
			name:    "conflicting plant",
			yaml:    "decks:\n  - id: 1\n    name: A\n    plants: [{id: 5, scientific_name: X}]\n  - id: 2\n    name: B\n    plants: [{id: 5, scientific_name: Y}]\n",
			wantErr: "described differently",
		},
		{
			name:    "shared image",
			yaml:    "decks:\n  - id: 1\n    name: A\n    plants:\n      - {id: 5, scientific_name: X, images: [{id: 9, url: u}]}\n      - {id: 6, scientific_name: Y, images: [{id: 9, url: u}]}\n",
			wantErr: "image 9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.Read(strings.NewReader(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
