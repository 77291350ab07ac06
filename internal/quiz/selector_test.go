package quiz_test

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/plantquiz/internal/models"
	"github.com/vytor/plantquiz/internal/quiz"
	"github.com/vytor/plantquiz/internal/testutil"
)

func selectorOpts(seed int64) quiz.SelectorOptions {
	return quiz.SelectorOptions{
		ImagesPerQuestion: 5,
		DisplayFormat:     "CRS",
		Labels:            quiz.DefaultLabels(),
		Rand:              rand.New(rand.NewSource(seed)),
	}
}

func TestDisplayURL(t *testing.T) {
	assert.Equal(t, "https://api.tela-botanica.org/img:000123CRS.jpg",
		quiz.DisplayURL("https://api.tela-botanica.org/img:000123O.jpg", "CRS"))
	assert.Equal(t, "https://api.tela-botanica.org/img:000123CRS.jpg",
		quiz.DisplayURL("https://api.tela-botanica.org/img:000123L.jpg", "CRS"))
	assert.Equal(t, "https://cdn.example.org/leaf.png", quiz.DisplayURL("https://cdn.example.org/leaf.png", "CRS"))
	assert.Equal(t, "https://api.tela-botanica.org/img:000123O.jpg",
		quiz.DisplayURL("https://api.tela-botanica.org/img:000123O.jpg", ""))
}

func TestDedupeImages_ByCanonicalIdentity(t *testing.T) {
	set := models.ImageSet{
		{ID: 1, URL: "https://api.tela-botanica.org/img:000001O.jpg"},
		{ID: 2, URL: "https://api.tela-botanica.org/img:000001CRS.jpg"},
		{ID: 3, URL: "https://api.tela-botanica.org/img:000002O.jpg"},
		{ID: 4, URL: "https://api.tela-botanica.org/img:000002O.jpg"},
	}
	got := quiz.DedupeImages(set)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(3), got[1].ID)
}

func TestNewSelector_NotReady(t *testing.T) {
	plants := testutil.SamplePlants(3)

	_, err := quiz.NewSelector(nil, models.ImageManifest{}, selectorOpts(1))
	assert.ErrorIs(t, err, quiz.ErrNotReady)

	_, err = quiz.NewSelector(plants, nil, selectorOpts(1))
	assert.ErrorIs(t, err, quiz.ErrNotReady)
}

func TestNewSelector_NoPlayablePlants(t *testing.T) {
	plants := testutil.SamplePlants(3)
	_, err := quiz.NewSelector(plants, models.ImageManifest{1: {}}, selectorOpts(1))
	assert.ErrorIs(t, err, quiz.ErrNoPlayablePlants)

	_, err = quiz.NewSelector([]models.Plant{}, models.ImageManifest{}, selectorOpts(1))
	assert.ErrorIs(t, err, quiz.ErrNoPlayablePlants)
}

func TestSelector_NeverTargetsPlantWithoutImages(t *testing.T) {
	plants := testutil.SamplePlants(4)
	manifest := testutil.SampleManifest(plants[:2], 3)

	sel, err := quiz.NewSelector(plants, manifest, selectorOpts(7))
	require.NoError(t, err)
	assert.Equal(t, 2, sel.Eligible())

	for i := 0; i < 200; i++ {
		q := sel.Next(0)
		assert.Contains(t, []int64{1, 2}, q.Target.ID)
		assert.NotEmpty(t, q.Images)
	}
}

func TestSelector_ChoicesAreAllPlants(t *testing.T) {
	plants := testutil.SamplePlants(6)
	sel, err := quiz.NewSelector(plants, testutil.SampleManifest(plants, 2), selectorOpts(3))
	require.NoError(t, err)

	orders := map[string]bool{}
	for i := 0; i < 20; i++ {
		q := sel.Next(0)
		require.Len(t, q.Choices, len(plants))

		seen := map[int64]bool{}
		var ids []string
		for _, c := range q.Choices {
			seen[c.PlantID] = true
			ids = append(ids, c.Title)
		}
		assert.Len(t, seen, len(plants))
		assert.True(t, seen[q.Target.ID], "target is among the choices")
		orders[strings.Join(ids, ",")] = true
	}
	assert.Greater(t, len(orders), 1, "choice order is reshuffled")
}

func TestSelector_ExcludesPreviousTarget(t *testing.T) {
	plants := testutil.SamplePlants(2)
	sel, err := quiz.NewSelector(plants, testutil.SampleManifest(plants, 1), selectorOpts(11))
	require.NoError(t, err)

	prev := int64(0)
	for i := 0; i < 50; i++ {
		q := sel.Next(prev)
		assert.NotEqual(t, prev, q.Target.ID)
		prev = q.Target.ID
	}
}

func TestSelector_SingleEligiblePlantRepeats(t *testing.T) {
	plants := testutil.SamplePlants(3)
	sel, err := quiz.NewSelector(plants, testutil.SampleManifest(plants[:1], 2), selectorOpts(1))
	require.NoError(t, err)

	assert.Equal(t, int64(1), sel.Next(1).Target.ID)
}

func TestSelector_ImagesAreDistinctDisplayVariants(t *testing.T) {
	plants := testutil.SamplePlants(1)
	manifest := testutil.SampleManifest(plants, 8)
	manifest[1] = append(manifest[1], manifest[1]...)

	sel, err := quiz.NewSelector(plants, manifest, selectorOpts(5))
	require.NoError(t, err)

	q := sel.Next(0)
	require.Len(t, q.Images, 5)
	seen := map[string]bool{}
	for _, u := range q.Images {
		assert.True(t, strings.HasSuffix(u, "CRS.jpg"), u)
		assert.False(t, seen[u], "duplicate image %s", u)
		seen[u] = true
	}
}

func TestSelector_FewerImagesThanRequested(t *testing.T) {
	plants := testutil.SamplePlants(1)
	sel, err := quiz.NewSelector(plants, testutil.SampleManifest(plants, 2), selectorOpts(5))
	require.NoError(t, err)
	assert.Len(t, sel.Next(0).Images, 2)
}

func TestSelector_Labels(t *testing.T) {
	plants := testutil.SamplePlants(1)
	manifest := testutil.SampleManifest(plants, 1)

	sel, err := quiz.NewSelector(plants, manifest, selectorOpts(1))
	require.NoError(t, err)
	c := sel.Next(0).Choices[0]
	assert.Equal(t, plants[0].FrenchName, c.Title)
	assert.Equal(t, plants[0].ScientificName, c.Subtitle)

	opts := selectorOpts(1)
	opts.Labels = quiz.LabelConfig{Title: models.NumINPN, Subtitle: models.CorrectName}
	sel, err = quiz.NewSelector(plants, manifest, opts)
	require.NoError(t, err)
	c = sel.Next(0).Choices[0]
	assert.Equal(t, plants[0].NumINPN, c.Title)
	assert.Equal(t, plants[0].CorrectName, c.Subtitle)

	opts.Labels = quiz.LabelConfig{Title: "latin", Subtitle: ""}
	sel, err = quiz.NewSelector(plants, manifest, opts)
	require.NoError(t, err)
	c = sel.Next(0).Choices[0]
	assert.Equal(t, plants[0].FrenchName, c.Title, "unknown fields fall back to the defaults")
	assert.Equal(t, plants[0].ScientificName, c.Subtitle)
}

func TestSelector_DeterministicForSeed(t *testing.T) {
	plants := testutil.SamplePlants(5)
	manifest := testutil.SampleManifest(plants, 6)

	a, err := quiz.NewSelector(plants, manifest, selectorOpts(99))
	require.NoError(t, err)
	b, err := quiz.NewSelector(plants, manifest, selectorOpts(99))
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Next(0), b.Next(0))
	}
}
