package quiz

import (
	"math/rand"

	"github.com/vytor/plantquiz/internal/models"
)

// Choice is one answer card.
type Choice struct {
	PlantID  int64  `json:"plant_id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

// Question is a target plant with the images shown for it and the answer cards.
type Question struct {
	Target  models.Plant
	Images  []string
	Choices []Choice
}

type SelectorOptions struct {
	ImagesPerQuestion int
	DisplayFormat     string
	Labels            LabelConfig
	Rand              *rand.Rand
}

// Selector draws questions from a deck's plants. It is not safe for concurrent
// use; the session serializes access.
type Selector struct {
	plants   []models.Plant
	images   map[int64]models.ImageSet // deduplicated, non-empty
	eligible []models.Plant
	opts     SelectorOptions
}

// NewSelector prepares a selector. Plants without any image can never be drawn
// as a target but still appear among the choices.
func NewSelector(plants []models.Plant, manifest models.ImageManifest, opts SelectorOptions) (*Selector, error) {
	if plants == nil || manifest == nil {
		return nil, ErrNotReady
	}
	if opts.ImagesPerQuestion <= 0 {
		opts.ImagesPerQuestion = 5
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(rand.Int63()))
	}
	opts.Labels = opts.Labels.Normalize()

	s := &Selector{
		plants: plants,
		images: make(map[int64]models.ImageSet, len(plants)),
		opts:   opts,
	}
	for _, p := range plants {
		set := DedupeImages(manifest[p.ID])
		if len(set) == 0 {
			continue
		}
		if _, dup := s.images[p.ID]; dup {
			continue
		}
		s.images[p.ID] = set
		s.eligible = append(s.eligible, p)
	}
	if len(s.eligible) == 0 {
		return nil, ErrNoPlayablePlants
	}
	return s, nil
}

// Eligible returns how many plants can be drawn as a target.
func (s *Selector) Eligible() int {
	return len(s.eligible)
}

// Next draws a question. When excluding names an eligible plant and another
// one exists, the target is drawn among the others.
func (s *Selector) Next(excluding int64) Question {
	pool := s.eligible
	if len(pool) > 1 && excluding != 0 {
		others := make([]models.Plant, 0, len(pool))
		for _, p := range pool {
			if p.ID != excluding {
				others = append(others, p)
			}
		}
		if len(others) > 0 {
			pool = others
		}
	}
	target := pool[s.opts.Rand.Intn(len(pool))]

	return Question{
		Target:  target,
		Images:  s.pickImages(target.ID),
		Choices: s.shuffledChoices(),
	}
}

func (s *Selector) pickImages(plantID int64) []string {
	set := s.images[plantID]
	order := s.opts.Rand.Perm(len(set))
	n := min(len(order), s.opts.ImagesPerQuestion)

	urls := make([]string, 0, n)
	for _, i := range order[:n] {
		urls = append(urls, DisplayURL(set[i].URL, s.opts.DisplayFormat))
	}
	return urls
}

func (s *Selector) shuffledChoices() []Choice {
	choices := make([]Choice, len(s.plants))
	for i, p := range s.plants {
		choices[i] = Choice{
			PlantID:  p.ID,
			Title:    p.Name(s.opts.Labels.Title),
			Subtitle: p.Name(s.opts.Labels.Subtitle),
		}
	}
	s.opts.Rand.Shuffle(len(choices), func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
	})
	return choices
}
