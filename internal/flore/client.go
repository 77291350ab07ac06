package flore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/vytor/plantquiz/internal/logger"
	"github.com/vytor/plantquiz/internal/models"
)

// Client reads decks, plants and plant images from a remote flora API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{Timeout: 15 * time.Second})
}

func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// StatusError is returned for non-200 responses.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("flore status %d: %s", e.Status, e.Body)
}

type deckPlant struct {
	PlantID int64 `json:"plant_id"`
	Order   int   `json:"order"`
}

type plantImages struct {
	ID     int64 `json:"id"`
	Images []struct {
		ID  int64  `json:"id"`
		URL string `json:"url"`
	} `json:"images"`
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	log := logger.FromContext(ctx).WithPrefix("flore")
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	log.Debug("fetching %s", u)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		log.Error("failed to create request: %v", err)
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("request failed: %v", err)
		return err
	}
	defer resp.Body.Close()

	log.Debug("response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Error("request failed: status=%d, body=%s", resp.StatusCode, string(body))
		return &StatusError{Status: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Error("failed to decode response: %v", err)
		return err
	}
	return nil
}

// Deck returns (nil, nil) when the API does not know the deck.
func (c *Client) Deck(ctx context.Context, deckID int64) (*models.Deck, error) {
	var d models.Deck
	err := c.get(ctx, fmt.Sprintf("/decks/%d", deckID), nil, &d)
	var se *StatusError
	if errors.As(err, &se) && se.Status == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *Client) ListDecks(ctx context.Context) ([]models.Deck, error) {
	var decks []models.Deck
	if err := c.get(ctx, "/decks", nil, &decks); err != nil {
		return nil, err
	}
	return decks, nil
}

// Plants returns the deck's plants in deck order.
func (c *Client) Plants(ctx context.Context, deckID int64) ([]models.Plant, error) {
	log := logger.FromContext(ctx).WithPrefix("flore").WithField("deck_id", deckID)

	var entries []deckPlant
	if err := c.get(ctx, fmt.Sprintf("/decks/%d/plants", deckID), nil, &entries); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return []models.Plant{}, nil
	}

	ids := make([]int64, len(entries))
	for i, e := range entries {
		ids[i] = e.PlantID
	}
	var plants []models.Plant
	if err := c.get(ctx, "/plants", url.Values{"ids": {joinIDs(ids)}}, &plants); err != nil {
		return nil, err
	}

	byID := make(map[int64]models.Plant, len(plants))
	for _, p := range plants {
		byID[p.ID] = p
	}
	ordered := make([]models.Plant, 0, len(entries))
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Order < entries[j].Order })
	for _, e := range entries {
		p, ok := byID[e.PlantID]
		if !ok {
			log.Warn("plant %d of deck is unknown to the flora API", e.PlantID)
			continue
		}
		ordered = append(ordered, p)
	}

	log.Info("fetched %d plants", len(ordered))
	return ordered, nil
}

func (c *Client) ImageManifest(ctx context.Context, plantIDs []int64) (models.ImageManifest, error) {
	manifest := make(models.ImageManifest, len(plantIDs))
	for _, id := range plantIDs {
		manifest[id] = models.ImageSet{}
	}
	if len(plantIDs) == 0 {
		return manifest, nil
	}

	var payload []plantImages
	if err := c.get(ctx, "/images", url.Values{"plant_ids": {joinIDs(plantIDs)}}, &payload); err != nil {
		return nil, err
	}
	for _, p := range payload {
		set := manifest[p.ID]
		for _, img := range p.Images {
			set = append(set, models.Image{ID: img.ID, PlantID: p.ID, URL: img.URL})
		}
		manifest[p.ID] = set
	}
	return manifest, nil
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}
