package imagecache

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vytor/plantquiz/internal/logger"
)

// Cache checks that image urls resolve before a round starts and remembers
// the ones that did.
type Cache struct {
	httpClient  *http.Client
	concurrency int

	mu       sync.RWMutex
	resolved map[string]struct{}
}

func New(httpClient *http.Client, concurrency int) *Cache {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if concurrency <= 0 {
		concurrency = 8
	}
	return &Cache{
		httpClient:  httpClient,
		concurrency: concurrency,
		resolved:    make(map[string]struct{}),
	}
}

// Warm resolves urls concurrently. A url that fails to resolve is logged and
// left out of the result; only ctx cancellation is an error.
func (c *Cache) Warm(ctx context.Context, urls []string) (map[string]bool, error) {
	log := logger.FromContext(ctx).WithPrefix("imagecache")
	start := time.Now()

	out := make(map[string]bool, len(urls))
	var outMu sync.Mutex
	mark := func(u string) {
		outMu.Lock()
		out[u] = true
		outMu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	fetched := 0
	for _, u := range urls {
		if c.known(u) {
			mark(u)
			continue
		}
		fetched++
		u := u
		g.Go(func() error {
			if err := c.fetch(gctx, u); err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				log.Warn("image did not resolve: %s: %v", u, err)
				return nil
			}
			c.remember(u)
			mark(u)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Debug("warmed %d images (%d fetched, %d resolved) in %v", len(urls), fetched, len(out), time.Since(start))
	return out, nil
}

func (c *Cache) fetch(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}

func (c *Cache) known(url string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.resolved[url]
	return ok
}

func (c *Cache) remember(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resolved[url] = struct{}{}
}

// Len returns how many urls are known to resolve.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.resolved)
}

// Nop treats every url as resolved. It is used when prefetching is disabled.
type Nop struct{}

func (Nop) Warm(_ context.Context, urls []string) (map[string]bool, error) {
	out := make(map[string]bool, len(urls))
	for _, u := range urls {
		out[u] = true
	}
	return out, nil
}
