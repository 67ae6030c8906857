// Package catalog turns unreliable catalog API responses into a stable,
// observable collection of video records. All published-state mutation
// happens on a run loop, so subscribers see whole updates in arrival
// order; network calls run on their own goroutines and marshal results
// back before touching state.
package catalog

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/therealutkarshpriyadarshi/streamview/internal/cache"
	"github.com/therealutkarshpriyadarshi/streamview/internal/logging"
	"github.com/therealutkarshpriyadarshi/streamview/internal/metrics"
	"github.com/therealutkarshpriyadarshi/streamview/internal/runloop"
	"github.com/therealutkarshpriyadarshi/streamview/internal/tracing"
	"github.com/therealutkarshpriyadarshi/streamview/pkg/models"
)

// API is the slice of the Vimeo client the catalog needs.
type API interface {
	ShowcaseVideos(ctx context.Context, showcaseID string) (*models.VideoPage, error)
	SearchVideos(ctx context.Context, query string) (*models.VideoPage, error)
	CheckConnection(ctx context.Context) error
}

// Snapshot is an immutable view of the published state.
type Snapshot struct {
	Videos       []models.Video
	Loading      bool
	ErrorMessage string
}

// Listener receives a snapshot after every published-state change, on
// the client's run loop.
type Listener func(Snapshot)

// Client is the catalog store. Fetch and search are fire-and-observe:
// they return immediately and publish results through the snapshot.
// Concurrent calls race last-write-wins, the same way rapid
// re-navigation does in the UI.
type Client struct {
	api       API
	pageCache *cache.Cache
	loop      *runloop.Loop
	log       *logging.Logger

	mu     sync.RWMutex
	snap   Snapshot
	subs   map[uint64]Listener
	nextID uint64
}

// New creates a catalog client. pageCache may be nil to disable
// caching.
func New(api API, pageCache *cache.Cache, log *logging.Logger) *Client {
	if log == nil {
		log = logging.NewNop()
	}
	return &Client{
		api:       api,
		pageCache: pageCache,
		loop:      runloop.New(),
		log:       log,
		subs:      make(map[uint64]Listener),
	}
}

// Close stops the run loop. Pending completions are delivered first.
func (c *Client) Close() {
	c.loop.Stop()
}

// Snapshot returns a copy of the current published state.
func (c *Client) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// Subscribe registers a listener and returns its cancel func. The
// listener immediately receives the current snapshot on the run loop.
func (c *Client) Subscribe(fn Listener) (cancel func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	c.mu.Unlock()

	c.loop.Post(func() {
		fn(c.Snapshot())
	})

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// publish replaces the snapshot and notifies subscribers. Must run on
// the loop.
func (c *Client) publish(snap Snapshot) {
	c.mu.Lock()
	c.snap = snap
	listeners := make([]Listener, 0, len(c.subs))
	for _, fn := range c.subs {
		listeners = append(listeners, fn)
	}
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}

// beginLoad flips the loading flag and clears the previous error.
func (c *Client) beginLoad() {
	c.loop.Post(func() {
		snap := c.Snapshot()
		snap.Loading = true
		snap.ErrorMessage = ""
		c.publish(snap)
	})
}

// FetchShowcase loads the videos of a showcase and publishes them. On
// any failure the fallback set is published together with an error
// message; an empty result publishes the fallback set with no error.
func (c *Client) FetchShowcase(ctx context.Context, showcaseID string) {
	span, ctx := tracing.StartSpan(ctx, "catalog.fetch_showcase")
	tracing.SetTag(span, "showcase_id", showcaseID)

	log := c.log.WithShowcaseID(showcaseID)
	log.Info("fetching showcase videos")
	c.beginLoad()

	go func() {
		defer tracing.FinishSpan(span)
		start := time.Now()
		page, err := c.loadShowcase(ctx, showcaseID)
		c.observeRequest("showcase", start, err)

		c.loop.Post(func() {
			snap := c.Snapshot()
			snap.Loading = false
			switch {
			case err != nil:
				tracing.LogError(span, err)
				log.WithError(err).Error("showcase fetch failed, using fallback set")
				snap.ErrorMessage = "Failed to load videos: " + err.Error()
				snap.Videos = FallbackVideos()
				metrics.CatalogFallbacksTotal.Inc()
			case len(page.Data) == 0:
				// Nothing to show is not an error; degrade to the demo
				// records instead of an empty shelf.
				log.Info("showcase returned no videos, using fallback set")
				snap.ErrorMessage = ""
				snap.Videos = FallbackVideos()
				metrics.CatalogFallbacksTotal.Inc()
			default:
				log.Infof("loaded %d videos", len(page.Data))
				snap.ErrorMessage = ""
				snap.Videos = append([]models.Video(nil), page.Data...)
			}
			c.publish(snap)
		})
	}()
}

// Search queries the catalog and publishes the results. An empty result
// is a valid terminal state here: no fallback substitution, no error.
// An empty query is a no-op.
func (c *Client) Search(ctx context.Context, query string) {
	if strings.TrimSpace(query) == "" {
		c.log.Debug("empty search query, skipping request")
		return
	}

	span, ctx := tracing.StartSpan(ctx, "catalog.search")
	tracing.SetTag(span, "query", query)

	log := c.log.WithQuery(query)
	log.Info("searching videos")
	c.beginLoad()

	go func() {
		defer tracing.FinishSpan(span)
		start := time.Now()
		page, err := c.loadSearch(ctx, query)
		c.observeRequest("search", start, err)

		c.loop.Post(func() {
			snap := c.Snapshot()
			snap.Loading = false
			if err != nil {
				tracing.LogError(span, err)
				log.WithError(err).Error("search failed")
				snap.ErrorMessage = "Search failed: " + err.Error()
			} else {
				log.Infof("found %d videos", len(page.Data))
				snap.ErrorMessage = ""
				snap.Videos = append([]models.Video(nil), page.Data...)
			}
			c.publish(snap)
		})
	}()
}

// CheckConnection verifies API reachability and credentials. Results
// are logged, not published.
func (c *Client) CheckConnection(ctx context.Context) error {
	if err := c.api.CheckConnection(ctx); err != nil {
		c.log.WithError(err).Warn("API connection check failed")
		return err
	}
	c.log.Info("API connection check succeeded")
	return nil
}

func (c *Client) loadShowcase(ctx context.Context, showcaseID string) (*models.VideoPage, error) {
	key := cache.ShowcaseKey(showcaseID)
	if page := c.cachedPage(ctx, "showcase", key); page != nil {
		return page, nil
	}

	page, err := c.api.ShowcaseVideos(ctx, showcaseID)
	if err != nil {
		return nil, err
	}
	c.storePage(ctx, key, page)
	return page, nil
}

func (c *Client) loadSearch(ctx context.Context, query string) (*models.VideoPage, error) {
	key := cache.SearchKey(query)
	if page := c.cachedPage(ctx, "search", key); page != nil {
		return page, nil
	}

	page, err := c.api.SearchVideos(ctx, query)
	if err != nil {
		return nil, err
	}
	c.storePage(ctx, key, page)
	return page, nil
}

func (c *Client) cachedPage(ctx context.Context, operation, key string) *models.VideoPage {
	page, err := c.pageCache.GetPage(ctx, key)
	if err != nil {
		c.log.WithError(err).Warn("cache lookup failed")
		return nil
	}
	if page == nil {
		metrics.CacheLookupsTotal.WithLabelValues(operation, metrics.CacheMiss).Inc()
		return nil
	}
	metrics.CacheLookupsTotal.WithLabelValues(operation, metrics.CacheHit).Inc()
	return page
}

// storePage caches a page. Empty pages are not cached: the fallback
// substitution must never be served from cache, and an empty search is
// cheap to repeat.
func (c *Client) storePage(ctx context.Context, key string, page *models.VideoPage) {
	if len(page.Data) == 0 {
		return
	}
	if err := c.pageCache.SetPage(ctx, key, page); err != nil {
		c.log.WithError(err).Warn("cache store failed")
	}
}

func (c *Client) observeRequest(operation string, start time.Time, err error) {
	status := metrics.StatusOK
	if err != nil {
		status = metrics.StatusError
	}
	metrics.CatalogRequestsTotal.WithLabelValues(operation, status).Inc()
	metrics.CatalogRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
