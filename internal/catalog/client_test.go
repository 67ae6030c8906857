package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/therealutkarshpriyadarshi/streamview/internal/cache"
	"github.com/therealutkarshpriyadarshi/streamview/pkg/models"
)

type fakeAPI struct {
	mu            sync.Mutex
	showcasePage  *models.VideoPage
	showcaseErr   error
	searchPage    *models.VideoPage
	searchErr     error
	checkErr      error
	showcaseCalls int
	searchCalls   int
	gate          chan struct{} // when set, showcase calls block until closed
}

func (f *fakeAPI) ShowcaseVideos(ctx context.Context, showcaseID string) (*models.VideoPage, error) {
	f.mu.Lock()
	f.showcaseCalls++
	gate := f.gate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.showcasePage, f.showcaseErr
}

func (f *fakeAPI) SearchVideos(ctx context.Context, query string) (*models.VideoPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls++
	return f.searchPage, f.searchErr
}

func (f *fakeAPI) CheckConnection(ctx context.Context) error {
	return f.checkErr
}

func (f *fakeAPI) calls() (showcase, search int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.showcaseCalls, f.searchCalls
}

// watcher records every published snapshot so tests can wait for a
// full loading->done cycle instead of polling racy flags.
type watcher struct {
	ch     chan Snapshot
	cancel func()
}

func watch(c *Client) *watcher {
	w := &watcher{ch: make(chan Snapshot, 64)}
	w.cancel = c.Subscribe(func(s Snapshot) {
		w.ch <- s
	})
	return w
}

// awaitComplete returns the first snapshot with Loading false that
// follows one with Loading true.
func (w *watcher) awaitComplete(t *testing.T) Snapshot {
	t.Helper()
	sawLoading := false
	deadline := time.After(2 * time.Second)
	for {
		select {
		case s := <-w.ch:
			if s.Loading {
				sawLoading = true
				continue
			}
			if sawLoading {
				return s
			}
		case <-deadline:
			t.Fatal("no fetch completion observed")
		}
	}
}

func page(names ...string) *models.VideoPage {
	p := &models.VideoPage{Total: len(names), Page: 1, PerPage: 25}
	for i, n := range names {
		p.Data = append(p.Data, models.Video{
			URI:         "/videos/" + n,
			Name:        n,
			Duration:    10 * (i + 1),
			CreatedTime: "2024-01-01T00:00:00+00:00",
		})
	}
	return p
}

func names(videos []models.Video) []string {
	out := make([]string, 0, len(videos))
	for _, v := range videos {
		out = append(out, v.Name)
	}
	return out
}

func TestFetchShowcaseSuccess(t *testing.T) {
	api := &fakeAPI{showcasePage: page("a", "b", "c")}
	c := New(api, nil, nil)
	defer c.Close()
	w := watch(c)
	defer w.cancel()

	c.FetchShowcase(context.Background(), "18401281")

	snap := w.awaitComplete(t)
	assert.Equal(t, []string{"a", "b", "c"}, names(snap.Videos), "server order preserved")
	assert.Empty(t, snap.ErrorMessage)
	assert.False(t, snap.Loading)
}

func TestFetchShowcaseFailureSubstitutesFallback(t *testing.T) {
	api := &fakeAPI{showcaseErr: errors.New("connection refused")}
	c := New(api, nil, nil)
	defer c.Close()
	w := watch(c)
	defer w.cancel()

	c.FetchShowcase(context.Background(), "18401281")

	snap := w.awaitComplete(t)
	assert.Equal(t, names(FallbackVideos()), names(snap.Videos))
	assert.Contains(t, snap.ErrorMessage, "Failed to load videos:")
	assert.Contains(t, snap.ErrorMessage, "connection refused")
	assert.False(t, snap.Loading)
}

func TestFetchShowcaseEmptySubstitutesFallbackWithoutError(t *testing.T) {
	api := &fakeAPI{showcasePage: page()}
	c := New(api, nil, nil)
	defer c.Close()
	w := watch(c)
	defer w.cancel()

	c.FetchShowcase(context.Background(), "18401281")

	snap := w.awaitComplete(t)
	assert.Equal(t, names(FallbackVideos()), names(snap.Videos))
	assert.Empty(t, snap.ErrorMessage, "empty showcase is not an error")
}

func TestSearchEmptyResultIsTerminal(t *testing.T) {
	api := &fakeAPI{searchPage: page()}
	c := New(api, nil, nil)
	defer c.Close()
	w := watch(c)
	defer w.cancel()

	c.Search(context.Background(), "nothing matches this")

	snap := w.awaitComplete(t)
	assert.Empty(t, snap.Videos, "no fallback for empty search results")
	assert.Empty(t, snap.ErrorMessage)
}

func TestSearchFailureKeepsRecords(t *testing.T) {
	api := &fakeAPI{showcasePage: page("a", "b"), searchErr: errors.New("timeout")}
	c := New(api, nil, nil)
	defer c.Close()
	w := watch(c)
	defer w.cancel()

	c.FetchShowcase(context.Background(), "18401281")
	w.awaitComplete(t)

	c.Search(context.Background(), "cats")

	snap := w.awaitComplete(t)
	assert.Contains(t, snap.ErrorMessage, "Search failed:")
	assert.Equal(t, []string{"a", "b"}, names(snap.Videos), "failed search must not touch records")
}

func TestSearchEmptyQuerySkipsNetwork(t *testing.T) {
	api := &fakeAPI{searchPage: page("x")}
	c := New(api, nil, nil)
	defer c.Close()

	c.Search(context.Background(), "   ")
	time.Sleep(50 * time.Millisecond)

	_, searches := api.calls()
	assert.Zero(t, searches)
	assert.False(t, c.Snapshot().Loading)
}

func TestLoadingFlagDuringFetch(t *testing.T) {
	gate := make(chan struct{})
	api := &fakeAPI{showcasePage: page("a"), gate: gate}
	c := New(api, nil, nil)
	defer c.Close()
	w := watch(c)
	defer w.cancel()

	c.FetchShowcase(context.Background(), "18401281")

	require.Eventually(t, func() bool {
		return c.Snapshot().Loading
	}, time.Second, 5*time.Millisecond)

	close(gate)

	snap := w.awaitComplete(t)
	assert.False(t, snap.Loading)
	assert.Equal(t, []string{"a"}, names(snap.Videos))
}

func TestCancelledSubscriberStopsReceiving(t *testing.T) {
	api := &fakeAPI{showcasePage: page("a")}
	c := New(api, nil, nil)
	defer c.Close()

	var count int64
	var mu sync.Mutex
	cancel := c.Subscribe(func(Snapshot) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	w := watch(c)
	defer w.cancel()

	c.FetchShowcase(context.Background(), "18401281")
	w.awaitComplete(t)

	cancel()
	mu.Lock()
	before := count
	mu.Unlock()

	c.FetchShowcase(context.Background(), "18401281")
	w.awaitComplete(t)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, before, count, "cancelled listener must not fire")
}

func TestFetchServedFromCache(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	pc, err := cache.New(mr.Host(), mr.Server().Addr().Port, "", 0, time.Minute)
	require.NoError(t, err)
	defer pc.Close()

	require.NoError(t, pc.SetPage(context.Background(), cache.ShowcaseKey("18401281"), page("cached")))

	// The API would fail; the cached page must win before it is hit.
	api := &fakeAPI{showcaseErr: errors.New("unreachable")}
	c := New(api, pc, nil)
	defer c.Close()
	w := watch(c)
	defer w.cancel()

	c.FetchShowcase(context.Background(), "18401281")

	snap := w.awaitComplete(t)
	assert.Equal(t, []string{"cached"}, names(snap.Videos))
	assert.Empty(t, snap.ErrorMessage)

	showcases, _ := api.calls()
	assert.Zero(t, showcases, "cache hit must skip the network")
}

func TestFallbackIsNeverCached(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	pc, err := cache.New(mr.Host(), mr.Server().Addr().Port, "", 0, time.Minute)
	require.NoError(t, err)
	defer pc.Close()

	api := &fakeAPI{showcasePage: page()} // empty -> fallback published
	c := New(api, pc, nil)
	defer c.Close()
	w := watch(c)
	defer w.cancel()

	c.FetchShowcase(context.Background(), "18401281")
	snap := w.awaitComplete(t)
	require.Len(t, snap.Videos, 3)

	got, err := pc.GetPage(context.Background(), cache.ShowcaseKey("18401281"))
	require.NoError(t, err)
	assert.Nil(t, got, "fallback substitution must not be cached")
}

func TestLastWriteWins(t *testing.T) {
	gate := make(chan struct{})
	api := &fakeAPI{showcasePage: page("slow"), gate: gate}
	c := New(api, nil, nil)
	defer c.Close()
	w := watch(c)
	defer w.cancel()

	// First call parks on the gate inside the API.
	c.FetchShowcase(context.Background(), "18401281")
	require.Eventually(t, func() bool {
		s, _ := api.calls()
		return s == 1
	}, time.Second, 5*time.Millisecond)

	// Second call runs to completion first.
	api.mu.Lock()
	api.gate = nil
	api.showcasePage = page("fast")
	api.mu.Unlock()

	c.FetchShowcase(context.Background(), "18401281")
	snap := w.awaitComplete(t)
	assert.Equal(t, []string{"fast"}, names(snap.Videos))

	// Now the slow response lands and overwrites: last write wins.
	api.mu.Lock()
	api.showcasePage = page("slow")
	api.mu.Unlock()
	close(gate)

	require.Eventually(t, func() bool {
		v := c.Snapshot().Videos
		return len(v) == 1 && v[0].Name == "slow"
	}, 2*time.Second, 5*time.Millisecond)
}

func TestCheckConnection(t *testing.T) {
	c := New(&fakeAPI{}, nil, nil)
	defer c.Close()
	assert.NoError(t, c.CheckConnection(context.Background()))

	bad := New(&fakeAPI{checkErr: errors.New("401")}, nil, nil)
	defer bad.Close()
	assert.Error(t, bad.CheckConnection(context.Background()))
}
