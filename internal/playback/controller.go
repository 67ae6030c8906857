// Package playback owns a playback session: elapsed/total time, the
// play/pause state machine, and the auto-hiding controls overlay. The
// player primitive reports time on its own goroutine; every mutation is
// marshaled onto the session's run loop before it touches published
// state.
package playback

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/opentracing/opentracing-go"
	"github.com/therealutkarshpriyadarshi/streamview/internal/logging"
	"github.com/therealutkarshpriyadarshi/streamview/internal/metrics"
	"github.com/therealutkarshpriyadarshi/streamview/internal/runloop"
	"github.com/therealutkarshpriyadarshi/streamview/internal/tracing"
	"github.com/therealutkarshpriyadarshi/streamview/pkg/models"
)

// State is the playback lifecycle state.
type State int

const (
	StateIdle State = iota
	StateLoading
	StatePlaying
	StatePaused
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrLoadTimeout reports that the player produced neither a ready
// signal nor a duration within the configured load timeout. This is
// how an unreachable stream URL surfaces instead of spinning forever.
var ErrLoadTimeout = errors.New("playback: stream did not become ready in time")

// Defaults for Config zero values.
const (
	DefaultControlsTimeout = 5 * time.Second
	DefaultLoadTimeout     = 15 * time.Second
	// SkipInterval is the jump applied by SkipForward and SkipBack.
	SkipInterval = 10.0
)

// Config holds per-session settings.
type Config struct {
	ControlsTimeout   time.Duration // inactivity window before controls hide
	LoadTimeout       time.Duration // loading window before StateFailed
	FallbackStreamURL string        // used when the record resolves to no URL
	Logger            *logging.Logger
}

// Snapshot is an immutable view of the session state.
type Snapshot struct {
	State           State
	CurrentTime     float64
	Duration        float64
	ControlsVisible bool
	Err             error
}

// Playing reports whether the session is actively playing.
func (s Snapshot) Playing() bool {
	return s.State == StatePlaying
}

// Listener receives a snapshot after every state change, on the
// session's run loop.
type Listener func(Snapshot)

// Controller drives one playback session around a chosen video record.
// It exclusively owns the player subscription and the single pending
// inactivity timer.
type Controller struct {
	video     models.Video
	player    Player
	streamURL string
	cfg       Config
	log       *logging.Logger
	sessionID string
	span      opentracing.Span
	loop      *runloop.Loop
	startedAt time.Time

	mu     sync.RWMutex
	snap   Snapshot
	subs   map[uint64]Listener
	nextID uint64

	// Loop-owned; never touched off-loop.
	timer      *time.Timer
	loadTimer  *time.Timer
	scrubbing  bool
	scrubValue float64
	closed     bool

	pumpDone  chan struct{}
	closeOnce sync.Once
}

// Start opens a session: resolves the stream URL, constructs the
// player, subscribes to its events, and autoplays. The returned
// controller is in StateLoading with controls shown and the inactivity
// timer armed.
func Start(video models.Video, factory PlayerFactory, cfg Config) (*Controller, error) {
	if cfg.ControlsTimeout <= 0 {
		cfg.ControlsTimeout = DefaultControlsTimeout
	}
	if cfg.LoadTimeout <= 0 {
		cfg.LoadTimeout = DefaultLoadTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNop()
	}

	streamURL := ResolveStreamURL(&video, cfg.FallbackStreamURL)
	player, err := factory(streamURL)
	if err != nil {
		return nil, err
	}

	sessionID := uuid.New().String()
	span, _ := tracing.StartSpan(context.Background(), "playback.session")
	tracing.SetTag(span, "session_id", sessionID)
	tracing.SetTag(span, "video_id", video.ID())

	c := &Controller{
		video:     video,
		player:    player,
		streamURL: streamURL,
		cfg:       cfg,
		log:       cfg.Logger.WithSessionID(sessionID).WithVideoID(video.ID()),
		sessionID: sessionID,
		span:      span,
		loop:      runloop.New(),
		startedAt: time.Now(),
		snap: Snapshot{
			State:           StateLoading,
			ControlsVisible: true,
		},
		subs:     make(map[uint64]Listener),
		pumpDone: make(chan struct{}),
	}

	metrics.PlaybackSessionsTotal.Inc()
	c.log.Infof("session started, stream %s", streamURL)

	c.loop.Post(func() {
		c.armControlsTimer()
		c.armLoadTimer()
	})

	go c.pump()
	player.Play() // autoplay

	return c, nil
}

// SessionID returns the session's unique id.
func (c *Controller) SessionID() string {
	return c.sessionID
}

// Video returns the record this session plays.
func (c *Controller) Video() models.Video {
	return c.video
}

// StreamURL returns the resolved stream URL.
func (c *Controller) StreamURL() string {
	return c.streamURL
}

// Snapshot returns a copy of the current session state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// Subscribe registers a listener and returns its cancel func. The
// listener immediately receives the current snapshot on the run loop.
func (c *Controller) Subscribe(fn Listener) (cancel func()) {
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

// TogglePlayPause flips between Playing and Paused, forwarding the
// command to the player. Counts as interaction for the controls timer.
func (c *Controller) TogglePlayPause() {
	c.loop.Post(func() {
		if c.closed {
			return
		}
		snap := c.Snapshot()
		switch snap.State {
		case StatePlaying:
			c.player.Pause()
			snap.State = StatePaused
		case StatePaused:
			c.player.Play()
			snap.State = StatePlaying
		default:
			// Still loading or failed: nothing to toggle, but the tap
			// is interaction all the same.
			c.armControlsTimer()
			return
		}
		c.armControlsTimer()
		c.publish(snap)
	})
}

// SeekTo moves playback to target seconds, clamped to [0, duration].
// Before the duration is known the range is [0, 1] so the clamp never
// degenerates. Counts as interaction for the controls timer.
func (c *Controller) SeekTo(seconds float64) {
	c.loop.Post(func() {
		if c.closed {
			return
		}
		c.seekLocked(seconds)
	})
}

// SkipForward jumps ahead by SkipInterval seconds.
func (c *Controller) SkipForward() {
	c.loop.Post(func() {
		if c.closed {
			return
		}
		c.seekLocked(c.Snapshot().CurrentTime + SkipInterval)
	})
}

// SkipBack jumps back by SkipInterval seconds.
func (c *Controller) SkipBack() {
	c.loop.Post(func() {
		if c.closed {
			return
		}
		c.seekLocked(c.Snapshot().CurrentTime - SkipInterval)
	})
}

// seekLocked clamps, forwards to the player, and re-arms the timer.
// Must run on the loop.
func (c *Controller) seekLocked(seconds float64) {
	snap := c.Snapshot()
	target := clamp(seconds, 0, maxDuration(snap.Duration))
	c.player.Seek(target)
	metrics.PlaybackSeeksTotal.Inc()
	snap.CurrentTime = target
	c.armControlsTimer()
	c.publish(snap)
}

// ToggleControls flips the overlay. Showing re-arms the inactivity
// timer; hiding cancels it.
func (c *Controller) ToggleControls() {
	c.loop.Post(func() {
		if c.closed {
			return
		}
		snap := c.Snapshot()
		snap.ControlsVisible = !snap.ControlsVisible
		if snap.ControlsVisible {
			c.armControlsTimer()
		} else {
			c.cancelControlsTimer()
		}
		c.publish(snap)
	})
}

// BeginScrub enters drag-to-seek mode: displayed time follows the drag
// value and time ticks are ignored until EndScrub.
func (c *Controller) BeginScrub() {
	c.loop.Post(func() {
		if c.closed {
			return
		}
		c.scrubbing = true
		c.scrubValue = c.Snapshot().CurrentTime
	})
}

// SetScrub updates the drag value while scrubbing.
func (c *Controller) SetScrub(seconds float64) {
	c.loop.Post(func() {
		if c.closed || !c.scrubbing {
			return
		}
		snap := c.Snapshot()
		c.scrubValue = clamp(seconds, 0, maxDuration(snap.Duration))
		snap.CurrentTime = c.scrubValue
		c.publish(snap)
	})
}

// EndScrub leaves drag mode and issues exactly one seek with the
// released value.
func (c *Controller) EndScrub() {
	c.loop.Post(func() {
		if c.closed || !c.scrubbing {
			return
		}
		c.scrubbing = false
		c.seekLocked(c.scrubValue)
	})
}

// Close tears the session down: stops the event subscription, cancels
// the pending timers, then pauses and releases the player, in that
// order. Safe to call more than once; only the first call acts.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		close(c.pumpDone)
		c.loop.Sync(func() {
			c.closed = true
			c.cancelControlsTimer()
			c.cancelLoadTimer()
		})
		c.player.Pause()
		c.player.Release()
		c.loop.Stop()

		metrics.PlaybackSessionSeconds.Observe(time.Since(c.startedAt).Seconds())
		tracing.FinishSpan(c.span)
		c.log.Info("session closed")
	})
}

// pump forwards player events onto the run loop until teardown or the
// player closes its stream.
func (c *Controller) pump() {
	events := c.player.Events()
	for {
		select {
		case <-c.pumpDone:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			c.loop.Post(func() {
				c.handleEvent(ev)
			})
		}
	}
}

// handleEvent applies one player event. Must run on the loop.
func (c *Controller) handleEvent(ev Event) {
	if c.closed {
		return
	}
	snap := c.Snapshot()
	switch ev.Type {
	case EventTimeTick:
		if c.scrubbing {
			return // drag value owns the display
		}
		snap.CurrentTime = ev.Seconds
	case EventDurationKnown:
		snap.Duration = ev.Seconds
		c.finishLoading(&snap)
	case EventReady:
		c.finishLoading(&snap)
	}
	c.publish(snap)
}

// finishLoading moves Loading to Playing, whichever signal arrives
// first wins. Must run on the loop.
func (c *Controller) finishLoading(snap *Snapshot) {
	if snap.State != StateLoading {
		return
	}
	snap.State = StatePlaying
	c.cancelLoadTimer()
	c.log.Debug("player ready, loading finished")
}

// armControlsTimer (re)starts the single inactivity timer. Must run on
// the loop, which keeps at most one live timer per session.
func (c *Controller) armControlsTimer() {
	c.cancelControlsTimer()
	c.timer = time.AfterFunc(c.cfg.ControlsTimeout, func() {
		c.loop.Post(func() {
			if c.closed {
				return
			}
			snap := c.Snapshot()
			if !snap.ControlsVisible {
				return
			}
			snap.ControlsVisible = false
			metrics.ControlsAutoHidesTotal.Inc()
			c.publish(snap)
		})
	})
}

func (c *Controller) cancelControlsTimer() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// armLoadTimer starts the loading watchdog that turns a stream which
// never becomes ready into an explicit failure.
func (c *Controller) armLoadTimer() {
	c.loadTimer = time.AfterFunc(c.cfg.LoadTimeout, func() {
		c.loop.Post(func() {
			if c.closed {
				return
			}
			snap := c.Snapshot()
			if snap.State != StateLoading {
				return
			}
			snap.State = StateFailed
			snap.Err = ErrLoadTimeout
			metrics.PlaybackFailuresTotal.Inc()
			c.log.WithError(ErrLoadTimeout).Error("playback failed")
			c.publish(snap)
		})
	})
}

func (c *Controller) cancelLoadTimer() {
	if c.loadTimer != nil {
		c.loadTimer.Stop()
		c.loadTimer = nil
	}
}

// publish replaces the snapshot and notifies subscribers. Must run on
// the loop.
func (c *Controller) publish(snap Snapshot) {
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

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// maxDuration guards the seek range before the duration is known.
func maxDuration(d float64) float64 {
	if d < 1 {
		return 1
	}
	return d
}
