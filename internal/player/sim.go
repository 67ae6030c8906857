// Package player provides playback primitives. The simulated player
// advances a clock instead of decoding media, which is enough to drive
// a full session for demos and tests.
package player

import (
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/therealutkarshpriyadarshi/streamview/internal/playback"
)

// Sim is a clock-driven player. It reports ready and a fixed duration
// right after construction, then emits one time tick per interval
// while playing. Playback stops at the end of the simulated media.
type Sim struct {
	url      string
	duration float64
	interval time.Duration

	events chan playback.Event
	seeked chan float64
	done   chan struct{}
	once   sync.Once

	mu      sync.Mutex
	pos     float64
	playing bool
}

// NewSim creates a simulated player for the given stream URL. The URL
// must be absolute http(s); anything else is a construction error.
func NewSim(streamURL string, duration float64, interval time.Duration) (*Sim, error) {
	u, err := url.Parse(streamURL)
	if err != nil {
		return nil, fmt.Errorf("player: invalid stream url %q: %w", streamURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("player: unsupported stream url %q", streamURL)
	}
	if interval <= 0 {
		interval = time.Second
	}

	s := &Sim{
		url:      streamURL,
		duration: duration,
		interval: interval,
		events:   make(chan playback.Event, 16),
		seeked:   make(chan float64, 1),
		done:     make(chan struct{}),
	}
	go s.run()
	return s, nil
}

// Factory returns a PlayerFactory producing simulated players with a
// fixed media duration and tick interval.
func Factory(duration float64, interval time.Duration) playback.PlayerFactory {
	return func(streamURL string) (playback.Player, error) {
		return NewSim(streamURL, duration, interval)
	}
}

func (s *Sim) run() {
	defer close(s.events)

	s.emit(playback.Event{Type: playback.EventReady})
	s.emit(playback.Event{Type: playback.EventDurationKnown, Seconds: s.duration})

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case pos := <-s.seeked:
			s.emit(playback.Event{Type: playback.EventTimeTick, Seconds: pos})
		case <-ticker.C:
			s.mu.Lock()
			if !s.playing {
				s.mu.Unlock()
				continue
			}
			s.pos += s.interval.Seconds()
			if s.pos >= s.duration {
				s.pos = s.duration
				s.playing = false
			}
			pos := s.pos
			s.mu.Unlock()
			s.emit(playback.Event{Type: playback.EventTimeTick, Seconds: pos})
		}
	}
}

// emit drops the event if the session is tearing down or the consumer
// has fallen far behind.
func (s *Sim) emit(ev playback.Event) {
	select {
	case <-s.done:
	case s.events <- ev:
	default:
	}
}

// Play starts or resumes the clock.
func (s *Sim) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playing = true
}

// Pause halts the clock.
func (s *Sim) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playing = false
}

// Seek moves the clock to the given position.
func (s *Sim) Seek(seconds float64) {
	s.mu.Lock()
	if seconds < 0 {
		seconds = 0
	}
	if seconds > s.duration {
		seconds = s.duration
	}
	s.pos = seconds
	pos := s.pos
	s.mu.Unlock()

	// Hand the tick to the run goroutine; only it may touch the
	// events channel.
	select {
	case s.seeked <- pos:
	default:
	}
}

// Position returns the current clock position.
func (s *Sim) Position() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos
}

// Events returns the player's event stream. Closed on Release.
func (s *Sim) Events() <-chan playback.Event {
	return s.events
}

// Release stops the clock and closes the event stream. Idempotent.
func (s *Sim) Release() {
	s.once.Do(func() {
		close(s.done)
	})
}
