package playback

import "github.com/therealutkarshpriyadarshi/streamview/pkg/models"

// EventType identifies what a Player event carries.
type EventType int

const (
	// EventTimeTick reports the current elapsed time. Players emit at
	// least one tick per second while playing.
	EventTimeTick EventType = iota
	// EventDurationKnown reports the total duration once the player
	// has determined it.
	EventDurationKnown
	// EventReady reports that the player can begin rendering.
	EventReady
)

// Event is pushed by a Player on its event stream.
type Event struct {
	Type    EventType
	Seconds float64 // position for TimeTick, total for DurationKnown
}

// Player is the opaque playback primitive. Implementations own the
// actual decode/render pipeline; the controller only drives it and
// consumes its event stream. Events() is closed on Release.
type Player interface {
	Play()
	Pause()
	Seek(seconds float64)
	Events() <-chan Event
	Release()
}

// PlayerFactory constructs a player for a stream URL. Factories report
// malformed or unusable URLs as an error instead of handing back a
// player that never becomes ready.
type PlayerFactory func(url string) (Player, error)

// DefaultFallbackStreamURL is played when a record resolves to no
// stream at all, so demo sessions still render something.
const DefaultFallbackStreamURL = "https://sample-videos.com/zip/10/mp4/SampleVideo_1280x720_1mb.mp4"

// ResolveStreamURL picks the session's stream: the record's playback
// URL, else its embed URL, else the given fallback (or the package
// default when fallback is empty).
func ResolveStreamURL(v *models.Video, fallback string) string {
	if u := v.PlaybackURL(); u != "" {
		return u
	}
	if v.PlayerEmbedURL != "" {
		return v.PlayerEmbedURL
	}
	if fallback != "" {
		return fallback
	}
	return DefaultFallbackStreamURL
}
