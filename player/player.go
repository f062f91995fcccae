// Package player defines the content playback port the orchestrator drives,
// along with an mpv implementation speaking its JSON-IPC protocol.
package player

// EventType enumerates the lifecycle notifications of a playback engine.
type EventType int

const (
	EventBuffering EventType = iota + 1
	EventPlaying
	EventEnded
	EventError
)

func (t EventType) String() string {
	switch t {
	case EventBuffering:
		return "buffering"
	case EventPlaying:
		return "playing"
	case EventEnded:
		return "ended"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is a notification emitted by a playback engine.
type Event struct {
	Type EventType
	Err  error
}

// Listener receives playback events. It may be called from any goroutine.
type Listener func(Event)

// Content encapsulates the capabilities the orchestrator needs from a media engine.
type Content interface {
	// Load replaces the current media with source.
	Load(source string) error
	Play() error
	Pause() error
	Stop() error

	// Seek moves playback to an absolute offset in milliseconds.
	Seek(positionMs int64) error

	// CurrentPositionMs is a cheap read of the live playback offset.
	CurrentPositionMs() int64
	DurationMs() int64

	// Show and Hide toggle the content surface.
	Show() error
	Hide() error

	// SetControlsEnabled toggles user seeking and other interactive controls.
	SetControlsEnabled(enabled bool) error

	// Release shuts the engine down. It must be safe to call more than once.
	Release() error

	SetListener(listener Listener)
}

// AdSurface is implemented by engines that render ad media on a surface
// separate from the content one.
type AdSurface interface {
	ShowAd() error
	HideAd() error
}

// MarkerRenderer is implemented by engines able to draw ad break markers on their timeline.
type MarkerRenderer interface {
	SetAdMarkers(positionsMs []int64, played []bool) error
}
