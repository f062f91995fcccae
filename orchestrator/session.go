package orchestrator

import (
	"github.com/adcue/adcue/adbreak"
	"github.com/adcue/adcue/ads"
	"github.com/google/uuid"
	"github.com/samber/mo"
)

// Credit is the outcome of an interactive engagement.
type Credit int

const (
	CreditUnknown Credit = iota
	CreditGranted
	CreditDenied
)

func (c Credit) String() string {
	switch c {
	case CreditGranted:
		return "granted"
	case CreditDenied:
		return "denied"
	default:
		return "unknown"
	}
}

// InteractiveBreak is the sub-state of a running engagement.
// It exists exactly while the session is in AdInteractiveActive.
type InteractiveBreak struct {
	Locator string
	Credit  Credit

	// BreakEndMs is the content offset where the stitched break ends, when known.
	BreakEndMs mo.Option[int64]
}

// Snapback is a seek that was redirected to an unplayed break.
type Snapback struct {
	TargetMs int64
	BreakMs  int64
}

// Session is the playback session owned by the orchestrator.
type Session struct {
	ID      string
	State   State
	Source  string
	Request ads.Request

	Stitched        bool
	StartPositionMs int64

	// ContentCompleted is set once content reached its natural end.
	ContentCompleted bool

	// ContentSuspended is set while content was paused and replaced for a client-side break.
	ContentSuspended bool

	// AdPlaying is true while an ad is actively playing, the source of truth for toggling.
	AdPlaying   bool
	SeekEnabled bool
	HostPaused  bool

	AdsActive       bool
	ContentReleased bool

	Interactive mo.Option[InteractiveBreak]
	Snapback    mo.Option[Snapback]
	CurrentPod  mo.Option[ads.PodInfo]

	// BreakEndSynthesized is set after an explicit skip so the real break end is not applied twice.
	BreakEndSynthesized bool

	// Breaks is read-only here; registry changes are issued as commands.
	Breaks *adbreak.Registry
}

// NewSession returns an idle session for source and request.
func NewSession(source string, request ads.Request) Session {
	return Session{
		ID:          uuid.NewString(),
		State:       Idle,
		Source:      source,
		Request:     request,
		SeekEnabled: true,
		Interactive: mo.None[InteractiveBreak](),
		Snapback:    mo.None[Snapback](),
		CurrentPod:  mo.None[ads.PodInfo](),
	}
}
