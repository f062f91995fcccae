package orchestrator

import (
	"fmt"

	"github.com/adcue/adcue/ads"
	"github.com/adcue/adcue/interactive"
	"github.com/adcue/adcue/player"
	"github.com/samber/mo"
)

// Event is an input of the orchestrator: a host request or a port notification.
type Event interface {
	fmt.Stringer
	isEvent()
}

// Play loads the session content, starts it and requests ads.
type Play struct{}

// RequestAds issues an ad request. An empty Request falls back to the session one.
type RequestAds struct {
	Request ads.Request
}

// AdEvent wraps a notification of the ad decisioning port.
type AdEvent struct {
	ads.Event
}

// InteractiveEvent wraps a notification of the engagement renderer.
type InteractiveEvent struct {
	interactive.Event
}

// ContentEvent wraps a notification of the content player.
type ContentEvent struct {
	player.Event
}

// SeekRequested is a user seek. FromMs is the live offset, filled in when absent.
type SeekRequested struct {
	TargetMs int64
	FromMs   mo.Option[int64]
}

// SkipBreak skips the rest of the current ad break.
type SkipBreak struct{}

// HostPause and HostResume follow the host going to and coming back from the background.
type HostPause struct{}

type HostResume struct{}

// ToggleAdPlayback pauses a playing ad or resumes a paused one.
type ToggleAdPlayback struct{}

// Teardown releases every port and terminates the session.
type Teardown struct{}

func (Play) isEvent()             {}
func (RequestAds) isEvent()       {}
func (AdEvent) isEvent()          {}
func (InteractiveEvent) isEvent() {}
func (ContentEvent) isEvent()     {}
func (SeekRequested) isEvent()    {}
func (SkipBreak) isEvent()        {}
func (HostPause) isEvent()        {}
func (HostResume) isEvent()       {}
func (ToggleAdPlayback) isEvent() {}
func (Teardown) isEvent()         {}

func (Play) String() string { return "play" }

func (e RequestAds) String() string { return "request-ads " + e.Request.String() }

func (e AdEvent) String() string { return "ad " + e.Type.String() }

func (e InteractiveEvent) String() string { return "interactive " + e.Type.String() }

func (e ContentEvent) String() string { return "content " + e.Type.String() }

func (e SeekRequested) String() string { return fmt.Sprintf("seek %d", e.TargetMs) }

func (SkipBreak) String() string { return "skip-break" }

func (HostPause) String() string { return "host-pause" }

func (HostResume) String() string { return "host-resume" }

func (ToggleAdPlayback) String() string { return "toggle-ad-playback" }

func (Teardown) String() string { return "teardown" }
