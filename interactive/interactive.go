// Package interactive defines the port to an interactive ad renderer
// and a terminal renderer used by the command line player.
package interactive

// Port renders interactive engagements on behalf of the orchestrator.
type Port interface {
	// Start begins an engagement for the ad found at locator, rendered into view.
	Start(locator string, options Options, view View) error
	Pause() error
	Resume() error

	// Stop ends the engagement. It must be safe to call more than once.
	Stop() error

	SetListener(listener Listener)
}

// Options configures an engagement.
type Options struct {
	WebDebugging bool
	UserAgent    string
}

// View is an opaque handle to the host surface the engagement renders into.
type View any

// Listener receives engagement events. It may be called from any goroutine.
type Listener func(Event)

// EventType enumerates the engagement notifications.
type EventType int

const (
	AdStarted EventType = iota + 1
	AdFetchCompleted
	AdFreePod
	AdCompleted
	AdError
	NoAdsAvailable
	PopupWebsite
	OptIn
	OptOut
	UserCancel
	SkipCardShown
)

var eventNames = map[EventType]string{
	AdStarted:        "AD_STARTED",
	AdFetchCompleted: "AD_FETCH_COMPLETED",
	AdFreePod:        "AD_FREE_POD",
	AdCompleted:      "AD_COMPLETED",
	AdError:          "AD_ERROR",
	NoAdsAvailable:   "NO_ADS_AVAILABLE",
	PopupWebsite:     "POPUP_WEBSITE",
	OptIn:            "OPT_IN",
	OptOut:           "OPT_OUT",
	UserCancel:       "USER_CANCEL",
	SkipCardShown:    "SKIP_CARD_SHOWN",
}

func (t EventType) String() string {
	if name, ok := eventNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseEventType resolves an event name as rendered by String.
func ParseEventType(name string) (EventType, bool) {
	for t, n := range eventNames {
		if n == name {
			return t, true
		}
	}
	return 0, false
}

// Ends reports whether the event terminates the engagement.
func (t EventType) Ends() bool {
	return t == AdCompleted || t == AdError || t == NoAdsAvailable
}

// Event is an engagement notification. URL is set for PopupWebsite, Err for AdError.
type Event struct {
	Type EventType
	URL  string
	Err  error
}
