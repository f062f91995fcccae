package orchestrator

import "github.com/adcue/adcue/position"

// State is the orchestrator state.
type State int

const (
	// Idle is the state before playback is requested.
	Idle State = iota
	ContentPlaying
	ContentPausedForAd
	AdLinearPlaying
	AdLinearPaused
	AdInteractiveActive
	// Terminated is final. Every event is dropped once reached.
	Terminated
)

var stateNames = map[State]string{
	Idle:                "IDLE",
	ContentPlaying:      "CONTENT_PLAYING",
	ContentPausedForAd:  "CONTENT_PAUSED_FOR_AD",
	AdLinearPlaying:     "AD_LINEAR_PLAYING",
	AdLinearPaused:      "AD_LINEAR_PAUSED",
	AdInteractiveActive: "AD_INTERACTIVE_ACTIVE",
	Terminated:          "TERMINATED",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseState resolves a state name as rendered by String.
func ParseState(name string) (State, bool) {
	for s, n := range stateNames {
		if n == name {
			return s, true
		}
	}
	return 0, false
}

// Mode derives the single active playback mode of the state.
// Pausing content for an ad already counts as linear ad mode.
func (s State) Mode() position.Mode {
	switch s {
	case ContentPausedForAd, AdLinearPlaying, AdLinearPaused:
		return position.ModeAdLinear
	case AdInteractiveActive:
		return position.ModeAdInteractive
	default:
		return position.ModeContent
	}
}

// linear reports whether the state belongs to a linear ad break.
func (s State) linear() bool {
	return s.Mode() == position.ModeAdLinear
}
