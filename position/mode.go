// Package position tracks the saved content and ad offsets of a playback session.
package position

// Mode is the active playback mode. Exactly one is active at any time.
type Mode int

const (
	ModeContent Mode = iota
	ModeAdLinear
	ModeAdInteractive
)

func (m Mode) String() string {
	switch m {
	case ModeContent:
		return "content"
	case ModeAdLinear:
		return "ad-linear"
	case ModeAdInteractive:
		return "ad-interactive"
	default:
		return "unknown"
	}
}

// IsAd reports whether the mode plays an ad of any kind.
func (m Mode) IsAd() bool {
	return m == ModeAdLinear || m == ModeAdInteractive
}
