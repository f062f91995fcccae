package orchestrator

import (
	"errors"
	"fmt"
)

var (
	// ErrTerminated is returned for events dispatched to a terminated session.
	ErrTerminated = errors.New("session terminated")

	// ErrNoContentSource is returned when a session is created without content.
	ErrNoContentSource = errors.New("no content source")
)

// FailureKind classifies recoverable and fatal playback failures.
type FailureKind int

const (
	AdRequestFailed FailureKind = iota + 1
	InteractiveAdFailed
	ContentPlaybackFailed
)

func (k FailureKind) String() string {
	switch k {
	case AdRequestFailed:
		return "ad_request_failed"
	case InteractiveAdFailed:
		return "interactive_ad_failed"
	case ContentPlaybackFailed:
		return "content_playback_failed"
	default:
		return "unknown"
	}
}

// Failure is an error tagged with its kind. Only ContentPlaybackFailed reaches the host.
type Failure struct {
	Kind FailureKind
	Err  error
}

func fail(kind FailureKind, err error) *Failure {
	return &Failure{Kind: kind, Err: err}
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return f.Kind.String()
	}
	return fmt.Sprintf("%s: %v", f.Kind, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}
