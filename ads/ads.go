// Package ads defines the ad decisioning port: requests, the ad lifecycle
// event taxonomy and the classification of started ads.
package ads

import (
	"errors"
	"fmt"
	"strings"
)

// Port is the ad decisioning subsystem as seen by the orchestrator.
// Every call is fire-and-forget; outcomes arrive as events on the listener.
type Port interface {
	RequestAds(request Request, progress ProgressSupplier) error
	Start() error
	Pause() error
	Resume() error
	DiscardCurrentBreak() error

	// ContentComplete signals that content reached its end so post-rolls may play.
	ContentComplete() error

	// Release frees the ad manager and loader. It must be safe to call more than once.
	Release() error

	SetListener(listener Listener)
}

// Listener receives ad events. It may be called from any goroutine.
type Listener func(Event)

// Request describes where ads come from: a remote ad tag or an inline response.
type Request struct {
	TagURL   string `json:"tag_url,omitempty"`
	Response string `json:"response,omitempty"`
}

// Empty reports whether neither a tag nor a response is set.
func (r Request) Empty() bool {
	return strings.TrimSpace(r.TagURL) == "" && strings.TrimSpace(r.Response) == ""
}

// Validate rejects descriptors carrying both a tag and a response.
func (r Request) Validate() error {
	if r.TagURL != "" && r.Response != "" {
		return errors.New("ad request must set either a tag or a response, not both")
	}
	return nil
}

func (r Request) String() string {
	switch {
	case r.TagURL != "":
		return "tag " + r.TagURL
	case r.Response != "":
		return fmt.Sprintf("inline response (%d bytes)", len(r.Response))
	default:
		return "none"
	}
}

// Progress is the content progress reported to ad decisioning.
type Progress struct {
	PositionMs int64
	DurationMs int64
	Ready      bool
}

// NotReady is reported while content is not the live playback.
var NotReady = Progress{}

// ProgressSupplier is polled by ad decisioning. It must be cheap and non-blocking.
type ProgressSupplier func() Progress

// ErrNoLocator is reported when an interactive placeholder carries no engagement locator.
var ErrNoLocator = errors.New("interactive placeholder has no locator")
