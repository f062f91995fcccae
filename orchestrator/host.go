package orchestrator

import (
	"github.com/adcue/adcue/ads"
	"github.com/adcue/adcue/interactive"
	"github.com/adcue/adcue/player"
)

// Host receives the side effects the orchestrator surfaces to the embedding application.
type Host interface {
	OnPopupRequested(url string)

	// OnContentError is a terminal notification; the host is expected to tear the session down.
	OnContentError(err error)
}

// Ports bundles the collaborators driven by the orchestrator.
// Interactive and Host are optional.
type Ports struct {
	Content     player.Content
	Ads         ads.Port
	Interactive interactive.Port
	Host        Host
}
