package journal

import (
	"fmt"
	"time"

	"github.com/adcue/adcue/util"
)

// Entry is the resume record of one content source.
type Entry struct {
	Source         string    `json:"source"`
	PositionMs     int64     `json:"position_ms"`
	PlayedBreaksMs []int64   `json:"played_breaks_ms"`
	UpdatedAt      time.Time `json:"updated_at"`

	// AdTag and AdResponse repeat the ad request of the session on resume.
	AdTag      string `json:"ad_tag,omitempty"`
	AdResponse string `json:"ad_response,omitempty"`
}

func (e *Entry) String() string {
	return fmt.Sprintf("%s @ %s (%d breaks played)", e.Source, util.FormatMs(e.PositionMs), len(e.PlayedBreaksMs))
}
