package ads

import "math"

// EventType enumerates the ad lifecycle notifications.
type EventType int

const (
	Loaded EventType = iota + 1
	CuePointsChanged
	ContentPauseRequested
	Started
	Paused
	Resumed
	Completed
	ContentResumeRequested
	AllAdsCompleted
	BreakStarted
	BreakEnded
	Error
	ProgressUpdated
)

var eventNames = map[EventType]string{
	Loaded:                 "LOADED",
	CuePointsChanged:       "CUEPOINTS_CHANGED",
	ContentPauseRequested:  "CONTENT_PAUSE_REQUESTED",
	Started:                "STARTED",
	Paused:                 "PAUSED",
	Resumed:                "RESUMED",
	Completed:              "COMPLETED",
	ContentResumeRequested: "CONTENT_RESUME_REQUESTED",
	AllAdsCompleted:        "ALL_ADS_COMPLETED",
	BreakStarted:           "AD_BREAK_STARTED",
	BreakEnded:             "AD_BREAK_ENDED",
	Error:                  "AD_ERROR",
	ProgressUpdated:        "AD_PROGRESS",
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

// Event is an ad lifecycle notification.
// Ad is set for per-ad events, CuePointsMs for Loaded and CuePointsChanged, Err for Error.
type Event struct {
	Type        EventType
	Ad          *Ad
	CuePointsMs []int64
	Err         error
}

// PodInfo locates an ad inside its break.
type PodInfo struct {
	Index           int   `json:"index"`
	TimeOffsetMs    int64 `json:"time_offset_ms"`
	TotalAds        int   `json:"total_ads"`
	AdPosition      int   `json:"ad_position"`
	BreakDurationMs int64 `json:"break_duration_ms"`
}

// PostRollOffsetMs is the pod offset of a post-roll. It is not a stream position.
const PostRollOffsetMs = math.MaxInt64

// PostRoll reports whether the pod plays once content ended.
func (p PodInfo) PostRoll() bool {
	return p.TimeOffsetMs == PostRollOffsetMs
}

// Ad describes a started ad as reported by ad decisioning.
type Ad struct {
	ID                    string  `json:"id"`
	System                string  `json:"system"`
	Title                 string  `json:"title"`
	Description           string  `json:"description"`
	TraffickingParameters string  `json:"trafficking_parameters"`
	DurationMs            int64   `json:"duration_ms"`
	MediaURL              string  `json:"media_url,omitempty"`
	Pod                   PodInfo `json:"pod"`
}
