package scenario

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/adcue/adcue/ads"
	"github.com/adcue/adcue/interactive"
	"github.com/adcue/adcue/orchestrator"
	"github.com/adcue/adcue/player"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
)

const (
	adPrefix          = "ad."
	interactivePrefix = "interactive."
	contentPrefix     = "content."
)

var hostEvents = map[string]func(Step) orchestrator.Event{
	"play":        func(Step) orchestrator.Event { return orchestrator.Play{} },
	"request_ads": func(Step) orchestrator.Event { return orchestrator.RequestAds{} },
	"seek":        func(s Step) orchestrator.Event { return orchestrator.SeekRequested{TargetMs: s.TargetMs} },
	"skip":        func(Step) orchestrator.Event { return orchestrator.SkipBreak{} },
	"pause":       func(Step) orchestrator.Event { return orchestrator.HostPause{} },
	"resume":      func(Step) orchestrator.Event { return orchestrator.HostResume{} },
	"toggle":      func(Step) orchestrator.Event { return orchestrator.ToggleAdPlayback{} },
	"teardown":    func(Step) orchestrator.Event { return orchestrator.Teardown{} },
}

var contentEvents = map[string]player.EventType{
	"buffering": player.EventBuffering,
	"playing":   player.EventPlaying,
	"ended":     player.EventEnded,
	"error":     player.EventError,
}

// EventNames lists every event name a step accepts.
func EventNames() []string {
	names := lo.Keys(hostEvents)
	for _, t := range []ads.EventType{
		ads.Loaded, ads.CuePointsChanged, ads.ContentPauseRequested, ads.Started, ads.Paused,
		ads.Resumed, ads.Completed, ads.ContentResumeRequested, ads.AllAdsCompleted,
		ads.BreakStarted, ads.BreakEnded, ads.Error, ads.ProgressUpdated,
	} {
		names = append(names, adPrefix+t.String())
	}
	for _, t := range []interactive.EventType{
		interactive.AdStarted, interactive.AdFetchCompleted, interactive.AdFreePod, interactive.AdCompleted,
		interactive.AdError, interactive.NoAdsAvailable, interactive.PopupWebsite, interactive.OptIn,
		interactive.OptOut, interactive.UserCancel, interactive.SkipCardShown,
	} {
		names = append(names, interactivePrefix+t.String())
	}
	for name := range contentEvents {
		names = append(names, contentPrefix+name)
	}
	return names
}

// unknown builds the error of an unrecognized event name with the closest matches.
func unknown(name string) error {
	matches := fuzzy.RankFindNormalizedFold(name, EventNames())
	if len(matches) == 0 {
		// match the suffix alone, so "ads.STARTED" still finds "ad.STARTED"
		parts := strings.SplitN(name, ".", 2)
		matches = fuzzy.RankFindNormalizedFold(parts[len(parts)-1], EventNames())
	}

	if len(matches) == 0 {
		return fmt.Errorf("unknown event %q", name)
	}

	sort.Sort(matches)
	suggestions := lo.Map(lo.Slice(matches, 0, 3), func(r fuzzy.Rank, _ int) string {
		return r.Target
	})
	return fmt.Errorf("unknown event %q, did you mean %s?", name, strings.Join(suggestions, " or "))
}

func (s Step) err() error {
	if s.Error == "" {
		return errors.New("scripted error")
	}
	return errors.New(s.Error)
}

func (s Step) ad() *ads.Ad {
	if s.Ad == nil {
		return nil
	}

	a := s.Ad
	total, position := a.TotalAds, a.Position
	if total == 0 {
		total = 1
	}
	if position == 0 {
		position = 1
	}

	return &ads.Ad{
		ID:                    a.ID,
		System:                a.System,
		Description:           a.Description,
		TraffickingParameters: a.TraffickingParameters,
		DurationMs:            a.DurationMs,
		Pod: ads.PodInfo{
			Index:           a.PodIndex,
			TimeOffsetMs:    a.PodOffsetMs,
			TotalAds:        total,
			AdPosition:      position,
			BreakDurationMs: a.BreakDurationMs,
		},
	}
}

// event translates the step into an orchestrator event.
func (s Step) event() (orchestrator.Event, error) {
	name := strings.TrimSpace(s.Event)
	lower := strings.ToLower(name)

	if build, ok := hostEvents[lower]; ok {
		return build(s), nil
	}

	// the kind prefix is case insensitive like the rest of the name
	suffix := func(prefix string) string {
		return name[len(prefix):]
	}

	switch {
	case strings.HasPrefix(lower, adPrefix):
		t, ok := ads.ParseEventType(strings.ToUpper(suffix(adPrefix)))
		if !ok {
			return nil, unknown(name)
		}

		event := ads.Event{Type: t, Ad: s.ad(), CuePointsMs: s.CuePointsMs}
		if t == ads.Error {
			event.Err = s.err()
		}
		return orchestrator.AdEvent{Event: event}, nil

	case strings.HasPrefix(lower, interactivePrefix):
		t, ok := interactive.ParseEventType(strings.ToUpper(suffix(interactivePrefix)))
		if !ok {
			return nil, unknown(name)
		}

		event := interactive.Event{Type: t, URL: s.URL}
		if t == interactive.AdError {
			event.Err = s.err()
		}
		return orchestrator.InteractiveEvent{Event: event}, nil

	case strings.HasPrefix(lower, contentPrefix):
		t, ok := contentEvents[strings.ToLower(suffix(contentPrefix))]
		if !ok {
			return nil, unknown(name)
		}

		event := player.Event{Type: t}
		if t == player.EventError {
			event.Err = s.err()
		}
		return orchestrator.ContentEvent{Event: event}, nil
	}

	return nil, unknown(name)
}
