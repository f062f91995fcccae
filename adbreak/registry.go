// Package adbreak keeps the cue points of the current content timeline and which of them have played.
package adbreak

import (
	"math"
	"sort"

	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Break is an ad break scheduled at a fixed content-timeline offset.
type Break struct {
	PositionMs int64 `json:"position_ms"`
	Played     bool  `json:"played"`
}

// Registry is the ordered set of ad breaks for one content timeline.
// It is not safe for concurrent use; the orchestrator is its only writer.
type Registry struct {
	breaks []Break
}

// FromCuePoints builds an unplayed registry ordered by position.
// Duplicate offsets keep their registration order.
func FromCuePoints(offsetsMs []int64) *Registry {
	breaks := lo.Map(offsetsMs, func(ms int64, _ int) Break {
		return Break{PositionMs: ms}
	})

	sort.SliceStable(breaks, func(i, j int) bool {
		return breaks[i].PositionMs < breaks[j].PositionMs
	})

	return &Registry{breaks: breaks}
}

// FromSeconds converts cue points expressed in seconds, as ad decisioning reports them.
// Negative offsets denote a post-roll and are placed at the end of the timeline.
func FromSeconds(offsets []float64) *Registry {
	return FromCuePoints(SecondsToMs(offsets))
}

// SecondsToMs converts cue points in seconds to milliseconds.
func SecondsToMs(offsets []float64) []int64 {
	return lo.Map(offsets, func(s float64, _ int) int64 {
		if s < 0 {
			return math.MaxInt64
		}
		return int64(math.Round(s * 1000))
	})
}

// Len returns the number of registered breaks.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.breaks)
}

// Breaks returns a copy of the ordered breaks.
func (r *Registry) Breaks() []Break {
	if r == nil {
		return nil
	}
	return append([]Break(nil), r.breaks...)
}

// At returns the break scheduled at positionMs.
func (r *Registry) At(positionMs int64) mo.Option[Break] {
	if r == nil {
		return mo.None[Break]()
	}
	b, ok := lo.Find(r.breaks, func(b Break) bool {
		return b.PositionMs == positionMs
	})
	if !ok {
		return mo.None[Break]()
	}
	return mo.Some(b)
}

// MarkPlayed flags the break at positionMs as played. It reports whether a break was found.
func (r *Registry) MarkPlayed(positionMs int64) bool {
	if r == nil {
		return false
	}
	for i := range r.breaks {
		if r.breaks[i].PositionMs == positionMs {
			r.breaks[i].Played = true
			return true
		}
	}
	return false
}

// MarkPlayedAll flags every listed offset that matches a registered break.
func (r *Registry) MarkPlayedAll(offsetsMs []int64) {
	for _, ms := range offsetsMs {
		r.MarkPlayed(ms)
	}
}

// PreviousUnplayedBefore returns the nearest unplayed break at or before positionMs.
func (r *Registry) PreviousUnplayedBefore(positionMs int64) mo.Option[Break] {
	if r == nil {
		return mo.None[Break]()
	}

	// breaks are sorted, so the last match wins; among equal offsets the earliest registered is kept
	found := mo.None[Break]()
	for _, b := range r.breaks {
		if b.PositionMs > positionMs {
			break
		}
		if b.Played {
			continue
		}
		if prev, ok := found.Get(); ok && prev.PositionMs == b.PositionMs {
			continue
		}
		found = mo.Some(b)
	}
	return found
}

// Unplayed returns the breaks that have not played yet.
func (r *Registry) Unplayed() []Break {
	if r == nil {
		return nil
	}
	return lo.Filter(r.breaks, func(b Break, _ int) bool {
		return !b.Played
	})
}

// PlayedOffsets returns the positions of every played break.
func (r *Registry) PlayedOffsets() []int64 {
	if r == nil {
		return nil
	}
	played := lo.Filter(r.breaks, func(b Break, _ int) bool {
		return b.Played
	})
	return lo.Map(played, func(b Break, _ int) int64 {
		return b.PositionMs
	})
}

// Markers returns parallel arrays of break positions and played flags for timeline rendering.
func (r *Registry) Markers() (positionsMs []int64, played []bool) {
	if r.Len() == 0 {
		return nil, nil
	}
	positionsMs = make([]int64, len(r.breaks))
	played = make([]bool, len(r.breaks))
	for i, b := range r.breaks {
		positionsMs[i] = b.PositionMs
		played[i] = b.Played
	}
	return positionsMs, played
}

// Clone returns an independent copy of the registry.
func (r *Registry) Clone() *Registry {
	if r == nil {
		return nil
	}
	return &Registry{breaks: r.Breaks()}
}
