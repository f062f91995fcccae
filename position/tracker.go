package position

import "sync/atomic"

// Source reports the current offset of the live playback.
type Source interface {
	CurrentPositionMs() int64
}

// Seeker moves the live playback to an absolute offset.
type Seeker interface {
	Seek(positionMs int64) error
}

// Tracker holds the saved content offset and the saved ad offset.
// Ad modes share one slot since only one ad plays at a time.
//
// Writes come from a single control sequence. Reads are atomic so a progress
// supplier may observe the saved offsets from another goroutine.
type Tracker struct {
	content atomic.Int64
	ad      atomic.Int64
}

// NewTracker returns a tracker with both offsets at zero.
func NewTracker() *Tracker {
	return &Tracker{}
}

func (t *Tracker) slot(mode Mode) *atomic.Int64 {
	if mode.IsAd() {
		return &t.ad
	}
	return &t.content
}

// Save records the current offset of src for mode and returns it.
func (t *Tracker) Save(mode Mode, src Source) int64 {
	ms := src.CurrentPositionMs()
	t.slot(mode).Store(ms)
	return ms
}

// Restore seeks dst to the offset saved for mode, zero if nothing was saved.
func (t *Tracker) Restore(mode Mode, dst Seeker) (int64, error) {
	ms := t.slot(mode).Load()
	return ms, dst.Seek(ms)
}

// Saved returns the offset stored for mode.
func (t *Tracker) Saved(mode Mode) int64 {
	return t.slot(mode).Load()
}

// Set overrides the offset stored for mode, e.g. when resuming from a journal.
func (t *Tracker) Set(mode Mode, positionMs int64) {
	t.slot(mode).Store(positionMs)
}

// Reset zeroes both offsets.
func (t *Tracker) Reset() {
	t.content.Store(0)
	t.ad.Store(0)
}
