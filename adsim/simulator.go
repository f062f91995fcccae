// Package adsim is a local ad decisioning subsystem serving ads from a schedule.
// It inserts breaks client-side: content is paused while ads play, optionally
// loading each ad's media into the content player.
package adsim

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/adcue/adcue/ads"
	"github.com/adcue/adcue/log"
	"github.com/adcue/adcue/player"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// ErrNoFill is reported when a request resolves to a schedule without breaks.
var ErrNoFill = errors.New("no ads scheduled")

// DefaultInterval is how often the simulator polls progress.
const DefaultInterval = 250 * time.Millisecond

type phase int

const (
	phaseIdle phase = iota
	phaseLoaded
	phaseWaiting
	phaseAwaitingPause
	phaseInBreak
	phaseDone
)

// step is an output of advance: either media to load into the player, or an event.
type step struct {
	media string
	event *ads.Event
}

func emitStep(event ads.Event) step {
	return step{event: &event}
}

// tick is the input of advance.
type tick struct {
	progress ads.Progress
	elapsed  time.Duration

	// mediaMs is the player offset while ad media is loaded into it
	mediaMs mo.Option[int64]
}

// Options configures a Simulator.
type Options struct {
	// Player receives ad media when scheduled ads carry a media URL. Optional.
	Player   player.Content
	Interval time.Duration
}

// Simulator implements ads.Port on top of a Schedule.
type Simulator struct {
	options Options

	mu       sync.Mutex
	listener ads.Listener
	progress ads.ProgressSupplier

	schedule        Schedule
	phase           phase
	pending         []step
	started         bool
	paused          bool
	discard         bool
	contentComplete bool
	played          []bool
	breakIndex      int
	adIndex         int
	adElapsed       time.Duration
	mediaLoaded     bool

	stop chan struct{}
	done chan struct{}
}

// New returns an idle simulator.
func New(options Options) *Simulator {
	if options.Interval <= 0 {
		options.Interval = DefaultInterval
	}
	return &Simulator{options: options}
}

func (s *Simulator) SetListener(listener ads.Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listener = listener
}

// RequestAds resolves the schedule from the request and starts the simulation clock.
// The tag is a schedule file path; an inline response is TOML.
func (s *Simulator) RequestAds(request ads.Request, progress ads.ProgressSupplier) error {
	var (
		schedule Schedule
		err      error
	)
	if strings.TrimSpace(request.Response) != "" {
		schedule, err = ParseSchedule(request.Response)
	} else {
		schedule, err = LoadSchedule(request.TagURL)
	}
	if err == nil && len(schedule.Breaks) == 0 {
		err = ErrNoFill
	}

	s.mu.Lock()
	s.reset()
	s.progress = progress
	if err != nil {
		s.phase = phaseDone
		s.pending = append(s.pending, emitStep(ads.Event{Type: ads.Error, Err: fmt.Errorf("request %s: %w", request, err)}))
	} else {
		s.schedule = schedule
		s.played = make([]bool, len(schedule.Breaks))
		s.phase = phaseLoaded
		s.pending = append(s.pending, emitStep(ads.Event{Type: ads.Loaded, CuePointsMs: schedule.CuePointsMs()}))
	}
	s.mu.Unlock()

	s.run()
	return nil
}

func (s *Simulator) reset() {
	s.schedule = Schedule{}
	s.phase = phaseIdle
	s.pending = nil
	s.started = false
	s.paused = false
	s.discard = false
	s.contentComplete = false
	s.played = nil
	s.breakIndex = 0
	s.adIndex = 0
	s.adElapsed = 0
	s.mediaLoaded = false
}

// run starts the clock goroutine unless it is already running.
func (s *Simulator) run() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stop != nil {
		return
	}

	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.loop(s.stop, s.done)
}

func (s *Simulator) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.options.Interval)
	defer ticker.Stop()

	last := time.Now()
	s.flush(0)

	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			s.flush(now.Sub(last))
			last = now
		}
	}
}

// flush advances the simulation and performs its steps outside the lock.
func (s *Simulator) flush(elapsed time.Duration) {
	s.mu.Lock()
	supplier := s.progress
	listener := s.listener
	mediaLoaded := s.mediaLoaded
	s.mu.Unlock()

	t := tick{elapsed: elapsed, mediaMs: mo.None[int64]()}
	if supplier != nil {
		t.progress = supplier()
	}
	if mediaLoaded && s.options.Player != nil {
		t.mediaMs = mo.Some(s.options.Player.CurrentPositionMs())
	}

	s.mu.Lock()
	steps := s.advance(t)
	s.mu.Unlock()

	for _, st := range steps {
		if st.media != "" {
			s.loadMedia(st.media)
			continue
		}
		log.Debugf("adsim: %s", st.event.Type)
		if listener != nil {
			listener(*st.event)
		}
	}
}

func (s *Simulator) loadMedia(media string) {
	p := s.options.Player
	if p == nil {
		return
	}
	if err := p.Load(media); err != nil {
		log.Warnf("adsim: load ad media %s: %v", media, err)
		return
	}
	if err := p.Play(); err != nil {
		log.Warnf("adsim: play ad media: %v", err)
	}
}

// advance moves the simulation by one tick. It must be called with mu held.
func (s *Simulator) advance(t tick) []step {
	steps := s.pending
	s.pending = nil

	switch s.phase {
	case phaseWaiting:
		steps = append(steps, s.checkCuePoints(t.progress)...)

	case phaseAwaitingPause:
		// the orchestrator stops reporting progress once content is paused
		if !t.progress.Ready {
			steps = append(steps, s.startAd()...)
		}

	case phaseInBreak:
		if s.discard {
			steps = append(steps, s.endBreak()...)
			break
		}
		if s.paused {
			break
		}

		if ms, ok := t.mediaMs.Get(); ok {
			s.adElapsed = time.Duration(ms) * time.Millisecond
		} else {
			s.adElapsed += t.elapsed
		}

		ad := s.currentAd()
		if s.adElapsed < time.Duration(ad.DurationMs)*time.Millisecond {
			break
		}

		steps = append(steps, emitStep(ads.Event{Type: ads.Completed, Ad: ad}))
		s.adIndex++
		if s.adIndex < len(s.schedule.Breaks[s.breakIndex].Ads) {
			steps = append(steps, s.startAd()...)
		} else {
			steps = append(steps, s.endBreak()...)
		}
	}

	return steps
}

// checkCuePoints begins the first unplayed break that content reached.
func (s *Simulator) checkCuePoints(progress ads.Progress) []step {
	for i, b := range s.schedule.Breaks {
		if s.played[i] {
			continue
		}

		due := (b.PostRoll() && s.contentComplete) || (!b.PostRoll() && progress.Ready && progress.PositionMs >= b.OffsetMs)
		if !due {
			continue
		}

		s.breakIndex = i
		s.adIndex = 0
		s.discard = false
		s.phase = phaseAwaitingPause
		return []step{emitStep(ads.Event{Type: ads.ContentPauseRequested})}
	}

	if s.contentComplete {
		return s.complete()
	}
	return nil
}

func (s *Simulator) currentAd() *ads.Ad {
	return s.schedule.ad(s.breakIndex, s.adIndex)
}

func (s *Simulator) startAd() []step {
	ad := s.currentAd()
	s.phase = phaseInBreak
	s.adElapsed = 0

	var steps []step
	if ad.MediaURL != "" && s.options.Player != nil {
		s.mediaLoaded = true
		steps = append(steps, step{media: ad.MediaURL})
	} else {
		s.mediaLoaded = false
	}

	return append(steps, emitStep(ads.Event{Type: ads.Started, Ad: ad}))
}

func (s *Simulator) endBreak() []step {
	s.played[s.breakIndex] = true
	s.discard = false
	s.mediaLoaded = false
	s.phase = phaseWaiting

	steps := []step{emitStep(ads.Event{Type: ads.ContentResumeRequested})}

	remaining := lo.Count(s.played, false)
	if remaining == 0 {
		steps = append(steps, s.complete()...)
	}
	return steps
}

func (s *Simulator) complete() []step {
	s.phase = phaseDone
	return []step{emitStep(ads.Event{Type: ads.AllAdsCompleted})}
}

// Start begins serving breaks.
func (s *Simulator) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != phaseLoaded {
		return fmt.Errorf("start: no ads loaded")
	}
	s.started = true
	s.phase = phaseWaiting
	return nil
}

func (s *Simulator) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != phaseInBreak || s.paused {
		return nil
	}
	s.paused = true
	s.pending = append(s.pending, emitStep(ads.Event{Type: ads.Paused, Ad: s.currentAd()}))
	return nil
}

func (s *Simulator) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != phaseInBreak || !s.paused {
		return nil
	}
	s.paused = false
	s.pending = append(s.pending, emitStep(ads.Event{Type: ads.Resumed, Ad: s.currentAd()}))
	return nil
}

// DiscardCurrentBreak ends the playing break at the next tick.
func (s *Simulator) DiscardCurrentBreak() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == phaseInBreak {
		s.discard = true
	}
	return nil
}

// ContentComplete lets a pending post-roll play, or completes the schedule.
func (s *Simulator) ContentComplete() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contentComplete = true
	return nil
}

// Release stops the clock. It is safe to call more than once.
func (s *Simulator) Release() error {
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	s.reset()
	s.mu.Unlock()

	if stop == nil {
		return nil
	}

	close(stop)
	<-done
	return nil
}
