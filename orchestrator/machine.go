package orchestrator

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/adcue/adcue/adbreak"
	"github.com/adcue/adcue/ads"
	"github.com/adcue/adcue/interactive"
	"github.com/adcue/adcue/log"
	"github.com/adcue/adcue/player"
	"github.com/adcue/adcue/position"
	"github.com/samber/mo"
)

// Machine applies events to a session synchronously and executes the resulting commands.
// It is not safe for concurrent use; Orchestrator serializes access to it.
type Machine struct {
	session  Session
	config   Config
	options  Options
	tracker  *position.Tracker
	registry *adbreak.Registry
	ports    Ports
	metrics  *Metrics

	// asyncHost runs host callbacks on their own goroutine
	asyncHost bool
	hostWg    sync.WaitGroup

	// followUps are events produced while executing commands, applied right after them
	followUps []Event

	contentLive atomic.Bool
}

// NewMachine validates options and returns an idle machine.
func NewMachine(options Options, ports Ports) (*Machine, error) {
	if options.Source == "" {
		return nil, ErrNoContentSource
	}
	if err := options.Request.Validate(); err != nil {
		return nil, err
	}
	if ports.Content == nil || ports.Ads == nil {
		return nil, fmt.Errorf("content and ads ports are required")
	}

	session := NewSession(options.Source, options.Request)
	session.Stitched = options.Stitched
	session.StartPositionMs = options.StartPositionMs

	m := &Machine{
		session:  session,
		config:   options.Config(),
		options:  options,
		tracker:  position.NewTracker(),
		registry: adbreak.FromCuePoints(nil),
		ports:    ports,
		metrics:  NewMetrics(options.Registerer),
	}
	m.session.Breaks = m.registry
	m.tracker.Set(position.ModeContent, options.StartPositionMs)

	return m, nil
}

// Session returns the current session.
func (m *Machine) Session() Session {
	return m.session
}

// Tracker exposes the saved offsets.
func (m *Machine) Tracker() *position.Tracker {
	return m.tracker
}

// Registry returns the current ad break registry.
func (m *Machine) Registry() *adbreak.Registry {
	return m.registry
}

// Metrics returns the counters of this machine.
func (m *Machine) Metrics() *Metrics {
	return m.metrics
}

// ContentProgress reports content progress to ad decisioning.
// It is safe to call from any goroutine.
func (m *Machine) ContentProgress() ads.Progress {
	if !m.contentLive.Load() {
		return ads.NotReady
	}
	return ads.Progress{
		PositionMs: m.ports.Content.CurrentPositionMs(),
		DurationMs: m.ports.Content.DurationMs(),
		Ready:      true,
	}
}

// Apply runs event through Transition and executes the resulting commands in order.
// Events for a terminated session are dropped and reported with ErrTerminated.
func (m *Machine) Apply(event Event) ([]Command, error) {
	if m.session.State == Terminated {
		m.metrics.EventsDropped.Inc()
		log.Debugf("session %s: dropped %s", m.session.ID, event)
		return nil, ErrTerminated
	}

	if e, ok := event.(SeekRequested); ok && e.FromMs.IsAbsent() {
		e.FromMs = mo.Some(m.ports.Content.CurrentPositionMs())
		event = e
	}

	m.session.Breaks = m.registry
	prev := m.session
	next, commands := Transition(prev, event, m.config)
	m.session = next

	log.Debugf("session %s: %s in %s produced %d commands", next.ID, event, prev.State, len(commands))

	if prev.State != next.State {
		m.metrics.Transitions.WithLabelValues(prev.State.String(), next.State.String()).Inc()
		log.Infof("session %s: %s -> %s on %s", next.ID, prev.State, next.State, event)
	}

	if engagement, ok := prev.Interactive.Get(); ok && next.Interactive.IsAbsent() {
		m.metrics.InteractiveOutcomes.WithLabelValues(engagement.Credit.String()).Inc()
	}

	for _, command := range commands {
		m.execute(command)
	}

	m.session.Breaks = m.registry
	m.contentLive.Store(m.session.State == ContentPlaying && !m.session.ContentSuspended)

	for len(m.followUps) > 0 {
		followUp := m.followUps[0]
		m.followUps = m.followUps[1:]

		more, err := m.Apply(followUp)
		if err != nil {
			break
		}
		commands = append(commands, more...)
	}

	return commands, nil
}

func (m *Machine) applyLater(event Event) {
	m.followUps = append(m.followUps, event)
}

// Wait blocks until every asynchronous host callback returned.
func (m *Machine) Wait() {
	m.hostWg.Wait()
}

func (m *Machine) execute(command Command) {
	if m.options.Debug {
		log.Infof("session %s: %s", m.session.ID, command)
	} else {
		log.Tracef("session %s: %s", m.session.ID, command)
	}

	if err := m.run(command); err != nil {
		m.metrics.PortErrors.WithLabelValues(command.Op.String()).Inc()
		log.Warnf("session %s: %s failed: %v", m.session.ID, command, err)
	}
}

func (m *Machine) run(command Command) error {
	content := m.ports.Content

	switch command.Op {
	case OpContentLoad:
		return content.Load(command.Target)
	case OpContentPlay:
		return content.Play()
	case OpContentPause:
		return content.Pause()
	case OpContentStop:
		return content.Stop()
	case OpContentSeek:
		return content.Seek(command.PositionMs)
	case OpContentSeekToEnd:
		return content.Seek(max(content.DurationMs()-command.PositionMs, 0))
	case OpContentShow:
		return content.Show()
	case OpContentHide:
		return content.Hide()
	case OpContentControls:
		return content.SetControlsEnabled(command.Enabled)
	case OpContentRelease:
		return content.Release()

	case OpAdSurfaceShow:
		if surface, ok := content.(player.AdSurface); ok {
			return surface.ShowAd()
		}
	case OpAdSurfaceHide:
		if surface, ok := content.(player.AdSurface); ok {
			return surface.HideAd()
		}

	case OpAdsRequest:
		log.Infof("session %s: requesting ads from %s (language %s, debug %t)", m.session.ID, command.Request, m.options.Language, m.options.Debug)
		if err := m.ports.Ads.RequestAds(command.Request, m.ContentProgress); err != nil {
			m.applyLater(AdEvent{ads.Event{Type: ads.Error, Err: fmt.Errorf("request ads: %w", err)}})
			return err
		}
	case OpAdsStart:
		return m.ports.Ads.Start()
	case OpAdsPause:
		return m.ports.Ads.Pause()
	case OpAdsResume:
		return m.ports.Ads.Resume()
	case OpAdsDiscard:
		return m.ports.Ads.DiscardCurrentBreak()
	case OpAdsContentComplete:
		return m.ports.Ads.ContentComplete()
	case OpAdsRelease:
		return m.ports.Ads.Release()

	case OpInteractiveStart:
		if m.ports.Interactive == nil {
			// no renderer: report the engagement as unavailable so the break falls back to linear ads
			m.applyLater(InteractiveEvent{interactive.Event{Type: interactive.NoAdsAvailable}})
			return nil
		}
		if err := m.ports.Interactive.Start(command.Target, m.options.Interactive, m.options.HostView); err != nil {
			// the renderer never reports back, so the engagement fails here
			m.applyLater(InteractiveEvent{interactive.Event{Type: interactive.AdError, Err: fmt.Errorf("start engagement: %w", err)}})
			return err
		}
	case OpInteractivePause:
		if m.ports.Interactive != nil {
			return m.ports.Interactive.Pause()
		}
	case OpInteractiveResume:
		if m.ports.Interactive != nil {
			return m.ports.Interactive.Resume()
		}
	case OpInteractiveStop:
		if m.ports.Interactive != nil {
			return m.ports.Interactive.Stop()
		}

	case OpSavePosition:
		m.tracker.Save(command.Mode, content)
	case OpRestorePosition:
		_, err := m.tracker.Restore(command.Mode, content)
		return err

	case OpLoadCuePoints:
		played := append(m.registry.PlayedOffsets(), m.options.PlayedBreaksMs...)
		m.registry = adbreak.FromCuePoints(command.CuePointsMs)
		m.registry.MarkPlayedAll(played)
		return m.renderMarkers()
	case OpMarkBreakPlayed:
		if m.registry.MarkPlayed(command.PositionMs) {
			return m.renderMarkers()
		}

	case OpPopup:
		if m.ports.Host != nil {
			m.callHost(func(h Host) { h.OnPopupRequested(command.Target) })
		}
	case OpReportFailure:
		m.countFailure(command.Err)
		log.Warnf("session %s: recovered from %v", m.session.ID, command.Err)
	case OpNotifyFatal:
		m.countFailure(command.Err)
		log.Errorf("session %s: %v", m.session.ID, command.Err)
		if m.ports.Host != nil {
			m.callHost(func(h Host) { h.OnContentError(command.Err) })
		}
	case OpNote:
		log.Warnf("session %s: %s", m.session.ID, command.Target)
	}

	return nil
}

func (m *Machine) renderMarkers() error {
	renderer, ok := m.ports.Content.(player.MarkerRenderer)
	if !ok {
		return nil
	}
	positions, played := m.registry.Markers()
	return renderer.SetAdMarkers(positions, played)
}

func (m *Machine) countFailure(err error) {
	var failure *Failure
	if errors.As(err, &failure) {
		m.metrics.Failures.WithLabelValues(failure.Kind.String()).Inc()
	}
}

func (m *Machine) callHost(call func(Host)) {
	if !m.asyncHost {
		call(m.ports.Host)
		return
	}

	m.hostWg.Add(1)
	go func() {
		defer m.hostWg.Done()
		call(m.ports.Host)
	}()
}
