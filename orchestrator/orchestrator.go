// Package orchestrator coordinates content playback with ad breaks.
//
// The core is Transition, a pure function from a session and an event to the next
// session and a list of port commands. Machine executes those commands against the
// ports, and Orchestrator feeds it from a single goroutine so that events coming from
// the content player, ad decisioning and the engagement renderer never interleave.
package orchestrator

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/adcue/adcue/ads"
	"github.com/adcue/adcue/interactive"
	"github.com/adcue/adcue/log"
	"github.com/adcue/adcue/player"
)

// Orchestrator is the single writer of a playback session.
type Orchestrator struct {
	machine *Machine
	queue   chan Event

	// closing is closed once teardown starts, done once the loop exited
	closing   chan struct{}
	closeOnce sync.Once
	done      chan struct{}

	started  atomic.Bool
	snapshot atomic.Pointer[Session]
}

// New wires the ports to a new orchestrator. Nothing runs until Start.
func New(options Options, ports Ports) (*Orchestrator, error) {
	machine, err := NewMachine(options, ports)
	if err != nil {
		return nil, err
	}
	machine.asyncHost = true

	o := &Orchestrator{
		machine: machine,
		queue:   make(chan Event, options.queueSize()),
		closing: make(chan struct{}),
		done:    make(chan struct{}),
	}
	o.publish()

	ports.Content.SetListener(func(e player.Event) {
		o.enqueue(ContentEvent{e})
	})
	ports.Ads.SetListener(func(e ads.Event) {
		o.enqueue(AdEvent{e})
	})
	if ports.Interactive != nil {
		ports.Interactive.SetListener(func(e interactive.Event) {
			o.enqueue(InteractiveEvent{e})
		})
	}

	return o, nil
}

// Start runs the event loop and requests playback.
// Cancelling ctx tears the session down.
func (o *Orchestrator) Start(ctx context.Context) error {
	if !o.started.CompareAndSwap(false, true) {
		return errors.New("orchestrator already started")
	}

	go o.loop(ctx)
	return o.Dispatch(Play{})
}

// Dispatch queues event for the loop. It blocks while the queue is full.
func (o *Orchestrator) Dispatch(event Event) error {
	select {
	case <-o.closing:
		return ErrTerminated
	default:
	}

	select {
	case <-o.closing:
		return ErrTerminated
	case o.queue <- event:
		return nil
	}
}

func (o *Orchestrator) enqueue(event Event) {
	if err := o.Dispatch(event); err != nil {
		o.machine.metrics.EventsDropped.Inc()
		log.Debugf("dropped %s: %v", event, err)
	}
}

// RequestAds issues a new ad request; an empty request reuses the session one.
func (o *Orchestrator) RequestAds(request ads.Request) error {
	return o.Dispatch(RequestAds{Request: request})
}

// Seek requests a content seek, subject to snapback onto unplayed breaks.
func (o *Orchestrator) Seek(targetMs int64) error {
	return o.Dispatch(SeekRequested{TargetMs: targetMs})
}

// SkipCurrentAdBreak skips the rest of the playing ad break.
func (o *Orchestrator) SkipCurrentAdBreak() error {
	return o.Dispatch(SkipBreak{})
}

// Pause follows the host going to the background.
func (o *Orchestrator) Pause() error {
	return o.Dispatch(HostPause{})
}

// Resume follows the host coming back to the foreground.
func (o *Orchestrator) Resume() error {
	return o.Dispatch(HostResume{})
}

// ToggleAdPlayback pauses or resumes the playing ad.
func (o *Orchestrator) ToggleAdPlayback() error {
	return o.Dispatch(ToggleAdPlayback{})
}

// Teardown releases every port and waits for the loop to exit.
// It is safe to call more than once and from any goroutine.
func (o *Orchestrator) Teardown() {
	if o.started.CompareAndSwap(false, true) {
		go o.loop(context.Background())
	}

	_ = o.Dispatch(Teardown{})
	<-o.done
	o.machine.Wait()
}

// Done is closed once the session terminated.
func (o *Orchestrator) Done() <-chan struct{} {
	return o.done
}

// Snapshot returns a copy of the session as of the last processed event.
func (o *Orchestrator) Snapshot() Session {
	return *o.snapshot.Load()
}

// ContentProgress is the cheap progress read handed to ad decisioning.
func (o *Orchestrator) ContentProgress() ads.Progress {
	return o.machine.ContentProgress()
}

// Metrics returns the counters of this orchestrator.
func (o *Orchestrator) Metrics() *Metrics {
	return o.machine.metrics
}

func (o *Orchestrator) loop(ctx context.Context) {
	defer close(o.done)
	defer o.close()

	for {
		select {
		case <-ctx.Done():
			o.apply(Teardown{})
			return
		case event := <-o.queue:
			o.apply(event)
			if o.machine.Session().State == Terminated {
				o.drain()
				return
			}
		}
	}
}

func (o *Orchestrator) apply(event Event) {
	// stop accepting events before ports are released, their listeners may still fire
	if _, ok := event.(Teardown); ok {
		o.close()
	}

	if _, err := o.machine.Apply(event); err != nil {
		log.Debugf("%s: %v", event, err)
	}
	o.publish()
}

// drain drops whatever was queued behind the teardown.
func (o *Orchestrator) drain() {
	for {
		select {
		case event := <-o.queue:
			o.machine.metrics.EventsDropped.Inc()
			log.Debugf("dropped %s after teardown", event)
		default:
			return
		}
	}
}

func (o *Orchestrator) close() {
	o.closeOnce.Do(func() {
		close(o.closing)
	})
}

func (o *Orchestrator) publish() {
	session := o.machine.Session()
	session.Breaks = session.Breaks.Clone()
	o.snapshot.Store(&session)
}
