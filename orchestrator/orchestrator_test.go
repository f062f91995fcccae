package orchestrator

import (
	"context"
	"testing"
	"time"

	"github.com/adcue/adcue/ads"
	"github.com/adcue/adcue/interactive"
	"github.com/adcue/adcue/internal/porttest"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

// eventually polls cond until it holds or a second passed.
func eventually(cond func() bool) bool {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func inState(o *Orchestrator, state State) func() bool {
	return func() bool {
		return o.Snapshot().State == state
	}
}

func newOrchestrator(registry prometheus.Registerer) (*Orchestrator, *porttest.Ports) {
	ports := porttest.New()
	o, err := New(Options{
		Source:     contentURL,
		Request:    ads.Request{TagURL: adTag},
		QueueSize:  8,
		Registerer: registry,
	}, Ports{
		Content:     ports.Content,
		Ads:         ports.Ads,
		Interactive: ports.Interactive,
		Host:        ports.Host,
	})
	if err != nil {
		panic(err)
	}
	return o, ports
}

func TestOrchestrator(t *testing.T) {
	Convey("Given a started orchestrator", t, func() {
		registry := prometheus.NewRegistry()
		o, ports := newOrchestrator(registry)
		So(o.Snapshot().State, ShouldEqual, Idle)

		So(o.Start(context.Background()), ShouldBeNil)
		So(eventually(inState(o, ContentPlaying)), ShouldBeTrue)
		So(o.Snapshot().ID, ShouldNotBeEmpty)

		Convey("Starting twice fails", func() {
			So(o.Start(context.Background()), ShouldNotBeNil)
			o.Teardown()
		})

		Convey("Port events drive the session", func() {
			ports.Ads.Emit(ads.Event{Type: ads.Loaded, CuePointsMs: []int64{0, 30000}})
			ports.Ads.Emit(ads.Event{Type: ads.ContentPauseRequested})
			ports.Ads.Emit(ads.Event{Type: ads.Started, Ad: placeholderAd(0)})
			So(eventually(inState(o, AdInteractiveActive)), ShouldBeTrue)
			So(o.ContentProgress(), ShouldResemble, ads.NotReady)
			So(o.Snapshot().Breaks.Len(), ShouldEqual, 2)

			ports.Interactive.Emit(interactive.Event{Type: interactive.PopupWebsite, URL: "https://brand.example.com"})
			ports.Interactive.Emit(interactive.Event{Type: interactive.AdFreePod})
			ports.Interactive.Emit(interactive.Event{Type: interactive.AdCompleted})
			So(eventually(inState(o, ContentPlaying)), ShouldBeTrue)
			So(o.ContentProgress().Ready, ShouldBeTrue)

			o.Teardown()
			So(ports.Host.Popups, ShouldResemble, []string{"https://brand.example.com"})
		})

		Convey("Host requests go through the loop", func() {
			ports.Content.SetPosition(10000)
			So(o.Seek(20000), ShouldBeNil)
			So(eventually(func() bool { return ports.Has("content.seek 20000") }), ShouldBeTrue)

			So(o.Pause(), ShouldBeNil)
			So(eventually(func() bool { return o.Snapshot().HostPaused }), ShouldBeTrue)
			So(o.Resume(), ShouldBeNil)
			So(eventually(func() bool { return !o.Snapshot().HostPaused }), ShouldBeTrue)

			So(o.RequestAds(ads.Request{}), ShouldBeNil)
			So(o.ToggleAdPlayback(), ShouldBeNil)
			So(o.SkipCurrentAdBreak(), ShouldBeNil)
			So(eventually(func() bool { return ports.Count("ads.request tag "+adTag) == 2 }), ShouldBeTrue)

			o.Teardown()
		})

		Convey("Teardown is idempotent and rejects later events", func() {
			o.Teardown()
			o.Teardown()

			So(o.Snapshot().State, ShouldEqual, Terminated)
			So(ports.Count("content.release"), ShouldEqual, 1)
			So(ports.Count("ads.release"), ShouldEqual, 1)
			So(o.Seek(1000), ShouldEqual, ErrTerminated)

			ports.Ads.Emit(ads.Event{Type: ads.Error})
			So(testutil.ToFloat64(o.Metrics().EventsDropped), ShouldBeGreaterThanOrEqualTo, 1)
			So(ports.Count("ads.release"), ShouldEqual, 1)

			_, open := <-o.Done()
			So(open, ShouldBeFalse)
		})
	})

	Convey("Cancelling the context tears the session down", t, func() {
		o, ports := newOrchestrator(nil)
		ctx, cancel := context.WithCancel(context.Background())

		So(o.Start(ctx), ShouldBeNil)
		So(eventually(inState(o, ContentPlaying)), ShouldBeTrue)

		cancel()
		<-o.Done()
		So(o.Snapshot().State, ShouldEqual, Terminated)
		So(ports.Count("content.release"), ShouldEqual, 1)

		o.Teardown()
		So(ports.Count("content.release"), ShouldEqual, 1)
	})

	Convey("Tearing down an orchestrator that never started releases content", t, func() {
		o, ports := newOrchestrator(nil)
		o.Teardown()

		So(o.Snapshot().State, ShouldEqual, Terminated)
		So(ports.Calls(), ShouldResemble, []string{"content.release"})
	})

	Convey("Metrics register on the given registry", t, func() {
		registry := prometheus.NewRegistry()
		o, _ := newOrchestrator(registry)
		So(o.Start(context.Background()), ShouldBeNil)
		So(eventually(inState(o, ContentPlaying)), ShouldBeTrue)
		o.Teardown()

		count, err := testutil.GatherAndCount(registry, "adcue_orchestrator_transitions_total")
		So(err, ShouldBeNil)
		So(count, ShouldEqual, 2)
	})
}
