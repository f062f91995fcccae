package orchestrator

import (
	"errors"
	"testing"

	"github.com/adcue/adcue/ads"
	"github.com/adcue/adcue/interactive"
	"github.com/adcue/adcue/internal/porttest"
	"github.com/adcue/adcue/player"
	"github.com/adcue/adcue/position"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func newMachine(configure func(*Options)) (*Machine, *porttest.Ports) {
	ports := porttest.New()
	options := Options{
		Source:  contentURL,
		Request: ads.Request{TagURL: adTag},
	}
	if configure != nil {
		configure(&options)
	}

	m, err := NewMachine(options, Ports{
		Content:     ports.Content,
		Ads:         ports.Ads,
		Interactive: ports.Interactive,
		Host:        ports.Host,
	})
	if err != nil {
		panic(err)
	}
	return m, ports
}

func apply(m *Machine, events ...Event) {
	for _, e := range events {
		_, _ = m.Apply(e)
	}
}

func TestNewMachine(t *testing.T) {
	Convey("A machine requires content", t, func() {
		_, err := NewMachine(Options{}, Ports{})
		So(err, ShouldEqual, ErrNoContentSource)
	})

	Convey("A machine requires a coherent ad request", t, func() {
		_, err := NewMachine(Options{Source: contentURL, Request: ads.Request{TagURL: adTag, Response: "<VAST/>"}}, Ports{})
		So(err, ShouldNotBeNil)
	})

	Convey("A machine requires content and ads ports", t, func() {
		_, err := NewMachine(Options{Source: contentURL}, Ports{})
		So(err, ShouldNotBeNil)
	})
}

func TestMachineLinearScenario(t *testing.T) {
	Convey("Given content playing at 0 with ads requested", t, func() {
		m, ports := newMachine(nil)
		apply(m, Play{})

		So(ports.Calls(), ShouldResemble, []string{
			"content.load " + contentURL,
			"content.controls true",
			"content.show",
			"content.play",
			"ads.request tag " + adTag,
		})
		So(ports.Ads.CurrentProgress(), ShouldResemble, ads.Progress{PositionMs: 0, DurationMs: 600000, Ready: true})

		Convey("Loaded, content pause and a linear start play the ad", func() {
			apply(m,
				AdEvent{ads.Event{Type: ads.Loaded, CuePointsMs: []int64{0, 30000}}},
				adEvent(ads.ContentPauseRequested),
				AdEvent{ads.Event{Type: ads.Started, Ad: linearAd(0)}},
			)

			So(m.Session().State, ShouldEqual, AdLinearPlaying)
			So(m.Tracker().Saved(position.ModeContent), ShouldEqual, 0)
			So(ports.Has("content.hide"), ShouldBeTrue)
			So(ports.Has("ads.start"), ShouldBeTrue)
			So(ports.Content.Markers, ShouldResemble, []int64{0, 30000})

			visible, adVisible, controls := ports.Content.Snapshot()
			So(visible, ShouldBeFalse)
			So(adVisible, ShouldBeTrue)
			So(controls, ShouldBeFalse)

			So(ports.Ads.CurrentProgress(), ShouldResemble, ads.NotReady)

			Convey("Content resume brings content back at its saved position", func() {
				ports.Content.SetPosition(15000)
				ports.Reset()
				apply(m, adEvent(ads.ContentResumeRequested))

				So(m.Session().State, ShouldEqual, ContentPlaying)
				So(ports.Calls(), ShouldResemble, []string{
					"content.hide-ad",
					"content.load " + contentURL,
					"content.seek 0",
					"content.show",
					"content.controls true",
					"content.play",
				})
				So(m.Registry().At(0).MustGet().Played, ShouldBeTrue)
				So(ports.Ads.CurrentProgress().Ready, ShouldBeTrue)
			})
		})

		Convey("A mid-roll saves the position content was paused at", func() {
			ports.Content.SetPosition(30000)
			apply(m, adEvent(ads.ContentPauseRequested))
			So(m.Tracker().Saved(position.ModeContent), ShouldEqual, 30000)

			ports.Content.SetPosition(4000)
			apply(m, adEvent(ads.ContentResumeRequested))
			So(ports.Content.CurrentPositionMs(), ShouldEqual, 30000)
		})

		Convey("Seeking fills in the live position", func() {
			ports.Content.SetPosition(10000)
			commands, err := m.Apply(SeekRequested{TargetMs: 20000})
			So(err, ShouldBeNil)
			So(commands, ShouldResemble, []Command{seek(20000)})
			So(ports.Content.CurrentPositionMs(), ShouldEqual, 20000)
		})

		Convey("Host pause then resume leaves the position unchanged", func() {
			ports.Content.SetPosition(12345)
			apply(m, HostPause{}, HostResume{})
			So(ports.Content.CurrentPositionMs(), ShouldEqual, 12345)
			So(ports.Has("content.seek 12345"), ShouldBeTrue)
		})
	})
}

func TestMachineInteractiveScenario(t *testing.T) {
	Convey("Given a started interactive placeholder", t, func() {
		m, ports := newMachine(nil)
		apply(m,
			Play{},
			adEvent(ads.Loaded),
			adEvent(ads.ContentPauseRequested),
			AdEvent{ads.Event{Type: ads.Started, Ad: placeholderAd(0)}},
		)

		So(m.Session().State, ShouldEqual, AdInteractiveActive)
		So(ports.Has("ads.pause"), ShouldBeTrue)
		So(ports.Has("content.seek 29900"), ShouldBeTrue)
		So(ports.Has("interactive.start "+locator), ShouldBeTrue)
		So(ports.Interactive.Options.WebDebugging, ShouldBeFalse)

		Convey("Credit then completion discards the break and resumes content", func() {
			apply(m,
				engagementEvent(interactive.AdFreePod),
				engagementEvent(interactive.AdCompleted),
			)

			So(m.Session().State, ShouldEqual, ContentPlaying)
			So(ports.Index("ads.discard"), ShouldBeLessThan, ports.Index("ads.resume"))
			So(ports.Has("interactive.stop"), ShouldBeTrue)
			So(testutil.ToFloat64(m.Metrics().InteractiveOutcomes.WithLabelValues("granted")), ShouldEqual, 1)
		})

		Convey("An engagement error seeks to the end of the break and resumes ads", func() {
			apply(m, InteractiveEvent{interactive.Event{Type: interactive.AdError, Err: errors.New("timeout")}})

			So(m.Session().State, ShouldEqual, AdLinearPlaying)
			So(ports.Has("content.seek 599500"), ShouldBeTrue)
			So(ports.Index("content.seek 599500"), ShouldBeLessThan, ports.Index("ads.resume"))
			So(testutil.ToFloat64(m.Metrics().Failures.WithLabelValues("interactive_ad_failed")), ShouldEqual, 1)
			So(testutil.ToFloat64(m.Metrics().InteractiveOutcomes.WithLabelValues("unknown")), ShouldEqual, 1)

			apply(m, adEvent(ads.ContentResumeRequested))
			So(m.Session().State, ShouldEqual, ContentPlaying)
		})

		Convey("A popup reaches the host", func() {
			apply(m, InteractiveEvent{interactive.Event{Type: interactive.PopupWebsite, URL: "https://brand.example.com"}})
			So(ports.Host.Popups, ShouldResemble, []string{"https://brand.example.com"})
		})
	})

	Convey("Without an engagement renderer the placeholder falls back to linear ads", t, func() {
		ports := porttest.New()
		m, err := NewMachine(Options{Source: contentURL, Request: ads.Request{TagURL: adTag}}, Ports{
			Content: ports.Content,
			Ads:     ports.Ads,
		})
		So(err, ShouldBeNil)

		apply(m,
			Play{},
			adEvent(ads.ContentPauseRequested),
			AdEvent{ads.Event{Type: ads.Started, Ad: placeholderAd(0)}},
		)

		So(m.Session().State, ShouldEqual, AdLinearPlaying)
		So(ports.Has("ads.resume"), ShouldBeTrue)
		So(testutil.ToFloat64(m.Metrics().Failures.WithLabelValues("interactive_ad_failed")), ShouldEqual, 1)
	})

	Convey("A renderer that fails to start falls back to linear ads", t, func() {
		m, ports := newMachine(nil)
		ports.Interactive.Fail["start"] = errors.New("render failed")

		apply(m,
			Play{},
			adEvent(ads.Loaded),
			adEvent(ads.ContentPauseRequested),
			AdEvent{ads.Event{Type: ads.Started, Ad: placeholderAd(0)}},
		)

		So(m.Session().State, ShouldEqual, AdLinearPlaying)
		So(m.Session().Interactive.IsAbsent(), ShouldBeTrue)
		So(ports.Index("ads.pause"), ShouldBeLessThan, ports.Index("ads.resume"))
		So(testutil.ToFloat64(m.Metrics().PortErrors.WithLabelValues("interactive.start")), ShouldEqual, 1)
		So(testutil.ToFloat64(m.Metrics().Failures.WithLabelValues("interactive_ad_failed")), ShouldEqual, 1)

		apply(m, adEvent(ads.ContentResumeRequested))
		So(m.Session().State, ShouldEqual, ContentPlaying)
		So(ports.Content.Playing, ShouldBeTrue)
	})
}

func TestMachineFailures(t *testing.T) {
	Convey("Given a playing machine", t, func() {
		m, ports := newMachine(nil)
		apply(m, Play{})

		Convey("An ad error releases ads and keeps content playing", func() {
			apply(m, AdEvent{ads.Event{Type: ads.Error, Err: errors.New("no fill")}})
			So(m.Session().State, ShouldEqual, ContentPlaying)
			So(ports.Count("ads.release"), ShouldEqual, 1)
			So(testutil.ToFloat64(m.Metrics().Failures.WithLabelValues("ad_request_failed")), ShouldEqual, 1)
			So(ports.Host.Errors, ShouldBeEmpty)
		})

		Convey("A content error reaches the host", func() {
			apply(m, ContentEvent{player.Event{Type: player.EventError, Err: errors.New("decoder")}})
			So(ports.Host.Errors, ShouldHaveLength, 1)

			var failure *Failure
			So(errors.As(ports.Host.Errors[0], &failure), ShouldBeTrue)
			So(failure.Kind, ShouldEqual, ContentPlaybackFailed)
		})

		Convey("Port errors are counted without interrupting the sequence", func() {
			ports.Content.Fail["hide"] = errors.New("surface gone")
			apply(m, adEvent(ads.ContentPauseRequested))

			So(m.Session().State, ShouldEqual, ContentPausedForAd)
			So(ports.Has("content.controls false"), ShouldBeTrue)
			So(testutil.ToFloat64(m.Metrics().PortErrors.WithLabelValues("content.hide")), ShouldEqual, 1)
		})

		Convey("Content end notifies ad decisioning for post-rolls", func() {
			apply(m, ContentEvent{player.Event{Type: player.EventEnded}})
			So(m.Session().ContentCompleted, ShouldBeTrue)
			So(ports.Has("ads.content-complete"), ShouldBeTrue)
		})
	})
}

func TestMachineRequestFailure(t *testing.T) {
	Convey("A rejected ad request is an ad request failure", t, func() {
		m, ports := newMachine(nil)
		ports.Ads.Fail["request"] = errors.New("tag unreachable")

		apply(m, Play{})

		So(m.Session().State, ShouldEqual, ContentPlaying)
		So(m.Session().AdsActive, ShouldBeFalse)
		So(ports.Count("ads.release"), ShouldEqual, 1)
		So(ports.Index("ads.request tag "+adTag), ShouldBeLessThan, ports.Index("ads.release"))
		So(testutil.ToFloat64(m.Metrics().PortErrors.WithLabelValues("ads.request")), ShouldEqual, 1)
		So(testutil.ToFloat64(m.Metrics().Failures.WithLabelValues("ad_request_failed")), ShouldEqual, 1)
		So(ports.Host.Errors, ShouldBeEmpty)
	})
}

func TestMachineTeardown(t *testing.T) {
	Convey("Tearing down twice releases every port exactly once", t, func() {
		m, ports := newMachine(nil)
		apply(m, Play{})

		_, err := m.Apply(Teardown{})
		So(err, ShouldBeNil)

		commands, err := m.Apply(Teardown{})
		So(err, ShouldEqual, ErrTerminated)
		So(commands, ShouldBeEmpty)

		So(ports.Count("ads.release"), ShouldEqual, 1)
		So(ports.Count("content.release"), ShouldEqual, 1)
		So(testutil.ToFloat64(m.Metrics().EventsDropped), ShouldEqual, 1)
		So(testutil.ToFloat64(m.Metrics().Transitions.WithLabelValues("CONTENT_PLAYING", "TERMINATED")), ShouldEqual, 1)
	})
}

func TestMachineResume(t *testing.T) {
	Convey("Played breaks from a previous session stay played", t, func() {
		m, ports := newMachine(func(o *Options) {
			o.PlayedBreaksMs = []int64{0}
			o.StartPositionMs = 42000
		})
		apply(m,
			Play{},
			AdEvent{ads.Event{Type: ads.Loaded, CuePointsMs: []int64{0, 30000}}},
		)

		So(ports.Has("content.seek 42000"), ShouldBeTrue)
		So(m.Registry().PlayedOffsets(), ShouldResemble, []int64{0})
		So(m.Tracker().Saved(position.ModeContent), ShouldEqual, 42000)
	})
}
