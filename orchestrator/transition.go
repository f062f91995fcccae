package orchestrator

import (
	"errors"

	"github.com/adcue/adcue/ads"
	"github.com/adcue/adcue/constant"
	"github.com/adcue/adcue/interactive"
	"github.com/adcue/adcue/player"
	"github.com/adcue/adcue/position"
	"github.com/samber/mo"
)

// Config is the static input of Transition.
type Config struct {
	Stitched            bool
	PlaceholderMarginMs int64
	SeekToEndMarginMs   int64
	SkipPaddingMs       int64
	Classifier          ads.Classifier
}

// DefaultConfig returns the stock margins and classifier for client-side insertion.
func DefaultConfig() Config {
	return Config{
		PlaceholderMarginMs: constant.PlaceholderMarginMs,
		SeekToEndMarginMs:   constant.SeekToEndMarginMs,
		SkipPaddingMs:       constant.SkipPaddingMs,
		Classifier:          ads.DefaultClassifier(),
	}
}

// Transition computes the next session and the port commands produced by event.
// It performs no I/O; commands are executed in order by a Machine.
func Transition(s Session, event Event, config Config) (Session, []Command) {
	if s.State == Terminated {
		return s, nil
	}

	if _, ok := event.(Teardown); ok {
		return teardown(s)
	}

	if s.State == Idle {
		if _, ok := event.(Play); ok {
			return play(s)
		}
		return s, []Command{note("%s ignored before playback starts", event)}
	}

	switch e := event.(type) {
	case Play:
		return s, []Command{note("playback already started")}
	case RequestAds:
		return requestAds(s, e.Request)
	case AdEvent:
		return onAdEvent(s, e.Event, config)
	case InteractiveEvent:
		return onInteractiveEvent(s, e.Event, config)
	case ContentEvent:
		return onContentEvent(s, e.Event)
	case SeekRequested:
		return onSeek(s, e)
	case SkipBreak:
		return skipBreak(s, config)
	case HostPause:
		return hostPause(s)
	case HostResume:
		return hostResume(s)
	case ToggleAdPlayback:
		return toggleAdPlayback(s)
	default:
		return s, []Command{note("unhandled event %s", event)}
	}
}

func play(s Session) (Session, []Command) {
	if s.Source == "" {
		return s, []Command{note("cannot play: %v", ErrNoContentSource)}
	}

	commands := []Command{{Op: OpContentLoad, Target: s.Source}}
	if s.StartPositionMs > 0 {
		commands = append(commands, seek(s.StartPositionMs))
	}
	commands = append(commands, controls(true), cmd(OpContentShow), cmd(OpContentPlay))

	s.State = ContentPlaying
	s.SeekEnabled = true

	s, requested := requestAds(s, s.Request)
	return s, append(commands, requested...)
}

func requestAds(s Session, request ads.Request) (Session, []Command) {
	if request.Empty() {
		request = s.Request
	}

	if request.Empty() {
		return s, []Command{note("no ad descriptor, content plays without ads")}
	}

	if err := request.Validate(); err != nil {
		return s, []Command{note("ad request rejected: %v", err)}
	}

	if s.State != ContentPlaying {
		return s, []Command{note("ad request ignored in %s", s.State)}
	}

	var commands []Command
	if s.AdsActive {
		commands = append(commands, cmd(OpAdsRelease))
	}

	s.Request = request
	s.AdsActive = true
	return s, append(commands, Command{Op: OpAdsRequest, Request: request})
}

func onAdEvent(s Session, e ads.Event, config Config) (Session, []Command) {
	switch e.Type {
	case ads.Loaded:
		var commands []Command
		if e.CuePointsMs != nil {
			commands = append(commands, Command{Op: OpLoadCuePoints, CuePointsMs: e.CuePointsMs})
		}
		return s, append(commands, cmd(OpAdsStart))

	case ads.CuePointsChanged:
		return s, []Command{{Op: OpLoadCuePoints, CuePointsMs: e.CuePointsMs}}

	case ads.ContentPauseRequested:
		return pauseForAd(s)

	case ads.Started:
		return adStarted(s, e.Ad, config)

	case ads.Paused:
		if !s.State.linear() {
			return s, nil
		}
		s.AdPlaying = false
		return s, []Command{controls(true)}

	case ads.Resumed:
		if !s.State.linear() {
			return s, nil
		}
		s.AdPlaying = true
		return s, []Command{controls(false)}

	case ads.ContentResumeRequested:
		return resumeContent(s)

	case ads.AllAdsCompleted:
		var commands []Command
		if s.AdsActive {
			commands = append(commands, cmd(OpAdsRelease))
			s.AdsActive = false
		}
		if s.State != ContentPlaying {
			var resumed []Command
			s, resumed = resumeContent(s)
			commands = append(commands, resumed...)
		}
		return s, commands

	case ads.BreakStarted:
		s.SeekEnabled = false
		return s, []Command{controls(false)}

	case ads.BreakEnded:
		if s.BreakEndSynthesized {
			s.BreakEndSynthesized = false
			return s, nil
		}
		return breakEnded(s)

	case ads.Error:
		return adFailed(s, e.Err)

	default:
		// Completed and progress carry nothing the session tracks
		return s, nil
	}
}

func pauseForAd(s Session) (Session, []Command) {
	if s.State != ContentPlaying {
		return s, []Command{note("content pause requested in %s", s.State)}
	}

	s.State = ContentPausedForAd
	s.ContentSuspended = true
	s.SeekEnabled = false
	return s, []Command{
		save(position.ModeContent),
		cmd(OpContentPause),
		cmd(OpContentHide),
		controls(false),
	}
}

func adStarted(s Session, ad *ads.Ad, config Config) (Session, []Command) {
	if s.State == AdInteractiveActive {
		return s, []Command{note("ad started during an engagement")}
	}

	var pod ads.PodInfo
	if ad != nil {
		pod = ad.Pod
	}
	s.CurrentPod = mo.Some(pod)
	s.SeekEnabled = false

	placeholder, ok := config.Classifier.Classify(ad).(ads.InteractivePlaceholder)
	if !ok {
		s.State = AdLinearPlaying
		s.AdPlaying = true
		return s, []Command{cmd(OpAdSurfaceShow)}
	}

	commands := []Command{cmd(OpAdsPause)}

	// skip the placeholder media, leaving a margin so the player does not stall on its last frame
	switch {
	case config.Stitched && pod.PostRoll():
		// a stitched post-roll sits at the end of the stream
		commands = append(commands, seekToEnd(config.SeekToEndMarginMs))
	case config.Stitched && ad.DurationMs > 0:
		commands = append(commands, seek(pod.TimeOffsetMs+ad.DurationMs-config.PlaceholderMarginMs))
	case ad.DurationMs > 0:
		commands = append(commands, seek(ad.DurationMs-config.PlaceholderMarginMs))
	default:
		commands = append(commands, seekToEnd(config.SeekToEndMarginMs))
	}

	breakEnd := mo.None[int64]()
	if config.Stitched && pod.BreakDurationMs > 0 && !pod.PostRoll() {
		breakEnd = mo.Some(pod.TimeOffsetMs + pod.BreakDurationMs)
	}

	s.State = AdInteractiveActive
	s.AdPlaying = false
	s.Interactive = mo.Some(InteractiveBreak{
		Locator:    placeholder.Locator,
		Credit:     CreditUnknown,
		BreakEndMs: breakEnd,
	})

	return s, append(commands,
		controls(false),
		cmd(OpContentHide),
		cmd(OpAdSurfaceHide),
		Command{Op: OpInteractiveStart, Target: placeholder.Locator},
	)
}

// resumeContent brings content back as the live playback.
func resumeContent(s Session) (Session, []Command) {
	var commands []Command

	if s.Interactive.IsPresent() {
		commands = append(commands, cmd(OpInteractiveStop))
		s.Interactive = mo.None[InteractiveBreak]()
	}

	commands = append(commands, cmd(OpAdSurfaceHide))

	if s.ContentSuspended {
		commands = append(commands,
			Command{Op: OpContentLoad, Target: s.Source},
			restore(position.ModeContent),
		)
		s.ContentSuspended = false
	}

	commands = append(commands, cmd(OpContentShow), controls(true))

	if !s.HostPaused {
		commands = append(commands, cmd(OpContentPlay))
	}

	// content had already ended before the break, so it must not replay
	if s.ContentCompleted {
		commands = append(commands, cmd(OpContentPause))
	}

	if pod, ok := s.CurrentPod.Get(); ok {
		commands = append(commands, Command{Op: OpMarkBreakPlayed, PositionMs: pod.TimeOffsetMs})
		s.CurrentPod = mo.None[ads.PodInfo]()
	}

	s.State = ContentPlaying
	s.AdPlaying = false
	s.SeekEnabled = true
	return s, commands
}

func breakEnded(s Session) (Session, []Command) {
	var commands []Command

	if s.Interactive.IsPresent() {
		commands = append(commands, cmd(OpInteractiveStop))
		s.Interactive = mo.None[InteractiveBreak]()
	}

	pod, hasPod := s.CurrentPod.Get()
	if hasPod {
		commands = append(commands, Command{Op: OpMarkBreakPlayed, PositionMs: pod.TimeOffsetMs})
		s.CurrentPod = mo.None[ads.PodInfo]()
	}

	if snapback, ok := s.Snapback.Get(); ok {
		if !hasPod || pod.TimeOffsetMs != snapback.BreakMs {
			commands = append(commands, Command{Op: OpMarkBreakPlayed, PositionMs: snapback.BreakMs})
		}
		commands = append(commands, seek(snapback.TargetMs))
		s.Snapback = mo.None[Snapback]()
	}

	commands = append(commands, cmd(OpContentShow), controls(true))

	s.State = ContentPlaying
	s.AdPlaying = false
	s.SeekEnabled = true
	return s, commands
}

// adFailed releases ad resources and unconditionally resumes content.
func adFailed(s Session, err error) (Session, []Command) {
	if err == nil {
		err = errors.New("ad error")
	}

	commands := []Command{report(AdRequestFailed, err)}

	if s.Interactive.IsPresent() {
		commands = append(commands, cmd(OpInteractiveStop))
		s.Interactive = mo.None[InteractiveBreak]()
	}

	// release is idempotent on the port, so it is issued even if no request is pending
	commands = append(commands, cmd(OpAdsRelease))
	s.AdsActive = false
	s.Snapback = mo.None[Snapback]()
	s.BreakEndSynthesized = false

	s, resumed := resumeContent(s)
	return s, append(commands, resumed...)
}

func onInteractiveEvent(s Session, e interactive.Event, config Config) (Session, []Command) {
	if e.Type == interactive.PopupWebsite {
		return s, []Command{{Op: OpPopup, Target: e.URL}}
	}

	engagement, ok := s.Interactive.Get()
	if !ok || s.State != AdInteractiveActive {
		return s, []Command{note("engagement event %s without an engagement", e.Type)}
	}

	switch e.Type {
	case interactive.AdFreePod:
		engagement.Credit = CreditGranted
	case interactive.OptOut, interactive.UserCancel:
		if engagement.Credit == CreditUnknown {
			engagement.Credit = CreditDenied
		}
	case interactive.AdStarted:
		return s, []Command{controls(false)}
	case interactive.AdCompleted, interactive.AdError, interactive.NoAdsAvailable:
		return engagementEnded(s, engagement, e, config)
	default:
		return s, nil
	}

	s.Interactive = mo.Some(engagement)
	return s, nil
}

func engagementEnded(s Session, engagement InteractiveBreak, e interactive.Event, config Config) (Session, []Command) {
	var commands []Command

	switch e.Type {
	case interactive.AdError:
		err := e.Err
		if err == nil {
			err = errors.New("engagement error")
		}
		commands = append(commands, report(InteractiveAdFailed, err))
	case interactive.NoAdsAvailable:
		commands = append(commands, report(InteractiveAdFailed, errors.New("no interactive ads available")))
	}

	commands = append(commands, cmd(OpInteractiveStop))
	s.Interactive = mo.None[InteractiveBreak]()

	if config.Stitched {
		commands = append(commands, cmd(OpContentShow))
	} else {
		commands = append(commands, cmd(OpAdSurfaceShow))
	}

	if engagement.Credit == CreditGranted {
		commands = append(commands, cmd(OpAdsDiscard), cmd(OpAdsResume))
		s, resumed := resumeContent(s)
		return s, append(commands, resumed...)
	}

	// without credit the remaining linear ads play; the ad manager resumes past the placeholder
	if end, ok := engagement.BreakEndMs.Get(); ok {
		commands = append(commands, seek(end))
	} else {
		commands = append(commands, seekToEnd(config.SeekToEndMarginMs))
	}

	s.State = AdLinearPlaying
	s.AdPlaying = true
	return s, append(commands, cmd(OpAdsResume))
}

func onContentEvent(s Session, e player.Event) (Session, []Command) {
	switch e.Type {
	case player.EventEnded:
		if s.State != ContentPlaying || s.ContentSuspended {
			return s, nil
		}
		s.ContentCompleted = true
		if !s.AdsActive {
			return s, nil
		}
		return s, []Command{cmd(OpAdsContentComplete)}

	case player.EventError:
		err := e.Err
		if err == nil {
			err = errors.New("playback error")
		}

		// the player was rendering ad media
		if s.State != ContentPlaying {
			return adFailed(s, err)
		}

		var commands []Command
		if s.AdsActive {
			commands = append(commands, cmd(OpAdsRelease))
			s.AdsActive = false
		}
		return s, append(commands, Command{Op: OpNotifyFatal, Err: fail(ContentPlaybackFailed, err)})

	default:
		return s, nil
	}
}

func onSeek(s Session, e SeekRequested) (Session, []Command) {
	if s.State != ContentPlaying || !s.SeekEnabled {
		return s, []Command{note("seek to %d ignored in %s", e.TargetMs, s.State)}
	}

	from := e.FromMs.OrElse(0)

	if s.Stitched && e.TargetMs > from {
		if b, ok := s.Breaks.PreviousUnplayedBefore(e.TargetMs).Get(); ok && b.PositionMs > from {
			s.SeekEnabled = false
			s.Snapback = mo.Some(Snapback{TargetMs: e.TargetMs, BreakMs: b.PositionMs})
			return s, []Command{seek(b.PositionMs), controls(false)}
		}
	}

	return s, []Command{seek(e.TargetMs)}
}

func skipBreak(s Session, config Config) (Session, []Command) {
	pod, ok := s.CurrentPod.Get()
	if !ok || !s.State.Mode().IsAd() {
		return s, []Command{note("no ad break to skip")}
	}

	if !config.Stitched {
		commands := []Command{cmd(OpAdsDiscard)}
		s, resumed := resumeContent(s)
		return s, append(commands, resumed...)
	}

	skip := seek(pod.TimeOffsetMs + pod.BreakDurationMs + config.SkipPaddingMs)
	if pod.PostRoll() {
		skip = seekToEnd(config.SeekToEndMarginMs)
	}

	commands := []Command{skip}
	s, ended := breakEnded(s)
	s.BreakEndSynthesized = true
	return s, append(commands, ended...)
}

func hostPause(s Session) (Session, []Command) {
	if s.HostPaused {
		return s, nil
	}
	s.HostPaused = true

	mode := s.State.Mode()
	commands := []Command{save(mode)}

	switch {
	case s.State == AdInteractiveActive:
		commands = append(commands, cmd(OpInteractivePause))
	case s.State.linear():
		commands = append(commands, cmd(OpAdsPause))
		if s.State == AdLinearPlaying {
			s.State = AdLinearPaused
		}
	default:
		commands = append(commands, cmd(OpContentPause))
	}

	return s, commands
}

func hostResume(s Session) (Session, []Command) {
	if !s.HostPaused {
		return s, nil
	}
	s.HostPaused = false

	mode := s.State.Mode()
	commands := []Command{restore(mode)}

	switch {
	case s.State == AdInteractiveActive:
		commands = append(commands, cmd(OpInteractiveResume))
	case s.State.linear():
		commands = append(commands, cmd(OpAdsResume))
		if s.State == AdLinearPaused {
			s.State = AdLinearPlaying
		}
	default:
		commands = append(commands, cmd(OpContentPlay))
		if s.ContentCompleted {
			commands = append(commands, cmd(OpContentPause))
		}
	}

	return s, commands
}

func toggleAdPlayback(s Session) (Session, []Command) {
	if !s.State.linear() {
		return s, nil
	}
	if s.AdPlaying {
		return s, []Command{cmd(OpAdsPause)}
	}
	return s, []Command{cmd(OpAdsResume)}
}

func teardown(s Session) (Session, []Command) {
	var commands []Command

	if s.Interactive.IsPresent() {
		commands = append(commands, cmd(OpInteractiveStop))
		s.Interactive = mo.None[InteractiveBreak]()
	}

	if s.AdsActive {
		commands = append(commands, cmd(OpAdsRelease))
		s.AdsActive = false
	}

	if !s.ContentReleased {
		commands = append(commands, cmd(OpContentRelease))
		s.ContentReleased = true
	}

	s.State = Terminated
	s.AdPlaying = false
	s.Snapback = mo.None[Snapback]()
	s.CurrentPod = mo.None[ads.PodInfo]()
	return s, commands
}
