// Package porttest provides recording fakes of the playback, ad and engagement ports.
package porttest

import (
	"fmt"
	"strings"
	"sync"

	"github.com/adcue/adcue/ads"
	"github.com/adcue/adcue/interactive"
	"github.com/adcue/adcue/player"
	"github.com/samber/lo"
)

// Recorder is an ordered log of port calls shared by the fakes.
type Recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *Recorder) record(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

// Calls returns a copy of the log.
func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// Count returns how many calls equal call exactly.
func (r *Recorder) Count(call string) int {
	return lo.Count(r.Calls(), call)
}

// Has reports whether call was recorded.
func (r *Recorder) Has(call string) bool {
	return r.Count(call) > 0
}

// WithPrefix returns the calls starting with prefix, in order.
func (r *Recorder) WithPrefix(prefix string) []string {
	return lo.Filter(r.Calls(), func(c string, _ int) bool {
		return strings.HasPrefix(c, prefix)
	})
}

// Index returns the position of the first call equal to call, or -1.
func (r *Recorder) Index(call string) int {
	return lo.IndexOf(r.Calls(), call)
}

// Reset clears the log.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

// Content is a fake playback engine with its own ad surface and marker track.
type Content struct {
	*Recorder

	mu              sync.Mutex
	listener        player.Listener
	Source          string
	PositionMs      int64
	Duration        int64
	Playing         bool
	Visible         bool
	AdVisible       bool
	ControlsEnabled bool
	Markers         []int64
	Fail            map[string]error
}

// NewContent returns a visible content fake with controls enabled.
func NewContent(r *Recorder) *Content {
	return &Content{
		Recorder:        r,
		Visible:         true,
		ControlsEnabled: true,
		Duration:        600000,
		Fail:            map[string]error{},
	}
}

func (c *Content) fail(op string) error {
	return c.Fail[op]
}

func (c *Content) Load(source string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("content.load %s", source)
	c.Source = source
	c.PositionMs = 0
	return c.fail("load")
}

func (c *Content) Play() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("content.play")
	c.Playing = true
	return c.fail("play")
}

func (c *Content) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("content.pause")
	c.Playing = false
	return c.fail("pause")
}

func (c *Content) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("content.stop")
	c.Playing = false
	return c.fail("stop")
}

func (c *Content) Seek(positionMs int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("content.seek %d", positionMs)
	c.PositionMs = positionMs
	return c.fail("seek")
}

func (c *Content) CurrentPositionMs() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.PositionMs
}

// SetPosition moves the fake playhead as playback would.
func (c *Content) SetPosition(positionMs int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.PositionMs = positionMs
}

// SetDuration changes the reported media duration.
func (c *Content) SetDuration(durationMs int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Duration = durationMs
}

func (c *Content) DurationMs() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Duration
}

func (c *Content) Show() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("content.show")
	c.Visible = true
	return c.fail("show")
}

func (c *Content) Hide() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("content.hide")
	c.Visible = false
	return c.fail("hide")
}

func (c *Content) ShowAd() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("content.show-ad")
	c.AdVisible = true
	return nil
}

func (c *Content) HideAd() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("content.hide-ad")
	c.AdVisible = false
	return nil
}

func (c *Content) SetControlsEnabled(enabled bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("content.controls %t", enabled)
	c.ControlsEnabled = enabled
	return c.fail("controls")
}

func (c *Content) SetAdMarkers(positionsMs []int64, _ []bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Markers = append([]int64(nil), positionsMs...)
	return nil
}

func (c *Content) Release() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("content.release")
	return c.fail("release")
}

func (c *Content) SetListener(listener player.Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listener = listener
}

// Emit delivers a playback event to the registered listener.
func (c *Content) Emit(event player.Event) {
	c.mu.Lock()
	listener := c.listener
	c.mu.Unlock()
	if listener != nil {
		listener(event)
	}
}

// Snapshot returns the observable surface state.
func (c *Content) Snapshot() (visible, adVisible, controls bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Visible, c.AdVisible, c.ControlsEnabled
}

// Ads is a fake ad decisioning subsystem.
type Ads struct {
	*Recorder

	mu       sync.Mutex
	listener ads.Listener
	Progress ads.ProgressSupplier
	Request  ads.Request
	Fail     map[string]error
}

func NewAds(r *Recorder) *Ads {
	return &Ads{Recorder: r, Fail: map[string]error{}}
}

func (a *Ads) RequestAds(request ads.Request, progress ads.ProgressSupplier) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.record("ads.request %s", request)
	a.Request = request
	a.Progress = progress
	return a.Fail["request"]
}

func (a *Ads) Start() error {
	a.record("ads.start")
	return nil
}

func (a *Ads) Pause() error {
	a.record("ads.pause")
	return nil
}

func (a *Ads) Resume() error {
	a.record("ads.resume")
	return nil
}

func (a *Ads) DiscardCurrentBreak() error {
	a.record("ads.discard")
	return nil
}

func (a *Ads) ContentComplete() error {
	a.record("ads.content-complete")
	return nil
}

func (a *Ads) Release() error {
	a.record("ads.release")
	return nil
}

func (a *Ads) SetListener(listener ads.Listener) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listener = listener
}

// Emit delivers an ad event to the registered listener.
func (a *Ads) Emit(event ads.Event) {
	a.mu.Lock()
	listener := a.listener
	a.mu.Unlock()
	if listener != nil {
		listener(event)
	}
}

// CurrentProgress polls the supplier handed over with the last request.
func (a *Ads) CurrentProgress() ads.Progress {
	a.mu.Lock()
	progress := a.Progress
	a.mu.Unlock()
	if progress == nil {
		return ads.NotReady
	}
	return progress()
}

// Interactive is a fake engagement renderer.
type Interactive struct {
	*Recorder

	mu       sync.Mutex
	listener interactive.Listener
	Locator  string
	Options  interactive.Options
	Fail     map[string]error
}

func NewInteractive(r *Recorder) *Interactive {
	return &Interactive{Recorder: r, Fail: map[string]error{}}
}

func (i *Interactive) Start(locator string, options interactive.Options, _ interactive.View) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.record("interactive.start %s", locator)
	i.Locator = locator
	i.Options = options
	return i.Fail["start"]
}

func (i *Interactive) Pause() error {
	i.record("interactive.pause")
	return nil
}

func (i *Interactive) Resume() error {
	i.record("interactive.resume")
	return nil
}

func (i *Interactive) Stop() error {
	i.record("interactive.stop")
	return nil
}

func (i *Interactive) SetListener(listener interactive.Listener) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.listener = listener
}

// Emit delivers an engagement event to the registered listener.
func (i *Interactive) Emit(event interactive.Event) {
	i.mu.Lock()
	listener := i.listener
	i.mu.Unlock()
	if listener != nil {
		listener(event)
	}
}

// Host records the callbacks the orchestrator drives.
type Host struct {
	*Recorder

	mu     sync.Mutex
	Popups []string
	Errors []error
}

func NewHost(r *Recorder) *Host {
	return &Host{Recorder: r}
}

func (h *Host) OnPopupRequested(url string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.record("host.popup %s", url)
	h.Popups = append(h.Popups, url)
}

func (h *Host) OnContentError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.record("host.error")
	h.Errors = append(h.Errors, err)
}

// Ports bundles one fake of each kind sharing a recorder.
type Ports struct {
	*Recorder

	Content     *Content
	Ads         *Ads
	Interactive *Interactive
	Host        *Host
}

func New() *Ports {
	r := &Recorder{}
	return &Ports{
		Recorder:    r,
		Content:     NewContent(r),
		Ads:         NewAds(r),
		Interactive: NewInteractive(r),
		Host:        NewHost(r),
	}
}
