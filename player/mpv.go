package player

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/adcue/adcue/constant"
	"github.com/adcue/adcue/log"
)

// ErrNotRunning is returned by IPC calls issued before mpv was started or after it was released.
var ErrNotRunning = errors.New("mpv is not running")

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
	quitTimeout       = 3 * time.Second
)

// MPV implements Content on top of mpv's JSON-IPC protocol.
// The process is spawned lazily by the first Load.
type MPV struct {
	title      string
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{}
	events     *EventListener

	// ipcMu serializes socket writes, mu guards the process lifecycle
	ipcMu sync.Mutex
	mu    sync.Mutex

	listener   atomic.Pointer[Listener]
	positionMs atomic.Int64
	durationMs atomic.Int64
	released   atomic.Bool
}

// NewMPV creates a new mpv player. Nothing is started until Load is called.
func NewMPV(title string) *MPV {
	return &MPV{
		title:  sanitizeTitle(title),
		exited: make(chan struct{}),
	}
}

// SetListener registers the receiver of playback events.
func (m *MPV) SetListener(listener Listener) {
	m.listener.Store(&listener)
}

func (m *MPV) emit(event Event) {
	if l := m.listener.Load(); l != nil && *l != nil {
		(*l)(event)
	}
}

// Load starts mpv with source or, when already running, replaces the current file.
func (m *MPV) Load(source string) error {
	target, err := sanitizeMediaTarget(source)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}

	m.positionMs.Store(0)
	m.durationMs.Store(0)

	m.mu.Lock()
	running := m.cmd != nil
	m.mu.Unlock()

	if running {
		_, err = m.command("loadfile", target, "replace")
		return err
	}

	return m.spawn(target)
}

func (m *MPV) spawn(target string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.released.Load() {
		return ErrNotRunning
	}

	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return fmt.Errorf("generate socket name: %w", err)
	}

	// os.TempDir honours $TMPDIR, which is not /tmp on macOS
	socketPath := filepath.Join(os.TempDir(), fmt.Sprintf("%s-%x.sock", constant.Adcue, randomBytes))

	// only the socket, title and target are passed so the user's mpv.conf stays in effect
	args := []string{
		"--no-terminal",
		"--really-quiet",
		"--input-ipc-server=" + socketPath,
		"--force-media-title=" + m.title,
		"--title=" + m.title,
		"--force-window=yes",
		"--idle=yes",
		target,
	}

	cmd := exec.Command("mpv", args...)
	cmd.SysProcAttr = detached()

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}

	exited := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(exited)
	}()

	if err := waitForSocket(socketPath, exited); err != nil {
		select {
		case <-exited:
		default:
			log.Warnf("killing mpv: socket never became ready")
			_ = terminate(cmd)
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	m.cmd = cmd
	m.exited = exited
	m.setSocket(socketPath)

	m.events = NewEventListener(socketPath, m.handleProperty)
	if err := m.events.Start(); err != nil {
		log.Warnf("mpv events unavailable: %v", err)
	}

	go m.watchExit(exited)

	return nil
}

func (m *MPV) setSocket(path string) {
	m.ipcMu.Lock()
	m.socketPath = path
	m.ipcMu.Unlock()
}

// watchExit reports an unexpected mpv exit as a playback error.
func (m *MPV) watchExit(exited <-chan struct{}) {
	<-exited
	if !m.released.Load() {
		m.emit(Event{Type: EventError, Err: errors.New("mpv exited unexpectedly")})
	}
}

// waitForSocket polls until the IPC socket accepts connections.
func waitForSocket(socketPath string, exited <-chan struct{}) error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-exited:
			return fmt.Errorf("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", socketPath, socketWaitRetries)
}

// Wait returns a channel closed when the mpv process exits.
func (m *MPV) Wait() <-chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.exited
}

func (m *MPV) Play() error {
	return m.set("pause", false)
}

func (m *MPV) Pause() error {
	return m.set("pause", true)
}

// Stop unloads the current file but keeps mpv idle.
func (m *MPV) Stop() error {
	_, err := m.command("stop")
	return err
}

func (m *MPV) Seek(positionMs int64) error {
	m.positionMs.Store(positionMs)
	_, err := m.command("seek", msToSeconds(positionMs), "absolute")
	return err
}

// CurrentPositionMs returns the last time-pos reported by mpv, updated by seeks.
func (m *MPV) CurrentPositionMs() int64 {
	return m.positionMs.Load()
}

func (m *MPV) DurationMs() int64 {
	return m.durationMs.Load()
}

// Show enables the video track.
func (m *MPV) Show() error {
	return m.set("vid", "auto")
}

// Hide disables the video track; audio keeps its state.
func (m *MPV) Hide() error {
	return m.set("vid", "no")
}

// ShowAd and HideAd share the content surface: mpv renders ad media in the same window.
func (m *MPV) ShowAd() error {
	return m.Show()
}

func (m *MPV) HideAd() error {
	return m.Hide()
}

// SetControlsEnabled toggles the on-screen controller.
func (m *MPV) SetControlsEnabled(enabled bool) error {
	visibility := "never"
	if enabled {
		visibility = "auto"
	}
	_, err := m.command("script-message", "osc-visibility", visibility)
	return err
}

// SetAdMarkers renders ad breaks as chapters on the timeline.
func (m *MPV) SetAdMarkers(positionsMs []int64, played []bool) error {
	chapters := make([]map[string]any, 0, len(positionsMs))
	for i, ms := range positionsMs {
		if ms == math.MaxInt64 {
			continue
		}

		title := "Ad break"
		if i < len(played) && played[i] {
			title = "Ad break (played)"
		}

		chapters = append(chapters, map[string]any{
			"title": title,
			"time":  msToSeconds(ms),
		})
	}
	return m.set("chapter-list", chapters)
}

// Release quits mpv and removes its socket. Subsequent calls are no-ops.
func (m *MPV) Release() error {
	if m.released.Swap(true) {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cmd == nil {
		return nil
	}

	if m.events != nil {
		m.events.Stop()
	}

	_, _ = m.command("quit")

	select {
	case <-m.exited:
	case <-time.After(quitTimeout):
		_ = terminate(m.cmd)
	}

	socketPath := m.socketPath
	m.setSocket("")
	_ = os.Remove(socketPath)

	return nil
}

func (m *MPV) set(property string, value any) error {
	_, err := m.command("set_property", property, value)
	return err
}

// handleProperty updates the cached offsets and translates notifications into events.
func (m *MPV) handleProperty(name string, data any) {
	switch name {
	case "time-pos":
		if seconds, ok := data.(float64); ok {
			m.positionMs.Store(secondsToMs(seconds))
		}
	case "duration":
		if seconds, ok := data.(float64); ok {
			m.durationMs.Store(secondsToMs(seconds))
		}
	}

	if event, ok := translate(name, data); ok {
		m.emit(event)
	}
}

// translate maps an mpv notification to a playback event.
func translate(name string, data any) (Event, bool) {
	switch name {
	case "pause":
		if paused, ok := data.(bool); ok && !paused {
			return Event{Type: EventPlaying}, true
		}
	case "paused-for-cache":
		if buffering, ok := data.(bool); ok && buffering {
			return Event{Type: EventBuffering}, true
		}
	case "eof-reached":
		if eof, ok := data.(bool); ok && eof {
			return Event{Type: EventEnded}, true
		}
	case "end-file":
		payload, _ := data.(map[string]any)
		if reason, _ := payload["reason"].(string); reason == "error" {
			detail, _ := payload["file_error"].(string)
			return Event{Type: EventError, Err: fmt.Errorf("playback failed: %s", detail)}, true
		}
	}

	return Event{}, false
}

func msToSeconds(ms int64) float64 {
	return float64(ms) / 1000
}

func secondsToMs(seconds float64) int64 {
	return int64(math.Round(seconds * 1000))
}

// sanitizeMediaTarget validates that a target is safe to pass to mpv.
// Ad media URLs come from ad decisioning responses, so they are not trusted.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	// a leading dash would be parsed as an mpv flag
	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	return filepath.Clean(l), nil
}

func sanitizeTitle(title string) string {
	t := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "").Replace(title)
	t = strings.TrimSpace(t)
	if t == "" {
		return constant.Adcue
	}
	return t
}
