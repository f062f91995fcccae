// Package util provides a collection of domain-agnostic utility functions and cross-platform helpers.
package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adcue/adcue/filesystem"
	"golang.org/x/exp/constraints"
	"golang.org/x/term"
)

// Quantify returns a pluralized string representation of a count and its associated labels.
func Quantify(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}

// Capitalize transforms the first rune of a string to its uppercase equivalent.
func Capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// TerminalSize retrieves the current character dimensions of the terminal window.
func TerminalSize() (width, height int, err error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// TerminalWidth returns the terminal width, or fallback when stdout is not a terminal.
func TerminalWidth(fallback int) int {
	width, _, err := TerminalSize()
	if err != nil || width <= 0 {
		return fallback
	}
	return width
}

// FileStem extracts the base filename from a path, excluding all file extensions.
func FileStem(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// FormatMs renders a media offset as mm:ss, or h:mm:ss past the hour.
// Negative offsets render as "--:--".
func FormatMs(ms int64) string {
	if ms < 0 {
		return "--:--"
	}

	total := ms / 1000
	hours, minutes, seconds := total/3600, total%3600/60, total%60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// ParseOffset parses a media offset given as a Go duration ("1m30s"), a clock ("1:30",
// "1:02:03") or plain seconds ("90"), returning milliseconds.
func ParseOffset(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty offset")
	}

	if d, err := time.ParseDuration(s); err == nil {
		if d < 0 {
			return 0, fmt.Errorf("negative offset %q", s)
		}
		return d.Milliseconds(), nil
	}

	var seconds float64
	for _, part := range strings.Split(s, ":") {
		value, err := strconv.ParseFloat(part, 64)
		if err != nil || value < 0 {
			return 0, fmt.Errorf("invalid offset %q", s)
		}
		seconds = seconds*60 + value
	}

	return int64(seconds * 1000), nil
}

// Ignore executes a function and explicitly discards its error return value.
func Ignore(f func() error) {
	_ = f()
}

// Clamp bounds value to [lo, hi].
func Clamp[T constraints.Ordered](value, lo, hi T) T {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

// Delete recursively removes a file or directory using the virtualized filesystem API.
func Delete(path string) error {
	fs := filesystem.API()
	stat, err := fs.Stat(path)
	if err != nil {
		return err
	}

	if stat.IsDir() {
		return fs.RemoveAll(path)
	}
	return fs.Remove(path)
}
