// Package color provides the terminal palette used by the CLI.
package color

import "github.com/charmbracelet/lipgloss"

// New initializes a lipgloss.Color from a string value.
func New(value string) lipgloss.Color {
	return lipgloss.Color(value)
}

// ANSI palette.
var (
	Red      = New("1")
	Green    = New("2")
	Yellow   = New("3")
	Blue     = New("4")
	Purple   = New("5")
	Cyan     = New("6")
	HiRed    = New("9")
	HiBlue   = New("12")
	HiPurple = New("13")
	Gray     = New("#808080")
	Orange   = New("#ffb703")
	Cream    = New("230")
	Slate    = New("62")
)

// Playback colors, one per kind of media on screen.
var (
	Content     = Green
	LinearAd    = Orange
	Interactive = Purple
	Terminated  = Gray
)
