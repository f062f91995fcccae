package tui

import (
	"errors"
	"testing"

	"github.com/adcue/adcue/filesystem"
	"github.com/adcue/adcue/journal"
	tea "github.com/charmbracelet/bubbletea"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func press(b *bubble, keys ...tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = b.Update(k)
	}
	return cmd
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	down  = tea.KeyMsg{Type: tea.KeyDown}
	quit  = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}
	del   = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}}
)

func TestBubble(t *testing.T) {
	Convey("Given a picker over two entries", t, func() {
		entries := []*journal.Entry{
			{Source: "https://cdn.example.com/a.m3u8", PositionMs: 61000, PlayedBreaksMs: []int64{0}},
			{Source: "https://cdn.example.com/b.m3u8", PositionMs: 5000},
		}
		b := newBubble(entries)
		b.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

		Convey("Enter should choose the selected entry", func() {
			cmd := press(b, down, enter)
			So(cmd, ShouldNotBeNil)
			So(b.chosen.MustGet().Source, ShouldEqual, "https://cdn.example.com/b.m3u8")
		})

		Convey("Quitting should choose nothing", func() {
			cmd := press(b, quit)
			So(cmd, ShouldNotBeNil)
			So(b.chosen.IsAbsent(), ShouldBeTrue)
		})

		Convey("Forgetting an entry should remove it from the list", func() {
			var removed []string
			b.remove = func(source string) error {
				removed = append(removed, source)
				return nil
			}

			cmd := press(b, del)
			So(cmd, ShouldNotBeNil)
			b.Update(cmd())

			So(removed, ShouldResemble, []string{"https://cdn.example.com/a.m3u8"})
			So(len(b.entries.Items()), ShouldEqual, 1)
		})

		Convey("A failed removal should keep the entry", func() {
			b.remove = func(string) error { return errors.New("read-only") }

			b.Update(press(b, del)())
			So(len(b.entries.Items()), ShouldEqual, 2)
		})

		Convey("Items should describe the resume point", func() {
			item := b.entries.Items()[0].(listItem)
			So(item.Description(), ShouldStartWith, "at 01:01, 1 break played")
			So(b.View(), ShouldContainSubstring, "Resume")
		})
	})
}
