package tui

import (
	"github.com/adcue/adcue/color"
	"github.com/adcue/adcue/journal"
	"github.com/adcue/adcue/log"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

var paddingStyle = lipgloss.NewStyle().Padding(1, 2)

type bubble struct {
	keymap  *keymap
	entries list.Model
	chosen  mo.Option[*journal.Entry]

	// remove forgets an entry; swapped in tests
	remove func(source string) error
}

type removedMsg struct {
	index int
	err   error
}

func newBubble(entries []*journal.Entry) *bubble {
	keys := newKeymap()

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(color.Purple).
		Foreground(color.Purple).
		Padding(0, 0, 0, 1)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle

	items := lo.Map(entries, func(entry *journal.Entry, _ int) list.Item {
		return listItem{entry: entry}
	})

	entriesC := list.New(items, delegate, 0, 0)
	entriesC.Title = "Resume"
	entriesC.KeyMap = keys.forList()
	entriesC.AdditionalShortHelpKeys = keys.ShortHelp
	entriesC.SetShowStatusBar(false)
	entriesC.Styles.NoItems = paddingStyle

	return &bubble{
		keymap:  keys,
		entries: entriesC,
		chosen:  mo.None[*journal.Entry](),
		remove:  journal.Remove,
	}
}

func (b *bubble) Init() tea.Cmd {
	return nil
}

func (b *bubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		x, y := paddingStyle.GetFrameSize()
		b.entries.SetSize(msg.Width-x, msg.Height-y)
		return b, nil

	case removedMsg:
		if msg.err != nil {
			log.Warnf("journal: %v", msg.err)
			return b, b.entries.NewStatusMessage(msg.err.Error())
		}
		b.entries.RemoveItem(msg.index)
		return b, nil

	case tea.KeyMsg:
		// keys go to the filter input while it is focused
		if b.entries.FilterState() == list.Filtering {
			break
		}

		switch {
		case key.Matches(msg, b.keymap.forceQuit), key.Matches(msg, b.keymap.quit):
			return b, tea.Quit

		case key.Matches(msg, b.keymap.play):
			if item, ok := b.entries.SelectedItem().(listItem); ok {
				b.chosen = mo.Some(item.entry)
				return b, tea.Quit
			}
			return b, nil

		case key.Matches(msg, b.keymap.remove):
			item, ok := b.entries.SelectedItem().(listItem)
			if !ok {
				return b, nil
			}
			index, remove := b.entries.Index(), b.remove
			return b, func() tea.Msg {
				return removedMsg{index: index, err: remove(item.entry.Source)}
			}
		}
	}

	var cmd tea.Cmd
	b.entries, cmd = b.entries.Update(msg)
	return b, cmd
}

func (b *bubble) View() string {
	return paddingStyle.Render(b.entries.View())
}
