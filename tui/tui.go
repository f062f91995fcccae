// Package tui provides the terminal picker for resuming journaled content.
package tui

import (
	"github.com/adcue/adcue/journal"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/mo"
)

// Pick lists the journal entries full screen and returns the one chosen, if any.
func Pick(entries []*journal.Entry) (mo.Option[*journal.Entry], error) {
	final, err := tea.NewProgram(newBubble(entries), tea.WithAltScreen()).Run()
	if err != nil {
		return mo.None[*journal.Entry](), err
	}

	return final.(*bubble).chosen, nil
}
