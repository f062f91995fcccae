package tui

import (
	"fmt"

	"github.com/adcue/adcue/journal"
	"github.com/adcue/adcue/style"
	"github.com/adcue/adcue/util"
)

// listItem implements list.Item for a journal entry.
type listItem struct {
	entry *journal.Entry
}

func (i listItem) Title() string {
	return i.entry.Source
}

func (i listItem) Description() string {
	description := fmt.Sprintf(
		"at %s, %s",
		util.FormatMs(i.entry.PositionMs),
		util.Quantify(len(i.entry.PlayedBreaksMs), "break played", "breaks played"),
	)

	if !i.entry.UpdatedAt.IsZero() {
		description += style.Faint(" · " + i.entry.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return description
}

func (i listItem) FilterValue() string {
	return i.entry.Source
}
