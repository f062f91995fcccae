package cmd

import (
	"errors"
	"fmt"

	"github.com/adcue/adcue/ads"
	"github.com/adcue/adcue/icon"
	"github.com/adcue/adcue/journal"
	"github.com/adcue/adcue/orchestrator"
	"github.com/adcue/adcue/tui"
	"github.com/adcue/adcue/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(resumeCmd)
}

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Pick journaled content and resume it where it stopped",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		entries, err := journal.All()
		handleErr(err)

		if len(entries) == 0 {
			handleErr(errors.New("nothing to resume, the journal is empty"))
		}

		chosen, err := tui.Pick(entries)
		handleErr(err)

		entry, ok := chosen.Get()
		if !ok {
			return
		}

		checkDependencies()

		options := orchestrator.OptionsFromConfig(entry.Source, ads.Request{TagURL: entry.AdTag, Response: entry.AdResponse})
		options.StartPositionMs = entry.PositionMs
		options.PlayedBreaksMs = entry.PlayedBreaksMs

		fmt.Printf("%s resuming at %s\n", icon.Get(icon.Content), util.FormatMs(entry.PositionMs))
		handleErr(play(options, util.FileStem(entry.Source)))
	},
}
