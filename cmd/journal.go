package cmd

import (
	"encoding/json"
	"os"

	"github.com/adcue/adcue/color"
	"github.com/adcue/adcue/icon"
	"github.com/adcue/adcue/journal"
	"github.com/adcue/adcue/style"
	"github.com/adcue/adcue/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.Flags().BoolP("json", "j", false, "Print as JSON")
	journalCmd.Flags().StringP("remove", "r", "", "Forget a content source")
	journalCmd.SetOut(os.Stdout)
}

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "List resume positions and played ad breaks",
	Run: func(cmd *cobra.Command, args []string) {
		if source := lo.Must(cmd.Flags().GetString("remove")); source != "" {
			handleErr(journal.Remove(source))
			cmd.Printf("%s forgot %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), style.Fg(color.Yellow)(source))
			return
		}

		entries, err := journal.All()
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(entries))
			return
		}

		if len(entries) == 0 {
			cmd.Println(style.Faint("journal is empty"))
			return
		}

		for _, entry := range entries {
			cmd.Printf(
				"%s %s %s %s\n",
				icon.Get(icon.Content),
				style.Bold(util.FormatMs(entry.PositionMs)),
				style.Fg(color.Purple)(entry.Source),
				style.Faint(util.Quantify(len(entry.PlayedBreaksMs), "break played", "breaks played")),
			)
		}
	},
}
