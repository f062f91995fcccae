package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/adcue/adcue/color"
	"github.com/adcue/adcue/icon"
	"github.com/adcue/adcue/orchestrator"
	"github.com/adcue/adcue/scenario"
	"github.com/adcue/adcue/style"
	"github.com/adcue/adcue/util"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wrap"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().BoolP("json", "j", false, "Print the report as JSON")
	simulateCmd.Flags().Bool("fail-fast", false, "Stop at the first step whose expectations fail")
	simulateCmd.Flags().BoolP("calls", "c", false, "Print the port calls of each step instead of its commands")

	simulateCmd.SetOut(os.Stdout)
}

var simulateCmd = &cobra.Command{
	Use:   "simulate <scenario>",
	Short: "Replay a scenario of playback events and check its expectations",
	Long: `Replay a scenario file (TOML, YAML or JSON) through the orchestrator with recording players.
A bare name is looked up in the scenarios directory, see "adcue where --scenarios".`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s, err := scenario.Load(args[0])
		handleErr(err)

		report, err := scenario.Run(s, scenario.Options{
			Config:   orchestrator.OptionsFromConfig(s.Source, s.Request()),
			FailFast: lo.Must(cmd.Flags().GetBool("fail-fast")),
		})
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(report))
		} else {
			printReport(cmd, report, lo.Must(cmd.Flags().GetBool("calls")))
		}

		if !report.Passed() {
			handleErr(errors.New(util.Quantify(len(report.Failures()), "expectation failed", "expectations failed")))
		}
	},
}

func stateColor(state string) func(string) string {
	parsed, _ := orchestrator.ParseState(state)
	switch {
	case parsed == orchestrator.Terminated:
		return style.Fg(color.Terminated)
	case parsed == orchestrator.AdInteractiveActive:
		return style.Fg(color.Interactive)
	case parsed.Mode().IsAd():
		return style.Fg(color.LinearAd)
	default:
		return style.Fg(color.Content)
	}
}

func printReport(cmd *cobra.Command, report scenario.Report, calls bool) {
	width := util.Clamp(util.TerminalWidth(80), 40, 120)

	cmd.Println(style.Title(report.Name))
	cmd.Println(style.Faint("session " + report.SessionID))
	cmd.Println()

	for _, step := range report.Steps {
		status := style.Fg(color.Green)(icon.Get(icon.Success))
		if !step.Passed() {
			status = style.Fg(color.Red)(icon.Get(icon.Fail))
		}

		transition := stateColor(step.To)(step.To)
		if step.From != step.To {
			transition = stateColor(step.From)(step.From) + " -> " + transition
		}
		if step.Dropped {
			transition = style.Faint("dropped")
		}

		cmd.Printf("%s %s %s  %s\n", status, style.Faint(fmt.Sprintf("%2d", step.Index)), style.Bold(step.Event), transition)

		lines := step.Commands
		if calls {
			lines = step.Calls
		}
		if len(lines) > 0 {
			body := wrap.String(strings.Join(lines, "\n"), width-4)
			cmd.Println(style.Faint(indent.String(body, 4)))
		}

		for _, failure := range step.Failures {
			cmd.Println(indent.String(style.Fg(color.Red)(failure), 4))
		}
	}

	cmd.Println()
	cmd.Printf("%s %s\n", style.Bold("final"), stateColor(report.FinalState)(report.FinalState))
	if len(report.Played) > 0 {
		played := lo.Map(report.Played, func(ms int64, _ int) string {
			if ms == math.MaxInt64 {
				return "post-roll"
			}
			return util.FormatMs(ms)
		})
		cmd.Printf("%s %s %s\n", style.Bold("played"), icon.Get(icon.Marker), strings.Join(played, ", "))
	}
	for _, popup := range report.Popups {
		cmd.Printf("%s %s\n", style.Bold("popup"), style.Fg(color.Cyan)(popup))
	}
	for _, err := range report.Errors {
		cmd.Printf("%s %s\n", style.Bold("error"), style.Fg(color.Red)(err))
	}
}

func init() {
	simulateCmd.AddCommand(simulateSchemaCmd)
}

var simulateSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of scenario files",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(scenario.Schema()))
	},
}
