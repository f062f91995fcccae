package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/adcue/adcue/color"
	"github.com/adcue/adcue/constant"
	"github.com/adcue/adcue/icon"
	"github.com/adcue/adcue/style"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the media player is installed",
	Run: func(cmd *cobra.Command, args []string) {
		path := checkDependencies()
		fmt.Printf("%s mpv found at %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), path)
	},
}

// checkDependencies exits unless mpv is in PATH, returning its location.
func checkDependencies() string {
	path, err := exec.LookPath("mpv")
	if err != nil {
		printMissingDependency("mpv")
		os.Exit(1)
	}
	return path
}

func installHint() string {
	switch runtime.GOOS {
	case constant.Darwin:
		return "brew install mpv"
	case constant.Linux:
		return "sudo apt install mpv"
	case constant.Windows:
		return "scoop install mpv"
	default:
		return ""
	}
}

func printMissingDependency(dep string) {
	title := style.New().Bold(true).Foreground(color.HiRed).Render(fmt.Sprintf("%s Missing dependency", icon.Get(icon.Fail)))
	body := fmt.Sprintf("%s plays content and ads, but %q was not found in your PATH.", constant.Adcue, dep)

	var suggestion string
	if hint := installHint(); hint != "" {
		suggestion = fmt.Sprintf("\nTo install it, try running:\n  %s", style.New().Foreground(color.Purple).Bold(true).Render(hint))
	}

	fmt.Println(style.Box(color.HiRed)(lipgloss.JoinVertical(lipgloss.Left, title, "", body, suggestion)))
}
