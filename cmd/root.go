// Package cmd implements the command-line interface for adcue.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/adcue/adcue/color"
	"github.com/adcue/adcue/constant"
	"github.com/adcue/adcue/icon"
	"github.com/adcue/adcue/key"
	"github.com/adcue/adcue/log"
	"github.com/adcue/adcue/style"
	"github.com/adcue/adcue/util"
	"github.com/adcue/adcue/where"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Icon variant (emoji, nerd, plain)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().Bool("journal", true, "Remember resume positions and played ad breaks")
	lo.Must0(viper.BindPFlag(key.JournalEnable, rootCmd.PersistentFlags().Lookup("journal")))

	rootCmd.PersistentFlags().Bool("stitched", false, "Treat content as a stream with ads stitched in")
	lo.Must0(viper.BindPFlag(key.AdsStitched, rootCmd.PersistentFlags().Lookup("stitched")))

	// leftover player sockets of crashed sessions
	go func() {
		_ = util.Delete(where.Temp())
	}()
}

var rootCmd = &cobra.Command{
	Use:   constant.Adcue,
	Short: "Play content with ad breaks, linear and interactive",
	Long: style.Bold(constant.Adcue) + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - play content with ad breaks, linear and interactive"),
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("version")) {
			versionCmd.Run(versionCmd, args)
			return
		}

		handleErr(cmd.Help())
	},
}

// Execute runs the root command.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
