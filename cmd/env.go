package cmd

import (
	"os"
	"strings"

	"github.com/adcue/adcue/color"
	"github.com/adcue/adcue/config"
	"github.com/adcue/adcue/constant"
	"github.com/adcue/adcue/style"
	"github.com/adcue/adcue/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().BoolP("set-only", "s", false, "Only show variables that are set")
	envCmd.Flags().BoolP("unset-only", "u", false, "Only show variables that are unset")

	envCmd.MarkFlagsMutuallyExclusive("set-only", "unset-only")
}

// envName maps a config key to the environment variable overriding it.
func envName(key string) string {
	if key == where.EnvConfigPath {
		return key
	}
	return strings.ToUpper(constant.Adcue + "_" + config.EnvKeyReplacer.Replace(key))
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "List the environment variables adcue reads",
	Run: func(cmd *cobra.Command, args []string) {
		setOnly := lo.Must(cmd.Flags().GetBool("set-only"))
		unsetOnly := lo.Must(cmd.Flags().GetBool("unset-only"))

		names := lo.Map(append(slices.Clone(config.EnvExposed), where.EnvConfigPath), func(key string, _ int) string {
			return envName(key)
		})
		slices.Sort(names)

		for _, env := range names {
			value, present := os.LookupEnv(env)

			if (setOnly && !present) || (unsetOnly && present) {
				continue
			}

			cmd.Print(style.New().Bold(true).Foreground(color.Purple).Render(env))
			cmd.Print("=")

			if present {
				cmd.Println(style.Fg(color.Green)(value))
			} else {
				cmd.Println(style.Fg(color.Red)("unset"))
			}
		}
	},
}
