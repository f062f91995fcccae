package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/adcue/adcue/color"
	"github.com/adcue/adcue/config"
	"github.com/adcue/adcue/filesystem"
	"github.com/adcue/adcue/icon"
	"github.com/adcue/adcue/style"
	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func errUnknownKey(key string) error {
	closest := lo.MinBy(lo.Keys(config.Default), func(a, b string) bool {
		return levenshtein.Distance(key, a) < levenshtein.Distance(key, b)
	})

	return fmt.Errorf(
		"%w %s, did you mean %s?",
		config.ErrUnknownKey,
		style.Fg(color.Red)(key),
		style.Fg(color.Yellow)(closest),
	)
}

// field resolves a key given as the first argument or through --key.
func field(cmd *cobra.Command, args []string) (config.Field, error) {
	name := lo.Must(cmd.Flags().GetString("key"))
	if len(args) > 0 {
		name = args[0]
	}

	if name == "" {
		return config.Field{}, errors.New("a key is required, as an argument or with --key")
	}

	f, ok := config.Default[name]
	if !ok {
		return config.Field{}, errUnknownKey(name)
	}
	return f, nil
}

// parseValue converts raw command line values to the type of the field default.
func parseValue(field config.Field, value []string) (any, error) {
	switch field.Value.(type) {
	case string:
		return value[0], nil
	case int:
		parsed, err := strconv.Atoi(value[0])
		if err != nil {
			return nil, fmt.Errorf("%s expects an integer, got %q", field.Key, value[0])
		}
		if parsed < 0 {
			return nil, fmt.Errorf("%s must not be negative", field.Key)
		}
		return parsed, nil
	case bool:
		parsed, err := strconv.ParseBool(value[0])
		if err != nil {
			return nil, fmt.Errorf("%s expects a boolean, got %q", field.Key, value[0])
		}
		return parsed, nil
	case []string:
		return value, nil
	default:
		return nil, fmt.Errorf("%s cannot be set from the command line", field.Key)
	}
}

func completionConfigKeys(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	keys := lo.Keys(config.Default)
	sort.Strings(keys)
	return keys, cobra.ShellCompDirectiveNoFileComp
}

func printDone(format string, args ...any) {
	fmt.Printf("%s %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), fmt.Sprintf(format, args...))
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInfoCmd, configGetCmd, configSetCmd, configResetCmd, configWriteCmd)

	configInfoCmd.Flags().StringSliceP("key", "k", nil, "Keys to show")
	configInfoCmd.Flags().BoolP("json", "j", false, "Print as JSON")
	configInfoCmd.SetOut(os.Stdout)

	configGetCmd.Flags().StringP("key", "k", "", "Key to print")
	configGetCmd.SetOut(os.Stdout)

	configSetCmd.Flags().StringP("key", "k", "", "Key to set")
	configSetCmd.Flags().StringSliceP("value", "v", nil, "Value to set")

	configResetCmd.Flags().StringP("key", "k", "", "Key to reset")
	configResetCmd.Flags().BoolP("all", "a", false, "Reset every key")
	configResetCmd.MarkFlagsMutuallyExclusive("key", "all")

	configWriteCmd.Flags().BoolP("force", "f", false, "Replace an existing config file")

	for _, c := range []*cobra.Command{configInfoCmd, configGetCmd, configSetCmd, configResetCmd} {
		_ = c.RegisterFlagCompletionFunc("key", completionConfigKeys)
	}
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  "Settings are read from adcue.toml in the config directory (see adcue where) and ADCUE_ environment variables.",
}

var configInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Describe configuration keys with their current values",
	Run: func(cmd *cobra.Command, args []string) {
		fields := lo.Values(config.Default)

		if keys := lo.Must(cmd.Flags().GetStringSlice("key")); len(keys) > 0 {
			fields = lo.Map(keys, func(name string, _ int) config.Field {
				f, ok := config.Default[name]
				if !ok {
					handleErr(errUnknownKey(name))
				}
				return f
			})
		}

		sort.Slice(fields, func(i, j int) bool {
			return fields[i].Key < fields[j].Key
		})

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(fields))
			return
		}

		for i := range fields {
			if i > 0 {
				cmd.Println()
			}
			cmd.Println(fields[i].Pretty())
		}
	},
}

var configGetCmd = &cobra.Command{
	Use:               "get [key]",
	Short:             "Print a configuration value",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		f, err := field(cmd, args)
		handleErr(err)
		cmd.Println(viper.Get(f.Key))
	},
}

var configSetCmd = &cobra.Command{
	Use:               "set [key] [value...]",
	Short:             "Set a configuration value",
	Example:           "  adcue config set ads.stitched true\n  adcue config set --key player.skip_padding_ms --value 1500",
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		f, err := field(cmd, args)
		handleErr(err)

		value := lo.Must(cmd.Flags().GetStringSlice("value"))
		if len(args) > 1 {
			value = args[1:]
		}
		if len(value) == 0 {
			handleErr(fmt.Errorf("a value for %s is required, as an argument or with --value", f.Key))
		}

		v, err := parseValue(f, value)
		handleErr(err)

		viper.Set(f.Key, v)
		handleErr(config.Save())
		printDone("%s = %s", style.Fg(color.Purple)(f.Key), style.Fg(color.Yellow)(fmt.Sprint(v)))
	},
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore defaults for one key or all of them",
	PreRun: func(cmd *cobra.Command, args []string) {
		if !cmd.Flags().Changed("key") && !cmd.Flags().Changed("all") {
			handleErr(errors.New("either --key or --all must be set"))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("all")) {
			handleErr(config.Reset())
			handleErr(config.Save())
			printDone("every key restored to its default")
			return
		}

		f, err := field(cmd, nil)
		handleErr(err)
		handleErr(config.Reset(f.Key))
		handleErr(config.Save())
		printDone("%s = %s", style.Fg(color.Purple)(f.Key), style.Fg(color.Yellow)(fmt.Sprint(f.Value)))
	},
}

var configWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Write the effective configuration to the config file",
	Run: func(cmd *cobra.Command, args []string) {
		exists, err := filesystem.API().Exists(config.File())
		handleErr(err)

		if exists && !lo.Must(cmd.Flags().GetBool("force")) {
			handleErr(fmt.Errorf("%s already exists, use --force to replace it", config.File()))
		}

		handleErr(config.Save())
		printDone("wrote %s", config.File())
	},
}
