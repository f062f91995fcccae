// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/adcue/adcue/color"
	"github.com/adcue/adcue/constant"
	"github.com/adcue/adcue/key"
	"github.com/adcue/adcue/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.Adcue + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON customizes JSON output to include current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

// typeName returns the string representation of the field's underlying value type.
func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	case []int:
		return "[]int"
	default:
		return "unknown"
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		Default[k] = Field{Key: k, Value: v, Description: desc}
		EnvExposed = append(EnvExposed, k)
	}

	register(key.AdsInteractiveMarker, constant.InteractiveMarker, "Ad system (or ad ID prefix) that tags an ad as an interactive placeholder")
	register(key.AdsLocatorParam, constant.LocatorParam, "Trafficking parameter holding the interactive ad locator")
	register(key.AdsStitched, false, "Treat streams as server-stitched (dynamic ad insertion).\nEnables seek snapback over unplayed ad breaks")
	register(key.AdsLanguage, "en", "Language passed to the ad decisioning subsystem")
	register(key.AdsDebug, false, "Enable debug mode of the ad decisioning subsystem")
	register(key.InteractiveWebDebugging, true, "Allow remote debugging of interactive ad web views")
	register(key.InteractivePrompt, true, "Render interactive ads as terminal prompts.\nWhen disabled interactive ads report no ads available and fall back to linear ads")
	register(key.Player, "mpv", "Media player to use for content playback")
	register(key.PlayerPlaceholderMarginMs, constant.PlaceholderMarginMs, "Milliseconds subtracted when seeking past an interactive placeholder ad")
	register(key.PlayerSeekToEndMarginMs, constant.SeekToEndMarginMs, "Milliseconds left before the end of ad media when skipping to its end")
	register(key.PlayerSkipPaddingMs, constant.SkipPaddingMs, "Milliseconds added past the end of a skipped stitched ad break")
	register(key.OrchestratorQueueSize, 64, "Capacity of the orchestrator event queue")
	register(key.JournalEnable, true, "Remember resume positions and played ad breaks per content source")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, plain, nerd (nerd-font required)")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"cyan":     style.Fg(color.Cyan),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
