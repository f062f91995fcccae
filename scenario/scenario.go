// Package scenario replays declarative event scripts through the orchestrator
// state machine against recording ports, checking expectations step by step.
//
// A scenario file is TOML, YAML or JSON:
//
//	name = "pre-roll"
//	source = "https://cdn.example.com/content.m3u8"
//	ad_tag = "https://ads.example.com/vmap"
//
//	[[steps]]
//	event = "play"
//
//	[[steps]]
//	event = "ad.LOADED"
//	cue_points_ms = [0, 30000]
//	expect = { state = "CONTENT_PLAYING" }
package scenario

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/adcue/adcue/ads"
	"github.com/adcue/adcue/filesystem"
	"github.com/adcue/adcue/where"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Extensions lists the scenario file formats, in lookup order.
var Extensions = []string{"toml", "yaml", "yml", "json"}

// Scenario is a scripted session.
type Scenario struct {
	Name            string  `mapstructure:"name" json:"name,omitempty" jsonschema:"description=Human readable name of the scenario."`
	Source          string  `mapstructure:"source" json:"source" jsonschema:"description=Content URL loaded by the session."`
	AdTag           string  `mapstructure:"ad_tag" json:"ad_tag,omitempty" jsonschema:"description=Ad tag URL of the session request."`
	AdResponse      string  `mapstructure:"ad_response" json:"ad_response,omitempty" jsonschema:"description=Inline ad response of the session request."`
	Stitched        bool    `mapstructure:"stitched" json:"stitched,omitempty" jsonschema:"description=Ads are stitched into the content stream."`
	NoInteractive   bool    `mapstructure:"no_interactive" json:"no_interactive,omitempty" jsonschema:"description=Run without an interactive renderer."`
	StartPositionMs int64   `mapstructure:"start_position_ms" json:"start_position_ms,omitempty" jsonschema:"description=Content offset playback starts from."`
	PlayedBreaksMs  []int64 `mapstructure:"played_breaks_ms" json:"played_breaks_ms,omitempty" jsonschema:"description=Break offsets already played in an earlier session."`
	Steps           []Step  `mapstructure:"steps" json:"steps" jsonschema:"description=Events applied in order."`
}

// Step is one event applied to the session.
type Step struct {
	Event       string  `mapstructure:"event" json:"event" jsonschema:"description=Event name such as play or seek or ad.STARTED or interactive.AD_FREE_POD or content.ended."`
	PositionMs  *int64  `mapstructure:"position_ms" json:"position_ms,omitempty" jsonschema:"description=Moves the content playhead before the event."`
	DurationMs  *int64  `mapstructure:"duration_ms" json:"duration_ms,omitempty" jsonschema:"description=Changes the content duration before the event."`
	TargetMs    int64   `mapstructure:"target_ms" json:"target_ms,omitempty" jsonschema:"description=Seek target."`
	CuePointsMs []int64 `mapstructure:"cue_points_ms" json:"cue_points_ms,omitempty" jsonschema:"description=Cue points of ad.LOADED and ad.CUEPOINTS_CHANGED."`
	URL         string  `mapstructure:"url" json:"url,omitempty" jsonschema:"description=Advertiser URL of interactive.POPUP_WEBSITE."`
	Error       string  `mapstructure:"error" json:"error,omitempty" jsonschema:"description=Error message of error events."`
	Ad          *AdSpec `mapstructure:"ad" json:"ad,omitempty" jsonschema:"description=Ad carried by per-ad events."`
	Expect      *Expect `mapstructure:"expect" json:"expect,omitempty" jsonschema:"description=Checks made after the event."`
}

// AdSpec describes the ad of an ad event.
type AdSpec struct {
	ID                    string `mapstructure:"id" json:"id,omitempty"`
	System                string `mapstructure:"system" json:"system,omitempty"`
	Description           string `mapstructure:"description" json:"description,omitempty"`
	TraffickingParameters string `mapstructure:"trafficking_parameters" json:"trafficking_parameters,omitempty"`
	DurationMs            int64  `mapstructure:"duration_ms" json:"duration_ms,omitempty"`
	PodIndex              int    `mapstructure:"pod_index" json:"pod_index,omitempty"`
	PodOffsetMs           int64  `mapstructure:"pod_offset_ms" json:"pod_offset_ms,omitempty"`
	BreakDurationMs       int64  `mapstructure:"break_duration_ms" json:"break_duration_ms,omitempty"`
	TotalAds              int    `mapstructure:"total_ads" json:"total_ads,omitempty"`
	Position              int    `mapstructure:"position" json:"position,omitempty"`
}

// Expect is checked after a step.
type Expect struct {
	State  string   `mapstructure:"state" json:"state,omitempty" jsonschema:"description=Expected session state such as CONTENT_PLAYING."`
	Mode   string   `mapstructure:"mode" json:"mode,omitempty" jsonschema:"enum=content,enum=ad-linear,enum=ad-interactive"`
	Calls  []string `mapstructure:"calls" json:"calls,omitempty" jsonschema:"description=Port calls the step must make."`
	Played []int64  `mapstructure:"played" json:"played,omitempty" jsonschema:"description=Break offsets that must be marked played."`
}

// Load reads a scenario file. A bare name is looked up in the scenarios directory.
func Load(path string) (Scenario, error) {
	path, err := resolve(path)
	if err != nil {
		return Scenario{}, err
	}

	v := viper.New()
	v.SetFs(filesystem.API())
	v.SetConfigFile(path)
	if filepath.Ext(path) == "" {
		v.SetConfigType("toml")
	}

	if err := v.ReadInConfig(); err != nil {
		return Scenario{}, fmt.Errorf("read scenario %s: %w", path, err)
	}

	var scenario Scenario
	if err := v.Unmarshal(&scenario); err != nil {
		return Scenario{}, fmt.Errorf("decode scenario %s: %w", path, err)
	}

	if scenario.Name == "" {
		scenario.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	return scenario, scenario.Validate()
}

func resolve(path string) (string, error) {
	if exists, _ := filesystem.API().Exists(path); exists {
		return path, nil
	}

	if filepath.Ext(path) == "" && !strings.ContainsRune(path, filepath.Separator) {
		candidates := lo.Map(Extensions, func(ext string, _ int) string {
			return filepath.Join(where.Scenarios(), path+"."+ext)
		})
		for _, candidate := range candidates {
			if exists, _ := filesystem.API().Exists(candidate); exists {
				return candidate, nil
			}
		}
	}

	return "", fmt.Errorf("scenario %q not found", path)
}

// Request is the ad request of the scripted session.
func (s Scenario) Request() ads.Request {
	return ads.Request{TagURL: s.AdTag, Response: s.AdResponse}
}

// Validate checks the scenario can be replayed.
func (s Scenario) Validate() error {
	if s.Source == "" {
		return fmt.Errorf("scenario %q: source is required", s.Name)
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("scenario %q: no steps", s.Name)
	}

	for i, step := range s.Steps {
		if _, err := step.event(); err != nil {
			return fmt.Errorf("scenario %q: step %d: %w", s.Name, i+1, err)
		}
	}

	return nil
}
