package adsim

import (
	"bytes"
	"context"
	"fmt"
	neturl "net/url"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/adcue/adcue/ads"
	"github.com/adcue/adcue/filesystem"
	"github.com/adcue/adcue/network"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

const fetchTimeout = 15 * time.Second

// ScheduledAd is one ad of a scheduled break.
type ScheduledAd struct {
	ID                    string `mapstructure:"id"`
	System                string `mapstructure:"system"`
	Title                 string `mapstructure:"title"`
	Description           string `mapstructure:"description"`
	TraffickingParameters string `mapstructure:"trafficking_parameters"`
	DurationMs            int64  `mapstructure:"duration_ms"`
	MediaURL              string `mapstructure:"media_url"`
}

// ScheduledBreak is an ad break at a content offset. A negative offset is a post-roll.
type ScheduledBreak struct {
	OffsetMs int64         `mapstructure:"offset_ms"`
	Ads      []ScheduledAd `mapstructure:"ads"`
}

// PostRoll reports whether the break plays after content ended.
func (b ScheduledBreak) PostRoll() bool {
	return b.OffsetMs < 0
}

// Schedule is the ad plan served for a request.
type Schedule struct {
	Breaks []ScheduledBreak `mapstructure:"breaks"`
}

// LoadSchedule reads a schedule file, or fetches it when path is an http(s) URL.
// The format follows the extension, TOML by default.
func LoadSchedule(location string) (Schedule, error) {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return fetchSchedule(location)
	}

	location = strings.TrimPrefix(location, "file://")

	v := viper.New()
	v.SetFs(filesystem.API())
	v.SetConfigFile(location)
	if filepath.Ext(location) == "" {
		v.SetConfigType("toml")
	}

	if err := v.ReadInConfig(); err != nil {
		return Schedule{}, fmt.Errorf("read schedule %s: %w", location, err)
	}

	return decode(v)
}

func fetchSchedule(url string) (Schedule, error) {
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	body, contentType, err := network.Get(ctx, url)
	if err != nil {
		return Schedule{}, fmt.Errorf("fetch schedule: %w", err)
	}

	v := viper.New()
	v.SetConfigType(formatOf(url, contentType))
	if err := v.ReadConfig(bytes.NewReader(body)); err != nil {
		return Schedule{}, fmt.Errorf("parse schedule %s: %w", url, err)
	}

	return decode(v)
}

// formatOf picks the viper config type of a fetched schedule.
func formatOf(url, contentType string) string {
	if u, err := neturl.Parse(url); err == nil {
		switch ext := strings.TrimPrefix(path.Ext(u.Path), "."); ext {
		case "toml", "yaml", "yml", "json":
			return ext
		}
	}

	switch {
	case strings.Contains(contentType, "json"):
		return "json"
	case strings.Contains(contentType, "yaml"):
		return "yaml"
	default:
		return "toml"
	}
}

// ParseSchedule reads an inline TOML schedule.
func ParseSchedule(text string) (Schedule, error) {
	v := viper.New()
	v.SetConfigType("toml")

	if err := v.ReadConfig(strings.NewReader(text)); err != nil {
		return Schedule{}, fmt.Errorf("parse schedule: %w", err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (Schedule, error) {
	var schedule Schedule
	if err := v.Unmarshal(&schedule); err != nil {
		return Schedule{}, fmt.Errorf("decode schedule: %w", err)
	}

	schedule.Breaks = lo.Filter(schedule.Breaks, func(b ScheduledBreak, _ int) bool {
		return len(b.Ads) > 0
	})

	for _, b := range schedule.Breaks {
		for _, ad := range b.Ads {
			if ad.DurationMs <= 0 {
				return Schedule{}, fmt.Errorf("ad %q at %d: duration must be positive", ad.ID, b.OffsetMs)
			}
		}
	}

	// post-rolls sort last
	sort.SliceStable(schedule.Breaks, func(i, j int) bool {
		return cuePoint(schedule.Breaks[i]) < cuePoint(schedule.Breaks[j])
	})

	return schedule, nil
}

func cuePoint(b ScheduledBreak) int64 {
	if b.PostRoll() {
		return ads.PostRollOffsetMs
	}
	return b.OffsetMs
}

// CuePointsMs returns the break offsets as reported to the orchestrator.
func (s Schedule) CuePointsMs() []int64 {
	return lo.Map(s.Breaks, func(b ScheduledBreak, _ int) int64 {
		return cuePoint(b)
	})
}

// ad builds the descriptor of the adIndex-th ad of the breakIndex-th break.
func (s Schedule) ad(breakIndex, adIndex int) *ads.Ad {
	b := s.Breaks[breakIndex]
	scheduled := b.Ads[adIndex]

	total := lo.SumBy(b.Ads, func(a ScheduledAd) int64 {
		return a.DurationMs
	})

	id := scheduled.ID
	if id == "" {
		id = fmt.Sprintf("ad-%d-%d", breakIndex, adIndex)
	}

	return &ads.Ad{
		ID:                    id,
		System:                scheduled.System,
		Title:                 scheduled.Title,
		Description:           scheduled.Description,
		TraffickingParameters: scheduled.TraffickingParameters,
		DurationMs:            scheduled.DurationMs,
		MediaURL:              scheduled.MediaURL,
		Pod: ads.PodInfo{
			Index:           breakIndex,
			TimeOffsetMs:    cuePoint(b),
			TotalAds:        len(b.Ads),
			AdPosition:      adIndex + 1,
			BreakDurationMs: total,
		},
	}
}
