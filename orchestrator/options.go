package orchestrator

import (
	"github.com/adcue/adcue/ads"
	"github.com/adcue/adcue/constant"
	"github.com/adcue/adcue/interactive"
	"github.com/adcue/adcue/key"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"
)

// Options is the immutable configuration of a session, captured once at construction.
type Options struct {
	Source  string
	Request ads.Request

	Language string
	Debug    bool
	Stitched bool

	PlaceholderMarginMs int64
	SeekToEndMarginMs   int64
	SkipPaddingMs       int64

	QueueSize  int
	Classifier ads.Classifier

	Interactive interactive.Options
	HostView    interactive.View

	// PlayedBreaksMs and StartPositionMs resume a previously watched session.
	PlayedBreaksMs  []int64
	StartPositionMs int64

	Registerer prometheus.Registerer
}

// OptionsFromConfig reads the session options from the configuration.
func OptionsFromConfig(source string, request ads.Request) Options {
	return Options{
		Source:              source,
		Request:             request,
		Language:            viper.GetString(key.AdsLanguage),
		Debug:               viper.GetBool(key.AdsDebug),
		Stitched:            viper.GetBool(key.AdsStitched),
		PlaceholderMarginMs: viper.GetInt64(key.PlayerPlaceholderMarginMs),
		SeekToEndMarginMs:   viper.GetInt64(key.PlayerSeekToEndMarginMs),
		SkipPaddingMs:       viper.GetInt64(key.PlayerSkipPaddingMs),
		QueueSize:           viper.GetInt(key.OrchestratorQueueSize),
		Classifier: ads.Classifier{
			Marker:       viper.GetString(key.AdsInteractiveMarker),
			LocatorParam: viper.GetString(key.AdsLocatorParam),
		},
		Interactive: interactive.Options{
			WebDebugging: viper.GetBool(key.InteractiveWebDebugging),
			UserAgent:    constant.UserAgent,
		},
	}
}

// Config derives the transition configuration, falling back to defaults for unset values.
func (o Options) Config() Config {
	config := DefaultConfig()
	config.Stitched = o.Stitched

	if o.PlaceholderMarginMs > 0 {
		config.PlaceholderMarginMs = o.PlaceholderMarginMs
	}
	if o.SeekToEndMarginMs > 0 {
		config.SeekToEndMarginMs = o.SeekToEndMarginMs
	}
	if o.SkipPaddingMs > 0 {
		config.SkipPaddingMs = o.SkipPaddingMs
	}
	if o.Classifier.Marker != "" {
		config.Classifier = o.Classifier
		if config.Classifier.LocatorParam == "" {
			config.Classifier.LocatorParam = constant.LocatorParam
		}
	}

	return config
}

func (o Options) queueSize() int {
	if o.QueueSize > 0 {
		return o.QueueSize
	}
	return 64
}
