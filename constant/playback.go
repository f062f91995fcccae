package constant

// Playback safety margins, in milliseconds.
const (
	// PlaceholderMarginMs is subtracted when seeking past an interactive placeholder so the
	// player does not land on a frozen last frame.
	PlaceholderMarginMs = 100

	// SeekToEndMarginMs leaves a little ad media to play so the ad subsystem observes completion.
	SeekToEndMarginMs = 500

	// SkipPaddingMs is added when skipping a stitched ad break to clear its last frame.
	SkipPaddingMs = 2000
)

// Interactive placeholder identification defaults.
const (
	InteractiveMarker = "trueX"
	LocatorParam      = "vast_config_url"
)
