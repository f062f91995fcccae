// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// DefinedFieldsCount represents the total cardinality of the application configuration schema.
const DefinedFieldsCount = 18

// Ad Decisioning - these keys govern how ad requests are issued and ads are classified.
const (
	AdsInteractiveMarker = "ads.interactive_marker"
	AdsLocatorParam      = "ads.locator_param"
	AdsStitched          = "ads.stitched"
	AdsLanguage          = "ads.language"
	AdsDebug             = "ads.debug"
)

// Interactive Ads - these keys configure the interactive engagement renderer.
const (
	InteractiveWebDebugging = "interactive.web_debugging"
	InteractivePrompt       = "interactive.prompt"
)

// Media Playback - these keys maintain the configuration of the content player and its safety margins.
const (
	Player                    = "player.default"
	PlayerPlaceholderMarginMs = "player.placeholder_margin_ms"
	PlayerSeekToEndMarginMs   = "player.seek_to_end_margin_ms"
	PlayerSkipPaddingMs       = "player.skip_padding_ms"
)

// Orchestration - these keys tune the event loop.
const (
	OrchestratorQueueSize = "orchestrator.queue_size"
)

// Journal - these keys configure persistence of resume positions and played ad breaks.
const (
	JournalEnable = "journal.enable"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-interactive application behavior.
const (
	CliColored = "cli.colored"
)
