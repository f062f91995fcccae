// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Adcue is the canonical application identifier used for filesystem paths and CLI branding.
	Adcue = "adcue"

	// Version is the current application semantic version string.
	Version = "0.1.0"

	// UserAgent is sent with remote schedule requests.
	UserAgent = "adcue/" + Version
)

// Build metadata, overridden at link time with -ldflags "-X".
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
