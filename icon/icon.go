// Package icon renders the symbols printed by the CLI.
//
// Icons can be displayed as emoji, nerd-font glyphs, or plain ASCII
// depending on user preference.
package icon

import (
	"github.com/adcue/adcue/key"
	"github.com/spf13/viper"
)

const (
	emoji = "emoji"
	nerd  = "nerd"
	plain = "plain"
)

// AvailableVariants returns every supported icon variant.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain}
}

// Icon identifies a symbol.
type Icon int

const (
	Success Icon = iota
	Fail
	Progress
	Content
	Ad
	Interactive
	Marker
)

type iconDef struct {
	emoji string
	nerd  string
	plain string
}

var icons = map[Icon]*iconDef{
	Success:     {emoji: "✅", nerd: "", plain: "✓"},
	Fail:        {emoji: "❌", nerd: "", plain: "X"},
	Progress:    {emoji: "⏳", nerd: "", plain: "..."},
	Content:     {emoji: "🎬", nerd: "", plain: ">"},
	Ad:          {emoji: "📺", nerd: "", plain: "$"},
	Interactive: {emoji: "🕹️", nerd: "", plain: "*"},
	Marker:      {emoji: "🔖", nerd: "", plain: "|"},
}

func (d *iconDef) get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	default:
		return ""
	}
}

// Get renders the icon in the configured variant. Unknown variants render nothing.
func Get(i Icon) string {
	def, ok := icons[i]
	if !ok {
		return ""
	}
	return def.get()
}
