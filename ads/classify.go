package ads

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/adcue/adcue/constant"
)

// Kind is the typed classification of a started ad: Linear or InteractivePlaceholder.
type Kind interface {
	isKind()
}

// Linear is a standard video ad played through the ordinary media pipeline.
type Linear struct{}

// InteractivePlaceholder is an ad slot carrying a pointer to an interactive engagement.
type InteractivePlaceholder struct {
	Locator string
}

func (Linear) isKind()                 {}
func (InteractivePlaceholder) isKind() {}

var urlPattern = regexp.MustCompile(`https?://[^\s"'<>]+`)

// Classifier recognises interactive placeholders by their system or ID marker.
type Classifier struct {
	Marker       string
	LocatorParam string
}

// DefaultClassifier uses the stock marker and locator parameter.
func DefaultClassifier() Classifier {
	return Classifier{
		Marker:       constant.InteractiveMarker,
		LocatorParam: constant.LocatorParam,
	}
}

// Marked reports whether the ad is tagged as an interactive placeholder.
func (c Classifier) Marked(ad *Ad) bool {
	if ad == nil || c.Marker == "" {
		return false
	}
	return strings.Contains(ad.System, c.Marker) || strings.HasPrefix(ad.ID, c.Marker)
}

// Locate extracts the engagement locator from the trafficking parameters,
// falling back to the first URL in the description.
func (c Classifier) Locate(ad *Ad) (string, error) {
	if ad == nil {
		return "", ErrNoLocator
	}

	if params := strings.TrimSpace(ad.TraffickingParameters); params != "" && c.LocatorParam != "" {
		var decoded map[string]any
		if err := json.Unmarshal([]byte(params), &decoded); err == nil {
			if locator, ok := decoded[c.LocatorParam].(string); ok && strings.TrimSpace(locator) != "" {
				return strings.TrimSpace(locator), nil
			}
		}
	}

	if locator := urlPattern.FindString(ad.Description); locator != "" {
		return locator, nil
	}

	return "", ErrNoLocator
}

// Classify returns InteractivePlaceholder for marked ads that carry a locator, Linear otherwise.
func (c Classifier) Classify(ad *Ad) Kind {
	if !c.Marked(ad) {
		return Linear{}
	}

	locator, err := c.Locate(ad)
	if err != nil {
		return Linear{}
	}

	return InteractivePlaceholder{Locator: locator}
}
