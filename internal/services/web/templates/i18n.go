package templates

import (
	"fmt"

	"golang.org/x/text/message"
)

// Localizer provides translated strings for page components.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// T returns a translated string or a key-derived fallback.
func T(loc Localizer, key message.Reference, args ...any) string {
	if loc != nil {
		return loc.Sprintf(key, args...)
	}
	if keyString, ok := key.(string); ok {
		if len(args) > 0 {
			return fmt.Sprintf(keyString, args...)
		}
		return keyString
	}
	return ""
}

// Label translates key, falling back to text when the key is blank or has
// no translation.
func Label(loc Localizer, key, text string) string {
	if key == "" {
		return text
	}
	if got := T(loc, key); got != "" && got != key {
		return got
	}
	return text
}
