package store

import (
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/slangwatch/internal/model"
)

const maxDefinitionDisplay = 300

// CleanDefinition prepares a stored definition for display. Missing and
// placeholder definitions become model.NoDefinition; long ones are cut to 297
// characters plus "...". Applying it twice gives the same result.
func CleanDefinition(def *string) string {
	if def == nil {
		return model.NoDefinition
	}
	d := strings.TrimSpace(*def)
	if model.IsPlaceholder(d) {
		return model.NoDefinition
	}
	if utf8.RuneCountInString(d) > maxDefinitionDisplay {
		return string([]rune(d)[:maxDefinitionDisplay-3]) + "..."
	}
	return d
}
