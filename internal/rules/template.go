package rules

import (
	"regexp"

	"github.com/franz/metadata-customizer/internal/song"
)

var placeholderRe = regexp.MustCompile(`\{([^}]+)\}`)

// Render substitutes each {FieldName} placeholder in the template with the
// subject's current value for that field. Unknown fields render as empty
// strings; whole-number values render without a trailing ".0".
func Render(template string, fields song.Fields) string {
	return placeholderRe.ReplaceAllStringFunc(template, func(m string) string {
		key := m[1 : len(m)-1]
		if fields == nil {
			return ""
		}
		return song.FormatValue(fields[key])
	})
}
