package placeholder

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	FormatUppercase  = "uppercase"
	FormatLowercase  = "lowercase"
	FormatCapitalize = "capitalize"
)

// applyFormat applies a format modifier. Unknown or empty modifiers return
// value unchanged. Casers are not safe for concurrent use, so one is built
// per call.
func applyFormat(value, format string) string {
	switch format {
	case FormatUppercase:
		return cases.Upper(language.Und).String(value)
	case FormatLowercase:
		return cases.Lower(language.Und).String(value)
	case FormatCapitalize:
		return cases.Title(language.Und, cases.NoLower).String(value)
	default:
		return value
	}
}
