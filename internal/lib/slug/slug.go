// Package slug builds URL-friendly identifiers from tag and post names.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// nonAlphanumeric matches anything outside the slug alphabet.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// separators collapses runs of whitespace and hyphens into one.
	separators = regexp.MustCompile(`[\s-]+`)

	// Letters that carry no Unicode decomposition, so stripping marks
	// alone would turn them into separators.
	transliterate = strings.NewReplacer(
		"ł", "l",
		"ø", "o",
		"đ", "d",
		"ð", "d",
		"ħ", "h",
		"ı", "i",
		"ß", "ss",
		"æ", "ae",
		"œ", "oe",
		"þ", "th",
	)
)

// Generate creates a slug from the given name.
// Example: "  Żółć!! " → "zolc", "Letnia Rosa" → "letnia-rosa".
func Generate(name string) string {
	result := strings.ToLower(name)
	result = transliterate.Replace(result)
	result = stripMarks(result)
	result = nonAlphanumeric.ReplaceAllString(result, "-")
	result = separators.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

func stripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
