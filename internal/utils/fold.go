package utils

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Fold lower-cases text for case-insensitive comparison.
// A Caser keeps internal state, so a fresh one is built per call.
func Fold(text string) string {
	if text == "" {
		return text
	}
	return cases.Lower(language.Und).String(text)
}
