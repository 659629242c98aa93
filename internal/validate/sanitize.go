package validate

import (
	"strings"
	"unicode"
)

// unsafeFilenameChars are replaced with '_' by SafeFilename.
const unsafeFilenameChars = `/\:*?"<>| `

// maxFilenameLen is the longest name SafeFilename returns, in bytes.
const maxFilenameLen = 200

// StripControlChars removes all control characters except newline and tab.
func StripControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, s)
}

// SafeFilename turns s into a single path element for report files.
// Control characters are dropped, separators and characters that shells or
// Windows reject become '_', and surrounding dots and spaces are trimmed.
func SafeFilename(s string) string {
	s = strings.Trim(StripControlChars(s), " .")
	s = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsControl(r):
			return -1
		case strings.ContainsRune(unsafeFilenameChars, r):
			return '_'
		}
		return r
	}, s)

	if len(s) > maxFilenameLen {
		s = s[:maxFilenameLen]
	}
	return s
}
