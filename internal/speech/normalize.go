package speech

import "strings"

// Normalize canonicalizes raw speech or keypad input into a comparable token.
// It trims whitespace, lowercases, drops trailing periods, strips any
// character outside [a-z0-9 ], and keeps only the first whitespace-delimited
// word. Transcription engines occasionally append stray words after the
// answer; keeping the first token defends against that.
//
// Empty or missing input normalizes to "". Normalize is idempotent.
func Normalize(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return ""
	}
	value = strings.TrimRight(value, ".")

	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune(r)
		}
	}

	cleaned := strings.TrimSpace(b.String())
	if cleaned == "" {
		return ""
	}
	token, _, _ := strings.Cut(cleaned, " ")
	return token
}
