package speech

import "strconv"

// RatingMin and RatingMax bound the accepted rating domain.
const (
	RatingMin = 1
	RatingMax = 5
)

// confusableRatings maps normalized tokens to ratings. It covers written
// number words, homophones the transcription engine commonly substitutes,
// and ordinal forms. Exact match only; keep entries normalized (lowercase,
// single token).
var confusableRatings = map[string]int{
	"one":    1,
	"first":  1,
	"1st":    1,
	"two":    2,
	"to":     2,
	"too":    2,
	"second": 2,
	"2nd":    2,
	"three":  3,
	"tree":   3,
	"third":  3,
	"3rd":    3,
	"four":   4,
	"for":    4,
	"fourth": 4,
	"forth":  4,
	"4th":    4,
	"five":   5,
	"fifth":  5,
	"5th":    5,
}

// ResolveRating maps a normalized token to a rating in [RatingMin, RatingMax].
// Numeric tokens resolve directly (keypad digits and spoken-digit
// transcriptions); everything else goes through the confusable table.
// The second return is false when the token is not a valid rating.
func ResolveRating(token string) (int, bool) {
	if token == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(token); err == nil {
		if n >= RatingMin && n <= RatingMax {
			return n, true
		}
		return 0, false
	}
	if n, ok := confusableRatings[token]; ok {
		return n, true
	}
	return 0, false
}

// IsValidRating reports whether a normalized token resolves to a rating.
func IsValidRating(token string) bool {
	_, ok := ResolveRating(token)
	return ok
}
