// Package speech reduces raw transcription and keypad input to canonical
// tokens and resolves them against the 1-5 rating domain.
//
// Normalize collapses whatever the speech-to-text engine produced into a
// single lowercase alphanumeric token. ResolveRating maps that token to an
// integer rating, tolerating the transcription confusions observed in real
// calls ("to" for two, "tree" for three, ordinal forms, trailing periods).
// The confusable table is a closed, exact-match map: extend it by adding
// entries, never by fuzzy matching.
//
// Everything in this package is pure; the dialog state machine depends on it
// but it depends on nothing.
package speech
