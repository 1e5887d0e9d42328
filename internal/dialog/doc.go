// Package dialog defines the survey conversation as data: the ordered stage
// set, the prompt and gather parameters for each question, and the pure
// Advance transition function.
//
// Advance never performs I/O. It returns an Outcome describing what the
// telephony provider should do next (speak, gather input toward a callback
// stage, redirect, hang up) together with any answer to record and whether
// the session finalizes. The daemon applies those effects; the telephony
// package encodes them into provider markup. Invalid or missing input never
// ends the call — it re-enters the question's ask stage, optionally bounded
// by a retry cap that abandons the call instead of looping forever.
package dialog
