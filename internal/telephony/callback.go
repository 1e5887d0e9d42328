package telephony

import (
	"net/http"
	"strings"

	"canvass/internal/services"
)

// Callback is the payload the provider posts on each stage transition.
// SpeechResult carries the transcription when the caller spoke; Digits
// carries keypad input. They are mutually exclusive in practice.
type Callback struct {
	CallSID      string
	From         string
	To           string
	SpeechResult string
	Digits       string
}

// ParseCallback decodes a provider stage callback from its form body.
func ParseCallback(r *http.Request) (Callback, error) {
	if err := r.ParseForm(); err != nil {
		return Callback{}, services.Wrap(services.ErrValidation, "telephony", "parse callback", "malformed form body", err)
	}
	cb := Callback{
		CallSID:      strings.TrimSpace(r.PostFormValue("CallSid")),
		From:         strings.TrimSpace(r.PostFormValue("From")),
		To:           strings.TrimSpace(r.PostFormValue("To")),
		SpeechResult: r.PostFormValue("SpeechResult"),
		Digits:       strings.TrimSpace(r.PostFormValue("Digits")),
	}
	if cb.CallSID == "" {
		return Callback{}, services.Wrap(services.ErrValidation, "telephony", "parse callback", "missing CallSid", nil)
	}
	return cb, nil
}

// Input returns the caller's answer, preferring transcribed speech over
// keypad digits when both are present.
func (c Callback) Input() string {
	if strings.TrimSpace(c.SpeechResult) != "" {
		return c.SpeechResult
	}
	return c.Digits
}
