package telephony

import (
	"encoding/xml"
	"fmt"

	"canvass/internal/dialog"
)

// MarkupContentType is the content type of rendered voice responses.
const MarkupContentType = "text/xml"

type voiceResponse struct {
	XMLName xml.Name `xml:"Response"`
	Verbs   []any
}

type sayVerb struct {
	XMLName xml.Name `xml:"Say"`
	Text    string   `xml:",chardata"`
}

type gatherVerb struct {
	XMLName       xml.Name `xml:"Gather"`
	Input         string   `xml:"input,attr"`
	Action        string   `xml:"action,attr"`
	Method        string   `xml:"method,attr"`
	Timeout       int      `xml:"timeout,attr,omitempty"`
	SpeechTimeout string   `xml:"speechTimeout,attr,omitempty"`
	Language      string   `xml:"language,attr,omitempty"`
	Hints         string   `xml:"hints,attr,omitempty"`
	SpeechModel   string   `xml:"speechModel,attr,omitempty"`
	Say           *sayVerb
}

type redirectVerb struct {
	XMLName xml.Name `xml:"Redirect"`
	Method  string   `xml:"method,attr"`
	URL     string   `xml:",chardata"`
}

type hangupVerb struct {
	XMLName xml.Name `xml:"Hangup"`
}

// RenderOutcome encodes a dialogue outcome as provider voice-response XML.
// Verb order matters to the provider: spoken lines first, then the gather
// (with its no-input fallback) or redirect, then hangup.
func RenderOutcome(outcome dialog.Outcome) ([]byte, error) {
	var resp voiceResponse

	for _, line := range outcome.Say {
		resp.Verbs = append(resp.Verbs, sayVerb{Text: line})
	}

	if g := outcome.Gather; g != nil {
		resp.Verbs = append(resp.Verbs, gatherVerb{
			Input:         string(g.Mode),
			Action:        g.Action.CallbackPath(),
			Method:        "POST",
			Timeout:       g.TimeoutSeconds,
			SpeechTimeout: g.SpeechTimeout,
			Language:      g.Language,
			Hints:         g.Hints,
			SpeechModel:   g.SpeechModel,
			Say:           &sayVerb{Text: g.Prompt},
		})
		if outcome.NoInputSay != "" {
			resp.Verbs = append(resp.Verbs, sayVerb{Text: outcome.NoInputSay})
		}
		if outcome.NoInputRedirect != "" {
			resp.Verbs = append(resp.Verbs, redirectVerb{Method: "POST", URL: outcome.NoInputRedirect.CallbackPath()})
		}
	} else if outcome.Redirect != "" {
		resp.Verbs = append(resp.Verbs, redirectVerb{Method: "POST", URL: outcome.Redirect.CallbackPath()})
	}

	if outcome.Hangup {
		resp.Verbs = append(resp.Verbs, hangupVerb{})
	}

	body, err := xml.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("marshal voice response: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}
