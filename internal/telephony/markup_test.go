package telephony

import (
	"strings"
	"testing"

	"canvass/internal/dialog"
)

func TestRenderOutcomeGather(t *testing.T) {
	machine := dialog.NewMachine(dialog.Options{})
	outcome := machine.Advance(dialog.StageAskProductRating, "", 0)

	body, err := RenderOutcome(outcome)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	markup := string(body)

	if !strings.HasPrefix(markup, "<?xml") {
		t.Fatalf("missing XML header: %s", markup)
	}
	for _, want := range []string{
		"<Response>",
		`<Gather input="speech dtmf"`,
		`action="/product-rating"`,
		`method="POST"`,
		`timeout="8"`,
		`speechTimeout="auto"`,
		`language="en-US"`,
		`hints="one, two, three, four, five"`,
		`speechModel="numbers_and_commands"`,
		"</Gather>",
		"<Redirect method=\"POST\">/ask-product-rating</Redirect>",
		"</Response>",
	} {
		if !strings.Contains(markup, want) {
			t.Fatalf("markup missing %s:\n%s", want, markup)
		}
	}

	// The no-input fallback must come after the gather.
	gatherEnd := strings.Index(markup, "</Gather>")
	redirect := strings.Index(markup, "<Redirect")
	if redirect < gatherEnd {
		t.Fatalf("redirect before gather close:\n%s", markup)
	}
}

func TestRenderOutcomeRedirect(t *testing.T) {
	machine := dialog.NewMachine(dialog.Options{})
	outcome := machine.Advance(dialog.StageAwaitContinue, "continue", 0)

	body, err := RenderOutcome(outcome)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	markup := string(body)
	if !strings.Contains(markup, ">/ask-product-rating</Redirect>") {
		t.Fatalf("expected redirect to ask-product-rating:\n%s", markup)
	}
	if strings.Contains(markup, "<Gather") {
		t.Fatalf("redirect outcome should not gather:\n%s", markup)
	}
}

func TestRenderOutcomeFinal(t *testing.T) {
	machine := dialog.NewMachine(dialog.Options{})
	outcome := machine.Advance(dialog.StageAwaitFinalReview, "all good", 0)

	body, err := RenderOutcome(outcome)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	markup := string(body)
	if !strings.Contains(markup, "<Say>"+dialog.DefaultPrompts().ThankYou+"</Say>") {
		t.Fatalf("missing thank-you line:\n%s", markup)
	}
	if !strings.Contains(markup, "<Hangup></Hangup>") {
		t.Fatalf("missing hangup:\n%s", markup)
	}
	sayIdx := strings.Index(markup, "<Say>")
	hangupIdx := strings.Index(markup, "<Hangup>")
	if hangupIdx < sayIdx {
		t.Fatalf("hangup before say:\n%s", markup)
	}
}

func TestRenderOutcomeEscapesText(t *testing.T) {
	body, err := RenderOutcome(dialog.Outcome{Say: []string{`Thanks & <goodbye>`}, Hangup: true})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	markup := string(body)
	if !strings.Contains(markup, "Thanks &amp; &lt;goodbye&gt;") {
		t.Fatalf("text not escaped:\n%s", markup)
	}
}
