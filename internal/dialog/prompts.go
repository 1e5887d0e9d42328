package dialog

import "strings"

// Gather parameters shared by every question. The rating questions hint the
// recognizer toward number words and the numbers speech model; the free-text
// review gets a longer window and no hints.
const (
	gatherLanguage      = "en-US"
	gatherSpeechTimeout = "auto"
	ratingTimeout       = 8
	reviewTimeout       = 12
	ratingHints         = "one, two, three, four, five"
	ratingSpeechModel   = "numbers_and_commands"
	continueHints       = "continue"
)

// Prompts holds every line the survey speaks. Zero-value fields fall back to
// the defaults, so configuration only needs to override what it changes.
type Prompts struct {
	Greeting         string `toml:"greeting"`
	NoResponse       string `toml:"no_response"`
	RepeatContinue   string `toml:"repeat_continue"`
	ProductQuestion  string `toml:"product_question"`
	DeliveryQuestion string `toml:"delivery_question"`
	DidNotUnderstand string `toml:"did_not_understand"`
	ReviewQuestion   string `toml:"review_question"`
	ThankYou         string `toml:"thank_you"`
	Abandoned        string `toml:"abandoned"`
}

// DefaultPrompts returns the stock survey script.
func DefaultPrompts() Prompts {
	return Prompts{
		Greeting: "Hello! We are calling to collect feedback about your recent order. " +
			"Please say continue or press any key to start the feedback.",
		NoResponse:       "No response detected. Let's try again.",
		RepeatContinue:   "Sorry, I did not get that. Please say continue or press any key.",
		ProductQuestion:  "First, on a scale of 1 to 5, how would you rate the product you received? Say a number or press a key.",
		DeliveryQuestion: "Now, on a scale of 1 to 5, how would you rate the delivery service? Say a number or press a key.",
		DidNotUnderstand: "Sorry, I did not understand that. Please say a number between one and five.",
		ReviewQuestion:   "Finally, please provide any comments or review about the product or delivery.",
		ThankYou:         "Thank you for your feedback. Goodbye.",
		Abandoned:        "We were unable to understand your responses. We will try again another time. Goodbye.",
	}
}

// Merge fills empty fields from the defaults.
func (p Prompts) Merge() Prompts {
	defaults := DefaultPrompts()
	fill := func(value, fallback string) string {
		if strings.TrimSpace(value) == "" {
			return fallback
		}
		return value
	}
	return Prompts{
		Greeting:         fill(p.Greeting, defaults.Greeting),
		NoResponse:       fill(p.NoResponse, defaults.NoResponse),
		RepeatContinue:   fill(p.RepeatContinue, defaults.RepeatContinue),
		ProductQuestion:  fill(p.ProductQuestion, defaults.ProductQuestion),
		DeliveryQuestion: fill(p.DeliveryQuestion, defaults.DeliveryQuestion),
		DidNotUnderstand: fill(p.DidNotUnderstand, defaults.DidNotUnderstand),
		ReviewQuestion:   fill(p.ReviewQuestion, defaults.ReviewQuestion),
		ThankYou:         fill(p.ThankYou, defaults.ThankYou),
		Abandoned:        fill(p.Abandoned, defaults.Abandoned),
	}
}
