package dialog

// InputMode selects which input channels the provider should listen on while
// gathering the caller's answer.
type InputMode string

const (
	InputSpeech InputMode = "speech"
	InputKeypad InputMode = "dtmf"
	InputBoth   InputMode = "speech dtmf"
)

// Gather describes an input-collection instruction: speak the prompt, then
// deliver whatever the caller says or types to the Action stage's callback.
type Gather struct {
	Prompt         string
	Mode           InputMode
	Action         Stage
	TimeoutSeconds int
	SpeechTimeout  string
	Language       string
	Hints          string
	SpeechModel    string
}

// Field names a working answer slot on the call session.
type Field string

const (
	FieldProductRating  Field = "product_rating"
	FieldDeliveryRating Field = "delivery_rating"
	FieldFinalReview    Field = "final_review"
)

// Answer is a validated value Advance wants recorded on the session.
type Answer struct {
	Field  Field
	Rating int
	Text   string
}

// Outcome is the data result of one stage transition. The daemon applies
// Record/Finalize against the session and feedback store; the telephony
// package renders the rest into provider markup in order: Say lines first,
// then either Gather (with its no-input fallback) or Redirect, then Hangup.
type Outcome struct {
	// Next is the stage the session occupies after this transition.
	Next Stage

	Say      []string
	Gather   *Gather
	Redirect Stage

	// NoInputSay and NoInputRedirect form the fallback executed when a
	// Gather collects nothing before its timeout.
	NoInputSay      string
	NoInputRedirect Stage

	Record   *Answer
	Finalize bool
	Hangup   bool

	// Retry marks a re-prompt after an invalid or empty answer; Abandoned
	// marks the transition that gives up on the call.
	Retry     bool
	Abandoned bool
}
