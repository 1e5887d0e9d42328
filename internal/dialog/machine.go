package dialog

import (
	"strings"

	"canvass/internal/speech"
)

// NoResponseSentinel is recorded when an expected answer was never captured.
const NoResponseSentinel = "no response"

// Machine evaluates stage transitions for the survey dialogue. It carries no
// per-call state; sessions supply their stage and retry count on each call.
type Machine struct {
	prompts    Prompts
	maxRetries int
}

// Options configures a Machine.
type Options struct {
	Prompts Prompts
	// MaxRetries caps consecutive invalid or empty answers per question.
	// Zero means retry forever, matching the original survey behavior.
	MaxRetries int
}

// NewMachine builds a Machine, filling unset prompts with the defaults.
func NewMachine(opts Options) *Machine {
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	return &Machine{
		prompts:    opts.Prompts.Merge(),
		maxRetries: opts.MaxRetries,
	}
}

// Prompts returns the merged prompt set the machine speaks.
func (m *Machine) Prompts() Prompts {
	return m.prompts
}

// Advance computes the outcome of a provider callback arriving for the given
// stage. rawInput is the caller's answer to the previous prompt (speech
// precedence already applied); retries is how many consecutive invalid or
// empty answers this question has already seen. Advance is pure.
func (m *Machine) Advance(stage Stage, rawInput string, retries int) Outcome {
	switch stage {
	case StageGreeting:
		return m.askOutcome(StageGreeting, StageAwaitContinue, Gather{
			Prompt:         m.prompts.Greeting,
			Mode:           InputBoth,
			TimeoutSeconds: ratingTimeout,
			Hints:          continueHints,
		})

	case StageAwaitContinue:
		if speech.Normalize(rawInput) == "" {
			return m.retryOutcome(StageGreeting, m.prompts.RepeatContinue, retries)
		}
		return Outcome{Next: StageAskProductRating, Redirect: StageAskProductRating}

	case StageAskProductRating:
		return m.askOutcome(StageAskProductRating, StageAwaitProductRating, Gather{
			Prompt:         m.prompts.ProductQuestion,
			Mode:           InputBoth,
			TimeoutSeconds: ratingTimeout,
			Hints:          ratingHints,
			SpeechModel:    ratingSpeechModel,
		})

	case StageAwaitProductRating:
		return m.ratingOutcome(rawInput, retries, FieldProductRating, StageAskProductRating, StageAskDeliveryRating)

	case StageAskDeliveryRating:
		return m.askOutcome(StageAskDeliveryRating, StageAwaitDeliveryRating, Gather{
			Prompt:         m.prompts.DeliveryQuestion,
			Mode:           InputBoth,
			TimeoutSeconds: ratingTimeout,
			Hints:          ratingHints,
			SpeechModel:    ratingSpeechModel,
		})

	case StageAwaitDeliveryRating:
		return m.ratingOutcome(rawInput, retries, FieldDeliveryRating, StageAskDeliveryRating, StageAskFinalReview)

	case StageAskFinalReview:
		return m.askOutcome(StageAskFinalReview, StageAwaitFinalReview, Gather{
			Prompt:         m.prompts.ReviewQuestion,
			Mode:           InputSpeech,
			TimeoutSeconds: reviewTimeout,
		})

	case StageAwaitFinalReview:
		// The review is accepted verbatim; only absence is substituted.
		review := strings.TrimSpace(rawInput)
		if review == "" {
			review = NoResponseSentinel
		}
		return Outcome{
			Next:     StageComplete,
			Say:      []string{m.prompts.ThankYou},
			Record:   &Answer{Field: FieldFinalReview, Text: review},
			Finalize: true,
			Hangup:   true,
		}

	default:
		// Terminal or unknown stage: nothing left to say.
		return Outcome{Next: stage, Hangup: true}
	}
}

// askOutcome is the shared shape of every prompt-emitting stage: gather
// toward the await stage, with a re-prompt redirect when nothing is heard.
func (m *Machine) askOutcome(self, next Stage, gather Gather) Outcome {
	gather.Action = next
	if gather.SpeechTimeout == "" {
		gather.SpeechTimeout = gatherSpeechTimeout
	}
	if gather.Language == "" {
		gather.Language = gatherLanguage
	}
	return Outcome{
		Next:            next,
		Gather:          &gather,
		NoInputSay:      m.prompts.NoResponse,
		NoInputRedirect: self,
	}
}

// ratingOutcome validates a rating answer, advancing on success and
// re-entering the ask stage (or abandoning) on failure.
func (m *Machine) ratingOutcome(rawInput string, retries int, field Field, askStage, nextStage Stage) Outcome {
	token := speech.Normalize(rawInput)
	rating, ok := speech.ResolveRating(token)
	if !ok {
		return m.retryOutcome(askStage, m.prompts.DidNotUnderstand, retries)
	}
	return Outcome{
		Next:     nextStage,
		Redirect: nextStage,
		Record:   &Answer{Field: field, Rating: rating},
	}
}

// retryOutcome re-enters an ask stage after an invalid or empty answer, or
// abandons the call once the retry cap is exhausted.
func (m *Machine) retryOutcome(askStage Stage, apology string, retries int) Outcome {
	if m.maxRetries > 0 && retries+1 > m.maxRetries {
		return Outcome{
			Next:      StageAbandoned,
			Say:       []string{m.prompts.Abandoned},
			Hangup:    true,
			Abandoned: true,
		}
	}
	return Outcome{
		Next:     askStage,
		Say:      []string{apology},
		Redirect: askStage,
		Retry:    true,
	}
}
