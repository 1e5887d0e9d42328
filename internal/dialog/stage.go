package dialog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Stage names a point in the dialogue sequence. Ask stages emit a prompt and
// collect input; await stages consume the input delivered by the provider's
// next callback.
type Stage string

const (
	StageGreeting            Stage = "greeting"
	StageAwaitContinue       Stage = "await_continue"
	StageAskProductRating    Stage = "ask_product_rating"
	StageAwaitProductRating  Stage = "await_product_rating"
	StageAskDeliveryRating   Stage = "ask_delivery_rating"
	StageAwaitDeliveryRating Stage = "await_delivery_rating"
	StageAskFinalReview      Stage = "ask_final_review"
	StageAwaitFinalReview    Stage = "await_final_review"
	StageComplete            Stage = "complete"
	StageAbandoned           Stage = "abandoned"
)

var allStages = []Stage{
	StageGreeting,
	StageAwaitContinue,
	StageAskProductRating,
	StageAwaitProductRating,
	StageAskDeliveryRating,
	StageAwaitDeliveryRating,
	StageAskFinalReview,
	StageAwaitFinalReview,
	StageComplete,
	StageAbandoned,
}

var stageSet = func() map[Stage]struct{} {
	set := make(map[Stage]struct{}, len(allStages))
	for _, stage := range allStages {
		set[stage] = struct{}{}
	}
	return set
}()

// callbackPaths binds each provider-facing stage to its HTTP callback path.
// Ask stages are prompt endpoints; await stages are the gather actions.
var callbackPaths = map[Stage]string{
	StageGreeting:            "/greeting",
	StageAwaitContinue:       "/start-feedback",
	StageAskProductRating:    "/ask-product-rating",
	StageAwaitProductRating:  "/product-rating",
	StageAskDeliveryRating:   "/ask-delivery-rating",
	StageAwaitDeliveryRating: "/delivery-rating",
	StageAskFinalReview:      "/ask-final-review",
	StageAwaitFinalReview:    "/final-review",
}

var titleCaser = cases.Title(language.English)

// AllStages returns the ordered list of known stages.
func AllStages() []Stage {
	cp := make([]Stage, len(allStages))
	copy(cp, allStages)
	return cp
}

// CallbackStages returns the stages with provider callback endpoints, in
// dialogue order.
func CallbackStages() []Stage {
	out := make([]Stage, 0, len(callbackPaths))
	for _, stage := range allStages {
		if _, ok := callbackPaths[stage]; ok {
			out = append(out, stage)
		}
	}
	return out
}

// ParseStage converts a string into a known Stage.
func ParseStage(value string) (Stage, bool) {
	normalized := Stage(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := stageSet[normalized]
	return normalized, ok
}

// CallbackPath returns the HTTP path the provider posts to for this stage,
// or "" for terminal stages that have no endpoint.
func (s Stage) CallbackPath() string {
	return callbackPaths[s]
}

// IsTerminal reports whether the stage ends the dialogue.
func (s Stage) IsTerminal() bool {
	return s == StageComplete || s == StageAbandoned
}

// DisplayName renders the stage for human-facing output, e.g.
// "Await Product Rating".
func (s Stage) DisplayName() string {
	return titleCaser.String(strings.ReplaceAll(string(s), "_", " "))
}
