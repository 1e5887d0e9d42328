// Package telephony is the boundary to the outbound call provider.
//
// It covers the three directions traffic flows: Client places outbound
// calls through the provider's REST API, ParseCallback decodes the
// form-encoded stage callbacks the provider posts back, and RenderOutcome
// encodes a dialog.Outcome into the provider's voice-response XML markup.
// The dialogue engine never sees any of this encoding; it deals purely in
// dialog data structures.
package telephony
