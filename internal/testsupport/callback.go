package testsupport

import "net/url"

// CallbackForm builds the form payload a telephony provider posts to a
// dialogue callback endpoint.
func CallbackForm(callSID, speech, digits string) url.Values {
	form := url.Values{}
	form.Set("CallSid", callSID)
	form.Set("From", "+15550100001")
	form.Set("To", "+15550100002")
	if speech != "" {
		form.Set("SpeechResult", speech)
	}
	if digits != "" {
		form.Set("Digits", digits)
	}
	return form
}
