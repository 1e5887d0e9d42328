package daemon

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"canvass/internal/config"
	"canvass/internal/dialog"
	"canvass/internal/telephony"
	"canvass/internal/testsupport"
)

func newTestDaemon(t *testing.T, opts ...testsupport.ConfigOption) (*Daemon, *config.Config) {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	d, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("create daemon: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d, cfg
}

func postCallback(t *testing.T, d *Daemon, stage dialog.Stage, callSID, speech, digits string) string {
	t.Helper()
	form := testsupport.CallbackForm(callSID, speech, digits)
	req := httptest.NewRequest(http.MethodPost, stage.CallbackPath(), strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	d.apiSrv.handleCallback(stage)(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("stage %s returned %d: %s", stage, w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != telephony.MarkupContentType {
		t.Fatalf("stage %s content type = %q", stage, ct)
	}
	return w.Body.String()
}

func TestSurveyConversation(t *testing.T) {
	d, _ := newTestDaemon(t)
	const callSID = "CA-conversation"

	markup := postCallback(t, d, dialog.StageGreeting, callSID, "", "")
	if !strings.Contains(markup, `action="/start-feedback"`) {
		t.Fatalf("greeting should gather toward /start-feedback:\n%s", markup)
	}

	markup = postCallback(t, d, dialog.StageAwaitContinue, callSID, "continue", "")
	if !strings.Contains(markup, ">/ask-product-rating</Redirect>") {
		t.Fatalf("continue should redirect to product question:\n%s", markup)
	}

	markup = postCallback(t, d, dialog.StageAskProductRating, callSID, "", "")
	if !strings.Contains(markup, `action="/product-rating"`) {
		t.Fatalf("product question should gather:\n%s", markup)
	}

	markup = postCallback(t, d, dialog.StageAwaitProductRating, callSID, "five.", "")
	if !strings.Contains(markup, ">/ask-delivery-rating</Redirect>") {
		t.Fatalf("product answer should advance:\n%s", markup)
	}

	postCallback(t, d, dialog.StageAskDeliveryRating, callSID, "", "")
	markup = postCallback(t, d, dialog.StageAwaitDeliveryRating, callSID, "", "3")
	if !strings.Contains(markup, ">/ask-final-review</Redirect>") {
		t.Fatalf("delivery answer should advance:\n%s", markup)
	}

	postCallback(t, d, dialog.StageAskFinalReview, callSID, "", "")
	markup = postCallback(t, d, dialog.StageAwaitFinalReview, callSID, "Great service, very happy.", "")
	if !strings.Contains(markup, "<Hangup>") {
		t.Fatalf("final review should hang up:\n%s", markup)
	}

	resp := d.Feedbacks()
	if resp.Count != 1 {
		t.Fatalf("feedback count = %d", resp.Count)
	}
	record := resp.Feedbacks[0]
	if record.CallID != callSID {
		t.Fatalf("record call ID = %q", record.CallID)
	}
	if record.Answers.ProductRating != 5 {
		t.Fatalf("product rating = %d", record.Answers.ProductRating)
	}
	if record.Answers.DeliveryRating != 3 {
		t.Fatalf("delivery rating = %d", record.Answers.DeliveryRating)
	}
	if record.Answers.FinalReview != "Great service, very happy." {
		t.Fatalf("review = %q", record.Answers.FinalReview)
	}

	if d.registry.Count() != 0 {
		t.Fatalf("session should be dropped after finalize, count = %d", d.registry.Count())
	}
}

func TestInvalidRatingLoopsUntilValid(t *testing.T) {
	d, _ := newTestDaemon(t)
	const callSID = "CA-retry"

	postCallback(t, d, dialog.StageGreeting, callSID, "", "")
	postCallback(t, d, dialog.StageAwaitContinue, callSID, "1", "")

	markup := postCallback(t, d, dialog.StageAwaitProductRating, callSID, "banana", "")
	if !strings.Contains(markup, ">/ask-product-rating</Redirect>") {
		t.Fatalf("invalid answer should re-ask:\n%s", markup)
	}

	// The redirect makes the provider fetch the question again; that fetch
	// must not clear the retry count.
	postCallback(t, d, dialog.StageAskProductRating, callSID, "", "")
	sess, ok := d.registry.Get(callSID)
	if !ok {
		t.Fatal("session missing")
	}
	if sess.Retries != 1 {
		t.Fatalf("retries after re-asked question = %d, want 1", sess.Retries)
	}

	markup = postCallback(t, d, dialog.StageAwaitProductRating, callSID, "3rd", "")
	if !strings.Contains(markup, ">/ask-delivery-rating</Redirect>") {
		t.Fatalf("valid answer after retry should advance:\n%s", markup)
	}

	sess, ok = d.registry.Get(callSID)
	if !ok {
		t.Fatal("session missing")
	}
	if sess.ProductRating != 3 {
		t.Fatalf("product rating = %d", sess.ProductRating)
	}
	if sess.Retries != 0 {
		t.Fatalf("retries should reset after a valid answer, got %d", sess.Retries)
	}
}

func TestRetryCapAbandonsCall(t *testing.T) {
	d, _ := newTestDaemon(t, testsupport.WithMaxRetries(1))
	const callSID = "CA-abandon"

	postCallback(t, d, dialog.StageGreeting, callSID, "", "")
	postCallback(t, d, dialog.StageAwaitContinue, callSID, "1", "")
	postCallback(t, d, dialog.StageAskProductRating, callSID, "", "")

	// Each invalid answer redirects through the ask stage before the caller
	// answers again, exactly as the provider replays the flow.
	markup := postCallback(t, d, dialog.StageAwaitProductRating, callSID, "banana", "")
	if !strings.Contains(markup, ">/ask-product-rating</Redirect>") {
		t.Fatalf("first invalid answer should re-ask:\n%s", markup)
	}
	postCallback(t, d, dialog.StageAskProductRating, callSID, "", "")

	markup = postCallback(t, d, dialog.StageAwaitProductRating, callSID, "banana", "")
	if !strings.Contains(markup, "<Hangup>") {
		t.Fatalf("exhausted retries should hang up:\n%s", markup)
	}

	if d.store.Count() != 0 {
		t.Fatalf("abandoned call must not produce feedback, count = %d", d.store.Count())
	}
	sess, ok := d.registry.Get(callSID)
	if !ok {
		t.Fatal("abandoned session should remain until evicted")
	}
	if sess.Stage != dialog.StageAbandoned {
		t.Fatalf("stage = %s, want %s", sess.Stage, dialog.StageAbandoned)
	}

	// Stray callbacks after abandonment just hang up again.
	markup = postCallback(t, d, dialog.StageAwaitProductRating, callSID, "five", "")
	if !strings.Contains(markup, "<Hangup>") {
		t.Fatalf("terminal session should hang up:\n%s", markup)
	}
	if d.store.Count() != 0 {
		t.Fatal("terminal session must not record feedback")
	}
}

func TestConcurrentCallsDoNotShareState(t *testing.T) {
	d, _ := newTestDaemon(t)

	postCallback(t, d, dialog.StageGreeting, "CA-a", "", "")
	postCallback(t, d, dialog.StageGreeting, "CA-b", "", "")
	postCallback(t, d, dialog.StageAwaitContinue, "CA-a", "1", "")
	postCallback(t, d, dialog.StageAwaitContinue, "CA-b", "1", "")

	postCallback(t, d, dialog.StageAwaitProductRating, "CA-a", "five", "")
	postCallback(t, d, dialog.StageAwaitProductRating, "CA-b", "one", "")

	sessA, _ := d.registry.Get("CA-a")
	sessB, _ := d.registry.Get("CA-b")
	if sessA.ProductRating != 5 || sessB.ProductRating != 1 {
		t.Fatalf("sessions bled into each other: %d, %d", sessA.ProductRating, sessB.ProductRating)
	}
}

func TestCallbackRejectsMissingCallSid(t *testing.T) {
	d, _ := newTestDaemon(t)

	req := httptest.NewRequest(http.MethodPost, "/greeting", strings.NewReader("From=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	d.apiSrv.handleCallback(dialog.StageGreeting)(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestCallbackRejectsGet(t *testing.T) {
	d, _ := newTestDaemon(t)

	req := httptest.NewRequest(http.MethodGet, "/greeting", nil)
	w := httptest.NewRecorder()
	d.apiSrv.handleCallback(dialog.StageGreeting)(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}

func TestArchiveMirrorsFinalizedRecords(t *testing.T) {
	d, _ := newTestDaemon(t, testsupport.WithArchive())
	const callSID = "CA-archive"

	postCallback(t, d, dialog.StageGreeting, callSID, "", "")
	postCallback(t, d, dialog.StageAwaitContinue, callSID, "1", "")
	postCallback(t, d, dialog.StageAwaitProductRating, callSID, "4", "")
	postCallback(t, d, dialog.StageAwaitDeliveryRating, callSID, "2", "")
	postCallback(t, d, dialog.StageAwaitFinalReview, callSID, "fine", "")

	count, err := d.archive.Count(context.Background())
	if err != nil {
		t.Fatalf("archive count: %v", err)
	}
	if count != 1 {
		t.Fatalf("archive count = %d", count)
	}
}

type doerFunc func(req *http.Request) (*http.Response, error)

func (f doerFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

func TestTriggerEndpoint(t *testing.T) {
	d, cfg := newTestDaemon(t)
	d.caller = telephony.NewClient(cfg, doerFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusCreated,
			Body:       io.NopCloser(strings.NewReader(`{"sid":"CA-trigger"}`)),
		}, nil
	}))

	req := httptest.NewRequest(http.MethodPost, "/trigger-call", strings.NewReader(`{"to":"+15550100055"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	d.apiSrv.handleTrigger(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("trigger returned %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"callId":"CA-trigger"`) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestTriggerEndpointValidation(t *testing.T) {
	d, _ := newTestDaemon(t)

	req := httptest.NewRequest(http.MethodPost, "/trigger-call", strings.NewReader(`{"to":""}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	d.apiSrv.handleTrigger(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestFeedbacksEndpoint(t *testing.T) {
	d, _ := newTestDaemon(t)

	req := httptest.NewRequest(http.MethodGet, "/feedbacks", nil)
	w := httptest.NewRecorder()
	d.apiSrv.handleFeedbacks(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("feedbacks returned %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"count":0`) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestStatusEndpoint(t *testing.T) {
	d, _ := newTestDaemon(t)
	postCallback(t, d, dialog.StageGreeting, "CA-status", "", "")

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	w := httptest.NewRecorder()
	d.apiSrv.handleStatus(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status returned %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `"activeSessions":1`) {
		t.Fatalf("unexpected body: %s", body)
	}
	if !strings.Contains(body, `"providerConfigured":true`) {
		t.Fatalf("unexpected body: %s", body)
	}
}
