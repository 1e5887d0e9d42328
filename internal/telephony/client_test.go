package telephony

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"canvass/internal/services"
	"canvass/internal/testsupport"
)

type doerFunc func(req *http.Request) (*http.Response, error)

func (f doerFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func TestClientTrigger(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	var captured *http.Request
	var capturedBody string
	client := NewClient(cfg, doerFunc(func(req *http.Request) (*http.Response, error) {
		captured = req
		data, _ := io.ReadAll(req.Body)
		capturedBody = string(data)
		return jsonResponse(http.StatusCreated, `{"sid":"CA999"}`), nil
	}))

	callID, err := client.Trigger(context.Background(), "+15550100055", "")
	if err != nil {
		t.Fatalf("trigger: %v", err)
	}
	if callID != "CA999" {
		t.Fatalf("call ID = %q", callID)
	}

	if captured.Method != http.MethodPost {
		t.Fatalf("method = %s", captured.Method)
	}
	wantPath := "/2010-04-01/Accounts/" + cfg.Telephony.AccountSID + "/Calls.json"
	if captured.URL.Path != wantPath {
		t.Fatalf("path = %q, want %q", captured.URL.Path, wantPath)
	}
	user, pass, ok := captured.BasicAuth()
	if !ok || user != cfg.Telephony.AccountSID || pass != cfg.Telephony.AuthToken {
		t.Fatalf("basic auth = %q/%q/%v", user, pass, ok)
	}
	for _, want := range []string{
		"To=%2B15550100055",
		"From=%2B15550100000",
		"Url=" + "https%3A%2F%2Fcanvass.test%2Fgreeting",
	} {
		if !strings.Contains(capturedBody, want) {
			t.Fatalf("form body missing %s: %s", want, capturedBody)
		}
	}
}

func TestClientTriggerValidation(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	client := NewClient(cfg, doerFunc(func(*http.Request) (*http.Response, error) {
		t.Fatal("no request expected")
		return nil, nil
	}))

	if _, err := client.Trigger(context.Background(), "", ""); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestClientTriggerRequiresPublicURL(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithPublicURL(""))
	client := NewClient(cfg, doerFunc(func(*http.Request) (*http.Response, error) {
		t.Fatal("no request expected")
		return nil, nil
	}))

	if _, err := client.Trigger(context.Background(), "+15550100055", ""); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestClientTriggerProviderError(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	client := NewClient(cfg, doerFunc(func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusUnauthorized, `{"message":"authentication failed"}`), nil
	}))

	_, err := client.Trigger(context.Background(), "+15550100055", "")
	if !errors.Is(err, services.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if !strings.Contains(err.Error(), "authentication failed") {
		t.Fatalf("provider message lost: %v", err)
	}
}

func TestClientTriggerTransportError(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	client := NewClient(cfg, doerFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	}))

	if _, err := client.Trigger(context.Background(), "+15550100055", ""); !errors.Is(err, services.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}
