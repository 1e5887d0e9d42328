package telephony

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"canvass/internal/config"
	"canvass/internal/dialog"
	"canvass/internal/services"
)

// HTTPDoer describes the HTTP client used by the provider client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client places outbound calls through the provider's REST API.
type Client struct {
	accountSID string
	authToken  string
	baseURL    string
	fromNumber string
	publicURL  string
	httpClient HTTPDoer
}

// NewClient builds a provider client from configuration. A nil doer falls
// back to a plain http.Client with the configured request timeout.
func NewClient(cfg *config.Config, doer HTTPDoer) *Client {
	if doer == nil {
		timeout := time.Duration(cfg.Telephony.RequestTimeout) * time.Second
		doer = &http.Client{Timeout: timeout}
	}
	return &Client{
		accountSID: strings.TrimSpace(cfg.Telephony.AccountSID),
		authToken:  strings.TrimSpace(cfg.Telephony.AuthToken),
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.Telephony.BaseURL), "/"),
		fromNumber: strings.TrimSpace(cfg.Telephony.FromNumber),
		publicURL:  strings.TrimRight(strings.TrimSpace(cfg.Telephony.PublicURL), "/"),
		httpClient: doer,
	}
}

// Trigger places an outbound call to the given number. The provider fetches
// the greeting callback once the callee answers. Returns the provider's call
// SID.
func (c *Client) Trigger(ctx context.Context, to, from string) (string, error) {
	to = strings.TrimSpace(to)
	if to == "" {
		return "", services.Wrap(services.ErrValidation, "telephony", "trigger", "destination number is required", nil)
	}
	if from == "" {
		from = c.fromNumber
	}
	if from == "" {
		return "", services.Wrap(services.ErrConfiguration, "telephony", "trigger", "no caller number configured; set telephony.from_number", nil)
	}
	if c.publicURL == "" {
		return "", services.Wrap(services.ErrConfiguration, "telephony", "trigger", "telephony.public_url must point at this daemon's public address", nil)
	}

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", from)
	form.Set("Url", c.publicURL+dialog.StageGreeting.CallbackPath())

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Calls.json", c.baseURL, c.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "telephony", "trigger", "build call request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrUpstream, "telephony", "trigger", "place call", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", services.Wrap(services.ErrUpstream, "telephony", "trigger", "read call response", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg := fmt.Sprintf("provider returned %d", resp.StatusCode)
		if detail := providerErrorMessage(body); detail != "" {
			msg = fmt.Sprintf("%s: %s", msg, detail)
		}
		return "", services.Wrap(services.ErrUpstream, "telephony", "trigger", msg, nil)
	}

	var payload struct {
		SID string `json:"sid"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", services.Wrap(services.ErrUpstream, "telephony", "trigger", "decode call response", err)
	}
	return payload.SID, nil
}

func providerErrorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Message)
}
