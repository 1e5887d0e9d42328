package api

import (
	"canvass/internal/feedback"
	"canvass/internal/session"
)

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05Z07:00"

// TriggerCallRequest asks the daemon to place an outbound survey call.
type TriggerCallRequest struct {
	To   string `json:"to"`
	From string `json:"from,omitempty"`
}

// TriggerCallResponse reports the provider call identifier for a placed call.
type TriggerCallResponse struct {
	Success bool   `json:"success"`
	CallID  string `json:"callId"`
}

// FeedbackListResponse wraps the collected feedback records in completion
// order.
type FeedbackListResponse struct {
	Count     int               `json:"count"`
	Feedbacks []feedback.Record `json:"feedbacks"`
}

// SessionSummary describes one in-flight call session.
type SessionSummary struct {
	CallID    string `json:"callSid"`
	From      string `json:"from,omitempty"`
	To        string `json:"to,omitempty"`
	Stage     string `json:"stage"`
	Retries   int    `json:"retries"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// FromSessions converts registry snapshots into transport summaries.
func FromSessions(sessions []session.Session) []SessionSummary {
	if len(sessions) == 0 {
		return nil
	}
	out := make([]SessionSummary, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, SessionSummary{
			CallID:    sess.CallID,
			From:      sess.From,
			To:        sess.To,
			Stage:     string(sess.Stage),
			Retries:   sess.Retries,
			CreatedAt: sess.CreatedAt.Format(dateTimeFormat),
			UpdatedAt: sess.UpdatedAt.Format(dateTimeFormat),
		})
	}
	return out
}

// DaemonStatus aggregates daemon runtime information for API consumers.
type DaemonStatus struct {
	Running            bool             `json:"running"`
	PID                int              `json:"pid"`
	StartedAt          string           `json:"startedAt,omitempty"`
	Uptime             string           `json:"uptime,omitempty"`
	ActiveSessions     int              `json:"activeSessions"`
	FeedbackCount      int              `json:"feedbackCount"`
	ProviderConfigured bool             `json:"providerConfigured"`
	ArchiveEnabled     bool             `json:"archiveEnabled"`
	ArchivePath        string           `json:"archivePath,omitempty"`
	LockFilePath       string           `json:"lockFilePath,omitempty"`
	Sessions           []SessionSummary `json:"sessions,omitempty"`
}

// ErrorResponse is the uniform error payload for JSON endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}
