package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"canvass/internal/api"
	"canvass/internal/config"
	"canvass/internal/dialog"
	"canvass/internal/logging"
	"canvass/internal/services"
	"canvass/internal/telephony"
)

type apiServer struct {
	bind   string
	logger *slog.Logger
	daemon *Daemon

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) *apiServer {
	srv := &apiServer{
		bind:   strings.TrimSpace(cfg.Paths.APIBind),
		logger: logger,
		daemon: d,
	}

	mux := http.NewServeMux()
	for _, stage := range dialog.CallbackStages() {
		mux.HandleFunc(stage.CallbackPath(), srv.handleCallback(stage))
	}
	mux.HandleFunc("/trigger-call", srv.handleTrigger)
	mux.HandleFunc("/feedbacks", srv.handleFeedbacks)
	mux.HandleFunc("/api/status", srv.handleStatus)

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

func (s *apiServer) start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.log().Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// handleCallback serves one dialogue stage endpoint. Responses are provider
// voice markup, never JSON.
func (s *apiServer) handleCallback(stage dialog.Stage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		cb, err := telephony.ParseCallback(r)
		if err != nil {
			s.log().Warn("rejected provider callback",
				logging.String(logging.FieldStage, string(stage)),
				logging.Error(err),
			)
			s.writeError(w, services.HTTPStatus(err), err.Error())
			return
		}

		correlationID := uuid.NewString()
		s.log().Info("provider callback",
			logging.String(logging.FieldCorrelationID, correlationID),
			logging.String(logging.FieldCallSID, cb.CallSID),
			logging.String(logging.FieldStage, string(stage)),
		)

		outcome := s.daemon.HandleCallback(stage, cb)
		body, err := telephony.RenderOutcome(outcome)
		if err != nil {
			s.log().Error("render voice response",
				logging.String(logging.FieldCorrelationID, correlationID),
				logging.Error(err),
			)
			s.writeError(w, http.StatusInternalServerError, "render voice response")
			return
		}
		w.Header().Set("Content-Type", telephony.MarkupContentType)
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(body); err != nil {
			s.log().Warn("write voice response", logging.Error(err))
		}
	}
}

func (s *apiServer) handleTrigger(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req api.TriggerCallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	callID, err := s.daemon.TriggerCall(r.Context(), req.To, req.From)
	if err != nil {
		s.log().Warn("trigger call failed", logging.Error(err))
		s.writeError(w, services.HTTPStatus(err), err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, api.TriggerCallResponse{Success: true, CallID: callID})
}

func (s *apiServer) handleFeedbacks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, s.daemon.Feedbacks())
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, s.daemon.Status())
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, api.ErrorResponse{Error: message})
}

func (s *apiServer) log() *slog.Logger {
	if s.logger != nil {
		return s.logger.With(logging.String(logging.FieldComponent, "api-server"))
	}
	return logging.NewNop()
}
