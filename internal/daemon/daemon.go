package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"log/slog"

	"github.com/gofrs/flock"

	"canvass/internal/api"
	"canvass/internal/config"
	"canvass/internal/dialog"
	"canvass/internal/feedback"
	"canvass/internal/logging"
	"canvass/internal/session"
	"canvass/internal/telephony"
)

// janitorInterval is how often idle sessions are checked for eviction.
const janitorInterval = time.Minute

// Daemon coordinates the survey service lifecycle.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	machine  *dialog.Machine
	registry *session.Registry
	store    *feedback.Store
	archive  *feedback.Archive
	caller   *telephony.Client

	lockPath string
	lock     *flock.Flock

	apiSrv    *apiServer
	startedAt time.Time
	running   atomic.Bool
	cancel    context.CancelFunc
}

// New builds a daemon from configuration. The feedback archive is opened only
// when storage.archive_enabled is set.
func New(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	var archive *feedback.Archive
	if cfg.Storage.ArchiveEnabled {
		opened, err := feedback.OpenArchive(cfg.ArchivePath())
		if err != nil {
			return nil, fmt.Errorf("open feedback archive: %w", err)
		}
		archive = opened
	}

	lockPath := filepath.Join(cfg.Paths.DataDir, "canvassd.lock")
	d := &Daemon{
		cfg:      cfg,
		logger:   logger,
		machine:  dialog.NewMachine(cfg.DialogOptions()),
		registry: session.NewRegistry(),
		store:    feedback.NewStore(),
		archive:  archive,
		caller:   telephony.NewClient(cfg, nil),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}
	d.apiSrv = newAPIServer(cfg, d, logger)
	return d, nil
}

// Start acquires the daemon lock, binds the HTTP listener, and launches the
// session janitor. It returns once the service is accepting callbacks.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another canvass daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	if err := d.apiSrv.start(runCtx); err != nil {
		_ = d.lock.Unlock()
		cancel()
		d.cancel = nil
		return err
	}

	if ttl := d.sessionTTL(); ttl > 0 {
		go d.runJanitor(runCtx, ttl)
	}

	d.startedAt = time.Now().UTC()
	d.running.Store(true)
	d.logger.Info("canvass daemon started",
		logging.String("lock", d.lockPath),
		logging.Bool("archive_enabled", d.archive != nil),
	)
	return nil
}

// Stop shuts down the HTTP server and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.apiSrv.stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("canvass daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.archive != nil {
		return d.archive.Close()
	}
	return nil
}

// Addr returns the bound listener address, or "" before Start.
func (d *Daemon) Addr() string {
	return d.apiSrv.addr()
}

// HandleCallback applies one provider callback to its call session and
// returns the outcome for markup rendering. Finalized calls append a
// feedback record and drop the session.
func (d *Daemon) HandleCallback(stage dialog.Stage, cb telephony.Callback) dialog.Outcome {
	var outcome dialog.Outcome
	snapshot := d.registry.Mutate(cb.CallSID, cb.From, cb.To, func(sess *session.Session) {
		if sess.Stage.IsTerminal() {
			outcome = dialog.Outcome{Next: sess.Stage, Hangup: true}
			return
		}
		outcome = d.machine.Advance(stage, cb.Input(), sess.Retries)
		// Prompt emissions must keep the count: the re-ask redirect after an
		// invalid answer passes back through the ask stage before the next
		// answer arrives.
		switch {
		case outcome.Retry:
			sess.Retries++
		case outcome.Gather == nil:
			sess.Retries = 0
		}
		if answer := outcome.Record; answer != nil {
			switch answer.Field {
			case dialog.FieldProductRating:
				sess.ProductRating = answer.Rating
			case dialog.FieldDeliveryRating:
				sess.DeliveryRating = answer.Rating
			case dialog.FieldFinalReview:
				sess.FinalReview = answer.Text
			}
		}
		sess.Stage = outcome.Next
	})

	if outcome.Abandoned {
		d.logger.Warn("call abandoned",
			logging.String(logging.FieldCallSID, snapshot.CallID),
			logging.String(logging.FieldStage, string(stage)),
			logging.Int("retries", snapshot.Retries),
		)
	}
	if outcome.Finalize {
		record := feedback.Finalize(snapshot, time.Now())
		d.store.Append(record)
		if d.archive != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := d.archive.Append(ctx, record); err != nil {
				d.logger.Warn("archive feedback record", logging.Error(err),
					logging.String(logging.FieldCallSID, record.CallID))
			}
			cancel()
		}
		d.registry.Remove(snapshot.CallID)
		d.logger.Info("feedback recorded",
			logging.String(logging.FieldCallSID, record.CallID),
			logging.String("product_rating", record.Answers.ProductRating.String()),
			logging.String("delivery_rating", record.Answers.DeliveryRating.String()),
		)
	}
	return outcome
}

// TriggerCall places an outbound survey call and returns the provider call
// identifier.
func (d *Daemon) TriggerCall(ctx context.Context, to, from string) (string, error) {
	callID, err := d.caller.Trigger(ctx, to, from)
	if err != nil {
		return "", err
	}
	d.logger.Info("outbound call placed",
		logging.String(logging.FieldCallSID, callID),
		logging.String("to", to),
	)
	return callID, nil
}

// Feedbacks returns the collected records in completion order.
func (d *Daemon) Feedbacks() api.FeedbackListResponse {
	records := d.store.List()
	return api.FeedbackListResponse{Count: len(records), Feedbacks: records}
}

// Status reports daemon runtime information.
func (d *Daemon) Status() api.DaemonStatus {
	status := api.DaemonStatus{
		Running:            d.running.Load(),
		PID:                os.Getpid(),
		ActiveSessions:     d.registry.Count(),
		FeedbackCount:      d.store.Count(),
		ProviderConfigured: d.cfg.Telephony.PublicURL != "",
		ArchiveEnabled:     d.archive != nil,
		LockFilePath:       d.lockPath,
		Sessions:           api.FromSessions(d.registry.Active()),
	}
	if d.archive != nil {
		status.ArchivePath = d.archive.Path()
	}
	if !d.startedAt.IsZero() {
		status.StartedAt = d.startedAt.Format(time.RFC3339)
		status.Uptime = time.Since(d.startedAt).Round(time.Second).String()
	}
	return status
}

func (d *Daemon) sessionTTL() time.Duration {
	return time.Duration(d.cfg.Survey.SessionTTLMinutes) * time.Minute
}

// runJanitor evicts sessions idle past the configured TTL, covering calls
// that hung up without reaching a terminal stage.
func (d *Daemon) runJanitor(ctx context.Context, ttl time.Duration) {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if evicted := d.registry.EvictBefore(now.UTC().Add(-ttl)); evicted > 0 {
				d.logger.Info("evicted idle sessions", logging.Int("count", evicted))
			}
		}
	}
}
