package audit

import (
	"context"
	"time"

	"github.com/nerrad567/handlerhub/internal/console"
	"github.com/nerrad567/handlerhub/internal/lifecycle"
)

// writeTimeout bounds a single audit insert.
const writeTimeout = 2 * time.Second

// sourceUnknown is recorded when a request carried no origin.
const sourceUnknown = "internal"

// Logger is the logging interface used by the recorder.
type Logger interface {
	Warn(msg string, args ...any)
	Info(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Warn(string, ...any) {}
func (noopLogger) Info(string, ...any) {}

// Recorder turns console outcomes and lifecycle events into audit entries.
// Write failures are logged and never reach the caller.
type Recorder struct {
	repo   Repository
	logger Logger
}

// NewRecorder creates a recorder writing to repo.
func NewRecorder(repo Repository) *Recorder {
	return &Recorder{repo: repo, logger: noopLogger{}}
}

// SetLogger sets the logger for the recorder.
func (r *Recorder) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	r.logger = logger
}

// RecordDispatch writes one entry per console dispatch.
func (r *Recorder) RecordDispatch(o console.Outcome) {
	details := map[string]any{
		"extension":   o.Extension,
		"command":     o.Command,
		"duration_ms": o.Duration.Milliseconds(),
	}
	if len(o.Args) > 0 {
		details["args"] = o.Args
	}
	if o.Err != nil {
		details["code"] = string(o.Err.Code)
		if o.Err.Reason != "" {
			details["reason"] = string(o.Err.Reason)
		}
		details["error"] = o.Err.Error()
	} else {
		details["code"] = "ok"
	}

	r.write(&Entry{
		Action:     ActionCommand,
		EntityType: EntityThing,
		EntityID:   o.UID,
		UserID:     o.Actor,
		Source:     sourceOr(o.Origin),
		Details:    details,
	})
}

// RecordLifecycle writes one entry per lifecycle event.
func (r *Recorder) RecordLifecycle(ev lifecycle.Event) {
	details := map[string]any{}
	if ev.Type != "" {
		details["type"] = string(ev.Type)
	}
	if ev.Error != "" {
		details["error"] = ev.Error
	}
	if len(details) == 0 {
		details = nil
	}

	r.write(&Entry{
		Action:     string(ev.Action),
		EntityType: EntityThing,
		EntityID:   string(ev.UID),
		UserID:     ev.Actor,
		Source:     sourceOr(ev.Origin),
		Details:    details,
		CreatedAt:  ev.Time,
	})
}

func (r *Recorder) write(entry *Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := r.repo.Create(ctx, entry); err != nil {
		r.logger.Warn("audit write failed", "action", entry.Action, "entity_id", entry.EntityID, "error", err)
	}
}

func sourceOr(origin string) string {
	if origin == "" {
		return sourceUnknown
	}
	return origin
}

// Pruner is the part of the repository retention needs.
type Pruner interface {
	Prune(ctx context.Context, before time.Time) (int64, error)
}

// RunRetention prunes entries older than keep, once at start and then
// every interval, until ctx is cancelled.
func RunRetention(ctx context.Context, p Pruner, keep, interval time.Duration, logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	prune := func() {
		n, err := p.Prune(ctx, time.Now().Add(-keep))
		if err != nil {
			if ctx.Err() == nil {
				logger.Warn("audit retention failed", "error", err)
			}
			return
		}
		if n > 0 {
			logger.Info("audit entries pruned", "count", n)
		}
	}

	prune()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			prune()
		}
	}
}
