package liveness

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"vigil/internal/journal"
	"vigil/internal/launcher"
	"vigil/internal/logging"
	"vigil/internal/logsink"
	"vigil/internal/notifications"
)

// Debounce is how long a process must be continuously absent before a
// restart is attempted.
const Debounce = time.Minute

// Tracker holds per-process down-time state and decides, once per cycle per
// configured name, whether to record an outage, wait out the debounce window,
// restart, or mark recovery. State lives only in memory; a daemon restart
// starts every process at Up.
type Tracker struct {
	starter  launcher.Starter
	sink     logsink.Sink
	logger   *slog.Logger
	recorder journal.Recorder
	notifier notifications.Service

	// now is swapped in tests.
	now func() time.Time

	mu        sync.Mutex
	downSince map[string]time.Time
}

// New builds a tracker with every configured process considered up.
func New(starter launcher.Starter, sink logsink.Sink, logger *slog.Logger, recorder journal.Recorder, notifier notifications.Service) *Tracker {
	return &Tracker{
		starter:   starter,
		sink:      sink,
		logger:    logging.NewComponentLogger(logger, "liveness"),
		recorder:  recorder,
		notifier:  notifier,
		now:       time.Now,
		downSince: make(map[string]time.Time),
	}
}

// Observe advances the state machine for one process name with the current
// cycle's liveness answer. Transitions log on their edge only; steady states
// are silent.
func (t *Tracker) Observe(ctx context.Context, name string, running bool) {
	t.mu.Lock()
	since, wasDown := t.downSince[name]
	now := t.now()

	switch {
	case running && !wasDown:
		t.mu.Unlock()
		return

	case running && wasDown:
		delete(t.downSince, name)
		t.mu.Unlock()
		t.recovered(ctx, name)

	case !running && !wasDown:
		t.downSince[name] = now
		t.mu.Unlock()
		t.offlineDetected(ctx, name)

	case now.Sub(since) < Debounce:
		t.mu.Unlock()

	default:
		// Debounce elapsed: attempt the restart, then clear down-since no
		// matter how the launch went. A failed launch gets a fresh detection
		// and another attempt one debounce window later.
		delete(t.downSince, name)
		t.mu.Unlock()
		t.restart(ctx, name, now.Sub(since))
	}
}

// DownSince reports when a process was first observed absent in the current
// outage, if it is currently considered down.
func (t *Tracker) DownSince(name string) (time.Time, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	since, ok := t.downSince[name]
	return since, ok
}

// Down returns a copy of the current down-since table.
func (t *Tracker) Down() map[string]time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	down := make(map[string]time.Time, len(t.downSince))
	for name, since := range t.downSince {
		down[name] = since
	}
	return down
}

func (t *Tracker) offlineDetected(ctx context.Context, name string) {
	t.sink.Write(logsink.CategoryEvent, fmt.Sprintf("%s offline detected", name))
	t.logger.Warn("process offline detected",
		logging.String(logging.FieldProcess, name),
		logging.String(logging.FieldEventType, "offline_detected"),
	)
	t.record(ctx, journal.KindOfflineDetected, name, "process offline detected", 0)
	if err := t.notifier.NotifyProcessOffline(ctx, name); err != nil {
		t.notifyFailed(name, err)
	}
}

func (t *Tracker) recovered(ctx context.Context, name string) {
	t.sink.Write(logsink.CategoryEvent, fmt.Sprintf("%s recovered", name))
	t.logger.Info("process recovered",
		logging.String(logging.FieldProcess, name),
		logging.String(logging.FieldEventType, "recovered"),
	)
	t.record(ctx, journal.KindRecovered, name, "process recovered", 0)
	if err := t.notifier.NotifyProcessRecovered(ctx, name); err != nil {
		t.notifyFailed(name, err)
	}
}

func (t *Tracker) restart(ctx context.Context, name string, downFor time.Duration) {
	outcome := t.starter.Start(ctx, name)
	switch outcome {
	case launcher.OutcomeStarted:
		t.record(ctx, journal.KindRestartAttempted, name, fmt.Sprintf("restarted after %s offline", downFor.Round(time.Second)), 0)
		if err := t.notifier.NotifyProcessRestarted(ctx, name, downFor); err != nil {
			t.notifyFailed(name, err)
		}
	default:
		t.record(ctx, journal.KindRestartFailed, name, outcome.String(), 0)
		if err := t.notifier.NotifyRestartFailed(ctx, name, outcome.String()); err != nil {
			t.notifyFailed(name, err)
		}
	}
}

func (t *Tracker) record(ctx context.Context, kind journal.Kind, process, detail string, memoryMB float64) {
	if err := t.recorder.Record(ctx, kind, process, detail, memoryMB); err != nil {
		t.logger.Warn("journal write failed",
			logging.String(logging.FieldProcess, process),
			logging.Error(err),
		)
	}
}

func (t *Tracker) notifyFailed(name string, err error) {
	t.logger.Warn("notification failed",
		logging.String(logging.FieldProcess, name),
		logging.Error(err),
	)
}
