package daemon

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"

	"log/slog"

	"github.com/gofrs/flock"

	"vigil/internal/config"
	"vigil/internal/journal"
	"vigil/internal/logging"
	"vigil/internal/monitor"
	"vigil/internal/notifications"
)

// Daemon coordinates the monitor loop and enforces single-instance execution.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *journal.Store
	monitor *monitor.Monitor
	logPath string

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	Monitor      monitor.Status
	JournalPath  string
	LockFilePath string
}

// New constructs a daemon with initialized dependencies. The journal store
// may be nil when history is disabled.
func New(cfg *config.Config, store *journal.Store, logger *slog.Logger, mon *monitor.Monitor) (*Daemon, error) {
	if cfg == nil || logger == nil || mon == nil {
		return nil, errors.New("daemon requires config, logger, and monitor")
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "vigild.lock")
	return &Daemon{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		monitor:  mon,
		logPath:  filepath.Join(cfg.Paths.LogDir, "vigil.log"),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock and launches the monitor loop.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another vigil daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	if err := d.monitor.Start(d.ctx); err != nil {
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx = nil
		d.cancel = nil
		return fmt.Errorf("start monitor: %w", err)
	}

	d.running.Store(true)
	d.logger.Info("vigil daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop stops the monitor loop and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.monitor.Stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("vigil daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// RunCycleNow triggers one monitoring cycle outside the regular schedule.
// It queues behind any cycle already in flight.
func (d *Daemon) RunCycleNow(ctx context.Context) error {
	if !d.running.Load() {
		return errors.New("daemon is not running")
	}
	d.monitor.RunCycle(ctx)
	return nil
}

// History returns recent journal events, optionally filtered by kind.
func (d *Daemon) History(ctx context.Context, limit int, kinds ...journal.Kind) ([]journal.Event, error) {
	if d.store == nil {
		return nil, errors.New("history is disabled in configuration")
	}
	return d.store.Recent(ctx, limit, kinds...)
}

// ClearHistory removes all journal events.
func (d *Daemon) ClearHistory(ctx context.Context) (int64, error) {
	if d.store == nil {
		return 0, errors.New("history is disabled in configuration")
	}
	return d.store.Clear(ctx)
}

// TestNotification triggers a test notification using the current configuration.
func (d *Daemon) TestNotification(ctx context.Context) (bool, string, error) {
	if d.cfg == nil {
		return false, "configuration unavailable", errors.New("configuration unavailable")
	}
	if strings.TrimSpace(d.cfg.Notifications.NtfyTopic) == "" {
		return false, "ntfy topic not configured", nil
	}
	notifier := notifications.NewService(d.cfg)
	if err := notifier.TestNotification(ctx); err != nil {
		return false, "failed to send notification", err
	}
	return true, "test notification sent", nil
}

// NotificationsConfigured reports whether an ntfy topic is set.
func (d *Daemon) NotificationsConfigured() bool {
	return strings.TrimSpace(d.cfg.Notifications.NtfyTopic) != ""
}

// LogPath returns the path to the daemon log file.
func (d *Daemon) LogPath() string {
	return d.logPath
}

// Status returns the current daemon status.
func (d *Daemon) Status() Status {
	status := Status{
		Running:      d.running.Load(),
		Monitor:      d.monitor.Status(),
		LockFilePath: d.lockPath,
	}
	if d.store != nil {
		status.JournalPath = d.store.Path()
	}
	return status
}
