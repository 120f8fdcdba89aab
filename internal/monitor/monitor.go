package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"vigil/internal/config"
	"vigil/internal/journal"
	"vigil/internal/liveness"
	"vigil/internal/logging"
	"vigil/internal/procs"
	"vigil/internal/report"
)

// Status is a point-in-time summary of the monitor for the status surface.
type Status struct {
	Running      bool                 `json:"running"`
	Watched      []string             `json:"watched"`
	PollInterval time.Duration        `json:"pollInterval"`
	Cycles       uint64               `json:"cycles"`
	LastCycle    time.Time            `json:"lastCycle"`
	Down         map[string]time.Time `json:"down,omitempty"`
}

// Monitor drives the poll loop: every tick it snapshots the process table,
// reports memory for windowed processes, and advances the liveness state
// machine for every configured name. Cycles are serialized by cycleMu so an
// externally triggered cycle queues behind the ticker's rather than
// interleaving with it.
type Monitor struct {
	names        []string
	pollInterval time.Duration
	provider     procs.Provider
	reporter     *report.Reporter
	tracker      *liveness.Tracker
	recorder     journal.Recorder
	logger       *slog.Logger

	cycleMu sync.Mutex

	mu        sync.Mutex
	running   bool
	cycles    uint64
	lastCycle time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New wires a monitor from its collaborators. The configured process list and
// interval are fixed for the monitor's lifetime.
func New(cfg *config.Config, provider procs.Provider, reporter *report.Reporter, tracker *liveness.Tracker, recorder journal.Recorder, logger *slog.Logger) *Monitor {
	return &Monitor{
		names:        cfg.RequiredProcesses(),
		pollInterval: cfg.PollInterval(),
		provider:     provider,
		reporter:     reporter,
		tracker:      tracker,
		recorder:     recorder,
		logger:       logging.NewComponentLogger(logger, "monitor"),
	}
}

// Start launches the poll loop. The first cycle runs immediately rather than
// waiting out the first tick.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return fmt.Errorf("monitor already running")
	}
	m.ctx, m.cancel = context.WithCancel(ctx)
	m.running = true
	m.mu.Unlock()

	m.logger.Info("monitor starting",
		logging.Any("processes", m.names),
		logging.Duration("poll_interval", m.pollInterval),
	)

	m.wg.Add(1)
	go m.loop()
	return nil
}

// Stop cancels the loop and waits for any in-flight cycle to finish.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	cancel := m.cancel
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	m.wg.Wait()
	m.logger.Info("monitor stopped")
}

func (m *Monitor) loop() {
	defer m.wg.Done()

	m.RunCycle(m.ctx)

	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.RunCycle(m.ctx)
		}
	}
}

// RunCycle executes one full cycle, queued behind any cycle already in
// flight. Safe to call from outside the loop (e.g. an IPC trigger). A panic
// anywhere in the cycle is caught here; the loop never dies.
func (m *Monitor) RunCycle(ctx context.Context) {
	m.cycleMu.Lock()
	defer m.cycleMu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			m.cycleFailed(ctx, fmt.Errorf("cycle panic: %v", r))
		}
	}()

	if ctx.Err() != nil {
		return
	}

	snapshot, err := m.provider.Snapshot(ctx)
	if err != nil {
		m.cycleFailed(ctx, fmt.Errorf("snapshot process table: %w", err))
		return
	}

	m.reporter.Report(ctx, snapshot)

	// Liveness runs over every configured name whether or not it shows up in
	// the windowed subset.
	for _, name := range m.names {
		running, err := m.provider.IsRunning(ctx, name)
		if err != nil {
			m.logger.Info("liveness query failed, skipping this cycle",
				logging.String(logging.FieldProcess, name),
				logging.Error(err),
			)
			continue
		}
		m.tracker.Observe(ctx, name, running)
	}

	m.mu.Lock()
	m.cycles++
	m.lastCycle = time.Now()
	m.mu.Unlock()
}

// Status reports the loop state and current outages.
func (m *Monitor) Status() Status {
	m.mu.Lock()
	status := Status{
		Running:      m.running,
		Watched:      append([]string(nil), m.names...),
		PollInterval: m.pollInterval,
		Cycles:       m.cycles,
		LastCycle:    m.lastCycle,
	}
	m.mu.Unlock()

	if down := m.tracker.Down(); len(down) > 0 {
		status.Down = down
	}
	return status
}

func (m *Monitor) cycleFailed(ctx context.Context, err error) {
	m.logger.Error("cycle failed",
		logging.Error(err),
		logging.String(logging.FieldEventType, "cycle_error"),
	)
	if recordErr := m.recorder.Record(ctx, journal.KindCycleError, "", err.Error(), 0); recordErr != nil {
		m.logger.Warn("journal write failed", logging.Error(recordErr))
	}
}
