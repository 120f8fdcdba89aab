package monitor_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"vigil/internal/journal"
	"vigil/internal/launcher"
	"vigil/internal/liveness"
	"vigil/internal/logging"
	"vigil/internal/logsink"
	"vigil/internal/monitor"
	"vigil/internal/procs"
	"vigil/internal/report"
	"vigil/internal/testsupport"
)

type recordingJournal struct {
	mu    sync.Mutex
	kinds []journal.Kind
}

func (r *recordingJournal) Record(_ context.Context, kind journal.Kind, _, _ string, _ float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds = append(r.kinds, kind)
	return nil
}

func (r *recordingJournal) count(kind journal.Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int
	for _, k := range r.kinds {
		if k == kind {
			n++
		}
	}
	return n
}

func newTestMonitor(t *testing.T, provider procs.Provider) (*monitor.Monitor, *testsupport.MemorySink, *recordingJournal) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	sink := &testsupport.MemorySink{}
	rec := &recordingJournal{}
	logger := logging.NewNop()
	notifier := testsupport.NopNotifier{}

	paths := cfg.LaunchPaths()
	starter := launcher.New(paths, sink, logger)
	tracker := liveness.New(starter, sink, logger, rec, notifier)
	reporter := report.New(cfg.MemoryThresholdMB(), sink, logger, rec, notifier)
	return monitor.New(cfg, provider, reporter, tracker, rec, logger), sink, rec
}

func TestCycleReportsAndTracks(t *testing.T) {
	provider := testsupport.NewFakeProvider()
	provider.SetRecords(procs.Record{
		PID: 10, Name: "alpha", WorkingSetBytes: 50 * 1048576, WindowTitle: "main", WindowHandle: 0x20,
	})
	provider.SetRunning("alpha", true)
	provider.SetRunning("beta", false)

	m, sink, _ := newTestMonitor(t, provider)
	m.RunCycle(context.Background())

	routine := sink.Messages(logsink.CategoryProcess)
	if len(routine) != 1 || !strings.Contains(routine[0], "alpha") {
		t.Fatalf("expected routine memory line for alpha, got %v", routine)
	}

	events := sink.Messages(logsink.CategoryEvent)
	if len(events) != 1 || events[0] != "beta offline detected" {
		t.Fatalf("expected offline event for beta, got %v", events)
	}

	status := m.Status()
	if status.Cycles != 1 {
		t.Fatalf("expected 1 cycle, got %d", status.Cycles)
	}
	if _, down := status.Down["beta"]; !down {
		t.Fatalf("expected beta in down set, got %v", status.Down)
	}
}

func TestSnapshotFailureRecordsCycleError(t *testing.T) {
	provider := testsupport.NewFakeProvider()
	provider.SetSnapshotErr(errors.New("access denied"))

	m, _, rec := newTestMonitor(t, provider)
	m.RunCycle(context.Background())

	if rec.count(journal.KindCycleError) != 1 {
		t.Fatalf("expected 1 cycle error, got %d", rec.count(journal.KindCycleError))
	}

	// The loop recovers: a healthy snapshot on the next cycle works.
	provider.SetSnapshotErr(nil)
	m.RunCycle(context.Background())
	if m.Status().Cycles != 1 {
		t.Fatalf("expected the second cycle to complete, got %d", m.Status().Cycles)
	}
}

type panickingProvider struct {
	panics int32
}

func (p *panickingProvider) Snapshot(context.Context) ([]procs.Record, error) {
	if atomic.AddInt32(&p.panics, 1) == 1 {
		panic("corrupt process table")
	}
	return nil, nil
}

func (p *panickingProvider) IsRunning(context.Context, string) (bool, error) {
	return true, nil
}

func TestCyclePanicIsContained(t *testing.T) {
	provider := &panickingProvider{}
	m, _, rec := newTestMonitor(t, provider)

	m.RunCycle(context.Background())
	if rec.count(journal.KindCycleError) != 1 {
		t.Fatalf("expected panic recorded as cycle error, got %d", rec.count(journal.KindCycleError))
	}

	m.RunCycle(context.Background())
	if m.Status().Cycles != 1 {
		t.Fatal("expected the monitor to keep cycling after a panic")
	}
}

type overlapProvider struct {
	active  int32
	overlap int32
}

func (p *overlapProvider) Snapshot(context.Context) ([]procs.Record, error) {
	if atomic.AddInt32(&p.active, 1) > 1 {
		atomic.StoreInt32(&p.overlap, 1)
	}
	time.Sleep(10 * time.Millisecond)
	atomic.AddInt32(&p.active, -1)
	return nil, nil
}

func (p *overlapProvider) IsRunning(context.Context, string) (bool, error) {
	return true, nil
}

func TestConcurrentCyclesNeverInterleave(t *testing.T) {
	provider := &overlapProvider{}
	m, _, _ := newTestMonitor(t, provider)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RunCycle(context.Background())
		}()
	}
	wg.Wait()

	if atomic.LoadInt32(&provider.overlap) != 0 {
		t.Fatal("two cycles ran concurrently")
	}
	if m.Status().Cycles != 5 {
		t.Fatalf("expected all 5 queued cycles to run, got %d", m.Status().Cycles)
	}
}

func TestStartStop(t *testing.T) {
	provider := testsupport.NewFakeProvider()
	provider.SetRunning("alpha", true)
	provider.SetRunning("beta", true)

	m, _, _ := newTestMonitor(t, provider)
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := m.Start(context.Background()); err == nil {
		t.Fatal("expected second Start to fail")
	}

	deadline := time.Now().Add(2 * time.Second)
	for m.Status().Cycles < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if m.Status().Cycles < 2 {
		t.Fatalf("expected at least 2 cycles, got %d", m.Status().Cycles)
	}

	m.Stop()
	if m.Status().Running {
		t.Fatal("expected stopped status")
	}
	cycles := m.Status().Cycles
	time.Sleep(120 * time.Millisecond)
	if m.Status().Cycles != cycles {
		t.Fatal("cycles continued after Stop")
	}
}
