package ipc_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"vigil/internal/daemon"
	"vigil/internal/ipc"
	"vigil/internal/journal"
	"vigil/internal/launcher"
	"vigil/internal/liveness"
	"vigil/internal/logging"
	"vigil/internal/monitor"
	"vigil/internal/report"
	"vigil/internal/testsupport"
)

func TestIPCServerClient(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	logger := logging.NewNop()

	store, err := journal.Open(cfg)
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}

	provider := testsupport.NewFakeProvider()
	provider.SetRunning("alpha", true)
	provider.SetRunning("beta", false)

	sink := &testsupport.MemorySink{}
	notifier := testsupport.NopNotifier{}
	starter := launcher.New(cfg.LaunchPaths(), sink, logger)
	tracker := liveness.New(starter, sink, logger, store, notifier)
	reporter := report.New(cfg.MemoryThresholdMB(), sink, logger, store, notifier)
	mon := monitor.New(cfg, provider, reporter, tracker, store, logger)

	d, err := daemon.New(cfg, store, logger, mon)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	socket := filepath.Join(cfg.Paths.LogDir, "vigil.sock")
	srv, err := ipc.NewServer(ctx, socket, d, logger)
	if err != nil {
		if strings.Contains(err.Error(), "operation not permitted") {
			t.Skipf("skipping IPC server test: %v", err)
		}
		t.Fatalf("ipc.NewServer: %v", err)
	}
	srv.Serve()
	t.Cleanup(func() { srv.Close() })

	time.Sleep(50 * time.Millisecond)

	client, err := ipc.Dial(socket)
	if err != nil {
		t.Fatalf("ipc.Dial: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	startResp, err := client.Start()
	if err != nil {
		t.Fatalf("Start RPC failed: %v", err)
	}
	if !startResp.Started {
		t.Fatalf("expected Started=true, message=%s", startResp.Message)
	}

	status, err := client.Status()
	if err != nil {
		t.Fatalf("Status RPC failed: %v", err)
	}
	if !status.Running {
		t.Fatal("expected daemon to be running")
	}
	if len(status.Watched) != 2 {
		t.Fatalf("expected 2 watched processes, got %v", status.Watched)
	}
	if status.PID != os.Getpid() {
		t.Fatalf("expected status PID %d, got %d", os.Getpid(), status.PID)
	}

	cycleResp, err := client.Cycle()
	if err != nil {
		t.Fatalf("Cycle RPC failed: %v", err)
	}
	if !cycleResp.Ran {
		t.Fatalf("expected cycle to run: %s", cycleResp.Message)
	}

	// The forced cycle saw beta absent, so the outage shows in status and an
	// offline event lands in history.
	status, err = client.Status()
	if err != nil {
		t.Fatalf("Status RPC failed: %v", err)
	}
	var betaDown bool
	for _, outage := range status.Down {
		if outage.Process == "beta" {
			betaDown = true
		}
	}
	if !betaDown {
		t.Fatalf("expected beta in down list, got %#v", status.Down)
	}

	histResp, err := client.HistoryList(10, []string{string(journal.KindOfflineDetected)})
	if err != nil {
		t.Fatalf("HistoryList RPC failed: %v", err)
	}
	if len(histResp.Events) != 1 || histResp.Events[0].Process != "beta" {
		t.Fatalf("expected one offline event for beta, got %#v", histResp.Events)
	}

	if _, err := client.HistoryList(10, []string{"bogus"}); err == nil {
		t.Fatal("expected error for unknown event kind")
	}

	logPath := d.LogPath()
	if err := os.WriteFile(logPath, []byte("first\nsecond\nthird\n"), 0o644); err != nil {
		t.Fatalf("write log file: %v", err)
	}
	logResp, err := client.LogTail(ipc.LogTailRequest{Offset: -1, Limit: 2})
	if err != nil {
		t.Fatalf("LogTail failed: %v", err)
	}
	if len(logResp.Lines) != 2 || logResp.Lines[0] != "second" || logResp.Lines[1] != "third" {
		t.Fatalf("unexpected log tail response: %#v", logResp.Lines)
	}

	notifyResp, err := client.TestNotification()
	if err != nil {
		t.Fatalf("TestNotification failed: %v", err)
	}
	if notifyResp == nil || notifyResp.Message == "" {
		t.Fatalf("expected notification message, got %#v", notifyResp)
	}

	clearResp, err := client.HistoryClear()
	if err != nil {
		t.Fatalf("HistoryClear failed: %v", err)
	}
	if clearResp.Removed < 1 {
		t.Fatalf("expected at least one event cleared, got %d", clearResp.Removed)
	}

	stopResp, err := client.Stop()
	if err != nil {
		t.Fatalf("Stop RPC failed: %v", err)
	}
	if !stopResp.Stopped {
		t.Fatal("expected stop response to be true")
	}

	status, err = client.Status()
	if err != nil {
		t.Fatalf("Status RPC failed: %v", err)
	}
	if status.Running {
		t.Fatal("expected daemon to be stopped")
	}
}
