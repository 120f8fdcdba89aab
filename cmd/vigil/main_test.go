package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"vigil/internal/config"
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

type cliTestEnv struct {
	cfg        *config.Config
	store      *journal.Store
	provider   *testsupport.FakeProvider
	daemon     *daemon.Daemon
	server     *ipc.Server
	socketPath string
	configPath string
	baseDir    string
	cancel     context.CancelFunc
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Watch.Processes = "alpha,beta"
	cfgVal.Watch.LaunchPaths = "alpha:/usr/bin/alpha;beta:/usr/bin/beta"
	cfgVal.Watch.MemoryThresholdMB = 100
	cfgVal.Watch.PollIntervalMS = 50
	cfg := &cfgVal
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	store, err := journal.Open(cfg)
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}

	logger := logging.NewNop()
	provider := testsupport.NewFakeProvider()
	provider.SetRunning("alpha", true)
	provider.SetRunning("beta", true)

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

	ctx, cancel := context.WithCancel(context.Background())
	socketPath := filepath.Join(cfg.Paths.LogDir, "cli.sock")
	srv, err := ipc.NewServer(ctx, socketPath, d, logger)
	if err != nil {
		cancel()
		if strings.Contains(err.Error(), "operation not permitted") {
			t.Skipf("skipping CLI test: %v", err)
		}
		t.Fatalf("ipc.NewServer: %v", err)
	}
	srv.Serve()

	env := &cliTestEnv{
		cfg:        cfg,
		store:      store,
		provider:   provider,
		daemon:     d,
		server:     srv,
		socketPath: socketPath,
		configPath: configPath,
		baseDir:    base,
		cancel:     cancel,
	}

	t.Cleanup(func() {
		cancel()
		srv.Close()
		d.Close()
		store.Close()
	})

	return env
}

func runCLI(t *testing.T, args []string, socket, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{"--socket", socket}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got %q", needle, haystack)
	}
}

func TestCLIStatusCycleAndHistory(t *testing.T) {
	env := setupCLITestEnv(t)

	if err := env.daemon.Start(context.Background()); err != nil {
		t.Fatalf("daemon.Start: %v", err)
	}
	env.provider.SetRunning("beta", false)

	out, _, err := runCLI(t, []string{"status"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "Running")
	requireContains(t, out, "alpha")
	requireContains(t, out, "beta")

	out, _, err = runCLI(t, []string{"cycle"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("cycle: %v", err)
	}
	requireContains(t, out, "cycle completed")

	out, _, err = runCLI(t, []string{"status"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("status after cycle: %v", err)
	}
	requireContains(t, out, "down")

	out, _, err = runCLI(t, []string{"history"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, string(journal.KindOfflineDetected))
	requireContains(t, out, "beta")

	if _, _, err := runCLI(t, []string{"history", "--kind", "bogus"}, env.socketPath, env.configPath); err == nil {
		t.Fatal("expected error for unknown event kind")
	}

	out, _, err = runCLI(t, []string{"history", "clear"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("history clear: %v", err)
	}
	requireContains(t, out, "Removed")

	out, _, err = runCLI(t, []string{"history"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("history after clear: %v", err)
	}
	requireContains(t, out, "No events recorded")
}

func TestCLIShowCommands(t *testing.T) {
	env := setupCLITestEnv(t)

	logPath := filepath.Join(env.cfg.Paths.LogDir, "vigil.log")
	if err := os.WriteFile(logPath, []byte("first\nsecond\nthird\n"), 0o644); err != nil {
		t.Fatalf("write log file: %v", err)
	}

	out, _, err := runCLI(t, []string{"show", "--lines", "2"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("show --lines: %v", err)
	}
	if !strings.Contains(out, "second") || !strings.Contains(out, "third") {
		t.Fatalf("unexpected show output: %q", out)
	}
	if strings.Contains(out, "first") {
		t.Fatalf("show printed more lines than requested: %q", out)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cmd := newRootCommand()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--socket", env.socketPath, "--config", env.configPath, "show", "--follow"})
	cmd.SetContext(ctx)

	done := make(chan error, 1)
	go func() {
		done <- cmd.Execute()
	}()

	time.Sleep(100 * time.Millisecond)
	if err := appendLine(logPath, "followed"); err != nil {
		t.Fatalf("append log: %v", err)
	}
	time.Sleep(150 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("show --follow execute: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("show --follow did not exit")
	}

	if !strings.Contains(stdout.String(), "followed") {
		t.Fatalf("expected follow output to include new line, got %q", stdout.String())
	}
}

func TestCLITestNotifyWithoutTopic(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"test-notify"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("test-notify: %v", err)
	}
	requireContains(t, out, "ntfy topic not configured")
}

func appendLine(path, line string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(line + "\n")
	return err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\nlog_dir = %q\n\n[watch]\nprocesses = %q\nlaunch_paths = %q\nmemory_threshold_mb = %d\npoll_interval_ms = %d\n",
		cfg.Paths.LogDir,
		cfg.Watch.Processes,
		cfg.Watch.LaunchPaths,
		cfg.Watch.MemoryThresholdMB,
		cfg.Watch.PollIntervalMS,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}
