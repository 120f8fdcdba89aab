package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"vigil/internal/ipc"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Vigil", statusWarn, "Not running", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Vigil:", "[WARN] Not running")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Vigil", statusOK, "Running", true)
	if !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestPrintStatusListsOutages(t *testing.T) {
	status := &ipc.StatusResponse{
		Running:        true,
		PID:            4242,
		Watched:        []string{"alpha", "beta"},
		PollIntervalMS: 5000,
		Cycles:         7,
		Down: []ipc.ProcessOutage{
			{Process: "beta", DownSince: time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)},
		},
	}

	var buf bytes.Buffer
	printStatus(&buf, status, false)
	out := buf.String()

	requireContains(t, out, "Running (pid 4242)")
	requireContains(t, out, "5000ms")
	requireContains(t, out, "alpha")
	requireContains(t, out, "down")
	requireContains(t, out, "2026-01-10 09:00:00")
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatalf("expected non-file writer to disable color")
	}
}
