package report_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"vigil/internal/journal"
	"vigil/internal/logging"
	"vigil/internal/logsink"
	"vigil/internal/procs"
	"vigil/internal/report"
	"vigil/internal/testsupport"
)

type countingNotifier struct {
	alerts int
}

func (n *countingNotifier) NotifyProcessOffline(context.Context, string) error { return nil }
func (n *countingNotifier) NotifyProcessRestarted(context.Context, string, time.Duration) error {
	return nil
}
func (n *countingNotifier) NotifyRestartFailed(context.Context, string, string) error { return nil }
func (n *countingNotifier) NotifyProcessRecovered(context.Context, string) error      { return nil }
func (n *countingNotifier) NotifyMemoryAlert(context.Context, string, float64, float64) error {
	n.alerts++
	return nil
}
func (n *countingNotifier) NotifyError(context.Context, error, string) error { return nil }
func (n *countingNotifier) TestNotification(context.Context) error           { return nil }

func TestMemoryMBRounding(t *testing.T) {
	tests := []struct {
		bytes uint64
		want  float64
	}{
		{0, 0},
		{1048576, 1},
		{1572864, 1.5},
		{104857600, 100},
		{104847114, 99.99},
		{104868086, 100.01},
	}
	for _, tt := range tests {
		if got := report.MemoryMB(tt.bytes); got != tt.want {
			t.Fatalf("MemoryMB(%d) = %v, want %v", tt.bytes, got, tt.want)
		}
	}
}

func TestReportFiltersToWindowedProcesses(t *testing.T) {
	sink := &testsupport.MemorySink{}
	r := report.New(1024, sink, logging.NewNop(), journal.NopRecorder{}, &countingNotifier{})

	r.Report(context.Background(), []procs.Record{
		{PID: 1, Name: "editor", WorkingSetBytes: 200 * 1048576, WindowTitle: "notes.txt", WindowHandle: 0x40},
		{PID: 2, Name: "helper", WorkingSetBytes: 500 * 1048576},                    // no window
		{PID: 3, Name: "splash", WorkingSetBytes: 100 * 1048576, WindowHandle: 0x9}, // no title
		{PID: 4, Name: "ghost", WindowTitle: "gone", WindowHandle: 0x8, Exited: true},
	})

	lines := sink.Messages(logsink.CategoryProcess)
	if len(lines) != 1 {
		t.Fatalf("expected 1 routine line, got %v", lines)
	}
	if !strings.Contains(lines[0], "editor") || !strings.Contains(lines[0], "200.00 MB") {
		t.Fatalf("unexpected routine line: %q", lines[0])
	}

	events := sink.Messages(logsink.CategoryEvent)
	if len(events) != 1 || !strings.Contains(events[0], "ghost") {
		t.Fatalf("expected one skip diagnostic for ghost, got %v", events)
	}
}

func TestAlertRequiresStrictlyExceedingThreshold(t *testing.T) {
	tests := []struct {
		name      string
		bytes     uint64
		wantAlert bool
	}{
		{"just under", 104847114, false}, // 99.99 MB
		{"exactly at threshold", 104857600, false},
		{"just over", 104868086, true}, // 100.01 MB
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &testsupport.MemorySink{}
			notifier := &countingNotifier{}
			r := report.New(100, sink, logging.NewNop(), journal.NopRecorder{}, notifier)

			r.Report(context.Background(), []procs.Record{
				{PID: 7, Name: "browser", WorkingSetBytes: tt.bytes, WindowTitle: "tab", WindowHandle: 0x1},
			})

			alerts := sink.Messages(logsink.CategoryAlert)
			if tt.wantAlert && len(alerts) != 1 {
				t.Fatalf("expected alert, got %v", alerts)
			}
			if !tt.wantAlert && len(alerts) != 0 {
				t.Fatalf("unexpected alert: %v", alerts)
			}
			if tt.wantAlert && notifier.alerts != 1 {
				t.Fatalf("expected alert notification, got %d", notifier.alerts)
			}
			// The routine line is written either way.
			if len(sink.Messages(logsink.CategoryProcess)) != 1 {
				t.Fatal("routine line missing")
			}
		})
	}
}

func TestRoutineLinesAlignNames(t *testing.T) {
	sink := &testsupport.MemorySink{}
	r := report.New(1024, sink, logging.NewNop(), journal.NopRecorder{}, &countingNotifier{})

	r.Report(context.Background(), []procs.Record{
		{PID: 1, Name: "a", WorkingSetBytes: 1048576, WindowTitle: "x", WindowHandle: 0x1},
		{PID: 2, Name: "much-longer-name", WorkingSetBytes: 1048576, WindowTitle: "y", WindowHandle: 0x2},
	})

	lines := sink.Messages(logsink.CategoryProcess)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if len(lines[0]) != len(lines[1]) {
		t.Fatalf("expected aligned columns, got %q vs %q", lines[0], lines[1])
	}
}
