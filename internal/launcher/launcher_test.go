package launcher

import (
	"context"
	"errors"
	"strings"
	"testing"

	"vigil/internal/logging"
	"vigil/internal/logsink"
	"vigil/internal/testsupport"
)

func TestStartOutcomes(t *testing.T) {
	tests := []struct {
		name        string
		process     string
		startErr    error
		wantOutcome Outcome
		wantEvent   string
	}{
		{
			name:        "configured path starts",
			process:     "alpha",
			wantOutcome: OutcomeStarted,
			wantEvent:   "started alpha",
		},
		{
			name:        "missing path skips the OS call",
			process:     "ghost",
			wantOutcome: OutcomeNoPath,
			wantEvent:   "no launch path configured for ghost",
		},
		{
			name:        "OS rejection",
			process:     "alpha",
			startErr:    errors.New("exec format error"),
			wantOutcome: OutcomeFailed,
			wantEvent:   "failed to start alpha from /usr/bin/alpha: exec format error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &testsupport.MemorySink{}
			l := New(map[string]string{"alpha": "/usr/bin/alpha"}, sink, logging.NewNop())

			var calledPath string
			l.startProcess = func(path string) error {
				calledPath = path
				return tt.startErr
			}

			outcome := l.Start(context.Background(), tt.process)
			if outcome != tt.wantOutcome {
				t.Fatalf("outcome = %v, want %v", outcome, tt.wantOutcome)
			}

			if tt.wantOutcome == OutcomeNoPath && calledPath != "" {
				t.Fatalf("start attempted for unconfigured process: %q", calledPath)
			}
			if tt.wantOutcome != OutcomeNoPath && calledPath != "/usr/bin/alpha" {
				t.Fatalf("started wrong path: %q", calledPath)
			}

			events := sink.Messages(logsink.CategoryEvent)
			if len(events) != 1 || events[0] != tt.wantEvent {
				t.Fatalf("events = %v, want [%q]", events, tt.wantEvent)
			}
		})
	}
}

func TestOutcomeString(t *testing.T) {
	for outcome, want := range map[Outcome]string{
		OutcomeStarted: "started",
		OutcomeNoPath:  "no launch path",
		OutcomeFailed:  "launch failed",
		Outcome(99):    "unknown",
	} {
		if got := outcome.String(); !strings.EqualFold(got, want) {
			t.Fatalf("Outcome(%d).String() = %q, want %q", outcome, got, want)
		}
	}
}
