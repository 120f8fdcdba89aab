package launcher

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"

	"vigil/internal/logging"
	"vigil/internal/logsink"
)

// Outcome classifies a start attempt.
type Outcome int

const (
	// OutcomeStarted means the OS accepted the launch.
	OutcomeStarted Outcome = iota
	// OutcomeNoPath means no launch path is configured for the process name;
	// no OS call was attempted.
	OutcomeNoPath
	// OutcomeFailed means the OS rejected the launch.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeStarted:
		return "started"
	case OutcomeNoPath:
		return "no launch path"
	case OutcomeFailed:
		return "launch failed"
	default:
		return "unknown"
	}
}

// Starter restarts a watched process by name.
type Starter interface {
	Start(ctx context.Context, name string) Outcome
}

// Launcher starts processes from the configured name-to-path mapping. Every
// failure mode is absorbed here: the result is an Outcome, never a panic or
// an error the cycle has to handle.
type Launcher struct {
	paths  map[string]string
	sink   logsink.Sink
	logger *slog.Logger

	// startProcess is swapped in tests.
	startProcess func(path string) error
}

// New builds a launcher over the configured path mapping.
func New(paths map[string]string, sink logsink.Sink, logger *slog.Logger) *Launcher {
	return &Launcher{
		paths:        paths,
		sink:         sink,
		logger:       logging.NewComponentLogger(logger, "launcher"),
		startProcess: startDetached,
	}
}

// Start looks up name's launch path and asks the OS to start it.
func (l *Launcher) Start(ctx context.Context, name string) Outcome {
	path, ok := l.paths[name]
	if !ok {
		l.sink.Write(logsink.CategoryEvent, fmt.Sprintf("no launch path configured for %s", name))
		l.logger.Warn("no launch path configured",
			logging.String(logging.FieldProcess, name),
			logging.String(logging.FieldEventType, "launch_path_missing"),
			logging.String(logging.FieldErrorHint, "add the process to watch.launch_paths"),
		)
		return OutcomeNoPath
	}

	if err := l.startProcess(path); err != nil {
		l.sink.Write(logsink.CategoryEvent, fmt.Sprintf("failed to start %s from %s: %v", name, path, err))
		l.logger.Error("process start failed",
			logging.String(logging.FieldProcess, name),
			logging.String("path", path),
			logging.Error(err),
			logging.String(logging.FieldEventType, "launch_failed"),
			logging.String(logging.FieldErrorHint, "verify the launch path exists and is executable"),
		)
		return OutcomeFailed
	}

	l.sink.Write(logsink.CategoryEvent, fmt.Sprintf("started %s", name))
	l.logger.Info("process started",
		logging.String(logging.FieldProcess, name),
		logging.String("path", path),
		logging.String(logging.FieldEventType, "launch_succeeded"),
	)
	return OutcomeStarted
}

// startDetached launches the process detached from the daemon. Stdio is not
// inherited or redirected, so a GUI child owns its own visible window.
func startDetached(path string) error {
	cmd := exec.Command(path)
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}
