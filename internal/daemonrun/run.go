package daemonrun

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"vigil/internal/config"
	"vigil/internal/daemon"
	"vigil/internal/ipc"
	"vigil/internal/journal"
	"vigil/internal/launcher"
	"vigil/internal/liveness"
	"vigil/internal/logging"
	"vigil/internal/logsink"
	"vigil/internal/monitor"
	"vigil/internal/notifications"
	"vigil/internal/procs"
	"vigil/internal/report"
)

// Options configures daemon process runtime behavior.
type Options struct {
	LogLevel   string
	SocketPath string
}

// Run wires the watchdog together and blocks until a stop signal arrives.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("prepare log directory: %w", err)
	}

	logPath := filepath.Join(cfg.Paths.LogDir, "vigil.log")
	level := opts.LogLevel
	if level == "" {
		level = cfg.Logging.Level
	}
	logger, err := logging.New(logging.Options{
		Level:            level,
		Format:           cfg.Logging.Format,
		OutputPaths:      []string{"stdout", logPath},
		ErrorOutputPaths: []string{"stderr", logPath},
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays,
		logging.RetentionTarget{Dir: cfg.Paths.LogDir, Pattern: logsink.FilePattern(logsink.CategoryProcess)},
		logging.RetentionTarget{Dir: cfg.Paths.LogDir, Pattern: logsink.FilePattern(logsink.CategoryAlert)},
		logging.RetentionTarget{Dir: cfg.Paths.LogDir, Pattern: logsink.FilePattern(logsink.CategoryEvent)},
	)

	pidPath := filepath.Join(cfg.Paths.LogDir, "vigil.pid")
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	var store *journal.Store
	var recorder journal.Recorder = journal.NopRecorder{}
	if cfg.History.Enabled {
		store, err = journal.Open(cfg)
		if err != nil {
			logger.Error("open journal store", logging.Error(err))
			return err
		}
		recorder = store
	}

	notifier := notifications.NewService(cfg)
	sink := logsink.New(cfg.Paths.LogDir)
	provider := procs.NewSystemProvider()

	starter := launcher.New(cfg.LaunchPaths(), sink, logger)
	tracker := liveness.New(starter, sink, logger, recorder, notifier)
	reporter := report.New(cfg.MemoryThresholdMB(), sink, logger, recorder, notifier)
	mon := monitor.New(cfg, provider, reporter, tracker, recorder, logger)

	d, err := daemon.New(cfg, store, logger, mon)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	socketPath := opts.SocketPath
	if socketPath == "" {
		socketPath = filepath.Join(cfg.Paths.LogDir, "vigil.sock")
	}
	ipcServer, err := ipc.NewServer(signalCtx, socketPath, d, logger)
	if err != nil {
		return fmt.Errorf("start IPC server: %w", err)
	}
	defer ipcServer.Close()
	ipcServer.Serve()

	if err := d.Start(signalCtx); err != nil {
		logger.Error("daemon start failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "daemon_start_failed"),
			logging.String(logging.FieldErrorHint, "check the lock file and log directory permissions"),
		)
		return err
	}

	<-signalCtx.Done()
	logger.Info("vigil daemon shutting down")
	return nil
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}
