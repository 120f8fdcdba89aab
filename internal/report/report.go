package report

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"vigil/internal/journal"
	"vigil/internal/logging"
	"vigil/internal/logsink"
	"vigil/internal/notifications"
	"vigil/internal/procs"
)

// nameWidth aligns process names in the routine log so memory columns line up.
const nameWidth = 30

const bytesPerMB = 1048576

// Reporter writes one routine log line per windowed process and raises an
// alert when a process crosses the memory threshold. It never mutates
// process state.
type Reporter struct {
	thresholdMB float64
	sink        logsink.Sink
	logger      *slog.Logger
	recorder    journal.Recorder
	notifier    notifications.Service
}

// New builds a reporter against a fixed threshold in MB.
func New(thresholdMB float64, sink logsink.Sink, logger *slog.Logger, recorder journal.Recorder, notifier notifications.Service) *Reporter {
	return &Reporter{
		thresholdMB: thresholdMB,
		sink:        sink,
		logger:      logging.NewComponentLogger(logger, "report"),
		recorder:    recorder,
		notifier:    notifier,
	}
}

// MemoryMB converts a working set to MB rounded to two decimals.
func MemoryMB(workingSetBytes uint64) float64 {
	return math.Round(float64(workingSetBytes)/bytesPerMB*100) / 100
}

// Report processes every windowed record in the snapshot. A record that
// exited between enumeration and attribute read is skipped with a diagnostic
// event; it never aborts the rest of the snapshot.
func (r *Reporter) Report(ctx context.Context, snapshot []procs.Record) {
	for _, record := range snapshot {
		if !record.Windowed() {
			continue
		}
		if record.Exited {
			r.sink.Write(logsink.CategoryEvent, fmt.Sprintf("skipped %s: exited during snapshot read", record.Name))
			r.logger.Info("process exited mid-read",
				logging.String(logging.FieldProcess, record.Name),
				logging.Int("pid", int(record.PID)),
			)
			continue
		}

		memoryMB := MemoryMB(record.WorkingSetBytes)
		r.sink.Write(logsink.CategoryProcess, fmt.Sprintf("%-*s %10.2f MB", nameWidth, record.Name, memoryMB))

		if memoryMB > r.thresholdMB {
			r.alert(ctx, record.Name, memoryMB)
		}
	}
}

func (r *Reporter) alert(ctx context.Context, name string, memoryMB float64) {
	r.sink.Write(logsink.CategoryAlert, fmt.Sprintf("%s exceeded memory threshold: %.2f MB (threshold %.2f MB)", name, memoryMB, r.thresholdMB))
	r.logger.Warn("memory threshold exceeded",
		logging.String(logging.FieldProcess, name),
		logging.Float64("memory_mb", memoryMB),
		logging.Float64("threshold_mb", r.thresholdMB),
		logging.String(logging.FieldEventType, "memory_alert"),
	)
	if err := r.recorder.Record(ctx, journal.KindMemoryAlert, name, "exceeded memory threshold", memoryMB); err != nil {
		r.logger.Warn("journal write failed",
			logging.String(logging.FieldProcess, name),
			logging.Error(err),
		)
	}
	if err := r.notifier.NotifyMemoryAlert(ctx, name, memoryMB, r.thresholdMB); err != nil {
		r.logger.Warn("notification failed",
			logging.String(logging.FieldProcess, name),
			logging.Error(err),
		)
	}
}
