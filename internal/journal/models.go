package journal

import (
	"context"
	"strings"
	"time"
)

// Kind labels a watchdog decision recorded in the journal.
type Kind string

const (
	KindOfflineDetected  Kind = "offline_detected"
	KindRecovered        Kind = "recovered"
	KindRestartAttempted Kind = "restart_attempted"
	KindRestartFailed    Kind = "restart_failed"
	KindMemoryAlert      Kind = "memory_alert"
	KindCycleError       Kind = "cycle_error"
)

// Kinds lists every journal kind in display order.
func Kinds() []Kind {
	return []Kind{
		KindOfflineDetected,
		KindRecovered,
		KindRestartAttempted,
		KindRestartFailed,
		KindMemoryAlert,
		KindCycleError,
	}
}

// ParseKind maps a user-supplied string to a Kind.
func ParseKind(value string) (Kind, bool) {
	candidate := Kind(strings.ToLower(strings.TrimSpace(value)))
	for _, kind := range Kinds() {
		if kind == candidate {
			return kind, true
		}
	}
	return "", false
}

// Event is one journal row.
type Event struct {
	ID        int64
	RunID     string
	Kind      Kind
	Process   string
	Detail    string
	MemoryMB  float64
	CreatedAt time.Time
}

// Recorder receives watchdog events. The sqlite store implements it; a
// NopRecorder stands in when the journal is disabled.
type Recorder interface {
	Record(ctx context.Context, kind Kind, process, detail string, memoryMB float64) error
}

// NopRecorder discards events.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, Kind, string, string, float64) error { return nil }
