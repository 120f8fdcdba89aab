package ipc

import "time"

// StartRequest resumes monitoring after a stop.
type StartRequest struct{}

// StartResponse indicates whether monitoring was started.
type StartResponse struct {
	Started bool   `json:"started"`
	Message string `json:"message"`
}

// StopRequest stops monitoring.
type StopRequest struct{}

// StopResponse indicates stop result.
type StopResponse struct {
	Stopped bool `json:"stopped"`
}

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// ProcessOutage describes one currently-down watched process.
type ProcessOutage struct {
	Process   string    `json:"process"`
	DownSince time.Time `json:"down_since"`
}

// StatusResponse represents combined daemon/monitor status information.
type StatusResponse struct {
	Running          bool            `json:"running"`
	PID              int             `json:"pid"`
	Watched          []string        `json:"watched"`
	PollIntervalMS   int64           `json:"poll_interval_ms"`
	Cycles           uint64          `json:"cycles"`
	LastCycle        time.Time       `json:"last_cycle"`
	Down             []ProcessOutage `json:"down"`
	LockPath         string          `json:"lock_path"`
	JournalPath      string          `json:"journal_path"`
	NotifyConfigured bool            `json:"notify_configured"`
}

// CycleRequest triggers one monitoring cycle immediately.
type CycleRequest struct{}

// CycleResponse reports whether the cycle ran.
type CycleResponse struct {
	Ran     bool   `json:"ran"`
	Message string `json:"message"`
}

// HistoryListRequest filters journal events by kind.
type HistoryListRequest struct {
	Limit int      `json:"limit"`
	Kinds []string `json:"kinds"`
}

// HistoryEvent is the wire form of a journal event.
type HistoryEvent struct {
	ID        int64     `json:"id"`
	RunID     string    `json:"run_id"`
	Kind      string    `json:"kind"`
	Process   string    `json:"process"`
	Detail    string    `json:"detail"`
	MemoryMB  float64   `json:"memory_mb"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryListResponse contains journal events, newest first.
type HistoryListResponse struct {
	Events []HistoryEvent `json:"events"`
}

// HistoryClearRequest removes all journal events.
type HistoryClearRequest struct{}

// HistoryClearResponse reports number of removed events.
type HistoryClearResponse struct {
	Removed int64 `json:"removed"`
}

// LogTailRequest fetches log lines based on offset and follow semantics.
type LogTailRequest struct {
	Offset     int64 `json:"offset"`
	Limit      int   `json:"limit"`
	Follow     bool  `json:"follow"`
	WaitMillis int   `json:"wait_millis"`
}

// LogTailResponse returns log lines and the next offset.
type LogTailResponse struct {
	Lines  []string `json:"lines"`
	Offset int64    `json:"offset"`
}

// TestNotificationRequest triggers a notification test.
type TestNotificationRequest struct{}

// TestNotificationResponse reports notification test outcome.
type TestNotificationResponse struct {
	Sent    bool   `json:"sent"`
	Message string `json:"message"`
}
