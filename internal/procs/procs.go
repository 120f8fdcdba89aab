package procs

import "context"

// Record describes one process observed in a snapshot.
type Record struct {
	PID             int32
	Name            string
	WorkingSetBytes uint64
	WindowTitle     string
	WindowHandle    uintptr
	Exited          bool
}

// Windowed reports whether the record belongs to a user-facing application:
// a non-empty window title and a non-zero window handle.
func (r Record) Windowed() bool {
	return r.WindowTitle != "" && r.WindowHandle != 0
}

// Provider is the OS capability surface the monitor depends on: enumerate
// processes and answer liveness queries by name.
type Provider interface {
	// Snapshot returns the current process table. Individual processes that
	// vanish mid-enumeration are dropped or marked Exited, never fail the call.
	Snapshot(ctx context.Context) ([]Record, error)
	// IsRunning reports whether at least one live process has the given name.
	// Matching is case-insensitive.
	IsRunning(ctx context.Context, name string) (bool, error)
}

// Window is a top-level window owned by a process.
type Window struct {
	Handle uintptr
	Title  string
}

// windowTable resolves per-PID window metadata. Hosts without a window
// system return an empty table.
type windowTable interface {
	Lookup() (map[int32]Window, error)
}
