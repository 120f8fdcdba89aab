package procs

import (
	"context"
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v3/process"
)

// SystemProvider reads the host process table via gopsutil and window
// metadata via the platform window table.
type SystemProvider struct {
	windows windowTable
}

// NewSystemProvider constructs the host-backed provider.
func NewSystemProvider() *SystemProvider {
	return &SystemProvider{windows: systemWindowTable{}}
}

// Snapshot enumerates all processes. A process that exits between
// enumeration and attribute reads is dropped (unreadable name) or marked
// Exited (unreadable memory); neither fails the snapshot.
func (p *SystemProvider) Snapshot(ctx context.Context) ([]Record, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("enumerate processes: %w", err)
	}

	// Window metadata is best-effort; liveness never depends on it.
	windows, err := p.windows.Lookup()
	if err != nil {
		windows = nil
	}

	records := make([]Record, 0, len(procs))
	for _, proc := range procs {
		name, err := proc.NameWithContext(ctx)
		if err != nil || name == "" {
			continue
		}
		record := Record{PID: proc.Pid, Name: name}
		if info, memErr := proc.MemoryInfoWithContext(ctx); memErr == nil && info != nil {
			record.WorkingSetBytes = info.RSS
		} else {
			record.Exited = true
		}
		if win, ok := windows[proc.Pid]; ok {
			record.WindowHandle = win.Handle
			record.WindowTitle = win.Title
		}
		records = append(records, record)
	}
	return records, nil
}

// IsRunning reports whether any live process matches name.
func (p *SystemProvider) IsRunning(ctx context.Context, name string) (bool, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return false, fmt.Errorf("enumerate processes: %w", err)
	}
	for _, proc := range procs {
		procName, err := proc.NameWithContext(ctx)
		if err != nil {
			continue
		}
		if !strings.EqualFold(procName, name) {
			continue
		}
		if running, err := proc.IsRunningWithContext(ctx); err == nil && running {
			return true, nil
		}
	}
	return false, nil
}
