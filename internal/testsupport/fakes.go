package testsupport

import (
	"context"
	"sync"
	"time"

	"vigil/internal/logsink"
	"vigil/internal/procs"
)

// SinkEntry is one captured log sink write.
type SinkEntry struct {
	Category logsink.Category
	Message  string
}

// MemorySink captures sink writes for assertions.
type MemorySink struct {
	mu      sync.Mutex
	entries []SinkEntry
}

func (s *MemorySink) Write(category logsink.Category, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, SinkEntry{Category: category, Message: message})
}

// Messages returns captured messages for one category, in write order.
func (s *MemorySink) Messages(category logsink.Category) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var messages []string
	for _, entry := range s.entries {
		if entry.Category == category {
			messages = append(messages, entry.Message)
		}
	}
	return messages
}

// Len returns the total number of captured writes.
func (s *MemorySink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// FakeProvider is an in-memory procs.Provider.
type FakeProvider struct {
	mu            sync.Mutex
	records       []procs.Record
	running       map[string]bool
	snapshotErr   error
	snapshotDelay time.Duration
	snapshots     int
}

// NewFakeProvider starts with an empty process table.
func NewFakeProvider() *FakeProvider {
	return &FakeProvider{running: make(map[string]bool)}
}

// SetRecords replaces the snapshot contents.
func (p *FakeProvider) SetRecords(records ...procs.Record) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.records = append([]procs.Record(nil), records...)
}

// SetRunning controls IsRunning answers per process name.
func (p *FakeProvider) SetRunning(name string, running bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.running[name] = running
}

// SetSnapshotErr makes the next snapshots fail.
func (p *FakeProvider) SetSnapshotErr(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snapshotErr = err
}

// SetSnapshotDelay makes snapshots block, for cycle-serialization tests.
func (p *FakeProvider) SetSnapshotDelay(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snapshotDelay = d
}

// Snapshots reports how many snapshots were taken.
func (p *FakeProvider) Snapshots() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshots
}

func (p *FakeProvider) Snapshot(ctx context.Context) ([]procs.Record, error) {
	p.mu.Lock()
	delay := p.snapshotDelay
	err := p.snapshotErr
	records := append([]procs.Record(nil), p.records...)
	p.snapshots++
	p.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (p *FakeProvider) IsRunning(_ context.Context, name string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running[name], nil
}

// Clock is a manually advanced time source.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock starts the clock at the given instant.
func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
