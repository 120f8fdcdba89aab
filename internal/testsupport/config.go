package testsupport

import (
	"testing"

	"vigil/internal/config"
)

// NewConfig returns a valid configuration rooted in a per-test temp directory.
func NewConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Watch.Processes = "alpha,beta"
	cfg.Watch.LaunchPaths = "alpha:/usr/bin/alpha;beta:/usr/bin/beta"
	cfg.Watch.MemoryThresholdMB = 100
	cfg.Watch.PollIntervalMS = 50
	cfg.Paths.LogDir = t.TempDir()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}
