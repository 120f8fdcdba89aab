// Package report logs per-cycle memory usage of windowed processes and
// raises alerts above the configured threshold.
package report
