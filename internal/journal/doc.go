// Package journal records watchdog decisions (offline detections, restarts,
// memory alerts, cycle errors) in a SQLite database for later inspection via
// the CLI. The daemon only appends; nothing in the monitoring core reads it.
package journal
