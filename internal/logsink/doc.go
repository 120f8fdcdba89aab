// Package logsink writes the watchdog's append-only category log files, one
// file per date and category, one timestamped line per entry.
package logsink
