// Package logs reads the daemon log file for the show command: last-N
// lines, offset-based resume, and bounded follow-style waiting.
package logs
