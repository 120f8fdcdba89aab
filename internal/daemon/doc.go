// Package daemon ties the watchdog together: it owns the single-instance
// lock, starts and stops the monitor loop, and exposes the operations the
// IPC surface forwards to.
package daemon
