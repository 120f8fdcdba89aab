// Package monitor runs the watchdog poll loop: snapshot, memory report,
// liveness evaluation, on a fixed interval with serialized cycles.
package monitor
