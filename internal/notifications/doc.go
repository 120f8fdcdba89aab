// Package notifications pushes watchdog events (offline detections, restarts,
// memory alerts) to an ntfy topic when one is configured.
package notifications
