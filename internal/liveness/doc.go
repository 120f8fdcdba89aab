// Package liveness tracks how long required processes have been absent and
// triggers restarts once the debounce window elapses.
package liveness
