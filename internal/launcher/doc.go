// Package launcher restarts watched processes from their configured launch
// paths.
package launcher
