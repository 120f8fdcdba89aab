// Package procs provides the process-table capability the monitor consumes:
// snapshot enumeration with working-set and window metadata, and by-name
// liveness queries.
package procs
