package logsink

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Category partitions sink output into separate dated files.
type Category string

const (
	// CategoryProcess holds routine per-process memory lines.
	CategoryProcess Category = "process"
	// CategoryAlert holds memory-threshold alerts.
	CategoryAlert Category = "alert"
	// CategoryEvent holds application events (offline, restart, recovery, errors).
	CategoryEvent Category = "event"
)

const (
	fileDateFormat = "2006-01-02"
	lineTimeFormat = "2006-01-02 15:04:05"
)

// Sink is an append-only, date- and category-partitioned log destination.
// Implementations never propagate write failures to callers.
type Sink interface {
	Write(category Category, message string)
}

// FileSink appends one timestamped line per Write to
// <dir>/<yyyy-mm-dd>-<category>.log. Application events are echoed to the
// console writer; a file write failure is reported to the console only.
type FileSink struct {
	dir     string
	console io.Writer
	now     func() time.Time
}

// New creates a sink rooted at dir.
func New(dir string) *FileSink {
	return &FileSink{
		dir:     dir,
		console: os.Stdout,
		now:     time.Now,
	}
}

// Write appends a line to the category file for today's date.
func (s *FileSink) Write(category Category, message string) {
	now := s.now()
	line := fmt.Sprintf("[%s] %s\n", now.Format(lineTimeFormat), message)

	if category == CategoryEvent {
		fmt.Fprint(s.console, line)
	}

	path := filepath.Join(s.dir, fmt.Sprintf("%s-%s.log", now.Format(fileDateFormat), category))
	if err := s.append(path, line); err != nil {
		fmt.Fprintf(s.console, "vigil: log sink write failed (%s): %v\n", category, err)
	}
}

func (s *FileSink) append(path string, line string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("ensure sink directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o664)
	if err != nil {
		return fmt.Errorf("open sink file: %w", err)
	}
	defer file.Close()
	if _, err := file.WriteString(line); err != nil {
		return fmt.Errorf("append sink line: %w", err)
	}
	return nil
}

// FilePattern matches the dated files one category produces, for retention.
func FilePattern(category Category) string {
	return fmt.Sprintf("*-%s.log", category)
}
