// Package errorsink keeps the append-only fetch error log.
//
// Each record is two lines: a timestamp line formatted as
// "[MM/DD/YYYY hh:mm AM]" followed by the error description. Writers take an
// exclusive flock for the duration of the append so an external maintenance
// tool can count or truncate the file between records.
package errorsink

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"
	"syscall"
	"time"
)

// TimestampLayout is the Go layout of a record's timestamp line, including brackets
const TimestampLayout = "[01/02/2006 03:04 PM]"

var timestampLine = regexp.MustCompile(`^\[\d{2}/\d{2}/\d{4} \d{2}:\d{2} (AM|PM)\]$`)

// Sink records fetch failures
type Sink interface {
	Record(at time.Time, err error) error
}

// FileSink appends records to a text file
type FileSink struct {
	path string
	mu   sync.Mutex
}

// NewFileSink returns a sink writing to path. The file is created on first write.
func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

// Path returns the file the sink appends to
func (s *FileSink) Path() string {
	return s.path
}

// Record appends one timestamped record. Newlines inside the error text are
// folded to spaces so the record stays two lines long.
func (s *FileSink) Record(at time.Time, err error) error {
	if err == nil {
		return errors.New("errorsink: nil error")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, openErr := os.OpenFile(s.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if openErr != nil {
		return fmt.Errorf("failed to open error log: %w", openErr)
	}
	defer file.Close()

	if lockErr := syscall.Flock(int(file.Fd()), syscall.LOCK_EX); lockErr != nil {
		return fmt.Errorf("failed to lock error log: %w", lockErr)
	}
	defer func() { _ = syscall.Flock(int(file.Fd()), syscall.LOCK_UN) }()

	if _, writeErr := file.WriteString(Format(at, err)); writeErr != nil {
		return fmt.Errorf("failed to write error log: %w", writeErr)
	}
	return nil
}

// Format renders a single record
func Format(at time.Time, err error) string {
	desc := strings.Join(strings.Fields(err.Error()), " ")
	return at.Format(TimestampLayout) + "\n" + desc + "\n"
}

// Count returns the number of records in the log at path. A missing file holds
// zero records.
func Count(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}
	defer file.Close()

	if err := syscall.Flock(int(file.Fd()), syscall.LOCK_SH); err != nil {
		return 0, err
	}
	defer func() { _ = syscall.Flock(int(file.Fd()), syscall.LOCK_UN) }()

	count := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if timestampLine.MatchString(scanner.Text()) {
			count++
		}
	}
	return count, scanner.Err()
}

var _ Sink = (*FileSink)(nil)
