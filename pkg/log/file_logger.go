package log

import (
	"bufio"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/fxamacker/cbor/v2"
)

// FileLogger writes events as a stream of CBOR items.
// It is safe for concurrent use from multiple goroutines.
type FileLogger struct {
	mu      sync.Mutex
	out     io.WriteCloser
	buf     *bufio.Writer
	encoder *cbor.Encoder
	closed  bool

	dropped atomic.Uint64
}

// NewFileLogger opens path for appending, creating it with mode 0644 if
// needed, and logs events to it.
func NewFileLogger(path string) (*FileLogger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return NewStreamLogger(f), nil
}

// NewStreamLogger logs events to w. Close closes w.
func NewStreamLogger(w io.WriteCloser) *FileLogger {
	buf := bufio.NewWriter(w)
	return &FileLogger{
		out:     w,
		buf:     buf,
		encoder: NewEncoder(buf),
	}
}

// Log encodes the event. Events that fail to encode are counted and
// dropped; logging never fails the caller.
func (l *FileLogger) Log(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}
	if err := l.encoder.Encode(event); err != nil {
		l.dropped.Add(1)
	}
}

// Flush writes buffered events to the underlying file.
func (l *FileLogger) Flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	return l.buf.Flush()
}

// Dropped returns the number of events that could not be written.
func (l *FileLogger) Dropped() uint64 {
	return l.dropped.Load()
}

// Close flushes and closes the log. Subsequent Log calls are ignored.
// It is safe to call Close multiple times.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true

	flushErr := l.buf.Flush()
	if err := l.out.Close(); err != nil {
		return err
	}
	return flushErr
}

var _ Logger = (*FileLogger)(nil)
