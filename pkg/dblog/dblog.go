// Package dblog is a small append-only file logger with a fixed-size entry
// buffer and optional entry numbering.
//
// A Log never grows its buffer: text that does not fit is dropped and the
// number of dropped bytes is returned to the caller. Open and write failures
// put the Log into an invalid state in which every further write is refused.
package dblog

import (
	"errors"
	"fmt"
	"os"
)

// BufferSize is the number of bytes a single entry may hold.
const BufferSize = 247

// EmphasisStyle frames entries written with the Emphasis option.
const EmphasisStyle = "\n[!!!]\n"

// Option modifies how Printf renders an entry. Options may be combined.
type Option int

const (
	Default  Option = 0x0 // raw formatting
	Emphasis Option = 0x1 // framed by EmphasisStyle
	Numbered Option = 0x2 // prefixed by the entry number
)

// ErrInvalid is returned by operations on a Log that is in an error state.
var ErrInvalid = errors.New("dblog: log is in an error state")

// Log appends formatted entries to a file.
type Log struct {
	path  string
	file  *os.File
	buf   []byte
	entry int
	valid bool
}

// Open opens path for appending, creating it if needed.
func Open(path string) (*Log, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &Log{
		path:  path,
		file:  f,
		buf:   make([]byte, 0, BufferSize),
		valid: true,
	}, nil
}

// Path returns the file the log appends to.
func (l *Log) Path() string {
	return l.path
}

// Valid reports whether the log can still accept entries.
func (l *Log) Valid() bool {
	return l.valid
}

// Entries returns how many numbered entries have been written.
func (l *Log) Entries() int {
	return l.entry
}

// Printf formats an entry, buffers it and flushes it to the file. It returns
// the number of bytes that did not fit into the buffer and were dropped.
// When the log is invalid nothing is written and the full length is returned.
func (l *Log) Printf(opts Option, format string, args ...any) int {
	msg := fmt.Sprintf(format, args...)
	if opts&Emphasis != 0 {
		msg = EmphasisStyle + msg + EmphasisStyle
	}
	if opts&Numbered != 0 {
		msg = fmt.Sprintf("\n[%d]. ", l.entry) + msg
	}
	if !l.valid {
		return len(msg)
	}
	if opts&Numbered != 0 {
		l.entry++
	}

	notWritten := l.enqueue(msg)
	if err := l.Flush(); err != nil {
		return len(msg)
	}
	return notWritten
}

// enqueue copies as much of msg as fits into the buffer.
func (l *Log) enqueue(msg string) int {
	room := BufferSize - len(l.buf)
	if len(msg) <= room {
		l.buf = append(l.buf, msg...)
		return 0
	}
	l.buf = append(l.buf, msg[:room]...)
	return len(msg) - room
}

// Flush appends the buffered bytes to the file and clears the buffer.
func (l *Log) Flush() error {
	if !l.valid {
		return ErrInvalid
	}
	if len(l.buf) == 0 {
		return nil
	}
	if _, err := l.file.Write(l.buf); err != nil {
		l.valid = false
		return fmt.Errorf("write %s: %w", l.path, err)
	}
	l.buf = l.buf[:0]
	return nil
}

// Close flushes any pending bytes and closes the file. The log is invalid
// afterwards.
func (l *Log) Close() error {
	if !l.valid {
		return ErrInvalid
	}
	flushErr := l.Flush()
	l.valid = false
	if err := l.file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", l.path, err)
	}
	return flushErr
}
