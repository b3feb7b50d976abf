package report

import "lilt/pkg/dblog"

// EntryWriter is the part of dblog.Log a LogSink needs.
type EntryWriter interface {
	Printf(opts dblog.Option, format string, args ...any) int
}

// LogSink mirrors harness events into an append-only entry log. Each set
// starts a numbered entry and failures are emphasised.
type LogSink struct {
	log EntryWriter
	// Dropped counts bytes the log could not hold.
	Dropped int
}

// NewLogSink wraps log as a Reporter.
func NewLogSink(log EntryWriter) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Plan(set string, total int) {
	s.Dropped += s.log.Printf(dblog.Numbered, "BEGIN %s (%d cases)", set, total)
}

func (s *LogSink) Pass(index int, name string) {
	s.Dropped += s.log.Printf(dblog.Default, "\n  ok %d %s", index+1, name)
}

func (s *LogSink) Fail(index int, name, reason string) {
	s.Dropped += s.log.Printf(dblog.Emphasis, "not ok %d %s: %s", index+1, name, reason)
}

func (s *LogSink) Summary(set string, passed, total int) {
	s.Dropped += s.log.Printf(dblog.Numbered, "FINISHED %s: passed %d/%d", set, passed, total)
}
