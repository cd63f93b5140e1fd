package testdoubles

import (
	"context"
	"sync"
)

type SpyLogRecord struct {
	Level   string
	Message string
	Args    []any
}

// ContextualLoggerSpy implements both eventstore.Logger and eventstore.ContextualLogger.
type ContextualLoggerSpy struct {
	mu          sync.Mutex
	recordCalls bool
	records     []SpyLogRecord
}

func NewContextualLoggerSpy(recordCalls bool) *ContextualLoggerSpy {
	return &ContextualLoggerSpy{recordCalls: recordCalls}
}

func (s *ContextualLoggerSpy) record(level, msg string, args []any) {
	if !s.recordCalls {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, SpyLogRecord{Level: level, Message: msg, Args: args})
}

func (s *ContextualLoggerSpy) DebugContext(_ context.Context, msg string, args ...any) {
	s.record("debug", msg, args)
}

func (s *ContextualLoggerSpy) InfoContext(_ context.Context, msg string, args ...any) {
	s.record("info", msg, args)
}

func (s *ContextualLoggerSpy) WarnContext(_ context.Context, msg string, args ...any) {
	s.record("warn", msg, args)
}

func (s *ContextualLoggerSpy) ErrorContext(_ context.Context, msg string, args ...any) {
	s.record("error", msg, args)
}

func (s *ContextualLoggerSpy) Debug(msg string, args ...any) { s.record("debug", msg, args) }
func (s *ContextualLoggerSpy) Info(msg string, args ...any)  { s.record("info", msg, args) }
func (s *ContextualLoggerSpy) Warn(msg string, args ...any)  { s.record("warn", msg, args) }
func (s *ContextualLoggerSpy) Error(msg string, args ...any) { s.record("error", msg, args) }

func (s *ContextualLoggerSpy) GetRecords() []SpyLogRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]SpyLogRecord(nil), s.records...)
}

// HasRecord is true if msg was logged at level.
func (s *ContextualLoggerSpy) HasRecord(level, msg string) bool {
	for _, record := range s.GetRecords() {
		if record.Level == level && record.Message == msg {
			return true
		}
	}

	return false
}
