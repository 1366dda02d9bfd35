package logging

import (
	"context"
	"maps"
	"sync"
)

// Entry is one record captured by a MemoryLogger
type Entry struct {
	Level   Level
	Message string
	Err     error
	Fields  Fields
}

// MemoryLogger keeps entries in memory instead of writing them. Loggers
// derived with WithFields share the parent's entry list.
type MemoryLogger struct {
	mu      *sync.Mutex
	entries *[]Entry
	level   Level
	fields  Fields
}

// NewMemoryLogger creates a MemoryLogger that records every level
func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{
		mu:      &sync.Mutex{},
		entries: &[]Entry{},
		level:   DebugLevel,
		fields:  make(Fields),
	}
}

func (m *MemoryLogger) record(level Level, err error, msg string, fields ...Fields) {
	if level < m.level {
		return
	}
	all := make(Fields, len(m.fields))
	maps.Copy(all, m.fields)
	for _, f := range fields {
		maps.Copy(all, f)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	*m.entries = append(*m.entries, Entry{Level: level, Message: msg, Err: err, Fields: all})
}

// Entries returns a copy of everything recorded so far
func (m *MemoryLogger) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, len(*m.entries))
	copy(out, *m.entries)
	return out
}

// EntriesAt returns the recorded entries of one level
func (m *MemoryLogger) EntriesAt(level Level) []Entry {
	var out []Entry
	for _, e := range m.Entries() {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

func (m *MemoryLogger) Debug(msg string, fields ...Fields) {
	m.record(DebugLevel, nil, msg, fields...)
}

func (m *MemoryLogger) Info(msg string, fields ...Fields) {
	m.record(InfoLevel, nil, msg, fields...)
}

func (m *MemoryLogger) Warn(msg string, fields ...Fields) {
	m.record(WarnLevel, nil, msg, fields...)
}

func (m *MemoryLogger) Error(err error, msg string, fields ...Fields) {
	m.record(ErrorLevel, err, msg, fields...)
}

// Fatal records the entry; it does not exit.
func (m *MemoryLogger) Fatal(err error, msg string, fields ...Fields) {
	m.record(FatalLevel, err, msg, fields...)
}

func (m *MemoryLogger) WithFields(fields Fields) Logger {
	newFields := make(Fields, len(m.fields)+len(fields))
	maps.Copy(newFields, m.fields)
	maps.Copy(newFields, fields)
	return &MemoryLogger{
		mu:      m.mu,
		entries: m.entries,
		level:   m.level,
		fields:  newFields,
	}
}

func (m *MemoryLogger) WithContext(ctx context.Context) Logger {
	if fields, ok := fieldsFromContext(ctx); ok {
		return m.WithFields(fields)
	}
	return m
}

func (m *MemoryLogger) SetLevel(level Level) {
	m.level = level
}
