package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// TestLogger records JSON lines in memory using the same zerolog encoding
// as production loggers, without timestamps.
type TestLogger struct {
	*ZerologLogger
	buffer *bytes.Buffer
}

// NewTestLogger returns a logger capturing records at level or above, and
// the buffer they are written to.
//
//	logger, buf := log.NewTestLogger(log.LevelDebug)
//	trainer.FitWithHooks(x, y, tree.LoggingHooks(logger))
//	assert.True(t, logger.ContainsField(log.ColumnKey, "outlook"))
func NewTestLogger(level Level) (*TestLogger, *bytes.Buffer) {
	buffer := &bytes.Buffer{}
	zl := zerolog.New(zerolog.SyncWriter(buffer)).Level(toZerologLevel(level))
	return &TestLogger{ZerologLogger: NewZerologLogger(zl), buffer: buffer}, buffer
}

// GetLogEntries decodes every captured line.
func (t *TestLogger) GetLogEntries() ([]map[string]interface{}, error) {
	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(t.buffer.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ContainsMessage reports whether any record's message contains message.
func (t *TestLogger) ContainsMessage(message string) bool {
	entries, err := t.GetLogEntries()
	if err != nil {
		return false
	}
	for _, e := range entries {
		if m, ok := e[zerolog.MessageFieldName].(string); ok && strings.Contains(m, message) {
			return true
		}
	}
	return false
}

// ContainsField reports whether a record has key set to value. Numbers
// decode as float64.
func (t *TestLogger) ContainsField(key string, value interface{}) bool {
	entries, err := t.GetLogEntries()
	if err != nil {
		return false
	}
	for _, e := range entries {
		if v, ok := e[key]; ok && v == value {
			return true
		}
	}
	return false
}

// TestLoggerProvider serves one TestLogger; named loggers add ComponentAttrKey.
type TestLoggerProvider struct {
	mu     sync.RWMutex
	logger *TestLogger
}

func NewTestLoggerProvider(level Level) (*TestLoggerProvider, *bytes.Buffer) {
	logger, buffer := NewTestLogger(level)
	return &TestLoggerProvider{logger: logger}, buffer
}

func (p *TestLoggerProvider) GetLogger() Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.logger
}

func (p *TestLoggerProvider) GetLoggerWithName(name string) Logger {
	return p.GetLogger().With(ComponentAttrKey, name)
}

func (p *TestLoggerProvider) SetLevel(level Level) {
	p.mu.Lock()
	defer p.mu.Unlock()
	zl := p.logger.logger.Level(toZerologLevel(level))
	p.logger = &TestLogger{ZerologLogger: NewZerologLogger(zl), buffer: p.logger.buffer}
}
