package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	scierrors "github.com/YuminosukeSato/scitree/pkg/errors"
)

const (
	// ErrAttrKey is the field name under which errors are emitted.
	ErrAttrKey = "error"
	// StacktraceAttrKey is the field name for the stack trace recorded by cockroachdb/errors.
	StacktraceAttrKey = "stacktrace"
	// ComponentAttrKey is set by GetLoggerWithName.
	ComponentAttrKey = "component"
)

// ZerologLogger adapts a zerolog.Logger to the Logger interface.
type ZerologLogger struct {
	logger zerolog.Logger
}

// NewZerologLogger wraps an existing zerolog logger.
func NewZerologLogger(logger zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{logger: logger}
}

// Debug implements Logger.Debug.
func (z *ZerologLogger) Debug(msg string, fields ...any) {
	z.emit(z.logger.Debug(), msg, fields)
}

// Info implements Logger.Info.
func (z *ZerologLogger) Info(msg string, fields ...any) {
	z.emit(z.logger.Info(), msg, fields)
}

// Warn implements Logger.Warn.
func (z *ZerologLogger) Warn(msg string, fields ...any) {
	z.emit(z.logger.Warn(), msg, fields)
}

// Error implements Logger.Error. An error passed as the first field is
// attached with its stack trace.
func (z *ZerologLogger) Error(msg string, fields ...any) {
	z.emit(z.logger.Error(), msg, fields)
}

// With implements Logger.With.
func (z *ZerologLogger) With(fields ...any) Logger {
	ctx := z.logger.With()
	for i := 0; i < len(fields)-1; i += 2 {
		key := fmt.Sprintf("%v", fields[i])
		switch v := fields[i+1].(type) {
		case error:
			ctx = ctx.AnErr(key, v)
		case string:
			ctx = ctx.Str(key, v)
		default:
			ctx = ctx.Interface(key, v)
		}
	}
	return &ZerologLogger{logger: ctx.Logger()}
}

// Enabled implements Logger.Enabled.
func (z *ZerologLogger) Enabled(_ context.Context, level Level) bool {
	return z.logger.GetLevel() <= toZerologLevel(level)
}

func (z *ZerologLogger) emit(e *zerolog.Event, msg string, fields []any) {
	if e == nil {
		return
	}
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			attachError(e, ErrAttrKey, err)
			fields = fields[1:]
		}
	}
	for i := 0; i < len(fields)-1; i += 2 {
		key := fmt.Sprintf("%v", fields[i])
		switch v := fields[i+1].(type) {
		case zerolog.LogObjectMarshaler:
			e.Object(key, v)
		case error:
			attachError(e, key, v)
		case string:
			e.Str(key, v)
		case int:
			e.Int(key, v)
		case int64:
			e.Int64(key, v)
		case float64:
			e.Float64(key, v)
		case bool:
			e.Bool(key, v)
		default:
			e.Interface(key, v)
		}
	}
	e.Msg(msg)
}

func attachError(e *zerolog.Event, key string, err error) {
	e.AnErr(key, err)
	if st := extractStacktrace(err); st != "" {
		e.Str(StacktraceAttrKey, st)
	}
}

// extractStacktrace returns the first safe detail recorded by
// cockroachdb/errors, which holds the stack of the innermost WithStack.
func extractStacktrace(err error) string {
	safeDetails := errors.GetSafeDetails(err).SafeDetails
	if len(safeDetails) > 0 {
		return safeDetails[0]
	}
	return ""
}

// ZerologProvider implements LoggerProvider on top of zerolog.
type ZerologProvider struct {
	mu   sync.RWMutex
	base zerolog.Logger
}

// NewZerologProvider creates a provider writing to w at the given level.
// When pretty is set output goes through zerolog.ConsoleWriter.
func NewZerologProvider(w io.Writer, level Level, pretty bool) *ZerologProvider {
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	base := zerolog.New(w).With().Timestamp().Logger().Level(toZerologLevel(level))
	return &ZerologProvider{base: base}
}

// GetLogger implements LoggerProvider.GetLogger.
func (p *ZerologProvider) GetLogger() Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return &ZerologLogger{logger: p.base}
}

// GetLoggerWithName implements LoggerProvider.GetLoggerWithName.
func (p *ZerologProvider) GetLoggerWithName(name string) Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return &ZerologLogger{logger: p.base.With().Str(ComponentAttrKey, name).Logger()}
}

// SetLevel implements LoggerProvider.SetLevel.
func (p *ZerologProvider) SetLevel(level Level) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.base = p.base.Level(toZerologLevel(level))
}

var (
	providerMu sync.RWMutex
	provider   LoggerProvider = NewZerologProvider(os.Stderr, LevelWarn, false)
)

// SetProvider replaces the package level provider used by GetLogger and
// GetLoggerWithName.
func SetProvider(p LoggerProvider) {
	providerMu.Lock()
	defer providerMu.Unlock()
	provider = p
}

// GetLogger returns the default logger of the package level provider.
func GetLogger() Logger {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return provider.GetLogger()
}

// GetLoggerWithName returns a logger tagged with the given component name.
func GetLoggerWithName(name string) Logger {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return provider.GetLoggerWithName(name)
}

// SetLevel changes the minimum level of the package level provider.
func SetLevel(level Level) {
	providerMu.RLock()
	defer providerMu.RUnlock()
	provider.SetLevel(level)
}

// SetupLogger installs a zerolog provider writing to w and routes
// warnings raised through pkg/errors into it.
func SetupLogger(loglevel string, w io.Writer, pretty bool) error {
	level, err := ParseLevel(loglevel)
	if err != nil {
		return err
	}
	p := NewZerologProvider(w, level, pretty)
	SetProvider(p)

	warnLogger := p.GetLoggerWithName("warnings")
	scierrors.SetZerologWarnFunc(func(warning error) {
		if obj, ok := warning.(zerolog.LogObjectMarshaler); ok {
			warnLogger.Warn(warning.Error(), "warning", obj)
			return
		}
		warnLogger.Warn(warning.Error())
	})
	return nil
}

// ParseLevel converts a textual level into a Level.
func ParseLevel(level string) (Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, scierrors.NewValidationError("log_level", "must be one of debug, info, warn, error", level)
	}
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}
