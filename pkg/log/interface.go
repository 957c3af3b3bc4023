// Package log is the structured logging layer of scitree.
//
// Loggers take slog-style alternating key/value fields and are backed by
// zerolog. The tree trainer reports node expansion, chosen splits and pruning
// through it; the keys it uses are declared in attributes.go.
//
//	logger := log.GetLoggerWithName("tree.trainer").With(log.ModelNameKey, "DecisionTreeClassifier")
//	logger.Info("Training started", log.SamplesKey, 150, log.FeaturesKey, 4)
package log

import "context"

// Logger accepts a message plus alternating key/value fields. An error
// passed as the first field of Error is logged with its stack trace.
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Warn(msg string, fields ...any)
	Error(msg string, fields ...any)

	// With returns a child logger that adds fields to every record.
	With(fields ...any) Logger

	// Enabled lets callers skip building expensive fields, such as the
	// rendering of a node's column errors, when level is filtered out.
	Enabled(ctx context.Context, level Level) bool
}

// Level uses the numeric values of slog.Level.
type Level int

const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// LoggerProvider hands out loggers that share one sink and level.
type LoggerProvider interface {
	GetLogger() Logger
	GetLoggerWithName(name string) Logger
	SetLevel(level Level)
}
