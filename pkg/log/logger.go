package log

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// Logger is the minimal structured logging surface used throughout
// classify. Fields are alternating key/value pairs, slog style. The zerolog
// backend is the default; tests swap in a silent writer.
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Warn(msg string, fields ...any)
	Error(msg string, fields ...any)
	With(fields ...any) Logger
}

var (
	mu     sync.RWMutex
	global Logger = NewZerologLogger(os.Stderr, zerolog.WarnLevel)
)

// SetLogger replaces the package-wide logger.
func SetLogger(l Logger) {
	mu.Lock()
	defer mu.Unlock()
	global = l
}

// GetLogger returns the package-wide logger.
func GetLogger() Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// NewZerologLogger builds a Logger writing JSON lines to w at the given
// level.
func NewZerologLogger(w io.Writer, level zerolog.Level) Logger {
	zl := zerolog.New(w).Level(level).With().Timestamp().Logger()
	return &zerologLogger{zl: zl}
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() Logger {
	return &zerologLogger{zl: zerolog.Nop()}
}

type zerologLogger struct {
	zl zerolog.Logger
}

func (l *zerologLogger) Debug(msg string, fields ...any) { l.emit(l.zl.Debug(), msg, fields) }
func (l *zerologLogger) Info(msg string, fields ...any)  { l.emit(l.zl.Info(), msg, fields) }
func (l *zerologLogger) Warn(msg string, fields ...any)  { l.emit(l.zl.Warn(), msg, fields) }
func (l *zerologLogger) Error(msg string, fields ...any) { l.emit(l.zl.Error(), msg, fields) }

func (l *zerologLogger) With(fields ...any) Logger {
	ctx := l.zl.With()
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		ctx = ctx.Interface(key, fields[i+1])
	}
	return &zerologLogger{zl: ctx.Logger()}
}

func (l *zerologLogger) emit(ev *zerolog.Event, msg string, fields []any) {
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		switch v := fields[i+1].(type) {
		case error:
			ev = ev.AnErr(key, v)
		case zerolog.LogObjectMarshaler:
			ev = ev.Object(key, v)
		default:
			ev = ev.Interface(key, v)
		}
	}
	ev.Msg(msg)
}
