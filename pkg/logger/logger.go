// Package logger provides structured logging for the cluster simulator.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	"go.opentelemetry.io/otel/trace"
)

// Level represents logging levels.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "debug"
	case InfoLevel:
		return "info"
	case WarnLevel:
		return "warn"
	case ErrorLevel:
		return "error"
	}
	return "unknown"
}

// ParseLevel maps a config string to a Level, defaulting to info for
// anything unrecognized.
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Config holds logger configuration.
type Config struct {
	Level  Level
	Format string // "json" or "text"
	Output string // "stdout", "stderr", or a file path
}

// Logger is the structured-logging surface used throughout the service.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	DebugContext(ctx context.Context, msg string, args ...any)
	InfoContext(ctx context.Context, msg string, args ...any)
	WarnContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)

	With(args ...any) Logger
	WithContext(ctx context.Context) context.Context

	SetLevel(level Level)
	GetLevel() Level

	// Close flushes and releases file-backed output, if any.
	Close() error
}

// slogLogger adapts log/slog to the Logger interface, annotating
// context-aware calls with OpenTelemetry trace/span IDs when present.
type slogLogger struct {
	sl     *slog.Logger
	lvl    *slog.LevelVar
	level  *atomic.Int32 // shadow of lvl, since slog.LevelVar has no reverse mapping to Level
	closer io.Closer     // file output; nil for stdout/stderr
}

// New builds a Logger from cfg. A nil cfg gets JSON output to stdout at
// info level. An unopenable file path falls back to stdout rather than
// failing startup.
func New(cfg *Config) Logger {
	if cfg == nil {
		cfg = &Config{Level: InfoLevel, Format: "json", Output: "stdout"}
	}

	lvl := &slog.LevelVar{}
	lvl.Set(slogLevel(cfg.Level))
	shadow := &atomic.Int32{}
	shadow.Store(int32(cfg.Level))

	w, closer := openOutput(cfg.Output)
	opts := &slog.HandlerOptions{
		Level:       lvl,
		AddSource:   true,
		ReplaceAttr: renameStandardKeys,
	}

	var h slog.Handler
	if cfg.Format == "text" {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}

	return &slogLogger{sl: slog.New(h), lvl: lvl, level: shadow, closer: closer}
}

func openOutput(output string) (io.Writer, io.Closer) {
	switch output {
	case "", "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	}
	f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return os.Stdout, nil
	}
	return f, f
}

func slogLevel(l Level) slog.Level {
	switch l {
	case DebugLevel:
		return slog.LevelDebug
	case WarnLevel:
		return slog.LevelWarn
	case ErrorLevel:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// renameStandardKeys rewrites slog's default "msg" key to "message" so log
// lines match the field names the rest of the observability stack expects.
func renameStandardKeys(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.MessageKey {
		a.Key = "message"
	}
	return a
}

func (l *slogLogger) Debug(msg string, args ...any) { l.sl.Debug(msg, args...) }
func (l *slogLogger) Info(msg string, args ...any)  { l.sl.Info(msg, args...) }
func (l *slogLogger) Warn(msg string, args ...any)  { l.sl.Warn(msg, args...) }
func (l *slogLogger) Error(msg string, args ...any) { l.sl.Error(msg, args...) }

func (l *slogLogger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.sl.DebugContext(ctx, msg, withTraceFields(ctx, args)...)
}

func (l *slogLogger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.sl.InfoContext(ctx, msg, withTraceFields(ctx, args)...)
}

func (l *slogLogger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.sl.WarnContext(ctx, msg, withTraceFields(ctx, args)...)
}

func (l *slogLogger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.sl.ErrorContext(ctx, msg, withTraceFields(ctx, args)...)
}

// withTraceFields appends trace_id/span_id when ctx carries a valid span
// context, so log lines can be joined against traces.
func withTraceFields(ctx context.Context, args []any) []any {
	if ctx == nil {
		return args
	}
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return args
	}
	return append(args, "trace_id", sc.TraceID().String(), "span_id", sc.SpanID().String())
}

// With returns a derived Logger carrying extra attributes. The derived
// logger shares the parent's level but does not own the output closer.
func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{sl: l.sl.With(args...), lvl: l.lvl, level: l.level}
}

func (l *slogLogger) WithContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, Logger(l))
}

func (l *slogLogger) SetLevel(level Level) {
	l.lvl.Set(slogLevel(level))
	l.level.Store(int32(level))
}

func (l *slogLogger) GetLevel() Level {
	return Level(l.level.Load())
}

func (l *slogLogger) Close() error {
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

type ctxKey struct{}

// FromContext returns the Logger attached via WithContext, or the global
// logger when none is attached.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(ctxKey{}).(Logger); ok {
		return l
	}
	return Global()
}

var global atomic.Value // Logger

func init() {
	global.Store(New(&Config{Level: InfoLevel, Format: "text", Output: "stdout"}))
}

// Global returns the process-wide logger.
func Global() Logger {
	return global.Load().(Logger)
}

// SetGlobal replaces the process-wide logger, e.g. once configuration has
// been loaded at startup.
func SetGlobal(l Logger) {
	if l != nil {
		global.Store(l)
	}
}

// SetLevel adjusts the process-wide logger's level.
func SetLevel(level Level) {
	Global().SetLevel(level)
}

// Package-level helpers logging through the global logger.

func Debug(msg string, args ...any) { Global().Debug(msg, args...) }
func Info(msg string, args ...any)  { Global().Info(msg, args...) }
func Warn(msg string, args ...any)  { Global().Warn(msg, args...) }
func Error(msg string, args ...any) { Global().Error(msg, args...) }

func DebugContext(ctx context.Context, msg string, args ...any) {
	Global().DebugContext(ctx, msg, args...)
}

func InfoContext(ctx context.Context, msg string, args ...any) {
	Global().InfoContext(ctx, msg, args...)
}

func WarnContext(ctx context.Context, msg string, args ...any) {
	Global().WarnContext(ctx, msg, args...)
}

func ErrorContext(ctx context.Context, msg string, args ...any) {
	Global().ErrorContext(ctx, msg, args...)
}
