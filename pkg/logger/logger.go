// Package logger provides a simple, clean logging interface.
package logger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Constants for logging operations.
const (
	callerSkipFrames = 1 // Skip the facade method so zap reports the actual caller
)

// Logger defines the logging interface.
type Logger interface {
	// Context-aware variants
	Info(ctx context.Context, msg string, fields ...Field)
	Error(ctx context.Context, msg string, fields ...Field)
	Debug(ctx context.Context, msg string, fields ...Field)
	Warn(ctx context.Context, msg string, fields ...Field)
	Fatal(ctx context.Context, msg string, fields ...Field)

	Named(name string) Logger
}

// Field represents a key-value pair for structured logging.
type Field struct {
	Key   string
	Value interface{}
}

// Field constructors.
func String(key, val string) Field          { return Field{Key: key, Value: val} }
func Int(key string, val int) Field         { return Field{Key: key, Value: val} }
func Float64(key string, val float64) Field { return Field{Key: key, Value: val} }
func Any(key string, val interface{}) Field { return Field{Key: key, Value: val} }
func Error(err error) Field                 { return Field{Key: "error", Value: err} }

// zapLogger implements Logger on top of zap.
type zapLogger struct {
	Logger *zap.Logger
}

func (l *zapLogger) Named(name string) Logger {
	return &zapLogger{Logger: l.Logger.Named(name)}
}

func (l *zapLogger) Info(ctx context.Context, msg string, fields ...Field) {
	l.Logger.Info(msg, convertFields(ctx, fields)...)
}

func (l *zapLogger) Error(ctx context.Context, msg string, fields ...Field) {
	l.Logger.Error(msg, convertFields(ctx, fields)...)
}

func (l *zapLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.Logger.Debug(msg, convertFields(ctx, fields)...)
}

func (l *zapLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.Logger.Warn(msg, convertFields(ctx, fields)...)
}

// Fatal logs at fatal level; zap exits the process afterwards.
func (l *zapLogger) Fatal(ctx context.Context, msg string, fields ...Field) {
	l.Logger.Fatal(msg, convertFields(ctx, fields)...)
}

// convertFields converts our Field type to zap fields and appends the
// request id carried by ctx.
func convertFields(ctx context.Context, fields []Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields)+1)
	for _, f := range fields {
		if err, ok := f.Value.(error); ok && f.Key == "error" {
			out = append(out, zap.Error(err))
			continue
		}
		out = append(out, zap.Any(f.Key, f.Value))
	}
	if id := RequestID(ctx); id != "" {
		out = append(out, zap.String(requestIDField, id))
	}
	return out
}

const requestIDField = "request_id"

type requestIDKey struct{}

// WithRequestID returns a copy of ctx carrying id. Every entry logged with
// that context gets a request_id field.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id stored by WithRequestID.
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

var (
	global   Logger
	base     *zap.Logger
	levelVar = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// Init initializes the global logger with JSON encoding.
func Init() error {
	return InitWithEncoding("json")
}

// InitWithEncoding initializes the global logger with the given encoding
// ("json" or "console").
func InitWithEncoding(encoding string) error {
	cfg := zap.NewProductionConfig()
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "json":
		cfg.Encoding = "json"
	case "console":
		cfg.Encoding = "console"
	default:
		return fmt.Errorf("unknown log encoding: %s", encoding)
	}
	cfg.Level = levelVar
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build(zap.AddCallerSkip(callerSkipFrames))
	if err != nil {
		return fmt.Errorf("build zap logger: %w", err)
	}
	base = l
	global = &zapLogger{Logger: l}
	return nil
}

// Get returns the global logger.
func Get() Logger {
	if global == nil {
		// Don't auto-initialize with production settings
		// The logger should be explicitly initialized by the application
		panic("logger not initialized. Call logger.Init() first")
	}
	return global
}

// Named creates a named logger.
func Named(name string) Logger {
	return Get().Named(name)
}

// New wraps an existing zap logger.
func New(l *zap.Logger) Logger {
	return &zapLogger{Logger: l}
}

// Nop returns a logger that discards everything. Useful in tests.
func Nop() Logger {
	return &zapLogger{Logger: zap.NewNop()}
}

// Sync flushes buffered log entries.
func Sync() error {
	if base == nil {
		return nil
	}
	err := base.Sync()
	// stdout/stderr are not syncable on most terminals and pipes
	if errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) || errors.Is(err, syscall.EBADF) {
		return nil
	}
	return err
}

// SetLevel updates the current logging level for the global logger.
func SetLevel(level zapcore.Level) { levelVar.SetLevel(level) }

// SetLevelString parses and sets the logging level.
// Accepts: debug, info, warn/warning, error (case-insensitive).
func SetLevelString(level string) error {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		SetLevel(zapcore.DebugLevel)
	case "", "info":
		SetLevel(zapcore.InfoLevel)
	case "warn", "warning":
		SetLevel(zapcore.WarnLevel)
	case "error":
		SetLevel(zapcore.ErrorLevel)
	default:
		return fmt.Errorf("unknown log level: %s", level)
	}
	return nil
}
