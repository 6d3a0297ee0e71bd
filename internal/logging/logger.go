package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Level represents log severity levels.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
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
	default:
		return "UNKNOWN"
	}
}

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// ParseLevel maps a config string to a Level, defaulting to LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Options configures the default logger output.
type Options struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Logger provides structured JSON logging backed by zap.
type Logger struct {
	sink   *sink
	fields map[string]interface{}
}

// sink is the output and level shared by a logger and every logger derived
// from it with WithFields.
type sink struct {
	mu    sync.RWMutex
	zl    *zap.Logger
	out   zapcore.WriteSyncer
	level zap.AtomicLevel
}

// New creates a new Logger instance writing to stdout at info level.
func New() *Logger {
	s := &sink{
		out:   zapcore.Lock(zapcore.AddSync(os.Stdout)),
		level: zap.NewAtomicLevelAt(zapcore.InfoLevel),
	}
	s.rebuild()
	return &Logger{sink: s, fields: make(map[string]interface{})}
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.LevelKey = "level"
	cfg.MessageKey = "message"
	cfg.CallerKey = zapcore.OmitKey
	cfg.StacktraceKey = zapcore.OmitKey
	cfg.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}

// rebuild must be called with mu held for writing, or before s is shared.
func (s *sink) rebuild() {
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), s.out, s.level)
	s.zl = zap.New(core)
}

func (s *sink) logger() *zap.Logger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.zl
}

// SetOutput sets the output writer. Loggers derived with WithFields write
// to the same place, including ones derived before the call.
func (l *Logger) SetOutput(w io.Writer) *Logger {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.out = zapcore.Lock(zapcore.AddSync(w))
	l.sink.rebuild()
	return l
}

// SetLevel sets the minimum log level.
func (l *Logger) SetLevel(level Level) *Logger {
	l.sink.level.SetLevel(level.zapLevel())
	return l
}

// WithField returns a new logger with an additional field.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

// WithFields returns a new logger with additional fields. The child shares
// the parent's output and level.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	newFields := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		newFields[k] = v
	}
	for k, v := range fields {
		newFields[k] = v
	}
	return &Logger{sink: l.sink, fields: newFields}
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, fields ...map[string]interface{}) {
	l.log(LevelDebug, msg, fields...)
}

// Info logs an info message.
func (l *Logger) Info(msg string, fields ...map[string]interface{}) {
	l.log(LevelInfo, msg, fields...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, fields ...map[string]interface{}) {
	l.log(LevelWarn, msg, fields...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, fields ...map[string]interface{}) {
	l.log(LevelError, msg, fields...)
}

func (l *Logger) log(level Level, msg string, additionalFields ...map[string]interface{}) {
	base := l.fields

	ce := l.sink.logger().Check(level.zapLevel(), msg)
	if ce == nil {
		return
	}

	allFields := make(map[string]interface{}, len(base))
	for k, v := range base {
		allFields[k] = v
	}
	for _, f := range additionalFields {
		for k, v := range f {
			allFields[k] = v
		}
	}
	for k, v := range allFields {
		// errors have no exported fields and would encode as {}
		if err, ok := v.(error); ok && err != nil {
			allFields[k] = err.Error()
		}
	}

	if len(allFields) > 0 {
		ce.Write(zap.Any("fields", allFields))
		return
	}
	ce.Write()
}

// Sync flushes buffered output.
func (l *Logger) Sync() error {
	return l.sink.logger().Sync()
}

// Default is the default logger instance.
var Default = New()

// Configure points the default logger at opts.File (rotated by lumberjack)
// or stdout, and applies opts.Level.
func Configure(opts Options) {
	var w io.Writer = os.Stdout
	if opts.File != "" {
		w = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   opts.Compress,
		}
	}
	Default.SetOutput(w)
	Default.SetLevel(ParseLevel(opts.Level))
}

// Debug logs using the default logger.
func Debug(msg string, fields ...map[string]interface{}) {
	Default.Debug(msg, fields...)
}

// Info logs using the default logger.
func Info(msg string, fields ...map[string]interface{}) {
	Default.Info(msg, fields...)
}

// Warn logs using the default logger.
func Warn(msg string, fields ...map[string]interface{}) {
	Default.Warn(msg, fields...)
}

// Error logs using the default logger.
func Error(msg string, fields ...map[string]interface{}) {
	Default.Error(msg, fields...)
}
