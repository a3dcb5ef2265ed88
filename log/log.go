// Package log provides the structured logging used by the scheduler, the
// blocking worker pool, and the command-line tool. It is a trimmed adaptation of the
// zap-backed logging wrapper pattern: callers log through this package's
// functions and interface, never against zap directly, so the concrete
// logger can be swapped by reassigning Default.
package log

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level name constants accepted by SetLevel.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
	LevelFatal = "fatal"
)

var zapLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)

var encoderConfig = zapcore.EncoderConfig{
	TimeKey:        "ts",
	LevelKey:       "lvl",
	NameKey:        "name",
	CallerKey:      "caller",
	MessageKey:     "message",
	StacktraceKey:  "stacktrace",
	LineEnding:     zapcore.DefaultLineEnding,
	EncodeLevel:    zapcore.CapitalColorLevelEncoder,
	EncodeTime:     zapcore.RFC3339TimeEncoder,
	EncodeDuration: zapcore.SecondsDurationEncoder,
	EncodeCaller:   zapcore.ShortCallerEncoder,
}

// Logger is the interface every call in this package is delegated through.
// Swap Default to route conflagrate's logging into a different backend.
type Logger interface {
	Debug(args ...any)
	Debugf(format string, args ...any)
	Info(args ...any)
	Infof(format string, args ...any)
	Warn(args ...any)
	Warnf(format string, args ...any)
	Error(args ...any)
	Errorf(format string, args ...any)
}

// Default is the logger used by the package-level helper functions.
var Default Logger = zap.New(
	zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stdout),
		zapLevel,
	),
	zap.AddCaller(),
	zap.AddCallerSkip(1),
).Sugar()

// SetLevel sets the minimum log level. Unrecognized levels default to info.
func SetLevel(level string) {
	switch level {
	case LevelDebug:
		zapLevel.SetLevel(zapcore.DebugLevel)
	case LevelInfo:
		zapLevel.SetLevel(zapcore.InfoLevel)
	case LevelWarn:
		zapLevel.SetLevel(zapcore.WarnLevel)
	case LevelError:
		zapLevel.SetLevel(zapcore.ErrorLevel)
	case LevelFatal:
		zapLevel.SetLevel(zapcore.FatalLevel)
	default:
		zapLevel.SetLevel(zapcore.InfoLevel)
	}
}

func Debug(args ...any)                 { Default.Debug(args...) }
func Debugf(format string, args ...any) { Default.Debugf(format, args...) }
func Info(args ...any)                  { Default.Info(args...) }
func Infof(format string, args ...any)  { Default.Infof(format, args...) }
func Warn(args ...any)                  { Default.Warn(args...) }
func Warnf(format string, args ...any)  { Default.Warnf(format, args...) }
func Error(args ...any)                 { Default.Error(args...) }
func Errorf(format string, args ...any) { Default.Errorf(format, args...) }
