// Package logger wraps zap behind a small interface shared by every package.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Field is a structured log field.
type Field = zap.Field

// Logger is implemented by zap in production and by NewNop in tests.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)

	Debugf(template string, args ...any)
	Infof(template string, args ...any)
	Warnf(template string, args ...any)
	Errorf(template string, args ...any)
	Fatalf(template string, args ...any)

	// With returns a child logger that adds fields to every entry.
	With(fields ...Field) Logger

	Sync() error
}

// zapLogger serves structured calls from the embedded logger and the
// printf-style ones from its sugared twin.
type zapLogger struct {
	*zap.Logger
	sugar *zap.SugaredLogger
}

// New builds a zap logger. pretty selects the colored development encoder,
// otherwise entries are JSON. Unknown levels keep zap's default for the mode.
func New(level string, pretty bool) Logger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if pretty {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	if lvl, err := zapcore.ParseLevel(level); level != "" && err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	base, err := cfg.Build(zap.AddStacktrace(zapcore.FatalLevel))
	if err != nil {
		panic(err)
	}
	return wrap(base.With(zap.String("service", "folio")))
}

// NewNop returns a logger that discards everything.
func NewNop() Logger {
	return wrap(zap.NewNop())
}

func wrap(base *zap.Logger) *zapLogger {
	return &zapLogger{Logger: base, sugar: base.Sugar()}
}

func (l *zapLogger) Debugf(t string, args ...any) { l.sugar.Debugf(t, args...) }
func (l *zapLogger) Infof(t string, args ...any)  { l.sugar.Infof(t, args...) }
func (l *zapLogger) Warnf(t string, args ...any)  { l.sugar.Warnf(t, args...) }
func (l *zapLogger) Errorf(t string, args ...any) { l.sugar.Errorf(t, args...) }
func (l *zapLogger) Fatalf(t string, args ...any) { l.sugar.Fatalf(t, args...) }

func (l *zapLogger) With(fields ...Field) Logger {
	return wrap(l.Logger.With(fields...))
}

// Field constructors, so callers never import zap directly.
var (
	String   = zap.String
	Int      = zap.Int
	Bool     = zap.Bool
	Strings  = zap.Strings
	Duration = zap.Duration
	Any      = zap.Any
	Error    = zap.Error
)
