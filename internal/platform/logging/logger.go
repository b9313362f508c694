package logging

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/janisto/servlet-greeting/internal/platform/timeutil"
)

// Options controls how the process-wide logger is built.
// Call Configure before the first call to Logger; later calls have no effect
// on an already built logger.
type Options struct {
	// Service and Version populate the Cloud Error Reporting serviceContext.
	Service string
	Version string
	// Level is a zap level name ("debug", "info", "warn", "error"). Empty means info.
	Level string
	// ProjectID enables Cloud Trace correlation fields on request loggers.
	ProjectID string
}

var (
	loggerOnce  sync.Once
	baseLogger  *zap.Logger
	sugarLogger *zap.SugaredLogger
	loggerErr   error

	optsMu sync.RWMutex
	opts   Options
)

// Configure records logger options. It returns an error when Level is not a valid zap level.
func Configure(o Options) error {
	if o.Level != "" {
		if _, err := zapcore.ParseLevel(o.Level); err != nil {
			return err
		}
	}
	optsMu.Lock()
	opts = o
	optsMu.Unlock()
	return nil
}

func currentOptions() Options {
	optsMu.RLock()
	defer optsMu.RUnlock()
	return opts
}

// encodeTimeMicros formats timestamps as RFC 3339 with fixed microsecond precision.
func encodeTimeMicros(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.UTC().Format(timeutil.RFC3339Micros))
}

func initLogger() {
	o := currentOptions()

	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stdout"}
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = encodeTimeMicros
	cfg.EncoderConfig.LevelKey = "severity"
	cfg.EncoderConfig.EncodeLevel = encodeSeverity
	cfg.EncoderConfig.MessageKey = "message"
	cfg.EncoderConfig.CallerKey = "caller"
	if o.Level != "" {
		if lvl, err := zap.ParseAtomicLevel(o.Level); err == nil {
			cfg.Level = lvl
		}
	}

	baseLogger, loggerErr = cfg.Build(zap.AddCaller())
	if loggerErr != nil {
		baseLogger = zap.NewNop()
	}
	if fields := serviceContextFields(o); len(fields) > 0 {
		baseLogger = baseLogger.With(fields...)
	}
	sugarLogger = baseLogger.Sugar()
}

func serviceContextFields(o Options) []zap.Field {
	if o.Service == "" {
		return nil
	}
	return []zap.Field{zap.Dict("serviceContext",
		zap.String("service", o.Service),
		zap.String("version", o.Version),
	)}
}

// encodeSeverity maps zap levels to Cloud Logging severity names.
func encodeSeverity(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	var severity string
	switch level {
	case zapcore.DebugLevel:
		severity = "DEBUG"
	case zapcore.InfoLevel:
		severity = "INFO"
	case zapcore.WarnLevel:
		severity = "WARNING"
	case zapcore.ErrorLevel:
		severity = "ERROR"
	case zapcore.DPanicLevel:
		severity = "CRITICAL"
	case zapcore.PanicLevel:
		severity = "ALERT"
	case zapcore.FatalLevel:
		severity = "EMERGENCY"
	default:
		severity = "DEFAULT"
	}
	enc.AppendString(severity)
}

// Logger returns the process-wide zap.Logger instance.
func Logger() *zap.Logger {
	loggerOnce.Do(initLogger)
	return baseLogger
}

// Sugar returns a sugared logger sharing the same core as Logger.
func Sugar() *zap.SugaredLogger {
	loggerOnce.Do(initLogger)
	return sugarLogger
}

// Sync flushes buffered log entries. Call during shutdown.
func Sync() error {
	loggerOnce.Do(initLogger)
	return baseLogger.Sync()
}

// Err reports initialization failure, if any.
func Err() error {
	loggerOnce.Do(initLogger)
	return loggerErr
}
