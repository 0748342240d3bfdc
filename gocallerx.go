// Package gocallerx attributes log events to the external code that
// triggered them. It walks the calling goroutine's stack past framework,
// wrapper, and environment frames to find the first external caller, and
// ships zap cores that attach the attribution to every outgoing record.
//
// Basic usage:
//
//	logger, err := gocallerx.New(gocallerx.WithServiceName("my-service"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	logger.Info("request received")
//
// Or resolve a caller directly:
//
//	if file, ok := gocallerx.CallerFilename().Value(); ok {
//		fmt.Println("called from", file)
//	}
package gocallerx

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// globalLog is the package-level logger, atomic for thread-safety.
	globalLog atomic.Pointer[Logger]
	// once ensures Init configures the package-level logger only once.
	once sync.Once
)

var loggerSourceFile = func() string {
	_, file, _, _ := runtime.Caller(0)
	return file
}()

func init() {
	// Start with a console-only default so the package-level functions are
	// always ready to use.
	l, _ := New()
	globalLog.Store(l)
}

// Logger wraps zap.Logger with caller attribution and optional level-range
// gating and file rotation. Create one with New.
type Logger struct {
	logger   *zap.Logger
	config   *Config
	fileSink *lumberjack.Logger
}

// New creates a Logger with the given options. It returns an error only
// when the file sink cannot be set up; console-only configurations cannot
// fail.
//
// Example:
//
//	logger, err := gocallerx.New(
//	    gocallerx.WithServiceName("my-service"),
//	    gocallerx.WithLevel(zapcore.DebugLevel),
//	    gocallerx.WithLogFile("/var/log/my-service/app.log"),
//	)
func New(opts ...Option) (*Logger, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return setupLog(cfg)
}

// Init configures the package-level logger exactly once and returns it.
// Subsequent calls return the already-configured logger and ignore their
// options.
func Init(opts ...Option) (*Logger, error) {
	var err error
	once.Do(func() {
		var l *Logger
		if l, err = New(opts...); err == nil {
			globalLog.Store(l)
		}
	})
	return globalLog.Load(), err
}

func setupLog(cfg *Config) (*Logger, error) {
	// JSON encoder with production defaults.
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderConfig)

	core := zapcore.NewCore(encoder, zapcore.AddSync(cfg.Output), cfg.Level)

	var fileSink *lumberjack.Logger
	if cfg.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
			return nil, errors.Wrap(err, "create log directory")
		}
		fileSink = &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.Rotation.MaxSizeMB,
			MaxBackups: cfg.Rotation.MaxBackups,
			MaxAge:     cfg.Rotation.MaxAgeDays,
			Compress:   cfg.Rotation.Compress,
		}
		fileCore := zapcore.NewCore(encoder, zapcore.AddSync(fileSink), cfg.Level)
		core = zapcore.NewTee(core, fileCore)
	}

	if r := cfg.LevelRange; r != nil {
		core = NewLevelRangeCore(core, r.Min, r.Max)
	}

	// Attribution wraps everything else so the field reaches every sink.
	callerOpts := []CallerCoreOption{
		WithFieldKey(cfg.Caller.FieldKey),
		WithSkipOffset(cfg.Caller.SkipOffset),
		WithExtraExclusions(cfg.Caller.ExtraExclusions...),
	}
	if cfg.Caller.OverrideExclusions != nil {
		callerOpts = append(callerOpts, WithExclusionOverride(cfg.Caller.OverrideExclusions...))
	}
	if !cfg.Caller.ArgvFallback {
		callerOpts = append(callerOpts, CoreWithoutArgvFallback())
	}
	core = NewCallerCore(core, callerOpts...)

	logger := zap.New(core).With(zap.String("application_name", cfg.ServiceName))

	return &Logger{
		logger:   logger,
		config:   cfg,
		fileSink: fileSink,
	}, nil
}

// Debug logs a debug-level message.
func (l *Logger) Debug(msg string, fields ...zap.Field) {
	l.logger.Debug(msg, fields...)
}

// Info logs an informational message.
func (l *Logger) Info(msg string, fields ...zap.Field) {
	l.logger.Info(msg, fields...)
}

// Warn logs a warning-level message.
func (l *Logger) Warn(msg string, fields ...zap.Field) {
	l.logger.Warn(msg, fields...)
}

// Error logs an error with its message attached as a field.
func (l *Logger) Error(msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	l.logger.Error(msg, fields...)
}

// With returns a Logger carrying the given fields on every record.
func (l *Logger) With(fields ...zap.Field) *Logger {
	clone := *l
	clone.logger = l.logger.With(fields...)
	return &clone
}

// Named returns a Logger with the given name segment appended.
func (l *Logger) Named(name string) *Logger {
	clone := *l
	clone.logger = l.logger.Named(name)
	return &clone
}

// Sync flushes buffered records.
func (l *Logger) Sync() error {
	return l.logger.Sync()
}

// Close flushes buffered records and closes the file sink if one is
// configured. Errors from both steps are combined.
func (l *Logger) Close() error {
	err := l.logger.Sync()
	if l.fileSink != nil {
		err = multierr.Append(err, l.fileSink.Close())
	}
	return err
}

// Debug logs a debug-level message on the package-level logger.
func Debug(msg string, fields ...zap.Field) {
	globalLog.Load().Debug(msg, fields...)
}

// Info logs an informational message on the package-level logger.
func Info(msg string, fields ...zap.Field) {
	globalLog.Load().Info(msg, fields...)
}

// Warn logs a warning-level message on the package-level logger.
func Warn(msg string, fields ...zap.Field) {
	globalLog.Load().Warn(msg, fields...)
}

// Error logs an error on the package-level logger.
func Error(msg string, err error, fields ...zap.Field) {
	globalLog.Load().Error(msg, err, fields...)
}
