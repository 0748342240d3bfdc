package gocallerx

import (
	"io"
	"os"

	"go.uber.org/zap/zapcore"
)

// Config holds logger configuration options.
type Config struct {
	// ServiceName is the name of the service using this logger.
	// It appears in all log entries as "application_name".
	ServiceName string

	// Level is the minimum log level that will be output.
	// Default: zapcore.InfoLevel
	Level zapcore.Level

	// LevelRange optionally restricts records to a level range on top of
	// Level, rejecting everything outside it. Nil means no upper bound.
	LevelRange *LevelRange

	// Output is the writer where console logs are written.
	// Default: os.Stdout
	Output io.Writer

	// FilePath, when set, adds a rotating file sink alongside Output.
	FilePath string

	// Rotation controls the file sink's rotation behavior.
	Rotation RotationConfig

	// Caller controls how records are attributed to their call sites.
	Caller CallerConfig
}

// LevelRange is an inclusive level window for record admission.
type LevelRange struct {
	Min zapcore.Level
	Max zapcore.Level
}

// RotationConfig controls log file rotation.
type RotationConfig struct {
	// MaxSizeMB is the size a log file may reach before rotation.
	MaxSizeMB int
	// MaxBackups is how many rotated files are kept.
	MaxBackups int
	// MaxAgeDays is how long rotated files are kept; 0 keeps them forever.
	MaxAgeDays int
	// Compress gzips rotated files.
	Compress bool
}

// CallerConfig controls the caller-attribution field on each record.
type CallerConfig struct {
	// FieldKey is the record field the attribution is written under.
	// Default: "caller"
	FieldKey string

	// SkipOffset adds stack frames to skip for wrapper layers around the
	// logger. Default: 0
	SkipOffset int

	// ExtraExclusions adds path patterns to the default internal set.
	ExtraExclusions []string

	// OverrideExclusions, when non-nil, replaces the default internal set
	// entirely.
	OverrideExclusions []string

	// ArgvFallback falls back to the program's first invocation argument
	// when no caller is found in the stack. Default: true
	ArgvFallback bool
}

// Option configures a Logger.
type Option func(*Config)

// WithServiceName sets the service name for the logger.
// The service name appears in all log entries as "application_name".
//
// Example:
//
//	logger, _ := gocallerx.New(gocallerx.WithServiceName("my-service"))
func WithServiceName(name string) Option {
	return func(c *Config) {
		c.ServiceName = name
	}
}

// WithOutput sets the console output writer. By default logs are written to
// os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(c *Config) {
		c.Output = w
	}
}

// WithLevel sets the minimum log level.
func WithLevel(level zapcore.Level) Option {
	return func(c *Config) {
		c.Level = level
	}
}

// WithDebug lowers the minimum level to debug when true.
func WithDebug(debug bool) Option {
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}
	return func(c *Config) {
		c.Level = level
	}
}

// WithLevelRange restricts output to records whose level lies within
// [min, max] inclusive.
func WithLevelRange(min, max zapcore.Level) Option {
	return func(c *Config) {
		c.LevelRange = &LevelRange{Min: min, Max: max}
	}
}

// WithLogFile adds a rotating file sink at path alongside console output.
//
// Example:
//
//	logger, _ := gocallerx.New(
//	    gocallerx.WithServiceName("my-service"),
//	    gocallerx.WithLogFile("/var/log/my-service/app.log"),
//	)
func WithLogFile(path string) Option {
	return func(c *Config) {
		c.FilePath = path
	}
}

// WithRotation overrides the file sink's rotation settings.
func WithRotation(rc RotationConfig) Option {
	return func(c *Config) {
		c.Rotation = rc
	}
}

// WithCallerField sets the record field the caller attribution is written
// under.
func WithCallerField(key string) Option {
	return func(c *Config) {
		c.Caller.FieldKey = key
	}
}

// WithCallerSkipOffset adds stack frames to skip when the logger sits
// behind wrapper layers whose files cannot be excluded by pattern.
func WithCallerSkipOffset(n int) Option {
	return func(c *Config) {
		c.Caller.SkipOffset = n
	}
}

// WithCallerExclusions adds path patterns treated as internal during
// attribution, on top of the defaults.
func WithCallerExclusions(patterns ...string) Option {
	return func(c *Config) {
		c.Caller.ExtraExclusions = append(c.Caller.ExtraExclusions, patterns...)
	}
}

// WithCallerExclusionOverride replaces the default attribution exclusion
// set entirely.
func WithCallerExclusionOverride(patterns ...string) Option {
	return func(c *Config) {
		c.Caller.OverrideExclusions = patterns
	}
}

// WithoutCallerArgvFallback disables the argv fallback for records whose
// caller cannot be resolved.
func WithoutCallerArgvFallback() Option {
	return func(c *Config) {
		c.Caller.ArgvFallback = false
	}
}

// DefaultRotationConfig mirrors the deployment defaults: rotate at 2 MB,
// keep seven backups.
func DefaultRotationConfig() RotationConfig {
	return RotationConfig{
		MaxSizeMB:  2,
		MaxBackups: 7,
	}
}

// defaultConfig returns the default logger configuration.
func defaultConfig() *Config {
	return &Config{
		ServiceName: "unknown",
		Level:       zapcore.InfoLevel,
		Output:      os.Stdout,
		Rotation:    DefaultRotationConfig(),
		Caller: CallerConfig{
			FieldKey:     "caller",
			ArgvFallback: true,
		},
	}
}
