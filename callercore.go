package gocallerx

import (
	"runtime"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// callerCoreSkip hops over the resolver entry point and this core's Write.
// The logging pipeline's remaining dispatch frames are excluded by pattern
// rather than counted, so wrapper depth changes don't silently misattribute.
const callerCoreSkip = 2

var callerCoreSourceFile = func() string {
	_, file, _, _ := runtime.Caller(0)
	return file
}()

// frameworkPatterns mark the logging pipeline's own frames as internal for
// caller attribution: the zap module and this package's source files.
func frameworkPatterns() []string {
	return []string{
		"go.uber.org/zap",
		"github.com/muhammadluth/gocallerx",
		resolverSourceFile,
		callerCoreSourceFile,
		loggerSourceFile,
	}
}

type callerCoreConfig struct {
	fieldKey     string
	extra        []string
	override     []string
	skipOffset   int
	argvFallback bool
}

// CallerCoreOption configures a caller-attribution core.
type CallerCoreOption func(*callerCoreConfig)

// WithFieldKey sets the field name the caller attribution is written under.
// The default is "caller".
func WithFieldKey(key string) CallerCoreOption {
	return func(c *callerCoreConfig) {
		c.fieldKey = key
	}
}

// WithExtraExclusions adds patterns on top of the core's default exclusion
// set. Use WithExclusionOverride for full control instead.
func WithExtraExclusions(patterns ...string) CallerCoreOption {
	return func(c *callerCoreConfig) {
		c.extra = append(c.extra, patterns...)
	}
}

// WithExclusionOverride replaces the core's default exclusion set entirely,
// framework patterns included.
func WithExclusionOverride(patterns ...string) CallerCoreOption {
	return func(c *callerCoreConfig) {
		c.override = patterns
	}
}

// WithSkipOffset adds frames to skip on top of the core's fixed internal
// count. Increase it when the core sits behind additional wrapper layers
// whose source files cannot be excluded by pattern.
func WithSkipOffset(n int) CallerCoreOption {
	return func(c *callerCoreConfig) {
		c.skipOffset = n
	}
}

// CoreWithoutArgvFallback disables the argv fallback for records whose
// caller cannot be resolved from the stack.
func CoreWithoutArgvFallback() CallerCoreOption {
	return func(c *callerCoreConfig) {
		c.argvFallback = false
	}
}

// callerCore decorates every record written through it with the resolved
// caller file. It never decides whether a record is emitted; enablement
// belongs to the wrapped core alone.
type callerCore struct {
	zapcore.Core
	fieldKey     string
	patterns     map[string]struct{}
	skip         int
	argvFallback bool
}

// NewCallerCore wraps inner so that each record it writes carries a caller
// attribution field. Attribution never suppresses a record: when no caller
// can be resolved the field holds the absent marker and the record goes
// through unchanged otherwise.
func NewCallerCore(inner zapcore.Core, opts ...CallerCoreOption) zapcore.Core {
	cfg := callerCoreConfig{fieldKey: "caller", argvFallback: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	var patterns map[string]struct{}
	if cfg.override != nil {
		patterns = make(map[string]struct{}, len(cfg.override))
		for _, p := range cfg.override {
			patterns[p] = struct{}{}
		}
	} else {
		patterns = defaultExcludedPatterns()
		for _, p := range frameworkPatterns() {
			patterns[p] = struct{}{}
		}
		for _, p := range cfg.extra {
			patterns[p] = struct{}{}
		}
	}

	return &callerCore{
		Core:         inner,
		fieldKey:     cfg.fieldKey,
		patterns:     patterns,
		skip:         callerCoreSkip + cfg.skipOffset,
		argvFallback: cfg.argvFallback,
	}
}

func (c *callerCore) With(fields []zapcore.Field) zapcore.Core {
	clone := *c
	clone.Core = c.Core.With(fields)
	return &clone
}

func (c *callerCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Core.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *callerCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	opts := []ResolveOption{
		WithSkip(c.skip),
		func(rc *resolveConfig) { rc.patterns = c.patterns },
	}
	if !c.argvFallback {
		opts = append(opts, WithoutArgvFallback())
	}
	caller := CallerFilename(opts...)

	fields = append(fields, zap.String(c.fieldKey, caller.String()))
	return c.Core.Write(ent, fields)
}
