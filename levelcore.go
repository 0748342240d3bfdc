package gocallerx

import (
	"math"

	"go.uber.org/zap/zapcore"
)

// Open bounds for NewLevelRangeCore: a minimum no level is below and a
// maximum no level is above.
const (
	LevelRangeOpenMin = zapcore.Level(math.MinInt8)
	LevelRangeOpenMax = zapcore.Level(math.MaxInt8)
)

// LevelRangeOption configures a level-range core.
type LevelRangeOption func(*levelRangeCore)

// MinExclusive makes the lower bound exclusive: records at exactly the
// minimum level are rejected.
func MinExclusive() LevelRangeOption {
	return func(c *levelRangeCore) {
		c.minInclusive = false
	}
}

// MaxExclusive makes the upper bound exclusive: records at exactly the
// maximum level are rejected.
func MaxExclusive() LevelRangeOption {
	return func(c *levelRangeCore) {
		c.maxInclusive = false
	}
}

// levelRangeCore passes records whose level lies within a configured range
// and rejects everything else before it reaches the wrapped core.
type levelRangeCore struct {
	zapcore.Core
	min          zapcore.Level
	max          zapcore.Level
	minInclusive bool
	maxInclusive bool
}

// NewLevelRangeCore wraps inner so only records with levels in [min, max]
// pass. Both bounds are inclusive unless MinExclusive or MaxExclusive is
// given. A minimum above the maximum admits nothing; use LevelRangeOpenMin
// and LevelRangeOpenMax for open bounds.
func NewLevelRangeCore(inner zapcore.Core, min, max zapcore.Level, opts ...LevelRangeOption) zapcore.Core {
	c := &levelRangeCore{
		Core:         inner,
		min:          min,
		max:          max,
		minInclusive: true,
		maxInclusive: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *levelRangeCore) inRange(lvl zapcore.Level) bool {
	if c.min > c.max {
		return false
	}
	passMin := lvl > c.min || (c.minInclusive && lvl == c.min)
	passMax := lvl < c.max || (c.maxInclusive && lvl == c.max)
	return passMin && passMax
}

func (c *levelRangeCore) Enabled(lvl zapcore.Level) bool {
	return c.inRange(lvl) && c.Core.Enabled(lvl)
}

func (c *levelRangeCore) With(fields []zapcore.Field) zapcore.Core {
	clone := *c
	clone.Core = c.Core.With(fields)
	return &clone
}

func (c *levelRangeCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}
