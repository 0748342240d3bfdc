package gocallerx

import (
	"runtime"
	"strings"
)

// Frame is one activation record in a call stack.
type Frame struct {
	// Package is the import path of the package that owns the frame's
	// function. Empty when the function could not be resolved.
	Package string

	// File is the source file path of the frame. May be either an
	// absolute path or, for pseudo-files, a bracketed marker.
	File string
}

// Cursor steps outward through a call stack, innermost frame first.
// Cursors are single-use and must never be retained past the resolving
// call; every resolution owns its own cursor.
type Cursor interface {
	// Next returns the next frame stepping toward the root, or false
	// once the stack is exhausted.
	Next() (Frame, bool)
}

// frameSlice is a Cursor over a hand-built frame sequence.
type frameSlice struct {
	frames []Frame
	pos    int
}

func (c *frameSlice) Next() (Frame, bool) {
	if c.pos >= len(c.frames) {
		return Frame{}, false
	}
	f := c.frames[c.pos]
	c.pos++
	return f, true
}

// callStackCursor iterates the calling goroutine's own stack, resolving
// program counters to frames lazily.
type callStackCursor struct {
	frames *runtime.Frames
}

// captureStack snapshots the calling goroutine's stack. The first frame the
// cursor hands out is captureStack's direct caller, so the public resolvers
// see their own frame first and the default skip of 1 lands on the user.
func captureStack() *callStackCursor {
	pcs := make([]uintptr, 64)
	for {
		n := runtime.Callers(2, pcs)
		if n < len(pcs) {
			pcs = pcs[:n]
			break
		}
		pcs = make([]uintptr, 2*len(pcs))
	}
	return &callStackCursor{frames: runtime.CallersFrames(pcs)}
}

func (c *callStackCursor) Next() (Frame, bool) {
	if c.frames == nil {
		return Frame{}, false
	}
	f, more := c.frames.Next()
	if !more {
		c.frames = nil
	}
	if f.File == "" && f.Function == "" {
		return Frame{}, false
	}
	return Frame{Package: framePackage(f.Function), File: f.File}, true
}

// framePackage derives the owning package's import path from a
// package-qualified function name, e.g.
// "github.com/acme/app/web.(*Server).handle" -> "github.com/acme/app/web".
func framePackage(fn string) string {
	if fn == "" {
		return ""
	}
	slash := strings.LastIndexByte(fn, '/')
	dot := strings.IndexByte(fn[slash+1:], '.')
	if dot < 0 {
		return fn
	}
	return fn[:slash+1+dot]
}
