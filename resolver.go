package gocallerx

import (
	"os"
	"path/filepath"
	"runtime"
)

// resolverSourceFile and currentPackage identify this package's own frame
// context. They seed the default exclusion set and serve as the terminal
// fallback values when no external caller is found.
var resolverSourceFile, currentPackage = func() (string, string) {
	pc, file, _, _ := runtime.Caller(0)
	pkg := ""
	if fn := runtime.FuncForPC(pc); fn != nil {
		pkg = framePackage(fn.Name())
	}
	return file, pkg
}()

// resolveConfig holds the knobs shared by both resolvers. Configure it
// through ResolveOption values; zero fields keep the per-resolver defaults.
type resolveConfig struct {
	skip            int
	maxDepth        int
	prefixes        map[string]struct{}
	patterns        map[string]struct{}
	fullPath        bool
	argvFallback    bool
	currentFallback bool
	argv            []string
}

// ResolveOption configures a single resolution call.
type ResolveOption func(*resolveConfig)

// WithSkip sets how many innermost frames are consumed unconditionally
// before matching begins. The default of 1 skips the resolver's own frame;
// use 2 when calling through one wrapper layer, and so on. Negative values
// are treated as 0.
func WithSkip(n int) ResolveOption {
	return func(c *resolveConfig) {
		if n < 0 {
			n = 0
		}
		c.skip = n
	}
}

// WithMaxDepth bounds how many frames are inspected after the skip phase.
// Values <= 0 leave traversal unbounded, which is the default.
func WithMaxDepth(n int) ResolveOption {
	return func(c *resolveConfig) {
		c.maxDepth = n
	}
}

// WithExcludedPrefixes sets the package prefixes CallerModule treats as
// internal. An empty set excludes nothing.
func WithExcludedPrefixes(prefixes ...string) ResolveOption {
	return func(c *resolveConfig) {
		c.prefixes = make(map[string]struct{}, len(prefixes))
		for _, p := range prefixes {
			c.prefixes[p] = struct{}{}
		}
	}
}

// WithExcludedPatterns replaces the default path pattern set used by
// CallerFilename. The case-insensitive environment-directory check stays
// active regardless.
func WithExcludedPatterns(patterns ...string) ResolveOption {
	return func(c *resolveConfig) {
		c.patterns = make(map[string]struct{}, len(patterns))
		for _, p := range patterns {
			c.patterns[p] = struct{}{}
		}
	}
}

// WithFullPath makes CallerFilename return the untruncated matched path
// instead of its base name.
func WithFullPath() ResolveOption {
	return func(c *resolveConfig) {
		c.fullPath = true
	}
}

// WithoutArgvFallback disables falling back to the program's first
// invocation argument when no caller is found.
func WithoutArgvFallback() ResolveOption {
	return func(c *resolveConfig) {
		c.argvFallback = false
	}
}

// WithoutCurrentFallback disables falling back to this package's own
// identity when no caller is found, making Absent reachable.
func WithoutCurrentFallback() ResolveOption {
	return func(c *resolveConfig) {
		c.currentFallback = false
	}
}

// WithArgv overrides the program-argument accessor, which defaults to
// os.Args. Intended for tests and embedded environments where os.Args is
// not meaningful.
func WithArgv(argv []string) ResolveOption {
	return func(c *resolveConfig) {
		c.argv = argv
	}
}

func defaultModuleConfig() resolveConfig {
	return resolveConfig{
		skip:            1,
		currentFallback: true,
	}
}

func defaultFilenameConfig() resolveConfig {
	return resolveConfig{
		skip:            1,
		patterns:        defaultExcludedPatterns(),
		argvFallback:    true,
		currentFallback: true,
		argv:            os.Args,
	}
}

// CallerModule resolves the import path of the most external caller's
// package, skipping excluded packages.
//
// By default the resolver's own frame is skipped, traversal depth is
// unbounded, no packages are excluded, and the result falls back to this
// package's import path when no suitable caller is found. Disable the
// fallback with WithoutCurrentFallback to observe Absent instead.
func CallerModule(opts ...ResolveOption) Result {
	cfg := defaultModuleConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return resolveModule(captureStack(), cfg)
}

// resolveModule walks the cursor for the first frame whose package is
// non-empty and not prefix-excluded. Unlike resolveFilename it installs no
// recover: a fault while reading a frame's package propagates to the
// caller.
func resolveModule(cursor Cursor, cfg resolveConfig) Result {
	for i := 0; i < cfg.skip; i++ {
		if _, ok := cursor.Next(); !ok {
			return cfg.moduleFallback()
		}
	}

	inspected := 0
	for cfg.maxDepth <= 0 || inspected < cfg.maxDepth {
		f, ok := cursor.Next()
		if !ok {
			break
		}
		if !excludedByPrefix(f.Package, cfg.prefixes) {
			return Present(f.Package)
		}
		inspected++
	}

	return cfg.moduleFallback()
}

// CallerFilename resolves the source file of the most external caller,
// skipping internal and excluded files.
//
// By default the resolver's own frame is skipped, traversal depth is
// unbounded, the default pattern set from defaultExcludedPatterns applies,
// and the base name of the matched file is returned. When no suitable
// caller is found the fallback chain is consulted: the program's first
// invocation argument, then this package's own source file, then Absent.
func CallerFilename(opts ...ResolveOption) Result {
	cfg := defaultFilenameConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return resolveFilename(captureStack(), cfg)
}

func resolveFilename(cursor Cursor, cfg resolveConfig) Result {
	if r, ok := walkFilename(cursor, cfg); ok {
		return r
	}
	return cfg.filenameFallback()
}

// walkFilename performs the traversal proper. Any fault while reading
// frames is recovered at this boundary and routed to the fallback chain; a
// log call must never observe a traversal error.
func walkFilename(cursor Cursor, cfg resolveConfig) (r Result, found bool) {
	defer func() {
		if recover() != nil {
			r, found = Result{}, false
		}
	}()

	for i := 0; i < cfg.skip; i++ {
		if _, ok := cursor.Next(); !ok {
			return Result{}, false
		}
	}

	// Paths already judged during this walk advance without re-matching.
	seen := make(map[string]struct{})

	inspected := 0
	for cfg.maxDepth <= 0 || inspected < cfg.maxDepth {
		f, ok := cursor.Next()
		if !ok {
			break
		}
		if _, dup := seen[f.File]; !dup {
			seen[f.File] = struct{}{}
			if !excludedByPattern(f.File, cfg.patterns) {
				return Present(cfg.render(f.File)), true
			}
		}
		inspected++
	}

	return Result{}, false
}

func (c resolveConfig) render(path string) string {
	if c.fullPath {
		return path
	}
	return filepath.Base(path)
}

func (c resolveConfig) moduleFallback() Result {
	if c.currentFallback {
		return Present(currentPackage)
	}
	return Absent()
}

// filenameFallback applies the ordered fallback chain: argv, then this
// package's own source file, then Absent. An empty argv falls through
// rather than producing an empty name.
func (c resolveConfig) filenameFallback() Result {
	if c.argvFallback && len(c.argv) > 0 {
		return Present(c.render(c.argv[0]))
	}
	if c.currentFallback {
		return Present(c.render(resolverSourceFile))
	}
	return Absent()
}
