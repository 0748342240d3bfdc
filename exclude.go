package gocallerx

import "strings"

// envMarkers are matched case-insensitively against every path regardless
// of the configured pattern set. Environment noise is a property of file
// paths only; the package-prefix matcher has no equivalent check.
var envMarkers = [...]string{"venv", ".venv", "virtualenv"}

// excludedByPrefix reports whether a package identifier belongs to the
// internal set. An empty identifier is always internal; an empty prefix set
// excludes nothing else. Matching is plain prefix comparison, not path
// tokenization: "foo" excludes both "foobar" and "foo.bar". That coarseness
// is intentional.
func excludedByPrefix(pkg string, prefixes map[string]struct{}) bool {
	if pkg == "" {
		return true
	}
	for p := range prefixes {
		if strings.HasPrefix(pkg, p) {
			return true
		}
	}
	return false
}

// excludedByPattern reports whether a source path belongs to the internal
// set. A path is internal when it is empty, when any configured pattern
// occurs anywhere within it, or when its case-folded form contains an
// environment marker. The pattern and marker checks are independent; either
// one excludes.
func excludedByPattern(path string, patterns map[string]struct{}) bool {
	if path == "" {
		return true
	}
	for p := range patterns {
		if strings.Contains(path, p) {
			return true
		}
	}
	lower := strings.ToLower(path)
	for _, m := range envMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// defaultExcludedPatterns returns the default internal-path set for
// filename resolution: this resolver's own source, logging and import
// machinery, bracketed pseudo-files, and environment directories. The set
// matches the logkit defaults byte for byte so exclusion configs shared
// across runtimes keep excluding the same locations.
func defaultExcludedPatterns() map[string]struct{} {
	return map[string]struct{}{
		resolverSourceFile:                       {},
		"logging/__init__.py":                    {},
		"<frozen importlib._bootstrap>":          {},
		"<frozen importlib._bootstrap_external>": {},
		"importlib/__init__.py":                  {},
		"site-packages":                          {},
		"<stdin>":                                {},
		"<string>":                               {},
		"<":                                      {},
		"venv/":                                  {},
		".venv/":                                 {},
		"virtualenv/":                            {},
	}
}
