package gocallerx

import (
	"strings"
	"testing"
)

func TestFramePackage(t *testing.T) {
	tests := []struct {
		name     string
		function string
		expected string
	}{
		{"PlainFunction", "github.com/acme/app/web.Handle", "github.com/acme/app/web"},
		{"Method", "github.com/acme/app/web.(*Server).handle", "github.com/acme/app/web"},
		{"Closure", "github.com/acme/app/web.Handle.func1", "github.com/acme/app/web"},
		{"MainPackage", "main.main", "main"},
		{"StdlibPackage", "testing.tRunner", "testing"},
		{"NoDot", "runtime", "runtime"},
		{"Empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := framePackage(tt.function); got != tt.expected {
				t.Errorf("framePackage(%q) = %q, want %q", tt.function, got, tt.expected)
			}
		})
	}
}

func TestFrameSlice(t *testing.T) {
	cursor := frames(
		Frame{Package: "a", File: "a.go"},
		Frame{Package: "b", File: "b.go"},
	)

	f, ok := cursor.Next()
	if !ok || f.Package != "a" {
		t.Fatalf("first Next() = %v, %v", f, ok)
	}
	f, ok = cursor.Next()
	if !ok || f.Package != "b" {
		t.Fatalf("second Next() = %v, %v", f, ok)
	}
	if _, ok = cursor.Next(); ok {
		t.Error("exhausted cursor still produced a frame")
	}
	if _, ok = cursor.Next(); ok {
		t.Error("Next past the root must stay exhausted")
	}
}

func TestCaptureStack(t *testing.T) {
	cursor := captureStack()

	f, ok := cursor.Next()
	if !ok {
		t.Fatal("captureStack produced no frames")
	}
	if !strings.HasSuffix(f.File, "frame_test.go") {
		t.Errorf("first frame file = %q, want this test file", f.File)
	}
	if !strings.HasSuffix(f.Package, "gocallerx") {
		t.Errorf("first frame package = %q, want this package", f.Package)
	}

	// The cursor must terminate: walk it out.
	for i := 0; ; i++ {
		if _, ok := cursor.Next(); !ok {
			break
		}
		if i > 1024 {
			t.Fatal("cursor did not exhaust")
		}
	}
}
