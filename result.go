package gocallerx

// absentMarker is how an absent Result renders in log output and String().
const absentMarker = "<absent>"

// Result is the outcome of a caller resolution: either a present string
// value or the explicit absence of one. The zero value is absent.
// Absence is a normal outcome, not an error; callers must unpack via Value
// or Or rather than comparing against string constants.
type Result struct {
	value   string
	present bool
}

// Present returns a Result holding v.
func Present(v string) Result {
	return Result{value: v, present: true}
}

// Absent returns the explicit "no value" Result.
func Absent() Result {
	return Result{}
}

// Value returns the resolved value and whether one is present.
func (r Result) Value() (string, bool) {
	return r.value, r.present
}

// IsPresent reports whether the Result holds a value.
func (r Result) IsPresent() bool {
	return r.present
}

// Or returns the resolved value, or def when absent.
func (r Result) Or(def string) string {
	if r.present {
		return r.value
	}
	return def
}

// String renders the value for display. An absent Result renders the fixed
// absent marker, which is for display only and never compares equal to a
// present Result holding the same text.
func (r Result) String() string {
	if r.present {
		return r.value
	}
	return absentMarker
}
