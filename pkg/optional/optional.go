// Package optional provides an explicit "value or nothing" type.
//
// The request builder skips URL segments and query parameters whose value is
// absent, so an empty string stays a legitimate value.
package optional

import "fmt"

// Optional holds a value of T or nothing.
type Optional[T any] struct {
	value T
	ok    bool
}

// Some wraps v as a present value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, ok: true}
}

// None returns an absent value.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// FromPtr returns None for a nil pointer and Some(*p) otherwise.
func FromPtr[T any](p *T) Optional[T] {
	if p == nil {
		return None[T]()
	}
	return Some(*p)
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.ok
}

// IsPresent reports whether a value is held.
func (o Optional[T]) IsPresent() bool { return o.ok }

// OrElse returns the held value or fallback.
func (o Optional[T]) OrElse(fallback T) T {
	if !o.ok {
		return fallback
	}
	return o.value
}

// String converts a present value to its string form (fmt.Stringer first,
// then fmt's default formatting). Absent stays absent.
func String[T any](o Optional[T]) Optional[string] {
	v, ok := o.Get()
	if !ok {
		return None[string]()
	}
	switch s := any(v).(type) {
	case string:
		return Some(s)
	case fmt.Stringer:
		return Some(s.String())
	default:
		return Some(fmt.Sprint(v))
	}
}

// Of is shorthand for String(Some(v)).
func Of[T any](v T) Optional[string] {
	return String(Some(v))
}
