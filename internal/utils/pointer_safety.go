package utils

// Value dereferences p, yielding the zero value when p is nil. Wire
// types use pointers for optional fields; Value keeps their callers
// nil-safe.
func Value[T any](p *T) T {
	if p == nil {
		return *new(T)
	}
	return *p
}

// Ptr returns a pointer to v, for filling optional fields in literals.
func Ptr[T any](v T) *T {
	return &v
}
