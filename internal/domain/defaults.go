package domain

// FirstSet returns the first value that is not the zero value of T. Catalog
// entries use it to inherit file-level defaults.
func FirstSet[T comparable](vals ...T) T {
	var zero T
	for _, v := range vals {
		if v != zero {
			return v
		}
	}
	return zero
}

// DerefOr returns the value behind the first non-nil pointer, or fallback.
// An explicit zero (false, 0) behind a pointer wins over the fallback.
func DerefOr[T any](fallback T, ptrs ...*T) T {
	for _, p := range ptrs {
		if p != nil {
			return *p
		}
	}
	return fallback
}
