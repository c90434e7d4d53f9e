package pointer

// Ref returns a pointer to a copy of v.
func Ref[T any](v T) *T {
	return &v
}

// Deref returns the value pointed to by p, or the zero value when p is nil.
func Deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}

	return *p
}

func String(v string) *string {
	return &v
}

func StringDeref(p *string) string {
	return Deref(p)
}

// IsNilOrEmpty is true for both an absent and an empty string, which are equivalent in stored documents.
func IsNilOrEmpty(p *string) bool {
	return p == nil || *p == ""
}
