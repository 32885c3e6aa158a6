package ptr

// Ref returns a pointer to v. Handy for optional struct fields built from
// expressions.
func Ref[T any](v T) *T {
	return &v
}
