// Package stdx has small generic helpers missing from the standard library.
package stdx

// Must1 returns v, or panics when err is not nil.
// It is meant for package-level tool declarations whose construction
// can only fail on programmer error.
func Must1[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
