package guard

import (
	"errors"
	"fmt"
)

// ErrPanic is wrapped by the errors returned when a guarded function panics.
var ErrPanic = errors.New("recovered panic")

// Run calls fn and returns an error wrapping ErrPanic if fn panicked.
func Run(fn func()) error {
	return run(fn)
}

// Value calls fn and returns its result. If fn panicked, the zero value is returned together with an error wrapping
// ErrPanic.
func Value[T any](fn func() T) (value T, err error) {
	err = run(func() {
		value = fn()
	})
	return
}

func run(fn func()) (err error) {
	if fn == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = fmt.Errorf("%w: %w", ErrPanic, e)
				return
			}
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	fn()
	return nil
}
