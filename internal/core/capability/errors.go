package capability

import (
	"errors"
	"fmt"
)

var (
	// ErrCapabilityNotFound is returned by Resolve when no candidate could be bound.
	ErrCapabilityNotFound = errors.New("invoice analysis engine not found or could not be started")

	// ErrSignatureMismatch marks a constructor or target that rejected the
	// arguments it was called with. Callers retry with fewer arguments.
	ErrSignatureMismatch = errors.New("signature mismatch")

	ErrModuleNotFound = errors.New("module not found")
	ErrSymbolNotFound = errors.New("symbol not found")
	ErrNoMethod       = errors.New("no usable analysis method")
)

// UnexpectedKeyword reports the first keyword in kw that is not listed in
// accepted, wrapped in ErrSignatureMismatch. It returns nil if all are accepted.
func UnexpectedKeyword(kw Kwargs, accepted ...string) error {
	for _, name := range kw.Names() {
		ok := false
		for _, a := range accepted {
			if a == name {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("%w: unexpected keyword argument %q", ErrSignatureMismatch, name)
		}
	}
	return nil
}
