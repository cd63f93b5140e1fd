package shell

import (
	"errors"

	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
)

// IsBusinessError is true for refusals the caller can act on: validation, not found,
// conflicts, failed logins and missing permissions.
func IsBusinessError(err error) bool {
	for _, target := range []error{
		core.ErrValidation,
		core.ErrNotFound,
		core.ErrConflict,
		core.ErrAuthenticationFailed,
		core.ErrForbidden,
	} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
