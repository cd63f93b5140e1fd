package removebook

import (
	"time"

	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
)

// Decide returns core.ErrBookHasOpenRequest while the book is held or claimed, nil otherwise.
func Decide(
	history core.DomainEvents,
	requests []core.BorrowRequest,
	bookID core.BookIDString,
	now time.Time,
	claimTTL time.Duration,
) error {

	for _, request := range requests {
		if request.BookID == bookID && core.EffectiveStatus(history, request).IsOpen() {
			return core.ErrBookHasOpenRequest
		}
	}

	for _, claim := range core.PendingSubmissionClaims(history) {
		if claim.BookID == bookID && !claim.IsStale(now, claimTTL) {
			return core.ErrBookHasOpenRequest
		}
	}

	return nil
}
