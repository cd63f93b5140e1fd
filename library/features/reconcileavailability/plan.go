package reconcileavailability

import (
	"time"

	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
)

// Actions is what one pass has to do. It is computed by Plan and carried out by the CommandHandler.
type Actions struct {
	Redrive       []core.OpenTransition
	StatusRepairs []core.BorrowRequest // Status is the status to write
	Flips         []core.BorrowRequest
	StaleClaims   []core.SubmissionClaim
	Drift         []core.Book
}

// Plan compares the journal with the store records. It is pure.
func Plan(
	history core.DomainEvents,
	books []core.Book,
	requests []core.BorrowRequest,
	now time.Time,
	claimTTL time.Duration,
) Actions {

	actions := Actions{Redrive: core.OpenTransitions(history)}

	redriven := make(map[core.RequestIDString]bool, len(actions.Redrive))
	touchedBooks := make(map[core.BookIDString]bool, len(actions.Redrive))
	for _, transition := range actions.Redrive {
		redriven[transition.Plan.RequestID] = true
		touchedBooks[transition.Plan.BookID] = true
	}

	available := make(map[core.BookIDString]bool, len(books))
	for _, book := range books {
		available[book.ID] = book.Available
	}

	accepted := make(map[core.BookIDString]bool)

	for _, request := range requests {
		if redriven[request.ID] {
			continue
		}

		status := core.EffectiveStatus(history, request)

		if status != request.Status {
			repair := request
			repair.Status = status
			actions.StatusRepairs = append(actions.StatusRepairs, repair)
		}

		if status != core.StatusAccepted {
			continue
		}

		if isAvailable, known := available[request.BookID]; known && isAvailable && !accepted[request.BookID] {
			actions.Flips = append(actions.Flips, request)
		}

		accepted[request.BookID] = true
	}

	for _, claim := range core.PendingSubmissionClaims(history) {
		if claim.IsStale(now, claimTTL) {
			actions.StaleClaims = append(actions.StaleClaims, claim)
		}
	}

	for _, book := range books {
		if !book.Available && !accepted[book.ID] && !touchedBooks[book.ID] {
			actions.Drift = append(actions.Drift, book)
		}
	}

	return actions
}
