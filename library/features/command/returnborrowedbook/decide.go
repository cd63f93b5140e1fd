package returnborrowedbook

import (
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
)

const (
	failureReasonNotAccepted = "request is not accepted"
)

// Decide implements the business rules for returning a borrowed book.
//
// Business Rules:
//
//	GIVEN: an accepted borrow request
//	WHEN: ReturnBorrowedBook is received
//	THEN: BorrowedBookReturned is generated
//
//	GIVEN: a returned borrow request
//	THEN: nothing is generated (idempotent)
//	EXCEPT: BookAvailabilityRepairScheduled if the book is still marked unavailable
//
//	ERROR: ErrInvalidTransition for pending or rejected requests
func Decide(
	history core.DomainEvents,
	request core.BorrowRequest,
	book core.Book,
	command Command,
) core.DecisionResult {

	switch core.EffectiveStatus(history, request) {
	case core.StatusAccepted:
		return core.SuccessDecision(
			core.BuildBorrowedBookReturned(request.ID, request.BookID, request.BorrowerEmail, command.OccurredAt),
		)

	case core.StatusReturned:
		if !book.Available {
			return core.SuccessDecision(
				core.BuildBookAvailabilityRepairScheduled(request.ID, request.BookID, true, command.OccurredAt),
			)
		}

		return core.IdempotentDecision()

	default:
		return core.ErrorDecision(
			core.BuildReturningBorrowedBookFailed(
				request.ID,
				request.BookID,
				request.BorrowerEmail,
				failureReasonNotAccepted,
				command.OccurredAt,
			),
			core.ErrInvalidTransition,
		)
	}
}
