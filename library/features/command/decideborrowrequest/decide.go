package decideborrowrequest

import (
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
)

const (
	failureReasonInvalidTransition = "request is not pending"
)

// Decide implements the business rules for deciding a borrow request.
// It is a pure function: the journal history of the book, the fresh request and the
// fresh book go in, the decision comes out.
//
// Business Rules:
//
//	GIVEN: a pending borrow request
//	WHEN: DecideBorrowRequest with outcome accepted is received
//	THEN: BorrowRequestAccepted is generated, whatever the book's availability flag says
//
//	GIVEN: a pending borrow request
//	WHEN: DecideBorrowRequest with outcome rejected is received
//	THEN: BorrowRequestRejected is generated
//
//	GIVEN: a request that already has the outcome
//	THEN: nothing is generated (idempotent)
//	EXCEPT: an accepted request whose book is still available gets BookAvailabilityRepairScheduled
//
//	ERROR: ErrInvalidTransition for any other status
func Decide(
	history core.DomainEvents,
	request core.BorrowRequest,
	book core.Book,
	command Command,
) core.DecisionResult {

	status := core.EffectiveStatus(history, request)

	if status == command.Outcome {
		if command.Outcome == core.StatusAccepted && book.Available {
			return core.SuccessDecision(
				core.BuildBookAvailabilityRepairScheduled(request.ID, request.BookID, false, command.OccurredAt),
			)
		}

		return core.IdempotentDecision()
	}

	if status != core.StatusPending {
		return failed(request, command, failureReasonInvalidTransition, core.ErrInvalidTransition)
	}

	if command.Outcome == core.StatusRejected {
		return core.SuccessDecision(
			core.BuildBorrowRequestRejected(request.ID, request.BookID, command.OccurredAt),
		)
	}

	return core.SuccessDecision(
		core.BuildBorrowRequestAccepted(request.ID, request.BookID, command.OccurredAt),
	)
}

func failed(request core.BorrowRequest, command Command, reason string, err error) core.DecisionResult {
	event := core.BuildDecidingBorrowRequestFailed(
		request.ID,
		request.BookID,
		command.Outcome,
		reason,
		command.OccurredAt,
	)

	return core.ErrorDecision(event, err)
}
