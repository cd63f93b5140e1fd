package submitborrowrequest

import (
	"time"

	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
)

const (
	failureReasonBookUnavailable      = "book is not available"
	failureReasonBookAlreadyRequested = "book already has an open borrow request"
	failureReasonSubmissionInFlight   = "another submission for this book is in flight"
)

// state represents what is known about the book when the command is decided.
type state struct {
	borrowerHasOpenRequest        bool
	anotherBorrowerHasOpenRequest bool
	submissionInFlight            bool
}

// Decide implements the business rules for asking to borrow a book.
// It is a pure function: the journal history of the book, the book and the store's
// requests for the book go in, the decision comes out.
//
// Business Rules:
//
//	GIVEN: a book and its borrow requests
//	WHEN: SubmitBorrowRequest is received
//	THEN: BorrowRequestSubmitted is generated, it claims the book until the request is filed
//	ERROR: ErrBookUnavailable if the book is marked unavailable
//	ERROR: ErrBookAlreadyRequested if another borrower holds a pending or accepted request
//	ERROR: ErrBookAlreadyRequested if an unfinished claim younger than claimTTL exists
//	IDEMPOTENCY: if this borrower already holds an open request, nothing is generated
func Decide(
	history core.DomainEvents,
	book core.Book,
	requests []core.BorrowRequest,
	command Command,
	now time.Time,
	claimTTL time.Duration,
) core.DecisionResult {

	s := project(history, requests, command, now, claimTTL)

	if s.borrowerHasOpenRequest {
		return core.IdempotentDecision()
	}

	if !book.Available {
		return failed(command, failureReasonBookUnavailable, core.ErrBookUnavailable)
	}

	if s.anotherBorrowerHasOpenRequest {
		return failed(command, failureReasonBookAlreadyRequested, core.ErrBookAlreadyRequested)
	}

	if s.submissionInFlight {
		return failed(command, failureReasonSubmissionInFlight, core.ErrBookAlreadyRequested)
	}

	return core.SuccessDecision(
		core.BuildBorrowRequestSubmitted(
			command.SubmissionID,
			command.BookID,
			book.Title,
			command.BorrowerName,
			command.BorrowerEmail,
			command.OccurredAt,
		),
	)
}

// OpenRequestOf returns the open request the borrower holds for the book.
// The journal status wins over the store status of a request.
func OpenRequestOf(
	history core.DomainEvents,
	requests []core.BorrowRequest,
	bookID core.BookIDString,
	borrowerEmail core.EmailString,
) (core.BorrowRequest, bool) {

	for _, request := range requests {
		if request.BookID != bookID || request.BorrowerEmail != borrowerEmail {
			continue
		}

		if core.EffectiveStatus(history, request).IsOpen() {
			return request, true
		}
	}

	return core.BorrowRequest{}, false
}

func project(
	history core.DomainEvents,
	requests []core.BorrowRequest,
	command Command,
	now time.Time,
	claimTTL time.Duration,
) state {

	s := state{}

	for _, request := range requests {
		if request.BookID != command.BookID || !core.EffectiveStatus(history, request).IsOpen() {
			continue
		}

		if request.BorrowerEmail == command.BorrowerEmail {
			s.borrowerHasOpenRequest = true
		} else {
			s.anotherBorrowerHasOpenRequest = true
		}
	}

	for _, claim := range core.PendingSubmissionClaims(history) {
		if claim.BookID == command.BookID && !claim.IsStale(now, claimTTL) {
			s.submissionInFlight = true
		}
	}

	return s
}

func failed(command Command, reason string, err error) core.DecisionResult {
	event := core.BuildSubmittingBorrowRequestFailed(
		command.SubmissionID,
		command.BookID,
		command.BorrowerEmail,
		reason,
		command.OccurredAt,
	)

	return core.ErrorDecision(event, err)
}
