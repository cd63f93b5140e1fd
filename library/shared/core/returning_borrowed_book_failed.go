package core

import (
	"time"
)

const ReturningBorrowedBookFailedEventType = "ReturningBorrowedBookFailed"

// ReturningBorrowedBookFailed records that a return was refused.
type ReturningBorrowedBookFailed struct {
	RequestID     RequestIDString
	BookID        BookIDString
	BorrowerEmail EmailString
	FailureInfo   string
	OccurredAt    OccurredAtTS
}

func BuildReturningBorrowedBookFailed(
	requestID RequestIDString,
	bookID BookIDString,
	borrowerEmail EmailString,
	failureInfo string,
	occurredAt time.Time,
) ReturningBorrowedBookFailed {

	return ReturningBorrowedBookFailed{
		RequestID:     requestID,
		BookID:        bookID,
		BorrowerEmail: borrowerEmail,
		FailureInfo:   failureInfo,
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

func (e ReturningBorrowedBookFailed) EventType() string {
	return ReturningBorrowedBookFailedEventType
}

func (e ReturningBorrowedBookFailed) HasOccurredAt() time.Time {
	return e.OccurredAt
}

func (e ReturningBorrowedBookFailed) IsErrorEvent() bool {
	return true
}
