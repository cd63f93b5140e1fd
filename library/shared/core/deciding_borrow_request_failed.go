package core

import (
	"time"
)

const DecidingBorrowRequestFailedEventType = "DecidingBorrowRequestFailed"

// DecidingBorrowRequestFailed records that an accept or reject was refused.
type DecidingBorrowRequestFailed struct {
	RequestID   RequestIDString
	BookID      BookIDString
	Outcome     RequestStatus
	FailureInfo string
	OccurredAt  OccurredAtTS
}

func BuildDecidingBorrowRequestFailed(
	requestID RequestIDString,
	bookID BookIDString,
	outcome RequestStatus,
	failureInfo string,
	occurredAt time.Time,
) DecidingBorrowRequestFailed {

	return DecidingBorrowRequestFailed{
		RequestID:   requestID,
		BookID:      bookID,
		Outcome:     outcome,
		FailureInfo: failureInfo,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

func (e DecidingBorrowRequestFailed) EventType() string {
	return DecidingBorrowRequestFailedEventType
}

func (e DecidingBorrowRequestFailed) HasOccurredAt() time.Time {
	return e.OccurredAt
}

func (e DecidingBorrowRequestFailed) IsErrorEvent() bool {
	return true
}
