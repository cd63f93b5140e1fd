package core

import (
	"time"
)

const BorrowTransitionCompensatedEventType = "BorrowTransitionCompensated"

// BorrowTransitionCompensated records that a transition was undone because its availability
// write kept failing. RestoredStatus is the status the request was set back to.
type BorrowTransitionCompensated struct {
	RequestID      RequestIDString
	BookID         BookIDString
	RestoredStatus RequestStatus
	FailureInfo    string
	OccurredAt     OccurredAtTS
}

func BuildBorrowTransitionCompensated(
	requestID RequestIDString,
	bookID BookIDString,
	restoredStatus RequestStatus,
	failureInfo string,
	occurredAt time.Time,
) BorrowTransitionCompensated {

	return BorrowTransitionCompensated{
		RequestID:      requestID,
		BookID:         bookID,
		RestoredStatus: restoredStatus,
		FailureInfo:    failureInfo,
		OccurredAt:     ToOccurredAt(occurredAt),
	}
}

func (e BorrowTransitionCompensated) EventType() string {
	return BorrowTransitionCompensatedEventType
}

func (e BorrowTransitionCompensated) HasOccurredAt() time.Time {
	return e.OccurredAt
}

func (e BorrowTransitionCompensated) IsErrorEvent() bool {
	return true
}
