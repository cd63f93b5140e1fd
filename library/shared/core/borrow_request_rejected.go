package core

import (
	"time"
)

const BorrowRequestRejectedEventType = "BorrowRequestRejected"

// BorrowRequestRejected records that an admin rejected a pending request.
type BorrowRequestRejected struct {
	RequestID  RequestIDString
	BookID     BookIDString
	OccurredAt OccurredAtTS
}

func BuildBorrowRequestRejected(
	requestID RequestIDString,
	bookID BookIDString,
	occurredAt time.Time,
) BorrowRequestRejected {

	return BorrowRequestRejected{
		RequestID:  requestID,
		BookID:     bookID,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e BorrowRequestRejected) EventType() string {
	return BorrowRequestRejectedEventType
}

func (e BorrowRequestRejected) HasOccurredAt() time.Time {
	return e.OccurredAt
}

func (e BorrowRequestRejected) IsErrorEvent() bool {
	return false
}
