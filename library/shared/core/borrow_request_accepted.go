package core

import (
	"time"
)

const BorrowRequestAcceptedEventType = "BorrowRequestAccepted"

// BorrowRequestAccepted records that an admin accepted a pending request.
type BorrowRequestAccepted struct {
	RequestID  RequestIDString
	BookID     BookIDString
	OccurredAt OccurredAtTS
}

func BuildBorrowRequestAccepted(
	requestID RequestIDString,
	bookID BookIDString,
	occurredAt time.Time,
) BorrowRequestAccepted {

	return BorrowRequestAccepted{
		RequestID:  requestID,
		BookID:     bookID,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e BorrowRequestAccepted) EventType() string {
	return BorrowRequestAcceptedEventType
}

func (e BorrowRequestAccepted) HasOccurredAt() time.Time {
	return e.OccurredAt
}

func (e BorrowRequestAccepted) IsErrorEvent() bool {
	return false
}
