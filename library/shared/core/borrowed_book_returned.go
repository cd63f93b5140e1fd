package core

import (
	"time"
)

const BorrowedBookReturnedEventType = "BorrowedBookReturned"

// BorrowedBookReturned records that the borrower returned the book of an accepted request.
type BorrowedBookReturned struct {
	RequestID     RequestIDString
	BookID        BookIDString
	BorrowerEmail EmailString
	OccurredAt    OccurredAtTS
}

func BuildBorrowedBookReturned(
	requestID RequestIDString,
	bookID BookIDString,
	borrowerEmail EmailString,
	occurredAt time.Time,
) BorrowedBookReturned {

	return BorrowedBookReturned{
		RequestID:     requestID,
		BookID:        bookID,
		BorrowerEmail: borrowerEmail,
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

func (e BorrowedBookReturned) EventType() string {
	return BorrowedBookReturnedEventType
}

func (e BorrowedBookReturned) HasOccurredAt() time.Time {
	return e.OccurredAt
}

func (e BorrowedBookReturned) IsErrorEvent() bool {
	return false
}
