package core

import (
	"time"
)

const BorrowRequestFiledEventType = "BorrowRequestFiled"

// BorrowRequestFiled records that the pending request of a submission was created in the requests store.
type BorrowRequestFiled struct {
	SubmissionID  SubmissionIDString
	RequestID     RequestIDString
	BookID        BookIDString
	BorrowerEmail EmailString
	OccurredAt    OccurredAtTS
}

func BuildBorrowRequestFiled(
	submissionID SubmissionIDString,
	requestID RequestIDString,
	bookID BookIDString,
	borrowerEmail EmailString,
	occurredAt time.Time,
) BorrowRequestFiled {

	return BorrowRequestFiled{
		SubmissionID:  submissionID,
		RequestID:     requestID,
		BookID:        bookID,
		BorrowerEmail: borrowerEmail,
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

func (e BorrowRequestFiled) EventType() string {
	return BorrowRequestFiledEventType
}

func (e BorrowRequestFiled) HasOccurredAt() time.Time {
	return e.OccurredAt
}

func (e BorrowRequestFiled) IsErrorEvent() bool {
	return false
}
