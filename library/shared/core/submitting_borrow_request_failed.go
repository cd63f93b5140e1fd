package core

import (
	"time"
)

const SubmittingBorrowRequestFailedEventType = "SubmittingBorrowRequestFailed"

// SubmittingBorrowRequestFailed records that a submission was refused or its request could not be created.
type SubmittingBorrowRequestFailed struct {
	SubmissionID  SubmissionIDString
	BookID        BookIDString
	BorrowerEmail EmailString
	FailureInfo   string
	OccurredAt    OccurredAtTS
}

func BuildSubmittingBorrowRequestFailed(
	submissionID SubmissionIDString,
	bookID BookIDString,
	borrowerEmail EmailString,
	failureInfo string,
	occurredAt time.Time,
) SubmittingBorrowRequestFailed {

	return SubmittingBorrowRequestFailed{
		SubmissionID:  submissionID,
		BookID:        bookID,
		BorrowerEmail: borrowerEmail,
		FailureInfo:   failureInfo,
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

func (e SubmittingBorrowRequestFailed) EventType() string {
	return SubmittingBorrowRequestFailedEventType
}

func (e SubmittingBorrowRequestFailed) HasOccurredAt() time.Time {
	return e.OccurredAt
}

func (e SubmittingBorrowRequestFailed) IsErrorEvent() bool {
	return true
}
