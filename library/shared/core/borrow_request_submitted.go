package core

import (
	"time"
)

const BorrowRequestSubmittedEventType = "BorrowRequestSubmitted"

// BorrowRequestSubmitted records that a borrower asked for a book.
// It is the claim that blocks other borrowers until the request is filed or the submission fails.
type BorrowRequestSubmitted struct {
	SubmissionID  SubmissionIDString
	BookID        BookIDString
	BookTitle     string
	BorrowerName  string
	BorrowerEmail EmailString
	OccurredAt    OccurredAtTS
}

func BuildBorrowRequestSubmitted(
	submissionID SubmissionIDString,
	bookID BookIDString,
	bookTitle string,
	borrowerName string,
	borrowerEmail EmailString,
	occurredAt time.Time,
) BorrowRequestSubmitted {

	return BorrowRequestSubmitted{
		SubmissionID:  submissionID,
		BookID:        bookID,
		BookTitle:     bookTitle,
		BorrowerName:  borrowerName,
		BorrowerEmail: borrowerEmail,
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

func (e BorrowRequestSubmitted) EventType() string {
	return BorrowRequestSubmittedEventType
}

func (e BorrowRequestSubmitted) HasOccurredAt() time.Time {
	return e.OccurredAt
}

func (e BorrowRequestSubmitted) IsErrorEvent() bool {
	return false
}
