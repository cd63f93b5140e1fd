package submitborrowrequest

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
)

const (
	commandType = "SubmitBorrowRequest"
)

// Command represents the intent to ask for a book.
// SubmissionID identifies the claim in the journal until the request is filed.
type Command struct {
	SubmissionID  core.SubmissionIDString `json:"-"`
	BookID        core.BookIDString       `json:"bookId" validate:"notblank"`
	BorrowerName  string                  `json:"borrowerName" validate:"notblank"`
	BorrowerEmail core.EmailString        `json:"borrowerEmail" validate:"notblank"`
	OccurredAt    core.OccurredAtTS       `json:"-"`
}

// CommandType returns the type identifier for this command, used for observability.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	submissionID uuid.UUID,
	bookID core.BookIDString,
	borrowerName string,
	borrowerEmail core.EmailString,
	occurredAt time.Time,
) Command {

	return Command{
		SubmissionID:  submissionID.String(),
		BookID:        bookID,
		BorrowerName:  borrowerName,
		BorrowerEmail: borrowerEmail,
		OccurredAt:    core.ToOccurredAt(occurredAt),
	}
}
