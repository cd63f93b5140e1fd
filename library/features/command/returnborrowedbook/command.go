package returnborrowedbook

import (
	"time"

	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/session"
)

const (
	commandType = "ReturnBorrowedBook"
)

// Command represents a borrower giving back a book of an accepted request.
type Command struct {
	RequestID  core.RequestIDString `json:"requestId" validate:"notblank"`
	BookID     core.BookIDString    `json:"bookId" validate:"notblank"`
	Actor      session.Session      `json:"-"`
	OccurredAt core.OccurredAtTS    `json:"-"`
}

// CommandType returns the type identifier for this command, used for observability.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	requestID core.RequestIDString,
	bookID core.BookIDString,
	actor session.Session,
	occurredAt time.Time,
) Command {

	return Command{
		RequestID:  requestID,
		BookID:     bookID,
		Actor:      actor,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
