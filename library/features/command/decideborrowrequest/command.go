package decideborrowrequest

import (
	"time"

	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/session"
)

const (
	commandType = "DecideBorrowRequest"
)

// Command represents an admin accepting or rejecting a pending borrow request.
type Command struct {
	RequestID  core.RequestIDString `json:"requestId" validate:"notblank"`
	Outcome    core.RequestStatus   `json:"outcome" validate:"oneof=accepted rejected"`
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
	outcome core.RequestStatus,
	actor session.Session,
	occurredAt time.Time,
) Command {

	return Command{
		RequestID:  requestID,
		Outcome:    outcome,
		Actor:      actor,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}

// Accept is a shorthand for BuildCommand with the accepted outcome.
func Accept(requestID core.RequestIDString, actor session.Session, occurredAt time.Time) Command {
	return BuildCommand(requestID, core.StatusAccepted, actor, occurredAt)
}

// Reject is a shorthand for BuildCommand with the rejected outcome.
func Reject(requestID core.RequestIDString, actor session.Session, occurredAt time.Time) Command {
	return BuildCommand(requestID, core.StatusRejected, actor, occurredAt)
}
