package reconcileavailability

import (
	"time"

	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
)

const (
	commandType = "ReconcileAvailability"
)

// Command asks for one reconciliation pass. Callers check who may ask.
type Command struct {
	OccurredAt core.OccurredAtTS
}

func (c Command) CommandType() string {
	return commandType
}

func BuildCommand(occurredAt time.Time) Command {
	return Command{OccurredAt: core.ToOccurredAt(occurredAt)}
}
