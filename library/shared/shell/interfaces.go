package shell

import (
	"context"

	"github.com/AntonStoeckl/library-borrow-desk/eventstore"
)

// QueriesEvents is the read side of the lifecycle journal.
type QueriesEvents interface {
	Query(ctx context.Context, filter eventstore.Filter) (
		eventstore.StorableEvents,
		eventstore.MaxSequenceNumberUint,
		error,
	)
}

// AppendsEvents is the conditional write side of the lifecycle journal.
type AppendsEvents interface {
	Append(
		ctx context.Context,
		filter eventstore.Filter,
		expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
		storableEvents ...eventstore.StorableEvent,
	) error
}

// EventStore is what the lifecycle command handlers need from the journal.
// Both the postgres and the memory engine implement it.
type EventStore interface {
	QueriesEvents
	AppendsEvents
}

// Command is implemented by all command types. CommandType is used for observability.
type Command interface {
	CommandType() string
}

// CoreCommandHandler processes a command without any observability concerns.
// Wrap it with observable.CommandWrapper.
type CoreCommandHandler[C Command] interface {
	Handle(ctx context.Context, command C) (HandlerResult, error)
}

// Query is implemented by all query types. QueryType is used for observability.
type Query interface {
	QueryType() string
}

// CoreQueryHandler answers a query without any observability concerns.
// Wrap it with observable.QueryWrapper.
type CoreQueryHandler[Q Query, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}
