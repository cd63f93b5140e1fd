package shell

import (
	"context"

	"github.com/AntonStoeckl/library-borrow-desk/eventstore"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
)

// BookScopeFilter selects all lifecycle events of one book.
// Every lifecycle command appends conditionally on it, which serializes commands on the same book.
func BookScopeFilter(bookID core.BookIDString) eventstore.Filter {
	eventTypes := core.BookLifecycleEventTypes()

	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(eventTypes[0], eventTypes[1:]...).
		AndAnyPredicateOf(eventstore.P(core.PayloadKeyBookID, bookID)).
		Finalize()
}

// LifecycleFilter selects the lifecycle events of all books.
func LifecycleFilter() eventstore.Filter {
	eventTypes := core.BookLifecycleEventTypes()

	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(eventTypes[0], eventTypes[1:]...).
		Finalize()
}

// BookHistory is what a lifecycle command decides on, plus what it needs to append conditionally.
type BookHistory struct {
	Filter            eventstore.Filter
	Envelopes         EventEnvelopes
	MaxSequenceNumber eventstore.MaxSequenceNumberUint
}

func (h BookHistory) Events() core.DomainEvents {
	return DomainEventsOf(h.Envelopes)
}

func LoadBookHistory(ctx context.Context, journal QueriesEvents, bookID core.BookIDString) (BookHistory, error) {
	filter := BookScopeFilter(bookID)

	storableEvents, maxSequenceNumber, err := journal.Query(ctx, filter)
	if err != nil {
		return BookHistory{}, err
	}

	envelopes, err := EventEnvelopesFrom(storableEvents)
	if err != nil {
		return BookHistory{}, err
	}

	return BookHistory{
		Filter:            filter,
		Envelopes:         envelopes,
		MaxSequenceNumber: maxSequenceNumber,
	}, nil
}

// AppendToHistory appends only if nothing was appended to the book scope since history was loaded.
// Otherwise it returns eventstore.ErrConcurrencyConflict.
func AppendToHistory(
	ctx context.Context,
	journal AppendsEvents,
	history BookHistory,
	metadata EventMetadata,
	events ...core.DomainEvent,
) error {

	storableEvents, err := StorableEventsFrom(events, metadata)
	if err != nil {
		return err
	}

	return journal.Append(ctx, history.Filter, history.MaxSequenceNumber, storableEvents...)
}

// AppendToBookScope appends facts that do not depend on a decision, e.g. saga outcomes.
// It reloads the max sequence number and retries on concurrency conflicts.
func AppendToBookScope(
	ctx context.Context,
	journal EventStore,
	bookID core.BookIDString,
	metadata EventMetadata,
	events ...core.DomainEvent,
) error {

	filter := BookScopeFilter(bookID)

	storableEvents, err := StorableEventsFrom(events, metadata)
	if err != nil {
		return err
	}

	_, err = RetryWithExponentialBackoff(ctx, func(ctx context.Context) error {
		_, maxSequenceNumber, queryErr := journal.Query(ctx, filter)
		if queryErr != nil {
			return queryErr
		}

		return journal.Append(ctx, filter, maxSequenceNumber, storableEvents...)
	})

	return err
}

// LoadLifecycleEnvelopes returns the lifecycle events of all books with their metadata, in journal order.
func LoadLifecycleEnvelopes(ctx context.Context, journal QueriesEvents) (EventEnvelopes, error) {
	storableEvents, _, err := journal.Query(ctx, LifecycleFilter())
	if err != nil {
		return nil, err
	}

	return EventEnvelopesFrom(storableEvents)
}

func LoadLifecycleHistory(ctx context.Context, journal QueriesEvents) (core.DomainEvents, error) {
	envelopes, err := LoadLifecycleEnvelopes(ctx, journal)
	if err != nil {
		return nil, err
	}

	return DomainEventsOf(envelopes), nil
}

// WithEffectiveStatus returns copies of the requests carrying the journal status where the journal knows better.
func WithEffectiveStatus(history core.DomainEvents, requests []core.BorrowRequest) []core.BorrowRequest {
	effective := make([]core.BorrowRequest, 0, len(requests))

	for _, request := range requests {
		request.Status = core.EffectiveStatus(history, request)
		effective = append(effective, request)
	}

	return effective
}
