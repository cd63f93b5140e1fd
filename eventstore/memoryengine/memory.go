// Package memoryengine is an in-process engine of the lifecycle journal.
//
// It gives the same conditional append semantics as the postgres engine inside
// one process. It is the default when no database is configured and the engine
// the feature tests run against.
package memoryengine

import (
	"context"
	"slices"
	"sync"

	"github.com/AntonStoeckl/library-borrow-desk/eventstore"
)

// EventStore keeps all events in a slice guarded by a RWMutex.
type EventStore struct {
	mu     sync.RWMutex
	events eventstore.StorableEvents
	logger eventstore.Logger
}

// Option configures an EventStore.
type Option func(*EventStore)

// WithLogger sets a logger that receives an info record per append and conflict.
func WithLogger(logger eventstore.Logger) Option {
	return func(es *EventStore) {
		es.logger = logger
	}
}

func NewEventStore(options ...Option) *EventStore {
	es := &EventStore{events: make(eventstore.StorableEvents, 0)}

	for _, option := range options {
		option(es)
	}

	return es
}

// Query returns the matching events in sequence order and the max sequence number among them.
func (es *EventStore) Query(ctx context.Context, filter eventstore.Filter) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	es.mu.RLock()
	defer es.mu.RUnlock()

	matching, maxSequenceNumber := es.matching(filter)

	return matching, maxSequenceNumber, nil
}

// Append appends atomically if the filtered stream did not move since expectedMaxSequenceNumber.
func (es *EventStore) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	storableEvents ...eventstore.StorableEvent,
) error {

	if len(storableEvents) == 0 {
		return eventstore.ErrNoEventsToAppend
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	es.mu.Lock()
	defer es.mu.Unlock()

	if _, current := es.matching(filter); current != expectedMaxSequenceNumber {
		if es.logger != nil {
			es.logger.Info("eventstore operation: concurrency conflict detected",
				"expected_sequence", expectedMaxSequenceNumber, "actual_sequence", current)
		}

		return eventstore.ErrConcurrencyConflict
	}

	for _, event := range storableEvents {
		nextSequenceNumber := uint(len(es.events)) + 1
		es.events = append(es.events, event.WithSequenceNumber(nextSequenceNumber))
	}

	if es.logger != nil {
		es.logger.Info("eventstore operation: events appended", "event_count", len(storableEvents))
	}

	return nil
}

// Len returns the number of stored events.
func (es *EventStore) Len() int {
	es.mu.RLock()
	defer es.mu.RUnlock()

	return len(es.events)
}

func (es *EventStore) matching(filter eventstore.Filter) (eventstore.StorableEvents, eventstore.MaxSequenceNumberUint) {
	matching := make(eventstore.StorableEvents, 0)
	maxSequenceNumber := eventstore.MaxSequenceNumberUint(0)

	for _, event := range es.events {
		if filter.Matches(event) {
			matching = append(matching, event)
			maxSequenceNumber = event.SequenceNumber
		}
	}

	return slices.Clip(matching), maxSequenceNumber
}
