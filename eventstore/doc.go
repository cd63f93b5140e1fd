// Package eventstore provides the lifecycle journal abstractions of the borrow desk.
//
// The journal is an append-only log of borrow lifecycle events. It is not the
// source of truth for books or borrow requests (those live in the external
// stores); it is the consistency boundary that serializes concurrent actors
// working on the same book and the log that reconciliation reads to finish
// interrupted two-step writes.
//
// Concurrency works on "dynamic event streams": a Filter selects the events a
// decision depends on, Query returns them together with the highest sequence
// number among them, and Append only succeeds if that number has not moved.
//
//	filter := eventstore.BuildEventFilter().
//		Matching().
//		AnyEventTypeOf(core.BorrowRequestSubmittedEventType, core.BorrowRequestFiledEventType).
//		AndAnyPredicateOf(eventstore.P("BookID", bookID)).
//		Finalize()
//
//	events, maxSeq, err := journal.Query(ctx, filter)
//	// ... decide ...
//	err = journal.Append(ctx, filter, maxSeq, storableEvent)
//	if errors.Is(err, eventstore.ErrConcurrencyConflict) {
//		// somebody else touched the same book, query and decide again
//	}
package eventstore
