package eventstore_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-borrow-desk/eventstore"
)

var fakeClock = time.Date(2025, 7, 12, 9, 30, 0, 0, time.UTC)

func givenEvent(t *testing.T, eventType string, occurredAt time.Time, payload string) eventstore.StorableEvent {
	t.Helper()

	event, err := eventstore.BuildStorableEventWithEmptyMetadata(eventType, occurredAt, []byte(payload))
	require.NoError(t, err)

	return event
}

func Test_FilterBuilder_SanitizesItems(t *testing.T) {
	// act
	filter := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf("B", "", "A", "B").
		AndAnyPredicateOf(eventstore.P("bookId", "2"), eventstore.P("", "x"), eventstore.P("bookId", "1"), eventstore.P("bookId", "2")).
		OrMatching().
		Finalize()

	// assert
	require.Len(t, filter.Items(), 1)
	item := filter.Items()[0]
	assert.Equal(t, []string{"A", "B"}, item.EventTypes())
	assert.Equal(t, []eventstore.FilterPredicate{eventstore.P("bookId", "1"), eventstore.P("bookId", "2")}, item.Predicates())
	assert.False(t, item.AllPredicatesMustMatch())
}

func Test_FilterBuilder_AllPredicatesOf_WithOnePredicate_IsNotAnAllMatch(t *testing.T) {
	// act
	filter := eventstore.BuildEventFilter().
		Matching().
		AllPredicatesOf(eventstore.P("bookId", "1")).
		Finalize()

	// assert
	require.Len(t, filter.Items(), 1)
	assert.False(t, filter.Items()[0].AllPredicatesMustMatch())
}

func Test_Filter_Matches(t *testing.T) {
	submitted := givenEvent(t, "BorrowRequestSubmitted", fakeClock, `{"bookId":"1","borrowerEmail":"ann@example.org"}`)
	accepted := givenEvent(t, "BorrowRequestAccepted", fakeClock.Add(time.Hour), `{"bookId":"1","requestId":"7"}`)
	otherBook := givenEvent(t, "BorrowRequestSubmitted", fakeClock, `{"bookId":"2","borrowerEmail":"bob@example.org"}`)
	numericID := givenEvent(t, "BorrowRequestSubmitted", fakeClock, `{"bookId":1}`)

	testCases := []struct {
		name   string
		filter eventstore.Filter
		event  eventstore.StorableEvent
		want   bool
	}{
		{
			name:   "any event",
			filter: eventstore.BuildEventFilter().MatchingAnyEvent(),
			event:  otherBook,
			want:   true,
		},
		{
			name:   "event type only",
			filter: eventstore.BuildEventFilter().Matching().AnyEventTypeOf("BorrowRequestAccepted").Finalize(),
			event:  submitted,
			want:   false,
		},
		{
			name:   "predicate only",
			filter: eventstore.BuildEventFilter().Matching().AnyPredicateOf(eventstore.P("bookId", "1")).Finalize(),
			event:  accepted,
			want:   true,
		},
		{
			name:   "predicate on another book",
			filter: eventstore.BuildEventFilter().Matching().AnyPredicateOf(eventstore.P("bookId", "1")).Finalize(),
			event:  otherBook,
			want:   false,
		},
		{
			name:   "predicates only match strings",
			filter: eventstore.BuildEventFilter().Matching().AnyPredicateOf(eventstore.P("bookId", "1")).Finalize(),
			event:  numericID,
			want:   false,
		},
		{
			name: "all predicates, one missing",
			filter: eventstore.BuildEventFilter().
				Matching().
				AllPredicatesOf(eventstore.P("bookId", "1"), eventstore.P("requestId", "7")).
				Finalize(),
			event: submitted,
			want:  false,
		},
		{
			name: "all predicates present",
			filter: eventstore.BuildEventFilter().
				Matching().
				AllPredicatesOf(eventstore.P("bookId", "1"), eventstore.P("requestId", "7")).
				Finalize(),
			event: accepted,
			want:  true,
		},
		{
			name: "second item of an OR",
			filter: eventstore.BuildEventFilter().
				Matching().
				AnyEventTypeOf("BorrowRequestAccepted").
				OrMatching().
				AnyEventTypeOf("BorrowRequestSubmitted").
				AndAnyPredicateOf(eventstore.P("bookId", "2")).
				Finalize(),
			event: otherBook,
			want:  true,
		},
		{
			name:   "before occurred from",
			filter: eventstore.BuildEventFilter().OccurredFrom(fakeClock.Add(time.Minute)).MatchingAnyEvent(),
			event:  submitted,
			want:   false,
		},
		{
			name: "within bounds",
			filter: eventstore.BuildEventFilter().
				OccurredFrom(fakeClock).
				OccurredUntil(fakeClock.Add(time.Hour)).
				Matching().
				AnyPredicateOf(eventstore.P("bookId", "1")).
				Finalize(),
			event: accepted,
			want:  true,
		},
		{
			name:   "after occurred until",
			filter: eventstore.BuildEventFilter().OccurredUntil(fakeClock.Add(time.Minute)).MatchingAnyEvent(),
			event:  accepted,
			want:   false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.filter.Matches(tc.event))
		})
	}
}

func Test_BuildStorableEvent_Error_WhenJSONIsInvalid(t *testing.T) {
	// act
	_, payloadErr := eventstore.BuildStorableEvent("BookAvailabilityChanged", fakeClock, []byte(`{"bookId":`), []byte(`{}`))
	_, metadataErr := eventstore.BuildStorableEvent("BookAvailabilityChanged", fakeClock, []byte(`{}`), []byte(`nope`))

	// assert
	assert.ErrorIs(t, payloadErr, eventstore.ErrInvalidPayloadJSON)
	assert.ErrorIs(t, metadataErr, eventstore.ErrInvalidMetadataJSON)
}
