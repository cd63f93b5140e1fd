package shell_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-borrow-desk/eventstore/memoryengine"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell"
)

const (
	requestID = "req-1"
	bookID    = "book-1"
)

type writeCall struct {
	kind   string
	status core.RequestStatus
	avail  bool
}

type fakeWriter struct {
	mu                   sync.Mutex
	calls                []writeCall
	statusFailures       map[core.RequestStatus]int
	availabilityFailures int
}

func (w *fakeWriter) UpdateRequestStatus(_ context.Context, _ core.RequestIDString, status core.RequestStatus) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.calls = append(w.calls, writeCall{kind: "status", status: status})
	if w.statusFailures[status] != 0 {
		if w.statusFailures[status] > 0 {
			w.statusFailures[status]--
		}
		return core.ErrNetworkFailure
	}

	return nil
}

func (w *fakeWriter) SetBookAvailability(_ context.Context, _ core.BookIDString, available bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.calls = append(w.calls, writeCall{kind: "availability", avail: available})
	if w.availabilityFailures != 0 {
		if w.availabilityFailures > 0 {
			w.availabilityFailures--
		}
		return core.ErrNetworkFailure
	}

	return nil
}

func givenSaga(t *testing.T, writer *fakeWriter) (shell.Saga, *memoryengine.EventStore) {
	t.Helper()

	journal := memoryengine.NewEventStore()
	saga := shell.NewSaga(
		writer,
		journal,
		shell.WithSagaRetryOptions(shell.WithMaxAttempts(3), shell.WithBaseDelay(time.Millisecond)),
	)

	return saga, journal
}

func acceptPlan() core.TransitionPlan {
	plan, _ := core.PlanFor(core.BuildBorrowRequestAccepted(requestID, bookID, time.Now()))
	return plan
}

func journalEvents(t *testing.T, journal *memoryengine.EventStore) core.DomainEvents {
	t.Helper()

	history, err := shell.LoadBookHistory(context.Background(), journal, bookID)
	require.NoError(t, err)

	return history.Events()
}

func Test_Saga_Success_WhenBothWritesGoThrough(t *testing.T) {
	// arrange
	writer := &fakeWriter{}
	saga, journal := givenSaga(t, writer)

	// act
	err := saga.Run(context.Background(), acceptPlan(), shell.NewCommandMetadata())

	// assert
	require.NoError(t, err)
	assert.Equal(t, []writeCall{
		{kind: "status", status: core.StatusAccepted},
		{kind: "availability", avail: false},
	}, writer.calls)

	events := journalEvents(t, journal)
	require.Len(t, events, 1)
	assert.IsType(t, core.BookAvailabilityChanged{}, events[0])
}

func Test_Saga_Success_WhenTransientNetworkFailuresAreRetried(t *testing.T) {
	// arrange
	writer := &fakeWriter{
		statusFailures:       map[core.RequestStatus]int{core.StatusAccepted: 1},
		availabilityFailures: 2,
	}
	saga, _ := givenSaga(t, writer)

	// act
	err := saga.Run(context.Background(), acceptPlan(), shell.NewCommandMetadata())

	// assert
	require.NoError(t, err)
	assert.Len(t, writer.calls, 5)
}

func Test_Saga_Compensates_WhenAvailabilityWriteIsExhausted(t *testing.T) {
	// arrange
	writer := &fakeWriter{availabilityFailures: -1}
	saga, journal := givenSaga(t, writer)

	// act
	err := saga.Run(context.Background(), acceptPlan(), shell.NewCommandMetadata())

	// assert
	assert.ErrorIs(t, err, core.ErrTransitionRolledBack)
	assert.ErrorIs(t, err, core.ErrNetworkFailure)
	assert.Equal(t, writeCall{kind: "status", status: core.StatusPending}, writer.calls[len(writer.calls)-1])

	events := journalEvents(t, journal)
	require.Len(t, events, 1)
	compensated, ok := events[0].(core.BorrowTransitionCompensated)
	require.True(t, ok)
	assert.Equal(t, core.StatusPending, compensated.RestoredStatus)
}

func Test_Saga_IsIncomplete_WhenCompensationFailsToo(t *testing.T) {
	// arrange
	writer := &fakeWriter{
		statusFailures:       map[core.RequestStatus]int{core.StatusPending: -1},
		availabilityFailures: -1,
	}
	saga, journal := givenSaga(t, writer)

	// act
	err := saga.Run(context.Background(), acceptPlan(), shell.NewCommandMetadata())

	// assert
	assert.ErrorIs(t, err, core.ErrTransitionIncomplete)
	assert.Empty(t, journalEvents(t, journal))
}

func Test_Saga_RollsBack_WhenStatusWriteIsExhausted(t *testing.T) {
	// arrange
	writer := &fakeWriter{statusFailures: map[core.RequestStatus]int{core.StatusAccepted: -1}}
	saga, journal := givenSaga(t, writer)

	// act
	err := saga.Run(context.Background(), acceptPlan(), shell.NewCommandMetadata())

	// assert
	assert.ErrorIs(t, err, core.ErrTransitionRolledBack)
	for _, call := range writer.calls {
		assert.Equal(t, "status", call.kind)
	}

	events := journalEvents(t, journal)
	require.Len(t, events, 1)
	assert.IsType(t, core.BorrowTransitionCompensated{}, events[0])
}

func Test_Saga_OnlyWritesStatus_ForRejections(t *testing.T) {
	// arrange
	writer := &fakeWriter{}
	saga, journal := givenSaga(t, writer)
	plan, _ := core.PlanFor(core.BuildBorrowRequestRejected(requestID, bookID, time.Now()))

	// act
	err := saga.Run(context.Background(), plan, shell.NewCommandMetadata())

	// assert
	require.NoError(t, err)
	assert.Equal(t, []writeCall{{kind: "status", status: core.StatusRejected}}, writer.calls)
	assert.Empty(t, journalEvents(t, journal))
}
