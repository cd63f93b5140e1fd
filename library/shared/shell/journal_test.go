package shell_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-borrow-desk/eventstore"
	"github.com/AntonStoeckl/library-borrow-desk/eventstore/memoryengine"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell"
)

var fakeClock = time.Date(2025, 7, 12, 9, 30, 0, 0, time.UTC)

func Test_AppendToHistory_RoundTripsEventsAndMetadata(t *testing.T) {
	// arrange
	ctx := context.Background()
	journal := memoryengine.NewEventStore()
	metadata := shell.NewCommandMetadata()

	history, err := shell.LoadBookHistory(ctx, journal, "b1")
	require.NoError(t, err)
	require.Empty(t, history.Events())

	events := core.DomainEvents{
		core.BuildBorrowRequestSubmitted("s1", "b1", "Dune", "Ann", "ann@example.org", fakeClock),
		core.BuildBorrowRequestFiled("s1", "r1", "b1", "ann@example.org", fakeClock),
		core.BuildBorrowRequestAccepted("r1", "b1", fakeClock),
		core.BuildBorrowTransitionCompensated("r1", "b1", core.StatusPending, "books store down", fakeClock),
	}

	// act
	err = shell.AppendToHistory(ctx, journal, history, metadata, events...)

	// assert
	require.NoError(t, err)

	reloaded, err := shell.LoadBookHistory(ctx, journal, "b1")
	require.NoError(t, err)
	assert.Equal(t, events, reloaded.Events())
	assert.Equal(t, uint(4), reloaded.MaxSequenceNumber)

	for _, envelope := range reloaded.Envelopes {
		assert.Equal(t, metadata.CorrelationID, envelope.EventMetadata.CorrelationID)
	}
}

func Test_AppendToHistory_Error_WhenBookScopeMoved(t *testing.T) {
	// arrange
	ctx := context.Background()
	journal := memoryengine.NewEventStore()

	stale, err := shell.LoadBookHistory(ctx, journal, "b1")
	require.NoError(t, err)

	require.NoError(t, shell.AppendToBookScope(ctx, journal, "b1", shell.NewCommandMetadata(),
		core.BuildBorrowRequestAccepted("r1", "b1", fakeClock)))

	// act
	err = shell.AppendToHistory(ctx, journal, stale, shell.NewCommandMetadata(),
		core.BuildBorrowRequestRejected("r1", "b1", fakeClock))

	// assert
	assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
}

func Test_AppendToHistory_Success_WhenAnotherBookMoved(t *testing.T) {
	// arrange
	ctx := context.Background()
	journal := memoryengine.NewEventStore()

	history, err := shell.LoadBookHistory(ctx, journal, "b1")
	require.NoError(t, err)

	require.NoError(t, shell.AppendToBookScope(ctx, journal, "b2", shell.NewCommandMetadata(),
		core.BuildBorrowRequestAccepted("r2", "b2", fakeClock)))

	// act
	err = shell.AppendToHistory(ctx, journal, history, shell.NewCommandMetadata(),
		core.BuildBorrowRequestAccepted("r1", "b1", fakeClock))

	// assert
	assert.NoError(t, err)
}

func Test_EventMetadata_Next_KeepsTheCorrelation(t *testing.T) {
	// arrange
	first := shell.NewCommandMetadata()

	// act
	next := first.Next()

	// assert
	assert.Equal(t, first.CorrelationID, next.CorrelationID)
	assert.Equal(t, first.MessageID, next.CausationID)
	assert.NotEqual(t, first.MessageID, next.MessageID)
}

func Test_IsBusinessError(t *testing.T) {
	assert.True(t, shell.IsBusinessError(core.ErrBookAlreadyRequested))
	assert.True(t, shell.IsBusinessError(core.ValidationError{Fields: map[string]string{"email": "must not be empty"}}))
	assert.True(t, shell.IsBusinessError(core.ErrForbidden))
	assert.False(t, shell.IsBusinessError(core.ErrNetworkFailure))
	assert.False(t, shell.IsBusinessError(eventstore.ErrConcurrencyConflict))
}
