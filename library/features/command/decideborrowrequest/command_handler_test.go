package decideborrowrequest_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-borrow-desk/eventstore/memoryengine"
	"github.com/AntonStoeckl/library-borrow-desk/library/features/command/decideborrowrequest"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/mockapi/mockapitest"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/session"
)

type fixture struct {
	server  *mockapitest.Running
	journal *memoryengine.EventStore
	handler decideborrowrequest.CommandHandler
}

func givenFixture(t *testing.T, book core.Book, request core.BorrowRequest) fixture {
	t.Helper()

	server := mockapitest.Start(t, mockapitest.WithBooks(book), mockapitest.WithRequests(request))
	stores := server.Stores()
	journal := memoryengine.NewEventStore()
	saga := shell.NewSaga(stores, journal,
		shell.WithSagaRetryOptions(shell.WithMaxAttempts(3), shell.WithBaseDelay(time.Millisecond)))

	return fixture{
		server:  server,
		journal: journal,
		handler: decideborrowrequest.NewCommandHandler(journal, stores.Books, stores.Requests, saga),
	}
}

func (f fixture) journalEvents(t *testing.T) core.DomainEvents {
	t.Helper()

	history, err := shell.LoadBookHistory(context.Background(), f.journal, bookID)
	require.NoError(t, err)

	return history.Events()
}

func (f fixture) storedRequest(t *testing.T) core.BorrowRequest {
	t.Helper()

	request, ok := f.server.Request(requestID)
	require.True(t, ok)

	return request
}

func (f fixture) storedBook(t *testing.T) core.Book {
	t.Helper()

	book, ok := f.server.Book(bookID)
	require.True(t, ok)

	return book
}

func Test_CommandHandler_Handle_Success_WhenAccepting(t *testing.T) {
	// arrange
	f := givenFixture(t, givenBook(true), givenRequest(core.StatusPending))

	// act
	result, err := f.handler.Handle(context.Background(), decideborrowrequest.Accept(requestID, admin, fakeClock))

	// assert
	require.NoError(t, err)
	assert.Equal(t, core.StatusAccepted, shell.OutputAs[core.BorrowRequest](result).Status)
	assert.Equal(t, core.StatusAccepted, f.storedRequest(t).Status)
	assert.False(t, f.storedBook(t).Available)

	events := f.journalEvents(t)
	require.Len(t, events, 2)
	assert.IsType(t, core.BorrowRequestAccepted{}, events[0])
	assert.IsType(t, core.BookAvailabilityChanged{}, events[1])
}

func Test_CommandHandler_Handle_Success_WhenAccepting_AndBookIsAlreadyUnavailable(t *testing.T) {
	// arrange
	f := givenFixture(t, givenBook(false), givenRequest(core.StatusPending))

	// act
	result, err := f.handler.Handle(context.Background(), decideborrowrequest.Accept(requestID, admin, fakeClock))

	// assert
	require.NoError(t, err)
	assert.Equal(t, core.StatusAccepted, shell.OutputAs[core.BorrowRequest](result).Status)
	assert.Equal(t, core.StatusAccepted, f.storedRequest(t).Status)
	assert.False(t, f.storedBook(t).Available)
}

func Test_CommandHandler_Handle_Success_WhenRejecting_BookIsUntouched(t *testing.T) {
	// arrange
	f := givenFixture(t, givenBook(true), givenRequest(core.StatusPending))

	// act
	_, err := f.handler.Handle(context.Background(), decideborrowrequest.Reject(requestID, admin, fakeClock))

	// assert
	require.NoError(t, err)
	assert.Equal(t, core.StatusRejected, f.storedRequest(t).Status)
	assert.True(t, f.storedBook(t).Available)
	assert.Equal(t, 0, f.server.Calls(http.MethodPut, mockapitest.ResourceBooks))
}

func Test_CommandHandler_Handle_Idempotent_WhenAcceptedTwice(t *testing.T) {
	// arrange
	f := givenFixture(t, givenBook(true), givenRequest(core.StatusPending))
	_, err := f.handler.Handle(context.Background(), decideborrowrequest.Accept(requestID, admin, fakeClock))
	require.NoError(t, err)

	// act
	result, err := f.handler.Handle(context.Background(), decideborrowrequest.Accept(requestID, admin, fakeClock))

	// assert
	require.NoError(t, err)
	assert.True(t, result.Idempotent)
	assert.Equal(t, 1, f.server.Calls(http.MethodPut, mockapitest.ResourceBooks))
}

func Test_CommandHandler_Handle_RepairsAvailability_WhenAcceptedRequestsBookIsStillAvailable(t *testing.T) {
	// arrange
	f := givenFixture(t, givenBook(true), givenRequest(core.StatusAccepted))

	// act
	result, err := f.handler.Handle(context.Background(), decideborrowrequest.Accept(requestID, admin, fakeClock))

	// assert
	require.NoError(t, err)
	assert.False(t, result.Idempotent)
	assert.False(t, f.storedBook(t).Available)
	assert.Equal(t, 0, f.server.Calls(http.MethodPut, mockapitest.ResourceRequests))
}

func Test_CommandHandler_Handle_Error_WhenActorIsNotAdmin(t *testing.T) {
	// arrange
	f := givenFixture(t, givenBook(true), givenRequest(core.StatusPending))
	borrower := session.Session{Role: core.RoleUser, Email: "ann@example.org", ID: "2"}

	// act
	_, err := f.handler.Handle(context.Background(), decideborrowrequest.Accept(requestID, borrower, fakeClock))

	// assert
	assert.ErrorIs(t, err, core.ErrForbidden)
	assert.Equal(t, core.StatusPending, f.storedRequest(t).Status)
	assert.Empty(t, f.journalEvents(t))
}

func Test_CommandHandler_Handle_Error_WhenOutcomeIsUnknown(t *testing.T) {
	// arrange
	f := givenFixture(t, givenBook(true), givenRequest(core.StatusPending))

	// act
	_, err := f.handler.Handle(context.Background(),
		decideborrowrequest.BuildCommand(requestID, core.StatusReturned, admin, fakeClock))

	// assert
	assert.ErrorIs(t, err, core.ErrValidation)
}

func Test_CommandHandler_Handle_Error_WhenRequestDoesNotExist(t *testing.T) {
	// arrange
	f := givenFixture(t, givenBook(true), givenRequest(core.StatusPending))

	// act
	_, err := f.handler.Handle(context.Background(), decideborrowrequest.Accept("missing", admin, fakeClock))

	// assert
	assert.ErrorIs(t, err, core.ErrBorrowRequestNotFound)
}

func Test_CommandHandler_Handle_Error_WhenTransitionIsInvalid_NothingIsWritten(t *testing.T) {
	// arrange
	f := givenFixture(t, givenBook(true), givenRequest(core.StatusRejected))

	// act
	_, err := f.handler.Handle(context.Background(), decideborrowrequest.Accept(requestID, admin, fakeClock))

	// assert
	assert.ErrorIs(t, err, core.ErrInvalidTransition)
	assert.Equal(t, 0, f.server.Calls(http.MethodPut, mockapitest.ResourceRequests))

	events := f.journalEvents(t)
	require.Len(t, events, 1)
	assert.IsType(t, core.DecidingBorrowRequestFailed{}, events[0])
}

func Test_CommandHandler_Handle_RollsBack_WhenAvailabilityWriteKeepsFailing(t *testing.T) {
	// arrange
	f := givenFixture(t, givenBook(true), givenRequest(core.StatusPending))
	f.server.FailNext(http.MethodPut, mockapitest.ResourceBooks, -1)

	// act
	_, err := f.handler.Handle(context.Background(), decideborrowrequest.Accept(requestID, admin, fakeClock))

	// assert
	assert.ErrorIs(t, err, core.ErrTransitionRolledBack)
	assert.ErrorIs(t, err, core.ErrNetworkFailure)
	assert.Equal(t, core.StatusPending, f.storedRequest(t).Status)
	assert.True(t, f.storedBook(t).Available)

	events := f.journalEvents(t)
	require.Len(t, events, 2)
	assert.IsType(t, core.BorrowTransitionCompensated{}, events[1])
	assert.Empty(t, core.OpenTransitions(events))
}

func Test_CommandHandler_Handle_CanAcceptAgain_AfterRollback(t *testing.T) {
	// arrange
	f := givenFixture(t, givenBook(true), givenRequest(core.StatusPending))
	f.server.FailNext(http.MethodPut, mockapitest.ResourceBooks, 3)
	_, err := f.handler.Handle(context.Background(), decideborrowrequest.Accept(requestID, admin, fakeClock))
	require.ErrorIs(t, err, core.ErrTransitionRolledBack)

	// act
	_, err = f.handler.Handle(context.Background(), decideborrowrequest.Accept(requestID, admin, fakeClock))

	// assert
	require.NoError(t, err)
	assert.Equal(t, core.StatusAccepted, f.storedRequest(t).Status)
	assert.False(t, f.storedBook(t).Available)
}
