package decideborrowrequest_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-borrow-desk/library/features/command/decideborrowrequest"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/session"
)

const (
	bookID    = "book-1"
	requestID = "req-1"
)

var (
	fakeClock = time.Date(2025, 7, 12, 9, 30, 0, 0, time.UTC)
	admin     = session.Session{Role: core.RoleAdmin, Username: "admin", Email: "admin@library.local", ID: "1"}
)

func givenBook(available bool) core.Book {
	return core.Book{
		ID:        bookID,
		Title:     "Dune",
		Author:    "Frank Herbert",
		Category:  core.CategoryFiction,
		Available: available,
		Cover:     "https://covers.example.org/dune.jpg",
	}
}

func givenRequest(status core.RequestStatus) core.BorrowRequest {
	return core.BorrowRequest{
		ID:            requestID,
		BookID:        bookID,
		BookTitle:     "Dune",
		BorrowerName:  "Ann",
		BorrowerEmail: "ann@example.org",
		Date:          fakeClock.Add(-time.Hour),
		Status:        status,
	}
}

func Test_Decide_Success_WhenPendingRequestIsAccepted(t *testing.T) {
	// act
	result := decideborrowrequest.Decide(nil, givenRequest(core.StatusPending), givenBook(true),
		decideborrowrequest.Accept(requestID, admin, fakeClock))

	// assert
	require.NoError(t, result.HasError())
	assert.Equal(t, core.BuildBorrowRequestAccepted(requestID, bookID, fakeClock), result.Event)
}

func Test_Decide_Success_WhenPendingRequestIsRejected_EvenIfBookIsUnavailable(t *testing.T) {
	// act
	result := decideborrowrequest.Decide(nil, givenRequest(core.StatusPending), givenBook(false),
		decideborrowrequest.Reject(requestID, admin, fakeClock))

	// assert
	require.NoError(t, result.HasError())
	assert.Equal(t, core.BuildBorrowRequestRejected(requestID, bookID, fakeClock), result.Event)
}

func Test_Decide_Success_WhenPendingRequestIsAccepted_EvenIfBookIsUnavailable(t *testing.T) {
	// act
	result := decideborrowrequest.Decide(nil, givenRequest(core.StatusPending), givenBook(false),
		decideborrowrequest.Accept(requestID, admin, fakeClock))

	// assert
	require.NoError(t, result.HasError())
	assert.Equal(t, core.BuildBorrowRequestAccepted(requestID, bookID, fakeClock), result.Event)
}

func Test_Decide_Idempotent_WhenOutcomeWasAlreadyReached(t *testing.T) {
	testCases := []struct {
		name    string
		status  core.RequestStatus
		command decideborrowrequest.Command
		book    core.Book
	}{
		{name: "accepted twice", status: core.StatusAccepted, command: decideborrowrequest.Accept(requestID, admin, fakeClock), book: givenBook(false)},
		{name: "rejected twice", status: core.StatusRejected, command: decideborrowrequest.Reject(requestID, admin, fakeClock), book: givenBook(true)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			result := decideborrowrequest.Decide(nil, givenRequest(tc.status), tc.book, tc.command)

			// assert
			assert.True(t, result.IsIdempotent())
		})
	}
}

func Test_Decide_SchedulesRepair_WhenAcceptedRequestsBookIsStillAvailable(t *testing.T) {
	// act
	result := decideborrowrequest.Decide(nil, givenRequest(core.StatusAccepted), givenBook(true),
		decideborrowrequest.Accept(requestID, admin, fakeClock))

	// assert
	require.NoError(t, result.HasError())
	assert.Equal(t, core.BuildBookAvailabilityRepairScheduled(requestID, bookID, false, fakeClock), result.Event)
}

func Test_Decide_Error_WhenTransitionIsNotAllowed(t *testing.T) {
	testCases := []struct {
		name    string
		status  core.RequestStatus
		command decideborrowrequest.Command
	}{
		{name: "accept rejected", status: core.StatusRejected, command: decideborrowrequest.Accept(requestID, admin, fakeClock)},
		{name: "reject accepted", status: core.StatusAccepted, command: decideborrowrequest.Reject(requestID, admin, fakeClock)},
		{name: "accept returned", status: core.StatusReturned, command: decideborrowrequest.Accept(requestID, admin, fakeClock)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			result := decideborrowrequest.Decide(nil, givenRequest(tc.status), givenBook(true), tc.command)

			// assert
			assert.ErrorIs(t, result.HasError(), core.ErrInvalidTransition)
			assert.IsType(t, core.DecidingBorrowRequestFailed{}, result.Event)
		})
	}
}

func Test_Decide_UsesJournalStatus_WhenStoreLagsBehind(t *testing.T) {
	// arrange
	history := core.DomainEvents{core.BuildBorrowRequestRejected(requestID, bookID, fakeClock.Add(-time.Minute))}

	// act
	result := decideborrowrequest.Decide(history, givenRequest(core.StatusPending), givenBook(true),
		decideborrowrequest.Accept(requestID, admin, fakeClock))

	// assert
	assert.ErrorIs(t, result.HasError(), core.ErrInvalidTransition)
}
