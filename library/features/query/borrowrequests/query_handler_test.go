package borrowrequests_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-borrow-desk/eventstore/memoryengine"
	"github.com/AntonStoeckl/library-borrow-desk/library/features/query/borrowrequests"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/mockapi/mockapitest"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/session"
)

var (
	fakeClock = time.Date(2025, 7, 12, 9, 30, 0, 0, time.UTC)
	ann       = session.Session{Role: core.RoleUser, Username: "ann", Email: "ann@example.org", ID: "2"}
	admin     = session.Session{Role: core.RoleAdmin, Username: "admin", Email: "admin@library.local", ID: "1"}
)

func givenRequests() []core.BorrowRequest {
	return []core.BorrowRequest{
		{ID: "r1", BookID: "b1", BorrowerEmail: "ann@example.org", Date: fakeClock.Add(-3 * time.Hour), Status: core.StatusReturned},
		{ID: "r2", BookID: "b2", BorrowerEmail: "bob@example.org", Date: fakeClock.Add(-1 * time.Hour), Status: core.StatusPending},
		{ID: "r3", BookID: "b3", BorrowerEmail: "ann@example.org", Date: fakeClock.Add(-2 * time.Hour), Status: core.StatusPending},
	}
}

func givenHandler(t *testing.T, journal *memoryengine.EventStore) borrowrequests.QueryHandler {
	t.Helper()

	server := mockapitest.Start(t, mockapitest.WithRequests(givenRequests()...))

	return borrowrequests.NewQueryHandler(server.Stores().Requests, journal)
}

func idsOf(listing borrowrequests.Listing) []string {
	ids := make([]string, 0, listing.Count)
	for _, request := range listing.Requests {
		ids = append(ids, request.ID)
	}

	return ids
}

func Test_QueryHandler_Handle_AdminSeesAllNewestFirst(t *testing.T) {
	// arrange
	handler := givenHandler(t, memoryengine.NewEventStore())

	// act
	listing, err := handler.Handle(context.Background(), borrowrequests.AllRequests("", admin))

	// assert
	require.NoError(t, err)
	assert.Equal(t, []string{"r2", "r3", "r1"}, idsOf(listing))
}

func Test_QueryHandler_Handle_AdminFiltersByEffectiveStatus(t *testing.T) {
	// arrange
	journal := memoryengine.NewEventStore()
	accepted := core.BuildBorrowRequestAccepted("r3", "b3", fakeClock)
	require.NoError(t, shell.AppendToBookScope(context.Background(), journal, "b3", shell.NewCommandMetadata(), accepted))
	handler := givenHandler(t, journal)

	// act
	listing, err := handler.Handle(context.Background(), borrowrequests.AllRequests(core.StatusPending, admin))

	// assert
	require.NoError(t, err)
	assert.Equal(t, []string{"r2"}, idsOf(listing))
}

func Test_QueryHandler_Handle_BorrowerSeesOwnRequests(t *testing.T) {
	// arrange
	handler := givenHandler(t, memoryengine.NewEventStore())

	// act
	listing, err := handler.Handle(context.Background(), borrowrequests.MyRequests(ann))

	// assert
	require.NoError(t, err)
	assert.Equal(t, []string{"r3", "r1"}, idsOf(listing))
}

func Test_QueryHandler_Handle_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		query   borrowrequests.Query
		wantErr error
	}{
		{name: "borrower asks for all", query: borrowrequests.AllRequests("", ann), wantErr: core.ErrForbidden},
		{name: "signed out asks for own", query: borrowrequests.MyRequests(session.Session{}), wantErr: core.ErrAuthenticationFailed},
		{name: "unknown status", query: borrowrequests.AllRequests("lost", admin), wantErr: core.ErrValidation},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			handler := givenHandler(t, memoryengine.NewEventStore())

			// act
			_, err := handler.Handle(context.Background(), tc.query)

			// assert
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}
