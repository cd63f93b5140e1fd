package borroweligibility_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-borrow-desk/eventstore/memoryengine"
	"github.com/AntonStoeckl/library-borrow-desk/library/features/query/borroweligibility"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/mockapi/mockapitest"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/session"
)

const bookID = "book-1"

var (
	ann   = session.Session{Role: core.RoleUser, Username: "ann", Email: "ann@example.org", ID: "2"}
	admin = session.Session{Role: core.RoleAdmin, Username: "admin", Email: "admin@library.local", ID: "1"}
)

func givenBook(available bool) core.Book {
	return core.Book{ID: bookID, Title: "Dune", Author: "Frank Herbert", Category: core.CategoryFiction, Available: available}
}

func Test_Evaluate(t *testing.T) {
	testCases := []struct {
		name     string
		viewer   session.Session
		book     core.Book
		requests []core.BorrowRequest
		want     borroweligibility.Result
	}{
		{
			name:   "eligible",
			viewer: ann,
			book:   givenBook(true),
			requests: []core.BorrowRequest{
				{ID: "r1", BookID: bookID, BorrowerEmail: ann.Email, Status: core.StatusReturned},
			},
			want: borroweligibility.Result{Eligible: true},
		},
		{
			name:   "signed out",
			viewer: session.Session{},
			book:   givenBook(true),
			want:   borroweligibility.Result{Reason: borroweligibility.ReasonNotSignedIn},
		},
		{
			name:   "admin",
			viewer: admin,
			book:   givenBook(true),
			want:   borroweligibility.Result{Reason: borroweligibility.ReasonAdmin},
		},
		{
			name:   "unavailable",
			viewer: ann,
			book:   givenBook(false),
			want:   borroweligibility.Result{Reason: borroweligibility.ReasonBookUnavailable},
		},
		{
			name:   "already requested",
			viewer: ann,
			book:   givenBook(true),
			requests: []core.BorrowRequest{
				{ID: "r1", BookID: bookID, BorrowerEmail: ann.Email, Status: core.StatusPending},
			},
			want: borroweligibility.Result{Reason: borroweligibility.ReasonAlreadyRequested},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			got := borroweligibility.Evaluate(tc.viewer, tc.book, tc.requests)

			// assert
			assert.Equal(t, tc.want, got)
		})
	}
}

func Test_QueryHandler_Handle_UsesJournalStatus(t *testing.T) {
	// arrange
	server := mockapitest.Start(t,
		mockapitest.WithBooks(givenBook(true)),
		mockapitest.WithRequests(core.BorrowRequest{ID: "r1", BookID: bookID, BorrowerEmail: ann.Email, Status: core.StatusPending}),
	)
	stores := server.Stores()
	handler := borroweligibility.NewQueryHandler(stores.Books, stores.Requests, memoryengine.NewEventStore())

	// act
	result, err := handler.Handle(context.Background(), borroweligibility.BuildQuery(bookID, ann))

	// assert
	require.NoError(t, err)
	assert.False(t, result.Eligible)
	assert.Equal(t, borroweligibility.ReasonAlreadyRequested, result.Reason)
}

func Test_QueryHandler_Handle_Error_WhenBookDoesNotExist(t *testing.T) {
	// arrange
	server := mockapitest.Start(t)
	stores := server.Stores()
	handler := borroweligibility.NewQueryHandler(stores.Books, stores.Requests, memoryengine.NewEventStore())

	// act
	_, err := handler.Handle(context.Background(), borroweligibility.BuildQuery(bookID, ann))

	// assert
	assert.ErrorIs(t, err, core.ErrBookNotFound)
}
