package browsecatalog_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-borrow-desk/eventstore/memoryengine"
	"github.com/AntonStoeckl/library-borrow-desk/library/features/query/browsecatalog"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/mockapi/mockapitest"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/session"
)

func Test_QueryHandler_Handle_AnnotatesViewersBooks(t *testing.T) {
	// arrange
	server := mockapitest.Start(t,
		mockapitest.WithBooks(givenCatalog()...),
		mockapitest.WithRequests(
			core.BorrowRequest{ID: "r1", BookID: "1", BorrowerEmail: "ann@example.org", Status: core.StatusPending},
			core.BorrowRequest{ID: "r2", BookID: "3", BorrowerEmail: "bob@example.org", Status: core.StatusPending},
		),
	)
	stores := server.Stores()
	handler := browsecatalog.NewQueryHandler(stores.Books, stores.Requests, memoryengine.NewEventStore())
	viewer := session.Session{Role: core.RoleUser, Email: "ann@example.org", ID: "2"}

	// act
	catalog, err := handler.Handle(context.Background(),
		browsecatalog.BuildQuery(browsecatalog.Filter{AvailableOnly: true}, viewer))

	// assert
	require.NoError(t, err)
	require.Equal(t, 3, catalog.Count)
	assert.True(t, catalog.Entries[0].BorrowedByYou)
	assert.False(t, catalog.Entries[1].BorrowedByYou, "bob's request is not ann's")
}

func Test_QueryHandler_Handle_DoesNotListRequests_ForAnonymousViewer(t *testing.T) {
	// arrange
	server := mockapitest.Start(t, mockapitest.WithBooks(givenCatalog()...))
	stores := server.Stores()
	handler := browsecatalog.NewQueryHandler(stores.Books, stores.Requests, memoryengine.NewEventStore())

	// act
	catalog, err := handler.Handle(context.Background(), browsecatalog.BuildQuery(browsecatalog.Filter{}, session.Session{}))

	// assert
	require.NoError(t, err)
	assert.Equal(t, 4, catalog.Count)
	assert.Equal(t, 0, server.Calls(http.MethodGet, mockapitest.ResourceRequests))
}

func Test_QueryHandler_Handle_Error_WhenBooksCannotBeListed(t *testing.T) {
	// arrange
	server := mockapitest.Start(t)
	server.FailNext(http.MethodGet, mockapitest.ResourceBooks, 1)
	stores := server.Stores()
	handler := browsecatalog.NewQueryHandler(stores.Books, stores.Requests, memoryengine.NewEventStore())

	// act
	_, err := handler.Handle(context.Background(), browsecatalog.BuildQuery(browsecatalog.Filter{}, session.Session{}))

	// assert
	assert.ErrorIs(t, err, core.ErrNetworkFailure)
}
