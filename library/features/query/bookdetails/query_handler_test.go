package bookdetails_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-borrow-desk/eventstore/memoryengine"
	"github.com/AntonStoeckl/library-borrow-desk/library/features/query/bookdetails"
	"github.com/AntonStoeckl/library-borrow-desk/library/features/query/borroweligibility"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/mockapi/mockapitest"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/session"
)

func Test_QueryHandler_Handle(t *testing.T) {
	// arrange
	book := core.Book{ID: "book-1", Title: "Dune", Author: "Frank Herbert", Category: core.CategoryFiction, Available: true}
	server := mockapitest.Start(t, mockapitest.WithBooks(book))
	stores := server.Stores()
	handler := bookdetails.NewQueryHandler(stores.Books, stores.Requests, memoryengine.NewEventStore())
	viewer := session.Session{Role: core.RoleUser, Email: "ann@example.org", ID: "2"}

	// act
	details, err := handler.Handle(context.Background(), bookdetails.BuildQuery("book-1", viewer))

	// assert
	require.NoError(t, err)
	assert.Equal(t, "Dune", details.Book.Title)
	assert.Equal(t, borroweligibility.Result{Eligible: true}, details.Eligibility)
}

func Test_QueryHandler_Handle_Error_WhenBookDoesNotExist(t *testing.T) {
	// arrange
	server := mockapitest.Start(t)
	stores := server.Stores()
	handler := bookdetails.NewQueryHandler(stores.Books, stores.Requests, memoryengine.NewEventStore())

	// act
	_, err := handler.Handle(context.Background(), bookdetails.BuildQuery("missing", session.Session{}))

	// assert
	assert.ErrorIs(t, err, core.ErrBookNotFound)
}
