package editbook_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-borrow-desk/library/features/command/editbook"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/mockapi/mockapitest"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/session"
)

const bookID = "book-1"

var admin = session.Session{Role: core.RoleAdmin, Username: "admin", Email: "admin@library.local", ID: "1"}

func givenBook() core.Book {
	return core.Book{
		ID:        bookID,
		Title:     "Dune",
		Author:    "Frank Herbert",
		Category:  core.CategoryFiction,
		Available: true,
		Cover:     "https://covers.openlibrary.org/b/id/1-L.jpg",
	}
}

func ptr[T any](v T) *T {
	return &v
}

func Test_CommandHandler_Handle_Success_OnlyPatchedFieldsChange(t *testing.T) {
	// arrange
	server := mockapitest.Start(t, mockapitest.WithBooks(givenBook()))
	handler := editbook.NewCommandHandler(server.Stores().Books)
	patch := core.BookPatch{Title: ptr("Dune Messiah"), IsPopular: ptr(true)}

	// act
	result, err := handler.Handle(context.Background(), editbook.BuildCommand(bookID, patch, admin))

	// assert
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", shell.OutputAs[core.Book](result).Title)

	stored, _ := server.Book(bookID)
	assert.Equal(t, "Dune Messiah", stored.Title)
	assert.True(t, stored.IsPopular)
	assert.Equal(t, "Frank Herbert", stored.Author)
	assert.True(t, stored.Available)
}

func Test_CommandHandler_Handle_Idempotent_WhenPatchIsEmpty(t *testing.T) {
	// arrange
	server := mockapitest.Start(t, mockapitest.WithBooks(givenBook()))
	handler := editbook.NewCommandHandler(server.Stores().Books)

	// act
	result, err := handler.Handle(context.Background(), editbook.BuildCommand(bookID, core.BookPatch{}, admin))

	// assert
	require.NoError(t, err)
	assert.True(t, result.Idempotent)
	assert.Equal(t, 0, server.Calls(http.MethodPut, mockapitest.ResourceBooks))
}

func Test_CommandHandler_Handle_Error_WhenMergedBookIsInvalid(t *testing.T) {
	// arrange
	server := mockapitest.Start(t, mockapitest.WithBooks(givenBook()))
	handler := editbook.NewCommandHandler(server.Stores().Books)
	patch := core.BookPatch{Cover: ptr("not a url")}

	// act
	_, err := handler.Handle(context.Background(), editbook.BuildCommand(bookID, patch, admin))

	// assert
	var validationErr core.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "cover")
	assert.Equal(t, 0, server.Calls(http.MethodPut, mockapitest.ResourceBooks))
}

func Test_CommandHandler_Handle_Error_WhenBookDoesNotExist(t *testing.T) {
	// arrange
	server := mockapitest.Start(t)
	handler := editbook.NewCommandHandler(server.Stores().Books)

	// act
	_, err := handler.Handle(context.Background(),
		editbook.BuildCommand(bookID, core.BookPatch{Title: ptr("x")}, admin))

	// assert
	assert.ErrorIs(t, err, core.ErrBookNotFound)
}

func Test_CommandHandler_Handle_Error_WhenActorIsNotAdmin(t *testing.T) {
	// arrange
	server := mockapitest.Start(t, mockapitest.WithBooks(givenBook()))
	handler := editbook.NewCommandHandler(server.Stores().Books)

	// act
	_, err := handler.Handle(context.Background(),
		editbook.BuildCommand(bookID, core.BookPatch{Title: ptr("x")}, session.Session{Role: core.RoleUser}))

	// assert
	assert.ErrorIs(t, err, core.ErrForbidden)
}
