package addbook

import (
	"context"

	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell"
)

type BookCreator interface {
	CreateBook(ctx context.Context, book core.Book) (core.Book, error)
}

type CommandHandler struct {
	books BookCreator
}

func NewCommandHandler(books BookCreator) CommandHandler {
	return CommandHandler{books: books}
}

// Handle validates before anything is sent and returns the created book as output.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	created, err := h.add(ctx, command)
	if err != nil {
		return shell.NewErrorResult(shell.SingleAttempt(err)), err
	}

	return shell.NewSuccessResult(shell.SingleAttempt(nil)).WithOutput(created), nil
}

func (h CommandHandler) add(ctx context.Context, command Command) (core.Book, error) {
	if !command.Actor.IsAdmin() {
		return core.Book{}, core.ErrForbidden
	}

	book := command.Book()
	if err := shell.ValidateStruct(book); err != nil {
		return core.Book{}, err
	}

	return h.books.CreateBook(ctx, book)
}
