package editbook

import (
	"context"

	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell"
)

type BookStore interface {
	GetBook(ctx context.Context, id core.BookIDString) (core.Book, error)
	UpdateBook(ctx context.Context, id core.BookIDString, patch core.BookPatch) (core.Book, error)
}

type CommandHandler struct {
	books BookStore
}

func NewCommandHandler(books BookStore) CommandHandler {
	return CommandHandler{books: books}
}

// Handle returns the updated book as output. An empty patch is idempotent.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	if !command.Actor.IsAdmin() {
		return shell.NewErrorResult(shell.SingleAttempt(core.ErrForbidden)), core.ErrForbidden
	}

	if err := shell.ValidateStruct(command); err != nil {
		return shell.NewErrorResult(shell.SingleAttempt(err)), err
	}

	current, err := h.books.GetBook(ctx, command.BookID)
	if err != nil {
		return shell.NewErrorResult(shell.SingleAttempt(err)), err
	}

	if command.Patch.IsEmpty() {
		return shell.NewIdempotentResult(shell.SingleAttempt(nil)).WithOutput(current), nil
	}

	if err := shell.ValidateStruct(current.Apply(command.Patch)); err != nil {
		return shell.NewErrorResult(shell.SingleAttempt(err)), err
	}

	updated, err := h.books.UpdateBook(ctx, command.BookID, command.Patch)
	if err != nil {
		return shell.NewErrorResult(shell.SingleAttempt(err)), err
	}

	return shell.NewSuccessResult(shell.SingleAttempt(nil)).WithOutput(updated), nil
}
