package removebook

import (
	"context"
	"time"

	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/mockapi"
)

const defaultClaimTTL = 2 * time.Minute

type BookStore interface {
	GetBook(ctx context.Context, id core.BookIDString) (core.Book, error)
	DeleteBook(ctx context.Context, id core.BookIDString) error
}

type RequestLister interface {
	ListRequests(ctx context.Context, filter mockapi.RequestFilter) ([]core.BorrowRequest, error)
}

type CommandHandler struct {
	journal  shell.QueriesEvents
	books    BookStore
	requests RequestLister
	claimTTL time.Duration
	now      func() time.Time
}

type Option func(*CommandHandler)

func WithClaimTTL(ttl time.Duration) Option {
	return func(h *CommandHandler) {
		h.claimTTL = ttl
	}
}

func WithClock(now func() time.Time) Option {
	return func(h *CommandHandler) {
		h.now = now
	}
}

func NewCommandHandler(journal shell.QueriesEvents, books BookStore, requests RequestLister, opts ...Option) CommandHandler {
	handler := CommandHandler{
		journal:  journal,
		books:    books,
		requests: requests,
		claimTTL: defaultClaimTTL,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle returns the removed book as output.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	removed, err := h.remove(ctx, command)
	if err != nil {
		return shell.NewErrorResult(shell.SingleAttempt(err)), err
	}

	return shell.NewSuccessResult(shell.SingleAttempt(nil)).WithOutput(removed), nil
}

func (h CommandHandler) remove(ctx context.Context, command Command) (core.Book, error) {
	if !command.Actor.IsAdmin() {
		return core.Book{}, core.ErrForbidden
	}

	if err := shell.ValidateStruct(command); err != nil {
		return core.Book{}, err
	}

	book, err := h.books.GetBook(ctx, command.BookID)
	if err != nil {
		return core.Book{}, err
	}

	history, err := shell.LoadBookHistory(ctx, h.journal, command.BookID)
	if err != nil {
		return core.Book{}, err
	}

	requests, err := h.requests.ListRequests(ctx, mockapi.RequestFilter{BookID: command.BookID})
	if err != nil {
		return core.Book{}, err
	}

	if err := Decide(history.Events(), requests, command.BookID, h.now(), h.claimTTL); err != nil {
		return core.Book{}, err
	}

	if err := h.books.DeleteBook(ctx, command.BookID); err != nil {
		return core.Book{}, err
	}

	return book, nil
}
