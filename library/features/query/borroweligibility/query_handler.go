package borroweligibility

import (
	"context"

	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/mockapi"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/session"
)

type BookReader interface {
	GetBook(ctx context.Context, id core.BookIDString) (core.Book, error)
}

type RequestLister interface {
	ListRequests(ctx context.Context, filter mockapi.RequestFilter) ([]core.BorrowRequest, error)
}

type QueryHandler struct {
	books    BookReader
	requests RequestLister
	journal  shell.QueriesEvents
}

func NewQueryHandler(books BookReader, requests RequestLister, journal shell.QueriesEvents) QueryHandler {
	return QueryHandler{
		books:    books,
		requests: requests,
		journal:  journal,
	}
}

// Handle returns core.ErrBookNotFound for an unknown book, for everything else it answers.
func (h QueryHandler) Handle(ctx context.Context, query Query) (Result, error) {
	book, err := h.books.GetBook(ctx, query.BookID)
	if err != nil {
		return Result{}, err
	}

	return h.ForBook(ctx, book, query.Viewer)
}

// ForBook answers for a book the caller already read.
func (h QueryHandler) ForBook(ctx context.Context, book core.Book, viewer session.Session) (Result, error) {
	if viewer.IsZero() || viewer.IsAdmin() || !book.Available {
		return Evaluate(viewer, book, nil), nil
	}

	requests, err := h.requests.ListRequests(ctx, mockapi.RequestFilter{BorrowerEmail: viewer.Email})
	if err != nil {
		return Result{}, err
	}

	history, err := shell.LoadBookHistory(ctx, h.journal, book.ID)
	if err != nil {
		return Result{}, err
	}

	return Evaluate(viewer, book, shell.WithEffectiveStatus(history.Events(), requests)), nil
}
