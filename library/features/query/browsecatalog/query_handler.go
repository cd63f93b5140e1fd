package browsecatalog

import (
	"context"

	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/mockapi"
)

type BookLister interface {
	ListBooks(ctx context.Context) ([]core.Book, error)
}

type RequestLister interface {
	ListRequests(ctx context.Context, filter mockapi.RequestFilter) ([]core.BorrowRequest, error)
}

// QueryHandler runs List -> Filter -> Project.
type QueryHandler struct {
	books    BookLister
	requests RequestLister
	journal  shell.QueriesEvents
}

// NewQueryHandler takes the journal to see request statuses a saga has not written to the store yet.
func NewQueryHandler(books BookLister, requests RequestLister, journal shell.QueriesEvents) QueryHandler {
	return QueryHandler{
		books:    books,
		requests: requests,
		journal:  journal,
	}
}

func (h QueryHandler) Handle(ctx context.Context, query Query) (Catalog, error) {
	books, err := h.books.ListBooks(ctx)
	if err != nil {
		return Catalog{}, err
	}

	books = Apply(books, query.Filter)

	if query.Viewer.Email == "" {
		return Project(books, nil), nil
	}

	requests, err := h.requests.ListRequests(ctx, mockapi.RequestFilter{BorrowerEmail: query.Viewer.Email})
	if err != nil {
		return Catalog{}, err
	}

	history, err := shell.LoadLifecycleHistory(ctx, h.journal)
	if err != nil {
		return Catalog{}, err
	}

	return Project(books, shell.WithEffectiveStatus(history, requests)), nil
}
