package bookdetails

import (
	"context"

	"github.com/AntonStoeckl/library-borrow-desk/library/features/query/borroweligibility"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell"
)

type BookReader interface {
	GetBook(ctx context.Context, id core.BookIDString) (core.Book, error)
}

type QueryHandler struct {
	books       BookReader
	eligibility borroweligibility.QueryHandler
}

func NewQueryHandler(books BookReader, requests borroweligibility.RequestLister, journal shell.QueriesEvents) QueryHandler {
	return QueryHandler{
		books:       books,
		eligibility: borroweligibility.NewQueryHandler(books, requests, journal),
	}
}

func (h QueryHandler) Handle(ctx context.Context, query Query) (Details, error) {
	book, err := h.books.GetBook(ctx, query.BookID)
	if err != nil {
		return Details{}, err
	}

	eligibility, err := h.eligibility.ForBook(ctx, book, query.Viewer)
	if err != nil {
		return Details{}, err
	}

	return Details{Book: book, Eligibility: eligibility}, nil
}
