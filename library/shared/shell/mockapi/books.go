package mockapi

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
)

// BooksClient talks to the books resource.
type BooksClient struct {
	baseURL   string
	transport transport
}

// NewBooksClient takes the collection URL, e.g. https://host/books.
func NewBooksClient(baseURL string, opts ...Option) *BooksClient {
	return &BooksClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		transport: newTransport(opts),
	}
}

func (c *BooksClient) ListBooks(ctx context.Context) ([]core.Book, error) {
	books := make([]core.Book, 0)

	err := c.transport.doJSON(ctx, http.MethodGet, c.baseURL, nil, &books)
	if errors.Is(err, errNotFound) {
		return []core.Book{}, nil
	}

	return books, err
}

func (c *BooksClient) GetBook(ctx context.Context, id core.BookIDString) (core.Book, error) {
	var book core.Book

	if err := c.transport.doJSON(ctx, http.MethodGet, c.bookURL(id), nil, &book); err != nil {
		return core.Book{}, notFoundAs(err, core.ErrBookNotFound)
	}

	return book, nil
}

// CreateBook returns the book as stored, with the id the resource assigned.
func (c *BooksClient) CreateBook(ctx context.Context, book core.Book) (core.Book, error) {
	book.ID = ""
	var created core.Book

	if err := c.transport.doJSON(ctx, http.MethodPost, c.baseURL, book, &created); err != nil {
		return core.Book{}, err
	}

	return created, nil
}

// UpdateBook sends only the fields set in patch.
func (c *BooksClient) UpdateBook(ctx context.Context, id core.BookIDString, patch core.BookPatch) (core.Book, error) {
	var updated core.Book

	if err := c.transport.doJSON(ctx, http.MethodPut, c.bookURL(id), patch, &updated); err != nil {
		return core.Book{}, notFoundAs(err, core.ErrBookNotFound)
	}

	return updated, nil
}

func (c *BooksClient) DeleteBook(ctx context.Context, id core.BookIDString) error {
	err := c.transport.doJSON(ctx, http.MethodDelete, c.bookURL(id), nil, nil)

	return notFoundAs(err, core.ErrBookNotFound)
}

func (c *BooksClient) bookURL(id core.BookIDString) string {
	return c.baseURL + "/" + url.PathEscape(id)
}

func notFoundAs(err error, notFound error) error {
	if errors.Is(err, errNotFound) {
		return notFound
	}

	return err
}
