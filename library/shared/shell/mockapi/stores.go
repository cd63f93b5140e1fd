package mockapi

import (
	"context"

	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
)

// Stores bundles the three resource clients.
// It is the shell.TransitionWriter of the lifecycle sagas.
type Stores struct {
	Books    *BooksClient
	Accounts *AccountsClient
	Requests *RequestsClient
}

func NewStores(booksURL, accountsURL, requestsURL string, opts ...Option) Stores {
	return Stores{
		Books:    NewBooksClient(booksURL, opts...),
		Accounts: NewAccountsClient(accountsURL, opts...),
		Requests: NewRequestsClient(requestsURL, opts...),
	}
}

func (s Stores) UpdateRequestStatus(ctx context.Context, requestID core.RequestIDString, status core.RequestStatus) error {
	return s.Requests.UpdateRequestStatus(ctx, requestID, status)
}

func (s Stores) SetBookAvailability(ctx context.Context, bookID core.BookIDString, available bool) error {
	_, err := s.Books.UpdateBook(ctx, bookID, core.AvailabilityPatch(available))

	return err
}
