package mockapitest

import (
	"net/http/httptest"
	"testing"

	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/mockapi"
)

// Running is a Server listening on a loopback port for the duration of a test.
type Running struct {
	*Server
	URL string
}

// Start serves a new Server until the test ends.
func Start(t testing.TB, opts ...Option) *Running {
	t.Helper()

	server := New(opts...)
	httpServer := httptest.NewServer(server.Handler())
	t.Cleanup(httpServer.Close)

	return &Running{Server: server, URL: httpServer.URL}
}

func (r *Running) BooksURL() string {
	return r.URL + "/" + ResourceBooks
}

func (r *Running) AccountsURL() string {
	return r.URL + "/" + ResourceAccounts
}

func (r *Running) RequestsURL() string {
	return r.URL + "/" + ResourceRequests
}

// Stores returns clients wired to this server.
func (r *Running) Stores(opts ...mockapi.Option) mockapi.Stores {
	return mockapi.NewStores(r.BooksURL(), r.AccountsURL(), r.RequestsURL(), opts...)
}
