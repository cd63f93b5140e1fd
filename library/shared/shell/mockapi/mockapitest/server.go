package mockapitest

import (
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
)

const (
	ResourceBooks    = "books"
	ResourceAccounts = "accounts"
	ResourceRequests = "requests"
)

// Server keeps the three resources in memory and serves them the way MockAPI does:
// ids are assigned on POST, PUT merges the body into the record, and a filtered
// listing without matches answers 404.
type Server struct {
	echo *echo.Echo
	now  func() time.Time

	mu       sync.Mutex
	books    []core.Book
	accounts []core.Account
	requests []core.BorrowRequest
	failures map[string]int
	calls    map[string]int
}

type Option func(*Server)

// WithBooks seeds the catalog. Books without an id get one.
func WithBooks(books ...core.Book) Option {
	return func(s *Server) {
		for _, book := range books {
			s.AddBook(book)
		}
	}
}

// WithAccounts seeds the accounts resource.
func WithAccounts(accounts ...core.Account) Option {
	return func(s *Server) {
		for _, account := range accounts {
			s.AddAccount(account)
		}
	}
}

// WithRequests seeds the requests resource.
func WithRequests(requests ...core.BorrowRequest) Option {
	return func(s *Server) {
		for _, request := range requests {
			s.AddRequest(request)
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

func New(opts ...Option) *Server {
	s := &Server{
		echo:     echo.New(),
		now:      time.Now,
		books:    make([]core.Book, 0),
		accounts: make([]core.Account, 0),
		requests: make([]core.BorrowRequest, 0),
		failures: make(map[string]int),
		calls:    make(map[string]int),
	}

	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.routes()

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Handler serves all three resources, mounted at /books, /accounts and /requests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on address until Shutdown is called.
func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// FailNext makes the next n calls of method on resource answer 503. A negative n fails all calls.
func (s *Server) FailNext(method, resource string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failures[callKey(method, resource)] = n
}

// Calls counts the calls of method on resource, failed ones included.
func (s *Server) Calls(method, resource string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.calls[callKey(method, resource)]
}

func (s *Server) AddBook(book core.Book) core.Book {
	s.mu.Lock()
	defer s.mu.Unlock()

	if book.ID == "" {
		book.ID = uuid.NewString()
	}
	s.books = append(s.books, book)

	return book
}

func (s *Server) AddAccount(account core.Account) core.Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	s.accounts = append(s.accounts, account)

	return account
}

func (s *Server) AddRequest(request core.BorrowRequest) core.BorrowRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	if request.ID == "" {
		request.ID = uuid.NewString()
	}
	s.requests = append(s.requests, request)

	return request
}

func (s *Server) Book(id core.BookIDString) (core.Book, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.bookIndex(id)
	if i < 0 {
		return core.Book{}, false
	}

	return s.books[i], true
}

func (s *Server) Request(id core.RequestIDString) (core.BorrowRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.requestIndex(id)
	if i < 0 {
		return core.BorrowRequest{}, false
	}

	return s.requests[i], true
}

func (s *Server) Books() []core.Book {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.books)
}

func (s *Server) Accounts() []core.Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.accounts)
}

func (s *Server) Requests() []core.BorrowRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.requests)
}

func (s *Server) routes() {
	s.echo.Use(s.injectFailures)

	books := s.echo.Group("/" + ResourceBooks)
	books.GET("", s.listBooks)
	books.GET("/:id", s.getBook)
	books.POST("", s.createBook)
	books.PUT("/:id", s.updateBook)
	books.DELETE("/:id", s.deleteBook)

	accounts := s.echo.Group("/" + ResourceAccounts)
	accounts.GET("", s.listAccounts)
	accounts.POST("", s.createAccount)

	requests := s.echo.Group("/" + ResourceRequests)
	requests.GET("", s.listRequests)
	requests.GET("/:id", s.getRequest)
	requests.POST("", s.createRequest)
	requests.PUT("/:id", s.updateRequest)
}

func (s *Server) injectFailures(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		resource := strings.SplitN(strings.TrimPrefix(c.Request().URL.Path, "/"), "/", 2)[0]
		key := callKey(c.Request().Method, resource)

		s.mu.Lock()
		s.calls[key]++
		remaining := s.failures[key]
		if remaining > 0 {
			s.failures[key]--
		}
		s.mu.Unlock()

		if remaining != 0 {
			return c.JSON(http.StatusServiceUnavailable, "Service unavailable")
		}

		return next(c)
	}
}

func callKey(method, resource string) string {
	return method + " " + resource
}

func notFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, "Not found")
}
