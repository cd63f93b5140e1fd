package mockapitest

import (
	"net/http"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
)

func (s *Server) listBooks(c echo.Context) error {
	return c.JSON(http.StatusOK, s.Books())
}

func (s *Server) getBook(c echo.Context) error {
	book, ok := s.Book(c.Param("id"))
	if !ok {
		return notFound(c)
	}

	return c.JSON(http.StatusOK, book)
}

func (s *Server) createBook(c echo.Context) error {
	var book core.Book
	if err := c.Bind(&book); err != nil {
		return err
	}

	book.ID = ""

	return c.JSON(http.StatusCreated, s.AddBook(book))
}

func (s *Server) updateBook(c echo.Context) error {
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.bookIndex(id)
	if i < 0 {
		return notFound(c)
	}

	updated := s.books[i]
	if err := c.Bind(&updated); err != nil {
		return err
	}

	updated.ID = id
	s.books[i] = updated

	return c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteBook(c echo.Context) error {
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.bookIndex(id)
	if i < 0 {
		return notFound(c)
	}

	deleted := s.books[i]
	s.books = slices.Delete(s.books, i, i+1)

	return c.JSON(http.StatusOK, deleted)
}

func (s *Server) listAccounts(c echo.Context) error {
	return c.JSON(http.StatusOK, s.Accounts())
}

func (s *Server) createAccount(c echo.Context) error {
	var account core.Account
	if err := c.Bind(&account); err != nil {
		return err
	}

	account.ID = ""

	return c.JSON(http.StatusCreated, s.AddAccount(account))
}

// listRequests matches query parameters as substrings and answers 404 when a filter matches nothing.
func (s *Server) listRequests(c echo.Context) error {
	borrowerEmail := c.QueryParam("borrowerEmail")
	bookID := c.QueryParam("bookId")

	matching := make([]core.BorrowRequest, 0)
	for _, request := range s.Requests() {
		if !strings.Contains(request.BorrowerEmail, borrowerEmail) {
			continue
		}
		if !strings.Contains(request.BookID, bookID) {
			continue
		}
		matching = append(matching, request)
	}

	if len(matching) == 0 && (borrowerEmail != "" || bookID != "") {
		return notFound(c)
	}

	return c.JSON(http.StatusOK, matching)
}

func (s *Server) getRequest(c echo.Context) error {
	request, ok := s.Request(c.Param("id"))
	if !ok {
		return notFound(c)
	}

	return c.JSON(http.StatusOK, request)
}

func (s *Server) createRequest(c echo.Context) error {
	var request core.BorrowRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	request.ID = uuid.NewString()
	if request.Date.IsZero() {
		request.Date = s.now().UTC()
	}

	return c.JSON(http.StatusCreated, s.AddRequest(request))
}

func (s *Server) updateRequest(c echo.Context) error {
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.requestIndex(id)
	if i < 0 {
		return notFound(c)
	}

	updated := s.requests[i]
	if err := c.Bind(&updated); err != nil {
		return err
	}

	updated.ID = id
	s.requests[i] = updated

	return c.JSON(http.StatusOK, updated)
}

func (s *Server) bookIndex(id core.BookIDString) int {
	return slices.IndexFunc(s.books, func(book core.Book) bool { return book.ID == id })
}

func (s *Server) requestIndex(id core.RequestIDString) int {
	return slices.IndexFunc(s.requests, func(request core.BorrowRequest) bool { return request.ID == id })
}
