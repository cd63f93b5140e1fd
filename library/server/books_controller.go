package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/AntonStoeckl/library-borrow-desk/library/features/command/addbook"
	"github.com/AntonStoeckl/library-borrow-desk/library/features/command/editbook"
	"github.com/AntonStoeckl/library-borrow-desk/library/features/command/removebook"
	"github.com/AntonStoeckl/library-borrow-desk/library/features/query/bookdetails"
	"github.com/AntonStoeckl/library-borrow-desk/library/features/query/borroweligibility"
	"github.com/AntonStoeckl/library-borrow-desk/library/features/query/browsecatalog"
	"github.com/AntonStoeckl/library-borrow-desk/library/features/query/coversuggestion"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell"
)

type addBookRequest struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Category    string `json:"category"`
	Cover       string `json:"cover"`
	Description string `json:"description"`
	IsNew       bool   `json:"isNew"`
	IsPopular   bool   `json:"isPopular"`
}

type coverSuggestionRequest struct {
	Title  string `query:"title" json:"title" validate:"notblank"`
	Author string `query:"author" json:"author"`
}

func (s *Server) browseCatalog(c echo.Context) error {
	var filter browsecatalog.Filter
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &filter); err != nil {
		return core.ValidationError{Fields: map[string]string{"query": "malformed filter"}}
	}

	catalog, err := s.handlers.BrowseCatalog.Handle(c.Request().Context(), browsecatalog.BuildQuery(filter, viewer(c)))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, catalog)
}

func (s *Server) bookDetails(c echo.Context) error {
	query := bookdetails.BuildQuery(c.Param("id"), viewer(c))

	details, err := s.handlers.BookDetails.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, details)
}

func (s *Server) borrowEligibility(c echo.Context) error {
	query := borroweligibility.BuildQuery(c.Param("id"), viewer(c))

	eligibility, err := s.handlers.BorrowEligibility.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, eligibility)
}

func (s *Server) addBook(c echo.Context) error {
	var req addBookRequest
	if err := c.Bind(&req); err != nil {
		return core.ValidationError{Fields: map[string]string{"body": "malformed request"}}
	}

	command := addbook.BuildCommand(
		req.Title,
		req.Author,
		req.Category,
		req.Cover,
		req.Description,
		req.IsNew,
		req.IsPopular,
		viewer(c),
	)

	result, err := s.handlers.AddBook.Handle(c.Request().Context(), command)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, shell.OutputAs[core.Book](result))
}

func (s *Server) editBook(c echo.Context) error {
	var patch core.BookPatch
	if err := c.Bind(&patch); err != nil {
		return core.ValidationError{Fields: map[string]string{"body": "malformed request"}}
	}

	result, err := s.handlers.EditBook.Handle(c.Request().Context(), editbook.BuildCommand(c.Param("id"), patch, viewer(c)))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, shell.OutputAs[core.Book](result))
}

func (s *Server) removeBook(c echo.Context) error {
	if _, err := s.handlers.RemoveBook.Handle(c.Request().Context(), removebook.BuildCommand(c.Param("id"), viewer(c))); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (s *Server) coverSuggestion(c echo.Context) error {
	var req coverSuggestionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	suggestion, err := s.handlers.CoverSuggestion.Handle(c.Request().Context(),
		coversuggestion.BuildQuery(req.Title, req.Author, viewer(c)))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, suggestion)
}
