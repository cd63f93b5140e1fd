package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/AntonStoeckl/library-borrow-desk/library/features/command/decideborrowrequest"
	"github.com/AntonStoeckl/library-borrow-desk/library/features/command/returnborrowedbook"
	"github.com/AntonStoeckl/library-borrow-desk/library/features/command/submitborrowrequest"
	"github.com/AntonStoeckl/library-borrow-desk/library/features/query/borrowrequests"
	"github.com/AntonStoeckl/library-borrow-desk/library/features/reconcileavailability"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell"
)

// submitBorrowRequest takes the borrower from the token. The name may be overridden in the body.
type submitBorrowRequest struct {
	BorrowerName string `json:"borrowerName"`
}

type returnBookRequest struct {
	BookID string `json:"bookId"`
}

type listRequestsRequest struct {
	Status string `query:"status" json:"status" validate:"omitempty,oneof=pending accepted rejected returned"`
}

func (s *Server) submitBorrowRequest(c echo.Context) error {
	var req submitBorrowRequest
	if err := c.Bind(&req); err != nil {
		return core.ValidationError{Fields: map[string]string{"body": "malformed request"}}
	}

	v := viewer(c)
	if req.BorrowerName == "" {
		req.BorrowerName = v.Username
	}

	command := submitborrowrequest.BuildCommand(uuid.New(), c.Param("id"), req.BorrowerName, v.Email, s.now())

	result, err := s.handlers.SubmitBorrowRequest.Handle(c.Request().Context(), command)
	if err != nil {
		return err
	}

	status := http.StatusCreated
	if result.Idempotent {
		status = http.StatusOK
	}

	return c.JSON(status, shell.OutputAs[core.BorrowRequest](result))
}

func (s *Server) myBorrowRequests(c echo.Context) error {
	listing, err := s.handlers.BorrowRequests.Handle(c.Request().Context(), borrowrequests.MyRequests(viewer(c)))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listing)
}

func (s *Server) returnBorrowedBook(c echo.Context) error {
	var req returnBookRequest
	if err := c.Bind(&req); err != nil {
		return core.ValidationError{Fields: map[string]string{"body": "malformed request"}}
	}

	command := returnborrowedbook.BuildCommand(c.Param("id"), req.BookID, viewer(c), s.now())

	result, err := s.handlers.ReturnBorrowedBook.Handle(c.Request().Context(), command)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, shell.OutputAs[core.BorrowRequest](result))
}

func (s *Server) allBorrowRequests(c echo.Context) error {
	var req listRequestsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	query := borrowrequests.AllRequests(core.RequestStatus(req.Status), viewer(c))

	listing, err := s.handlers.BorrowRequests.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listing)
}

func (s *Server) acceptBorrowRequest(c echo.Context) error {
	return s.decideBorrowRequest(c, core.StatusAccepted)
}

func (s *Server) rejectBorrowRequest(c echo.Context) error {
	return s.decideBorrowRequest(c, core.StatusRejected)
}

func (s *Server) decideBorrowRequest(c echo.Context, outcome core.RequestStatus) error {
	command := decideborrowrequest.BuildCommand(c.Param("id"), outcome, viewer(c), s.now())

	result, err := s.handlers.DecideBorrowRequest.Handle(c.Request().Context(), command)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, shell.OutputAs[core.BorrowRequest](result))
}

func (s *Server) reconcile(c echo.Context) error {
	result, err := s.handlers.Reconcile.Handle(c.Request().Context(), reconcileavailability.BuildCommand(s.now()))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, shell.OutputAs[reconcileavailability.Report](result))
}
