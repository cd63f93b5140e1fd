package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/AntonStoeckl/library-borrow-desk/library/features/command/login"
	"github.com/AntonStoeckl/library-borrow-desk/library/features/command/registeraccount"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell"
)

type registerRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// accountResponse never carries the password.
type accountResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      core.Role `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func toAccountResponse(a core.Account) accountResponse {
	return accountResponse{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		Role:      a.Role,
		CreatedAt: a.CreatedAt,
	}
}

func (s *Server) register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return core.ValidationError{Fields: map[string]string{"body": "malformed request"}}
	}

	command := registeraccount.BuildCommand(req.Username, req.Email, req.Password, req.ConfirmPassword, s.now())

	result, err := s.handlers.RegisterAccount.Handle(c.Request().Context(), command)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toAccountResponse(shell.OutputAs[core.Account](result)))
}

func (s *Server) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return core.ValidationError{Fields: map[string]string{"body": "malformed request"}}
	}

	result, err := s.handlers.Login.Handle(c.Request().Context(), login.BuildCommand(req.Email, req.Password))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, shell.OutputAs[login.Result](result))
}

// logout has nothing to revoke, tokens are stateless and the client drops its copy.
func (s *Server) logout(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}
