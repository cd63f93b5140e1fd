package server

import (
	"github.com/labstack/echo/v4"

	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell"
)

type requestValidator struct{}

func (requestValidator) Validate(i any) error {
	return shell.ValidateStruct(i)
}

func bindAndValidate(c echo.Context, dto any) error {
	if err := c.Bind(dto); err != nil {
		return core.ValidationError{Fields: map[string]string{"body": "malformed request"}}
	}

	return c.Validate(dto)
}
