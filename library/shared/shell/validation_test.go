package shell_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell"
)

type signUp struct {
	Email    string `json:"email" validate:"notblank,email"`
	Password string `json:"password" validate:"required"`
	Confirm  string `json:"confirmPassword" validate:"eqfield=Password"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
	Internal string `json:"-" validate:"notblank"`
}

func Test_ValidateStruct_Success(t *testing.T) {
	// act
	err := shell.ValidateStruct(signUp{
		Email:    "ann@example.org",
		Password: "secret1",
		Confirm:  "secret1",
		Internal: "x",
	})

	// assert
	assert.NoError(t, err)
}

func Test_ValidateStruct_ReportsFieldsByJSONName(t *testing.T) {
	// act
	err := shell.ValidateStruct(signUp{
		Email:    "   ",
		Confirm:  "other",
		Role:     "librarian",
		Internal: "x",
	})

	// assert
	require.ErrorIs(t, err, core.ErrValidation)

	var validationErr core.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, map[string]string{
		"email":           "must not be empty",
		"password":        "must not be empty",
		"confirmPassword": "must match Password",
		"role":            "must be one of user admin",
	}, validationErr.Fields)
}
