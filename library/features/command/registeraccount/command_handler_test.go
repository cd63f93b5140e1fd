package registeraccount_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-borrow-desk/library/features/command/registeraccount"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/mockapi/mockapitest"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/password"
)

var fakeClock = time.Date(2025, 7, 12, 9, 30, 0, 0, time.UTC)

func givenRegisteredAccount(email string) core.Account {
	return core.Account{Username: "existing", Email: email, Password: "pw", Role: core.RoleUser}
}

func Test_CommandHandler_Handle_Success(t *testing.T) {
	// arrange
	server := mockapitest.Start(t, mockapitest.WithAccounts(givenRegisteredAccount("bob@example.org")))
	handler := registeraccount.NewCommandHandler(server.Stores().Accounts)
	command := registeraccount.BuildCommand("ann", "ann@example.org", "secret", "secret", fakeClock)

	// act
	result, err := handler.Handle(context.Background(), command)

	// assert
	require.NoError(t, err)
	created := shell.OutputAs[core.Account](result)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, core.RoleUser, created.Role)
	assert.Equal(t, "secret", created.Password)
	assert.True(t, fakeClock.Equal(created.CreatedAt))
	assert.Len(t, server.Accounts(), 2)
}

func Test_CommandHandler_Handle_Success_WithBcrypt(t *testing.T) {
	// arrange
	server := mockapitest.Start(t)
	handler := registeraccount.NewCommandHandler(
		server.Stores().Accounts,
		registeraccount.WithPasswordHasher(password.BcryptHasher{Cost: 4}),
	)

	// act
	_, err := handler.Handle(context.Background(),
		registeraccount.BuildCommand("ann", "ann@example.org", "secret", "secret", fakeClock))

	// assert
	require.NoError(t, err)
	stored := server.Accounts()[0].Password
	assert.NotEqual(t, "secret", stored)
	assert.True(t, password.Matches(stored, "secret"))
}

func Test_CommandHandler_Handle_Error_WhenEmailIsAlreadyRegistered(t *testing.T) {
	// arrange
	server := mockapitest.Start(t, mockapitest.WithAccounts(givenRegisteredAccount("ann@example.org")))
	handler := registeraccount.NewCommandHandler(server.Stores().Accounts)

	// act
	_, err := handler.Handle(context.Background(),
		registeraccount.BuildCommand("ann", "ann@example.org", "secret", "secret", fakeClock))

	// assert
	assert.ErrorIs(t, err, core.ErrEmailAlreadyRegistered)
	assert.ErrorIs(t, err, core.ErrConflict)
	assert.Equal(t, 0, server.Calls(http.MethodPost, mockapitest.ResourceAccounts))
}

func Test_CommandHandler_Handle_Error_WhenInputIsInvalid_NothingIsSent(t *testing.T) {
	testCases := []struct {
		name    string
		command registeraccount.Command
		field   string
	}{
		{"blank username", registeraccount.BuildCommand("  ", "ann@example.org", "pw", "pw", fakeClock), "username"},
		{"malformed email", registeraccount.BuildCommand("ann", "not-an-email", "pw", "pw", fakeClock), "email"},
		{"missing password", registeraccount.BuildCommand("ann", "ann@example.org", "", "", fakeClock), "password"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			server := mockapitest.Start(t)
			handler := registeraccount.NewCommandHandler(server.Stores().Accounts)

			// act
			_, err := handler.Handle(context.Background(), tc.command)

			// assert
			require.ErrorIs(t, err, core.ErrValidation)
			var validationErr core.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Contains(t, validationErr.Fields, tc.field)
			assert.Equal(t, 0, server.Calls(http.MethodGet, mockapitest.ResourceAccounts))
		})
	}
}

func Test_CommandHandler_Handle_Error_WhenConfirmationDiffers(t *testing.T) {
	// arrange
	server := mockapitest.Start(t)
	handler := registeraccount.NewCommandHandler(server.Stores().Accounts)

	// act
	_, err := handler.Handle(context.Background(),
		registeraccount.BuildCommand("ann", "ann@example.org", "secret", "secreT", fakeClock))

	// assert
	assert.ErrorIs(t, err, core.ErrPasswordMismatch)
	assert.ErrorIs(t, err, core.ErrValidation)
	assert.Equal(t, 0, server.Calls(http.MethodGet, mockapitest.ResourceAccounts))
}

func Test_Decide_EmailMatchIsCaseSensitive(t *testing.T) {
	// arrange
	existing := []core.Account{givenRegisteredAccount("Ann@example.org")}

	// act
	account, err := registeraccount.Decide(existing,
		registeraccount.BuildCommand("ann", "ann@example.org", "pw", "pw", fakeClock))

	// assert
	require.NoError(t, err)
	assert.Equal(t, "ann@example.org", account.Email)
	assert.Equal(t, core.RoleUser, account.Role)
}
