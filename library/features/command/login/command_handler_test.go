package login_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-borrow-desk/library/features/command/login"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/mockapi/mockapitest"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/session"
)

func givenAccounts() []core.Account {
	return []core.Account{
		{ID: "1", Username: "root", Email: "admin@example.org", Password: "admin", Role: core.RoleAdmin},
		{ID: "2", Username: "ann", Email: "ann@example.org", Password: "Secret", Role: core.RoleUser},
	}
}

func givenHandler(t *testing.T, opts ...login.Option) (login.CommandHandler, *session.Manager) {
	t.Helper()

	server := mockapitest.Start(t, mockapitest.WithAccounts(givenAccounts()...))
	manager, err := session.NewManager(context.Background(), session.NewMemoryStore())
	require.NoError(t, err)

	opts = append([]login.Option{login.WithSessionEstablisher(manager)}, opts...)

	return login.NewCommandHandler(server.Stores().Accounts, opts...), manager
}

func Test_CommandHandler_Handle_Success_User(t *testing.T) {
	// arrange
	handler, manager := givenHandler(t)
	notified := 0
	manager.Subscribe(func(session.Session) { notified++ })

	// act
	result, err := handler.Handle(context.Background(), login.BuildCommand("ann@example.org", "Secret"))

	// assert
	require.NoError(t, err)
	output := shell.OutputAs[login.Result](result)
	assert.Equal(t, "/account/users/2", output.LandingRoute)
	assert.Equal(t, session.Session{
		Role:     core.RoleUser,
		Username: "ann",
		Email:    "ann@example.org",
		ID:       "2",
		Token:    session.PlaceholderToken,
	}, manager.Current())
	assert.Equal(t, 1, notified)
}

func Test_CommandHandler_Handle_Success_AdminLandsOnAdminPage(t *testing.T) {
	// arrange
	handler, _ := givenHandler(t)

	// act
	result, err := handler.Handle(context.Background(), login.BuildCommand("admin@example.org", "admin"))

	// assert
	require.NoError(t, err)
	assert.Equal(t, "/account/admin", shell.OutputAs[login.Result](result).LandingRoute)
}

func Test_CommandHandler_Handle_Success_WithSignedToken(t *testing.T) {
	// arrange
	issuer, err := session.NewJWTIssuer("s3cret", time.Hour, "borrowdesk")
	require.NoError(t, err)
	handler, _ := givenHandler(t, login.WithTokenIssuer(issuer))

	// act
	result, err := handler.Handle(context.Background(), login.BuildCommand("ann@example.org", "Secret"))

	// assert
	require.NoError(t, err)
	parsed, parseErr := issuer.Parse(shell.OutputAs[login.Result](result).Session.Token)
	require.NoError(t, parseErr)
	assert.Equal(t, "ann@example.org", parsed.Email)
	assert.Equal(t, "2", parsed.ID)
}

func Test_CommandHandler_Handle_Error_WhenCredentialsDoNotMatch_SessionUntouched(t *testing.T) {
	testCases := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "ann@example.org", "secret"},
		{"email differs in case", "Ann@example.org", "Secret"},
		{"unknown email", "bob@example.org", "Secret"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			handler, manager := givenHandler(t)
			before := session.Session{Role: core.RoleUser, Username: "prior", Email: "prior@example.org", ID: "9"}
			require.NoError(t, manager.Establish(context.Background(), before))

			// act
			_, err := handler.Handle(context.Background(), login.BuildCommand(tc.email, tc.password))

			// assert
			assert.ErrorIs(t, err, core.ErrAuthenticationFailed)
			assert.Equal(t, before, manager.Current())
		})
	}
}
