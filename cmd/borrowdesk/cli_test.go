package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-borrow-desk/library/features/reconcileavailability"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/mockapi/mockapitest"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/session"
)

func Test_SplitArgs(t *testing.T) {
	testCases := []struct {
		line string
		want []string
	}{
		{line: "books list", want: []string{"books", "list"}},
		{line: `books add --title "The Dispossessed"  --author 'Ursula K. Le Guin'`,
			want: []string{"books", "add", "--title", "The Dispossessed", "--author", "Ursula K. Le Guin"}},
		{line: `borrow 12\ 3`, want: []string{"borrow", "12 3"}},
		{line: `login --password ""`, want: []string{"login", "--password", ""}},
	}

	for _, tc := range testCases {
		t.Run(tc.line, func(t *testing.T) {
			// act
			got, err := splitArgs(tc.line)

			// assert
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func Test_SplitArgs_Empty_WhenLineIsBlank(t *testing.T) {
	// act
	got, err := splitArgs("   ")

	// assert
	require.NoError(t, err)
	assert.Empty(t, got)
}

func Test_SplitArgs_Error_WhenLineIsNotAPlainCommand(t *testing.T) {
	testCases := []struct {
		name string
		line string
	}{
		{name: "unclosed double quote", line: `books add --title "Dune`},
		{name: "unclosed single quote", line: `books add --author 'Le Guin`},
		{name: "trailing backslash", line: `borrow 12\`},
		{name: "pipe", line: `books list | grep Dune`},
		{name: "command list", line: `logout; whoami`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			_, err := splitArgs(tc.line)

			// assert
			assert.ErrorIs(t, err, errInvalidCommandLine)
		})
	}
}

func Test_Prompt_FollowsTheSession(t *testing.T) {
	// arrange
	p := newPrompt(session.Session{})

	// act + assert
	assert.Equal(t, "borrowdesk> ", p.String())

	p.update(session.Session{Role: core.RoleUser, Username: "ann", Email: "ann@example.org", ID: "2"})
	assert.Equal(t, "borrowdesk (ann)> ", p.String())

	p.update(session.Session{Role: core.RoleAdmin, Username: "admin", Email: "admin@library.local", ID: "1"})
	assert.Equal(t, "borrowdesk (admin, admin)# ", p.String())
}

func Test_WriteReport(t *testing.T) {
	// arrange
	var out bytes.Buffer
	report := reconcileavailability.Report{
		FlippedBooks: []core.BookIDString{"3", "7"},
		DriftedBooks: []core.BookIDString{"9"},
	}

	// act
	require.NoError(t, writeReport(&out, report))

	// assert
	assert.Equal(t, "flipped books: 3, 7\ndrifted books (left as is): 9\n", out.String())
}

func givenCLI(t *testing.T, input string) (*cli, *bytes.Buffer, *mockapitest.Running) {
	t.Helper()

	mock := mockapitest.Start(t, mockapitest.WithDemoData())
	t.Setenv("BORROWDESK_BOOKS_URL", mock.BooksURL())
	t.Setenv("BORROWDESK_ACCOUNTS_URL", mock.AccountsURL())
	t.Setenv("BORROWDESK_REQUESTS_URL", mock.RequestsURL())
	t.Setenv("BORROWDESK_SESSION_PATH", t.TempDir()+"/session.db")
	t.Setenv("BORROWDESK_RETRY_BASE_DELAY", "1ms")
	t.Setenv("BORROWDESK_LOG_LEVEL", "error")

	var out bytes.Buffer
	c := newCLI(strings.NewReader(input), &out, &bytes.Buffer{})
	t.Cleanup(func() { _ = c.close() })

	return c, &out, mock
}

func (c *cli) run(t *testing.T, args ...string) error {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	root := c.rootCommand()
	root.SetArgs(args)

	return root.ExecuteContext(ctx)
}

func Test_CLI_RegisterLoginAndBorrow(t *testing.T) {
	// arrange
	c, out, mock := givenCLI(t, "")

	// act
	require.NoError(t, c.run(t, "register", "--username", "ann", "--email", "ann@example.org", "--password", "secret1"))
	require.NoError(t, c.run(t, "login", "--email", "ann@example.org", "--password", "secret1"))
	require.NoError(t, c.run(t, "whoami"))
	require.NoError(t, c.run(t, "borrow", mock.Books()[0].ID))
	require.NoError(t, c.run(t, "requests", "list"))

	// assert
	assert.Contains(t, out.String(), "Signed in as ann (user)")
	assert.Contains(t, out.String(), "ann <ann@example.org> (user)")
	assert.Contains(t, out.String(), "waiting for a librarian")
	assert.Contains(t, out.String(), "pending")
}

func Test_CLI_Borrow_Error_WhenNotSignedIn(t *testing.T) {
	// arrange
	c, _, mock := givenCLI(t, "")

	// act
	err := c.run(t, "borrow", mock.Books()[0].ID)

	// assert
	assert.ErrorIs(t, err, core.ErrAuthenticationFailed)
}

func Test_CLI_Reconcile_Error_WhenNotAdmin(t *testing.T) {
	// arrange
	c, _, _ := givenCLI(t, "")
	require.NoError(t, c.run(t, "register", "--username", "ann", "--email", "ann@example.org", "--password", "secret1"))
	require.NoError(t, c.run(t, "login", "--email", "ann@example.org", "--password", "secret1"))

	// act
	err := c.run(t, "reconcile")

	// assert
	assert.ErrorIs(t, err, core.ErrForbidden)
}

func Test_CLI_Shell_PromptFollowsLogin(t *testing.T) {
	// arrange
	c, out, _ := givenCLI(t, "login --email admin@library.local --password admin\nlogout\nexit\n")

	// act
	err := c.run(t, "shell")

	// assert
	require.NoError(t, err)
	assert.Contains(t, out.String(), "borrowdesk (admin, admin)# ")
	assert.Contains(t, out.String(), "Signed out.")
}
