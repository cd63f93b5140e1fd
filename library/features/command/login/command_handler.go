package login

import (
	"context"

	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/session"
)

// AccountLister is what the CommandHandler needs from the accounts resource.
type AccountLister interface {
	ListAccounts(ctx context.Context) ([]core.Account, error)
}

// SessionEstablisher receives the session of a successful login.
type SessionEstablisher interface {
	Establish(ctx context.Context, s session.Session) error
}

// Result is the output of a successful login.
type Result struct {
	Session      session.Session `json:"session"`
	LandingRoute string          `json:"landingRoute"`
}

// CommandHandler checks the credentials, issues a token and establishes the session.
// Without a SessionEstablisher, e.g. in the HTTP API, the session is only returned.
type CommandHandler struct {
	accounts AccountLister
	issuer   session.TokenIssuer
	sessions SessionEstablisher
}

type Option func(*CommandHandler)

func WithTokenIssuer(issuer session.TokenIssuer) Option {
	return func(h *CommandHandler) {
		h.issuer = issuer
	}
}

func WithSessionEstablisher(sessions SessionEstablisher) Option {
	return func(h *CommandHandler) {
		h.sessions = sessions
	}
}

func NewCommandHandler(accounts AccountLister, opts ...Option) CommandHandler {
	handler := CommandHandler{
		accounts: accounts,
		issuer:   session.PlaceholderIssuer{},
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle leaves the current session untouched when authentication fails.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	result, err := h.login(ctx, command)
	if err != nil {
		return shell.NewErrorResult(shell.SingleAttempt(err)), err
	}

	return shell.NewSuccessResult(shell.SingleAttempt(nil)).WithOutput(result), nil
}

func (h CommandHandler) login(ctx context.Context, command Command) (Result, error) {
	accounts, err := h.accounts.ListAccounts(ctx)
	if err != nil {
		return Result{}, err
	}

	account, err := Decide(accounts, command)
	if err != nil {
		return Result{}, err
	}

	s := session.FromAccount(account, "")

	s.Token, err = h.issuer.Issue(s)
	if err != nil {
		return Result{}, err
	}

	if h.sessions != nil {
		if err := h.sessions.Establish(ctx, s); err != nil {
			return Result{}, err
		}
	}

	return Result{Session: s, LandingRoute: s.LandingRoute()}, nil
}
