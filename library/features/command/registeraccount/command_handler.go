package registeraccount

import (
	"context"

	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/password"
)

// AccountStore is what the CommandHandler needs from the accounts resource.
type AccountStore interface {
	ListAccounts(ctx context.Context) ([]core.Account, error)
	CreateAccount(ctx context.Context, account core.Account) (core.Account, error)
}

// CommandHandler runs Validate -> List -> Decide -> Create.
// The duplicate check is a scan, the accounts resource has no unique constraint.
type CommandHandler struct {
	accounts AccountStore
	hasher   password.Hasher
}

type Option func(*CommandHandler)

// WithPasswordHasher sets how the password is stored, plaintext by default.
func WithPasswordHasher(hasher password.Hasher) Option {
	return func(h *CommandHandler) {
		h.hasher = hasher
	}
}

func NewCommandHandler(accounts AccountStore, opts ...Option) CommandHandler {
	handler := CommandHandler{
		accounts: accounts,
		hasher:   password.PlaintextHasher{},
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle returns the created account as output.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	created, err := h.register(ctx, command)
	if err != nil {
		return shell.NewErrorResult(shell.SingleAttempt(err)), err
	}

	return shell.NewSuccessResult(shell.SingleAttempt(nil)).WithOutput(created), nil
}

func (h CommandHandler) register(ctx context.Context, command Command) (core.Account, error) {
	if err := command.Validate(); err != nil {
		return core.Account{}, err
	}

	existing, err := h.accounts.ListAccounts(ctx)
	if err != nil {
		return core.Account{}, err
	}

	account, err := Decide(existing, command)
	if err != nil {
		return core.Account{}, err
	}

	account.Password, err = h.hasher.Hash(account.Password)
	if err != nil {
		return core.Account{}, err
	}

	return h.accounts.CreateAccount(ctx, account)
}
