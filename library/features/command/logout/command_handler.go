// Package logout clears the session as a whole. Logging out twice is fine.
package logout

import (
	"context"

	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/session"
)

const (
	commandType = "Logout"
)

type Command struct{}

func (c Command) CommandType() string {
	return commandType
}

func BuildCommand() Command {
	return Command{}
}

// Sessions is the part of the session manager logout needs.
type Sessions interface {
	Current() session.Session
	Clear(ctx context.Context) error
}

type CommandHandler struct {
	sessions Sessions
}

func NewCommandHandler(sessions Sessions) CommandHandler {
	return CommandHandler{sessions: sessions}
}

// Handle reports an idempotent result when nobody was signed in.
func (h CommandHandler) Handle(ctx context.Context, _ Command) (shell.HandlerResult, error) {
	wasSignedIn := !h.sessions.Current().IsZero()

	if err := h.sessions.Clear(ctx); err != nil {
		return shell.NewErrorResult(shell.SingleAttempt(err)), err
	}

	if !wasSignedIn {
		return shell.NewIdempotentResult(shell.SingleAttempt(nil)), nil
	}

	return shell.NewSuccessResult(shell.SingleAttempt(nil)), nil
}
