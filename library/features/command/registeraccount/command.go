package registeraccount

import (
	"time"

	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell"
)

const (
	commandType = "RegisterAccount"
)

// Command represents the intent to create a user account.
type Command struct {
	Username        string            `json:"username" validate:"notblank"`
	Email           string            `json:"email" validate:"required,email"`
	Password        string            `json:"password" validate:"required"`
	ConfirmPassword string            `json:"confirmPassword" validate:"required"`
	OccurredAt      core.OccurredAtTS `json:"-"`
}

// CommandType returns the type identifier for this command, used for observability.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(username, email, password, confirmPassword string, occurredAt time.Time) Command {
	return Command{
		Username:        username,
		Email:           email,
		Password:        password,
		ConfirmPassword: confirmPassword,
		OccurredAt:      core.ToOccurredAt(occurredAt),
	}
}

// Validate checks the input before anything is sent to the accounts resource.
func (c Command) Validate() error {
	if err := shell.ValidateStruct(c); err != nil {
		return err
	}

	if c.ConfirmPassword != c.Password {
		return core.ErrPasswordMismatch
	}

	return nil
}
