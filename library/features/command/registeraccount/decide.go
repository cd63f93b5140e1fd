package registeraccount

import (
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
)

// Decide returns the account to create, or why none is created.
//
// Business Rules:
//
//	GIVEN: all accounts known to the accounts resource
//	WHEN: RegisterAccount is received
//	THEN: a user account with the given credentials, created at OccurredAt
//	ERROR: ErrPasswordMismatch if the confirmation differs from the password
//	ERROR: ErrEmailAlreadyRegistered if an account has exactly this email
//
// The role is always user, self-registration never creates an admin.
func Decide(existing []core.Account, command Command) (core.Account, error) {
	if command.ConfirmPassword != command.Password {
		return core.Account{}, core.ErrPasswordMismatch
	}

	for _, account := range existing {
		if account.Email == command.Email {
			return core.Account{}, core.ErrEmailAlreadyRegistered
		}
	}

	return core.Account{
		Username:  command.Username,
		Email:     command.Email,
		Password:  command.Password,
		Role:      core.RoleUser,
		CreatedAt: command.OccurredAt,
	}, nil
}
