package login

import (
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/shell/password"
)

// Decide finds the account the credentials belong to.
//
// Business Rules:
//
//	GIVEN: all accounts known to the accounts resource
//	WHEN: Login is received
//	THEN: the first account whose email equals exactly and whose password matches
//	ERROR: ErrAuthenticationFailed if there is none
//
// There is no lockout and no rate limit.
func Decide(accounts []core.Account, command Command) (core.Account, error) {
	for _, account := range accounts {
		if account.Email == command.Email && password.Matches(account.Password, command.Password) {
			return account, nil
		}
	}

	return core.Account{}, core.ErrAuthenticationFailed
}
