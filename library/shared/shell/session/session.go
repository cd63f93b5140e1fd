package session

import (
	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
)

// Keys under which a Session is kept in a Store.
const (
	KeyRole     = "role"
	KeyUsername = "username"
	KeyEmail    = "email"
	KeyID       = "id"
	KeyToken    = "token"
)

// Session is who is signed in. It is replaced as a whole, never field by field.
type Session struct {
	Role     core.Role `json:"role"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	ID       string    `json:"id"`
	Token    string    `json:"token"`
}

// FromAccount builds the session a successful login establishes.
func FromAccount(account core.Account, token string) Session {
	return Session{
		Role:     account.Role,
		Username: account.Username,
		Email:    account.Email,
		ID:       account.ID,
		Token:    token,
	}
}

// IsZero is true when nobody is signed in.
func (s Session) IsZero() bool {
	return s == Session{}
}

func (s Session) IsAdmin() bool {
	return s.Role == core.RoleAdmin
}

// LandingRoute is where the source application sent a user after login.
func (s Session) LandingRoute() string {
	if s.IsAdmin() {
		return "/account/admin"
	}

	return "/account/users/" + s.ID
}

// MyBooksRoute is the borrower scoped request listing.
func (s Session) MyBooksRoute() string {
	return "/account/users/" + s.ID + "/mybooks"
}

func (s Session) entries() map[string]string {
	return map[string]string{
		KeyRole:     string(s.Role),
		KeyUsername: s.Username,
		KeyEmail:    s.Email,
		KeyID:       s.ID,
		KeyToken:    s.Token,
	}
}

func fromEntries(entries map[string]string) Session {
	return Session{
		Role:     core.Role(entries[KeyRole]),
		Username: entries[KeyUsername],
		Email:    entries[KeyEmail],
		ID:       entries[KeyID],
		Token:    entries[KeyToken],
	}
}
