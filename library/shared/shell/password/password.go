// Package password stores and checks account passwords.
//
// The accounts resource keeps whatever string it is given. Plaintext is the
// default because existing accounts were created that way, bcrypt is opt-in.
// Matches understands both, so switching the scheme does not lock anybody out.
package password

import (
	"crypto/subtle"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	SchemePlaintext = "plaintext"
	SchemeBcrypt    = "bcrypt"
)

var ErrUnknownScheme = errors.New("unknown password scheme")

// Hasher turns a chosen password into what is stored.
type Hasher interface {
	Hash(plain string) (string, error)
}

type PlaintextHasher struct{}

func (PlaintextHasher) Hash(plain string) (string, error) {
	return plain, nil
}

type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(plain string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}

	return string(hashed), nil
}

// ForScheme returns the hasher of a configured scheme.
func ForScheme(scheme string) (Hasher, error) {
	switch scheme {
	case "", SchemePlaintext:
		return PlaintextHasher{}, nil
	case SchemeBcrypt:
		return BcryptHasher{}, nil
	default:
		return nil, ErrUnknownScheme
	}
}

// Matches compares with bcrypt when stored is a bcrypt hash, exactly otherwise.
func Matches(stored, plain string) bool {
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain)) == nil
	}

	return subtle.ConstantTimeCompare([]byte(stored), []byte(plain)) == 1
}

func isBcryptHash(s string) bool {
	if len(s) != 60 {
		return false
	}

	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}
