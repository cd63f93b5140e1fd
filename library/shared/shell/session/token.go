package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
)

// PlaceholderToken is what the desk hands out when no signing secret is configured.
// It is not a credential.
const PlaceholderToken = "dummy_token"

var (
	ErrEmptySigningSecret = errors.New("jwt signing secret must not be empty")
	ErrInvalidToken       = errors.New("invalid token")
)

// TokenIssuer produces the token stored in a new Session.
type TokenIssuer interface {
	Issue(s Session) (string, error)
}

type PlaceholderIssuer struct{}

func (PlaceholderIssuer) Issue(Session) (string, error) {
	return PlaceholderToken, nil
}

// Claims carry the session fields, the account id is the subject.
type Claims struct {
	Role     core.Role `json:"role"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	jwt.RegisteredClaims
}

// Session rebuilds the session the token was issued for.
func (c *Claims) Session(token string) Session {
	return Session{
		Role:     c.Role,
		Username: c.Username,
		Email:    c.Email,
		ID:       c.Subject,
		Token:    token,
	}
}

// JWTIssuer signs HS256 tokens.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

func NewJWTIssuer(secret string, ttl time.Duration, issuer string) (JWTIssuer, error) {
	if secret == "" {
		return JWTIssuer{}, ErrEmptySigningSecret
	}

	return JWTIssuer{secret: []byte(secret), ttl: ttl, issuer: issuer, now: time.Now}, nil
}

// WithClock returns a copy that reads the time from now.
func (i JWTIssuer) WithClock(now func() time.Time) JWTIssuer {
	i.now = now
	return i
}

func (i JWTIssuer) Secret() []byte {
	return i.secret
}

func (i JWTIssuer) Issue(s Session) (string, error) {
	issuedAt := i.now()

	claims := &Claims{
		Role:     s.Role,
		Username: s.Username,
		Email:    s.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.ID,
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(i.ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Parse verifies signature, issuer and expiry and returns the session of the token.
func (i JWTIssuer) Parse(token string) (Session, error) {
	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(
		token,
		claims,
		func(t *jwt.Token) (any, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return i.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return Session{}, errors.Join(ErrInvalidToken, err)
	}

	if !parsed.Valid {
		return Session{}, ErrInvalidToken
	}

	return claims.Session(token), nil
}
