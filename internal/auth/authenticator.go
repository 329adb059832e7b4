package auth

import (
	"context"
	"errors"
	"strconv"

	"attendtrack/internal/users"
)

// ErrInvalidCredentials is returned for an unknown user or a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// CredentialStore looks users up by login name.
type CredentialStore interface {
	GetByUsername(ctx context.Context, username string) (*users.User, error)
}

// Authenticator exchanges a username and password for a bearer token.
type Authenticator struct {
	store     CredentialStore
	hasher    Hasher
	tokens    *TokenIssuer
	dummyHash string
}

func NewAuthenticator(store CredentialStore, hasher Hasher, tokens *TokenIssuer) *Authenticator {
	// Used to spend the same bcrypt time on unknown usernames.
	dummy, _ := hasher.Hash("attendance-timing-equalizer")
	return &Authenticator{store: store, hasher: hasher, tokens: tokens, dummyHash: dummy}
}

// Login returns a signed token whose subject is the user's id.
func (a *Authenticator) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", ErrInvalidCredentials
	}
	u, err := a.store.GetByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if u == nil {
		a.hasher.Matches(a.dummyHash, password)
		return "", ErrInvalidCredentials
	}
	if !a.hasher.Matches(u.PasswordHash, password) {
		return "", ErrInvalidCredentials
	}
	return a.tokens.Issue(strconv.FormatInt(u.ID, 10), u.Type)
}
