package auth

import (
	"context"
	"fmt"
	"log"

	"attendtrack/internal/users"
)

// BootstrapSecretLength is the length of the generated admin password.
const BootstrapSecretLength = 12

// BootstrapStore is the subset of the user repository Bootstrap needs.
type BootstrapStore interface {
	Count(ctx context.Context) (int64, error)
	CreateIfAbsent(ctx context.Context, u *users.User) (bool, error)
}

// AdminAccount describes the account Bootstrap creates.
type AdminAccount struct {
	Username string
	Email    string
	FullName string
}

// Bootstrap creates one admin account with a random password when the store
// has no users, and logs that password once. It reports whether it created
// the account.
func Bootstrap(ctx context.Context, store BootstrapStore, hasher Hasher, admin AdminAccount, logger *log.Logger) (bool, error) {
	if logger == nil {
		logger = log.Default()
	}
	n, err := store.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	secret, err := RandomSecret(BootstrapSecretLength)
	if err != nil {
		return false, fmt.Errorf("generate secret: %w", err)
	}
	hash, err := hasher.Hash(secret)
	if err != nil {
		return false, fmt.Errorf("hash secret: %w", err)
	}
	u := &users.User{
		Type:         "admin",
		FullName:     admin.FullName,
		Username:     admin.Username,
		Email:        admin.Email,
		PasswordHash: hash,
		SubmittedBy:  "system",
	}
	created, err := store.CreateIfAbsent(ctx, u)
	if err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}
	if !created {
		// another process won the race
		return false, nil
	}
	logger.Printf("First admin user created, username: %s, password: %s", u.Username, secret)
	return true, nil
}
