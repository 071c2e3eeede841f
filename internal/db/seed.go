package db

import (
	"context"
	"errors"

	"github.com/eliteprep/eliteprep-api/internal/domain/user"
	"github.com/eliteprep/eliteprep-api/internal/security"
)

type UserSeeder interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Create(ctx context.Context, u user.User) error
}

// EnsureUser registers email/password unless a user with that email exists.
// Empty credentials mean seeding is disabled.
func EnsureUser(ctx context.Context, store UserSeeder, verifier security.CredentialVerifier, email, password string) (bool, error) {
	if email == "" || password == "" {
		return false, nil
	}

	_, err := store.GetByEmail(ctx, email)

	if err == nil {
		return false, nil
	}

	if !errors.Is(err, user.ErrNotFound) {
		return false, err
	}

	credential, err := verifier.Encode(password)

	if err != nil {
		return false, err
	}

	err = store.Create(ctx, user.New(email, credential))

	if errors.Is(err, user.ErrEmailTaken) {
		// lost a race with another instance
		return false, nil
	}

	if err != nil {
		return false, err
	}

	return true, nil
}
