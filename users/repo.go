package users

import (
	"context"
	"errors"
)

var (
	ErrNotFound  = errors.New("user not found")
	ErrDuplicate = errors.New("email or username already in use")
)

// UserRepo is the credential store. GetByEmail is the only read that
// includes the password digest; every other read returns the non-secret
// projection.
type UserRepo interface {
	Create(ctx context.Context, user *User) error

	// GetByEmail loads a user with the password digest included, for
	// credential verification only.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByID loads the non-secret projection of a user.
	GetByID(ctx context.Context, id string) (*User, error)

	// IDsByEmail lists ids of users recorded under an email address.
	IDsByEmail(ctx context.Context, email string) ([]string, error)

	SetStatus(ctx context.Context, id string, status StatusType) error
}
