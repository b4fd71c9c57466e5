package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrDuplicateEmail is returned by Create when the email is taken.
var ErrDuplicateEmail = errors.New("email already registered")

type Repository interface {
	Create(ctx context.Context, a *Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}
