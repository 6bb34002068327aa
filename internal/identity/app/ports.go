package app

import (
	"context"
	"time"

	"github.com/seyifunmi/clinicshop/internal/identity/domain"
)

// UserRepo persists accounts. Create must rely on storage-level uniqueness
// for the email column and surface a duplicate as ErrEmailTaken.
type UserRepo interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	Get(ctx context.Context, id string) (domain.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// TokenStore holds single-use password-reset tokens with a bounded
// lifetime. Consume must atomically return and invalidate the token so a
// reset link can never be replayed.
type TokenStore interface {
	Save(ctx context.Context, token, userID string, ttl time.Duration) error
	Consume(ctx context.Context, token string) (string, error)
}

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
