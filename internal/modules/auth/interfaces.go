package auth

import (
	"context"

	"rentanything/internal/domain"
)

// UserRepository holds only the methods the auth service uses.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, u *domain.User) error
}

type TokenIssuer interface {
	GenerateToken(userID, email string) (string, error)
}
