package auth

import (
	"context"
	"strings"
	"time"

	"rentanything/internal/domain"
	"rentanything/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// Service contains the business logic for registration, login and profiles.
type Service struct {
	users      UserRepository
	tokens     TokenIssuer
	tokenTTL   time.Duration
	bcryptCost int
}

func NewService(users UserRepository, tokens TokenIssuer, tokenTTL time.Duration, bcryptCost int) *Service {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		users:      users,
		tokens:     tokens,
		tokenTTL:   tokenTTL,
		bcryptCost: bcryptCost,
	}
}

// maxPasswordBytes is the longest input bcrypt accepts. Binding counts characters,
// so multi-byte passwords can pass it and still be too long here.
const maxPasswordBytes = 72

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	if len(req.Password) > maxPasswordBytes {
		return nil, ErrPasswordTooLong
	}
	email := normalizeEmail(req.Email)
	if err := s.validateEmailUnique(ctx, email); err != nil {
		return nil, err
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if repository.IsUniqueViolation(err) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return &LoginResult{
		Token:     token,
		ExpiresIn: int64(s.tokenTTL / time.Second),
		User:      user,
	}, nil
}

func (s *Service) GetCurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Image != nil {
		user.Image = strings.TrimSpace(*req.Image)
	}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email != user.Email {
			if err := s.validateEmailUnique(ctx, email); err != nil {
				return nil, err
			}
			user.Email = email
		}
	}

	if req.NewPassword != "" {
		if len(req.NewPassword) > maxPasswordBytes {
			return nil, ErrPasswordTooLong
		}
		if req.CurrentPassword == "" {
			return nil, ErrCurrentPasswordMissing
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
			return nil, ErrCurrentPasswordWrong
		}
		hash, err := s.hashPassword(req.NewPassword)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		switch {
		case repository.IsUniqueViolation(err):
			return nil, ErrEmailAlreadyExists
		case repository.IsNotFound(err):
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *Service) validateEmailUnique(ctx context.Context, email string) error {
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return ErrEmailAlreadyExists
	}
	return nil
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
