package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"rentanything/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	if args.Error(0) == nil && u.ID == "" {
		u.ID = "user-1"
	}
	return args.Error(0)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

type mockTokens struct {
	mock.Mock
}

func (m *mockTokens) GenerateToken(userID, email string) (string, error) {
	args := m.Called(userID, email)
	return args.String(0), args.Error(1)
}

func newTestService() (*Service, *mockUserRepo, *mockTokens) {
	users := new(mockUserRepo)
	tokens := new(mockTokens)
	return NewService(users, tokens, 24*time.Hour, bcrypt.MinCost), users, tokens
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestService_Register_Success(t *testing.T) {
	svc, users, _ := newTestService()
	users.On("ExistsByEmail", mock.Anything, "ann@example.com").Return(false, nil)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "ann@example.com" &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret1")) == nil
	})).Return(nil)

	user, err := svc.Register(context.Background(), RegisterRequest{
		Name:     " Ann ",
		Email:    "  Ann@Example.com ",
		Password: "secret1",
	})

	require.NoError(t, err)
	assert.Equal(t, "Ann", user.Name)
	assert.Empty(t, user.PasswordHash)
	users.AssertExpectations(t)
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	t.Run("pre-check", func(t *testing.T) {
		svc, users, _ := newTestService()
		users.On("ExistsByEmail", mock.Anything, "ann@example.com").Return(true, nil)

		_, err := svc.Register(context.Background(), RegisterRequest{Name: "Ann", Email: "ann@example.com", Password: "secret1"})

		assert.ErrorIs(t, err, ErrEmailAlreadyExists)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unique violation on insert", func(t *testing.T) {
		svc, users, _ := newTestService()
		users.On("ExistsByEmail", mock.Anything, "ann@example.com").Return(false, nil)
		users.On("Create", mock.Anything, mock.Anything).Return(gorm.ErrDuplicatedKey)

		_, err := svc.Register(context.Background(), RegisterRequest{Name: "Ann", Email: "ann@example.com", Password: "secret1"})
		assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	})
}

func TestService_Register_PasswordTooLong(t *testing.T) {
	svc, users, _ := newTestService()

	// 40 characters pass binding but take 80 bytes
	_, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Ann",
		Email:    "ann@example.com",
		Password: strings.Repeat("é", 40),
	})

	assert.ErrorIs(t, err, ErrPasswordTooLong)
	users.AssertNotCalled(t, "ExistsByEmail", mock.Anything, mock.Anything)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Login(t *testing.T) {
	stored := func() *domain.User {
		return &domain.User{ID: "user-1", Email: "ann@example.com", PasswordHash: hashed(t, "secret1")}
	}

	t.Run("success", func(t *testing.T) {
		svc, users, tokens := newTestService()
		users.On("GetByEmail", mock.Anything, "ann@example.com").Return(stored(), nil)
		tokens.On("GenerateToken", "user-1", "ann@example.com").Return("signed", nil)

		res, err := svc.Login(context.Background(), LoginRequest{Email: "ANN@example.com", Password: "secret1"})

		require.NoError(t, err)
		assert.Equal(t, "signed", res.Token)
		assert.EqualValues(t, 86400, res.ExpiresIn)
		assert.Empty(t, res.User.PasswordHash)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, users, tokens := newTestService()
		users.On("GetByEmail", mock.Anything, "ann@example.com").Return(stored(), nil)

		_, err := svc.Login(context.Background(), LoginRequest{Email: "ann@example.com", Password: "nope"})

		assert.ErrorIs(t, err, ErrInvalidCredentials)
		tokens.AssertNotCalled(t, "GenerateToken", mock.Anything, mock.Anything)
	})

	t.Run("unknown email", func(t *testing.T) {
		svc, users, _ := newTestService()
		users.On("GetByEmail", mock.Anything, "who@example.com").Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.Login(context.Background(), LoginRequest{Email: "who@example.com", Password: "secret1"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("repository failure", func(t *testing.T) {
		svc, users, _ := newTestService()
		boom := errors.New("db down")
		users.On("GetByEmail", mock.Anything, "ann@example.com").Return(nil, boom)

		_, err := svc.Login(context.Background(), LoginRequest{Email: "ann@example.com", Password: "secret1"})
		assert.ErrorIs(t, err, boom)
	})
}

func TestService_UpdateProfile(t *testing.T) {
	current := func() *domain.User {
		return &domain.User{ID: "user-1", Name: "Ann", Email: "ann@example.com", PasswordHash: hashed(t, "secret1")}
	}
	strp := func(s string) *string { return &s }

	t.Run("name and email", func(t *testing.T) {
		svc, users, _ := newTestService()
		users.On("GetByID", mock.Anything, "user-1").Return(current(), nil)
		users.On("ExistsByEmail", mock.Anything, "anna@example.com").Return(false, nil)
		users.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
			return u.Name == "Anna" && u.Email == "anna@example.com"
		})).Return(nil)

		u, err := svc.UpdateProfile(context.Background(), "user-1", UpdateProfileRequest{
			Name:  strp("Anna"),
			Email: strp("Anna@example.com"),
		})

		require.NoError(t, err)
		assert.Equal(t, "anna@example.com", u.Email)
	})

	t.Run("same email skips uniqueness check", func(t *testing.T) {
		svc, users, _ := newTestService()
		users.On("GetByID", mock.Anything, "user-1").Return(current(), nil)
		users.On("Update", mock.Anything, mock.Anything).Return(nil)

		_, err := svc.UpdateProfile(context.Background(), "user-1", UpdateProfileRequest{Email: strp("ann@example.com")})

		require.NoError(t, err)
		users.AssertNotCalled(t, "ExistsByEmail", mock.Anything, mock.Anything)
	})

	t.Run("email taken", func(t *testing.T) {
		svc, users, _ := newTestService()
		users.On("GetByID", mock.Anything, "user-1").Return(current(), nil)
		users.On("ExistsByEmail", mock.Anything, "bob@example.com").Return(true, nil)

		_, err := svc.UpdateProfile(context.Background(), "user-1", UpdateProfileRequest{Email: strp("bob@example.com")})
		assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	})

	t.Run("password change needs current password", func(t *testing.T) {
		svc, users, _ := newTestService()
		users.On("GetByID", mock.Anything, "user-1").Return(current(), nil)

		_, err := svc.UpdateProfile(context.Background(), "user-1", UpdateProfileRequest{NewPassword: "newsecret"})
		assert.ErrorIs(t, err, ErrCurrentPasswordMissing)
	})

	t.Run("wrong current password", func(t *testing.T) {
		svc, users, _ := newTestService()
		users.On("GetByID", mock.Anything, "user-1").Return(current(), nil)

		_, err := svc.UpdateProfile(context.Background(), "user-1", UpdateProfileRequest{
			CurrentPassword: "guess",
			NewPassword:     "newsecret",
		})
		assert.ErrorIs(t, err, ErrCurrentPasswordWrong)
		users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("new password over 72 bytes", func(t *testing.T) {
		svc, users, _ := newTestService()
		users.On("GetByID", mock.Anything, "user-1").Return(current(), nil)

		_, err := svc.UpdateProfile(context.Background(), "user-1", UpdateProfileRequest{
			CurrentPassword: "secret1",
			NewPassword:     strings.Repeat("ü", 37),
		})
		assert.ErrorIs(t, err, ErrPasswordTooLong)
		users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("password changed", func(t *testing.T) {
		svc, users, _ := newTestService()
		users.On("GetByID", mock.Anything, "user-1").Return(current(), nil)
		users.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
			return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("newsecret")) == nil
		})).Return(nil)

		u, err := svc.UpdateProfile(context.Background(), "user-1", UpdateProfileRequest{
			CurrentPassword: "secret1",
			NewPassword:     "newsecret",
		})

		require.NoError(t, err)
		assert.Empty(t, u.PasswordHash)
		users.AssertExpectations(t)
	})

	t.Run("missing user", func(t *testing.T) {
		svc, users, _ := newTestService()
		users.On("GetByID", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.UpdateProfile(context.Background(), "ghost", UpdateProfileRequest{})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
