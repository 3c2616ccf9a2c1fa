package auth

import "errors"

var (
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrEmailAlreadyExists     = errors.New("email already exists")
	ErrUserNotFound           = errors.New("user not found")
	ErrCurrentPasswordMissing = errors.New("current password is required")
	ErrCurrentPasswordWrong   = errors.New("current password is incorrect")
	ErrPasswordTooLong        = errors.New("password exceeds 72 bytes")
)
