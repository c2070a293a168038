package util

import "errors"

var (
	ErrNotFound           = errors.New("resource not found")
	ErrDuplicate          = errors.New("resource already exists")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPermissionDenied   = errors.New("permission denied")
)
