package usecase

import "errors"

var (
	ErrPersistence        = errors.New("user use case: persistence error")
	ErrNotFound           = errors.New("user use case: user not found")
	ErrEmailTaken         = errors.New("user use case: email already registered")
	ErrInvalidCredentials = errors.New("user use case: invalid credentials")
)
