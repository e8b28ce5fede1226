package service

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidTable       = errors.New("invalid table")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
