package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmptyFile          = errors.New("uploaded file is empty")
	ErrInvalidFileType    = errors.New("invalid file type")
	ErrForbidden          = errors.New("forbidden")
	ErrMalformedToken     = errors.New("malformed token")
)
