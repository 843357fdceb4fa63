package auth

import "errors"

var (
	// ErrInvalidCredentials covers both unknown username and wrong
	// password; callers must not be able to tell which one it was.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("not authenticated")
)
