package auth

import "errors"

// Common authentication errors.
var (
	// ErrInvalidToken is returned when a token is malformed, has an invalid
	// signature, or carries invalid claims.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when a token's expiry time has passed.
	ErrExpiredToken = errors.New("token expired")

	// ErrTokenNotYetValid is returned when a token's not-before time is in
	// the future.
	ErrTokenNotYetValid = errors.New("token not yet valid")

	// ErrInvalidCredentials is returned when an email/password pair does
	// not match a registered user.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
