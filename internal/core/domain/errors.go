package domain

import "errors"

// Error kinds. Every user-facing domain error unwraps to exactly one of these,
// which is what the HTTP layer maps to a status code.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
)

// Error is a domain failure with a message that is safe to show to clients.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Credential store and signup.
var (
	ErrInvalidEmail       = newError(ErrInvalidInput, "invalid email format")
	ErrPasswordTooShort   = newError(ErrInvalidInput, "password must be at least 6 characters long")
	ErrPasswordTooLong    = newError(ErrInvalidInput, "password must be at most 72 bytes long")
	ErrMissingFields      = newError(ErrInvalidInput, "username, fullName, email and password are required")
	ErrUsernameTaken      = newError(ErrConflict, "username is already taken")
	ErrEmailTaken         = newError(ErrConflict, "email is already taken")
	ErrInvalidCredentials = newError(ErrInvalidInput, "invalid username or password")
)

// Authorization guard.
var (
	ErrNoToken      = newError(ErrUnauthorized, "no token provided")
	ErrInvalidToken = newError(ErrUnauthorized, "invalid token")
	ErrSessionUser  = newError(ErrUnauthorized, "user not found")
)

// Collaborators.
var (
	ErrUserNotFound       = newError(ErrNotFound, "user not found")
	ErrPostNotFound       = newError(ErrNotFound, "post not found")
	ErrEmptyPost          = newError(ErrInvalidInput, "post must have text or image")
	ErrEmptyComment       = newError(ErrInvalidInput, "text field is required")
	ErrNotPostOwner       = newError(ErrForbidden, "you are not authorized to delete the post")
	ErrSelfFollow         = newError(ErrInvalidInput, "you can't follow/unfollow yourself")
	ErrPasswordPairNeeded = newError(ErrInvalidInput, "please provide both current password and new password")
	ErrWrongPassword      = newError(ErrInvalidInput, "current password is incorrect")
	ErrEmptyUsername      = newError(ErrInvalidInput, "username cannot be empty")
	ErrInvalidID          = newError(ErrInvalidInput, "invalid id")
)
