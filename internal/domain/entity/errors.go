package entity

import "errors"

// Failure kinds surfaced to callers. Every domain error wraps exactly one of them
// so the API layer can tell validation, conflict, not-found, forbidden and
// unauthorized outcomes apart with errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

var (
	ErrInvalidEmail    = kindErr(ErrValidation, "email must contain @")
	ErrWeakPassword    = kindErr(ErrValidation, "password must be at least 8 characters with two lowercase, two uppercase letters and a symbol")
	ErrInvalidRole     = kindErr(ErrValidation, "role must be one of custom, manager, admin")
	ErrInvalidUsername = kindErr(ErrValidation, "username is required")
	ErrInvalidTitle    = kindErr(ErrValidation, "title is required")
	ErrEmptyComment    = kindErr(ErrValidation, "comment text is required")
	ErrEmptyUpdate     = kindErr(ErrValidation, "nothing to update")

	ErrUserExists     = kindErr(ErrConflict, "user exists, try again")
	ErrPostTitleTaken = kindErr(ErrConflict, "post with such title already exists")

	ErrUserNotFound      = kindErr(ErrNotFound, "user does not exist")
	ErrPostNotFound      = kindErr(ErrNotFound, "post was not found")
	ErrCommentNotFound   = kindErr(ErrNotFound, "comment was not found")
	ErrWatchlistNotFound = kindErr(ErrNotFound, "watchlist was not found")

	ErrInvalidCredentials = kindErr(ErrUnauthorized, "incorrect email or password")
	ErrWrongPassword      = kindErr(ErrValidation, "password is wrong")
)

type domainError struct {
	kind error
	msg  string
}

func kindErr(kind error, msg string) error { return &domainError{kind: kind, msg: msg} }

func (e *domainError) Error() string { return e.msg }
func (e *domainError) Unwrap() error { return e.kind }

// Forbidden builds a forbidden error carrying a caller-facing reason.
func Forbidden(reason string) error { return kindErr(ErrForbidden, reason) }
