package commonerrors

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCategory string

const (
	CategoryValidation   ErrorCategory = "VALIDATION"
	CategoryUnauthorized ErrorCategory = "UNAUTHORIZED"
	CategoryForbidden    ErrorCategory = "FORBIDDEN"
	CategoryNotFound     ErrorCategory = "NOT_FOUND"
	CategoryConflict     ErrorCategory = "CONFLICT"
	CategoryInternal     ErrorCategory = "INTERNAL"
)

type DomainError interface {
	error
	Code() string
	Category() ErrorCategory
	HTTPStatus() int
	Message() string
	Unwrap() error
	WithCause(cause error) DomainError
}

type domainError struct {
	code     string
	category ErrorCategory
	status   int
	message  string
	cause    error
}

func (e *domainError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *domainError) Code() string {
	return e.code
}

func (e *domainError) Category() ErrorCategory {
	return e.category
}

func (e *domainError) HTTPStatus() int {
	return e.status
}

func (e *domainError) Message() string {
	return e.message
}

func (e *domainError) Unwrap() error {
	return e.cause
}

func (e *domainError) WithCause(cause error) DomainError {
	return &domainError{
		code:     e.code,
		category: e.category,
		status:   e.status,
		message:  e.message,
		cause:    cause,
	}
}

// Is lets errors.Is match a sentinel against a copy carrying a cause.
func (e *domainError) Is(target error) bool {
	other, ok := target.(*domainError)
	if !ok {
		return false
	}
	return e.code == other.code
}

func NewDomainError(code string, category ErrorCategory, status int, message string) DomainError {
	return &domainError{
		code:     code,
		category: category,
		status:   status,
		message:  message,
	}
}

func AsDomainError(err error) (DomainError, bool) {
	var de DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

var (
	ErrMissingAuthorization = NewDomainError(
		"MISSING_AUTHORIZATION",
		CategoryUnauthorized,
		http.StatusUnauthorized,
		"authorization header missing or invalid",
	)

	ErrInvalidToken = NewDomainError(
		"INVALID_TOKEN",
		CategoryUnauthorized,
		http.StatusUnauthorized,
		"token is invalid or expired",
	)

	ErrMissingTokenClaims = NewDomainError(
		"MISSING_TOKEN_CLAIMS",
		CategoryUnauthorized,
		http.StatusUnauthorized,
		"token is invalid",
	)

	ErrTokenUserNotFound = NewDomainError(
		"TOKEN_USER_NOT_FOUND",
		CategoryUnauthorized,
		http.StatusUnauthorized,
		"user not found",
	)

	ErrInvalidCredentials = NewDomainError(
		"INVALID_CREDENTIALS",
		CategoryUnauthorized,
		http.StatusUnauthorized,
		"invalid username or password",
	)

	// The original API reports a duplicate username as a plain 400, not 409.
	ErrUsernameTaken = NewDomainError(
		"USERNAME_TAKEN",
		CategoryConflict,
		http.StatusBadRequest,
		"username must be unique",
	)

	ErrUserNotFound = NewDomainError(
		"USER_NOT_FOUND",
		CategoryNotFound,
		http.StatusNotFound,
		"user not found",
	)

	ErrBlogNotFound = NewDomainError(
		"BLOG_NOT_FOUND",
		CategoryNotFound,
		http.StatusNotFound,
		"blog not found",
	)

	ErrNotBlogOwner = NewDomainError(
		"NOT_BLOG_OWNER",
		CategoryForbidden,
		http.StatusForbidden,
		"not authorized to delete this blog",
	)

	ErrMalformedID = NewDomainError(
		"MALFORMED_ID",
		CategoryValidation,
		http.StatusBadRequest,
		"malformatted id",
	)

	ErrTitleRequired = NewDomainError(
		"TITLE_REQUIRED",
		CategoryValidation,
		http.StatusBadRequest,
		"title is required",
	)

	ErrURLRequired = NewDomainError(
		"URL_REQUIRED",
		CategoryValidation,
		http.StatusBadRequest,
		"url is required",
	)

	ErrInvalidLikes = NewDomainError(
		"INVALID_LIKES",
		CategoryValidation,
		http.StatusBadRequest,
		"likes must be a non-negative integer",
	)

	ErrUserFieldsRequired = NewDomainError(
		"USER_FIELDS_REQUIRED",
		CategoryValidation,
		http.StatusBadRequest,
		"username, password, and name are required",
	)

	ErrUserFieldsTooShort = NewDomainError(
		"USER_FIELDS_TOO_SHORT",
		CategoryValidation,
		http.StatusBadRequest,
		"username and password must be at least 3 characters long",
	)

	ErrInternalError = NewDomainError(
		"INTERNAL_ERROR",
		CategoryInternal,
		http.StatusInternalServerError,
		"internal server error",
	)
)
