package util

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error codes translated into the domain taxonomy.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
)

var uniqueDetailPattern = regexp.MustCompile(`Key \((\w+)\)`)

// DomainError standardizes application errors. Severe marks failures that
// log at error level regardless of HTTP status, such as database constraint
// violations surfacing as 4xx.
type DomainError struct {
	Code       string
	Message    string
	Messages   []string
	HTTPStatus int
	Details    map[string]any
	Err        error
	Severe     bool
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// NewValidationError reports per-field validation failures as a message list.
func NewValidationError(messages ...string) error {
	message := "Validation failed"
	if len(messages) == 1 {
		message = messages[0]
	}
	return &DomainError{
		Code:       "VALIDATION_FAILED",
		Message:    message,
		Messages:   messages,
		HTTPStatus: http.StatusBadRequest,
	}
}

func NewNotFound(resource string) error {
	return NewDomainError("NOT_FOUND", fmt.Sprintf("%s not found", resource), http.StatusNotFound, nil)
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
}

// NewDirectoryUnavailable reports a user directory lookup that timed out or
// failed to reach storage. Deliberately distinct from UNAUTHORIZED.
func NewDirectoryUnavailable(err error) error {
	return &DomainError{
		Code:       "DIRECTORY_UNAVAILABLE",
		Message:    "User directory unavailable",
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError. This is the single
// classification point: constraint violations, missing rows and lookup
// timeouts all pick up their wire status here.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fromPostgres(pgErr)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return NewNotFound("resource").(*DomainError)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewDirectoryUnavailable(err).(*DomainError)
	}

	return NewInternalError(err).(*DomainError)
}

// fromPostgres maps constraint violations onto the taxonomy. Unique
// violations surface the offending column when the driver detail names it.
func fromPostgres(pgErr *pgconn.PgError) *DomainError {
	switch pgErr.Code {
	case pgUniqueViolation:
		message := "Duplicate entry found"
		if match := uniqueDetailPattern.FindStringSubmatch(pgErr.Detail); match != nil {
			message = fmt.Sprintf("%s already exists", match[1])
		}
		return &DomainError{
			Code:       "CONFLICT",
			Message:    message,
			HTTPStatus: http.StatusConflict,
			Details:    map[string]any{"constraint": pgErr.ConstraintName},
			Err:        pgErr,
			Severe:     true,
		}
	case pgForeignKeyViolation:
		return &DomainError{
			Code:       "FOREIGN_KEY_VIOLATION",
			Message:    "Referenced record does not exist",
			HTTPStatus: http.StatusBadRequest,
			Details:    map[string]any{"constraint": pgErr.ConstraintName},
			Err:        pgErr,
			Severe:     true,
		}
	case pgNotNullViolation:
		return &DomainError{
			Code:       "NOT_NULL_VIOLATION",
			Message:    "Required field is missing",
			HTTPStatus: http.StatusBadRequest,
			Details:    map[string]any{"column": pgErr.ColumnName},
			Err:        pgErr,
			Severe:     true,
		}
	}
	return NewInternalError(pgErr).(*DomainError)
}

// MapError converts generic errors to DomainError.
func MapError(err error) error {
	return ToDomainError(err)
}
