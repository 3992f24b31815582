package util_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/delivery-auth/pkg/util"
)

func TestToDomainErrorPassesThroughDomainErrors(t *testing.T) {
	original := util.NewForbidden("Access denied")
	mapped := util.ToDomainError(fmt.Errorf("wrapped: %w", original))

	assert.Equal(t, "FORBIDDEN", mapped.Code)
	assert.Equal(t, http.StatusForbidden, mapped.HTTPStatus)
}

func TestToDomainErrorUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "users_email_key",
		Detail:         "Key (email)=(dup@example.com) already exists.",
	}

	mapped := util.ToDomainError(pgErr)
	assert.Equal(t, "CONFLICT", mapped.Code)
	assert.Equal(t, http.StatusConflict, mapped.HTTPStatus)
	assert.Equal(t, "email already exists", mapped.Message)
	assert.True(t, mapped.Severe)
}

func TestToDomainErrorUniqueViolationUnparseableDetail(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", Detail: "something opaque"}

	mapped := util.ToDomainError(pgErr)
	assert.Equal(t, http.StatusConflict, mapped.HTTPStatus)
	assert.Equal(t, "Duplicate entry found", mapped.Message)
}

func TestToDomainErrorForeignKeyViolation(t *testing.T) {
	mapped := util.ToDomainError(&pgconn.PgError{Code: "23503"})
	assert.Equal(t, http.StatusBadRequest, mapped.HTTPStatus)
	assert.Equal(t, "Referenced record does not exist", mapped.Message)
	assert.True(t, mapped.Severe)
}

func TestToDomainErrorNotNullViolation(t *testing.T) {
	mapped := util.ToDomainError(&pgconn.PgError{Code: "23502", ColumnName: "email"})
	assert.Equal(t, http.StatusBadRequest, mapped.HTTPStatus)
	assert.Equal(t, "Required field is missing", mapped.Message)
	assert.True(t, mapped.Severe)
}

func TestToDomainErrorNoRows(t *testing.T) {
	mapped := util.ToDomainError(pgx.ErrNoRows)
	assert.Equal(t, http.StatusNotFound, mapped.HTTPStatus)
}

func TestToDomainErrorDeadline(t *testing.T) {
	mapped := util.ToDomainError(fmt.Errorf("lookup: %w", context.DeadlineExceeded))
	assert.Equal(t, "DIRECTORY_UNAVAILABLE", mapped.Code)
	assert.Equal(t, http.StatusServiceUnavailable, mapped.HTTPStatus)
}

func TestToDomainErrorUnknown(t *testing.T) {
	mapped := util.ToDomainError(errors.New("boom"))
	assert.Equal(t, "INTERNAL_ERROR", mapped.Code)
	assert.Equal(t, http.StatusInternalServerError, mapped.HTTPStatus)
	assert.Equal(t, "Internal server error", mapped.Message)
}

func TestValidationErrorCarriesMessageList(t *testing.T) {
	err := util.NewValidationError("email is required", "password is required")
	mapped := util.ToDomainError(err)

	assert.Equal(t, http.StatusBadRequest, mapped.HTTPStatus)
	assert.Len(t, mapped.Messages, 2)
	assert.False(t, mapped.Severe)
}
