package apperrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	e := New(CodeNotFound, "payment", "Transaction not found", http.StatusNotFound)
	assert.Equal(t, "[payment:NOT_FOUND] Transaction not found", e.Error())

	wrapped := Wrap(errors.New("row missing"), CodeNotFound, "payment", "Transaction not found", http.StatusNotFound)
	assert.Equal(t, "[payment:NOT_FOUND] Transaction not found (row missing)", wrapped.Error())
}

func TestWithDetailsKeepsSentinelImmutable(t *testing.T) {
	withDetails := ErrPaymentAlreadyProcessed.WithDetails(map[string]string{"order_id": "ord-1"})

	assert.NotSame(t, ErrPaymentAlreadyProcessed, withDetails)
	assert.Nil(t, ErrPaymentAlreadyProcessed.Details, "sentinel must stay untouched")
	assert.NotNil(t, withDetails.Details)
	assert.Equal(t, ErrPaymentAlreadyProcessed.Code, withDetails.Code)
	assert.Equal(t, ErrPaymentAlreadyProcessed.HTTPCode, withDetails.HTTPCode)
}

func TestWithErrorKeepsSentinelImmutable(t *testing.T) {
	cause := errors.New("connection refused")
	withErr := ErrCheckAPIUnavailable.WithError(cause)

	assert.Nil(t, ErrCheckAPIUnavailable.Err)
	assert.ErrorIs(t, withErr, cause)
}

func TestMarshalJSONHidesInternals(t *testing.T) {
	e := Wrap(errors.New("pq: duplicate key"), CodeConflict, "payment", "Payment already processed", http.StatusConflict)
	e = e.WithDetails(map[string]string{"order_id": "ord-1"})

	b, err := json.Marshal(e)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, "Payment already processed", out["message"])
	assert.Equal(t, "payment", out["domain"])
	assert.Contains(t, out, "details")
	assert.NotContains(t, string(b), "duplicate key")
	assert.NotContains(t, out, "HTTPCode")
}

func TestUnwrapChain(t *testing.T) {
	cause := errors.New("root cause")
	e := InternalError(fmt.Errorf("query failed: %w", cause))

	assert.True(t, Is(e, cause))

	var appErr *AppError
	require.True(t, As(e, &appErr))
	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPCode)
}

func TestFactoryHTTPCodes(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, NewUnauthorizedError("no").HTTPCode)
	assert.Equal(t, http.StatusForbidden, NewForbiddenError("no").HTTPCode)
	assert.Equal(t, http.StatusBadRequest, NewBadRequestError("no").HTTPCode)
	assert.Equal(t, http.StatusNotFound, NewNotFoundError("user", "User not found").HTTPCode)
	assert.Equal(t, http.StatusBadRequest, ValidationError(nil).HTTPCode)
}
