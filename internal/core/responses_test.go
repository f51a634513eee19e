// AngelaMos | 2026
// responses_test.go

package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()

	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestJSONError_AppError(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	JSONError(rec, UnauthorizedError("missing authorization token"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	body := decodeError(t, rec)
	assert.False(t, body.Success)
	assert.Equal(t, "UNAUTHORIZED", body.Error.Code)
	assert.Equal(t, "missing authorization token", body.Error.Message)
}

func TestJSONError_WrappedAppError(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("handler: %w", NotFoundError("usuario"))

	rec := httptest.NewRecorder()
	JSONError(rec, wrapped)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, rec).Error.Code)
}

func TestJSONError_UnknownErrorBecomesInternal(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	JSONError(rec, errors.New("connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	body := decodeError(t, rec)
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
	assert.NotContains(t, body.Error.Message, "connection refused")
}

func TestInternalServerError_HidesCause(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	InternalServerError(rec, errors.New("pq: relation does not exist"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "relation")
}

func TestNoContent(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	NoContent(rec)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestAppError_Unwrap(t *testing.T) {
	t.Parallel()

	err := ValidationError("email is required")

	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.True(t, IsAppError(err))
	assert.False(t, IsAppError(errors.New("plain")))
}
