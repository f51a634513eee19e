// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/usuario-api/internal/core"
)

type stubVerifier struct {
	claims *AccessTokenClaims
	err    error
}

func (s *stubVerifier) VerifyAccessToken(
	ctx context.Context,
	token string,
) (*AccessTokenClaims, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.claims, nil
}

func decodeErrorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error.Code
}

func TestExtractToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"no header", "", ""},
		{"bearer", "Bearer abc123", "abc123"},
		{"lowercase scheme", "bearer abc123", "abc123"},
		{"wrong scheme", "Basic abc123", ""},
		{"scheme only", "Bearer", ""},
		{"padded token", "Bearer   abc123", "abc123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			assert.Equal(t, tt.want, ExtractToken(req))
		})
	}
}

func TestAuthenticator_MissingToken(t *testing.T) {
	t.Parallel()

	handler := Authenticator(&stubVerifier{})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run without a token")
		}),
	)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", decodeErrorCode(t, rec))
}

func TestAuthenticator_ExpiredToken(t *testing.T) {
	t.Parallel()

	verifier := &stubVerifier{
		err: fmt.Errorf("verify token: %w", core.ErrTokenExpired),
	}
	handler := Authenticator(verifier)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run with an expired token")
		}),
	)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer stale")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "TOKEN_EXPIRED", decodeErrorCode(t, rec))
}

func TestAuthenticator_InvalidToken(t *testing.T) {
	t.Parallel()

	verifier := &stubVerifier{
		err: fmt.Errorf("verify token: %w", core.ErrTokenInvalid),
	}
	handler := Authenticator(verifier)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
	)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "TOKEN_INVALID", decodeErrorCode(t, rec))
}

func TestAuthenticator_ClaimsReachContext(t *testing.T) {
	t.Parallel()

	verifier := &stubVerifier{
		claims: &AccessTokenClaims{UserID: 42, Nivel: 9},
	}

	var gotUserID int64
	var gotNivel int
	handler := Authenticator(verifier)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUserID = GetUserID(r.Context())
			gotNivel = GetNivel(r.Context())
		}),
	)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer good")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), gotUserID)
	assert.Equal(t, 9, gotNivel)
}

func TestRequireNivel(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	makeReq := func(userID int64, nivel int) *http.Request {
		req := httptest.NewRequest("GET", "/admin", nil)
		ctx := req.Context()
		if userID != 0 {
			ctx = context.WithValue(ctx, UserIDKey, userID)
			ctx = context.WithValue(ctx, NivelKey, nivel)
		}
		return req.WithContext(ctx)
	}

	t.Run("unauthenticated", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		RequireNivel(9)(next).ServeHTTP(rec, makeReq(0, 0))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("below minimum", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		RequireNivel(9)(next).ServeHTTP(rec, makeReq(1, 3))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "FORBIDDEN", decodeErrorCode(t, rec))
	})

	t.Run("at minimum", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		RequireNivel(9)(next).ServeHTTP(rec, makeReq(1, 9))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
