package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jask/finsight/internal/apperr"
	"github.com/jask/finsight/internal/auth"
	"github.com/jask/finsight/internal/logger"
)

type tokenFunc func(ctx context.Context, token string) (string, error)

func (f tokenFunc) Authenticate(ctx context.Context, token string) (string, error) {
	return f(ctx, token)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAuthResolvesBearerAndCookie(t *testing.T) {
	t.Parallel()

	a := tokenFunc(func(_ context.Context, token string) (string, error) {
		if token == "good" {
			return "user-1", nil
		}
		return "", apperr.Unauthenticated("")
	})
	var seen string
	h := Auth(a)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/debug/consistency", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "user-1", seen)

	req = httptest.NewRequest(http.MethodGet, "/api/debug/consistency", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "good"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/debug/consistency", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, map[string]string{"error": "Unauthorized", "kind": "unauthenticated"}, decodeBody(t, rec))
}

func TestWriteAppError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{apperr.NotFound("source file %s not found", "f1"), http.StatusNotFound, "source file f1 not found"},
		{apperr.Validation("bad month"), http.StatusBadRequest, "bad month"},
		{apperr.Storage("op", errors.New("database is locked")), http.StatusInternalServerError, "database is locked"},
		{errors.New("boom"), http.StatusInternalServerError, "boom"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		WriteAppError(rec, tc.err)
		require.Equal(t, tc.status, rec.Code)
		require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		require.Equal(t, tc.msg, decodeBody(t, rec)["error"])
	}
}

func TestRecoveryAndRequestID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := zerolog.New(&buf)
	h := Recovery(log)(RequestID(Logger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NotEmpty(t, RequestIDFrom(r.Context()))
		l := logger.FromContext(r.Context())
		l.Info().Msg("inside")
		panic("kaboom")
	}))))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
	require.Contains(t, buf.String(), `"request_id":"req-42"`)
	require.Contains(t, buf.String(), "Panic recovered")
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()

	h := CORS("https://app.example.com")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("preflight must not reach the handler")
	}))
	req := httptest.NewRequest(http.MethodOptions, "/api/dashboard", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}
