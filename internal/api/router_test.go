package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	mock_handlers "github.com/jask/finsight/internal/api/handlers/mocks"
	"github.com/jask/finsight/internal/apperr"
	"github.com/jask/finsight/internal/config"
	"github.com/jask/finsight/internal/service"
)

func TestRouterGatesPrivateRoutes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	a := mock_handlers.NewMockAuthenticator(ctrl)
	diag := mock_handlers.NewMockDiagnostics(ctrl)
	router := NewRouter(Services{Auth: a, Diagnostics: diag}, config.ServerConfig{}, zerolog.Nop())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	a.EXPECT().Authenticate(gomock.Any(), "").Return("", apperr.Unauthenticated(""))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/debug/transactions/count", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	a.EXPECT().Authenticate(gomock.Any(), "tok").Return("u1", nil)
	diag.EXPECT().TransactionCounts(gomock.Any(), "u1").Return(service.TransactionCounts{AllUsers: 7, ForUser: 3}, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/debug/transactions/count", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"all_users":7`)
}

func TestRouterMethodPatterns(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router := NewRouter(Services{Auth: mock_handlers.NewMockAuthenticator(ctrl)}, config.ServerConfig{}, zerolog.Nop())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/health", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
