package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iger-backend-go/internal/services"
)

func testTokens() services.TokenService {
	return services.TokenService{
		Secret:     []byte("test-secret"),
		Issuer:     "iger-test",
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
	}
}

func authedRequest(t *testing.T, tokens services.TokenService, role string) *http.Request {
	t.Helper()
	signed, _, err := tokens.CreateAccessToken("user-1", "ana@iger.edu", role, "Ana")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	return req
}

func TestWithAuthPopulatesContext(t *testing.T) {
	tokens := testTokens()
	var gotUserID, gotRole string
	handler := WithAuth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = CurrentUserID(r)
		gotRole = CurrentRole(r)
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, tokens, services.RoleAdmin))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", gotUserID)
	assert.Equal(t, services.RoleAdmin, gotRole)
}

func TestWithAuthRejectsMissingHeader(t *testing.T) {
	handler := WithAuth(testTokens())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWithAuthRejectsRefreshToken(t *testing.T) {
	tokens := testTokens()
	refresh, err := tokens.CreateRefreshToken("user-1")
	require.NoError(t, err)

	handler := WithAuth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWithAuthRejectsGarbageToken(t *testing.T) {
	handler := WithAuth(testTokens())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAnyRole(t *testing.T) {
	tokens := testTokens()
	chain := func(roles ...string) http.Handler {
		return WithAuth(tokens)(RequireAnyRole(roles...)(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })))
	}

	rec := httptest.NewRecorder()
	chain(services.RoleAdmin).ServeHTTP(rec, authedRequest(t, tokens, services.RoleAdmin))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	chain(services.RoleAdmin).ServeHTTP(rec, authedRequest(t, tokens, services.RoleStudent))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	chain(services.RoleTeacher, services.RoleAdmin).ServeHTTP(rec, authedRequest(t, tokens, services.RoleTeacher))
	assert.Equal(t, http.StatusOK, rec.Code)
}
