package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"fitness-backend/internal/apperrors"
	"fitness-backend/internal/models"
)

type fakeResolver struct {
	users map[string]*models.User
}

func (f *fakeResolver) ResolveByOpenID(ctx context.Context, openid string) (*models.User, error) {
	if u, ok := f.users[openid]; ok {
		return u, nil
	}
	return nil, apperrors.NotFound("user not found")
}

func newTestAuth(devMode bool) *AuthMiddleware {
	return NewAuthMiddleware(&fakeResolver{users: map[string]*models.User{
		"member-1": {ID: 1, OpenID: "member-1", IsActive: true},
		"coach-1":  {ID: 2, OpenID: "coach-1", IsActive: true, StaffRoles: []models.Role{models.RoleCoach}},
		"admin-1":  {ID: 3, OpenID: "admin-1", IsActive: true, StaffRoles: []models.Role{models.RoleAdmin}},
		"gone-1":   {ID: 4, OpenID: "gone-1", IsActive: false},
	}}, devMode)
}

func echoUser(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NotNil(t, UserFromContext(r.Context()))
		w.WriteHeader(http.StatusOK)
	})
}

func TestIdentify(t *testing.T) {
	auth := newTestAuth(false)
	handler := auth.Identify(echoUser(t))

	// No header
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Known member
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(OpenIDHeader, "member-1")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	// Disabled account
	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set(OpenIDHeader, "gone-1")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestDevHeaderOnlyInDevMode(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(DevOpenIDHeader, "member-1")

	w := httptest.NewRecorder()
	newTestAuth(false).Identify(echoUser(t)).ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set(DevOpenIDHeader, "member-1")
	w = httptest.NewRecorder()
	newTestAuth(true).Identify(echoUser(t)).ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRequireStaff(t *testing.T) {
	auth := newTestAuth(false)
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	handler := auth.Identify(auth.RequireStaff()(ok))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(OpenIDHeader, "member-1")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set(OpenIDHeader, "coach-1")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

// Staff accounts stay out of member-only flows.
func TestRequireMemberExcludesStaff(t *testing.T) {
	auth := newTestAuth(false)
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	handler := auth.Identify(auth.RequireMember()(ok))

	req := httptest.NewRequest("POST", "/", nil)
	req.Header.Set(OpenIDHeader, "member-1")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest("POST", "/", nil)
	req.Header.Set(OpenIDHeader, "coach-1")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	auth := newTestAuth(false)
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	handler := auth.Identify(auth.RequireAdmin(ok))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(OpenIDHeader, "coach-1")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set(OpenIDHeader, "admin-1")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}
