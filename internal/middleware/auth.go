package middleware

import (
	"context"
	"net/http"

	"fitness-backend/internal/apperrors"
	"fitness-backend/internal/models"
	"fitness-backend/pkg/utils"
)

type contextKey string

const userKey contextKey = "current_user"

// Headers carrying the caller's mini-program identity. The gateway injects
// the real one; the dev header is only honored in dev mode.
const (
	OpenIDHeader    = "X-WX-Openid"
	DevOpenIDHeader = "X-Dev-Openid"
)

// UserResolver turns an openid into a user record, creating the member row
// on first contact.
type UserResolver interface {
	ResolveByOpenID(ctx context.Context, openid string) (*models.User, error)
}

type AuthMiddleware struct {
	resolver UserResolver
	devMode  bool
}

func NewAuthMiddleware(resolver UserResolver, devMode bool) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver, devMode: devMode}
}

// Identify resolves the caller from the openid header and puts the user on
// the request context. Unknown openids become fresh member accounts, so
// every identified request has a user.
func (m *AuthMiddleware) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		openid := r.Header.Get(OpenIDHeader)
		if openid == "" && m.devMode {
			openid = r.Header.Get(DevOpenIDHeader)
		}
		if openid == "" {
			utils.Error(w, apperrors.Unauthorized("missing identity header"))
			return
		}

		user, err := m.resolver.ResolveByOpenID(r.Context(), openid)
		if err != nil {
			utils.Error(w, err)
			return
		}
		if !user.IsActive {
			utils.Error(w, apperrors.Forbidden("account disabled"))
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	})
}

// UserFromContext returns the identified caller, or nil outside Identify.
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}

// RequireStaff gates a route to callers holding any of the given roles.
// With no roles listed, any staff role passes.
func (m *AuthMiddleware) RequireStaff(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			if user == nil {
				utils.Error(w, apperrors.Unauthorized("missing identity"))
				return
			}
			if !user.IsStaff() {
				utils.Error(w, apperrors.Forbidden("staff only"))
				return
			}
			if len(roles) > 0 && !models.HasRole(user.StaffRoles, roles...) {
				utils.Error(w, apperrors.Forbidden("insufficient role"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireMember gates a route to plain members, keeping staff accounts out
// of member-only flows like buying a pass or showing a pass QR.
func (m *AuthMiddleware) RequireMember() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			if user == nil {
				utils.Error(w, apperrors.Unauthorized("missing identity"))
				return
			}
			if user.IsStaff() {
				utils.Error(w, apperrors.Forbidden("members only"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin gates a route to admins.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return m.RequireStaff(models.RoleAdmin)(next)
}
