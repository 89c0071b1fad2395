package auth

import (
	"net/http"
	"strings"

	"doctorsportal/pkg/config"
	apperrors "doctorsportal/pkg/errors"
	httputil "doctorsportal/pkg/http"
	"doctorsportal/pkg/logger"
	"doctorsportal/pkg/middleware"
	"doctorsportal/pkg/sanitizer"

	"github.com/julienschmidt/httprouter"
)

type Verifier interface {
	Verify(token string) (*Claims, error)
}

// Middleware gates routes: Authenticate proves who the caller is,
// RequireAdmin additionally checks the stored role.
type Middleware struct {
	verifier Verifier
	roles    RoleLookup
	log      *logger.Logger
}

func NewMiddleware(verifier Verifier, roles RoleLookup, log *logger.Logger) *Middleware {
	return &Middleware{verifier: verifier, roles: roles, log: log}
}

// Authenticate rejects a missing Authorization header with 403 and a
// malformed, invalid or expired bearer token with 401.
func (m *Middleware) Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		header := r.Header.Get("Authorization")
		if header == "" {
			m.reject(w, r, apperrors.Forbidden("Forbidden access"))
			return
		}

		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			m.reject(w, r, apperrors.Unauthorized("Unauthorized access"))
			return
		}

		claims, err := m.verifier.Verify(strings.TrimSpace(token))
		if err != nil {
			m.reject(w, r, err)
			return
		}
		claims.Email = sanitizer.NormalizeEmail(claims.Email)

		next(w, r.WithContext(WithClaims(r.Context(), claims)), ps)
	}
}

// RequireAdmin authenticates and then allows only callers whose stored role
// is admin. Unknown users are forbidden.
func (m *Middleware) RequireAdmin(next httprouter.Handle) httprouter.Handle {
	return m.Authenticate(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		claims, _ := ClaimsFrom(r.Context())

		role, err := m.roles.Role(r.Context(), claims.Email)
		if err != nil {
			m.log.Error("role lookup failed",
				"request_id", middleware.RequestID(r.Context()),
				"email", claims.Email,
				"error", err,
			)
			httputil.WriteError(w, apperrors.Internal("Failed to verify role", err))
			return
		}

		if role != config.RoleAdmin {
			m.reject(w, r, apperrors.Forbidden("Forbidden access"))
			return
		}

		next(w, r, ps)
	})
}

func (m *Middleware) reject(w http.ResponseWriter, r *http.Request, err error) {
	m.log.Warn("access denied",
		"request_id", middleware.RequestID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
		"reason", err.Error(),
	)
	httputil.WriteError(w, err)
}

// RequireSameEmail checks that the authenticated caller is asking about
// their own data.
func RequireSameEmail(r *http.Request, email string) error {
	claims, ok := ClaimsFrom(r.Context())
	if !ok {
		return apperrors.Forbidden("Forbidden access")
	}
	if claims.Email != sanitizer.NormalizeEmail(email) {
		return apperrors.Unauthorized("Unauthorized access")
	}
	return nil
}
