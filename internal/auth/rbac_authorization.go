package auth

import (
	"net/http"

	apperrors "github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/transport"
	"github.com/frahmantamala/leave-management/internal/user"
	"github.com/frahmantamala/leave-management/pkg/logger"
)

// RBACAuthorization gates routes on the authenticated identity's role. It
// must run after AuthMiddleware.
type RBACAuthorization struct {
	*transport.BaseHandler
}

func NewRBACAuthorization(base *transport.BaseHandler) *RBACAuthorization {
	return &RBACAuthorization{BaseHandler: base}
}

func (ra *RBACAuthorization) RequireRoles(required RoleSet) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := user.FromContext(r.Context())
			if !ok {
				ra.HandleError(w, r, apperrors.ErrMissingToken)
				return
			}

			if !RoleAllowed(required, u.Role) {
				logger.From(r.Context()).Warn("access denied: role not allowed",
					"user_id", u.ID,
					"role", u.Role,
					"required_roles", required.Roles())
				ra.HandleError(w, r, apperrors.ErrForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (ra *RBACAuthorization) RequireEmployee() func(http.Handler) http.Handler {
	return ra.RequireRoles(EmployeeOnly)
}

func (ra *RBACAuthorization) RequireAdmin() func(http.Handler) http.Handler {
	return ra.RequireRoles(AdminOnly)
}
