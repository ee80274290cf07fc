package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/intraforms/portal-api/internal"
)

// RBACAuthorization gates endpoints on the permission names embedded in the
// access token. A set of names is matched with OR semantics: any single
// match authorizes the request.
type RBACAuthorization struct {
	logger *slog.Logger
}

func NewRBACAuthorization(logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{logger: logger}
}

// RequirePermissions returns middleware denying requests whose principal
// lacks every listed permission. An absent principal means the auth
// middleware never ran or rejected the request, so that is a 401; a
// principal whose permissions claim is missing or undecodable is denied
// with a 403, as is one with no matching name.
func (ra *RBACAuthorization) RequirePermissions(permissions ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := internal.PrincipalFromContext(r.Context())
			if !ok || principal == nil {
				ra.logger.Warn("permission check without authenticated principal")
				writeDenial(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			if principal.Permissions == nil {
				ra.logger.WarnContext(r.Context(), "access denied: permissions claim missing or invalid",
					"user_id", principal.UserID,
					"required_permissions", permissions)
				writeDenial(w, http.StatusForbidden, "Forbidden")
				return
			}

			if !principal.HasAnyPermission(permissions) {
				ra.logger.WarnContext(r.Context(), "access denied: insufficient permissions",
					"user_id", principal.UserID,
					"required_permissions", permissions)
				writeDenial(w, http.StatusForbidden, "Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeDenial(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": message,
	})
}
