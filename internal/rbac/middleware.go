package rbac

import (
	"encoding/json"
	"net/http"
)

// Require rejects requests whose role lacks perm.
func Require(perm string) func(http.Handler) http.Handler {
	return RequireAny(perm)
}

// RequireAny passes the request on when the role holds any of perms and
// answers 403 with the permissions it would have accepted otherwise.
func RequireAny(perms ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if DefaultPolicy.AllowsAny(RoleFromContext(r.Context()), perms...) {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_ = json.NewEncoder(w).Encode(map[string]any{"error": "forbidden", "required": perms})
		})
	}
}
