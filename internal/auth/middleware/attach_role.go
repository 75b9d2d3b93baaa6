package auth

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/Hammad-111/HamSync-sub000/internal/logx"
	"github.com/Hammad-111/HamSync-sub000/internal/rbac"
)

// AttachRoleFromDB replaces the token's role with the one stored for the
// subject, so a demoted counselor loses access before the token expires.
// Subjects without a users row keep the claimed role only when
// trustClaims is set (offline installs); otherwise they are rejected.
func AttachRoleFromDB(db *sql.DB, trustClaims bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			sub := SubjectFromContext(ctx)

			role, err := storedRole(r, db, sub)
			if err == nil && role != "" {
				next.ServeHTTP(w, r.WithContext(rbac.WithRole(ctx, role)))
				return
			}
			if err != nil && !errors.Is(err, sql.ErrNoRows) {
				logx.Log.WithError(err).WithField("sub", sub).Warn("role lookup failed")
			}
			if trustClaims && rbac.RoleFromContext(ctx) != "" {
				next.ServeHTTP(w, r)
				return
			}
			http.Error(w, "forbidden", http.StatusForbidden)
		})
	}
}

func storedRole(r *http.Request, db *sql.DB, sub string) (string, error) {
	var role string
	err := db.QueryRowContext(r.Context(), `SELECT role FROM users WHERE id=$1`, sub).Scan(&role)
	return role, err
}
