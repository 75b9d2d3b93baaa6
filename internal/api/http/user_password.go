package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	authmw "github.com/Hammad-111/HamSync-sub000/internal/auth/middleware"
)

const minPasswordLen = 8

// ChangePasswordHandler serves POST /users/change-password. Guest accounts
// are created without a password and may set their first one without
// presenting the old password.
func ChangePasswordHandler(h *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sub := authmw.SubjectFromContext(ctx)

		var body struct {
			Old string `json:"old_password"`
			New string `json:"new_password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
			return
		}
		if len(body.New) < minPasswordLen {
			writeError(w, http.StatusBadRequest, "weak_password", "new password must be at least 8 characters")
			return
		}

		var current string
		err := h.QueryRowContext(ctx, `SELECT password_hash FROM users WHERE id=$1`, sub).Scan(&current)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			writeError(w, http.StatusNotFound, "not_found", "user not found")
			return
		case err != nil:
			writeError(w, http.StatusInternalServerError, "internal", err.Error())
			return
		}
		if current != "" && bcrypt.CompareHashAndPassword([]byte(current), []byte(body.Old)) != nil {
			writeError(w, http.StatusForbidden, "wrong_password", "old password does not match")
			return
		}

		next, err := bcrypt.GenerateFromPassword([]byte(body.New), bcrypt.DefaultCost)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal", err.Error())
			return
		}
		if _, err := h.ExecContext(ctx, `UPDATE users SET password_hash=$1 WHERE id=$2`, string(next), sub); err != nil {
			writeError(w, http.StatusInternalServerError, "internal", err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
