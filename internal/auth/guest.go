package auth

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	authmw "github.com/Hammad-111/HamSync-sub000/internal/auth/middleware"
	"github.com/Hammad-111/HamSync-sub000/internal/config"
	"github.com/Hammad-111/HamSync-sub000/internal/logx"
)

const (
	guestCookie = "mc_guest_id"
	guestPrefix = "guest|"
	guestTTL    = 30 * 24 * time.Hour
)

// GuestLoginHandler hands out a student token without credentials, reusing
// the guest identity remembered in a cookie so saved results stay visible.
func GuestLoginHandler(a *authmw.AuthService, db *sql.DB, cfg config.Config) http.HandlerFunc {
	type out struct {
		AccessToken string `json:"access_token"`
		Username    string `json:"username"`
		Role        string `json:"role"`
	}
	setCookie := func(w http.ResponseWriter, id string) {
		c := &http.Cookie{
			Name:     guestCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			Expires:  time.Now().Add(guestTTL),
		}
		if cfg.Mode == config.ModeOnline {
			c.Secure = true
			c.SameSite = http.SameSiteNoneMode
		}
		http.SetCookie(w, c)
	}
	reply := func(w http.ResponseWriter, tok, username string) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out{AccessToken: tok, Username: username, Role: "student"})
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if !cfg.EnableGuestAuth {
			http.Error(w, "guest auth disabled", http.StatusForbidden)
			return
		}

		if c, err := r.Cookie(guestCookie); err == nil && strings.HasPrefix(c.Value, guestPrefix) {
			var username, role string
			err := db.QueryRowContext(r.Context(), `SELECT username, role FROM users WHERE id=$1`, c.Value).Scan(&username, &role)
			if err == nil && role == "student" {
				tok, err := a.IssueJWT(c.Value, role)
				if err != nil {
					http.Error(w, "issue token", http.StatusInternalServerError)
					return
				}
				setCookie(w, c.Value)
				reply(w, tok, username)
				return
			}
		}

		sfx := uuid.NewString()
		userID := guestPrefix + sfx
		username := "guest-" + sfx[:8]
		if _, err := db.ExecContext(r.Context(),
			`INSERT INTO users (id, username, role, created_at) VALUES ($1,$2,$3,$4)`,
			userID, username, "student", time.Now().Unix()); err != nil {
			logx.Log.WithError(err).Warn("guest insert failed")
			http.Error(w, "create guest", http.StatusInternalServerError)
			return
		}

		tok, err := a.IssueJWT(userID, "student")
		if err != nil {
			http.Error(w, "issue token", http.StatusInternalServerError)
			return
		}
		setCookie(w, userID)
		reply(w, tok, username)
	}
}
