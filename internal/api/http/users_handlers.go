package http

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Hammad-111/HamSync-sub000/internal/db"
	"github.com/Hammad-111/HamSync-sub000/internal/rbac"
)

type userRow struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Role      string `json:"role"`               // defaults to student
	Password  string `json:"password,omitempty"` // plaintext, hashed on arrival
	CreatedAt int64  `json:"created_at,omitempty"`
}

// BulkUpsertUsersHandler accepts a JSON array or a multipart CSV/JSON file
// (field "file") with columns id, username, role[, password].
func BulkUpsertUsersHandler(h *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var rows []userRow
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			f, _, err := r.FormFile("file")
			if err != nil {
				writeError(w, http.StatusBadRequest, "bad_request", "multipart field \"file\" is required")
				return
			}
			defer f.Close()
			rows, err = decodeUserFile(f)
			if err != nil {
				writeError(w, http.StatusBadRequest, "bad_request", err.Error())
				return
			}
		} else if err := json.NewDecoder(r.Body).Decode(&rows); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "expected a JSON array or a multipart file")
			return
		}

		ins, upd, err := upsertUsers(r.Context(), h, rows)
		if err != nil {
			writeError(w, http.StatusBadRequest, "rejected", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"inserted": ins, "updated": upd})
	}
}

// ListUsersHandler serves GET /users, optionally filtered by ?role=.
func ListUsersHandler(h *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := `SELECT id, username, role, created_at FROM users`
		var args []any
		if role := r.URL.Query().Get("role"); role != "" {
			q += ` WHERE role=$1`
			args = append(args, role)
		}
		rows, err := h.QueryContext(r.Context(), q+` ORDER BY username`, args...)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal", err.Error())
			return
		}
		defer rows.Close()

		out := []userRow{}
		for rows.Next() {
			var u userRow
			if err := rows.Scan(&u.ID, &u.Username, &u.Role, &u.CreatedAt); err != nil {
				writeError(w, http.StatusInternalServerError, "internal", err.Error())
				return
			}
			out = append(out, u)
		}
		if err := rows.Err(); err != nil {
			writeError(w, http.StatusInternalServerError, "internal", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// decodeUserFile sniffs JSON vs CSV by the first non-space byte.
func decodeUserFile(f io.ReadSeeker) ([]userRow, error) {
	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if n == 0 {
		return nil, errors.New("empty file")
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	if first := strings.TrimSpace(string(buf[:n])); strings.HasPrefix(first, "[") {
		var rows []userRow
		if err := json.NewDecoder(f).Decode(&rows); err != nil {
			return nil, errors.New("bad json")
		}
		return rows, nil
	}
	rows, err := parseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("bad csv: %w", err)
	}
	return rows, nil
}

func parseCSV(r io.Reader) ([]userRow, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	hdr, err := cr.Read()
	if err != nil {
		return nil, err
	}
	idx := map[string]int{}
	for i, h := range hdr {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, k := range []string{"id", "username", "role"} {
		if _, ok := idx[k]; !ok {
			return nil, errors.New("missing column: " + k)
		}
	}
	var rows []userRow
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		row := userRow{
			ID:       rec[idx["id"]],
			Username: rec[idx["username"]],
			Role:     strings.ToLower(rec[idx["role"]]),
		}
		if i, ok := idx["password"]; ok {
			row.Password = rec[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func upsertUsers(ctx context.Context, h *sql.DB, rows []userRow) (inserted, updated int, err error) {
	now := time.Now().Unix()
	err = db.WithTx(ctx, h, func(tx *sql.Tx) error {
		for _, r := range rows {
			if r.Role == "" {
				r.Role = rbac.RoleStudent
			}
			if !rbac.ValidRole(r.Role) {
				return errors.New("invalid role: " + r.Role)
			}
			if r.ID == "" {
				r.ID = r.Username
			}
			var phash string
			if r.Password != "" {
				b, err := bcrypt.GenerateFromPassword([]byte(r.Password), bcrypt.DefaultCost)
				if err != nil {
					return err
				}
				phash = string(b)
			}

			err := tx.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id=$1`, r.ID).Scan(new(int))
			switch {
			case err == nil:
				if phash != "" {
					_, err = tx.ExecContext(ctx, `UPDATE users SET username=$1, role=$2, password_hash=$3 WHERE id=$4`,
						r.Username, r.Role, phash, r.ID)
				} else {
					_, err = tx.ExecContext(ctx, `UPDATE users SET username=$1, role=$2 WHERE id=$3`,
						r.Username, r.Role, r.ID)
				}
				if err != nil {
					return err
				}
				updated++
			case errors.Is(err, sql.ErrNoRows):
				if phash == "" {
					return errors.New("password required for new user: " + r.Username)
				}
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO users (id, username, password_hash, role, created_at) VALUES ($1,$2,$3,$4,$5)`,
					r.ID, r.Username, phash, r.Role, now); err != nil {
					return err
				}
				inserted++
			default:
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return inserted, updated, nil
}
