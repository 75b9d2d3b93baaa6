package results

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Hammad-111/HamSync-sub000/internal/aggregate"
	"github.com/Hammad-111/HamSync-sub000/internal/db"
	"github.com/Hammad-111/HamSync-sub000/internal/merit"
	syncx "github.com/Hammad-111/HamSync-sub000/internal/sync"
)

// SQLStore works on both sqlite and postgres; queries use $n placeholders.
type SQLStore struct {
	db     *sql.DB
	events *syncx.EventRepo
	now    func() time.Time
}

func NewSQLStore(h *sql.DB, events *syncx.EventRepo) *SQLStore {
	return &SQLStore{db: h, events: events, now: time.Now}
}

type savedEvent struct {
	UserID      string           `json:"user_id"`
	Institution string           `json:"institution"`
	Variant     string           `json:"variant"`
	Mode        aggregate.Mode   `json:"mode"`
	Status      aggregate.Status `json:"status"`
	Value       *float64         `json:"value,omitempty"`
}

func (s *SQLStore) Save(ctx context.Context, userID string, req aggregate.Request, res merit.Result) (Saved, error) {
	sv := newSaved(uuid.NewString(), userID, req, res, s.now())
	rj, err := json.Marshal(sv.Request)
	if err != nil {
		return Saved{}, err
	}
	oj, err := json.Marshal(sv.Result)
	if err != nil {
		return Saved{}, err
	}

	err = db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO saved_results (id,user_id,institution,variant,mode,status,value,tier,request_json,result_json,created_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
			sv.ID, sv.UserID, sv.Institution, sv.Variant, string(sv.Mode), string(sv.Status),
			nullFloat(sv.Value), sv.Tier, string(rj), string(oj), sv.CreatedAt.Unix())
		if err != nil {
			return err
		}
		if s.events == nil {
			return nil
		}
		return s.events.Append(ctx, tx, syncx.TypeResultSaved, sv.ID, savedEvent{
			UserID: sv.UserID, Institution: sv.Institution, Variant: sv.Variant,
			Mode: sv.Mode, Status: sv.Status, Value: sv.Value,
		})
	})
	if err != nil {
		return Saved{}, fmt.Errorf("results: save: %w", err)
	}
	return sv, nil
}

const selectCols = `SELECT id,user_id,institution,variant,mode,status,value,tier,request_json,result_json,created_at FROM saved_results`

func (s *SQLStore) Get(ctx context.Context, id string) (Saved, error) {
	row := s.db.QueryRowContext(ctx, selectCols+` WHERE id=$1`, id)
	sv, err := scanSaved(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Saved{}, ErrNotFound
	}
	return sv, err
}

func (s *SQLStore) List(ctx context.Context, opts ListOpts) ([]Saved, error) {
	opts = opts.normalized()

	var where []string
	var args []any
	if opts.UserID != "" {
		args = append(args, opts.UserID)
		where = append(where, fmt.Sprintf("user_id=$%d", len(args)))
	}
	if opts.Institution != "" {
		args = append(args, strings.ToLower(opts.Institution))
		where = append(where, fmt.Sprintf("institution=$%d", len(args)))
	}
	q := selectCols
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, opts.Limit, opts.Offset)
	q += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Saved{}
	for rows.Next() {
		sv, err := scanSaved(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sv)
	}
	return out, rows.Err()
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	return db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM saved_results WHERE id=$1`, id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		if s.events == nil {
			return nil
		}
		return s.events.Append(ctx, tx, syncx.TypeResultDeleted, id, map[string]string{"id": id})
	})
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSaved(sc scanner) (Saved, error) {
	var (
		sv           Saved
		mode, status string
		value        sql.NullFloat64
		rj, oj       string
		created      int64
	)
	if err := sc.Scan(&sv.ID, &sv.UserID, &sv.Institution, &sv.Variant, &mode, &status,
		&value, &sv.Tier, &rj, &oj, &created); err != nil {
		return Saved{}, err
	}
	sv.Mode = aggregate.Mode(mode)
	sv.Status = aggregate.Status(status)
	if value.Valid {
		v := value.Float64
		sv.Value = &v
	}
	if err := json.Unmarshal([]byte(rj), &sv.Request); err != nil {
		return Saved{}, fmt.Errorf("results: decode request %s: %w", sv.ID, err)
	}
	if err := json.Unmarshal([]byte(oj), &sv.Result); err != nil {
		return Saved{}, fmt.Errorf("results: decode result %s: %w", sv.ID, err)
	}
	sv.CreatedAt = time.Unix(created, 0).UTC()
	return sv, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
