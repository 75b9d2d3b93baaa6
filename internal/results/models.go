// Package results persists calculations a user chose to keep.
package results

import (
	"context"
	"errors"
	"time"

	"github.com/Hammad-111/HamSync-sub000/internal/aggregate"
	"github.com/Hammad-111/HamSync-sub000/internal/merit"
)

var ErrNotFound = errors.New("result not found")

// Saved is one stored calculation. Value is the aggregate or the required
// score, nil for no_result.
type Saved struct {
	ID          string            `json:"id"`
	UserID      string            `json:"user_id"`
	Institution string            `json:"institution"`
	Variant     string            `json:"variant"`
	Mode        aggregate.Mode    `json:"mode"`
	Status      aggregate.Status  `json:"status"`
	Value       *float64          `json:"value,omitempty"`
	Tier        string            `json:"advisory_tier,omitempty"`
	Request     aggregate.Request `json:"request"`
	Result      merit.Result      `json:"result"`
	CreatedAt   time.Time         `json:"created_at"`
}

type ListOpts struct {
	UserID      string // empty lists every user
	Institution string
	Limit       int
	Offset      int
}

const (
	defaultLimit = 50
	maxLimit     = 200
)

func (o ListOpts) normalized() ListOpts {
	if o.Limit <= 0 {
		o.Limit = defaultLimit
	}
	if o.Limit > maxLimit {
		o.Limit = maxLimit
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	return o
}

type Store interface {
	Save(ctx context.Context, userID string, req aggregate.Request, res merit.Result) (Saved, error)
	Get(ctx context.Context, id string) (Saved, error)
	List(ctx context.Context, opts ListOpts) ([]Saved, error) // newest first
	Delete(ctx context.Context, id string) error
}

func newSaved(id, userID string, req aggregate.Request, res merit.Result, at time.Time) Saved {
	s := Saved{
		ID:          id,
		UserID:      userID,
		Institution: res.Institution,
		Variant:     res.Variant,
		Mode:        res.Mode,
		Status:      res.Status,
		Tier:        res.Tier,
		Request:     req,
		Result:      res,
		CreatedAt:   at.UTC().Truncate(time.Second),
	}
	if v, ok := res.Value(); ok {
		s.Value = &v
	}
	return s
}
