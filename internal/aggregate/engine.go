package aggregate

import (
	"github.com/Hammad-111/HamSync-sub000/internal/catalog"
)

// Mode selects forward (aggregate) or target (required score) calculation.
type Mode string

const (
	ModeForward Mode = "forward"
	ModeTarget  Mode = "target"
)

// Status is the result state. None of these are errors.
type Status string

const (
	StatusOK          Status = "ok"
	StatusNoResult    Status = "no_result"   // mandatory input missing; render nothing
	StatusAchieved    Status = "achieved"    // target met by known components alone
	StatusUnreachable Status = "unreachable" // target needs more than the test's maximum
)

// Request is one calculation, typically re-derived on every keystroke.
type Request struct {
	Institution string                 `json:"institution"`
	Variant     string                 `json:"variant"`
	Mode        Mode                   `json:"mode,omitempty"`
	Inputs      map[catalog.Role]Input `json:"inputs"`
	Awaited     bool                   `json:"awaited,omitempty"`
	Target      *float64               `json:"target_aggregate,omitempty"`
	SolveFor    catalog.Role           `json:"solve_for,omitempty"` // defaults to the profile's
	Campus      string                 `json:"campus,omitempty"`
}

// Term is one component's share of the aggregate.
type Term struct {
	Role          catalog.Role `json:"role"`
	Weight        float64      `json:"weight"`
	Ratio         float64      `json:"ratio"`
	Contribution  float64      `json:"contribution"`
	Excluded      bool         `json:"excluded,omitempty"`
	Qualification bool         `json:"qualification,omitempty"`
	Solved        bool         `json:"solved,omitempty"` // the unknown in target mode
}

// Outcome is the unannotated engine output. Aggregate is set in forward mode,
// RequiredScore in target mode, neither when Status is StatusNoResult.
type Outcome struct {
	Profile       catalog.Profile `json:"-"`
	Mode          Mode            `json:"mode"`
	Status        Status          `json:"status"`
	Aggregate     *float64        `json:"aggregate,omitempty"`
	RequiredScore *float64        `json:"required_score,omitempty"`
	MaxScore      float64         `json:"max_score,omitempty"`
	Target        *float64        `json:"target_aggregate,omitempty"`
	Terms         []Term          `json:"terms"`
}

// Resolver finds the formula for an institution + variant.
type Resolver interface {
	Resolve(institution, variant string) (catalog.Profile, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(institution, variant string) (catalog.Profile, error)

func (f ResolverFunc) Resolve(institution, variant string) (catalog.Profile, error) {
	return f(institution, variant)
}

// Engine folds a resolved profile over the caller's inputs. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	resolver Resolver
}

type Option func(*Engine)

// WithResolver swaps the built-in catalog for another profile source.
func WithResolver(r Resolver) Option { return func(e *Engine) { e.resolver = r } }

// NewEngine returns an engine backed by the built-in catalog unless overridden.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{resolver: ResolverFunc(catalog.Resolve)}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Aggregate computes the weighted sum of every component. Excluded components
// add nothing and the remaining weights are not rescaled.
func (e *Engine) Aggregate(req Request) (Outcome, error) {
	p, err := e.resolver.Resolve(req.Institution, req.Variant)
	if err != nil {
		return Outcome{Mode: ModeForward, Status: StatusNoResult}, err
	}
	out := Outcome{Profile: p, Mode: ModeForward, Status: StatusNoResult}
	out.Terms, _ = fold(p, req, "")

	if primaryExcluded(out.Terms, p.Primary) {
		return out, nil
	}
	sum := 0.0
	for _, t := range out.Terms {
		sum += t.Contribution
	}
	v := Round(sum, 2)
	out.Aggregate = &v
	out.Status = StatusOK
	return out, nil
}

// RequiredScore solves target = known + r*w for the solve-for role and
// converts r back to that role's raw scale.
func (e *Engine) RequiredScore(req Request) (Outcome, error) {
	p, err := e.resolver.Resolve(req.Institution, req.Variant)
	if err != nil {
		return Outcome{Mode: ModeTarget, Status: StatusNoResult}, err
	}
	out := Outcome{Profile: p, Mode: ModeTarget, Status: StatusNoResult}

	solve := p.SolveFor
	if req.SolveFor != "" {
		solve = req.SolveFor
	}
	sc, ok := p.Component(solve)
	if !ok || sc.Scale <= 0 || sc.Weight <= 0 {
		return out, nil
	}
	out.MaxScore = sc.Scale

	var known float64
	out.Terms, known = fold(p, req, solve)
	if primaryExcluded(out.Terms, p.Primary) || req.Target == nil || !finite(*req.Target) {
		return out, nil
	}
	target := *req.Target
	out.Target = &target

	ratio := (target - known) / sc.Weight
	for i := range out.Terms {
		if out.Terms[i].Solved {
			out.Terms[i].Ratio = ratio
			out.Terms[i].Contribution = ratio * sc.Weight
		}
	}

	v := Round(ratio*sc.Scale, 1)
	out.RequiredScore = &v
	switch {
	case v < 0:
		out.Status = StatusAchieved
	case v > sc.Scale:
		out.Status = StatusUnreachable
	default:
		out.Status = StatusOK
	}
	return out, nil
}

// fold normalizes every component except skip and returns the terms plus the
// sum of their contributions. Nothing is rounded here.
func fold(p catalog.Profile, req Request, skip catalog.Role) ([]Term, float64) {
	terms := make([]Term, 0, len(p.Components))
	sum := 0.0
	for _, c := range p.Components {
		t := Term{Role: c.Role, Weight: c.Weight, Qualification: c.Qualification}
		if c.Role == skip {
			t.Solved = true
			terms = append(terms, t)
			continue
		}
		ratio, ok := Normalize(prepare(c, req.Inputs[c.Role], req.Awaited))
		if !ok {
			t.Excluded = true
		} else {
			t.Ratio = ratio
			t.Contribution = ratio * c.Weight
			sum += t.Contribution
		}
		terms = append(terms, t)
	}
	return terms, sum
}

// prepare fills an absent total from the role's fixed scale and applies the
// awaited-result factor to the total.
func prepare(c catalog.Component, in Input, awaited bool) Input {
	if c.Scale > 0 && in.Total == nil && in.Obtained != nil {
		total := c.Scale
		in.Total = &total
	}
	if awaited && c.AwaitedFactor > 0 && in.Total != nil {
		total := *in.Total * c.AwaitedFactor
		in.Total = &total
	}
	return in
}

func primaryExcluded(terms []Term, primary catalog.Role) bool {
	for _, t := range terms {
		if t.Role == primary {
			return t.Excluded || t.Solved
		}
	}
	return true
}
