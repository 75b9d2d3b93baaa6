// Package merit is the single entry point used by the HTTP API and the CLI:
// it resolves the formula, runs the engine in the requested mode and
// annotates the outcome with warnings and an advisory tier.
package merit

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Hammad-111/HamSync-sub000/internal/advisory"
	"github.com/Hammad-111/HamSync-sub000/internal/aggregate"
	"github.com/Hammad-111/HamSync-sub000/internal/catalog"
	"github.com/Hammad-111/HamSync-sub000/internal/logx"
)

// ErrBadMode rejects a mode other than forward or target.
var ErrBadMode = errors.New("mode must be forward or target")

// Result is the annotated calculation. Exactly one of Aggregate and
// RequiredScore is set unless Status is no_result.
type Result struct {
	Institution     string             `json:"institution"`
	Variant         string             `json:"variant"`
	Mode            aggregate.Mode     `json:"mode"`
	Status          aggregate.Status   `json:"status"`
	Aggregate       *float64           `json:"aggregate,omitempty"`
	RequiredScore   *float64           `json:"required_score,omitempty"`
	MaxScore        float64            `json:"max_score,omitempty"`
	TargetAggregate *float64           `json:"target_aggregate,omitempty"`
	Campus          string             `json:"campus,omitempty"`
	Warnings        []advisory.Warning `json:"warnings"`
	Tier            string             `json:"advisory_tier,omitempty"`
	Advice          string             `json:"advice,omitempty"`
	Components      []aggregate.Term   `json:"components"`
}

// Value is the headline number: the aggregate, or the required score in
// target mode. ok is false for no_result.
func (r Result) Value() (float64, bool) {
	switch {
	case r.Aggregate != nil:
		return *r.Aggregate, true
	case r.RequiredScore != nil:
		return *r.RequiredScore, true
	}
	return 0, false
}

// FamilyLookup finds advisory data for an institution.
type FamilyLookup func(institution string) (catalog.Family, bool)

type Calculator struct {
	engine   *aggregate.Engine
	families FamilyLookup
	log      logrus.FieldLogger
}

type Option func(*Calculator)

func WithEngine(e *aggregate.Engine) Option { return func(c *Calculator) { c.engine = e } }
func WithFamilies(f FamilyLookup) Option { return func(c *Calculator) { c.families = f } }
func WithLogger(l logrus.FieldLogger) Option { return func(c *Calculator) { c.log = l } }

func New(opts ...Option) *Calculator {
	c := &Calculator{
		engine:   aggregate.NewEngine(),
		families: catalog.Lookup,
		log:      logx.Log,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Calculate dispatches on req.Mode; an empty mode means forward.
func (c *Calculator) Calculate(req aggregate.Request) (Result, error) {
	switch req.Mode {
	case "", aggregate.ModeForward:
		return c.Forward(req)
	case aggregate.ModeTarget:
		return c.Target(req)
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrBadMode, req.Mode)
	}
}

func (c *Calculator) Forward(req aggregate.Request) (Result, error) {
	out, err := c.engine.Aggregate(req)
	return c.finish(req, out, err)
}

func (c *Calculator) Target(req aggregate.Request) (Result, error) {
	out, err := c.engine.RequiredScore(req)
	return c.finish(req, out, err)
}

func (c *Calculator) finish(req aggregate.Request, out aggregate.Outcome, err error) (Result, error) {
	fields := logrus.Fields{"institution": req.Institution, "variant": req.Variant, "mode": out.Mode}
	if err != nil {
		c.log.WithFields(fields).WithError(err).Warn("formula lookup failed")
		return Result{}, err
	}

	res := Result{
		Institution:     out.Profile.Institution,
		Variant:         out.Profile.Variant,
		Mode:            out.Mode,
		Status:          out.Status,
		Aggregate:       out.Aggregate,
		RequiredScore:   out.RequiredScore,
		MaxScore:        out.MaxScore,
		TargetAggregate: out.Target,
		Campus:          req.Campus,
		Warnings:        []advisory.Warning{},
		Components:      out.Terms,
	}
	if out.Status == aggregate.StatusNoResult {
		c.log.WithFields(fields).Debug("no result: mandatory input missing")
		return res, nil
	}

	fam, ok := c.families(out.Profile.Institution)
	if !ok {
		// profile resolved but no advisory data; leave the result unannotated
		c.log.WithFields(fields).Warn("no advisory data for institution")
		return res, nil
	}
	a := advisory.Annotate(fam, out, advisory.CampusAdjustment(fam, req.Campus))
	res.Warnings = a.Warnings
	res.Tier = a.Tier
	res.Advice = a.Advice

	c.log.WithFields(fields).WithField("status", res.Status).Debug("calculated")
	return res, nil
}
