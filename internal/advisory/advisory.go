// Package advisory annotates engine outcomes with threshold warnings and a
// static, breakpoint-derived advisory tier.
package advisory

import (
	"fmt"

	"github.com/Hammad-111/HamSync-sub000/internal/aggregate"
	"github.com/Hammad-111/HamSync-sub000/internal/catalog"
)

// MinimumRatio is the qualification floor; ratios strictly below it warn.
const MinimumRatio = 0.60

// KindBelowMinimum is the only warning kind today.
const KindBelowMinimum = "below_minimum_threshold"

type Warning struct {
	Kind    string       `json:"kind"`
	Role    catalog.Role `json:"role"`
	Ratio   float64      `json:"ratio"`
	Message string       `json:"message"`
}

// Annotation is what the module adds to an outcome.
type Annotation struct {
	Warnings []Warning `json:"warnings"`
	Tier     string    `json:"advisory_tier,omitempty"`
	Advice   string    `json:"advice,omitempty"`
	// Adjusted is the value the tier was looked up with.
	Adjusted float64 `json:"adjusted_value"`
}

// Warnings flags every included qualification role below MinimumRatio.
// Entrance and aptitude tests are never checked.
func Warnings(terms []aggregate.Term) []Warning {
	out := []Warning{}
	for _, t := range terms {
		if !t.Qualification || t.Excluded || t.Solved {
			continue
		}
		if t.Ratio < MinimumRatio {
			out = append(out, Warning{
				Kind:    KindBelowMinimum,
				Role:    t.Role,
				Ratio:   t.Ratio,
				Message: fmt.Sprintf("%s marks are %.1f%%, below the %.0f%% minimum", t.Role, t.Ratio*100, MinimumRatio*100),
			})
		}
	}
	return out
}

// Tier returns the first breakpoint whose inclusive upper bound is not
// exceeded, or the family's top tier.
func Tier(f catalog.Family, value float64) string {
	for _, b := range f.Breakpoints {
		if value <= b.UpTo {
			return b.Tier
		}
	}
	return f.TopTier
}

// CampusAdjustment is the additive shift for a campus. Unknown or empty
// campuses, and families without campuses, shift by zero.
func CampusAdjustment(f catalog.Family, campus string) float64 {
	c, ok := f.Campus(campus)
	if !ok {
		return 0
	}
	return c.Adjustment
}

// Annotate builds warnings and the advisory tier for an outcome. Forward
// outcomes are tiered by their aggregate, target outcomes by the target.
// A no-result outcome gets neither.
func Annotate(f catalog.Family, out aggregate.Outcome, campusAdjustment float64) Annotation {
	a := Annotation{Warnings: []Warning{}}
	if out.Status == aggregate.StatusNoResult {
		return a
	}
	a.Warnings = Warnings(out.Terms)

	var value float64
	switch {
	case out.Aggregate != nil:
		value = *out.Aggregate
	case out.Target != nil:
		value = *out.Target
	default:
		return a
	}
	a.Adjusted = value + campusAdjustment
	a.Tier = Tier(f, a.Adjusted)
	a.Advice = advice(out)
	return a
}

func advice(out aggregate.Outcome) string {
	switch out.Status {
	case aggregate.StatusAchieved:
		return "Target already achieved with your academic marks alone."
	case aggregate.StatusUnreachable:
		return fmt.Sprintf("Target requires a score beyond the maximum possible (%g).", out.MaxScore)
	}
	return ""
}
