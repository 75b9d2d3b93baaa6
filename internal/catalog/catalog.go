package catalog

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"
)

// Role names a scoring component within a formula profile.
type Role string

const (
	RoleSecondary       Role = "ssc"      // matric / O-level marks
	RoleHigherSecondary Role = "hssc"     // intermediate / A-level marks
	RoleEntranceTest    Role = "test"     // the institution's entrance test
	RoleAptitude        Role = "aptitude" // drawing / design test for architecture
)

// ErrUnknownProfile means the institution/variant pair has no registered formula.
// It signals a caller or configuration defect, never bad user input.
var ErrUnknownProfile = errors.New("unknown formula profile")

// Component is one weighted role of a profile.
type Component struct {
	Role   Role    `json:"role"`
	Label  string  `json:"label"`
	Weight float64 `json:"weight"` // aggregate points; a profile's components sum to 100
	// Scale is the fixed maximum of a test role. Zero means the caller supplies the total.
	Scale float64 `json:"scale,omitempty"`
	// AwaitedFactor multiplies the total while the result is awaited (0 leaves it unchanged).
	AwaitedFactor float64 `json:"awaited_factor,omitempty"`
	Qualification bool    `json:"qualification"`
}

// Profile is the formula for one institution + program variant.
type Profile struct {
	Institution string      `json:"institution"`
	Variant     string      `json:"variant"`
	Label       string      `json:"label"`
	MeritList   string      `json:"merit_list,omitempty"`
	Components  []Component `json:"components"`
	Primary     Role        `json:"primary"`
	SolveFor    Role        `json:"solve_for"`
}

// Component returns the component playing role r, if the profile has one.
func (p Profile) Component(r Role) (Component, bool) {
	for _, c := range p.Components {
		if c.Role == r {
			return c, true
		}
	}
	return Component{}, false
}

// TotalWeight sums the component weights.
func (p Profile) TotalWeight() float64 {
	total := 0.0
	for _, c := range p.Components {
		total += c.Weight
	}
	return total
}

// Validate enforces the structural invariants every registered profile must hold.
func (p Profile) Validate() error {
	if p.Institution == "" || p.Variant == "" {
		return errors.New("catalog: institution and variant are required")
	}
	seen := map[Role]bool{}
	for _, c := range p.Components {
		if c.Role == "" {
			return fmt.Errorf("catalog: %s/%s: component role is required", p.Institution, p.Variant)
		}
		if seen[c.Role] {
			return fmt.Errorf("catalog: %s/%s: duplicate role %s", p.Institution, p.Variant, c.Role)
		}
		seen[c.Role] = true
		if c.Weight < 0 || c.Scale < 0 || c.AwaitedFactor < 0 {
			return fmt.Errorf("catalog: %s/%s: negative weight, scale or factor on %s", p.Institution, p.Variant, c.Role)
		}
	}
	if math.Abs(p.TotalWeight()-100) > 1e-9 {
		return fmt.Errorf("catalog: %s/%s: weights sum to %.4f, must sum to 100", p.Institution, p.Variant, p.TotalWeight())
	}
	if !seen[p.Primary] {
		return fmt.Errorf("catalog: %s/%s: primary role %q not in profile", p.Institution, p.Variant, p.Primary)
	}
	sc, ok := p.Component(p.SolveFor)
	if !ok || sc.Scale <= 0 || sc.Weight <= 0 {
		return fmt.Errorf("catalog: %s/%s: solve-for role %q must be a weighted fixed-scale role", p.Institution, p.Variant, p.SolveFor)
	}
	return nil
}

func (p Profile) clone() Profile {
	p.Components = slices.Clone(p.Components)
	return p
}

// Breakpoint is an inclusive upper bound for an advisory tier.
type Breakpoint struct {
	UpTo float64 `json:"up_to"`
	Tier string  `json:"tier"`
}

// Campus shifts the aggregate before tier lookup; secondary campuses close lower.
type Campus struct {
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Adjustment float64 `json:"adjustment"`
}

// Family groups an institution's profiles with its advisory data.
type Family struct {
	Code        string       `json:"code"`
	Name        string       `json:"name"`
	Profiles    []Profile    `json:"profiles"`
	Breakpoints []Breakpoint `json:"breakpoints"` // ascending
	TopTier     string       `json:"top_tier"`
	Campuses    []Campus     `json:"campuses,omitempty"`
}

// Variants lists the family's program variants in registration order.
func (f Family) Variants() []string {
	out := make([]string, 0, len(f.Profiles))
	for _, p := range f.Profiles {
		out = append(out, p.Variant)
	}
	return out
}

// Campus looks up a campus by code (case-insensitive).
func (f Family) Campus(code string) (Campus, bool) {
	code = key(code)
	for _, c := range f.Campuses {
		if c.Code == code {
			return c, true
		}
	}
	return Campus{}, false
}

func (f Family) profile(variant string) (Profile, bool) {
	variant = key(variant)
	for _, p := range f.Profiles {
		if p.Variant == variant {
			return p.clone(), true
		}
	}
	return Profile{}, false
}

func (f Family) clone() Family {
	profiles := make([]Profile, len(f.Profiles))
	for i, p := range f.Profiles {
		profiles[i] = p.clone()
	}
	f.Profiles = profiles
	f.Breakpoints = slices.Clone(f.Breakpoints)
	f.Campuses = slices.Clone(f.Campuses)
	return f
}

func (f Family) validate() error {
	if f.Code == "" {
		return errors.New("catalog: family code is required")
	}
	if len(f.Profiles) == 0 {
		return fmt.Errorf("catalog: %s: no profiles", f.Code)
	}
	for _, p := range f.Profiles {
		if p.Institution != f.Code {
			return fmt.Errorf("catalog: %s: profile %s belongs to %s", f.Code, p.Variant, p.Institution)
		}
		if err := p.Validate(); err != nil {
			return err
		}
	}
	if f.TopTier == "" {
		return fmt.Errorf("catalog: %s: top tier is required", f.Code)
	}
	for i := 1; i < len(f.Breakpoints); i++ {
		if f.Breakpoints[i].UpTo <= f.Breakpoints[i-1].UpTo {
			return fmt.Errorf("catalog: %s: breakpoints must ascend", f.Code)
		}
	}
	return nil
}

// Registry of families by institution code ("nust", "uet", "fast").
var registry = map[string]Family{}

// register adds a built-in family. Called from init() in the data files;
// malformed catalog data is a programming error, so it panics.
func register(f Family) {
	if err := f.validate(); err != nil {
		panic(err)
	}
	if _, dup := registry[f.Code]; dup {
		panic(fmt.Sprintf("catalog: family %s registered twice", f.Code))
	}
	registry[f.Code] = f
}

// Lookup returns a registered family by institution code.
func Lookup(institution string) (Family, bool) {
	f, ok := registry[key(institution)]
	if !ok {
		return Family{}, false
	}
	return f.clone(), true
}

// Families returns every registered family sorted by code.
func Families() []Family {
	out := make([]Family, 0, len(registry))
	for _, f := range registry {
		out = append(out, f.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Resolve returns the formula for an institution + variant.
func Resolve(institution, variant string) (Profile, error) {
	f, ok := registry[key(institution)]
	if !ok {
		return Profile{}, fmt.Errorf("%w: institution %q", ErrUnknownProfile, institution)
	}
	p, ok := f.profile(variant)
	if !ok {
		return Profile{}, fmt.Errorf("%w: %s has no variant %q", ErrUnknownProfile, f.Code, variant)
	}
	return p, nil
}

func key(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

/* ----------------------------- builders ----------------------------- */

func secondary(weight float64) Component {
	return Component{Role: RoleSecondary, Label: "SSC / Matric", Weight: weight, Qualification: true}
}

func higherSecondary(weight, awaitedFactor float64) Component {
	return Component{Role: RoleHigherSecondary, Label: "HSSC / Intermediate", Weight: weight, AwaitedFactor: awaitedFactor, Qualification: true}
}

func entranceTest(label string, weight, scale float64) Component {
	return Component{Role: RoleEntranceTest, Label: label, Weight: weight, Scale: scale}
}
