package aggregate

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hammad-111/HamSync-sub000/internal/catalog"
)

func ptr(v float64) *float64 { return &v }

func forward(institution, variant string, inputs map[catalog.Role]Input) Request {
	return Request{Institution: institution, Variant: variant, Mode: ModeForward, Inputs: inputs}
}

func TestAggregateScenarios(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want float64
	}{
		{
			name: "fast computing",
			req: forward("fast", "computing", map[catalog.Role]Input{
				catalog.RoleSecondary:       Marks(890, 1000),
				catalog.RoleHigherSecondary: Marks(850, 1000),
				catalog.RoleEntranceTest:    Marks(78, 100),
			}),
			want: 81.90,
		},
		{
			name: "uet engineering",
			req: forward("uet", "engineering", map[catalog.Role]Input{
				catalog.RoleSecondary:       Marks(950, 1100),
				catalog.RoleHigherSecondary: Marks(900, 1100),
				catalog.RoleEntranceTest:    Marks(280, 400),
			}),
			want: 79.41,
		},
		{
			name: "nust test total filled from scale",
			req: forward("nust", "engineering", map[catalog.Role]Input{
				catalog.RoleSecondary:       Marks(1000, 1100),
				catalog.RoleHigherSecondary: Marks(950, 1100),
				catalog.RoleEntranceTest:    Score(150),
			}),
			want: 78.30,
		},
		{
			name: "missing test contributes zero without reweighting",
			req: forward("fast", "computing", map[catalog.Role]Input{
				catalog.RoleSecondary:       Marks(1000, 1000),
				catalog.RoleHigherSecondary: Marks(1000, 1000),
			}),
			want: 50,
		},
	}

	e := NewEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := e.Aggregate(tt.req)
			require.NoError(t, err)
			require.Equal(t, StatusOK, out.Status)
			require.NotNil(t, out.Aggregate)
			assert.Equal(t, tt.want, *out.Aggregate)
			assert.Nil(t, out.RequiredScore)
		})
	}
}

func TestAggregateExcludesBadInputs(t *testing.T) {
	out, err := NewEngine().Aggregate(forward("uet", "engineering", map[catalog.Role]Input{
		catalog.RoleSecondary:       Marks(1100, 1100),
		catalog.RoleHigherSecondary: Marks(500, 0),
		catalog.RoleEntranceTest:    Marks(math.NaN(), 400),
	}))
	require.NoError(t, err)
	require.Equal(t, StatusOK, out.Status)
	assert.Equal(t, 25.0, *out.Aggregate)
	for _, term := range out.Terms[1:] {
		assert.True(t, term.Excluded, term.Role)
		assert.Zero(t, term.Contribution)
	}
}

func TestAggregateNoResultWithoutPrimary(t *testing.T) {
	out, err := NewEngine().Aggregate(forward("fast", "computing", map[catalog.Role]Input{
		catalog.RoleHigherSecondary: Marks(850, 1000),
		catalog.RoleEntranceTest:    Marks(78, 100),
	}))
	require.NoError(t, err)
	assert.Equal(t, StatusNoResult, out.Status)
	assert.Nil(t, out.Aggregate)

	out, err = NewEngine().Aggregate(forward("fast", "computing", map[catalog.Role]Input{
		catalog.RoleSecondary: Marks(890, 0),
	}))
	require.NoError(t, err)
	assert.Equal(t, StatusNoResult, out.Status)
}

func TestAggregateUnknownProfile(t *testing.T) {
	_, err := NewEngine().Aggregate(forward("lums", "business", nil))
	assert.True(t, errors.Is(err, catalog.ErrUnknownProfile))

	_, err = NewEngine().RequiredScore(Request{Institution: "nust", Variant: "medicine", Target: ptr(80)})
	assert.True(t, errors.Is(err, catalog.ErrUnknownProfile))
}

func TestAggregateAwaited(t *testing.T) {
	inputs := map[catalog.Role]Input{
		catalog.RoleSecondary:       Marks(1000, 1100),
		catalog.RoleHigherSecondary: Marks(500, 1100), // first-year marks only
		catalog.RoleEntranceTest:    Score(150),
	}
	e := NewEngine()

	plain, err := e.Aggregate(forward("nust", "engineering", inputs))
	require.NoError(t, err)

	req := forward("nust", "engineering", inputs)
	req.Awaited = true
	awaited, err := e.Aggregate(req)
	require.NoError(t, err)

	assert.InDelta(t, 500.0/550*15, awaited.Terms[1].Contribution, 1e-9)
	assert.Greater(t, *awaited.Aggregate, *plain.Aggregate)

	// FAST ignores awaited status.
	fastInputs := map[catalog.Role]Input{
		catalog.RoleSecondary:       Marks(890, 1000),
		catalog.RoleHigherSecondary: Marks(425, 1100),
	}
	a, _ := e.Aggregate(forward("fast", "computing", fastInputs))
	req = forward("fast", "computing", fastInputs)
	req.Awaited = true
	b, _ := e.Aggregate(req)
	assert.Equal(t, *a.Aggregate, *b.Aggregate)
}

func TestAggregateCallerTotalWins(t *testing.T) {
	out, err := NewEngine().Aggregate(forward("nust", "engineering", map[catalog.Role]Input{
		catalog.RoleSecondary:    Marks(1100, 1100),
		catalog.RoleEntranceTest: Marks(100, 100),
	}))
	require.NoError(t, err)
	assert.Equal(t, 85.0, *out.Aggregate)
}

func TestAggregateArchitectureWithoutAptitude(t *testing.T) {
	out, err := NewEngine().Aggregate(forward("nust", "architecture", map[catalog.Role]Input{
		catalog.RoleSecondary:       Marks(1100, 1100),
		catalog.RoleHigherSecondary: Marks(1100, 1100),
		catalog.RoleEntranceTest:    Score(200),
	}))
	require.NoError(t, err)
	require.Equal(t, StatusOK, out.Status)
	assert.Equal(t, 50.0, *out.Aggregate)
	assert.True(t, out.Terms[3].Excluded)
}

func TestRequiredScoreScenario(t *testing.T) {
	out, err := NewEngine().RequiredScore(Request{
		Institution: "uet",
		Variant:     "engineering",
		Mode:        ModeTarget,
		Inputs: map[catalog.Role]Input{
			catalog.RoleSecondary:       Marks(950, 1100),
			catalog.RoleHigherSecondary: Marks(900, 1100),
		},
		Target: ptr(85),
	})
	require.NoError(t, err)
	require.Equal(t, StatusOK, out.Status)
	require.NotNil(t, out.RequiredScore)
	assert.Equal(t, 354.5, *out.RequiredScore)
	assert.Equal(t, 400.0, out.MaxScore)
	assert.Equal(t, 85.0, *out.Target)
	assert.True(t, out.Terms[2].Solved)
	assert.Nil(t, out.Aggregate)
}

func TestRequiredScoreIgnoresSolveForInput(t *testing.T) {
	base := Request{
		Institution: "uet",
		Variant:     "engineering",
		Inputs: map[catalog.Role]Input{
			catalog.RoleSecondary:       Marks(950, 1100),
			catalog.RoleHigherSecondary: Marks(900, 1100),
		},
		Target: ptr(85),
	}
	a, err := NewEngine().RequiredScore(base)
	require.NoError(t, err)

	base.Inputs[catalog.RoleEntranceTest] = Marks(400, 400)
	b, err := NewEngine().RequiredScore(base)
	require.NoError(t, err)
	assert.Equal(t, *a.RequiredScore, *b.RequiredScore)
}

func TestRequiredScoreStates(t *testing.T) {
	tests := []struct {
		name   string
		inputs map[catalog.Role]Input
		target *float64
		status Status
	}{
		{
			name: "achieved by known components",
			inputs: map[catalog.Role]Input{
				catalog.RoleSecondary:       Marks(1100, 1100),
				catalog.RoleHigherSecondary: Marks(1100, 1100),
			},
			target: ptr(50),
			status: StatusAchieved,
		},
		{
			name: "unreachable",
			inputs: map[catalog.Role]Input{
				catalog.RoleSecondary:       Marks(550, 1100),
				catalog.RoleHigherSecondary: Marks(550, 1100),
			},
			target: ptr(99),
			status: StatusUnreachable,
		},
		{
			name: "exactly the maximum is still ok",
			inputs: map[catalog.Role]Input{
				catalog.RoleSecondary:       Marks(1100, 1100),
				catalog.RoleHigherSecondary: Marks(1100, 1100),
			},
			target: ptr(100),
			status: StatusOK,
		},
		{
			name: "exactly zero is still ok",
			inputs: map[catalog.Role]Input{
				catalog.RoleSecondary:       Marks(1100, 1100),
				catalog.RoleHigherSecondary: Marks(1100, 1100),
			},
			target: ptr(70),
			status: StatusOK,
		},
		{
			name: "no target",
			inputs: map[catalog.Role]Input{
				catalog.RoleSecondary: Marks(1100, 1100),
			},
			status: StatusNoResult,
		},
		{
			name: "non-finite target",
			inputs: map[catalog.Role]Input{
				catalog.RoleSecondary: Marks(1100, 1100),
			},
			target: ptr(math.Inf(1)),
			status: StatusNoResult,
		},
		{
			name: "primary missing",
			inputs: map[catalog.Role]Input{
				catalog.RoleHigherSecondary: Marks(1100, 1100),
			},
			target: ptr(80),
			status: StatusNoResult,
		},
	}
	e := NewEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := e.RequiredScore(Request{Institution: "uet", Variant: "engineering", Inputs: tt.inputs, Target: tt.target})
			require.NoError(t, err)
			assert.Equal(t, tt.status, out.Status)
			if tt.status == StatusNoResult {
				assert.Nil(t, out.RequiredScore)
			} else {
				assert.NotNil(t, out.RequiredScore)
			}
		})
	}
}

func TestRequiredScoreSolveForMustBeFixedScale(t *testing.T) {
	out, err := NewEngine().RequiredScore(Request{
		Institution: "uet",
		Variant:     "engineering",
		Inputs:      map[catalog.Role]Input{catalog.RoleSecondary: Marks(1000, 1100)},
		Target:      ptr(80),
		SolveFor:    catalog.RoleHigherSecondary,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusNoResult, out.Status)
}

func TestRequiredScoreSolvesAptitude(t *testing.T) {
	out, err := NewEngine().RequiredScore(Request{
		Institution: "nust",
		Variant:     "architecture",
		Inputs: map[catalog.Role]Input{
			catalog.RoleSecondary:       Marks(1100, 1100),
			catalog.RoleHigherSecondary: Marks(1100, 1100),
			catalog.RoleEntranceTest:    Score(200),
		},
		Target:   ptr(75),
		SolveFor: catalog.RoleAptitude,
	})
	require.NoError(t, err)
	require.Equal(t, StatusOK, out.Status)
	assert.Equal(t, 50.0, *out.RequiredScore)
	assert.Equal(t, 100.0, out.MaxScore)
}

// Solving for the test score and feeding it back must land on the target.
func TestTargetForwardRoundTrip(t *testing.T) {
	e := NewEngine()
	for _, f := range catalog.Families() {
		for _, p := range f.Profiles {
			for _, target := range []float64{55, 68.5, 80, 91.25} {
				inputs := map[catalog.Role]Input{}
				for _, c := range p.Components {
					if c.Role != p.SolveFor && c.Scale == 0 {
						inputs[c.Role] = Marks(820, 1100)
					} else if c.Role != p.SolveFor {
						inputs[c.Role] = Score(c.Scale * 0.7)
					}
				}
				out, err := e.RequiredScore(Request{Institution: f.Code, Variant: p.Variant, Inputs: inputs, Target: ptr(target)})
				require.NoError(t, err)
				if out.Status != StatusOK {
					continue
				}
				inputs[p.SolveFor] = Score(*out.RequiredScore)
				back, err := e.Aggregate(forward(f.Code, p.Variant, inputs))
				require.NoError(t, err)
				assert.InDelta(t, target, *back.Aggregate, 0.05, "%s/%s target %v", f.Code, p.Variant, target)
			}
		}
	}
}

func TestAggregateMonotonic(t *testing.T) {
	e := NewEngine()
	prev := -1.0
	for score := 0.0; score <= 400; score += 10 {
		out, err := e.Aggregate(forward("uet", "engineering", map[catalog.Role]Input{
			catalog.RoleSecondary:       Marks(900, 1100),
			catalog.RoleHigherSecondary: Marks(800, 1100),
			catalog.RoleEntranceTest:    Score(score),
		}))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, *out.Aggregate, prev)
		prev = *out.Aggregate
	}
}

func TestEngineIdempotentAndConcurrent(t *testing.T) {
	e := NewEngine()
	req := forward("fast", "engineering", map[catalog.Role]Input{
		catalog.RoleSecondary:       Marks(890, 1000),
		catalog.RoleHigherSecondary: Marks(850, 1000),
		catalog.RoleEntranceTest:    Score(78),
	})
	first, err := e.Aggregate(req)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := e.Aggregate(req)
			assert.NoError(t, err)
			assert.Equal(t, *first.Aggregate, *out.Aggregate)
		}()
	}
	wg.Wait()
}

func TestWithResolver(t *testing.T) {
	custom := catalog.Profile{
		Institution: "demo",
		Variant:     "x",
		Components: []catalog.Component{
			{Role: catalog.RoleSecondary, Weight: 40, Qualification: true},
			{Role: catalog.RoleEntranceTest, Weight: 60, Scale: 50},
		},
		Primary:  catalog.RoleSecondary,
		SolveFor: catalog.RoleEntranceTest,
	}
	e := NewEngine(WithResolver(ResolverFunc(func(string, string) (catalog.Profile, error) {
		return custom, nil
	})))
	out, err := e.Aggregate(forward("demo", "x", map[catalog.Role]Input{
		catalog.RoleSecondary:    Marks(50, 100),
		catalog.RoleEntranceTest: Score(25),
	}))
	require.NoError(t, err)
	assert.Equal(t, 50.0, *out.Aggregate)
}

func FuzzAggregate(f *testing.F) {
	f.Add(890.0, 1000.0, 850.0, 1000.0, 78.0, false)
	f.Add(0.0, 0.0, -1.0, 1100.0, 500.0, true)
	f.Add(1e6, 1.0, 3.0, 0.0, -40.0, false)

	e := NewEngine()
	f.Fuzz(func(t *testing.T, so, st, ho, ht, test float64, awaited bool) {
		for _, v := range []float64{so, st, ho, ht, test} {
			if a := math.Abs(v); a > 1e9 || (a != 0 && a < 1e-9) {
				t.Skip()
			}
		}
		req := forward("nust", "engineering", map[catalog.Role]Input{
			catalog.RoleSecondary:       Marks(so, st),
			catalog.RoleHigherSecondary: Marks(ho, ht),
			catalog.RoleEntranceTest:    Score(test),
		})
		req.Awaited = awaited
		out, err := e.Aggregate(req)
		require.NoError(t, err)
		switch out.Status {
		case StatusOK:
			require.NotNil(t, out.Aggregate)
			assert.False(t, math.IsNaN(*out.Aggregate) || math.IsInf(*out.Aggregate, 0))
		case StatusNoResult:
			assert.Nil(t, out.Aggregate)
		default:
			t.Fatalf("unexpected forward status %q", out.Status)
		}
	})
}

func BenchmarkAggregate(b *testing.B) {
	e := NewEngine()
	req := forward("uet", "engineering", map[catalog.Role]Input{
		catalog.RoleSecondary:       Marks(950, 1100),
		catalog.RoleHigherSecondary: Marks(900, 1100),
		catalog.RoleEntranceTest:    Marks(280, 400),
	})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = e.Aggregate(req)
	}
}
