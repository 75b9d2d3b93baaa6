package aggregate

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		in    Input
		ratio float64
		ok    bool
	}{
		{"plain", Marks(890, 1000), 0.89, true},
		{"zero obtained", Marks(0, 1100), 0, true},
		{"over total passes through", Marks(1200, 1100), 1200.0 / 1100, true},
		{"negative passes through", Marks(-5, 100), -0.05, true},
		{"zero total", Marks(50, 0), 0, false},
		{"missing total", Score(50), 0, false},
		{"missing obtained", Input{}, 0, false},
		{"nan", Marks(math.NaN(), 100), 0, false},
		{"inf total", Marks(10, math.Inf(1)), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := Normalize(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.ratio, r, 1e-12)
		})
	}
}

func TestInputUnmarshalJSON(t *testing.T) {
	var got map[string]Input
	raw := `{
		"object":  {"obtained": 890, "total": "1000"},
		"pair":    [950, 1100],
		"bare":    "78",
		"number":  120.5,
		"garbage": {"obtained": "abc", "total": 1000},
		"null":    null,
		"words":   {"obtained": " 78 marks "}
	}`
	require.NoError(t, json.Unmarshal([]byte(raw), &got))

	check := func(key string, obtained, total *float64) {
		t.Helper()
		in := got[key]
		assert.Equal(t, obtained, in.Obtained, key+" obtained")
		assert.Equal(t, total, in.Total, key+" total")
	}
	f := func(v float64) *float64 { return &v }

	check("object", f(890), f(1000))
	check("pair", f(950), f(1100))
	check("bare", f(78), nil)
	check("number", f(120.5), nil)
	check("garbage", nil, f(1000))
	check("null", nil, nil)
	check("words", f(78), nil)
}

func TestParseInput(t *testing.T) {
	in := ParseInput(" 890 / 1000 ")
	require.NotNil(t, in.Obtained)
	require.NotNil(t, in.Total)
	assert.Equal(t, 890.0, *in.Obtained)
	assert.Equal(t, 1000.0, *in.Total)

	in = ParseInput("78")
	require.NotNil(t, in.Obtained)
	assert.Nil(t, in.Total)

	in = ParseInput("x/1000")
	assert.Nil(t, in.Obtained)
	assert.NotNil(t, in.Total)

	_, ok := ParseMark("NaN")
	assert.False(t, ok)
	_, ok = ParseMark("")
	assert.False(t, ok)
}

func TestRound(t *testing.T) {
	assert.Equal(t, 0.13, Round(0.125, 2))
	assert.Equal(t, -0.13, Round(-0.125, 2))
	assert.Equal(t, 354.5, Round(354.545, 1))
	assert.Equal(t, 81.9, Round(81.9, 2))
	assert.False(t, math.Signbit(Round(-0.001, 2)), "negative zero must not leak")
}
