package aggregate

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Input is one raw obtained/total pair. A nil field is absent.
type Input struct {
	Obtained *float64 `json:"obtained,omitempty"`
	Total    *float64 `json:"total,omitempty"`
}

// Marks builds a fully populated Input.
func Marks(obtained, total float64) Input {
	return Input{Obtained: &obtained, Total: &total}
}

// Score builds an Input with only the obtained marks; fixed-scale roles
// take their total from the profile.
func Score(obtained float64) Input {
	return Input{Obtained: &obtained}
}

// Normalize returns obtained/total. ok is false (the component is excluded)
// when either side is absent or not finite, or when total is zero.
// Ratios outside [0,1] pass through so warnings can flag impossible input.
func Normalize(in Input) (ratio float64, ok bool) {
	if in.Obtained == nil || in.Total == nil {
		return 0, false
	}
	o, t := *in.Obtained, *in.Total
	if !finite(o) || !finite(t) || t == 0 {
		return 0, false
	}
	r := o / t
	if !finite(r) {
		return 0, false
	}
	return r, true
}

// UnmarshalJSON is deliberately forgiving: form fields arrive mid-typing as
// numbers, numeric strings, nulls or garbage. Anything that does not parse
// to a finite number becomes absent instead of failing the request.
//
//	{"obtained": 890, "total": "1000"}   object form
//	[890, 1000]                          pair form
//	"78"                                 obtained only
func (in *Input) UnmarshalJSON(data []byte) error {
	*in = Input{}
	res := gjson.ParseBytes(data)
	switch {
	case res.IsObject():
		in.Obtained = looseNumber(res.Get("obtained"))
		in.Total = looseNumber(res.Get("total"))
	case res.IsArray():
		arr := res.Array()
		if len(arr) > 0 {
			in.Obtained = looseNumber(arr[0])
		}
		if len(arr) > 1 {
			in.Total = looseNumber(arr[1])
		}
	default:
		in.Obtained = looseNumber(res)
	}
	return nil
}

func looseNumber(r gjson.Result) *float64 {
	var v float64
	switch r.Type {
	case gjson.Number:
		v = r.Num
	case gjson.String:
		f, ok := ParseMark(r.Str)
		if !ok {
			return nil
		}
		v = f
	default:
		return nil
	}
	if !finite(v) {
		return nil
	}
	return &v
}

// ParseMark reads a single mark leniently ("  78 ", "78 marks").
func ParseMark(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil && finite(v) {
		return v, true
	}
	if sp := strings.Fields(s); len(sp) > 0 {
		if v, err := strconv.ParseFloat(sp[0], 64); err == nil && finite(v) {
			return v, true
		}
	}
	return 0, false
}

// ParseInput reads "obtained/total" or a bare "obtained". Unparsable halves
// are left absent.
func ParseInput(s string) Input {
	var in Input
	obtained, total, hasTotal := strings.Cut(s, "/")
	if v, ok := ParseMark(obtained); ok {
		in.Obtained = &v
	}
	if hasTotal {
		if v, ok := ParseMark(total); ok {
			in.Total = &v
		}
	}
	return in
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Round rounds half away from zero to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow10(places)
	r := math.Round(v*p) / p
	if r == 0 {
		return 0 // no "-0"
	}
	return r
}
