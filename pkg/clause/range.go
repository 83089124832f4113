package clause

import "strconv"

// MaxRangeExpansion caps how many discrete values ExpandIntRange will ever
// produce, guarding against a pathological range like "0..9999999999".
const MaxRangeExpansion = 10000

// ExpandIntRange enumerates every integer between lo and hi (inclusive, in
// either direction) as decimal strings, used by the Native and SWISH
// dialects to render a ".."/"!.." range as a flat list (spec §8's
// `date=(1..10)` -> `date=(1 2 3 ... 10)`, and spec §4.5's SWISH
// "expand numeric ranges as (v1 OR v2 OR …)"). ok is false if either bound
// is not a plain base-10 integer, or the span exceeds MaxRangeExpansion.
func ExpandIntRange(lo, hi string) (values []string, ok bool) {
	a, err := strconv.Atoi(lo)
	if err != nil {
		return nil, false
	}
	b, err := strconv.Atoi(hi)
	if err != nil {
		return nil, false
	}
	step := 1
	if a > b {
		step = -1
	}
	n := b - a
	if n < 0 {
		n = -n
	}
	if n+1 > MaxRangeExpansion {
		return nil, false
	}
	out := make([]string, 0, n+1)
	for v := a; ; v += step {
		out = append(out, strconv.Itoa(v))
		if v == b {
			break
		}
	}
	return out, true
}
