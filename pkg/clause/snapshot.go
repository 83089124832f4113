package clause

// Record is the plain structural copy of a Clause produced by tree()
// (spec §4.4): "a plain data snapshot for round-trip tests and inter-
// dialect translation". Unlike Clause it holds no back-reference and its
// Sub, if any, is itself a Snapshot (map of bucket key to Records), so two
// Records are directly comparable with reflect.DeepEqual / testify's
// assert.Equal.
type Record struct {
	Field     string
	Op        Op
	Scalar    string
	Range     *[2]string
	Quote     byte
	Proximity *int
	Sub       Snapshot
}

// Snapshot is the plain-data shape `tree()` returns: the three bucket keys
// mapped to their ordered clause records. A nil slice and an absent key are
// both valid ways to spell "this bucket is empty" (spec §3: "no bucket is
// required to be present").
type Snapshot map[string][]Record

// Snapshot returns a plain structural copy of t with no cross-references
// back into t or into the parser that built it (spec §4.4 `tree()`).
func (t *Tree) Snapshot() Snapshot {
	if t == nil {
		return nil
	}
	snap := make(Snapshot, 3)
	if recs := snapshotClauses(t.Must); recs != nil {
		snap["+"] = recs
	}
	if recs := snapshotClauses(t.Should); recs != nil {
		snap[""] = recs
	}
	if recs := snapshotClauses(t.MustNot); recs != nil {
		snap["-"] = recs
	}
	return snap
}

func snapshotClauses(cs []*Clause) []Record {
	if len(cs) == 0 {
		return nil
	}
	out := make([]Record, len(cs))
	for i, c := range cs {
		r := Record{
			Field:  c.Field,
			Op:     c.Op,
			Scalar: c.Scalar,
			Quote:  c.Quote,
		}
		if c.Range != nil {
			rg := *c.Range
			r.Range = &rg
		}
		if c.Proximity != nil {
			p := *c.Proximity
			r.Proximity = &p
		}
		if c.Sub != nil {
			r.Sub = c.Sub.Snapshot()
		}
		out[i] = r
	}
	return out
}
