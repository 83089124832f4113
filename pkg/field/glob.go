package field

import (
	"github.com/gobwas/glob"
	"github.com/samber/oops"
)

// GlobValidator compiles pattern once and returns a Validator that accepts
// a value only if it matches the glob. This is the common case for a
// field descriptor's validator (spec §3 "validator") — e.g. restricting a
// `sku` field to `SKU-*` — without every caller writing their own glob
// matcher, grounded on the same compiled-glob-cache idiom used for policy
// matching elsewhere in the pack (gobwas/glob).
func GlobValidator(pattern string) (Validator, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, oops.In("squery").
			Code("CONFIG_ERROR").
			With("pattern", pattern).
			Wrap(err)
	}
	return func(value string) error {
		if !g.Match(value) {
			return oops.Errorf("does not match pattern %q", pattern)
		}
		return nil
	}, nil
}

// MustGlobValidator is GlobValidator for callers constructing field
// registries from compile-time-known literal patterns; it panics on a
// malformed pattern instead of threading an error back.
func MustGlobValidator(pattern string) Validator {
	v, err := GlobValidator(pattern)
	if err != nil {
		panic(err)
	}
	return v
}
