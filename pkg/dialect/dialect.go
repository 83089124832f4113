// Package dialect holds the serializer registry that pkg/dialects/* plug
// into via init(), mirroring the registration idiom of the teacher's
// pkg/dialect/registry.go (a mutex-guarded map keyed by name) without
// carrying over its inheritable Dialect/Builder tree — squery dialects are
// one-shot Renderer values, not a parent-chained configuration object, so
// a flat registry is all the concern needs.
package dialect

import (
	"sort"
	"sync"

	"github.com/parsekit/squery/pkg/clause"
	"github.com/samber/oops"
)

// Serializer renders a Tree into its dialect's query text. It is the same
// shape as clause.Renderer; dialect implementations depend on this
// package (for Register) rather than reaching into clause directly.
type Serializer = clause.Renderer

var (
	mu       sync.RWMutex
	registry = map[clause.DialectID]Serializer{}
)

// Register installs s as the serializer for id, overwriting any existing
// entry. Dialect packages call this from their init().
func Register(id clause.DialectID, s Serializer) {
	mu.Lock()
	defer mu.Unlock()
	registry[id] = s
}

// Get returns the serializer registered for id, if any.
func Get(id clause.DialectID) (Serializer, bool) {
	mu.RLock()
	defer mu.RUnlock()
	s, ok := registry[id]
	return s, ok
}

// List returns every registered dialect id, sorted.
func List() []clause.DialectID {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]clause.DialectID, 0, len(registry))
	for id := range registry {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func unknownDialect(id clause.DialectID) error {
	return oops.In("squery").
		Code("DIALECT_ERROR").
		With("dialect", string(id)).
		Errorf("unknown dialect %q", id)
}

// Render serializes t using the serializer registered for t.Dialect. If
// t.Options.CroakOnError is set (spec §6 query_class_opts.croak_on_error),
// a dialect-time error panics instead of being returned, mirroring
// MustNew/MustGlobValidator's panic-on-error idiom at the parser/field
// layer.
func Render(t *clause.Tree) (string, error) {
	s, ok := Get(t.Dialect)
	if !ok {
		return croak(t, unknownDialect(t.Dialect))
	}
	out, err := s.Render(t)
	if err != nil {
		return croak(t, err)
	}
	return out, nil
}

// TranslateTo retargets a clone of t at a different dialect, ready for a
// subsequent Render call (spec §9 "translate_to"). Since a dialect is
// just an attribute a Tree carries rather than a structural shape the
// clauses themselves take, translation needs no per-clause conversion —
// only a registered serializer for the destination id.
func TranslateTo(t *clause.Tree, id clause.DialectID) (*clause.Tree, error) {
	if _, ok := Get(id); !ok {
		return croakTree(t, unknownDialect(id))
	}
	out := t.Clone()
	out.Dialect = id
	return out, nil
}

// croak returns err as-is unless t.Options.CroakOnError is set, in which
// case it panics.
func croak(t *clause.Tree, err error) (string, error) {
	if t.Options.CroakOnError {
		panic(err)
	}
	return "", err
}

func croakTree(t *clause.Tree, err error) (*clause.Tree, error) {
	if t.Options.CroakOnError {
		panic(err)
	}
	return nil, err
}
