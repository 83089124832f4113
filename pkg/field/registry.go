package field

import (
	"github.com/parsekit/squery/pkg/clause"
	"github.com/samber/oops"
)

// Registry is a name -> Descriptor mapping owned by the parser
// configuration (spec §3 "Field registry"). Order is preserved so the SQL
// dialect's "expand to all fields" behavior (spec §4.5) is deterministic.
type Registry struct {
	order []string
	byName map[string]*Descriptor
	defaultField string
	hasDefault   bool
}

// NewRegistry builds an empty, mutable registry. Use Add to register
// fields, or one of the Build* helpers to construct one from a string
// list or map in a single call, mirroring spec §3's "When the string form
// is given (array of names or map of name->spec), it is normalized into
// descriptor objects at configuration time."
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Descriptor)}
}

// BuildFromNames builds a registry where every name is a plain Char field
// with no aliasing (the "array of names" form from spec §3).
func BuildFromNames(names ...string) *Registry {
	r := NewRegistry()
	for _, n := range names {
		r.Add(NewDescriptor(n))
	}
	return r
}

// BuildFromSpecs builds a registry from a name -> options map (the "map of
// name->spec" form from spec §3); insertion order follows names to keep
// output deterministic since Go map iteration is not ordered.
func BuildFromSpecs(names []string, specs map[string][]Option) *Registry {
	r := NewRegistry()
	for _, n := range names {
		d := NewDescriptor(n)
		for _, opt := range specs[n] {
			opt(d)
		}
		r.Add(d)
	}
	return r
}

// Add registers a descriptor, overwriting any existing entry with the
// same (case-insensitive) name while preserving its original position.
func (r *Registry) Add(d *Descriptor) *Registry {
	key := normalize(d.Name)
	if _, exists := r.byName[key]; !exists {
		r.order = append(r.order, key)
	}
	r.byName[key] = d
	return r
}

// SetDefaultField configures the field injected for fieldless terms (spec
// §6 `default_field`).
func (r *Registry) SetDefaultField(name string) *Registry {
	r.defaultField = name
	r.hasDefault = name != ""
	return r
}

// Get returns the descriptor for name, if registered.
func (r *Registry) Get(name string) (*Descriptor, bool) {
	d, ok := r.byName[normalize(name)]
	return d, ok
}

// Lookup implements clause.FieldLookup, returning the minimal shape
// dialects need without forcing them to import this package's full
// Descriptor/Validator surface.
func (r *Registry) Lookup(name string) (clause.FieldSpec, bool) {
	d, ok := r.Get(name)
	if !ok {
		return clause.FieldSpec{}, false
	}
	return clause.FieldSpec{Name: d.Name, AliasFor: d.AliasFor, IsNumeric: d.Type.IsNumeric()}, true
}

// Names returns every registered field name in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	for i, key := range r.order {
		out[i] = r.byName[key].Name
	}
	return out
}

// All returns every registered descriptor in registration order.
func (r *Registry) All() []*Descriptor {
	out := make([]*Descriptor, len(r.order))
	for i, key := range r.order {
		out[i] = r.byName[key]
	}
	return out
}

// DefaultField implements clause.FieldLookup.
func (r *Registry) DefaultField() (string, bool) {
	if r == nil {
		return "", false
	}
	return r.defaultField, r.hasDefault
}

// Validate returns a CONFIG_ERROR when a registry is malformed at
// construction time (spec §7.4), e.g. an alias target that is itself
// never defined.
func (r *Registry) Validate() error {
	for _, d := range r.All() {
		for _, alias := range d.AliasFor {
			if _, ok := r.Get(alias); !ok {
				return oops.In("squery").
					Code("CONFIG_ERROR").
					With("field", d.Name).
					With("alias_for", alias).
					Errorf("field %q aliases unknown field %q", d.Name, alias)
			}
		}
	}
	return nil
}
