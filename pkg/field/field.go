// Package field implements the field descriptor and registry (spec §3
// "Field descriptor", "Field registry") that pkg/parser's alias expander
// and pkg/dialect's serializers validate and look up fields against.
package field

import (
	"strings"

	"github.com/samber/oops"
)

// Type classifies a field's value domain (spec §3). Numeric families
// disable quoting and forbid wildcards in ranges when a dialect renders
// them.
type Type int

// Field type constants.
const (
	// Char is free text.
	Char Type = iota
	Int
	Float
	Bool
	Date
	Time
)

// IsNumeric reports whether t is one of the numeric families that a
// dialect should render unquoted and without wildcard ranges.
func (t Type) IsNumeric() bool {
	switch t {
	case Int, Float, Date, Time:
		return true
	default:
		return false
	}
}

func (t Type) String() string {
	switch t {
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case Date:
		return "date"
	case Time:
		return "time"
	default:
		return "char"
	}
}

// Validator checks a candidate value for a field. A nil error means the
// value is acceptable. The default validator (spec §3: "validator:
// default accepts all") accepts everything.
type Validator func(value string) error

// CallbackFunc rewrites a clause at serialization time; its return value
// is used verbatim by the dialect in place of the clause's normal
// rendering (spec §4.5 "If the field defines a callback, its return
// replaces the rendered clause entirely").
type CallbackFunc func(field, op, value string) (string, error)

// Descriptor is the metadata the parser/dialects need for one searchable
// field (spec §3 "Field descriptor").
type Descriptor struct {
	Name     string
	AliasFor []string // absent, a single name, or several (fan-out)
	Type     Type
	Callback CallbackFunc
	Validator Validator
}

func acceptAll(string) error { return nil }

// NewDescriptor returns a Descriptor with the default accept-all
// validator and Char type, ready for Option application.
func NewDescriptor(name string) *Descriptor {
	return &Descriptor{Name: name, Type: Char, Validator: acceptAll}
}

// Option configures a Descriptor when building a Registry from a spec map
// (see NewRegistry).
type Option func(*Descriptor)

// AliasFor marks this field as an alias for one or more canonical names. A
// single name renames the leaf in place at expansion time; two or more
// fan the leaf out into an OR of one leaf per alias (spec §4.3).
func AliasFor(names ...string) Option {
	return func(d *Descriptor) { d.AliasFor = append(d.AliasFor, names...) }
}

// WithType sets the field's value type.
func WithType(t Type) Option {
	return func(d *Descriptor) { d.Type = t }
}

// WithCallback installs a per-field serialization rewrite hook.
func WithCallback(cb CallbackFunc) Option {
	return func(d *Descriptor) { d.Callback = cb }
}

// WithValidator installs a value validator, replacing the accept-all
// default.
func WithValidator(v Validator) Option {
	return func(d *Descriptor) {
		if v != nil {
			d.Validator = v
		}
	}
}

// Validate runs the field's validator, wrapping a rejection into the
// spec §4.3 error shape: "Invalid field value for <name>: <value> (<detail>)".
func (d *Descriptor) Validate(value string) error {
	if d.Validator == nil {
		return nil
	}
	if err := d.Validator(value); err != nil {
		return oops.In("squery").
			Code("FIELD_ERROR").
			With("field", d.Name).
			With("value", value).
			Errorf("Invalid field value for %s: %s (%s)", d.Name, value, err)
	}
	return nil
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
