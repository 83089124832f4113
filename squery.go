// Package squery is a polyglot search-query parser: it turns a compact
// query string into a boolean must/should/must-not tree and serializes
// that tree back out in one of several target dialects (native debug
// form, a SQL WHERE fragment, or SWISH-E syntax).
//
// This file is the single-import facade most callers need; the
// pkg/clause, pkg/field, pkg/parser and pkg/dialect packages remain
// independently usable for callers building their own dialect or
// embedding the parser in a larger configuration system.
package squery

import (
	"github.com/parsekit/squery/pkg/clause"
	"github.com/parsekit/squery/pkg/dialect"
	_ "github.com/parsekit/squery/pkg/dialects/native"
	_ "github.com/parsekit/squery/pkg/dialects/sqlquery"
	_ "github.com/parsekit/squery/pkg/dialects/swish"
	"github.com/parsekit/squery/pkg/field"
	"github.com/parsekit/squery/pkg/parser"
)

// Type aliases re-exporting the pieces most callers touch, so `squery.X`
// is enough without separately importing pkg/clause and pkg/parser.
type (
	Tree       = clause.Tree
	Clause     = clause.Clause
	Op         = clause.Op
	DialectID  = clause.DialectID
	Options    = clause.Options
	FieldSpec  = clause.FieldSpec
	Registry   = field.Registry
	Descriptor = field.Descriptor
	FieldType  = field.Type
	Config     = parser.Config
	Parser     = parser.Parser
)

// Dialect id constants.
const (
	Native = clause.Native
	SQL    = clause.SQL
	Swish  = clause.Swish
)

// Operator constants.
const (
	OpContains = clause.OpContains
	OpEq       = clause.OpEq
	OpEqEq     = clause.OpEqEq
	OpNe       = clause.OpNe
	OpLt       = clause.OpLt
	OpLe       = clause.OpLe
	OpGt       = clause.OpGt
	OpGe       = clause.OpGe
	OpRegex    = clause.OpRegex
	OpNotRegex = clause.OpNotRegex
	OpApprox   = clause.OpApprox
	OpHash     = clause.OpHash
	OpRange    = clause.OpRange
	OpNegRange = clause.OpNegRange
	OpGroup    = clause.OpGroup
)

// Field type constants.
const (
	Char  = field.Char
	Int   = field.Int
	Float = field.Float
	Bool  = field.Bool
	Date  = field.Date
	Time  = field.Time
)

// New builds a Parser from cfg (spec §6).
func New(cfg Config) (*Parser, error) {
	return parser.New(cfg)
}

// MustNew is New for callers with a compile-time-known configuration; it
// panics on a malformed one (e.g. an alias pointing at an undefined
// field) instead of threading an error back.
func MustNew(cfg Config) *Parser {
	p, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return p
}

// Render serializes t using the serializer registered for t.Dialect.
func Render(t *Tree) (string, error) {
	return dialect.Render(t)
}

// TranslateTo retargets a clone of t at a different dialect.
func TranslateTo(t *Tree, id DialectID) (*Tree, error) {
	return dialect.TranslateTo(t, id)
}

// BuildFromNames builds a field registry where every name is a plain Char
// field with no aliasing.
func BuildFromNames(names ...string) *Registry {
	return field.BuildFromNames(names...)
}

// NewRegistry builds an empty, mutable field registry.
func NewRegistry() *Registry {
	return field.NewRegistry()
}
