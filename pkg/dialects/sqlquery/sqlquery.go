// Package sqlquery implements squery's SQL WHERE-fragment serialization
// (spec §C7): must/should/mustnot become AND/OR/NOT-AND groups, field
// operators map onto SQL comparison and LIKE operators, and numeric
// fields render unquoted with no wildcard support.
package sqlquery

import (
	"strings"

	"github.com/parsekit/squery/pkg/clause"
	"github.com/parsekit/squery/pkg/dialect"
	"github.com/parsekit/squery/pkg/field"
	"github.com/samber/oops"
)

func init() {
	dialect.Register(clause.SQL, serializer{})
}

type serializer struct{}

const (
	defaultWildcard      = "*"
	defaultLike          = "ILIKE"
	defaultFuzzyOp       = "ILIKE"
	defaultFuzzyNotOp    = "NOT ILIKE"
	defaultFuzzyNumOp    = ">="
	defaultFuzzyNumNotOp = "<"
)

func (serializer) Render(t *clause.Tree) (string, error) {
	return renderTree(t)
}

func renderTree(t *clause.Tree) (string, error) {
	var parts []string

	if len(t.Must) > 0 {
		items, err := renderEach(t.Must, t, false)
		if err != nil {
			return "", err
		}
		parts = append(parts, strings.Join(items, " AND "))
	}
	if len(t.Should) > 0 {
		items, err := renderEach(t.Should, t, false)
		if err != nil {
			return "", err
		}
		if len(items) == 1 {
			parts = append(parts, items[0])
		} else {
			parts = append(parts, "("+strings.Join(items, " OR ")+")")
		}
	}
	if len(t.MustNot) > 0 {
		// spec §4.5: "-" -> AND (with operator negation) — each clause's
		// own comparison operator flips rather than the group being
		// wrapped in a bucket-wide NOT(...), mirroring how the SWISH
		// dialect negates must-not leaves inline (pkg/dialects/swish).
		items, err := renderEach(t.MustNot, t, true)
		if err != nil {
			return "", err
		}
		parts = append(parts, strings.Join(items, " AND "))
	}
	return strings.Join(parts, " AND "), nil
}

func renderEach(cs []*clause.Clause, t *clause.Tree, negate bool) ([]string, error) {
	out := make([]string, len(cs))
	for i, c := range cs {
		s, err := renderClause(c, t, negate)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func registryOf(t *clause.Tree) *field.Registry {
	r, _ := t.Fields.(*field.Registry)
	return r
}

func renderClause(c *clause.Clause, t *clause.Tree, negate bool) (string, error) {
	if c.IsGroup() {
		inner, err := renderTree(c.Sub)
		if err != nil {
			return "", err
		}
		// A nested subtree has no single comparison operator to flip, so
		// must-not placement on a group clause falls back to wrapping it
		// (there is nothing else spec §4.5 describes for this case).
		if negate {
			return "NOT (" + inner + ")", nil
		}
		return "(" + inner + ")", nil
	}

	reg := registryOf(t)

	if c.Field == "" {
		return renderAllFields(c, t, reg, negate)
	}

	numeric := false
	if reg != nil {
		if d, ok := reg.Get(c.Field); ok {
			numeric = d.Type.IsNumeric()
			if d.Callback != nil {
				op, value := rawOpValue(c)
				return d.Callback(c.Field, op, value)
			}
		}
	}
	return renderOne(c.Field, c, t.Options, numeric, negate)
}

func rawOpValue(c *clause.Clause) (string, string) {
	if c.Range != nil {
		return string(c.Op), c.Range[0] + ".." + c.Range[1]
	}
	return string(c.Op), c.Scalar
}

// renderAllFields expands a fieldless clause to every registered field,
// OR-joined (spec §4.5 "no field ... expand to all fields"). Under must-not
// negation this becomes an AND of negated per-field comparisons (De
// Morgan's NOT(A OR B) == NOT A AND NOT B): the value must be absent from
// every field, not merely absent from at least one.
func renderAllFields(c *clause.Clause, t *clause.Tree, reg *field.Registry, negate bool) (string, error) {
	join := " OR "
	if negate {
		join = " AND "
	}
	if reg == nil {
		return renderOne("", c, t.Options, false, negate)
	}
	names := reg.Names()
	if len(names) == 0 {
		return renderOne("", c, t.Options, false, negate)
	}
	items := make([]string, 0, len(names))
	for _, name := range names {
		numeric := false
		if d, ok := reg.Get(name); ok {
			numeric = d.Type.IsNumeric()
		}
		s, err := renderOne(name, c, t.Options, numeric, negate)
		if err != nil {
			return "", err
		}
		items = append(items, s)
	}
	return "(" + strings.Join(items, join) + ")", nil
}

func quoteIdent(name string, opts clause.Options) string {
	if !opts.QuoteFields {
		return name
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func sqlQuote(v string) string {
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}

func wildcardGlyph(opts clause.Options) string {
	if opts.Wildcard != "" {
		return opts.Wildcard
	}
	return defaultWildcard
}

func likeOp(opts clause.Options) string {
	if opts.FuzzyOp != "" {
		return opts.FuzzyOp
	}
	if opts.Like != "" {
		return opts.Like
	}
	return defaultLike
}

func notLikeOp(opts clause.Options) string {
	if opts.FuzzyNotOp != "" {
		return opts.FuzzyNotOp
	}
	if opts.Like != "" {
		return "NOT " + opts.Like
	}
	return "NOT " + defaultLike
}

func renderOne(fieldName string, c *clause.Clause, opts clause.Options, numeric bool, negate bool) (string, error) {
	ident := quoteIdent(fieldName, opts)

	if c.Range != nil {
		// c.Op's own "!" (a user-typed "!..") and must-not bucket placement
		// both ask for negation; composing them (XOR) lets "-(1..5)" read
		// back to a plain BETWEEN rather than double-negating.
		wantNot := negate != c.Op.Negated()
		kw := "BETWEEN"
		if wantNot {
			kw = "NOT BETWEEN"
		}
		lo, hi := c.Range[0], c.Range[1]
		if !numeric {
			lo, hi = sqlQuote(lo), sqlQuote(hi)
		}
		return ident + " " + kw + " " + lo + " AND " + hi, nil
	}

	// c.Op's own "!" (e.g. "!~") and must-not bucket placement both ask
	// for negation; XOR composes them instead of stacking a double
	// negative, matching the range handling above.
	negated := negate != c.Op.Negated()
	op := sqlOp(c.Op, negated)
	value := c.Scalar
	isLike := op == "LIKE"

	if !numeric {
		glyph := wildcardGlyph(opts)
		if strings.Contains(value, glyph) {
			value = strings.ReplaceAll(value, glyph, "%")
			isLike = true
		}
		if opts.Fuzzify2 && !strings.Contains(value, "%") {
			value = "%" + value + "%"
			isLike = true
		} else if opts.Fuzzify && !strings.Contains(value, "%") {
			value = value + "%"
			isLike = true
		}
	}

	if numeric {
		if strings.Contains(value, wildcardGlyph(opts)) {
			return "", oops.In("squery").
				Code("DIALECT_ERROR").
				With("field", fieldName).
				Errorf("numeric field %q cannot use a wildcard value", fieldName)
		}
		if isLike {
			if negated {
				op = defaultFuzzyNumNotOp
			} else {
				op = defaultFuzzyNumOp
			}
			return ident + " " + op + " " + value, nil
		}
		return ident + " " + op + " " + value, nil
	}

	if isLike {
		if negated {
			op = notLikeOp(opts)
		} else {
			op = likeOp(opts)
		}
	}
	return ident + " " + op + " " + sqlQuote(value), nil
}

// sqlOp maps a clause operator onto its bare SQL form; "LIKE" is a
// placeholder the caller resolves to the configured fuzzy operator pair
// (spec's Like/FuzzyOp/FuzzyNotOp options). negated additionally flips a
// plain comparison operator to its opposite (spec §4.5 "-" -> AND "with
// operator negation"); LIKE-family ops instead resolve through
// likeOp/notLikeOp at the call site, so negated is otherwise a no-op here.
func sqlOp(op clause.Op, negated bool) string {
	switch op {
	case clause.OpRegex, clause.OpApprox, clause.OpNotRegex:
		return "LIKE"
	}
	base := baseComparisonOp(op)
	if negated {
		return negateComparisonOp(base)
	}
	return base
}

func baseComparisonOp(op clause.Op) string {
	switch op {
	case clause.OpNe:
		return "<>"
	case clause.OpLt, clause.OpLe, clause.OpGt, clause.OpGe:
		return string(op)
	default: // OpContains, OpEq, OpEqEq, OpHash
		return "="
	}
}

// negateComparisonOp flips a bare comparison operator to its boolean
// opposite; it leaves anything it doesn't recognize (there is nothing
// else a caller passes in) unchanged.
func negateComparisonOp(op string) string {
	switch op {
	case "=":
		return "<>"
	case "<>":
		return "="
	case "<":
		return ">="
	case "<=":
		return ">"
	case ">":
		return "<="
	case ">=":
		return "<"
	default:
		return op
	}
}
