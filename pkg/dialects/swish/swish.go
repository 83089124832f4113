// Package swish implements squery's SWISH-E-flavored serialization (spec
// §C8): AND/OR/NOT connectors, unquoted field names, and a degraded
// equality-only range expansion since SWISH has no native BETWEEN.
package swish

import (
	"strings"

	"github.com/parsekit/squery/pkg/clause"
	"github.com/parsekit/squery/pkg/dialect"
	"github.com/parsekit/squery/pkg/field"
	"github.com/samber/oops"
)

func init() {
	dialect.Register(clause.Swish, serializer{})
}

// implicitField is substituted for clauses with no field at all (spec
// §C8), since SWISH indexes require a named field to search.
const implicitField = "swishdefault"

type serializer struct{}

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
		parts = append(parts, parenJoin(items, " OR "))
	}
	if len(t.MustNot) > 0 {
		items, err := renderEach(t.MustNot, t, true)
		if err != nil {
			return "", err
		}
		parts = append(parts, strings.Join(items, " AND "))
	}
	return strings.Join(parts, " AND "), nil
}

// parenJoin wraps a multi-item join in parens; a single item needs none
// (spec §C8 "single-child paren collapse").
func parenJoin(items []string, sep string) string {
	if len(items) == 1 {
		return items[0]
	}
	return "(" + strings.Join(items, sep) + ")"
}

// renderEach renders every clause in cs. negated marks clauses drawn from
// the "-" (must-not) bucket, which render their negation inline rather
// than via a bucket-wide "NOT (...)" wrapper (spec §8's
// `color=(NOT "red")`), except for nested groups, which do get the
// "NOT (...)" wrapper spec §4.5 describes directly.
func renderEach(cs []*clause.Clause, t *clause.Tree, negated bool) ([]string, error) {
	out := make([]string, len(cs))
	for i, c := range cs {
		s, err := renderClause(c, t, negated)
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

func renderClause(c *clause.Clause, t *clause.Tree, negated bool) (string, error) {
	if c.IsGroup() {
		return renderGroup(c.Sub, negated)
	}

	reg := registryOf(t)
	fieldName := c.Field
	if fieldName == "" {
		fieldName = implicitField
	}

	numeric := false
	if reg != nil {
		if d, ok := reg.Get(fieldName); ok {
			numeric = d.Type.IsNumeric()
			if d.Callback != nil {
				op, value := rawOpValue(c)
				return d.Callback(fieldName, op, value)
			}
		}
	}

	if c.Range != nil {
		s, err := renderRange(fieldName, c, numeric)
		if err != nil {
			return "", err
		}
		if c.Op == clause.OpNegRange {
			return "NOT " + s, nil
		}
		return s, nil
	}
	return renderScalar(fieldName, c, numeric, negated)
}

// renderGroup renders a parenthesized subquery (spec §4.5: "A -prefix
// group emits NOT ( … ); a single-child group collapses its
// parentheses"). selfDelimited covers both that single-child collapse and
// a should-only subtree, whose own OR-join via parenJoin already supplies
// the bounding parens — wrapping it again would double them up.
func renderGroup(sub *clause.Tree, negated bool) (string, error) {
	inner, err := renderTree(sub)
	if err != nil {
		return "", err
	}
	onlyShould := len(sub.Must) == 0 && len(sub.MustNot) == 0 && len(sub.Should) > 0
	selfDelimited := countClauses(sub) == 1 || onlyShould
	if negated {
		if selfDelimited {
			return "NOT " + inner, nil
		}
		return "NOT (" + inner + ")", nil
	}
	if selfDelimited {
		return inner, nil
	}
	return "(" + inner + ")", nil
}

func rawOpValue(c *clause.Clause) (string, string) {
	if c.Range != nil {
		return string(c.Op), c.Range[0] + ".." + c.Range[1]
	}
	return string(c.Op), c.Scalar
}

func countClauses(t *clause.Tree) int {
	return len(t.Must) + len(t.Should) + len(t.MustNot)
}

// renderRange expands a numeric ".."/"!.." range into the disjunction spec
// §4.5 calls for: "(v1 OR v2 OR …)", spelled out here as a repeated
// `field=value` per element since a bare value alone is not a valid SWISH
// term.
func renderRange(fieldName string, c *clause.Clause, numeric bool) (string, error) {
	if !numeric {
		return "", oops.In("squery").
			Code("DIALECT_ERROR").
			With("field", fieldName).
			Errorf("range queries require a numeric field, got %q", fieldName)
	}
	if c.Range == nil || c.Range[0] == "" || c.Range[1] == "" {
		return "", oops.In("squery").
			Code("DIALECT_ERROR").
			With("field", fieldName).
			Errorf("range must have exactly two bounds")
	}
	values, ok := clause.ExpandIntRange(c.Range[0], c.Range[1])
	if !ok {
		return "", oops.In("squery").
			Code("DIALECT_ERROR").
			With("field", fieldName).
			Errorf("range bounds %q..%q are not a valid integer span", c.Range[0], c.Range[1])
	}
	items := make([]string, len(values))
	for i, v := range values {
		items[i] = fieldName + "=" + v
	}
	return parenJoin(items, " OR "), nil
}

// quoteValue wraps a non-numeric value in double quotes; numeric fields
// never quote (spec §4.5 "numeric fields never accept wildcards" implies
// they carry no delimiter either, matching the range rendering above).
func quoteValue(value string, numeric bool) string {
	if numeric {
		return value
	}
	return `"` + value + `"`
}

func renderScalar(fieldName string, c *clause.Clause, numeric bool, negated bool) (string, error) {
	value := c.Scalar
	if numeric && strings.ContainsAny(value, "*") {
		return "", oops.In("squery").
			Code("DIALECT_ERROR").
			With("field", fieldName).
			Errorf("numeric field %q cannot use a wildcard value", fieldName)
	}

	switch c.Op {
	case clause.OpNotRegex:
		// Operator-level negation always renders as a prefix "NOT", even
		// for a clause that also sits in the must-not bucket — applying
		// bucket negation on top would double-negate it.
		if !strings.Contains(value, "*") {
			value += "*"
		}
		return "NOT " + fieldName + "=" + quoteValue(value, numeric), nil
	case clause.OpRegex, clause.OpApprox:
		if !strings.Contains(value, "*") {
			value += "*"
		}
		rendered := quoteValue(value, numeric)
		if negated {
			return fieldName + "=(NOT " + rendered + ")", nil
		}
		return fieldName + "=" + rendered, nil
	default:
		rendered := quoteValue(value, numeric)
		if negated {
			return fieldName + "=(NOT " + rendered + ")", nil
		}
		return fieldName + "=" + rendered, nil
	}
}
