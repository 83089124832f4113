// Package native implements squery's canonical, type-unaware debug
// serialization (spec §C6): a direct textual rendering of the bucket
// structure with no dialect-specific operator translation.
package native

import (
	"strconv"
	"strings"

	"github.com/parsekit/squery/pkg/clause"
	"github.com/parsekit/squery/pkg/dialect"
)

func init() {
	dialect.Register(clause.Native, serializer{})
}

type serializer struct{}

func (serializer) Render(t *clause.Tree) (string, error) {
	return renderTree(t), nil
}

func renderTree(t *clause.Tree) string {
	var parts []string
	if s := renderBucket(t.Must, "+"); s != "" {
		parts = append(parts, s)
	}
	if s := renderBucket(t.Should, ""); s != "" {
		parts = append(parts, s)
	}
	if s := renderBucket(t.MustNot, "-"); s != "" {
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

func renderBucket(cs []*clause.Clause, prefix string) string {
	if len(cs) == 0 {
		return ""
	}
	items := make([]string, len(cs))
	for i, c := range cs {
		items[i] = prefix + renderClause(c)
	}
	return strings.Join(items, " ")
}

func renderClause(c *clause.Clause) string {
	if c.IsGroup() {
		return "(" + renderTree(c.Sub) + ")"
	}
	var b strings.Builder
	b.WriteString(c.Field)
	switch {
	case c.Range != nil:
		if values, ok := clause.ExpandIntRange(c.Range[0], c.Range[1]); ok {
			op := "="
			if c.Op == clause.OpNegRange {
				op = "!="
			}
			b.WriteString(op)
			b.WriteString("(")
			b.WriteString(strings.Join(values, " "))
			b.WriteString(")")
			return b.String()
		}
		b.WriteString(string(c.Op))
		b.WriteString(c.Range[0])
		b.WriteString("..")
		b.WriteString(c.Range[1])
	default:
		// A fieldless clause under the default "contains" op renders as a
		// bare value with no prefix at all (spec §8: `"foo bar"~5`, not
		// `:"foo bar"~5`) — the default op carries no information once the
		// field is already absent.
		if !(c.Field == "" && c.Op == clause.OpContains) {
			b.WriteString(string(c.Op))
		}
		if c.Quote != 0 {
			b.WriteByte(c.Quote)
		}
		b.WriteString(c.Scalar)
		if c.Quote != 0 {
			b.WriteByte(c.Quote)
		}
		if c.Proximity != nil {
			b.WriteByte('~')
			b.WriteString(strconv.Itoa(*c.Proximity))
		}
	}
	return b.String()
}
