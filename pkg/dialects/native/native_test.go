package native

import (
	"testing"

	"github.com/parsekit/squery/pkg/clause"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, tr *clause.Tree) string {
	t.Helper()
	s, err := (serializer{}).Render(tr)
	require.NoError(t, err)
	return s
}

func TestRenderSimpleBuckets(t *testing.T) {
	tr := clause.NewTree(clause.Native)
	tr.AddAndClause(&clause.Clause{Field: "", Op: clause.OpContains, Scalar: "hello"})
	tr.AddAndClause(&clause.Clause{Field: "", Op: clause.OpContains, Scalar: "now"})
	tr.AddNotClause(&clause.Clause{Field: "", Op: clause.OpContains, Scalar: "world"})

	out := render(t, tr)
	assert.Equal(t, "+hello +now -world", out)
}

func TestRenderGroupOfShouldClauses(t *testing.T) {
	sub := clause.NewTree(clause.Native)
	sub.AddOrClause(&clause.Clause{Field: "color", Op: clause.OpEq, Scalar: "red"})
	sub.AddOrClause(&clause.Clause{Field: "color", Op: clause.OpEq, Scalar: "green"})

	tr := clause.NewTree(clause.Native)
	tr.AddAndClause(&clause.Clause{Field: "foo", Op: clause.OpEq, Scalar: "bar"})
	tr.AddAndClause(&clause.Clause{Op: clause.OpGroup, Sub: sub})

	out := render(t, tr)
	assert.Equal(t, "+foo=bar +(color=red color=green)", out)
}

func TestRenderQuotedPhraseWithProximityAndNoField(t *testing.T) {
	n := 5
	tr := clause.NewTree(clause.Native)
	tr.AddAndClause(&clause.Clause{Op: clause.OpContains, Scalar: "foo bar", Quote: '"', Proximity: &n})

	out := render(t, tr)
	assert.Equal(t, `+"foo bar"~5`, out)
}

func TestRenderIntRangeExpandsToDiscreteValues(t *testing.T) {
	tr := clause.NewTree(clause.Native)
	tr.AddAndClause(&clause.Clause{Field: "date", Op: clause.OpRange, Range: &[2]string{"1", "10"}})

	out := render(t, tr)
	assert.Equal(t, "+date=(1 2 3 4 5 6 7 8 9 10)", out)
}

func TestRenderNegatedRangeUsesNotEqual(t *testing.T) {
	tr := clause.NewTree(clause.Native)
	tr.AddAndClause(&clause.Clause{Field: "date", Op: clause.OpNegRange, Range: &[2]string{"1", "3"}})

	out := render(t, tr)
	assert.Equal(t, "+date!=(1 2 3)", out)
}

func TestRenderNonIntegerRangeFallsBackToLiteralSpan(t *testing.T) {
	tr := clause.NewTree(clause.Native)
	tr.AddAndClause(&clause.Clause{Field: "created", Op: clause.OpRange, Range: &[2]string{"2021-01-01", "2021-01-31"}})

	out := render(t, tr)
	assert.Equal(t, "+created..2021-01-01..2021-01-31", out)
}

func TestRenderNestedGroup(t *testing.T) {
	innerSub := clause.NewTree(clause.Native)
	innerSub.AddOrClause(&clause.Clause{Field: "foo", Op: clause.OpEq, Scalar: "this"})
	innerSub.AddOrClause(&clause.Clause{Field: "foo", Op: clause.OpEq, Scalar: "that"})

	tr := clause.NewTree(clause.Native)
	tr.AddAndClause(&clause.Clause{Op: clause.OpGroup, Sub: innerSub})

	out := render(t, tr)
	assert.Equal(t, "+(foo=this foo=that)", out)
}
