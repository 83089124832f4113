package swish

import (
	"testing"

	"github.com/parsekit/squery/pkg/clause"
	"github.com/parsekit/squery/pkg/field"
	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, tr *clause.Tree) string {
	t.Helper()
	s, err := (serializer{}).Render(tr)
	require.NoError(t, err)
	return s
}

func TestRenderGroupAndInlineNegatedLeaf(t *testing.T) {
	reg := field.BuildFromNames("foo", "color", "name")
	tr := clause.NewTree(clause.Swish)
	tr.Fields = reg

	sub := clause.NewTree(clause.Swish)
	sub.AddOrClause(&clause.Clause{Field: "name", Op: clause.OpEq, Scalar: "john"})
	sub.AddOrClause(&clause.Clause{Field: "foo", Op: clause.OpEq, Scalar: "bar"})

	tr.AddAndClause(&clause.Clause{Op: clause.OpGroup, Sub: sub})
	tr.AddNotClause(&clause.Clause{Field: "color", Op: clause.OpEq, Scalar: "red"})

	out := render(t, tr)
	assert.Equal(t, `(name="john" OR foo="bar") AND color=(NOT "red")`, out)
}

func TestRenderImplicitFieldForFieldlessClause(t *testing.T) {
	tr := clause.NewTree(clause.Swish)
	tr.AddAndClause(&clause.Clause{Op: clause.OpContains, Scalar: "hello"})

	out := render(t, tr)
	assert.Equal(t, `swishdefault="hello"`, out)
}

func TestRenderNumericFieldIsUnquoted(t *testing.T) {
	reg := field.NewRegistry()
	age := field.NewDescriptor("age")
	age.Type = field.Int
	reg.Add(age)

	tr := clause.NewTree(clause.Swish)
	tr.Fields = reg
	tr.AddAndClause(&clause.Clause{Field: "age", Op: clause.OpEq, Scalar: "42"})

	out := render(t, tr)
	assert.Equal(t, `age=42`, out)
}

func TestRenderNumericRangeExpandsToOrDisjunction(t *testing.T) {
	reg := field.NewRegistry()
	date := field.NewDescriptor("date")
	date.Type = field.Int
	reg.Add(date)

	tr := clause.NewTree(clause.Swish)
	tr.Fields = reg
	tr.AddAndClause(&clause.Clause{Field: "date", Op: clause.OpRange, Range: &[2]string{"1", "3"}})

	out := render(t, tr)
	assert.Equal(t, `(date=1 OR date=2 OR date=3)`, out)
}

func TestRenderNonNumericRangeIsDialectError(t *testing.T) {
	tr := clause.NewTree(clause.Swish)
	tr.AddAndClause(&clause.Clause{Field: "name", Op: clause.OpRange, Range: &[2]string{"a", "z"}})

	_, err := (serializer{}).Render(tr)
	require.Error(t, err)
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok)
	assert.Equal(t, "DIALECT_ERROR", oopsErr.Code())
}

func TestRenderNumericWildcardIsDialectError(t *testing.T) {
	reg := field.NewRegistry()
	age := field.NewDescriptor("age")
	age.Type = field.Int
	reg.Add(age)

	tr := clause.NewTree(clause.Swish)
	tr.Fields = reg
	tr.AddAndClause(&clause.Clause{Field: "age", Op: clause.OpEq, Scalar: "4*"})

	_, err := (serializer{}).Render(tr)
	assert.Error(t, err)
}

func TestRenderRegexOperatorAppendsWildcard(t *testing.T) {
	tr := clause.NewTree(clause.Swish)
	tr.AddAndClause(&clause.Clause{Field: "title", Op: clause.OpRegex, Scalar: "foo"})

	out := render(t, tr)
	assert.Equal(t, `title="foo*"`, out)
}

func TestRenderNotRegexOperatorPrefixesNot(t *testing.T) {
	tr := clause.NewTree(clause.Swish)
	tr.AddAndClause(&clause.Clause{Field: "title", Op: clause.OpNotRegex, Scalar: "foo"})

	out := render(t, tr)
	assert.Equal(t, `NOT title="foo*"`, out)
}

func TestRenderSingleShouldClauseHasNoParens(t *testing.T) {
	tr := clause.NewTree(clause.Swish)
	tr.AddOrClause(&clause.Clause{Field: "a", Op: clause.OpEq, Scalar: "1"})

	out := render(t, tr)
	assert.Equal(t, `a="1"`, out)
}

func TestRenderFieldCallbackOverridesRendering(t *testing.T) {
	reg := field.NewRegistry()
	geo := field.NewDescriptor("geo")
	geo.Callback = func(fieldName, op, value string) (string, error) {
		return fieldName + "~near~" + value, nil
	}
	reg.Add(geo)

	tr := clause.NewTree(clause.Swish)
	tr.Fields = reg
	tr.AddAndClause(&clause.Clause{Field: "geo", Op: clause.OpEq, Scalar: "pt"})

	out := render(t, tr)
	assert.Equal(t, `geo~near~pt`, out)
}
