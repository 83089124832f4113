package clause

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpNegatedAndIsRange(t *testing.T) {
	assert.True(t, OpNegRange.Negated())
	assert.True(t, OpNotRegex.Negated())
	assert.False(t, OpRegex.Negated())
	assert.False(t, OpRange.Negated())

	assert.True(t, OpRange.IsRange())
	assert.True(t, OpNegRange.IsRange())
	assert.False(t, OpEq.IsRange())
}

func TestClauseClone(t *testing.T) {
	proximity := 5
	original := &Clause{
		Field:     "title",
		Op:        OpContains,
		Scalar:    "hello world",
		Quote:     '"',
		Proximity: &proximity,
	}
	clone := original.Clone()
	require.NotNil(t, clone)
	assert.Equal(t, *original, *clone)

	*clone.Proximity = 9
	assert.Equal(t, 5, *original.Proximity, "clone must not share the Proximity pointer")
}

func TestClauseCloneRange(t *testing.T) {
	c := &Clause{Field: "age", Op: OpRange, Range: &[2]string{"1", "10"}}
	clone := c.Clone()
	clone.Range[0] = "99"
	assert.Equal(t, "1", c.Range[0], "clone must not share the Range pointer")
}

func TestClauseCloneNil(t *testing.T) {
	var c *Clause
	assert.Nil(t, c.Clone())
}

func TestClauseCloneGroup(t *testing.T) {
	sub := NewTree(Native)
	sub.AddOrClause(&Clause{Field: "color", Op: OpEq, Scalar: "red"})
	group := &Clause{Op: OpGroup, Sub: sub}

	clone := group.Clone()
	require.NotNil(t, clone.Sub)
	require.Len(t, clone.Sub.Should, 1)
	assert.Equal(t, "red", clone.Sub.Should[0].Scalar)

	clone.Sub.Should[0].Scalar = "blue"
	assert.Equal(t, "red", sub.Should[0].Scalar, "cloned subtree must not alias the original")
}

func TestIsGroup(t *testing.T) {
	assert.True(t, (&Clause{Op: OpGroup}).IsGroup())
	assert.False(t, (&Clause{Op: OpEq}).IsGroup())
}
