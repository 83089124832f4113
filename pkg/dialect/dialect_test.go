package dialect

import (
	"testing"

	"github.com/parsekit/squery/pkg/clause"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSerializer struct {
	out string
	err error
}

func (s stubSerializer) Render(t *clause.Tree) (string, error) {
	return s.out, s.err
}

func TestRegisterGetAndList(t *testing.T) {
	id := clause.DialectID("stub-test-dialect")
	Register(id, stubSerializer{out: "rendered"})

	s, ok := Get(id)
	require.True(t, ok)
	out, err := s.Render(nil)
	require.NoError(t, err)
	assert.Equal(t, "rendered", out)

	assert.Contains(t, List(), id)
}

func TestGetUnknownDialect(t *testing.T) {
	_, ok := Get(clause.DialectID("does-not-exist"))
	assert.False(t, ok)
}

func TestRenderUnknownDialectErrors(t *testing.T) {
	tr := clause.NewTree(clause.DialectID("does-not-exist"))
	_, err := Render(tr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown dialect")
}

func TestRenderDelegatesToRegisteredSerializer(t *testing.T) {
	id := clause.DialectID("stub-render-dialect")
	Register(id, stubSerializer{out: "ok"})
	tr := clause.NewTree(id)

	out, err := Render(tr)
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
}

func TestTranslateToUnknownDialectErrors(t *testing.T) {
	tr := clause.NewTree(clause.Native)
	_, err := TranslateTo(tr, clause.DialectID("does-not-exist"))
	assert.Error(t, err)
}

func TestRenderCroakOnErrorPanicsOnUnknownDialect(t *testing.T) {
	tr := clause.NewTree(clause.DialectID("does-not-exist"))
	tr.Options.CroakOnError = true

	assert.Panics(t, func() {
		_, _ = Render(tr)
	})
}

func TestRenderCroakOnErrorPanicsOnSerializerError(t *testing.T) {
	id := clause.DialectID("stub-croak-dialect")
	Register(id, stubSerializer{err: assert.AnError})
	tr := clause.NewTree(id)
	tr.Options.CroakOnError = true

	assert.Panics(t, func() {
		_, _ = Render(tr)
	})
}

func TestRenderWithoutCroakOnErrorReturnsError(t *testing.T) {
	tr := clause.NewTree(clause.DialectID("does-not-exist"))

	assert.NotPanics(t, func() {
		_, err := Render(tr)
		assert.Error(t, err)
	})
}

func TestTranslateToCroakOnErrorPanicsOnUnknownDialect(t *testing.T) {
	tr := clause.NewTree(clause.Native)
	tr.Options.CroakOnError = true

	assert.Panics(t, func() {
		_, _ = TranslateTo(tr, clause.DialectID("does-not-exist"))
	})
}

func TestTranslateToClonesAndRetargets(t *testing.T) {
	id := clause.DialectID("stub-translate-dialect")
	Register(id, stubSerializer{out: "x"})

	tr := clause.NewTree(clause.Native)
	tr.AddAndClause(&clause.Clause{Field: "a", Op: clause.OpEq, Scalar: "1"})

	out, err := TranslateTo(tr, id)
	require.NoError(t, err)
	assert.Equal(t, id, out.Dialect)
	assert.Equal(t, clause.Native, tr.Dialect, "the original tree's dialect is untouched")
	assert.Equal(t, "a", out.Must[0].Field, "clause data survives the retarget")
}
