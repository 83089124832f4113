package field

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFromNames(t *testing.T) {
	r := BuildFromNames("title", "body", "author")
	assert.Equal(t, []string{"title", "body", "author"}, r.Names())

	d, ok := r.Get("TITLE")
	require.True(t, ok, "lookup is case-insensitive")
	assert.Equal(t, "title", d.Name)
}

func TestBuildFromSpecs(t *testing.T) {
	specs := map[string][]Option{
		"qty":   {WithType(Int)},
		"color": {AliasFor("hue")},
	}
	r := BuildFromSpecs([]string{"qty", "color"}, specs)
	assert.Equal(t, []string{"qty", "color"}, r.Names(), "order follows the given names slice, not map iteration")

	d, _ := r.Get("qty")
	assert.Equal(t, Int, d.Type)
}

func TestRegistryAddOverwritesPreservesPosition(t *testing.T) {
	r := NewRegistry()
	r.Add(NewDescriptor("a"))
	r.Add(NewDescriptor("b"))
	replacement := NewDescriptor("a")
	replacement.Type = Int
	r.Add(replacement)

	assert.Equal(t, []string{"a", "b"}, r.Names())
	d, _ := r.Get("a")
	assert.Equal(t, Int, d.Type)
}

func TestRegistryDefaultField(t *testing.T) {
	r := NewRegistry()
	_, ok := r.DefaultField()
	assert.False(t, ok)

	r.SetDefaultField("title")
	name, ok := r.DefaultField()
	assert.True(t, ok)
	assert.Equal(t, "title", name)
}

func TestRegistryLookupImplementsFieldLookup(t *testing.T) {
	r := NewRegistry()
	qty := NewDescriptor("qty")
	qty.AliasFor = []string{"count"}
	qty.Type = Int
	r.Add(qty)

	spec, ok := r.Lookup("qty")
	require.True(t, ok)
	assert.Equal(t, "qty", spec.Name)
	assert.Equal(t, []string{"count"}, spec.AliasFor)
	assert.True(t, spec.IsNumeric)

	_, ok = r.Lookup("nope")
	assert.False(t, ok)
}

func TestRegistryValidateCatchesDanglingAlias(t *testing.T) {
	r := NewRegistry()
	title := NewDescriptor("title")
	title.AliasFor = []string{"missing"}
	r.Add(title)

	err := r.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestRegistryValidateOK(t *testing.T) {
	r := NewRegistry()
	r.Add(NewDescriptor("a"))
	b := NewDescriptor("b")
	b.AliasFor = []string{"a"}
	r.Add(b)
	assert.NoError(t, r.Validate())
}

func TestRegistryAll(t *testing.T) {
	r := BuildFromNames("a", "b")
	all := r.All()
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].Name)
	assert.Equal(t, "b", all[1].Name)
}
