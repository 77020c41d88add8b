package collection

import (
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/databind/deserialize"
	"github.com/viant/databind/source/gojson"
)

func TestHashSet(t *testing.T) {
	set := &HashSet[string]{}
	assert.False(t, set.Contains("a"))
	for _, item := range []string{"b", "a", "b", "c", "a"} {
		set.Add(item)
	}
	assert.Equal(t, 3, set.Len())
	assert.True(t, set.Contains("a"))
	assert.Equal(t, []string{"b", "a", "c"}, set.Items())
	assert.Equal(t, []string{"b", "a", "c"}, slices.Collect(set.All()))
}

func TestTreeSet(t *testing.T) {
	set := &TreeSet[int]{}
	_, ok := set.First()
	assert.False(t, ok)
	for _, item := range []int{5, 1, 3, 1, 9} {
		set.Add(item)
	}
	assert.Equal(t, []int{1, 3, 5, 9}, set.Items())
	first, _ := set.First()
	last, _ := set.Last()
	assert.Equal(t, 1, first)
	assert.Equal(t, 9, last)
	assert.True(t, set.Contains(3))
	assert.False(t, set.Contains(4))
}

func TestRegister(t *testing.T) {
	module := deserialize.NewModule("collections")
	RegisterSorted[int](module)
	Register[string](module)
	m := deserialize.New(deserialize.WithModule(module))

	read := func(input string, dest any) error {
		return m.Decode(context.Background(), gojson.NewBytesCursor([]byte(input)), dest)
	}

	var names Sequence[string]
	require.NoError(t, read(`["x","y","x"]`, &names))
	require.IsType(t, &List[string]{}, names)
	assert.Equal(t, []string{"x", "y", "x"}, names.(*List[string]).Items())

	var ids Set[int]
	require.NoError(t, read(`[3,1,3]`, &ids))
	require.IsType(t, &HashSet[int]{}, ids)
	assert.Equal(t, []int{3, 1}, ids.(*HashSet[int]).Items())

	var sorted SortedSet[int]
	require.NoError(t, read(`[3,1,2]`, &sorted))
	require.IsType(t, &TreeSet[int]{}, sorted)
	assert.Equal(t, []int{1, 2, 3}, slices.Collect(sorted.All()))

	var grouped map[string]Set[string]
	require.NoError(t, read(`{"a":["p","p","q"],"b":null}`, &grouped))
	assert.Equal(t, 2, grouped["a"].Len())
	assert.Nil(t, grouped["b"])

	var single Set[int]
	err := read(`7`, &single)
	assert.Error(t, err)
	single = nil
	m = deserialize.New(deserialize.WithModule(module), deserialize.Enable(deserialize.AcceptSingleValueAsArray))
	require.NoError(t, read(`7`, &single))
	assert.True(t, single.Contains(7))
}
