package chunk

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(b *Builder[int], n int) []int {
	if n == 0 {
		return b.Complete(nil, 0)
	}
	chunk := b.Start()
	pos := 0
	for i := 0; i < n; i++ {
		if pos == len(chunk) {
			chunk = b.Append(chunk)
			pos = 0
		}
		chunk[pos] = i
		pos++
	}
	return b.Complete(chunk, pos)
}

func TestBuilder_Complete(t *testing.T) {
	for _, n := range []int{0, 1, 11, 12, 13, 36, 37, 1000, 100000} {
		b := NewBuilder[int]()
		actual := build(b, n)
		require.NotNil(t, actual, "n=%d", n)
		require.Equal(t, n, len(actual), "n=%d", n)
		assert.Equal(t, n, cap(actual), "n=%d", n)
		for i, v := range actual {
			if v != i {
				t.Fatalf("n=%d: expected %d at %d, had %d", n, i, i, v)
			}
		}
	}
}

func TestBuilder_Recycle(t *testing.T) {
	b := NewBuilder[int]()
	first := build(b, 100)
	second := build(b, 30)
	require.Len(t, second, 30)
	for i := range first {
		assert.Equal(t, i, first[i])
	}
	for i := range second {
		assert.Equal(t, i, second[i])
	}
	chunk := b.Start()
	assert.Greater(t, len(chunk), InitialSize)
	for _, v := range chunk {
		assert.Zero(t, v)
	}
}

func TestNextSize(t *testing.T) {
	var testCases = []struct {
		description string
		size        int
		expect      int
	}{
		{description: "initial", size: 12, expect: 24},
		{description: "small doubles", size: 8192, expect: 16384},
		{description: "large grows by quarter", size: 16384, expect: 20480},
		{description: "ceiling", size: MaxSize, expect: MaxSize},
		{description: "above ceiling", size: MaxSize + 1024, expect: MaxSize + 1024},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expect, NextSize(testCase.size), testCase.description)
	}
}

func TestValues_Complete(t *testing.T) {
	type item struct{ ID int }
	sliceType := reflect.TypeOf([]item{})
	for _, n := range []int{0, 5, 12, 50} {
		v := NewValues(sliceType)
		var actual reflect.Value
		if n == 0 {
			actual = v.Complete(reflect.Value{}, 0)
		} else {
			chunk := v.Start()
			pos := 0
			for i := 0; i < n; i++ {
				if pos == chunk.Len() {
					chunk = v.Append(chunk)
					pos = 0
				}
				chunk.Index(pos).Set(reflect.ValueOf(item{ID: i}))
				pos++
			}
			actual = v.Complete(chunk, pos)
		}
		items := actual.Interface().([]item)
		require.Len(t, items, n)
		assert.Equal(t, n, actual.Cap())
		for i := range items {
			assert.Equal(t, i, items[i].ID)
		}
	}
}

func TestPool_Lease(t *testing.T) {
	p := NewPool()
	outer := Lease[int](p)
	inner := Lease[int](p)
	assert.NotSame(t, outer, inner)
	Return(p, inner)
	Return(p, outer)
	again := Lease[int](p)
	assert.Same(t, outer, again)

	sliceType := reflect.TypeOf([]string{})
	v1 := p.Values(sliceType)
	v2 := p.Values(sliceType)
	assert.NotSame(t, v1, v2)
	p.ReturnValues(v1)
	assert.Same(t, v1, p.Values(sliceType))
}
