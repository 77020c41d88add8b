package databind

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/xunsafe"
)

func TestMarker_IsSet(t *testing.T) {

	var testCases = []struct {
		description string
		provider    func() interface{}
		mark        []string
		expectSet   []string
		expectUnset []string
	}{
		{
			description: "pointer marker",
			provider: func() interface{} {
				type EntityHas struct {
					Id     bool
					Name   bool
					Active bool
				}
				type Entity struct {
					Id     int
					Name   string
					Active bool
					Has    *EntityHas `setMarker:"true"`
				}
				return &Entity{Has: &EntityHas{Id: true, Active: true}, Id: 1, Active: true}
			},
			expectSet:   []string{"Id", "Active"},
			expectUnset: []string{"Name"},
		},
		{
			description: "nil pointer marker allocated on mark",
			provider: func() interface{} {
				type EntityHas struct {
					Id   bool
					Name bool
				}
				type Entity struct {
					Id   int
					Name string
					Nums []int
					Has  *EntityHas `setMarker:"true"`
				}
				return &Entity{Name: "abc"}
			},
			mark:        []string{"Name"},
			expectSet:   []string{"Name", "Nums"},
			expectUnset: []string{"Id"},
		},
		{
			description: "value marker",
			provider: func() interface{} {
				type EntityHas struct {
					Id   bool
					Name bool
				}
				type Entity struct {
					Id   int
					Name string
					Has  EntityHas `setMarker:"true"`
				}
				return &Entity{}
			},
			mark:        []string{"Id"},
			expectSet:   []string{"Id"},
			expectUnset: []string{"Name"},
		},
	}

	for _, testCase := range testCases {
		value := testCase.provider()
		desc, err := NewIntrospector().Describe(reflect.TypeOf(value))
		require.NoError(t, err, testCase.description)
		marker := desc.Marker
		require.NotNil(t, marker, testCase.description)

		valuePtr := xunsafe.AsPointer(value)
		for _, name := range testCase.mark {
			marker.Mark(valuePtr, name)
		}
		for _, name := range testCase.expectSet {
			assert.True(t, marker.IsSet(valuePtr, name), name+" failed set test for "+testCase.description)
		}
		for _, name := range testCase.expectUnset {
			assert.False(t, marker.IsSet(valuePtr, name), name+" failed unset test for "+testCase.description)
		}
	}
}

func TestDescription_MarkPresent(t *testing.T) {
	type presenceHas struct {
		Name bool
	}
	type presence struct {
		Name string       `json:"name"`
		Has  *presenceHas `setMarker:"true"`
	}
	desc, err := NewIntrospector().Describe(reflect.TypeOf(presence{}))
	require.NoError(t, err)
	value := presence{}
	ptr := xunsafe.AsPointer(&value)
	assert.False(t, desc.Marker.IsSet(ptr, "Name"))
	desc.MarkPresent(ptr, desc.Lookup("name", false))
	require.NotNil(t, value.Has)
	assert.True(t, value.Has.Name)
	assert.Equal(t, []string{"name"}, desc.Names())
}
