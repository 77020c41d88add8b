package databind

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/tagly/format/text"
)

type Audit struct {
	CreatedBy string
	UpdatedAt *time.Time `format:"dateFormat=yyyy-MM-dd"`
}

type member struct {
	Audit
	UserName string
	ID       int            `json:"id,required"`
	Password string         `json:"-"`
	Internal string         `internal:"true"`
	Extra    map[string]any `json:",any"`
	hidden   bool
}

type handle struct {
	value string
}

func (h *handle) Creators() []*Creator {
	return []*Creator{
		StringCreator(func(s string) (handle, error) { return handle{value: s}, nil }),
		DefaultCreator(func() (*handle, error) { return &handle{}, nil }),
	}
}

func TestIntrospector_Describe(t *testing.T) {
	introspector := NewIntrospector(WithCaseFormat(text.CaseFormatLowerUnderscore))
	desc, err := introspector.Describe(reflect.TypeOf(member{}))
	require.NoError(t, err)
	assert.Equal(t, []string{"CreatedBy", "UpdatedAt", "UserName", "id"}, desc.Names())
	assert.NotNil(t, desc.Any)
	assert.Equal(t, "Extra", desc.Any.Field)
	assert.True(t, desc.IsIgnored("Password"))
	assert.True(t, desc.IsIgnored("Internal"))

	var testCases = []struct {
		description string
		name        string
		fold        bool
		expect      string
	}{
		{description: "declared name", name: "UserName", expect: "UserName"},
		{description: "case format alias", name: "user_name", expect: "UserName"},
		{description: "inlined property", name: "created_by", expect: "Audit.CreatedBy"},
		{description: "explicit name has no alias", name: "ID"},
		{description: "folded name", name: "USERNAME", fold: true, expect: "UserName"},
		{description: "folded explicit name", name: "ID", fold: true, expect: "ID"},
		{description: "unknown", name: "hidden"},
	}
	for _, testCase := range testCases {
		p := desc.Lookup(testCase.name, testCase.fold)
		if testCase.expect == "" {
			assert.Nil(t, p, testCase.description)
			continue
		}
		require.NotNil(t, p, testCase.description)
		assert.Equal(t, testCase.expect, p.Field, testCase.description)
	}

	id := desc.Lookup("id", false)
	assert.True(t, id.Required)
	updated := desc.Lookup("UpdatedAt", false)
	assert.Equal(t, "2006-01-02", updated.TimeLayout)

	cached, err := introspector.Describe(reflect.TypeOf(member{}))
	require.NoError(t, err)
	assert.Same(t, desc, cached)
}

func TestProperty_Value(t *testing.T) {
	type Inner struct {
		Value int
	}
	type outer struct {
		*Inner
	}
	desc, err := NewIntrospector().Describe(reflect.TypeOf(outer{}))
	require.NoError(t, err)
	value := outer{}
	p := desc.Lookup("Value", false)
	require.NotNil(t, p)
	p.Value(reflect.ValueOf(&value).UnsafePointer()).SetInt(5)
	require.NotNil(t, value.Inner)
	assert.Equal(t, 5, value.Value)
}

func TestIntrospector_Creators(t *testing.T) {
	introspector := NewIntrospector()
	desc, err := introspector.Describe(reflect.TypeOf(handle{}))
	require.NoError(t, err)
	require.NotNil(t, desc.Creators.String)
	assert.Nil(t, desc.Creators.Default)
	ret, err := desc.Creators.String.Call("abc")
	require.NoError(t, err)
	assert.Equal(t, handle{value: "abc"}, ret)

	ptrDesc, err := introspector.Describe(reflect.TypeOf(&handle{}))
	require.NoError(t, err)
	assert.NotNil(t, ptrDesc.Creators.Default)
	assert.Nil(t, ptrDesc.Creators.String)

	type pair struct{ A, B int }
	creator := PropertiesCreator(func(args *Args) (pair, error) {
		return pair{A: Get[int](args, "a"), B: Get[int](args, "b")}, nil
	}, Arg[int]("a"), Arg[int]("a"))
	_, err = NewIntrospector(WithCreators(reflect.TypeOf(pair{}), creator)).Describe(reflect.TypeOf(pair{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate parameter a")

	conflicting := NewIntrospector(WithCreators(reflect.TypeOf(handle{}),
		StringCreator(func(s string) (handle, error) { return handle{}, nil })))
	_, err = conflicting.Describe(reflect.TypeOf(handle{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conflicting string creators")

	wrongTarget := NewIntrospector(WithCreators(reflect.TypeOf(pair{}),
		StringCreator(func(s string) (handle, error) { return handle{}, nil })))
	_, err = wrongTarget.Describe(reflect.TypeOf(pair{}))
	require.Error(t, err)
	assert.True(t, wrongTarget.HasCreators(reflect.TypeOf(pair{})))
}

func TestCreator_Call(t *testing.T) {
	errInvalid := errors.New("invalid")
	creator := Int64Creator(func(v int64) (int64, error) {
		switch {
		case v < 0:
			panic(errInvalid)
		case v == 0:
			panic("zero")
		}
		return v * 2, nil
	})
	ret, err := creator.Call(int64(2))
	require.NoError(t, err)
	assert.Equal(t, int64(4), ret)
	_, err = creator.Call(int64(-1))
	assert.Same(t, errInvalid, err)
	_, err = creator.Call(int64(0))
	assert.EqualError(t, err, "zero")
	assert.Equal(t, "int64 creator of int64", creator.String())

	args := NewArgs([]Param{Arg[string]("name"), RequiredArg[int]("age")})
	args.Set(0, "x")
	args.SetDefault(1, 0)
	assert.True(t, args.Has("name"))
	assert.False(t, args.Has("age"))
	assert.Equal(t, 0, Get[int](args, "age"))
	assert.Equal(t, "x", Get[string](args, "name"))
	assert.Equal(t, -1, args.Index("missing"))
	assert.Nil(t, args.Value("missing"))
}
