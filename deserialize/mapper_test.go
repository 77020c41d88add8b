package deserialize

import (
	"context"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/databind"
	"github.com/viant/databind/source/gojson"
	"github.com/viant/databind/tree"
)

type sample struct {
	Name  string         `json:"name"`
	Count int            `json:"count"`
	Ratio float64        `json:"ratio"`
	Tags  []string       `json:"tags"`
	Attrs map[string]int `json:"attrs"`
	Flags [2]bool        `json:"flags"`
	When  time.Time      `json:"when"`
	Child *sample        `json:"child,omitempty"`
}

func read[T any](input string, opts ...Option) (T, error) {
	return Read[T](context.Background(), New(opts...), gojson.NewBytesCursor([]byte(input)))
}

func TestMapper_RoundTrip(t *testing.T) {
	expect := sample{
		Name:  "root",
		Count: 3,
		Ratio: 0.5,
		Tags:  []string{"a", "b"},
		Attrs: map[string]int{"x": 1, "y": 2},
		Flags: [2]bool{true, false},
		When:  time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Child: &sample{Name: "kid", Count: -1},
	}
	data, err := json.Marshal(expect)
	require.NoError(t, err)
	actual, err := read[sample](string(data))
	require.NoError(t, err)
	assert.Equal(t, expect, actual)
}

func TestMapper_Scalars(t *testing.T) {
	var testCases = []struct {
		description string
		input       string
		target      reflect.Type
		options     []Option
		expect      any
		expectErr   string
	}{
		{description: "int from string", input: `"42"`, target: reflect.TypeOf(0), expect: 42},
		{description: "int from string without coercion", input: `"42"`, target: reflect.TypeOf(0), options: []Option{Disable(CoerceScalars)}, expectErr: "cannot coerce"},
		{description: "int8 overflow", input: `300`, target: reflect.TypeOf(int8(0)), expectErr: "out of range"},
		{description: "float truncated to int", input: `2.7`, target: reflect.TypeOf(0), expect: 2},
		{description: "float rejected for int", input: `2.7`, target: reflect.TypeOf(0), options: []Option{Disable(AcceptFloatAsInt)}, expectErr: "floating-point"},
		{description: "negative uint", input: `-1`, target: reflect.TypeOf(uint(0)), expectErr: "uint"},
		{description: "bool from string", input: `"true"`, target: reflect.TypeOf(false), expect: true},
		{description: "string from number", input: `12`, target: reflect.TypeOf(""), expect: "12"},
		{description: "float32", input: `1.5`, target: reflect.TypeOf(float32(0)), expect: float32(1.5)},
		{description: "duration", input: `"1m30s"`, target: reflect.TypeOf(time.Duration(0)), expect: 90 * time.Second},
		{description: "time from millis", input: `1000`, target: reflect.TypeOf(time.Time{}), expect: time.UnixMilli(1000).UTC()},
		{description: "null for primitive", input: `null`, target: reflect.TypeOf(0), expect: 0},
		{description: "null for primitive rejected", input: `null`, target: reflect.TypeOf(0), options: []Option{Enable(FailOnNullForPrimitives)}, expectErr: "null"},
		{description: "object for scalar", input: `{}`, target: reflect.TypeOf(0), expectErr: "cannot deserialize value of type int"},
		{description: "named string", input: `"abc"`, target: reflect.TypeOf(label("")), expect: label("abc")},
	}
	for _, testCase := range testCases {
		m := New(testCase.options...)
		actual, err := m.Reconstruct(context.Background(), databind.TypeFor(testCase.target), gojson.NewBytesCursor([]byte(testCase.input)))
		if testCase.expectErr != "" {
			require.Error(t, err, testCase.description)
			assert.Contains(t, err.Error(), testCase.expectErr, testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expect, actual, testCase.description)
	}
}

type label string

func TestMapper_Numbers(t *testing.T) {
	integer, err := read[big.Int](`123456789012345678901234567890`)
	require.NoError(t, err)
	assert.Equal(t, "123456789012345678901234567890", integer.String())

	dec, err := read[decimal.Decimal](`"12.50"`)
	require.NoError(t, err)
	assert.Equal(t, "12.5", dec.String())
}

func TestMapper_Arrays(t *testing.T) {
	long := make([]int, 100)
	items := make([]string, 100)
	for i := range long {
		long[i] = i
		items[i] = strconv.Itoa(i)
	}
	var testCases = []struct {
		description string
		input       string
		target      reflect.Type
		options     []Option
		expect      any
		expectErr   string
	}{
		{description: "ints across chunks", input: "[" + strings.Join(items, ",") + "]", target: reflect.TypeOf([]int{}), expect: long},
		{description: "empty array", input: `[]`, target: reflect.TypeOf([]int{}), expect: []int{}},
		{description: "null array", input: `null`, target: reflect.TypeOf([]int{}), expect: []int(nil)},
		{description: "fixed array skips surplus", input: `[1,2,3]`, target: reflect.TypeOf([2]int{}), expect: [2]int{1, 2}},
		{description: "fixed array zero fills", input: `[7]`, target: reflect.TypeOf([2]int{}), expect: [2]int{7, 0}},
		{description: "bytes from base64", input: `"aGVsbG8="`, target: reflect.TypeOf([]byte{}), expect: []byte("hello")},
		{description: "bytes from numbers", input: `[104,105]`, target: reflect.TypeOf([]byte{}), expect: []byte("hi")},
		{description: "nested", input: `[[1],[2,3],[]]`, target: reflect.TypeOf([][]int{}), expect: [][]int{{1}, {2, 3}, {}}},
		{description: "structs", input: `[{"name":"a"},{"name":"b"}]`, target: reflect.TypeOf([]sample{}), expect: []sample{{Name: "a"}, {Name: "b"}}},
		{description: "single value rejected", input: `"x"`, target: reflect.TypeOf([]string{}), expectErr: "cannot deserialize value of type []string"},
		{description: "single value accepted", input: `"x"`, target: reflect.TypeOf([]string{}), options: []Option{Enable(AcceptSingleValueAsArray)}, expect: []string{"x"}},
		{description: "empty string as null", input: `""`, target: reflect.TypeOf([]int{}), options: []Option{Enable(AcceptEmptyStringAsNull)}, expect: []int(nil)},
		{description: "empty string as null bytes", input: `""`, target: reflect.TypeOf([]byte{}), options: []Option{Enable(AcceptEmptyStringAsNull)}, expect: []byte(nil)},
		{description: "empty string as empty bytes", input: `""`, target: reflect.TypeOf([]byte{}), expect: []byte{}},
		{description: "empty string as null map", input: `""`, target: reflect.TypeOf(map[string]int{}), options: []Option{Enable(AcceptEmptyStringAsNull)}, expect: map[string]int(nil)},
		{description: "empty string as null collection", input: `""`, target: reflect.TypeOf(labels{}), options: []Option{Enable(AcceptEmptyStringAsNull)}, expect: labels(nil)},
		{description: "empty string as null set", input: `""`, target: reflect.TypeOf(map[string]struct{}{}), options: []Option{Enable(AcceptEmptyStringAsNull)}, expect: map[string]struct{}(nil)},
		{description: "collection", input: `["a","b"]`, target: reflect.TypeOf(labels{}), expect: labels{"a", "b"}},
		{description: "named slice", input: `[1,2]`, target: reflect.TypeOf(ids{}), expect: ids{1, 2}},
		{description: "element error path", input: `[1,"x"]`, target: reflect.TypeOf([]int{}), expectErr: "path /1"},
	}
	for _, testCase := range testCases {
		m := New(testCase.options...)
		actual, err := m.Reconstruct(context.Background(), databind.TypeFor(testCase.target), gojson.NewBytesCursor([]byte(testCase.input)))
		if testCase.expectErr != "" {
			require.Error(t, err, testCase.description)
			assert.Contains(t, err.Error(), testCase.expectErr, testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expect, actual, testCase.description)
	}
}

type ids []int

type labels []string

func (l *labels) Add(label string) { *l = append(*l, label) }

func TestMapper_Maps(t *testing.T) {
	byID, err := read[map[int]string](`{"1":"a","2":"b"}`)
	require.NoError(t, err)
	assert.Equal(t, map[int]string{1: "a", 2: "b"}, byID)

	_, err = read[map[int]string](`{"x":"a"}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "map key")

	set, err := read[map[string]struct{}](`["a","b","a"]`)
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"a": {}, "b": {}}, set)

	set, err = read[map[string]struct{}](`{"a":true,"b":1,"c":{"x":[null]}}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"a": {}, "b": {}, "c": {}}, set)

	_, err = read[map[string]struct{}](`{"a":1,"a":2}`, Enable(FailOnDuplicateKeys))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate field")

	_, err = read[map[string]int](`{"a":1,"a":2}`, Enable(FailOnDuplicateKeys))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate field")
}

func TestMapper_Decode_ExtendsExisting(t *testing.T) {
	m := New()
	dest := map[string]int{"kept": 1}
	err := m.Decode(context.Background(), gojson.NewBytesCursor([]byte(`{"added":2}`)), &dest)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"kept": 1, "added": 2}, dest)

	m = New(Disable(UseGettersAsSetters))
	dest = map[string]int{"kept": 1}
	err = m.Decode(context.Background(), gojson.NewBytesCursor([]byte(`{"added":2}`)), &dest)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"added": 2}, dest)

	err = m.Decode(context.Background(), gojson.NewBytesCursor([]byte(`{}`)), dest)
	assert.Error(t, err)
}

func TestMapper_Untyped(t *testing.T) {
	actual, err := read[any](`{"a":1,"b":[true,null,"x"],"c":2.5,"d":12345678901234567890}`)
	require.NoError(t, err)
	obj, ok := actual.(*tree.Object)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b", "c", "d"}, obj.Keys())
	a, _ := obj.Get("a")
	assert.Equal(t, int32(1), a)
	b, _ := obj.Get("b")
	assert.Equal(t, []any{true, nil, "x"}, b)
	c, _ := obj.Get("c")
	assert.Equal(t, 2.5, c)
	d, _ := obj.Get("d")
	require.IsType(t, &big.Int{}, d)
	assert.Equal(t, "12345678901234567890", d.(*big.Int).String())

	actual, err = read[any](`{"a":5000000000,"b":1.25}`, Disable(UseOrderedObjects), Enable(UseBigDecimalForFloats))
	require.NoError(t, err)
	m, ok := actual.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, int64(5000000000), m["a"])
	assert.Equal(t, "1.25", m["b"].(decimal.Decimal).String())

	actual, err = read[any](`{"k":1,"k":2}`, WithDuplicateKeyHandler(func(ctx *Context, key string, previous, current any) (any, error) {
		return []any{previous, current}, nil
	}))
	require.NoError(t, err)
	k, _ := actual.(*tree.Object).Get("k")
	assert.Equal(t, []any{int32(1), int32(2)}, k)

	_, err = read[any](`{"k":1,"k":2}`, Enable(FailOnDuplicateKeys))
	assert.Error(t, err)
}

func TestMapper_Tree(t *testing.T) {
	node, err := read[*tree.Node](`{"b":[1,2.50],"a":{"x":null}}`)
	require.NoError(t, err)
	data, err := node.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"b":[1,2.50],"a":{"x":null}}`, string(data))

	obj, err := read[tree.Object](`{"z":1,"y":"v"}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "y"}, obj.Keys())
}

type color int

const (
	red color = iota
	green
	blue
)

func (c color) String() string {
	return [...]string{"red", "green", "blue"}[c]
}

func TestMapper_Enum(t *testing.T) {
	module := AddEnum(NewModule("colors"), red, green, blue)
	var testCases = []struct {
		description string
		input       string
		options     []Option
		expect      color
		expectErr   string
	}{
		{description: "by name", input: `"green"`, expect: green},
		{description: "by ordinal", input: `2`, expect: blue},
		{description: "ordinal rejected", input: `2`, options: []Option{Enable(FailOnNumbersForEnums)}, expectErr: "not allowed"},
		{description: "case sensitive", input: `"GREEN"`, expectErr: "not one of the values accepted"},
		{description: "case insensitive", input: `"GREEN"`, options: []Option{Enable(CaseInsensitiveEnums)}, expect: green},
		{description: "unknown as null", input: `"pink"`, options: []Option{Enable(ReadUnknownEnumValuesAsNull)}, expect: red},
		{description: "ordinal out of range", input: `7`, expectErr: "index value outside legal index range"},
	}
	for _, testCase := range testCases {
		actual, err := read[color](testCase.input, append(testCase.options, WithModule(module))...)
		if testCase.expectErr != "" {
			require.Error(t, err, testCase.description)
			assert.Contains(t, err.Error(), testCase.expectErr, testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expect, actual, testCase.description)
	}

	byColor, err := read[map[color]int](`{"blue":1}`, WithModule(module))
	require.NoError(t, err)
	assert.Equal(t, map[color]int{blue: 1}, byColor)
}

type celsius float64

func TestMapper_CustomStrategy(t *testing.T) {
	module := AddStrategyFunc(NewModule("units"), func(ctx *Context) (celsius, error) {
		text := strings.TrimSuffix(ctx.Token().Text, "C")
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return 0, ctx.Errorf(reflect.TypeOf(celsius(0)), "invalid temperature %q", ctx.Token().Text)
		}
		return celsius(v), nil
	})
	actual, err := read[[]celsius](`["21.5C","-3C"]`, WithModule(module))
	require.NoError(t, err)
	assert.Equal(t, []celsius{21.5, -3}, actual)

	_, err = read[[]celsius](`["warm"]`, WithModule(module))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/0")
}

type upper string

func (u *upper) UnmarshalText(data []byte) error {
	*u = upper(strings.ToUpper(string(data)))
	return nil
}

type point struct{ X, Y int }

func (p *point) UnmarshalTokens(ctx *Context) error {
	values, err := ctx.Read(reflect.TypeOf([]int{}))
	if err != nil {
		return err
	}
	pair := values.Interface().([]int)
	if len(pair) != 2 {
		return ctx.Errorf(reflect.TypeOf(p).Elem(), "expected 2 coordinates, but had %d", len(pair))
	}
	p.X, p.Y = pair[0], pair[1]
	return nil
}

func TestMapper_Unmarshalers(t *testing.T) {
	text, err := read[map[upper]upper](`{"a":"b"}`)
	require.NoError(t, err)
	assert.Equal(t, map[upper]upper{"A": "B"}, text)

	p, err := read[*point](`[3,4]`)
	require.NoError(t, err)
	assert.Equal(t, &point{X: 3, Y: 4}, p)

	_, err = read[point](`[3]`)
	assert.Error(t, err)
}

func TestMapper_TrailingTokens(t *testing.T) {
	v, err := read[int](`1 2`)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	_, err = read[int](`1 2`, Enable(FailOnTrailingTokens))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trailing token")

	_, err = read[int](``)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "end-of-input")

	_, err = read[[]int](`[1,2`)
	assert.Error(t, err)
}
