package goyaml

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/databind/token"
)

func collect(t *testing.T, data string) []token.Token {
	c := NewBytesCursor([]byte(data))
	var ret []token.Token
	for {
		_, err := c.Next()
		if err == io.EOF {
			return ret
		}
		require.NoError(t, err)
		ret = append(ret, c.Current())
	}
}

func TestSource_NextToken(t *testing.T) {
	var testCases = []struct {
		description string
		input       string
		expect      []token.Token
	}{
		{
			description: "mapping with scalars",
			input:       "name: x\ncount: 0x10\nratio: 1.5\nok: true\nnone: ~\n",
			expect: []token.Token{
				{Kind: token.ObjectStart},
				{Kind: token.FieldName, Text: "name"},
				{Kind: token.String, Text: "x"},
				{Kind: token.FieldName, Text: "count"},
				{Kind: token.Int, Text: "16"},
				{Kind: token.FieldName, Text: "ratio"},
				{Kind: token.Float, Text: "1.5"},
				{Kind: token.FieldName, Text: "ok"},
				{Kind: token.True},
				{Kind: token.FieldName, Text: "none"},
				{Kind: token.Null},
				{Kind: token.ObjectEnd},
			},
		},
		{
			description: "sequence with alias",
			input:       "base: &b [1, 2]\ncopy: *b\n",
			expect: []token.Token{
				{Kind: token.ObjectStart},
				{Kind: token.FieldName, Text: "base"},
				{Kind: token.ArrayStart},
				{Kind: token.Int, Text: "1"},
				{Kind: token.Int, Text: "2"},
				{Kind: token.ArrayEnd},
				{Kind: token.FieldName, Text: "copy"},
				{Kind: token.ArrayStart},
				{Kind: token.Int, Text: "1"},
				{Kind: token.Int, Text: "2"},
				{Kind: token.ArrayEnd},
				{Kind: token.ObjectEnd},
			},
		},
		{
			description: "multiple documents",
			input:       "a\n---\n-.inf\n",
			expect: []token.Token{
				{Kind: token.String, Text: "a"},
				{Kind: token.Float, Text: "-Inf"},
			},
		},
		{
			description: "quoted number stays string",
			input:       "'12'",
			expect:      []token.Token{{Kind: token.String, Text: "12"}},
		},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expect, collect(t, testCase.input), testCase.description)
	}
}
