package gojson

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/databind/token"
)

func TestSource_NextToken(t *testing.T) {
	c := NewBytesCursor([]byte(`{"name":"x","tags":["a",1,2.5,true,null],"nested":{"k":false}} 7`))
	var actual []token.Token
	for {
		_, err := c.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		actual = append(actual, c.Current())
	}
	expect := []token.Token{
		{Kind: token.ObjectStart},
		{Kind: token.FieldName, Text: "name"},
		{Kind: token.String, Text: "x"},
		{Kind: token.FieldName, Text: "tags"},
		{Kind: token.ArrayStart},
		{Kind: token.String, Text: "a"},
		{Kind: token.Int, Text: "1"},
		{Kind: token.Float, Text: "2.5"},
		{Kind: token.True},
		{Kind: token.Null},
		{Kind: token.ArrayEnd},
		{Kind: token.FieldName, Text: "nested"},
		{Kind: token.ObjectStart},
		{Kind: token.FieldName, Text: "k"},
		{Kind: token.False},
		{Kind: token.ObjectEnd},
		{Kind: token.ObjectEnd},
		{Kind: token.Int, Text: "7"},
	}
	assert.Equal(t, expect, actual)
}

func TestSource_Malformed(t *testing.T) {
	c := NewBytesCursor([]byte(`{"a":`))
	var err error
	for err == nil {
		_, err = c.Next()
	}
	assert.NotEqual(t, io.EOF, err)
}
