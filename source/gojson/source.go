// Package gojson provides a JSON token source backed by github.com/goccy/go-json.
package gojson

import (
	"bytes"
	"errors"
	"io"
	"strconv"
	"strings"

	j "github.com/goccy/go-json"

	"github.com/viant/databind/token"
)

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind         containerKind
	expectingKey bool
}

type source struct {
	dec   *j.Decoder
	stack []frame
}

// NewReader wraps an io.Reader into a token.Source.
// Consecutive top level values are returned one after another.
func NewReader(r io.Reader) token.Source {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	return &source{dec: dec}
}

// NewBytes wraps a byte slice into a token.Source.
func NewBytes(b []byte) token.Source { return NewReader(bytes.NewReader(b)) }

// NewCursor returns a cursor over JSON read from r.
func NewCursor(r io.Reader) *token.Stream { return token.NewStream(NewReader(r)) }

// NewBytesCursor returns a cursor over JSON data.
func NewBytesCursor(b []byte) *token.Stream { return token.NewStream(NewBytes(b)) }

func (s *source) NextToken() (token.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			if len(s.stack) > 0 {
				return token.Token{}, io.ErrUnexpectedEOF
			}
			return token.Token{}, io.EOF
		}
		return token.Token{}, err
	}
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			s.stack = append(s.stack, frame{kind: kindObject, expectingKey: true})
			return token.Token{Kind: token.ObjectStart}, nil
		case '}':
			s.pop()
			return token.Token{Kind: token.ObjectEnd}, nil
		case '[':
			s.stack = append(s.stack, frame{kind: kindArray})
			return token.Token{Kind: token.ArrayStart}, nil
		case ']':
			s.pop()
			return token.Token{Kind: token.ArrayEnd}, nil
		}
	case string:
		if n := len(s.stack); n > 0 {
			top := &s.stack[n-1]
			if top.kind == kindObject && top.expectingKey {
				top.expectingKey = false
				return token.Token{Kind: token.FieldName, Text: v}, nil
			}
		}
		s.valueDone()
		return token.Token{Kind: token.String, Text: v}, nil
	case bool:
		s.valueDone()
		if v {
			return token.Token{Kind: token.True}, nil
		}
		return token.Token{Kind: token.False}, nil
	case j.Number:
		s.valueDone()
		return numberToken(string(v)), nil
	case float64:
		s.valueDone()
		return numberToken(strconv.FormatFloat(v, 'g', -1, 64)), nil
	case nil:
		s.valueDone()
		return token.Token{Kind: token.Null}, nil
	}
	s.valueDone()
	return token.Token{Kind: token.Embedded, Value: tok}, nil
}

func (s *source) pop() {
	if n := len(s.stack); n > 0 {
		s.stack = s.stack[:n-1]
	}
	s.valueDone()
}

func (s *source) valueDone() {
	if n := len(s.stack); n > 0 {
		top := &s.stack[n-1]
		if top.kind == kindObject && !top.expectingKey {
			top.expectingKey = true
		}
	}
}

func (s *source) Location() int64 { return -1 }

func numberToken(text string) token.Token {
	if strings.ContainsAny(text, ".eE") {
		return token.Token{Kind: token.Float, Text: text}
	}
	return token.Token{Kind: token.Int, Text: text}
}
