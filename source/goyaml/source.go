// Package goyaml provides a YAML token source backed by gopkg.in/yaml.v3 nodes.
package goyaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/viant/databind/token"
)

const maxAliasDepth = 64

type frame struct {
	node    *yaml.Node
	index   int
	mapping bool
}

type source struct {
	dec   *yaml.Decoder
	stack []frame
}

// NewReader wraps an io.Reader into a token.Source; each YAML document is one top level value.
func NewReader(r io.Reader) token.Source {
	return &source{dec: yaml.NewDecoder(r)}
}

// NewBytes wraps a byte slice into a token.Source.
func NewBytes(b []byte) token.Source { return NewReader(bytes.NewReader(b)) }

// NewCursor returns a cursor over YAML read from r.
func NewCursor(r io.Reader) *token.Stream { return token.NewStream(NewReader(r)) }

// NewBytesCursor returns a cursor over YAML data.
func NewBytesCursor(b []byte) *token.Stream { return token.NewStream(NewBytes(b)) }

func (s *source) NextToken() (token.Token, error) {
	n := len(s.stack)
	if n == 0 {
		var doc yaml.Node
		if err := s.dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return token.Token{}, io.EOF
			}
			return token.Token{}, fmt.Errorf("failed to decode yaml document: %w", err)
		}
		return s.open(&doc)
	}
	top := &s.stack[n-1]
	if top.index >= len(top.node.Content) {
		s.stack = s.stack[:n-1]
		if top.mapping {
			return token.Token{Kind: token.ObjectEnd}, nil
		}
		return token.Token{Kind: token.ArrayEnd}, nil
	}
	child := top.node.Content[top.index]
	isKey := top.mapping && top.index%2 == 0
	top.index++
	if isKey {
		key, err := resolveAlias(child)
		if err != nil {
			return token.Token{}, err
		}
		return token.Token{Kind: token.FieldName, Text: key.Value}, nil
	}
	return s.open(child)
}

func (s *source) open(node *yaml.Node) (token.Token, error) {
	node, err := resolveAlias(node)
	if err != nil {
		return token.Token{}, err
	}
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return token.Token{Kind: token.Null}, nil
		}
		return s.open(node.Content[0])
	case yaml.MappingNode:
		s.stack = append(s.stack, frame{node: node, mapping: true})
		return token.Token{Kind: token.ObjectStart}, nil
	case yaml.SequenceNode:
		s.stack = append(s.stack, frame{node: node})
		return token.Token{Kind: token.ArrayStart}, nil
	case yaml.ScalarNode:
		return scalarToken(node), nil
	}
	return token.Token{}, fmt.Errorf("unsupported yaml node kind %v at line %d", node.Kind, node.Line)
}

func (s *source) Location() int64 { return -1 }

func resolveAlias(node *yaml.Node) (*yaml.Node, error) {
	for i := 0; node.Kind == yaml.AliasNode; i++ {
		if i == maxAliasDepth || node.Alias == nil {
			return nil, fmt.Errorf("unresolvable yaml alias at line %d", node.Line)
		}
		node = node.Alias
	}
	return node, nil
}

func scalarToken(node *yaml.Node) token.Token {
	value := node.Value
	switch node.ShortTag() {
	case "!!null":
		return token.Token{Kind: token.Null}
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err == nil {
			if b {
				return token.Token{Kind: token.True}
			}
			return token.Token{Kind: token.False}
		}
	case "!!int":
		clean := strings.ReplaceAll(value, "_", "")
		if v, err := strconv.ParseInt(clean, 0, 64); err == nil {
			return token.Token{Kind: token.Int, Text: strconv.FormatInt(v, 10)}
		}
		if v, ok := new(big.Int).SetString(clean, 0); ok {
			return token.Token{Kind: token.Int, Text: v.String()}
		}
	case "!!float":
		switch strings.ToLower(value) {
		case ".inf", "+.inf":
			return token.Token{Kind: token.Float, Text: "+Inf"}
		case "-.inf":
			return token.Token{Kind: token.Float, Text: "-Inf"}
		case ".nan":
			return token.Token{Kind: token.Float, Text: "NaN"}
		}
		return token.Token{Kind: token.Float, Text: strings.ReplaceAll(value, "_", "")}
	}
	return token.Token{Kind: token.String, Text: value}
}
