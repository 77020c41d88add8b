package tree

import (
	"bytes"
	"strconv"

	"github.com/goccy/go-json"
)

// NodeKind identifies node shape.
type NodeKind int

const (
	NullNode NodeKind = iota
	ObjectNode
	ArrayNode
	StringNode
	NumberNode
	BoolNode
	EmbeddedNode
)

// Node is a document node preserving field order and numeric text.
type Node struct {
	Kind   NodeKind
	Text   string
	Bool   bool
	Value  any
	Fields []Field
	Items  []*Node
}

// Field is an object node member.
type Field struct {
	Name  string
	Value *Node
}

// Get returns first field value with name.
func (n *Node) Get(name string) *Node {
	if n == nil {
		return nil
	}
	for _, f := range n.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	return nil
}

// IsNull returns true for null or absent node.
func (n *Node) IsNull() bool { return n == nil || n.Kind == NullNode }

// Interface converts node into generic values: *Object, []any, string, json.Number, bool or nil.
func (n *Node) Interface() any {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case ObjectNode:
		obj := NewObject(len(n.Fields))
		for _, f := range n.Fields {
			obj.Set(f.Name, f.Value.Interface())
		}
		return obj
	case ArrayNode:
		ret := make([]any, len(n.Items))
		for i, item := range n.Items {
			ret[i] = item.Interface()
		}
		return ret
	case StringNode:
		return n.Text
	case NumberNode:
		return json.Number(n.Text)
	case BoolNode:
		return n.Bool
	case EmbeddedNode:
		return n.Value
	}
	return nil
}

// MarshalJSON encodes node preserving field order and numeric text.
func (n *Node) MarshalJSON() ([]byte, error) {
	buf := bytes.Buffer{}
	if err := n.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (n *Node) encode(buf *bytes.Buffer) error {
	if n == nil {
		buf.WriteString("null")
		return nil
	}
	switch n.Kind {
	case ObjectNode:
		buf.WriteByte('{')
		for i, f := range n.Fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			name, err := json.Marshal(f.Name)
			if err != nil {
				return err
			}
			buf.Write(name)
			buf.WriteByte(':')
			if err := f.Value.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case ArrayNode:
		buf.WriteByte('[')
		for i, item := range n.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case StringNode:
		data, err := json.Marshal(n.Text)
		if err != nil {
			return err
		}
		buf.Write(data)
	case NumberNode:
		buf.WriteString(n.Text)
	case BoolNode:
		buf.WriteString(strconv.FormatBool(n.Bool))
	case EmbeddedNode:
		data, err := json.Marshal(n.Value)
		if err != nil {
			return err
		}
		buf.Write(data)
	default:
		buf.WriteString("null")
	}
	return nil
}
