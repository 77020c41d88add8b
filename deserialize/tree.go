package deserialize

import (
	"reflect"

	"github.com/viant/databind/token"
	"github.com/viant/databind/tree"
)

// treeStrategy reconstructs tree.Node and tree.Object values.
type treeStrategy struct {
	object bool
}

func (s *treeStrategy) decode(ctx *Context, dst reflect.Value) error {
	if s.object {
		switch ctx.Token().Kind {
		case token.Null:
			dst.SetZero()
			return nil
		case token.ObjectStart:
		default:
			return ctx.unexpectedToken(objectType)
		}
		obj, err := readObject(ctx)
		if err != nil {
			return err
		}
		dst.Set(reflect.ValueOf(obj).Elem())
		return nil
	}
	node, err := ctx.ReadNode()
	if err != nil {
		return err
	}
	dst.Set(reflect.ValueOf(node).Elem())
	return nil
}

// ReadNode reconstructs the value at the current token as a document node.
func (c *Context) ReadNode() (*tree.Node, error) {
	tok := c.Token()
	switch tok.Kind {
	case token.ObjectStart:
		node := &tree.Node{Kind: tree.ObjectNode}
		for {
			kind, err := c.Next()
			if err != nil {
				return nil, err
			}
			if kind == token.ObjectEnd {
				return node, nil
			}
			if kind != token.FieldName {
				return nil, c.unexpectedToken(nodeType)
			}
			name := c.Token().Text
			if _, err = c.Next(); err != nil {
				return nil, err
			}
			c.pushField(name)
			value, err := c.ReadNode()
			c.pop()
			if err != nil {
				return nil, err
			}
			node.Fields = append(node.Fields, tree.Field{Name: name, Value: value})
		}
	case token.ArrayStart:
		node := &tree.Node{Kind: tree.ArrayNode}
		for index := 0; ; index++ {
			kind, err := c.Next()
			if err != nil {
				return nil, err
			}
			if kind == token.ArrayEnd {
				return node, nil
			}
			c.pushIndex(index)
			item, err := c.ReadNode()
			c.pop()
			if err != nil {
				return nil, err
			}
			node.Items = append(node.Items, item)
		}
	case token.String:
		return &tree.Node{Kind: tree.StringNode, Text: tok.Text}, nil
	case token.Int, token.Float:
		return &tree.Node{Kind: tree.NumberNode, Text: tok.Text}, nil
	case token.True, token.False:
		return &tree.Node{Kind: tree.BoolNode, Bool: tok.Kind == token.True}, nil
	case token.Null:
		return &tree.Node{Kind: tree.NullNode}, nil
	case token.Embedded:
		return &tree.Node{Kind: tree.EmbeddedNode, Value: tok.Value}, nil
	}
	return nil, c.unexpectedToken(nodeType)
}
