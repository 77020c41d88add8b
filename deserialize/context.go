package deserialize

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/viant/databind"
	"github.com/viant/databind/internal/chunk"
	"github.com/viant/databind/token"
)

// SegmentKind identifies path segment type.
type SegmentKind int

const (
	SegmentField SegmentKind = iota
	SegmentIndex
)

// PathSegment is one step of the location within the input document.
type PathSegment struct {
	Kind  SegmentKind
	Field string
	Index int
}

// Context carries per-call reconstruction state: the cursor, features,
// the location path and leased chunk builders. A Context is used by one goroutine.
type Context struct {
	ctx      context.Context
	mapper   *Mapper
	cursor   token.Cursor
	features Feature
	segments []PathSegment
	pool     *chunk.Pool
}

// Context returns the call context.
func (c *Context) Context() context.Context { return c.ctx }

// Mapper returns the owning mapper.
func (c *Context) Mapper() *Mapper { return c.mapper }

// Cursor returns the active cursor.
func (c *Context) Cursor() token.Cursor { return c.cursor }

// Token returns the current token.
func (c *Context) Token() token.Token { return c.cursor.Current() }

// Next advances the cursor; running out of input is reported as a mapping error.
func (c *Context) Next() (token.Kind, error) {
	kind, err := c.cursor.Next()
	if err != nil {
		return token.None, c.readError(err)
	}
	return kind, nil
}

// Skip moves past the value at the current token.
func (c *Context) Skip() error {
	if err := token.Skip(c.cursor); err != nil {
		return c.readError(err)
	}
	return nil
}

// Enabled returns true when feature is enabled.
func (c *Context) Enabled(feature Feature) bool { return c.features.Enabled(feature) }

// Features returns enabled features.
func (c *Context) Features() Feature { return c.features }

// Decode reconstructs the value at the current token into addressable dst.
func (c *Context) Decode(dst reflect.Value) error {
	s, err := c.mapper.Strategy(databind.TypeFor(dst.Type()))
	if err != nil {
		return err
	}
	return s.decode(c, dst)
}

// Read reconstructs the value at the current token as t.
func (c *Context) Read(t reflect.Type) (reflect.Value, error) {
	ret := reflect.New(t).Elem()
	if err := c.Decode(ret); err != nil {
		return reflect.Value{}, err
	}
	return ret, nil
}

// Path returns current location as a JSON pointer.
func (c *Context) Path() string {
	if len(c.segments) == 0 {
		return ""
	}
	sb := strings.Builder{}
	for _, s := range c.segments {
		sb.WriteByte('/')
		if s.Kind == SegmentIndex {
			sb.WriteString(strconv.Itoa(s.Index))
			continue
		}
		sb.WriteString(escapePointer(s.Field))
	}
	return sb.String()
}

// Segments returns a copy of the current location.
func (c *Context) Segments() []PathSegment {
	if len(c.segments) == 0 {
		return nil
	}
	ret := make([]PathSegment, len(c.segments))
	copy(ret, c.segments)
	return ret
}

func escapePointer(s string) string {
	if !strings.ContainsAny(s, "~/") {
		return s
	}
	s = strings.ReplaceAll(s, "~", "~0")
	return strings.ReplaceAll(s, "/", "~1")
}

func (c *Context) pushField(name string) {
	c.segments = append(c.segments, PathSegment{Kind: SegmentField, Field: name})
}

func (c *Context) pushIndex(index int) {
	c.segments = append(c.segments, PathSegment{Kind: SegmentIndex, Index: index})
}

func (c *Context) pop() {
	if len(c.segments) == 0 {
		return
	}
	c.segments = c.segments[:len(c.segments)-1]
}

// withCursor runs fn with cursor as the active cursor.
func (c *Context) withCursor(cursor token.Cursor, fn func() error) error {
	prev := c.cursor
	c.cursor = cursor
	defer func() { c.cursor = prev }()
	return fn()
}

func (c *Context) reset() {
	c.ctx = nil
	c.cursor = nil
	c.segments = c.segments[:0]
	c.pool.Reset()
}

// Errorf returns a mapping error located at the current token.
func (c *Context) Errorf(t reflect.Type, format string, args ...any) error {
	return c.mappingError(t, format, args...)
}

func (c *Context) mappingError(t reflect.Type, format string, args ...any) *MappingError {
	return &MappingError{
		Type:    t,
		Token:   c.Token().Kind,
		Path:    c.Path(),
		Offset:  c.cursor.Offset(),
		Message: fmt.Sprintf(format, args...),
	}
}

func (c *Context) unexpectedToken(t reflect.Type) error {
	tok := c.Token()
	if tok.Kind.IsScalar() {
		return c.mappingError(t, "cannot deserialize value of type %v from %v value %q", t, tok.Kind, tok.Text)
	}
	return c.mappingError(t, "cannot deserialize value of type %v from %v token", t, tok.Kind)
}

func (c *Context) readError(err error) error {
	if errors.Is(err, io.EOF) {
		err = fmt.Errorf("unexpected end of input: %w", io.ErrUnexpectedEOF)
	}
	var mErr *MappingError
	if errors.As(err, &mErr) {
		return err
	}
	return &MappingError{Path: c.Path(), Offset: c.cursor.Offset(), Err: err}
}

func (c *Context) instantiationError(t reflect.Type, err error) error {
	return &InstantiationError{Type: t, Path: c.Path(), Err: rootCause(err)}
}

func (c *Context) unknownProperty(holder reflect.Value, t reflect.Type, name string, known []string) error {
	for _, handler := range c.mapper.cfg.problems {
		handled, err := handler.HandleUnknownProperty(c, holder, name)
		if err != nil {
			return err
		}
		if handled {
			return nil
		}
	}
	if c.Enabled(FailOnUnknownProperties) {
		return &UnknownPropertyError{
			MappingError: c.mappingError(t, "unrecognized field %q for %v, known fields: %s", name, t, quoteNames(known)),
			Property:     name,
			Known:        known,
		}
	}
	return c.Skip()
}

// ProblemHandler is consulted for properties without a target; the cursor is on
// the first token of the property value. A handler returning true must consume the value.
type ProblemHandler interface {
	HandleUnknownProperty(ctx *Context, holder reflect.Value, name string) (bool, error)
}

// ProblemHandlerFunc adapts a function to ProblemHandler.
type ProblemHandlerFunc func(ctx *Context, holder reflect.Value, name string) (bool, error)

// HandleUnknownProperty calls f.
func (f ProblemHandlerFunc) HandleUnknownProperty(ctx *Context, holder reflect.Value, name string) (bool, error) {
	return f(ctx, holder, name)
}

// DuplicateKeyHandler resolves a repeated key of an untyped object; the returned value is stored.
type DuplicateKeyHandler func(ctx *Context, key string, previous, current any) (any, error)
