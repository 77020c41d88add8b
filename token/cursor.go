package token

import (
	"errors"
	"fmt"
	"io"
)

// Source produces tokens; it returns io.EOF once the input is exhausted.
type Source interface {
	NextToken() (Token, error)
}

// Locator is implemented by sources that know their input position.
type Locator interface {
	Location() int64
}

// Cursor is a forward-only pull view over a token stream.
// Current returns the token the cursor is positioned on; None before the first Next.
type Cursor interface {
	Next() (Kind, error)
	Current() Token
	Offset() int64
}

// Stream adapts a Source into a Cursor.
type Stream struct {
	src     Source
	current Token
	count   int64
	done    bool
}

// NewStream creates a cursor over src.
func NewStream(src Source) *Stream {
	return &Stream{src: src}
}

// Next advances to the next token.
func (s *Stream) Next() (Kind, error) {
	if s.done {
		return None, io.EOF
	}
	tok, err := s.src.NextToken()
	if err != nil {
		s.current = Token{}
		if errors.Is(err, io.EOF) {
			s.done = true
			return None, io.EOF
		}
		return None, err
	}
	s.count++
	s.current = tok
	return tok.Kind, nil
}

// Current returns the current token.
func (s *Stream) Current() Token { return s.current }

// Offset returns the source location when known, otherwise the token ordinal.
func (s *Stream) Offset() int64 {
	if l, ok := s.src.(Locator); ok {
		if loc := l.Location(); loc >= 0 {
			return loc
		}
	}
	return s.count
}

// Skip moves c to the last token of the value starting at the current token.
// For a field name the following value is skipped too.
func Skip(c Cursor) error {
	kind := c.Current().Kind
	if kind == FieldName {
		next, err := c.Next()
		if err != nil {
			return unexpectedEOF(err)
		}
		kind = next
	}
	if !kind.IsStart() {
		return nil
	}
	depth := 1
	for depth > 0 {
		next, err := c.Next()
		if err != nil {
			return unexpectedEOF(err)
		}
		switch {
		case next.IsStart():
			depth++
		case next.IsEnd():
			depth--
		}
	}
	return nil
}

func unexpectedEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("unexpected end of input: %w", io.ErrUnexpectedEOF)
	}
	return err
}
