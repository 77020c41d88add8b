package token

import (
	"errors"
	"io"
)

// Sequence returns a cursor that yields every token of first and then continues with rest.
// rest is advanced in place, so once the sequence is consumed rest is positioned on
// the last token read through the sequence.
func Sequence(first, rest Cursor) Cursor {
	return &sequence{active: first, rest: rest}
}

type sequence struct {
	active   Cursor
	rest     Cursor
	switched bool
}

func (s *sequence) Next() (Kind, error) {
	kind, err := s.active.Next()
	if err == nil || s.switched || !errors.Is(err, io.EOF) {
		return kind, err
	}
	s.switched = true
	s.active = s.rest
	return s.active.Next()
}

func (s *sequence) Current() Token { return s.active.Current() }

func (s *sequence) Offset() int64 { return s.active.Offset() }
