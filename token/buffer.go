package token

import "io"

// Buffer records tokens verbatim for later replay.
type Buffer struct {
	tokens []Token
}

// NewBuffer creates an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Append records a token.
func (b *Buffer) Append(tokens ...Token) {
	b.tokens = append(b.tokens, tokens...)
}

// AppendName records a field name token.
func (b *Buffer) AppendName(name string) {
	b.tokens = append(b.tokens, Token{Kind: FieldName, Text: name})
}

// AppendBuffer records every token of other.
func (b *Buffer) AppendBuffer(other *Buffer) {
	if other == nil {
		return
	}
	b.tokens = append(b.tokens, other.tokens...)
}

// Copy records the value at the current token of c, including its subtree,
// leaving c on the last token of that value.
func (b *Buffer) Copy(c Cursor) error {
	tok := c.Current()
	b.tokens = append(b.tokens, tok)
	if !tok.Kind.IsStart() {
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
		b.tokens = append(b.tokens, c.Current())
	}
	return nil
}

// Len returns number of recorded tokens.
func (b *Buffer) Len() int { return len(b.tokens) }

// Tokens returns the recorded tokens.
func (b *Buffer) Tokens() []Token { return b.tokens }

// Cursor returns a replay cursor positioned before the first recorded token.
func (b *Buffer) Cursor() Cursor {
	return &replay{tokens: b.tokens, pos: -1}
}

type replay struct {
	tokens []Token
	pos    int
}

func (r *replay) Next() (Kind, error) {
	if r.pos+1 >= len(r.tokens) {
		r.pos = len(r.tokens)
		return None, io.EOF
	}
	r.pos++
	return r.tokens[r.pos].Kind, nil
}

func (r *replay) Current() Token {
	if r.pos < 0 || r.pos >= len(r.tokens) {
		return Token{}
	}
	return r.tokens[r.pos]
}

func (r *replay) Offset() int64 { return int64(r.pos) }
