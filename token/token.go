package token

import (
	"encoding/base64"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Token is a single stream element. Text holds the field name, string value
// or numeric text; Value holds the payload of an Embedded token.
type Token struct {
	Kind  Kind
	Text  string
	Value any
}

// Name returns the field name of a FieldName token.
func (t Token) Name() string {
	if t.Kind != FieldName {
		return ""
	}
	return t.Text
}

// NumberType returns the narrowest integer representation or Float64Number.
func (t Token) NumberType() NumberType {
	switch t.Kind {
	case Int:
		v, err := strconv.ParseInt(t.Text, 10, 64)
		if err != nil {
			return BigIntNumber
		}
		if v >= math.MinInt32 && v <= math.MaxInt32 {
			return Int32Number
		}
		return Int64Number
	case Float:
		return Float64Number
	}
	return NotNumber
}

// Int32 returns the token as a 32-bit integer.
func (t Token) Int32() (int32, error) {
	v, err := t.Int64()
	if err != nil {
		return 0, err
	}
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("numeric value %s out of range of int32", t.Text)
	}
	return int32(v), nil
}

// Int64 returns the token as a 64-bit integer.
func (t Token) Int64() (int64, error) {
	if t.Kind != Int {
		return 0, fmt.Errorf("expected integer, but had %v", t.Kind)
	}
	v, err := strconv.ParseInt(t.Text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("numeric value %s out of range of int64", t.Text)
	}
	return v, nil
}

// Uint64 returns the token as an unsigned 64-bit integer.
func (t Token) Uint64() (uint64, error) {
	if t.Kind != Int {
		return 0, fmt.Errorf("expected integer, but had %v", t.Kind)
	}
	v, err := strconv.ParseUint(t.Text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("numeric value %s out of range of uint64", t.Text)
	}
	return v, nil
}

// BigInt returns the token as an arbitrary precision integer.
func (t Token) BigInt() (*big.Int, error) {
	switch t.Kind {
	case Int:
		v, ok := new(big.Int).SetString(t.Text, 10)
		if !ok {
			return nil, fmt.Errorf("invalid integer %q", t.Text)
		}
		return v, nil
	case Float:
		d, err := decimal.NewFromString(t.Text)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", t.Text, err)
		}
		return d.BigInt(), nil
	}
	return nil, fmt.Errorf("expected number, but had %v", t.Kind)
}

// Float64 returns the token as a float.
func (t Token) Float64() (float64, error) {
	if !t.Kind.IsNumeric() {
		return 0, fmt.Errorf("expected number, but had %v", t.Kind)
	}
	v, err := strconv.ParseFloat(t.Text, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", t.Text)
	}
	return v, nil
}

// Decimal returns the token as an arbitrary precision decimal.
func (t Token) Decimal() (decimal.Decimal, error) {
	if !t.Kind.IsNumeric() {
		return decimal.Decimal{}, fmt.Errorf("expected number, but had %v", t.Kind)
	}
	return decimal.NewFromString(t.Text)
}

// Binary decodes a base64 string token or returns embedded bytes.
func (t Token) Binary() ([]byte, error) {
	switch t.Kind {
	case String:
		return DecodeBase64(t.Text)
	case Embedded:
		if b, ok := t.Value.([]byte); ok {
			return b, nil
		}
		return nil, fmt.Errorf("embedded value %T is not binary", t.Value)
	}
	return nil, fmt.Errorf("expected binary string, but had %v", t.Kind)
}

// DecodeBase64 accepts standard base64 with or without padding; embedded line breaks are ignored.
func DecodeBase64(text string) ([]byte, error) {
	if strings.ContainsAny(text, "\r\n") {
		text = strings.NewReplacer("\r", "", "\n", "").Replace(text)
	}
	if strings.HasSuffix(text, "=") {
		return base64.StdEncoding.DecodeString(text)
	}
	ret, err := base64.RawStdEncoding.DecodeString(text)
	if err != nil {
		if alt, altErr := base64.RawURLEncoding.DecodeString(text); altErr == nil {
			return alt, nil
		}
		return nil, fmt.Errorf("invalid base64 value: %w", err)
	}
	return ret, nil
}

func (t Token) String() string {
	switch t.Kind {
	case FieldName, String, Int, Float:
		return t.Kind.String() + " " + strconv.Quote(t.Text)
	case Embedded:
		return fmt.Sprintf("%v %T", t.Kind, t.Value)
	}
	return t.Kind.String()
}
