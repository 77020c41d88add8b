package deserialize

import (
	"encoding/base64"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/viant/databind/token"
)

type scalarParser func(ctx *Context, tok token.Token, dst reflect.Value) error

type scalarStrategy struct {
	parse scalarParser
}

func (s *scalarStrategy) decode(ctx *Context, dst reflect.Value) error {
	tok := ctx.Token()
	switch tok.Kind {
	case token.Null:
		if ctx.Enabled(FailOnNullForPrimitives) {
			return ctx.mappingError(dst.Type(), "cannot map null into type %v", dst.Type())
		}
		dst.SetZero()
		return nil
	case token.ObjectStart, token.ArrayStart, token.ObjectEnd, token.ArrayEnd, token.FieldName, token.None:
		return ctx.unexpectedToken(dst.Type())
	}
	return s.parse(ctx, tok, dst)
}

var (
	bigIntType   = reflect.TypeOf(big.Int{})
	decimalType  = reflect.TypeOf(decimal.Decimal{})
	timeType     = reflect.TypeOf(time.Time{})
	durationType = reflect.TypeOf(time.Duration(0))
)

var (
	boolStrategy    = scalar(parseBool)
	intStrategy     = scalar(parseInt)
	uintStrategy    = scalar(parseUint)
	floatStrategy   = scalar(parseFloat)
	stringStrategy  = scalar(parseString)
	timeStrategy    = newTimeStrategy("")
	untypedStrategy = readyStrategy(KindUntyped, reflect.TypeOf((*any)(nil)).Elem())
)

// staticStrategies are process-wide strategies of types with fixed semantics.
var staticStrategies = map[reflect.Type]*Strategy{
	reflect.TypeOf(false):      boolStrategy,
	reflect.TypeOf(int(0)):     intStrategy,
	reflect.TypeOf(int8(0)):    intStrategy,
	reflect.TypeOf(int16(0)):   intStrategy,
	reflect.TypeOf(int32(0)):   intStrategy,
	reflect.TypeOf(int64(0)):   intStrategy,
	reflect.TypeOf(uint(0)):    uintStrategy,
	reflect.TypeOf(uint8(0)):   uintStrategy,
	reflect.TypeOf(uint16(0)):  uintStrategy,
	reflect.TypeOf(uint32(0)):  uintStrategy,
	reflect.TypeOf(uint64(0)):  uintStrategy,
	reflect.TypeOf(uintptr(0)): uintStrategy,
	reflect.TypeOf(float32(0)): floatStrategy,
	reflect.TypeOf(float64(0)): floatStrategy,
	reflect.TypeOf(""):         stringStrategy,
	timeType:                   timeStrategy,
	durationType:               scalar(parseDuration),
	bigIntType:                 scalar(parseBigInt),
	decimalType:                scalar(parseDecimal),
	untypedStrategy.rType:      untypedStrategy,
}

func scalar(parse scalarParser) *Strategy {
	ret := readyStrategy(KindScalar, nil)
	ret.scalar = &scalarStrategy{parse: parse}
	return ret
}

func staticStrategy(t reflect.Type) *Strategy {
	return staticStrategies[t]
}

// scalarByKind returns strategy for named types of basic kinds.
func scalarByKind(t reflect.Type) *Strategy {
	switch t.Kind() {
	case reflect.Bool:
		return boolStrategy
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return intStrategy
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return uintStrategy
	case reflect.Float32, reflect.Float64:
		return floatStrategy
	case reflect.String:
		return stringStrategy
	}
	return nil
}

// newTimeStrategy returns a time.Time strategy; an empty layout uses the mapper default.
func newTimeStrategy(layout string) *Strategy {
	return scalar(func(ctx *Context, tok token.Token, dst reflect.Value) error {
		return parseTime(ctx, tok, dst, layout)
	})
}

func coercible(ctx *Context, tok token.Token, dst reflect.Value) error {
	if !ctx.Enabled(CoerceScalars) {
		return ctx.mappingError(dst.Type(), "cannot coerce %v value %q to %v", tok.Kind, tok.Text, dst.Type())
	}
	return nil
}

func emptyString(tok token.Token, dst reflect.Value) bool {
	if tok.Kind == token.String && strings.TrimSpace(tok.Text) == "" {
		dst.SetZero()
		return true
	}
	return false
}

func scalarText(tok token.Token) string {
	switch tok.Kind {
	case token.True:
		return "true"
	case token.False:
		return "false"
	}
	return tok.Text
}

func parseBool(ctx *Context, tok token.Token, dst reflect.Value) error {
	switch tok.Kind {
	case token.True, token.False:
		dst.SetBool(tok.Kind == token.True)
		return nil
	case token.Int:
		if err := coercible(ctx, tok, dst); err != nil {
			return err
		}
		dst.SetBool(tok.Text != "0")
		return nil
	case token.String:
		if err := coercible(ctx, tok, dst); err != nil {
			return err
		}
		if emptyString(tok, dst) {
			return nil
		}
		v, err := strconv.ParseBool(strings.TrimSpace(tok.Text))
		if err != nil {
			return ctx.mappingError(dst.Type(), "cannot deserialize value of type %v from String %q: only \"true\" or \"false\" recognized", dst.Type(), tok.Text)
		}
		dst.SetBool(v)
		return nil
	}
	return ctx.unexpectedToken(dst.Type())
}

func parseInt(ctx *Context, tok token.Token, dst reflect.Value) error {
	text := tok.Text
	switch tok.Kind {
	case token.Int:
	case token.Float:
		if !ctx.Enabled(AcceptFloatAsInt) {
			return ctx.mappingError(dst.Type(), "cannot coerce floating-point value %s to %v", text, dst.Type())
		}
		return setTruncated(ctx, dst, text)
	case token.String:
		if err := coercible(ctx, tok, dst); err != nil {
			return err
		}
		if emptyString(tok, dst) {
			return nil
		}
		text = strings.TrimSpace(text)
		if strings.ContainsAny(text, ".eE") && ctx.Enabled(AcceptFloatAsInt) {
			return setTruncated(ctx, dst, text)
		}
	default:
		return ctx.unexpectedToken(dst.Type())
	}
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil || dst.OverflowInt(v) {
		return numberError(ctx, dst.Type(), text, err)
	}
	dst.SetInt(v)
	return nil
}

func setTruncated(ctx *Context, dst reflect.Value, text string) error {
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return numberError(ctx, dst.Type(), text, err)
	}
	f = math.Trunc(f)
	switch dst.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if f < 0 || f > math.MaxUint64 || dst.OverflowUint(uint64(f)) {
			return numberError(ctx, dst.Type(), text, nil)
		}
		dst.SetUint(uint64(f))
	default:
		if f < math.MinInt64 || f > math.MaxInt64 || dst.OverflowInt(int64(f)) {
			return numberError(ctx, dst.Type(), text, nil)
		}
		dst.SetInt(int64(f))
	}
	return nil
}

func numberError(ctx *Context, t reflect.Type, text string, err error) error {
	if err != nil {
		if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrSyntax {
			return ctx.mappingError(t, "cannot deserialize value of type %v from %q: not a valid number", t, text)
		}
	}
	return ctx.mappingError(t, "numeric value %s out of range of %v", text, t)
}

func parseUint(ctx *Context, tok token.Token, dst reflect.Value) error {
	text := tok.Text
	switch tok.Kind {
	case token.Int:
	case token.Float:
		if !ctx.Enabled(AcceptFloatAsInt) {
			return ctx.mappingError(dst.Type(), "cannot coerce floating-point value %s to %v", text, dst.Type())
		}
		return setTruncated(ctx, dst, text)
	case token.String:
		if err := coercible(ctx, tok, dst); err != nil {
			return err
		}
		if emptyString(tok, dst) {
			return nil
		}
		text = strings.TrimSpace(text)
		if strings.ContainsAny(text, ".eE") && ctx.Enabled(AcceptFloatAsInt) {
			return setTruncated(ctx, dst, text)
		}
	default:
		return ctx.unexpectedToken(dst.Type())
	}
	v, err := strconv.ParseUint(text, 10, 64)
	if err != nil || dst.OverflowUint(v) {
		return numberError(ctx, dst.Type(), text, err)
	}
	dst.SetUint(v)
	return nil
}

func parseFloat(ctx *Context, tok token.Token, dst reflect.Value) error {
	text := tok.Text
	switch tok.Kind {
	case token.Int, token.Float:
	case token.String:
		if err := coercible(ctx, tok, dst); err != nil {
			return err
		}
		if emptyString(tok, dst) {
			return nil
		}
		text = strings.TrimSpace(text)
	default:
		return ctx.unexpectedToken(dst.Type())
	}
	v, err := strconv.ParseFloat(text, dst.Type().Bits())
	if err != nil {
		return numberError(ctx, dst.Type(), text, err)
	}
	if !math.IsInf(v, 0) && dst.OverflowFloat(v) {
		return numberError(ctx, dst.Type(), text, nil)
	}
	dst.SetFloat(v)
	return nil
}

func parseString(ctx *Context, tok token.Token, dst reflect.Value) error {
	switch tok.Kind {
	case token.String:
		dst.SetString(tok.Text)
		return nil
	case token.Int, token.Float, token.True, token.False:
		if err := coercible(ctx, tok, dst); err != nil {
			return err
		}
		dst.SetString(scalarText(tok))
		return nil
	case token.Embedded:
		switch v := tok.Value.(type) {
		case []byte:
			dst.SetString(base64.StdEncoding.EncodeToString(v))
		case string:
			dst.SetString(v)
		default:
			dst.SetString(fmt.Sprint(v))
		}
		return nil
	}
	return ctx.unexpectedToken(dst.Type())
}

func parseTime(ctx *Context, tok token.Token, dst reflect.Value, layout string) error {
	switch tok.Kind {
	case token.String:
		if emptyString(tok, dst) {
			return nil
		}
		if layout == "" {
			layout = ctx.mapper.cfg.timeLayout
		}
		ts, err := time.Parse(layout, strings.TrimSpace(tok.Text))
		if err != nil {
			mErr := ctx.mappingError(dst.Type(), "cannot deserialize value of type %v from String %q", dst.Type(), tok.Text)
			mErr.Err = err
			return mErr
		}
		dst.Set(reflect.ValueOf(ts))
		return nil
	case token.Int:
		millis, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			return numberError(ctx, dst.Type(), tok.Text, err)
		}
		dst.Set(reflect.ValueOf(time.UnixMilli(millis).UTC()))
		return nil
	case token.Embedded:
		if ts, ok := tok.Value.(time.Time); ok {
			dst.Set(reflect.ValueOf(ts))
			return nil
		}
	}
	return ctx.unexpectedToken(dst.Type())
}

func parseDuration(ctx *Context, tok token.Token, dst reflect.Value) error {
	switch tok.Kind {
	case token.String:
		if emptyString(tok, dst) {
			return nil
		}
		d, err := time.ParseDuration(strings.TrimSpace(tok.Text))
		if err != nil {
			return ctx.mappingError(dst.Type(), "cannot deserialize value of type %v from String %q", dst.Type(), tok.Text)
		}
		dst.SetInt(int64(d))
		return nil
	case token.Int, token.Float:
		return parseInt(ctx, tok, dst)
	}
	return ctx.unexpectedToken(dst.Type())
}

func parseBigInt(ctx *Context, tok token.Token, dst reflect.Value) error {
	switch tok.Kind {
	case token.Int:
	case token.Float:
		if !ctx.Enabled(AcceptFloatAsInt) {
			return ctx.mappingError(dst.Type(), "cannot coerce floating-point value %s to %v", tok.Text, dst.Type())
		}
	case token.String:
		if err := coercible(ctx, tok, dst); err != nil {
			return err
		}
		if emptyString(tok, dst) {
			return nil
		}
		v, ok := new(big.Int).SetString(strings.TrimSpace(tok.Text), 10)
		if !ok {
			return numberError(ctx, dst.Type(), tok.Text, &strconv.NumError{Func: "SetString", Num: tok.Text, Err: strconv.ErrSyntax})
		}
		dst.Set(reflect.ValueOf(v).Elem())
		return nil
	default:
		return ctx.unexpectedToken(dst.Type())
	}
	v, err := tok.BigInt()
	if err != nil {
		return numberError(ctx, dst.Type(), tok.Text, err)
	}
	dst.Set(reflect.ValueOf(v).Elem())
	return nil
}

func parseDecimal(ctx *Context, tok token.Token, dst reflect.Value) error {
	text := tok.Text
	switch tok.Kind {
	case token.Int, token.Float:
	case token.String:
		if err := coercible(ctx, tok, dst); err != nil {
			return err
		}
		if emptyString(tok, dst) {
			return nil
		}
		text = strings.TrimSpace(text)
	default:
		return ctx.unexpectedToken(dst.Type())
	}
	v, err := decimal.NewFromString(text)
	if err != nil {
		return ctx.mappingError(dst.Type(), "cannot deserialize value of type %v from %q: not a valid number", dst.Type(), text)
	}
	dst.Set(reflect.ValueOf(v))
	return nil
}
