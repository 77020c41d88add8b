package deserialize

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/viant/databind/token"
)

type enumStrategy struct {
	rType  reflect.Type
	values []reflect.Value
	names  []string
	byName map[string]int
	byFold map[string]int
}

func newEnumStrategy(t reflect.Type, values []reflect.Value) *enumStrategy {
	ret := &enumStrategy{rType: t, values: values, byName: map[string]int{}, byFold: map[string]int{}}
	for i, v := range values {
		name := enumName(v)
		ret.names = append(ret.names, name)
		if _, ok := ret.byName[name]; !ok {
			ret.byName[name] = i
		}
		folded := strings.ToLower(name)
		if _, ok := ret.byFold[folded]; !ok {
			ret.byFold[folded] = i
		}
	}
	return ret
}

func enumName(v reflect.Value) string {
	if s, ok := v.Interface().(fmt.Stringer); ok {
		return s.String()
	}
	if v.Kind() == reflect.String {
		return v.String()
	}
	return fmt.Sprint(v.Interface())
}

func (s *enumStrategy) lookup(name string, fold bool) (int, bool) {
	if i, ok := s.byName[name]; ok {
		return i, true
	}
	if fold {
		i, ok := s.byFold[strings.ToLower(name)]
		return i, ok
	}
	return 0, false
}

func (s *enumStrategy) decode(ctx *Context, dst reflect.Value) error {
	tok := ctx.Token()
	switch tok.Kind {
	case token.Null:
		dst.SetZero()
		return nil
	case token.String:
		if i, ok := s.lookup(tok.Text, ctx.Enabled(CaseInsensitiveEnums)); ok {
			dst.Set(s.values[i])
			return nil
		}
		if tok.Text == "" && ctx.Enabled(AcceptEmptyStringAsNull) {
			dst.SetZero()
			return nil
		}
		if ordinal, err := strconv.Atoi(tok.Text); err == nil && !ctx.Enabled(FailOnNumbersForEnums) {
			return s.ordinal(ctx, dst, ordinal, tok.Text)
		}
		if ctx.Enabled(ReadUnknownEnumValuesAsNull) {
			dst.SetZero()
			return nil
		}
		return ctx.mappingError(s.rType, "cannot deserialize value of type %v from String %q: not one of the values accepted for enum: %s", s.rType, tok.Text, quoteNames(s.names))
	case token.Int:
		if ctx.Enabled(FailOnNumbersForEnums) {
			return ctx.mappingError(s.rType, "cannot deserialize value of type %v from number %s: not allowed to deserialize enum values as numbers", s.rType, tok.Text)
		}
		ordinal, err := strconv.Atoi(tok.Text)
		if err != nil {
			ordinal = -1
		}
		return s.ordinal(ctx, dst, ordinal, tok.Text)
	}
	return ctx.unexpectedToken(s.rType)
}

func (s *enumStrategy) ordinal(ctx *Context, dst reflect.Value, ordinal int, text string) error {
	if ordinal >= 0 && ordinal < len(s.values) {
		dst.Set(s.values[ordinal])
		return nil
	}
	if ctx.Enabled(ReadUnknownEnumValuesAsNull) {
		dst.SetZero()
		return nil
	}
	return ctx.mappingError(s.rType, "cannot deserialize value of type %v from number %s: index value outside legal index range [0..%d]", s.rType, text, len(s.values)-1)
}
