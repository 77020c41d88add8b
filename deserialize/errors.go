package deserialize

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/viant/databind/token"
)

// MappingError reports input that cannot be reconstructed into the target type.
type MappingError struct {
	Type    reflect.Type
	Token   token.Kind
	Path    string
	Offset  int64
	Message string
	Err     error
}

func (e *MappingError) Error() string {
	msg := e.Message
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg += ": " + e.Err.Error()
		}
	}
	if e.Path == "" {
		return fmt.Sprintf("%s (offset %d)", msg, e.Offset)
	}
	return fmt.Sprintf("%s (path %s, offset %d)", msg, e.Path, e.Offset)
}

func (e *MappingError) Unwrap() error { return e.Err }

// UnknownPropertyError reports an input property without a matching target property.
type UnknownPropertyError struct {
	*MappingError
	Property string
	Known    []string
}

func (e *UnknownPropertyError) Error() string { return e.MappingError.Error() }

func (e *UnknownPropertyError) Unwrap() error { return e.MappingError }

// InstantiationError reports a creator failure; Err holds the root cause.
type InstantiationError struct {
	Type reflect.Type
	Path string
	Err  error
}

func (e *InstantiationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("cannot construct instance of %v: %v", e.Type, e.Err)
	}
	return fmt.Sprintf("cannot construct instance of %v: %v (path %s)", e.Type, e.Err, e.Path)
}

func (e *InstantiationError) Unwrap() error { return e.Err }

// UnsupportedTypeError reports a type no strategy can be built for.
type UnsupportedTypeError struct {
	Type   reflect.Type
	Reason string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported type %v: %s", e.Type, e.Reason)
}

var errNilInstance = errors.New("creator returned nil")

func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

func unsupported(t reflect.Type, format string, args ...any) error {
	return &UnsupportedTypeError{Type: t, Reason: fmt.Sprintf(format, args...)}
}

func quoteNames(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = `"` + name + `"`
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
