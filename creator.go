package databind

import (
	"fmt"
	"reflect"
)

// CreatorKind identifies how a creator consumes input.
type CreatorKind int

const (
	// CreatorDefault takes no input.
	CreatorDefault CreatorKind = iota
	// CreatorString takes a string value.
	CreatorString
	// CreatorInt32 takes a number that fits 32 bits.
	CreatorInt32
	// CreatorInt64 takes any 64-bit integer.
	CreatorInt64
	// CreatorFloat takes a floating point number.
	CreatorFloat
	// CreatorDelegating takes one value of its delegate type, reconstructed recursively.
	CreatorDelegating
	// CreatorProperties takes named parameters gathered from object fields.
	CreatorProperties
)

var creatorKindNames = [...]string{"default", "string", "int32", "int64", "float", "delegating", "properties"}

func (k CreatorKind) String() string {
	if k < 0 || int(k) >= len(creatorKindNames) {
		return "unknown"
	}
	return creatorKindNames[k]
}

// Creator constructs instances of a type.
type Creator struct {
	kind     CreatorKind
	target   reflect.Type
	delegate reflect.Type
	params   []Param
	call     func(arg any) (any, error)
}

// CreatorProvider is implemented by types that declare their own creators.
type CreatorProvider interface {
	Creators() []*Creator
}

// Kind returns creator kind.
func (c *Creator) Kind() CreatorKind { return c.kind }

// Type returns the constructed type.
func (c *Creator) Type() reflect.Type { return c.target }

// Delegate returns the argument type of a delegating creator.
func (c *Creator) Delegate() reflect.Type { return c.delegate }

// Params returns parameters of a properties creator.
func (c *Creator) Params() []Param { return c.params }

// Call invokes the creator; a panic inside the creator function is returned as an error.
func (c *Creator) Call(arg any) (ret any, err error) {
	defer func() {
		if r := recover(); r != nil {
			if rErr, ok := r.(error); ok {
				err = rErr
				return
			}
			err = fmt.Errorf("%v", r)
		}
	}()
	return c.call(arg)
}

func (c *Creator) String() string {
	return fmt.Sprintf("%v creator of %v", c.kind, c.target)
}

// DefaultCreator declares a no-argument factory.
func DefaultCreator[T any](fn func() (T, error)) *Creator {
	return &Creator{kind: CreatorDefault, target: reflect.TypeFor[T](), call: func(any) (any, error) {
		v, err := fn()
		return v, err
	}}
}

// StringCreator declares a creator taking a string value.
func StringCreator[T any](fn func(string) (T, error)) *Creator {
	return &Creator{kind: CreatorString, target: reflect.TypeFor[T](), call: func(arg any) (any, error) {
		v, err := fn(arg.(string))
		return v, err
	}}
}

// Int32Creator declares a creator for integers that fit 32 bits.
func Int32Creator[T any](fn func(int32) (T, error)) *Creator {
	return &Creator{kind: CreatorInt32, target: reflect.TypeFor[T](), call: func(arg any) (any, error) {
		v, err := fn(arg.(int32))
		return v, err
	}}
}

// Int64Creator declares a creator for 64-bit integers.
func Int64Creator[T any](fn func(int64) (T, error)) *Creator {
	return &Creator{kind: CreatorInt64, target: reflect.TypeFor[T](), call: func(arg any) (any, error) {
		v, err := fn(arg.(int64))
		return v, err
	}}
}

// FloatCreator declares a creator for floating point numbers.
func FloatCreator[T any](fn func(float64) (T, error)) *Creator {
	return &Creator{kind: CreatorFloat, target: reflect.TypeFor[T](), call: func(arg any) (any, error) {
		v, err := fn(arg.(float64))
		return v, err
	}}
}

// DelegatingCreator declares a creator taking one value of type D.
func DelegatingCreator[T, D any](fn func(D) (T, error)) *Creator {
	return &Creator{kind: CreatorDelegating, target: reflect.TypeFor[T](), delegate: reflect.TypeFor[D](), call: func(arg any) (any, error) {
		d, _ := arg.(D)
		v, err := fn(d)
		return v, err
	}}
}

// PropertiesCreator declares a creator taking named parameters.
func PropertiesCreator[T any](fn func(args *Args) (T, error), params ...Param) *Creator {
	return &Creator{kind: CreatorProperties, target: reflect.TypeFor[T](), params: params, call: func(arg any) (any, error) {
		v, err := fn(arg.(*Args))
		return v, err
	}}
}

// Param describes one properties creator parameter.
type Param struct {
	Name     string
	Type     reflect.Type
	Required bool
}

// Arg declares an optional parameter of type V.
func Arg[V any](name string) Param {
	return Param{Name: name, Type: reflect.TypeFor[V]()}
}

// RequiredArg declares a parameter that must be present in input.
func RequiredArg[V any](name string) Param {
	return Param{Name: name, Type: reflect.TypeFor[V](), Required: true}
}

// Args holds parameter values passed to a properties creator.
type Args struct {
	params []Param
	values []any
	set    []bool
}

// NewArgs creates arguments for params.
func NewArgs(params []Param) *Args {
	return &Args{params: params, values: make([]any, len(params)), set: make([]bool, len(params))}
}

// Set assigns value to parameter at index.
func (a *Args) Set(index int, value any) {
	a.values[index] = value
	a.set[index] = true
}

// SetDefault assigns value to parameter at index without marking it present.
func (a *Args) SetDefault(index int, value any) {
	a.values[index] = value
}

// Len returns number of parameters.
func (a *Args) Len() int { return len(a.params) }

// At returns value at index.
func (a *Args) At(index int) any { return a.values[index] }

// IsSet returns true when parameter at index was present in input.
func (a *Args) IsSet(index int) bool { return a.set[index] }

// Index returns parameter index or -1.
func (a *Args) Index(name string) int {
	for i, p := range a.params {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// Value returns named parameter value.
func (a *Args) Value(name string) any {
	if i := a.Index(name); i != -1 {
		return a.values[i]
	}
	return nil
}

// Has returns true when named parameter was present in input.
func (a *Args) Has(name string) bool {
	i := a.Index(name)
	return i != -1 && a.set[i]
}

// Get returns named parameter as V, or zero V when absent.
func Get[V any](a *Args, name string) V {
	v, _ := a.Value(name).(V)
	return v
}
