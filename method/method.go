// Package method resolves methods on an object by name at run time and hands
// them back in a form that can be called repeatedly: a typed func, a
// reflect.Value bound to the receiver, or the type level reflect.Method whose
// Func takes the receiver as its first argument.
//
// Lookup happens once. The returned handles do no further name resolution,
// so the cost left on each call is only the cost of the call mechanism itself.
// BindExpr is the only one that leaves reflect out of the call path entirely.
//
// Example:
//
//	type counter struct{ n int }
//	func (c *counter) Inc() { c.n++ }
//
//	func main() {
//		c := &counter{}
//		inc, err := method.BindExpr(c, "Inc")
//		if err != nil {
//			panic(err)
//		}
//		inc(c)
//	}
package method

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

//go:generate stringer -type=ErrType

// ErrType is the type of error that is being returned.
type ErrType uint8

const (
	ETUnknown ErrType = iota
	// ETInvalid indicates the object or signature passed was not usable,
	// such as a nil object or a signature that is not a func type.
	ETInvalid
	// ETNotFound indicates no exported method with the name exists
	// in the object's method set.
	ETNotFound
	// ETSignature indicates the method exists but its type does not
	// match the requested signature.
	ETSignature
)

// Error provides errors for this package.
type Error struct {
	// Type is the type of error.
	Type ErrType
	// Message is the errors message.
	Message string

	wrapped error
}

func (e Error) Unwrap() error {
	return e.wrapped
}

func (e Error) Wrap(err error) Error {
	e.wrapped = err
	return e
}

func (e Error) Error() string {
	return e.Message
}

func errorf(t ErrType, s string, i ...any) Error {
	return Error{Type: t, Message: fmt.Sprintf(s, i...)}
}

var funcType = reflect.TypeOf(func() {})

// Match is a method found by MatchesSignature.
type Match struct {
	// Name is the method's name.
	Name string
	// Value is the method bound to the object it was found on.
	Value reflect.Value
}

// MatchesSignature returns all methods on obj that implement sig. sig must be reflect.Kind == reflect.Func.
// The values returned are methods that can be called with the .Call() or .CallSlice() method.
// obj and sig reflect.Value of an object and function can be retrieved using reflect.ValueOf(object/function type).
// Only exported methods will be returned.
//
// Example:
//
//	type sig func()
//
//	var sigV sig
//	for m := range MatchesSignature(reflect.ValueOf(c), reflect.ValueOf(sigV)) {
//		fmt.Println(m.Name)
//		m.Value.Call(nil)
//	}
func MatchesSignature(obj reflect.Value, sig reflect.Value) chan Match {
	if sig.Kind() != reflect.Func {
		panic(fmt.Sprintf("MatchesSignature(): sig must be kind == Func, not %s", sig.Kind()))
	}

	ch := make(chan Match, 1)

	go func() {
		defer close(ch)
		t := obj.Type()
		for i := 0; i < obj.NumMethod(); i++ {
			if obj.Method(i).Type().AssignableTo(sig.Type()) {
				ch <- Match{Name: t.Method(i).Name, Value: obj.Method(i)}
			}
		}
	}()
	return ch
}

// ByName returns the method called name on obj, bound to obj. If sig is not nil,
// the method's type must be assignable to sig. The returned value is called
// with .Call(), which packs arguments and results into []reflect.Value
// on every call.
func ByName(obj reflect.Value, name string, sig reflect.Type) (reflect.Value, error) {
	if err := checkArgs(obj, sig); err != nil {
		return reflect.Value{}, err
	}

	m := obj.MethodByName(name)
	if !m.IsValid() {
		return reflect.Value{}, notFound(obj, name, sig)
	}
	if sig != nil && !m.Type().AssignableTo(sig) {
		return reflect.Value{}, errorf(ETSignature, "method %s.%s has type %s, want %s", obj.Type(), name, m.Type(), sig)
	}
	return m, nil
}

// Bind looks up the method called name on obj and converts it to the func type F.
// The result is backed by reflect's method value trampoline, so every call
// still goes through the reflect call path. Use BindExpr when that matters.
func Bind[F any](obj any, name string) (F, error) {
	var zero F

	sig := reflect.TypeOf((*F)(nil)).Elem()
	if sig.Kind() != reflect.Func {
		return zero, errorf(ETInvalid, "Bind(): F must be a func type, not %s", sig)
	}

	m, err := ByName(reflect.ValueOf(obj), name, sig)
	if err != nil {
		return zero, err
	}
	return m.Convert(sig).Interface().(F), nil
}

// BindExpr returns the method expression for the func() method called name on
// recv's type, so calling it with recv is an ordinary func call with no reflect
// involved. R must be the concrete type holding the method; an interface type
// gives an ETSignature error since its descriptor has no callable func(R).
func BindExpr[R any](recv R, name string) (func(R), error) {
	desc, err := Descriptor(reflect.ValueOf(recv), name, funcType)
	if err != nil {
		return nil, err
	}

	fn, ok := desc.Func.Interface().(func(R))
	if !ok {
		return nil, errorf(ETSignature, "method %s has type %s, want %s", name, desc.Type, reflect.TypeOf((func(R))(nil)))
	}
	return fn, nil
}

// Descriptor returns the type level method called name from obj's method set.
// Its Func takes the receiver as the first argument, so every call through it
// must pass obj again. If sig is not nil, the method minus its receiver must
// have the same parameters and results as sig.
func Descriptor(obj reflect.Value, name string, sig reflect.Type) (reflect.Method, error) {
	if err := checkArgs(obj, sig); err != nil {
		return reflect.Method{}, err
	}

	m, ok := obj.Type().MethodByName(name)
	if !ok {
		return reflect.Method{}, notFound(obj, name, sig)
	}
	if sig != nil && !sameSignature(m.Type, 1, sig) {
		return reflect.Method{}, errorf(ETSignature, "method %s.%s has type %s, want receiver plus %s", obj.Type(), name, m.Type, sig)
	}
	return m, nil
}

// Call calls method with args, wrapping each in a reflect.Value.
func Call(method reflect.Value, args ...any) []reflect.Value {
	in := make([]reflect.Value, 0, len(args))
	for _, a := range args {
		in = append(in, reflect.ValueOf(a))
	}
	return method.Call(in)
}

func checkArgs(obj reflect.Value, sig reflect.Type) error {
	if !obj.IsValid() {
		return errorf(ETInvalid, "object is not valid (nil or zero reflect.Value)")
	}
	if sig != nil && sig.Kind() != reflect.Func {
		return errorf(ETInvalid, "sig must be kind == Func, not %s", sig.Kind())
	}
	return nil
}

// sameSignature reports if ft, ignoring its first skip parameters, has the
// same parameters, results and variadic-ness as sig.
func sameSignature(ft reflect.Type, skip int, sig reflect.Type) bool {
	if ft.NumIn()-skip != sig.NumIn() || ft.NumOut() != sig.NumOut() || ft.IsVariadic() != sig.IsVariadic() {
		return false
	}
	for i := 0; i < sig.NumIn(); i++ {
		if ft.In(i+skip) != sig.In(i) {
			return false
		}
	}
	for i := 0; i < sig.NumOut(); i++ {
		if ft.Out(i) != sig.Out(i) {
			return false
		}
	}
	return true
}

// notFound builds the ETNotFound error, listing the methods on obj that
// would have satisfied sig.
func notFound(obj reflect.Value, name string, sig reflect.Type) Error {
	if sig == nil {
		return errorf(ETNotFound, "method %s.%s not found", obj.Type(), name)
	}

	var candidates []string
	for m := range MatchesSignature(obj, reflect.Zero(sig)) {
		candidates = append(candidates, m.Name)
	}
	if len(candidates) == 0 {
		return errorf(ETNotFound, "method %s.%s not found, and no method matches %s", obj.Type(), name, sig)
	}
	sort.Strings(candidates)
	return errorf(ETNotFound, "method %s.%s not found, methods matching %s: %s", obj.Type(), name, sig, strings.Join(candidates, ", "))
}
