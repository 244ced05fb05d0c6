package calls

import (
	"fmt"
	"reflect"

	"github.com/johnsiilver/callbench/method"
)

// Names of the modes, in the order they run.
const (
	NameDirect        = "DIRECT"
	NameInterface     = "INTERFACE"
	NameClosure       = "CLOSURE"
	NameMethodValue   = "METHOD VALUE"
	NameReflectBound  = "REFLECT BOUND (func())"
	NameReflectValue  = "REFLECT VALUE (Value.Call)"
	NameReflectInvoke = "REFLECT INVOKE (Method.Func)"
)

// ModeNames lists every mode name in run order.
var ModeNames = []string{
	NameDirect,
	NameInterface,
	NameClosure,
	NameMethodValue,
	NameReflectBound,
	NameReflectValue,
	NameReflectInvoke,
}

var funcSig = reflect.TypeOf(func() {})

// Mode is a single call mechanism under measurement.
type Mode struct {
	// Name is printed in front of the mode's measurement.
	Name string
	// Loop makes n calls through the mode's mechanism.
	Loop func(n int)
}

// holder keeps the Incrementer in a field so the call site can't be
// devirtualized to the concrete type.
type holder struct {
	inc Incrementer
}

// Modes builds every mode against b, in run order. name is the method the
// reflective modes look up; it must be an exported func() method of *Benchmark.
// All lookups happen here, so a bad name fails before anything is measured.
func Modes(b *Benchmark, name string) ([]Mode, error) {
	if b == nil {
		return nil, fmt.Errorf("Modes(): Benchmark cannot be nil")
	}
	obj := reflect.ValueOf(b)

	expr, err := method.BindExpr(b, name)
	if err != nil {
		return nil, fmt.Errorf("mode %q: %w", NameReflectBound, err)
	}
	bound := func() { expr(b) }
	untyped, err := method.ByName(obj, name, funcSig)
	if err != nil {
		return nil, fmt.Errorf("mode %q: %w", NameReflectValue, err)
	}
	desc, err := method.Descriptor(obj, name, funcSig)
	if err != nil {
		return nil, fmt.Errorf("mode %q: %w", NameReflectInvoke, err)
	}

	h := &holder{inc: b}
	closure := func() { b.Result++ }
	methodValue := b.MethodNormal

	return []Mode{
		{
			Name: NameDirect,
			Loop: func(n int) {
				for i := 0; i < n; i++ {
					b.MethodNormal()
				}
			},
		},
		{
			Name: NameInterface,
			Loop: func(n int) {
				for i := 0; i < n; i++ {
					h.inc.MethodVirtual()
				}
			},
		},
		{
			Name: NameClosure,
			Loop: func(n int) {
				for i := 0; i < n; i++ {
					closure()
				}
			},
		},
		{
			Name: NameMethodValue,
			Loop: func(n int) {
				for i := 0; i < n; i++ {
					methodValue()
				}
			},
		},
		{
			Name: NameReflectBound,
			Loop: func(n int) {
				for i := 0; i < n; i++ {
					bound()
				}
			},
		},
		{
			Name: NameReflectValue,
			Loop: func(n int) {
				for i := 0; i < n; i++ {
					untyped.Call(nil)
				}
			},
		},
		{
			Name: NameReflectInvoke,
			Loop: func(n int) {
				for i := 0; i < n; i++ {
					// The receiver is packed on every call.
					desc.Func.Call([]reflect.Value{obj})
				}
			},
		},
	}, nil
}
