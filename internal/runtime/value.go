// Package runtime holds the closed set of lithium value variants, the
// operator dispatch over them, the per-kind member tables and the scope
// chain. Values and scopes live together because function values share
// ownership of the scope they captured.
package runtime

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/termfx/lithium/internal/ast"
	"github.com/termfx/lithium/internal/source"
)

// Epsilon masks float artifacts in numeric equality, so that
// 0.1 + 0.2 == 0.3 holds.
const Epsilon = 1e-15

// Kind discriminates the value variants.
type Kind int

const (
	KindNull Kind = iota
	KindNumber
	KindString
	KindBool
	KindArray
	KindFunction
	KindBuiltin
	KindClass
	KindObject
)

// Value is one lithium runtime value.
type Value interface {
	Kind() Kind
	// TypeName is the name used in diagnostics; objects report their
	// class name.
	TypeName() string
	// String is the language-level toString.
	String() string
	// Truthy is the language-level toBoolean.
	Truthy() bool
}

// Null is the null value.
type Null struct{}

func (*Null) Kind() Kind { return KindNull }
func (*Null) TypeName() string { return "null" }
func (*Null) String() string { return "null" }
func (*Null) Truthy() bool { return false }

// Number is a 64-bit float.
type Number struct {
	Val float64
}

func (*Number) Kind() Kind { return KindNumber }
func (*Number) TypeName() string { return "number" }
func (n *Number) Truthy() bool { return n.Val != 0 }

// String formats the number in decimal, rounded to 15 significant
// decimals so float artifacts do not leak into program output, with an
// integral value printing without a decimal point.
func (n *Number) String() string {
	return FormatNumber(n.Val)
}

// FormatNumber is Number.String for a raw float.
func FormatNumber(v float64) string {
	if math.IsInf(v, 1) {
		return "inf"
	}
	if math.IsInf(v, -1) {
		return "-inf"
	}
	if math.IsNaN(v) {
		return "nan"
	}
	if math.Abs(v) < 1e15 {
		v, _ = strconv.ParseFloat(strconv.FormatFloat(v, 'g', 15, 64), 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// String is a UTF-8 string.
type String struct {
	Val string
}

func (*String) Kind() Kind { return KindString }
func (*String) TypeName() string { return "string" }
func (s *String) String() string { return s.Val }
func (s *String) Truthy() bool { return s.Val != "" }

// Bool is a boolean.
type Bool struct {
	Val bool
}

func (*Bool) Kind() Kind { return KindBool }
func (*Bool) TypeName() string { return "boolean" }
func (b *Bool) Truthy() bool { return b.Val }

func (b *Bool) String() string {
	if b.Val {
		return "true"
	}
	return "false"
}

// Array is an ordered, mutable sequence of values.
type Array struct {
	Elems []Value
}

func (*Array) Kind() Kind { return KindArray }
func (*Array) TypeName() string { return "array" }
func (a *Array) Truthy() bool { return len(a.Elems) > 0 }

func (a *Array) String() string {
	if len(a.Elems) == 0 {
		return "[]"
	}
	var b strings.Builder
	b.WriteByte('[')
	for i, el := range a.Elems {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(el.String())
	}
	b.WriteByte(']')
	return b.String()
}

// Function is a user-defined function together with the scope active at
// its declaration.
type Function struct {
	Name   string
	Params []ast.Param
	Body   ast.Stmt
	// Env is the captured scope; Scope.Clear nils it on disposal to
	// break reference cycles.
	Env *Scope
}

func (*Function) Kind() Kind { return KindFunction }
func (*Function) TypeName() string { return "function" }
func (f *Function) String() string { return "<function " + f.Name + ">" }
func (*Function) Truthy() bool { return true }
func (f *Function) ClearEnv() { f.Env = nil }
func (f *Function) Arity() int { return len(f.Params) }

// Call carries everything a host function receives: the evaluated
// arguments, the caller's scope, the call's source range and, for bound
// members, the receiver.
type Call struct {
	Args  []Value
	Scope *Scope
	Range source.Range
	Recv  Value
}

// BuiltinFn is the signature of a host callable.
type BuiltinFn func(call *Call) (Value, error)

// Builtin is a host callable, optionally bound to a receiver.
type Builtin struct {
	Name string
	Fn   BuiltinFn
	Recv Value
}

func (*Builtin) Kind() Kind { return KindBuiltin }
func (*Builtin) TypeName() string { return "builtin" }
func (*Builtin) Truthy() bool { return true }

func (b *Builtin) String() string { return "<builtin function>" }

// Bind returns a copy of the builtin carrying recv as its receiver.
func (b *Builtin) Bind(recv Value) *Builtin {
	return &Builtin{Name: b.Name, Fn: b.Fn, Recv: recv}
}

// Class is a class declaration captured as a value; instantiation
// replays the body into a fresh scope.
type Class struct {
	Name string
	Body *ast.Program
}

func (*Class) Kind() Kind { return KindClass }
func (*Class) TypeName() string { return "class" }
func (c *Class) String() string { return "<class " + c.Name + ">" }
func (*Class) Truthy() bool { return true }

// Object is a class instance; its members live in a scope parented to
// the scope the class was instantiated in.
type Object struct {
	ClassName string
	Scope     *Scope
}

func (*Object) Kind() Kind { return KindObject }
func (o *Object) TypeName() string { return o.ClassName }
func (*Object) Truthy() bool { return true }

// String prints the data members in sorted key order, skipping function
// members, the constructor self-reference and the LINE/FILE sentinels.
func (o *Object) String() string {
	var b strings.Builder
	b.WriteString("{ ")
	names := make([]string, 0, len(o.Scope.vars))
	for name := range o.Scope.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	first := true
	for _, name := range names {
		v := o.Scope.vars[name]
		if v.Kind() == KindFunction || v.Kind() == KindBuiltin {
			continue
		}
		if name == o.ClassName || name == "LINE" || name == "FILE" {
			continue
		}
		if !first {
			b.WriteString(", ")
		}
		first = false
		b.WriteString(name + ": " + v.String())
	}
	b.WriteString(" }")
	return b.String()
}

// DataMembers returns the object's non-function members in sorted key
// order, used by foreach and tests.
func (o *Object) DataMembers() []MemberPair {
	names := make([]string, 0, len(o.Scope.vars))
	for name := range o.Scope.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	pairs := make([]MemberPair, 0, len(names))
	for _, name := range names {
		v := o.Scope.vars[name]
		if v.Kind() == KindFunction || v.Kind() == KindBuiltin {
			continue
		}
		if name == "LINE" || name == "FILE" {
			continue
		}
		pairs = append(pairs, MemberPair{Name: name, Value: v})
	}
	return pairs
}

// MemberPair is one (name, value) member of an object.
type MemberPair struct {
	Name  string
	Value Value
}

// NullValue, TrueValue and FalseValue are the shared immutable
// instances for values with no identity of their own.
var (
	NullValue  = &Null{}
	TrueValue  = &Bool{Val: true}
	FalseValue = &Bool{Val: false}
)

// Boolean returns the shared instance for b.
func Boolean(b bool) *Bool {
	if b {
		return TrueValue
	}
	return FalseValue
}

// NewNumber wraps a float.
func NewNumber(v float64) *Number { return &Number{Val: v} }

// NewString wraps a string.
func NewString(s string) *String { return &String{Val: s} }

// NewArray wraps a slice of values.
func NewArray(elems []Value) *Array { return &Array{Elems: elems} }
