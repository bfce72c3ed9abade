package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termfx/lithium/internal/source"
)

// invoke calls a bound member method the way the evaluator would.
func invoke(t *testing.T, recv Value, name string, args ...Value) (Value, error) {
	t.Helper()
	member := GetMember(recv, name)
	require.NotNil(t, member, "member %s not found", name)
	builtin, isBuiltin := member.(*Builtin)
	require.True(t, isBuiltin)
	return builtin.Fn(&Call{Args: args, Range: source.Range{}, Recv: builtin.Recv})
}

func mustInvoke(t *testing.T, recv Value, name string, args ...Value) Value {
	t.Helper()
	v, err := invoke(t, recv, name, args...)
	require.NoError(t, err)
	return v
}

func TestArrayPushPop(t *testing.T) {
	arr := NewArray([]Value{NewNumber(1)})

	mustInvoke(t, arr, "push", NewNumber(2), NewNumber(3))
	assert.Equal(t, "[1, 2, 3]", arr.String())

	popped := mustInvoke(t, arr, "pop")
	assert.Equal(t, "3", popped.String())
	assert.Equal(t, "[1, 2]", arr.String())

	empty := NewArray(nil)
	assert.Equal(t, NullValue, mustInvoke(t, empty, "pop"))
}

func TestArrayLengthClearEmpty(t *testing.T) {
	arr := NewArray([]Value{NewNumber(1), NewNumber(2)})

	assert.Equal(t, 2.0, mustInvoke(t, arr, "length").(*Number).Val)
	assert.False(t, mustInvoke(t, arr, "empty").(*Bool).Val)

	mustInvoke(t, arr, "clear")
	assert.Equal(t, 0.0, mustInvoke(t, arr, "length").(*Number).Val)
	assert.True(t, mustInvoke(t, arr, "empty").(*Bool).Val)
}

func TestArrayGetSetRemove(t *testing.T) {
	arr := NewArray([]Value{NewNumber(10), NewNumber(20), NewNumber(30)})

	assert.Equal(t, 20.0, mustInvoke(t, arr, "get", NewNumber(1)).(*Number).Val)

	mustInvoke(t, arr, "set", NewNumber(0), NewString("x"))
	assert.Equal(t, "[x, 20, 30]", arr.String())

	mustInvoke(t, arr, "remove", NewNumber(1))
	assert.Equal(t, "[x, 30]", arr.String())

	_, err := invoke(t, arr, "get", NewNumber(5))
	assert.Error(t, err)
	_, err = invoke(t, arr, "get", NewNumber(-1))
	assert.Error(t, err)
}

func TestArrayFindContains(t *testing.T) {
	arr := NewArray([]Value{NewString("a"), NewNumber(2), NewNumber(3)})

	assert.Equal(t, 1.0, mustInvoke(t, arr, "find", NewNumber(2)).(*Number).Val)
	assert.Equal(t, -1.0, mustInvoke(t, arr, "find", NewNumber(9)).(*Number).Val)
	assert.True(t, mustInvoke(t, arr, "contains", NewString("a")).(*Bool).Val)
	assert.False(t, mustInvoke(t, arr, "contains", NewString("z")).(*Bool).Val)
}

func TestArrayJoin(t *testing.T) {
	arr := NewArray([]Value{NewNumber(1), NewNumber(2), NewNumber(3)})

	assert.Equal(t, "1,2,3", mustInvoke(t, arr, "join", NewString(",")).String())
	assert.Equal(t, "123", mustInvoke(t, arr, "join").String())
}

func TestArraySort(t *testing.T) {
	nums := NewArray([]Value{NewNumber(3), NewNumber(1), NewNumber(2)})
	mustInvoke(t, nums, "sort")
	assert.Equal(t, "[1, 2, 3]", nums.String())

	strs := NewArray([]Value{NewString("pear"), NewString("apple")})
	mustInvoke(t, strs, "sort")
	assert.Equal(t, "[apple, pear]", strs.String())

	mixed := NewArray([]Value{NewNumber(1), NewString("a")})
	_, err := invoke(t, mixed, "sort")
	assert.Error(t, err)

	bools := NewArray([]Value{TrueValue, FalseValue})
	_, err = invoke(t, bools, "sort")
	assert.Error(t, err)
}

func TestStringMethods(t *testing.T) {
	tests := []struct {
		name string
		recv string
		call string
		args []Value
		exp  string
	}{
		{name: "lower", recv: "HeLLo", call: "lower", exp: "hello"},
		{name: "upper", recv: "hello", call: "upper", exp: "HELLO"},
		{name: "strip", recv: "  x  ", call: "strip", exp: "x"},
		{name: "lstrip", recv: "  x  ", call: "lstrip", exp: "x  "},
		{name: "rstrip", recv: "  x  ", call: "rstrip", exp: "  x"},
		{name: "split default", recv: "a b c", call: "split", exp: "[a, b, c]"},
		{name: "split custom", recv: "a,b", call: "split", args: []Value{NewString(",")}, exp: "[a, b]"},
		{name: "split keeps empties", recv: "a,,b", call: "split", args: []Value{NewString(",")}, exp: "[a, , b]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustInvoke(t, NewString(tt.recv), tt.call, tt.args...)
			assert.Equal(t, tt.exp, got.String())
		})
	}
}

func TestStringPredicates(t *testing.T) {
	s := NewString("hello world")

	assert.Equal(t, 11.0, mustInvoke(t, s, "length").(*Number).Val)
	assert.False(t, mustInvoke(t, s, "empty").(*Bool).Val)
	assert.True(t, mustInvoke(t, s, "startsWith", NewString("hell")).(*Bool).Val)
	assert.True(t, mustInvoke(t, s, "endsWith", NewString("world")).(*Bool).Val)
	assert.True(t, mustInvoke(t, s, "contains", NewString("lo w")).(*Bool).Val)
	assert.False(t, mustInvoke(t, s, "contains", NewString("xyz")).(*Bool).Val)
}

func TestStringFind(t *testing.T) {
	s := NewString("hello")
	assert.Equal(t, 2.0, mustInvoke(t, s, "find", NewString("ll")).(*Number).Val)
	assert.Equal(t, NullValue, mustInvoke(t, s, "find", NewString("zz")))
}

func TestStringCode(t *testing.T) {
	assert.Equal(t, "[]", mustInvoke(t, NewString(""), "code").String())
	assert.Equal(t, 65.0, mustInvoke(t, NewString("A"), "code").(*Number).Val)
	assert.Equal(t, "[65, 66]", mustInvoke(t, NewString("AB"), "code").String())
}

func TestStringIsNumeric(t *testing.T) {
	tests := []struct {
		input string
		exp   bool
	}{
		{input: "42", exp: true},
		{input: "-3.5", exp: true},
		{input: "  7", exp: true},
		{input: "12abc", exp: true}, // strtod semantics: numeric prefix wins
		{input: "abc", exp: false},
		{input: "", exp: false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := mustInvoke(t, NewString(tt.input), "isNumeric")
			assert.Equal(t, tt.exp, got.(*Bool).Val)
		})
	}
}

func TestStringMatch(t *testing.T) {
	s := NewString("abc123")

	assert.True(t, mustInvoke(t, s, "match", NewString(`[a-z]+[0-9]+`)).(*Bool).Val)
	// Whole-string semantics: a partial match is not a match.
	assert.False(t, mustInvoke(t, s, "match", NewString(`[a-z]+`)).(*Bool).Val)

	_, err := invoke(t, s, "match", NewString(`(`))
	assert.Error(t, err)
}

func TestNumberMethods(t *testing.T) {
	tests := []struct {
		name string
		recv float64
		call string
		exp  float64
	}{
		{name: "round up", recv: 2.5, call: "round", exp: 3},
		{name: "round down", recv: 2.4, call: "round", exp: 2},
		{name: "abs", recv: -7, call: "abs", exp: 7},
		{name: "floor", recv: 2.9, call: "floor", exp: 2},
		{name: "ceil", recv: 2.1, call: "ceil", exp: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustInvoke(t, NewNumber(tt.recv), tt.call)
			assert.Equal(t, tt.exp, got.(*Number).Val)
		})
	}
}

func TestMethodsBindTheirOwnReceiver(t *testing.T) {
	a := NewArray([]Value{NewNumber(1)})
	b := NewArray([]Value{NewNumber(9)})

	pushA := GetMember(a, "push").(*Builtin)
	pushB := GetMember(b, "push").(*Builtin)
	_, err := pushA.Fn(&Call{Args: []Value{NewNumber(2)}, Recv: pushA.Recv})
	require.NoError(t, err)

	assert.Equal(t, "[1, 2]", a.String())
	assert.Equal(t, "[9]", b.String())
	_ = pushB
}

func TestSetMemberOnBuiltinMethodIsConst(t *testing.T) {
	arr := NewArray(nil)
	_, status := SetMember(arr, "push", NewNumber(1))
	assert.Equal(t, AssignConst, status)

	_, status = SetMember(arr, "nosuch", NewNumber(1))
	assert.Equal(t, AssignNotFound, status)
}

func TestObjectMembers(t *testing.T) {
	scope := NewScope(nil)
	scope.Declare("x", NewNumber(3), false)
	scope.Declare("frozen", NewNumber(0), true)
	obj := &Object{ClassName: "Point", Scope: scope}

	assert.Equal(t, 3.0, GetMember(obj, "x").(*Number).Val)
	assert.Nil(t, GetMember(obj, "missing"))

	_, status := SetMember(obj, "x", NewNumber(9))
	assert.Equal(t, AssignOK, status)
	assert.Equal(t, 9.0, GetMember(obj, "x").(*Number).Val)

	_, status = SetMember(obj, "frozen", NewNumber(1))
	assert.Equal(t, AssignConst, status)

	_, status = SetMember(obj, "missing", NewNumber(1))
	assert.Equal(t, AssignNotFound, status)
}

func TestObjectMemberLookupWalksParent(t *testing.T) {
	outer := NewScope(nil)
	outer.Declare("shared", NewString("up"), false)
	obj := &Object{ClassName: "C", Scope: NewScope(outer)}

	assert.Equal(t, "up", GetMember(obj, "shared").String())
}

func TestObjectString(t *testing.T) {
	scope := NewScope(nil)
	scope.Declare("y", NewNumber(2), false)
	scope.Declare("x", NewNumber(1), false)
	scope.Declare("m", &Function{Name: "m"}, false)
	scope.Declare("C", &Function{Name: "C"}, false)
	obj := &Object{ClassName: "C", Scope: scope}

	// Sorted keys, function members and the constructor skipped.
	assert.Equal(t, "{ x: 1, y: 2 }", obj.String())
}

func TestObjectDataMembers(t *testing.T) {
	scope := NewScope(nil)
	scope.Declare("b", NewNumber(2), false)
	scope.Declare("a", NewNumber(1), false)
	scope.Declare("fn", &Function{Name: "fn"}, false)
	scope.Declare("LINE", NewNumber(9), false)
	obj := &Object{ClassName: "C", Scope: scope}

	members := obj.DataMembers()
	require.Len(t, members, 2)
	assert.Equal(t, "a", members[0].Name)
	assert.Equal(t, "b", members[1].Name)
}
