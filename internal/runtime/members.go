package runtime

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Member access. Arrays, strings and numbers expose built-in methods
// from per-kind tables, bound to the receiver on access; objects expose
// whatever their member scope resolves. Method names are constant: the
// write path refuses to shadow them, so instances stay independent
// without carrying a map per value.

// GetMember resolves name on v, returning nil when the member does not
// exist.
func GetMember(v Value, name string) Value {
	if obj, ok := v.(*Object); ok {
		member := obj.Scope.Lookup(name)
		if b, ok := member.(*Builtin); ok {
			return b.Bind(v)
		}
		return member
	}
	if fn, ok := methodTable(v)[name]; ok {
		return &Builtin{Name: name, Fn: fn, Recv: v}
	}
	return nil
}

// SetMember writes a member of v. Built-in methods are constant;
// writing a name that does not exist fails with AssignNotFound.
func SetMember(v Value, name string, val Value) (Value, AssignStatus) {
	if obj, ok := v.(*Object); ok {
		owner := obj.Scope.Resolve(name)
		if owner == nil {
			return nil, AssignNotFound
		}
		if owner.IsConst(name) {
			return nil, AssignConst
		}
		owner.Redeclare(name, val, false)
		return val, AssignOK
	}
	if _, ok := methodTable(v)[name]; ok {
		return nil, AssignConst
	}
	return nil, AssignNotFound
}

func methodTable(v Value) map[string]BuiltinFn {
	switch v.Kind() {
	case KindArray:
		return arrayMethods
	case KindString:
		return stringMethods
	case KindNumber:
		return numberMethods
	}
	return nil
}

const whitespaceCutset = " \t\n\r\f\v"

func noArgs(name string, call *Call) error {
	if len(call.Args) != 0 {
		return Errorf(call.Range, name+"() does not take any arguments")
	}
	return nil
}

func oneArg(name string, call *Call) error {
	if len(call.Args) != 1 {
		return Errorf(call.Range, name+"() expects exactly one argument")
	}
	return nil
}

func stringArg(name string, call *Call, i int) (string, error) {
	s, ok := call.Args[i].(*String)
	if !ok {
		return "", Errorf(call.Range, name+"() expects a string argument, but got "+call.Args[i].TypeName())
	}
	return s.Val, nil
}

func numberArg(name string, call *Call, i int) (float64, error) {
	n, ok := call.Args[i].(*Number)
	if !ok {
		return 0, Errorf(call.Range, name+"() expects a number as the first argument")
	}
	return n.Val, nil
}

// ---------------------------------------------------------------------
// Array methods

var arrayMethods = map[string]BuiltinFn{
	"push": func(call *Call) (Value, error) {
		arr := call.Recv.(*Array)
		arr.Elems = append(arr.Elems, call.Args...)
		return NullValue, nil
	},
	"pop": func(call *Call) (Value, error) {
		if err := noArgs("pop", call); err != nil {
			return nil, err
		}
		arr := call.Recv.(*Array)
		if len(arr.Elems) == 0 {
			return NullValue, nil
		}
		last := arr.Elems[len(arr.Elems)-1]
		arr.Elems = arr.Elems[:len(arr.Elems)-1]
		return last, nil
	},
	"length": func(call *Call) (Value, error) {
		if err := noArgs("length", call); err != nil {
			return nil, err
		}
		return NewNumber(float64(len(call.Recv.(*Array).Elems))), nil
	},
	"clear": func(call *Call) (Value, error) {
		if err := noArgs("clear", call); err != nil {
			return nil, err
		}
		call.Recv.(*Array).Elems = nil
		return NullValue, nil
	},
	"empty": func(call *Call) (Value, error) {
		if err := noArgs("empty", call); err != nil {
			return nil, err
		}
		return Boolean(len(call.Recv.(*Array).Elems) == 0), nil
	},
	"get": func(call *Call) (Value, error) {
		if err := oneArg("get", call); err != nil {
			return nil, err
		}
		idx, err := numberArg("get", call, 0)
		if err != nil {
			return nil, err
		}
		arr := call.Recv.(*Array)
		i := int(idx)
		if i < 0 || i >= len(arr.Elems) {
			return nil, Errorf(call.Range, "array index out of bounds: "+strconv.Itoa(i))
		}
		return arr.Elems[i], nil
	},
	"set": func(call *Call) (Value, error) {
		if len(call.Args) != 2 {
			return nil, Errorf(call.Range, "set() expects exactly two arguments")
		}
		idx, err := numberArg("set", call, 0)
		if err != nil {
			return nil, err
		}
		arr := call.Recv.(*Array)
		i := int(idx)
		if i < 0 || i >= len(arr.Elems) {
			return nil, Errorf(call.Range, "array index out of bounds: "+strconv.Itoa(i))
		}
		arr.Elems[i] = call.Args[1]
		return NullValue, nil
	},
	"remove": func(call *Call) (Value, error) {
		if err := oneArg("remove", call); err != nil {
			return nil, err
		}
		idx, err := numberArg("remove", call, 0)
		if err != nil {
			return nil, err
		}
		arr := call.Recv.(*Array)
		i := int(idx)
		if i < 0 || i >= len(arr.Elems) {
			return nil, Errorf(call.Range, "array index out of bounds: "+strconv.Itoa(i))
		}
		arr.Elems = append(arr.Elems[:i], arr.Elems[i+1:]...)
		return NullValue, nil
	},
	"find": func(call *Call) (Value, error) {
		if err := oneArg("find", call); err != nil {
			return nil, err
		}
		return NewNumber(float64(arrayFind(call.Recv.(*Array), call.Args[0]))), nil
	},
	"contains": func(call *Call) (Value, error) {
		if err := oneArg("contains", call); err != nil {
			return nil, err
		}
		return Boolean(arrayFind(call.Recv.(*Array), call.Args[0]) != -1), nil
	},
	"join": func(call *Call) (Value, error) {
		if len(call.Args) > 1 {
			return nil, Errorf(call.Range, "join() expects at most one argument")
		}
		sep := ""
		if len(call.Args) == 1 {
			s, err := stringArg("join", call, 0)
			if err != nil {
				return nil, err
			}
			sep = s
		}
		arr := call.Recv.(*Array)
		parts := make([]string, len(arr.Elems))
		for i, el := range arr.Elems {
			parts[i] = el.String()
		}
		return NewString(strings.Join(parts, sep)), nil
	},
	"sort": func(call *Call) (Value, error) {
		if err := noArgs("sort", call); err != nil {
			return nil, err
		}
		arr := call.Recv.(*Array)
		if len(arr.Elems) == 0 {
			return NullValue, nil
		}
		first := arr.Elems[0].Kind()
		for _, el := range arr.Elems {
			if el.Kind() != first {
				return nil, Errorf(call.Range, "sort() requires all array elements to be of the same type")
			}
		}
		switch first {
		case KindNumber:
			sort.SliceStable(arr.Elems, func(i, j int) bool {
				return arr.Elems[i].(*Number).Val < arr.Elems[j].(*Number).Val
			})
		case KindString:
			sort.SliceStable(arr.Elems, func(i, j int) bool {
				return arr.Elems[i].(*String).Val < arr.Elems[j].(*String).Val
			})
		default:
			return nil, Errorf(call.Range, "sort() only works with arrays of numbers or strings")
		}
		return NullValue, nil
	},
}

func arrayFind(arr *Array, needle Value) int {
	for i, el := range arr.Elems {
		if Equal(el, needle) {
			return i
		}
	}
	return -1
}

// ---------------------------------------------------------------------
// String methods

var stringMethods = map[string]BuiltinFn{
	"length": func(call *Call) (Value, error) {
		if err := noArgs("length", call); err != nil {
			return nil, err
		}
		return NewNumber(float64(len(call.Recv.(*String).Val))), nil
	},
	"empty": func(call *Call) (Value, error) {
		if err := noArgs("empty", call); err != nil {
			return nil, err
		}
		return Boolean(call.Recv.(*String).Val == ""), nil
	},
	"split": func(call *Call) (Value, error) {
		if len(call.Args) > 1 {
			return nil, Errorf(call.Range, "split() expects at most one argument")
		}
		sep := " "
		if len(call.Args) == 1 {
			s, err := stringArg("split", call, 0)
			if err != nil {
				return nil, err
			}
			sep = s
		}
		parts := strings.Split(call.Recv.(*String).Val, sep)
		elems := make([]Value, len(parts))
		for i, part := range parts {
			elems[i] = NewString(part)
		}
		return NewArray(elems), nil
	},
	"lower": func(call *Call) (Value, error) {
		if err := noArgs("lower", call); err != nil {
			return nil, err
		}
		return NewString(strings.ToLower(call.Recv.(*String).Val)), nil
	},
	"upper": func(call *Call) (Value, error) {
		if err := noArgs("upper", call); err != nil {
			return nil, err
		}
		return NewString(strings.ToUpper(call.Recv.(*String).Val)), nil
	},
	"code": func(call *Call) (Value, error) {
		if err := noArgs("code", call); err != nil {
			return nil, err
		}
		val := call.Recv.(*String).Val
		switch len(val) {
		case 0:
			return NewArray(nil), nil
		case 1:
			return NewNumber(float64(val[0])), nil
		}
		codes := make([]Value, len(val))
		for i := 0; i < len(val); i++ {
			codes[i] = NewNumber(float64(val[i]))
		}
		return NewArray(codes), nil
	},
	"find": func(call *Call) (Value, error) {
		if err := oneArg("find", call); err != nil {
			return nil, err
		}
		sub, err := stringArg("find", call, 0)
		if err != nil {
			return nil, err
		}
		pos := strings.Index(call.Recv.(*String).Val, sub)
		if pos < 0 {
			return NullValue, nil
		}
		return NewNumber(float64(pos)), nil
	},
	"isNumeric": func(call *Call) (Value, error) {
		if err := noArgs("isNumeric", call); err != nil {
			return nil, err
		}
		_, ok := ParseNumberPrefix(call.Recv.(*String).Val)
		return Boolean(ok), nil
	},
	"strip": func(call *Call) (Value, error) {
		if err := noArgs("strip", call); err != nil {
			return nil, err
		}
		return NewString(strings.Trim(call.Recv.(*String).Val, whitespaceCutset)), nil
	},
	"rstrip": func(call *Call) (Value, error) {
		if err := noArgs("rstrip", call); err != nil {
			return nil, err
		}
		return NewString(strings.TrimRight(call.Recv.(*String).Val, whitespaceCutset)), nil
	},
	"lstrip": func(call *Call) (Value, error) {
		if err := noArgs("lstrip", call); err != nil {
			return nil, err
		}
		return NewString(strings.TrimLeft(call.Recv.(*String).Val, whitespaceCutset)), nil
	},
	"startsWith": func(call *Call) (Value, error) {
		if err := oneArg("startsWith", call); err != nil {
			return nil, err
		}
		prefix, err := stringArg("startsWith", call, 0)
		if err != nil {
			return nil, err
		}
		return Boolean(strings.HasPrefix(call.Recv.(*String).Val, prefix)), nil
	},
	"endsWith": func(call *Call) (Value, error) {
		if err := oneArg("endsWith", call); err != nil {
			return nil, err
		}
		suffix, err := stringArg("endsWith", call, 0)
		if err != nil {
			return nil, err
		}
		return Boolean(strings.HasSuffix(call.Recv.(*String).Val, suffix)), nil
	},
	"contains": func(call *Call) (Value, error) {
		if err := oneArg("contains", call); err != nil {
			return nil, err
		}
		sub, err := stringArg("contains", call, 0)
		if err != nil {
			return nil, err
		}
		return Boolean(strings.Contains(call.Recv.(*String).Val, sub)), nil
	},
	"match": func(call *Call) (Value, error) {
		if err := oneArg("match", call); err != nil {
			return nil, err
		}
		pattern, err := stringArg("match", call, 0)
		if err != nil {
			return nil, err
		}
		// Whole-string match, like the original's regex_match.
		re, compileErr := regexp.Compile("^(?:" + pattern + ")$")
		if compileErr != nil {
			return nil, Errorf(call.Range, "match() got an invalid pattern: "+pattern)
		}
		return Boolean(re.MatchString(call.Recv.(*String).Val)), nil
	},
}

// ---------------------------------------------------------------------
// Number methods

var numberMethods = map[string]BuiltinFn{
	"round": func(call *Call) (Value, error) {
		if err := noArgs("round", call); err != nil {
			return nil, err
		}
		return NewNumber(math.Round(call.Recv.(*Number).Val)), nil
	},
	"abs": func(call *Call) (Value, error) {
		if err := noArgs("abs", call); err != nil {
			return nil, err
		}
		return NewNumber(math.Abs(call.Recv.(*Number).Val)), nil
	},
	"floor": func(call *Call) (Value, error) {
		if err := noArgs("floor", call); err != nil {
			return nil, err
		}
		return NewNumber(math.Floor(call.Recv.(*Number).Val)), nil
	},
	"ceil": func(call *Call) (Value, error) {
		if err := noArgs("ceil", call); err != nil {
			return nil, err
		}
		return NewNumber(math.Ceil(call.Recv.(*Number).Val)), nil
	},
}

// ParseNumberPrefix converts the leading numeric portion of s to a
// float the way C's strtod family does: leading whitespace is skipped
// and trailing garbage ignored. ok is false when no digits were found.
func ParseNumberPrefix(s string) (v float64, ok bool) {
	i := 0
	for i < len(s) && strings.IndexByte(whitespaceCutset, s[i]) >= 0 {
		i++
	}
	start := i
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := false
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
		digits = true
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
			digits = true
		}
	}
	if !digits {
		return 0, false
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		expDigits := false
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
			expDigits = true
		}
		if expDigits {
			i = j
		}
	}
	v, err := strconv.ParseFloat(s[start:i], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
