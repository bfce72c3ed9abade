package interp

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/termfx/lithium/internal/runtime"
)

// registerBuiltins declares the host functions and runtime constants
// every program sees; module-gated builtins live in modules.go.
func (i *Interp) registerBuiltins() {
	i.declareFn("type", i.builtinType)
	i.declareFn("exit", i.builtinExit)
	i.declareFn("len", i.builtinLen)
	i.declareFn("number", i.builtinNumber)
	i.declareFn("string", i.builtinString)
	i.declareFn("boolean", i.builtinBoolean)
	i.declareFn("print", i.builtinPrint)
	i.declareFn("println", i.builtinPrintln)
	i.declareFn("sleep", i.builtinSleep)
	i.declareFn("time", i.builtinTime)
	i.declareFn("dumpenv", i.builtinDumpEnv)
	i.declareFn("dumpstack", i.builtinDumpStack)

	i.root.Declare("VERSION", runtime.NewString(Version), true)
}

func (i *Interp) declareFn(name string, fn runtime.BuiltinFn) {
	i.root.Declare(name, &runtime.Builtin{Name: name, Fn: fn}, true)
}

func arityErr(call *runtime.Call, name, expected string) error {
	return runtime.Errorf(call.Range, name+"() expects "+expected+", but got "+strconv.Itoa(len(call.Args)))
}

func (i *Interp) builtinType(call *runtime.Call) (runtime.Value, error) {
	if len(call.Args) != 1 {
		return nil, arityErr(call, "type", "exactly 1 argument")
	}
	if call.Args[0] == nil {
		return runtime.NewString("undefined"), nil
	}
	return runtime.NewString(call.Args[0].TypeName()), nil
}

func (i *Interp) builtinExit(call *runtime.Call) (runtime.Value, error) {
	if len(call.Args) > 1 {
		return nil, arityErr(call, "exit", "at most 1 argument")
	}
	code := 0
	if len(call.Args) == 1 {
		n, isNum := call.Args[0].(*runtime.Number)
		if !isNum {
			return nil, runtime.Errorf(call.Range, "exit() expects a number argument, but got "+call.Args[0].TypeName())
		}
		code = int(n.Val)
	}
	return nil, &runtime.ExitError{Code: code}
}

func (i *Interp) builtinLen(call *runtime.Call) (runtime.Value, error) {
	if len(call.Args) != 1 {
		return nil, arityErr(call, "len", "exactly 1 argument")
	}
	switch arg := call.Args[0].(type) {
	case *runtime.String:
		return runtime.NewNumber(float64(len(arg.Val))), nil
	case *runtime.Array:
		return runtime.NewNumber(float64(len(arg.Elems))), nil
	case *runtime.Null:
		return runtime.NewNumber(0), nil
	case nil:
		return runtime.NullValue, nil
	default:
		return nil, runtime.Errorf(call.Range, "len() expects a string or an array, but got "+arg.TypeName())
	}
}

// builtinNumber converts its argument to a number the way strtod does:
// a failed conversion yields null, not an error.
func (i *Interp) builtinNumber(call *runtime.Call) (runtime.Value, error) {
	if len(call.Args) != 1 {
		return nil, arityErr(call, "number", "exactly 1 argument")
	}
	arg := call.Args[0]
	if arg == nil {
		return runtime.NullValue, nil
	}
	if arg.Kind() == runtime.KindNumber {
		return arg, nil
	}
	v, converted := runtime.ParseNumberPrefix(arg.String())
	if !converted {
		return runtime.NullValue, nil
	}
	return runtime.NewNumber(v), nil
}

func (i *Interp) builtinString(call *runtime.Call) (runtime.Value, error) {
	if len(call.Args) != 1 {
		return nil, arityErr(call, "string", "exactly 1 argument")
	}
	if call.Args[0] == nil {
		return runtime.NewString("null"), nil
	}
	return runtime.NewString(call.Args[0].String()), nil
}

func (i *Interp) builtinBoolean(call *runtime.Call) (runtime.Value, error) {
	if len(call.Args) != 1 {
		return nil, arityErr(call, "boolean", "exactly 1 argument")
	}
	if call.Args[0] == nil {
		return runtime.FalseValue, nil
	}
	return runtime.Boolean(call.Args[0].Truthy()), nil
}

// writeJoined prints the arguments separated by single spaces; nil
// arguments contribute nothing but keep their separator.
func (i *Interp) writeJoined(args []runtime.Value) {
	for idx, arg := range args {
		if arg != nil {
			io.WriteString(i.stdout, arg.String())
		}
		if idx != len(args)-1 {
			io.WriteString(i.stdout, " ")
		}
	}
}

// builtinPrint returns no value at all so interactive mode does not
// echo anything after the output itself.
func (i *Interp) builtinPrint(call *runtime.Call) (runtime.Value, error) {
	if len(call.Args) == 0 {
		return nil, nil
	}
	i.writeJoined(call.Args)
	return nil, nil
}

func (i *Interp) builtinPrintln(call *runtime.Call) (runtime.Value, error) {
	i.writeJoined(call.Args)
	io.WriteString(i.stdout, "\n")
	return nil, nil
}

// builtinPrintf is registered by the io module: each '%' in the format
// consumes the next argument's string form verbatim.
func (i *Interp) builtinPrintf(call *runtime.Call) (runtime.Value, error) {
	if len(call.Args) == 0 {
		return nil, runtime.Errorf(call.Range, "printf() expects at least 1 argument, but got 0")
	}
	format, isStr := call.Args[0].(*runtime.String)
	if !isStr {
		return nil, runtime.Errorf(call.Range, "printf() expects a string format as the first argument, but got "+call.Args[0].TypeName())
	}
	var b strings.Builder
	next := 1
	for idx := 0; idx < len(format.Val); idx++ {
		if format.Val[idx] == '%' && next < len(call.Args) {
			if call.Args[next] != nil {
				b.WriteString(call.Args[next].String())
			}
			next++
			continue
		}
		b.WriteByte(format.Val[idx])
	}
	io.WriteString(i.stdout, b.String())
	return nil, nil
}

// builtinInput is registered by the io module.
func (i *Interp) builtinInput(call *runtime.Call) (runtime.Value, error) {
	if len(call.Args) > 1 {
		return nil, arityErr(call, "input", "at most 1 argument")
	}
	if len(call.Args) == 1 && call.Args[0] != nil {
		prompt, isStr := call.Args[0].(*runtime.String)
		if !isStr {
			return nil, runtime.Errorf(call.Range, "input() expects a string argument, but got "+call.Args[0].TypeName())
		}
		io.WriteString(i.stdout, prompt.Val)
	}
	line, err := i.stdin.ReadString('\n')
	if err != nil && line == "" {
		return runtime.NullValue, nil
	}
	return runtime.NewString(strings.TrimRight(line, "\n")), nil
}

func (i *Interp) builtinSleep(call *runtime.Call) (runtime.Value, error) {
	if len(call.Args) != 1 {
		return nil, arityErr(call, "sleep", "exactly 1 argument")
	}
	n, isNum := call.Args[0].(*runtime.Number)
	if !isNum {
		return nil, runtime.Errorf(call.Range, "sleep() expects a number argument, but got "+call.Args[0].TypeName())
	}
	if n.Val < 0 {
		return nil, runtime.Errorf(call.Range, "sleep() expects a non-negative number, but got "+n.String())
	}
	time.Sleep(time.Duration(n.Val * float64(time.Second)))
	return nil, nil
}

func (i *Interp) builtinTime(call *runtime.Call) (runtime.Value, error) {
	if len(call.Args) != 0 {
		return nil, arityErr(call, "time", "no arguments")
	}
	return runtime.NewNumber(float64(time.Now().Unix())), nil
}

// builtinRandom is registered by the random module.
func (i *Interp) builtinRandom(call *runtime.Call) (runtime.Value, error) {
	if len(call.Args) != 0 {
		return nil, arityErr(call, "random", "no arguments")
	}
	return runtime.NewNumber(float64(i.rand.Int63n(1 << 31))), nil
}

// builtinDumpStack prints the active user-function call chain,
// innermost call last.
func (i *Interp) builtinDumpStack(call *runtime.Call) (runtime.Value, error) {
	if len(call.Args) != 0 {
		return nil, arityErr(call, "dumpstack", "no arguments")
	}
	io.WriteString(i.stdout, i.calls.String())
	return nil, nil
}

// builtinDumpEnv dumps the scope chain to stdout, innermost scope last.
func (i *Interp) builtinDumpEnv(call *runtime.Call) (runtime.Value, error) {
	var chain []*runtime.Scope
	for s := call.Scope; s != nil; s = s.Parent() {
		chain = append(chain, s)
	}
	for idx := len(chain) - 1; idx >= 0; idx-- {
		scope := chain[idx]
		if idx != len(chain)-1 {
			fmt.Fprintln(i.stdout, strings.Repeat("-", 40))
		}
		fmt.Fprintln(i.stdout, "Variables:")
		names := scope.Names()
		sort.Strings(names)
		for _, name := range names {
			v := scope.LookupLocal(name)
			rendered := "null"
			if v != nil {
				rendered = v.String()
			}
			fmt.Fprintf(i.stdout, "  %s: %s\n", name, rendered)
		}
	}
	return nil, nil
}
