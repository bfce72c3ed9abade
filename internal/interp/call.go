package interp

import (
	"errors"
	"strconv"

	"github.com/termfx/lithium/internal/ast"
	"github.com/termfx/lithium/internal/runtime"
)

// callExpr evaluates the callee, then the arguments left to right, and
// dispatches on what the callee turned out to be: a user function, a
// host function or a class.
func (i *Interp) callExpr(x *ast.CallExpr) outcome {
	callee := i.expr(x.Callee)
	if callee.ctrl != ctrlNone {
		return callee
	}
	if callee.val == nil {
		return i.errorf("cannot call a null value", x.Callee.Range())
	}

	args := make([]runtime.Value, 0, len(x.Args))
	for _, arg := range x.Args {
		out := i.expr(arg)
		if out.ctrl != ctrlNone {
			return out
		}
		args = append(args, out.val)
	}

	switch callee := callee.val.(type) {
	case *runtime.Function:
		return i.callFunction(x, callee, args)
	case *runtime.Builtin:
		return i.callBuiltin(x, callee, args)
	case *runtime.Class:
		return i.instantiate(x, callee, args)
	}
	return i.errorf("cannot call non-function value: "+callee.val.TypeName(), x.Range())
}

func (i *Interp) checkArity(x *ast.CallExpr, fn *runtime.Function, args []runtime.Value) outcome {
	if fn.Arity() == len(args) {
		return ok(nil)
	}
	if fn.Arity() == 0 {
		return i.errorf("function '"+fn.Name+"' does not take any arguments, but got "+
			strconv.Itoa(len(args)), x.Range())
	}
	return i.errorf("function '"+fn.Name+"' expects "+strconv.Itoa(fn.Arity())+
		" arguments, but got "+strconv.Itoa(len(args)), x.Range())
}

// callFunction binds the arguments positionally in a fresh scope
// parented to the function's captured scope and runs the body. A return
// raised inside is absorbed here; a body that falls off the end yields
// null.
func (i *Interp) callFunction(x *ast.CallExpr, fn *runtime.Function, args []runtime.Value) outcome {
	if out := i.checkArity(x, fn, args); out.ctrl != ctrlNone {
		return out
	}

	scope := runtime.NewScope(fn.Env)
	for idx, param := range fn.Params {
		scope.Declare(param.Name, args[idx], false)
	}

	prev := i.scope
	i.scope = scope
	i.calls.push(fn.Name, x.Range())
	out := i.stmt(fn.Body)
	i.calls.pop()
	i.scope = prev

	switch out.ctrl {
	case ctrlReturn:
		return ok(out.val)
	case ctrlNone:
		return ok(runtime.NullValue)
	default:
		return out
	}
}

func (i *Interp) callBuiltin(x *ast.CallExpr, fn *runtime.Builtin, args []runtime.Value) outcome {
	val, err := fn.Fn(&runtime.Call{
		Args:  args,
		Scope: i.scope,
		Range: x.Range(),
		Recv:  fn.Recv,
	})
	if err == nil {
		return ok(val)
	}

	var exit *runtime.ExitError
	if errors.As(err, &exit) {
		return outcome{ctrl: ctrlExit, code: exit.Code}
	}
	var rerr *runtime.Error
	if errors.As(err, &rerr) {
		rng := rerr.Range
		if rng.Start.File == nil {
			rng = x.Range()
		}
		if rerr.At != nil {
			return i.errorAt(rerr.Msg, *rerr.At, rng)
		}
		return i.errorf(rerr.Msg, rng)
	}
	return i.errorf(err.Error(), x.Range())
}

// instantiate replays the class body into a fresh scope parented to the
// current one, invokes the member named like the class as the
// constructor if present, and wraps the scope as the new object.
func (i *Interp) instantiate(x *ast.CallExpr, cls *runtime.Class, args []runtime.Value) outcome {
	instance := runtime.NewScope(i.scope)

	prev := i.scope
	i.scope = instance
	out := i.program(cls.Body)
	i.scope = prev
	if out.ctrl != ctrlNone {
		return out
	}

	if ctorVal := instance.LookupLocal(cls.Name); ctorVal != nil {
		ctor, isFn := ctorVal.(*runtime.Function)
		if !isFn {
			return i.errorf("class '"+cls.Name+"' has no constructor", x.Callee.Range())
		}
		if out := i.checkArity(x, ctor, args); out.ctrl != ctrlNone {
			return out
		}

		scope := runtime.NewScope(ctor.Env)
		for idx, param := range ctor.Params {
			scope.Declare(param.Name, args[idx], false)
		}
		i.scope = scope
		i.calls.push(ctor.Name, x.Range())
		out := i.stmt(ctor.Body)
		i.calls.pop()
		i.scope = prev
		switch out.ctrl {
		case ctrlReturn:
			if out.val != nil && out.val.Kind() != runtime.KindNull {
				return i.errorf("constructor of class '"+cls.Name+"' returned a value, which is not allowed", x.Range())
			}
		case ctrlNone:
		default:
			return out
		}
	}

	return ok(&runtime.Object{ClassName: cls.Name, Scope: instance})
}
