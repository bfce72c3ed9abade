package interp

import (
	"github.com/termfx/lithium/internal/ast"
	"github.com/termfx/lithium/internal/runtime"
	"github.com/termfx/lithium/internal/token"
)

// baseOp maps a compound assignment operator to the binary operator it
// applies before storing.
func baseOp(op token.Kind) (token.Kind, bool) {
	switch op {
	case token.PlusEq:
		return token.Kind('+'), true
	case token.MinusEq:
		return token.Kind('-'), true
	case token.StarEq:
		return token.Kind('*'), true
	case token.SlashEq:
		return token.Kind('/'), true
	case token.PercentEq:
		return token.Kind('%'), true
	}
	return token.None, false
}

// assignExpr evaluates the right side first, then dispatches on the
// target form: identifier, array index or member access. Anything else
// is an invalid assignment target.
func (i *Interp) assignExpr(x *ast.AssignExpr) outcome {
	rhs := i.expr(x.Value)
	if rhs.ctrl != ctrlNone {
		return rhs
	}
	if rhs.val == nil {
		return i.errorf("assignment right-hand side evaluated to null", x.Value.Range())
	}

	switch target := x.Target.(type) {
	case *ast.VarExpr:
		return i.assignVar(x, target, rhs.val)
	case *ast.IndexExpr:
		return i.assignIndex(x, target, rhs.val)
	case *ast.MemberExpr:
		return i.assignMember(x, target, rhs.val)
	}
	return i.errorf("invalid assignment target", x.Target.Range())
}

// applyCompound folds the existing binding into value for += and
// friends; plain = passes value through.
func (i *Interp) applyCompound(x *ast.AssignExpr, current, value runtime.Value) (runtime.Value, outcome) {
	op, compound := baseOp(x.Op)
	if !compound {
		if x.Op != token.Kind('=') {
			return nil, i.errorf("invalid assignment operator", x.Range())
		}
		return value, ok(nil)
	}
	result, err := runtime.Binary(op, current, value)
	switch err {
	case nil:
		return result, ok(nil)
	case runtime.ErrDivideByZero:
		return nil, i.errorf("cannot divide by zero", x.Value.Range())
	default:
		return nil, i.errorf("invalid operators in assignment", x.Range())
	}
}

func (i *Interp) assignVar(x *ast.AssignExpr, target *ast.VarExpr, value runtime.Value) outcome {
	if _, compound := baseOp(x.Op); compound {
		current := i.scope.Lookup(target.Name)
		if current == nil {
			return i.errorAt("'"+truncateName(target.Name)+"' is not defined", target.Range().Start, x.Range())
		}
		var out outcome
		value, out = i.applyCompound(x, current, value)
		if out.ctrl != ctrlNone {
			return out
		}
	} else if _, out := i.applyCompound(x, nil, value); out.ctrl != ctrlNone {
		return out
	}

	result, status := i.scope.Assign(target.Name, value)
	switch status {
	case runtime.AssignNotFound:
		return i.errorAt("'"+truncateName(target.Name)+"' is not defined", target.Range().Start, x.Range())
	case runtime.AssignConst:
		return i.errorAt("cannot assign to constant variable '"+target.Name+"'", target.Range().Start, x.Range())
	}
	return ok(result)
}

func (i *Interp) assignIndex(x *ast.AssignExpr, target *ast.IndexExpr, value runtime.Value) outcome {
	recv := i.expr(target.Target)
	if recv.ctrl != ctrlNone {
		return recv
	}
	if recv.val == nil {
		return i.errorf("array access left-hand side evaluated to null", target.Target.Range())
	}
	arr, isArr := recv.val.(*runtime.Array)
	if !isArr {
		return i.errorf("left-hand side of array access is not an array", target.Target.Range())
	}

	idx, out := i.indexOf(target, len(arr.Elems), "array")
	if out.ctrl != ctrlNone {
		return out
	}

	value, out = i.applyCompound(x, arr.Elems[idx], value)
	if out.ctrl != ctrlNone {
		return out
	}
	arr.Elems[idx] = value
	return ok(value)
}

func (i *Interp) assignMember(x *ast.AssignExpr, target *ast.MemberExpr, value runtime.Value) outcome {
	recv := i.expr(target.Target)
	if recv.ctrl != ctrlNone {
		return recv
	}
	if recv.val == nil {
		return i.errorf("member access left-hand side evaluated to null", target.Target.Range())
	}

	current := runtime.GetMember(recv.val, target.Name)
	if current == nil {
		return i.errorAt("member '"+target.Name+"' does not exist in the object", target.NameRng.Start, x.Range())
	}

	value, out := i.applyCompound(x, current, value)
	if out.ctrl != ctrlNone {
		return out
	}

	_, status := runtime.SetMember(recv.val, target.Name, value)
	switch status {
	case runtime.AssignConst:
		return i.errorAt("cannot assign to constant member '"+target.Name+"'", target.NameRng.Start, x.Range())
	case runtime.AssignNotFound:
		return i.errorAt("member '"+target.Name+"' does not exist in the object", target.NameRng.Start, x.Range())
	}
	return ok(value)
}
