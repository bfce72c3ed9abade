// Package interp walks the syntax tree against a chain of scopes. Every
// visit returns a tagged outcome instead of throwing: return, break,
// continue and exit propagate explicitly and are absorbed only at their
// designated boundaries (function calls, loop bodies, the driver).
package interp

import (
	"bufio"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/termfx/lithium/internal/ast"
	"github.com/termfx/lithium/internal/diag"
	"github.com/termfx/lithium/internal/parser"
	"github.com/termfx/lithium/internal/runtime"
	"github.com/termfx/lithium/internal/source"
	"github.com/termfx/lithium/internal/token"
)

// Version is the interpreter version reported by the VERSION constant
// and the interactive banner.
const Version = "1.4.0"

// maxNamePeek bounds identifier names quoted in diagnostics.
const maxNamePeek = 25

type ctrl uint8

const (
	ctrlNone ctrl = iota
	ctrlReturn
	ctrlBreak
	ctrlContinue
	ctrlExit
	ctrlFatal
)

// outcome is the tagged result of one visit. val may be nil even on the
// ok path: statements and void builtins produce no value.
type outcome struct {
	val  runtime.Value
	ctrl ctrl
	code int
}

func ok(v runtime.Value) outcome {
	return outcome{val: v}
}

func fatal() outcome {
	return outcome{ctrl: ctrlFatal}
}

// Options configures an interpreter instance.
type Options struct {
	// Interactive enables echoing of non-null expression statement
	// results.
	Interactive bool
	// Args become the `args` array of the args module.
	Args []string
	// Stdout and Stdin default to the process streams.
	Stdout io.Writer
	Stdin  io.Reader
	// Home is the directory whose modules/ subdirectory is the third
	// module search path.
	Home string
	// ModulePath lists extra module directories searched after the
	// standard three.
	ModulePath []string
}

// Interp is one interpreter instance: a root scope populated with the
// built-in registry, the current scope cursor, and the import state.
type Interp struct {
	sources  *source.Map
	reporter *diag.Reporter
	opts     Options

	root  *runtime.Scope
	scope *runtime.Scope

	stdout io.Writer
	stdin  *bufio.Reader
	rand   *rand.Rand

	imported  map[string]struct{}
	modParser *parser.Parser
	calls     callStack
	handles   map[int]any
	nextFd    int
}

// New creates an interpreter with its root scope set up.
func New(sources *source.Map, reporter *diag.Reporter, opts Options) *Interp {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	i := &Interp{
		sources:   sources,
		reporter:  reporter,
		opts:      opts,
		root:      runtime.NewScope(nil),
		stdout:    opts.Stdout,
		stdin:     bufio.NewReader(opts.Stdin),
		rand:      rand.New(rand.NewSource(time.Now().UnixNano())),
		imported:  make(map[string]struct{}),
		modParser: parser.New(reporter),
		handles:   make(map[int]any),
		nextFd:    3,
	}
	i.scope = i.root
	i.registerBuiltins()
	return i
}

// Close breaks the reference cycles held by the root scope. The
// interpreter must not be used afterwards.
func (i *Interp) Close() {
	i.closeHandles()
	i.root.Clear()
}

// RootScope exposes the root scope to the driver and tests.
func (i *Interp) RootScope() *runtime.Scope {
	return i.root
}

// Result is what one top-level run produced.
type Result struct {
	// Ok is false when a runtime error aborted evaluation.
	Ok bool
	// Exited is true when user code called exit; Code carries its
	// status.
	Exited bool
	Code   int
}

// Run evaluates a checked program. Runtime errors abort the visit and
// have already been reported; exit is caught here and surfaced in the
// result.
func (i *Interp) Run(prog *ast.Program) Result {
	out := i.program(prog)
	switch out.ctrl {
	case ctrlExit:
		return Result{Ok: true, Exited: true, Code: out.code}
	case ctrlFatal:
		return Result{}
	default:
		return Result{Ok: true}
	}
}

func (i *Interp) errorf(msg string, rng source.Range) outcome {
	i.reporter.Error(msg, rng)
	return fatal()
}

func (i *Interp) errorAt(msg string, loc source.Location, rng source.Range) outcome {
	i.reporter.ErrorAt(msg, loc, rng)
	return fatal()
}

func truncateName(name string) string {
	if len(name) <= maxNamePeek {
		return name
	}
	return name[:maxNamePeek-3] + "..."
}

// ---------------------------------------------------------------------
// Statements

// program runs a statements list: functions hoist first so forward
// references and mutual recursion inside one block work, then the
// statements execute in source order. Interactive mode echoes non-null
// expression results.
func (i *Interp) program(prog *ast.Program) outcome {
	if prog == nil {
		return ok(nil)
	}
	for _, stmt := range prog.Stmts {
		fn, isFunc := stmt.(*ast.FuncDecl)
		if !isFunc {
			continue
		}
		if i.scope.LookupLocal(fn.Name) != nil {
			return i.errorAt("'"+truncateName(fn.Name)+"' is already defined", fn.NameRng.Start, fn.Range())
		}
		i.scope.Declare(fn.Name, i.newFunction(fn), false)
	}

	for _, stmt := range prog.Stmts {
		out := i.stmt(stmt)
		if out.ctrl != ctrlNone {
			return out
		}
		if i.opts.Interactive && out.val != nil && out.val.Kind() != runtime.KindNull {
			io.WriteString(i.stdout, out.val.String()+"\n")
		}
	}
	return ok(nil)
}

func (i *Interp) newFunction(fn *ast.FuncDecl) *runtime.Function {
	return &runtime.Function{
		Name:   fn.Name,
		Params: fn.Params,
		Body:   fn.Body,
		Env:    i.scope,
	}
}

func (i *Interp) stmt(stmt ast.Stmt) outcome {
	switch s := stmt.(type) {
	case *ast.Program:
		return i.program(s)
	case *ast.Block:
		return i.block(s)
	case *ast.VarDecl:
		return i.varDecl(s)
	case *ast.FuncDecl:
		// Already hoisted; rebinding replaces the hoisted value with a
		// fresh function over the current scope. A second declaration of
		// the same name in one block is rejected during hoisting.
		i.scope.Redeclare(s.Name, i.newFunction(s), false)
		return ok(nil)
	case *ast.ClassDecl:
		return i.classDecl(s)
	case *ast.ReturnStmt:
		return i.returnStmt(s)
	case *ast.BreakStmt:
		return outcome{ctrl: ctrlBreak}
	case *ast.ContinueStmt:
		return outcome{ctrl: ctrlContinue}
	case *ast.IfStmt:
		return i.ifStmt(s)
	case *ast.WhileStmt:
		return i.whileStmt(s)
	case *ast.ForStmt:
		return i.forStmt(s)
	case *ast.ForeachStmt:
		return i.foreachStmt(s)
	case *ast.ImportStmt:
		return i.importStmt(s)
	case *ast.AssertStmt:
		return i.assertStmt(s)
	case *ast.DeleteStmt:
		return i.deleteStmt(s)
	case *ast.ExprStmt:
		return i.expr(s.X)
	case nil:
		return ok(nil)
	}
	return i.errorf("unsupported statement", stmt.Range())
}

func (i *Interp) block(s *ast.Block) outcome {
	i.scope = runtime.NewScope(i.scope)
	out := i.program(s.Body)
	i.scope = i.scope.Parent()
	if out.ctrl != ctrlNone {
		return out
	}
	return ok(nil)
}

func (i *Interp) varDecl(s *ast.VarDecl) outcome {
	var init runtime.Value = runtime.NullValue
	if s.Init != nil {
		out := i.expr(s.Init)
		if out.ctrl != ctrlNone {
			return out
		}
		if out.val == nil {
			return i.errorAt("invalid assignment", s.Init.Range().Start, s.Range())
		}
		init = out.val
	}
	if !i.scope.Declare(s.Name, init, s.Const) {
		return i.errorAt("'"+truncateName(s.Name)+"' is already defined", s.NameRng.Start, s.Range())
	}
	return ok(nil)
}

func (i *Interp) classDecl(s *ast.ClassDecl) outcome {
	cls := &runtime.Class{Name: s.Name, Body: s.Body}
	if !i.scope.Declare(s.Name, cls, false) {
		return i.errorAt("'"+truncateName(s.Name)+"' is already defined", s.NameRng.Start, s.Range())
	}
	return ok(nil)
}

func (i *Interp) returnStmt(s *ast.ReturnStmt) outcome {
	var val runtime.Value = runtime.NullValue
	if s.Value != nil {
		out := i.expr(s.Value)
		if out.ctrl != ctrlNone {
			return out
		}
		if out.val == nil {
			return i.errorf("return expression evaluated to null", s.Range())
		}
		val = out.val
	}
	return outcome{val: val, ctrl: ctrlReturn}
}

func (i *Interp) ifStmt(s *ast.IfStmt) outcome {
	cond := i.expr(s.Cond)
	if cond.ctrl != ctrlNone || cond.val == nil {
		return cond
	}
	switch cond.val.Kind() {
	case runtime.KindBool, runtime.KindNumber, runtime.KindString:
	default:
		return i.errorf("condition must evaluate to a boolean expression", s.Cond.Range())
	}
	if cond.val.Truthy() {
		if s.Then != nil {
			if out := i.stmt(s.Then); out.ctrl != ctrlNone {
				return out
			}
		}
	} else if s.Else != nil {
		if out := i.stmt(s.Else); out.ctrl != ctrlNone {
			return out
		}
	}
	return ok(nil)
}

// loopBody runs one iteration and absorbs break/continue.
// stop is true when the loop should terminate.
func (i *Interp) loopBody(body ast.Stmt) (out outcome, stop bool) {
	if body == nil {
		return ok(nil), false
	}
	out = i.stmt(body)
	switch out.ctrl {
	case ctrlBreak:
		return ok(nil), true
	case ctrlContinue, ctrlNone:
		return ok(nil), false
	default:
		return out, true
	}
}

func (i *Interp) whileStmt(s *ast.WhileStmt) outcome {
	for {
		cond := i.expr(s.Cond)
		if cond.ctrl != ctrlNone {
			return cond
		}
		if cond.val == nil {
			return ok(nil)
		}
		switch cond.val.Kind() {
		case runtime.KindBool, runtime.KindNumber:
		default:
			return i.errorf("condition must be a boolean expression", s.Cond.Range())
		}
		if !cond.val.Truthy() {
			return ok(nil)
		}
		out, stop := i.loopBody(s.Body)
		if stop {
			return out
		}
	}
}

func (i *Interp) forStmt(s *ast.ForStmt) outcome {
	i.scope = runtime.NewScope(i.scope)
	defer func() { i.scope = i.scope.Parent() }()

	if s.Init != nil {
		if out := i.stmt(s.Init); out.ctrl != ctrlNone {
			return out
		}
	}
	for {
		if s.Cond != nil {
			cond, stop := i.forCond(s)
			if stop {
				return cond
			}
		}
		out, stop := i.loopBody(s.Body)
		if stop {
			return out
		}
		if s.Post != nil {
			if out := i.expr(s.Post); out.ctrl != ctrlNone {
				return out
			}
		}
	}
}

// forCond evaluates the loop condition statement; stop is true when the
// loop must not run another iteration (falsy condition or error).
func (i *Interp) forCond(s *ast.ForStmt) (outcome, bool) {
	es, isExpr := s.Cond.(*ast.ExprStmt)
	if !isExpr {
		return i.errorf("for loop condition must be a boolean expression", s.Cond.Range()), true
	}
	cond := i.expr(es.X)
	if cond.ctrl != ctrlNone {
		return cond, true
	}
	if cond.val == nil {
		return i.errorf("for loop condition evaluation failed", es.X.Range()), true
	}
	switch cond.val.Kind() {
	case runtime.KindBool, runtime.KindNumber:
	default:
		return i.errorf("for loop condition must be a boolean expression", es.X.Range()), true
	}
	if !cond.val.Truthy() {
		return ok(nil), true
	}
	return ok(nil), false
}

func (i *Interp) foreachStmt(s *ast.ForeachStmt) outcome {
	i.scope = runtime.NewScope(i.scope)
	defer func() { i.scope = i.scope.Parent() }()

	iter := i.expr(s.Iterable)
	if iter.ctrl != ctrlNone {
		return iter
	}

	if s.Value == nil {
		arr, isArr := iter.val.(*runtime.Array)
		if !isArr {
			return i.errorf("for-each loop iterable must be an array", s.Iterable.Range())
		}
		for idx := 0; idx < len(arr.Elems); idx++ {
			i.scope.Redeclare(s.Key.Name, arr.Elems[idx], false)
			out, stop := i.loopBody(s.Body)
			if stop {
				return out
			}
		}
		return ok(nil)
	}

	obj, isObj := iter.val.(*runtime.Object)
	if !isObj {
		return i.errorf("for-each loop iterable must be an object", s.Iterable.Range())
	}
	for _, member := range obj.DataMembers() {
		i.scope.Redeclare(s.Key.Name, runtime.NewString(member.Name), false)
		i.scope.Redeclare(s.Value.Name, member.Value, false)
		out, stop := i.loopBody(s.Body)
		if stop {
			return out
		}
	}
	return ok(nil)
}

func (i *Interp) assertStmt(s *ast.AssertStmt) outcome {
	cond := i.expr(s.Cond)
	if cond.ctrl != ctrlNone {
		return cond
	}
	if cond.val == nil {
		return i.errorf("assertion condition evaluated to null", s.Cond.Range())
	}
	switch cond.val.Kind() {
	case runtime.KindBool, runtime.KindNumber, runtime.KindString:
	default:
		return i.errorf("assertion condition must be a boolean expression", s.Cond.Range())
	}
	if cond.val.Truthy() {
		return ok(nil)
	}
	msg := ""
	if s.Message != nil {
		out := i.expr(s.Message)
		if out.ctrl != ctrlNone {
			return out
		}
		if out.val != nil {
			msg = out.val.String()
		}
	}
	return i.errorAt("assertion failed: "+msg, s.Cond.Range().Start, s.Range())
}

func (i *Interp) deleteStmt(s *ast.DeleteStmt) outcome {
	if i.scope.Remove(s.Name) == nil {
		return i.errorAt("'"+truncateName(s.Name)+"' is not defined", s.NameRng.Start, s.Range())
	}
	return ok(nil)
}

// ---------------------------------------------------------------------
// Expressions

func (i *Interp) expr(e ast.Expr) outcome {
	switch x := e.(type) {
	case *ast.NumberLit:
		return ok(runtime.NewNumber(x.Value))
	case *ast.StringLit:
		return ok(runtime.NewString(x.Value))
	case *ast.BoolLit:
		return ok(runtime.Boolean(x.Value))
	case *ast.NullLit:
		return ok(runtime.NullValue)
	case *ast.VarExpr:
		return i.varExpr(x)
	case *ast.UnaryExpr:
		return i.unaryExpr(x)
	case *ast.BinaryExpr:
		return i.binaryExpr(x)
	case *ast.AssignExpr:
		return i.assignExpr(x)
	case *ast.CallExpr:
		return i.callExpr(x)
	case *ast.ArrayLit:
		return i.arrayLit(x)
	case *ast.IndexExpr:
		return i.indexExpr(x)
	case *ast.MemberExpr:
		return i.memberExpr(x)
	case nil:
		return ok(nil)
	}
	return i.errorf("unsupported expression", e.Range())
}

func (i *Interp) varExpr(x *ast.VarExpr) outcome {
	// FILE and LINE resolve to the reference site, not to a binding.
	switch x.Name {
	case "FILE":
		return ok(runtime.NewString(x.Range().Start.Filename()))
	case "LINE":
		return ok(runtime.NewNumber(float64(x.Range().Start.Line())))
	}
	v := i.scope.Lookup(x.Name)
	if v == nil {
		return i.errorAt("'"+truncateName(x.Name)+"' is not defined", x.Range().Start, x.Range())
	}
	return ok(v)
}

func (i *Interp) binaryExpr(x *ast.BinaryExpr) outcome {
	left := i.expr(x.Left)
	if left.ctrl != ctrlNone {
		return left
	}
	if left.val == nil {
		return i.errorf("left operand of binary expression is null", x.Left.Range())
	}

	// Short-circuit when the left operand already decides the result;
	// the left value itself is the result, not a coerced boolean.
	if x.Op == token.And && !left.val.Truthy() {
		return ok(left.val)
	}
	if x.Op == token.Or && left.val.Truthy() {
		return ok(left.val)
	}

	right := i.expr(x.Right)
	if right.ctrl != ctrlNone {
		return right
	}
	if right.val == nil {
		return i.errorf("right operand of binary expression is null", x.Right.Range())
	}

	result, err := runtime.Binary(x.Op, left.val, right.val)
	switch err {
	case nil:
		return ok(result)
	case runtime.ErrDivideByZero:
		return i.errorf("cannot divide by zero", x.Right.Range())
	default:
		return i.errorf("unsupported binary operation between "+left.val.TypeName()+" and "+right.val.TypeName(), x.OpRng)
	}
}

func (i *Interp) unaryExpr(x *ast.UnaryExpr) outcome {
	if x.Op == token.Inc || x.Op == token.Dec {
		return i.incDecExpr(x)
	}

	operand := i.expr(x.Operand)
	if operand.ctrl != ctrlNone {
		return operand
	}
	if operand.val == nil {
		return i.errorf("unary expression evaluation failed", x.Operand.Range())
	}

	switch x.Op {
	case token.Kind('!'):
		return ok(runtime.Not(operand.val))
	case token.Kind('-'):
		v, err := runtime.Negate(operand.val)
		if err != nil {
			return i.errorf("unsupported unary operation on "+operand.val.TypeName(), x.Range())
		}
		return ok(v)
	case token.Kind('+'):
		return ok(operand.val)
	}
	return i.errorf("unsupported unary operation on "+operand.val.TypeName(), x.Range())
}

// incDecExpr handles ++ and --, valid only on identifiers bound to
// numbers. Prefix yields the new value, postfix the old.
func (i *Interp) incDecExpr(x *ast.UnaryExpr) outcome {
	target, isVar := x.Operand.(*ast.VarExpr)
	if !isVar {
		return i.errorf("expected a modifiable expression", x.Operand.Range())
	}
	v := i.scope.Lookup(target.Name)
	if v == nil {
		return i.errorf("variable "+target.Name+" is not defined", target.Range())
	}
	num, isNum := v.(*runtime.Number)
	if !isNum {
		return i.errorf("variable "+target.Name+" is not a number", target.Range())
	}
	delta := 1.0
	if x.Op == token.Dec {
		delta = -1
	}
	updated := runtime.NewNumber(num.Val + delta)
	i.scope.Assign(target.Name, updated)
	if x.Prefix {
		return ok(updated)
	}
	return ok(num)
}

func (i *Interp) arrayLit(x *ast.ArrayLit) outcome {
	elems := make([]runtime.Value, 0, len(x.Elems))
	for _, el := range x.Elems {
		out := i.expr(el)
		if out.ctrl != ctrlNone {
			return out
		}
		elems = append(elems, out.val)
	}
	return ok(runtime.NewArray(elems))
}

func (i *Interp) indexExpr(x *ast.IndexExpr) outcome {
	target := i.expr(x.Target)
	if target.ctrl != ctrlNone {
		return target
	}
	if target.val == nil {
		return i.errorf("array access left-hand side evaluated to null", x.Target.Range())
	}

	switch recv := target.val.(type) {
	case *runtime.Array:
		idx, out := i.indexOf(x, len(recv.Elems), "array")
		if out.ctrl != ctrlNone {
			return out
		}
		return ok(recv.Elems[idx])
	case *runtime.String:
		idx, out := i.indexOf(x, len(recv.Val), "string")
		if out.ctrl != ctrlNone {
			return out
		}
		return ok(runtime.NewString(recv.Val[idx : idx+1]))
	}
	return i.errorf("left-hand side of array access is not an array or string", x.Target.Range())
}

// indexOf evaluates and bounds-checks the index expression of x.
func (i *Interp) indexOf(x *ast.IndexExpr, length int, what string) (int, outcome) {
	out := i.expr(x.Index)
	if out.ctrl != ctrlNone {
		return 0, out
	}
	if out.val == nil {
		return 0, i.errorf("array access index evaluated to null", x.Index.Range())
	}
	num, isNum := out.val.(*runtime.Number)
	if !isNum {
		return 0, i.errorf("array access index must be a number", x.Index.Range())
	}
	idx := int(num.Val)
	if idx < 0 || idx >= length {
		return 0, i.errorf(what+" index out of bounds: "+runtime.FormatNumber(num.Val), x.Index.Range())
	}
	return idx, ok(nil)
}

func (i *Interp) memberExpr(x *ast.MemberExpr) outcome {
	target := i.expr(x.Target)
	if target.ctrl != ctrlNone {
		return target
	}
	if target.val == nil {
		return i.errorf("member access left-hand side evaluated to null", x.Target.Range())
	}
	member := runtime.GetMember(target.val, x.Name)
	if member == nil {
		return i.errorAt("member '"+x.Name+"' not found", x.NameRng.Start, x.Range())
	}
	return ok(member)
}
