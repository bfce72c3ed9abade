// Package sema is the pre-evaluation structural check. It walks a
// parsed tree without evaluating anything, collects every violation it
// finds and reports them in a batch; name resolution and type errors
// stay runtime concerns.
package sema

import (
	"strconv"

	"github.com/termfx/lithium/internal/ast"
	"github.com/termfx/lithium/internal/diag"
	"github.com/termfx/lithium/internal/source"
)

// maxFunctionDepth is the advisory nesting threshold; declarations
// nested deeper than this are almost certainly a generator bug or an
// attack on the evaluator's stack.
const maxFunctionDepth = 50

// Checker accumulates structural errors over one compilation unit.
type Checker struct {
	reporter *diag.Reporter

	errors        int
	functionDepth int
	loopDepth     int
	blockDepth    int

	localFuncs map[string]struct{}
	classes    map[string]struct{}
	imports    map[string]struct{}
}

// New returns a checker reporting through r.
func New(r *diag.Reporter) *Checker {
	return &Checker{reporter: r}
}

// Check walks prog and returns true when no structural error was found.
func (c *Checker) Check(prog *ast.Program) bool {
	c.errors = 0
	c.functionDepth = 0
	c.loopDepth = 0
	c.blockDepth = 0
	c.localFuncs = make(map[string]struct{})
	c.classes = make(map[string]struct{})
	c.imports = make(map[string]struct{})

	c.stmts(prog)
	return c.errors == 0
}

// Errors returns the number of violations found by the last Check.
func (c *Checker) Errors() int {
	return c.errors
}

func (c *Checker) errorf(msg string, rng source.Range) {
	c.reporter.Error(msg, rng)
	c.errors++
}

func (c *Checker) errorAt(msg string, loc source.Location, rng source.Range) {
	c.reporter.ErrorAt(msg, loc, rng)
	c.errors++
}

func (c *Checker) stmts(prog *ast.Program) {
	if prog == nil {
		return
	}
	for _, stmt := range prog.Stmts {
		c.stmt(stmt)
	}
}

// pushScope saves the function set of the current immediate scope and
// returns the restore closure; loops and blocks introduce fresh scopes.
func (c *Checker) pushScope() func() {
	saved := c.localFuncs
	c.localFuncs = make(map[string]struct{})
	return func() { c.localFuncs = saved }
}

func (c *Checker) stmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.Program:
		c.stmts(s)

	case *ast.Block:
		c.blockDepth++
		restore := c.pushScope()
		c.stmts(s.Body)
		restore()
		c.blockDepth--

	case *ast.VarDecl:
		c.expr(s.Init)

	case *ast.FuncDecl:
		c.funcDecl(s)

	case *ast.ClassDecl:
		c.classDecl(s)

	case *ast.ReturnStmt:
		if c.functionDepth == 0 {
			c.errorf("'return' used outside of a function", s.Range())
		}
		c.expr(s.Value)

	case *ast.BreakStmt:
		if c.loopDepth == 0 {
			c.errorf("'break' used outside of a loop", s.Range())
		}

	case *ast.ContinueStmt:
		if c.loopDepth == 0 {
			c.errorf("'continue' used outside of a loop", s.Range())
		}

	case *ast.IfStmt:
		c.expr(s.Cond)
		c.stmt(s.Then)
		if s.Else != nil {
			c.stmt(s.Else)
		}

	case *ast.WhileStmt:
		c.loopDepth++
		c.expr(s.Cond)
		c.stmt(s.Body)
		c.loopDepth--

	case *ast.ForStmt:
		c.loopDepth++
		restore := c.pushScope()
		if s.Init != nil {
			c.stmt(s.Init)
		}
		if s.Cond != nil {
			c.stmt(s.Cond)
		}
		c.expr(s.Post)
		c.stmt(s.Body)
		restore()
		c.loopDepth--

	case *ast.ForeachStmt:
		c.loopDepth++
		restore := c.pushScope()
		c.expr(s.Iterable)
		c.stmt(s.Body)
		restore()
		c.loopDepth--

	case *ast.ImportStmt:
		if c.functionDepth > 0 || c.blockDepth > 0 {
			c.errorf("import statements must be at global scope", s.Range())
		}
		if _, dup := c.imports[s.Module]; dup {
			c.errorf("module '"+s.Module+"' is already imported", s.Range())
		}
		c.imports[s.Module] = struct{}{}

	case *ast.AssertStmt:
		c.expr(s.Cond)
		c.expr(s.Message)

	case *ast.DeleteStmt:
		// Delete targets are validated at runtime.

	case *ast.ExprStmt:
		c.expr(s.X)

	case nil:
	}
}

func (c *Checker) funcDecl(s *ast.FuncDecl) {
	if _, dup := c.localFuncs[s.Name]; dup {
		c.errorAt("function '"+s.Name+"' is already declared in this scope", s.NameRng.Start, s.Range())
	}
	c.localFuncs[s.Name] = struct{}{}

	if s.Body == nil {
		c.errorAt("function '"+s.Name+"' has no body", s.NameRng.Start, s.Range())
		return
	}

	c.functionDepth++
	if c.functionDepth == maxFunctionDepth+1 {
		c.errorf("function declarations nested deeper than "+strconv.Itoa(maxFunctionDepth)+" levels", s.Range())
	}
	restore := c.pushScope()
	c.stmt(s.Body)
	restore()
	c.functionDepth--
}

func (c *Checker) classDecl(s *ast.ClassDecl) {
	if c.blockDepth > 0 || c.functionDepth > 0 {
		c.errorAt("class '"+s.Name+"' must be declared at global scope", s.NameRng.Start, s.Range())
	}
	if _, dup := c.classes[s.Name]; dup {
		c.errorAt("class '"+s.Name+"' is already declared", s.NameRng.Start, s.Range())
	}
	c.classes[s.Name] = struct{}{}

	restore := c.pushScope()
	c.stmts(s.Body)
	restore()
}

func (c *Checker) expr(e ast.Expr) {
	switch x := e.(type) {
	case *ast.UnaryExpr:
		c.expr(x.Operand)
	case *ast.BinaryExpr:
		c.expr(x.Left)
		c.expr(x.Right)
	case *ast.AssignExpr:
		c.expr(x.Target)
		c.expr(x.Value)
	case *ast.CallExpr:
		c.expr(x.Callee)
		for _, arg := range x.Args {
			c.expr(arg)
		}
	case *ast.ArrayLit:
		for _, el := range x.Elems {
			c.expr(el)
		}
	case *ast.IndexExpr:
		c.expr(x.Target)
		c.expr(x.Index)
	case *ast.MemberExpr:
		c.expr(x.Target)
	case nil:
	}
}
