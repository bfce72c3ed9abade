// Package ast defines the syntax tree produced by the parser. Nodes
// form a tree of uniquely owned variants; every node carries the source
// range it was parsed from, and a parent's range encloses its children.
package ast

import (
	"github.com/termfx/lithium/internal/source"
	"github.com/termfx/lithium/internal/token"
)

// Node is implemented by every syntax node.
type Node interface {
	Range() source.Range
}

// Expr is implemented by expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// Span is the embedded source range of a node.
type Span struct {
	Rng source.Range
}

// Range returns the source span the node was parsed from.
func (s Span) Range() source.Range { return s.Rng }

// ---------------------------------------------------------------------
// Expressions

// NumberLit is a numeric literal; the lexeme may carry a leading minus.
type NumberLit struct {
	Span
	Value float64
}

// StringLit is a string literal after escape processing.
type StringLit struct {
	Span
	Value string
}

// BoolLit is a true/false literal.
type BoolLit struct {
	Span
	Value bool
}

// NullLit is the null literal.
type NullLit struct {
	Span
}

// VarExpr is an identifier reference.
type VarExpr struct {
	Span
	Name string
}

// UnaryExpr applies an operator to one operand; Prefix distinguishes
// ++x from x++.
type UnaryExpr struct {
	Span
	Op      token.Kind
	Operand Expr
	Prefix  bool
}

// BinaryExpr applies an operator to two operands.
type BinaryExpr struct {
	Span
	Left  Expr
	Op    token.Kind
	OpRng source.Range
	Right Expr
}

// AssignExpr assigns Value to Target with = or a compound operator.
// The parser accepts any expression as Target; the evaluator validates
// it is an l-value.
type AssignExpr struct {
	Span
	Target Expr
	Op     token.Kind
	Value  Expr
}

// CallExpr invokes Callee with Args.
type CallExpr struct {
	Span
	Callee Expr
	Args   []Expr
}

// ArrayLit constructs an array from its element expressions.
type ArrayLit struct {
	Span
	Elems []Expr
}

// IndexExpr reads Target[Index].
type IndexExpr struct {
	Span
	Target Expr
	Index  Expr
}

// MemberExpr reads Target.Name.
type MemberExpr struct {
	Span
	Target  Expr
	Name    string
	NameRng source.Range
}

func (*NumberLit) exprNode() {}
func (*StringLit) exprNode() {}
func (*BoolLit) exprNode() {}
func (*NullLit) exprNode() {}
func (*VarExpr) exprNode() {}
func (*UnaryExpr) exprNode() {}
func (*BinaryExpr) exprNode() {}
func (*AssignExpr) exprNode() {}
func (*CallExpr) exprNode() {}
func (*ArrayLit) exprNode() {}
func (*IndexExpr) exprNode() {}
func (*MemberExpr) exprNode() {}

// ---------------------------------------------------------------------
// Statements

// Program is an ordered list of statements: a whole file, a class body,
// or the inside of a block.
type Program struct {
	Span
	Stmts []Stmt
}

// Block is a braced scope.
type Block struct {
	Span
	Body *Program
}

// VarDecl declares a variable or constant. A nil Init declares null
// (used for foreach loop variables).
type VarDecl struct {
	Span
	Name    string
	NameRng source.Range
	Const   bool
	Init    Expr
}

// Param is one function parameter.
type Param struct {
	Name string
	Rng  source.Range
}

// FuncDecl declares a named function.
type FuncDecl struct {
	Span
	Name    string
	NameRng source.Range
	Params  []Param
	Body    Stmt
}

// ClassDecl declares a class; the body runs once per instantiation.
type ClassDecl struct {
	Span
	Name    string
	NameRng source.Range
	Body    *Program
}

// ReturnStmt returns from the enclosing function; nil Value means null.
type ReturnStmt struct {
	Span
	Value Expr
}

// BreakStmt exits the enclosing loop.
type BreakStmt struct {
	Span
}

// ContinueStmt advances the enclosing loop.
type ContinueStmt struct {
	Span
}

// IfStmt selects a branch by the truthiness of Cond.
type IfStmt struct {
	Span
	Cond Expr
	Then Stmt
	Else Stmt
}

// WhileStmt loops while Cond is truthy.
type WhileStmt struct {
	Span
	Cond Expr
	Body Stmt
}

// ForStmt is the C-style loop; Init and Cond are expression statements
// and may be nil (an empty ';'); the parser always sets Post.
type ForStmt struct {
	Span
	Init Stmt
	Cond Stmt
	Post Expr
	Body Stmt
}

// ForeachStmt iterates an array (one loop variable) or an object's
// data members (key and value variables).
type ForeachStmt struct {
	Span
	Key      *VarDecl
	Value    *VarDecl
	Iterable Expr
	Body     Stmt
}

// ImportStmt loads a module by name; a dotted name has already been
// rewritten with '/' as the path separator.
type ImportStmt struct {
	Span
	Module    string
	ModuleRng source.Range
}

// AssertStmt raises a fatal diagnostic when Cond is falsy; Message is
// optional.
type AssertStmt struct {
	Span
	Cond    Expr
	Message Expr
}

// DeleteStmt removes a binding from the scope chain.
type DeleteStmt struct {
	Span
	Name    string
	NameRng source.Range
}

// ExprStmt evaluates an expression for its effects.
type ExprStmt struct {
	Span
	X Expr
}

func (*Program) stmtNode() {}
func (*Block) stmtNode() {}
func (*VarDecl) stmtNode() {}
func (*FuncDecl) stmtNode() {}
func (*ClassDecl) stmtNode() {}
func (*ReturnStmt) stmtNode() {}
func (*BreakStmt) stmtNode() {}
func (*ContinueStmt) stmtNode() {}
func (*IfStmt) stmtNode() {}
func (*WhileStmt) stmtNode() {}
func (*ForStmt) stmtNode() {}
func (*ForeachStmt) stmtNode() {}
func (*ImportStmt) stmtNode() {}
func (*AssertStmt) stmtNode() {}
func (*DeleteStmt) stmtNode() {}
func (*ExprStmt) stmtNode() {}
