package parser

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termfx/lithium/internal/ast"
	"github.com/termfx/lithium/internal/diag"
	"github.com/termfx/lithium/internal/source"
	"github.com/termfx/lithium/internal/token"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	m.Run()
}

func parse(t *testing.T, src string) (*ast.Program, bool, string) {
	t.Helper()
	sources := source.NewMap()
	var buf bytes.Buffer
	p := New(diag.NewReporter(&buf))
	prog, parsed := p.Parse(sources.Add("test.li", src))
	return prog, parsed, buf.String()
}

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, parsed, stderr := parse(t, src)
	require.True(t, parsed, "parse failed: %s", stderr)
	return prog
}

func TestStatementForms(t *testing.T) {
	tests := []struct {
		name string
		src  string
		exp  any
	}{
		{name: "let", src: "let x = 1;", exp: &ast.VarDecl{}},
		{name: "const", src: "const x = 1;", exp: &ast.VarDecl{}},
		{name: "function", src: "fn f(a, b) { return a; }", exp: &ast.FuncDecl{}},
		{name: "class", src: "class C { let x = 1; }", exp: &ast.ClassDecl{}},
		{name: "if", src: "if (1) ;", exp: &ast.IfStmt{}},
		{name: "while", src: "while (1) { }", exp: &ast.WhileStmt{}},
		{name: "for", src: "for (let i = 0; i < 3; ++i) { }", exp: &ast.ForStmt{}},
		{name: "foreach array", src: "foreach (v : xs) { }", exp: &ast.ForeachStmt{}},
		{name: "foreach object", src: "foreach (k, v : obj) { }", exp: &ast.ForeachStmt{}},
		{name: "import", src: "import <io>", exp: &ast.ImportStmt{}},
		{name: "assert", src: "assert 1 == 1, \"nope\";", exp: &ast.AssertStmt{}},
		{name: "delete", src: "delete x;", exp: &ast.DeleteStmt{}},
		{name: "block", src: "{ let x = 1; }", exp: &ast.Block{}},
		{name: "expression", src: "f(1);", exp: &ast.ExprStmt{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := mustParse(t, tt.src)
			require.Len(t, prog.Stmts, 1)
			assert.IsType(t, tt.exp, prog.Stmts[0])
		})
	}
}

func TestEmptyStatementsAreDropped(t *testing.T) {
	prog := mustParse(t, ";;;let x = 1;;")
	assert.Len(t, prog.Stmts, 1)
}

func TestPrecedence(t *testing.T) {
	prog := mustParse(t, "a + b * c;")
	expr := prog.Stmts[0].(*ast.ExprStmt).X.(*ast.BinaryExpr)

	assert.Equal(t, token.Kind('+'), expr.Op)
	right := expr.Right.(*ast.BinaryExpr)
	assert.Equal(t, token.Kind('*'), right.Op)
}

func TestLeftAssociativity(t *testing.T) {
	prog := mustParse(t, "a - b - c;")
	expr := prog.Stmts[0].(*ast.ExprStmt).X.(*ast.BinaryExpr)

	// (a - b) - c
	assert.IsType(t, &ast.BinaryExpr{}, expr.Left)
	assert.IsType(t, &ast.VarExpr{}, expr.Right)
}

func TestAssignmentRightAssociativity(t *testing.T) {
	prog := mustParse(t, "a = b = 1;")
	expr := prog.Stmts[0].(*ast.ExprStmt).X.(*ast.AssignExpr)

	// a = (b = 1)
	assert.IsType(t, &ast.VarExpr{}, expr.Target)
	assert.IsType(t, &ast.AssignExpr{}, expr.Value)
}

func TestLogicalPrecedence(t *testing.T) {
	prog := mustParse(t, "a || b && c;")
	expr := prog.Stmts[0].(*ast.ExprStmt).X.(*ast.BinaryExpr)

	assert.Equal(t, token.Or, expr.Op)
	assert.Equal(t, token.And, expr.Right.(*ast.BinaryExpr).Op)
}

func TestPostfixChains(t *testing.T) {
	prog := mustParse(t, "a.b[0](1, 2).c;")
	member := prog.Stmts[0].(*ast.ExprStmt).X.(*ast.MemberExpr)
	assert.Equal(t, "c", member.Name)

	call := member.Target.(*ast.CallExpr)
	require.Len(t, call.Args, 2)
	index := call.Callee.(*ast.IndexExpr)
	inner := index.Target.(*ast.MemberExpr)
	assert.Equal(t, "b", inner.Name)
	assert.IsType(t, &ast.VarExpr{}, inner.Target)
}

func TestUnaryForms(t *testing.T) {
	prog := mustParse(t, "++x; x++; !x; -x;")
	require.Len(t, prog.Stmts, 4)

	pre := prog.Stmts[0].(*ast.ExprStmt).X.(*ast.UnaryExpr)
	assert.True(t, pre.Prefix)
	assert.Equal(t, token.Inc, pre.Op)

	post := prog.Stmts[1].(*ast.ExprStmt).X.(*ast.UnaryExpr)
	assert.False(t, post.Prefix)
}

func TestLiterals(t *testing.T) {
	prog := mustParse(t, `1; "s"; true; false; null; [1, 2]; [];`)
	require.Len(t, prog.Stmts, 7)

	assert.Equal(t, 1.0, prog.Stmts[0].(*ast.ExprStmt).X.(*ast.NumberLit).Value)
	assert.Equal(t, "s", prog.Stmts[1].(*ast.ExprStmt).X.(*ast.StringLit).Value)
	assert.True(t, prog.Stmts[2].(*ast.ExprStmt).X.(*ast.BoolLit).Value)
	assert.False(t, prog.Stmts[3].(*ast.ExprStmt).X.(*ast.BoolLit).Value)
	assert.IsType(t, &ast.NullLit{}, prog.Stmts[4].(*ast.ExprStmt).X)
	assert.Len(t, prog.Stmts[5].(*ast.ExprStmt).X.(*ast.ArrayLit).Elems, 2)
	assert.Empty(t, prog.Stmts[6].(*ast.ExprStmt).X.(*ast.ArrayLit).Elems)
}

func TestDottedModuleName(t *testing.T) {
	prog := mustParse(t, "import <net.http>")
	imp := prog.Stmts[0].(*ast.ImportStmt)
	assert.Equal(t, "net/http", imp.Module)
}

func TestForeachDecls(t *testing.T) {
	prog := mustParse(t, "foreach (k, v : obj) { }")
	fe := prog.Stmts[0].(*ast.ForeachStmt)
	assert.Equal(t, "k", fe.Key.Name)
	require.NotNil(t, fe.Value)
	assert.Equal(t, "v", fe.Value.Name)

	prog = mustParse(t, "foreach (v : xs) ;")
	fe = prog.Stmts[0].(*ast.ForeachStmt)
	assert.Nil(t, fe.Value)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		exp  string
	}{
		{name: "missing semicolon", src: "let x = 1", exp: "unexpected end of file, expected ';'"},
		{name: "missing paren", src: "if (1 { }", exp: "expected ')'"},
		{name: "bad primary", src: "let x = ;", exp: "primary expression"},
		{name: "stray brace", src: "}", exp: "unexpected token"},
		{name: "bad class body", src: "class C { if (1) ; }", exp: "unexpected token in class body"},
		{name: "missing ident", src: "fn (a) { }", exp: "expected 'identifier'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, parsed, stderr := parse(t, tt.src)
			assert.False(t, parsed)
			assert.Nil(t, prog)
			assert.Contains(t, stderr, tt.exp)
		})
	}
}

func TestParserHaltsAfterFirstError(t *testing.T) {
	sources := source.NewMap()
	var buf bytes.Buffer
	r := diag.NewReporter(&buf)
	p := New(r)
	_, parsed := p.Parse(sources.Add("test.li", "let = 1; let = 2;"))
	assert.False(t, parsed)
	assert.Equal(t, 1, r.Count())
}

func TestParserDeterminism(t *testing.T) {
	src := `
fn fib(n) {
	if (n < 2) { return n; }
	return fib(n - 1) + fib(n - 2);
}
let xs = [1, 2, 3];
foreach (v : xs) { println(v, fib(v)); }
`
	a := mustParse(t, src)
	b := mustParse(t, src)
	assert.True(t, reflect.DeepEqual(a, b))
}

// Every node's range must be enclosed by its parent's range.
func TestRangesEncloseChildren(t *testing.T) {
	src := `
let total = 0;
fn add(a, b) { return a + b; }
class Pair { let x = 1; fn sum() { return x; } }
for (let i = 0; i < 3; ++i) { total += add(i, 2 * i); }
foreach (v : [1, 2]) { if (v > 1) { total++; } else ; }
assert total >= 0, "total " + total;
`
	prog := mustParse(t, src)
	for _, stmt := range prog.Stmts {
		checkEnclosure(t, stmt)
	}
}

func checkEnclosure(t *testing.T, node ast.Node) {
	t.Helper()
	if node == nil || reflect.ValueOf(node).IsNil() {
		return
	}
	rng := node.Range()
	for _, child := range children(node) {
		if child == nil || reflect.ValueOf(child).IsNil() {
			continue
		}
		assert.True(t, rng.Contains(child.Range()),
			"%T range [%d,%d] does not enclose %T range [%d,%d]",
			node, rng.Start.Offset, rng.End.Offset,
			child, child.Range().Start.Offset, child.Range().End.Offset)
		checkEnclosure(t, child)
	}
}

func children(node ast.Node) []ast.Node {
	switch n := node.(type) {
	case *ast.Program:
		out := make([]ast.Node, len(n.Stmts))
		for i, s := range n.Stmts {
			out[i] = s
		}
		return out
	case *ast.Block:
		return []ast.Node{n.Body}
	case *ast.VarDecl:
		return []ast.Node{n.Init}
	case *ast.FuncDecl:
		return []ast.Node{n.Body}
	case *ast.ClassDecl:
		return []ast.Node{n.Body}
	case *ast.ReturnStmt:
		return []ast.Node{n.Value}
	case *ast.IfStmt:
		return []ast.Node{n.Cond, n.Then, n.Else}
	case *ast.WhileStmt:
		return []ast.Node{n.Cond, n.Body}
	case *ast.ForStmt:
		return []ast.Node{n.Init, n.Cond, n.Post, n.Body}
	case *ast.ForeachStmt:
		return []ast.Node{n.Key, n.Value, n.Iterable, n.Body}
	case *ast.AssertStmt:
		return []ast.Node{n.Cond, n.Message}
	case *ast.ExprStmt:
		return []ast.Node{n.X}
	case *ast.UnaryExpr:
		return []ast.Node{n.Operand}
	case *ast.BinaryExpr:
		return []ast.Node{n.Left, n.Right}
	case *ast.AssignExpr:
		return []ast.Node{n.Target, n.Value}
	case *ast.CallExpr:
		out := []ast.Node{n.Callee}
		for _, a := range n.Args {
			out = append(out, a)
		}
		return out
	case *ast.ArrayLit:
		out := make([]ast.Node, len(n.Elems))
		for i, e := range n.Elems {
			out[i] = e
		}
		return out
	case *ast.IndexExpr:
		return []ast.Node{n.Target, n.Index}
	case *ast.MemberExpr:
		return []ast.Node{n.Target}
	}
	return nil
}
