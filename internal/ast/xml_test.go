package ast_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termfx/lithium/internal/ast"
	"github.com/termfx/lithium/internal/diag"
	"github.com/termfx/lithium/internal/parser"
	"github.com/termfx/lithium/internal/source"
)

func dump(t *testing.T, src string) string {
	t.Helper()
	sources := source.NewMap()
	var buf bytes.Buffer
	prog, ok := parser.New(diag.NewReporter(&buf)).Parse(sources.Add("test.li", src))
	require.True(t, ok, buf.String())
	return ast.XMLDump(prog)
}

func TestXMLDumpDeclaration(t *testing.T) {
	out := dump(t, "let x = 1 + 2;")
	assert.Equal(t, `<Statements>
  <VarDecl name="x" is_const="false">
    <BinaryExpression op="+">
      <Number value="1" />
      <Number value="2" />
    </BinaryExpression>
  </VarDecl>
</Statements>
`, out)
}

func TestXMLDumpCall(t *testing.T) {
	out := dump(t, `println("hi", true);`)
	assert.Equal(t, `<Statements>
  <Call>
    <VarExpr name="println" />
    <ArgList>
      <String value="hi" />
      <Boolean value="true" />
    </ArgList>
  </Call>
</Statements>
`, out)
}

func TestXMLDumpStatements(t *testing.T) {
	out := dump(t, `
fn f(a, b) { return a; }
class C { let x = 0; }
foreach (k, v : y) { break; }
import <io>
delete z;
`)
	assert.Contains(t, out, `<FuncDecl name="f" params="a,b">`)
	assert.Contains(t, out, `<Class name="C">`)
	assert.Contains(t, out, `<ForEach key="k" value="v">`)
	assert.Contains(t, out, `<Import module="io" />`)
	assert.Contains(t, out, `<Delete name="z" />`)
	assert.Contains(t, out, `<Break />`)
	assert.Contains(t, out, `<ReturnStatement>`)
}
