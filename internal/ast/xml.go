package ast

import (
	"strconv"
	"strings"
)

// XMLDump renders a tree as indented XML, one tag per node variant.
// The driver exposes it for inspecting what the parser produced.
func XMLDump(node Node) string {
	w := &xmlWriter{}
	w.node(node)
	return w.b.String()
}

type xmlWriter struct {
	b      strings.Builder
	indent int
}

func (w *xmlWriter) open(tag string, attrs ...string) {
	w.tag(tag, false, attrs)
	w.indent++
}

func (w *xmlWriter) selfClose(tag string, attrs ...string) {
	w.tag(tag, true, attrs)
}

func (w *xmlWriter) tag(tag string, selfClosing bool, attrs []string) {
	w.b.WriteString(strings.Repeat("  ", w.indent))
	w.b.WriteByte('<')
	w.b.WriteString(tag)
	for _, attr := range attrs {
		w.b.WriteByte(' ')
		w.b.WriteString(attr)
	}
	if selfClosing {
		w.b.WriteString(" />\n")
	} else {
		w.b.WriteString(">\n")
	}
}

func (w *xmlWriter) close(tag string) {
	w.indent--
	w.b.WriteString(strings.Repeat("  ", w.indent))
	w.b.WriteString("</" + tag + ">\n")
}

func attr(name, value string) string {
	return name + "=" + strconv.Quote(value)
}

func boolAttr(name string, v bool) string {
	return attr(name, strconv.FormatBool(v))
}

func (w *xmlWriter) node(node Node) {
	switch n := node.(type) {
	case nil:

	case *Program:
		w.open("Statements")
		for _, stmt := range n.Stmts {
			w.node(stmt)
		}
		w.close("Statements")

	case *Block:
		w.open("Block")
		w.node(n.Body)
		w.close("Block")

	case *VarDecl:
		w.open("VarDecl", attr("name", n.Name), boolAttr("is_const", n.Const))
		w.node(n.Init)
		w.close("VarDecl")

	case *FuncDecl:
		params := make([]string, len(n.Params))
		for i, p := range n.Params {
			params[i] = p.Name
		}
		w.open("FuncDecl", attr("name", n.Name), attr("params", strings.Join(params, ",")))
		w.node(n.Body)
		w.close("FuncDecl")

	case *ClassDecl:
		w.open("Class", attr("name", n.Name))
		w.node(n.Body)
		w.close("Class")

	case *ReturnStmt:
		w.open("ReturnStatement")
		w.node(n.Value)
		w.close("ReturnStatement")

	case *BreakStmt:
		w.selfClose("Break")

	case *ContinueStmt:
		w.selfClose("Continue")

	case *IfStmt:
		w.open("IfStatement")
		w.node(n.Cond)
		w.node(n.Then)
		w.node(n.Else)
		w.close("IfStatement")

	case *WhileStmt:
		w.open("While")
		w.node(n.Cond)
		w.node(n.Body)
		w.close("While")

	case *ForStmt:
		w.open("ForStatement")
		w.node(n.Init)
		w.node(n.Cond)
		w.node(n.Post)
		w.node(n.Body)
		w.close("ForStatement")

	case *ForeachStmt:
		attrs := []string{attr("key", n.Key.Name)}
		if n.Value != nil {
			attrs = append(attrs, attr("value", n.Value.Name))
		}
		w.open("ForEach", attrs...)
		w.node(n.Iterable)
		w.node(n.Body)
		w.close("ForEach")

	case *ImportStmt:
		w.selfClose("Import", attr("module", n.Module))

	case *AssertStmt:
		w.open("Assert")
		w.node(n.Cond)
		w.node(n.Message)
		w.close("Assert")

	case *DeleteStmt:
		w.selfClose("Delete", attr("name", n.Name))

	case *ExprStmt:
		w.node(n.X)

	case *NumberLit:
		w.selfClose("Number", attr("value", strconv.FormatFloat(n.Value, 'f', -1, 64)))

	case *StringLit:
		w.selfClose("String", attr("value", n.Value))

	case *BoolLit:
		w.selfClose("Boolean", attr("value", strconv.FormatBool(n.Value)))

	case *NullLit:
		w.selfClose("Null")

	case *VarExpr:
		w.selfClose("VarExpr", attr("name", n.Name))

	case *UnaryExpr:
		w.open("UnaryExpression", attr("op", n.Op.String()), boolAttr("prefix", n.Prefix))
		w.node(n.Operand)
		w.close("UnaryExpression")

	case *BinaryExpr:
		w.open("BinaryExpression", attr("op", n.Op.String()))
		w.node(n.Left)
		w.node(n.Right)
		w.close("BinaryExpression")

	case *AssignExpr:
		w.open("Assign", attr("op", n.Op.String()))
		w.node(n.Target)
		w.node(n.Value)
		w.close("Assign")

	case *CallExpr:
		w.open("Call")
		w.node(n.Callee)
		if len(n.Args) > 0 {
			w.open("ArgList")
			for _, arg := range n.Args {
				w.node(arg)
			}
			w.close("ArgList")
		}
		w.close("Call")

	case *ArrayLit:
		w.open("Array")
		for _, el := range n.Elems {
			w.node(el)
		}
		w.close("Array")

	case *IndexExpr:
		w.open("ArrayAccess")
		w.node(n.Target)
		w.node(n.Index)
		w.close("ArrayAccess")

	case *MemberExpr:
		w.open("MemberAccess", attr("member", n.Name))
		w.node(n.Target)
		w.close("MemberAccess")
	}
}
