// Package parser builds the syntax tree by recursive descent with one
// token of lookahead. On the first unexpected token it reports a
// diagnostic, sets the error flag and unwinds; callers must not consume
// a partial tree.
package parser

import (
	"strconv"

	"github.com/termfx/lithium/internal/ast"
	"github.com/termfx/lithium/internal/diag"
	"github.com/termfx/lithium/internal/lexer"
	"github.com/termfx/lithium/internal/source"
	"github.com/termfx/lithium/internal/token"
)

// Parser parses one file at a time; Parse may be called repeatedly.
type Parser struct {
	reporter *diag.Reporter

	lex      *lexer.Lexer
	cur      token.Token
	depth    int
	hadError bool
}

// New returns a parser reporting through r.
func New(r *diag.Reporter) *Parser {
	return &Parser{reporter: r}
}

// Parse tokenizes and parses f. ok is false if any diagnostic was
// emitted; the returned tree must be discarded in that case.
func (p *Parser) Parse(f *source.File) (prog *ast.Program, ok bool) {
	p.lex = lexer.New(f)
	p.depth = 0
	p.hadError = false
	p.advance()

	prog = p.parseStmts()
	if prog == nil || p.hadError {
		return nil, false
	}
	return prog, true
}

func (p *Parser) advance() {
	p.cur = p.lex.Next()
}

func (p *Parser) errorf(msg string) {
	p.reporter.Error(msg, p.cur.Range)
	p.hadError = true
}

func (p *Parser) expected(what string) {
	if p.cur.Is(token.EOF) {
		p.errorf("unexpected end of file, expected '" + what + "'")
	} else {
		p.errorf("expected '" + what + "' but found '" + p.cur.String() + "'")
	}
}

// expect consumes a token of the given kind or reports and fails.
func (p *Parser) expect(k token.Kind) (token.Token, bool) {
	if !p.cur.Is(k) {
		p.expected(k.String())
		return token.Token{}, false
	}
	tok := p.cur
	p.advance()
	return tok, true
}

// stmtEnd picks the end location of a construct whose body may be the
// empty statement.
func stmtEnd(body ast.Stmt, closing token.Token) source.Location {
	if body != nil {
		return body.Range().End
	}
	return closing.Range.End
}

// first sets, mirroring the grammar comments on each production.

func exprFirst(k token.Kind) bool {
	switch k {
	case token.Number, token.Ident, token.String, token.True, token.False,
		token.Null, token.Inc, token.Dec, '(', '[', '-', '+', '!':
		return true
	}
	return false
}

func exprStmtFirst(k token.Kind) bool {
	return exprFirst(k) || k == token.Let || k == token.Const || k == ';'
}

// stmts -> stmt*
func (p *Parser) parseStmts() *ast.Program {
	prog := &ast.Program{}
	first := true
	for !p.cur.Is(token.EOF) {
		if p.cur.Is(token.Kind('}')) && p.depth != 0 {
			break
		}
		stmt, ok := p.parseStmt()
		if !ok {
			return nil
		}
		if stmt == nil {
			continue // empty ';'
		}
		if first {
			prog.Rng = stmt.Range()
			first = false
		}
		prog.Rng = source.Span(prog.Rng, stmt.Range())
		prog.Stmts = append(prog.Stmts, stmt)
	}
	return prog
}

// stmt -> exprStmt | forStmt | foreachStmt | whileStmt | ifStmt | block
//       | fnDecl | classDecl | returnStmt | breakStmt | continueStmt
//       | importStmt | assertStmt | deleteStmt
func (p *Parser) parseStmt() (ast.Stmt, bool) {
	switch {
	case p.cur.Is(token.Assert):
		return p.parseAssert()
	case p.cur.Is(token.Delete):
		return p.parseDelete()
	case exprStmtFirst(p.cur.Kind):
		return p.parseExprStmt()
	case p.cur.Is(token.For):
		return p.parseFor()
	case p.cur.Is(token.Foreach):
		return p.parseForeach()
	case p.cur.Is(token.While):
		return p.parseWhile()
	case p.cur.Is(token.If):
		return p.parseIf()
	case p.cur.Is(token.Fn):
		return p.parseFuncDecl()
	case p.cur.Is(token.Kind('{')):
		return p.parseBlock()
	case p.cur.Is(token.Return):
		return p.parseReturn()
	case p.cur.Is(token.Break):
		return p.parseBreak()
	case p.cur.Is(token.Continue):
		return p.parseContinue()
	case p.cur.Is(token.Import):
		return p.parseImport()
	case p.cur.Is(token.Class):
		return p.parseClassDecl()
	}
	p.errorf("unexpected token")
	return nil, false
}

// exprStmt -> expr ; | LET IDENT = expr ; | CONST IDENT = expr ; | ;
func (p *Parser) parseExprStmt() (ast.Stmt, bool) {
	switch {
	case p.cur.Is(token.Kind(';')):
		p.advance()
		return nil, true
	case p.cur.Is(token.Let):
		return p.parseVarDecl(false)
	case p.cur.Is(token.Const):
		return p.parseVarDecl(true)
	}

	expr, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(token.Kind(';')); !ok {
		return nil, false
	}
	return &ast.ExprStmt{Span: ast.Span{Rng: expr.Range()}, X: expr}, true
}

// letStmt -> LET IDENT = expr ;   constStmt -> CONST IDENT = expr ;
func (p *Parser) parseVarDecl(isConst bool) (ast.Stmt, bool) {
	kw := p.cur
	p.advance()

	ident, ok := p.expect(token.Ident)
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(token.Kind('=')); !ok {
		return nil, false
	}
	init, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	semi, ok := p.expect(token.Kind(';'))
	if !ok {
		return nil, false
	}
	return &ast.VarDecl{
		Span:    ast.Span{Rng: source.NewRange(kw.Range.Start, semi.Range.End)},
		Name:    ident.Lexeme,
		NameRng: ident.Range,
		Const:   isConst,
		Init:    init,
	}, true
}

// assertStmt -> ASSERT assign (',' expr)? ;
func (p *Parser) parseAssert() (ast.Stmt, bool) {
	kw := p.cur
	p.advance()

	cond, ok := p.parseAssign()
	if !ok {
		return nil, false
	}
	var msg ast.Expr
	if p.cur.Is(token.Kind(',')) {
		p.advance()
		if msg, ok = p.parseExpr(); !ok {
			return nil, false
		}
	}
	semi, ok := p.expect(token.Kind(';'))
	if !ok {
		return nil, false
	}
	return &ast.AssertStmt{
		Span:    ast.Span{Rng: source.NewRange(kw.Range.Start, semi.Range.End)},
		Cond:    cond,
		Message: msg,
	}, true
}

// deleteStmt -> DELETE IDENT ;
func (p *Parser) parseDelete() (ast.Stmt, bool) {
	kw := p.cur
	p.advance()

	ident, ok := p.expect(token.Ident)
	if !ok {
		return nil, false
	}
	semi, ok := p.expect(token.Kind(';'))
	if !ok {
		return nil, false
	}
	return &ast.DeleteStmt{
		Span:    ast.Span{Rng: source.NewRange(kw.Range.Start, semi.Range.End)},
		Name:    ident.Lexeme,
		NameRng: ident.Range,
	}, true
}

// forStmt -> FOR ( exprStmt exprStmt expr ) stmt
func (p *Parser) parseFor() (ast.Stmt, bool) {
	kw := p.cur
	p.advance()

	if _, ok := p.expect(token.Kind('(')); !ok {
		return nil, false
	}
	init, ok := p.parseExprStmt()
	if !ok {
		return nil, false
	}
	cond, ok := p.parseExprStmt()
	if !ok {
		return nil, false
	}
	post, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	closing, ok := p.expect(token.Kind(')'))
	if !ok {
		return nil, false
	}
	body, ok := p.parseStmt()
	if !ok {
		return nil, false
	}
	return &ast.ForStmt{
		Span: ast.Span{Rng: source.NewRange(kw.Range.Start, stmtEnd(body, closing))},
		Init: init,
		Cond: cond,
		Post: post,
		Body: body,
	}, true
}

// forEachStmt -> FOREACH ( IDENT (',' IDENT)? : expr ) stmt
func (p *Parser) parseForeach() (ast.Stmt, bool) {
	kw := p.cur
	p.advance()

	if _, ok := p.expect(token.Kind('(')); !ok {
		return nil, false
	}
	key, ok := p.expect(token.Ident)
	if !ok {
		return nil, false
	}
	var value *ast.VarDecl
	if p.cur.Is(token.Kind(',')) {
		p.advance()
		v, ok := p.expect(token.Ident)
		if !ok {
			return nil, false
		}
		value = &ast.VarDecl{Span: ast.Span{Rng: v.Range}, Name: v.Lexeme, NameRng: v.Range}
	}
	if _, ok := p.expect(token.Kind(':')); !ok {
		return nil, false
	}
	iterable, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	closing, ok := p.expect(token.Kind(')'))
	if !ok {
		return nil, false
	}
	body, ok := p.parseStmt()
	if !ok {
		return nil, false
	}
	return &ast.ForeachStmt{
		Span:     ast.Span{Rng: source.NewRange(kw.Range.Start, stmtEnd(body, closing))},
		Key:      &ast.VarDecl{Span: ast.Span{Rng: key.Range}, Name: key.Lexeme, NameRng: key.Range},
		Value:    value,
		Iterable: iterable,
		Body:     body,
	}, true
}

// whileStmt -> WHILE ( expr ) stmt
func (p *Parser) parseWhile() (ast.Stmt, bool) {
	kw := p.cur
	p.advance()

	if _, ok := p.expect(token.Kind('(')); !ok {
		return nil, false
	}
	cond, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	closing, ok := p.expect(token.Kind(')'))
	if !ok {
		return nil, false
	}
	body, ok := p.parseStmt()
	if !ok {
		return nil, false
	}
	return &ast.WhileStmt{
		Span: ast.Span{Rng: source.NewRange(kw.Range.Start, stmtEnd(body, closing))},
		Cond: cond,
		Body: body,
	}, true
}

// ifStmt -> IF ( expr ) stmt (ELSE stmt)?
func (p *Parser) parseIf() (ast.Stmt, bool) {
	kw := p.cur
	p.advance()

	if _, ok := p.expect(token.Kind('(')); !ok {
		return nil, false
	}
	cond, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	closing, ok := p.expect(token.Kind(')'))
	if !ok {
		return nil, false
	}
	then, ok := p.parseStmt()
	if !ok {
		return nil, false
	}
	var els ast.Stmt
	if p.cur.Is(token.Else) {
		p.advance()
		if els, ok = p.parseStmt(); !ok {
			return nil, false
		}
	}
	end := stmtEnd(then, closing)
	if els != nil {
		end = els.Range().End
	}
	return &ast.IfStmt{
		Span: ast.Span{Rng: source.NewRange(kw.Range.Start, end)},
		Cond: cond,
		Then: then,
		Else: els,
	}, true
}

// block -> { stmts } | { }
func (p *Parser) parseBlock() (ast.Stmt, bool) {
	open, ok := p.expect(token.Kind('{'))
	if !ok {
		return nil, false
	}
	p.depth++
	body := p.parseStmts()
	p.depth--
	if body == nil {
		return nil, false
	}
	closing, ok := p.expect(token.Kind('}'))
	if !ok {
		return nil, false
	}
	return &ast.Block{
		Span: ast.Span{Rng: source.NewRange(open.Range.Start, closing.Range.End)},
		Body: body,
	}, true
}

// funcDecl -> FN IDENT ( paramList? ) stmt
func (p *Parser) parseFuncDecl() (ast.Stmt, bool) {
	kw := p.cur
	p.advance()

	ident, ok := p.expect(token.Ident)
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(token.Kind('(')); !ok {
		return nil, false
	}
	var params []ast.Param
	if !p.cur.Is(token.Kind(')')) {
		if params, ok = p.parseParamList(); !ok {
			return nil, false
		}
	}
	closing, ok := p.expect(token.Kind(')'))
	if !ok {
		return nil, false
	}
	body, ok := p.parseStmt()
	if !ok {
		return nil, false
	}
	return &ast.FuncDecl{
		Span:    ast.Span{Rng: source.NewRange(kw.Range.Start, stmtEnd(body, closing))},
		Name:    ident.Lexeme,
		NameRng: ident.Range,
		Params:  params,
		Body:    body,
	}, true
}

// paramList -> IDENT (',' IDENT)*
func (p *Parser) parseParamList() ([]ast.Param, bool) {
	var params []ast.Param
	for {
		ident, ok := p.expect(token.Ident)
		if !ok {
			return nil, false
		}
		params = append(params, ast.Param{Name: ident.Lexeme, Rng: ident.Range})
		if !p.cur.Is(token.Kind(',')) {
			return params, true
		}
		p.advance()
	}
}

// classDecl -> CLASS IDENT { classBody }
func (p *Parser) parseClassDecl() (ast.Stmt, bool) {
	kw := p.cur
	p.advance()

	ident, ok := p.expect(token.Ident)
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(token.Kind('{')); !ok {
		return nil, false
	}
	body := &ast.Program{Span: ast.Span{Rng: ident.Range}}
	for !p.cur.Is(token.Kind('}')) {
		stmt, ok := p.parseClassStmt()
		if !ok {
			return nil, false
		}
		if stmt != nil {
			body.Rng = source.Span(body.Rng, stmt.Range())
			body.Stmts = append(body.Stmts, stmt)
		}
	}
	closing, ok := p.expect(token.Kind('}'))
	if !ok {
		return nil, false
	}
	return &ast.ClassDecl{
		Span:    ast.Span{Rng: source.NewRange(kw.Range.Start, closing.Range.End)},
		Name:    ident.Lexeme,
		NameRng: ident.Range,
		Body:    body,
	}, true
}

// classStmt -> funcDecl | letStmt | constStmt
func (p *Parser) parseClassStmt() (ast.Stmt, bool) {
	switch {
	case p.cur.Is(token.Fn):
		return p.parseFuncDecl()
	case p.cur.Is(token.Let):
		return p.parseVarDecl(false)
	case p.cur.Is(token.Const):
		return p.parseVarDecl(true)
	}
	p.errorf("unexpected token in class body")
	return nil, false
}

// returnStmt -> RETURN expr? ;
func (p *Parser) parseReturn() (ast.Stmt, bool) {
	kw := p.cur
	p.advance()

	if p.cur.Is(token.Kind(';')) {
		semi := p.cur
		p.advance()
		return &ast.ReturnStmt{Span: ast.Span{Rng: source.NewRange(kw.Range.Start, semi.Range.End)}}, true
	}
	value, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	semi, ok := p.expect(token.Kind(';'))
	if !ok {
		return nil, false
	}
	return &ast.ReturnStmt{
		Span:  ast.Span{Rng: source.NewRange(kw.Range.Start, semi.Range.End)},
		Value: value,
	}, true
}

// breakStmt -> BREAK ;
func (p *Parser) parseBreak() (ast.Stmt, bool) {
	kw := p.cur
	p.advance()
	if _, ok := p.expect(token.Kind(';')); !ok {
		return nil, false
	}
	return &ast.BreakStmt{Span: ast.Span{Rng: kw.Range}}, true
}

// continueStmt -> CONTINUE ;
func (p *Parser) parseContinue() (ast.Stmt, bool) {
	kw := p.cur
	p.advance()
	if _, ok := p.expect(token.Kind(';')); !ok {
		return nil, false
	}
	return &ast.ContinueStmt{Span: ast.Span{Rng: kw.Range}}, true
}

// importStmt -> IMPORT < moduleName >
// moduleName -> IDENT ('.' IDENT)?  — the dot is rewritten to '/'.
func (p *Parser) parseImport() (ast.Stmt, bool) {
	kw := p.cur
	p.advance()

	if _, ok := p.expect(token.Kind('<')); !ok {
		return nil, false
	}
	ident, ok := p.expect(token.Ident)
	if !ok {
		return nil, false
	}
	module := ident.Lexeme
	moduleRng := ident.Range
	if p.cur.Is(token.Kind('.')) {
		p.advance()
		second, ok := p.expect(token.Ident)
		if !ok {
			return nil, false
		}
		module += "/" + second.Lexeme
		moduleRng = source.NewRange(ident.Range.Start, second.Range.End)
	}
	closing, ok := p.expect(token.Kind('>'))
	if !ok {
		return nil, false
	}
	return &ast.ImportStmt{
		Span:      ast.Span{Rng: source.NewRange(kw.Range.Start, closing.Range.End)},
		Module:    module,
		ModuleRng: moduleRng,
	}, true
}

// ---------------------------------------------------------------------
// Expression cascade; each level is left-associative except assignment.

// expr -> assign (',' assign)*
func (p *Parser) parseExpr() (ast.Expr, bool) {
	left, ok := p.parseAssign()
	if !ok {
		return nil, false
	}
	for p.cur.Is(token.Kind(',')) {
		op := p.cur
		p.advance()
		right, ok := p.parseAssign()
		if !ok {
			return nil, false
		}
		left = &ast.BinaryExpr{
			Span:  ast.Span{Rng: source.NewRange(left.Range().Start, right.Range().End)},
			Left:  left,
			Op:    op.Kind,
			OpRng: op.Range,
			Right: right,
		}
	}
	return left, true
}

// assign -> or (assignOp assign)?   (right-assoc)
func (p *Parser) parseAssign() (ast.Expr, bool) {
	left, ok := p.parseOr()
	if !ok {
		return nil, false
	}
	switch p.cur.Kind {
	case token.Kind('='), token.PlusEq, token.MinusEq, token.StarEq, token.SlashEq, token.PercentEq:
	default:
		return left, true
	}
	op := p.cur
	p.advance()
	value, ok := p.parseAssign()
	if !ok {
		return nil, false
	}
	return &ast.AssignExpr{
		Span:   ast.Span{Rng: source.NewRange(left.Range().Start, value.Range().End)},
		Target: left,
		Op:     op.Kind,
		Value:  value,
	}, true
}

// binaryLevel parses `next (op next)*` for one precedence level.
func (p *Parser) binaryLevel(next func() (ast.Expr, bool), ops ...token.Kind) (ast.Expr, bool) {
	left, ok := next()
	if !ok {
		return nil, false
	}
	for {
		matched := false
		for _, op := range ops {
			if p.cur.Is(op) {
				matched = true
				break
			}
		}
		if !matched {
			return left, true
		}
		op := p.cur
		p.advance()
		right, ok := next()
		if !ok {
			return nil, false
		}
		left = &ast.BinaryExpr{
			Span:  ast.Span{Rng: source.NewRange(left.Range().Start, right.Range().End)},
			Left:  left,
			Op:    op.Kind,
			OpRng: op.Range,
			Right: right,
		}
	}
}

func (p *Parser) parseOr() (ast.Expr, bool) {
	return p.binaryLevel(p.parseAnd, token.Or)
}

func (p *Parser) parseAnd() (ast.Expr, bool) {
	return p.binaryLevel(p.parseEquality, token.And)
}

func (p *Parser) parseEquality() (ast.Expr, bool) {
	return p.binaryLevel(p.parseRelation, token.Eq, token.Ne)
}

func (p *Parser) parseRelation() (ast.Expr, bool) {
	return p.binaryLevel(p.parseAddit, token.Kind('<'), token.Kind('>'), token.Le, token.Ge)
}

func (p *Parser) parseAddit() (ast.Expr, bool) {
	return p.binaryLevel(p.parseMult, token.Kind('+'), token.Kind('-'))
}

func (p *Parser) parseMult() (ast.Expr, bool) {
	return p.binaryLevel(p.parseUnary, token.Kind('*'), token.Kind('/'), token.Kind('%'))
}

// unary -> (INC | DEC | + | - | !) unary | post
func (p *Parser) parseUnary() (ast.Expr, bool) {
	switch p.cur.Kind {
	case token.Inc, token.Dec, token.Kind('+'), token.Kind('-'), token.Kind('!'):
	default:
		return p.parsePost()
	}
	op := p.cur
	p.advance()
	operand, ok := p.parseUnary()
	if !ok {
		return nil, false
	}
	return &ast.UnaryExpr{
		Span:    ast.Span{Rng: source.NewRange(op.Range.Start, operand.Range().End)},
		Op:      op.Kind,
		Operand: operand,
		Prefix:  true,
	}, true
}

// post -> primary ( [ expr ] | ( argList? ) | . IDENT | INC | DEC )*
func (p *Parser) parsePost() (ast.Expr, bool) {
	expr, ok := p.parsePrimary()
	if !ok {
		return nil, false
	}
	for {
		switch p.cur.Kind {
		case token.Kind('['):
			p.advance()
			index, ok := p.parseExpr()
			if !ok {
				return nil, false
			}
			closing, ok := p.expect(token.Kind(']'))
			if !ok {
				return nil, false
			}
			expr = &ast.IndexExpr{
				Span:   ast.Span{Rng: source.NewRange(expr.Range().Start, closing.Range.End)},
				Target: expr,
				Index:  index,
			}

		case token.Kind('('):
			p.advance()
			var args []ast.Expr
			if !p.cur.Is(token.Kind(')')) {
				if args, ok = p.parseArgList(); !ok {
					return nil, false
				}
			}
			closing, ok := p.expect(token.Kind(')'))
			if !ok {
				return nil, false
			}
			expr = &ast.CallExpr{
				Span:   ast.Span{Rng: source.NewRange(expr.Range().Start, closing.Range.End)},
				Callee: expr,
				Args:   args,
			}

		case token.Kind('.'):
			p.advance()
			ident, ok := p.expect(token.Ident)
			if !ok {
				return nil, false
			}
			expr = &ast.MemberExpr{
				Span:    ast.Span{Rng: source.NewRange(expr.Range().Start, ident.Range.End)},
				Target:  expr,
				Name:    ident.Lexeme,
				NameRng: ident.Range,
			}

		case token.Inc, token.Dec:
			op := p.cur
			p.advance()
			expr = &ast.UnaryExpr{
				Span:    ast.Span{Rng: source.NewRange(expr.Range().Start, op.Range.End)},
				Op:      op.Kind,
				Operand: expr,
				Prefix:  false,
			}

		default:
			return expr, true
		}
	}
}

// argList -> assign (',' assign)*
func (p *Parser) parseArgList() ([]ast.Expr, bool) {
	var args []ast.Expr
	for {
		arg, ok := p.parseAssign()
		if !ok {
			return nil, false
		}
		args = append(args, arg)
		if !p.cur.Is(token.Kind(',')) {
			return args, true
		}
		p.advance()
	}
}

// primary -> NUMBER | STRING | TRUE | FALSE | NULL | IDENT
//          | ( expr ) | [ argList? ]
func (p *Parser) parsePrimary() (ast.Expr, bool) {
	switch p.cur.Kind {
	case token.Kind('('):
		p.advance()
		expr, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(token.Kind(')')); !ok {
			return nil, false
		}
		return expr, true

	case token.Kind('['):
		open := p.cur
		p.advance()
		var elems []ast.Expr
		if !p.cur.Is(token.Kind(']')) {
			var ok bool
			if elems, ok = p.parseArgList(); !ok {
				return nil, false
			}
		}
		closing, ok := p.expect(token.Kind(']'))
		if !ok {
			return nil, false
		}
		return &ast.ArrayLit{
			Span:  ast.Span{Rng: source.NewRange(open.Range.Start, closing.Range.End)},
			Elems: elems,
		}, true

	case token.Ident:
		tok := p.cur
		p.advance()
		return &ast.VarExpr{Span: ast.Span{Rng: tok.Range}, Name: tok.Lexeme}, true

	case token.Number:
		tok := p.cur
		p.advance()
		val, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			p.errorf("invalid number literal '" + tok.Lexeme + "'")
			return nil, false
		}
		return &ast.NumberLit{Span: ast.Span{Rng: tok.Range}, Value: val}, true

	case token.String:
		tok := p.cur
		p.advance()
		return &ast.StringLit{Span: ast.Span{Rng: tok.Range}, Value: tok.Lexeme}, true

	case token.True, token.False:
		tok := p.cur
		p.advance()
		return &ast.BoolLit{Span: ast.Span{Rng: tok.Range}, Value: tok.Is(token.True)}, true

	case token.Null:
		tok := p.cur
		p.advance()
		return &ast.NullLit{Span: ast.Span{Rng: tok.Range}}, true
	}

	p.expected("primary expression")
	return nil, false
}
