// Package parser builds a Glyph AST from source text via recursive descent:
// one token of lookahead (plus a one-token peek to tell a local declaration
// from an identifier-led expression statement inside a block),
// error-tolerant enough to keep producing a partial AST after a syntax
// error rather than aborting.
package parser

import (
	"fmt"
	"strings"

	"github.com/glyphlang/glyph-ls/internal/compiler/ast"
	"github.com/glyphlang/glyph-ls/internal/compiler/lexer"
)

// Diagnostic is a syntax error found during parsing, positioned by byte
// offset within the parsed SourceFile.
type Diagnostic struct {
	Message string
	Start   int
	End     int
}

// Parser holds the state of one parse of one source file.
type Parser struct {
	lex        *lexer.Lexer
	file       *ast.SourceFile
	tok        lexer.Token
	diags      []Diagnostic
	pendingDoc string
}

// Parse parses the full contents of file and returns the resulting AST
// root plus any syntax diagnostics. Parsing never panics; on unrecoverable
// syntax errors it stops descending into the current construct and
// continues with the next top-level item, so a single mistake doesn't
// blank out the rest of the document's AST.
func Parse(file *ast.SourceFile) (*ast.File, []Diagnostic) {
	p := &Parser{lex: lexer.New(file.Text), file: file}
	p.advance()
	root := p.parseFile()
	return root, p.diags
}

// advance fetches the next significant token, accumulating any run of
// `///` doc-comment lines immediately preceding it into pendingDoc for the
// next declaration to claim (see takeDoc).
func (p *Parser) advance() {
	var doc []string
	for {
		tok := p.lex.Next()
		if tok.Kind != lexer.DocComment {
			p.tok = tok
			break
		}
		doc = append(doc, tok.Text)
	}
	if len(doc) > 0 {
		p.pendingDoc = strings.Join(doc, "\n")
	}
}

// takeDoc returns and clears the doc-comment text accumulated immediately
// before the current token, for a declaration starting here to claim.
func (p *Parser) takeDoc() string {
	doc := p.pendingDoc
	p.pendingDoc = ""
	return doc
}

func (p *Parser) errorf(start, end int, format string, args ...any) {
	p.diags = append(p.diags, Diagnostic{Message: fmt.Sprintf(format, args...), Start: start, End: end})
}

func (p *Parser) at(kind lexer.TokenKind, text string) bool {
	return p.tok.Kind == kind && p.tok.Text == text
}

func (p *Parser) atPunct(text string) bool { return p.at(lexer.Punct, text) }
func (p *Parser) atKeyword(text string) bool { return p.at(lexer.Keyword, text) }

// expectPunct consumes text if present, otherwise records a diagnostic at
// the current token and does not advance.
func (p *Parser) expectPunct(text string) bool {
	if p.atPunct(text) {
		p.advance()
		return true
	}
	p.errorf(p.tok.Start, p.tok.End, "expected %q", text)
	return false
}

func (p *Parser) parseFile() *ast.File {
	start := p.tok.Start
	f := &ast.File{Source: p.file}

	if p.atKeyword("pragma") {
		f.Pragma = p.parsePragma()
	}
	for p.atKeyword("import") {
		f.Imports = append(f.Imports, p.parseImport())
	}
	for p.atKeyword("contract") {
		f.Contracts = append(f.Contracts, p.parseContract())
	}
	// Anything left over that isn't EOF is a syntax error; skip tokens so
	// a trailing garbage fragment doesn't loop forever.
	for p.tok.Kind != lexer.EOF {
		p.errorf(p.tok.Start, p.tok.End, "unexpected token %q", p.tok.Text)
		p.advance()
	}
	f.StartOffset = start
	f.EndOffset = p.tok.End
	return f
}

func (p *Parser) parsePragma() *ast.PragmaDirective {
	start := p.tok.Start
	p.advance() // "pragma"
	if p.atKeyword("glyph") {
		p.advance() // "glyph": the fixed literal naming which pragma this is,
		// not part of the version constraint that follows.
	} else {
		p.errorf(p.tok.Start, p.tok.End, "expected %q", "glyph")
	}
	var constraint string
	for !p.atPunct(";") && p.tok.Kind != lexer.EOF {
		constraint += p.tok.Text
		p.advance()
	}
	end := p.tok.End
	p.expectPunct(";")
	return &ast.PragmaDirective{Base: baseSpan(start, end), Constraint: constraint}
}

func (p *Parser) parseImport() *ast.ImportDirective {
	start := p.tok.Start
	p.advance() // "import"
	path := ""
	if p.tok.Kind == lexer.String {
		path = unquote(p.tok.Text)
		p.advance()
	} else {
		p.errorf(p.tok.Start, p.tok.End, "expected import path string")
	}
	end := p.tok.End
	p.expectPunct(";")
	return &ast.ImportDirective{Base: baseSpan(start, end), Path: path}
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

func isTypeToken(tok lexer.Token) bool {
	if tok.Kind == lexer.Ident {
		return true
	}
	if tok.Kind != lexer.Keyword {
		return false
	}
	switch tok.Text {
	case "uint", "int", "bool", "string", "address":
		return true
	default:
		return false
	}
}

func (p *Parser) parseContract() *ast.ContractDecl {
	doc := p.takeDoc()
	start := p.tok.Start
	p.advance() // "contract"
	nameStart, nameEnd, name := p.tok.Start, p.tok.End, p.tok.Text
	if p.tok.Kind == lexer.Ident {
		p.advance()
	} else {
		p.errorf(p.tok.Start, p.tok.End, "expected contract name")
	}
	decl := &ast.ContractDecl{Name: name, NameStart: nameStart, NameEndOffset: nameEnd, Doc: doc}

	p.expectPunct("{")
	for !p.atPunct("}") && p.tok.Kind != lexer.EOF {
		if p.atKeyword("function") {
			decl.Funcs = append(decl.Funcs, p.parseFunc())
		} else if isTypeToken(p.tok) {
			decl.Vars = append(decl.Vars, p.parseVarDecl())
		} else {
			p.errorf(p.tok.Start, p.tok.End, "expected member declaration")
			p.advance()
		}
	}
	end := p.tok.End
	p.expectPunct("}")
	decl.StartOffset, decl.EndOffset = start, end
	return decl
}

func (p *Parser) parseVarDecl() *ast.VarDecl {
	doc := p.takeDoc()
	start := p.tok.Start
	typeName := p.tok.Text
	p.advance() // type
	nameStart, nameEnd, name := p.tok.Start, p.tok.End, p.tok.Text
	if p.tok.Kind == lexer.Ident {
		p.advance()
	} else {
		p.errorf(p.tok.Start, p.tok.End, "expected variable name")
	}
	end := p.tok.End
	p.expectPunct(";")
	return &ast.VarDecl{
		Base: baseSpan(start, end), Name: name, NameStart: nameStart, NameEndOffset: nameEnd, TypeName: typeName, Doc: doc,
	}
}

func (p *Parser) parseFunc() *ast.FuncDecl {
	doc := p.takeDoc()
	start := p.tok.Start
	p.advance() // "function"
	nameStart, nameEnd, name := p.tok.Start, p.tok.End, p.tok.Text
	if p.tok.Kind == lexer.Ident {
		p.advance()
	} else {
		p.errorf(p.tok.Start, p.tok.End, "expected function name")
	}
	decl := &ast.FuncDecl{Name: name, NameStart: nameStart, NameEndOffset: nameEnd, Doc: doc}

	p.expectPunct("(")
	for !p.atPunct(")") && p.tok.Kind != lexer.EOF {
		decl.Params = append(decl.Params, p.parseParam())
		if p.atPunct(",") {
			p.advance()
		} else {
			break
		}
	}
	p.expectPunct(")")
	decl.Body = p.parseBlock()
	end := decl.Body.End()
	decl.StartOffset, decl.EndOffset = start, end
	return decl
}

func (p *Parser) parseParam() *ast.ParamDecl {
	start := p.tok.Start
	typeName := p.tok.Text
	if isTypeToken(p.tok) {
		p.advance()
	} else {
		p.errorf(p.tok.Start, p.tok.End, "expected parameter type")
	}
	nameStart, nameEnd, name := p.tok.Start, p.tok.End, p.tok.Text
	if p.tok.Kind == lexer.Ident {
		p.advance()
	} else {
		p.errorf(p.tok.Start, p.tok.End, "expected parameter name")
	}
	return &ast.ParamDecl{
		Base: baseSpan(start, nameEnd), Name: name, NameStart: nameStart, NameEndOffset: nameEnd, TypeName: typeName,
	}
}

func (p *Parser) parseBlock() *ast.BlockStmt {
	start := p.tok.Start
	p.expectPunct("{")
	blk := &ast.BlockStmt{}
	for !p.atPunct("}") && p.tok.Kind != lexer.EOF {
		if isTypeToken(p.tok) {
			// An identifier-led statement is a local declaration only when a
			// variable name follows the type name (`Token t;`); otherwise it
			// is an expression statement such as `token.balance();`.
			peek := *p.lex
			if p.tok.Kind == lexer.Keyword || peek.Next().Kind == lexer.Ident {
				blk.Locals = append(blk.Locals, p.parseVarDecl())
				continue
			}
		}
		blk.Stmts = append(blk.Stmts, p.parseStmt())
	}
	end := p.tok.End
	p.expectPunct("}")
	blk.StartOffset, blk.EndOffset = start, end
	return blk
}

func (p *Parser) parseStmt() ast.Stmt {
	start := p.tok.Start
	if p.atKeyword("return") {
		p.advance()
		var result ast.Expr
		if !p.atPunct(";") {
			result = p.parseExpr()
		}
		end := p.tok.End
		p.expectPunct(";")
		return &ast.ReturnStmt{Base: baseSpan(start, end), Result: result}
	}

	x := p.parseExpr()
	if p.atPunct("=") {
		p.advance()
		rhs := p.parseExpr()
		end := p.tok.End
		p.expectPunct(";")
		return &ast.AssignStmt{Base: baseSpan(start, end), Lhs: x, Rhs: rhs}
	}
	end := p.tok.End
	p.expectPunct(";")
	return &ast.ExprStmt{Base: baseSpan(start, end), X: x}
}

// parseExpr parses a left-associative chain of binary operators over
// primary expressions; Glyph's grammar has no precedence levels worth
// distinguishing for this server's purposes (no constant folding, no
// codegen), so every operator binds at the same level.
func (p *Parser) parseExpr() ast.Expr {
	x := p.parseUnary()
	for p.tok.Kind == lexer.Punct && isBinOp(p.tok.Text) {
		op := p.tok.Text
		p.advance()
		y := p.parseUnary()
		x = &ast.BinaryExpr{Base: baseSpan(x.Pos(), y.End()), Op: op, X: x, Y: y}
	}
	return x
}

func isBinOp(op string) bool {
	switch op {
	case "+", "-", "*", "/", "<", ">", "<=", ">=", "==", "!=", "&&", "||":
		return true
	default:
		return false
	}
}

func (p *Parser) parseUnary() ast.Expr {
	return p.parsePostfix(p.parsePrimary())
}

func (p *Parser) parsePostfix(x ast.Expr) ast.Expr {
	// A dotted chain starting from a bare identifier is ambiguous between
	// instance member access and a qualified path to a declaration. The
	// grammar resolves the ambiguity by segment count: exactly one dot is a
	// MemberAccess (`token.balance`); two or more chained identifier
	// segments form an IdentifierPath (`lib.token.balance`).
	if ident, ok := x.(*ast.Identifier); ok && p.atPunct(".") {
		x = p.parseIdentifierPathTail(ident)
	}
	for {
		switch {
		case p.atPunct("."):
			p.advance()
			nameStart, nameEnd, name := p.tok.Start, p.tok.End, p.tok.Text
			if p.tok.Kind == lexer.Ident {
				p.advance()
			} else {
				p.errorf(p.tok.Start, p.tok.End, "expected member name")
			}
			x = &ast.MemberAccess{
				Base: baseSpan(x.Pos(), nameEnd), X: x, Name: name, NameStart: nameStart, NameEndOffset: nameEnd,
			}
		case p.atPunct("("):
			p.advance()
			var args []ast.Expr
			for !p.atPunct(")") && p.tok.Kind != lexer.EOF {
				args = append(args, p.parseExpr())
				if p.atPunct(",") {
					p.advance()
				} else {
					break
				}
			}
			end := p.tok.End
			p.expectPunct(")")
			x = &ast.CallExpr{Base: baseSpan(x.Pos(), end), Fn: x, Args: args}
		default:
			return x
		}
	}
}

// parseIdentifierPathTail consumes a run of ".Ident" segments following
// first. Exactly one segment collapses to a MemberAccess; two or more
// produce an IdentifierPath (see parsePostfix).
func (p *Parser) parseIdentifierPathTail(first *ast.Identifier) ast.Expr {
	segments := []string{first.Name}
	positions := []int{first.Pos()}
	ends := []int{first.End()}

	for p.atPunct(".") {
		p.advance()
		if p.tok.Kind != lexer.Ident {
			p.errorf(p.tok.Start, p.tok.End, "expected identifier after '.'")
			break
		}
		segments = append(segments, p.tok.Text)
		positions = append(positions, p.tok.Start)
		ends = append(ends, p.tok.End)
		p.advance()
	}

	if len(segments) == 2 {
		return &ast.MemberAccess{
			Base:          baseSpan(first.Pos(), ends[1]),
			X:             first,
			Name:          segments[1],
			NameStart:     positions[1],
			NameEndOffset: ends[1],
		}
	}
	return &ast.IdentifierPath{
		Base:        baseSpan(first.Pos(), ends[len(ends)-1]),
		Segments:    segments,
		SegmentPos:  positions,
		SegmentEnds: ends,
	}
}

func (p *Parser) parsePrimary() ast.Expr {
	start, end := p.tok.Start, p.tok.End
	switch {
	case p.tok.Kind == lexer.Ident:
		name := p.tok.Text
		p.advance()
		return &ast.Identifier{Base: baseSpan(start, end), Name: name}
	case p.tok.Kind == lexer.Number || p.tok.Kind == lexer.String:
		text := p.tok.Text
		p.advance()
		return &ast.Literal{Base: baseSpan(start, end), Text: text}
	case p.atKeyword("true") || p.atKeyword("false"):
		text := p.tok.Text
		p.advance()
		return &ast.Literal{Base: baseSpan(start, end), Text: text}
	case p.atPunct("("):
		p.advance()
		x := p.parseExpr()
		p.expectPunct(")")
		return x
	default:
		p.errorf(start, end, "expected expression, found %q", p.tok.Text)
		if p.tok.Kind != lexer.EOF {
			p.advance()
		}
		return &ast.Literal{Base: baseSpan(start, end), Text: ""}
	}
}

func baseSpan(start, end int) ast.Base { return ast.Base{StartOffset: start, EndOffset: end} }
