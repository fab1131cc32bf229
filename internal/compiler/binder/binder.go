// Package binder performs the single semantic analysis pass over a parsed
// Glyph file: binding identifiers, identifier paths, and member accesses to
// the declarations they refer to, and checking the pragma version
// constraint. It is intentionally a single flat pass with no separate
// type-checking stage: enough semantic depth for declaration-based queries,
// not a full contract-language type system.
package binder

import (
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/glyphlang/glyph-ls/internal/compiler/ast"
)

// Severity is the 1..4 diagnostic severity scale LSP uses.
type Severity int

const (
	SeverityError       Severity = 1
	SeverityWarning     Severity = 2
	SeverityInformation Severity = 3
	SeverityHint        Severity = 4
)

// Diagnostic is a binder-produced finding, positioned by byte offset.
type Diagnostic struct {
	Severity Severity
	Message  string
	Start    int
	End      int
}

// Info is the binder's output: the semantic annotations query handlers
// consult.
type Info struct {
	// decl maps an Identifier, the terminal segment of an IdentifierPath, or
	// a MemberAccess to the single declaration semantic analysis bound it to.
	decl map[ast.Node]ast.Decl
	// candidates holds every declaration considered for a node, referenced
	// one included. For this binder there is at most one candidate per node,
	// but the shape is kept so a richer overload-aware binder could populate
	// it without changing callers.
	candidates map[ast.Node][]ast.Decl
}

func newInfo() *Info {
	return &Info{decl: map[ast.Node]ast.Decl{}, candidates: map[ast.Node][]ast.Decl{}}
}

// ObjectOf returns the declaration node annotates to, or nil if unbound.
func (info *Info) ObjectOf(node ast.Node) ast.Decl {
	return info.decl[node]
}

// CandidatesOf returns every declaration considered for node (referenced
// declaration first, if any).
func (info *Info) CandidatesOf(node ast.Node) []ast.Decl {
	return info.candidates[node]
}

func (info *Info) bind(node ast.Node, d ast.Decl) {
	info.decl[node] = d
	info.candidates[node] = append(info.candidates[node], d)
}

// scope is a flat name→declaration table. Scopes nest two levels deep:
// function-local (params + all locals, flattened across nested blocks)
// over contract members. Top-level contracts are not in any scope; bare
// identifiers do not resolve to them, and they are reached only through
// the binder's contracts table (an IdentifierPath's first segment or a
// variable's declared type).
type scope struct {
	names  map[string]ast.Decl
	parent *scope
}

func (s *scope) lookup(name string) ast.Decl {
	for cur := s; cur != nil; cur = cur.parent {
		if d, ok := cur.names[name]; ok {
			return d
		}
	}
	return nil
}

func newScope(parent *scope) *scope {
	return &scope{names: map[string]ast.Decl{}, parent: parent}
}

// Bind runs semantic analysis over file. contracts is the full set of
// contract declarations visible to it (its own plus every other open
// document's), used to resolve cross-file member access through the type
// of a variable.
func Bind(file *ast.File, contracts map[string]*ast.ContractDecl, frontendVersion *semver.Version) (*Info, []Diagnostic) {
	b := &binder{info: newInfo(), contracts: contracts}
	if file.Pragma != nil {
		b.checkPragma(file.Pragma, frontendVersion)
	}
	for _, c := range file.Contracts {
		b.bindContract(c)
	}
	return b.info, b.diags
}

type binder struct {
	info      *Info
	contracts map[string]*ast.ContractDecl
	diags     []Diagnostic
}

func (b *binder) errorf(start, end int, severity Severity, format string, args ...any) {
	b.diags = append(b.diags, Diagnostic{Severity: severity, Message: fmt.Sprintf(format, args...), Start: start, End: end})
}

// checkPragma validates a `pragma glyph <constraint>;` directive against
// the frontend's own reported version.
func (b *binder) checkPragma(p *ast.PragmaDirective, frontendVersion *semver.Version) {
	if p.Constraint == "" {
		return
	}
	constraint, err := semver.NewConstraint(p.Constraint)
	if err != nil {
		b.errorf(p.Pos(), p.End(), SeverityWarning, "malformed pragma version constraint %q: %s", p.Constraint, err)
		return
	}
	if frontendVersion != nil && !constraint.Check(frontendVersion) {
		b.errorf(p.Pos(), p.End(), SeverityWarning,
			"source requires glyph %s, running frontend is %s", p.Constraint, frontendVersion.String())
	}
}

func (b *binder) bindContract(c *ast.ContractDecl) {
	contractScope := newScope(nil)
	for _, v := range c.Vars {
		contractScope.names[v.Name] = v
	}
	for _, f := range c.Funcs {
		contractScope.names[f.Name] = f
	}
	for _, f := range c.Funcs {
		b.bindFunc(f, contractScope)
	}
}

func (b *binder) bindFunc(f *ast.FuncDecl, contractScope *scope) {
	fnScope := newScope(contractScope)
	for _, p := range f.Params {
		fnScope.names[p.Name] = p
	}
	if f.Body != nil {
		b.collectLocals(f.Body, fnScope)
		b.bindBlock(f.Body, fnScope)
	}
}

// collectLocals flattens every local variable declared in block and its
// nested blocks into one scope, since Glyph has no shadowing between
// sibling or nested blocks worth modeling for this server.
func (b *binder) collectLocals(block *ast.BlockStmt, s *scope) {
	for _, l := range block.Locals {
		s.names[l.Name] = l
	}
	for _, stmt := range block.Stmts {
		if nested, ok := stmt.(*ast.BlockStmt); ok {
			b.collectLocals(nested, s)
		}
	}
}

func (b *binder) bindBlock(block *ast.BlockStmt, s *scope) {
	for _, stmt := range block.Stmts {
		b.bindStmt(stmt, s)
	}
}

func (b *binder) bindStmt(stmt ast.Stmt, s *scope) {
	switch st := stmt.(type) {
	case *ast.ExprStmt:
		b.bindExpr(st.X, s)
	case *ast.ReturnStmt:
		if st.Result != nil {
			b.bindExpr(st.Result, s)
		}
	case *ast.AssignStmt:
		b.bindExpr(st.Lhs, s)
		b.bindExpr(st.Rhs, s)
	case *ast.BlockStmt:
		b.bindBlock(st, s)
	}
}

func (b *binder) bindExpr(expr ast.Expr, s *scope) {
	switch e := expr.(type) {
	case *ast.Identifier:
		if d := s.lookup(e.Name); d != nil {
			b.info.bind(e, d)
		} else {
			b.errorf(e.Pos(), e.End(), SeverityError, "undefined identifier %q", e.Name)
		}
	case *ast.IdentifierPath:
		b.bindIdentifierPath(e, s)
	case *ast.MemberAccess:
		b.bindExpr(e.X, s)
		b.bindMemberAccess(e, s)
	case *ast.CallExpr:
		b.bindExpr(e.Fn, s)
		for _, a := range e.Args {
			b.bindExpr(a, s)
		}
	case *ast.BinaryExpr:
		b.bindExpr(e.X, s)
		b.bindExpr(e.Y, s)
	case *ast.Literal:
		// nothing to bind
	}
}

// bindIdentifierPath resolves a qualified chain like lib.token.balance by
// walking segment-by-segment: the first segment must name a contract, each
// subsequent segment must name a member of the contract reached so far (a
// non-terminal member continues the chain through the contract its
// declared type names), with the terminal segment bound as the path's
// declaration.
func (b *binder) bindIdentifierPath(path *ast.IdentifierPath, s *scope) {
	contract, ok := b.contracts[path.Segments[0]]
	if !ok {
		b.errorf(path.SegmentPos[0], path.SegmentEnds[0], SeverityError, "undefined contract %q", path.Segments[0])
		return
	}
	var lastDecl ast.Decl = contract
	for i := 1; i < len(path.Segments); i++ {
		name := path.Segments[i]
		member := contract.MemberOf(name)
		if member == nil {
			b.errorf(path.SegmentPos[i], path.SegmentEnds[i], SeverityError, "contract %q has no member %q", contract.Name, name)
			return
		}
		lastDecl = member
		if i < len(path.Segments)-1 {
			// Only a contract-typed member (e.g. `Token token;`) can
			// continue the chain.
			next, ok := b.contracts[declaredTypeName(member)]
			if !ok {
				b.errorf(path.SegmentPos[i], path.SegmentEnds[i], SeverityError, "member %q of contract %q is not contract-typed", name, contract.Name)
				return
			}
			contract = next
		}
	}
	b.info.bind(path, lastDecl)
}

// bindMemberAccess resolves X.Name where X's declared type names a
// contract, e.g. a state variable declared as `Token t;` followed by
// `t.balance`.
func (b *binder) bindMemberAccess(ma *ast.MemberAccess, s *scope) {
	ident, ok := ma.X.(*ast.Identifier)
	if !ok {
		return
	}
	xDecl := b.info.ObjectOf(ident)
	if xDecl == nil {
		return
	}
	typeName := declaredTypeName(xDecl)
	if typeName == "" {
		return
	}
	contract, ok := b.contracts[typeName]
	if !ok {
		return
	}
	member := contract.MemberOf(ma.Name)
	if member == nil {
		b.errorf(ma.NameStart, ma.NameEndOffset, SeverityError, "contract %q has no member %q", typeName, ma.Name)
		return
	}
	b.info.bind(ma, member)
}

func declaredTypeName(d ast.Decl) string {
	switch v := d.(type) {
	case *ast.VarDecl:
		return v.TypeName
	case *ast.ParamDecl:
		return v.TypeName
	default:
		return ""
	}
}
