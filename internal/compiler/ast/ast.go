// Package ast defines the Glyph abstract syntax tree. Nodes are modeled as
// a tagged variant: every Node reports its Kind and callers switch on it
// rather than using type assertions to probe for every possible concrete
// type.
package ast

// SourceFile is the immutable character stream a set of nodes share. Many
// nodes reference one SourceFile; it stays valid as long as something keeps
// the pointer alive.
type SourceFile struct {
	Path string
	Text string
}

// Location identifies a byte range within one SourceFile.
type Location struct {
	File  *SourceFile
	Start int
	End   int
}

// Kind tags every concrete node type, used for switch-based dispatch in the
// locator, reference collector, and query handlers.
type Kind int

const (
	KindFile Kind = iota
	KindPragmaDirective
	KindImportDirective
	KindContractDecl
	KindVarDecl
	KindFuncDecl
	KindParamDecl
	KindBlockStmt
	KindExprStmt
	KindReturnStmt
	KindAssignStmt
	KindIdentifier
	KindIdentifierPath
	KindMemberAccess
	KindCallExpr
	KindBinaryExpr
	KindLiteral
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "File"
	case KindPragmaDirective:
		return "PragmaDirective"
	case KindImportDirective:
		return "ImportDirective"
	case KindContractDecl:
		return "ContractDecl"
	case KindVarDecl:
		return "VarDecl"
	case KindFuncDecl:
		return "FuncDecl"
	case KindParamDecl:
		return "ParamDecl"
	case KindBlockStmt:
		return "BlockStmt"
	case KindExprStmt:
		return "ExprStmt"
	case KindReturnStmt:
		return "ReturnStmt"
	case KindAssignStmt:
		return "AssignStmt"
	case KindIdentifier:
		return "Identifier"
	case KindIdentifierPath:
		return "IdentifierPath"
	case KindMemberAccess:
		return "MemberAccess"
	case KindCallExpr:
		return "CallExpr"
	case KindBinaryExpr:
		return "BinaryExpr"
	case KindLiteral:
		return "Literal"
	default:
		return "Unknown"
	}
}

// Node is any AST node. Pos/End are byte offsets into the owning
// SourceFile's Text.
type Node interface {
	Kind() Kind
	Pos() int
	End() int
}

// Decl is a Node that introduces a named entity: a contract, a state
// variable, a function, or a parameter.
type Decl interface {
	Node
	DeclName() string
	NamePos() int
	NameEnd() int
}

// Base holds the span every node carries; embedded by every concrete type.
// It is exported so other packages (the parser) can construct node
// literals directly with an explicit span.
type Base struct {
	StartOffset int
	EndOffset   int
}

func (b Base) Pos() int { return b.StartOffset }
func (b Base) End() int { return b.EndOffset }

// File is the root node of one compiled source unit.
type File struct {
	Base
	Source    *SourceFile
	Pragma    *PragmaDirective
	Imports   []*ImportDirective
	Contracts []*ContractDecl
}

func (*File) Kind() Kind { return KindFile }

// PragmaDirective is a `pragma glyph <constraint>;` directive.
type PragmaDirective struct {
	Base
	Constraint string
}

func (*PragmaDirective) Kind() Kind { return KindPragmaDirective }

// ImportDirective is an `import "<path>";` directive. ResolvedFile is nil
// until the import resolver locates the target; a query handler treats a
// nil ResolvedFile as unresolved.
type ImportDirective struct {
	Base
	Path         string
	ResolvedFile *SourceFile
}

func (*ImportDirective) Kind() Kind { return KindImportDirective }

// ContractDecl declares a contract with state variables and functions.
type ContractDecl struct {
	Base
	Name          string
	NameStart     int
	NameEndOffset int
	Vars          []*VarDecl
	Funcs         []*FuncDecl
	Doc           string
}

func (*ContractDecl) Kind() Kind       { return KindContractDecl }
func (d *ContractDecl) DeclName() string { return d.Name }
func (d *ContractDecl) NamePos() int    { return d.NameStart }
func (d *ContractDecl) NameEnd() int    { return d.NameEndOffset }

// MemberOf returns the state variable or function named name, or nil.
func (d *ContractDecl) MemberOf(name string) Decl {
	for _, v := range d.Vars {
		if v.Name == name {
			return v
		}
	}
	for _, f := range d.Funcs {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// VarDecl declares a state variable or local variable; parameters are
// ParamDecl.
type VarDecl struct {
	Base
	Name          string
	NameStart     int
	NameEndOffset int
	TypeName      string
	Doc           string
}

func (*VarDecl) Kind() Kind       { return KindVarDecl }
func (d *VarDecl) DeclName() string { return d.Name }
func (d *VarDecl) NamePos() int    { return d.NameStart }
func (d *VarDecl) NameEnd() int    { return d.NameEndOffset }

// ParamDecl declares one function parameter.
type ParamDecl struct {
	Base
	Name          string
	NameStart     int
	NameEndOffset int
	TypeName      string
}

func (*ParamDecl) Kind() Kind       { return KindParamDecl }
func (d *ParamDecl) DeclName() string { return d.Name }
func (d *ParamDecl) NamePos() int    { return d.NameStart }
func (d *ParamDecl) NameEnd() int    { return d.NameEndOffset }

// FuncDecl declares a contract function.
type FuncDecl struct {
	Base
	Name          string
	NameStart     int
	NameEndOffset int
	Params        []*ParamDecl
	Body          *BlockStmt
	Doc           string
}

func (*FuncDecl) Kind() Kind       { return KindFuncDecl }
func (d *FuncDecl) DeclName() string { return d.Name }
func (d *FuncDecl) NamePos() int    { return d.NameStart }
func (d *FuncDecl) NameEnd() int    { return d.NameEndOffset }

// Stmt is any statement node.
type Stmt interface {
	Node
	stmtNode()
}

// BlockStmt is a `{ ... }` statement list, introducing a lexical scope.
type BlockStmt struct {
	Base
	Locals []*VarDecl
	Stmts  []Stmt
}

func (*BlockStmt) Kind() Kind { return KindBlockStmt }
func (*BlockStmt) stmtNode()  {}

// ExprStmt is an expression used as a statement.
type ExprStmt struct {
	Base
	X Expr
}

func (*ExprStmt) Kind() Kind { return KindExprStmt }
func (*ExprStmt) stmtNode()  {}

// ReturnStmt is a `return <expr>;` statement.
type ReturnStmt struct {
	Base
	Result Expr
}

func (*ReturnStmt) Kind() Kind { return KindReturnStmt }
func (*ReturnStmt) stmtNode()  {}

// AssignStmt is a `<lhs> = <rhs>;` statement.
type AssignStmt struct {
	Base
	Lhs Expr
	Rhs Expr
}

func (*AssignStmt) Kind() Kind { return KindAssignStmt }
func (*AssignStmt) stmtNode()  {}

// Expr is any expression node.
type Expr interface {
	Node
	exprNode()
}

// Identifier is an unqualified name reference.
type Identifier struct {
	Base
	Name string
}

func (*Identifier) Kind() Kind { return KindIdentifier }
func (*Identifier) exprNode()  {}

// IdentifierPath is a dotted chain of names resolving to one declaration,
// e.g. a qualified import member reference.
type IdentifierPath struct {
	Base
	Segments    []string
	SegmentPos  []int // byte offset of each segment's first byte
	SegmentEnds []int
}

func (*IdentifierPath) Kind() Kind { return KindIdentifierPath }
func (*IdentifierPath) exprNode()  {}

// TerminalPos returns the position of the path's final segment, the one
// the reference collector matches against.
func (p *IdentifierPath) TerminalPos() int { return p.SegmentPos[len(p.SegmentPos)-1] }
func (p *IdentifierPath) TerminalEnd() int { return p.SegmentEnds[len(p.SegmentEnds)-1] }
func (p *IdentifierPath) TerminalName() string { return p.Segments[len(p.Segments)-1] }

// MemberAccess is `X.Name`.
type MemberAccess struct {
	Base
	X             Expr
	Name          string
	NameStart     int
	NameEndOffset int
}

func (*MemberAccess) Kind() Kind { return KindMemberAccess }
func (*MemberAccess) exprNode()  {}

// CallExpr is a function/contract call `Fn(Args...)`.
type CallExpr struct {
	Base
	Fn   Expr
	Args []Expr
}

func (*CallExpr) Kind() Kind { return KindCallExpr }
func (*CallExpr) exprNode()  {}

// BinaryExpr is `X Op Y`.
type BinaryExpr struct {
	Base
	Op   string
	X, Y Expr
}

func (*BinaryExpr) Kind() Kind { return KindBinaryExpr }
func (*BinaryExpr) exprNode()  {}

// Literal is a numeric, string, or boolean literal.
type Literal struct {
	Base
	Text string
}

func (*Literal) Kind() Kind { return KindLiteral }
func (*Literal) exprNode()  {}
