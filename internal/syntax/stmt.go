package syntax

import "svelab/internal/source"

type ExprStmt struct {
	base
	X Expr
}

type BlockStmt struct {
	base
	Label Name
	Stmts []Stmt
}

type IfStmt struct {
	base
	Cond Expr
	Then Stmt
	Else Stmt // nil without else
}

type ReturnStmt struct {
	base
	Value Expr // nil for a bare return
}

type DeclStmt struct {
	base
	Decl *DataDeclaration
}

// ForStmt is for (init; cond; step) body. Init holds loop-variable
// declarations or assignments.
type ForStmt struct {
	base
	Init []Stmt
	Cond Expr
	Step []Expr
	Body Stmt
}

type WhileStmt struct {
	base
	Cond Expr
	Body Stmt
}

type EmptyStmt struct{ base }

func (*ExprStmt) stmt()   {}
func (*BlockStmt) stmt()  {}
func (*IfStmt) stmt()     {}
func (*ReturnStmt) stmt() {}
func (*DeclStmt) stmt()   {}
func (*ForStmt) stmt()    {}
func (*WhileStmt) stmt()  {}
func (*EmptyStmt) stmt()  {}

func NewExprStmt(sp source.Span, x Expr) *ExprStmt {
	return &ExprStmt{base: newBase(KindExpressionStatement, sp), X: x}
}
func NewBlockStmt(sp source.Span) *BlockStmt {
	return &BlockStmt{base: newBase(KindBlock, sp)}
}
func NewIfStmt(sp source.Span, cond Expr, then, els Stmt) *IfStmt {
	return &IfStmt{base: newBase(KindIf, sp), Cond: cond, Then: then, Else: els}
}
func NewReturnStmt(sp source.Span, value Expr) *ReturnStmt {
	return &ReturnStmt{base: newBase(KindReturn, sp), Value: value}
}
func NewDeclStmt(d *DataDeclaration) *DeclStmt {
	return &DeclStmt{base: newBase(KindDeclStatement, d.Span()), Decl: d}
}
func NewEmptyStmt(sp source.Span) *EmptyStmt {
	return &EmptyStmt{base: newBase(KindEmptyStatement, sp)}
}
func NewForStmt(sp source.Span) *ForStmt {
	return &ForStmt{base: newBase(KindFor, sp)}
}
func NewWhileStmt(sp source.Span, cond Expr, body Stmt) *WhileStmt {
	return &WhileStmt{base: newBase(KindWhile, sp), Cond: cond, Body: body}
}
