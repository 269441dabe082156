package syntax

import (
	"svelab/internal/source"
	"svelab/internal/token"
)

type IdentifierName struct {
	base
	Name Name
}

// Literal covers every literal kind; Text is the source spelling.
type Literal struct {
	base
	Text string
}

type UnaryExpr struct {
	base
	Op token.Kind
	X  Expr
}

type BinaryExpr struct {
	base
	Op   token.Kind
	X, Y Expr
}

type TernaryExpr struct {
	base
	Cond, Then, Else Expr
}

type ParenExpr struct {
	base
	X Expr
}

type ConcatExpr struct {
	base
	Items []Expr
}

type ReplicationExpr struct {
	base
	Count Expr
	Items []Expr
}

type ElementSelectExpr struct {
	base
	X     Expr
	Index Expr
}

// RangeSelectExpr is x[l:r], x[b+:w] or x[b-:w] depending on Op.
type RangeSelectExpr struct {
	base
	X           Expr
	Op          token.Kind // Colon, PlusColon, MinusColon
	Left, Right Expr
}

type MemberAccessExpr struct {
	base
	X      Expr
	Member Name
}

type CallExpr struct {
	base
	Callee Name
	Args   []Expr
}

type SystemCallExpr struct {
	base
	Name Name
	Args []Expr
}

// AssignmentExpr is lhs = rhs (Op Assign) or lhs <= rhs (Op LtEq).
type AssignmentExpr struct {
	base
	Op       token.Kind
	LHS, RHS Expr
}

// EventExpr is @(edge expr) used as a value, which only checkers accept.
type EventExpr struct {
	base
	Edge token.Kind // KwPosedge, KwNegedge or Invalid
	X    Expr
}

// SequenceExpr is a sequence or property operator: ##n, |->, |=>.
type SequenceExpr struct {
	base
	Op    token.Kind
	X     Expr // nil for a leading ##n
	Delay Expr // ##n only
	Y     Expr
}

// DataTypeExpr is a data type in expression position, e.g. $bits(logic [3:0]).
type DataTypeExpr struct {
	base
	Type *DataType
}

func (*IdentifierName) expr()    {}
func (*Literal) expr()           {}
func (*UnaryExpr) expr()         {}
func (*BinaryExpr) expr()        {}
func (*TernaryExpr) expr()       {}
func (*ParenExpr) expr()         {}
func (*ConcatExpr) expr()        {}
func (*ReplicationExpr) expr()   {}
func (*ElementSelectExpr) expr() {}
func (*RangeSelectExpr) expr()   {}
func (*MemberAccessExpr) expr()  {}
func (*CallExpr) expr()          {}
func (*SystemCallExpr) expr()    {}
func (*AssignmentExpr) expr()    {}
func (*EventExpr) expr()         {}
func (*SequenceExpr) expr()      {}
func (*DataTypeExpr) expr()      {}

func NewIdentifierName(n Name) *IdentifierName {
	return &IdentifierName{base: newBase(KindIdentifierName, n.Span), Name: n}
}

// NewLiteral maps a literal token to its node kind.
func NewLiteral(tok token.Token) *Literal {
	k := KindIntegerLiteral
	switch tok.Kind {
	case token.BasedLit:
		k = KindBasedLiteral
	case token.UnbasedUnsizedLit:
		k = KindUnbasedUnsizedLiteral
	case token.RealLit:
		k = KindRealLiteral
	case token.TimeLit:
		k = KindTimeLiteral
	case token.StringLit:
		k = KindStringLiteral
	}
	return &Literal{base: newBase(k, tok.Span), Text: tok.Text}
}

func NewUnary(sp source.Span, op token.Kind, x Expr) *UnaryExpr {
	return &UnaryExpr{base: newBase(KindUnary, sp), Op: op, X: x}
}
func NewBinary(op token.Kind, x, y Expr) *BinaryExpr {
	return &BinaryExpr{base: newBase(KindBinary, x.Span().Cover(y.Span())), Op: op, X: x, Y: y}
}
func NewTernary(c, t, e Expr) *TernaryExpr {
	return &TernaryExpr{base: newBase(KindTernary, c.Span().Cover(e.Span())), Cond: c, Then: t, Else: e}
}
func NewParen(sp source.Span, x Expr) *ParenExpr {
	return &ParenExpr{base: newBase(KindParen, sp), X: x}
}
func NewConcat(sp source.Span, items []Expr) *ConcatExpr {
	return &ConcatExpr{base: newBase(KindConcatenation, sp), Items: items}
}
func NewReplication(sp source.Span, count Expr, items []Expr) *ReplicationExpr {
	return &ReplicationExpr{base: newBase(KindReplication, sp), Count: count, Items: items}
}
func NewElementSelect(sp source.Span, x, index Expr) *ElementSelectExpr {
	return &ElementSelectExpr{base: newBase(KindElementSelect, sp), X: x, Index: index}
}
func NewRangeSelect(sp source.Span, x Expr, op token.Kind, l, r Expr) *RangeSelectExpr {
	return &RangeSelectExpr{base: newBase(KindRangeSelect, sp), X: x, Op: op, Left: l, Right: r}
}
func NewMemberAccess(sp source.Span, x Expr, member Name) *MemberAccessExpr {
	return &MemberAccessExpr{base: newBase(KindMemberAccess, sp), X: x, Member: member}
}
func NewCall(sp source.Span, callee Name, args []Expr) *CallExpr {
	return &CallExpr{base: newBase(KindCall, sp), Callee: callee, Args: args}
}
func NewSystemCall(sp source.Span, name Name, args []Expr) *SystemCallExpr {
	return &SystemCallExpr{base: newBase(KindSystemCall, sp), Name: name, Args: args}
}
func NewAssignment(op token.Kind, lhs, rhs Expr) *AssignmentExpr {
	return &AssignmentExpr{base: newBase(KindAssignment, lhs.Span().Cover(rhs.Span())), Op: op, LHS: lhs, RHS: rhs}
}
func NewEvent(sp source.Span, edge token.Kind, x Expr) *EventExpr {
	return &EventExpr{base: newBase(KindEvent, sp), Edge: edge, X: x}
}
func NewSequence(sp source.Span, op token.Kind, x, delay, y Expr) *SequenceExpr {
	return &SequenceExpr{base: newBase(KindSequence, sp), Op: op, X: x, Delay: delay, Y: y}
}
func NewDataTypeExpr(t *DataType) *DataTypeExpr {
	return &DataTypeExpr{base: newBase(KindDataTypeExpr, t.Span()), Type: t}
}

// Unparen strips redundant parentheses.
func Unparen(e Expr) Expr {
	for {
		p, ok := e.(*ParenExpr)
		if !ok {
			return e
		}
		e = p.X
	}
}

// SimpleName returns the identifier text of a bare name expression.
func SimpleName(e Expr) (Name, bool) {
	if id, ok := Unparen(e).(*IdentifierName); ok {
		return id.Name, true
	}
	return Name{}, false
}
