package syntax

import (
	"svelab/internal/source"
	"svelab/internal/token"
)

// Node is implemented by every syntax node.
type Node interface {
	Kind() Kind
	Span() source.Span
}

// Member is anything that can appear in a compilation unit or a design
// unit body.
type Member interface {
	Node
	member()
}

// Expr is an expression node.
type Expr interface {
	Node
	expr()
}

// Stmt is a procedural statement.
type Stmt interface {
	Node
	stmt()
}

type base struct {
	K  Kind
	Sp source.Span
}

func (b *base) Kind() Kind        { return b.K }
func (b *base) Span() source.Span { return b.Sp }

// Name is one identifier occurrence.
type Name struct {
	Text string
	Span source.Span
}

func (n Name) Valid() bool { return n.Text != "" }

// Attribute is one entry of a (* name = value *) instance.
type Attribute struct {
	Name  Name
	Value Expr // nil for a bare name
}

// DirectiveState is the directive context in effect where a design unit
// was declared.
type DirectiveState struct {
	DefaultNetType   token.Kind // KwWire unless changed; Invalid means "none"
	UnconnectedDrive string     // "", "pull0" or "pull1"
	TimeScale        string     // raw payload, e.g. "1ns/1ps"
	CellDefine       bool
}

// DefaultDirectives is the state at the start of every compilation.
func DefaultDirectives() DirectiveState {
	return DirectiveState{DefaultNetType: token.KwWire}
}
