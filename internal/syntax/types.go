package syntax

import (
	"svelab/internal/source"
	"svelab/internal/token"
)

// DataType is a data type reference: a built-in keyword type, a named type
// (typedef, type parameter or interface), or an implicit type made only of
// signing and packed dimensions.
type DataType struct {
	base
	Keyword token.Kind // built-in keyword, Ident for named, Invalid for implicit
	Named   Name
	Signing token.Kind // KwSigned, KwUnsigned or Invalid
	Packed  []*Dimension
}

// Implicit reports a type with no keyword and no name.
func (t *DataType) Implicit() bool {
	return t == nil || t.Keyword == token.Invalid
}

// IsNamed reports a typedef/type-parameter/interface reference.
func (t *DataType) IsNamed() bool {
	return t != nil && t.Keyword == token.Ident
}

func NewDataType(sp source.Span) *DataType {
	return &DataType{base: base{K: KindDataType, Sp: sp}}
}

// Dimension is [left:right] or the size form [n] (Right == nil).
type Dimension struct {
	Span  source.Span
	Left  Expr
	Right Expr
}

// IsSize reports the [n] form.
func (d *Dimension) IsSize() bool { return d.Right == nil }

// Declarator is one declared name with unpacked dimensions and an optional
// initializer.
type Declarator struct {
	Span source.Span
	Name Name
	Dims []*Dimension
	Init Expr
}
