package syntax

import (
	"svelab/internal/source"
	"svelab/internal/token"
)

type CompilationUnit struct {
	base
	File    source.FileID
	Members []Member
}

// ModuleDeclaration covers module, macromodule, interface and program.
type ModuleDeclaration struct {
	base
	Attrs      []*Attribute
	Keyword    token.Kind
	Lifetime   token.Kind // KwAutomatic, KwStatic or Invalid
	Name       Name
	ParamPorts *ParameterPortList // nil without #( )
	Ports      *PortList          // nil without ( )
	Members    []Member
	Directives DirectiveState
}

// ParameterPortList is the #( ... ) header. Decls holds *ParameterDeclaration
// and *TypeParameterDeclaration in source order.
type ParameterPortList struct {
	Span  source.Span
	Decls []Member
}

// PortList is the ( ... ) header: ANSI declarations or bare non-ANSI names.
type PortList struct {
	Span    source.Span
	Ansi    bool
	Ports   []*PortDeclaration // ANSI
	NonAnsi []Name
}

// ParameterDeclaration declares value parameters. Keyword is Invalid for a
// header entry written without parameter/localparam.
type ParameterDeclaration struct {
	base
	Keyword     token.Kind
	Type        *DataType // nil means implicitly typed
	Declarators []*Declarator
}

// IsLocal reports localparam.
func (d *ParameterDeclaration) IsLocal() bool { return d.Keyword == token.KwLocalparam }

type TypeParameterDeclaration struct {
	base
	Keyword     token.Kind
	Assignments []*TypeAssignment
}

func (d *TypeParameterDeclaration) IsLocal() bool { return d.Keyword == token.KwLocalparam }

type TypeAssignment struct {
	Span    source.Span
	Name    Name
	Default *DataType // nil when absent
}

// PortDeclaration is an ANSI header port or a non-ANSI body declaration.
// Interface ports have no direction and a named type; Modport is set for
// the I.mp form.
type PortDeclaration struct {
	base
	Attrs       []*Attribute
	Direction   token.Kind // Invalid when omitted
	NetType     token.Kind // wire/tri/... or Invalid
	Var         bool
	Type        *DataType
	Modport     Name
	Declarators []*Declarator
}

// HierarchyInstantiation is "Type #(params) name [dims] (conns), ...;".
type HierarchyInstantiation struct {
	base
	Attrs     []*Attribute
	Type      Name
	Params    *ParamAssignments // nil without #( )
	Instances []*HierarchicalInstance
}

// ParamAssignments is #( ... ) on an instantiation; one of Ordered/Named is used.
type ParamAssignments struct {
	Span    source.Span
	Ordered []*ParamValue
	Named   []*NamedParam
}

// ParamValue is an expression or, for type parameters, a data type.
type ParamValue struct {
	Span source.Span
	Expr Expr
	Type *DataType
}

type NamedParam struct {
	Span  source.Span
	Name  Name
	Value *ParamValue // nil for .P()
}

type HierarchicalInstance struct {
	Span      source.Span
	Name      Name // empty for unnamed primitive instances
	Dims      []*Dimension
	Conns     []*PortConnection
	ConnsSpan source.Span
}

type ConnKind uint8

const (
	ConnOrdered ConnKind = iota
	ConnNamed
	ConnWildcard
)

// PortConnection is one entry of an instance's connection list.
type PortConnection struct {
	Span      source.Span
	Kind      ConnKind
	Attrs     []*Attribute
	Name      Name // ConnNamed
	Expr      Expr // nil when empty
	HasParens bool // .p(...) as opposed to the .p shorthand
}

// PrimitiveInstantiation is a built-in gate instantiation.
type PrimitiveInstantiation struct {
	base
	Attrs     []*Attribute
	Gate      Name
	Delay     *Delay
	Instances []*HierarchicalInstance
	Params    *ParamAssignments // only set when #(...) carried named entries
}

type Delay struct {
	Span   source.Span
	Values []Expr
}

// DataDeclaration declares variables. A named Type may turn out to be a
// module; the elaborator then treats it as an instantiation.
type DataDeclaration struct {
	base
	Attrs          []*Attribute
	Var            bool
	Const          bool
	Lifetime       token.Kind
	Virtual        bool
	VirtualParams  *ParamAssignments
	VirtualModport Name
	Type           *DataType
	Declarators    []*Declarator
}

type NetDeclaration struct {
	base
	NetType     token.Kind
	Type        *DataType
	Declarators []*Declarator
}

type ModportDeclaration struct {
	base
	Items []*ModportItem
}

type ModportItem struct {
	Span  source.Span
	Name  Name
	Ports []*ModportPort
}

type ModportPort struct {
	Direction token.Kind
	Name      Name
}

// BindDirective is "bind Target <instantiation>".
type BindDirective struct {
	base
	Target        Name
	Instantiation *HierarchyInstantiation
}

type ContinuousAssign struct {
	base
	Assignments []*AssignmentExpr
}

type FunctionArg struct {
	Span      source.Span
	Direction token.Kind
	Type      *DataType
	Name      Name
	Default   Expr
}

type FunctionDeclaration struct {
	base
	Lifetime   token.Kind
	ReturnType *DataType // nil for void
	Name       Name
	Args       []*FunctionArg
	Body       []Stmt
}

type TaskDeclaration struct {
	base
	Lifetime token.Kind
	Name     Name
	Args     []*FunctionArg
	Body     []Stmt
}

type TypedefDeclaration struct {
	base
	Type *DataType
	Name Name
	Dims []*Dimension
}

// Defparam is "defparam a.b.P = expr, ...;".
type Defparam struct {
	base
	Assignments []*DefparamAssignment
}

type DefparamAssignment struct {
	Span  source.Span
	Path  []PathSegment
	Value Expr
}

// PathSegment is one step of a hierarchical path, optionally indexed.
type PathSegment struct {
	Name    Name
	Indices []Expr
}

// ProceduralBlock is an always/initial/final block. Its body is kept as a
// source span only; elaboration does not look inside.
type ProceduralBlock struct {
	base
	Keyword string
}

// GenerateRegion is generate ... endgenerate; members are elaborated as if
// written directly in the enclosing body.
type GenerateRegion struct {
	base
	Members []Member
}

// EmptyMember is a stray ';'.
type EmptyMember struct{ base }

func (*CompilationUnit) member()          {}
func (*ModuleDeclaration) member()        {}
func (*ParameterDeclaration) member()     {}
func (*TypeParameterDeclaration) member() {}
func (*PortDeclaration) member()          {}
func (*HierarchyInstantiation) member()   {}
func (*PrimitiveInstantiation) member()   {}
func (*DataDeclaration) member()          {}
func (*NetDeclaration) member()           {}
func (*ModportDeclaration) member()       {}
func (*BindDirective) member()            {}
func (*ContinuousAssign) member()         {}
func (*FunctionDeclaration) member()      {}
func (*TaskDeclaration) member()          {}
func (*TypedefDeclaration) member()       {}
func (*Defparam) member()                 {}
func (*ProceduralBlock) member()          {}
func (*GenerateRegion) member()           {}
func (*EmptyMember) member()              {}

// NewNode helpers keep the tag and span set together.

func newBase(k Kind, sp source.Span) base { return base{K: k, Sp: sp} }

func NewCompilationUnit(sp source.Span, file source.FileID) *CompilationUnit {
	return &CompilationUnit{base: newBase(KindCompilationUnit, sp), File: file}
}
func NewModuleDeclaration(sp source.Span) *ModuleDeclaration {
	return &ModuleDeclaration{base: newBase(KindModuleDeclaration, sp)}
}
func NewParameterDeclaration(sp source.Span) *ParameterDeclaration {
	return &ParameterDeclaration{base: newBase(KindParameterDeclaration, sp)}
}
func NewTypeParameterDeclaration(sp source.Span) *TypeParameterDeclaration {
	return &TypeParameterDeclaration{base: newBase(KindTypeParameterDeclaration, sp)}
}
func NewPortDeclaration(sp source.Span) *PortDeclaration {
	return &PortDeclaration{base: newBase(KindPortDeclaration, sp)}
}
func NewHierarchyInstantiation(sp source.Span) *HierarchyInstantiation {
	return &HierarchyInstantiation{base: newBase(KindHierarchyInstantiation, sp)}
}
func NewPrimitiveInstantiation(sp source.Span) *PrimitiveInstantiation {
	return &PrimitiveInstantiation{base: newBase(KindPrimitiveInstantiation, sp)}
}
func NewDataDeclaration(sp source.Span) *DataDeclaration {
	return &DataDeclaration{base: newBase(KindDataDeclaration, sp)}
}
func NewNetDeclaration(sp source.Span) *NetDeclaration {
	return &NetDeclaration{base: newBase(KindNetDeclaration, sp)}
}
func NewModportDeclaration(sp source.Span) *ModportDeclaration {
	return &ModportDeclaration{base: newBase(KindModportDeclaration, sp)}
}
func NewBindDirective(sp source.Span) *BindDirective {
	return &BindDirective{base: newBase(KindBindDirective, sp)}
}
func NewContinuousAssign(sp source.Span) *ContinuousAssign {
	return &ContinuousAssign{base: newBase(KindContinuousAssign, sp)}
}
func NewFunctionDeclaration(sp source.Span) *FunctionDeclaration {
	return &FunctionDeclaration{base: newBase(KindFunctionDeclaration, sp)}
}
func NewTaskDeclaration(sp source.Span) *TaskDeclaration {
	return &TaskDeclaration{base: newBase(KindTaskDeclaration, sp)}
}
func NewTypedefDeclaration(sp source.Span) *TypedefDeclaration {
	return &TypedefDeclaration{base: newBase(KindTypedefDeclaration, sp)}
}
func NewDefparam(sp source.Span) *Defparam {
	return &Defparam{base: newBase(KindDefparam, sp)}
}
func NewProceduralBlock(sp source.Span, keyword string) *ProceduralBlock {
	return &ProceduralBlock{base: newBase(KindProceduralBlock, sp), Keyword: keyword}
}
func NewGenerateRegion(sp source.Span) *GenerateRegion {
	return &GenerateRegion{base: newBase(KindGenerateRegion, sp)}
}
func NewEmptyMember(sp source.Span) *EmptyMember {
	return &EmptyMember{base: newBase(KindEmptyMember, sp)}
}

// SetSpan updates the span once the parser knows where a node ends.
func (b *base) SetSpan(sp source.Span) { b.Sp = sp }
