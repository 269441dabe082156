package consteval

import (
	"svelab/internal/source"
	"svelab/internal/syntax"
	"svelab/internal/types"
)

// NameKind classifies what an identifier resolves to.
type NameKind uint8

const (
	NameValue    NameKind = iota // parameter or localparam
	NameType                     // type parameter or typedef
	NameVariable                 // script variable; not constant in elaboration
	NameFunction
	NameScope // instance: prefix of a hierarchical reference
)

// Name is the result of resolving one identifier.
type Name struct {
	Kind  NameKind
	Value Const
	Type  types.TypeID
	Func  *syntax.FunctionDeclaration
	// Scope is the instance scope for NameScope, and the declaring scope of
	// a function for NameFunction.
	Scope Resolver
	Span  source.Span
}

// Resolver looks names up in the scope an expression is evaluated in.
type Resolver interface {
	Resolve(name string) (Name, bool)
}

// MapScope is a flat Resolver backed by a map, chained to an outer scope.
type MapScope struct {
	Names map[string]Name
	Outer Resolver
}

func NewMapScope(outer Resolver) *MapScope {
	return &MapScope{Names: make(map[string]Name), Outer: outer}
}

func (s *MapScope) Resolve(name string) (Name, bool) {
	if n, ok := s.Names[name]; ok {
		return n, true
	}
	if s.Outer != nil {
		return s.Outer.Resolve(name)
	}
	return Name{}, false
}

// Set binds name, replacing an earlier binding.
func (s *MapScope) Set(name string, n Name) {
	s.Names[name] = n
}

// Variable is mutable storage for function locals and script variables.
type Variable struct {
	Name  string
	Type  types.TypeID
	Value Const
}

// Frame is one level of variable storage. Frames chain to their parent;
// lookups walk outwards.
type Frame struct {
	vars   map[string]*Variable
	order  []*Variable
	parent *Frame
}

func NewFrame(parent *Frame) *Frame {
	return &Frame{vars: make(map[string]*Variable), parent: parent}
}

// Declare adds (or redeclares) a variable in this frame.
func (f *Frame) Declare(name string, t types.TypeID, v Const) *Variable {
	if old, ok := f.vars[name]; ok {
		old.Type = t
		old.Value = v
		return old
	}
	nv := &Variable{Name: name, Type: t, Value: v}
	f.vars[name] = nv
	f.order = append(f.order, nv)
	return nv
}

// Lookup finds a variable in this frame or an enclosing one.
func (f *Frame) Lookup(name string) (*Variable, bool) {
	for fr := f; fr != nil; fr = fr.parent {
		if v, ok := fr.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Variables lists this frame's variables in declaration order.
func (f *Frame) Variables() []*Variable {
	return f.order
}
