// Package elab turns design-unit declarations into an elaborated instance
// hierarchy: parameters are resolved per instantiation site, bodies with
// equal parameterizations are shared, and ports, members and connections
// are built lazily on first access.
package elab

import (
	"fmt"

	"fortio.org/safecast"

	"svelab/internal/source"
)

// SymbolID identifies a symbol in the compilation arena. Zero is invalid.
type SymbolID uint32

// NoSymbolID marks an absent symbol.
const NoSymbolID SymbolID = 0

func (id SymbolID) IsValid() bool { return id != NoSymbolID }

// SymbolKind classifies elaborated symbols.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolInstance
	SymbolInstanceArray
	SymbolInstanceBody
	SymbolUnknownModule
	SymbolPrimitiveInstance
	SymbolParameter
	SymbolPort
	SymbolNet
	SymbolVariable
	SymbolTypedef
	SymbolSubroutine
	SymbolModport
)

var symbolKindNames = [...]string{
	SymbolInvalid:           "invalid",
	SymbolInstance:          "instance",
	SymbolInstanceArray:     "instance-array",
	SymbolInstanceBody:      "instance-body",
	SymbolUnknownModule:     "unknown-module",
	SymbolPrimitiveInstance: "primitive-instance",
	SymbolParameter:         "parameter",
	SymbolPort:              "port",
	SymbolNet:               "net",
	SymbolVariable:          "variable",
	SymbolTypedef:           "typedef",
	SymbolSubroutine:        "subroutine",
	SymbolModport:           "modport",
}

func (k SymbolKind) String() string {
	if int(k) < len(symbolKindNames) {
		return symbolKindNames[k]
	}
	return "unknown"
}

// Symbol is implemented by every elaborated symbol.
type Symbol interface {
	ID() SymbolID
	Kind() SymbolKind
	Name() string
	Span() source.Span
}

type symbolBase struct {
	id   SymbolID
	kind SymbolKind
	name string
	span source.Span
}

func (s *symbolBase) ID() SymbolID      { return s.id }
func (s *symbolBase) Kind() SymbolKind  { return s.kind }
func (s *symbolBase) Name() string      { return s.name }
func (s *symbolBase) Span() source.Span { return s.span }

func (s *symbolBase) base() *symbolBase { return s }

type arenaSymbol interface {
	Symbol
	base() *symbolBase
}

// Arena owns every symbol of one compilation. Symbols are allocated once
// and never freed individually.
type Arena struct {
	data []Symbol
}

// NewArena creates an arena with optional capacity hint.
func NewArena(capacity uint32) *Arena {
	if capacity == 0 {
		capacity = 256
	}
	return &Arena{
		data: make([]Symbol, 1, capacity+1), // index 0 reserved for NoSymbolID
	}
}

func (a *Arena) add(s arenaSymbol) {
	value, err := safecast.Conv[uint32](len(a.data))
	if err != nil {
		panic(fmt.Errorf("symbol arena overflow: %w", err))
	}
	s.base().id = SymbolID(value)
	a.data = append(a.data, s)
}

// Get returns the symbol or nil if ID is invalid.
func (a *Arena) Get(id SymbolID) Symbol {
	if !id.IsValid() || int(id) >= len(a.data) {
		return nil
	}
	return a.data[id]
}

// Len reports total number of symbols excluding the sentinel.
func (a *Arena) Len() int { return len(a.data) - 1 }

// Data exposes the underlying slice without the sentinel.
func (a *Arena) Data() []Symbol {
	if len(a.data) <= 1 {
		return nil
	}
	return a.data[1:]
}
