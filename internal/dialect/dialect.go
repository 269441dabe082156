package dialect

import "fmt"

// Kind is a hardware language a file may resemble.
type Kind uint8

const (
	Unknown Kind = iota
	VHDL
	SystemC
	Chisel

	kindCount
)

func (k Kind) String() string {
	switch k {
	case VHDL:
		return "VHDL"
	case SystemC:
		return "SystemC"
	case Chisel:
		return "Chisel"
	default:
		return "unknown"
	}
}

func (k Kind) GoString() string {
	return fmt.Sprintf("dialect.Kind(%s)", k.String())
}
