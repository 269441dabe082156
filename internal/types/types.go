package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindError        // тип ядовитого значения
	KindIntegral
	KindReal
	KindString
	KindVoid
	KindUnpackedArray
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindError:
		return "error"
	case KindIntegral:
		return "integral"
	case KindReal:
		return "real"
	case KindString:
		return "string"
	case KindVoid:
		return "void"
	case KindUnpackedArray:
		return "unpacked array"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Flavor distinguishes integral types that share a shape but print and
// match differently: "int" is not "bit signed [31:0]".
type Flavor uint8

const (
	FlavorNone Flavor = iota
	FlavorLogic // logic, reg, implicit
	FlavorBit
	FlavorByte
	FlavorShortint
	FlavorInt
	FlavorLongint
	FlavorInteger
	FlavorTime
)

var flavorNames = [...]string{
	FlavorNone:     "",
	FlavorLogic:    "logic",
	FlavorBit:      "bit",
	FlavorByte:     "byte",
	FlavorShortint: "shortint",
	FlavorInt:      "int",
	FlavorLongint:  "longint",
	FlavorInteger:  "integer",
	FlavorTime:     "time",
}

func (f Flavor) String() string {
	if int(f) < len(flavorNames) {
		return flavorNames[f]
	}
	return fmt.Sprintf("Flavor(%d)", f)
}

// FourState reports 4-state flavors.
func (f Flavor) FourState() bool {
	return f == FlavorLogic || f == FlavorInteger || f == FlavorTime
}

// Vector reports flavors that accept packed dimensions.
func (f Flavor) Vector() bool {
	return f == FlavorLogic || f == FlavorBit
}

// Type is a compact descriptor for any supported type. It is comparable and
// serves as its own interning key.
type Type struct {
	Kind   Kind
	Flavor Flavor
	Signed bool
	Ranged bool  // packed [Left:Right] present (vector flavors only)
	Left   int32 // packed range for integrals, unpacked range for arrays
	Right  int32
	Elem   TypeID // unpacked arrays
}

// Width returns the packed width of an integral descriptor.
func (t Type) Width() uint32 {
	switch t.Flavor {
	case FlavorByte:
		return 8
	case FlavorShortint:
		return 16
	case FlavorInt, FlavorInteger:
		return 32
	case FlavorLongint, FlavorTime:
		return 64
	}
	if !t.Ranged {
		return 1
	}
	return rangeLen(t.Left, t.Right)
}

// Len returns the element count of an unpacked array descriptor.
func (t Type) Len() uint32 {
	return rangeLen(t.Left, t.Right)
}

func rangeLen(l, r int32) uint32 {
	d := int64(l) - int64(r)
	if d < 0 {
		d = -d
	}
	return uint32(d + 1)
}

// IsIntegral reports integral (bit-vector) types.
func (t Type) IsIntegral() bool { return t.Kind == KindIntegral }

// Descriptor helpers ---------------------------------------------------------

// MakeVector describes logic/bit, optionally with a packed range.
func MakeVector(f Flavor, signed bool, left, right int32) Type {
	return Type{Kind: KindIntegral, Flavor: f, Signed: signed, Ranged: true, Left: left, Right: right}
}

// MakeAtom describes an unranged integral type: scalar logic/bit or a
// predefined integer type (int, byte, ...).
func MakeAtom(f Flavor, signed bool) Type {
	return Type{Kind: KindIntegral, Flavor: f, Signed: signed}
}

// DefaultSigned reports the signedness a predefined integer type has when
// no signing keyword is written.
func DefaultSigned(f Flavor) bool {
	switch f {
	case FlavorByte, FlavorShortint, FlavorInt, FlavorLongint, FlavorInteger:
		return true
	}
	return false
}

// MakeUnpackedArray describes elem [left:right].
func MakeUnpackedArray(elem TypeID, left, right int32) Type {
	return Type{Kind: KindUnpackedArray, Elem: elem, Left: left, Right: right}
}
