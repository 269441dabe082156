package types

import (
	"fmt"
	"strconv"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs for common types.
type Builtins struct {
	Invalid  TypeID
	Error    TypeID
	Logic    TypeID
	Bit      TypeID
	Byte     TypeID
	Shortint TypeID
	Int      TypeID
	Longint  TypeID
	Integer  TypeID
	Time     TypeID
	Real     TypeID
	String   TypeID
	Void     TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors. Two
// types are equal iff their TypeIDs are equal.
type Interner struct {
	types    []Type
	index    map[Type]TypeID
	builtins Builtins
}

// NewInterner constructs an interner seeded with built-in types.
func NewInterner() *Interner {
	in := &Interner{
		index: make(map[Type]TypeID, 64),
	}
	in.builtins.Invalid = in.internRaw(Type{Kind: KindInvalid})
	in.builtins.Error = in.Intern(Type{Kind: KindError})
	in.builtins.Logic = in.Intern(MakeAtom(FlavorLogic, false))
	in.builtins.Bit = in.Intern(MakeAtom(FlavorBit, false))
	in.builtins.Byte = in.Intern(MakeAtom(FlavorByte, true))
	in.builtins.Shortint = in.Intern(MakeAtom(FlavorShortint, true))
	in.builtins.Int = in.Intern(MakeAtom(FlavorInt, true))
	in.builtins.Longint = in.Intern(MakeAtom(FlavorLongint, true))
	in.builtins.Integer = in.Intern(MakeAtom(FlavorInteger, true))
	in.builtins.Time = in.Intern(MakeAtom(FlavorTime, false))
	in.builtins.Real = in.Intern(Type{Kind: KindReal})
	in.builtins.String = in.Intern(Type{Kind: KindString})
	in.builtins.Void = in.Intern(Type{Kind: KindVoid})
	return in
}

// Builtins returns TypeIDs for built-in types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	if id, ok := in.index[t]; ok {
		return id
	}
	return in.internRaw(t)
}

// internRaw adds the descriptor to the storage without consulting the map.
func (in *Interner) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	in.index[t] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// IsError reports the poison type (and the absent type).
func (in *Interner) IsError(id TypeID) bool {
	t, ok := in.Lookup(id)
	return !ok || t.Kind == KindError
}

// IsIntegral reports integral types.
func (in *Interner) IsIntegral(id TypeID) bool {
	t, ok := in.Lookup(id)
	return ok && t.Kind == KindIntegral
}

// BitWidth returns the number of bits of a type, as $bits does. Strings and
// error types have no fixed width and report 0.
func (in *Interner) BitWidth(id TypeID) uint64 {
	t, ok := in.Lookup(id)
	if !ok {
		return 0
	}
	switch t.Kind {
	case KindIntegral:
		return uint64(t.Width())
	case KindReal:
		return 64
	case KindUnpackedArray:
		return in.BitWidth(t.Elem) * uint64(t.Len())
	}
	return 0
}

// Format renders a type the way it would be written in source.
func (in *Interner) Format(id TypeID) string {
	t, ok := in.Lookup(id)
	if !ok {
		return "<invalid>"
	}
	switch t.Kind {
	case KindError:
		return "<error>"
	case KindReal:
		return "real"
	case KindString:
		return "string"
	case KindVoid:
		return "void"
	case KindUnpackedArray:
		return in.Format(t.Elem) + "$" + formatRange(t.Left, t.Right)
	case KindIntegral:
		s := t.Flavor.String()
		if t.Signed != DefaultSigned(t.Flavor) {
			if t.Signed {
				s += " signed"
			} else {
				s += " unsigned"
			}
		}
		if t.Ranged {
			s += " " + formatRange(t.Left, t.Right)
		}
		return s
	}
	return t.Kind.String()
}

func formatRange(l, r int32) string {
	return "[" + strconv.Itoa(int(l)) + ":" + strconv.Itoa(int(r)) + "]"
}
