package consteval

import (
	"math"
	"math/big"
	"strconv"

	"github.com/zclconf/go-cty/cty"

	"svelab/internal/types"
)

// Const is a folded constant: a cty value plus the SystemVerilog type it
// carries. Integral values are cty numbers holding whole numbers; during
// evaluation they may exceed their type's width, and Convert truncates them.
// An unknown cty value is poison.
type Const struct {
	Val  cty.Value
	Type types.TypeID
	// Fill marks an unbased unsized literal ('0, '1): conversion replicates
	// the bit across the whole target width.
	Fill bool
}

// Poison returns the error value of the given type.
func Poison(t types.TypeID) Const {
	return Const{Val: cty.DynamicVal, Type: t}
}

// IsPoison reports values that failed to evaluate.
func (c Const) IsPoison() bool {
	return !c.Val.IsKnown() || c.Val.IsNull()
}

// IntConst builds an integral constant.
func IntConst(v *big.Int, t types.TypeID) Const {
	return Const{Val: cty.NumberVal(new(big.Float).SetInt(v)), Type: t}
}

// RealConst builds a real constant.
func RealConst(f float64, t types.TypeID) Const {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Poison(t)
	}
	return Const{Val: cty.NumberFloatVal(f), Type: t}
}

// StringConst builds a string constant.
func StringConst(s string, t types.TypeID) Const {
	return Const{Val: cty.StringVal(s), Type: t}
}

// BigInt returns the integer value of a numeric constant; reals round
// toward zero.
func (c Const) BigInt() (*big.Int, bool) {
	if c.IsPoison() || c.Val.Type() != cty.Number {
		return nil, false
	}
	i, _ := c.Val.AsBigFloat().Int(nil)
	return i, true
}

// Int64 returns the value as int64 when it fits.
func (c Const) Int64() (int64, bool) {
	i, ok := c.BigInt()
	if !ok || !i.IsInt64() {
		return 0, false
	}
	return i.Int64(), true
}

// Float returns the numeric value as float64.
func (c Const) Float() (float64, bool) {
	if c.IsPoison() || c.Val.Type() != cty.Number {
		return 0, false
	}
	f, _ := c.Val.AsBigFloat().Float64()
	return f, true
}

// Str returns the payload of a string constant.
func (c Const) Str() (string, bool) {
	if c.IsPoison() || c.Val.Type() != cty.String {
		return "", false
	}
	return c.Val.AsString(), true
}

// IsTrue reports a non-zero numeric or non-empty string value.
func (c Const) IsTrue() bool {
	if s, ok := c.Str(); ok {
		return s != ""
	}
	f, ok := c.Float()
	return ok && f != 0
}

// Text renders the value without its type: 42, 1.5, "abc" or <error>.
func (c Const) Text() string {
	if c.IsPoison() {
		return "<error>"
	}
	switch c.Val.Type() {
	case cty.String:
		return strconv.Quote(c.Val.AsString())
	case cty.Number:
		bf := c.Val.AsBigFloat()
		if bf.IsInt() {
			i, _ := bf.Int(nil)
			return i.String()
		}
		f, _ := bf.Float64()
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return c.Val.GoString()
}

// Key is the identity of a value inside one compilation: two constants
// with the same key are interchangeable as parameter values.
func (c Const) Key() string {
	return strconv.FormatUint(uint64(c.Type), 10) + ":" + c.Text()
}

// Native converts the value into a plain Go value for serializers:
// int64 (or a decimal string when it does not fit), float64, string, or
// nil for poison.
func (c Const) Native() any {
	if c.IsPoison() {
		return nil
	}
	if s, ok := c.Str(); ok {
		return s
	}
	bf := c.Val.AsBigFloat()
	if bf.IsInt() {
		i, _ := bf.Int(nil)
		if i.IsInt64() {
			return i.Int64()
		}
		return i.String()
	}
	f, _ := bf.Float64()
	return f
}
