package stream

import (
	"fmt"
	"math"
)

// Kind identifies the sample representation of a stream.
type Kind uint8

const (
	Float64 Kind = iota
	Int8
	Int16
	Int32
	Uint8
	Uint16
	Uint32
)

type kindInfo struct {
	name   string
	bits   int
	signed bool
	float  bool
}

var kindTable = [...]kindInfo{
	Float64: {name: "float64", bits: 64, signed: true, float: true},
	Int8:    {name: "int8", bits: 8, signed: true},
	Int16:   {name: "int16", bits: 16, signed: true},
	Int32:   {name: "int32", bits: 32, signed: true},
	Uint8:   {name: "uint8", bits: 8},
	Uint16:  {name: "uint16", bits: 16},
	Uint32:  {name: "uint32", bits: 32},
}

// Kinds returns all supported kinds in declaration order.
func Kinds() []Kind {
	return []Kind{Float64, Int8, Int16, Int32, Uint8, Uint16, Uint32}
}

// ParseKind resolves a kind by name.
func ParseKind(name string) (Kind, error) {
	for k, info := range kindTable {
		if info.name == name {
			return Kind(k), nil
		}
	}

	return 0, fmt.Errorf("%w: unknown kind %q", ErrInvalidConfig, name)
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return int(k) < len(kindTable)
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}

	return kindTable[k].name
}

// Bits returns the sample width in bits.
func (k Kind) Bits() int { return kindTable[k].bits }

// IsFloat reports whether samples are stored without quantization.
func (k Kind) IsFloat() bool { return kindTable[k].float }

// IsSigned reports whether the kind represents negative values.
func (k Kind) IsSigned() bool { return kindTable[k].signed }

// FullScale is the positive full-scale magnitude: 1.0 for float,
// 2^(bits-1) for signed and 2^bits for unsigned integer kinds.
func (k Kind) FullScale() float64 {
	info := kindTable[k]

	switch {
	case info.float:
		return 1
	case info.signed:
		return math.Ldexp(1, info.bits-1)
	default:
		return math.Ldexp(1, info.bits)
	}
}

// Extents is the total representable span used for display scaling.
func (k Kind) Extents() float64 {
	if !k.IsSigned() {
		return k.FullScale()
	}

	return 2 * k.FullScale()
}

// Cast converts v into the kind's value set. Integer kinds truncate toward
// zero and wrap around modulo 2^bits; non-finite values become zero.
func (k Kind) Cast(v float64) float64 {
	info := kindTable[k]
	if info.float {
		return v
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}

	span := math.Ldexp(1, info.bits)

	r := math.Mod(math.Trunc(v), span)
	if r < 0 {
		r += span
	}

	if info.signed && r >= span/2 {
		r -= span
	}

	return r
}

// CastSlice casts every element of src into dst.
func (k Kind) CastSlice(dst, src []float64) {
	if k.IsFloat() {
		copy(dst, src)
		return
	}

	for i, v := range src {
		dst[i] = k.Cast(v)
	}
}

// Div divides a by b. Float kinds divide exactly, integer kinds truncate
// the quotient toward zero.
func (k Kind) Div(a, b float64) float64 {
	q := a / b
	if k.IsFloat() {
		return q
	}

	return math.Trunc(q)
}
