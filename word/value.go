// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package word

import (
	"strings"

	"github.com/holiman/uint256"
)

// Value is an immutable width-tagged unsigned integer.
type Value struct {
	width Width
	bits  uint256.Int
}

// masks[w] holds (1 << w.Bits()) - 1.
var masks [len(widthBits)]uint256.Int

func init() {
	one := uint256.NewInt(1)
	for n, b := range widthBits {
		masks[n].Lsh(one, b)
		masks[n].Sub(&masks[n], one)
	}
}

func mask(w Width) *uint256.Int {
	if !w.Valid() {
		return &masks[WIDTH_FLAG]
	}
	return &masks[w]
}

// New returns the value of native truncated to the width.
func New(width Width, native uint64) (v Value) {
	v.width = width
	v.bits.SetUint64(native)
	v.bits.And(&v.bits, mask(width))
	return
}

// FromUint256 returns the value of x truncated to the width.
func FromUint256(width Width, x *uint256.Int) (v Value) {
	v.width = width
	v.bits.And(x, mask(width))
	return
}

// Zero returns the zero value of the width.
func Zero(width Width) Value {
	return Value{width: width}
}

// Flag returns a flag-width value, 1 for true.
func Flag(set bool) Value {
	if set {
		return New(WIDTH_FLAG, 1)
	}
	return Zero(WIDTH_FLAG)
}

// Width of the value.
func (v Value) Width() Width {
	return v.width
}

// Uint64 converts to a host native integer. Values wider than 64 bits
// yield their low 64 bits.
func (v Value) Uint64() uint64 {
	return v.bits.Uint64()
}

// Uint256 returns a copy of the value's bits.
func (v Value) Uint256() *uint256.Int {
	return v.bits.Clone()
}

// Bool is true for any non-zero value.
func (v Value) Bool() bool {
	return !v.bits.IsZero()
}

// IsZero is true if all bits are clear.
func (v Value) IsZero() bool {
	return v.bits.IsZero()
}

// Msb returns the most significant bit of the width, the sign in two's complement.
func (v Value) Msb() bool {
	bits := v.width.Bits()
	if bits == 0 {
		return false
	}
	return v.bits.BitLen() == int(bits)
}

// Equal compares width and bits.
func (v Value) Equal(o Value) bool {
	return v.width == o.width && v.bits.Eq(&o.bits)
}

// Resize truncates or zero-extends the value to a new width.
func (v Value) Resize(width Width) Value {
	return FromUint256(width, &v.bits)
}

// String prints the value as zero padded hex.
func (v Value) String() string {
	hex := strings.TrimPrefix(v.bits.Hex(), "0x")
	digits := v.width.Digits()
	if len(hex) < digits {
		hex = strings.Repeat("0", digits-len(hex)) + hex
	}
	return "0x" + hex
}

// Add returns v + o at v's width, and whether the true sum overflowed it.
func (v Value) Add(o Value) (r Value, carry bool) {
	o = o.Resize(v.width)

	var sum uint256.Int
	sum.Add(&v.bits, &o.bits)
	carry = sum.Gt(mask(v.width))
	r = FromUint256(v.width, &sum)
	return
}

// Sub returns v - o at v's width; borrow is set when v < o.
func (v Value) Sub(o Value) (r Value, borrow bool) {
	o = o.Resize(v.width)

	var diff uint256.Int
	diff.Sub(&v.bits, &o.bits)
	borrow = v.bits.Lt(&o.bits)
	r = FromUint256(v.width, &diff)
	return
}

// Mul returns the wrapped product at v's width.
func (v Value) Mul(o Value) Value {
	o = o.Resize(v.width)

	var prod uint256.Int
	prod.Mul(&v.bits, &o.bits)
	return FromUint256(v.width, &prod)
}

// Div returns the truncated quotient at v's width.
func (v Value) Div(o Value) (r Value, err error) {
	o = o.Resize(v.width)
	if o.IsZero() {
		err = ErrDivideByZero
		return
	}

	var quo uint256.Int
	quo.Div(&v.bits, &o.bits)
	r = FromUint256(v.width, &quo)
	return
}

func (v Value) And(o Value) Value {
	o = o.Resize(v.width)

	var z uint256.Int
	z.And(&v.bits, &o.bits)
	return FromUint256(v.width, &z)
}

func (v Value) Or(o Value) Value {
	o = o.Resize(v.width)

	var z uint256.Int
	z.Or(&v.bits, &o.bits)
	return FromUint256(v.width, &z)
}

func (v Value) Xor(o Value) Value {
	o = o.Resize(v.width)

	var z uint256.Int
	z.Xor(&v.bits, &o.bits)
	return FromUint256(v.width, &z)
}

func (v Value) Not() Value {
	var z uint256.Int
	z.Not(&v.bits)
	return FromUint256(v.width, &z)
}

// shiftCount masks a shift amount to the width, as host wrapping shifts do.
func (v Value) shiftCount(count Value) uint {
	bits := uint64(v.width.Bits())
	if bits == 0 {
		return 0
	}
	return uint(count.Uint64() % bits)
}

// Shl shifts left by count modulo the width.
func (v Value) Shl(count Value) Value {
	var z uint256.Int
	z.Lsh(&v.bits, v.shiftCount(count))
	return FromUint256(v.width, &z)
}

// Shr shifts right by count modulo the width.
func (v Value) Shr(count Value) Value {
	var z uint256.Int
	z.Rsh(&v.bits, v.shiftCount(count))
	return FromUint256(v.width, &z)
}

// AddOverflow reports signed overflow of r = a + b.
func AddOverflow(a, b, r Value) bool {
	b = b.Resize(a.width)
	return a.Msb() == b.Msb() && r.Msb() != a.Msb()
}

// SubOverflow reports signed overflow of r = a - b.
func SubOverflow(a, b, r Value) bool {
	b = b.Resize(a.width)
	return a.Msb() != b.Msb() && r.Msb() != a.Msb()
}
