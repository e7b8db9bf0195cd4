// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package word

// Width is the bit width tag carried by every Value.
type Width int

//go:generate go tool stringer -linecomment -type=Width
const (
	WIDTH_FLAG = Width(0) // flag
	WIDTH_8    = Width(1) // u8
	WIDTH_16   = Width(2) // u16
	WIDTH_32   = Width(3) // u32
	WIDTH_64   = Width(4) // u64
	WIDTH_128  = Width(5) // u128
)

var widthBits = [...]uint{1, 8, 16, 32, 64, 128}

// Bits returns the number of bits in the width.
func (w Width) Bits() uint {
	if w < WIDTH_FLAG || w > WIDTH_128 {
		return 0
	}
	return widthBits[w]
}

// Digits returns the number of hex digits needed to print the width.
func (w Width) Digits() int {
	return int(w.Bits()+3) / 4
}

// Half returns the width of one half of w, if it has one.
func (w Width) Half() (half Width, ok bool) {
	if w <= WIDTH_8 || w > WIDTH_128 {
		return
	}

	half = w - 1
	ok = true
	return
}

// Valid is true if w is one of the defined widths.
func (w Width) Valid() bool {
	return w >= WIDTH_FLAG && w <= WIDTH_128
}

// ParseWidth maps a bit count (1, 8, 16, 32, 64 or 128) to its Width.
func ParseWidth(bits int) (w Width, err error) {
	for n, b := range widthBits {
		if uint(bits) == b && bits > 0 {
			w = Width(n)
			return
		}
	}

	err = ErrWidthInvalid(bits)
	return
}
