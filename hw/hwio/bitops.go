package hwio

// 16-bit operations
func GetBit16(v uint16, n uint) bool {
	return GetBiti16(v, n) != 0
}

func GetBiti16(v uint16, n uint) uint16 {
	return v >> (n) & 0x01
}

func SetBit16(v *uint16, n uint) {
	*v |= (1 << n)
}

// Field16 extracts the width-bit field of v starting at bit lo.
func Field16(v uint16, lo, width uint) uint16 {
	return (v >> lo) & (1<<width - 1)
}

// SetField16 stores the lower width bits of f at bit lo of v. Bits of f above
// width are dropped.
func SetField16(v *uint16, lo, width uint, f uint16) {
	mask := uint16(1<<width-1) << lo
	*v = (*v &^ mask) | ((f << lo) & mask)
}

// FitsBits reports whether n fits in an unsigned field of the given width.
func FitsBits(n uint, width uint) bool {
	return n < 1<<width
}
