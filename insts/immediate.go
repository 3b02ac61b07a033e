package insts

// Sign-extension masks for the immediate widths used by E20.
const (
	signExtend7Mask  uint16 = 0xFF80 // bits [15:7]
	signExtend13Mask uint16 = 0xE000 // bits [15:13]
)

// fieldMask returns the mask for a field of the given width.
func fieldMask(width uint) uint16 {
	return uint16(1)<<width - 1
}

// SignExtend widens a field of the given width to a 16-bit word, copying the
// field's top bit into the upper bits.
func SignExtend(field uint16, width uint) uint16 {
	field &= fieldMask(width)
	if field&(1<<(width-1)) == 0 {
		return field
	}

	switch width {
	case 7:
		return field | signExtend7Mask
	case 13:
		return field | signExtend13Mask
	default:
		return field | ^fieldMask(width)
	}
}

// SignedValue returns the two's-complement value of a field of the given
// width as a host integer. Negative fields are sign-extended, inverted,
// incremented and negated.
func SignedValue(field uint16, width uint) int {
	field &= fieldMask(width)
	if field&(1<<(width-1)) == 0 {
		return int(field)
	}

	magnitude := int(SignExtend(field, width)^0xFFFF) + 1
	return -magnitude
}

// SignExtend7 sign-extends a 7-bit immediate to a 16-bit word.
func SignExtend7(field uint16) uint16 {
	return SignExtend(field, 7)
}

// SignExtend13 sign-extends a 13-bit immediate to a 16-bit word.
func SignExtend13(field uint16) uint16 {
	return SignExtend(field, 13)
}

// ZeroExtend7 returns the raw 7-bit field. slti compares against this value.
func ZeroExtend7(field uint16) uint16 {
	return field & Imm7Mask
}

// FitsSigned reports whether v is representable in a signed field of the
// given width.
func FitsSigned(v int, width uint) bool {
	limit := 1 << (width - 1)
	return v >= -limit && v < limit
}

// FitsUnsigned reports whether v is representable in an unsigned field of the
// given width.
func FitsUnsigned(v int, width uint) bool {
	return v >= 0 && v < 1<<width
}
