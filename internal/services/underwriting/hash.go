package underwriting

import "unicode/utf16"

// LocationHash is the 32-bit rolling hash h = h*31 + c over the UTF-16 code
// units of location, with signed two's complement wraparound. Results may be
// negative, and callers rely on Go's truncated % keeping that sign.
func LocationHash(location string) int32 {
	var h int32
	for _, unit := range utf16.Encode([]rune(location)) {
		h = h*31 + int32(unit)
	}
	return h
}
