package editor

import "unicode/utf16"

// Browsers report textarea selections in UTF-16 code units, Format works in
// runes. An offset inside a surrogate pair rounds up to the next rune.

// RuneOffset converts a UTF-16 offset into text to a rune offset.
func RuneOffset(text string, units int) int {
	n, i := 0, 0
	for _, r := range text {
		if n >= units {
			return i
		}
		n += utf16.RuneLen(r)
		i++
	}
	return i
}

// UTF16Offset converts a rune offset into text to UTF-16 code units.
func UTF16Offset(text string, runes int) int {
	n, i := 0, 0
	for _, r := range text {
		if i >= runes {
			break
		}
		n += utf16.RuneLen(r)
		i++
	}
	return n
}
