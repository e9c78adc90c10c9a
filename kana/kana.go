// Package kana holds the script helpers used to attach readings to Japanese
// segments.
package kana

// IsKanji reports whether r is in the CJK Unified Ideographs block.
func IsKanji(r rune) bool {
	return r >= 0x4E00 && r <= 0x9FFF
}

func HasKanji(s string) bool {
	for _, r := range s {
		if IsKanji(r) {
			return true
		}
	}
	return false
}

// ToHiragana converts katakana in s to hiragana and leaves everything else,
// including the long vowel mark, alone.
func ToHiragana(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r >= 0x30A1 && r <= 0x30F6 {
			runes[i] = r - 0x60
		}
	}
	return string(runes)
}
