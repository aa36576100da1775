package recipes

import "strings"

const base62Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// EncodeBase62 renders a non-negative integer in base62.
func EncodeBase62(n int64) string {
	if n <= 0 {
		return string(base62Alphabet[0])
	}

	var sb []byte
	for n > 0 {
		sb = append(sb, base62Alphabet[n%62])
		n /= 62
	}
	for i, j := 0, len(sb)-1; i < j; i, j = i+1, j-1 {
		sb[i], sb[j] = sb[j], sb[i]
	}
	return string(sb)
}

// DecodeBase62 parses a base62 string; ok is false on foreign characters
// or an empty input.
func DecodeBase62(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}

	var n int64
	for _, ch := range s {
		idx := strings.IndexRune(base62Alphabet, ch)
		if idx < 0 {
			return 0, false
		}
		n = n*62 + int64(idx)
	}
	return n, true
}
