// Package phash finds minimal perfect hash parameters for small keyword sets.
//
// The hash projects a keyword onto its first two and last two runes and folds
// them into a 64-bit accumulator, multiplying by a seed after every rune. All
// arithmetic wraps mod 2^64. Published tables, such as the FTP command lexer's,
// depend on that exact truncation, so the accumulator must stay a uint64.
package phash

import "strings"

// Shorten returns the projection the hash actually consumes: the first two
// runes followed by the last two. Keywords of four runes or fewer overlap
// ("cwd" -> "cwwd", "a" -> "aa"). The keyword is used as given, no case folding.
func Shorten(keyword string) []rune {
	r := []rune(keyword)
	head := r[:min(2, len(r))]
	tail := r[max(0, len(r)-2):]

	out := make([]rune, 0, len(head)+len(tail))
	out = append(out, head...)
	return append(out, tail...)
}

// Sum returns the accumulator before the final modulo. The keyword is
// lowercased first.
func Sum(keyword string, seed uint64) uint64 {
	return sumShort(Shorten(strings.ToLower(keyword)), seed)
}

// Hash maps keyword to a slot in [0, size). size must be positive.
func Hash(keyword string, seed uint64, size int) int {
	return int(Sum(keyword, seed) % uint64(size))
}

// sumShort folds an already shortened, lowercased keyword.
func sumShort(short []rune, seed uint64) uint64 {
	var acc uint64
	for i, c := range short {
		acc = acc<<(uint(i)*8) | uint64(c)
		acc *= seed
	}
	return acc
}
