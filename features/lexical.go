package features

import (
	"math"
	"strings"
	"unicode/utf8"
)

// SpecialChars are the URL symbols summed into special_chars_count.
const SpecialChars = "@?=&%$#/"

// Lexical computes every feature that only depends on the URL and its hostname. The
// registration age is left at MissingAge.
func Lexical(url, host string) Vector {
	return Vector{
		URLLength:         utf8.RuneCountInString(url),
		DomainLength:      utf8.RuneCountInString(host),
		DotsCount:         strings.Count(url, "."),
		HyphensCount:      strings.Count(url, "-"),
		SpecialCharsCount: CountAny(url, SpecialChars),
		DomainEntropy:     Entropy(host),
		DomainAgeDays:     MissingAge,
	}
}

// CountAny sums the occurrences of every character of set in s.
func CountAny(s, set string) int {
	n := 0
	for _, c := range s {
		if strings.ContainsRune(set, c) {
			n++
		}
	}
	return n
}

// Entropy is the base 2 Shannon entropy of the character distribution of s.
func Entropy(s string) float64 {
	if s == "" {
		return 0
	}

	counts := make(map[rune]int)
	total := 0
	for _, c := range s {
		counts[c]++
		total++
	}

	var h float64
	for _, n := range counts {
		p := float64(n) / float64(total)
		h -= p * math.Log2(p)
	}
	if h == 0 {
		// avoid -0 for single-symbol strings
		return 0
	}
	return h
}
