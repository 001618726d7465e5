package security

import "math"

// ShannonEntropy computes the Shannon entropy of a string in bits per
// character. Random tokens sit above 3.5; words and placeholders fall
// well below.
func ShannonEntropy(s string) float64 {
	if len(s) == 0 {
		return 0
	}

	freq := make(map[rune]int)
	for _, r := range s {
		freq[r]++
	}

	var entropy float64
	total := float64(len([]rune(s)))
	for _, count := range freq {
		p := float64(count) / total
		entropy -= p * math.Log2(p)
	}
	return entropy
}
