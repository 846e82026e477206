package dataset

import (
	"math/rand"
	"sort"
)

// Sample picks n items using a seeded generator; the same seed and input always give the
// same subset. The result is sorted. Inputs of at most n items are returned unchanged.
func Sample(items []string, n int, seed int64) []string {
	if n <= 0 || len(items) <= n {
		return items
	}

	cp := make([]string, len(items))
	copy(cp, items)

	rnd := rand.New(rand.NewSource(seed))
	// partial Fisher-Yates: the first n slots end up holding the sample
	for i := 0; i < n; i++ {
		j := i + rnd.Intn(len(cp)-i)
		cp[i], cp[j] = cp[j], cp[i]
	}

	out := cp[:n]
	sort.Strings(out)
	return out
}
