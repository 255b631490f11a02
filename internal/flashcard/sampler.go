package flashcard

import "math/rand"

// DefaultSampleSize is how many cards a category page shows at once.
const DefaultSampleSize = 3

// Sample returns min(n, len(items)) distinct items in random order. A fresh draw is
// made on every call.
func Sample[T any](items []T, n int) []T {
	if n > len(items) {
		n = len(items)
	}
	if n <= 0 {
		return []T{}
	}
	out := make([]T, 0, n)
	for _, i := range rand.Perm(len(items))[:n] {
		out = append(out, items[i])
	}
	return out
}
