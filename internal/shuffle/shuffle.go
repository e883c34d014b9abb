// Package shuffle provides the two orderings the game uses: a reproducible
// sine-seeded Fisher–Yates for the daily challenge and an ordinary random
// Fisher–Yates for everything else.
//
// The seeded generator is not cryptographically strong. Its only job is to
// give every player the same permutation for the same seed, so Random and
// Seeded must stay formula-for-formula identical to the published algorithm.
package shuffle

import (
	"iter"
	"math"
	"math/rand/v2"
	"slices"
	"strconv"
	"time"
)

// Random returns frac(sin(seed) * 10000), a value in [0, 1).
func Random(seed int) float64 {
	x := math.Sin(float64(seed)) * 10000
	return x - math.Floor(x)
}

// Sequence yields Random(seed), Random(seed+1), ... without end. Each range
// over the returned sequence starts again from seed.
func Sequence(seed int) iter.Seq[float64] {
	return func(yield func(float64) bool) {
		for i := 0; ; i++ {
			if !yield(Random(seed + i)) {
				return
			}
		}
	}
}

// Seeded returns a permutation of a copy of items. Step i, from the last
// index down to 1, swaps i with floor(Random(seed+i) * (i+1)).
func Seeded[T any](items []T, seed int) []T {
	out := slices.Clone(items)
	for i := len(out) - 1; i > 0; i-- {
		j := int(math.Floor(Random(seed+i) * float64(i+1)))
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Shuffle returns a uniformly random permutation of a copy of items.
func Shuffle[T any](items []T) []T {
	out := slices.Clone(items)
	rand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// DailySeed encodes the calendar day of t as year*10000 + month*100 + day.
func DailySeed(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}

// DateKey is DailySeed formatted as a decimal string, the form used to
// partition leaderboards and played records.
func DateKey(t time.Time) string {
	return strconv.Itoa(DailySeed(t))
}
