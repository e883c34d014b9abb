package shuffle

import (
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"
)

// Golden permutations produced by the reference sine-seeded Fisher–Yates.
var goldenShuffles = []struct {
	items []string
	seed  int
	want  []string
}{
	{
		items: []string{"A", "B", "C", "D", "E"},
		seed:  12345,
		want:  []string{"E", "A", "D", "C", "B"},
	},
	{
		items: []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"},
		seed:  20261016,
		want:  []string{"I", "C", "J", "B", "H", "F", "D", "E", "A", "G"},
	},
}

func TestSeededGolden(t *testing.T) {
	for _, g := range goldenShuffles {
		t.Run(fmt.Sprintf("seed=%d", g.seed), func(t *testing.T) {
			got := Seeded(g.items, g.seed)
			if !slices.Equal(got, g.want) {
				t.Errorf("Seeded(%v, %d) = %v, want %v", g.items, g.seed, got, g.want)
			}
		})
	}
}

func TestSeededReproducible(t *testing.T) {
	items := []string{"A", "B", "C", "D", "E"}
	reference := Seeded(items, 12345)

	t.Run("Multiple calls identical", func(t *testing.T) {
		for i := 0; i < 10; i++ {
			if got := Seeded(items, 12345); !slices.Equal(got, reference) {
				t.Fatalf("iteration %d: got %v, want %v", i, got, reference)
			}
		}
	})

	t.Run("Concurrent access", func(t *testing.T) {
		const numGoroutines = 8
		var wg sync.WaitGroup
		results := make([][]string, numGoroutines)
		for g := 0; g < numGoroutines; g++ {
			wg.Add(1)
			go func(g int) {
				defer wg.Done()
				results[g] = Seeded(items, 12345)
			}(g)
		}
		wg.Wait()
		for g, got := range results {
			if !slices.Equal(got, reference) {
				t.Errorf("goroutine %d: got %v, want %v", g, got, reference)
			}
		}
	})

	t.Run("Input untouched", func(t *testing.T) {
		if !slices.Equal(items, []string{"A", "B", "C", "D", "E"}) {
			t.Errorf("Seeded modified its input: %v", items)
		}
	})
}

func TestRandom(t *testing.T) {
	tests := []struct {
		seed int
		want float64
	}{
		{0, 0},
		{12345, 0.2836354431892687},
		{12346, 0.32874564723169897},
	}
	for _, tt := range tests {
		got := Random(tt.seed)
		if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("Random(%d) = %.17g, want %.17g", tt.seed, got, tt.want)
		}
	}

	for seed := -1000; seed < 1000; seed++ {
		if v := Random(seed); v < 0 || v >= 1 {
			t.Fatalf("Random(%d) = %f, out of [0,1)", seed, v)
		}
	}
}

func TestSequence(t *testing.T) {
	take := func(seed, n int) []float64 {
		var out []float64
		for v := range Sequence(seed) {
			out = append(out, v)
			if len(out) == n {
				break
			}
		}
		return out
	}

	first := take(12345, 4)
	second := take(12345, 4)
	if !slices.Equal(first, second) {
		t.Errorf("sequence not restartable: %v vs %v", first, second)
	}
	for i, v := range first {
		if v != Random(12345+i) {
			t.Errorf("value %d = %v, want Random(%d) = %v", i, v, 12345+i, Random(12345+i))
		}
	}
}

func TestShufflePermutation(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8}
	for i := 0; i < 50; i++ {
		got := Shuffle(items)
		sorted := slices.Clone(got)
		slices.Sort(sorted)
		if !slices.Equal(sorted, items) {
			t.Fatalf("Shuffle returned %v, not a permutation of %v", got, items)
		}
	}
	if !slices.Equal(items, []int{1, 2, 3, 4, 5, 6, 7, 8}) {
		t.Errorf("Shuffle modified its input: %v", items)
	}
}

func TestShuffleVaries(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6}
	firsts := map[int]bool{}
	for i := 0; i < 200; i++ {
		firsts[Shuffle(items)[0]] = true
	}
	if len(firsts) < 2 {
		t.Errorf("first element never changed across 200 shuffles")
	}
}

func TestShuffleEmpty(t *testing.T) {
	if got := Shuffle([]string{}); len(got) != 0 {
		t.Errorf("Shuffle(empty) = %v", got)
	}
	if got := Seeded([]string{"only"}, 7); !slices.Equal(got, []string{"only"}) {
		t.Errorf("Seeded(single) = %v", got)
	}
}

func TestDailySeed(t *testing.T) {
	tests := []struct {
		date time.Time
		want int
		key  string
	}{
		{time.Date(2026, time.October, 16, 23, 59, 0, 0, time.UTC), 20261016, "20261016"},
		{time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), 20250101, "20250101"},
		{time.Date(2024, time.December, 31, 12, 0, 0, 0, time.UTC), 20241231, "20241231"},
	}
	for _, tt := range tests {
		if got := DailySeed(tt.date); got != tt.want {
			t.Errorf("DailySeed(%v) = %d, want %d", tt.date, got, tt.want)
		}
		if got := DateKey(tt.date); got != tt.key {
			t.Errorf("DateKey(%v) = %q, want %q", tt.date, got, tt.key)
		}
	}
}
