package round

import (
	"errors"
	"slices"
	"testing"

	"github.com/playperu/defenceguesser/internal/defence"
)

var f16 = defence.Equipment{
	Name:   "F-16 Fighting Falcon",
	Origin: "United States",
	Type:   "Aircraft",
	Coords: defence.Coords{Lat: 32.77, Lng: -97.44},
}

func testCatalog() []defence.Equipment {
	return []defence.Equipment{
		f16,
		{Name: "Su-27 Flanker", Origin: "Russia", Type: "Aircraft"},
		{Name: "Rafale", Origin: "France", Type: "Aircraft"},
		{Name: "Eurofighter Typhoon", Origin: "United Kingdom", Type: "Aircraft"},
		{Name: "Gripen", Origin: "Sweden", Type: "Aircraft"},
		{Name: "Leopard 2", Origin: "Germany", Type: "Tank"},
		{Name: "Merkava", Origin: "Israel", Type: "Tank"},
	}
}

func at(lat, lng float64) *defence.Coords {
	return &defence.Coords{Lat: lat, Lng: lng}
}

func TestScoreLocationCountryMatch(t *testing.T) {
	r := New(1, f16, nil)

	// Guess in Alaska, thousands of km from Fort Worth, but claims "USA".
	s, err := r.ScoreLocation(defence.GuessInput{Location: at(64.2, -149.5), Country: "United States of America"})
	if err != nil {
		t.Fatalf("ScoreLocation: %v", err)
	}
	if s.Points != defence.MaxLocationPoints {
		t.Errorf("points = %d, want %d", s.Points, defence.MaxLocationPoints)
	}
	if !s.CountryMatch {
		t.Error("expected country match")
	}
	if s.DistanceKm < 4000 {
		t.Errorf("distance = %f, expected the raw distance to still be reported", s.DistanceKm)
	}
	if r.Phase() != LocationScored {
		t.Errorf("phase = %v, want %v", r.Phase(), LocationScored)
	}
}

func TestScoreLocationByDistance(t *testing.T) {
	tests := []struct {
		name    string
		guess   defence.GuessInput
		wantMin int
		wantMax int
	}{
		{"exact spot no country", defence.GuessInput{Location: at(32.77, -97.44)}, 5000, 5000},
		{"wrong country nearby", defence.GuessInput{Location: at(25.0, -100.0), Country: "Mexico"}, 3000, 4999},
		{"far away", defence.GuessInput{Location: at(-33.87, 151.21), Country: "Australia"}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(1, f16, nil)
			s, err := r.ScoreLocation(tt.guess)
			if err != nil {
				t.Fatalf("ScoreLocation: %v", err)
			}
			if s.CountryMatch {
				t.Error("unexpected country match")
			}
			if s.Points < tt.wantMin || s.Points > tt.wantMax {
				t.Errorf("points = %d, want in [%d, %d]", s.Points, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestScoreLocationRequiresSelection(t *testing.T) {
	r := New(1, f16, nil)
	_, err := r.ScoreLocation(defence.GuessInput{Country: "USA"})
	if !errors.Is(err, ErrNoLocation) {
		t.Fatalf("err = %v, want ErrNoLocation", err)
	}
	if r.Phase() != AwaitingGuess {
		t.Errorf("phase changed to %v on rejected guess", r.Phase())
	}
}

func TestScoreLocationTwice(t *testing.T) {
	r := New(1, f16, nil)
	if _, err := r.ScoreLocation(defence.GuessInput{Location: at(0, 0)}); err != nil {
		t.Fatal(err)
	}
	if _, err := r.ScoreLocation(defence.GuessInput{Location: at(0, 0)}); !errors.Is(err, ErrPhase) {
		t.Errorf("second guess err = %v, want ErrPhase", err)
	}
}

func TestBonusFlow(t *testing.T) {
	tests := []struct {
		name       string
		choice     string
		wantPoints int
	}{
		{"correct", "F-16 Fighting Falcon", 2500},
		{"incorrect", "Rafale", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(3, f16, nil)
			loc, _ := r.ScoreLocation(defence.GuessInput{Location: at(32.77, -97.44)})

			if _, err := r.PresentBonusChoices(testCatalog()); err != nil {
				t.Fatalf("PresentBonusChoices: %v", err)
			}
			if r.Phase() != AwaitingBonus {
				t.Errorf("phase = %v, want %v", r.Phase(), AwaitingBonus)
			}

			b, err := r.ScoreBonus(tt.choice)
			if err != nil {
				t.Fatalf("ScoreBonus: %v", err)
			}
			if b.Points != tt.wantPoints {
				t.Errorf("bonus points = %d, want %d", b.Points, tt.wantPoints)
			}

			res, ok := r.Result()
			if !ok {
				t.Fatal("result not available after bonus")
			}
			if res.Round != 3 || res.Equipment != f16.Name || res.Origin != f16.Origin || res.Type != f16.Type {
				t.Errorf("result identity = %+v", res)
			}
			if res.TotalPoints != loc.Points+tt.wantPoints {
				t.Errorf("total = %d, want %d", res.TotalPoints, loc.Points+tt.wantPoints)
			}
			if res.BonusCorrect != (tt.wantPoints > 0) {
				t.Errorf("bonusCorrect = %v", res.BonusCorrect)
			}

			if _, err := r.ScoreBonus(tt.choice); !errors.Is(err, ErrPhase) {
				t.Errorf("second bonus err = %v, want ErrPhase", err)
			}
		})
	}
}

func TestBonusBeforeGuess(t *testing.T) {
	r := New(1, f16, nil)
	if _, err := r.ScoreBonus(f16.Name); !errors.Is(err, ErrPhase) {
		t.Errorf("err = %v, want ErrPhase", err)
	}
	if _, err := r.PresentBonusChoices(testCatalog()); !errors.Is(err, ErrPhase) {
		t.Errorf("err = %v, want ErrPhase", err)
	}
	if _, ok := r.Result(); ok {
		t.Error("result available before the round resolved")
	}
}

func TestSkipBonus(t *testing.T) {
	r := New(1, f16, nil)
	r.ScoreLocation(defence.GuessInput{Location: at(32.77, -97.44)})
	res, err := r.SkipBonus()
	if err != nil {
		t.Fatalf("SkipBonus: %v", err)
	}
	if res.BonusPoints != 0 || res.BonusCorrect || res.TotalPoints != res.LocationPoints {
		t.Errorf("skip result = %+v", res)
	}
	if r.Phase() != BonusResolved {
		t.Errorf("phase = %v", r.Phase())
	}
}

func TestPresentBonusChoicesStable(t *testing.T) {
	r := New(1, f16, nil)
	r.ScoreLocation(defence.GuessInput{Location: at(0, 0)})
	first, _ := r.PresentBonusChoices(testCatalog())
	second, _ := r.PresentBonusChoices(testCatalog())
	if !slices.Equal(first, second) {
		t.Errorf("choices changed between calls: %v vs %v", first, second)
	}
}

func TestBonusChoices(t *testing.T) {
	catalog := testCatalog()
	positions := map[int]bool{}

	for i := 0; i < 200; i++ {
		got := BonusChoices(f16, catalog)
		if len(got) != ChoiceCount {
			t.Fatalf("got %d choices, want %d: %v", len(got), ChoiceCount, got)
		}
		idx := slices.Index(got, f16.Name)
		if idx < 0 {
			t.Fatalf("correct name missing from %v", got)
		}
		positions[idx] = true

		seen := map[string]bool{}
		for _, name := range got {
			if seen[name] {
				t.Fatalf("duplicate choice %q in %v", name, got)
			}
			seen[name] = true
			// Four other aircraft exist, so tanks must never be used.
			if name == "Leopard 2" || name == "Merkava" {
				t.Fatalf("cross-type distractor %q used while same-type ones were available", name)
			}
		}
	}

	if len(positions) < 2 {
		t.Errorf("correct answer always at the same position: %v", positions)
	}
}

func TestBonusChoicesFillsFromOtherTypes(t *testing.T) {
	merkava := defence.Equipment{Name: "Merkava", Origin: "Israel", Type: "Tank"}
	got := BonusChoices(merkava, testCatalog())
	if len(got) != ChoiceCount {
		t.Fatalf("got %v", got)
	}
	if !slices.Contains(got, "Leopard 2") {
		t.Errorf("only same-type distractor missing from %v", got)
	}
}

func TestBonusChoicesSmallCatalog(t *testing.T) {
	tests := []struct {
		name    string
		catalog []defence.Equipment
		want    int
	}{
		{"only itself", []defence.Equipment{f16}, 1},
		{"three distinct", testCatalog()[:3], 3},
		{"duplicates collapse", []defence.Equipment{f16, f16, {Name: "Rafale", Type: "Aircraft"}, {Name: "Rafale", Type: "Aircraft"}}, 2},
		{"empty catalog", nil, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BonusChoices(f16, tt.catalog)
			if len(got) != tt.want {
				t.Errorf("got %d choices %v, want %d", len(got), got, tt.want)
			}
			if !slices.Contains(got, f16.Name) {
				t.Errorf("correct name missing from %v", got)
			}
		})
	}
}
