// Package round implements the scoring state machine for a single round:
// a location guess followed by a bonus identification question.
package round

import (
	"errors"
	"slices"

	"github.com/playperu/defenceguesser/internal/country"
	"github.com/playperu/defenceguesser/internal/defence"
	"github.com/playperu/defenceguesser/internal/geomath"
	"github.com/playperu/defenceguesser/internal/shuffle"
)

var (
	// ErrNoLocation is returned when a guess is submitted without a map
	// selection. It is an input error; the round is unchanged.
	ErrNoLocation = errors.New("select a location on the map first")

	// ErrPhase is returned when an operation is not valid in the round's
	// current phase.
	ErrPhase = errors.New("operation not allowed in current round phase")
)

// ChoiceCount is the number of bonus options offered when the catalog is
// large enough.
const ChoiceCount = 4

type Phase int

const (
	AwaitingGuess Phase = iota
	LocationScored
	AwaitingBonus
	BonusResolved
)

func (p Phase) String() string {
	switch p {
	case AwaitingGuess:
		return "awaiting_guess"
	case LocationScored:
		return "location_scored"
	case AwaitingBonus:
		return "awaiting_bonus"
	case BonusResolved:
		return "bonus_resolved"
	default:
		return "unknown"
	}
}

type LocationScore struct {
	Points     int
	DistanceKm float64
	// CountryMatch is true when the claimed country matched the origin and
	// the points were awarded in full regardless of distance.
	CountryMatch bool
}

type BonusScore struct {
	Correct     bool
	Points      int
	CorrectName string
}

type Round struct {
	index     int
	equipment defence.Equipment
	matcher   *country.Matcher

	phase    Phase
	location LocationScore
	choices  []string
	result   defence.RoundResult
}

// New returns a round awaiting a guess for eq. A nil matcher uses
// country.Default.
func New(index int, eq defence.Equipment, m *country.Matcher) *Round {
	if m == nil {
		m = country.Default()
	}
	return &Round{index: index, equipment: eq, matcher: m}
}

func (r *Round) Index() int                   { return r.index }
func (r *Round) Equipment() defence.Equipment { return r.equipment }
func (r *Round) Phase() Phase                 { return r.phase }

// Location returns the location score once the guess has been scored.
func (r *Round) Location() (LocationScore, bool) {
	return r.location, r.phase >= LocationScored
}

// ScoreLocation scores guess against the round's equipment. A country claim
// that matches the origin earns the maximum regardless of distance; the
// distance is computed either way.
func (r *Round) ScoreLocation(guess defence.GuessInput) (LocationScore, error) {
	if guess.Location == nil {
		return LocationScore{}, ErrNoLocation
	}
	if r.phase != AwaitingGuess {
		return LocationScore{}, ErrPhase
	}

	s := LocationScore{
		DistanceKm: geomath.DistanceKm(*guess.Location, r.equipment.Coords),
	}
	if guess.Country != "" && r.matcher.IsMatch(guess.Country, r.equipment.Origin) {
		s.CountryMatch = true
		s.Points = defence.MaxLocationPoints
	} else {
		s.Points = geomath.ScoreFromDistance(s.DistanceKm)
	}

	r.location = s
	r.result = defence.RoundResult{
		Round:           r.index,
		Equipment:       r.equipment.Name,
		Origin:          r.equipment.Origin,
		Type:            r.equipment.Type,
		LocationCorrect: s.CountryMatch,
		LocationPoints:  s.Points,
		DistanceKm:      s.DistanceKm,
		TotalPoints:     s.Points,
	}
	r.phase = LocationScored
	return s, nil
}

// PresentBonusChoices builds the identification options and moves the round
// to AwaitingBonus. Calling it again returns the options already shown.
func (r *Round) PresentBonusChoices(catalog []defence.Equipment) ([]string, error) {
	switch r.phase {
	case AwaitingBonus:
		return slices.Clone(r.choices), nil
	case LocationScored:
	default:
		return nil, ErrPhase
	}
	r.choices = BonusChoices(r.equipment, catalog)
	r.phase = AwaitingBonus
	return slices.Clone(r.choices), nil
}

// Choices returns the presented bonus options, if any.
func (r *Round) Choices() []string {
	return slices.Clone(r.choices)
}

// ScoreBonus resolves the bonus question and finalises the round result.
func (r *Round) ScoreBonus(selected string) (BonusScore, error) {
	if r.phase != LocationScored && r.phase != AwaitingBonus {
		return BonusScore{}, ErrPhase
	}
	b := BonusScore{
		Points:      BonusPoints(selected, r.equipment.Name),
		CorrectName: r.equipment.Name,
	}
	b.Correct = b.Points > 0
	r.resolve(b)
	return b, nil
}

// SkipBonus resolves the round without a bonus answer.
func (r *Round) SkipBonus() (defence.RoundResult, error) {
	if r.phase != LocationScored && r.phase != AwaitingBonus {
		return defence.RoundResult{}, ErrPhase
	}
	r.resolve(BonusScore{CorrectName: r.equipment.Name})
	return r.result, nil
}

func (r *Round) resolve(b BonusScore) {
	r.result.BonusCorrect = b.Correct
	r.result.BonusPoints = b.Points
	r.result.TotalPoints = r.result.LocationPoints + b.Points
	r.phase = BonusResolved
}

// Result returns the finished round record once the bonus has resolved.
func (r *Round) Result() (defence.RoundResult, bool) {
	if r.phase != BonusResolved {
		return defence.RoundResult{}, false
	}
	return r.result, true
}

// BonusPoints awards the full bonus for an exact name match.
func BonusPoints(selected, correct string) int {
	if selected == correct {
		return defence.BonusPoints
	}
	return 0
}

// BonusChoices returns eq's name plus up to three distractors in random
// order. Distractors come from eq's type first and are topped up from other
// types. Names are distinct; a catalog with fewer than four distinct names
// yields every name it has.
func BonusChoices(eq defence.Equipment, catalog []defence.Equipment) []string {
	seen := map[string]bool{eq.Name: true}
	var same, other []string
	for _, item := range catalog {
		if seen[item.Name] {
			continue
		}
		seen[item.Name] = true
		if item.Type == eq.Type {
			same = append(same, item.Name)
		} else {
			other = append(other, item.Name)
		}
	}

	const distractors = ChoiceCount - 1
	picked := shuffle.Shuffle(same)
	if len(picked) > distractors {
		picked = picked[:distractors]
	}
	if need := distractors - len(picked); need > 0 {
		fill := shuffle.Shuffle(other)
		picked = append(picked, fill[:min(need, len(fill))]...)
	}

	return shuffle.Shuffle(append([]string{eq.Name}, picked...))
}
