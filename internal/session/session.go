// Package session runs a fixed-length sequence of rounds and keeps the
// running score.
package session

import (
	"errors"
	"math"
	"strings"

	"github.com/playperu/defenceguesser/internal/country"
	"github.com/playperu/defenceguesser/internal/defence"
	"github.com/playperu/defenceguesser/internal/round"
	"github.com/playperu/defenceguesser/internal/shuffle"
)

var (
	ErrEmptyCatalog       = errors.New("equipment catalog is empty")
	ErrPlayerNameRequired = errors.New("player name is required for the daily challenge")
	ErrRoundInProgress    = errors.New("current round has not been resolved")
	ErrFinished           = errors.New("game is finished")
	ErrNotFinished        = errors.New("game is not finished")
)

type Options struct {
	Daily      bool
	PlayerName string
	// Rounds defaults to defence.DefaultRounds and is capped at the catalog
	// size.
	Rounds int
	// Seed orders the daily sequence; normally shuffle.DailySeed(today).
	Seed    int
	Matcher *country.Matcher
}

// Game owns the state of one play-through. It is not safe for concurrent
// use; callers serialise access.
type Game struct {
	catalog  []defence.Equipment
	sequence []defence.Equipment
	matcher  *country.Matcher

	daily      bool
	playerName string
	seed       int

	rounds   int
	current  int
	score    int
	results  []defence.RoundResult
	round    *round.Round
	finished bool
}

// Start begins a new game at round 1 with a score of 0.
func Start(catalog []defence.Equipment, opts Options) (*Game, error) {
	if len(catalog) == 0 {
		return nil, ErrEmptyCatalog
	}
	name := strings.TrimSpace(opts.PlayerName)
	if opts.Daily && name == "" {
		return nil, ErrPlayerNameRequired
	}

	n := opts.Rounds
	if n <= 0 {
		n = defence.DefaultRounds
	}
	n = min(n, len(catalog))

	var seq []defence.Equipment
	if opts.Daily {
		seq = shuffle.Seeded(catalog, opts.Seed)
	} else {
		seq = shuffle.Shuffle(catalog)
	}

	m := opts.Matcher
	if m == nil {
		m = country.Default()
	}

	g := &Game{
		catalog:    catalog,
		sequence:   seq[:n],
		matcher:    m,
		daily:      opts.Daily,
		playerName: name,
		seed:       opts.Seed,
		rounds:     n,
		current:    1,
	}
	g.round = round.New(1, g.sequence[0], m)
	return g, nil
}

func (g *Game) Daily() bool                   { return g.daily }
func (g *Game) PlayerName() string            { return g.playerName }
func (g *Game) Seed() int                     { return g.seed }
func (g *Game) Score() int                    { return g.score }
func (g *Game) Finished() bool                { return g.finished }
func (g *Game) Round() *round.Round           { return g.round }
func (g *Game) Sequence() []defence.Equipment { return append([]defence.Equipment(nil), g.sequence...) }

// SubmitLocationGuess scores the current round's map guess and adds the
// points to the running score.
func (g *Game) SubmitLocationGuess(guess defence.GuessInput) (round.LocationScore, error) {
	if g.finished {
		return round.LocationScore{}, ErrFinished
	}
	s, err := g.round.ScoreLocation(guess)
	if err != nil {
		return s, err
	}
	g.score += s.Points
	return s, nil
}

// BonusChoices presents the identification options for the current round.
func (g *Game) BonusChoices() ([]string, error) {
	if g.finished {
		return nil, ErrFinished
	}
	return g.round.PresentBonusChoices(g.catalog)
}

// SubmitBonusChoice resolves the current round with the player's pick.
func (g *Game) SubmitBonusChoice(name string) (round.BonusScore, error) {
	if g.finished {
		return round.BonusScore{}, ErrFinished
	}
	b, err := g.round.ScoreBonus(name)
	if err != nil {
		return b, err
	}
	g.score += b.Points
	g.collect()
	return b, nil
}

// SkipBonus resolves the current round without a bonus answer.
func (g *Game) SkipBonus() (defence.RoundResult, error) {
	if g.finished {
		return defence.RoundResult{}, ErrFinished
	}
	res, err := g.round.SkipBonus()
	if err != nil {
		return res, err
	}
	g.collect()
	return res, nil
}

func (g *Game) collect() {
	if res, ok := g.round.Result(); ok {
		g.results = append(g.results, res)
	}
}

// Advance moves to the next round, or finishes the game after the last one.
func (g *Game) Advance() error {
	if g.finished {
		return ErrFinished
	}
	if g.round.Phase() != round.BonusResolved {
		return ErrRoundInProgress
	}
	if g.current >= g.rounds {
		g.finished = true
		return nil
	}
	g.current++
	g.round = round.New(g.current, g.sequence[g.current-1], g.matcher)
	return nil
}

// Snapshot is a read-only copy of the game state for display.
type Snapshot struct {
	Round      int
	Rounds     int
	Score      int
	Daily      bool
	PlayerName string
	Finished   bool
	Phase      round.Phase
	Equipment  defence.Equipment
	Choices    []string
	Location   *round.LocationScore
	Results    []defence.RoundResult
}

func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Round:      g.current,
		Rounds:     g.rounds,
		Score:      g.score,
		Daily:      g.daily,
		PlayerName: g.playerName,
		Finished:   g.finished,
		Phase:      g.round.Phase(),
		Equipment:  g.round.Equipment(),
		Choices:    g.round.Choices(),
		Results:    append([]defence.RoundResult(nil), g.results...),
	}
	if loc, ok := g.round.Location(); ok {
		s.Location = &loc
	}
	return s
}

type Summary struct {
	Score            int
	MaxScore         int
	Rounds           int
	CorrectLocations int
	CorrectBonus     int
	// Accuracy is the rounded percentage of correct answers out of
	// Rounds*2 questions.
	Accuracy   int
	Percentage float64
	Rating     Rating
	Results    []defence.RoundResult
}

// Finish computes the end-of-game statistics.
func (g *Game) Finish() (Summary, error) {
	if !g.finished {
		return Summary{}, ErrNotFinished
	}
	return Summarize(g.score, g.rounds, g.results), nil
}

// Summarize derives the statistics for a game of rounds rounds that scored
// score with the given results.
func Summarize(score, rounds int, results []defence.RoundResult) Summary {
	s := Summary{
		Score:    score,
		MaxScore: rounds * defence.MaxRoundPoints,
		Rounds:   rounds,
		Results:  append([]defence.RoundResult(nil), results...),
	}
	for _, r := range results {
		if r.LocationCorrect {
			s.CorrectLocations++
		}
		if r.BonusCorrect {
			s.CorrectBonus++
		}
	}
	if rounds > 0 {
		s.Accuracy = int(math.Round(float64(s.CorrectLocations+s.CorrectBonus) / float64(rounds*2) * 100))
		s.Percentage = float64(score) / float64(s.MaxScore) * 100
	}
	s.Rating = RatingFor(s.Percentage)
	return s
}
