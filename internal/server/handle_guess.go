package server

import (
	"log/slog"
	"net/http"

	"github.com/playperu/defenceguesser/internal/defence"
	"github.com/playperu/defenceguesser/internal/round"
)

// CountryLookup resolves a map coordinate to a country label.
type CountryLookup interface {
	Lookup(c defence.Coords) (string, bool)
}

// GuessRequest is the request body for POST .../guess. When Country is
// omitted the server resolves it from the coordinates; an explicit empty
// string means the click landed outside any country.
type GuessRequest struct {
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
	Country *string  `json:"country,omitempty"`
}

// GuessResponse is the scored location guess plus the bonus question.
type GuessResponse struct {
	Points       int            `json:"points"`
	DistanceKm   float64        `json:"distanceKm"`
	CountryMatch bool           `json:"countryMatch"`
	Country      string         `json:"country,omitempty"`
	Origin       string         `json:"origin"`
	Coords       defence.Coords `json:"coords"`
	Choices      []string       `json:"choices"`
	Score        int            `json:"score"`
}

func handleGuess(logger *slog.Logger, lookup CountryLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GuessRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Lat == nil || req.Lng == nil {
			writeError(w, http.StatusBadRequest, round.ErrNoLocation.Error())
			return
		}
		loc := defence.Coords{Lat: *req.Lat, Lng: *req.Lng}
		if !loc.Valid() {
			writeError(w, http.StatusBadRequest, "location out of range")
			return
		}

		var label string
		switch {
		case req.Country != nil:
			label = *req.Country
		case lookup != nil:
			label, _ = lookup.Lookup(loc)
		}

		slot := gameFrom(r)
		slot.mu.Lock()
		defer slot.mu.Unlock()

		score, err := slot.game.SubmitLocationGuess(defence.GuessInput{Location: &loc, Country: label})
		if err != nil {
			writeGameError(w, logger, err)
			return
		}
		choices, err := slot.game.BonusChoices()
		if err != nil {
			writeGameError(w, logger, err)
			return
		}

		eq := slot.game.Round().Equipment()
		writeJSON(w, http.StatusOK, GuessResponse{
			Points:       score.Points,
			DistanceKm:   score.DistanceKm,
			CountryMatch: score.CountryMatch,
			Country:      label,
			Origin:       eq.Origin,
			Coords:       eq.Coords,
			Choices:      choices,
			Score:        slot.game.Score(),
		})
	}
}
