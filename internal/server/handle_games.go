package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/playperu/defenceguesser/internal/catalog"
	"github.com/playperu/defenceguesser/internal/country"
	"github.com/playperu/defenceguesser/internal/defence"
	"github.com/playperu/defenceguesser/internal/round"
	"github.com/playperu/defenceguesser/internal/session"
	"github.com/playperu/defenceguesser/internal/shuffle"
)

// CreateGameRequest is the request body for POST /api/{profile}/games.
type CreateGameRequest struct {
	Daily      bool   `json:"daily"`
	PlayerName string `json:"playerName"`
}

// EquipmentClue is what the player sees of the current equipment. Origin
// and coords appear once the location is scored; the identity once the
// round is resolved.
type EquipmentClue struct {
	Image     string          `json:"image"`
	Type      string          `json:"type"`
	Specs     defence.Specs   `json:"specs"`
	Origin    string          `json:"origin,omitempty"`
	Coords    *defence.Coords `json:"coords,omitempty"`
	Name      string          `json:"name,omitempty"`
	InService string          `json:"inService,omitempty"`
	Status    string          `json:"status,omitempty"`
	Users     []string        `json:"users,omitempty"`
}

// LocationResult is the scored map guess of the current round.
type LocationResult struct {
	Points       int     `json:"points"`
	DistanceKm   float64 `json:"distanceKm"`
	CountryMatch bool    `json:"countryMatch"`
}

// GameResponse is the full state of one game.
type GameResponse struct {
	ID         string                `json:"id"`
	Round      int                   `json:"round"`
	Rounds     int                   `json:"rounds"`
	Score      int                   `json:"score"`
	Daily      bool                  `json:"daily"`
	DateKey    string                `json:"dateKey,omitempty"`
	PlayerName string                `json:"playerName,omitempty"`
	Phase      string                `json:"phase"`
	Finished   bool                  `json:"finished"`
	Equipment  EquipmentClue         `json:"equipment"`
	Choices    []string              `json:"choices,omitempty"`
	Location   *LocationResult       `json:"location,omitempty"`
	Results    []defence.RoundResult `json:"results"`
}

// SummaryResponse is the end-of-game statistics.
type SummaryResponse struct {
	Score            int                   `json:"score"`
	MaxScore         int                   `json:"maxScore"`
	Rounds           int                   `json:"rounds"`
	CorrectLocations int                   `json:"correctLocations"`
	CorrectBonus     int                   `json:"correctBonus"`
	Accuracy         int                   `json:"accuracy"`
	Percentage       float64               `json:"percentage"`
	Rating           string                `json:"rating"`
	Placement        int                   `json:"placement,omitempty"`
	Results          []defence.RoundResult `json:"results"`
}

// AdvanceResponse is returned by POST .../next. Summary is set once the
// last round has been advanced past; Placement when a daily score made the
// leaderboard.
type AdvanceResponse struct {
	Game      GameResponse     `json:"game"`
	Summary   *SummaryResponse `json:"summary,omitempty"`
	Placement int              `json:"placement,omitempty"`
}

// gameView renders slot. The caller holds slot.mu.
func gameView(slot *gameSlot) GameResponse {
	s := slot.game.Snapshot()
	eq := s.Equipment

	resp := GameResponse{
		ID:         slot.ID,
		Round:      s.Round,
		Rounds:     s.Rounds,
		Score:      s.Score,
		Daily:      s.Daily,
		DateKey:    slot.DateKey,
		PlayerName: s.PlayerName,
		Phase:      s.Phase.String(),
		Finished:   s.Finished,
		Equipment: EquipmentClue{
			Image: eq.Image,
			Type:  eq.Type,
			Specs: eq.Specs,
		},
		Choices: s.Choices,
		Results: s.Results,
	}
	if resp.Results == nil {
		resp.Results = []defence.RoundResult{}
	}
	if s.Location != nil {
		resp.Location = &LocationResult{
			Points:       s.Location.Points,
			DistanceKm:   s.Location.DistanceKm,
			CountryMatch: s.Location.CountryMatch,
		}
		resp.Equipment.Origin = eq.Origin
		resp.Equipment.Coords = &eq.Coords
	}
	if s.Phase == round.BonusResolved {
		resp.Equipment.Name = eq.Name
		resp.Equipment.InService = eq.InService
		resp.Equipment.Status = eq.Status
		resp.Equipment.Users = eq.Users
	}
	return resp
}

func summaryView(s session.Summary, placement int) SummaryResponse {
	resp := SummaryResponse{
		Score:            s.Score,
		MaxScore:         s.MaxScore,
		Rounds:           s.Rounds,
		CorrectLocations: s.CorrectLocations,
		CorrectBonus:     s.CorrectBonus,
		Accuracy:         s.Accuracy,
		Percentage:       s.Percentage,
		Rating:           s.Rating.String(),
		Placement:        placement,
		Results:          s.Results,
	}
	if resp.Results == nil {
		resp.Results = []defence.RoundResult{}
	}
	return resp
}

// writeGameError maps engine errors to HTTP statuses.
func writeGameError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, round.ErrNoLocation),
		errors.Is(err, session.ErrPlayerNameRequired):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, round.ErrPhase),
		errors.Is(err, session.ErrRoundInProgress),
		errors.Is(err, session.ErrFinished),
		errors.Is(err, session.ErrNotFinished):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, session.ErrEmptyCatalog):
		writeError(w, http.StatusServiceUnavailable, "equipment data unavailable")
	default:
		logger.Error("game command failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func handleCreateGame(logger *slog.Logger, c *catalog.Catalog, games *Games, m *country.Matcher, rounds int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateGameRequest
		if err := readOptionalJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		prof := profileFrom(r)
		opts := session.Options{
			Daily:      req.Daily,
			PlayerName: req.PlayerName,
			Rounds:     rounds,
			Matcher:    m,
		}

		var dateKey string
		if req.Daily {
			today := prof.Daily.Today()
			dateKey = shuffle.DateKey(today)
			if prof.Daily.HasPlayed(r.Context(), dateKey) {
				writeError(w, http.StatusConflict, "daily challenge already played today")
				return
			}
			opts.Seed = shuffle.DailySeed(today)
		}

		g, err := session.Start(c.Items(), opts)
		if err != nil {
			writeGameError(w, logger, err)
			return
		}

		if req.Daily {
			if err := prof.Daily.RecordAttempt(r.Context(), dateKey); err != nil {
				logger.Error("recording daily attempt", "profile", prof.Slug, "error", err)
			}
		}

		slot := games.Add(prof.Slug, dateKey, g)
		logger.Info("game started", "profile", prof.Slug, "game_id", slot.ID, "daily", req.Daily)

		slot.mu.Lock()
		defer slot.mu.Unlock()
		writeJSON(w, http.StatusCreated, gameView(slot))
	}
}

func handleGameState() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slot := gameFrom(r)
		slot.mu.Lock()
		defer slot.mu.Unlock()
		writeJSON(w, http.StatusOK, gameView(slot))
	}
}

func handleNext(logger *slog.Logger, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slot := gameFrom(r)
		slot.mu.Lock()
		defer slot.mu.Unlock()

		if err := slot.game.Advance(); err != nil {
			writeGameError(w, logger, err)
			return
		}

		resp := AdvanceResponse{}
		if slot.game.Finished() {
			if slot.DateKey != "" && !slot.submitted {
				slot.placement = submitDaily(r, logger, broker, slot)
				slot.submitted = true
			}
			sum, err := slot.game.Finish()
			if err != nil {
				writeGameError(w, logger, err)
				return
			}
			sv := summaryView(sum, slot.placement)
			resp.Summary = &sv
			resp.Placement = slot.placement
		}
		resp.Game = gameView(slot)
		writeJSON(w, http.StatusOK, resp)
	}
}

// submitDaily records a finished daily game on the profile's leaderboard
// and returns its 1-based placement, or 0 if it did not place. A store
// failure is logged; the game result stands.
func submitDaily(r *http.Request, logger *slog.Logger, broker *Broker, slot *gameSlot) int {
	prof := profileFrom(r)
	ctx := r.Context()
	name, score := slot.game.PlayerName(), slot.game.Score()

	if err := prof.Daily.SubmitScore(ctx, slot.DateKey, name, score); err != nil {
		logger.Error("submitting daily score", "profile", prof.Slug, "error", err)
		return 0
	}

	board := prof.Daily.Leaderboard(ctx, slot.DateKey)
	broker.Publish(prof.Slug, LeaderboardEvent{
		Type:        "leaderboard",
		DateKey:     slot.DateKey,
		Leaderboard: board,
	})

	placement, _ := prof.Daily.Placement(ctx, slot.DateKey, name, score)
	logger.Info("daily score submitted", "profile", prof.Slug, "score", score, "placement", placement)
	return placement
}

func handleSummary(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slot := gameFrom(r)
		slot.mu.Lock()
		defer slot.mu.Unlock()

		sum, err := slot.game.Finish()
		if err != nil {
			writeGameError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, summaryView(sum, slot.placement))
	}
}
