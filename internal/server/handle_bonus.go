package server

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/playperu/defenceguesser/internal/defence"
)

// BonusRequest is the request body for POST .../bonus.
type BonusRequest struct {
	Choice string `json:"choice"`
}

// BonusResponse resolves a round: the identification result, the round's
// totals and the full equipment record.
type BonusResponse struct {
	Correct     bool                `json:"correct"`
	Points      int                 `json:"points"`
	CorrectName string              `json:"correctName"`
	Score       int                 `json:"score"`
	LastRound   bool                `json:"lastRound"`
	Result      defence.RoundResult `json:"result"`
	Equipment   EquipmentDetail     `json:"equipment"`
}

func bonusView(slot *gameSlot) BonusResponse {
	res, _ := slot.game.Round().Result()
	s := slot.game.Snapshot()
	eq := slot.game.Round().Equipment()
	return BonusResponse{
		Correct:     res.BonusCorrect,
		Points:      res.BonusPoints,
		CorrectName: eq.Name,
		Score:       s.Score,
		LastRound:   s.Round == s.Rounds,
		Result:      res,
		Equipment:   toDetail(eq),
	}
}

func handleBonus(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BonusRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if strings.TrimSpace(req.Choice) == "" {
			writeError(w, http.StatusBadRequest, "choice is required")
			return
		}

		slot := gameFrom(r)
		slot.mu.Lock()
		defer slot.mu.Unlock()

		if _, err := slot.game.SubmitBonusChoice(req.Choice); err != nil {
			writeGameError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, bonusView(slot))
	}
}

func handleBonusSkip(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slot := gameFrom(r)
		slot.mu.Lock()
		defer slot.mu.Unlock()

		if _, err := slot.game.SkipBonus(); err != nil {
			writeGameError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, bonusView(slot))
	}
}
