package server

import (
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/defenceguesser/internal/defence"
)

var dateKeyPattern = regexp.MustCompile(`^\d{8}$`)

// DailyResponse is today's daily challenge status for a profile.
type DailyResponse struct {
	DateKey     string                     `json:"dateKey"`
	Played      bool                       `json:"played"`
	Leaderboard []defence.LeaderboardEntry `json:"leaderboard"`
}

// LeaderboardResponse is one day's leaderboard.
type LeaderboardResponse struct {
	DateKey     string                     `json:"dateKey"`
	Leaderboard []defence.LeaderboardEntry `json:"leaderboard"`
}

func handleDaily() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d := profileFrom(r).Daily
		key := d.TodayKey()
		writeJSON(w, http.StatusOK, DailyResponse{
			DateKey:     key,
			Played:      d.HasPlayed(r.Context(), key),
			Leaderboard: d.Leaderboard(r.Context(), key),
		})
	}
}

func handleLeaderboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "dateKey")
		if !dateKeyPattern.MatchString(key) {
			writeError(w, http.StatusBadRequest, "date key must be YYYYMMDD")
			return
		}
		writeJSON(w, http.StatusOK, LeaderboardResponse{
			DateKey:     key,
			Leaderboard: profileFrom(r).Daily.Leaderboard(r.Context(), key),
		})
	}
}
