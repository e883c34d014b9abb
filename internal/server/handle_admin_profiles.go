package server

import (
	"errors"
	"log/slog"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/defenceguesser/internal/kv"
)

// AdminProfileSummary describes one profile's stored daily data.
type AdminProfileSummary struct {
	Slug         string   `json:"slug"`
	PlayedDays   []string `json:"playedDays"`
	Leaderboards int      `json:"leaderboards"`
}

// AdminPruneRequest is the optional body for POST /api/admin/prune.
type AdminPruneRequest struct {
	RetentionDays *int `json:"retentionDays,omitempty"`
}

// AdminPruneResponse reports what a prune removed.
type AdminPruneResponse struct {
	RetentionDays int `json:"retentionDays"`
	Profiles      int `json:"profiles"`
	Removed       int `json:"removed"`
}

func handleAdminListProfiles(logger *slog.Logger, profiles *Profiles) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slugs, err := profiles.Stored(r.Context())
		if err != nil {
			logger.Error("listing profiles", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]AdminProfileSummary, 0, len(slugs))
		for _, slug := range slugs {
			data := profiles.Get(slug).Daily.Snapshot(r.Context())
			days := make([]string, 0, len(data.Played))
			for day, played := range data.Played {
				if played {
					days = append(days, day)
				}
			}
			slices.Sort(days)
			out = append(out, AdminProfileSummary{
				Slug:         slug,
				PlayedDays:   days,
				Leaderboards: len(data.Leaderboards),
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func handleAdminPrune(logger *slog.Logger, profiles *Profiles, defaultRetention int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AdminPruneRequest
		if err := readOptionalJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		retention := defaultRetention
		if req.RetentionDays != nil {
			if *req.RetentionDays < 0 {
				writeError(w, http.StatusBadRequest, "retentionDays must not be negative")
				return
			}
			retention = *req.RetentionDays
		}

		n, removed, err := profiles.PruneAll(r.Context(), retention)
		if err != nil {
			logger.Error("pruning daily data", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		logger.Info("daily data pruned", "admin", adminFrom(r).Email, "profiles", n, "removed", removed)
		writeJSON(w, http.StatusOK, AdminPruneResponse{
			RetentionDays: retention,
			Profiles:      n,
			Removed:       removed,
		})
	}
}

func handleAdminResetDaily(logger *slog.Logger, profiles *Profiles) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "profile")
		if !validSlug(slug) {
			writeError(w, http.StatusNotFound, "profile not found")
			return
		}

		err := profiles.ResetDaily(r.Context(), slug)
		if errors.Is(err, kv.ErrNotFound) {
			writeError(w, http.StatusNotFound, "profile has no daily data")
			return
		}
		if err != nil {
			logger.Error("resetting daily data", "profile", slug, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		logger.Info("daily data reset", "admin", adminFrom(r).Email, "profile", slug)
		w.WriteHeader(http.StatusNoContent)
	}
}
