package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

type ctxKey int

const (
	ctxKeyProfile ctxKey = iota
	ctxKeyGame
	ctxKeyAdmin
)

func profileMiddleware(profiles *Profiles) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			slug := chi.URLParam(r, "profile")
			if !validSlug(slug) {
				writeError(w, http.StatusNotFound, "profile not found")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyProfile, profiles.Get(slug))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// gameMiddleware resolves {gameID} within the request's profile. It must
// run after profileMiddleware.
func gameMiddleware(games *Games) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			slot, ok := games.Get(profileFrom(r).Slug, chi.URLParam(r, "gameID"))
			if !ok {
				writeError(w, http.StatusNotFound, "game not found")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyGame, slot)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func adminAuthMiddleware(auth *AdminAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				writeError(w, http.StatusUnauthorized, "not authenticated")
				return
			}

			claims, err := auth.Verify(token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "not authenticated")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyAdmin, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func profileFrom(r *http.Request) *Profile {
	return r.Context().Value(ctxKeyProfile).(*Profile)
}

func gameFrom(r *http.Request) *gameSlot {
	return r.Context().Value(ctxKeyGame).(*gameSlot)
}

func adminFrom(r *http.Request) *adminClaims {
	return r.Context().Value(ctxKeyAdmin).(*adminClaims)
}
