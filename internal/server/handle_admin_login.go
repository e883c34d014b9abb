package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// AdminLoginRequest is the request body for POST /api/admin/login.
type AdminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminLoginResponse carries the bearer token for the admin API.
type AdminLoginResponse struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AdminMeResponse is the response for GET /api/admin/me.
type AdminMeResponse struct {
	Email string `json:"email"`
}

func handleAdminLogin(logger *slog.Logger, auth *AdminAuth) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AdminLoginRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.Email = strings.TrimSpace(strings.ToLower(req.Email))
		if req.Email == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "email and password are required")
			return
		}

		token, expires, err := auth.Login(r.Context(), req.Email, req.Password)
		if errors.Is(err, errInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		if err != nil {
			logger.Error("admin login", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, AdminLoginResponse{
			Token:     token,
			Email:     req.Email,
			ExpiresAt: expires,
		})
	}
}

func handleAdminMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, AdminMeResponse{Email: adminFrom(r).Email})
	}
}
