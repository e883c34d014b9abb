package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var errInvalidCredentials = errors.New("invalid credentials")

const adminTokenTTL = 12 * time.Hour

type adminClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// AdminAuth checks the single configured admin account and issues signed
// bearer tokens. Every login attempt is recorded in admin_logins.
type AdminAuth struct {
	email        string
	passwordHash []byte
	secret       []byte
	db           *sql.DB
	logger       *slog.Logger
	now          func() time.Time
}

func NewAdminAuth(email, passwordHash, secret string, db *sql.DB, logger *slog.Logger) *AdminAuth {
	return &AdminAuth{
		email:        strings.TrimSpace(strings.ToLower(email)),
		passwordHash: []byte(passwordHash),
		secret:       []byte(secret),
		db:           db,
		logger:       logger,
		now:          time.Now,
	}
}

// Login returns a signed token when email and password match.
func (a *AdminAuth) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	ok := email == a.email &&
		bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)) == nil
	a.record(ctx, email, ok)
	if !ok {
		return "", time.Time{}, errInvalidCredentials
	}

	now := a.now()
	expires := now.Add(adminTokenTTL)
	claims := &adminClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}
	return signed, expires, nil
}

// Verify parses a bearer token issued by Login.
func (a *AdminAuth) Verify(token string) (*adminClaims, error) {
	claims := &adminClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithTimeFunc(a.now))
	if err != nil {
		return nil, err
	}
	if !parsed.Valid || claims.Email != a.email {
		return nil, errInvalidCredentials
	}
	return claims, nil
}

func (a *AdminAuth) record(ctx context.Context, email string, succeeded bool) {
	ok := 0
	if succeeded {
		ok = 1
	}
	_, err := a.db.ExecContext(ctx,
		`INSERT INTO admin_logins (email, succeeded) VALUES (?, ?)`,
		email, ok,
	)
	if err != nil {
		a.logger.Error("recording admin login", "error", err)
	}
}
