package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/fisiomanager/backend/internal/auth"
	"github.com/fisiomanager/backend/internal/repo"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserInfo  `json:"user"`
}

type UserInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Login authenticates a therapist account and issues a bearer token. The
// response mirrors what the SPA stores: token plus display user.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid body"}`, http.StatusBadRequest)
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validEmail(email) || req.Password == "" {
		http.Error(w, `{"error":"email and password required"}`, http.StatusBadRequest)
		return
	}
	u, err := repo.UserByEmail(r.Context(), h.Pool, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			http.Error(w, `{"error":"email not found"}`, http.StatusBadRequest)
			return
		}
		log.Printf("[auth] login lookup: %v", err)
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		http.Error(w, `{"error":"incorrect password"}`, http.StatusBadRequest)
		return
	}
	token, err := auth.BuildJWT(h.Cfg.JWTSecret, u.ID.String(), u.Name, auth.TokenTTL)
	if err != nil {
		log.Printf("[auth] build token: %v", err)
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(LoginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(auth.TokenTTL),
		User:      UserInfo{ID: u.ID.String(), Name: u.Name, Email: u.Email},
	})
}

// Me echoes the authenticated account, fresh from the store.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(auth.UserIDFrom(r.Context()))
	if err != nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	u, err := repo.UserByID(r.Context(), h.Pool, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			http.Error(w, `{"error":"user not found"}`, http.StatusNotFound)
			return
		}
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(UserInfo{ID: u.ID.String(), Name: u.Name, Email: u.Email})
}
