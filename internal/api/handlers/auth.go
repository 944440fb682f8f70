// Package handlers contains the HTTP endpoint handlers.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/obilearn/obi/internal/auth"
	"github.com/obilearn/obi/internal/domain"
)

// ContextKey type for context keys
type ContextKey string

const (
	// ContextKeyLearner holds the authenticated *domain.Learner
	ContextKeyLearner ContextKey = "learner"
)

// LearnerFromContext returns the authenticated learner, or nil for anonymous
// requests.
func LearnerFromContext(r *http.Request) *domain.Learner {
	learner, _ := r.Context().Value(ContextKeyLearner).(*domain.Learner)
	return learner
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService  *auth.Service
	cookieName   string
	cookieMaxAge int
	secureCookie bool
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *auth.Service, secureCookie bool, maxAge int) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		cookieName:   "session",
		cookieMaxAge: maxAge,
		secureCookie: secureCookie,
	}
}

// RegisterRequest is the request body for registration
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginRequest is the request body for login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LearnerResponse is the response for learner data
type LearnerResponse struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	BrainPower int    `json:"brainPower"`
	Energy     int    `json:"energy"`
	CreatedAt  string `json:"created_at"`
}

func learnerResponse(learner *domain.Learner) LearnerResponse {
	return LearnerResponse{
		ID:         learner.ID.String(),
		Email:      learner.Email,
		Name:       learner.Name,
		BrainPower: learner.BrainPower,
		Energy:     learner.Energy,
		CreatedAt:  learner.CreatedAt.Format(time.RFC3339),
	}
}

// Register handles learner registration
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		h.jsonError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	if len(req.Password) < 8 {
		h.jsonError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	learner, err := h.authService.Register(r.Context(), auth.RegisterRequest{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})

	if errors.Is(err, auth.ErrEmailExists) {
		h.jsonError(w, http.StatusConflict, "email already registered")
		return
	}
	if err != nil {
		h.jsonError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	h.jsonResponse(w, http.StatusCreated, map[string]any{
		"learner": learnerResponse(learner),
	})
}

// Login handles learner login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		h.jsonError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	result, err := h.authService.Login(r.Context(), auth.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})

	if errors.Is(err, auth.ErrInvalidCredentials) {
		h.jsonError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if err != nil {
		h.jsonError(w, http.StatusInternalServerError, "login failed")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    result.Token,
		Path:     "/",
		MaxAge:   h.cookieMaxAge,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	h.jsonResponse(w, http.StatusOK, map[string]any{
		"learner": learnerResponse(result.Learner),
		"token":   result.Token,
	})
}

// Logout handles learner logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(h.cookieName)
	if err != nil {
		h.jsonError(w, http.StatusBadRequest, "not logged in")
		return
	}

	// Best effort - the learner wants out regardless
	_ = h.authService.Logout(r.Context(), cookie.Value)

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	h.jsonResponse(w, http.StatusOK, map[string]string{
		"message": "logged out successfully",
	})
}

// Me returns the current learner
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(h.cookieName)
	if err != nil {
		h.jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	learner, _, err := h.authService.ValidateSession(r.Context(), cookie.Value)
	if err != nil {
		// Clear invalid cookie
		http.SetCookie(w, &http.Cookie{
			Name:     h.cookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
		})
		h.jsonError(w, http.StatusUnauthorized, "session expired")
		return
	}

	h.jsonResponse(w, http.StatusOK, map[string]any{
		"learner": learnerResponse(learner),
	})
}

func (h *AuthHandler) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *AuthHandler) jsonError(w http.ResponseWriter, status int, message string) {
	h.jsonResponse(w, status, map[string]string{"error": message})
}
