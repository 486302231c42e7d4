package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/servicios-app/backend/internal/api/middleware"
	"github.com/servicios-app/backend/internal/application/services"
	"github.com/servicios-app/backend/internal/infrastructure/observability"
)

// AuthService defines the credential operations used by the handler
type AuthService interface {
	Register(ctx context.Context, in services.RegisterInput) (*services.AuthResult, error)
	Login(ctx context.Context, in services.LoginInput) (*services.AuthResult, error)
	Logout(ctx context.Context, token string) error
}

// AuthHandler handles registration, login and session requests
type AuthHandler struct {
	service AuthService
	limiter *LoginLimiter
	metrics *observability.Metrics
}

// NewAuthHandler creates a new auth handler. limiter may be nil to disable rate limiting.
func NewAuthHandler(service AuthService, limiter *LoginLimiter, metrics *observability.Metrics) *AuthHandler {
	return &AuthHandler{
		service: service,
		limiter: limiter,
		metrics: metrics,
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if !decodeJSON(r, &in) {
		respondWithError(w, http.StatusBadRequest, msgInvalidPayload)
		return
	}

	result, err := h.service.Register(r.Context(), in)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, result)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	if !decodeJSON(r, &in) {
		respondWithError(w, http.StatusBadRequest, msgInvalidPayload)
		return
	}

	if h.limiter != nil {
		username := ""
		if in.Username != nil {
			username = *in.Username
		}
		allowed, retryAfter := h.limiter.Allow(r.Context(), h.limiter.clientIP(r), username)
		if !allowed {
			observability.RecordLoginRejected(r.Context(), h.metrics)
			w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
			respondWithError(w, http.StatusTooManyRequests, "too many login attempts")
			return
		}
	}

	result, err := h.service.Login(r.Context(), in)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context(), middleware.BearerToken(r)); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/auth/me. It must run behind middleware.RequireAuth.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "missing token")
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}
