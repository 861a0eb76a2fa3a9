package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/reefdive/apiserver/internal/services"
	"github.com/reefdive/apiserver/internal/store"
	"github.com/reefdive/apiserver/internal/validation"
	"github.com/reefdive/apiserver/types"
	"go.uber.org/zap"
)

// AuthHandler provides registration, login and profile endpoints.
type AuthHandler struct {
	userService *services.UserService
	validator   *validation.Validator
	logger      *zap.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(userService *services.UserService, v *validation.Validator, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		validator:   v,
		logger:      logger,
	}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(r chi.Router, h *AuthHandler, authn *Authenticator) {
	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)
	r.With(authn.RequireAuth).Get("/auth/profile", h.Profile)
}

type RegisterRequest struct {
	Name     string  `json:"name" validate:"required"`
	Email    string  `json:"email" validate:"required"`
	Password string  `json:"password" validate:"required"`
	Phone    *string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Success bool       `json:"success"`
	Token   string     `json:"token"`
	User    types.User `json:"user"`
}

type ProfileResponse struct {
	User     types.User      `json:"user"`
	Bookings []types.Booking `json:"bookings"`
}

// Register creates a customer account and returns a session token.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Name = h.validator.Sanitize(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Phone != nil {
		phone := strings.TrimSpace(*req.Phone)
		req.Phone = &phone
		if phone == "" {
			req.Phone = nil
		}
	}
	if err := h.validator.Struct(req); err != nil {
		writeServiceError(w, r, h.logger, err, "")
		return
	}

	user, token, err := h.userService.Register(r.Context(), services.Registration{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	})
	if err != nil {
		writeServiceError(w, r, h.logger, err, "")
		return
	}

	writeJSON(w, http.StatusCreated, AuthResponse{Success: true, Token: token, User: user})
}

// Login verifies credentials and returns a session token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := h.validator.Struct(req); err != nil {
		writeServiceError(w, r, h.logger, err, "")
		return
	}

	user, token, err := h.userService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "")
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{Success: true, Token: token, User: user})
}

// Profile returns the caller with their most recent bookings.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	claim, ok := ClaimFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, bookings, err := h.userService.Profile(r.Context(), claim)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		writeInternal(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, ProfileResponse{User: user, Bookings: bookings})
}
