package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/clinicdesk/receptionist/internal/auth"
	"github.com/clinicdesk/receptionist/internal/users"
	"github.com/clinicdesk/receptionist/pkg/logging"
)

// AuthHandler exposes account registration and login.
type AuthHandler struct {
	svc    *auth.Service
	logger *logging.Logger
}

func NewAuthHandler(svc *auth.Service, logger *logging.Logger) *AuthHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AuthHandler{svc: svc, logger: logger}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req users.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.svc.Register(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrEmailTaken):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, users.ErrInvalidName),
			errors.Is(err, users.ErrInvalidEmail),
			errors.Is(err, users.ErrWeakPassword):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("registration failed", "error", err)
			writeError(w, http.StatusServiceUnavailable, "service temporarily unavailable")
		}
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  *users.User `json:"user"`
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, user, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrBadCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		h.logger.Error("login failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, "service temporarily unavailable")
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}
