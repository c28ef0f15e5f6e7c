package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/eqsched/eqsched/internal/rest"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionDTO struct {
	Token       string `json:"token"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	TrainerName string `json:"trainerName,omitempty"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	session, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnauthorized):
			rest.WriteError(w, http.StatusForbidden, "Access denied", "You are not authorized to access this application")
		case errors.Is(err, ErrInvalidCredentials):
			rest.WriteError(w, http.StatusUnauthorized, "Incorrect password", "")
		default:
			log.Errorf("login failed: %v", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	rest.WriteJSON(w, http.StatusOK, sessionDTO{
		Token:       session.Token,
		Email:       session.Identity.Email,
		Role:        string(session.Identity.Role),
		TrainerName: session.Identity.TrainerName,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token, err := ExtractTokenFromRequest(r)
	if err != nil {
		rest.WriteError(w, http.StatusUnauthorized, "Missing session token", err.Error())
		return
	}
	if err := h.service.Logout(r.Context(), token); err != nil {
		rest.WriteError(w, http.StatusUnauthorized, "Invalid session token", "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type changePasswordRequest struct {
	Email           string `json:"email"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err := h.service.ChangePassword(r.Context(), req.Email, req.CurrentPassword, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnauthorized):
			rest.WriteError(w, http.StatusForbidden, "Email not found", "")
		case errors.Is(err, ErrInvalidCredentials):
			rest.WriteError(w, http.StatusUnauthorized, "Incorrect current password", "")
		case errors.Is(err, ErrPasswordMismatch), errors.Is(err, ErrPasswordTooShort):
			rest.WriteError(w, http.StatusBadRequest, err.Error(), "")
		default:
			log.Errorf("password change failed: %v", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
