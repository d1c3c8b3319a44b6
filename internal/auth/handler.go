package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"sweetshop/internal/httpx"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     Role   `json:"role,omitempty"`
}

// RegisterHandler serves POST /api/auth/register.
type RegisterHandler struct {
	Service *Service
	Logger  *slog.Logger
}

func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	u, err := h.Service.Register(r.Context(), req.Username, req.Password, req.Role)
	switch {
	case err == nil:
		httpx.WriteJSON(w, http.StatusCreated, u)
	case errors.Is(err, ErrDuplicateUser):
		httpx.WriteError(w, http.StatusConflict, ErrDuplicateUser.Error())
	case errors.Is(err, ErrInvalidInput):
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		h.Logger.Error("register user", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}

// LoginHandler serves POST /api/auth/login.
type LoginHandler struct {
	Service *Service
	Logger  *slog.Logger
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	resp, err := h.Service.Login(r.Context(), req.Username, req.Password)
	switch {
	case err == nil:
		httpx.WriteJSON(w, http.StatusOK, resp)
	case errors.Is(err, ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, ErrInvalidCredentials.Error())
	default:
		h.Logger.Error("login", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}
