// Package httpapi exposes the account service over a small JSON API. Session
// tokens travel in the X-Session-Token header; policy errors map onto HTTP
// statuses (401 bad credentials, 423 locked, 403 inactive or forbidden).
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/techclub/recruitd/internal/common"
	"github.com/techclub/recruitd/internal/logging"
	"github.com/techclub/recruitd/internal/server/models"
	"github.com/techclub/recruitd/internal/server/services"
)

const sessionHeader = "X-Session-Token"

type Handler struct {
	service *services.AccountService
	logger  logging.Logger
}

func NewHandler(s *services.AccountService, l logging.Logger) *Handler {
	return &Handler{service: s, logger: l.With("module", "httpapi")}
}

// Routes registers every endpoint on the mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.health)
	mux.HandleFunc("POST /api/login", h.login)
	mux.HandleFunc("POST /api/logout", h.logout)
	mux.HandleFunc("GET /api/session", h.session)
	mux.HandleFunc("POST /api/password", h.changePassword)
	mux.HandleFunc("POST /api/accounts", h.createAccount)
	mux.HandleFunc("POST /api/accounts/{id}/deactivate", h.deactivateAccount)
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		var locked *common.LockedError
		switch {
		case errors.As(err, &locked):
			retry := int(time.Until(locked.Until).Seconds())
			if retry < 1 {
				retry = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			writeJSON(w, http.StatusLocked, map[string]any{
				"error":               "account temporarily locked",
				"retry_after_seconds": retry,
			})
		case errors.Is(err, common.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "invalid email or password")
		case errors.Is(err, common.ErrAccountInactive):
			writeError(w, http.StatusForbidden, "account is deactivated")
		default:
			h.logger.Error(r.Context(), "login failed", "error", err.Error())
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: session.ID, ExpiresAt: session.ExpiresAt})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get(sessionHeader)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "missing session token")
		return
	}
	if err := h.service.Revoke(r.Context(), token); err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type accountResponse struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	FirstLogin bool   `json:"first_login"`
}

func toAccountResponse(a *models.Account) accountResponse {
	return accountResponse{
		ID:         a.ID,
		Email:      a.Email,
		Name:       a.Name,
		Role:       a.Role,
		FirstLogin: a.FirstLogin,
	}
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) {
	account, ok := h.authenticate(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toAccountResponse(account))
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	account, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.service.ChangePassword(r.Context(), account, r.Header.Get(sessionHeader), req.CurrentPassword, req.NewPassword)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, common.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "current password is incorrect")
	case errors.Is(err, common.ErrWeakPassword):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(r.Context(), "password change failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

type createAccountRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func (h *Handler) createAccount(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := h.service.CreateAccount(r.Context(), actor, req.Email, req.Name, req.Role)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, toAccountResponse(account))
	case errors.Is(err, common.ErrPermissionDenied):
		writeError(w, http.StatusForbidden, "administrator role required")
	case errors.Is(err, common.ErrDuplicateEmail):
		writeError(w, http.StatusConflict, "email already registered")
	case errors.Is(err, common.ErrorInternal):
		writeError(w, http.StatusInternalServerError, "internal error")
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

func (h *Handler) deactivateAccount(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	err := h.service.Deactivate(r.Context(), actor, r.PathValue("id"))
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, common.ErrPermissionDenied):
		writeError(w, http.StatusForbidden, "administrator role required")
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, "account not found")
	case errors.Is(err, common.ErrorInternal):
		writeError(w, http.StatusInternalServerError, "internal error")
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

// authenticate resolves the session token into its owning account. On
// failure it writes the response itself and returns ok=false.
func (h *Handler) authenticate(w http.ResponseWriter, r *http.Request) (*models.Account, bool) {
	token := r.Header.Get(sessionHeader)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "missing session token")
		return nil, false
	}

	account, err := h.service.Validate(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrSessionExpired):
			writeError(w, http.StatusUnauthorized, "session expired")
		case errors.Is(err, common.ErrAccountInactive):
			writeError(w, http.StatusForbidden, "account is deactivated")
		default:
			h.logger.Error(r.Context(), "session validation failed", "error", err.Error())
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return nil, false
	}
	return account, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
