package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/calendar-copilot/internal/application"
)

// AuthHandler serves account registration, login, logout, and the current-user
// endpoint.
type AuthHandler struct {
	auth      *application.AuthService
	responder responder
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(auth *application.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:      auth,
		responder: newResponder(logger),
	}
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, req *http.Request) {
	var body registerRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		h.responder.writeError(req.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	user, err := h.auth.Register(req.Context(), application.RegisterParams{
		Email:     body.Email,
		Password:  body.Password,
		FirstName: body.FirstName,
		LastName:  body.LastName,
	})
	if err != nil {
		h.responder.handleServiceError(req.Context(), w, err)
		return
	}

	h.responder.writeJSON(req.Context(), w, http.StatusCreated, toUserView(user))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login. A successful login sets the session
// cookie and returns the account record.
func (h *AuthHandler) Login(w http.ResponseWriter, req *http.Request) {
	var body loginRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		h.responder.writeError(req.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	result, err := h.auth.Login(req.Context(), application.LoginParams{
		Email:    body.Email,
		Password: body.Password,
	})
	if err != nil {
		h.responder.handleServiceError(req.Context(), w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    result.Session.Token,
		Path:     "/",
		Expires:  result.Session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	h.responder.writeJSON(req.Context(), w, http.StatusOK, toUserView(result.User))
}

// Logout handles POST /api/auth/logout. The session is revoked server-side
// and the cookie cleared.
func (h *AuthHandler) Logout(w http.ResponseWriter, req *http.Request) {
	token := sessionToken(req)
	if token == "" {
		h.responder.writeError(req.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	if err := h.auth.Logout(req.Context(), token); err != nil {
		h.responder.handleServiceError(req.Context(), w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	h.responder.writeJSON(req.Context(), w, http.StatusOK, successResponse{Success: true})
}

// CurrentUser handles GET /api/auth/user.
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, req *http.Request) {
	principal, ok := PrincipalFromContext(req.Context())
	if !ok {
		h.responder.writeError(req.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	user, err := h.auth.CurrentUser(req.Context(), principal)
	if err != nil {
		h.responder.handleServiceError(req.Context(), w, err)
		return
	}

	h.responder.writeJSON(req.Context(), w, http.StatusOK, toUserView(user))
}
