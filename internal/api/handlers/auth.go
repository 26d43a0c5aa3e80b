package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/planetcare/server/internal/api/problem"
	"github.com/planetcare/server/internal/auth"
)

// SessionCookieName is the cookie the frontend holds the JWT in.
const SessionCookieName = "token"

type AuthHandler struct {
	Manager *auth.JWTManager
	Env     string
}

func NewAuthHandler(manager *auth.JWTManager, env string) *AuthHandler {
	return &AuthHandler{Manager: manager, Env: env}
}

type tokenRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// IssueToken signs the posted identity claims into a session token.
// The identity is not checked against the user store; validity is
// purely cryptographic and time based.
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var input tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		problem.Write(w, r, http.StatusBadRequest, "https://planetcare.events/problems/validation-error", "Invalid request", err, h.Env)
		return
	}
	if err := validate.Struct(input); err != nil {
		problem.Write(w, r, http.StatusBadRequest, "https://planetcare.events/problems/validation-error", "Invalid request", err, h.Env)
		return
	}

	token, err := h.Manager.Generate(input.Email, input.Name)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, "https://planetcare.events/problems/server-error", "Server error", err, h.Env)
		return
	}

	http.SetCookie(w, h.sessionCookie(token, 0))
	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

// Logout clears the session cookie. Tokens stay valid until expiry;
// nothing is revoked server side because no session state is kept.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.sessionCookie("", -1))
	writeJSON(w, http.StatusOK, map[string]string{"message": "cookie cleared"})
}

func (h *AuthHandler) sessionCookie(value string, maxAge int) *http.Cookie {
	production := h.Env == "production"
	sameSite := http.SameSiteStrictMode
	if production {
		sameSite = http.SameSiteNoneMode
	}
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   production,
		SameSite: sameSite,
	}
}
