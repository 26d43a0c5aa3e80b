package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/planetcare/server/internal/api/problem"
	"github.com/planetcare/server/internal/domain/users"
)

type UsersHandler struct {
	Service *users.Service
	Env     string
}

func NewUsersHandler(service *users.Service, env string) *UsersHandler {
	return &UsersHandler{Service: service, Env: env}
}

type createUserRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role"`
}

func toUserResponse(user users.User) userResponse {
	return userResponse{
		ID:    user.ULID,
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	}
}

// Create registers a user. Posting the same email twice is a no-op
// success, not an error.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		problem.Write(w, r, http.StatusBadRequest, "https://planetcare.events/problems/validation-error", "Invalid request", err, h.Env)
		return
	}
	if err := validate.Struct(input); err != nil {
		problem.Write(w, r, http.StatusBadRequest, "https://planetcare.events/problems/validation-error", "Invalid request", err, h.Env)
		return
	}

	user, created, err := h.Service.Register(r.Context(), input.Email, input.Name)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, "https://planetcare.events/problems/server-error", "Server error", err, h.Env)
		return
	}
	if !created {
		writeJSON(w, http.StatusOK, map[string]string{"message": "user already exists"})
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(*user))
}
