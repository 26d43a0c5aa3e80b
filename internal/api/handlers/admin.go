package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/planetcare/server/internal/api/problem"
	"github.com/planetcare/server/internal/domain/events"
	"github.com/planetcare/server/internal/domain/users"
)

// AdminHandler serves the admin-gated surface. The router wires every
// method here behind RequireAuth and RequireAdmin.
type AdminHandler struct {
	Users  *users.Service
	Events *events.Service
	Env    string
}

func NewAdminHandler(userService *users.Service, eventService *events.Service, env string) *AdminHandler {
	return &AdminHandler{Users: userService, Events: eventService, Env: env}
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	items, err := h.Users.List(r.Context())
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, "https://planetcare.events/problems/server-error", "Server error", err, h.Env)
		return
	}

	out := make([]userResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toUserResponse(item))
	}
	writeJSON(w, http.StatusOK, out)
}

type assignRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=member admin"`
}

func (h *AdminHandler) AssignRole(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(pathParam(r, "email"))
	if email == "" {
		problem.Write(w, r, http.StatusBadRequest, "https://planetcare.events/problems/validation-error", "Invalid request", errors.New("email is required"), h.Env)
		return
	}

	var input assignRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		problem.Write(w, r, http.StatusBadRequest, "https://planetcare.events/problems/validation-error", "Invalid request", err, h.Env)
		return
	}
	if err := validate.Struct(input); err != nil {
		problem.Write(w, r, http.StatusBadRequest, "https://planetcare.events/problems/validation-error", "Invalid request", err, h.Env)
		return
	}

	user, err := h.Users.AssignRole(r.Context(), email, input.Role)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrNotFound):
			problem.Write(w, r, http.StatusNotFound, "https://planetcare.events/problems/not-found", "Not found", err, h.Env, problem.WithDetail("User not found"))
		case errors.Is(err, users.ErrInvalidRole):
			problem.Write(w, r, http.StatusBadRequest, "https://planetcare.events/problems/validation-error", "Invalid request", err, h.Env)
		default:
			problem.Write(w, r, http.StatusInternalServerError, "https://planetcare.events/problems/server-error", "Server error", err, h.Env)
		}
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(*user))
}

type createEventRequest struct {
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl" validate:"omitempty,url"`
	Location    string    `json:"location"`
	EventDate   time.Time `json:"eventDate" validate:"required"`
}

func (h *AdminHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var input createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		problem.Write(w, r, http.StatusBadRequest, "https://planetcare.events/problems/validation-error", "Invalid request", err, h.Env)
		return
	}
	if err := validate.Struct(input); err != nil {
		problem.Write(w, r, http.StatusBadRequest, "https://planetcare.events/problems/validation-error", "Invalid request", err, h.Env)
		return
	}

	event, err := h.Events.Create(r.Context(), events.CreateInput{
		Name:        input.Name,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		Location:    input.Location,
		EventDate:   input.EventDate,
	})
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, "https://planetcare.events/problems/server-error", "Server error", err, h.Env)
		return
	}
	writeJSON(w, http.StatusCreated, toEventResponse(*event))
}
