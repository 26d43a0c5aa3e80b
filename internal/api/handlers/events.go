package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/planetcare/server/internal/api/problem"
	"github.com/planetcare/server/internal/domain/events"
	"github.com/planetcare/server/internal/domain/ids"
)

type EventsHandler struct {
	Service *events.Service
	Env     string
}

func NewEventsHandler(service *events.Service, env string) *EventsHandler {
	return &EventsHandler{Service: service, Env: env}
}

type eventResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Location    string    `json:"location,omitempty"`
	EventDate   time.Time `json:"eventDate"`
	Volunteers  []string  `json:"volunteers"`
}

func toEventResponse(event events.Event) eventResponse {
	volunteers := event.Volunteers
	if volunteers == nil {
		volunteers = []string{}
	}
	return eventResponse{
		ID:          event.ULID,
		Name:        event.Name,
		Description: event.Description,
		ImageURL:    event.ImageURL,
		Location:    event.Location,
		EventDate:   event.EventDate,
		Volunteers:  volunteers,
	}
}

func toEventResponses(items []events.Event) []eventResponse {
	out := make([]eventResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toEventResponse(item))
	}
	return out
}

func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.Service.List(r.Context())
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, "https://planetcare.events/problems/server-error", "Server error", err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponses(result))
}

func (h *EventsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ulidValue := strings.TrimSpace(pathParam(r, "id"))
	if err := ids.ValidateULID(ulidValue); err != nil {
		problem.Write(w, r, http.StatusBadRequest, "https://planetcare.events/problems/validation-error", "Invalid request", err, h.Env)
		return
	}

	item, err := h.Service.GetByULID(r.Context(), ulidValue)
	if err != nil {
		if errors.Is(err, events.ErrNotFound) {
			problem.Write(w, r, http.StatusNotFound, "https://planetcare.events/problems/not-found", "Not found", err, h.Env, problem.WithDetail("Event not found"))
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, "https://planetcare.events/problems/server-error", "Server error", err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponse(*item))
}

type volunteerRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// Volunteer registers the posted email for the event. A missing event
// is a 404 before any mutation is attempted; a repeat registration is
// rejected without touching the stored sequence.
func (h *EventsHandler) Volunteer(w http.ResponseWriter, r *http.Request) {
	ulidValue := strings.TrimSpace(pathParam(r, "id"))
	if err := ids.ValidateULID(ulidValue); err != nil {
		problem.Write(w, r, http.StatusBadRequest, "https://planetcare.events/problems/validation-error", "Invalid request", err, h.Env)
		return
	}

	var input volunteerRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		problem.Write(w, r, http.StatusBadRequest, "https://planetcare.events/problems/validation-error", "Invalid request", err, h.Env)
		return
	}
	if err := validate.Struct(input); err != nil {
		problem.Write(w, r, http.StatusBadRequest, "https://planetcare.events/problems/validation-error", "Invalid request", err, h.Env)
		return
	}

	event, err := h.Service.Volunteer(r.Context(), ulidValue, input.Email)
	if err != nil {
		switch {
		case errors.Is(err, events.ErrNotFound):
			problem.Write(w, r, http.StatusNotFound, "https://planetcare.events/problems/not-found", "Not found", err, h.Env, problem.WithDetail("Event not found"))
		case errors.Is(err, events.ErrAlreadyVolunteer):
			problem.Write(w, r, http.StatusBadRequest, "https://planetcare.events/problems/validation-error", "Already a volunteer", err, h.Env, problem.WithDetail("Already registered as volunteer"))
		default:
			problem.Write(w, r, http.StatusInternalServerError, "https://planetcare.events/problems/server-error", "Server error", err, h.Env)
		}
		return
	}
	writeJSON(w, http.StatusOK, toEventResponse(*event))
}

func (h *EventsHandler) Volunteered(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(pathParam(r, "email"))
	if email == "" {
		problem.Write(w, r, http.StatusBadRequest, "https://planetcare.events/problems/validation-error", "Invalid request", errors.New("email is required"), h.Env)
		return
	}

	result, err := h.Service.ListVolunteered(r.Context(), email)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, "https://planetcare.events/problems/server-error", "Server error", err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponses(result))
}
