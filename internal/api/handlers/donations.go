package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/planetcare/server/internal/api/problem"
	"github.com/planetcare/server/internal/domain/donations"
)

const maxDonationBodyBytes = 1 << 20

type DonationsHandler struct {
	Service *donations.Service
	Env     string
}

func NewDonationsHandler(service *donations.Service, env string) *DonationsHandler {
	return &DonationsHandler{Service: service, Env: env}
}

type donationResponse struct {
	ID string `json:"id"`
}

// Create appends the posted donation record verbatim.
func (h *DonationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxDonationBodyBytes))
	if err != nil {
		problem.Write(w, r, http.StatusBadRequest, "https://planetcare.events/problems/validation-error", "Invalid request", err, h.Env)
		return
	}

	donation, err := h.Service.Record(r.Context(), json.RawMessage(body))
	if err != nil {
		if errors.Is(err, donations.ErrInvalidPayload) {
			problem.Write(w, r, http.StatusBadRequest, "https://planetcare.events/problems/validation-error", "Invalid request", err, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, "https://planetcare.events/problems/server-error", "Server error", err, h.Env)
		return
	}
	writeJSON(w, http.StatusCreated, donationResponse{ID: donation.ULID})
}

// ListByEmail returns the donation records stored for a donor email.
func (h *DonationsHandler) ListByEmail(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(pathParam(r, "email"))
	if email == "" {
		problem.Write(w, r, http.StatusBadRequest, "https://planetcare.events/problems/validation-error", "Invalid request", nil, h.Env, problem.WithDetail("email is required"))
		return
	}

	items, err := h.Service.ListByEmail(r.Context(), email)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, "https://planetcare.events/problems/server-error", "Server error", err, h.Env)
		return
	}

	payloads := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		payloads = append(payloads, item.Payload)
	}
	writeJSON(w, http.StatusOK, payloads)
}
