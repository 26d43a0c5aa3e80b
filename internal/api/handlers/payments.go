package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/planetcare/server/internal/api/problem"
	"github.com/planetcare/server/internal/payments"
)

type PaymentsHandler struct {
	Intents payments.IntentClient
	Env     string
}

func NewPaymentsHandler(intents payments.IntentClient, env string) *PaymentsHandler {
	return &PaymentsHandler{Intents: intents, Env: env}
}

type intentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

// CreateIntent converts the posted major-unit amount to minor units and
// asks the processor for a payment intent. Only the intent's client
// secret goes back to the caller; neither amount nor intent is stored.
func (h *PaymentsHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Amount any `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		problem.Write(w, r, http.StatusBadRequest, "https://planetcare.events/problems/validation-error", "Invalid request", err, h.Env)
		return
	}

	amount, err := amountString(input.Amount)
	if err != nil {
		problem.Write(w, r, http.StatusBadRequest, "https://planetcare.events/problems/validation-error", "Invalid request", err, h.Env)
		return
	}

	amountMinor, err := payments.MinorUnits(amount)
	if err != nil {
		problem.Write(w, r, http.StatusBadRequest, "https://planetcare.events/problems/validation-error", "Invalid request", err, h.Env)
		return
	}

	clientSecret, err := h.Intents.CreateIntent(r.Context(), amountMinor)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, "https://planetcare.events/problems/server-error", "Server error", err, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, intentResponse{ClientSecret: clientSecret})
}

// amountString accepts the amount as either a JSON string or number,
// matching what the frontend has historically sent.
func amountString(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case nil:
		return "", errors.New("amount is required")
	default:
		return "", fmt.Errorf("amount must be a string or number, got %T", value)
	}
}
