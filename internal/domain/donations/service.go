package donations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/planetcare/server/internal/domain/ids"
)

var ErrInvalidPayload = errors.New("donation payload must be a JSON document")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Record appends the posted donation body verbatim. Email and amount
// are lifted out of the payload when present so the record can be
// listed per donor; absence of either is not an error.
func (s *Service) Record(ctx context.Context, payload json.RawMessage) (*Donation, error) {
	if len(payload) == 0 || !json.Valid(payload) {
		return nil, ErrInvalidPayload
	}

	ulid, err := ids.NewULID()
	if err != nil {
		return nil, fmt.Errorf("record donation: mint ulid: %w", err)
	}

	email, amountCents := extractHints(payload)
	return s.repo.Create(ctx, CreateParams{
		ULID:        ulid,
		Email:       email,
		AmountCents: amountCents,
		Payload:     payload,
	})
}

func (s *Service) ListByEmail(ctx context.Context, email string) ([]Donation, error) {
	return s.repo.ListByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
}

func extractHints(payload json.RawMessage) (string, int64) {
	var hints struct {
		Email  string      `json:"email"`
		Amount json.Number `json:"amount"`
	}
	if err := json.Unmarshal(payload, &hints); err != nil {
		return "", 0
	}

	email := strings.TrimSpace(strings.ToLower(hints.Email))

	var amountCents int64
	if value, err := hints.Amount.Float64(); err == nil {
		amountCents = int64(math.Round(value * 100))
	}
	return email, amountCents
}
