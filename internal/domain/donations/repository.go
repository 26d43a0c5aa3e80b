package donations

import (
	"context"
	"encoding/json"
	"time"
)

// Donation is an append-only record of a completed donation flow. The
// posted body is preserved verbatim in Payload; Email and AmountCents
// are best-effort extracts for querying.
type Donation struct {
	ID          string
	ULID        string
	Email       string
	AmountCents int64
	Payload     json.RawMessage
	CreatedAt   time.Time
}

type CreateParams struct {
	ULID        string
	Email       string
	AmountCents int64
	Payload     json.RawMessage
}

type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Donation, error)
	ListByEmail(ctx context.Context, email string) ([]Donation, error)
}
