package events

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("event not found")

var ErrAlreadyVolunteer = errors.New("already registered as volunteer")

type Event struct {
	ID          string
	ULID        string
	Name        string
	Description string
	ImageURL    string
	Location    string
	EventDate   time.Time
	Volunteers  []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CreateParams struct {
	ULID        string
	Name        string
	Description string
	ImageURL    string
	Location    string
	EventDate   time.Time
}

type Repository interface {
	List(ctx context.Context) ([]Event, error)
	GetByULID(ctx context.Context, ulid string) (*Event, error)
	ListByVolunteer(ctx context.Context, email string) ([]Event, error)
	// AddVolunteer appends email to the event's volunteers sequence with
	// a single conditional write, so two concurrent calls for the same
	// email cannot both commit. Returns ErrNotFound when no event has
	// the given ulid and ErrAlreadyVolunteer when the email is already
	// present; in both cases nothing is mutated.
	AddVolunteer(ctx context.Context, ulid, email string) (*Event, error)
	Create(ctx context.Context, params CreateParams) (*Event, error)
}
