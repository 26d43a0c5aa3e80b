package events

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/planetcare/server/internal/domain/ids"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Event, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByULID(ctx context.Context, ulid string) (*Event, error) {
	return s.repo.GetByULID(ctx, ulid)
}

// Volunteer registers email for the event. The event must exist and the
// email must not already be in its volunteers sequence.
func (s *Service) Volunteer(ctx context.Context, ulid, email string) (*Event, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, fmt.Errorf("volunteer: email is required")
	}
	return s.repo.AddVolunteer(ctx, ulid, email)
}

func (s *Service) ListVolunteered(ctx context.Context, email string) ([]Event, error) {
	return s.repo.ListByVolunteer(ctx, strings.TrimSpace(strings.ToLower(email)))
}

type CreateInput struct {
	Name        string
	Description string
	ImageURL    string
	Location    string
	EventDate   time.Time
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*Event, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("create event: name is required")
	}

	ulid, err := ids.NewULID()
	if err != nil {
		return nil, fmt.Errorf("create event: mint ulid: %w", err)
	}

	return s.repo.Create(ctx, CreateParams{
		ULID:        ulid,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		ImageURL:    input.ImageURL,
		Location:    input.Location,
		EventDate:   input.EventDate,
	})
}
