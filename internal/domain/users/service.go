package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/planetcare/server/internal/domain/ids"
)

var ErrInvalidRole = errors.New("invalid role")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a user with the member role. Registration is
// idempotent on email: a second call with the same email reports
// created=false and leaves the stored record untouched.
func (s *Service) Register(ctx context.Context, email, name string) (*User, bool, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, false, fmt.Errorf("register: email is required")
	}

	ulid, err := ids.NewULID()
	if err != nil {
		return nil, false, fmt.Errorf("register: mint ulid: %w", err)
	}

	user, err := s.repo.Create(ctx, CreateParams{
		ULID:  ulid,
		Email: email,
		Name:  strings.TrimSpace(name),
		Role:  RoleMember,
	})
	if errors.Is(err, ErrAlreadyExists) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
}

// IsAdmin reports whether a stored record exists for email with role
// exactly "admin". A missing record is not an error; it is a denial.
func (s *Service) IsAdmin(ctx context.Context, email string) (bool, error) {
	user, err := s.repo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return user.Role == RoleAdmin, nil
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

func (s *Service) AssignRole(ctx context.Context, email, role string) (*User, error) {
	switch role {
	case RoleMember, RoleAdmin:
	default:
		return nil, ErrInvalidRole
	}
	return s.repo.UpdateRole(ctx, strings.TrimSpace(strings.ToLower(email)), role)
}
