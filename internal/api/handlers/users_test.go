package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/planetcare/server/internal/domain/users"
)

type stubUsersRepo struct {
	byEmail map[string]users.User
	err     error
}

func (s *stubUsersRepo) Create(ctx context.Context, params users.CreateParams) (*users.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if _, ok := s.byEmail[params.Email]; ok {
		return nil, users.ErrAlreadyExists
	}
	if s.byEmail == nil {
		s.byEmail = map[string]users.User{}
	}
	u := users.User{ULID: params.ULID, Email: params.Email, Name: params.Name, Role: params.Role}
	s.byEmail[params.Email] = u
	return &u, nil
}

func (s *stubUsersRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.byEmail[email]
	if !ok {
		return nil, users.ErrNotFound
	}
	return &u, nil
}

func (s *stubUsersRepo) List(ctx context.Context) ([]users.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]users.User, 0, len(s.byEmail))
	for _, u := range s.byEmail {
		out = append(out, u)
	}
	return out, nil
}

func (s *stubUsersRepo) UpdateRole(ctx context.Context, email, role string) (*users.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.byEmail[email]
	if !ok {
		return nil, users.ErrNotFound
	}
	u.Role = role
	s.byEmail[email] = u
	return &u, nil
}

func TestCreateUserRegistersMember(t *testing.T) {
	repo := &stubUsersRepo{byEmail: map[string]users.User{}}
	handler := NewUsersHandler(users.NewService(repo), "test")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", strings.NewReader(`{"email":"Alice@Example.com","name":"Alice"}`))
	rec := httptest.NewRecorder()
	handler.Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var body userResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, "alice@example.com", body.Email)
	require.Equal(t, users.RoleMember, body.Role)
	require.NotEmpty(t, body.ID)
}

func TestCreateUserIdempotentOnEmail(t *testing.T) {
	repo := &stubUsersRepo{byEmail: map[string]users.User{}}
	handler := NewUsersHandler(users.NewService(repo), "test")

	first := httptest.NewRequest(http.MethodPost, "/api/v1/users", strings.NewReader(`{"email":"alice@example.com","name":"Alice"}`))
	rec := httptest.NewRecorder()
	handler.Create(rec, first)
	require.Equal(t, http.StatusCreated, rec.Code)

	second := httptest.NewRequest(http.MethodPost, "/api/v1/users", strings.NewReader(`{"email":"alice@example.com","name":"Someone Else"}`))
	rec = httptest.NewRecorder()
	handler.Create(rec, second)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "user already exists")
	require.Equal(t, "Alice", repo.byEmail["alice@example.com"].Name)
}

func TestCreateUserRejectsBadEmail(t *testing.T) {
	handler := NewUsersHandler(users.NewService(&stubUsersRepo{}), "test")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", strings.NewReader(`{"email":"not-an-email"}`))
	rec := httptest.NewRecorder()
	handler.Create(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
