package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/planetcare/server/internal/domain/events"
	"github.com/planetcare/server/internal/domain/users"
)

func newAdminHandler(usersRepo *stubUsersRepo, eventsRepo *stubEventsRepo) *AdminHandler {
	return NewAdminHandler(users.NewService(usersRepo), events.NewService(eventsRepo), "test")
}

func TestAdminListUsers(t *testing.T) {
	handler := newAdminHandler(&stubUsersRepo{byEmail: map[string]users.User{
		"alice@example.com": {ULID: "01HX0000000000000000000000", Email: "alice@example.com", Role: users.RoleAdmin},
	}}, &stubEventsRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
	rec := httptest.NewRecorder()
	handler.ListUsers(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body []userResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body, 1)
	require.Equal(t, "alice@example.com", body[0].Email)
}

func TestAdminAssignRole(t *testing.T) {
	repo := &stubUsersRepo{byEmail: map[string]users.User{
		"bob@example.com": {ULID: "01HX0000000000000000000001", Email: "bob@example.com", Role: users.RoleMember},
	}}
	handler := newAdminHandler(repo, &stubEventsRepo{})

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/users/bob@example.com/role", strings.NewReader(`{"role":"admin"}`))
	req.SetPathValue("email", "bob@example.com")
	rec := httptest.NewRecorder()
	handler.AssignRole(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, users.RoleAdmin, repo.byEmail["bob@example.com"].Role)
}

func TestAdminAssignRoleUnknownUser(t *testing.T) {
	handler := newAdminHandler(&stubUsersRepo{byEmail: map[string]users.User{}}, &stubEventsRepo{})

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/users/ghost@example.com/role", strings.NewReader(`{"role":"admin"}`))
	req.SetPathValue("email", "ghost@example.com")
	rec := httptest.NewRecorder()
	handler.AssignRole(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "User not found")
}

func TestAdminAssignRoleRejectsUnknownRole(t *testing.T) {
	handler := newAdminHandler(&stubUsersRepo{byEmail: map[string]users.User{
		"bob@example.com": {Email: "bob@example.com", Role: users.RoleMember},
	}}, &stubEventsRepo{})

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/users/bob@example.com/role", strings.NewReader(`{"role":"superuser"}`))
	req.SetPathValue("email", "bob@example.com")
	rec := httptest.NewRecorder()
	handler.AssignRole(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminCreateEvent(t *testing.T) {
	eventsRepo := &stubEventsRepo{byULID: map[string]events.Event{}}
	handler := newAdminHandler(&stubUsersRepo{}, eventsRepo)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/events", strings.NewReader(`{"name":"Beach Cleanup","eventDate":"2026-10-01T09:00:00Z"}`))
	rec := httptest.NewRecorder()
	handler.CreateEvent(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var body eventResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, "Beach Cleanup", body.Name)
	require.NotEmpty(t, body.ID)
	require.Len(t, eventsRepo.byULID, 1)
}

func TestAdminCreateEventRequiresName(t *testing.T) {
	handler := newAdminHandler(&stubUsersRepo{}, &stubEventsRepo{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/events", strings.NewReader(`{"eventDate":"2026-10-01T09:00:00Z"}`))
	rec := httptest.NewRecorder()
	handler.CreateEvent(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
