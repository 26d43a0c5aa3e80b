package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/planetcare/server/internal/domain/events"
	"github.com/planetcare/server/internal/domain/ids"
)

type stubEventsRepo struct {
	byULID map[string]events.Event
	err    error
}

func (s *stubEventsRepo) List(ctx context.Context) ([]events.Event, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]events.Event, 0, len(s.byULID))
	for _, e := range s.byULID {
		out = append(out, e)
	}
	return out, nil
}

func (s *stubEventsRepo) GetByULID(ctx context.Context, ulid string) (*events.Event, error) {
	if s.err != nil {
		return nil, s.err
	}
	e, ok := s.byULID[ulid]
	if !ok {
		return nil, events.ErrNotFound
	}
	return &e, nil
}

func (s *stubEventsRepo) ListByVolunteer(ctx context.Context, email string) ([]events.Event, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []events.Event
	for _, e := range s.byULID {
		for _, v := range e.Volunteers {
			if v == email {
				out = append(out, e)
				break
			}
		}
	}
	return out, nil
}

func (s *stubEventsRepo) AddVolunteer(ctx context.Context, ulid, email string) (*events.Event, error) {
	if s.err != nil {
		return nil, s.err
	}
	e, ok := s.byULID[ulid]
	if !ok {
		return nil, events.ErrNotFound
	}
	for _, v := range e.Volunteers {
		if v == email {
			return nil, events.ErrAlreadyVolunteer
		}
	}
	e.Volunteers = append(e.Volunteers, email)
	s.byULID[ulid] = e
	return &e, nil
}

func (s *stubEventsRepo) Create(ctx context.Context, params events.CreateParams) (*events.Event, error) {
	if s.err != nil {
		return nil, s.err
	}
	e := events.Event{
		ULID:      params.ULID,
		Name:      params.Name,
		EventDate: params.EventDate,
	}
	if s.byULID == nil {
		s.byULID = map[string]events.Event{}
	}
	s.byULID[params.ULID] = e
	return &e, nil
}

func newEventsHandler(t *testing.T, repo *stubEventsRepo) *EventsHandler {
	t.Helper()
	return NewEventsHandler(events.NewService(repo), "test")
}

func mintULID(t *testing.T) string {
	t.Helper()
	id, err := ids.NewULID()
	require.NoError(t, err)
	return id
}

func TestEventsListNeverReturnsNullVolunteers(t *testing.T) {
	id := mintULID(t)
	handler := newEventsHandler(t, &stubEventsRepo{byULID: map[string]events.Event{
		id: {ULID: id, Name: "Beach Cleanup", EventDate: time.Now()},
	}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"volunteers":[]`)
}

func TestEventsGetUnknownID(t *testing.T) {
	handler := newEventsHandler(t, &stubEventsRepo{byULID: map[string]events.Event{}})

	id := mintULID(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/"+id, nil)
	req.SetPathValue("id", id)
	rec := httptest.NewRecorder()
	handler.Get(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "Event not found")
}

func TestEventsGetRejectsMalformedID(t *testing.T) {
	handler := newEventsHandler(t, &stubEventsRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/not-a-ulid", nil)
	req.SetPathValue("id", "not-a-ulid")
	rec := httptest.NewRecorder()
	handler.Get(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVolunteerAppendsEmail(t *testing.T) {
	id := mintULID(t)
	repo := &stubEventsRepo{byULID: map[string]events.Event{
		id: {ULID: id, Name: "Tree Planting", EventDate: time.Now()},
	}}
	handler := newEventsHandler(t, repo)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/events/"+id, strings.NewReader(`{"email":"Bob@Example.com"}`))
	req.SetPathValue("id", id)
	rec := httptest.NewRecorder()
	handler.Volunteer(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body eventResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, []string{"bob@example.com"}, body.Volunteers)
}

func TestVolunteerRepeatRegistration(t *testing.T) {
	id := mintULID(t)
	handler := newEventsHandler(t, &stubEventsRepo{byULID: map[string]events.Event{
		id: {ULID: id, Name: "Tree Planting", EventDate: time.Now(), Volunteers: []string{"bob@example.com"}},
	}})

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/events/"+id, strings.NewReader(`{"email":"bob@example.com"}`))
	req.SetPathValue("id", id)
	rec := httptest.NewRecorder()
	handler.Volunteer(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Already registered as volunteer")
}

func TestVolunteerUnknownEventBeatsValidation(t *testing.T) {
	handler := newEventsHandler(t, &stubEventsRepo{byULID: map[string]events.Event{}})

	id := mintULID(t)
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/events/"+id, strings.NewReader(`{"email":"bob@example.com"}`))
	req.SetPathValue("id", id)
	rec := httptest.NewRecorder()
	handler.Volunteer(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "Event not found")
}

func TestVolunteerRequiresEmail(t *testing.T) {
	id := mintULID(t)
	handler := newEventsHandler(t, &stubEventsRepo{byULID: map[string]events.Event{
		id: {ULID: id, Name: "Tree Planting", EventDate: time.Now()},
	}})

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/events/"+id, strings.NewReader(`{}`))
	req.SetPathValue("id", id)
	rec := httptest.NewRecorder()
	handler.Volunteer(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVolunteeredListsOnlyMatchingEvents(t *testing.T) {
	first := mintULID(t)
	second := mintULID(t)
	handler := newEventsHandler(t, &stubEventsRepo{byULID: map[string]events.Event{
		first:  {ULID: first, Name: "Cleanup", EventDate: time.Now(), Volunteers: []string{"bob@example.com"}},
		second: {ULID: second, Name: "Planting", EventDate: time.Now()},
	}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/volunteered/bob@example.com", nil)
	req.SetPathValue("email", "bob@example.com")
	rec := httptest.NewRecorder()
	handler.Volunteered(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body []eventResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body, 1)
	require.Equal(t, first, body[0].ID)
}
