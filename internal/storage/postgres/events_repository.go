package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/planetcare/server/internal/domain/events"
)

var _ events.Repository = (*EventRepository)(nil)

type eventRow struct {
	ID          string
	ULID        string
	Name        string
	Description *string
	ImageURL    *string
	Location    *string
	EventDate   pgtype.Timestamptz
	Volunteers  []string
	CreatedAt   pgtype.Timestamptz
	UpdatedAt   pgtype.Timestamptz
}

const eventColumns = `id, ulid, name, description, image_url, location, event_date, volunteers, created_at, updated_at`

func (r *EventRepository) List(ctx context.Context) ([]events.Event, error) {
	queryer := r.queryer()
	rows, err := queryer.Query(ctx, `
SELECT `+eventColumns+`
  FROM events
 ORDER BY event_date ASC, ulid ASC
`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

func (r *EventRepository) GetByULID(ctx context.Context, ulid string) (*events.Event, error) {
	queryer := r.queryer()
	row := queryer.QueryRow(ctx, `
SELECT `+eventColumns+`
  FROM events
 WHERE ulid = $1
 LIMIT 1
`, ulid)

	event, err := scanEvent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, events.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (r *EventRepository) ListByVolunteer(ctx context.Context, email string) ([]events.Event, error) {
	queryer := r.queryer()
	rows, err := queryer.Query(ctx, `
SELECT `+eventColumns+`
  FROM events
 WHERE $1 = ANY(volunteers)
 ORDER BY event_date ASC, ulid ASC
`, email)
	if err != nil {
		return nil, fmt.Errorf("list events by volunteer: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

// AddVolunteer appends in one conditional UPDATE. The predicate makes
// the append-if-absent atomic: of two concurrent calls for the same
// email, exactly one matches the row.
func (r *EventRepository) AddVolunteer(ctx context.Context, ulid, email string) (*events.Event, error) {
	queryer := r.queryer()
	row := queryer.QueryRow(ctx, `
UPDATE events
   SET volunteers = array_append(volunteers, $2), updated_at = now()
 WHERE ulid = $1
   AND NOT ($2 = ANY(volunteers))
RETURNING `+eventColumns, ulid, email)

	event, err := scanEvent(row)
	if err == nil {
		return event, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("add volunteer: %w", err)
	}

	// Zero rows matched: the event is missing or the email is already
	// registered. Disambiguate with a point read.
	var exists bool
	if err := queryer.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM events WHERE ulid = $1)`, ulid).Scan(&exists); err != nil {
		return nil, fmt.Errorf("add volunteer: %w", err)
	}
	if !exists {
		return nil, events.ErrNotFound
	}
	return nil, events.ErrAlreadyVolunteer
}

func (r *EventRepository) Create(ctx context.Context, params events.CreateParams) (*events.Event, error) {
	queryer := r.queryer()
	row := queryer.QueryRow(ctx, `
INSERT INTO events (id, ulid, name, description, image_url, location, event_date, volunteers, created_at, updated_at)
VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, '{}', now(), now())
RETURNING `+eventColumns,
		params.ULID,
		params.Name,
		params.Description,
		params.ImageURL,
		params.Location,
		params.EventDate,
	)

	event, err := scanEvent(row)
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func collectEvents(rows pgx.Rows) ([]events.Event, error) {
	var items []events.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		items = append(items, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	return items, nil
}

func scanEvent(row pgx.Row) (*events.Event, error) {
	var data eventRow
	if err := row.Scan(
		&data.ID,
		&data.ULID,
		&data.Name,
		&data.Description,
		&data.ImageURL,
		&data.Location,
		&data.EventDate,
		&data.Volunteers,
		&data.CreatedAt,
		&data.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &events.Event{
		ID:          data.ID,
		ULID:        data.ULID,
		Name:        data.Name,
		Description: derefString(data.Description),
		ImageURL:    derefString(data.ImageURL),
		Location:    derefString(data.Location),
		EventDate:   data.EventDate.Time,
		Volunteers:  data.Volunteers,
		CreatedAt:   data.CreatedAt.Time,
		UpdatedAt:   data.UpdatedAt.Time,
	}, nil
}

func (r *EventRepository) queryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
