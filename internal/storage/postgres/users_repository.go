package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/planetcare/server/internal/domain/users"
)

var _ users.Repository = (*UserRepository)(nil)

type userRow struct {
	ID        string
	ULID      string
	Email     string
	Name      string
	Role      string
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}

const userColumns = `id, ulid, email, name, role, created_at, updated_at`

func (r *UserRepository) Create(ctx context.Context, params users.CreateParams) (*users.User, error) {
	queryer := r.queryer()
	row := queryer.QueryRow(ctx, `
INSERT INTO users (id, ulid, email, name, role, created_at, updated_at)
VALUES (gen_random_uuid(), $1, $2, $3, $4, now(), now())
ON CONFLICT (email) DO NOTHING
RETURNING `+userColumns, params.ULID, params.Email, params.Name, params.Role)

	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, users.ErrAlreadyExists
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	queryer := r.queryer()
	row := queryer.QueryRow(ctx, `
SELECT `+userColumns+`
  FROM users
 WHERE email = $1
 LIMIT 1
`, email)

	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, users.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

func (r *UserRepository) List(ctx context.Context) ([]users.User, error) {
	queryer := r.queryer()
	rows, err := queryer.Query(ctx, `
SELECT `+userColumns+`
  FROM users
 ORDER BY created_at ASC
`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var items []users.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		items = append(items, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return items, nil
}

func (r *UserRepository) UpdateRole(ctx context.Context, email, role string) (*users.User, error) {
	queryer := r.queryer()
	row := queryer.QueryRow(ctx, `
UPDATE users
   SET role = $2, updated_at = now()
 WHERE email = $1
RETURNING `+userColumns, email, role)

	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, users.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update user role: %w", err)
	}
	return user, nil
}

func scanUser(row pgx.Row) (*users.User, error) {
	var data userRow
	if err := row.Scan(
		&data.ID,
		&data.ULID,
		&data.Email,
		&data.Name,
		&data.Role,
		&data.CreatedAt,
		&data.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &users.User{
		ID:        data.ID,
		ULID:      data.ULID,
		Email:     data.Email,
		Name:      data.Name,
		Role:      data.Role,
		CreatedAt: data.CreatedAt.Time,
		UpdatedAt: data.UpdatedAt.Time,
	}, nil
}

func (r *UserRepository) queryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}
