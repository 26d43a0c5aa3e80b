package users

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("user not found")

var ErrAlreadyExists = errors.New("user already exists")

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

type User struct {
	ID        string
	ULID      string
	Email     string
	Name      string
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CreateParams struct {
	ULID  string
	Email string
	Name  string
	Role  string
}

type Repository interface {
	// Create inserts a new user. Returns ErrAlreadyExists when a record
	// with the same email is already present; the store is not mutated.
	Create(ctx context.Context, params CreateParams) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)
	UpdateRole(ctx context.Context, email, role string) (*User, error)
}
