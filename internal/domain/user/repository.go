package user

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_repository.go -package=mocks . Repository

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines directory persistence and lookups.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, filter Filter, limit, offset int) ([]*User, error)
	Update(ctx context.Context, u *User) error

	// FindActiveByRoleInDepartment returns the first active user holding the
	// role within the department, or nil when no one does.
	FindActiveByRoleInDepartment(ctx context.Context, roleID, departmentID uuid.UUID) (*User, error)
	// ManagerOf returns the direct manager of the user, one hop up the
	// reporting chain, or nil when the user has no manager.
	ManagerOf(ctx context.Context, userID uuid.UUID) (*User, error)
}

// Filter represents user query filters.
type Filter struct {
	DepartmentID *uuid.UUID
	RoleID       *uuid.UUID
	Status       *Status
}

// RoleRepository defines role persistence.
type RoleRepository interface {
	GetByID(ctx context.Context, roleID uuid.UUID) (*Role, error)
	GetBySlug(ctx context.Context, slug string) (*Role, error)
	List(ctx context.Context) ([]*Role, error)
}

// DepartmentRepository defines department persistence.
type DepartmentRepository interface {
	GetByID(ctx context.Context, departmentID uuid.UUID) (*Department, error)
	List(ctx context.Context) ([]*Department, error)
}
