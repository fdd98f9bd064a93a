package repository

import (
	"context"

	"shopapi/internal/model"
)

// MemberRepository defines data access for members.
type MemberRepository interface {
	// Save inserts a member and returns its generated ID.
	Save(ctx context.Context, m *model.Member) (int64, error)

	// FindByID returns a member by ID.
	FindByID(ctx context.Context, id int64) (*model.Member, error)

	// FindAll returns every member ordered by ID.
	FindAll(ctx context.Context) ([]model.Member, error)

	// FindByName returns all members with the given name.
	FindByName(ctx context.Context, name string) ([]model.Member, error)

	// UpdateName renames a member. Returns sql.ErrNoRows if the member does not exist.
	UpdateName(ctx context.Context, id int64, name string) error

	// Count returns the number of members.
	Count(ctx context.Context) (int, error)
}
