package postgres

import (
	"context"
	"database/sql"

	"shopapi/internal/model"
	"shopapi/internal/repository"
)

// MemberPostgres is a PostgreSQL implementation of repository.MemberRepository.
type MemberPostgres struct {
	db *sql.DB
}

// NewMemberPostgres creates a new MemberPostgres repository.
func NewMemberPostgres(db *sql.DB) *MemberPostgres {
	return &MemberPostgres{db: db}
}

var _ repository.MemberRepository = (*MemberPostgres)(nil)

const memberColumns = `id, name, city, street, zipcode`

func scanMember(s interface{ Scan(...any) error }) (model.Member, error) {
	var m model.Member
	err := s.Scan(&m.ID, &m.Name, &m.Address.City, &m.Address.Street, &m.Address.Zipcode)
	return m, err
}

// Save inserts a member row and returns the generated ID.
func (r *MemberPostgres) Save(ctx context.Context, m *model.Member) (int64, error) {
	const q = `
		INSERT INTO members (name, city, street, zipcode)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	var id int64
	if err := r.db.QueryRowContext(ctx, q,
		m.Name,
		m.Address.City,
		m.Address.Street,
		m.Address.Zipcode,
	).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// FindByID fetches a single member by its ID.
func (r *MemberPostgres) FindByID(ctx context.Context, id int64) (*model.Member, error) {
	const q = `SELECT ` + memberColumns + ` FROM members WHERE id = $1`
	m, err := scanMember(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindAll returns every member ordered by ID.
func (r *MemberPostgres) FindAll(ctx context.Context) ([]model.Member, error) {
	const q = `SELECT ` + memberColumns + ` FROM members ORDER BY id`
	return r.list(ctx, q)
}

// FindByName returns the members sharing a name (zero or one with the unique constraint).
func (r *MemberPostgres) FindByName(ctx context.Context, name string) ([]model.Member, error) {
	const q = `SELECT ` + memberColumns + ` FROM members WHERE name = $1`
	return r.list(ctx, q, name)
}

// UpdateName renames a member.
func (r *MemberPostgres) UpdateName(ctx context.Context, id int64, name string) error {
	const q = `UPDATE members SET name = $1 WHERE id = $2`
	return execOne(ctx, r.db, q, name, id)
}

// Count returns the number of member rows.
func (r *MemberPostgres) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM members`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *MemberPostgres) list(ctx context.Context, q string, args ...any) ([]model.Member, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]model.Member, 0)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return members, nil
}
