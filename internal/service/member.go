package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"shopapi/internal/database"
	"shopapi/internal/model"
	"shopapi/internal/repository"
)

// memberNameConstraint is the unique constraint backing the duplicate check.
const memberNameConstraint = "uk_members_name"

// MemberDto is the public shape of a member in list responses.
type MemberDto struct {
	Name string `json:"name"`
}

// MemberService defines the use cases for members.
type MemberService interface {
	// Join registers a member. Names are unique: a second member with the
	// same name fails with ErrDuplicateMember.
	Join(ctx context.Context, m *model.Member) (int64, error)

	// FindMembers returns every member.
	FindMembers(ctx context.Context) ([]model.Member, error)

	// FindOne returns a member by ID.
	FindOne(ctx context.Context, id int64) (*model.Member, error)

	// Update renames a member and returns the updated member.
	Update(ctx context.Context, id int64, name string) (*model.Member, error)
}

type memberService struct {
	repo repository.MemberRepository
}

// NewMemberService constructs a new MemberService.
func NewMemberService(repo repository.MemberRepository) MemberService {
	return &memberService{repo: repo}
}

func (s *memberService) Join(ctx context.Context, m *model.Member) (int64, error) {
	m.Name = strings.TrimSpace(m.Name)
	if m.Name == "" {
		return 0, ErrNameRequired
	}
	if err := s.validateDuplicateMember(ctx, m.Name); err != nil {
		return 0, err
	}

	// The lookup above races with concurrent joins; the unique constraint settles it.
	id, err := s.repo.Save(ctx, m)
	if err != nil {
		if database.IsUniqueViolation(err, memberNameConstraint) {
			return 0, ErrDuplicateMember
		}
		return 0, fmt.Errorf("save member: %w", err)
	}
	m.ID = id
	return id, nil
}

func (s *memberService) validateDuplicateMember(ctx context.Context, name string) error {
	found, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return fmt.Errorf("find member by name: %w", err)
	}
	if len(found) > 0 {
		return ErrDuplicateMember
	}
	return nil
}

func (s *memberService) FindMembers(ctx context.Context) ([]model.Member, error) {
	return s.repo.FindAll(ctx)
}

func (s *memberService) FindOne(ctx context.Context, id int64) (*model.Member, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (s *memberService) Update(ctx context.Context, id int64, name string) (*model.Member, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if err := s.repo.UpdateName(ctx, id, name); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		case database.IsUniqueViolation(err, memberNameConstraint):
			return nil, ErrDuplicateMember
		}
		return nil, fmt.Errorf("update member: %w", err)
	}
	return s.FindOne(ctx, id)
}

// ToMemberDtos maps members to their list representation.
func ToMemberDtos(members []model.Member) []MemberDto {
	out := make([]MemberDto, 0, len(members))
	for _, m := range members {
		out = append(out, MemberDto{Name: m.Name})
	}
	return out
}
