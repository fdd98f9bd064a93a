package handler

import (
	"github.com/gofiber/fiber/v2"

	"shopapi/internal/model"
	"shopapi/internal/service"
	"shopapi/internal/validation"
)

// CreateMemberRequest is the v2 registration body.
type CreateMemberRequest struct {
	Name string `json:"name" validate:"required"`
}

// CreateMemberResponse carries the ID of a registered member.
type CreateMemberResponse struct {
	ID int64 `json:"id"`
}

// UpdateMemberRequest renames a member.
type UpdateMemberRequest struct {
	Name string `json:"name" validate:"required"`
}

// UpdateMemberResponse echoes the renamed member.
type UpdateMemberResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ListMembersV1 returns members as stored.
//
// @Summary  List members (raw)
// @Tags     members
// @Produce  json
// @Success  200 {array} model.Member
// @Router   /api/v1/members [get]
func ListMembersV1(svc service.MemberService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		members, err := svc.FindMembers(c.UserContext())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(members)
	}
}

// ListMembersV2 returns member names wrapped with a count.
//
// @Summary  List members
// @Tags     members
// @Produce  json
// @Success  200 {object} service.Result[service.MemberDto]
// @Router   /api/v2/members [get]
func ListMembersV2(svc service.MemberService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		members, err := svc.FindMembers(c.UserContext())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(service.NewResult(service.ToMemberDtos(members)))
	}
}

// SaveMemberV1 registers a member from a raw member body.
//
// @Summary  Register member (raw body)
// @Tags     members
// @Accept   json
// @Produce  json
// @Param    member body model.Member true "member"
// @Success  200 {object} CreateMemberResponse
// @Failure  400 {object} errorPayload
// @Failure  409 {object} errorPayload
// @Router   /api/v1/members [post]
func SaveMemberV1(svc service.MemberService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var m model.Member
		if err := validation.BindAndValidate(c, &m); err != nil {
			return respondError(c, err)
		}
		m.ID = 0
		id, err := svc.Join(c.UserContext(), &m)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(CreateMemberResponse{ID: id})
	}
}

// SaveMemberV2 registers a member from CreateMemberRequest.
//
// @Summary  Register member
// @Tags     members
// @Accept   json
// @Produce  json
// @Param    member body CreateMemberRequest true "member"
// @Success  200 {object} CreateMemberResponse
// @Failure  400 {object} errorPayload
// @Failure  409 {object} errorPayload
// @Router   /api/v2/members [post]
func SaveMemberV2(svc service.MemberService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req CreateMemberRequest
		if err := validation.BindAndValidate(c, &req); err != nil {
			return respondError(c, err)
		}
		id, err := svc.Join(c.UserContext(), &model.Member{Name: req.Name})
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(CreateMemberResponse{ID: id})
	}
}

// UpdateMemberV2 renames a member.
//
// @Summary  Rename member
// @Tags     members
// @Accept   json
// @Produce  json
// @Param    id path int true "member id"
// @Param    member body UpdateMemberRequest true "new name"
// @Success  200 {object} UpdateMemberResponse
// @Failure  400 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Router   /api/v2/members/{id} [put]
func UpdateMemberV2(svc service.MemberService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return respondError(c, err)
		}
		var req UpdateMemberRequest
		if err := validation.BindAndValidate(c, &req); err != nil {
			return respondError(c, err)
		}
		m, err := svc.Update(c.UserContext(), id, req.Name)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(UpdateMemberResponse{ID: m.ID, Name: m.Name})
	}
}
